/* Avalanche - Machine state snapshots.

   Copyright (c) 2025, Richard Cornwell

   Permission is hereby granted, free of charge, to any person obtaining a
   copy of this software and associated documentation files (the "Software"),
   to deal in the Software without restriction, including without limitation
   the rights to use, copy, modify, merge, publish, distribute, sublicense,
   and/or sell copies of the Software, and to permit persons to whom the
   Software is furnished to do so, subject to the following conditions:

   The above copyright notice and this permission notice shall be included in
   all copies or substantial portions of the Software.

   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.  IN NO EVENT SHALL
   RICHARD CORNWELL BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
   IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
   CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.

   The snapshot is a flat little-endian image: a version byte followed
   by the interrupt masks, the MDIO scratch state, the PHY register
   file, the station addresses and every backing store in block order.
   The layout version is bumped whenever that order changes.

*/

package avalanche

import (
	"encoding/binary"
	"errors"
	"io"
)

// stateVersion is incremented whenever the image layout changes.
const stateVersion = 0

// ErrInvalidVersion is returned when a snapshot was written by a
// different layout version.
var ErrInvalidVersion = errors.New("avalanche: unsupported snapshot version")

// Write the machine state to w.
func (av *Avalanche) SaveState(w io.Writer) error {
	le := binary.LittleEndian

	if _, err := w.Write([]byte{stateVersion}); err != nil {
		return err
	}

	var word [4]byte
	for _, mask := range av.intmask {
		le.PutUint32(word[:], mask)
		if _, err := w.Write(word[:]); err != nil {
			return err
		}
	}
	for _, scratch := range []uint32{av.regaddr, av.phyaddr, av.mdiodata} {
		le.PutUint32(word[:], scratch)
		if _, err := w.Write(word[:]); err != nil {
			return err
		}
	}
	var half [2]byte
	for phy := range av.phy {
		for reg := range av.phy[phy] {
			le.PutUint16(half[:], av.phy[phy][reg])
			if _, err := w.Write(half[:]); err != nil {
				return err
			}
		}
	}
	for i := range av.nic {
		if _, err := w.Write(av.nic[i].Phys[:]); err != nil {
			return err
		}
	}
	for blk := range blocks {
		if _, err := w.Write(av.store[blk]); err != nil {
			return err
		}
	}
	return nil
}

// Restore the machine state from r. The packet backend and serial line
// bindings are left unchanged.
func (av *Avalanche) LoadState(r io.Reader) error {
	le := binary.LittleEndian

	var version [1]byte
	if _, err := io.ReadFull(r, version[:]); err != nil {
		return err
	}
	if version[0] != stateVersion {
		return ErrInvalidVersion
	}

	var word [4]byte
	for i := range av.intmask {
		if _, err := io.ReadFull(r, word[:]); err != nil {
			return err
		}
		av.intmask[i] = le.Uint32(word[:])
	}
	for _, scratch := range []*uint32{&av.regaddr, &av.phyaddr, &av.mdiodata} {
		if _, err := io.ReadFull(r, word[:]); err != nil {
			return err
		}
		*scratch = le.Uint32(word[:])
	}
	var half [2]byte
	for phy := range av.phy {
		for reg := range av.phy[phy] {
			if _, err := io.ReadFull(r, half[:]); err != nil {
				return err
			}
			av.phy[phy][reg] = le.Uint16(half[:])
		}
	}
	for i := range av.nic {
		if _, err := io.ReadFull(r, av.nic[i].Phys[:]); err != nil {
			return err
		}
	}
	for blk := range blocks {
		if _, err := io.ReadFull(r, av.store[blk]); err != nil {
			return err
		}
	}
	return nil
}
