/* Avalanche - VLYNQ serial bus ports.

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

   Only the register interface is emulated; the far side of the bus is
   a single simulated PCI device visible through the port 0 memory
   window.

*/

package avalanche

import (
	"github.com/rcornwell/avalanche/util/debug"
)

// Register offsets.
const (
	vlynqRevid = 0x00
	vlynqCtrl  = 0x04
	vlynqStat  = 0x08
)

const (
	vlynqRevision  = 0x00010206 // Revision 1.2.6
	vlynqCtrlReset = 0x00000001
	vlynqStatLink  = 0x00000001

	// Device ID answered inside the port 0 memory window.
	vlynq0DeviceOffset = 0x41000
	vlynq0DeviceID     = 0x9066104c
)

// Register reads. The revision is hard wired.
func vlynqRead(av *Avalanche, blk int, offset uint32) uint32 {
	if offset == vlynqRevid {
		return vlynqRevision
	}
	return getWord(av.store[blk], offset)
}

// Register writes. Dropping the reset bit brings the link up.
func vlynqWrite(av *Avalanche, blk int, offset uint32, value uint32) {
	if offset == vlynqCtrl {
		if (value & vlynqCtrlReset) == 0 {
			setWordBits(av.store[blk], vlynqStat, vlynqStatLink)
			debug.Debugf("vlynq", av.debugMsk, debugIO, "%s link up", blocks[blk].name)
		} else {
			clearWordBits(av.store[blk], vlynqStat, vlynqStatLink)
			debug.Debugf("vlynq", av.debugMsk, debugIO, "%s reset", blocks[blk].name)
		}
	}
	putWord(av.store[blk], offset, value)
}

// Port 0 memory window. One address answers a PCI device ID, the rest
// is plain backing memory.
func vlynq0MemRead(av *Avalanche, blk int, offset uint32) uint32 {
	if offset == vlynq0DeviceOffset {
		return vlynq0DeviceID
	}
	return getWord(av.store[blk], offset)
}
