/* Avalanche - MDIO management interface.

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

   The guest drives PHY transactions through the useraccess register.
   The internal PHY answers at address 31 with a handful of registers;
   reset and renegotiate complete on the spot instead of taking the
   milliseconds real silicon would.

*/

package avalanche

import (
	"github.com/rcornwell/avalanche/util/debug"
)

// Word offsets in the register bank.
const (
	mdioVer        = 0x00
	mdioControl    = 0x04
	mdioAlive      = 0x08
	mdioLink       = 0x0c
	mdioUserAccess = 0x80
)

// useraccess bit fields.
const (
	mdioGo       = 0x80000000
	mdioWriteBit = 0x40000000
	mdioAck      = 0x20000000
	mdioRegMask  = 0x03e00000
	mdioRegShift = 21
	mdioPhyMask  = 0x001f0000
	mdioPhyShift = 16
	mdioDataMask = 0x0000ffff
)

// PHY registers.
const (
	phyControlReg = 0
	phyStatusReg  = 1
	phyID1Reg     = 2
	phyID2Reg     = 3
	phyNwayAdvReg = 4
	phyNwayRemReg = 5
)

// PHY control bits.
const (
	phyReset           = 0x8000
	phyAutoNegotiateEn = 0x1000
	phyIsolate         = 0x0400
	phyRenegotiate     = 0x0200
)

// PHY status and advertisement bits.
const (
	nwayCapable = 0x0008
	nwayFD100   = 0x0100
	nwayHD100   = 0x0080
	nwayFD10    = 0x0040
	nwayHD10    = 0x0020
	nwayAuto    = 0x0001
)

// Internal PHY address and register count.
const (
	internalPhyAddr = 31
	internalPhyRegs = 6
)

// Register reads, all plain.
func mdioRead(av *Avalanche, blk int, offset uint32) uint32 {
	value := getWord(av.store[blk], offset)
	debug.Debugf("mdio", av.debugMsk, debugMdio, "read %02x -> %08x", offset, value)
	return value
}

// Register writes. Only useraccess has behavior.
func mdioWrite(av *Avalanche, blk int, offset uint32, value uint32) {
	switch offset {
	case mdioVer, mdioControl:
		debug.Debugf("mdio", av.debugMsk, debugMdio, "write %02x <- %08x", offset, value)
		putWord(av.store[blk], offset, value)
	case mdioUserAccess:
		av.mdioUserAccess(blk, value)
	default:
		putWord(av.store[blk], offset, value)
	}
}

// Run one PHY transaction. Completion is synchronous, so the guest
// never sees the go bit held.
func (av *Avalanche) mdioUserAccess(blk int, value uint32) {
	if (value & mdioGo) == 0 {
		putWord(av.store[blk], mdioUserAccess, value)
		return
	}

	write := (value & mdioWriteBit) != 0
	av.regaddr = (value & mdioRegMask) >> mdioRegShift
	av.phyaddr = (value & mdioPhyMask) >> mdioPhyShift
	av.mdiodata = value & mdioDataMask

	if av.phyaddr != internalPhyAddr || av.regaddr >= internalPhyRegs {
		debug.Debugf("mdio", av.debugMsk, debugMdio,
			"no phy at %d reg %d", av.phyaddr, av.regaddr)
		putWord(av.store[blk], mdioUserAccess, value)
		return
	}

	if write {
		debug.Debugf("mdio", av.debugMsk, debugMdio,
			"phy 0 reg %d <- %04x", av.regaddr, av.mdiodata)
		av.phy[0][av.regaddr] = uint16(av.mdiodata)
	} else {
		loaded := av.phy[0][av.regaddr]
		if av.regaddr == phyControlReg && (loaded&phyReset) != 0 {
			// Reset completes before the guest can poll it.
			loaded &^= phyReset
			loaded |= phyAutoNegotiateEn
			av.phy[0][phyControlReg] = loaded
		} else if av.regaddr == phyControlReg && (loaded&phyRenegotiate) != 0 {
			loaded &^= phyRenegotiate
			av.phy[0][phyControlReg] = loaded
			av.phy[0][phyStatusReg] = 0x782d
			av.phy[0][phyNwayRemReg] = av.phy[0][phyNwayAdvReg] | phyIsolate | phyReset
			putWord(av.store[blk], mdioLink, 0x80000000)
		}
		av.mdiodata = uint32(loaded)
		debug.Debugf("mdio", av.debugMsk, debugMdio,
			"phy 0 reg %d -> %04x", av.regaddr, av.mdiodata)
	}
	putWord(av.store[blk], mdioUserAccess, av.mdiodata&mdioDataMask)
}
