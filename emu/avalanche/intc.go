/* Avalanche - Interrupt controller.

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

   Two banks of enable masks gate forty odd peripheral lines onto CPU
   hardware interrupt line 0. The guest reads the winning channel from
   the vector word.

*/

package avalanche

import (
	"github.com/rcornwell/avalanche/emu/device"
	"github.com/rcornwell/avalanche/emu/mips"
	"github.com/rcornwell/avalanche/util/debug"
)

// Word indices in the controller bank.
const (
	intcSr1  = 0  // Status/set 1
	intcSr2  = 1  // Status/set 2
	intcCr1  = 4  // Clear 1
	intcCr2  = 5  // Clear 2
	intcEsr1 = 8  // Enable set 1
	intcEsr2 = 9  // Enable set 2
	intcEcr1 = 12 // Enable clear 1
	intcEcr2 = 13 // Enable clear 2
	intcVec  = 16 // Priority interrupt index
	intcMsr  = 17 // Masked status
)

// Controller writes. The enable set and clear words update the enable
// banks; everything else is plain storage.
func intcWrite(av *Avalanche, blk int, offset uint32, value uint32) {
	switch offset >> 2 {
	case intcEsr1:
		av.intmask[0] |= value
	case intcEsr2:
		av.intmask[1] |= value
	case intcEcr1:
		av.intmask[0] &^= value
	case intcEcr2:
		av.intmask[1] &^= value
	default:
		putWord(av.store[blk], offset, value)
	}
}

// Set or clear a peripheral interrupt line. Only the four wired lines
// are accepted; anything else is a stray and ignored.
func (av *Avalanche) AssertLine(irq int, level int) {
	switch irq {
	case device.IRQserial0, device.IRQserial1, device.IRQcpmac0, device.IRQcpmac1:
	default:
		debug.Debugf("intc", av.debugMsk, debugUnexp, "stray irq %d level %d", irq, level)
		return
	}

	channel := irq - 8
	bank := channel >> 5
	bit := uint32(1) << (channel & 31)
	if level != 0 {
		if (av.intmask[bank] & bit) == 0 {
			debug.Debugf("intc", av.debugMsk, debugIRQ, "irq %d masked", irq)
			return
		}
		putWord(av.store[blkIntc], intcVec*4, uint32(channel)<<16|uint32(channel))
		av.cpu.Cause |= mips.CauseIP2
		av.cpu.SetIRQ(true)
		debug.Debugf("intc", av.debugMsk, debugIRQ, "irq %d raised", irq)
	} else {
		putWord(av.store[blkIntc], intcVec*4, 0)
		av.cpu.Cause &^= mips.CauseIP2
		av.cpu.SetIRQ(false)
		debug.Debugf("intc", av.debugMsk, debugIRQ, "irq %d cleared", irq)
	}
}
