/* Avalanche - Reset controller.

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

*/

package avalanche

import (
	"github.com/rcornwell/avalanche/util/debug"
)

// Register offsets.
const (
	resetPeriph = 0x00 // Peripheral reset bits
	resetSystem = 0x04 // Any write resets the machine
)

// Peripheral behind each bit of the peripheral reset register.
var resetNames = [32]string{
	"uart0", "uart1", "i2c", "timer0", "timer1", "reserved5", "gpio", "adsl",
	"usb", "atmsar", "reserved10", "vdma", "fser", "reserved13", "reserved14", "reserved15",
	"vlynq1", "cpmac0", "mcdma", "bist", "vlynq0", "cpmac1", "mdio", "dsp",
	"reserved24", "reserved25", "ephy", "reserved27", "reserved28", "reserved29", "reserved30", "reserved31",
}

// Register writes. The peripheral word traces which blocks came out of
// or went into reset; the system word reboots the machine.
func resetWrite(av *Avalanche, blk int, offset uint32, value uint32) {
	switch offset {
	case resetPeriph:
		previous := getWord(av.store[blk], offset)
		diff := previous ^ value
		for bit := 0; bit < 32; bit++ {
			mask := uint32(1) << bit
			if (diff & mask) == 0 {
				continue
			}
			if (value & mask) != 0 {
				debug.Debugf("reset", av.debugMsk, debugReset, "%s enabled", resetNames[bit])
			} else {
				debug.Debugf("reset", av.debugMsk, debugReset, "%s disabled", resetNames[bit])
			}
		}
		putWord(av.store[blk], offset, value)

	case resetSystem:
		debug.Debugf("reset", av.debugMsk, debugReset, "system reset requested")
		av.cpu.RequestReset()

	default:
		putWord(av.store[blk], offset, value)
	}
}
