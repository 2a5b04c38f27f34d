/* Avalanche - Clock controller.

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
	clockPowerCtrl = 0x00
)

// PLL status words. The lock bit reads clear while the word holds 4
// and set for any other value, the power up value 0 included.
var clockPllWords = map[uint32]bool{
	0x0c: true,
	0x14: true,
	0x1c: true,
	0x24: true,
}

// Power states selected by the top bits of the control word.
var clockPowerStates = [4]string{"run", "idle", "standby", "power down"}

// Register reads. PLL status words mirror the stored divisor with the
// lock bit folded in.
func clockRead(av *Avalanche, blk int, offset uint32) uint32 {
	value := getWord(av.store[blk], offset)
	if clockPllWords[offset] {
		if value == 4 {
			return value &^ 1
		}
		return value | 1
	}
	return value
}

// Register writes, plain storage. The control word traces power state
// changes.
func clockWrite(av *Avalanche, blk int, offset uint32, value uint32) {
	if offset == clockPowerCtrl {
		previous := getWord(av.store[blk], offset)
		if (previous >> 30) != (value >> 30) {
			debug.Debugf("clock", av.debugMsk, debugClock,
				"power state %s", clockPowerStates[value>>30])
		}
	}
	putWord(av.store[blk], offset, value)
}
