/* Avalanche - Watchdog timer.

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

   Only the unlock protocol is checked; the timer never bites. Each
   value register is protected by its own lock, and the lock records
   its unlock progress in its low two bits.

*/

package avalanche

import (
	"github.com/rcornwell/avalanche/util/debug"
)

// Word offsets in the watchdog bank.
const (
	wdtKickLock     = 0x00
	wdtKick         = 0x04
	wdtChangeLock   = 0x08
	wdtChange       = 0x0c
	wdtDisableLock  = 0x10
	wdtDisable      = 0x14
	wdtPrescaleLock = 0x18
	wdtPrescale     = 0x1c
)

// Unlock stage constants per lock register.
var wdtStages = map[uint32][]uint32{
	wdtKickLock:     {0x5555, 0xaaaa},
	wdtChangeLock:   {0x6666, 0xbbbb},
	wdtDisableLock:  {0x7777, 0xcccc, 0xdddd},
	wdtPrescaleLock: {0x5a5a, 0xa5a5},
}

// Names for traces.
var wdtNames = map[uint32]string{
	wdtKick:     "kick",
	wdtChange:   "change",
	wdtDisable:  "disable",
	wdtPrescale: "prescale",
}

// Register writes. Locks walk their stages; value registers check that
// their lock reached the terminal stage.
func wdtWrite(av *Avalanche, blk int, offset uint32, value uint32) {
	if stages, ok := wdtStages[offset]; ok {
		av.wdtLockWrite(blk, offset, value, stages)
		return
	}
	if name, ok := wdtNames[offset]; ok {
		state := getWord(av.store[blk], offset-4) & 3
		if state != 3 {
			debug.Debugf("wdt", av.debugMsk, debugUnexp,
				"%s write %08x with lock state %d UNEXPECTED", name, value, state)
		} else {
			debug.Debugf("wdt", av.debugMsk, debugWdt, "%s <- %08x", name, value)
		}
		putWord(av.store[blk], offset, value)
		return
	}
	putWord(av.store[blk], offset, value)
}

// Advance a lock through its stages. A write of the stage n constant
// is only honored when the lock sits at stage n-1; the last stage
// always lands the lock in state 3.
func (av *Avalanche) wdtLockWrite(blk int, offset uint32, value uint32, stages []uint32) {
	state := getWord(av.store[blk], offset) & 3
	for n, constant := range stages {
		if (value & 0xffff) != constant {
			continue
		}
		// The first stage always restarts the sequence; later stages
		// need the one before them complete.
		if n != 0 && uint32(n) != state {
			break
		}
		next := uint32(n) + 1
		if n == len(stages)-1 {
			next = 3
		}
		putWord(av.store[blk], offset, (value&^3)|next)
		debug.Debugf("wdt", av.debugMsk, debugWdt,
			"lock %02x stage %d", offset, next)
		return
	}
	// Out of order writes leave the lock alone so a stray value can
	// not fabricate an unlock state.
	debug.Debugf("wdt", av.debugMsk, debugUnexp,
		"lock %02x write %08x in state %d UNEXPECTED", offset, value, state)
}
