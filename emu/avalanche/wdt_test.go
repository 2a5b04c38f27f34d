package avalanche

/*
 * Avalanche - Watchdog tests.
 *
 * Copyright 2025, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

import (
	"testing"
)

const wdtBase = 0x08610b00

// A complete unlock sequence lands the lock in the terminal state.
func TestWatchdogKickUnlock(t *testing.T) {
	av, _ := testMachine()

	av.Write32(wdtBase+wdtKickLock, 0x5555)
	r := av.Read32(wdtBase + wdtKickLock)
	if (r & 3) != 1 {
		t.Errorf("first stage not correct got: %08x", r)
	}
	av.Write32(wdtBase+wdtKickLock, 0xaaaa)
	r = av.Read32(wdtBase + wdtKickLock)
	if (r & 3) != 3 {
		t.Errorf("second stage not correct got: %08x", r)
	}
	av.Write32(wdtBase+wdtKick, 1)
	r = av.Read32(wdtBase + wdtKick)
	if r != 1 {
		t.Errorf("kick value not stored got: %08x", r)
	}
}

// Skipping the first stage leaves the lock short of terminal.
func TestWatchdogSkippedStage(t *testing.T) {
	av, _ := testMachine()

	av.Write32(wdtBase+wdtKickLock, 0xaaaa)
	r := av.Read32(wdtBase + wdtKickLock)
	if (r & 3) == 3 {
		t.Errorf("skipped stage reached terminal state got: %08x", r)
	}
}

// Each register has its own stage constants.
func TestWatchdogWrongConstant(t *testing.T) {
	av, _ := testMachine()

	// Kick constants do nothing for the change lock.
	av.Write32(wdtBase+wdtChangeLock, 0x5555)
	r := av.Read32(wdtBase + wdtChangeLock)
	if (r & 3) == 1 {
		t.Errorf("wrong constant advanced lock got: %08x", r)
	}
	av.Write32(wdtBase+wdtChangeLock, 0x6666)
	av.Write32(wdtBase+wdtChangeLock, 0xbbbb)
	r = av.Read32(wdtBase + wdtChangeLock)
	if (r & 3) != 3 {
		t.Errorf("change unlock not correct got: %08x", r)
	}
}

// The disable lock takes three stages.
func TestWatchdogDisableUnlock(t *testing.T) {
	av, _ := testMachine()

	av.Write32(wdtBase+wdtDisableLock, 0x7777)
	r := av.Read32(wdtBase + wdtDisableLock)
	if (r & 3) != 1 {
		t.Errorf("first stage not correct got: %08x", r)
	}
	av.Write32(wdtBase+wdtDisableLock, 0xcccc)
	r = av.Read32(wdtBase + wdtDisableLock)
	if (r & 3) != 2 {
		t.Errorf("second stage not correct got: %08x", r)
	}
	av.Write32(wdtBase+wdtDisableLock, 0xdddd)
	r = av.Read32(wdtBase + wdtDisableLock)
	if (r & 3) != 3 {
		t.Errorf("third stage not correct got: %08x", r)
	}
	// Jumping straight to the third stage from the start fails.
	av.Write32(wdtBase+wdtDisableLock, 0x7777)
	av.Write32(wdtBase+wdtDisableLock, 0xdddd)
	r = av.Read32(wdtBase + wdtDisableLock)
	if (r & 3) == 3 {
		t.Errorf("skipped second stage reached terminal got: %08x", r)
	}
}

// A first stage write restarts the sequence from any state.
func TestWatchdogRestart(t *testing.T) {
	av, _ := testMachine()

	av.Write32(wdtBase+wdtPrescaleLock, 0x5a5a)
	av.Write32(wdtBase+wdtPrescaleLock, 0xa5a5)
	av.Write32(wdtBase+wdtPrescaleLock, 0x5a5a)
	r := av.Read32(wdtBase + wdtPrescaleLock)
	if (r & 3) != 1 {
		t.Errorf("restart not correct got: %08x", r)
	}
	av.Write32(wdtBase+wdtPrescaleLock, 0xa5a5)
	r = av.Read32(wdtBase + wdtPrescaleLock)
	if (r & 3) != 3 {
		t.Errorf("second unlock not correct got: %08x", r)
	}
}
