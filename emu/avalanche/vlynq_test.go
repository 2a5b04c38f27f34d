package avalanche

/*
 * Avalanche - VLYNQ tests.
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

// Both ports report the wired revision.
func TestVlynqRevision(t *testing.T) {
	av, _ := testMachine()

	r := av.Read32(0x08611800)
	if r != 0x00010206 {
		t.Errorf("vlynq0 revision not correct got: %08x expected: %08x", r, 0x00010206)
	}
	r = av.Read32(0x08611c00)
	if r != 0x00010206 {
		t.Errorf("vlynq1 revision not correct got: %08x expected: %08x", r, 0x00010206)
	}
}

// Dropping the reset bit brings the link up, raising it takes it down.
func TestVlynqLink(t *testing.T) {
	av, _ := testMachine()

	av.Write32(0x08611804, 0)
	r := av.Read32(0x08611808)
	if (r & 1) == 0 {
		t.Errorf("link not up got: %08x", r)
	}
	av.Write32(0x08611804, 1)
	r = av.Read32(0x08611808)
	if (r & 1) != 0 {
		t.Errorf("link not down got: %08x", r)
	}
}

// The port 0 window answers a PCI device ID at its probe address.
func TestVlynqDeviceID(t *testing.T) {
	av, _ := testMachine()

	r := av.Read32(0x04041000)
	if r != 0x9066104c {
		t.Errorf("device id not correct got: %08x expected: %08x", r, 0x9066104c)
	}
	// Writes to the probe address do not change the answer.
	av.Write32(0x04041000, 0x12345678)
	r = av.Read32(0x04041000)
	if r != 0x9066104c {
		t.Errorf("device id after write not correct got: %08x expected: %08x", r, 0x9066104c)
	}
}
