package avalanche

/*
 * Avalanche - Clock controller tests.
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

const clockBase = 0x08610a00

// The PLL status words fold the lock bit in unless the divisor holds
// the value 4.
func TestClockPllLock(t *testing.T) {
	av, _ := testMachine()

	for _, offset := range []uint32{0x0c, 0x14, 0x1c, 0x24} {
		av.Write32(clockBase+offset, 4)
		r := av.Read32(clockBase + offset)
		if r != 4 {
			t.Errorf("pll %02x with divisor 4 not correct got: %08x expected: %08x", offset, r, 4)
		}
		av.Write32(clockBase+offset, 0x10)
		r = av.Read32(clockBase + offset)
		if r != 0x11 {
			t.Errorf("pll %02x not correct got: %08x expected: %08x", offset, r, 0x11)
		}
		av.Write32(clockBase+offset, 5)
		r = av.Read32(clockBase + offset)
		if r != 5 {
			t.Errorf("pll %02x odd divisor not correct got: %08x expected: %08x", offset, r, 5)
		}
	}
}

// Non PLL words are plain storage.
func TestClockStorage(t *testing.T) {
	av, _ := testMachine()

	av.Write32(clockBase+0x10, 4)
	r := av.Read32(clockBase + 0x10)
	if r != 4 {
		t.Errorf("clock storage not correct got: %08x expected: %08x", r, 4)
	}
	av.Write32(clockBase, 0xc0000000)
	r = av.Read32(clockBase)
	if r != 0xc0000000 {
		t.Errorf("power control not correct got: %08x expected: %08x", r, 0xc0000000)
	}
}
