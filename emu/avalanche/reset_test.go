package avalanche

/*
 * Avalanche - Reset controller tests.
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

	"github.com/rcornwell/avalanche/emu/mips"
)

// A write to the system reset word calls the host back exactly once.
func TestSystemReset(t *testing.T) {
	count := 0
	cpu := mips.New(func() { count++ })
	av := New(cpu)

	av.Write32(0x08611604, 0xdeadbeef)
	if count != 1 {
		t.Errorf("reset count not correct got: %d expected: %d", count, 1)
	}
}

// The peripheral reset word is storage with a traced diff.
func TestPeripheralReset(t *testing.T) {
	av, _ := testMachine()

	av.Write32(0x08611600, 0x00020001)
	r := av.Read32(0x08611600)
	if r != 0x00020001 {
		t.Errorf("peripheral reset not correct got: %08x expected: %08x", r, 0x00020001)
	}
	av.Write32(0x08611600, 0x00020000)
	r = av.Read32(0x08611600)
	if r != 0x00020000 {
		t.Errorf("peripheral reset not correct got: %08x expected: %08x", r, 0x00020000)
	}
}

// Other words in the block are plain storage.
func TestResetStorage(t *testing.T) {
	av, _ := testMachine()

	av.Write32(0x08611608, 0x12345678)
	r := av.Read32(0x08611608)
	if r != 0x12345678 {
		t.Errorf("reset storage not correct got: %08x expected: %08x", r, 0x12345678)
	}
}
