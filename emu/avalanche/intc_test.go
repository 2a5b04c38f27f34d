package avalanche

/*
 * Avalanche - Interrupt controller tests.
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

const (
	intcBase    = 0x08612400
	intcEsr1Reg = intcBase + 8*4
	intcEsr2Reg = intcBase + 9*4
	intcEcr1Reg = intcBase + 12*4
	intcVecReg  = intcBase + 16*4
)

// Enable set words or into the masks, clear words clear.
func TestIntcEnableMask(t *testing.T) {
	av, _ := testMachine()

	av.Write32(intcEsr1Reg, 0x00090000)
	if av.intmask[0] != 0x00090000 {
		t.Errorf("intmask0 not correct got: %08x expected: %08x", av.intmask[0], 0x00090000)
	}
	av.Write32(intcEsr1Reg, 0x00000002)
	if av.intmask[0] != 0x00090002 {
		t.Errorf("intmask0 or not correct got: %08x expected: %08x", av.intmask[0], 0x00090002)
	}
	av.Write32(intcEcr1Reg, 0x00080000)
	if av.intmask[0] != 0x00010002 {
		t.Errorf("intmask0 clear not correct got: %08x expected: %08x", av.intmask[0], 0x00010002)
	}
	av.Write32(intcEsr2Reg, 0x00000003)
	if av.intmask[1] != 0x00000003 {
		t.Errorf("intmask1 not correct got: %08x expected: %08x", av.intmask[1], 0x00000003)
	}
}

// A masked line raises nothing.
func TestIntcGating(t *testing.T) {
	av, cpu := testMachine()

	av.AssertLine(27, 1)
	if cpu.IRQ() {
		t.Errorf("masked irq raised cpu line")
	}
	if (cpu.Cause & mips.CauseIP2) != 0 {
		t.Errorf("masked irq set cause got: %08x", cpu.Cause)
	}
	r := av.Read32(intcVecReg)
	if r != 0 {
		t.Errorf("masked irq set vector got: %08x", r)
	}
}

// An enabled line reports its channel in the vector and sets the cause
// bit; dropping the line clears everything.
func TestIntcDelivery(t *testing.T) {
	av, cpu := testMachine()

	av.Write32(intcEsr1Reg, 1<<19)
	av.AssertLine(27, 1)
	if !cpu.IRQ() {
		t.Errorf("enabled irq did not raise cpu line")
	}
	if (cpu.Cause & mips.CauseIP2) == 0 {
		t.Errorf("enabled irq did not set cause got: %08x", cpu.Cause)
	}
	r := av.Read32(intcVecReg)
	if r != (19<<16 | 19) {
		t.Errorf("vector not correct got: %08x expected: %08x", r, 19<<16|19)
	}

	av.AssertLine(27, 0)
	if cpu.IRQ() {
		t.Errorf("irq still raised after deassert")
	}
	if (cpu.Cause & mips.CauseIP2) != 0 {
		t.Errorf("cause still set after deassert got: %08x", cpu.Cause)
	}
	r = av.Read32(intcVecReg)
	if r != 0 {
		t.Errorf("vector not cleared got: %08x", r)
	}
}

// Serial line 15 delivers on channel 7.
func TestIntcSerialLine(t *testing.T) {
	av, cpu := testMachine()

	av.Write32(intcEsr1Reg, 1<<7)
	av.AssertLine(15, 1)
	if !cpu.IRQ() {
		t.Errorf("serial irq did not raise cpu line")
	}
	r := av.Read32(intcVecReg)
	if r != (7<<16 | 7) {
		t.Errorf("vector not correct got: %08x expected: %08x", r, 7<<16|7)
	}
}

// Lines the controller does not wire are ignored.
func TestIntcStrayLine(t *testing.T) {
	av, cpu := testMachine()

	av.Write32(intcEsr1Reg, 0xffffffff)
	av.Write32(intcEsr2Reg, 0xffffffff)
	av.AssertLine(20, 1)
	if cpu.IRQ() {
		t.Errorf("stray irq raised cpu line")
	}
}

// CPMAC 1 sits in the second enable bank.
func TestIntcSecondBank(t *testing.T) {
	av, cpu := testMachine()

	av.AssertLine(41, 1)
	if cpu.IRQ() {
		t.Errorf("masked cpmac1 irq raised cpu line")
	}
	av.Write32(intcEsr2Reg, 1<<1)
	av.AssertLine(41, 1)
	if !cpu.IRQ() {
		t.Errorf("cpmac1 irq did not raise cpu line")
	}
	r := av.Read32(intcVecReg)
	if r != (33<<16 | 33) {
		t.Errorf("vector not correct got: %08x expected: %08x", r, 33<<16|33)
	}
}
