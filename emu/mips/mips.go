/*
Avalanche - CPU environment.

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

	The MIPS core itself is supplied by the hosting emulator. The
	peripheral complex only needs the slice of the CPU it can touch:
	the CP0 cause register, hardware interrupt line 0 and the machine
	reset request.
*/

package mips

// CP0 cause bit for hardware interrupt line 0.
const CauseIP2 uint32 = 0x00000400

// CPU holds the environment the peripheral complex interacts with.
type CPU struct {
	Cause uint32 // CP0 cause register

	irq   bool   // Hardware interrupt line 0 level
	reset func() // Machine reset request callback
}

// New returns a CPU environment. reset is invoked when a guest write
// requests a system reset; it may be nil.
func New(reset func()) *CPU {
	return &CPU{reset: reset}
}

// Set the level of hardware interrupt line 0.
func (cpu *CPU) SetIRQ(level bool) {
	cpu.irq = level
}

// Current level of hardware interrupt line 0.
func (cpu *CPU) IRQ() bool {
	return cpu.irq
}

// Ask the host to reset the machine.
func (cpu *CPU) RequestReset() {
	if cpu.reset != nil {
		cpu.reset()
	}
}
