/*
Avalanche - Peripheral device interface.

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

package device

// Interface for devices to handle monitor commands.
type Device interface {
	Reset()                    // Return device to power up state.
	Debug(option string) error // Enable debug option.
	Show() string              // One line of status for the monitor.
}

// Interrupt lines the interrupt controller accepts. Everything else
// on the peripheral bus is stubbed and never interrupts.
const (
	IRQserial0 = 15 // UART 0
	IRQserial1 = 16 // UART 1
	IRQcpmac0  = 27 // Ethernet MAC 0
	IRQcpmac1  = 41 // Ethernet MAC 1
)

const (
	NoDev uint16 = 0xffff // Code for no device
)
