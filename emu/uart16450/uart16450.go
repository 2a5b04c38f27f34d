/* Avalanche - 16450 serial line unit.

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

   Plain 16450, no FIFO. The guest talks to it a byte at a time through
   the MMIO bridge; the far side is a telnet console. Interrupts go to
   the on chip interrupt controller as serial line 15 or 16.

*/

package uart16450

import (
	"errors"
	"fmt"
	"net"

	"github.com/rcornwell/avalanche/emu/event"
	"github.com/rcornwell/avalanche/util/debug"
)

// Register ports.
const (
	regData    = 0 // Receive buffer / transmit holding / divisor low
	regIER     = 1 // Interrupt enable / divisor high
	regIIR     = 2 // Interrupt identification
	regLCR     = 3 // Line control
	regMCR     = 4 // Modem control
	regLSR     = 5 // Line status
	regMSR     = 6 // Modem status
	regScratch = 7 // Scratch pad
)

const (
	// Interrupt enable bits.
	ierRecv = 0x01 // Received data available
	ierXmit = 0x02 // Transmit holding register empty

	// Interrupt identification values.
	iirNone = 0x01 // No interrupt pending
	iirXmit = 0x02 // Transmit holding register empty
	iirRecv = 0x04 // Received data available

	// Line control bits.
	lcrDLAB = 0x80 // Divisor latch access

	// Line status bits.
	lsrDR   = 0x01 // Data ready
	lsrTHRE = 0x20 // Transmit holding register empty
	lsrTEMT = 0x40 // Transmitter empty
)

const (
	// Debug options.
	debugCmd    = 1 << iota // Log register access.
	debugLine               // Log data bytes.
	debugDetail             // Low level details.
)

var debugOption = map[string]int{
	"CMD":    debugCmd,
	"LINE":   debugLine,
	"DETAIL": debugDetail,
}

const xmitDelay = 100 // Cycles to drain the transmit holding register

// UART holds one 16450 serial line unit.
type UART struct {
	unit      int              // Unit number, for traces.
	ier       uint8            // Interrupt enable register.
	lcr       uint8            // Line control register.
	mcr       uint8            // Modem control register.
	lsr       uint8            // Line status register.
	msr       uint8            // Modem status register.
	scratch   uint8            // Scratch pad register.
	dll       uint8            // Divisor latch low.
	dlh       uint8            // Divisor latch high.
	thr       uint8            // Transmit holding register.
	inBuff    []byte           // Pending receive data.
	irq       func(level bool) // Interrupt line to the controller.
	irqLevel  bool             // Current interrupt line level.
	connected bool             // Console attached.
	conn      net.Conn         // Console connection.
	debugMsk  int              // Debug option mask.
}

// Create a new serial line unit. irq is called on each interrupt line
// transition; it may be nil.
func New(unit int, irq func(level bool)) *UART {
	uart := &UART{unit: unit, irq: irq}
	uart.Reset()
	return uart
}

// Return device to power up state.
func (uart *UART) Reset() {
	uart.ier = 0
	uart.lcr = 0
	uart.mcr = 0
	uart.lsr = lsrTHRE | lsrTEMT
	uart.msr = 0
	uart.scratch = 0
	uart.dll = 0
	uart.dlh = 0
	uart.inBuff = nil
	uart.updateIRQ()
}

// Enable debug options.
func (uart *UART) Debug(opt string) error {
	flag, ok := debugOption[opt]
	if !ok {
		return errors.New("uart debug option invalid: " + opt)
	}
	uart.debugMsk |= flag
	return nil
}

// One line of status for the monitor.
func (uart *UART) Show() string {
	str := fmt.Sprintf("uart%d:", uart.unit)
	if uart.connected {
		str += " connected"
	} else {
		str += " idle"
	}
	return str
}

// Guest read of a register.
func (uart *UART) In8(port uint8) uint8 {
	var value uint8

	switch port {
	case regData:
		if (uart.lcr & lcrDLAB) != 0 {
			value = uart.dll
			break
		}
		if len(uart.inBuff) != 0 {
			value = uart.inBuff[0]
			uart.inBuff = uart.inBuff[1:]
		}
		if len(uart.inBuff) == 0 {
			uart.lsr &^= lsrDR
		}
		uart.updateIRQ()
	case regIER:
		if (uart.lcr & lcrDLAB) != 0 {
			value = uart.dlh
			break
		}
		value = uart.ier
	case regIIR:
		switch {
		case (uart.ier&ierRecv) != 0 && (uart.lsr&lsrDR) != 0:
			value = iirRecv
		case (uart.ier&ierXmit) != 0 && (uart.lsr&lsrTHRE) != 0:
			value = iirXmit
		default:
			value = iirNone
		}
	case regLCR:
		value = uart.lcr
	case regMCR:
		value = uart.mcr
	case regLSR:
		value = uart.lsr
	case regMSR:
		value = uart.msr
	case regScratch:
		value = uart.scratch
	}
	debug.DebugDevf("uart", uart.unit, uart.debugMsk, debugCmd, "in %d -> %02x", port, value)
	return value
}

// Guest write of a register.
func (uart *UART) Out8(port uint8, value uint8) {
	debug.DebugDevf("uart", uart.unit, uart.debugMsk, debugCmd, "out %d <- %02x", port, value)
	switch port {
	case regData:
		if (uart.lcr & lcrDLAB) != 0 {
			uart.dll = value
			break
		}
		uart.thr = value
		uart.lsr &^= lsrTHRE | lsrTEMT
		uart.updateIRQ()
		event.AddEvent(uart, uart.xmitDone, xmitDelay, int(value))
	case regIER:
		if (uart.lcr & lcrDLAB) != 0 {
			uart.dlh = value
			break
		}
		uart.ier = value & 0x0f
		uart.updateIRQ()
	case regIIR:
		// FIFO control on larger parts, ignored on a 16450.
	case regLCR:
		uart.lcr = value
	case regMCR:
		uart.mcr = value & 0x1f
	case regLSR:
	case regMSR:
	case regScratch:
		uart.scratch = value
	}
}

// Transmit holding register drained.
func (uart *UART) xmitDone(value int) {
	if uart.connected {
		_, err := uart.conn.Write([]byte{uint8(value)})
		if err != nil {
			fmt.Println("Telnet error: ", err)
		}
	}
	debug.DebugDevf("uart", uart.unit, uart.debugMsk, debugLine, "xmit %02x", value)
	uart.lsr |= lsrTHRE | lsrTEMT
	uart.updateIRQ()
}

// Recompute the interrupt line from enable and status bits.
func (uart *UART) updateIRQ() {
	level := false
	if (uart.ier&ierRecv) != 0 && (uart.lsr&lsrDR) != 0 {
		level = true
	}
	if (uart.ier&ierXmit) != 0 && (uart.lsr&lsrTHRE) != 0 {
		level = true
	}
	if level != uart.irqLevel {
		uart.irqLevel = level
		if uart.irq != nil {
			uart.irq(level)
		}
	}
}

// Connect to new console.
func (uart *UART) Connect(conn net.Conn) {
	uart.connected = true
	uart.conn = conn
}

// Disconnect from console.
func (uart *UART) Disconnect() {
	uart.connected = false
	uart.conn = nil
}

// Input from the console.
func (uart *UART) ReceiveChar(data []byte) {
	if len(data) == 0 {
		return
	}
	uart.inBuff = append(uart.inBuff, data...)
	uart.lsr |= lsrDR
	debug.DebugDevf("uart", uart.unit, uart.debugMsk, debugDetail, "recv %d bytes", len(data))
	uart.updateIRQ()
}
