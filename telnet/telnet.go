/*
 * Avalanche - telnet server
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

package telnet

import (
	"net"

	D "github.com/rcornwell/avalanche/emu/device"
	"github.com/rcornwell/avalanche/emu/master"
)

// Telnet protocol constants.

const (
	tnIAC  byte = 255 // protocol delim
	tnDONT byte = 254 // dont
	tnDO   byte = 253 // do
	tnWONT byte = 252 // wont
	tnWILL byte = 251 // will
	tnSB   byte = 250 // Sub negotiations begin
	tnBRK  byte = 243 // break
	tnSE   byte = 240 // Sub negotiations end

	// Telnet line states.

	tnStateData int = 1 + iota // normal
	tnStateIAC                 // IAC seen
	tnStateWILL                // WILL seen
	tnStateDO                  // DO seen
	tnStateDONT                // DONT seen
	tnStateWONT                // WONT seen
	tnStateSKIP                // skip next cmd
	tnStateSB                  // Start of SB expect type
	tnStateSE                  // Waiting for SE

	// Telnet options.
	tnOptionBinary byte = 0  // Binary data transfer
	tnOptionEcho   byte = 1  // Echo
	tnOptionSGA    byte = 3  // Send Go Ahead
	tnOptionLINE   byte = 34 // line mode

	// Telnet flags.
	tnFlagDo   uint8 = 0x01 // Do received
	tnFlagDont uint8 = 0x02 // Don't received
	tnFlagWill uint8 = 0x04 // Will received
	tnFlagWont uint8 = 0x08 // Wont received
)

// Interface for receiving telnet messages.
type Telnet interface {
	Connect(conn net.Conn)
	ReceiveChar(data []byte)
	Disconnect()
}

var initString = []byte{
	tnIAC, tnWONT, tnOptionLINE,
	tnIAC, tnWILL, tnOptionEcho,
	tnIAC, tnWILL, tnOptionSGA,
	tnIAC, tnWILL, tnOptionBinary,
}

type tnState struct {
	optionState [256]uint8         // Current state of telnet session
	sbtype      byte               // Type of SB being received
	state       int                // Current line State
	port        string             // Listener port the client arrived on
	dev         Telnet             // Pointer to where to send data.
	devNum      uint16             // Device address
	conn        net.Conn           // Client connection.
	master      chan master.Packet // Channel to send messages to.
}

// Send a response to client, and note what we sent.
func (state *tnState) sendOption(setState, option byte) {
	data := []byte{tnIAC, setState, option}
	_, _ = state.conn.Write(data)
	switch setState {
	case tnWILL:
		state.optionState[option] |= tnFlagWill
	case tnWONT:
		state.optionState[option] |= tnFlagWont
	case tnDO:
		state.optionState[option] |= tnFlagDo
	case tnDONT:
		state.optionState[option] |= tnFlagDont
	}
}

// Handle DO response.
func (state *tnState) handleDO(input byte) {
	switch input {
	case tnOptionSGA, tnOptionEcho:
		if (state.optionState[input] & tnFlagWill) != 0 {
			state.optionState[input] |= tnFlagDont
		}
	case tnOptionBinary:
		if (state.optionState[input] & tnFlagDo) == 0 {
			state.sendOption(tnDO, input)
		}
	default:
		if (state.optionState[input] & tnFlagWont) == 0 {
			state.sendOption(tnWONT, input)
		}
	}
}

// Handle WILL response.
func (state *tnState) handleWILL(input byte) {
	switch input {
	case tnOptionSGA:
		if (state.optionState[input] & tnFlagWill) == 0 {
			state.sendOption(tnDO, input)
		}
	case tnOptionEcho:
		if (state.optionState[input] & tnFlagWill) == 0 {
			state.optionState[input] |= tnFlagWill
			state.sendOption(tnDONT, input)
			state.sendOption(tnWONT, input)
		}
	case tnOptionBinary:
		state.optionState[input] |= tnFlagWill
	default:
		if (state.optionState[input] & tnFlagDont) == 0 {
			state.sendOption(tnDONT, input)
		}
	}
}

// Handle client connection.
func handleClient(conn net.Conn, master chan master.Packet, port string) {
	defer conn.Close()
	var out []byte

	state := tnState{conn: conn, state: tnStateData, devNum: D.NoDev, port: port}
	buffer := make([]byte, 1024)
	state.master = master

	_, _ = state.conn.Write(initString)

	// Consoles are plain byte pipes; bind to a free one right away.
	if !state.findTerminal() {
		_, _ = conn.Write([]byte("All consoles on this port are busy\r\n"))
		return
	}
	state.SendConnect()
	defer state.SendDisconnect()

	for {
		num, err := state.conn.Read(buffer)
		if err != nil {
			return
		}
		out = []byte{}
		for i := 0; i < num; i++ {
			input := buffer[i]
			switch state.state {
			case tnStateData: // normal
				if input == tnIAC {
					state.state = tnStateIAC
				} else {
					out = append(out, input)
				}
			case tnStateIAC: // IAC seen
				switch input {
				case tnIAC:
					// Doubled IAC is a data byte.
					out = append(out, input)
					state.state = tnStateData
				case tnBRK:
					state.state = tnStateData
				case tnWILL:
					state.state = tnStateWILL
				case tnWONT:
					state.state = tnStateWONT
				case tnDO:
					state.state = tnStateDO
				case tnDONT:
					state.state = tnStateDONT
				case tnSB:
					state.state = tnStateSB
				default:
					state.state = tnStateSKIP
				}

			case tnStateWILL: // WILL seen
				state.handleWILL(input)
				state.state = tnStateData

			case tnStateWONT: // WONT seen
				if (state.optionState[input] & tnFlagWont) == 0 {
					state.sendOption(tnWONT, input)
				}
				state.state = tnStateData

			case tnStateDO: // DO seen
				state.handleDO(input)
				state.state = tnStateData

			case tnStateDONT:
				state.state = tnStateData

			case tnStateSKIP: // skip next cmd
				state.state = tnStateData

			case tnStateSB: // Start of SB expect type
				state.sbtype = input
				state.state = tnStateSE

			case tnStateSE:
				if input == tnSE {
					state.state = tnStateData
				}
			}
		}
		if len(out) != 0 {
			// sent to master.
			state.SendReceiveChar(out)
		}
	}
}
