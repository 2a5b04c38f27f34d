/*
Avalanche - Master control messages.

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

package master

import "net"

// Messages the telnet servers and the monitor can send to the core loop.
// Everything that mutates the machine goes through one of these so the
// core goroutine stays the single point of mutation.
const (
	TelConnect    = 1 + iota // New console connection
	TelDisconnect            // Console connection dropped
	TelReceive               // Input bytes from a console
	Reset                    // Request a system reset
	Start                    // Resume the machine
	Stop                     // Pause the machine
)

// Packet sent over the master channel.
type Packet struct {
	DevNum uint16   // Console device the message is for
	Msg    int      // One of the message codes above
	Data   []byte   // Input data for TelReceive
	Conn   net.Conn // Connection for TelConnect
}
