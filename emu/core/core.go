/*
   Core Avalanche emulator loop.

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

package core

import (
	"log/slog"
	"sync"
	"time"

	"github.com/rcornwell/avalanche/emu/avalanche"
	"github.com/rcornwell/avalanche/emu/event"
	"github.com/rcornwell/avalanche/emu/master"
)

// All machine mutation happens on the Start goroutine; the telnet
// servers and the monitor only talk to it over the master channel.
type Core struct {
	wg      sync.WaitGroup
	done    chan struct{} // Signal to shutdown simulator.
	running bool          // Indicate when simulator should run or not.
	master  chan master.Packet
	machine *avalanche.Avalanche
}

// Create instance of the emulator core.
func NewCore(machine *avalanche.Avalanche, master chan master.Packet) *Core {
	return &Core{
		machine: machine,
		master:  master,
		done:    make(chan struct{}),
		running: true,
	}
}

// The machine being run.
func (core *Core) Machine() *avalanche.Avalanche {
	return core.machine
}

// Post a control message to the core loop.
func (core *Core) Post(packet master.Packet) {
	core.master <- packet
}

// Run the machine.
func (core *Core) Start() {
	core.wg.Add(1)
	defer core.wg.Done()
	tick := time.NewTicker(time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case <-core.done:
			slog.Info("Shutdown emulator core")
			return
		case packet := <-core.master:
			core.processPacket(packet)
		case <-tick.C:
			if core.running && event.AnyEvent() {
				event.Advance(1)
			}
		}
	}
}

// Stop a running server.
func (core *Core) Stop() {
	close(core.done)
	done := make(chan struct{})
	go func() {
		core.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return
	case <-time.After(time.Second):
		slog.Warn("Timed out waiting for emulator to finish.")
		return
	}
}

// Process a packet sent to system simulation.
func (core *Core) processPacket(packet master.Packet) {
	uart := core.machine.UART(int(packet.DevNum))
	switch packet.Msg {
	case master.TelConnect:
		if uart != nil {
			uart.Connect(packet.Conn)
		}
	case master.TelDisconnect:
		if uart != nil {
			uart.Disconnect()
		}
	case master.TelReceive:
		if uart != nil {
			uart.ReceiveChar(packet.Data)
		}
	case master.Reset:
		core.machine.Reset()
	case master.Start:
		core.running = true
	case master.Stop:
		core.running = false
	}
}
