/*
 * Avalanche - telnet server, handle connection and link to console.
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
	"errors"
	"fmt"
	"strconv"
	"sync"

	config "github.com/rcornwell/avalanche/config/configparser"
	"github.com/rcornwell/avalanche/emu/master"
)

// Data held in map of available consoles.
type termMap struct {
	dev    Telnet // Device pointer
	devNum uint16 // Device number
	port   string // Port device is listening on.
	inUse  bool   // Device is in use.
}

type portMap struct {
	port    string     // Port to connect to.
	devices []*termMap // List of consoles on this port
}

var mapLock sync.Mutex

var terminals = map[uint16]*termMap{}

var ports = map[string]*portMap{}

var defaultPort string

// Send connection message.
func (state *tnState) SendConnect() {
	packet := master.Packet{DevNum: state.devNum, Msg: master.TelConnect, Conn: state.conn}
	state.master <- packet
}

// Send disconnect message.
func (state *tnState) SendDisconnect() {
	packet := master.Packet{DevNum: state.devNum, Msg: master.TelDisconnect}
	state.master <- packet
	mapLock.Lock()
	term := terminals[state.devNum]
	if term != nil {
		term.inUse = false
	}
	mapLock.Unlock()
	state.devNum = 0
}

// Send receive strings.
func (state *tnState) SendReceiveChar(data []byte) {
	packet := master.Packet{DevNum: state.devNum, Msg: master.TelReceive, Data: data}
	state.master <- packet
}

// Register a console device.
func RegisterTerminal(dev Telnet, devNum uint16, port string) error {
	// No need to lock map here since this will be used during configuration
	// Also should be no duplicates sent here.
	if port == "" {
		port = defaultPort
	}
	if port == "" {
		return errors.New("no port specified and no default port")
	}

	terminals[devNum] = &termMap{dev: dev, devNum: devNum, port: port}

	pm := registerPort(port)
	pm.devices = append(pm.devices, terminals[devNum])
	fmt.Printf("Registering console %d on port: %s\n", devNum, pm.port)
	return nil
}

// Find free console to connect to.
func (state *tnState) findTerminal() bool {
	// Lock the terminal map before searching it.
	mapLock.Lock()
	defer mapLock.Unlock()
	pm, ok := ports[state.port]
	if !ok {
		fmt.Println("Connection from unregistered port: " + state.port)
		return false
	}

	for _, term := range pm.devices {
		if term.inUse {
			continue
		}
		state.devNum = term.devNum
		state.dev = term.dev
		term.inUse = true
		return true
	}
	return false
}

// Register a port.
func registerPort(port string) *portMap {
	pm, ok := ports[port]
	if !ok {
		pm = &portMap{port: port}
		ports[port] = pm
	}
	return pm
}

// register a device on initialize.
func init() {
	config.RegisterOption("PORT", setPort)
}

// Set default port.
func setPort(_ uint16, port string, _ []config.Option) error {
	_, err := strconv.ParseUint(port, 10, 32)
	if err != nil {
		return fmt.Errorf("port requires number: %s", port)
	}
	if defaultPort != "" {
		return errors.New("can't have more then one default port")
	}
	registerPort(port)
	defaultPort = port
	return nil
}
