/*
 * Avalanche - Monitor command parser.
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

package parser

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rcornwell/avalanche/emu/core"
	"github.com/rcornwell/avalanche/emu/master"
)

// One monitor command.
type command struct {
	name string
	help string
	fn   func(core *core.Core, args []string) error
}

var commands []command

func init() {
	commands = []command{
		{"show", "show machine state", cmdShow},
		{"reset", "reset the machine", cmdReset},
		{"debug", "debug <device> <option>...", cmdDebug},
		{"save", "save <file> snapshot machine state", cmdSave},
		{"restore", "restore <file> reload machine state", cmdRestore},
		{"start", "resume the machine", cmdStart},
		{"stop", "pause the machine", cmdStop},
		{"help", "list commands", cmdHelp},
	}
}

// Process one command line. Returns true when the monitor should exit.
func ProcessCommand(line string, core *core.Core) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	name := strings.ToLower(fields[0])
	if name == "quit" || name == "exit" {
		return true, nil
	}
	for _, cmd := range commands {
		if cmd.name == name {
			return false, cmd.fn(core, fields[1:])
		}
	}
	return false, errors.New("unknown command: " + name)
}

// Complete a partial command name.
func CompleteCmd(line string) []string {
	matches := []string{}
	prefix := strings.ToLower(line)
	for _, cmd := range commands {
		if strings.HasPrefix(cmd.name, prefix) {
			matches = append(matches, cmd.name)
		}
	}
	if strings.HasPrefix("quit", prefix) {
		matches = append(matches, "quit")
	}
	return matches
}

// Show machine and console state.
func cmdShow(core *core.Core, _ []string) error {
	machine := core.Machine()
	fmt.Println(machine.Show())
	for i := 0; i < 2; i++ {
		if uart := machine.UART(i); uart != nil {
			fmt.Println(uart.Show())
		}
	}
	return nil
}

// Request a machine reset through the core loop.
func cmdReset(core *core.Core, _ []string) error {
	core.Post(master.Packet{Msg: master.Reset})
	return nil
}

// Enable debug options on a device.
func cmdDebug(core *core.Core, args []string) error {
	if len(args) < 2 {
		return errors.New("debug requires a device and at least one option")
	}
	machine := core.Machine()
	device := strings.ToUpper(args[0])
	for _, opt := range args[1:] {
		opt = strings.ToUpper(opt)
		var err error
		switch device {
		case "AVALANCHE":
			err = machine.Debug(opt)
		case "UART0", "UART1":
			uart := machine.UART(int(device[4] - '0'))
			if uart == nil {
				return errors.New("no such uart: " + args[0])
			}
			err = uart.Debug(opt)
		default:
			return errors.New("unknown device: " + args[0])
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Snapshot the machine to a file.
func cmdSave(core *core.Core, args []string) error {
	if len(args) != 1 {
		return errors.New("save requires a file name")
	}
	file, err := os.Create(args[0])
	if err != nil {
		return err
	}
	defer file.Close()
	return core.Machine().SaveState(file)
}

// Reload the machine from a file.
func cmdRestore(core *core.Core, args []string) error {
	if len(args) != 1 {
		return errors.New("restore requires a file name")
	}
	file, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer file.Close()
	return core.Machine().LoadState(file)
}

// Resume the machine.
func cmdStart(core *core.Core, _ []string) error {
	core.Post(master.Packet{Msg: master.Start})
	return nil
}

// Pause the machine.
func cmdStop(core *core.Core, _ []string) error {
	core.Post(master.Packet{Msg: master.Stop})
	return nil
}

// List commands.
func cmdHelp(_ *core.Core, _ []string) error {
	for _, cmd := range commands {
		fmt.Printf("%-8s %s\n", cmd.name, cmd.help)
	}
	fmt.Printf("%-8s %s\n", "quit", "exit the emulator")
	return nil
}
