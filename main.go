/*
 * Avalanche - Main process.
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

package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	getopt "github.com/pborman/getopt/v2"
	"github.com/rcornwell/avalanche/command/reader"
	config "github.com/rcornwell/avalanche/config/configparser"
	"github.com/rcornwell/avalanche/config/debugconfig"
	"github.com/rcornwell/avalanche/emu/avalanche"
	"github.com/rcornwell/avalanche/emu/core"
	"github.com/rcornwell/avalanche/emu/device"
	"github.com/rcornwell/avalanche/emu/master"
	"github.com/rcornwell/avalanche/emu/mips"
	"github.com/rcornwell/avalanche/emu/uart16450"
	"github.com/rcornwell/avalanche/emu/vnet"
	"github.com/rcornwell/avalanche/telnet"
	logger "github.com/rcornwell/avalanche/util/logger"

	_ "github.com/rcornwell/avalanche/emu/memory"
)

var Logger *slog.Logger

func main() {
	optConfig := getopt.StringLong("config", 'c', "avalanche.cfg", "Configuration file")
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optDebug := getopt.BoolLong("debug", 'd', "Mirror debug output to stderr")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	var file *os.File
	if optLogFile != nil && *optLogFile != "" {
		file, _ = os.Create(*optLogFile)
	}
	programLevel := new(slog.LevelVar)
	programLevel.Set(slog.LevelDebug)
	Logger = slog.New(logger.NewHandler(file, &slog.HandlerOptions{Level: programLevel, AddSource: false}, optDebug))
	slog.SetDefault(Logger)

	Logger.Info("Avalanche started")

	_, err := os.Stat(*optConfig)
	if os.IsNotExist(err) {
		Logger.Error("Configuration file " + *optConfig + " can't be found")
		os.Exit(0)
	}

	err = config.LoadConfigFile(*optConfig)
	if err != nil {
		Logger.Error(err.Error())
		os.Exit(0)
	}

	masterChannel := make(chan master.Packet)

	// Build the machine: CPU environment, peripheral complex, packet
	// backend and the two serial lines.
	cpu := mips.New(func() { Logger.Info("Guest requested system reset") })
	machine := avalanche.New(cpu)

	hub := vnet.NewHub()
	machine.BindNIC(0, hub)
	machine.BindNIC(1, hub)

	for i := 0; i < 2; i++ {
		irq := device.IRQserial0 + i
		uart := uart16450.New(i, func(level bool) {
			lv := 0
			if level {
				lv = 1
			}
			machine.AssertLine(irq, lv)
		})
		machine.AttachUART(i, uart)
		err = telnet.RegisterTerminal(uart, uint16(i), avalanche.ConsolePort(i))
		if err != nil {
			// Without a port the line simply has no console attached.
			Logger.Warn(err.Error())
		}
	}

	// Apply queued debug requests now the devices exist.
	for _, request := range debugconfig.Requests() {
		for _, opt := range request.Options {
			var err error
			switch request.Device {
			case "AVALANCHE":
				err = machine.Debug(opt)
			case "UART0":
				err = machine.UART(0).Debug(opt)
			case "UART1":
				err = machine.UART(1).Debug(opt)
			default:
				Logger.Error("Debug for unknown device: " + request.Device)
				continue
			}
			if err != nil {
				Logger.Error(err.Error())
			}
		}
	}

	emulator := core.NewCore(machine, masterChannel)

	// Start telnet servers.
	err = telnet.Start(masterChannel)
	if err != nil {
		Logger.Error(err.Error())
		os.Exit(1)
	}

	// Start main emulator.
	go emulator.Start()

	// Wait for a SIGINT or SIGTERM signal to gracefully shut down the server
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	monitorDone := make(chan struct{})
	go func() {
		reader.ConsoleReader(emulator)
		close(monitorDone)
	}()

	select {
	case <-sigChan:
		Logger.Info("Got quit signal")
	case <-monitorDone:
	}

	Logger.Info("Shutting down emulator")
	emulator.Stop()
	Logger.Info("Shutting down server...")
	telnet.Stop()
	Logger.Info("Servers stopped.")
}
