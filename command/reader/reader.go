/*
 * Avalanche - Command reader.
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

package reader

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/rcornwell/avalanche/command/parser"
	"github.com/rcornwell/avalanche/emu/core"
)

const historyName = ".avalanche_history"

// Run the monitor until quit, ^C or ^D. Command history persists in
// the user's home directory across runs.
func ConsoleReader(core *core.Core) {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(func(line string) []string {
		return parser.CompleteCmd(line)
	})

	history := ""
	if home, err := os.UserHomeDir(); err == nil {
		history = filepath.Join(home, historyName)
		if file, err := os.Open(history); err == nil {
			_, _ = line.ReadHistory(file)
			file.Close()
		}
	}
	defer func() {
		if history == "" {
			return
		}
		file, err := os.Create(history)
		if err != nil {
			return
		}
		_, _ = line.WriteHistory(file)
		file.Close()
	}()

	for {
		command, err := line.Prompt("AR7> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				return
			}
			slog.Error("error reading line: " + err.Error())
			return
		}
		if strings.TrimSpace(command) == "" {
			continue
		}
		line.AppendHistory(command)
		quit, err := parser.ProcessCommand(command, core)
		if err != nil {
			fmt.Println("Error: " + err.Error())
		}
		if quit {
			return
		}
	}
}
