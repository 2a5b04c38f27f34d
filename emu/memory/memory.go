package memory

/*
 * Avalanche - Guest memory.
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

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"strings"

	config "github.com/rcornwell/avalanche/config/configparser"
)

// Guest DRAM. The SDRAM aperture starts at a fixed physical base; all
// words are little-endian. Descriptor DMA works on byte slices so the
// Ethernet engine can move whole buffers.
type mem struct {
	mem  []byte
	base uint32
	size uint32
}

var memory mem

const (
	defaultBase uint32 = 0x10000000 // SDRAM physical base
	maxSize     int    = 64 * 1024  // Largest memory in K
)

// Set size of memory in K.
func SetSize(k int) {
	if k > maxSize {
		k = maxSize
	}
	memory.size = uint32(k * 1024)
	memory.mem = make([]byte, memory.size)
	if memory.base == 0 {
		memory.base = defaultBase
	}
}

// Set physical base of memory.
func SetBase(addr uint32) {
	memory.base = addr
}

// Return size of memory in bytes.
func GetSize() uint32 {
	return memory.size
}

// Check if address in range.
func CheckAddr(addr uint32) bool {
	return addr >= memory.base && addr-memory.base < memory.size
}

// Get memory value without range check.
func GetMemory(addr uint32) uint32 {
	offset := addr - memory.base
	return binary.LittleEndian.Uint32(memory.mem[offset:])
}

// Set memory to a value, without range check.
func SetMemory(addr, data uint32) {
	offset := addr - memory.base
	binary.LittleEndian.PutUint32(memory.mem[offset:], data)
}

// Get a word from memory.
func GetWord(addr uint32) (uint32, bool) {
	if !CheckAddr(addr) || !CheckAddr(addr+3) {
		return 0, true
	}
	return GetMemory(addr), false
}

// Put a word to memory.
func PutWord(addr, data uint32) bool {
	if !CheckAddr(addr) || !CheckAddr(addr+3) {
		return true
	}
	SetMemory(addr, data)
	return false
}

// Copy len(buf) bytes out of guest memory into buf.
func ReadDMA(addr uint32, buf []byte) bool {
	if len(buf) == 0 {
		return false
	}
	if !CheckAddr(addr) || !CheckAddr(addr+uint32(len(buf))-1) {
		return true
	}
	offset := addr - memory.base
	copy(buf, memory.mem[offset:offset+uint32(len(buf))])
	return false
}

// Copy buf into guest memory.
func WriteDMA(addr uint32, buf []byte) bool {
	if len(buf) == 0 {
		return false
	}
	if !CheckAddr(addr) || !CheckAddr(addr+uint32(len(buf))-1) {
		return true
	}
	offset := addr - memory.base
	copy(memory.mem[offset:], buf)
	return false
}

// register memory size option on initialize.
func init() {
	SetSize(16 * 1024)
	config.RegisterOption("MEMORY", create)
}

// Set memory size from configuration. Accepts nK or nM.
func create(_ uint16, value string, _ []config.Option) error {
	value = strings.ToUpper(value)
	if value == "" {
		return errors.New("memory requires a size")
	}
	mult := 1
	switch value[len(value)-1] {
	case 'K':
		value = value[:len(value)-1]
	case 'M':
		mult = 1024
		value = value[:len(value)-1]
	}
	size, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return fmt.Errorf("memory size invalid: %s", value)
	}
	SetSize(int(size) * mult)
	return nil
}
