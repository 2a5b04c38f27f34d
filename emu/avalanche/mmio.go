/* Avalanche - MMIO dispatch.

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

package avalanche

import (
	"fmt"

	"github.com/rcornwell/avalanche/util/debug"
)

// Match an address against the block map. Returns the block number and
// block relative offset, or false when no block claims the address.
func findBlock(addr uint32) (int, uint32, bool) {
	for blk := range blocks {
		if addr >= blocks[blk].base && addr < blocks[blk].base+blocks[blk].size {
			return blk, addr - blocks[blk].base, true
		}
	}
	return 0, 0, false
}

// Check if address falls in a window the complex answers in.
func inWindow(addr uint32) bool {
	if addr >= window0Base && addr-window0Base < window0Size {
		return true
	}
	if addr >= window1Base && addr-window1Base < window1Size {
		return true
	}
	return false
}

// Word read. Only word aligned accesses reach block handlers.
func (av *Avalanche) Read32(addr uint32) uint32 {
	if addr&3 != 0 {
		panic(fmt.Sprintf("avalanche: unaligned read %08x", addr))
	}
	if !inWindow(addr) {
		debug.Debugf("mmio", av.debugMsk, debugUnexp, "read outside windows %08x", addr)
		return 0xffffffff
	}
	blk, offset, ok := findBlock(addr)
	if !ok {
		debug.Debugf("mmio", av.debugMsk, debugUnexp, "read unknown %08x", addr)
		return 0xffffffff
	}
	var value uint32
	if blocks[blk].read != nil {
		value = blocks[blk].read(av, blk, offset)
	} else {
		value = getWord(av.store[blk], offset)
	}
	debug.Debugf("mmio", av.debugMsk, debugIO, "read %s+%03x -> %08x", blocks[blk].name, offset, value)
	return value
}

// Word write.
func (av *Avalanche) Write32(addr uint32, value uint32) {
	if addr&3 != 0 {
		panic(fmt.Sprintf("avalanche: unaligned write %08x", addr))
	}
	if !inWindow(addr) {
		debug.Debugf("mmio", av.debugMsk, debugUnexp, "write outside windows %08x <- %08x", addr, value)
		return
	}
	blk, offset, ok := findBlock(addr)
	if !ok {
		debug.Debugf("mmio", av.debugMsk, debugUnexp, "write unknown %08x <- %08x", addr, value)
		return
	}
	debug.Debugf("mmio", av.debugMsk, debugIO, "write %s+%03x <- %08x", blocks[blk].name, offset, value)
	if blocks[blk].write != nil {
		blocks[blk].write(av, blk, offset, value)
	} else {
		putWord(av.store[blk], offset, value)
	}
}

// Half word read. The containing word is read and the half selected by
// address bit 1.
func (av *Avalanche) Read16(addr uint32) uint16 {
	value := av.Read32(addr &^ 3)
	if addr&2 != 0 {
		return uint16(value >> 16)
	}
	return uint16(value)
}

// Half word write. Unexpected on this bus; forwarded to the word
// handler best effort.
func (av *Avalanche) Write16(addr uint32, value uint16) {
	debug.Debugf("mmio", av.debugMsk, debugUnexp, "write16 %08x <- %04x", addr, value)
	av.Write32(addr&^3, uint32(value))
}

// Byte read. UART ranges forward to the serial line unit; anywhere
// else the containing word is read and the byte extracted.
func (av *Avalanche) Read8(addr uint32) uint8 {
	if index, port, ok := uartPort(addr); ok {
		if av.uart[index] != nil {
			return av.uart[index].In8(port)
		}
	}
	debug.Debugf("mmio", av.debugMsk, debugUnexp, "read8 %08x", addr)
	value := av.Read32(addr &^ 3)
	return uint8(value >> (8 * (addr & 3)))
}

// Byte write. UART ranges forward the byte; anywhere else this is
// unexpected and forwarded to the word handler best effort.
func (av *Avalanche) Write8(addr uint32, value uint8) {
	if index, port, ok := uartPort(addr); ok {
		if av.uart[index] != nil {
			av.uart[index].Out8(port, value)
			return
		}
	}
	debug.Debugf("mmio", av.debugMsk, debugUnexp, "write8 %08x <- %02x", addr, value)
	av.Write32(addr&^3, uint32(value))
}

// Map an address in a UART window to unit and port.
func uartPort(addr uint32) (int, uint8, bool) {
	for index, blk := range []int{blkUart0, blkUart1} {
		base := blocks[blk].base
		if addr >= base && addr < base+blocks[blk].size {
			return index, uint8((addr - base) / 4), true
		}
	}
	return 0, 0, false
}
