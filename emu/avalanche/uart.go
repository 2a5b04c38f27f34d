/* Avalanche - UART MMIO bridge.

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

   The on chip UART registers sit one per word; the bridge folds a word
   access down to the byte port of the serial line unit. Without a unit
   attached the window is plain backing memory, which keeps the line
   status shadow readable.

*/

package avalanche

// Which unit a block number is.
func uartIndex(blk int) int {
	if blk == blkUart1 {
		return 1
	}
	return 0
}

// Word read folded to a port read.
func uartRead(av *Avalanche, blk int, offset uint32) uint32 {
	index := uartIndex(blk)
	if av.uart[index] == nil {
		return getWord(av.store[blk], offset)
	}
	return uint32(av.uart[index].In8(uint8(offset >> 2)))
}

// Word write folded to a port write.
func uartWrite(av *Avalanche, blk int, offset uint32, value uint32) {
	index := uartIndex(blk)
	if av.uart[index] == nil {
		putWord(av.store[blk], offset, value)
		return
	}
	av.uart[index].Out8(uint8(offset>>2), uint8(value))
}
