/* Avalanche - Register window primitives.

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

import "encoding/binary"

// Backing stores hold guest byte order, little-endian, words on 4 byte
// boundaries. offset must be word aligned.

// Get word from a backing store.
func getWord(buf []byte, offset uint32) uint32 {
	return binary.LittleEndian.Uint32(buf[offset:])
}

// Set word in a backing store.
func putWord(buf []byte, offset uint32, value uint32) {
	binary.LittleEndian.PutUint32(buf[offset:], value)
}

// Add to a word in a backing store.
func incWord(buf []byte, offset uint32, by uint32) {
	putWord(buf, offset, getWord(buf, offset)+by)
}

// Or bits into a word in a backing store.
func setWordBits(buf []byte, offset uint32, bits uint32) {
	putWord(buf, offset, getWord(buf, offset)|bits)
}

// Clear bits in a word in a backing store.
func clearWordBits(buf []byte, offset uint32, bits uint32) {
	putWord(buf, offset, getWord(buf, offset)&^bits)
}
