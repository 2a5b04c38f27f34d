/* Avalanche - CPMAC Ethernet controller.

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

   Two instances. The transmit side walks a descriptor chain in guest
   memory and hands whole frames to the packet backend; the receive
   side fills the head descriptor of channel 0 from frames the backend
   delivers. Each instance interrupts on its own line.

*/

package avalanche

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/rcornwell/avalanche/emu/device"
	"github.com/rcornwell/avalanche/emu/memory"
	"github.com/rcornwell/avalanche/util/debug"
)

// Register offsets.
const (
	cpmacTxControl    = 0x004
	cpmacRxControl    = 0x014
	cpmacRxMbpEnable  = 0x100
	cpmacRxMaxlen     = 0x10c
	cpmacTxIntmaskSet = 0x178
	cpmacTxIntmaskClr = 0x17c
	cpmacInVector     = 0x180
	cpmacEoiVector    = 0x184
	cpmacMacaddrLo0   = 0x1b0
	cpmacMacaddrMid   = 0x1d0
	cpmacMacaddrHi    = 0x1d4
	cpmacStatsBase    = 0x200
	cpmacStatsEnd     = 0x290
	cpmacTx0Hdp       = 0x600
	cpmacRx0Hdp       = 0x620
)

// Statistics counters.
const (
	statRxGoodFrames       = 0x200
	statRxBroadcastFrames  = 0x204
	statRxMulticastFrames  = 0x208
	statRxOversizedFrames  = 0x218
	statRxUndersizedFrames = 0x220
	statTxGoodFrames       = 0x234
	statRxDmaOverruns      = 0x28c
)

// Interrupt vector bits.
const (
	macInVectorTxIntOr = 0x00010000
	macInVectorRxIntOr = 0x00020000
)

// Descriptor mode bits.
const (
	descSOF       = 0x80000000 // Start of frame
	descEOF       = 0x40000000 // End of frame
	descOwnership = 0x20000000 // Owned by the MAC
	descEOQ       = 0x10000000 // End of queue
	descSizeMask  = 0x0000ffff
)

const (
	maxFrameSize = 1514 + 4 // Frame plus trailing CRC room
	maxDescVisit = 1024     // Chain walk bound
)

var broadcastAddr = []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff}

// Which instance a block number is.
func cpmacIndex(blk int) int {
	if blk == blkCpmac1 {
		return 1
	}
	return 0
}

// Interrupt line for an instance.
func cpmacIRQ(index int) int {
	if index == 1 {
		return device.IRQcpmac1
	}
	return device.IRQcpmac0
}

// DMA descriptor, 16 bytes in guest memory.
type descriptor struct {
	next   uint32
	buff   uint32
	length uint32
	mode   uint32
}

// Read a descriptor out of guest memory.
func readDescriptor(addr uint32) (descriptor, bool) {
	var raw [16]byte
	if memory.ReadDMA(addr, raw[:]) {
		return descriptor{}, true
	}
	return descriptor{
		next:   binary.LittleEndian.Uint32(raw[0:]),
		buff:   binary.LittleEndian.Uint32(raw[4:]),
		length: binary.LittleEndian.Uint32(raw[8:]),
		mode:   binary.LittleEndian.Uint32(raw[12:]),
	}, false
}

// Write a descriptor back to guest memory.
func writeDescriptor(addr uint32, desc descriptor) bool {
	var raw [16]byte
	binary.LittleEndian.PutUint32(raw[0:], desc.next)
	binary.LittleEndian.PutUint32(raw[4:], desc.buff)
	binary.LittleEndian.PutUint32(raw[8:], desc.length)
	binary.LittleEndian.PutUint32(raw[12:], desc.mode)
	return memory.WriteDMA(addr, raw[:])
}

// Register reads. The interrupt vector clears on read.
func cpmacRead(av *Avalanche, blk int, offset uint32) uint32 {
	if offset == cpmacInVector {
		value := getWord(av.store[blk], offset)
		putWord(av.store[blk], offset, 0)
		return value
	}
	return getWord(av.store[blk], offset)
}

// Register writes.
func cpmacWrite(av *Avalanche, blk int, offset uint32, value uint32) {
	index := cpmacIndex(blk)
	switch {
	case offset == cpmacMacaddrHi:
		putWord(av.store[blk], offset, value)
		av.setMACAddr(index, blk)

	case offset == cpmacTxIntmaskSet:
		putWord(av.store[blk], offset, value)
		if value != 0 {
			channel := uint32(0)
			for (value & (1 << channel)) == 0 {
				channel++
			}
			setWordBits(av.store[blk], cpmacInVector, macInVectorTxIntOr|channel)
			av.AssertLine(cpmacIRQ(index), 1)
		}

	case offset >= cpmacStatsBase && offset < cpmacStatsEnd:
		// Statistics are write to clear only.
		if value == 0xffffffff {
			putWord(av.store[blk], offset, 0)
		} else {
			debug.Debugf("cpmac", av.debugMsk, debugUnexp,
				"cpmac%d stats write %03x <- %08x", index, offset, value)
		}

	case offset >= cpmacTx0Hdp && offset < cpmacTx0Hdp+8*4:
		putWord(av.store[blk], offset, value)
		channel := (offset - cpmacTx0Hdp) / 4
		av.cpmacTransmit(index, blk, channel, value)

	case offset >= cpmacRx0Hdp && offset < cpmacRx0Hdp+8*4:
		// Receive is driven from the backend side; just remember the
		// head of the chain.
		putWord(av.store[blk], offset, value)
		debug.Debugf("cpmac", av.debugMsk, debugEth,
			"cpmac%d rx%d head %08x", index, (offset-cpmacRx0Hdp)/4, value)

	default:
		putWord(av.store[blk], offset, value)
	}
}

// Reassemble the station address after the high word is written. The
// guest programs low, mid then high; high triggers publication.
func (av *Avalanche) setMACAddr(index int, blk int) {
	buf := av.store[blk]
	var phys [6]byte
	phys[0] = buf[cpmacMacaddrHi]
	phys[1] = buf[cpmacMacaddrHi+1]
	phys[2] = buf[cpmacMacaddrHi+2]
	phys[3] = buf[cpmacMacaddrHi+3]
	phys[4] = buf[cpmacMacaddrMid]
	phys[5] = buf[cpmacMacaddrLo0]
	av.nic[index].Phys = phys
	debug.Debugf("cpmac", av.debugMsk, debugEth,
		"cpmac%d address %02x:%02x:%02x:%02x:%02x:%02x",
		index, phys[0], phys[1], phys[2], phys[3], phys[4], phys[5])
}

// Walk the transmit chain and emit each frame. The guest driver only
// produces single descriptor frames, so SOF, EOF and ownership must
// all be present; anything else is a contract violation.
func (av *Avalanche) cpmacTransmit(index int, blk int, channel uint32, head uint32) {
	frame := make([]byte, 0, maxFrameSize)
	addr := head
	for visit := 0; addr != 0; visit++ {
		if visit >= maxDescVisit {
			panic(fmt.Sprintf("cpmac%d: tx descriptor chain loop at %08x", index, addr))
		}
		desc, fault := readDescriptor(addr)
		if fault {
			panic(fmt.Sprintf("cpmac%d: tx descriptor dma fault at %08x", index, addr))
		}
		size := desc.mode & descSizeMask
		if (desc.mode & (descSOF | descEOF | descOwnership)) != (descSOF | descEOF | descOwnership) {
			panic(fmt.Sprintf("cpmac%d: tx descriptor bad mode %08x at %08x", index, desc.mode, addr))
		}
		if size != desc.length {
			panic(fmt.Sprintf("cpmac%d: tx descriptor size %d != length %d at %08x",
				index, size, desc.length, addr))
		}
		if size > maxFrameSize {
			panic(fmt.Sprintf("cpmac%d: tx frame too large %d at %08x", index, size, addr))
		}

		frame = frame[:size]
		if memory.ReadDMA(desc.buff, frame) {
			panic(fmt.Sprintf("cpmac%d: tx buffer dma fault at %08x", index, desc.buff))
		}

		// Hand the descriptor back before the frame goes out.
		desc.mode &^= descOwnership
		memory.PutWord(addr+12, desc.mode)

		debug.Debugf("cpmac", av.debugMsk, debugEth,
			"cpmac%d tx%d frame %d bytes", index, channel, size)
		if av.nic[index].Client != nil {
			av.nic[index].Client.Send(frame)
		}
		incWord(av.store[blk], statTxGoodFrames, 1)
		setWordBits(av.store[blk], cpmacInVector, macInVectorTxIntOr|channel)
		av.AssertLine(cpmacIRQ(index), 1)

		addr = desc.next
	}
}

// True when receive channel 0 has a descriptor chain to fill.
func (av *Avalanche) cpmacCanReceive(index int) bool {
	blk := blkCpmac0
	if index == 1 {
		blk = blkCpmac1
	}
	return getWord(av.store[blk], cpmacRx0Hdp) != 0
}

// Frame delivered from the packet backend. Fill the head descriptor of
// receive channel 0 and interrupt.
func (av *Avalanche) cpmacReceive(index int, buf []byte) {
	blk := blkCpmac0
	if index == 1 {
		blk = blkCpmac1
	}
	size := uint32(len(buf))

	if size >= 6 {
		if bytes.Equal(buf[:6], broadcastAddr) {
			incWord(av.store[blk], statRxBroadcastFrames, 1)
		} else if (buf[0] & 0x01) != 0 {
			incWord(av.store[blk], statRxMulticastFrames, 1)
		}
	}
	if size < 64 {
		incWord(av.store[blk], statRxUndersizedFrames, 1)
	} else if size > 1514 {
		incWord(av.store[blk], statRxOversizedFrames, 1)
	}
	incWord(av.store[blk], statRxGoodFrames, 1)

	addr := getWord(av.store[blk], cpmacRx0Hdp)
	if addr == 0 {
		debug.Debugf("cpmac", av.debugMsk, debugEth, "cpmac%d rx drop, no chain", index)
		return
	}
	desc, fault := readDescriptor(addr)
	if fault {
		debug.Debugf("cpmac", av.debugMsk, debugUnexp,
			"cpmac%d rx descriptor dma fault at %08x", index, addr)
		return
	}
	if (desc.mode & descOwnership) == 0 {
		debug.Debugf("cpmac", av.debugMsk, debugEth, "cpmac%d rx drop, not owned", index)
		return
	}

	desc.mode &^= descOwnership | descSizeMask
	desc.mode |= descSOF | descEOF | size
	if desc.next == 0 {
		desc.mode |= descEOQ
	}
	desc.length = size
	if writeDescriptor(addr, desc) {
		debug.Debugf("cpmac", av.debugMsk, debugUnexp,
			"cpmac%d rx descriptor dma fault at %08x", index, addr)
		return
	}
	if memory.WriteDMA(desc.buff, buf) {
		debug.Debugf("cpmac", av.debugMsk, debugUnexp,
			"cpmac%d rx buffer dma fault at %08x", index, desc.buff)
		return
	}
	putWord(av.store[blk], cpmacRx0Hdp, desc.next)

	debug.Debugf("cpmac", av.debugMsk, debugEth,
		"cpmac%d rx frame %d bytes", index, size)
	setWordBits(av.store[blk], cpmacInVector, macInVectorRxIntOr|0)
	av.AssertLine(cpmacIRQ(index), 1)
}
