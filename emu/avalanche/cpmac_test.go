package avalanche

/*
 * Avalanche - CPMAC tests.
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
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/rcornwell/avalanche/emu/memory"
	"github.com/rcornwell/avalanche/emu/mips"
	"github.com/rcornwell/avalanche/emu/vnet"
)

const (
	cpmac0Base = 0x08610000
	descAddr   = 0x10000000
	buffAddr   = 0x10000100
)

// Machine with both MACs on a hub and a peer capturing their frames.
func testMachineNet() (*Avalanche, *mips.CPU, *[][]byte, *vnet.Client) {
	av, cpu := testMachine()
	hub := vnet.NewHub()
	av.BindNIC(0, hub)
	av.BindNIC(1, hub)
	frames := &[][]byte{}
	peer := hub.NewClient("peer", func(buf []byte) {
		*frames = append(*frames, buf)
	}, nil)
	// Enable both MAC interrupt lines.
	av.Write32(intcEsr1Reg, 1<<19)
	av.Write32(intcEsr2Reg, 1<<1)
	return av, cpu, frames, peer
}

// Seed one transmit descriptor and payload in guest memory.
func seedTxDescriptor(next, buff uint32, payload []byte, mode uint32) {
	memory.PutWord(descAddr, next)
	memory.PutWord(descAddr+4, buff)
	memory.PutWord(descAddr+8, uint32(len(payload)))
	memory.PutWord(descAddr+12, mode)
	memory.WriteDMA(buff, payload)
}

// Station address assembles from the three address registers.
func TestMACAddressAssembly(t *testing.T) {
	av, _ := testMachine()

	av.Write32(cpmac0Base+0x1b0, 0x04030201)
	av.Write32(cpmac0Base+0x1d0, 0x00000005)
	av.Write32(cpmac0Base+0x1d4, 0x09080706)

	expect := [6]byte{0x06, 0x07, 0x08, 0x09, 0x05, 0x01}
	if av.nic[0].Phys != expect {
		t.Errorf("mac address not correct got: %x expected: %x", av.nic[0].Phys, expect)
	}
}

// One well formed descriptor transmits one frame.
func TestTransmitOneFrame(t *testing.T) {
	av, cpu, frames, _ := testMachineNet()

	payload := make([]byte, 64)
	for i := range payload {
		payload[i] = byte(i)
	}
	seedTxDescriptor(0, buffAddr, payload, 0xe0000040)

	av.Write32(cpmac0Base+0x600, descAddr)

	if len(*frames) != 1 {
		t.Fatalf("send count not correct got: %d expected: %d", len(*frames), 1)
	}
	if !bytes.Equal((*frames)[0], payload) {
		t.Errorf("frame payload not correct got: %x", (*frames)[0])
	}
	mode, _ := memory.GetWord(descAddr + 12)
	if (mode & descOwnership) != 0 {
		t.Errorf("ownership not released got: %08x", mode)
	}
	vector := getWord(av.store[blkCpmac0], cpmacInVector)
	if (vector & 0x00010000) == 0 {
		t.Errorf("tx int not in vector got: %08x", vector)
	}
	if !cpu.IRQ() {
		t.Errorf("cpmac irq not raised")
	}
	count := av.Read32(cpmac0Base + statTxGoodFrames)
	if count != 1 {
		t.Errorf("tx good frames not correct got: %d expected: %d", count, 1)
	}
}

// The interrupt vector clears when read.
func TestInVectorClearOnRead(t *testing.T) {
	av, _, _, _ := testMachineNet()

	payload := make([]byte, 64)
	seedTxDescriptor(0, buffAddr, payload, 0xe0000040)
	av.Write32(cpmac0Base+0x600, descAddr)

	first := av.Read32(cpmac0Base + 0x180)
	if (first & 0x00010000) == 0 {
		t.Errorf("vector read not correct got: %08x", first)
	}
	second := av.Read32(cpmac0Base + 0x180)
	if second != 0 {
		t.Errorf("vector not cleared on read got: %08x", second)
	}
}

// A chain of descriptors transmits each frame in order.
func TestTransmitChain(t *testing.T) {
	av, _, frames, _ := testMachineNet()

	const n = 5
	for i := 0; i < n; i++ {
		addr := uint32(descAddr + i*0x40)
		buff := uint32(buffAddr + 0x1000 + i*0x100)
		next := uint32(0)
		if i != n-1 {
			next = addr + 0x40
		}
		payload := make([]byte, 64)
		payload[0] = byte(i)
		memory.PutWord(addr, next)
		memory.PutWord(addr+4, buff)
		memory.PutWord(addr+8, 64)
		memory.PutWord(addr+12, 0xe0000040)
		memory.WriteDMA(buff, payload)
	}

	av.Write32(cpmac0Base+0x600, descAddr)

	if len(*frames) != n {
		t.Fatalf("send count not correct got: %d expected: %d", len(*frames), n)
	}
	for i := 0; i < n; i++ {
		if (*frames)[i][0] != byte(i) {
			t.Errorf("frame %d out of order got: %02x", i, (*frames)[i][0])
		}
	}
	count := av.Read32(cpmac0Base + statTxGoodFrames)
	if count != n {
		t.Errorf("tx good frames not correct got: %d expected: %d", count, n)
	}
}

// Receive fills the head descriptor and hands it to the guest.
func TestReceiveFrame(t *testing.T) {
	av, cpu, _, peer := testMachineNet()

	// Owned descriptor, end of chain.
	memory.PutWord(descAddr, 0)
	memory.PutWord(descAddr+4, buffAddr)
	memory.PutWord(descAddr+8, 0)
	memory.PutWord(descAddr+12, descOwnership)
	av.Write32(cpmac0Base+0x620, descAddr)

	if !av.cpmacCanReceive(0) {
		t.Fatalf("can receive not correct with chain present")
	}

	frame := make([]byte, 128)
	frame[0] = 0x02
	for i := 6; i < 128; i++ {
		frame[i] = byte(i)
	}
	copy(frame[6:12], []byte{2, 0, 0, 0, 0, 1})
	peer.Send(frame)

	var buf [128]byte
	memory.ReadDMA(buffAddr, buf[:])
	if !bytes.Equal(buf[:], frame) {
		t.Errorf("frame not written to buffer")
	}
	mode, _ := memory.GetWord(descAddr + 12)
	if (mode & descOwnership) != 0 {
		t.Errorf("ownership not released got: %08x", mode)
	}
	if (mode & (descSOF | descEOF | descEOQ)) != (descSOF | descEOF | descEOQ) {
		t.Errorf("frame bits not set got: %08x", mode)
	}
	if (mode & descSizeMask) != 128 {
		t.Errorf("size not correct got: %d expected: %d", mode&descSizeMask, 128)
	}
	length, _ := memory.GetWord(descAddr + 8)
	if length != 128 {
		t.Errorf("length not correct got: %d expected: %d", length, 128)
	}
	hdp := av.Read32(cpmac0Base + 0x620)
	if hdp != 0 {
		t.Errorf("head pointer not advanced got: %08x", hdp)
	}
	if av.cpmacCanReceive(0) {
		t.Errorf("can receive with empty chain")
	}
	vector := getWord(av.store[blkCpmac0], cpmacInVector)
	if (vector & 0x00020000) == 0 {
		t.Errorf("rx int not in vector got: %08x", vector)
	}
	if !cpu.IRQ() {
		t.Errorf("cpmac irq not raised")
	}
	count := av.Read32(cpmac0Base + statRxGoodFrames)
	if count != 1 {
		t.Errorf("rx good frames not correct got: %d expected: %d", count, 1)
	}
	count = av.Read32(cpmac0Base + statRxUndersizedFrames)
	if count != 0 {
		t.Errorf("undersized count not correct got: %d expected: %d", count, 0)
	}
}

// Broadcast and short frames bump their counters.
func TestReceiveCounters(t *testing.T) {
	av, _, _, peer := testMachineNet()

	memory.PutWord(descAddr, 0)
	memory.PutWord(descAddr+4, buffAddr)
	memory.PutWord(descAddr+8, 0)
	memory.PutWord(descAddr+12, descOwnership)
	av.Write32(cpmac0Base+0x620, descAddr)

	frame := make([]byte, 32)
	copy(frame, []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff})
	peer.Send(frame)

	count := av.Read32(cpmac0Base + statRxBroadcastFrames)
	if count != 1 {
		t.Errorf("broadcast count not correct got: %d expected: %d", count, 1)
	}
	count = av.Read32(cpmac0Base + statRxUndersizedFrames)
	if count != 1 {
		t.Errorf("undersized count not correct got: %d expected: %d", count, 1)
	}
	count = av.Read32(cpmac0Base + statRxGoodFrames)
	if count != 1 {
		t.Errorf("good count not correct got: %d expected: %d", count, 1)
	}
}

// A frame with no descriptor chain is dropped but still counted.
func TestReceiveNoChain(t *testing.T) {
	av, _, _, _ := testMachineNet()

	// Deliver directly; the hub would have filtered on canReceive.
	frame := make([]byte, 64)
	av.cpmacReceive(0, frame)

	count := av.Read32(cpmac0Base + statRxGoodFrames)
	if count != 1 {
		t.Errorf("good count not correct got: %d expected: %d", count, 1)
	}
	if av.Read32(cpmac0Base+0x620) != 0 {
		t.Errorf("head pointer changed")
	}
}

// A descriptor the guest still owns drops the frame.
func TestReceiveNotOwned(t *testing.T) {
	av, _, _, peer := testMachineNet()

	memory.PutWord(descAddr, 0)
	memory.PutWord(descAddr+4, buffAddr)
	memory.PutWord(descAddr+8, 0)
	memory.PutWord(descAddr+12, 0)
	av.Write32(cpmac0Base+0x620, descAddr)
	memory.WriteDMA(buffAddr, make([]byte, 64))

	frame := make([]byte, 64)
	frame[0] = 0x02
	peer.Send(frame)

	var buf [64]byte
	memory.ReadDMA(buffAddr, buf[:])
	var zero [64]byte
	if !bytes.Equal(buf[:], zero[:]) {
		t.Errorf("frame written to unowned buffer")
	}
	hdp := av.Read32(cpmac0Base + 0x620)
	if hdp != descAddr {
		t.Errorf("head pointer changed got: %08x", hdp)
	}
}

// Statistics registers are write all ones to clear.
func TestStatsClear(t *testing.T) {
	av, _, _, _ := testMachineNet()

	payload := make([]byte, 64)
	seedTxDescriptor(0, buffAddr, payload, 0xe0000040)
	av.Write32(cpmac0Base+0x600, descAddr)

	count := av.Read32(cpmac0Base + statTxGoodFrames)
	if count != 1 {
		t.Fatalf("tx good frames not correct got: %d expected: %d", count, 1)
	}
	av.Write32(cpmac0Base+statTxGoodFrames, 0xffffffff)
	count = av.Read32(cpmac0Base + statTxGoodFrames)
	if count != 0 {
		t.Errorf("tx good frames not cleared got: %d", count)
	}
}

// Setting a transmit interrupt mask bit vectors the channel.
func TestTxIntmaskSet(t *testing.T) {
	av, cpu, _, _ := testMachineNet()

	av.Write32(cpmac0Base+cpmacTxIntmaskSet, 0x00000004)
	vector := av.Read32(cpmac0Base + cpmacInVector)
	if vector != (macInVectorTxIntOr | 2) {
		t.Errorf("vector not correct got: %08x expected: %08x", vector, macInVectorTxIntOr|2)
	}
	if !cpu.IRQ() {
		t.Errorf("cpmac irq not raised")
	}
}

// The second instance interrupts on its own line.
func TestSecondInstance(t *testing.T) {
	av, cpu, frames, _ := testMachineNet()

	payload := make([]byte, 64)
	seedTxDescriptor(0, buffAddr, payload, 0xe0000040)
	av.Write32(0x08612800+0x600, descAddr)

	if len(*frames) != 1 {
		t.Fatalf("send count not correct got: %d expected: %d", len(*frames), 1)
	}
	if !cpu.IRQ() {
		t.Errorf("cpmac1 irq not raised")
	}
	vector := getWord(av.store[blkCpmac1], cpmacInVector)
	if (vector & 0x00010000) == 0 {
		t.Errorf("tx int not in cpmac1 vector got: %08x", vector)
	}
	count := av.Read32(0x08612800 + statTxGoodFrames)
	if count != 1 {
		t.Errorf("cpmac1 tx good frames not correct got: %d expected: %d", count, 1)
	}
}

// A malformed descriptor is a contract violation.
func TestTransmitBadDescriptor(t *testing.T) {
	av, _, _, _ := testMachineNet()

	defer func() {
		if recover() == nil {
			t.Errorf("bad descriptor did not fault")
		}
	}()
	var raw [16]byte
	binary.LittleEndian.PutUint32(raw[8:], 64)
	binary.LittleEndian.PutUint32(raw[12:], 0x00000040) // no SOF/EOF/own
	memory.WriteDMA(descAddr, raw[:])
	av.Write32(cpmac0Base+0x600, descAddr)
}
