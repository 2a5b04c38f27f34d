/* Avalanche - AR7 on chip peripheral complex.

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

   The complex is one aggregate holding every register block on the
   peripheral bus. MMIO accesses are routed to the owning block; blocks
   with behavior get handlers, the rest are plain backing memory. The
   aggregate talks to the outside world through the CPU environment,
   guest memory DMA, the packet backend and two serial line units.

*/

package avalanche

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	config "github.com/rcornwell/avalanche/config/configparser"
	"github.com/rcornwell/avalanche/emu/mips"
	"github.com/rcornwell/avalanche/emu/uart16450"
	"github.com/rcornwell/avalanche/emu/vnet"
)

// Block numbers. Order is also the save image order.
const (
	blkCpmac0 = iota
	blkEmif
	blkGpio
	blkClock
	blkWatchdog
	blkTimer0
	blkTimer1
	blkUart0
	blkUart1
	blkUsb
	blkReset
	blkVlynq0
	blkDCL
	blkVlynq1
	blkMdio
	blkWdtOhio
	blkIntc
	blkCpmac1
	blkAdsl
	blkBbif
	blkAtmSar
	blkUsbMem
	blkVlynq0Mem
	blkCount
)

// One register block on the peripheral bus.
type block struct {
	name  string
	base  uint32
	size  uint32
	read  func(av *Avalanche, blk int, offset uint32) uint32
	write func(av *Avalanche, blk int, offset uint32, value uint32)
}

// Guest physical address map. First match captures the access.
var blocks [blkCount]block

func init() {
	blocks = [blkCount]block{
		blkCpmac0:    {name: "cpmac0", base: 0x08610000, size: 0x800, read: cpmacRead, write: cpmacWrite},
		blkEmif:      {name: "emif", base: 0x08610800, size: 0x100},
		blkGpio:      {name: "gpio", base: 0x08610900, size: 0x20},
		blkClock:     {name: "clock", base: 0x08610a00, size: 0x100, read: clockRead, write: clockWrite},
		blkWatchdog:  {name: "watchdog", base: 0x08610b00, size: 0x80, write: wdtWrite},
		blkTimer0:    {name: "timer0", base: 0x08610c00, size: 8},
		blkTimer1:    {name: "timer1", base: 0x08610d00, size: 8},
		blkUart0:     {name: "uart0", base: 0x08610e00, size: 0x20, read: uartRead, write: uartWrite},
		blkUart1:     {name: "uart1", base: 0x08610f00, size: 0x20, read: uartRead, write: uartWrite},
		blkUsb:       {name: "usb", base: 0x08611200, size: 0x50},
		blkReset:     {name: "reset", base: 0x08611600, size: 0x200, write: resetWrite},
		blkVlynq0:    {name: "vlynq0", base: 0x08611800, size: 0x100, read: vlynqRead, write: vlynqWrite},
		blkDCL:       {name: "dcl", base: 0x08611a00, size: 0x14},
		blkVlynq1:    {name: "vlynq1", base: 0x08611c00, size: 0x100, read: vlynqRead, write: vlynqWrite},
		blkMdio:      {name: "mdio", base: 0x08611e00, size: 0x88, read: mdioRead, write: mdioWrite},
		blkWdtOhio:   {name: "wdt", base: 0x08611f00, size: 0x20},
		blkIntc:      {name: "intc", base: 0x08612400, size: 0x300, write: intcWrite},
		blkCpmac1:    {name: "cpmac1", base: 0x08612800, size: 0x800, read: cpmacRead, write: cpmacWrite},
		blkAdsl:      {name: "adsl", base: 0x01000000, size: 0x20000},
		blkBbif:      {name: "bbif", base: 0x02000000, size: 4},
		blkAtmSar:    {name: "atmsar", base: 0x03000000, size: 0x9000},
		blkUsbMem:    {name: "usbmem", base: 0x03400000, size: 0x2000},
		blkVlynq0Mem: {name: "vlynq0mem", base: 0x04000000, size: 0x42000, read: vlynq0MemRead},
	}
}

// Physical windows the complex answers in.
const (
	window0Base = 0x00001000
	window0Size = 0x0ffff000
	window1Base = 0x1e000000
	window1Size = 0x01c00000
)

const (
	// Debug options.
	debugIO    = 1 << iota // Log MMIO traffic.
	debugIRQ               // Log interrupt delivery.
	debugEth               // Log Ethernet activity.
	debugMdio              // Log MDIO transactions.
	debugWdt               // Log watchdog unlock progress.
	debugReset             // Log reset controller writes.
	debugClock             // Log clock controller writes.
	debugUnexp             // Log unexpected accesses.
)

var debugOption = map[string]int{
	"IO":         debugIO,
	"IRQ":        debugIRQ,
	"ETH":        debugEth,
	"MDIO":       debugMdio,
	"WDT":        debugWdt,
	"RESET":      debugReset,
	"CLOCK":      debugClock,
	"UNEXPECTED": debugUnexp,
}

// NIC holds the per MAC state published to the packet backend.
type NIC struct {
	Phys   [6]byte      // Station address as programmed by the guest
	Client *vnet.Client // Packet backend binding
}

// Avalanche is the whole peripheral complex.
type Avalanche struct {
	cpu     *mips.CPU        // CPU environment
	nic     [2]NIC           // Ethernet stations
	intmask [2]uint32        // Interrupt enable banks
	store   [blkCount][]byte // Backing store per block

	// MDIO scratch.
	regaddr  uint32
	phyaddr  uint32
	mdiodata uint32
	phy      [32][6]uint16 // PHY register file

	uart [2]*uart16450.UART // Serial line units behind the bridge

	debugMsk int // Debug option mask.
}

// Options stashed by the configuration file for New.
type settings struct {
	mac  [2]string
	port [2]string
}

var configured settings

// Create the peripheral complex attached to a CPU environment.
func New(cpu *mips.CPU) *Avalanche {
	av := &Avalanche{cpu: cpu}
	for blk := range blocks {
		av.store[blk] = make([]byte, blocks[blk].size)
	}
	for i := range av.nic {
		if configured.mac[i] != "" {
			phys, err := parseMAC(configured.mac[i])
			if err != nil {
				fmt.Println("Invalid mac address: ", configured.mac[i])
			} else {
				av.nic[i].Phys = phys
			}
		}
	}
	av.applyDefaults()
	return av
}

// Parse a aa:bb:cc:dd:ee:ff station address.
func parseMAC(str string) ([6]byte, error) {
	var phys [6]byte
	parts := strings.Split(str, ":")
	if len(parts) != 6 {
		return phys, errors.New("mac address needs six octets")
	}
	for i, part := range parts {
		value, err := strconv.ParseUint(part, 16, 8)
		if err != nil {
			return phys, err
		}
		phys[i] = byte(value)
	}
	return phys, nil
}

// Program the published power up values.
func (av *Avalanche) applyDefaults() {
	putWord(av.store[blkGpio], 0x00, 0x00000800)
	putWord(av.store[blkUart0], 0x14, 0x00000020)
	putWord(av.store[blkDCL], 0x00, 0x025d4291)
	putWord(av.store[blkMdio], mdioVer, 0x00070101)
	putWord(av.store[blkMdio], mdioControl, 0)
	putWord(av.store[blkMdio], mdioAlive, 0xffffffff)

	av.phy[0][phyControlReg] = phyAutoNegotiateEn
	av.phy[0][phyStatusReg] = 0x7801 | nwayCapable
	av.phy[0][phyNwayAdvReg] = nwayFD100 | nwayHD100 | nwayFD10 | nwayHD10 | nwayAuto
	av.phy[0][phyNwayRemReg] = nwayAuto
}

// Return device to power up state.
func (av *Avalanche) Reset() {
	for blk := range blocks {
		clear(av.store[blk])
	}
	av.intmask[0] = 0
	av.intmask[1] = 0
	av.regaddr = 0
	av.phyaddr = 0
	av.mdiodata = 0
	for phy := range av.phy {
		for reg := range av.phy[phy] {
			av.phy[phy][reg] = 0
		}
	}
	av.applyDefaults()
	av.cpu.Cause &^= mips.CauseIP2
	av.cpu.SetIRQ(false)
	for _, uart := range av.uart {
		if uart != nil {
			uart.Reset()
		}
	}
}

// Enable debug options.
func (av *Avalanche) Debug(opt string) error {
	flag, ok := debugOption[opt]
	if !ok {
		return errors.New("avalanche debug option invalid: " + opt)
	}
	av.debugMsk |= flag
	return nil
}

// One line of status for the monitor.
func (av *Avalanche) Show() string {
	str := fmt.Sprintf("avalanche: intmask=%08x/%08x", av.intmask[0], av.intmask[1])
	for i := range av.nic {
		mac := av.nic[i].Phys
		str += fmt.Sprintf(" eth%d=%02x:%02x:%02x:%02x:%02x:%02x",
			i, mac[0], mac[1], mac[2], mac[3], mac[4], mac[5])
	}
	return str
}

// Attach a serial line unit behind the MMIO bridge.
func (av *Avalanche) AttachUART(index int, uart *uart16450.UART) {
	av.uart[index] = uart
}

// Return the serial line unit behind the bridge.
func (av *Avalanche) UART(index int) *uart16450.UART {
	return av.uart[index]
}

// Bind an Ethernet MAC to a packet backend hub.
func (av *Avalanche) BindNIC(index int, hub *vnet.Hub) {
	name := fmt.Sprintf("cpmac%d", index)
	av.nic[index].Client = hub.NewClient(name,
		func(buf []byte) { av.cpmacReceive(index, buf) },
		func() bool { return av.cpmacCanReceive(index) })
}

// Station address of a MAC.
func (av *Avalanche) MACAddr(index int) [6]byte {
	return av.nic[index].Phys
}

// register the machine model on initialize.
func init() {
	config.RegisterModel("AVALANCHE", config.TypeModel, create)
}

// Stash machine options from the configuration file.
func create(_ uint16, _ string, options []config.Option) error {
	for _, option := range options {
		name := strings.ToUpper(option.Name)
		switch name {
		case "MAC0", "MAC1":
			if option.EqualOpt == "" {
				return errors.New("mac option requires address: " + option.Name)
			}
			configured.mac[name[3]-'0'] = option.EqualOpt
		case "PORT0", "PORT1":
			if option.EqualOpt == "" {
				return errors.New("port option requires number: " + option.Name)
			}
			configured.port[name[4]-'0'] = option.EqualOpt
		default:
			return errors.New("avalanche option invalid: " + option.Name)
		}
	}
	return nil
}

// Console ports from the configuration file.
func ConsolePort(index int) string {
	return configured.port[index]
}
