// Package bus implements the NES system bus: the single piece of state
// that owns CPU RAM, the PPU, the cartridge, both controller ports and the
// APU stub, and arbitrates OAM DMA against ordinary CPU bus cycles. Every
// other component reaches the rest of the system only through bus-mediated
// reads and writes; nothing holds a back-reference to the bus itself.
package bus

import (
	"github.com/nesgrain/nesgrain/pkg/apu"
	"github.com/nesgrain/nesgrain/pkg/cartridge"
	"github.com/nesgrain/nesgrain/pkg/controller"
	"github.com/nesgrain/nesgrain/pkg/cpu"
	"github.com/nesgrain/nesgrain/pkg/ppu"
)

// CPU is the timing-domain collaborator the bus drives one cycle at a
// time. *cpu.Core satisfies it; any implementation honouring the same
// cycle-at-a-time, edge-triggered-interrupt contract can stand in.
type CPU interface {
	Reset(bus cpu.Bus)
	Cycle(bus cpu.Bus)
	NMI()
	IRQ()
}

// dma tracks an in-flight OAM DMA transfer across master cycles: a 1-2
// cycle alignment wait, then 256 alternating read/write cycle pairs.
type dma struct {
	active bool
	wait   bool
	page   uint8
	count  uint8
	buffer uint8
}

// Bus is the NES system bus.
type Bus struct {
	ram [2048]uint8

	cpuCore CPU
	ppuUnit *ppu.PPU
	cart    *cartridge.Cartridge
	apuUnit apu.Stub

	Controller1 controller.Port
	Controller2 controller.Port

	dma dma

	masterCycle uint64
}

// New wires a bus to its CPU timing domain, PPU and cartridge. Call Reset
// before the first Cycle to load the reset vector.
func New(cpuCore CPU, ppuUnit *ppu.PPU, cart *cartridge.Cartridge) *Bus {
	return &Bus{cpuCore: cpuCore, ppuUnit: ppuUnit, cart: cart}
}

// Read services a CPU read against the full $0000-$FFFF address map.
func (b *Bus) Read(addr uint16) uint8 {
	switch {
	case addr < 0x2000:
		return b.ram[addr&0x07FF]
	case addr < 0x4000:
		return b.ppuUnit.ReadRegister(addr)
	case addr == 0x4016:
		return b.Controller1.Poll(0)
	case addr == 0x4017:
		return b.Controller2.Poll(0)
	case addr < 0x4018:
		return b.apuUnit.Read(addr)
	case addr < 0x4020:
		return 0
	default:
		return b.cart.ProgramRead(addr)
	}
}

// Write services a CPU write against the full $0000-$FFFF address map.
func (b *Bus) Write(addr uint16, data uint8) {
	switch {
	case addr < 0x2000:
		b.ram[addr&0x07FF] = data
	case addr < 0x4000:
		b.ppuUnit.WriteRegister(addr, data)
	case addr == 0x4014:
		b.dma = dma{active: true, wait: true, page: data}
	case addr == 0x4016:
		b.Controller1.Write(data)
		b.Controller2.Write(data)
	case addr < 0x4018:
		b.apuUnit.Write(addr, data)
	case addr < 0x4020:
		// unused APU/IO test-mode range
	default:
		b.cart.ProgramWrite(addr, data)
	}
}

// Cycle advances the system by exactly one master clock tick. The PPU
// advances every tick; the CPU, or an in-flight OAM DMA transfer stealing
// its cycles, advances every third tick. A pending mapper IRQ is polled
// and forwarded to the CPU every tick, matching a level-sensitive line.
func (b *Bus) Cycle() {
	if b.masterCycle%3 == 0 {
		if b.dma.active {
			b.stepDMA()
		} else {
			b.cpuCore.Cycle(b)
		}
	}

	b.ppuUnit.Clock()
	if b.ppuUnit.ConsumeNMI() {
		b.cpuCore.NMI()
	}
	if b.cart.Mapper.PendingIRQ() {
		b.cpuCore.IRQ()
	}

	b.masterCycle++
}

func (b *Bus) stepDMA() {
	if b.dma.wait {
		if b.masterCycle%2 == 1 {
			b.dma.wait = false
		}
		return
	}
	if b.masterCycle%2 == 0 {
		addr := uint16(b.dma.page)<<8 | uint16(b.dma.count)
		b.dma.buffer = b.Read(addr)
		return
	}
	b.ppuUnit.WriteOAMDMAByte(b.dma.buffer)
	b.dma.count++
	if b.dma.count == 0 {
		b.dma.active = false
	}
}

// UpdateController1 applies a host-driven button-state change to port 1.
// A nil state disconnects the port.
func (b *Bus) UpdateController1(state *uint8) { b.Controller1.Update(state) }

// UpdateController2 applies a host-driven button-state change to port 2.
func (b *Bus) UpdateController2(state *uint8) { b.Controller2.Update(state) }

// Screen returns the PPU's ARGB8888 frame buffer.
func (b *Bus) Screen() *[ppu.ScreenWidth * ppu.ScreenHeight]uint32 {
	return b.ppuUnit.Screen()
}

// FrameCount returns the number of frames the PPU has completed.
func (b *Bus) FrameCount() uint64 {
	return b.ppuUnit.FrameCount()
}

// Reset brings the bus's components to their power-on/reset state and
// restarts the master cycle counter. CPU RAM and cartridge RAM are left
// untouched, matching the real console's reset line.
func (b *Bus) Reset() {
	b.dma = dma{}
	b.masterCycle = 0
	b.ppuUnit.Reset()
	b.Controller1.Reset()
	b.Controller2.Reset()
	b.cpuCore.Reset(b)
}
