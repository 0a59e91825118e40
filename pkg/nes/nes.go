// Package nes assembles the CPU timing domain, PPU and bus into the single
// host-facing emulator object described by the external interface: load a
// cartridge, drive it one frame at a time, feed it controller state, read
// back pixels.
package nes

import (
	"github.com/nesgrain/nesgrain/pkg/bus"
	"github.com/nesgrain/nesgrain/pkg/cartridge"
	"github.com/nesgrain/nesgrain/pkg/cpu"
	"github.com/nesgrain/nesgrain/pkg/ppu"
)

// Emulator is a fully wired NES: one cartridge, one CPU timing domain, one
// PPU, one bus. It owns every byte of machine state; nothing outside this
// struct needs to be kept in sync with it.
type Emulator struct {
	cpuCore *cpu.Core
	ppuUnit *ppu.PPU
	bus     *bus.Bus
}

// New builds an emulator around an already-loaded cartridge and resets it
// to its power-on state.
func New(cart *cartridge.Cartridge) *Emulator {
	cpuCore := cpu.New()
	ppuUnit := ppu.New(cart)
	systemBus := bus.New(cpuCore, ppuUnit, cart)

	e := &Emulator{cpuCore: cpuCore, ppuUnit: ppuUnit, bus: systemBus}
	e.bus.Reset()
	return e
}

// Cycle advances the system by one master clock tick.
func (e *Emulator) Cycle() {
	e.bus.Cycle()
}

// Frame runs cycles until the PPU completes a frame and returns the
// resulting ARGB8888 pixel buffer. The returned pointer aliases the PPU's
// internal buffer; callers needing to retain a frame across the next call
// should copy it out first.
func (e *Emulator) Frame() *[ppu.ScreenWidth * ppu.ScreenHeight]uint32 {
	start := e.bus.FrameCount()
	for e.bus.FrameCount() == start {
		e.bus.Cycle()
	}
	return e.Screen()
}

// Screen returns the current contents of the PPU's frame buffer without
// advancing emulation.
func (e *Emulator) Screen() *[ppu.ScreenWidth * ppu.ScreenHeight]uint32 {
	return e.bus.Screen()
}

// UpdateController1 applies a host-driven button-state snapshot to port 1.
// A nil state disconnects the port.
func (e *Emulator) UpdateController1(state *uint8) {
	e.bus.UpdateController1(state)
}

// UpdateController2 applies a host-driven button-state snapshot to port 2.
func (e *Emulator) UpdateController2(state *uint8) {
	e.bus.UpdateController2(state)
}

// Reset pulses the console's reset line.
func (e *Emulator) Reset() {
	e.bus.Reset()
}
