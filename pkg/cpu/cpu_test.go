package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// fakeBus is a flat 64KB address space with the reset/NMI/IRQ vectors
// preloaded so Core.Reset and interrupt servicing have somewhere to jump.
type fakeBus struct {
	mem [0x10000]uint8
}

func (b *fakeBus) Read(addr uint16) uint8       { return b.mem[addr] }
func (b *fakeBus) Write(addr uint16, data uint8) { b.mem[addr] = data }

func newFakeBus() *fakeBus {
	b := &fakeBus{}
	b.mem[resetVector] = 0x00
	b.mem[resetVector+1] = 0x80
	b.mem[nmiVector] = 0x00
	b.mem[nmiVector+1] = 0x90
	b.mem[irqVector] = 0x00
	b.mem[irqVector+1] = 0xA0
	return b
}

func TestResetLoadsVectorAndTakesSevenCycles(t *testing.T) {
	bus := newFakeBus()
	core := New()
	core.Reset(bus)

	assert.Equal(t, uint16(0x8000), core.PC)
	assert.Equal(t, uint8(0xFD), core.S)

	for i := 0; i < 6; i++ {
		core.Cycle(bus)
		assert.Equal(t, uint16(0x8000), core.PC, "PC should not move during the reset hold")
	}
}

func TestNMITakesPriorityOverIRQ(t *testing.T) {
	bus := newFakeBus()
	core := New()
	core.Reset(bus)
	for core.remaining > 0 {
		core.Cycle(bus)
	}

	core.P &^= 0x04 // simulate CLI: interrupts enabled
	core.IRQ()
	core.NMI()
	core.Cycle(bus)

	assert.Equal(t, uint16(0x9000), core.PC, "NMI vector should win when both are pending")
}

func TestSecondIRQIsDroppedWhileOneIsLatched(t *testing.T) {
	bus := newFakeBus()
	core := New()
	core.Reset(bus)
	for core.remaining > 0 {
		core.Cycle(bus)
	}

	core.P &^= 0x04 // simulate CLI: interrupts enabled
	core.IRQ()
	core.Cycle(bus)
	assert.Equal(t, uint16(0xA000), core.PC)

	core.IRQ() // should be dropped: irqLatched is still set
	assert.False(t, core.irqPending)
}
