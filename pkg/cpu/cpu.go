// Package cpu defines the boundary between the NES core and its CPU timing
// domain. The 2A03 itself is treated as an external collaborator (see the
// project's design notes): anything that understands 6502 opcodes can sit
// behind this interface, it only has to honour the NES's cycle-at-a-time
// scheduling contract.
//
// Core ships a minimal NMOS-timing-compatible implementation so the rest of
// the module (bus, PPU, mapper IRQ plumbing) is independently testable
// without pulling in a full instruction-accurate decoder. It fetches
// opcodes, burns the right number of cycles, and honours NMI/IRQ vectoring,
// but does not implement the 6502 instruction set; sub-instruction accuracy
// is explicitly out of scope for this layer.
package cpu

// Bus is the memory interface the CPU core reads and writes through on
// every cycle. The NES system bus implements this.
type Bus interface {
	Read(addr uint16) uint8
	Write(addr uint16, data uint8)
}

const (
	resetVector = 0xFFFC
	nmiVector   = 0xFFFA
	irqVector   = 0xFFFE
)

// Core is a cycle-scheduling 6502-compatible CPU timing domain.
type Core struct {
	A, X, Y, S uint8
	P          uint8
	PC         uint16

	remaining  int
	nmiPending bool
	irqPending bool
	irqLatched bool
}

// New creates a CPU core in its power-off state. Call Reset before use.
func New() *Core {
	return &Core{S: 0xFD, P: 0x24}
}

// Reset loads the reset vector and clears in-flight interrupt latches.
func (c *Core) Reset(bus Bus) {
	lo := uint16(bus.Read(resetVector))
	hi := uint16(bus.Read(resetVector + 1))
	c.PC = hi<<8 | lo
	c.S = 0xFD
	c.P |= 0x04
	c.remaining = 7
	c.nmiPending = false
	c.irqPending = false
	c.irqLatched = false
}

// NMI latches a non-maskable interrupt request. The vector is taken the
// next time the core finishes an instruction.
func (c *Core) NMI() {
	c.nmiPending = true
}

// IRQ latches a maskable interrupt request. It is silently dropped while a
// previously accepted IRQ is still being serviced (until the next opcode
// fetch), matching level-sensitive IRQ lines.
func (c *Core) IRQ() {
	if !c.irqLatched {
		c.irqPending = true
	}
}

// Cycle advances the CPU by one CPU cycle (the bus calls it on every third
// master tick). When the current
// instruction (or interrupt sequence) completes it services a pending NMI
// first, then a pending IRQ if interrupts are not disabled.
func (c *Core) Cycle(bus Bus) {
	if c.remaining > 0 {
		c.remaining--
		return
	}

	if c.nmiPending {
		c.nmiPending = false
		c.serviceInterrupt(bus, nmiVector)
		return
	}

	if c.irqPending && c.P&0x04 == 0 {
		c.irqPending = false
		c.irqLatched = true
		c.serviceInterrupt(bus, irqVector)
		return
	}

	opcode := bus.Read(c.PC)
	c.PC++
	c.remaining = int(cycleTable[opcode]) - 1
	if c.remaining < 1 {
		c.remaining = 1
	}
	c.irqLatched = false
}

func (c *Core) serviceInterrupt(bus Bus, vector uint16) {
	c.P |= 0x04
	lo := uint16(bus.Read(vector))
	hi := uint16(bus.Read(vector + 1))
	c.PC = hi<<8 | lo
	c.remaining = 6
}

// cycleTable gives the base instruction length used for scheduling; it is
// deliberately approximate (no page-cross or branch-taken penalties) since
// this core only needs to keep the PPU/mapper/DMA state machines honest,
// not execute real programs cycle-exactly.
var cycleTable = [256]uint8{
	7, 6, 0, 8, 3, 3, 5, 5, 3, 2, 2, 2, 4, 4, 6, 6,
	2, 5, 0, 8, 4, 4, 6, 6, 2, 4, 2, 7, 4, 4, 7, 7,
	6, 6, 0, 8, 3, 3, 5, 5, 4, 2, 2, 2, 4, 4, 6, 6,
	2, 5, 0, 8, 4, 4, 6, 6, 2, 4, 2, 7, 4, 4, 7, 7,
	6, 6, 0, 8, 3, 3, 5, 5, 3, 2, 2, 2, 3, 4, 6, 6,
	2, 5, 0, 8, 4, 4, 6, 6, 2, 4, 2, 7, 4, 4, 7, 7,
	6, 6, 0, 8, 3, 3, 5, 5, 4, 2, 2, 2, 5, 4, 6, 6,
	2, 5, 0, 8, 4, 4, 6, 6, 2, 4, 2, 7, 4, 4, 7, 7,
	2, 6, 2, 6, 3, 3, 3, 3, 2, 2, 2, 2, 4, 4, 4, 4,
	2, 6, 0, 6, 4, 4, 4, 4, 2, 5, 2, 5, 5, 5, 5, 5,
	2, 6, 2, 6, 3, 3, 3, 3, 2, 2, 2, 2, 4, 4, 4, 4,
	2, 5, 0, 5, 4, 4, 4, 4, 2, 4, 2, 4, 4, 4, 4, 4,
	2, 6, 2, 8, 3, 3, 5, 5, 2, 2, 2, 2, 4, 4, 6, 6,
	2, 5, 0, 8, 4, 4, 6, 6, 2, 4, 2, 7, 4, 4, 7, 7,
	2, 6, 2, 8, 3, 3, 5, 5, 2, 2, 2, 2, 4, 4, 6, 6,
	2, 5, 0, 8, 4, 4, 6, 6, 2, 4, 2, 7, 4, 4, 7, 7,
}
