// Package ppu implements the 2C02 picture processing unit: the background
// and sprite pixel pipelines, the VRAM/OAM address spaces, and the
// register interface the CPU sees at $2000-$2007. The PPU owns every byte
// of its own state (nametable RAM, OAM, palette RAM, scroll registers);
// pattern-table data and nametable mirroring come from the cartridge
// through the narrow Cartridge interface below.
package ppu

import "github.com/nesgrain/nesgrain/pkg/cartridge"

const (
	ScreenWidth  = 256
	ScreenHeight = 240
)

// Cartridge is the subset of *cartridge.Cartridge the PPU depends on:
// pattern-table access, the nametable mirroring mode currently in
// effect (which MMC1 and MMC3 can change at runtime), and the scanline
// signal that clocks the MMC3 IRQ counter.
type Cartridge interface {
	CharacterRead(addr uint16) uint8
	CharacterWrite(addr uint16, data uint8)
	Mirroring() cartridge.Mirroring
	EndOfScanline()
}

// PPU is the picture processing unit. It is driven one dot at a time by
// Clock, called once per master cycle by the bus.
type PPU struct {
	cart Cartridge

	control Control
	mask    Mask
	status  Status

	v, t        Loopy
	fineX       uint8
	writeToggle bool
	dataBuffer  uint8

	oamAddr      uint8
	oam          [256]uint8
	secondaryOAM [32]uint8

	paletteRAM   [32]uint8
	nametableRAM [2048]uint8

	screen [ScreenWidth * ScreenHeight]uint32

	scanline   int
	cycle      int
	frameCount uint64
	nmiPending bool

	bgNextTileID     uint8
	bgNextTileAttrib uint8
	bgNextTileLo     uint8
	bgNextTileHi     uint8

	bgShifterPatternLo uint16
	bgShifterPatternHi uint16
	bgShifterAttribLo  uint16
	bgShifterAttribHi  uint16

	spriteCount       int
	spriteShifterLo   [8]uint8
	spriteShifterHi   [8]uint8
	spriteAttributes  [8]uint8
	spriteXOffset     [8]int16
	spriteZeroPresent bool
	spriteZeroSlot    int
}

// New builds a PPU wired to the given cartridge for pattern-table and
// mirroring access. The PPU starts on the pre-render line (scanline 261).
func New(cart Cartridge) *PPU {
	p := &PPU{cart: cart, spriteZeroSlot: -1}
	p.scanline = 261
	return p
}

// Reset restores the scroll/address latches and pipeline position without
// touching VRAM, OAM or palette RAM, mirroring the real chip's reset pin.
// The VBlank status flag survives the reset; the pipeline restarts at
// scanline 0, cycle 0.
func (p *PPU) Reset() {
	p.control = Control{}
	p.mask = Mask{}
	vblank := p.status.VBlank()
	p.status = Status{}
	p.status.SetVBlank(vblank)
	p.v = Loopy{}
	p.t = Loopy{}
	p.fineX = 0
	p.writeToggle = false
	p.dataBuffer = 0
	p.scanline = 0
	p.cycle = 0
	p.nmiPending = false
}

// Screen returns the ARGB8888 frame buffer the PPU draws into. Pixels are
// written dot by dot, so between frame boundaries the buffer holds part of
// the frame in progress. The returned pointer is stable for the PPU's
// lifetime; callers should copy out a frame before the next one starts if
// they need to hold onto it.
func (p *PPU) Screen() *[ScreenWidth * ScreenHeight]uint32 {
	return &p.screen
}

// FrameCount returns the number of frames completed so far.
func (p *PPU) FrameCount() uint64 {
	return p.frameCount
}

// ConsumeNMI reports whether the PPU has asserted its NMI line since the
// last call, and clears the flag: the bus polls this once per master cycle
// and forwards it to the CPU core.
func (p *PPU) ConsumeNMI() bool {
	pending := p.nmiPending
	p.nmiPending = false
	return pending
}

// ReadRegister services a CPU read of $2000-$2007 (mirrored every 8 bytes
// through $3FFF by the bus).
func (p *PPU) ReadRegister(addr uint16) uint8 {
	switch addr % 8 {
	case 2:
		v := p.status.Get() | (p.dataBuffer & 0x1F)
		p.status.SetVBlank(false)
		p.writeToggle = false
		return v
	case 4:
		if p.scanline < 240 && p.cycle >= 1 && p.cycle <= 64 {
			return 0xFF
		}
		return p.oam[p.oamAddr]
	case 7:
		return p.readData()
	default:
		return 0
	}
}

// WriteRegister services a CPU write of $2000-$2007.
func (p *PPU) WriteRegister(addr uint16, data uint8) {
	switch addr % 8 {
	case 0:
		p.control.Set(data)
		p.t.SetNametableBits(uint16(data))
	case 1:
		p.mask.Set(data)
	case 3:
		p.oamAddr = data
	case 4:
		p.oam[p.oamAddr] = data
		p.oamAddr++
	case 5:
		if !p.writeToggle {
			p.fineX = data & 0x07
			p.t.SetCoarseX(uint16(data >> 3))
		} else {
			p.t.SetFineY(uint16(data & 0x07))
			p.t.SetCoarseY(uint16(data >> 3))
		}
		p.writeToggle = !p.writeToggle
	case 6:
		if !p.writeToggle {
			p.t.Set((p.t.Get() & 0x00FF) | (uint16(data&0x3F) << 8))
		} else {
			p.t.Set((p.t.Get() &^ 0x00FF) | uint16(data))
			p.v.Set(p.t.Get())
		}
		p.writeToggle = !p.writeToggle
	case 7:
		p.ppuWrite(p.v.Get(), data)
		p.v.Set(p.v.Get() + p.control.IncrementStep())
	}
}

func (p *PPU) readData() uint8 {
	addr := p.v.Get()
	var result uint8
	if addr >= 0x3F00 {
		result = p.ppuRead(addr)
		p.dataBuffer = p.ppuRead(addr - 0x1000)
	} else {
		result = p.dataBuffer
		p.dataBuffer = p.ppuRead(addr)
	}
	p.v.Set(addr + p.control.IncrementStep())
	return result
}

// WriteOAMDMAByte deposits one byte transferred by the bus's OAM-DMA state
// machine, advancing the OAM address exactly as a $2004 write would.
func (p *PPU) WriteOAMDMAByte(data uint8) {
	p.oam[p.oamAddr] = data
	p.oamAddr++
}

func (p *PPU) ppuRead(addr uint16) uint8 {
	addr &= 0x3FFF
	switch {
	case addr < 0x2000:
		return p.cart.CharacterRead(addr)
	case addr < 0x3F00:
		return p.nametableRAM[p.mirrorNametable(addr)]
	default:
		return p.readPaletteRAM(addr)
	}
}

func (p *PPU) ppuWrite(addr uint16, data uint8) {
	addr &= 0x3FFF
	switch {
	case addr < 0x2000:
		p.cart.CharacterWrite(addr, data)
	case addr < 0x3F00:
		p.nametableRAM[p.mirrorNametable(addr)] = data
	default:
		p.writePaletteRAM(addr, data)
	}
}

func (p *PPU) mirrorNametable(addr uint16) uint16 {
	addr = (addr - 0x2000) % 0x1000
	table := addr / 0x0400
	offset := addr % 0x0400
	switch p.cart.Mirroring() {
	case cartridge.MirrorVertical:
		return (table%2)*0x0400 + offset
	case cartridge.MirrorOneScreenLower:
		return offset
	case cartridge.MirrorOneScreenUpper:
		return 0x0400 + offset
	default: // horizontal
		return (table/2)*0x0400 + offset
	}
}

func (p *PPU) readPaletteRAM(addr uint16) uint8 {
	return p.paletteRAM[paletteAddr(addr)]
}

func (p *PPU) writePaletteRAM(addr uint16, data uint8) {
	p.paletteRAM[paletteAddr(addr)] = data & 0x3F
}

// paletteAddr folds the sprite-palette backdrop mirrors ($3F10/$3F14/$3F18/
// $3F1C) onto their background-palette counterparts.
func paletteAddr(addr uint16) uint16 {
	a := addr & 0x1F
	if a&0x13 == 0x10 {
		a &^= 0x10
	}
	return a
}

// Clock advances the PPU by exactly one dot. The bus calls this once per
// master cycle.
func (p *PPU) Clock() {
	onScreenLine := p.scanline < 240 || p.scanline == 261

	if onScreenLine {
		p.backgroundPipeline()
	}
	if p.scanline < 240 {
		p.spritePipeline()
	}
	if p.scanline < 240 && p.cycle >= 1 && p.cycle <= 256 {
		p.producePixel()
	}

	switch {
	case p.scanline == 241 && p.cycle == 1:
		p.status.SetVBlank(true)
		if p.control.NMIEnable() {
			p.nmiPending = true
		}
	case p.scanline == 261 && p.cycle == 1:
		p.status.SetVBlank(false)
		p.status.SetSprite0Hit(false)
		p.status.SetSpriteOverflow(false)
	}

	p.advance()
}

// advance moves to the next dot, folding in the odd-frame skip: on odd
// frames with rendering enabled the pre-render line is one dot short.
func (p *PPU) advance() {
	if p.scanline == 261 && p.cycle == 339 && p.mask.RenderingEnabled() && p.frameCount%2 == 1 {
		p.cycle = 0
		p.scanline = 0
		p.frameCount++
		return
	}

	p.cycle++
	if p.cycle > 340 {
		p.cycle = 0
		p.scanline++
		if p.scanline > 261 {
			p.scanline = 0
			p.frameCount++
		}
	}
}
