package ppu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nesgrain/nesgrain/pkg/cartridge"
)

// fakeCartridge is a minimal Cartridge: flat CHR RAM, fixed mirroring.
type fakeCartridge struct {
	chr       [0x2000]uint8
	mirroring cartridge.Mirroring
}

func (c *fakeCartridge) CharacterRead(addr uint16) uint8    { return c.chr[addr&0x1FFF] }
func (c *fakeCartridge) CharacterWrite(addr uint16, v uint8) { c.chr[addr&0x1FFF] = v }
func (c *fakeCartridge) Mirroring() cartridge.Mirroring      { return c.mirroring }
func (c *fakeCartridge) EndOfScanline()                      {}

func newTestPPU() (*PPU, *fakeCartridge) {
	cart := &fakeCartridge{mirroring: cartridge.MirrorHorizontal}
	return New(cart), cart
}

func TestPaletteWriteMirrorsBackdropEntries(t *testing.T) {
	p, _ := newTestPPU()
	p.WriteRegister(0x2006, 0x3F)
	p.WriteRegister(0x2006, 0x00)
	p.WriteRegister(0x2007, 0x16) // $3F00

	p.WriteRegister(0x2006, 0x3F)
	p.WriteRegister(0x2006, 0x10) // $3F10 mirrors $3F00
	got := p.readPaletteRAM(0x10)
	assert.Equal(t, uint8(0x16), got)
}

func TestVBlankFlagSetsAtScanline241AndClearsOnRead(t *testing.T) {
	p, _ := newTestPPU()
	p.control.Set(0x00) // NMI disabled, doesn't matter for the status flag itself

	for p.scanline != 241 || p.cycle != 1 {
		p.Clock()
	}
	p.Clock() // runs the (241,1) dot, which sets VBlank
	assert.True(t, p.status.VBlank())

	v := p.ReadRegister(0x2002)
	assert.NotEqual(t, uint8(0), v&0x80)
	assert.False(t, p.status.VBlank(), "reading $2002 clears VBlank")
}

func TestWriteTogglePairsXAndYScroll(t *testing.T) {
	p, _ := newTestPPU()
	p.WriteRegister(0x2005, 0x7D) // X: coarse 15, fine 5
	p.WriteRegister(0x2005, 0x5E) // Y: coarse 11, fine 6

	assert.Equal(t, uint8(5), p.fineX)
	assert.Equal(t, uint16(15), p.t.CoarseX())
	assert.Equal(t, uint16(11), p.t.CoarseY())
	assert.Equal(t, uint16(6), p.t.FineY())
}

func TestCoarseXWrapFlipsNametableBit(t *testing.T) {
	p, _ := newTestPPU()
	p.v.SetCoarseX(31)
	p.v.IncrementCoarseX()
	assert.Equal(t, uint16(0), p.v.CoarseX())
	assert.Equal(t, uint16(1), p.v.NametableX())
}

func TestOddFrameSkipsOneDotWhenRenderingEnabled(t *testing.T) {
	p, _ := newTestPPU()
	p.mask.Set(0x08) // background enabled

	// New() starts the PPU already on the pre-render line, so the very
	// first frame boundary is a short boot artifact (just that one line).
	// Run it off before measuring full frames.
	for p.frameCount == 0 {
		p.Clock()
	}

	// frameCount is now 1 (odd): this frame-in-progress skips a dot.
	start := p.frameCount
	dots := 0
	for p.frameCount == start {
		p.Clock()
		dots++
	}
	require.Equal(t, start+1, p.frameCount)
	assert.Equal(t, 341*262-1, dots, "odd frame: one dot short")

	// frameCount is now 2 (even): full length, no skip.
	dots = 0
	start = p.frameCount
	for p.frameCount == start {
		p.Clock()
		dots++
	}
	assert.Equal(t, 341*262, dots, "even frame: no skip")
}

func TestOAMDataReadsOpenBusDuringSecondaryOAMClear(t *testing.T) {
	p, _ := newTestPPU()
	p.scanline = 10
	p.cycle = 32
	assert.Equal(t, uint8(0xFF), p.ReadRegister(0x2004))
}
