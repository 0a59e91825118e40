package ppu

// Control represents PPUCTRL ($2000), write-only.
//
// Bit layout (VPHB SINN):
//
//	7: V = NMI enable
//	6: P = PPU master/slave select (unused on NES)
//	5: H = sprite size (0: 8x8, 1: 8x16)
//	4: B = background pattern table select
//	3: S = sprite pattern table select
//	2: I = VRAM address increment (0: +1, 1: +32)
//	1-0: NN = base nametable select
type Control struct{ v uint8 }

func (c *Control) Set(v uint8) { c.v = v }
func (c *Control) Get() uint8  { return c.v }

func (c *Control) NametableSelect() uint16    { return uint16(c.v & 0x03) }
func (c *Control) IncrementStep() uint16 {
	if c.v&0x04 != 0 {
		return 32
	}
	return 1
}
func (c *Control) SpritePatternTable() uint16 {
	if c.v&0x08 != 0 {
		return 0x1000
	}
	return 0x0000
}
func (c *Control) BackgroundPatternTable() uint16 {
	if c.v&0x10 != 0 {
		return 0x1000
	}
	return 0x0000
}
func (c *Control) SpriteHeight() int {
	if c.v&0x20 != 0 {
		return 16
	}
	return 8
}
func (c *Control) NMIEnable() bool { return c.v&0x80 != 0 }

// Mask represents PPUMASK ($2001), write-only.
//
// Bit layout (BGRs bMmG):
//
//	7-5: emphasize blue/green/red
//	4: show sprites
//	3: show background
//	2: show sprites in leftmost 8 pixels
//	1: show background in leftmost 8 pixels
//	0: grayscale
type Mask struct{ v uint8 }

func (m *Mask) Set(v uint8) { m.v = v }
func (m *Mask) Get() uint8  { return m.v }

func (m *Mask) Grayscale() bool          { return m.v&0x01 != 0 }
func (m *Mask) BackgroundLeft() bool     { return m.v&0x02 != 0 }
func (m *Mask) SpritesLeft() bool        { return m.v&0x04 != 0 }
func (m *Mask) Background() bool         { return m.v&0x08 != 0 }
func (m *Mask) Sprites() bool            { return m.v&0x10 != 0 }
func (m *Mask) EmphasizeRed() bool       { return m.v&0x20 != 0 }
func (m *Mask) EmphasizeGreen() bool     { return m.v&0x40 != 0 }
func (m *Mask) EmphasizeBlue() bool      { return m.v&0x80 != 0 }
func (m *Mask) RenderingEnabled() bool   { return m.Background() || m.Sprites() }

// Status represents PPUSTATUS ($2002), read-only from the CPU's side.
//
// Bit layout (VSO- ----): 7 vblank, 6 sprite-0 hit, 5 sprite overflow. Bits
// 4-0 are not stored here: a $2002 read fills them from the low five bits
// of the PPUDATA read buffer.
type Status struct{ v uint8 }

func (s *Status) Get() uint8 { return s.v }

func (s *Status) SetVBlank(on bool)         { s.setBit(0x80, on) }
func (s *Status) VBlank() bool              { return s.v&0x80 != 0 }
func (s *Status) SetSprite0Hit(on bool)     { s.setBit(0x40, on) }
func (s *Status) Sprite0Hit() bool          { return s.v&0x40 != 0 }
func (s *Status) SetSpriteOverflow(on bool) { s.setBit(0x20, on) }
func (s *Status) SpriteOverflow() bool      { return s.v&0x20 != 0 }

func (s *Status) setBit(mask uint8, on bool) {
	if on {
		s.v |= mask
	} else {
		s.v &^= mask
	}
}

// Loopy is the 15-bit scroll/address register pair ("v" and "t" in Loopy's
// documentation), split into fine y / nametable / coarse y / coarse x.
type Loopy struct{ v uint16 }

func (l *Loopy) Get() uint16  { return l.v }
func (l *Loopy) Set(v uint16) { l.v = v & 0x7FFF }

func (l *Loopy) CoarseX() uint16       { return l.v & 0x001F }
func (l *Loopy) SetCoarseX(x uint16)   { l.v = (l.v &^ 0x001F) | (x & 0x001F) }
func (l *Loopy) CoarseY() uint16       { return (l.v >> 5) & 0x001F }
func (l *Loopy) SetCoarseY(y uint16)   { l.v = (l.v &^ 0x03E0) | ((y & 0x001F) << 5) }
func (l *Loopy) NametableX() uint16    { return (l.v >> 10) & 0x01 }
func (l *Loopy) NametableY() uint16    { return (l.v >> 11) & 0x01 }
func (l *Loopy) FineY() uint16         { return (l.v >> 12) & 0x07 }
func (l *Loopy) SetFineY(y uint16)     { l.v = (l.v &^ 0x7000) | ((y & 0x07) << 12) }

func (l *Loopy) SetNametableBits(bits uint16) {
	l.v = (l.v &^ 0x0C00) | ((bits & 0x03) << 10)
}

// IncrementCoarseX moves one tile right, wrapping coarse x at 32 and
// flipping the horizontal nametable bit.
func (l *Loopy) IncrementCoarseX() {
	if l.CoarseX() == 31 {
		l.v &^= 0x001F
		l.v ^= 0x0400
	} else {
		l.v++
	}
}

// IncrementY moves one scanline down: fine y increments first, and on
// overflow coarse y increments with the well-known 29/31 wrap quirks.
func (l *Loopy) IncrementY() {
	if l.FineY() < 7 {
		l.SetFineY(l.FineY() + 1)
		return
	}
	l.SetFineY(0)
	y := l.CoarseY()
	switch y {
	case 29:
		y = 0
		l.v ^= 0x0800
	case 31:
		y = 0
	default:
		y++
	}
	l.SetCoarseY(y)
}

// TransferX copies coarse-x and nametable-x from t into v (mask 0x041F).
func (l *Loopy) TransferX(t *Loopy) {
	l.v = (l.v &^ 0x041F) | (t.v & 0x041F)
}

// TransferY copies fine-y, nametable-y and coarse-y from t into v (mask
// 0x7BE0).
func (l *Loopy) TransferY(t *Loopy) {
	l.v = (l.v &^ 0x7BE0) | (t.v & 0x7BE0)
}
