package ppu

// backgroundPipeline runs the nametable/attribute/pattern fetch sequence
// for cycles 1-256 (current line) and 321-336 (prefetch for the next
// line), and the two scroll-register copies that happen once per line.
func (p *PPU) backgroundPipeline() {
	fetching := (p.cycle >= 1 && p.cycle <= 256) || (p.cycle >= 321 && p.cycle <= 336)
	if fetching {
		p.updateBackgroundShifters()
		switch p.cycle % 8 {
		case 1:
			p.loadBackgroundShifters()
			p.bgNextTileID = p.ppuRead(0x2000 | (p.v.Get() & 0x0FFF))
		case 3:
			p.bgNextTileAttrib = p.fetchAttribute()
		case 5:
			table := p.control.BackgroundPatternTable()
			p.bgNextTileLo = p.ppuRead(table + uint16(p.bgNextTileID)*16 + p.v.FineY())
		case 7:
			table := p.control.BackgroundPatternTable()
			p.bgNextTileHi = p.ppuRead(table + uint16(p.bgNextTileID)*16 + p.v.FineY() + 8)
		case 0:
			p.v.IncrementCoarseX()
		}
	}

	if p.cycle == 256 {
		p.v.IncrementY()
	}
	if p.cycle == 257 {
		p.loadBackgroundShifters()
		if p.mask.RenderingEnabled() {
			p.v.TransferX(&p.t)
		}
	}
	if p.scanline == 261 && p.cycle >= 280 && p.cycle <= 304 && p.mask.RenderingEnabled() {
		p.v.TransferY(&p.t)
	}
}

// fetchAttribute resolves the 2-bit palette select for the tile at v from
// the attribute table byte covering its 4x4-tile quadrant group. This is
// the classic formula; it is kept exactly as commonly implemented rather
// than rederived; see DESIGN.md.
func (p *PPU) fetchAttribute() uint8 {
	v := p.v.Get()
	addr := 0x23C0 | (v & 0x0C00) | ((v >> 4) & 0x38) | ((v >> 2) & 0x07)
	attrib := p.ppuRead(addr)
	if (p.v.CoarseY()>>1)&1 != 0 {
		attrib >>= 4
	}
	if (p.v.CoarseX()>>1)&1 != 0 {
		attrib >>= 2
	}
	return attrib & 0x03
}

func (p *PPU) updateBackgroundShifters() {
	if !p.mask.Background() {
		return
	}
	p.bgShifterPatternLo <<= 1
	p.bgShifterPatternHi <<= 1
	p.bgShifterAttribLo <<= 1
	p.bgShifterAttribHi <<= 1
}

func (p *PPU) loadBackgroundShifters() {
	p.bgShifterPatternLo = (p.bgShifterPatternLo & 0xFF00) | uint16(p.bgNextTileLo)
	p.bgShifterPatternHi = (p.bgShifterPatternHi & 0xFF00) | uint16(p.bgNextTileHi)

	var lo, hi uint16
	if p.bgNextTileAttrib&0x01 != 0 {
		lo = 0xFF
	}
	if p.bgNextTileAttrib&0x02 != 0 {
		hi = 0xFF
	}
	p.bgShifterAttribLo = (p.bgShifterAttribLo & 0xFF00) | lo
	p.bgShifterAttribHi = (p.bgShifterAttribHi & 0xFF00) | hi
}

// producePixel resolves the background and foreground pixel at the
// current dot, applies the sprite-0 hit test and the bg/fg priority rule,
// and writes one ARGB pixel into the frame buffer.
func (p *PPU) producePixel() {
	x := p.cycle - 1

	var bgPixel, bgPalette uint8
	if p.mask.Background() && (x >= 8 || p.mask.BackgroundLeft()) {
		mux := uint16(0x8000) >> p.fineX
		var lo, hi uint8
		if p.bgShifterPatternLo&mux != 0 {
			lo = 1
		}
		if p.bgShifterPatternHi&mux != 0 {
			hi = 1
		}
		bgPixel = hi<<1 | lo

		var plo, phi uint8
		if p.bgShifterAttribLo&mux != 0 {
			plo = 1
		}
		if p.bgShifterAttribHi&mux != 0 {
			phi = 1
		}
		bgPalette = phi<<1 | plo
	}

	var fgPixel, fgPalette uint8
	var fgPriority, fgIsZero bool
	if p.mask.Sprites() && (x >= 8 || p.mask.SpritesLeft()) {
		for i := 0; i < p.spriteCount; i++ {
			offset := p.spriteXOffset[i]
			if offset < -7 || offset > 0 {
				continue
			}
			bit := uint(7 + offset)
			lo := (p.spriteShifterLo[i] >> bit) & 1
			hi := (p.spriteShifterHi[i] >> bit) & 1
			pix := hi<<1 | lo
			if pix == 0 {
				continue
			}
			fgPixel = pix
			fgPalette = (p.spriteAttributes[i] & 0x03) + 4
			fgPriority = p.spriteAttributes[i]&0x20 == 0
			fgIsZero = p.spriteAttributes[i]&0x04 != 0
			break
		}
	}

	var finalPixel, finalPalette uint8
	switch {
	case bgPixel == 0 && fgPixel == 0:
	case bgPixel == 0:
		finalPixel, finalPalette = fgPixel, fgPalette
	case fgPixel == 0:
		finalPixel, finalPalette = bgPixel, bgPalette
	default:
		if fgIsZero && x != 255 {
			p.status.SetSprite0Hit(true)
		}
		if fgPriority {
			finalPixel, finalPalette = fgPixel, fgPalette
		} else {
			finalPixel, finalPalette = bgPixel, bgPalette
		}
	}

	p.screen[p.scanline*ScreenWidth+x] = p.colorFromPalette(finalPalette, finalPixel)
}
