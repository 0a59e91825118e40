package ppu

// spritePipeline runs secondary-OAM clear (dots 1-64), sprite evaluation
// (collapsed to a single pass at dot 257; the overflow flag follows the
// simplified rule in evaluateSprites, not the hardware's buggy scan),
// per-sprite pattern fetch (dots 257-320, one sprite
// every 8 dots), and the x_offset countdown that every latched sprite
// runs down across dots 1-256. It also drives the mapper's scanline IRQ
// hook at the dot corresponding to the real hardware's PPU-A12 rise.
func (p *PPU) spritePipeline() {
	switch {
	case p.cycle == 1:
		for i := range p.secondaryOAM {
			p.secondaryOAM[i] = 0xFF
		}
	case p.cycle == 257:
		p.evaluateSprites()
	case p.cycle >= 257 && p.cycle <= 320 && p.cycle%8 == 0:
		p.fetchSprite((p.cycle - 257) / 8)
	}

	if p.cycle >= 1 && p.cycle <= 256 {
		for i := range p.spriteXOffset {
			p.spriteXOffset[i]--
		}
	}

	renderingEnabled := p.mask.Background() || p.mask.Sprites()
	switch {
	case p.cycle == 260 && renderingEnabled && p.control.SpritePatternTable() == 0x1000:
		p.cart.EndOfScanline()
	case p.cycle == 324 && renderingEnabled && p.control.BackgroundPatternTable() == 0x1000:
		p.cart.EndOfScanline()
	}
}

// evaluateSprites scans primary OAM for sprites visible on the scanline
// about to be drawn, copying the first eight into secondary OAM. A ninth
// match sets the overflow flag; sprites beyond that are not evaluated
// further, matching the visible behavior of the hardware's buggy overflow
// detection without reproducing its false-negative quirk.
func (p *PPU) evaluateSprites() {
	height := p.control.SpriteHeight()
	count := 0
	p.spriteZeroPresent = false
	p.spriteZeroSlot = -1

	for n := 0; n < 64; n++ {
		y := p.oam[n*4]
		diff := p.scanline - int(y)
		if diff < 0 || diff >= height {
			continue
		}
		if count >= 8 {
			p.status.SetSpriteOverflow(true)
			break
		}
		copy(p.secondaryOAM[count*4:count*4+4], p.oam[n*4:n*4+4])
		if n == 0 {
			p.spriteZeroPresent = true
			p.spriteZeroSlot = count
		}
		count++
	}
	p.spriteCount = count
}

// fetchSprite loads the shift registers, attributes and x offset for one
// of the up to eight sprites found on this scanline, from its secondary
// OAM entry.
func (p *PPU) fetchSprite(slot int) {
	base := slot * 4
	y := p.secondaryOAM[base]
	tileIndex := p.secondaryOAM[base+1]
	attrib := p.secondaryOAM[base+2]
	x := p.secondaryOAM[base+3]

	height := p.control.SpriteHeight()
	row := p.scanline - int(y)
	if attrib&0x80 != 0 {
		row = height - 1 - row
	}

	var table, tile uint16
	if height == 16 {
		table = uint16(tileIndex&0x01) * 0x1000
		tile = uint16(tileIndex &^ 0x01)
		if row >= 8 {
			tile++
			row -= 8
		}
	} else {
		table = p.control.SpritePatternTable()
		tile = uint16(tileIndex)
	}

	lo := p.ppuRead(table + tile*16 + uint16(row&0x07))
	hi := p.ppuRead(table + tile*16 + uint16(row&0x07) + 8)

	if attrib&0x40 != 0 {
		lo = reverseBits(lo)
		hi = reverseBits(hi)
	}

	p.spriteShifterLo[slot] = lo
	p.spriteShifterHi[slot] = hi
	p.spriteAttributes[slot] = attrib & 0x23
	if p.spriteZeroPresent && slot == p.spriteZeroSlot {
		p.spriteAttributes[slot] |= 0x04
	}
	p.spriteXOffset[slot] = int16(x) + 1
}

func reverseBits(b uint8) uint8 {
	b = (b&0xF0)>>4 | (b&0x0F)<<4
	b = (b&0xCC)>>2 | (b&0x33)<<2
	b = (b&0xAA)>>1 | (b&0x55)<<1
	return b
}
