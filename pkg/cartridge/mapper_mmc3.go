package cartridge

// MMC3 (mapper 4) multiplexes eight bank-select registers over four
// 0x2000-byte address windows (two registers per window, selected by
// address bit 0), and drives a scanline counter that raises an IRQ when it
// reaches zero. The scanline signal itself is not generated here: the PPU
// calls EndOfScanline at the point in its pixel pipeline that corresponds
// to the real hardware's A12-rise detection (see the PPU package).

func mmc3ProgramWrite(m *Mapper, addr uint16, data uint8) {
	switch {
	case addr < 0xA000:
		if addr&1 == 0 {
			m.mmc3BankSelect = data
		} else {
			m.mmc3Bank[m.mmc3BankSelect&0x07] = data
		}
	case addr < 0xC000:
		if addr&1 == 0 {
			if data&0x01 == 0 {
				m.mmc3Mirroring = MirrorVertical
			} else {
				m.mmc3Mirroring = MirrorHorizontal
			}
		} else {
			m.mmc3PRGRAMProtect = data&0x40 != 0
			m.mmc3PRGRAMEnable = data&0x80 != 0
		}
	case addr < 0xE000:
		if addr&1 == 0 {
			m.mmc3IRQLatch = data
		} else {
			m.mmc3IRQCounter = 0
			m.mmc3IRQReloadPending = true
		}
	default:
		if addr&1 == 0 {
			m.mmc3IRQEnable = false
			m.mmc3IRQPending = false
		} else {
			m.mmc3IRQEnable = true
		}
	}
}

func mmc3ProgramRead(m *Mapper, prgROM []byte, addr uint16) uint8 {
	if len(prgROM) == 0 {
		return 0
	}
	prgMode := (m.mmc3BankSelect >> 6) & 0x01
	var bank uint8
	switch {
	case addr < 0xA000:
		if prgMode == 0 {
			bank = m.mmc3Bank[6]
		} else {
			bank = m.prgBanks8k - 2
		}
	case addr < 0xC000:
		bank = m.mmc3Bank[7]
	case addr < 0xE000:
		if prgMode == 0 {
			bank = m.prgBanks8k - 2
		} else {
			bank = m.mmc3Bank[6]
		}
	default:
		bank = m.prgBanks8k - 1
	}
	offset := uint32(bank)*0x2000 + uint32(addr&0x1FFF)
	return prgROM[offset%uint32(len(prgROM))]
}

func mmc3CharacterOffset(m *Mapper, addr uint16) uint32 {
	chrMode := (m.mmc3BankSelect >> 7) & 0x01
	a := addr & 0x1FFF
	if chrMode == 0 {
		switch {
		case a < 0x0800:
			return uint32(m.mmc3Bank[0]&0xFE)*0x400 + uint32(a)
		case a < 0x1000:
			return uint32(m.mmc3Bank[1]&0xFE)*0x400 + uint32(a-0x0800)
		case a < 0x1400:
			return uint32(m.mmc3Bank[2])*0x400 + uint32(a-0x1000)
		case a < 0x1800:
			return uint32(m.mmc3Bank[3])*0x400 + uint32(a-0x1400)
		case a < 0x1C00:
			return uint32(m.mmc3Bank[4])*0x400 + uint32(a-0x1800)
		default:
			return uint32(m.mmc3Bank[5])*0x400 + uint32(a-0x1C00)
		}
	}
	switch {
	case a < 0x0400:
		return uint32(m.mmc3Bank[2])*0x400 + uint32(a)
	case a < 0x0800:
		return uint32(m.mmc3Bank[3])*0x400 + uint32(a-0x0400)
	case a < 0x0C00:
		return uint32(m.mmc3Bank[4])*0x400 + uint32(a-0x0800)
	case a < 0x1000:
		return uint32(m.mmc3Bank[5])*0x400 + uint32(a-0x0C00)
	case a < 0x1800:
		return uint32(m.mmc3Bank[0]&0xFE)*0x400 + uint32(a-0x1000)
	default:
		return uint32(m.mmc3Bank[1]&0xFE)*0x400 + uint32(a-0x1800)
	}
}

func mmc3EndOfScanline(m *Mapper) {
	if m.mmc3IRQCounter == 0 || m.mmc3IRQReloadPending {
		m.mmc3IRQCounter = m.mmc3IRQLatch
		m.mmc3IRQReloadPending = false
	} else {
		m.mmc3IRQCounter--
	}

	if m.mmc3IRQCounter == 0 && m.mmc3IRQEnable {
		m.mmc3IRQPending = true
	}
}
