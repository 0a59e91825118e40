package cartridge

// Kind enumerates the supported iNES mapper circuits. A polymorphic
// interface per mapper (one allocated object per cartridge, dispatched
// through a vtable) was the source's approach; here mappers are a tagged
// union over a closed set of five variants, dispatched with a plain switch.
// This removes an indirection per memory access and keeps the whole mapper
// family trivially copyable and inspectable.
type Kind uint8

const (
	NROM Kind = iota
	MMC1
	UxROM
	CNROM
	MMC3
)

// String names a mapper kind the way iNES numbers it.
func (k Kind) String() string {
	switch k {
	case NROM:
		return "NROM"
	case MMC1:
		return "MMC1"
	case UxROM:
		return "UxROM"
	case CNROM:
		return "CNROM"
	case MMC3:
		return "MMC3"
	default:
		return "unknown"
	}
}

// Mapper is the address-mapping circuit of a cartridge. It owns only the
// small amount of bank-selection and IRQ state a real mapper chip carries;
// the bulk memory (PRG-ROM, PRG-RAM, CHR-RAM) belongs to the Cartridge and
// is passed in on every call, mirroring the NES's own division of labour
// between the cartridge's ROM/RAM chips and its mapper ASIC.
type Mapper struct {
	Kind Kind

	prgBanks16k uint8
	prgBanks8k  uint8
	chrBanks8k  uint8
	chrBanks4k  uint8
	chrBanks1k  uint8

	// MMC1
	mmc1Shift      uint8
	mmc1ShiftCount uint8
	mmc1Control    uint8
	mmc1CHR0       uint8
	mmc1CHR1       uint8
	mmc1PRG        uint8

	// UxROM
	uxPRGBank uint8

	// CNROM
	cnCHRBank uint8

	// MMC3
	mmc3BankSelect       uint8
	mmc3Bank             [8]uint8
	mmc3Mirroring        Mirroring
	mmc3PRGRAMEnable     bool
	mmc3PRGRAMProtect    bool
	mmc3IRQCounter       uint8
	mmc3IRQLatch         uint8
	mmc3IRQReloadPending bool
	mmc3IRQEnable        bool
	mmc3IRQPending       bool
}

// New builds the mapper for a cartridge. prgLen and chrLen are the sizes of
// the PRG-ROM and CHR memory (CHR-RAM carts still get a backing buffer
// sized by the loader, so chrLen is always > 0 in practice).
func New(kind Kind, prgLen, chrLen int) *Mapper {
	m := &Mapper{
		Kind:        kind,
		prgBanks16k: uint8(prgLen / 0x4000),
		prgBanks8k:  uint8(prgLen / 0x2000),
		chrBanks8k:  uint8(chrLen / 0x2000),
		chrBanks4k:  uint8(chrLen / 0x1000),
		chrBanks1k:  uint8(chrLen / 0x0400),
	}
	switch kind {
	case MMC1:
		m.mmc1Shift = 0b10000
		m.mmc1Control = 0x0C // power-on: PRG mode 3 (fix last), CHR mode 0
	case MMC3:
		if m.prgBanks8k >= 2 {
			m.mmc3Bank[7] = m.prgBanks8k - 1
		}
	}
	return m
}

// ProgramRead decodes a CPU address against PRG-ROM/PRG-RAM per the common
// address policy, then the per-variant PRG-ROM bank layout.
func (m *Mapper) ProgramRead(prgROM, prgRAM []byte, addr uint16) uint8 {
	switch {
	case addr < 0x6000:
		return 0
	case addr < 0x8000:
		return m.readPRGRAM(prgRAM, addr)
	default:
		switch m.Kind {
		case NROM:
			return nromProgramRead(m, prgROM, addr)
		case MMC1:
			return mmc1ProgramRead(m, prgROM, addr)
		case UxROM:
			return uxromProgramRead(m, prgROM, addr)
		case CNROM:
			return cnromProgramRead(m, prgROM, addr)
		case MMC3:
			return mmc3ProgramRead(m, prgROM, addr)
		}
	}
	return 0
}

// ProgramWrite routes writes below $8000 to PRG-RAM (subject to mapper
// protect bits) and writes at or above $8000 to the mapper's register file.
func (m *Mapper) ProgramWrite(prgRAM []byte, addr uint16, data uint8) {
	switch {
	case addr < 0x6000:
		return
	case addr < 0x8000:
		m.writePRGRAM(prgRAM, addr, data)
	default:
		switch m.Kind {
		case NROM:
			// NROM has no writable registers.
		case MMC1:
			mmc1ProgramWrite(m, addr, data)
		case UxROM:
			uxromProgramWrite(m, data)
		case CNROM:
			cnromProgramWrite(m, data)
		case MMC3:
			mmc3ProgramWrite(m, addr, data)
		}
	}
}

func (m *Mapper) readPRGRAM(prgRAM []byte, addr uint16) uint8 {
	if len(prgRAM) == 0 {
		return 0
	}
	if m.Kind == MMC3 && !m.mmc3PRGRAMEnable {
		return 0
	}
	return prgRAM[int(addr-0x6000)%len(prgRAM)]
}

func (m *Mapper) writePRGRAM(prgRAM []byte, addr uint16, data uint8) {
	if len(prgRAM) == 0 {
		return
	}
	if m.Kind == MMC3 && (!m.mmc3PRGRAMEnable || m.mmc3PRGRAMProtect) {
		return
	}
	prgRAM[int(addr-0x6000)%len(prgRAM)] = data
}

// CharacterRead decodes a PPU pattern-table address against CHR memory per
// the mapper's bank layout.
func (m *Mapper) CharacterRead(chr []byte, addr uint16) uint8 {
	return chr[m.characterOffset(addr)%uint32(len(chr))]
}

// CharacterWrite writes to CHR memory at the mapper's current bank layout.
// CHR-ROM and CHR-RAM carts are treated alike: the write always lands.
func (m *Mapper) CharacterWrite(chr []byte, addr uint16, data uint8) {
	chr[m.characterOffset(addr)%uint32(len(chr))] = data
}

func (m *Mapper) characterOffset(addr uint16) uint32 {
	switch m.Kind {
	case MMC1:
		return mmc1CharacterOffset(m, addr)
	case CNROM:
		return cnromCharacterOffset(m, addr)
	case MMC3:
		return mmc3CharacterOffset(m, addr)
	default: // NROM, UxROM: CHR passes through untranslated
		return uint32(addr)
	}
}

// Mirroring returns the nametable mirroring mode in effect. Mappers that
// never change mirroring simply echo the cartridge's header default.
func (m *Mapper) Mirroring(cartridgeDefault Mirroring) Mirroring {
	switch m.Kind {
	case MMC1:
		return mmc1Mirroring(m)
	case MMC3:
		return m.mmc3Mirroring
	default:
		return cartridgeDefault
	}
}

// PendingIRQ reports whether the mapper has a latched interrupt request,
// and clears it: the line is level-sensitive and is considered acknowledged
// once the bus has observed it.
func (m *Mapper) PendingIRQ() bool {
	if m.Kind != MMC3 {
		return false
	}
	pending := m.mmc3IRQPending
	m.mmc3IRQPending = false
	return pending
}

// EndOfScanline drives the MMC3 scanline counter. It is a no-op for every
// other mapper kind.
func (m *Mapper) EndOfScanline() {
	if m.Kind == MMC3 {
		mmc3EndOfScanline(m)
	}
}
