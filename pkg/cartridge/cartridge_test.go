package cartridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildINES(mapperID uint8, prgBanks, chrBanks int, verticalMirroring bool) []byte {
	header := make([]byte, headerSize)
	copy(header, magic[:])
	header[4] = uint8(prgBanks)
	header[5] = uint8(chrBanks)
	header[6] = (mapperID & 0x0F) << 4
	header[7] = mapperID &^ 0x0F
	if verticalMirroring {
		header[6] |= 0x01
	}

	data := make([]byte, headerSize+prgBanks*prgBankSize+chrBanks*chrBankSize)
	copy(data, header)
	offset := headerSize
	for i := 0; i < prgBanks*prgBankSize; i++ {
		data[offset+i] = uint8(i)
	}
	offset += prgBanks * prgBankSize
	for i := 0; i < chrBanks*chrBankSize; i++ {
		data[offset+i] = uint8(i)
	}
	return data
}

func TestLoadNROMMirrorsSingleBankAcrossBothHalves(t *testing.T) {
	cart, err := LoadFromBytes(buildINES(0, 1, 1, false))
	require.NoError(t, err)
	assert.Equal(t, NROM, cart.Mapper.Kind)

	assert.Equal(t, cart.ProgramRead(0x8000), cart.ProgramRead(0xC000))
	assert.Equal(t, cart.ProgramRead(0xBFFF), cart.ProgramRead(0xFFFF))
}

func TestLoadRejectsBadMagic(t *testing.T) {
	data := buildINES(0, 1, 1, false)
	data[0] = 'X'
	_, err := LoadFromBytes(data)
	assert.ErrorIs(t, err, ErrInvalidRomFormat)
}

func TestLoadRejectsUnsupportedMapper(t *testing.T) {
	_, err := LoadFromBytes(buildINES(5, 1, 1, false))
	var unsupported *UnsupportedMapperError
	assert.ErrorAs(t, err, &unsupported)
	assert.Equal(t, uint16(5), unsupported.ID)
}

func TestMirroringReflectsHeaderBit(t *testing.T) {
	horizontal, err := LoadFromBytes(buildINES(0, 1, 1, false))
	require.NoError(t, err)
	assert.Equal(t, MirrorHorizontal, horizontal.Mirroring())

	vertical, err := LoadFromBytes(buildINES(0, 1, 1, true))
	require.NoError(t, err)
	assert.Equal(t, MirrorVertical, vertical.Mirroring())
}

func TestNES20ExponentSizeOverflowIsRejected(t *testing.T) {
	header := make([]byte, headerSize)
	copy(header, magic[:])
	header[7] = 0x08 // NES 2.0 discriminator
	header[9] = 0x0F // PRG MSB nibble 0xF: exponent form for PRG
	header[4] = 0xFF // exponent = 0xFF >> 2 = 63, multiplier = (0xFF&3)*2+1 = 7 -> overflow path
	_, err := romSizeErrHelper(header)
	var tooLarge *RomTooLargeError
	assert.ErrorAs(t, err, &tooLarge)
}

func romSizeErrHelper(header []byte) (int, error) {
	_, _, err := romSizes(header, true)
	return 0, err
}

func TestUxROMSwitchesOnlyLowBank(t *testing.T) {
	data := buildINES(2, 4, 0, false)
	cart, err := LoadFromBytes(data)
	require.NoError(t, err)

	cart.ProgramWrite(0x8000, 0x02)
	lowByte := cart.ProgramRead(0x8000)
	highByte := cart.ProgramRead(0xC000)

	// The fixed bank at $C000 is always the last 16K bank (bank index 3).
	assert.Equal(t, cart.PRGROM[3*prgBankSize], highByte)
	assert.Equal(t, cart.PRGROM[2*prgBankSize], lowByte)
}

func TestMMC3IRQFiresAfterLatchedCountdownReachesZero(t *testing.T) {
	data := buildINES(4, 4, 2, false)
	cart, err := LoadFromBytes(data)
	require.NoError(t, err)

	cart.ProgramWrite(0xC000, 2) // IRQ latch = 2
	cart.ProgramWrite(0xC001, 0) // force reload on next clock
	cart.ProgramWrite(0xE001, 0) // enable IRQ

	cart.Mapper.EndOfScanline() // reload: counter = 2
	assert.False(t, cart.Mapper.PendingIRQ())
	cart.Mapper.EndOfScanline() // counter = 1
	assert.False(t, cart.Mapper.PendingIRQ())
	cart.Mapper.EndOfScanline() // counter = 0, enabled -> IRQ
	assert.True(t, cart.Mapper.PendingIRQ())
	assert.False(t, cart.Mapper.PendingIRQ(), "PendingIRQ consumes the flag")
}
