package nes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nesgrain/nesgrain/pkg/cartridge"
	"github.com/nesgrain/nesgrain/pkg/ppu"
)

func buildTestROM() []byte {
	header := make([]byte, 16)
	copy(header, []byte{'N', 'E', 'S', 0x1A})
	header[4] = 1 // 1x16K PRG
	header[5] = 1 // 1x8K CHR
	data := append(header, make([]byte, 16384+8192)...)

	// Reset vector -> $8000 ($FFFC mirrors PRG offset $3FFC in a 16K
	// image), where we drop a JMP $8000 so the first opcode fetch reads a
	// real instruction. The CPU timing shell does not execute it: it only
	// charges the opcode's cycles and advances PC past the opcode byte.
	data[16+0x3FFC] = 0x00
	data[16+0x3FFD] = 0x80
	data[16+0x0000] = 0x4C // JMP $8000
	data[16+0x0001] = 0x00
	data[16+0x0002] = 0x80
	return data
}

func newTestEmulator(t *testing.T) *Emulator {
	t.Helper()
	cart, err := cartridge.LoadFromBytes(buildTestROM())
	require.NoError(t, err)
	return New(cart)
}

func TestNewResetsToPowerOnState(t *testing.T) {
	e := newTestEmulator(t)
	assert.Equal(t, uint16(0x8000), e.cpuCore.PC)
}

func TestFrameAdvancesExactlyOneFrameCount(t *testing.T) {
	e := newTestEmulator(t)
	start := e.bus.FrameCount()
	e.Frame()
	assert.Equal(t, start+1, e.bus.FrameCount())
}

func TestFrameReturnsTheLivePixelBuffer(t *testing.T) {
	e := newTestEmulator(t)
	screen := e.Frame()
	assert.Equal(t, e.Screen(), screen)
	assert.Len(t, screen[:], ppu.ScreenWidth*ppu.ScreenHeight)
}

func TestUpdateControllersForwardsToBus(t *testing.T) {
	e := newTestEmulator(t)
	state := uint8(1)
	e.UpdateController1(&state)
	e.UpdateController2(&state)

	e.bus.Write(0x4016, 1)
	e.bus.Write(0x4016, 0)
	assert.Equal(t, uint8(1), e.bus.Read(0x4016)&0x01)
	assert.Equal(t, uint8(1), e.bus.Read(0x4017)&0x01)
}

func TestResetReturnsToPowerOnPC(t *testing.T) {
	e := newTestEmulator(t)
	for i := 0; i < 1000; i++ {
		e.Cycle()
	}
	e.Reset()
	assert.Equal(t, uint16(0x8000), e.cpuCore.PC)
}
