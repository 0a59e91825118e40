package bus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nesgrain/nesgrain/pkg/cartridge"
	"github.com/nesgrain/nesgrain/pkg/cpu"
	"github.com/nesgrain/nesgrain/pkg/ppu"
)

func newTestBus(t *testing.T) *Bus {
	t.Helper()
	header := make([]byte, 16)
	copy(header, []byte{'N', 'E', 'S', 0x1A})
	header[4] = 1 // 1x16K PRG
	header[5] = 1 // 1x8K CHR
	data := append(header, make([]byte, 16384+8192)...)
	data[16+0x3FFC] = 0x00
	data[16+0x3FFD] = 0x80

	cart, err := cartridge.LoadFromBytes(data)
	require.NoError(t, err)

	cpuCore := cpu.New()
	ppuUnit := ppu.New(cart)
	b := New(cpuCore, ppuUnit, cart)
	b.Reset()
	return b
}

func TestRAMIsMirroredAcrossFourPages(t *testing.T) {
	b := newTestBus(t)
	b.Write(0x0042, 0x99)
	assert.Equal(t, uint8(0x99), b.Read(0x0842))
	assert.Equal(t, uint8(0x99), b.Read(0x1042))
	assert.Equal(t, uint8(0x99), b.Read(0x1842))
}

func TestControllerStrobeLatchesBothPorts(t *testing.T) {
	b := newTestBus(t)
	state := uint8(1) // button A
	b.UpdateController1(&state)
	b.UpdateController2(&state)

	b.Write(0x4016, 1)
	b.Write(0x4016, 0)

	assert.Equal(t, uint8(1), b.Read(0x4016)&0x01)
	assert.Equal(t, uint8(1), b.Read(0x4017)&0x01)
}

func TestOAMDMAStealsExactly513Or514CPUCycles(t *testing.T) {
	b := newTestBus(t)
	for i := uint16(0); i < 256; i++ {
		b.ram[(0x0200+i)&0x07FF] = uint8(i)
	}

	b.Write(0x4014, 0x02)
	require.True(t, b.dma.active)

	cpuCycles := 0
	for b.dma.active {
		if b.masterCycle%3 == 0 {
			cpuCycles++
		}
		b.Cycle()
	}

	assert.Contains(t, []int{513, 514}, cpuCycles)
}
