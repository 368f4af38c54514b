package mmu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tylergibbs2/gbcore/internal/cartridge"
	"github.com/tylergibbs2/gbcore/internal/interrupts"
	"github.com/tylergibbs2/gbcore/internal/joypad"
	"github.com/tylergibbs2/gbcore/internal/ppu"
	"github.com/tylergibbs2/gbcore/internal/serial"
	"github.com/tylergibbs2/gbcore/internal/timer"
)

func buildTestROM() []byte {
	rom := make([]byte, 0x8000)
	rom[0x147] = 0x00 // ROM only
	rom[0x148] = 0x00
	rom[0x149] = 0x00
	var sum uint8
	for addr := 0x134; addr <= 0x14C; addr++ {
		sum = sum - rom[addr] - 1
	}
	rom[0x14D] = sum
	return rom
}

func newTestMMU(t *testing.T) *MMU {
	t.Helper()
	cart, err := cartridge.New(buildTestROM())
	require.NoError(t, err)
	irq := interrupts.NewController()
	p := ppu.NewPPU(irq)
	tim := timer.NewController(irq)
	joy := joypad.NewController(irq)
	ser := serial.NewController(irq)
	return New(cart, p, tim, irq, joy, ser, nil)
}

func TestMMU_WRAMEchoMirror(t *testing.T) {
	m := newTestMMU(t)

	m.Write(0xC005, 0x42)
	assert.Equal(t, uint8(0x42), m.Read(0xE005), "E000-FDFF must mirror C000-DDFF")

	m.Write(0xE006, 0x99)
	assert.Equal(t, uint8(0x99), m.Read(0xC006))
}

func TestMMU_ProhibitedRegionReadsFF(t *testing.T) {
	m := newTestMMU(t)
	assert.Equal(t, uint8(0xFF), m.Read(0xFEA0))
}

func TestMMU_HRAMAccessibleDuringDMA(t *testing.T) {
	m := newTestMMU(t)
	m.Write(0xFF80, 0x55)

	m.Write(0xFF46, 0x00) // start DMA

	assert.Equal(t, uint8(0x55), m.Read(0xFF80))
}

func TestMMU_ReadsOutsideHRAMReturnFFDuringDMA(t *testing.T) {
	m := newTestMMU(t)
	m.Write(0xC000, 0x77)

	m.Write(0xFF46, 0x00) // start DMA from 0x0000

	assert.Equal(t, uint8(0xFF), m.Read(0xC000), "spec.md invariant 6")
}

func TestMMU_DMACompletesAfter640TCycles(t *testing.T) {
	m := newTestMMU(t)
	m.Write(0xC000, 0xAB) // source bank won't matter, DMA source is ROM here

	m.Write(0xFF46, 0x00)
	assert.True(t, m.DMAActive())

	for i := 0; i < 639; i++ {
		m.TickDMA()
	}
	assert.True(t, m.DMAActive())

	m.TickDMA()
	assert.False(t, m.DMAActive())
}

func TestMMU_ROMWritesNeverMutateROM(t *testing.T) {
	m := newTestMMU(t)
	before := m.Read(0x0150)

	m.Write(0x0150, 0xAB)

	assert.Equal(t, before, m.Read(0x0150))
}
