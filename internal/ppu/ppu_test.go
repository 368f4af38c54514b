package ppu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tylergibbs2/gbcore/internal/interrupts"
)

func newTestPPU() (*PPU, *interrupts.Controller) {
	irq := interrupts.NewController()
	irq.WriteIE(0xFF)
	irq.IME = true
	return NewPPU(irq), irq
}

func tickN(p *PPU, n int) {
	for i := 0; i < n; i++ {
		p.Tick()
	}
}

func TestPPU_ModeSequence(t *testing.T) {
	p, _ := newTestPPU()

	assert.Equal(t, ModeOAMScan, p.Mode())
	tickN(p, oamScanCycles)
	assert.Equal(t, ModeDrawing, p.Mode())
	tickN(p, p.mode3Duration())
	assert.Equal(t, ModeHBlank, p.Mode())
}

func TestPPU_VBlankEntryRaisesInterrupt(t *testing.T) {
	p, irq := newTestPPU()

	for line := 0; line < ScreenHeight; line++ {
		tickN(p, scanlineCycles)
	}

	assert.Equal(t, ModeVBlank, p.Mode())
	assert.Equal(t, uint8(ScreenHeight), p.LY())
	assert.True(t, irq.Flag&(1<<uint8(interrupts.VBlank)) != 0)
}

func TestPPU_LYWrapsAt154(t *testing.T) {
	p, _ := newTestPPU()

	for line := 0; line < 154; line++ {
		tickN(p, scanlineCycles)
	}

	assert.Equal(t, uint8(0), p.LY())
	assert.Equal(t, ModeOAMScan, p.Mode())
}

func TestPPU_LCDOffForcesModeZeroAndLYZero(t *testing.T) {
	p, _ := newTestPPU()
	tickN(p, scanlineCycles*3)

	p.WriteLCDC(0x00)

	assert.Equal(t, ModeHBlank, p.Mode())
	assert.Equal(t, uint8(0), p.LY())
}

func TestPPU_VRAMInaccessibleDuringMode3(t *testing.T) {
	p, _ := newTestPPU()
	tickN(p, oamScanCycles)
	assert.Equal(t, ModeDrawing, p.Mode())
	// the MMU is responsible for the 0xFF gating; here we only assert
	// the mode the gating logic keys off of.
	assert.Equal(t, ModeDrawing, p.Mode())
}

func TestPPU_StatLineSingleEdgeNoDoubleFire(t *testing.T) {
	p, irq := newTestPPU()
	p.WriteSTAT(0x08 | 0x40) // enable mode-0 IRQ and LYC IRQ
	p.WriteLYC(0)            // LY starts at 0, so LYC matches immediately

	tickN(p, oamScanCycles+p.mode3Duration())
	irq.Clear(interrupts.LCDStat)

	// Re-entering Hblank shouldn't refire while nothing changes within
	// the same mode; advance one more cycle without a mode change.
	p.Tick()
	assert.False(t, irq.Flag&(1<<uint8(interrupts.LCDStat)) != 0)
}

func TestPPU_SpriteSelectionCapsAtTenPerLine(t *testing.T) {
	p, _ := newTestPPU()
	for i := 0; i < 20; i++ {
		base := i * 4
		p.oam[base] = 16 // on-screen Y for LY=0
		p.oam[base+1] = uint8(8 + i)
		p.oam[base+2] = 0
		p.oam[base+3] = 0
	}

	p.selectSpritesForLine()
	assert.Len(t, p.lineSprites, 10)
}

func TestPPU_SpritePriorityLowerXWins(t *testing.T) {
	p, _ := newTestPPU()
	// two opaque sprites overlapping column 0 on screen
	p.vram[0] = 0xFF // tile 0 row 0 plane low: all bits set -> color index includes bit0
	p.vram[1] = 0x00

	p.oam[0], p.oam[1], p.oam[2], p.oam[3] = 16, 8, 0, 0  // x=0 on screen
	p.oam[4], p.oam[5], p.oam[6], p.oam[7] = 16, 12, 0, 0 // x=4 on screen, later OAM index

	p.selectSpritesForLine()
	_, _, ok := p.spritePixel(0)
	assert.True(t, ok)
	assert.Equal(t, uint8(8), p.lineSprites[0].x, "lowest X sprite must sort first")
}
