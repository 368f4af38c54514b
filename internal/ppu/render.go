package ppu

// windowTriggersOnLine reports whether the window fetcher will be
// active anywhere on the current scanline, used both by the mode-3
// duration estimate and by renderScanline.
func (p *PPU) windowTriggersOnLine() bool {
	return p.lcdc.windowEnabled && p.ly >= p.wy && p.wx <= 166
}

// renderScanline computes all 160 pixels of the current LY in one
// shot at the end of mode 3, per the Design Notes' "step function, not
// cycle-exact beyond mode durations" guidance.
func (p *PPU) renderScanline() {
	if p.firstFrameAfterEnable {
		for x := 0; x < ScreenWidth; x++ {
			p.Pixels[p.ly][x] = 0
		}
		p.blitRow(p.ly)
		return
	}

	windowDrawnThisLine := false
	bgTileMap := uint16(0x9800)
	if p.lcdc.bgTileMapHigh {
		bgTileMap = 0x9C00
	}
	winTileMap := uint16(0x9800)
	if p.lcdc.windowTileMapHigh {
		winTileMap = 0x9C00
	}

	windowActiveRow := p.windowTriggersOnLine()

	for x := 0; x < ScreenWidth; x++ {
		var bgColorIndex uint8

		useWindow := windowActiveRow && int(x)+7 >= int(p.wx)

		if p.lcdc.bgWindowEnabled {
			if useWindow {
				windowDrawnThisLine = true
				wx := uint8(int(x) + 7 - int(p.wx))
				wy := p.windowLine
				tileCol := wx / 8
				tileRow := wy / 8
				tileIdx := p.vram[winTileMap+uint16(tileRow)*32+uint16(tileCol)-0x8000]
				lo, hi := p.tileRow(uint16(tileIdx), int(wy%8), p.lcdc.tileDataLow8000)
				bit := 7 - (wx % 8)
				bgColorIndex = ((hi>>bit)&1)<<1 | (lo>>bit)&1
			} else {
				bgX := (uint16(p.scx) + uint16(x)) % 256
				bgY := (uint16(p.scy) + uint16(p.ly)) % 256
				tileCol := bgX / 8
				tileRow := bgY / 8
				tileIdx := p.vram[bgTileMap+tileRow*32+tileCol-0x8000]
				lo, hi := p.tileRow(uint16(tileIdx), int(bgY%8), p.lcdc.tileDataLow8000)
				bit := 7 - uint8(bgX%8)
				bgColorIndex = ((hi>>bit)&1)<<1 | (lo>>bit)&1
			}
		}

		finalIndex := applyDMGRegister(p.bgp, bgColorIndex)

		if p.lcdc.spritesEnabled {
			if sc, bgPriority, ok := p.spritePixel(uint8(x)); ok {
				if !bgPriority || bgColorIndex == 0 {
					finalIndex = sc
				}
			}
		}

		p.Pixels[p.ly][x] = finalIndex
	}

	if windowDrawnThisLine {
		p.windowLine++
	}

	p.blitRow(p.ly)
}

// blitRow expands one row of two-bit colour indices through the
// configured RGB palette into the RGBA output frame.
func (p *PPU) blitRow(ly uint8) {
	for x := 0; x < ScreenWidth; x++ {
		idx := p.Pixels[ly][x]
		rgb := p.Palette[idx]
		off := (int(ly)*ScreenWidth + x) * 4
		p.RGBA[off] = rgb[0]
		p.RGBA[off+1] = rgb[1]
		p.RGBA[off+2] = rgb[2]
		p.RGBA[off+3] = 0xFF
	}
}
