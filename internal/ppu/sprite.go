package ppu

import "sort"

// selectSpritesForLine scans OAM for up to 10 sprites intersecting the
// current scanline, in OAM order, per spec.md §4.4, then orders them by
// ascending X (lower X wins priority) with ties broken by ascending OAM
// index — the order renderScanline consults when compositing.
func (p *PPU) selectSpritesForLine() {
	p.lineSprites = p.lineSprites[:0]
	height := p.lcdc.spriteHeight()

	for i := 0; i < 40 && len(p.lineSprites) < 10; i++ {
		base := i * 4
		y := p.oam[base]
		spriteTop := int(y) - 16
		if int(p.ly) < spriteTop || int(p.ly) >= spriteTop+height {
			continue
		}
		p.lineSprites = append(p.lineSprites, spriteEntry{
			y:          y,
			x:          p.oam[base+1],
			tile:       p.oam[base+2],
			attributes: p.oam[base+3],
			oamIndex:   uint8(i),
		})
	}

	sort.SliceStable(p.lineSprites, func(i, j int) bool {
		if p.lineSprites[i].x != p.lineSprites[j].x {
			return p.lineSprites[i].x < p.lineSprites[j].x
		}
		return p.lineSprites[i].oamIndex < p.lineSprites[j].oamIndex
	})
}

// spritePixel returns the DMG colour index and BG-priority attribute
// for the highest-priority sprite covering screen column x on the
// current line, or ok=false if none does or the pixel is transparent.
func (p *PPU) spritePixel(x uint8) (color uint8, bgPriority bool, ok bool) {
	height := p.lcdc.spriteHeight()
	for _, s := range p.lineSprites {
		spriteLeft := int(s.x) - 8
		if int(x) < spriteLeft || int(x) >= spriteLeft+8 {
			continue
		}

		row := int(p.ly) - (int(s.y) - 16)
		if s.attributes&0x40 != 0 { // Y-flip
			row = height - 1 - row
		}
		tile := s.tile
		if height == 16 {
			tile &^= 0x01 // ignore LSB for 8x16 sprites; row selects the half
		}

		col := int(x) - spriteLeft
		if s.attributes&0x20 != 0 { // X-flip
			col = 7 - col
		}

		lo, hi := p.tileRow(uint16(tile), row, true)
		bit := 7 - col
		idx := ((hi>>uint(bit))&1)<<1 | (lo>>uint(bit))&1
		if idx == 0 {
			continue // color 0 is always transparent for sprites
		}

		palette := p.obp0
		if s.attributes&0x10 != 0 {
			palette = p.obp1
		}
		return applyDMGRegister(palette, idx), s.attributes&0x80 != 0, true
	}
	return 0, false, false
}
