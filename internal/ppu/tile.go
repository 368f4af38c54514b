package ppu

// tileRow returns the two bit-planes of one 8-pixel row of a tile's
// pixel data. Sprites always use the 0x8000 unsigned tile block
// (unsigned=true); background/window honour LCDC.4, where a clear bit
// selects the signed 0x8800 block indexed relative to 0x9000, per
// spec.md §4.4.
func (p *PPU) tileRow(tile uint16, row int, unsigned bool) (lo, hi uint8) {
	var base uint16
	if unsigned {
		base = 0x8000 + tile*16
	} else if p.lcdc.tileDataLow8000 {
		base = 0x8000 + tile*16
	} else {
		base = uint16(0x9000 + int(int8(tile))*16)
	}

	addr := base + uint16(row)*2
	lo = p.vram[addr-0x8000]
	hi = p.vram[addr+1-0x8000]
	return lo, hi
}
