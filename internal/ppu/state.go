package ppu

import "github.com/tylergibbs2/gbcore/internal/types"

var _ types.Stater = (*PPU)(nil)

func (p *PPU) Save(s *types.State) {
	s.WriteData(p.vram[:])
	s.WriteData(p.oam[:])
	s.Write8(p.lcdc.read())
	s.Write8(p.stat.read(p.mode, p.ly == p.lyc))
	s.Write8(p.scy)
	s.Write8(p.scx)
	s.Write8(p.ly)
	s.Write8(p.lyc)
	s.Write8(p.bgp)
	s.Write8(p.obp0)
	s.Write8(p.obp1)
	s.Write8(p.wy)
	s.Write8(p.wx)
	s.Write8(uint8(p.mode))
	s.Write16(uint16(p.dot))
	s.Write8(p.windowLine)
	s.WriteBool(p.firstFrameAfterEnable)
	s.WriteBool(p.statLine)
	for i := range p.Pixels {
		s.WriteData(p.Pixels[i][:])
	}
	s.WriteData(p.RGBA[:])
}

func (p *PPU) Load(s *types.State) {
	s.ReadData(p.vram[:])
	s.ReadData(p.oam[:])
	p.lcdc.write(s.Read8())
	p.stat.write(s.Read8())
	p.scy = s.Read8()
	p.scx = s.Read8()
	p.ly = s.Read8()
	p.lyc = s.Read8()
	p.bgp = s.Read8()
	p.obp0 = s.Read8()
	p.obp1 = s.Read8()
	p.wy = s.Read8()
	p.wx = s.Read8()
	p.mode = Mode(s.Read8())
	p.dot = int(s.Read16())
	p.windowLine = s.Read8()
	p.firstFrameAfterEnable = s.ReadBool()
	p.statLine = s.ReadBool()
	for i := range p.Pixels {
		s.ReadData(p.Pixels[i][:])
	}
	s.ReadData(p.RGBA[:])
}
