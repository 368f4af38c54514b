package mmu

import "github.com/tylergibbs2/gbcore/internal/types"

// dma models OAM DMA: writing FF46 starts a 160-machine-cycle (640
// T-cycle) copy of 160 bytes from source*0x100 into OAM, during which
// CPU reads outside HRAM return 0xFF, per spec.md §4.2.
type dma struct {
	active    bool
	source    uint8
	progress  int // 0-159, byte index of the next copy
	subCycle  int // 0-3, T-cycles elapsed within the current byte's machine cycle
}

// start begins a new transfer; restarting mid-transfer is legal on
// hardware and simply resets progress.
func (d *dma) start(source uint8) {
	d.active = true
	d.source = source
	d.progress = 0
	d.subCycle = 0
}

// tick performs the copy of one byte of OAM for every 4 T-cycles
// elapsed (one machine cycle per byte, 640 T-cycles total for 160
// bytes), called once per T-cycle by the MMU so it can be interleaved
// with CPU/timer/PPU stepping.
func (d *dma) tick(read func(addr uint16) uint8, writeOAM func(i int, v uint8)) {
	if !d.active {
		return
	}
	d.subCycle++
	if d.subCycle < 4 {
		return
	}
	d.subCycle = 0

	writeOAM(d.progress, read(uint16(d.source)*0x100+uint16(d.progress)))
	d.progress++
	if d.progress >= 160 {
		d.active = false
	}
}

var _ types.Stater = (*dma)(nil)

func (d *dma) Save(s *types.State) {
	s.WriteBool(d.active)
	s.Write8(d.source)
	s.Write16(uint16(d.progress))
	s.Write8(uint8(d.subCycle))
}

func (d *dma) Load(s *types.State) {
	d.active = s.ReadBool()
	d.source = s.Read8()
	d.progress = int(s.Read16())
	d.subCycle = int(s.Read8())
}
