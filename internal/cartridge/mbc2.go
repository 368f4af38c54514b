package cartridge

import "github.com/tylergibbs2/gbcore/internal/types"

// mbc2 has a single 4-bit ROM bank register (bit 8 of the bank-select
// write address, rather than the value itself, selects RAM-enable vs.
// ROM-bank writes) and 512x4-bit built-in RAM whose nibbles occupy the
// low four bits of each byte, high bits left as 1 on read.
type mbc2 struct {
	rom []byte
	ram [512]byte

	ramEnable bool
	romBank   uint8

	banks int
}

func newMBC2(rom []byte) *mbc2 {
	return &mbc2{rom: rom, romBank: 1, banks: romBankCount(rom)}
}

func (m *mbc2) ReadROM(addr uint16) uint8 {
	var bank, offset int
	if addr < 0x4000 {
		bank, offset = 0, int(addr)
	} else {
		bank, offset = int(m.romBank), int(addr)-0x4000
		if m.banks > 0 {
			bank %= m.banks
		}
	}
	i := bank*0x4000 + offset
	if i < len(m.rom) {
		return m.rom[i]
	}
	return 0xFF
}

func (m *mbc2) WriteROM(addr uint16, v uint8) {
	if addr >= 0x4000 {
		return
	}
	// bit 8 of the address distinguishes a RAM-enable write from a
	// ROM-bank-select write.
	if addr&0x0100 == 0 {
		m.ramEnable = v&0x0F == 0x0A
	} else {
		v &= 0x0F
		if v == 0 {
			v = 1
		}
		m.romBank = v
	}
}

func (m *mbc2) ReadRAM(addr uint16) uint8 {
	if !m.ramEnable {
		return 0xFF
	}
	return m.ram[int(addr-0xA000)%len(m.ram)] | 0xF0
}

func (m *mbc2) WriteRAM(addr uint16, v uint8) {
	if !m.ramEnable {
		return
	}
	m.ram[int(addr-0xA000)%len(m.ram)] = v & 0x0F
}

func (m *mbc2) SaveRAM() []byte { return m.ram[:] }
func (m *mbc2) LoadRAM(data []byte) { copy(m.ram[:], data) }

func (m *mbc2) Save(s *types.State) {
	s.WriteData(m.ram[:])
	s.WriteBool(m.ramEnable)
	s.Write8(m.romBank)
}

func (m *mbc2) Load(s *types.State) {
	s.ReadData(m.ram[:])
	m.ramEnable = s.ReadBool()
	m.romBank = s.Read8()
}
