package cartridge

import "github.com/tylergibbs2/gbcore/internal/types"

// mbc5 implements the MBC5 bank controller: a full 9-bit ROM bank
// register split across two write windows with no zero-bank promotion
// (bank 0 is selectable, unlike MBC1), and a 4-bit RAM bank register.
type mbc5 struct {
	rom []byte
	ram []byte

	ramEnable bool
	romBankLo uint8
	romBankHi uint8 // bit 8 only
	ramBank   uint8

	banks int
}

func newMBC5(rom []byte, ramSize int) *mbc5 {
	return &mbc5{rom: rom, ram: make([]byte, ramSize), romBankLo: 1, banks: romBankCount(rom)}
}

func (m *mbc5) romBank() int {
	bank := int(m.romBankLo) | int(m.romBankHi)<<8
	if m.banks > 0 {
		bank %= m.banks
	}
	return bank
}

func (m *mbc5) ReadROM(addr uint16) uint8 {
	var bank, offset int
	if addr < 0x4000 {
		bank, offset = 0, int(addr)
	} else {
		bank, offset = m.romBank(), int(addr)-0x4000
	}
	i := bank*0x4000 + offset
	if i < len(m.rom) {
		return m.rom[i]
	}
	return 0xFF
}

func (m *mbc5) WriteROM(addr uint16, v uint8) {
	switch {
	case addr < 0x2000:
		m.ramEnable = v&0x0F == 0x0A
	case addr < 0x3000:
		m.romBankLo = v
	case addr < 0x4000:
		m.romBankHi = v & 0x01
	case addr < 0x6000:
		m.ramBank = v & 0x0F
	}
}

func (m *mbc5) ReadRAM(addr uint16) uint8 {
	if !m.ramEnable || len(m.ram) == 0 {
		return 0xFF
	}
	i := int(m.ramBank)*0x2000 + int(addr-0xA000)
	if i < len(m.ram) {
		return m.ram[i]
	}
	return 0xFF
}

func (m *mbc5) WriteRAM(addr uint16, v uint8) {
	if !m.ramEnable || len(m.ram) == 0 {
		return
	}
	i := int(m.ramBank)*0x2000 + int(addr-0xA000)
	if i < len(m.ram) {
		m.ram[i] = v
	}
}

func (m *mbc5) SaveRAM() []byte { return m.ram }
func (m *mbc5) LoadRAM(data []byte) { copy(m.ram, data) }

func (m *mbc5) Save(s *types.State) {
	s.WriteData(m.ram)
	s.WriteBool(m.ramEnable)
	s.Write8(m.romBankLo)
	s.Write8(m.romBankHi)
	s.Write8(m.ramBank)
}

func (m *mbc5) Load(s *types.State) {
	s.ReadData(m.ram)
	m.ramEnable = s.ReadBool()
	m.romBankLo = s.Read8()
	m.romBankHi = s.Read8()
	m.ramBank = s.Read8()
}
