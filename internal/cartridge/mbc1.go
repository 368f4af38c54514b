package cartridge

import "github.com/tylergibbs2/gbcore/internal/types"

// mbc1 implements the MBC1 bank controller, per spec.md §4.1: a 5-bit
// primary ROM bank register that zero-promotes to 1, a 2-bit secondary
// register that either extends the ROM bank or selects the RAM bank
// depending on the banking mode, and a mode-select latch.
type mbc1 struct {
	rom []byte
	ram []byte

	ramEnable bool
	bank1     uint8 // 5 bits, 2000-3FFF register, never observed as 0
	bank2     uint8 // 2 bits, 4000-5FFF register
	mode      bool  // 6000-7FFF register

	banks int
}

func newMBC1(rom []byte, ramSize int) *mbc1 {
	return &mbc1{rom: rom, ram: make([]byte, ramSize), bank1: 1, banks: romBankCount(rom)}
}

func (m *mbc1) romBank() int {
	bank := int(m.bank1) | int(m.bank2)<<5
	if m.banks > 0 {
		bank %= m.banks
	}
	return bank
}

// zeroBank is the bank mapped at 0000-3FFF: bank 0 normally, but when
// mode=1 the upper two bits still apply to the low window too.
func (m *mbc1) zeroBank() int {
	if !m.mode {
		return 0
	}
	bank := int(m.bank2) << 5
	if m.banks > 0 {
		bank %= m.banks
	}
	return bank
}

func (m *mbc1) ramBank() int {
	if !m.mode {
		return 0
	}
	return int(m.bank2)
}

func (m *mbc1) ReadROM(addr uint16) uint8 {
	var bank, offset int
	if addr < 0x4000 {
		bank, offset = m.zeroBank(), int(addr)
	} else {
		bank, offset = m.romBank(), int(addr)-0x4000
	}
	i := bank*0x4000 + offset
	if i < len(m.rom) {
		return m.rom[i]
	}
	return 0xFF
}

func (m *mbc1) WriteROM(addr uint16, v uint8) {
	switch {
	case addr < 0x2000:
		m.ramEnable = v&0x0F == 0x0A
	case addr < 0x4000:
		v &= 0x1F
		if v == 0 {
			v = 1
		}
		m.bank1 = v
	case addr < 0x6000:
		m.bank2 = v & 0x03
	default:
		m.mode = v&0x01 != 0
	}
}

func (m *mbc1) ReadRAM(addr uint16) uint8 {
	if !m.ramEnable || len(m.ram) == 0 {
		return 0xFF
	}
	i := m.ramBank()*0x2000 + int(addr-0xA000)
	if i < len(m.ram) {
		return m.ram[i]
	}
	return 0xFF
}

func (m *mbc1) WriteRAM(addr uint16, v uint8) {
	if !m.ramEnable || len(m.ram) == 0 {
		return
	}
	i := m.ramBank()*0x2000 + int(addr-0xA000)
	if i < len(m.ram) {
		m.ram[i] = v
	}
}

func (m *mbc1) SaveRAM() []byte { return m.ram }
func (m *mbc1) LoadRAM(data []byte) { copy(m.ram, data) }

func (m *mbc1) Save(s *types.State) {
	s.WriteData(m.ram)
	s.WriteBool(m.ramEnable)
	s.Write8(m.bank1)
	s.Write8(m.bank2)
	s.WriteBool(m.mode)
}

func (m *mbc1) Load(s *types.State) {
	s.ReadData(m.ram)
	m.ramEnable = s.ReadBool()
	m.bank1 = s.Read8()
	m.bank2 = s.Read8()
	m.mode = s.ReadBool()
}
