package cartridge

import "github.com/tylergibbs2/gbcore/internal/types"

// rtc holds the five MBC3 real-time-clock registers: seconds, minutes,
// hours, the 9-bit day counter split across two bytes (the high byte
// also carries the halt and day-carry flags).
type rtc struct {
	seconds, minutes, hours, dayLow, dayHigh uint8
}

func (r *rtc) reg(n uint8) *uint8 {
	switch n {
	case 0:
		return &r.seconds
	case 1:
		return &r.minutes
	case 2:
		return &r.hours
	case 3:
		return &r.dayLow
	default:
		return &r.dayHigh
	}
}

// mbc3 implements the MBC3 bank controller: a 7-bit ROM bank register
// (no zero promotion quirks beyond the usual 0->1), a 4-bit RAM-bank /
// RTC-select register, and (when hasRTC) the latch sequence of spec.md
// §4.1 — a write of 0x00 followed by 0x01 to 6000-7FFF copies the live
// RTC registers into a latched snapshot that reads stay pinned to until
// the next latch.
type mbc3 struct {
	rom []byte
	ram []byte

	ramEnable bool
	romBank   uint8
	ramBank   uint8 // 0-3 selects RAM; 8-C selects an RTC register when hasRTC

	hasRTC      bool
	live        rtc
	latched     rtc
	latchStage  uint8 // tracks the 00-then-01 write sequence

	banks int
}

func newMBC3(rom []byte, ramSize int, hasRTC bool) *mbc3 {
	return &mbc3{rom: rom, ram: make([]byte, ramSize), romBank: 1, hasRTC: hasRTC, banks: romBankCount(rom)}
}

func (m *mbc3) ReadROM(addr uint16) uint8 {
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

func (m *mbc3) WriteROM(addr uint16, v uint8) {
	switch {
	case addr < 0x2000:
		m.ramEnable = v&0x0F == 0x0A
	case addr < 0x4000:
		v &= 0x7F
		if v == 0 {
			v = 1
		}
		m.romBank = v
	case addr < 0x6000:
		m.ramBank = v
	default:
		if v == 0x00 {
			m.latchStage = 1
		} else if v == 0x01 && m.latchStage == 1 {
			m.latched = m.live
			m.latchStage = 0
		} else {
			m.latchStage = 0
		}
	}
}

func (m *mbc3) selectingRTC() bool { return m.hasRTC && m.ramBank >= 0x08 && m.ramBank <= 0x0C }

func (m *mbc3) ReadRAM(addr uint16) uint8 {
	if !m.ramEnable {
		return 0xFF
	}
	if m.selectingRTC() {
		return *m.latched.reg(m.ramBank - 0x08)
	}
	if len(m.ram) == 0 {
		return 0xFF
	}
	i := int(m.ramBank)*0x2000 + int(addr-0xA000)
	if i < len(m.ram) {
		return m.ram[i]
	}
	return 0xFF
}

func (m *mbc3) WriteRAM(addr uint16, v uint8) {
	if !m.ramEnable {
		return
	}
	if m.selectingRTC() {
		*m.live.reg(m.ramBank - 0x08) = v
		return
	}
	if len(m.ram) == 0 {
		return
	}
	i := int(m.ramBank)*0x2000 + int(addr-0xA000)
	if i < len(m.ram) {
		m.ram[i] = v
	}
}

// TickSecond advances the live RTC by one second, including carries
// into minutes/hours/days and the day-counter overflow flag, unless
// the halt bit (dayHigh bit 6) is set.
func (m *mbc3) TickSecond() {
	if !m.hasRTC || m.live.dayHigh&types.Bit6 != 0 {
		return
	}
	m.live.seconds++
	if m.live.seconds < 60 {
		return
	}
	m.live.seconds = 0
	m.live.minutes++
	if m.live.minutes < 60 {
		return
	}
	m.live.minutes = 0
	m.live.hours++
	if m.live.hours < 24 {
		return
	}
	m.live.hours = 0
	day := uint16(m.live.dayLow) | uint16(m.live.dayHigh&0x01)<<8
	day++
	if day > 0x1FF {
		day = 0
		m.live.dayHigh |= types.Bit7 // day-counter carry
	}
	m.live.dayLow = uint8(day)
	m.live.dayHigh = m.live.dayHigh&0xFE | uint8(day>>8)
}

func (m *mbc3) SaveRAM() []byte { return m.ram }
func (m *mbc3) LoadRAM(data []byte) { copy(m.ram, data) }

func (m *mbc3) Save(s *types.State) {
	s.WriteData(m.ram)
	s.WriteBool(m.ramEnable)
	s.Write8(m.romBank)
	s.Write8(m.ramBank)
	s.WriteBool(m.hasRTC)
	for _, r := range []*rtc{&m.live, &m.latched} {
		s.Write8(r.seconds)
		s.Write8(r.minutes)
		s.Write8(r.hours)
		s.Write8(r.dayLow)
		s.Write8(r.dayHigh)
	}
	s.Write8(m.latchStage)
}

func (m *mbc3) Load(s *types.State) {
	s.ReadData(m.ram)
	m.ramEnable = s.ReadBool()
	m.romBank = s.Read8()
	m.ramBank = s.Read8()
	m.hasRTC = s.ReadBool()
	for _, r := range []*rtc{&m.live, &m.latched} {
		r.seconds = s.Read8()
		r.minutes = s.Read8()
		r.hours = s.Read8()
		r.dayLow = s.Read8()
		r.dayHigh = s.Read8()
	}
	m.latchStage = s.Read8()
}
