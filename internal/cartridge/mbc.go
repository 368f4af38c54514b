// Package cartridge decodes the ROM header, selects a Memory Bank
// Controller implementation, and routes the CPU's two cartridge
// address windows (0000-7FFF, A000-BFFF) through it, per spec.md §4.1.
package cartridge

import (
	"github.com/tylergibbs2/gbcore/internal/types"
)

// MBC is satisfied by every bank-controller variant. ROM writes never
// mutate ROM bytes (spec.md invariant 4); they are always interpreted
// as bank-control writes.
type MBC interface {
	ReadROM(addr uint16) uint8
	WriteROM(addr uint16, v uint8)
	ReadRAM(addr uint16) uint8
	WriteRAM(addr uint16, v uint8)

	types.Stater
}

// BatteryBacked is implemented by MBC variants that can expose their
// persistable external RAM to a BatteryStore collaborator. MBC3 RTC
// registers are not part of this data.
type BatteryBacked interface {
	SaveRAM() []byte
	LoadRAM([]byte)
}

// realTimeClock is implemented by MBC3 variants that carry an RTC.
type realTimeClock interface {
	TickSecond()
}

// Cartridge wraps a selected MBC with header metadata and a
// battery-backed-RAM flag.
type Cartridge struct {
	Header  Header
	mbc     MBC
	battery bool
}

// New parses rom's header and constructs the appropriate MBC. It
// returns InvalidRom (from header parsing) or UnsupportedCartridge if
// the header names an MBC this core does not implement.
func New(rom []byte) (*Cartridge, error) {
	header, err := ParseHeader(rom)
	if err != nil {
		return nil, err
	}

	var mbc MBC
	switch header.CartridgeType {
	case ROM:
		mbc = newROMOnly(rom)
	case MBC1, MBC1RAM, MBC1RAMBATT:
		mbc = newMBC1(rom, header.RAMSize)
	case MBC2, MBC2BATT:
		mbc = newMBC2(rom)
	case MBC3, MBC3RAM, MBC3RAMBATT, MBC3TIMERBATT, MBC3TIMERRAMBATT:
		mbc = newMBC3(rom, header.RAMSize, header.CartridgeType.HasRTC())
	case MBC5, MBC5RAM, MBC5RAMBATT, MBC5RUMBLE, MBC5RUMBLERAM, MBC5RUMBLERAMBATT:
		mbc = newMBC5(rom, header.RAMSize)
	default:
		return nil, &types.UnsupportedCartridgeError{Code: uint8(header.CartridgeType)}
	}

	return &Cartridge{Header: header, mbc: mbc, battery: header.CartridgeType.HasBattery()}, nil
}

func (c *Cartridge) ReadROM(addr uint16) uint8    { return c.mbc.ReadROM(addr) }
func (c *Cartridge) WriteROM(addr uint16, v uint8) { c.mbc.WriteROM(addr, v) }
func (c *Cartridge) ReadRAM(addr uint16) uint8    { return c.mbc.ReadRAM(addr) }
func (c *Cartridge) WriteRAM(addr uint16, v uint8) { c.mbc.WriteRAM(addr, v) }

// HasBattery reports whether this cartridge's external RAM should be
// persisted by a BatteryStore collaborator on power-off.
func (c *Cartridge) HasBattery() bool { return c.battery }

// SaveRAM returns the external RAM contents to persist, or nil if this
// MBC carries none or isn't battery backed.
func (c *Cartridge) SaveRAM() []byte {
	if !c.battery {
		return nil
	}
	if bb, ok := c.mbc.(BatteryBacked); ok {
		return bb.SaveRAM()
	}
	return nil
}

// LoadRAM restores previously persisted external RAM.
func (c *Cartridge) LoadRAM(data []byte) {
	if bb, ok := c.mbc.(BatteryBacked); ok {
		bb.LoadRAM(data)
	}
}

// TickRTC advances an MBC3 real-time clock by one elapsed second, a
// no-op for every other cartridge type.
func (c *Cartridge) TickRTC() {
	if rtc, ok := c.mbc.(realTimeClock); ok {
		rtc.TickSecond()
	}
}

func (c *Cartridge) Save(s *types.State) { c.mbc.Save(s) }
func (c *Cartridge) Load(s *types.State) { c.mbc.Load(s) }

// romBankCount returns the number of 16KiB ROM banks in rom.
func romBankCount(rom []byte) int { return len(rom) / 0x4000 }

// ramBankCount returns the number of 8KiB RAM banks for the given
// header RAM size.
func ramBankCount(ramSize int) int {
	if ramSize == 0 {
		return 0
	}
	n := ramSize / 0x2000
	if n == 0 {
		return 1 // MBC2's pseudo-RAM size rounds up to one partial bank
	}
	return n
}
