package cartridge

import "github.com/tylergibbs2/gbcore/internal/types"

// romOnly implements MBC for cartridges with no bank controller at all:
// a single fixed 32KiB ROM image and no external RAM.
type romOnly struct {
	rom []byte
}

func newROMOnly(rom []byte) *romOnly { return &romOnly{rom: rom} }

func (m *romOnly) ReadROM(addr uint16) uint8 {
	if int(addr) < len(m.rom) {
		return m.rom[addr]
	}
	return 0xFF
}

// WriteROM is a no-op: there is no bank state to change, and ROM bytes
// themselves are never mutated (spec.md invariant 4).
func (m *romOnly) WriteROM(uint16, uint8) {}

func (m *romOnly) ReadRAM(uint16) uint8    { return 0xFF }
func (m *romOnly) WriteRAM(uint16, uint8) {}

func (m *romOnly) Save(*types.State) {}
func (m *romOnly) Load(*types.State) {}
