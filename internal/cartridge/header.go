package cartridge

import (
	"fmt"
	"github.com/tylergibbs2/gbcore/internal/types"
)

// Type is the cartridge-type byte at ROM offset 0x0147.
type Type uint8

const (
	ROM               Type = 0x00
	MBC1              Type = 0x01
	MBC1RAM           Type = 0x02
	MBC1RAMBATT       Type = 0x03
	MBC2              Type = 0x05
	MBC2BATT          Type = 0x06
	MBC3TIMERBATT     Type = 0x0F
	MBC3TIMERRAMBATT  Type = 0x10
	MBC3              Type = 0x11
	MBC3RAM           Type = 0x12
	MBC3RAMBATT       Type = 0x13
	MBC5              Type = 0x19
	MBC5RAM           Type = 0x1A
	MBC5RAMBATT       Type = 0x1B
	MBC5RUMBLE        Type = 0x1C
	MBC5RUMBLERAM     Type = 0x1D
	MBC5RUMBLERAMBATT Type = 0x1E
)

// HasBattery reports whether this cartridge type persists its external
// RAM (or, for MBC3, its RTC) across power cycles.
func (t Type) HasBattery() bool {
	switch t {
	case MBC1RAMBATT, MBC2BATT, MBC3TIMERBATT, MBC3TIMERRAMBATT, MBC3RAMBATT,
		MBC5RAMBATT, MBC5RUMBLERAMBATT:
		return true
	}
	return false
}

// HasRTC reports whether this cartridge type carries an MBC3 real-time
// clock.
func (t Type) HasRTC() bool {
	return t == MBC3TIMERBATT || t == MBC3TIMERRAMBATT
}

var romSizes = map[uint8]int{
	0x00: 32 * 1024, 0x01: 64 * 1024, 0x02: 128 * 1024, 0x03: 256 * 1024,
	0x04: 512 * 1024, 0x05: 1024 * 1024, 0x06: 2 * 1024 * 1024,
	0x07: 4 * 1024 * 1024, 0x08: 8 * 1024 * 1024,
}

var ramSizes = map[uint8]int{
	0x00: 0, 0x01: 2 * 1024, 0x02: 8 * 1024, 0x03: 32 * 1024,
	0x04: 128 * 1024, 0x05: 64 * 1024,
}

// Header is the parsed content of ROM bytes 0x0100-0x014F, per spec.md
// §3.
type Header struct {
	Title          string
	CartridgeType  Type
	ROMSize        int
	RAMSize        int
	HeaderChecksum uint8
}

// ParseHeader validates and decodes the cartridge header embedded in
// rom. It returns InvalidRom if the image is too small to contain a
// header, the declared sizes are not recognised, or the header
// checksum does not match the bytes it covers.
func ParseHeader(rom []byte) (Header, error) {
	if len(rom) < 0x150 {
		return Header{}, types.NewInvalidRom("rom shorter than header region")
	}

	var h Header
	titleBytes := rom[0x134:0x144]
	end := 0
	for end < len(titleBytes) && titleBytes[end] != 0 {
		end++
	}
	h.Title = string(titleBytes[:end])
	h.CartridgeType = Type(rom[0x147])

	romSize, ok := romSizes[rom[0x148]]
	if !ok {
		return Header{}, types.NewInvalidRom(fmt.Sprintf("unrecognised rom size code 0x%02X", rom[0x148]))
	}
	h.ROMSize = romSize

	ramSize, ok := ramSizes[rom[0x149]]
	if !ok {
		return Header{}, types.NewInvalidRom(fmt.Sprintf("unrecognised ram size code 0x%02X", rom[0x149]))
	}
	h.RAMSize = ramSize

	var sum uint8
	for addr := 0x134; addr <= 0x14C; addr++ {
		sum = sum - rom[addr] - 1
	}
	h.HeaderChecksum = rom[0x14D]
	if sum != h.HeaderChecksum {
		return Header{}, types.NewInvalidRom("header checksum mismatch")
	}

	if len(rom) < h.ROMSize {
		return Header{}, types.NewInvalidRom("rom shorter than declared size field")
	}

	return h, nil
}
