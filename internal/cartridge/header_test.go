package cartridge

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tylergibbs2/gbcore/internal/types"
)

// buildHeaderROM constructs a minimal 32KiB ROM with a valid header
// checksum, mirroring the layout spec.md §3 describes.
func buildHeaderROM(title string, cartType Type, romCode, ramCode uint8) []byte {
	rom := make([]byte, 0x8000)
	copy(rom[0x134:0x144], title)
	rom[0x147] = uint8(cartType)
	rom[0x148] = romCode
	rom[0x149] = ramCode

	var sum uint8
	for addr := 0x134; addr <= 0x14C; addr++ {
		sum = sum - rom[addr] - 1
	}
	rom[0x14D] = sum
	return rom
}

func TestParseHeader_Valid(t *testing.T) {
	rom := buildHeaderROM("TETRIS", MBC1, 0x00, 0x00)

	h, err := ParseHeader(rom)
	require.NoError(t, err)
	assert.Equal(t, "TETRIS", h.Title)
	assert.Equal(t, MBC1, h.CartridgeType)
	assert.Equal(t, 32*1024, h.ROMSize)
}

func TestParseHeader_ChecksumMismatch(t *testing.T) {
	rom := buildHeaderROM("TETRIS", MBC1, 0x00, 0x00)
	rom[0x14D] ^= 0xFF

	_, err := ParseHeader(rom)
	assert.Error(t, err)
}

func TestParseHeader_TooShort(t *testing.T) {
	_, err := ParseHeader(make([]byte, 0x10))
	assert.Error(t, err)
}

func TestNew_UnsupportedCartridgeType(t *testing.T) {
	rom := buildHeaderROM("X", Type(0x20), 0x00, 0x00)

	_, err := New(rom)
	require.Error(t, err)

	var unsupported *types.UnsupportedCartridgeError
	assert.True(t, errors.As(err, &unsupported))
}
