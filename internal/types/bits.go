// Package types holds the small, dependency-free building blocks shared
// across the emulator core: bit helpers, sentinel error kinds, the
// save-state codec and the logging/config collaborator interfaces.
package types

// Bit masks for the eight bits of a byte. Named bits read better at call
// sites than magic numbers, especially in register flag checks.
const (
	Bit0 uint8 = 1 << iota
	Bit1
	Bit2
	Bit3
	Bit4
	Bit5
	Bit6
	Bit7
)

// IO register addresses referenced from more than one package.
const (
	AddrJOYP uint16 = 0xFF00
	AddrSB   uint16 = 0xFF01
	AddrSC   uint16 = 0xFF02
	AddrDIV  uint16 = 0xFF04
	AddrTIMA uint16 = 0xFF05
	AddrTMA  uint16 = 0xFF06
	AddrTAC  uint16 = 0xFF07
	AddrIF   uint16 = 0xFF0F
	AddrLCDC uint16 = 0xFF40
	AddrSTAT uint16 = 0xFF41
	AddrSCY  uint16 = 0xFF42
	AddrSCX  uint16 = 0xFF43
	AddrLY   uint16 = 0xFF44
	AddrLYC  uint16 = 0xFF45
	AddrDMA  uint16 = 0xFF46
	AddrBGP  uint16 = 0xFF47
	AddrOBP0 uint16 = 0xFF48
	AddrOBP1 uint16 = 0xFF49
	AddrWY   uint16 = 0xFF4A
	AddrWX   uint16 = 0xFF4B
	AddrBOOT uint16 = 0xFF50
	AddrIE   uint16 = 0xFFFF
)
