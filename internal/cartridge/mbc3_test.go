package cartridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMBC3_RAMBankSwitch(t *testing.T) {
	m := newMBC3(fakeROM(4), 4*0x2000, false)
	m.WriteROM(0x0000, 0x0A)

	m.WriteROM(0x4000, 0x01)
	m.WriteRAM(0xA000, 0x11)
	m.WriteROM(0x4000, 0x02)
	m.WriteRAM(0xA000, 0x22)

	m.WriteROM(0x4000, 0x01)
	assert.Equal(t, uint8(0x11), m.ReadRAM(0xA000))
}

func TestMBC3_RTCLatchSequence(t *testing.T) {
	m := newMBC3(fakeROM(2), 0, true)
	m.WriteROM(0x0000, 0x0A) // enable RAM/RTC access

	m.live.seconds = 30
	m.live.minutes = 12

	// select seconds register, read before latch sees zero (unlatched default)
	m.WriteROM(0x4000, 0x08)
	assert.Equal(t, uint8(0), m.ReadRAM(0xA000))

	m.WriteROM(0x6000, 0x00)
	m.WriteROM(0x6000, 0x01)
	assert.Equal(t, uint8(30), m.ReadRAM(0xA000), "latch must snapshot live seconds")

	m.live.seconds = 45
	assert.Equal(t, uint8(30), m.ReadRAM(0xA000), "reads must stay pinned to the latched snapshot")
}

func TestMBC3_RTCSecondCarry(t *testing.T) {
	m := newMBC3(fakeROM(2), 0, true)
	m.live.seconds = 59
	m.live.minutes = 59
	m.live.hours = 23

	m.TickSecond()

	assert.Equal(t, uint8(0), m.live.seconds)
	assert.Equal(t, uint8(0), m.live.minutes)
	assert.Equal(t, uint8(0), m.live.hours)
	assert.Equal(t, uint8(1), m.live.dayLow)
}

func TestMBC3_RTCHaltStopsTicking(t *testing.T) {
	m := newMBC3(fakeROM(2), 0, true)
	m.live.dayHigh = 1 << 6 // halt bit
	m.live.seconds = 10

	m.TickSecond()

	assert.Equal(t, uint8(10), m.live.seconds)
}
