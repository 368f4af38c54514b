package interrupts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tylergibbs2/gbcore/internal/types"
)

func TestInterrupts_ReadIFForcesReservedBitsHigh(t *testing.T) {
	c := NewController()
	c.Flag = 0x01
	assert.Equal(t, uint8(0xE1), c.ReadIF())
}

func TestInterrupts_WriteIFMasksToFiveBits(t *testing.T) {
	c := NewController()
	c.WriteIF(0xFF)
	assert.Equal(t, uint8(0x1F), c.Flag)
}

func TestInterrupts_NextSourcePrioritizesLowestBit(t *testing.T) {
	c := NewController()
	c.Enable = 0x1F
	c.Request(Timer)
	c.Request(VBlank)

	src, ok := c.NextSource()
	assert.True(t, ok)
	assert.Equal(t, VBlank, src, "VBlank has the highest dispatch priority")
}

func TestInterrupts_NextSourceRequiresBothEnableAndFlag(t *testing.T) {
	c := NewController()
	c.Request(Timer)
	_, ok := c.NextSource()
	assert.False(t, ok, "Timer is flagged but not enabled")

	c.Enable = 1 << uint8(Timer)
	src, ok := c.NextSource()
	assert.True(t, ok)
	assert.Equal(t, Timer, src)
}

func TestInterrupts_EIIsDelayedByOneInstructionBoundary(t *testing.T) {
	c := NewController()
	c.RequestEI()
	assert.False(t, c.IME, "EI itself must not arm IME synchronously")

	c.StepLatch()
	assert.True(t, c.IME)
}

func TestInterrupts_DIClearsPendingEIImmediately(t *testing.T) {
	c := NewController()
	c.RequestEI()
	c.DisableImmediately()
	c.StepLatch()
	assert.False(t, c.IME, "DI cancels a not-yet-applied EI")
}

func TestInterrupts_VectorAddressesAreEightBytesApart(t *testing.T) {
	assert.Equal(t, uint16(0x0040), VBlank.Vector())
	assert.Equal(t, uint16(0x0048), LCDStat.Vector())
	assert.Equal(t, uint16(0x0060), Joypad.Vector())
}

func TestInterrupts_SaveLoadRoundTrip(t *testing.T) {
	c := NewController()
	c.Enable = 0x1F
	c.Flag = 0x05
	c.IME = true
	c.RequestEI() // exercise imePending too

	s := types.NewState()
	c.Save(s)
	other := NewController()
	other.Load(types.StateFromBytes(s.Bytes()))

	assert.Equal(t, c.Enable, other.Enable)
	assert.Equal(t, c.Flag, other.Flag)
	assert.Equal(t, c.IME, other.IME)
}
