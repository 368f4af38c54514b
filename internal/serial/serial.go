// Package serial stubs the Game Boy link-cable port. No link partner is
// modelled; SB/SC behave exactly as spec.md §4.2 describes and each byte
// sent through SB is appended, once its transfer completes, to an
// unbounded capture slice so an embedder
// (or a test harness driving Blargg-style ROMs, per spec.md §8 S5) can
// observe what the running program printed.
package serial

import (
	"github.com/tylergibbs2/gbcore/internal/interrupts"
	"github.com/tylergibbs2/gbcore/internal/types"
)

// Controller owns FF01 (SB) and FF02 (SC).
type Controller struct {
	sb uint8
	sc uint8

	// cyclesLeft counts down the 8-cycle transfer started by writing SC
	// with bit 7 set; at zero, the Serial interrupt fires and sb is
	// appended to captured.
	cyclesLeft int

	captured []byte

	irq *interrupts.Controller
}

// NewController returns an idle serial controller.
func NewController(irq *interrupts.Controller) *Controller {
	return &Controller{irq: irq}
}

func (c *Controller) SB() uint8 { return c.sb }
func (c *Controller) WriteSB(v uint8) { c.sb = v }

func (c *Controller) SC() uint8 { return c.sc | 0x7E }

// WriteSC starts an 8-cycle transfer when bit 7 (start) is set, per
// spec.md §4.2. No external clock is ever present, so an internally
// clocked transfer (bit0=1) always completes; an externally clocked one
// (bit0=0) would stall forever on real hardware with nothing plugged
// in, which we don't reproduce since nothing observes it.
func (c *Controller) WriteSC(v uint8) {
	c.sc = v & 0x83
	if v&types.Bit7 != 0 {
		c.cyclesLeft = 8
	}
}

// Tick advances the in-flight transfer, if any, by one T-cycle.
func (c *Controller) Tick() {
	if c.cyclesLeft == 0 {
		return
	}
	c.cyclesLeft--
	if c.cyclesLeft == 0 {
		c.sc &^= types.Bit7
		c.captured = append(c.captured, c.sb)
		c.irq.Request(interrupts.Serial)
	}
}

// Captured returns every byte written through SB once its transfer
// completed, in order, since power-on.
func (c *Controller) Captured() []byte { return c.captured }

var _ types.Stater = (*Controller)(nil)

func (c *Controller) Save(s *types.State) {
	s.Write8(c.sb)
	s.Write8(c.sc)
	s.Write32(uint32(c.cyclesLeft))
}

func (c *Controller) Load(s *types.State) {
	c.sb = s.Read8()
	c.sc = s.Read8()
	c.cyclesLeft = int(s.Read32())
}
