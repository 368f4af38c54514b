// Package timer implements the Game Boy's DIV/TIMA/TMA/TAC timer,
// including the falling-edge TIMA increment and the four-cycle delayed
// overflow reload described in spec.md §4.5.
package timer

import (
	"github.com/tylergibbs2/gbcore/internal/interrupts"
	"github.com/tylergibbs2/gbcore/internal/types"
)

// selectedBit maps TAC's low two bits to the internal-counter bit that
// drives TIMA, per spec.md's frequency table.
var selectedBit = [4]uint{9, 3, 5, 7}

// Controller owns the timer's 16-bit internal counter and the TIMA
// overflow-reload pipeline.
type Controller struct {
	counter uint16 // internal free-running counter; DIV is its high byte

	tima uint8
	tma  uint8
	tac  uint8

	// reloadCycles counts down from 4 after a TIMA overflow; 0 means no
	// reload is in flight. At the end of the delay TIMA is loaded from
	// TMA and a Timer interrupt is requested.
	reloadCycles int

	irq *interrupts.Controller
}

// NewController returns a timer wired to the shared interrupt
// controller. The internal counter starts at the documented DMG
// post-boot value so behaviour matches running after the boot ROM.
func NewController(irq *interrupts.Controller) *Controller {
	return &Controller{irq: irq, counter: 0xABCC}
}

func (c *Controller) enabled() bool { return c.tac&types.Bit2 != 0 }

func (c *Controller) edgeInput() bool {
	bit := selectedBit[c.tac&0x03]
	return c.enabled() && (c.counter>>bit)&1 != 0
}

// Tick advances the timer by one T-cycle. It must be called exactly
// once per T-cycle the CPU consumes, in lock-step with the PPU and DMA,
// per spec.md invariant 1.
func (c *Controller) Tick() {
	before := c.edgeInput()

	if c.reloadCycles > 0 {
		c.reloadCycles--
		if c.reloadCycles == 0 {
			c.tima = c.tma
			c.irq.Request(interrupts.Timer)
		}
	}

	c.counter++

	after := c.edgeInput()
	if before && !after {
		c.incrementTIMA()
	}
}

func (c *Controller) incrementTIMA() {
	if c.tima == 0xFF {
		c.tima = 0x00
		c.reloadCycles = 4
	} else {
		c.tima++
	}
}

// DIV is the upper 8 bits of the internal counter.
func (c *Controller) DIV() uint8 { return uint8(c.counter >> 8) }

// ResetDIV implements the write-any-value-resets-to-zero behaviour of
// FF04. Because the reset can clear a bit that was driving the TIMA
// edge detector, it may itself cause an immediate TIMA increment — the
// falling-edge detector is evaluated across the reset exactly as it
// would be across a normal Tick.
func (c *Controller) ResetDIV() {
	before := c.edgeInput()
	c.counter = 0
	after := c.edgeInput()
	if before && !after {
		c.incrementTIMA()
	}
}

// TIMA reads the visible value of FF05. During the four-cycle reload
// delay the register reads back 0x00, matching hardware.
func (c *Controller) TIMA() uint8 { return c.tima }

// WriteTIMA handles a CPU write to FF05. A write during the reload
// delay cancels the pending reload (the written value wins outright);
// outside the delay it simply replaces TIMA.
func (c *Controller) WriteTIMA(v uint8) {
	c.reloadCycles = 0
	c.tima = v
}

func (c *Controller) TMA() uint8 { return c.tma }

// WriteTMA handles a CPU write to FF06. If a reload is completing on
// this very cycle, TIMA observes the new TMA value simultaneously, per
// spec.md §4.5.
func (c *Controller) WriteTMA(v uint8) {
	c.tma = v
	if c.reloadCycles == 1 {
		c.tima = v
	}
}

func (c *Controller) TAC() uint8 { return c.tac | 0xF8 }

func (c *Controller) WriteTAC(v uint8) {
	before := c.edgeInput()
	c.tac = v & 0x07
	after := c.edgeInput()
	if before && !after {
		c.incrementTIMA()
	}
}

var _ types.Stater = (*Controller)(nil)

func (c *Controller) Save(s *types.State) {
	s.Write16(c.counter)
	s.Write8(c.tima)
	s.Write8(c.tma)
	s.Write8(c.tac)
	s.Write32(uint32(c.reloadCycles))
}

func (c *Controller) Load(s *types.State) {
	c.counter = s.Read16()
	c.tima = s.Read8()
	c.tma = s.Read8()
	c.tac = s.Read8()
	c.reloadCycles = int(s.Read32())
}
