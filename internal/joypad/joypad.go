// Package joypad models the Game Boy's FF00 (P1/JOYP) register: two
// select lines chosen by the game, four physical button lines shared
// between the direction and action groups, and the 1->0 edge detector
// that raises the Joypad interrupt.
package joypad

import (
	"github.com/tylergibbs2/gbcore/internal/interrupts"
	"github.com/tylergibbs2/gbcore/internal/types"
)

// Button enumerates the eight logical buttons exposed to the input
// collaborator via Controller.Set.
type Button uint8

const (
	Right Button = iota
	Left
	Up
	Down
	A
	B
	Select
	Start
)

// Controller holds the current button state and the two select bits
// written by the game through FF00 bits 4-5.
type Controller struct {
	selectDirection bool // bit 4, active low in hardware, stored active-high here
	selectAction    bool // bit 5

	// pressed tracks logical button state; true means pressed.
	pressed [8]bool

	irq *interrupts.Controller
}

// NewController returns a controller with no buttons held.
func NewController(irq *interrupts.Controller) *Controller {
	return &Controller{irq: irq}
}

// Set records a press/release from the input collaborator and raises
// the Joypad interrupt on the 1->0 transition of the underlying pin, as
// required by spec.md §6.
func (c *Controller) Set(b Button, pressed bool) {
	was := c.pinLow(b)
	c.pressed[b] = pressed
	now := c.pinLow(b)
	if !was && now {
		c.irq.Request(interrupts.Joypad)
	}
}

// pinLow reports whether the button's physical pin currently reads low
// (pressed) as the game would observe it through FF00: a button whose
// group is not currently selected is pulled high regardless of whether
// it is physically held, so it can never produce a falling edge. This
// mirrors the teacher's Press(), which gates on
// !bits.Test(register, 5)/!bits.Test(register, 4) before raising the
// interrupt.
func (c *Controller) pinLow(b Button) bool {
	if !c.pressed[b] {
		return false
	}
	if isDirection(b) {
		return c.selectDirection
	}
	return c.selectAction
}

// isDirection reports whether b belongs to the direction group
// (Right/Left/Up/Down) as opposed to the action group (A/B/Select/
// Start).
func isDirection(b Button) bool { return b <= Down }

// Read returns the current value of FF00 given the select bits
// previously written to it. Unselected/unset lines read high (1,
// released) per hardware; upper two bits always read 1.
func (c *Controller) Read() uint8 {
	v := uint8(0xC0) // bits 6-7 unused, read as 1
	if !c.selectDirection {
		v |= types.Bit4
	}
	if !c.selectAction {
		v |= types.Bit5
	}

	lower := uint8(0x0F)
	if c.selectDirection {
		lower &= c.groupNibble(Right, Left, Up, Down)
	}
	if c.selectAction {
		lower &= c.groupNibble(A, B, Select, Start)
	}
	return v | lower
}

// groupNibble packs four buttons into the low nibble, 0 meaning
// pressed (active low), in FF00 bit order (bit0..bit3).
func (c *Controller) groupNibble(b0, b1, b2, b3 Button) uint8 {
	v := uint8(0x0F)
	if c.pressed[b0] {
		v &^= types.Bit0
	}
	if c.pressed[b1] {
		v &^= types.Bit1
	}
	if c.pressed[b2] {
		v &^= types.Bit2
	}
	if c.pressed[b3] {
		v &^= types.Bit3
	}
	return v
}

// Write handles a CPU write to FF00; only bits 4-5 are writable.
func (c *Controller) Write(v uint8) {
	c.selectDirection = v&types.Bit4 == 0
	c.selectAction = v&types.Bit5 == 0
}

// AnyPressed reports whether any button is currently held, whatever the
// select lines. The STOP state polls it as its wake-up condition; it is
// a level check, not edge detection.
func (c *Controller) AnyPressed() bool {
	for _, p := range c.pressed {
		if p {
			return true
		}
	}
	return false
}

var _ types.Stater = (*Controller)(nil)

func (c *Controller) Save(s *types.State) {
	s.WriteBool(c.selectDirection)
	s.WriteBool(c.selectAction)
	for _, p := range c.pressed {
		s.WriteBool(p)
	}
}

func (c *Controller) Load(s *types.State) {
	c.selectDirection = s.ReadBool()
	c.selectAction = s.ReadBool()
	for i := range c.pressed {
		c.pressed[i] = s.ReadBool()
	}
}
