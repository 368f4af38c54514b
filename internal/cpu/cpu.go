// Package cpu implements the Sharp LR35902: the register file, ALU
// flag semantics, the 256 primary and 256 CB-prefixed opcodes, and
// interrupt servicing / HALT / STOP state handling, per spec.md §4.3.
package cpu

import (
	"github.com/tylergibbs2/gbcore/internal/interrupts"
	"github.com/tylergibbs2/gbcore/internal/joypad"
	"github.com/tylergibbs2/gbcore/internal/mmu"
	"github.com/tylergibbs2/gbcore/internal/ppu"
	"github.com/tylergibbs2/gbcore/internal/serial"
	"github.com/tylergibbs2/gbcore/internal/timer"
	"github.com/tylergibbs2/gbcore/internal/types"
)

// CPU is the single owner of the register file and instruction
// sequencer. It drives every other ticked component (OAM DMA, the
// timer, the PPU, the serial port) one T-cycle at a time as it
// services each memory access, so a caller only has to call Step in a
// loop to advance the whole machine.
type CPU struct {
	Registers
	PC, SP uint16

	mmu *mmu.MMU
	irq *interrupts.Controller
	tim *timer.Controller
	ppu *ppu.PPU
	ser *serial.Controller
	joy *joypad.Controller

	halted  bool
	haltBug bool
	stopped bool
	locked  bool

	ticks int
}

// New wires a CPU to its collaborators. PC/SP start at zero; the
// caller is expected to set them (or load a save state) before
// stepping — typically 0x0100/0xFFFE when no boot ROM is mapped, or
// 0x0000/0x0000 when one is.
func New(m *mmu.MMU, irq *interrupts.Controller, t *timer.Controller, p *ppu.PPU, s *serial.Controller, j *joypad.Controller) *CPU {
	return &CPU{mmu: m, irq: irq, tim: t, ppu: p, ser: s, joy: j}
}

// Step executes one instruction (or one idle tick while halted/
// stopped) and returns the number of T-cycles consumed, so a caller
// can accumulate against a frame or other budget. A pending interrupt
// with IME set is serviced in place of the fetch, and that Step costs
// only the 20-T-cycle dispatch.
func (c *CPU) Step() int {
	c.ticks = 0

	if c.locked {
		// A locked CPU is permanently wedged: its control logic cannot
		// decode another opcode or dispatch an interrupt, so it never
		// unlocks. Other ticked collaborators (timer, PPU, DMA, serial)
		// keep running off the system clock regardless.
		c.tickM()
		return c.ticks
	}

	if !c.stopped && c.irq.IME && c.irq.HasPending() {
		c.halted = false
		c.serviceInterrupt()
		return c.ticks
	}

	// An EI from the previous Step arms IME here, so the instruction
	// after EI runs before any interrupt can be taken.
	c.irq.StepLatch()

	switch {
	case c.halted:
		c.tickM()
		if c.irq.HasPending() {
			c.halted = false
		}
	case c.stopped:
		c.tickM()
		if c.joy.AnyPressed() {
			c.stopped = false
		}
	default:
		opcode := c.fetch8()
		if c.haltBug {
			// The HALT bug: PC failed to advance past HALT's own opcode,
			// so the byte following HALT is fetched and executed twice.
			c.PC--
			c.haltBug = false
		}
		c.execute(opcode)
	}

	return c.ticks
}

// Locked reports whether the CPU has hit an undefined opcode and
// frozen, per spec.md §7.
func (c *CPU) Locked() bool { return c.locked }

// serviceInterrupt dispatches the highest-priority pending interrupt
// if IME is set, costing 5 M-cycles (20 T-cycles): two internal delay
// cycles, two to push PC, one to load the vector.
func (c *CPU) serviceInterrupt() {
	if !c.irq.IME {
		return
	}
	src, ok := c.irq.NextSource()
	if !ok {
		return
	}

	c.tickM()
	c.tickM()

	c.pushByte(uint8(c.PC >> 8))
	c.pushByte(uint8(c.PC))

	c.irq.Clear(src)
	c.irq.DisableImmediately()
	c.PC = src.Vector()

	c.tickM()
}

// tick advances every ticked collaborator by one T-cycle.
func (c *CPU) tick() {
	c.mmu.TickDMA()
	c.tim.Tick()
	c.ppu.Tick()
	c.ser.Tick()
	c.ticks++
}

// tickM advances one machine cycle (4 T-cycles), the unit every memory
// access and internal delay costs on real hardware.
func (c *CPU) tickM() {
	c.tick()
	c.tick()
	c.tick()
	c.tick()
}

func (c *CPU) fetch8() uint8 {
	v := c.mmu.Read(c.PC)
	c.PC++
	c.tickM()
	return v
}

func (c *CPU) fetch16() uint16 {
	lo := c.fetch8()
	hi := c.fetch8()
	return uint16(hi)<<8 | uint16(lo)
}

func (c *CPU) readByte(addr uint16) uint8 {
	v := c.mmu.Read(addr)
	c.tickM()
	return v
}

func (c *CPU) writeByte(addr uint16, v uint8) {
	c.mmu.Write(addr, v)
	c.tickM()
}

func (c *CPU) pushByte(v uint8) {
	c.SP--
	c.writeByte(c.SP, v)
}

func (c *CPU) popByte() uint8 {
	v := c.readByte(c.SP)
	c.SP++
	return v
}

func (c *CPU) push16(v uint16) {
	c.pushByte(uint8(v >> 8))
	c.pushByte(uint8(v))
}

func (c *CPU) pop16() uint16 {
	lo := c.popByte()
	hi := c.popByte()
	return uint16(hi)<<8 | uint16(lo)
}

// readReg8/writeReg8 index the B,C,D,E,H,L,(HL),A register family used
// by the LD r,r' block, the A,r ALU block, and every CB-prefixed
// opcode. Index 6 routes through memory at HL rather than a register.
func (c *CPU) readReg8(i uint8) uint8 {
	switch i {
	case 0:
		return c.B
	case 1:
		return c.C
	case 2:
		return c.D
	case 3:
		return c.E
	case 4:
		return c.H
	case 5:
		return c.L
	case 6:
		return c.readByte(c.HL())
	default:
		return c.A
	}
}

func (c *CPU) writeReg8(i uint8, v uint8) {
	switch i {
	case 0:
		c.B = v
	case 1:
		c.C = v
	case 2:
		c.D = v
	case 3:
		c.E = v
	case 4:
		c.H = v
	case 5:
		c.L = v
	case 6:
		c.writeByte(c.HL(), v)
	default:
		c.A = v
	}
}

// Halted reports whether the CPU is idling in HALT.
func (c *CPU) Halted() bool { return c.halted }

// Stopped reports whether the CPU is idling in STOP. Each idle Step
// ends STOP as soon as any joypad button is held, whatever the FF00
// select lines; it does not wait for a fresh 1->0 pin edge, and there
// is no separate reset path out of STOP.
func (c *CPU) Stopped() bool { return c.stopped }

var _ types.Stater = (*CPU)(nil)

func (c *CPU) Save(s *types.State) {
	s.Write8(c.A)
	s.Write8(c.F)
	s.Write8(c.B)
	s.Write8(c.C)
	s.Write8(c.D)
	s.Write8(c.E)
	s.Write8(c.H)
	s.Write8(c.L)
	s.Write16(c.SP)
	s.Write16(c.PC)
	s.WriteBool(c.halted)
	s.WriteBool(c.haltBug)
	s.WriteBool(c.stopped)
	s.WriteBool(c.locked)
}

func (c *CPU) Load(s *types.State) {
	c.A = s.Read8()
	c.F = s.Read8()
	c.B = s.Read8()
	c.C = s.Read8()
	c.D = s.Read8()
	c.E = s.Read8()
	c.H = s.Read8()
	c.L = s.Read8()
	c.SP = s.Read16()
	c.PC = s.Read16()
	c.halted = s.ReadBool()
	c.haltBug = s.ReadBool()
	c.stopped = s.ReadBool()
	c.locked = s.ReadBool()
}
