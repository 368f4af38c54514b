package cpu

// execute dispatches a just-fetched primary opcode. The two large
// regular blocks (LD r,r' and ALU A,r) are decoded by the 3-bit
// fields packed into opcode bits 0-2 and 3-5 rather than spelled out as
// 64 literal cases apiece; everything irregular is one case per
// opcode, matched against a real decode table.
func (c *CPU) execute(opcode uint8) {
	switch {
	case opcode >= 0x40 && opcode <= 0x7F && opcode != 0x76:
		dst := (opcode >> 3) & 7
		src := opcode & 7
		c.writeReg8(dst, c.readReg8(src))
		return
	case opcode >= 0x80 && opcode <= 0xBF:
		src := c.readReg8(opcode & 7)
		c.aluDispatch((opcode>>3)&7, src)
		return
	}

	switch opcode {
	case 0x00: // NOP
	case 0x01:
		c.SetBC(c.fetch16())
	case 0x02:
		c.writeByte(c.BC(), c.A)
	case 0x03:
		c.tickM()
		c.SetBC(c.BC() + 1)
	case 0x04:
		c.B = c.inc8(c.B)
	case 0x05:
		c.B = c.dec8(c.B)
	case 0x06:
		c.B = c.fetch8()
	case 0x07:
		c.rlca()
	case 0x08:
		addr := c.fetch16()
		c.writeByte(addr, uint8(c.SP))
		c.writeByte(addr+1, uint8(c.SP>>8))
	case 0x09:
		c.addHL(c.BC())
	case 0x0A:
		c.A = c.readByte(c.BC())
	case 0x0B:
		c.tickM()
		c.SetBC(c.BC() - 1)
	case 0x0C:
		c.C = c.inc8(c.C)
	case 0x0D:
		c.C = c.dec8(c.C)
	case 0x0E:
		c.C = c.fetch8()
	case 0x0F:
		c.rrca()

	case 0x10:
		c.fetch8() // STOP's second byte, conventionally 0x00
		c.stopped = true
	case 0x11:
		c.SetDE(c.fetch16())
	case 0x12:
		c.writeByte(c.DE(), c.A)
	case 0x13:
		c.tickM()
		c.SetDE(c.DE() + 1)
	case 0x14:
		c.D = c.inc8(c.D)
	case 0x15:
		c.D = c.dec8(c.D)
	case 0x16:
		c.D = c.fetch8()
	case 0x17:
		c.rla()
	case 0x18:
		e := int8(c.fetch8())
		c.jr(e, true)
	case 0x19:
		c.addHL(c.DE())
	case 0x1A:
		c.A = c.readByte(c.DE())
	case 0x1B:
		c.tickM()
		c.SetDE(c.DE() - 1)
	case 0x1C:
		c.E = c.inc8(c.E)
	case 0x1D:
		c.E = c.dec8(c.E)
	case 0x1E:
		c.E = c.fetch8()
	case 0x1F:
		c.rra()

	case 0x20:
		e := int8(c.fetch8())
		c.jr(e, !c.Zero())
	case 0x21:
		c.SetHL(c.fetch16())
	case 0x22:
		c.writeByte(c.HL(), c.A)
		c.SetHL(c.HL() + 1)
	case 0x23:
		c.tickM()
		c.SetHL(c.HL() + 1)
	case 0x24:
		c.H = c.inc8(c.H)
	case 0x25:
		c.H = c.dec8(c.H)
	case 0x26:
		c.H = c.fetch8()
	case 0x27:
		c.daa()
	case 0x28:
		e := int8(c.fetch8())
		c.jr(e, c.Zero())
	case 0x29:
		c.addHL(c.HL())
	case 0x2A:
		c.A = c.readByte(c.HL())
		c.SetHL(c.HL() + 1)
	case 0x2B:
		c.tickM()
		c.SetHL(c.HL() - 1)
	case 0x2C:
		c.L = c.inc8(c.L)
	case 0x2D:
		c.L = c.dec8(c.L)
	case 0x2E:
		c.L = c.fetch8()
	case 0x2F:
		c.cpl()

	case 0x30:
		e := int8(c.fetch8())
		c.jr(e, !c.Carry())
	case 0x31:
		c.SP = c.fetch16()
	case 0x32:
		c.writeByte(c.HL(), c.A)
		c.SetHL(c.HL() - 1)
	case 0x33:
		c.tickM()
		c.SP++
	case 0x34:
		c.writeByte(c.HL(), c.inc8(c.readByte(c.HL())))
	case 0x35:
		c.writeByte(c.HL(), c.dec8(c.readByte(c.HL())))
	case 0x36:
		c.writeByte(c.HL(), c.fetch8())
	case 0x37:
		c.scf()
	case 0x38:
		e := int8(c.fetch8())
		c.jr(e, c.Carry())
	case 0x39:
		c.addHL(c.SP)
	case 0x3A:
		c.A = c.readByte(c.HL())
		c.SetHL(c.HL() - 1)
	case 0x3B:
		c.tickM()
		c.SP--
	case 0x3C:
		c.A = c.inc8(c.A)
	case 0x3D:
		c.A = c.dec8(c.A)
	case 0x3E:
		c.A = c.fetch8()
	case 0x3F:
		c.ccf()

	case 0x76:
		c.execHalt()

	case 0xC0:
		c.retConditional(!c.Zero())
	case 0xC1:
		c.SetBC(c.pop16())
	case 0xC2:
		c.jp(c.fetch16(), !c.Zero())
	case 0xC3:
		c.jp(c.fetch16(), true)
	case 0xC4:
		c.call(c.fetch16(), !c.Zero())
	case 0xC5:
		c.tickM()
		c.push16(c.BC())
	case 0xC6:
		c.add8(c.fetch8())
	case 0xC7:
		c.rst(0x00)
	case 0xC8:
		c.retConditional(c.Zero())
	case 0xC9:
		c.ret(true)
	case 0xCA:
		c.jp(c.fetch16(), c.Zero())
	case 0xCB:
		c.executeCB(c.fetch8())
	case 0xCC:
		c.call(c.fetch16(), c.Zero())
	case 0xCD:
		c.call(c.fetch16(), true)
	case 0xCE:
		c.adc8(c.fetch8())
	case 0xCF:
		c.rst(0x08)

	case 0xD0:
		c.retConditional(!c.Carry())
	case 0xD1:
		c.SetDE(c.pop16())
	case 0xD2:
		c.jp(c.fetch16(), !c.Carry())
	case 0xD4:
		c.call(c.fetch16(), !c.Carry())
	case 0xD5:
		c.tickM()
		c.push16(c.DE())
	case 0xD6:
		c.sub8(c.fetch8())
	case 0xD7:
		c.rst(0x10)
	case 0xD8:
		c.retConditional(c.Carry())
	case 0xD9:
		c.reti()
	case 0xDA:
		c.jp(c.fetch16(), c.Carry())
	case 0xDC:
		c.call(c.fetch16(), c.Carry())
	case 0xDE:
		c.sbc8(c.fetch8())
	case 0xDF:
		c.rst(0x18)

	case 0xE0:
		c.writeByte(0xFF00+uint16(c.fetch8()), c.A)
	case 0xE1:
		c.SetHL(c.pop16())
	case 0xE2:
		c.writeByte(0xFF00+uint16(c.C), c.A)
	case 0xE5:
		c.tickM()
		c.push16(c.HL())
	case 0xE6:
		c.and8(c.fetch8())
	case 0xE7:
		c.rst(0x20)
	case 0xE8:
		e := int8(c.fetch8())
		c.tickM()
		c.tickM()
		c.SP = c.addSPSigned(e)
	case 0xE9:
		c.PC = c.HL()
	case 0xEA:
		c.writeByte(c.fetch16(), c.A)
	case 0xEE:
		c.xor8(c.fetch8())
	case 0xEF:
		c.rst(0x28)

	case 0xF0:
		c.A = c.readByte(0xFF00 + uint16(c.fetch8()))
	case 0xF1:
		c.SetAF(c.pop16())
	case 0xF2:
		c.A = c.readByte(0xFF00 + uint16(c.C))
	case 0xF3:
		c.irq.DisableImmediately()
	case 0xF5:
		c.tickM()
		c.push16(c.AF())
	case 0xF6:
		c.or8(c.fetch8())
	case 0xF7:
		c.rst(0x30)
	case 0xF8:
		e := int8(c.fetch8())
		c.tickM()
		c.SetHL(c.addSPSigned(e))
	case 0xF9:
		c.tickM()
		c.SP = c.HL()
	case 0xFA:
		c.A = c.readByte(c.fetch16())
	case 0xFB:
		c.irq.RequestEI()
	case 0xFE:
		c.cp8(c.fetch8())
	case 0xFF:
		c.rst(0x38)

	default:
		// 0xD3, 0xDB, 0xDD, 0xE3, 0xE4, 0xEB-0xED, 0xF4, 0xFC, 0xFD are not
		// defined on the LR35902; real hardware locks the CPU up rather
		// than decoding anything further, so Step stops fetching once
		// this fires (see CPU.locked).
		c.locked = true
	}
}

// aluDispatch implements the ADD/ADC/SUB/SBC/AND/XOR/OR/CP A,r block,
// selected by the three bits packed into opcode bits 3-5.
func (c *CPU) aluDispatch(op uint8, operand uint8) {
	switch op {
	case 0:
		c.add8(operand)
	case 1:
		c.adc8(operand)
	case 2:
		c.sub8(operand)
	case 3:
		c.sbc8(operand)
	case 4:
		c.and8(operand)
	case 5:
		c.xor8(operand)
	case 6:
		c.or8(operand)
	case 7:
		c.cp8(operand)
	}
}

// execHalt implements HALT, including the halt bug: if IME is clear
// but an interrupt is already pending at the moment HALT runs, the
// CPU does not actually halt and instead corrupts the following fetch
// by failing to advance PC past it.
func (c *CPU) execHalt() {
	if !c.irq.IME && c.irq.HasPending() {
		c.haltBug = true
		return
	}
	c.halted = true
}
