package cpu

// executeCB dispatches a CB-prefixed opcode. All 256 entries follow a
// single regular layout: bits 3-5 select the operation, bits 0-2
// select the operand register (6 meaning memory at HL), so the whole
// table is one decode rather than 256 literal cases.
func (c *CPU) executeCB(opcode uint8) {
	reg := opcode & 7
	op := (opcode >> 3) & 7

	switch {
	case opcode <= 0x3F:
		v := c.readReg8(reg)
		var result uint8
		switch op {
		case 0:
			result = c.rlc(v)
		case 1:
			result = c.rrc(v)
		case 2:
			result = c.rl(v)
		case 3:
			result = c.rr(v)
		case 4:
			result = c.sla(v)
		case 5:
			result = c.sra(v)
		case 6:
			result = c.swap(v)
		case 7:
			result = c.srl(v)
		}
		c.writeReg8(reg, result)

	case opcode <= 0x7F:
		c.bitTest(op, c.readReg8(reg))

	case opcode <= 0xBF:
		c.writeReg8(reg, c.resBit(op, c.readReg8(reg)))

	default:
		c.writeReg8(reg, c.setBit(op, c.readReg8(reg)))
	}
}
