package cpu

func (c *CPU) and8(b uint8) {
	result, z, n, h, cy := aluAnd8(c.A, b)
	c.A = result
	c.setFlags(z, n, h, cy)
}

func (c *CPU) or8(b uint8) {
	result, z, n, h, cy := aluOr8(c.A, b)
	c.A = result
	c.setFlags(z, n, h, cy)
}

func (c *CPU) xor8(b uint8) {
	result, z, n, h, cy := aluXor8(c.A, b)
	c.A = result
	c.setFlags(z, n, h, cy)
}
