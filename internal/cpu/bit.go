package cpu

// bitTest sets Z from the complement of bit, H always, N never, and
// leaves C untouched.
func (c *CPU) bitTest(bit, v uint8) {
	c.setFlags(v&(1<<bit) == 0, false, true, c.Carry())
}

func (c *CPU) resBit(bit, v uint8) uint8 { return v &^ (1 << bit) }

func (c *CPU) setBit(bit, v uint8) uint8 { return v | 1<<bit }
