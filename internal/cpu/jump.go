package cpu

// jr/jp/call/ret/rst take the branch condition already evaluated by
// the caller, and account for the extra internal delay cycle a taken
// branch costs over a fall-through.

func (c *CPU) jr(e int8, taken bool) {
	if !taken {
		return
	}
	c.PC = uint16(int32(c.PC) + int32(e))
	c.tickM()
}

func (c *CPU) jp(addr uint16, taken bool) {
	if !taken {
		return
	}
	c.PC = addr
	c.tickM()
}

func (c *CPU) call(addr uint16, taken bool) {
	if !taken {
		return
	}
	c.tickM()
	c.push16(c.PC)
	c.PC = addr
}

func (c *CPU) ret(taken bool) {
	if !taken {
		return
	}
	c.PC = c.pop16()
	c.tickM()
}

// retConditional additionally costs the internal flag-test cycle that
// RET cc (but not RET) spends regardless of outcome.
func (c *CPU) retConditional(taken bool) {
	c.tickM()
	c.ret(taken)
}

func (c *CPU) reti() {
	c.PC = c.pop16()
	c.irq.EnableImmediately()
	c.tickM()
}

func (c *CPU) rst(vector uint16) {
	c.tickM()
	c.push16(c.PC)
	c.PC = vector
}
