package cpu

// The alu* helpers are pure value-in/value-out functions: they take
// operands and the carry-in they need, and return the result alongside
// the four flag bits explicitly, rather than mutating a shared
// register object — the Design Notes call for sharing ALU logic this
// way so instruction bodies stay simple call sites.

func aluAdd8(a, b uint8) (result uint8, z, n, h, c bool) {
	sum := uint16(a) + uint16(b)
	result = uint8(sum)
	z = result == 0
	h = (a&0x0F)+(b&0x0F) > 0x0F
	c = sum > 0xFF
	return
}

func aluAdc8(a, b uint8, carryIn bool) (result uint8, z, n, h, c bool) {
	var ci uint16
	if carryIn {
		ci = 1
	}
	sum := uint16(a) + uint16(b) + ci
	result = uint8(sum)
	z = result == 0
	h = (a&0x0F)+(b&0x0F)+uint8(ci) > 0x0F
	c = sum > 0xFF
	return
}

func aluSub8(a, b uint8) (result uint8, z, n, h, c bool) {
	result = a - b
	z = result == 0
	n = true
	h = a&0x0F < b&0x0F
	c = a < b
	return
}

func aluSbc8(a, b uint8, carryIn bool) (result uint8, z, n, h, c bool) {
	var ci uint8
	if carryIn {
		ci = 1
	}
	full := int16(a) - int16(b) - int16(ci)
	result = uint8(full)
	z = result == 0
	n = true
	h = int16(a&0x0F)-int16(b&0x0F)-int16(ci) < 0
	c = full < 0
	return
}

func aluAnd8(a, b uint8) (result uint8, z, n, h, c bool) {
	result = a & b
	return result, result == 0, false, true, false
}

func aluOr8(a, b uint8) (result uint8, z, n, h, c bool) {
	result = a | b
	return result, result == 0, false, false, false
}

func aluXor8(a, b uint8) (result uint8, z, n, h, c bool) {
	result = a ^ b
	return result, result == 0, false, false, false
}

// aluInc8/aluDec8 never touch the carry flag, which the caller must
// preserve from the prior F value.
func aluInc8(a uint8) (result uint8, z, n, h bool) {
	result = a + 1
	return result, result == 0, false, a&0x0F == 0x0F
}

func aluDec8(a uint8) (result uint8, z, n, h bool) {
	result = a - 1
	return result, result == 0, true, a&0x0F == 0
}

func aluAdd16(a, b uint16) (result uint16, h, c bool) {
	result = a + b
	h = (a&0x0FFF)+(b&0x0FFF) > 0x0FFF
	c = uint32(a)+uint32(b) > 0xFFFF
	return
}

// aluAddSPSigned implements ADD SP,e / LD HL,SP+e: the flags come from
// the low-byte addition, per the documented (if surprising) hardware
// behaviour that treats the signed offset's low byte as an 8-bit
// unsigned add for flag purposes.
func aluAddSPSigned(sp uint16, e int8) (result uint16, h, c bool) {
	result = uint16(int32(sp) + int32(e))
	h = (sp&0x0F)+(uint16(uint8(e))&0x0F) > 0x0F
	c = (sp&0xFF)+uint16(uint8(e)) > 0xFF
	return
}
