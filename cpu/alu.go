package cpu

func (tx *transaction) flag(flag Status) bool {
	return tx.reg.P&flag != 0
}

func (tx *transaction) setFlag(flag Status, on bool) {
	if on {
		tx.reg.P |= flag
	} else {
		tx.reg.P &^= flag
	}
}

func (tx *transaction) setNZ(value uint32, width int) {
	tx.setFlag(FLAG_Z, value&mask(width) == 0)
	tx.setFlag(FLAG_N, value&signBit(width) != 0)
}

func (tx *transaction) carry() uint32 {
	if tx.flag(FLAG_C) {
		return 1
	}
	return 0
}

func addBinary(a, b, carry uint32, width int) (result uint32, c, v bool) {
	m := mask(width)
	a, b = a&m, b&m
	sum := uint64(a) + uint64(b) + uint64(carry)
	result = uint32(sum) & m
	c = sum > uint64(m)
	v = (a^result)&(b^result)&signBit(width) != 0
	return
}

func addDecimal(a, b, carry uint32, width int) (result uint32, c, v bool) {
	for n := range 2 * width {
		shift := uint(4 * n)
		d := (a>>shift)&0xF + (b>>shift)&0xF + carry
		carry = 0
		if d > 9 {
			d += 6
		}
		if d > 0xF {
			carry = 1
		}
		result |= (d & 0xF) << shift
	}
	c = carry != 0
	v = (a^result)&(b^result)&signBit(width) != 0
	return
}

func subDecimal(a, b, carry uint32, width int) (result uint32, c, v bool) {
	borrow := 1 - carry
	for n := range 2 * width {
		shift := uint(4 * n)
		d := int((a>>shift)&0xF) - int((b>>shift)&0xF) - int(borrow)
		borrow = 0
		if d < 0 {
			d += 10
			borrow = 1
		}
		result |= uint32(d&0xF) << shift
	}
	c = borrow == 0
	v = (a^b)&(a^result)&signBit(width) != 0
	return
}

// adc adds with carry, in BCD when the decimal flag is set.
func (tx *transaction) adc(a, b uint32, width int) (result uint32) {
	var c, v bool
	if tx.snap.Decimal() {
		result, c, v = addDecimal(a&mask(width), b&mask(width), tx.carry(), width)
	} else {
		result, c, v = addBinary(a, b, tx.carry(), width)
	}
	tx.setFlag(FLAG_C, c)
	tx.setFlag(FLAG_V, v)
	tx.setNZ(result, width)
	return
}

// sbc subtracts with borrow; carry set means no borrow.
func (tx *transaction) sbc(a, b uint32, width int) (result uint32) {
	var c, v bool
	if tx.snap.Decimal() {
		result, c, v = subDecimal(a&mask(width), b&mask(width), tx.carry(), width)
	} else {
		result, c, v = addBinary(a, ^b, tx.carry(), width)
	}
	tx.setFlag(FLAG_C, c)
	tx.setFlag(FLAG_V, v)
	tx.setNZ(result, width)
	return
}

// add and sub ignore the carry input and the decimal flag.
func (tx *transaction) add(a, b uint32, width int) (result uint32) {
	result, c, v := addBinary(a, b, 0, width)
	tx.setFlag(FLAG_C, c)
	tx.setFlag(FLAG_V, v)
	tx.setNZ(result, width)
	return
}

func (tx *transaction) sub(a, b uint32, width int) (result uint32) {
	result, c, v := addBinary(a, ^b, 1, width)
	tx.setFlag(FLAG_C, c)
	tx.setFlag(FLAG_V, v)
	tx.setNZ(result, width)
	return
}

func (tx *transaction) compare(a, b uint32, width int) {
	m := mask(width)
	tx.setFlag(FLAG_C, a&m >= b&m)
	tx.setNZ(a-b, width)
}

// bit tests a against m. Immediate operands only affect Z.
func (tx *transaction) bit(a, m uint32, width int, immediate bool) {
	tx.setFlag(FLAG_Z, a&m&mask(width) == 0)
	if !immediate {
		tx.setFlag(FLAG_N, m&signBit(width) != 0)
		tx.setFlag(FLAG_V, m&(signBit(width)>>1) != 0)
	}
}

// rotate performs the one-bit shifts of ASL, LSR, ROL and ROR.
func (tx *transaction) rotate(mn Mnemonic, value uint32, width int) (result uint32) {
	m := mask(width)
	value &= m
	sign := signBit(width)

	switch mn {
	case ASL:
		tx.setFlag(FLAG_C, value&sign != 0)
		result = value << 1
	case LSR:
		tx.setFlag(FLAG_C, value&1 != 0)
		result = value >> 1
	case ROL:
		result = value<<1 | tx.carry()
		tx.setFlag(FLAG_C, value&sign != 0)
	case ROR:
		result = value>>1 | tx.carry()*sign
		tx.setFlag(FLAG_C, value&1 != 0)
	}

	result &= m
	tx.setNZ(result, width)
	return
}

// step is INC and DEC.
func (tx *transaction) step(mn Mnemonic, value uint32, width int) (result uint32) {
	if mn == INC {
		result = value + 1
	} else {
		result = value - 1
	}
	result &= mask(width)
	tx.setNZ(result, width)
	return
}
