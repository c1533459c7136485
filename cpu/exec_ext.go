package cpu

import (
	"math/bits"

	"github.com/ezrec/m65832/mmu"
)

func (tx *transaction) executeExtended(ins Instruction) {
	reg := &tx.reg
	supervisor := tx.snap.Supervisor()

	switch ins.Mnemonic {
	case MUL, MULU, DIV, DIVU:
		tx.multiply(ins)
	case CAS:
		w := ins.Size
		loc := tx.address(ins.Mode, ins.Value)
		mem := tx.load(loc, w)
		if mem == reg.X&mask(w) {
			tx.store(loc, w, reg.A)
			tx.setFlag(FLAG_Z, true)
		} else {
			reg.X = mem & mask(tx.snap.XWidth())
			tx.setFlag(FLAG_Z, false)
		}
	case LLI:
		w := ins.Size
		loc := tx.address(ins.Mode, ins.Value)
		v := tx.load(loc, w)
		reg.A = merge(reg.A, v, w)
		tx.setNZ(v, w)
		if !loc.window {
			if pa, ok := tx.translate(loc.addr, mmu.ACCESS_READ); ok {
				tx.reserve = true
				tx.reserveAt = pa
			}
		}
	case SCI:
		w := ins.Size
		loc := tx.address(ins.Mode, ins.Value)
		success := true
		if !loc.window {
			pa, ok := tx.translate(loc.addr, mmu.ACCESS_WRITE)
			success = ok && tx.cpu.port.Reserved(pa)
		}
		if success {
			tx.store(loc, w, reg.A)
		}
		tx.setFlag(FLAG_Z, success)
		tx.unreserve = true

	case SVBR:
		if !supervisor {
			tx.privilege()
			return
		}
		reg.VBR = tx.operand32(ins)
	case SB:
		reg.B = tx.operand32(ins)
	case SD:
		reg.D = tx.operand32(ins)
	case RSET:
		tx.setFlag(FLAG_R, true)
	case RCLR:
		tx.setFlag(FLAG_R, false)
	case TRAP:
		tx.raise(Trap{Vector: VEC_TRAP, Index: byte(ins.Value), Next: true})
	case FENCE, FENCER, FENCEW:
		// Memory accesses already complete in program order.
	case SEPE, REPE:
		b := byte(ins.Value)
		if !supervisor && Status(b)<<8&(FLAG_S|FLAG_E) != 0 {
			tx.privilege()
			return
		}
		high := byte(reg.P >> 8)
		if ins.Mnemonic == SEPE {
			high |= b
		} else {
			high &^= b
		}
		tx.setStatus(reg.P.WithHigh(high))

	case PHD32:
		tx.push(4, reg.D)
	case PLD32:
		reg.D = tx.pull(4)
	case PHB32:
		tx.push(4, reg.B)
	case PLB32:
		reg.B = tx.pull(4)
	case PHVBR:
		if !supervisor {
			tx.privilege()
			return
		}
		tx.push(4, reg.VBR)
	case PLVBR:
		if !supervisor {
			tx.privilege()
			return
		}
		reg.VBR = tx.pull(4)

	default:
		tx.executeFloat(ins)
	}
}

// operand32 reads the 32-bit immediate or direct page operand of the
// base register loads.
func (tx *transaction) operand32(ins Instruction) uint32 {
	if ins.Mode == MODE_IMM {
		return ins.Value
	}
	return tx.load(tx.direct(ins.Value), 4)
}

// multiply leaves the low product or quotient in A and the high product
// or remainder in T.
func (tx *transaction) multiply(ins Instruction) {
	reg := &tx.reg
	w := ins.Size
	m := tx.load(tx.address(ins.Mode, ins.Value), w)
	a := reg.A & mask(w)
	shift := 8 * w

	var lo, hi uint32
	var overflow bool

	switch ins.Mnemonic {
	case MUL:
		p := signExtend(a, w) * signExtend(m, w)
		lo, hi = uint32(p)&mask(w), uint32(p>>shift)&mask(w)
		overflow = p != signExtend(lo, w)
	case MULU:
		p := uint64(a) * uint64(m)
		lo, hi = uint32(p)&mask(w), uint32(p>>shift)&mask(w)
		overflow = hi != 0
	case DIV:
		if m == 0 {
			tx.raise(Trap{Vector: VEC_DIVIDE})
			return
		}
		n, d := signExtend(a, w), signExtend(m, w)
		q := n / d
		lo, hi = uint32(q)&mask(w), uint32(n%d)&mask(w)
		overflow = q != signExtend(lo, w)
	case DIVU:
		if m == 0 {
			tx.raise(Trap{Vector: VEC_DIVIDE})
			return
		}
		lo, hi = a/m, a%m
	}

	reg.A = merge(reg.A, lo, w)
	reg.T = hi
	tx.setNZ(lo, w)
	tx.setFlag(FLAG_V, overflow)
}

// getReg reads a shifter or ALU register operand.
func (tx *transaction) getReg(r byte) uint32 {
	reg := &tx.reg
	switch r {
	case REG_A:
		return reg.A
	case REG_X:
		return reg.X
	case REG_Y:
		return reg.Y
	}
	return reg.R[r%REG_COUNT]
}

// setReg writes width bytes of a register operand. Index registers keep
// their current width.
func (tx *transaction) setReg(r byte, value uint32, width int) {
	reg := &tx.reg
	switch r {
	case REG_A:
		reg.A = merge(reg.A, value, width)
	case REG_X:
		reg.X = merge(reg.X, value, width) & mask(tx.snap.XWidth())
	case REG_Y:
		reg.Y = merge(reg.Y, value, width) & mask(tx.snap.XWidth())
	default:
		reg.R[r%REG_COUNT] = merge(reg.R[r%REG_COUNT], value, width)
	}
}

func (tx *transaction) executeAlu(ins Instruction) {
	reg := &tx.reg
	op, _ := Alu(ins.Opcode)
	w := ins.Size
	src := ins.Alu.Source()

	target := func() uint32 {
		if ins.Alu.Register() {
			return reg.R[ins.Dst%REG_COUNT] & mask(w)
		}
		return reg.A & mask(w)
	}
	setTarget := func(v uint32) {
		if ins.Alu.Register() {
			tx.setReg(ins.Dst, v, w)
		} else {
			tx.setReg(REG_A, v, w)
		}
	}

	var loc location
	switch src {
	case SRC_IMM:
	case SRC_REG, SRC_A, SRC_X, SRC_Y:
	case SRC_ABS32X:
		loc = location{addr: ins.Value + reg.X}
	case SRC_ABS32Y:
		loc = location{addr: ins.Value + reg.Y}
	default:
		loc = tx.address(src.Mode(), ins.Value)
	}

	sourceReg := func() byte {
		switch src {
		case SRC_A:
			return REG_A
		case SRC_X:
			return REG_X
		case SRC_Y:
			return REG_Y
		}
		return byte(ins.Value)
	}
	read := func() uint32 {
		switch {
		case src == SRC_IMM:
			return ins.Value & mask(w)
		case src.Memory():
			return tx.load(loc, w)
		}
		return tx.getReg(sourceReg()) & mask(w)
	}
	write := func(v uint32) {
		if src.Memory() {
			tx.store(loc, w, v)
			return
		}
		tx.setReg(sourceReg(), v, w)
	}
	result := func(v uint32) {
		setTarget(v)
		tx.setNZ(v, w)
	}

	switch op.Mnemonic {
	case LD:
		result(read())
	case ST:
		write(target())
	case ADC:
		setTarget(tx.adc(target(), read(), w))
	case SBC:
		setTarget(tx.sbc(target(), read(), w))
	case AND:
		result(target() & read())
	case ORA:
		result(target() | read())
	case EOR:
		result(target() ^ read())
	case CMP:
		tx.compare(target(), read(), w)
	case BIT:
		tx.bit(target(), read(), w, src == SRC_IMM)
	case TSB, TRB:
		m, t := read(), target()
		tx.setFlag(FLAG_Z, m&t == 0)
		if op.Mnemonic == TSB {
			write(m | t)
		} else {
			write(m &^ t)
		}
	case INC, DEC:
		write(tx.step(op.Mnemonic, read(), w))
	case ASL, LSR, ROL, ROR:
		write(tx.rotate(op.Mnemonic, read(), w))
	case NEG:
		write(tx.sub(0, read(), w))
	case NOT:
		v := ^read() & mask(w)
		tx.setNZ(v, w)
		write(v)
	case ADD:
		setTarget(tx.add(target(), read(), w))
	case SUB:
		setTarget(tx.sub(target(), read(), w))
	case MIN, MAX:
		t, v := target(), read()
		less := signExtend(v, w) < signExtend(t, w)
		if less == (op.Mnemonic == MIN) {
			t = v
		}
		result(t)
	case SWAP:
		t, v := target(), read()
		write(t)
		result(v)
	}
}

func (tx *transaction) executeShift(ins Instruction) {
	v := tx.getReg(ins.Src)
	n := int(ins.Count)
	if n == 0 {
		n = int(tx.reg.A & 31)
	}

	var r uint32
	var carry bool
	switch ins.Mnemonic {
	case SHL:
		r = v << n
		carry = n > 0 && v>>(32-n)&1 != 0
	case SHR:
		r = v >> n
		carry = n > 0 && v>>(n-1)&1 != 0
	case SAR:
		r = uint32(int32(v) >> n)
		carry = n > 0 && v>>(n-1)&1 != 0
	case ROL:
		r = bits.RotateLeft32(v, n)
		carry = n > 0 && r&1 != 0
	case ROR:
		r = bits.RotateLeft32(v, -n)
		carry = n > 0 && r>>31 != 0
	}

	tx.setReg(ins.Dst, r, 4)
	tx.setFlag(FLAG_C, carry)
	tx.setNZ(r, 4)
}

func (tx *transaction) executeBits(ins Instruction) {
	v := tx.getReg(ins.Src)

	var r uint32
	switch ins.Mnemonic {
	case SEXT8:
		r = uint32(int32(int8(v)))
	case SEXT16:
		r = uint32(int32(int16(v)))
	case ZEXT8:
		r = v & 0xFF
	case ZEXT16:
		r = v & 0xFFFF
	case CLZ:
		r = uint32(bits.LeadingZeros32(v))
	case CTZ:
		r = uint32(bits.TrailingZeros32(v))
	case POPCNT:
		r = uint32(bits.OnesCount32(v))
	}

	tx.setReg(ins.Dst, r, 4)
	tx.setNZ(r, 4)
}
