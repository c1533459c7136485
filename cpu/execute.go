package cpu

import (
	"github.com/ezrec/m65832/bus"
)

func (tx *transaction) execute(ins Instruction) {
	switch ins.Form {
	case FORM_PRIMARY:
		tx.executePrimary(ins)
	case FORM_EXTENDED:
		tx.executeExtended(ins)
	case FORM_ALU:
		tx.executeAlu(ins)
	case FORM_SHIFT:
		tx.executeShift(ins)
	case FORM_BITS:
		tx.executeBits(ins)
	}
}

// branch returns the target of a relative branch.
func (tx *transaction) branch(ins Instruction) uint32 {
	shift := 32 - 8*ins.Mode.Length(0)
	disp := uint32(int32(ins.Value<<shift) >> shift)
	return tx.advance(tx.next, disp)
}

// jump returns the target of a 16-bit jump within the program bank.
func (tx *transaction) jump(addr uint32) uint32 {
	return tx.next&0xFFFF0000 | addr&0xFFFF
}

// vectorAt reads a jump pointer. Outside wide mode pointers live in bank
// zero and hold a 16-bit address within the program bank.
func (tx *transaction) jumpIndirect(at uint32) uint32 {
	if tx.snap.Wide() {
		return tx.read(bus.CYCLE_DATA, at, 4)
	}
	return tx.jump(tx.read(bus.CYCLE_DATA, at&0xFFFFFF, 2))
}

func (tx *transaction) pushReturn(long bool) {
	ret := tx.next - 1
	switch {
	case tx.snap.Wide():
		tx.push(4, ret)
	case long:
		tx.push(3, tx.next&0xFF0000|ret&0xFFFF)
	default:
		tx.push(2, ret)
	}
}

func (tx *transaction) executePrimary(ins Instruction) {
	reg := &tx.reg
	snap := tx.snap
	mw := snap.MWidth()
	xw := snap.XWidth()
	w := ins.Size

	// Register-width for the D and SP transfers.
	rw := 2
	if snap.Wide() {
		rw = 4
	}

	value := func() uint32 {
		if ins.Mode == MODE_IMM {
			return ins.Value & mask(w)
		}
		return tx.load(tx.address(ins.Mode, ins.Value), w)
	}

	modify := func(op func(uint32) uint32) {
		if ins.Mode == MODE_ACC {
			reg.A = merge(reg.A, op(reg.A&mask(w)), w)
			return
		}
		loc := tx.address(ins.Mode, ins.Value)
		tx.store(loc, w, op(tx.load(loc, w)))
	}

	setA := func(v uint32, width int) {
		reg.A = merge(reg.A, v, width)
		tx.setNZ(v, width)
	}

	setX := func(dst *uint32, v uint32) {
		*dst = v & mask(xw)
		tx.setNZ(v, xw)
	}

	taken := func(cond bool) {
		if cond {
			reg.PC = tx.branch(ins)
		}
	}

	switch ins.Mnemonic {
	case LDA:
		setA(value(), w)
	case LDX:
		setX(&reg.X, value())
	case LDY:
		setX(&reg.Y, value())
	case STA:
		tx.store(tx.address(ins.Mode, ins.Value), w, reg.A)
	case STX:
		tx.store(tx.address(ins.Mode, ins.Value), w, reg.X)
	case STY:
		tx.store(tx.address(ins.Mode, ins.Value), w, reg.Y)
	case STZ:
		tx.store(tx.address(ins.Mode, ins.Value), w, 0)

	case ADC:
		reg.A = merge(reg.A, tx.adc(reg.A, value(), w), w)
	case SBC:
		reg.A = merge(reg.A, tx.sbc(reg.A, value(), w), w)
	case AND:
		setA(reg.A&value(), w)
	case ORA:
		setA(reg.A|value(), w)
	case EOR:
		setA(reg.A^value(), w)
	case CMP:
		tx.compare(reg.A, value(), w)
	case CPX:
		tx.compare(reg.X, value(), w)
	case CPY:
		tx.compare(reg.Y, value(), w)
	case BIT:
		tx.bit(reg.A, value(), w, ins.Mode == MODE_IMM)
	case TSB, TRB:
		loc := tx.address(ins.Mode, ins.Value)
		m := tx.load(loc, w)
		tx.setFlag(FLAG_Z, reg.A&m&mask(w) == 0)
		if ins.Mnemonic == TSB {
			m |= reg.A
		} else {
			m &^= reg.A
		}
		tx.store(loc, w, m)

	case INC, DEC:
		modify(func(v uint32) uint32 { return tx.step(ins.Mnemonic, v, w) })
	case ASL, LSR, ROL, ROR:
		modify(func(v uint32) uint32 { return tx.rotate(ins.Mnemonic, v, w) })
	case INX:
		reg.X = tx.step(INC, reg.X, xw)
	case INY:
		reg.Y = tx.step(INC, reg.Y, xw)
	case DEX:
		reg.X = tx.step(DEC, reg.X, xw)
	case DEY:
		reg.Y = tx.step(DEC, reg.Y, xw)

	case BCC:
		taken(!tx.flag(FLAG_C))
	case BCS:
		taken(tx.flag(FLAG_C))
	case BNE:
		taken(!tx.flag(FLAG_Z))
	case BEQ:
		taken(tx.flag(FLAG_Z))
	case BPL:
		taken(!tx.flag(FLAG_N))
	case BMI:
		taken(tx.flag(FLAG_N))
	case BVC:
		taken(!tx.flag(FLAG_V))
	case BVS:
		taken(tx.flag(FLAG_V))
	case BRA, BRL:
		taken(true)

	case JMP, JSR:
		var target uint32
		switch ins.Mode {
		case MODE_ABS:
			target = tx.jump(ins.Value)
		case MODE_ABSL:
			target = ins.Value
		case MODE_ABSIND:
			target = tx.jumpIndirect(ins.Value)
		case MODE_ABSINDX:
			at := tx.next&0xFF0000 | (ins.Value+reg.X)&0xFFFF
			if snap.Wide() {
				at = ins.Value + reg.X
			}
			target = tx.jumpIndirect(at)
		case MODE_ABSINDL:
			target = tx.read(bus.CYCLE_DATA, ins.Value, 3)
		}
		if ins.Mnemonic == JSR {
			tx.pushReturn(ins.Mode == MODE_ABSL)
		}
		reg.PC = target
	case RTS:
		if snap.Wide() {
			reg.PC = tx.pull(4) + 1
		} else {
			reg.PC = tx.jump(tx.pull(2) + 1)
		}
	case RTL:
		if snap.Wide() {
			reg.PC = tx.pull(4) + 1
		} else {
			ret := tx.pull(3)
			reg.PC = ret&0xFF0000 | (ret+1)&0xFFFF
		}
	case RTI:
		tx.rti()
	case BRK:
		tx.raise(Trap{Vector: VEC_BRK, Next: true})
	case COP:
		tx.raise(Trap{Vector: VEC_COP, Next: true})

	case CLC:
		tx.setFlag(FLAG_C, false)
	case SEC:
		tx.setFlag(FLAG_C, true)
	case CLD:
		tx.setFlag(FLAG_D, false)
	case SED:
		tx.setFlag(FLAG_D, true)
	case CLI:
		tx.setFlag(FLAG_I, false)
	case SEI:
		tx.setFlag(FLAG_I, true)
	case CLV:
		tx.setFlag(FLAG_V, false)
	case REP:
		tx.setStatus(reg.P.WithLow(reg.P.Low() &^ byte(ins.Value)))
	case SEP:
		tx.setStatus(reg.P.WithLow(reg.P.Low() | byte(ins.Value)))
	case XCE:
		// User code runs native; an emulation frame cannot restore S.
		if !snap.Supervisor() && reg.P&FLAG_C != 0 {
			tx.privilege()
			return
		}
		p := reg.P &^ (FLAG_C | FLAG_E)
		if reg.P&FLAG_C != 0 {
			p |= FLAG_E
		}
		if reg.P&FLAG_E != 0 {
			p |= FLAG_C
		}
		tx.setStatus(p)

	case TAX:
		setX(&reg.X, reg.A)
	case TAY:
		setX(&reg.Y, reg.A)
	case TXY:
		setX(&reg.Y, reg.X)
	case TYX:
		setX(&reg.X, reg.Y)
	case TSX:
		setX(&reg.X, reg.SP)
	case TXA:
		setA(reg.X, mw)
	case TYA:
		setA(reg.Y, mw)
	case TXS:
		reg.SP = reg.X
		tx.moveSP(0)
	case TCS:
		reg.SP = reg.A & mask(rw)
		tx.moveSP(0)
	case TSC:
		setA(reg.SP, rw)
	case TCD:
		reg.D = reg.A & mask(rw)
		tx.setNZ(reg.D, rw)
	case TDC:
		setA(reg.D, rw)
	case XBA:
		lo, hi := reg.A&0xFF, (reg.A>>8)&0xFF
		reg.A = reg.A&^0xFFFF | lo<<8 | hi
		tx.setNZ(hi, 1)

	case PHA:
		tx.push(mw, reg.A)
	case PHX:
		tx.push(xw, reg.X)
	case PHY:
		tx.push(xw, reg.Y)
	case PHB:
		tx.push(1, reg.B)
	case PHD:
		tx.push(2, reg.D)
	case PHK:
		tx.push(1, reg.PC>>16)
	case PHP:
		tx.push(1, uint32(reg.P.Low()))
	case PLA:
		setA(tx.pull(mw), mw)
	case PLX:
		setX(&reg.X, tx.pull(xw))
	case PLY:
		setX(&reg.Y, tx.pull(xw))
	case PLB:
		v := tx.pull(1)
		reg.B = merge(reg.B, v, 1)
		tx.setNZ(v, 1)
	case PLD:
		v := tx.pull(2)
		reg.D = merge(reg.D, v, 2)
		tx.setNZ(v, 2)
	case PLP:
		tx.setStatus(reg.P.WithLow(byte(tx.pull(1))))
	case PEA:
		tx.push(2, ins.Value)
	case PEI:
		tx.push(2, tx.load(tx.direct(ins.Value), 2))
	case PER:
		tx.push(2, tx.branch(ins))

	case MVN, MVP:
		tx.blockMove(ins)

	case WAI:
		tx.wait = true
	case STP:
		if !snap.Supervisor() {
			tx.privilege()
			return
		}
		tx.stop = true
	case NOP, WDM:
	}
}

// blockMove moves one byte per step and repeats the instruction until
// the count in A underflows.
func (tx *transaction) blockMove(ins Instruction) {
	reg := &tx.reg
	xw := tx.snap.XWidth()
	dst, src := ins.Value&0xFF, (ins.Value>>8)&0xFF

	from, to := src<<16|reg.X&0xFFFF, dst<<16|reg.Y&0xFFFF
	cw := 2
	if tx.snap.Wide() {
		from, to = reg.X, reg.Y
		cw = 4
	}

	tx.write(to, 1, tx.read(bus.CYCLE_DATA, from, 1))

	delta := uint32(1)
	if ins.Mnemonic == MVP {
		delta = ^uint32(0)
	}
	reg.X = (reg.X + delta) & mask(xw)
	reg.Y = (reg.Y + delta) & mask(xw)
	reg.B = merge(reg.B, dst, 1)
	reg.A = merge(reg.A, reg.A-1, cw)

	if reg.A&mask(cw) != mask(cw) {
		reg.PC = tx.pc
	}
}
