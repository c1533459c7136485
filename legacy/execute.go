package legacy

import (
	"github.com/ezrec/m65832/cpu"
)

// address returns the effective address of a memory operand. The program
// counter already points at the next instruction.
func (c *Coprocessor) address(ins cpu.Instruction) (addr uint16) {
	v := uint16(ins.Value)

	switch ins.Mode {
	case cpu.MODE_DP:
		addr = v & 0xFF
	case cpu.MODE_DPX:
		addr = uint16(byte(v) + c.X)
	case cpu.MODE_DPY:
		addr = uint16(byte(v) + c.Y)
	case cpu.MODE_ABS:
		addr = v
	case cpu.MODE_ABSX:
		addr = v + uint16(c.X)
	case cpu.MODE_ABSY:
		addr = v + uint16(c.Y)
	case cpu.MODE_DPINDX:
		addr = c.word(uint16(byte(v) + c.X))
	case cpu.MODE_DPINDY:
		addr = c.word(v&0xFF) + uint16(c.Y)
	case cpu.MODE_ABSIND:
		// JMP ($xxFF) takes its high byte from $xx00.
		addr = c.word(v)
	case cpu.MODE_REL:
		addr = c.PC + uint16(int8(byte(v)))
	}

	return
}

func (c *Coprocessor) load(ins cpu.Instruction) byte {
	switch ins.Mode {
	case cpu.MODE_IMM:
		return byte(ins.Value)
	case cpu.MODE_ACC:
		return c.A
	}
	return c.read(c.address(ins))
}

// modify is a read-modify-write on the accumulator or memory.
func (c *Coprocessor) modify(ins cpu.Instruction, op func(v byte) byte) {
	if ins.Mode == cpu.MODE_ACC {
		c.A = op(c.A)
		c.setNZ(c.A)
		return
	}

	addr := c.address(ins)
	v := op(c.read(addr))
	c.write(addr, v)
	c.setNZ(v)
}

func (c *Coprocessor) flag(fl byte, on bool) {
	if on {
		c.P |= fl
	} else {
		c.P &^= fl
	}
}

func (c *Coprocessor) setNZ(v byte) {
	c.flag(FLAG_Z, v == 0)
	c.flag(FLAG_N, v&0x80 != 0)
}

func (c *Coprocessor) carry() uint32 {
	return uint32(c.P & FLAG_C)
}

func (c *Coprocessor) compare(reg, v byte) {
	c.flag(FLAG_C, reg >= v)
	c.setNZ(reg - v)
}

func (c *Coprocessor) branch(ins cpu.Instruction, taken bool) {
	if taken {
		c.PC = c.address(ins)
	}
}

func (c *Coprocessor) adc(add uint32) {
	acc := uint32(c.A)
	var v uint32

	if c.P&FLAG_D != 0 {
		lo := (acc & 0x0F) + (add & 0x0F) + c.carry()
		var carrylo uint32
		if lo >= 0x0A {
			carrylo = 0x10
			lo -= 0x0A
		}

		hi := (acc & 0xF0) + (add & 0xF0) + carrylo
		c.flag(FLAG_C, hi >= 0xA0)
		if hi >= 0xA0 {
			hi -= 0xA0
		}

		v = hi | lo
		c.flag(FLAG_V, (acc^v)&0x80 != 0 && (acc^add)&0x80 == 0)
	} else {
		v = acc + add + c.carry()
		c.flag(FLAG_C, v >= 0x100)
		c.flag(FLAG_V, (acc^v)&(add^v)&0x80 != 0)
	}

	c.A = byte(v)
	c.setNZ(c.A)
}

func (c *Coprocessor) sbc(sub uint32) {
	acc := uint32(c.A)
	var v uint32

	if c.P&FLAG_D != 0 {
		lo := 0x0F + (acc & 0x0F) - (sub & 0x0F) + c.carry()
		var carrylo uint32
		if lo < 0x10 {
			lo -= 0x06
		} else {
			lo -= 0x10
			carrylo = 0x10
		}

		hi := 0xF0 + (acc & 0xF0) - (sub & 0xF0) + carrylo
		if hi < 0x100 {
			c.flag(FLAG_C, false)
			hi -= 0x60
		} else {
			c.flag(FLAG_C, true)
			hi -= 0x100
		}

		v = (hi | lo) & 0xFF
		c.flag(FLAG_V, (acc^v)&0x80 != 0 && (acc^sub)&0x80 != 0)
	} else {
		v = 0xFF + acc - sub + c.carry()
		c.flag(FLAG_C, v >= 0x100)
		c.flag(FLAG_V, (acc^sub)&(acc^v)&0x80 != 0)
	}

	c.A = byte(v)
	c.setNZ(c.A)
}

// execute runs one documented NMOS instruction.
func (c *Coprocessor) execute(ins cpu.Instruction) {
	switch ins.Mnemonic {
	case cpu.LDA:
		c.A = c.load(ins)
		c.setNZ(c.A)
	case cpu.LDX:
		c.X = c.load(ins)
		c.setNZ(c.X)
	case cpu.LDY:
		c.Y = c.load(ins)
		c.setNZ(c.Y)
	case cpu.STA:
		c.write(c.address(ins), c.A)
	case cpu.STX:
		c.write(c.address(ins), c.X)
	case cpu.STY:
		c.write(c.address(ins), c.Y)

	case cpu.ADC:
		c.adc(uint32(c.load(ins)))
	case cpu.SBC:
		c.sbc(uint32(c.load(ins)))
	case cpu.AND:
		c.A &= c.load(ins)
		c.setNZ(c.A)
	case cpu.ORA:
		c.A |= c.load(ins)
		c.setNZ(c.A)
	case cpu.EOR:
		c.A ^= c.load(ins)
		c.setNZ(c.A)
	case cpu.CMP:
		c.compare(c.A, c.load(ins))
	case cpu.CPX:
		c.compare(c.X, c.load(ins))
	case cpu.CPY:
		c.compare(c.Y, c.load(ins))
	case cpu.BIT:
		v := c.load(ins)
		c.flag(FLAG_Z, c.A&v == 0)
		c.flag(FLAG_N, v&0x80 != 0)
		c.flag(FLAG_V, v&0x40 != 0)

	case cpu.ASL:
		c.modify(ins, func(v byte) byte {
			c.flag(FLAG_C, v&0x80 != 0)
			return v << 1
		})
	case cpu.LSR:
		c.modify(ins, func(v byte) byte {
			c.flag(FLAG_C, v&0x01 != 0)
			return v >> 1
		})
	case cpu.ROL:
		c.modify(ins, func(v byte) byte {
			in := c.P & FLAG_C
			c.flag(FLAG_C, v&0x80 != 0)
			return v<<1 | in
		})
	case cpu.ROR:
		c.modify(ins, func(v byte) byte {
			in := (c.P & FLAG_C) << 7
			c.flag(FLAG_C, v&0x01 != 0)
			return v>>1 | in
		})
	case cpu.INC:
		c.modify(ins, func(v byte) byte { return v + 1 })
	case cpu.DEC:
		c.modify(ins, func(v byte) byte { return v - 1 })
	case cpu.INX:
		c.X++
		c.setNZ(c.X)
	case cpu.INY:
		c.Y++
		c.setNZ(c.Y)
	case cpu.DEX:
		c.X--
		c.setNZ(c.X)
	case cpu.DEY:
		c.Y--
		c.setNZ(c.Y)

	case cpu.BCC:
		c.branch(ins, c.P&FLAG_C == 0)
	case cpu.BCS:
		c.branch(ins, c.P&FLAG_C != 0)
	case cpu.BNE:
		c.branch(ins, c.P&FLAG_Z == 0)
	case cpu.BEQ:
		c.branch(ins, c.P&FLAG_Z != 0)
	case cpu.BPL:
		c.branch(ins, c.P&FLAG_N == 0)
	case cpu.BMI:
		c.branch(ins, c.P&FLAG_N != 0)
	case cpu.BVC:
		c.branch(ins, c.P&FLAG_V == 0)
	case cpu.BVS:
		c.branch(ins, c.P&FLAG_V != 0)

	case cpu.JMP:
		c.PC = c.address(ins)
	case cpu.JSR:
		c.push16(c.PC - 1)
		c.PC = c.address(ins)
	case cpu.RTS:
		c.PC = c.pull16() + 1
	case cpu.RTI:
		c.P = c.pull()&^FLAG_B | FLAG_U
		c.PC = c.pull16()
	case cpu.BRK:
		c.interrupt(true, VEC_IRQ)

	case cpu.PHA:
		c.push(c.A)
	case cpu.PHP:
		c.push(c.P | FLAG_B | FLAG_U)
	case cpu.PLA:
		c.A = c.pull()
		c.setNZ(c.A)
	case cpu.PLP:
		c.P = c.pull()&^FLAG_B | FLAG_U

	case cpu.CLC:
		c.flag(FLAG_C, false)
	case cpu.SEC:
		c.flag(FLAG_C, true)
	case cpu.CLI:
		c.flag(FLAG_I, false)
	case cpu.SEI:
		c.flag(FLAG_I, true)
	case cpu.CLD:
		c.flag(FLAG_D, false)
	case cpu.SED:
		c.flag(FLAG_D, true)
	case cpu.CLV:
		c.flag(FLAG_V, false)

	case cpu.TAX:
		c.X = c.A
		c.setNZ(c.X)
	case cpu.TAY:
		c.Y = c.A
		c.setNZ(c.Y)
	case cpu.TXA:
		c.A = c.X
		c.setNZ(c.A)
	case cpu.TYA:
		c.A = c.Y
		c.setNZ(c.A)
	case cpu.TSX:
		c.X = c.SP
		c.setNZ(c.X)
	case cpu.TXS:
		c.SP = c.X

	case cpu.NOP:
	}
}
