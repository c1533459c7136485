package asm

import (
	"errors"
	"strings"

	"github.com/ezrec/m65832/cpu"
)

var mnemonics = cpu.Mnemonics()

// aluEquivalent names the generalized ALU operation that takes over a
// 65816 mnemonic whose operand needs a 32-bit address.
var aluEquivalent = map[cpu.Mnemonic]cpu.Mnemonic{
	cpu.LDA: cpu.LD,
	cpu.STA: cpu.ST,
}

// primaryName reports whether the mnemonic belongs to the 65816 set.
func primaryName(mn cpu.Mnemonic) bool {
	return mn <= cpu.XCE
}

// instruction builds the instruction for a mnemonic and its operand text.
func (asm *Assembler) instruction(head string, operand string) (ins cpu.Instruction, err error) {
	name, suffix, _ := strings.Cut(strings.ToUpper(head), ".")

	size := 0
	switch suffix {
	case "":
	case "B":
		size = 1
	case "W":
		size = 2
	case "L":
		size = 4
	default:
		err = ErrSizeInvalid
		return
	}

	long := false
	switch name {
	case "JSL":
		name, long = "JSR", true
	case "JML":
		name, long = "JMP", true
	}

	mn, ok := mnemonics[name]
	if !ok || mn == cpu.WDM {
		err = ErrInstructionInvalid
		return
	}

	parts := splitOperands(operand)

	switch {
	case cpu.IsBits(mn):
		return asm.bits(mn, parts)
	case cpu.IsShift(mn) && (len(parts) == 3 || !primaryName(mn)):
		return asm.shift(mn, parts)
	case cpu.Supports(mn, cpu.MODE_FREG):
		return asm.floatRegister(mn, parts)
	case cpu.Supports(mn, cpu.MODE_FDP):
		return asm.floatMemory(mn, parts)
	case asm.isAlu(mn, parts):
		return asm.alu(mn, size, parts)
	}

	return asm.standard(mn, size, long, operand)
}

// isAlu reports whether the generalized ALU form is wanted: always for
// its own mnemonics, and for shared ones when a window register appears.
func (asm *Assembler) isAlu(mn cpu.Mnemonic, parts []string) bool {
	if _, ok := cpu.AluSub(mn); !ok {
		return false
	}
	if !primaryName(mn) {
		return true
	}
	for _, part := range parts {
		if reg, ok := cpu.ParseRegister(part); ok && reg < cpu.REG_COUNT {
			return true
		}
	}
	return false
}

// standard builds a primary or flat extended instruction.
func (asm *Assembler) standard(mn cpu.Mnemonic, size int, long bool, text string) (ins cpu.Instruction, err error) {
	op, err := cpu.ParseOperand(text)
	if err != nil {
		return
	}

	var value uint32
	switch op.Shape {
	case cpu.SHAPE_NONE:
		if mn == cpu.BRK || mn == cpu.COP {
			op.Shape = cpu.SHAPE_IMM
		}
	case cpu.SHAPE_ACC:
	case cpu.SHAPE_PAIR:
		var src, dst uint32
		src, err = asm.evaluate(op.Expr[0])
		if err != nil {
			return
		}
		dst, err = asm.evaluate(op.Expr[1])
		if err != nil {
			return
		}
		if src > 0xFF || dst > 0xFF {
			asm.soft(cpu.ErrOperandRange)
		}
		value = (src&0xFF)<<8 | dst&0xFF
	default:
		value, err = asm.evaluate(op.Expr[0])
		if err != nil {
			return
		}
	}

	// 32-bit addresses are only reachable through the ALU forms.
	if alt, ok := aluEquivalent[mn]; ok || cpu.Supports(mn, cpu.MODE_DP) {
		if !ok {
			alt = mn
		}
		_, isAlu := cpu.AluSub(alt)
		wide := value > 0xFFFFFF && (op.Shape == cpu.SHAPE_ADDR || op.Shape == cpu.SHAPE_ADDR_X)
		wide = wide || value > 0xFFFF && op.Shape == cpu.SHAPE_ADDR_Y
		if isAlu && wide {
			return asm.alu(alt, size, splitOperands(text))
		}
	}

	mode, err := cpu.ResolveMode(mn, op.Shape, value)
	if long {
		switch op.Shape {
		case cpu.SHAPE_ADDR:
			mode, err = cpu.MODE_ABSL, nil
			if value > 0xFFFFFF {
				err = cpu.ErrOperandRange
			}
		case cpu.SHAPE_LONG_IND:
			mode, err = cpu.MODE_ABSINDL, nil
			if value > 0xFFFF {
				err = cpu.ErrOperandRange
			}
		}
	}
	if errors.Is(err, cpu.ErrOperandRange) {
		asm.soft(err)
		err = nil
	}
	if err != nil {
		return
	}

	size = cpu.ResolveWidth(mn, cpu.Snapshot{P: asm.status}, size)

	switch mode {
	case cpu.MODE_REL, cpu.MODE_RELL:
		n := mode.Length(0)
		next := int64(asm.pc) + 1 + int64(n)
		disp := int64(value) - next
		limit := int64(1) << (8*n - 1)
		if disp < -limit || disp >= limit {
			asm.soft(ErrBranchRange)
		}
		value = uint32(disp) & (uint32(1)<<(8*n) - 1)
	case cpu.MODE_IMM:
		if !fits(value, size) {
			asm.soft(cpu.ErrOperandRange)
		}
	}

	form := cpu.FORM_PRIMARY
	if cpu.Lookup(mn, mode)&cpu.OP_EXTENDED != 0 {
		form = cpu.FORM_EXTENDED
	}

	ins = cpu.Instruction{
		Form:     form,
		Opcode:   byte(cpu.Lookup(mn, mode)),
		Mnemonic: mn,
		Mode:     mode,
		Size:     size,
		Value:    value,
	}
	return
}

// alu builds a generalized ALU instruction: [target,]source where the
// target is A or a window register.
func (asm *Assembler) alu(mn cpu.Mnemonic, size int, parts []string) (ins cpu.Instruction, err error) {
	sub, _ := cpu.AluSub(mn)
	op, _ := cpu.Alu(sub)

	register := false
	var dst byte
	if !op.Unary && len(parts) >= 2 {
		reg, ok := cpu.ParseRegister(parts[0])
		if ok && (reg < cpu.REG_COUNT || reg == cpu.REG_A) {
			register = reg != cpu.REG_A
			if register {
				dst = reg
			}
			parts = parts[1:]
		}
	}

	src, value, err := asm.aluSource(strings.Join(parts, ","))
	if err != nil {
		return
	}
	if src == cpu.SRC_IMM && (op.Memory || op.Unary) {
		err = cpu.ErrEncode{Mnemonic: mn, Mode: cpu.MODE_IMM}
		return
	}

	am := cpu.NewAluMode(size, register, src)
	width := am.Size(cpu.Snapshot{P: asm.status})
	if src == cpu.SRC_IMM && !fits(value, width) {
		asm.soft(cpu.ErrOperandRange)
	}

	ins = cpu.Instruction{
		Form:     cpu.FORM_ALU,
		Opcode:   sub,
		Mnemonic: mn,
		Mode:     src.Mode(),
		Size:     width,
		Value:    value,
		Alu:      am,
		Dst:      dst,
	}
	return
}

// aluSource classifies the source operand of an ALU instruction.
func (asm *Assembler) aluSource(text string) (src cpu.AluSource, value uint32, err error) {
	if reg, ok := cpu.ParseRegister(strings.TrimSpace(text)); ok {
		switch reg {
		case cpu.REG_A:
			src = cpu.SRC_A
		case cpu.REG_X:
			src = cpu.SRC_X
		case cpu.REG_Y:
			src = cpu.SRC_Y
		default:
			src, value = cpu.SRC_REG, uint32(reg)
		}
		return
	}

	op, err := cpu.ParseOperand(text)
	if err != nil {
		return
	}
	if op.Shape == cpu.SHAPE_NONE {
		err = ErrOpcodeValueMissing
		return
	}
	if op.Shape == cpu.SHAPE_ACC || op.Shape == cpu.SHAPE_PAIR {
		err = cpu.ErrOperandSyntax
		return
	}

	value, err = asm.evaluate(op.Expr[0])
	if err != nil {
		return
	}

	pick := func(dp, abs, long, abs32 cpu.AluSource) cpu.AluSource {
		switch cpu.PromoteValue(value) {
		case cpu.MODE_DP:
			return dp
		case cpu.MODE_ABS:
			return abs
		case cpu.MODE_ABSL:
			return long
		}
		return abs32
	}

	switch op.Shape {
	case cpu.SHAPE_IMM:
		src = cpu.SRC_IMM
	case cpu.SHAPE_ADDR:
		src = pick(cpu.SRC_DP, cpu.SRC_ABS, cpu.SRC_ABSL, cpu.SRC_ABS32)
	case cpu.SHAPE_ADDR_X:
		src = pick(cpu.SRC_DPX, cpu.SRC_ABSX, cpu.SRC_ABSLX, cpu.SRC_ABS32X)
	case cpu.SHAPE_ADDR_Y:
		src = pick(cpu.SRC_DPY, cpu.SRC_ABSY, cpu.SRC_ABS32Y, cpu.SRC_ABS32Y)
	case cpu.SHAPE_ADDR_S:
		src = cpu.SRC_SR
	case cpu.SHAPE_IND:
		src = cpu.SRC_DPIND
	case cpu.SHAPE_IND_X:
		src = cpu.SRC_DPINDX
	case cpu.SHAPE_IND_Y:
		src = cpu.SRC_DPINDY
	case cpu.SHAPE_IND_S_Y:
		src = cpu.SRC_SRIY
	case cpu.SHAPE_LONG_IND:
		src = cpu.SRC_DPINDL
	case cpu.SHAPE_LONG_IND_Y:
		src = cpu.SRC_DPINDLY
	}

	if n := src.Length(0); n > 0 && n < 4 && uint64(value) >= uint64(1)<<(8*n) {
		asm.soft(cpu.ErrOperandRange)
	}
	return
}

// registers parses window register operands.
func registers(parts []string) (regs []byte, err error) {
	for _, part := range parts {
		reg, ok := cpu.ParseRegister(part)
		if !ok {
			err = errors.Join(cpu.ErrOperandSyntax, errors.New(part))
			return
		}
		regs = append(regs, reg)
	}
	return
}

// shift builds a shifter instruction: dst,src,#count or dst,src,A.
func (asm *Assembler) shift(mn cpu.Mnemonic, parts []string) (ins cpu.Instruction, err error) {
	if len(parts) < 3 {
		err = ErrOpcodeValueMissing
		return
	}
	if len(parts) > 3 {
		err = ErrOpcodeExtraArgs
		return
	}
	regs, err := registers(parts[:2])
	if err != nil {
		return
	}

	var count uint32
	switch {
	case strings.EqualFold(parts[2], "A"):
	case strings.HasPrefix(parts[2], "#"):
		count, err = asm.evaluate(parts[2][1:])
		if err != nil {
			return
		}
		if count == 0 || count > 31 {
			asm.soft(cpu.ErrOperandRange)
		}
	default:
		err = errors.Join(cpu.ErrOperandSyntax, errors.New(parts[2]))
		return
	}

	ins = cpu.Instruction{
		Form:     cpu.FORM_SHIFT,
		Opcode:   cpu.EXT_SHIFT,
		Mnemonic: mn,
		Dst:      regs[0],
		Src:      regs[1],
		Count:    byte(count & 0x1F),
	}
	return
}

// bits builds a bit-extend or count instruction: dst,src.
func (asm *Assembler) bits(mn cpu.Mnemonic, parts []string) (ins cpu.Instruction, err error) {
	if len(parts) < 2 {
		err = ErrOpcodeValueMissing
		return
	}
	if len(parts) > 2 {
		err = ErrOpcodeExtraArgs
		return
	}
	regs, err := registers(parts)
	if err != nil {
		return
	}

	ins = cpu.Instruction{
		Form:     cpu.FORM_BITS,
		Opcode:   cpu.EXT_BITS,
		Mnemonic: mn,
		Dst:      regs[0],
		Src:      regs[1],
	}
	return
}

// floatReg parses F0-F15.
func floatReg(text string) (reg byte, err error) {
	text = strings.ToUpper(strings.TrimSpace(text))
	if len(text) < 2 || text[0] != 'F' {
		err = ErrFloatRegister
		return
	}
	n := 0
	for _, c := range text[1:] {
		if c < '0' || c > '9' {
			err = ErrFloatRegister
			return
		}
		n = n*10 + int(c-'0')
		if n > 15 {
			err = ErrFloatRegister
			return
		}
	}
	if len(text) > 3 || (len(text) == 3 && text[1] == '0') {
		err = ErrFloatRegister
		return
	}
	reg = byte(n)
	return
}

// floatRegister builds a register to register FPU instruction.
func (asm *Assembler) floatRegister(mn cpu.Mnemonic, parts []string) (ins cpu.Instruction, err error) {
	want := 2
	switch mn {
	case cpu.F2I, cpu.F2ID, cpu.I2F, cpu.I2FD:
		want = 1
	}
	if len(parts) < want {
		err = ErrOpcodeValueMissing
		return
	}
	if len(parts) > want {
		err = ErrOpcodeExtraArgs
		return
	}

	var regs []byte
	for _, part := range parts {
		var reg byte
		reg, err = floatReg(part)
		if err != nil {
			return
		}
		regs = append(regs, reg)
	}

	var dst byte
	switch mn {
	case cpu.F2I, cpu.F2ID:
		dst = regs[0]
	case cpu.I2F, cpu.I2FD:
		dst = regs[0] << 4
	default:
		dst = regs[0]<<4 | regs[1]
	}

	ins = cpu.Instruction{
		Form:     cpu.FORM_EXTENDED,
		Mnemonic: mn,
		Mode:     cpu.MODE_FREG,
		Dst:      dst,
	}
	return
}

// floatMemory builds an FPU load or store: Fn,address or Fn,(Rm).
func (asm *Assembler) floatMemory(mn cpu.Mnemonic, parts []string) (ins cpu.Instruction, err error) {
	if len(parts) < 2 {
		err = ErrOpcodeValueMissing
		return
	}
	if len(parts) > 2 {
		err = ErrOpcodeExtraArgs
		return
	}
	reg, err := floatReg(parts[0])
	if err != nil {
		return
	}

	var mode cpu.Mode
	var value uint32
	addr := strings.TrimSpace(parts[1])
	if strings.HasPrefix(addr, "(") && strings.HasSuffix(addr, ")") {
		rn, ok := cpu.ParseRegister(strings.TrimSpace(addr[1 : len(addr)-1]))
		if !ok || rn >= cpu.REG_COUNT {
			err = errors.Join(cpu.ErrOperandSyntax, errors.New(addr))
			return
		}
		mode, value = cpu.MODE_FIND, uint32(rn)
	} else {
		value, err = asm.evaluate(addr)
		if err != nil {
			return
		}
		switch cpu.PromoteValue(value) {
		case cpu.MODE_DP:
			mode = cpu.MODE_FDP
		case cpu.MODE_ABS:
			mode = cpu.MODE_FABS
		default:
			mode = cpu.MODE_FABS32
		}
	}

	ins = cpu.Instruction{
		Form:     cpu.FORM_EXTENDED,
		Mnemonic: mn,
		Mode:     mode,
		Dst:      reg << 4,
		Value:    value,
	}
	return
}
