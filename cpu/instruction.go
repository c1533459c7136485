package cpu

import (
	"fmt"
	"strings"
)

// Form says how an instruction is encoded.
type Form int

const (
	FORM_PRIMARY  = Form(0) // Primary map.
	FORM_EXTENDED = Form(1) // Flat extended table after the escape.
	FORM_ALU      = Form(2) // Generalized ALU, $42 $80-$97.
	FORM_SHIFT    = Form(3) // Shifter, $42 $98.
	FORM_BITS     = Form(4) // Bit-extend and count, $42 $99.
	FORM_ILLEGAL  = Form(5) // Undefined extended opcode.
)

// Instruction is a decoded instruction, or one to be encoded.
type Instruction struct {
	Form     Form
	Opcode   byte // Primary opcode, or the sub-opcode after the escape.
	Mnemonic Mnemonic
	Mode     Mode
	Size     int     // Immediate or data width in bytes.
	Value    uint32  // Address, immediate, displacement or block banks.
	Alu      AluMode // FORM_ALU mode byte.
	Dst      byte    // ALU target register, shifter destination, or FPU register pair.
	Src      byte    // Shifter and bit-extend source register.
	Count    byte    // Shift count; zero shifts by A.
	Length   int     // Encoded length in bytes.
}

// Fetch returns the instruction byte at offset from its first byte.
type Fetch func(offset int) byte

func operand(fetch Fetch, offset, n int) (value uint32) {
	for i := range n {
		value |= uint32(fetch(offset+i)) << (8 * i)
	}
	return
}

func appendOperand(code []byte, value uint32, n int) []byte {
	for i := range n {
		code = append(code, byte(value>>(8*i)))
	}
	return code
}

// Decode decodes one instruction under the mode snapshot. An undefined
// extended opcode decodes as FORM_ILLEGAL with length 2 and an
// ErrIllegal error.
func Decode(fetch Fetch, snap Snapshot) (ins Instruction, err error) {
	op := fetch(0)
	if op != ESCAPE {
		entry := primary[op]
		ins.Form = FORM_PRIMARY
		ins.Opcode = op
		ins.Mnemonic = entry.Mnemonic
		ins.Mode = entry.Mode
		ins.Size = ResolveWidth(entry.Mnemonic, snap, 0)
		n := ins.Mode.Length(ins.Size)
		ins.Value = operand(fetch, 1, n)
		ins.Length = 1 + n
		return
	}

	sub := fetch(1)
	ins.Opcode = sub

	switch {
	case sub >= EXT_ALU_FIRST && sub <= EXT_ALU_LAST:
		err = ins.decodeAlu(fetch, snap)
	case sub == EXT_SHIFT:
		ins.Form = FORM_SHIFT
		opcount := fetch(2)
		ins.Dst = fetch(3)
		ins.Src = fetch(4)
		ins.Count = opcount & 0x1F
		ins.Length = 5
		index := int(opcount >> 5)
		if index >= len(shiftOps) || !validRegister(ins.Dst) || !validRegister(ins.Src) {
			err = ErrIllegal{Extended: true, Opcode: sub}
			break
		}
		ins.Mnemonic = shiftOps[index]
	case sub == EXT_BITS:
		ins.Form = FORM_BITS
		index := int(fetch(2))
		ins.Dst = fetch(3)
		ins.Src = fetch(4)
		ins.Length = 5
		if index >= len(bitsOps) || !validRegister(ins.Dst) || !validRegister(ins.Src) {
			err = ErrIllegal{Extended: true, Opcode: sub}
			break
		}
		ins.Mnemonic = bitsOps[index]
	case extended[sub].valid:
		entry := extended[sub]
		ins.Form = FORM_EXTENDED
		ins.Mnemonic = entry.Mnemonic
		ins.Mode = entry.Mode
		ins.Size = ResolveWidth(entry.Mnemonic, snap, 0)
		n := ins.Mode.Length(ins.Size)
		if ins.Mode.Float() {
			ins.Dst = fetch(2)
			ins.Value = operand(fetch, 3, n-1)
			if ins.Mode == MODE_FIND && ins.Value >= uint32(REG_COUNT) {
				err = ErrIllegal{Extended: true, Opcode: sub}
			}
		} else {
			ins.Value = operand(fetch, 2, n)
		}
		ins.Length = 2 + n
	default:
		err = ErrIllegal{Extended: true, Opcode: sub}
	}

	if err != nil {
		ins = Instruction{
			Form:   FORM_ILLEGAL,
			Opcode: sub,
			Length: 2,
		}
	}
	return
}

func (ins *Instruction) decodeAlu(fetch Fetch, snap Snapshot) (err error) {
	op, _ := Alu(ins.Opcode)
	ins.Form = FORM_ALU
	ins.Mnemonic = op.Mnemonic
	ins.Alu = AluMode(fetch(2))
	ins.Size = ins.Alu.Size(snap)

	offset := 3
	if ins.Alu.Register() {
		ins.Dst = fetch(offset)
		offset++
	}

	src := ins.Alu.Source()
	n := src.Length(ins.Size)
	ins.Value = operand(fetch, offset, n)
	ins.Length = offset + n

	switch {
	case src >= SRC_COUNT,
		op.Memory && src == SRC_IMM,
		ins.Alu.Register() && ins.Dst >= REG_COUNT,
		src == SRC_REG && !validRegister(byte(ins.Value)):
		err = ErrIllegal{Extended: true, Opcode: ins.Opcode}
	}
	return
}

// DecodeBytes decodes the instruction at the start of code. Bytes past
// the end of code read as zero.
func DecodeBytes(code []byte, snap Snapshot) (ins Instruction, err error) {
	return Decode(func(offset int) byte {
		if offset < len(code) {
			return code[offset]
		}
		return 0
	}, snap)
}

// Encode returns the machine code of the instruction.
func (ins Instruction) Encode() (code []byte, err error) {
	switch ins.Form {
	case FORM_PRIMARY, FORM_EXTENDED:
		enc := Lookup(ins.Mnemonic, ins.Mode)
		if enc == OP_NONE {
			err = ErrEncode{Mnemonic: ins.Mnemonic, Mode: ins.Mode}
			return
		}
		if enc&OP_EXTENDED != 0 {
			code = []byte{ESCAPE, byte(enc)}
		} else {
			code = []byte{byte(enc)}
		}
		n := ins.Mode.Length(ins.Size)
		if ins.Mode.Float() {
			code = append(code, ins.Dst)
			n--
		}
		code = appendOperand(code, ins.Value, n)
	case FORM_ALU:
		sub, ok := AluSub(ins.Mnemonic)
		if !ok {
			err = ErrEncode{Mnemonic: ins.Mnemonic, Mode: ins.Mode}
			return
		}
		code = []byte{ESCAPE, sub, byte(ins.Alu)}
		if ins.Alu.Register() {
			code = append(code, ins.Dst)
		}
		code = appendOperand(code, ins.Value, ins.Alu.Source().Length(ins.Size))
	case FORM_SHIFT:
		index, ok := shiftIndex(ins.Mnemonic)
		if !ok {
			err = ErrEncode{Mnemonic: ins.Mnemonic, Mode: ins.Mode}
			return
		}
		code = []byte{ESCAPE, EXT_SHIFT, index<<5 | ins.Count&0x1F, ins.Dst, ins.Src}
	case FORM_BITS:
		index, ok := bitsIndex(ins.Mnemonic)
		if !ok {
			err = ErrEncode{Mnemonic: ins.Mnemonic, Mode: ins.Mode}
			return
		}
		code = []byte{ESCAPE, EXT_BITS, index, ins.Dst, ins.Src}
	case FORM_ILLEGAL:
		code = []byte{ESCAPE, ins.Opcode}
	default:
		err = ErrFormInvalid
	}
	return
}

func hex(value uint32, n int) string {
	return fmt.Sprintf("$%0*X", 2*n, value)
}

func sizeSuffix(size int) string {
	switch size {
	case 1:
		return ".B"
	case 2:
		return ".W"
	case 4:
		return ".L"
	}
	return ""
}

// operandText formats an operand of the given mode.
func operandText(mode Mode, value uint32, size int) string {
	n := mode.Length(size)
	v := hex(value, n)
	switch mode {
	case MODE_IMP:
		return ""
	case MODE_ACC:
		return "A"
	case MODE_IMM:
		return "#" + v
	case MODE_DPX, MODE_ABSX, MODE_ABSLX:
		return v + ",X"
	case MODE_DPY, MODE_ABSY:
		return v + ",Y"
	case MODE_DPIND, MODE_ABSIND:
		return "(" + v + ")"
	case MODE_DPINDX, MODE_ABSINDX:
		return "(" + v + ",X)"
	case MODE_DPINDY:
		return "(" + v + "),Y"
	case MODE_DPINDL, MODE_ABSINDL:
		return "[" + v + "]"
	case MODE_DPINDLY:
		return "[" + v + "],Y"
	case MODE_SR:
		return v + ",S"
	case MODE_SRIY:
		return "(" + v + ",S),Y"
	case MODE_BLK:
		return hex(value>>8, 1) + "," + hex(value&0xFF, 1)
	}
	return v
}

func aluSourceText(src AluSource, value uint32, size int) string {
	switch src {
	case SRC_ABS32X:
		return hex(value, 4) + ",X"
	case SRC_ABS32Y:
		return hex(value, 4) + ",Y"
	case SRC_REG:
		return RegisterName(byte(value))
	case SRC_A:
		return "A"
	case SRC_X:
		return "X"
	case SRC_Y:
		return "Y"
	}
	return operandText(src.Mode(), value, size)
}

// Format disassembles the instruction as if located at pc, resolving
// relative branch targets.
func (ins Instruction) Format(pc uint32) string {
	var text string

	switch ins.Form {
	case FORM_ILLEGAL:
		return fmt.Sprintf(".BYTE $%02X,$%02X", ESCAPE, ins.Opcode)
	case FORM_SHIFT:
		count := fmt.Sprintf("#%d", ins.Count)
		if ins.Count == 0 {
			count = "A"
		}
		text = RegisterName(ins.Dst) + "," + RegisterName(ins.Src) + "," + count
	case FORM_BITS:
		text = RegisterName(ins.Dst) + "," + RegisterName(ins.Src)
	case FORM_ALU:
		op, _ := AluSub(ins.Mnemonic)
		alu, _ := Alu(op)
		src := aluSourceText(ins.Alu.Source(), ins.Value, ins.Size)
		if alu.Unary {
			text = src
		} else {
			target := "A"
			if ins.Alu.Register() {
				target = RegisterName(ins.Dst)
			}
			text = target + "," + src
		}
		suffix := sizeSuffix(ins.Size)
		if ins.Alu&ALU_SIZE == ALU_SIZE_M {
			suffix = ""
		}
		return strings.TrimSpace(ins.Mnemonic.String() + suffix + " " + text)
	default:
		switch ins.Mode {
		case MODE_REL, MODE_RELL:
			n := ins.Mode.Length(0)
			disp := int32(ins.Value<<(32-8*n)) >> (32 - 8*n)
			target := pc + uint32(ins.Length) + uint32(disp)
			digits := 2
			if target > 0xFFFF {
				digits = 4
			}
			text = hex(target, digits)
		case MODE_FREG:
			fd, fs := ins.Dst>>4, ins.Dst&0xF
			switch ins.Mnemonic {
			case F2I, F2ID:
				text = fmt.Sprintf("F%d", fs)
			case I2F, I2FD:
				text = fmt.Sprintf("F%d", fd)
			default:
				text = fmt.Sprintf("F%d,F%d", fd, fs)
			}
		case MODE_FDP:
			text = fmt.Sprintf("F%d,%v", ins.Dst>>4, hex(ins.Value, 1))
		case MODE_FABS:
			text = fmt.Sprintf("F%d,%v", ins.Dst>>4, hex(ins.Value, 2))
		case MODE_FIND:
			text = fmt.Sprintf("F%d,(%v)", ins.Dst>>4, RegisterName(byte(ins.Value)))
		case MODE_FABS32:
			text = fmt.Sprintf("F%d,%v", ins.Dst>>4, hex(ins.Value, 4))
		default:
			text = operandText(ins.Mode, ins.Value, ins.Size)
		}
	}

	return strings.TrimSpace(ins.Mnemonic.String() + " " + text)
}

// String disassembles the instruction at address zero.
func (ins Instruction) String() string {
	return ins.Format(0)
}
