package cpu

import (
	"fmt"
	"strconv"
)

// Sub-opcode ranges of the extended space.
const (
	EXT_ALU_FIRST = byte(0x80)
	EXT_ALU_LAST  = byte(0x97)
	EXT_SHIFT     = byte(0x98)
	EXT_BITS      = byte(0x99)
)

type extendedEntry struct {
	Mnemonic Mnemonic
	Mode     Mode
	valid    bool
}

var extended = extendedMap()

var extendedList = []struct {
	sub  byte
	mn   Mnemonic
	mode Mode
}{
	{0x00, MUL, MODE_DP}, {0x01, MULU, MODE_DP}, {0x02, MUL, MODE_ABS}, {0x03, MULU, MODE_ABS},
	{0x04, DIV, MODE_DP}, {0x05, DIVU, MODE_DP}, {0x06, DIV, MODE_ABS}, {0x07, DIVU, MODE_ABS},

	{0x10, CAS, MODE_DP}, {0x11, CAS, MODE_ABS},
	{0x12, LLI, MODE_DP}, {0x13, LLI, MODE_ABS},
	{0x14, SCI, MODE_DP}, {0x15, SCI, MODE_ABS},

	{0x20, SVBR, MODE_IMM}, {0x21, SVBR, MODE_DP},
	{0x22, SB, MODE_IMM}, {0x23, SB, MODE_DP},
	{0x24, SD, MODE_IMM}, {0x25, SD, MODE_DP},

	{0x30, RSET, MODE_IMP}, {0x31, RCLR, MODE_IMP},

	{0x40, TRAP, MODE_IMM},
	{0x50, FENCE, MODE_IMP}, {0x51, FENCER, MODE_IMP}, {0x52, FENCEW, MODE_IMP},

	{0x60, SEPE, MODE_IMM}, {0x61, REPE, MODE_IMM},

	{0x70, PHD32, MODE_IMP}, {0x71, PLD32, MODE_IMP},
	{0x72, PHB32, MODE_IMP}, {0x73, PLB32, MODE_IMP},
	{0x74, PHVBR, MODE_IMP}, {0x75, PLVBR, MODE_IMP},

	{0xB0, LDF, MODE_FDP}, {0xB1, LDF, MODE_FABS}, {0xB2, LDF, MODE_FIND}, {0xB3, LDF, MODE_FABS32},
	{0xB4, STF, MODE_FDP}, {0xB5, STF, MODE_FABS}, {0xB6, STF, MODE_FIND}, {0xB7, STF, MODE_FABS32},
	{0xB8, LDFD, MODE_FDP}, {0xB9, LDFD, MODE_FABS}, {0xBA, LDFD, MODE_FIND}, {0xBB, LDFD, MODE_FABS32},
	{0xBC, STFD, MODE_FDP}, {0xBD, STFD, MODE_FABS}, {0xBE, STFD, MODE_FIND}, {0xBF, STFD, MODE_FABS32},

	{0xC0, FADD, MODE_FREG}, {0xC1, FSUB, MODE_FREG}, {0xC2, FMUL, MODE_FREG},
	{0xC3, FDIV, MODE_FREG}, {0xC4, FNEG, MODE_FREG}, {0xC5, FABS, MODE_FREG},
	{0xC6, FSQRT, MODE_FREG}, {0xC7, FCMP, MODE_FREG}, {0xC8, FMOV, MODE_FREG},

	{0xD0, FADDD, MODE_FREG}, {0xD1, FSUBD, MODE_FREG}, {0xD2, FMULD, MODE_FREG},
	{0xD3, FDIVD, MODE_FREG}, {0xD4, FNEGD, MODE_FREG}, {0xD5, FABSD, MODE_FREG},
	{0xD6, FSQRTD, MODE_FREG}, {0xD7, FCMPD, MODE_FREG}, {0xD8, FMOVD, MODE_FREG},

	{0xE0, F2I, MODE_FREG}, {0xE1, I2F, MODE_FREG},
	{0xE2, F2ID, MODE_FREG}, {0xE3, I2FD, MODE_FREG},
	{0xE4, FCVTSD, MODE_FREG}, {0xE5, FCVTDS, MODE_FREG},
}

func extendedMap() (table [256]extendedEntry) {
	for _, entry := range extendedList {
		table[entry.sub] = extendedEntry{Mnemonic: entry.mn, Mode: entry.mode, valid: true}
	}
	return
}

// AluOp describes one operation of the generalized ALU family.
type AluOp struct {
	Mnemonic Mnemonic
	Unary    bool // Operates on the source location alone.
	Memory   bool // May write the source location rather than the target.
}

var aluOps = [EXT_ALU_LAST - EXT_ALU_FIRST + 1]AluOp{
	{LD, false, false},
	{ST, false, true},
	{ADC, false, false},
	{SBC, false, false},
	{AND, false, false},
	{ORA, false, false},
	{EOR, false, false},
	{CMP, false, false},
	{BIT, false, false},
	{TSB, false, true},
	{TRB, false, true},
	{INC, true, true},
	{DEC, true, true},
	{ASL, true, true},
	{LSR, true, true},
	{ROL, true, true},
	{ROR, true, true},
	{NEG, true, true},
	{NOT, true, true},
	{ADD, false, false},
	{SUB, false, false},
	{MIN, false, false},
	{MAX, false, false},
	{SWAP, false, true},
}

// Alu returns the generalized ALU operation for a sub-opcode.
func Alu(sub byte) (op AluOp, ok bool) {
	if sub < EXT_ALU_FIRST || sub > EXT_ALU_LAST {
		return
	}
	return aluOps[sub-EXT_ALU_FIRST], true
}

// AluSub returns the sub-opcode of a generalized ALU mnemonic.
func AluSub(mn Mnemonic) (sub byte, ok bool) {
	for n, op := range aluOps {
		if op.Mnemonic == mn {
			return EXT_ALU_FIRST + byte(n), true
		}
	}
	return
}

// AluSource is the source operand shape of a generalized ALU operation.
type AluSource byte

//go:generate go tool stringer -linecomment -type=AluSource
const (
	SRC_IMM     = AluSource(0)  // #imm
	SRC_DP      = AluSource(1)  // dp
	SRC_DPX     = AluSource(2)  // dp,x
	SRC_DPY     = AluSource(3)  // dp,y
	SRC_ABS     = AluSource(4)  // abs
	SRC_ABSX    = AluSource(5)  // abs,x
	SRC_ABSY    = AluSource(6)  // abs,y
	SRC_ABSL    = AluSource(7)  // long
	SRC_ABSLX   = AluSource(8)  // long,x
	SRC_DPIND   = AluSource(9)  // (dp)
	SRC_DPINDX  = AluSource(10) // (dp,x)
	SRC_DPINDY  = AluSource(11) // (dp),y
	SRC_DPINDL  = AluSource(12) // [dp]
	SRC_DPINDLY = AluSource(13) // [dp],y
	SRC_SR      = AluSource(14) // sr,s
	SRC_SRIY    = AluSource(15) // (sr,s),y
	SRC_ABS32   = AluSource(16) // abs32
	SRC_ABS32X  = AluSource(17) // abs32,x
	SRC_ABS32Y  = AluSource(18) // abs32,y
	SRC_REG     = AluSource(19) // rn
	SRC_A       = AluSource(20) // a
	SRC_X       = AluSource(21) // x
	SRC_Y       = AluSource(22) // y
	SRC_COUNT   = AluSource(23) // count
)

var sourceModes = [SRC_COUNT]Mode{
	SRC_IMM:     MODE_IMM,
	SRC_DP:      MODE_DP,
	SRC_DPX:     MODE_DPX,
	SRC_DPY:     MODE_DPY,
	SRC_ABS:     MODE_ABS,
	SRC_ABSX:    MODE_ABSX,
	SRC_ABSY:    MODE_ABSY,
	SRC_ABSL:    MODE_ABSL,
	SRC_ABSLX:   MODE_ABSLX,
	SRC_DPIND:   MODE_DPIND,
	SRC_DPINDX:  MODE_DPINDX,
	SRC_DPINDY:  MODE_DPINDY,
	SRC_DPINDL:  MODE_DPINDL,
	SRC_DPINDLY: MODE_DPINDLY,
	SRC_SR:      MODE_SR,
	SRC_SRIY:    MODE_SRIY,
	SRC_ABS32:   MODE_ABS32,
	SRC_ABS32X:  MODE_ABS32,
	SRC_ABS32Y:  MODE_ABS32,
	SRC_REG:     MODE_IMP,
	SRC_A:       MODE_ACC,
	SRC_X:       MODE_IMP,
	SRC_Y:       MODE_IMP,
}

// Mode returns the addressing mode whose effective address calculation
// the source uses. Register sources and the 32-bit indexed forms have
// no primary equivalent and report MODE_IMP, MODE_ACC and MODE_ABS32.
func (src AluSource) Mode() Mode {
	if src >= SRC_COUNT {
		return MODE_IMP
	}
	return sourceModes[src]
}

// Memory reports whether the source is a memory location.
func (src AluSource) Memory() bool {
	return src > SRC_IMM && src < SRC_REG
}

// Length is the operand byte count of the source at the given width.
func (src AluSource) Length(width int) int {
	switch src {
	case SRC_IMM:
		return width
	case SRC_ABS32X, SRC_ABS32Y:
		return 4
	case SRC_REG:
		return 1
	case SRC_A, SRC_X, SRC_Y:
		return 0
	}
	return src.Mode().Length(width)
}

// AluSourceFor returns the memory or immediate source shape whose
// address calculation matches mode.
func AluSourceFor(mode Mode) (src AluSource, ok bool) {
	for n := range SRC_REG {
		if sourceModes[n] == mode {
			return n, true
		}
	}
	return
}

// AluMode is the mode byte of a generalized ALU instruction.
type AluMode byte

const (
	ALU_SIZE_8  = AluMode(0 << 6)
	ALU_SIZE_16 = AluMode(1 << 6)
	ALU_SIZE_32 = AluMode(2 << 6)
	ALU_SIZE_M  = AluMode(3 << 6) // Current accumulator width.
	ALU_SIZE    = AluMode(3 << 6)
	ALU_TARGET  = AluMode(1 << 5) // Target is Rn rather than A.
	ALU_SOURCE  = AluMode(0x1F)
)

// NewAluMode builds a mode byte. A size of zero selects the current
// accumulator width.
func NewAluMode(size int, register bool, src AluSource) (am AluMode) {
	switch size {
	case 1:
		am = ALU_SIZE_8
	case 2:
		am = ALU_SIZE_16
	case 4:
		am = ALU_SIZE_32
	default:
		am = ALU_SIZE_M
	}
	if register {
		am |= ALU_TARGET
	}
	am |= AluMode(src) & ALU_SOURCE
	return
}

// Size returns the operand width in bytes under the snapshot.
func (am AluMode) Size(snap Snapshot) int {
	switch am & ALU_SIZE {
	case ALU_SIZE_8:
		return 1
	case ALU_SIZE_16:
		return 2
	case ALU_SIZE_32:
		return 4
	}
	return snap.MWidth()
}

// Register reports whether the target is a window register.
func (am AluMode) Register() bool {
	return am&ALU_TARGET != 0
}

// Source returns the source operand shape.
func (am AluMode) Source() AluSource {
	return AluSource(am & ALU_SOURCE)
}

// Shifter operations, in bits 7:5 of the SHIFT operand byte.
var shiftOps = [...]Mnemonic{SHL, SHR, SAR, ROL, ROR}

// Bit-extend and count operations of the EXTEND sub-opcode.
var bitsOps = [...]Mnemonic{SEXT8, SEXT16, ZEXT8, ZEXT16, CLZ, CTZ, POPCNT}

func shiftIndex(mn Mnemonic) (index byte, ok bool) {
	for n, op := range shiftOps {
		if op == mn {
			return byte(n), true
		}
	}
	return
}

func bitsIndex(mn Mnemonic) (index byte, ok bool) {
	for n, op := range bitsOps {
		if op == mn {
			return byte(n), true
		}
	}
	return
}

// IsShift reports whether the mnemonic belongs to the shifter family.
func IsShift(mn Mnemonic) bool {
	_, ok := shiftIndex(mn)
	return ok
}

// IsBits reports whether the mnemonic belongs to the bit-extend family.
func IsBits(mn Mnemonic) bool {
	_, ok := bitsIndex(mn)
	return ok
}

// Register operand bytes of the shifter, bit-extend and ALU register
// forms: R0-R63, then the accumulator and index registers.
const (
	REG_R0    = byte(0x00)
	REG_COUNT = byte(64)
	REG_A     = byte(0x40)
	REG_X     = byte(0x41)
	REG_Y     = byte(0x42)
)

func validRegister(reg byte) bool {
	return reg < REG_COUNT || reg == REG_A || reg == REG_X || reg == REG_Y
}

// RegisterName is the assembler spelling of a register operand byte.
func RegisterName(reg byte) string {
	switch reg {
	case REG_A:
		return "A"
	case REG_X:
		return "X"
	case REG_Y:
		return "Y"
	}
	return fmt.Sprintf("R%d", reg)
}

// ParseRegister is the inverse of RegisterName; it accepts either case.
func ParseRegister(name string) (reg byte, ok bool) {
	switch name {
	case "A", "a":
		return REG_A, true
	case "X", "x":
		return REG_X, true
	case "Y", "y":
		return REG_Y, true
	}
	if len(name) < 2 || (name[0] != 'R' && name[0] != 'r') {
		return
	}
	n, err := strconv.Atoi(name[1:])
	if err != nil || n < 0 || n >= int(REG_COUNT) || strconv.Itoa(n) != name[1:] {
		return
	}
	return byte(n), true
}
