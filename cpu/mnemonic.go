package cpu

// Mnemonic is an instruction mnemonic.
type Mnemonic int

//go:generate go tool stringer -type=Mnemonic
const (
	// 65816 instruction set.
	ADC = Mnemonic(iota)
	AND
	ASL
	BCC
	BCS
	BEQ
	BIT
	BMI
	BNE
	BPL
	BRA
	BRK
	BRL
	BVC
	BVS
	CLC
	CLD
	CLI
	CLV
	CMP
	COP
	CPX
	CPY
	DEC
	DEX
	DEY
	EOR
	INC
	INX
	INY
	JMP
	JSR
	LDA
	LDX
	LDY
	LSR
	MVN
	MVP
	NOP
	ORA
	PEA
	PEI
	PER
	PHA
	PHB
	PHD
	PHK
	PHP
	PHX
	PHY
	PLA
	PLB
	PLD
	PLP
	PLX
	PLY
	REP
	ROL
	ROR
	RTI
	RTL
	RTS
	SBC
	SEC
	SED
	SEI
	SEP
	STA
	STP
	STX
	STY
	STZ
	TAX
	TAY
	TCD
	TCS
	TDC
	TRB
	TSB
	TSC
	TSX
	TXA
	TXS
	TXY
	TYA
	TYX
	WAI
	WDM
	XBA
	XCE

	// Extended flat table.
	MUL
	MULU
	DIV
	DIVU
	CAS
	LLI
	SCI
	SVBR
	SB
	SD
	RSET
	RCLR
	TRAP
	FENCE
	FENCER
	FENCEW
	SEPE
	REPE
	PHD32
	PLD32
	PHB32
	PLB32
	PHVBR
	PLVBR

	// FPU.
	LDF
	STF
	LDFD
	STFD
	FADD
	FSUB
	FMUL
	FDIV
	FNEG
	FABS
	FSQRT
	FCMP
	FMOV
	FADDD
	FSUBD
	FMULD
	FDIVD
	FNEGD
	FABSD
	FSQRTD
	FCMPD
	FMOVD
	F2I
	I2F
	F2ID
	I2FD
	FCVTSD
	FCVTDS

	// Generalized ALU, where not shared with the 65816 names.
	LD
	ST
	NEG
	NOT
	ADD
	SUB
	MIN
	MAX
	SWAP

	// Shifter and bit-extend families.
	SHL
	SHR
	SAR
	SEXT8
	SEXT16
	ZEXT8
	ZEXT16
	CLZ
	CTZ
	POPCNT

	MNEMONIC_COUNT
)

// WidthClass says which status bits govern a mnemonic's operand width.
type WidthClass int

const (
	WIDTH_NONE    = WidthClass(0) // No data operand.
	WIDTH_M       = WidthClass(1) // Accumulator width.
	WIDTH_X       = WidthClass(2) // Index register width.
	WIDTH_FIXED8  = WidthClass(3) // Always one byte.
	WIDTH_FIXED16 = WidthClass(4) // Always two bytes.
	WIDTH_FIXED32 = WidthClass(5) // Always four bytes.
)

var widthClass = map[Mnemonic]WidthClass{
	ADC: WIDTH_M, AND: WIDTH_M, ASL: WIDTH_M, BIT: WIDTH_M, CMP: WIDTH_M,
	DEC: WIDTH_M, EOR: WIDTH_M, INC: WIDTH_M, LDA: WIDTH_M, LSR: WIDTH_M,
	ORA: WIDTH_M, PHA: WIDTH_M, PLA: WIDTH_M, ROL: WIDTH_M, ROR: WIDTH_M,
	SBC: WIDTH_M, STA: WIDTH_M, STZ: WIDTH_M, TRB: WIDTH_M, TSB: WIDTH_M,
	MUL: WIDTH_M, MULU: WIDTH_M, DIV: WIDTH_M, DIVU: WIDTH_M,
	CAS: WIDTH_M, LLI: WIDTH_M, SCI: WIDTH_M,

	CPX: WIDTH_X, CPY: WIDTH_X, LDX: WIDTH_X, LDY: WIDTH_X,
	STX: WIDTH_X, STY: WIDTH_X, PHX: WIDTH_X, PHY: WIDTH_X,
	PLX: WIDTH_X, PLY: WIDTH_X,

	REP: WIDTH_FIXED8, SEP: WIDTH_FIXED8, BRK: WIDTH_FIXED8, COP: WIDTH_FIXED8,
	TRAP: WIDTH_FIXED8, SEPE: WIDTH_FIXED8, REPE: WIDTH_FIXED8,

	PEA: WIDTH_FIXED16, PEI: WIDTH_FIXED16, PER: WIDTH_FIXED16,

	SVBR: WIDTH_FIXED32, SB: WIDTH_FIXED32, SD: WIDTH_FIXED32,
}

// WidthClass returns the width classification of the mnemonic.
func (mn Mnemonic) WidthClass() WidthClass {
	return widthClass[mn]
}

// Branch reports whether the mnemonic is a relative branch.
func (mn Mnemonic) Branch() bool {
	switch mn {
	case BCC, BCS, BEQ, BMI, BNE, BPL, BRA, BRL, BVC, BVS:
		return true
	}
	return false
}

// promotes lists the mnemonics whose direct page form falls back to the
// absolute form when the direct page form does not exist.
var promotes = map[Mnemonic]bool{
	LDA: true, STA: true, ADC: true, SBC: true, AND: true, ORA: true,
	EOR: true, CMP: true, BIT: true, LDX: true, LDY: true, STX: true,
	STY: true, CPX: true, CPY: true, INC: true, DEC: true, ASL: true,
	LSR: true, ROL: true, ROR: true, TSB: true, TRB: true, STZ: true,
	JMP: true, JSR: true,
}

// Promotes reports whether an operand too large for (or missing from) the
// direct page form may use the absolute form instead.
func (mn Mnemonic) Promotes() bool {
	return promotes[mn]
}

// Mnemonics returns the mnemonic for each name, for use by assemblers.
func Mnemonics() map[string]Mnemonic {
	names := make(map[string]Mnemonic, MNEMONIC_COUNT)
	for mn := range MNEMONIC_COUNT {
		names[mn.String()] = mn
	}
	return names
}
