package asm

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezrec/m65832/cpu"
)

func assemble(t *testing.T, program ...string) (prog *Program) {
	asm := &Assembler{}
	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	require.NoError(t, err)
	return
}

func codeEqual(t *testing.T, expected [][]byte, prog *Program) {
	assert := assert.New(t)

	assert.Equal(len(expected), len(prog.Statements))
	if len(expected) == len(prog.Statements) {
		for n := range len(expected) {
			assert.Equal(expected[n], prog.Statements[n].Code, prog.Statements[n].Words)
		}
	}
}

func TestAssembler(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog, err := asm.Parse(strings.NewReader(""))
	assert.NoError(err)
	assert.Equal(0, len(prog.Statements))
	assert.Equal("0", asm.Equate["LINENO"])
}

func TestAssemblerBasic(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t,
		".org $1000",
		"start: LDA #$12  ; emulation mode",
		"STA $20",
		"STA $1234",
		"LDA $123456",
		"loop: DEX",
		"BNE loop",
		"JMP start",
	)

	codeEqual(t, [][]byte{
		{0xA9, 0x12},
		{0x85, 0x20},
		{0x8D, 0x34, 0x12},
		{0xAF, 0x56, 0x34, 0x12},
		{0xCA},
		{0xD0, 0xFD},
		{0x4C, 0x00, 0x10},
	}, prog)

	assert.Equal(uint32(0x1000), prog.Labels["start"])
	assert.Equal(uint32(0x100B), prog.Labels["loop"])
	assert.Equal(17, prog.Size())
	assert.Equal(2, prog.Statements[0].LineNo)
	assert.Equal([]string{"LDA", "#$12"}, prog.Statements[0].Words)
}

func TestAssemblerWidths(t *testing.T) {
	prog := assemble(t,
		"CLC",
		"XCE",
		"REP #$30",
		"LDA #$1234",
		"LDX #$5678",
		"SEP #$20",
		"LDA #$12",
		"SEPE #$03",
		"LDA #$12345678",
		"LDY #-1",
		".a16",
		"LDA.B #1",
		"LDA #$4321",
	)

	codeEqual(t, [][]byte{
		{0x18},
		{0xFB},
		{0xC2, 0x30},
		{0xA9, 0x34, 0x12},
		{0xA2, 0x78, 0x56},
		{0xE2, 0x20},
		{0xA9, 0x12},
		{0x42, 0x60, 0x03},
		{0xA9, 0x78, 0x56, 0x34, 0x12},
		{0xA0, 0xFF, 0xFF, 0xFF, 0xFF},
		{0xA9, 0x01},
		{0xA9, 0x21, 0x43},
	}, prog)
}

func TestAssemblerExtended(t *testing.T) {
	prog := assemble(t,
		".a32",
		".i32",
		"LD R3,#$12345678",
		"ADD.W R1,$1234",
		"LDA $FFFFF000",
		"INC R4",
		"ST R2,$10",
		"SHL R1,R2,#4",
		"ROR R5,R6,A",
		"CLZ R3,R2",
		"MUL $10",
		"LDF F1,$3000",
		"FADD F1,F2",
		"LDF F2,(R5)",
		"F2I F3",
		"TRAP #3",
		"FENCE",
	)

	codeEqual(t, [][]byte{
		{0x42, 0x80, 0xE0, 0x03, 0x78, 0x56, 0x34, 0x12},
		{0x42, 0x93, 0x64, 0x01, 0x34, 0x12},
		{0x42, 0x80, 0xD0, 0x00, 0xF0, 0xFF, 0xFF},
		{0x42, 0x8B, 0xD3, 0x04},
		{0x42, 0x81, 0xE1, 0x02, 0x10},
		{0x42, 0x98, 0x04, 0x01, 0x02},
		{0x42, 0x98, 0x80, 0x05, 0x06},
		{0x42, 0x99, 0x04, 0x03, 0x02},
		{0x42, 0x00, 0x10},
		{0x42, 0xB1, 0x10, 0x00, 0x30},
		{0x42, 0xC0, 0x12},
		{0x42, 0xB2, 0x20, 0x05},
		{0x42, 0xE0, 0x03},
		{0x42, 0x40, 0x03},
		{0x42, 0x50},
	}, prog)
}

func TestAssemblerData(t *testing.T) {
	prog := assemble(t,
		".org $FFFC",
		".word $1234",
		".byte 'A', '\\n', %101",
		".long $(2 * 8)",
		".ascii \"hi\"",
	)

	codeEqual(t, [][]byte{
		{0x34, 0x12},
		{0x41, 0x0A, 0x05},
		{0x10, 0x00, 0x00, 0x00},
		{'h', 'i'},
	}, prog)
}

func TestAssemblerEqu(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	asm.Predefine("UART_BASE", "$FFFFF100")
	program := []string{
		".equ CONST_10 $10",
		"LDA #CONST_10",
		"LDA #$(CONST_10 + CONST_10)",
		".equ CONST_30 $(2 * CONST_10 + CONST_10)",
		"LDA #CONST_30",
		"LDA #$(LINENO * 8)",
		".equ PTR R7",
		"LD PTR,UART_BASE",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(errors.Unwrap(err))
	}

	codeEqual(t, [][]byte{
		{0xA9, 0x10},
		{0xA9, 0x20},
		{0xA9, 0x30},
		{0xA9, 0x30},
		{0x42, 0x80, 0xF0, 0x07, 0x00, 0xF1, 0xFF, 0xFF},
	}, prog)
}

func TestAssemblerMacro(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t,
		".macro STORE value addr",
		"LDA #value",
		"STA addr",
		".endm",
		".macro DELAY count",
		"LDX #count",
		"@loop: DEX",
		"BNE @loop",
		".endm",
		".equ CONST $10",
		".org $2000",
		"STORE CONST $20",
		"STORE $(CONST * 2) $30",
		"DELAY 5",
		"DELAY 6",
	)

	codeEqual(t, [][]byte{
		{0xA9, 0x10},
		{0x85, 0x20},
		{0xA9, 0x20},
		{0x85, 0x30},
		{0xA2, 0x05},
		{0xCA},
		{0xD0, 0xFD},
		{0xA2, 0x06},
		{0xCA},
		{0xD0, 0xFD},
	}, prog)

	assert.Equal(uint32(0x200A), prog.Labels["DELAY_14_loop"])
	assert.Equal(uint32(0x200F), prog.Labels["DELAY_15_loop"])
}

func TestAssemblerLabel(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t,
		".org $1000",
		"JMP later",
		"BRA later",
		"NOP",
		"later: also:",
		"RTS",
		"JSL far",
		"JSR later",
		"BRL $1000",
		".org $12000",
		"far: RTL",
	)

	codeEqual(t, [][]byte{
		{0x4C, 0x06, 0x10},
		{0x80, 0x01},
		{0xEA},
		{0x60},
		{0x22, 0x00, 0x20, 0x01},
		{0x20, 0x06, 0x10},
		{0x82, 0xEF, 0xFF},
		{0x6B},
	}, prog)

	assert.Equal(uint32(0x1006), prog.Labels["also"])
	assert.Equal(uint32(0x12000), prog.Labels["far"])
}

func TestAssemblerGrowingLabel(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t,
		"LDA data",
		"after: NOP",
		".org $12345",
		"data: .byte 1",
	)

	codeEqual(t, [][]byte{
		{0xAF, 0x45, 0x23, 0x01},
		{0xEA},
		{0x01},
	}, prog)
	assert.Equal(uint32(4), prog.Labels["after"])
}

func TestAssemblerBlockMove(t *testing.T) {
	prog := assemble(t,
		"MVN $01,$02",
		"MVP 3,4",
		"BRK",
		"COP #$55",
	)

	codeEqual(t, [][]byte{
		{0x54, 0x02, 0x01},
		{0x44, 0x04, 0x03},
		{0x00, 0x00},
		{0x02, 0x55},
	}, prog)
}

func TestAssemblerRoundTrip(t *testing.T) {
	assert := assert.New(t)

	source := []string{
		"LDA ($10),Y",
		"LDA [$10],Y",
		"LDA ($10,X)",
		"LDA $03,S",
		"LDA ($03,S),Y",
		"LDA $1234,X",
		"LDA $123456,X",
		"JMP ($1234)",
		"JMP ($1234,X)",
		"JML [$1234]",
		"PEA $1234",
		"ROL A",
	}

	prog := assemble(t, source...)
	assert.Equal(len(source), len(prog.Statements))

	for n, st := range prog.Statements {
		ins, err := cpu.DecodeBytes(st.Code, cpu.Snapshot{P: RESET_STATUS})
		assert.NoError(err)
		assert.Equal(len(st.Code), ins.Length, source[n])
		formatted := strings.ToUpper(ins.Format(st.Addr))
		again := assemble(t, formatted)
		assert.Equal(st.Code, again.Statements[0].Code, formatted)
	}
}

func TestAssemblerErrSyntax(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	// Various syntax errors
	table := [](struct {
		prog string
		line int
		err  error
	}){
		{"DUP:\nDUP:\n", 2, ErrLabelDuplicate},
		{"LDA #$(\"aaa\")", 1, nil},
		{"LDA #$(0x10000000000000000)", 1, nil},
		{".equ", 1, ErrEquateSyntax},
		{".equ A", 1, ErrEquateSyntax},
		{".equ A 1\n.equ A 2\n", 2, ErrEquateDuplicate},
		{".macro A B C\n.endm\nA 1\n", 3, ErrMacroSyntax},
		{".macro A B\n.macro C\n.endm\n.endm", 2, ErrMacroNesting},
		{".macro A B\n.endm\n.macro A\n.endm\n", 3, ErrMacroDuplicate},
		{".macro A B\n.endm\n.endm\n", 3, ErrMacroLonelyEndm},
		{".macro A\nNOP\n", 2, ErrMacroLonely},
		{".macro A B\nLDA B\n.endm\nNOP\nA #$1234\n", 5, cpu.ErrOperandRange},
		{"FOO #1", 1, ErrInstructionInvalid},
		{"LDA.Q #1", 1, ErrSizeInvalid},
		{"NOP\nLDA #$123", 2, cpu.ErrOperandRange},
		{"LDA ($1234),Y", 1, cpu.ErrOperandRange},
		{"SHL R1,R2", 1, ErrOpcodeValueMissing},
		{"SHL R1,R2,#1,#2", 1, ErrOpcodeExtraArgs},
		{"SHL R1,Q2,#1", 1, cpu.ErrOperandSyntax},
		{"CLZ R1", 1, ErrOpcodeValueMissing},
		{"LDF F16,$10", 1, ErrFloatRegister},
		{"FADD F1", 1, ErrOpcodeValueMissing},
		{".bogus", 1, ErrDirectiveInvalid},
		{".ascii hi", 1, ErrDirectiveInvalid},
		{"BRA nowhere", 1, ErrLabelMissing("nowhere")},
		{"start: BRA target\n.org $200\ntarget: NOP", 1, ErrBranchRange},
		{"STA #1", 1, cpu.ErrModeUnsupported},
		{"ST R1,#5", 1, cpu.ErrModeUnsupported},
		{"LDA", 1, cpu.ErrModeUnsupported},
		{".byte", 1, ErrOpcodeValueMissing},
	}

	for _, entry := range table {
		_, err := asm.Parse(strings.NewReader(entry.prog))
		var se *ErrSyntax
		assert.NotNil(err, entry.prog)
		if err != nil {
			assert.True(errors.As(err, &se), entry.prog)
			assert.Equal(entry.line, se.LineNo, entry.prog)
			if entry.err != nil {
				assert.ErrorIs(err, entry.err, entry.prog)
			}
		}
	}
}
