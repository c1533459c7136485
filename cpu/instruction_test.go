package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInstruction_RoundTrip(t *testing.T) {
	assert := assert.New(t)

	wide := Snapshot{P: FLAG_M32 | FLAG_X32}

	table := [...]Instruction{
		{Form: FORM_PRIMARY, Mnemonic: LDA, Mode: MODE_IMM, Size: 4, Value: 0x12345678},
		{Form: FORM_PRIMARY, Mnemonic: JMP, Mode: MODE_ABSL, Value: 0x123456},
		{Form: FORM_PRIMARY, Mnemonic: MVN, Mode: MODE_BLK, Value: 0x0102},
		{Form: FORM_EXTENDED, Mnemonic: MUL, Mode: MODE_DP, Size: 4, Value: 0x10},
		{Form: FORM_EXTENDED, Mnemonic: SVBR, Mode: MODE_IMM, Size: 4, Value: 0x8000},
		{Form: FORM_EXTENDED, Mnemonic: TRAP, Mode: MODE_IMM, Size: 1, Value: 0x21},
		{Form: FORM_EXTENDED, Mnemonic: LDF, Mode: MODE_FABS32, Dst: 0x30, Value: 0x12345678},
		{Form: FORM_EXTENDED, Mnemonic: STFD, Mode: MODE_FIND, Dst: 0x70, Value: 9},
		{Form: FORM_EXTENDED, Mnemonic: FADD, Mode: MODE_FREG, Dst: 0x12},
		{Form: FORM_ALU, Mnemonic: ADD, Alu: NewAluMode(4, true, SRC_REG), Size: 4, Dst: 3, Value: 5},
		{Form: FORM_ALU, Mnemonic: LD, Alu: NewAluMode(2, false, SRC_ABS32Y), Size: 2, Value: 0xFFFFF000},
		{Form: FORM_ALU, Mnemonic: INC, Alu: NewAluMode(0, false, SRC_DP), Size: 4, Value: 0x20},
		{Form: FORM_SHIFT, Mnemonic: SAR, Dst: 1, Src: REG_A, Count: 4},
		{Form: FORM_BITS, Mnemonic: POPCNT, Dst: REG_X, Src: 2},
	}

	for _, ins := range table {
		code, err := ins.Encode()
		if !assert.NoError(err, ins.String()) {
			continue
		}

		decoded, err := DecodeBytes(code, wide)
		if !assert.NoError(err, ins.String()) {
			continue
		}

		ins.Opcode = decoded.Opcode
		ins.Length = len(code)
		assert.Equal(ins, decoded, ins.String())
	}
}

func TestInstruction_Length(t *testing.T) {
	assert := assert.New(t)

	table := [...]struct {
		code []byte
		p    Status
		n    int
	}{
		{[]byte{0xA9, 0x12}, FLAG_E, 2},
		{[]byte{0xA9, 0x12, 0x34}, 0, 3},
		{[]byte{0xA9, 0x12, 0x34, 0x56, 0x78}, FLAG_M32, 5},
		{[]byte{0xA2, 0x12, 0x34, 0x56, 0x78}, FLAG_M8 | FLAG_X32, 5},
		{[]byte{0xC2, 0x30}, FLAG_M32 | FLAG_X32, 2},
		{[]byte{0xF4, 0x34, 0x12}, FLAG_M32 | FLAG_X32, 3},
		{[]byte{0x42, 0x20, 1, 2, 3, 4}, FLAG_E, 6},
		{[]byte{0x42, 0x80, byte(NewAluMode(0, true, SRC_IMM)), 7, 1, 2}, 0, 6},
		{[]byte{0x42, 0x98, 0x21, 0, 1}, 0, 5},
	}

	for _, entry := range table {
		ins, err := DecodeBytes(entry.code, Snapshot{P: entry.p})
		assert.NoError(err)
		assert.Equal(entry.n, ins.Length, "% x", entry.code)
	}
}

func TestInstruction_Illegal(t *testing.T) {
	assert := assert.New(t)

	table := [...][]byte{
		{0x42, 0xFF},
		{0x42, 0x08},
		{0x42, 0x98, 0xE0, 0, 0},
		{0x42, 0x98, 0x00, 0x50, 0},
		{0x42, 0x99, 0x07, 0, 0},
		{0x42, 0x89, byte(NewAluMode(0, false, SRC_IMM))},
		{0x42, 0x80, byte(NewAluMode(0, true, SRC_DP)), 64, 0},
		{0x42, 0x80, 0x1F},
		{0x42, 0xB2, 0x00, 64},
	}

	for _, code := range table {
		ins, err := DecodeBytes(code, Snapshot{})
		assert.ErrorIs(err, ErrOpcodeIllegal, "% x", code)
		assert.Equal(FORM_ILLEGAL, ins.Form)
		assert.Equal(2, ins.Length)
		assert.Equal(code[1], ins.Opcode)
	}
}

func TestInstruction_Format(t *testing.T) {
	assert := assert.New(t)

	table := [...]struct {
		code []byte
		p    Status
		pc   uint32
		text string
	}{
		{[]byte{0xA9, 0x34, 0x12}, 0, 0, "LDA #$1234"},
		{[]byte{0xD0, 0xFE}, 0, 0x1000, "BNE $1000"},
		{[]byte{0x82, 0x00, 0x10}, 0, 0x10000, "BRL $00011003"},
		{[]byte{0xB1, 0x10}, 0, 0, "LDA ($10),Y"},
		{[]byte{0xBF, 0x56, 0x34, 0x12}, 0, 0, "LDA $123456,X"},
		{[]byte{0x54, 0x01, 0x02}, 0, 0, "MVN $02,$01"},
		{[]byte{0x42, 0x80, byte(NewAluMode(4, true, SRC_ABS32)), 3, 0x78, 0x56, 0x34, 0x12}, 0, 0, "LD.L R3,$12345678"},
		{[]byte{0x42, 0x8B, byte(NewAluMode(0, false, SRC_A))}, 0, 0, "INC A"},
		{[]byte{0x42, 0x98, 0x04, 1, REG_A}, 0, 0, "SHL R1,A,#4"},
		{[]byte{0x42, 0x98, 0x60, 1, 2}, 0, 0, "ROL R1,R2,A"},
		{[]byte{0x42, 0x99, 0x06, REG_X, 2}, 0, 0, "POPCNT X,R2"},
		{[]byte{0x42, 0xC0, 0x12}, 0, 0, "FADD F1,F2"},
		{[]byte{0x42, 0xB2, 0x30, 5}, 0, 0, "LDF F3,(R5)"},
		{[]byte{0x42, 0xFF}, 0, 0, ".BYTE $42,$FF"},
	}

	for _, entry := range table {
		ins, _ := DecodeBytes(entry.code, Snapshot{P: entry.p})
		assert.Equal(entry.text, ins.Format(entry.pc), "% x", entry.code)
	}
}
