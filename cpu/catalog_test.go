package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCatalog_Primary(t *testing.T) {
	assert := assert.New(t)

	nmos := 0
	for op := range 256 {
		entry := Primary(byte(op))
		if entry.Nmos {
			nmos++
		}
		if byte(op) == ESCAPE {
			continue
		}
		assert.Equal(uint16(op), Lookup(entry.Mnemonic, entry.Mode), "%02x %v %v", op, entry.Mnemonic, entry.Mode)
	}
	assert.Equal(151, nmos)
}

func TestCatalog_Extended(t *testing.T) {
	assert := assert.New(t)

	table := [...]struct {
		mn   Mnemonic
		mode Mode
		enc  uint16
	}{
		{MUL, MODE_DP, OP_EXTENDED | 0x00},
		{DIVU, MODE_ABS, OP_EXTENDED | 0x07},
		{CAS, MODE_ABS, OP_EXTENDED | 0x11},
		{SVBR, MODE_IMM, OP_EXTENDED | 0x20},
		{TRAP, MODE_IMM, OP_EXTENDED | 0x40},
		{REPE, MODE_IMM, OP_EXTENDED | 0x61},
		{PLVBR, MODE_IMP, OP_EXTENDED | 0x75},
		{STFD, MODE_FABS32, OP_EXTENDED | 0xBF},
		{FCVTDS, MODE_FREG, OP_EXTENDED | 0xE5},
		{WDM, MODE_IMP, OP_NONE},
		{LDA, MODE_ABS32, OP_NONE},
		{MUL, MODE_IMM, OP_NONE},
	}

	for _, entry := range table {
		assert.Equal(entry.enc, Lookup(entry.mn, entry.mode), "%v %v", entry.mn, entry.mode)
	}

	assert.Equal(OP_NONE, Lookup(MNEMONIC_COUNT, MODE_IMP))
	assert.Equal(OP_NONE, Lookup(LDA, MODE_COUNT))
}

func TestCatalog_ExtendedInverse(t *testing.T) {
	assert := assert.New(t)

	for _, entry := range extendedList {
		assert.Equal(OP_EXTENDED|uint16(entry.sub), Lookup(entry.mn, entry.mode), "%02x %v %v", entry.sub, entry.mn, entry.mode)
		assert.True(Supports(entry.mn, entry.mode), "%v %v", entry.mn, entry.mode)
	}
}

func TestCatalog_Promote(t *testing.T) {
	assert := assert.New(t)

	table := [...]struct {
		mn   Mnemonic
		mode Mode
		to   Mode
		ok   bool
	}{
		{LDA, MODE_DP, MODE_DP, true},
		{LDA, MODE_DPY, MODE_ABSY, true},
		{LDA, MODE_ABSL, MODE_ABSL, true},
		{LDX, MODE_ABSL, MODE_ABSL, false},
		{JMP, MODE_DP, MODE_ABS, true},
		{JMP, MODE_DPINDL, MODE_ABSINDL, true},
		{PEI, MODE_ABS, MODE_ABS, false},
		{MUL, MODE_DP, MODE_DP, true},
		{LDF, MODE_FDP, MODE_FDP, true},
	}

	for _, entry := range table {
		to, ok := Promote(entry.mn, entry.mode)
		assert.Equal(entry.ok, ok, "%v %v", entry.mn, entry.mode)
		assert.Equal(entry.to, to, "%v %v", entry.mn, entry.mode)
	}
}

func TestAluMode(t *testing.T) {
	assert := assert.New(t)

	narrow := Snapshot{P: FLAG_M8}
	wide := Snapshot{P: FLAG_M32 | FLAG_X32}

	am := NewAluMode(0, true, SRC_DPINDY)
	assert.True(am.Register())
	assert.Equal(SRC_DPINDY, am.Source())
	assert.Equal(1, am.Size(narrow))
	assert.Equal(4, am.Size(wide))

	am = NewAluMode(2, false, SRC_ABS32X)
	assert.False(am.Register())
	assert.Equal(2, am.Size(wide))
	assert.Equal(4, am.Source().Length(2))

	src, ok := AluSourceFor(MODE_SRIY)
	assert.True(ok)
	assert.Equal(SRC_SRIY, src)
	_, ok = AluSourceFor(MODE_BLK)
	assert.False(ok)
}

func TestRegisterName(t *testing.T) {
	assert := assert.New(t)

	for _, reg := range []byte{0, 17, 63, REG_A, REG_X, REG_Y} {
		got, ok := ParseRegister(RegisterName(reg))
		assert.True(ok)
		assert.Equal(reg, got)
	}

	for _, name := range []string{"R64", "R", "R01", "Rx", "B", ""} {
		_, ok := ParseRegister(name)
		assert.False(ok, name)
	}

	reg, ok := ParseRegister("r12")
	assert.True(ok)
	assert.Equal(byte(12), reg)
}
