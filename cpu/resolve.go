package cpu

import (
	"errors"
	"strings"
)

// ResolveWidth returns the data width in bytes of a mnemonic's operand.
// An explicit override (1, 2 or 4) replaces the width derived from the
// status flags for accumulator and index governed mnemonics.
func ResolveWidth(mn Mnemonic, snap Snapshot, override int) int {
	switch mn.WidthClass() {
	case WIDTH_M:
		if override != 0 {
			return override
		}
		return snap.MWidth()
	case WIDTH_X:
		if override != 0 {
			return override
		}
		return snap.XWidth()
	case WIDTH_FIXED8:
		return 1
	case WIDTH_FIXED16:
		return 2
	case WIDTH_FIXED32:
		return 4
	}
	return 0
}

// PromoteValue selects the narrowest address mode that holds value.
func PromoteValue(value uint32) Mode {
	switch {
	case value <= 0xFF:
		return MODE_DP
	case value <= 0xFFFF:
		return MODE_ABS
	case value <= 0xFFFFFF:
		return MODE_ABSL
	}
	return MODE_ABS32
}

// Shape is the syntactic form of an operand, independent of its value.
type Shape int

//go:generate go tool stringer -linecomment -type=Shape
const (
	SHAPE_NONE       = Shape(iota) // none
	SHAPE_ACC                      // A
	SHAPE_IMM                      // #v
	SHAPE_ADDR                     // v
	SHAPE_ADDR_X                   // v,X
	SHAPE_ADDR_Y                   // v,Y
	SHAPE_ADDR_S                   // v,S
	SHAPE_IND                      // (v)
	SHAPE_IND_X                    // (v,X)
	SHAPE_IND_Y                    // (v),Y
	SHAPE_IND_S_Y                  // (v,S),Y
	SHAPE_LONG_IND                 // [v]
	SHAPE_LONG_IND_Y               // [v],Y
	SHAPE_PAIR                     // v,w
)

// Operand is a parsed operand: its shape and the text of its
// expressions, not yet evaluated.
type Operand struct {
	Shape Shape
	Expr  []string
}

// ParseOperand classifies operand text such as "#$12", "($10),Y" or
// "[label],y". Whitespace is ignored.
func ParseOperand(text string) (op Operand, err error) {
	s := strings.Join(strings.Fields(text), "")
	upper := strings.ToUpper(s)

	shape := func(sh Shape, exprs ...string) (Operand, error) {
		for _, expr := range exprs {
			if expr == "" {
				return Operand{}, errors.Join(ErrOperandSyntax, errors.New(text))
			}
		}
		return Operand{Shape: sh, Expr: exprs}, nil
	}

	switch {
	case s == "":
		return Operand{Shape: SHAPE_NONE}, nil
	case upper == "A":
		return Operand{Shape: SHAPE_ACC}, nil
	case s[0] == '#':
		return shape(SHAPE_IMM, s[1:])
	case s[0] == '(':
		switch {
		case strings.HasSuffix(upper, ",S),Y"):
			return shape(SHAPE_IND_S_Y, s[1:len(s)-5])
		case strings.HasSuffix(upper, "),Y"):
			return shape(SHAPE_IND_Y, s[1:len(s)-3])
		case strings.HasSuffix(upper, ",X)"):
			return shape(SHAPE_IND_X, s[1:len(s)-3])
		case strings.HasSuffix(upper, ")"):
			return shape(SHAPE_IND, s[1:len(s)-1])
		}
	case s[0] == '[':
		switch {
		case strings.HasSuffix(upper, "],Y"):
			return shape(SHAPE_LONG_IND_Y, s[1:len(s)-3])
		case strings.HasSuffix(upper, "]"):
			return shape(SHAPE_LONG_IND, s[1:len(s)-1])
		}
	case strings.HasSuffix(upper, ",X"):
		return shape(SHAPE_ADDR_X, s[:len(s)-2])
	case strings.HasSuffix(upper, ",Y"):
		return shape(SHAPE_ADDR_Y, s[:len(s)-2])
	case strings.HasSuffix(upper, ",S"):
		return shape(SHAPE_ADDR_S, s[:len(s)-2])
	case strings.Count(s, ",") == 1:
		first, second, _ := strings.Cut(s, ",")
		return shape(SHAPE_PAIR, first, second)
	case !strings.ContainsAny(s, ",()[]"):
		return shape(SHAPE_ADDR, s)
	}

	err = errors.Join(ErrOperandSyntax, errors.New(text))
	return
}

// ResolveMode picks the addressing mode for a mnemonic given the operand
// shape and its value. Plain addresses take the narrowest mode holding
// the value, widening when the mnemonic lacks that form.
func ResolveMode(mn Mnemonic, shape Shape, value uint32) (mode Mode, err error) {
	narrow := func(dp, abs, long Mode) Mode {
		switch PromoteValue(value) {
		case MODE_DP:
			return dp
		case MODE_ABS:
			return abs
		}
		return long
	}

	switch shape {
	case SHAPE_NONE:
		mode = MODE_IMP
		if !Supports(mn, MODE_IMP) && Supports(mn, MODE_ACC) {
			mode = MODE_ACC
		}
	case SHAPE_ACC:
		mode = MODE_ACC
	case SHAPE_IMM:
		mode = MODE_IMM
	case SHAPE_ADDR:
		switch {
		case mn.Branch():
			mode = MODE_REL
			if !Supports(mn, MODE_REL) {
				mode = MODE_RELL
			}
		case mn == PER:
			mode = MODE_RELL
		default:
			mode = PromoteValue(value)
		}
	case SHAPE_ADDR_X:
		mode = narrow(MODE_DPX, MODE_ABSX, MODE_ABSLX)
	case SHAPE_ADDR_Y:
		mode = narrow(MODE_DPY, MODE_ABSY, MODE_ABSY)
	case SHAPE_ADDR_S:
		mode = MODE_SR
	case SHAPE_IND:
		mode = narrow(MODE_DPIND, MODE_ABSIND, MODE_ABSIND)
	case SHAPE_IND_X:
		mode = narrow(MODE_DPINDX, MODE_ABSINDX, MODE_ABSINDX)
	case SHAPE_IND_Y:
		mode = MODE_DPINDY
	case SHAPE_IND_S_Y:
		mode = MODE_SRIY
	case SHAPE_LONG_IND:
		mode = narrow(MODE_DPINDL, MODE_ABSINDL, MODE_ABSINDL)
	case SHAPE_LONG_IND_Y:
		mode = MODE_DPINDLY
	case SHAPE_PAIR:
		mode = MODE_BLK
	default:
		err = ErrOperandSyntax
		return
	}

	resolved, ok := Promote(mn, mode)
	if !ok {
		err = ErrEncode{Mnemonic: mn, Mode: mode}
		return
	}
	mode = resolved

	switch mode {
	case MODE_IMM, MODE_BLK, MODE_REL, MODE_RELL:
	default:
		if n := mode.Length(0); n > 0 && n < 4 && uint64(value) >= uint64(1)<<(8*n) {
			err = ErrOperandRange
		}
	}
	return
}
