package cpu

// Mode is an addressing mode.
type Mode int

//go:generate go tool stringer -linecomment -type=Mode
const (
	MODE_IMP     = Mode(iota) // imp
	MODE_ACC                  // acc
	MODE_IMM                  // #imm
	MODE_DP                   // dp
	MODE_DPX                  // dp,x
	MODE_DPY                  // dp,y
	MODE_DPIND                // (dp)
	MODE_DPINDX               // (dp,x)
	MODE_DPINDY               // (dp),y
	MODE_DPINDL               // [dp]
	MODE_DPINDLY              // [dp],y
	MODE_SR                   // sr,s
	MODE_SRIY                 // (sr,s),y
	MODE_ABS                  // abs
	MODE_ABSX                 // abs,x
	MODE_ABSY                 // abs,y
	MODE_ABSL                 // long
	MODE_ABSLX                // long,x
	MODE_ABSIND               // (abs)
	MODE_ABSINDX              // (abs,x)
	MODE_ABSINDL              // [abs]
	MODE_REL                  // rel
	MODE_RELL                 // rell
	MODE_BLK                  // src,dst
	MODE_ABS32                // abs32
	MODE_FREG                 // fd,fs
	MODE_FDP                  // fd,dp
	MODE_FABS                 // fd,abs
	MODE_FIND                 // fd,(rn)
	MODE_FABS32               // fd,abs32
	MODE_COUNT                // count
)

// modeLength is the operand length in bytes after the opcode, except for
// MODE_IMM whose length is the resolved width.
var modeLength = [MODE_COUNT]int{
	MODE_IMP:     0,
	MODE_ACC:     0,
	MODE_IMM:     0,
	MODE_DP:      1,
	MODE_DPX:     1,
	MODE_DPY:     1,
	MODE_DPIND:   1,
	MODE_DPINDX:  1,
	MODE_DPINDY:  1,
	MODE_DPINDL:  1,
	MODE_DPINDLY: 1,
	MODE_SR:      1,
	MODE_SRIY:    1,
	MODE_ABS:     2,
	MODE_ABSX:    2,
	MODE_ABSY:    2,
	MODE_ABSL:    3,
	MODE_ABSLX:   3,
	MODE_ABSIND:  2,
	MODE_ABSINDX: 2,
	MODE_ABSINDL: 2,
	MODE_REL:     1,
	MODE_RELL:    2,
	MODE_BLK:     2,
	MODE_ABS32:   4,
	MODE_FREG:    1,
	MODE_FDP:     2,
	MODE_FABS:    3,
	MODE_FIND:    2,
	MODE_FABS32:  5,
}

// Length is the operand byte count of the mode. Immediate operands take
// the given width.
func (m Mode) Length(width int) int {
	if m == MODE_IMM {
		return width
	}
	return modeLength[m]
}

// DirectPage reports whether the mode's base address is a direct page
// offset.
func (m Mode) DirectPage() bool {
	switch m {
	case MODE_DP, MODE_DPX, MODE_DPY, MODE_DPIND, MODE_DPINDX, MODE_DPINDY,
		MODE_DPINDL, MODE_DPINDLY, MODE_FDP:
		return true
	}
	return false
}

// Float reports whether the mode is one of the FPU operand shapes.
func (m Mode) Float() bool {
	return m >= MODE_FREG && m <= MODE_FABS32
}
