package cpu

import (
	"fmt"
	"strings"
)

// Status is the processor status word P.
type Status uint16

// Status word flags. The low byte is laid out as on the 65816.
const (
	FLAG_C   = Status(1 << 0)  // Carry
	FLAG_Z   = Status(1 << 1)  // Zero
	FLAG_I   = Status(1 << 2)  // IRQ disable
	FLAG_D   = Status(1 << 3)  // Decimal
	FLAG_X8  = Status(1 << 4)  // Index registers are 8 bits (B in emulation)
	FLAG_M8  = Status(1 << 5)  // Accumulator is 8 bits
	FLAG_V   = Status(1 << 6)  // Overflow
	FLAG_N   = Status(1 << 7)  // Negative
	FLAG_M32 = Status(1 << 8)  // Accumulator is 32 bits
	FLAG_X32 = Status(1 << 9)  // Index registers are 32 bits
	FLAG_S   = Status(1 << 10) // Supervisor
	FLAG_R   = Status(1 << 11) // Register window enable
	FLAG_K   = Status(1 << 12) // Illegal opcodes execute as NOP
	FLAG_E   = Status(1 << 13) // 6502 emulation

	FLAG_B = FLAG_X8 // Break, in a pushed emulation-mode status byte.

	STATUS_LOW  = Status(0x00FF)
	STATUS_HIGH = Status(0xFF00)
	STATUS_MASK = Status(0x3FFF)
)

var flagNames = []struct {
	flag Status
	name byte
}{
	{FLAG_E, 'e'}, {FLAG_K, 'k'}, {FLAG_R, 'r'}, {FLAG_S, 's'},
	{FLAG_X32, 'x'}, {FLAG_M32, 'm'},
	{FLAG_N, 'n'}, {FLAG_V, 'v'}, {FLAG_M8, 'm'}, {FLAG_X8, 'x'},
	{FLAG_D, 'd'}, {FLAG_I, 'i'}, {FLAG_Z, 'z'}, {FLAG_C, 'c'},
}

// String shows set flags in upper case and clear flags in lower case.
func (p Status) String() string {
	var sb strings.Builder
	for n, fl := range flagNames {
		if n == 6 {
			sb.WriteByte('.')
		}
		if p&fl.flag != 0 {
			sb.WriteByte(fl.name - 'a' + 'A')
		} else {
			sb.WriteByte(fl.name)
		}
	}
	return sb.String()
}

// Low returns the 65816-compatible status byte.
func (p Status) Low() byte {
	return byte(p)
}

// WithLow replaces the low status byte, as PLP, SEP and REP do. Selecting
// an 8-bit width through M8 or X8 drops the matching 32-bit bit.
func (p Status) WithLow(b byte) (q Status) {
	q = (p &^ STATUS_LOW) | Status(b)
	if q&FLAG_M8 != 0 {
		q &^= FLAG_M32
	}
	if q&FLAG_X8 != 0 {
		q &^= FLAG_X32
	}
	return q.normalize()
}

// WithHigh replaces the high status byte, as SEPE and REPE do. Selecting
// a 32-bit width drops the matching 8-bit bit.
func (p Status) WithHigh(b byte) (q Status) {
	q = (p &^ STATUS_HIGH) | Status(b)<<8
	if q&FLAG_M32 != 0 {
		q &^= FLAG_M8
	}
	if q&FLAG_X32 != 0 {
		q &^= FLAG_X8
	}
	return q.normalize()
}

// normalize applies the emulation-mode width lock.
func (p Status) normalize() Status {
	p &= STATUS_MASK
	if p&FLAG_E != 0 {
		p |= FLAG_M8 | FLAG_X8
		p &^= FLAG_M32 | FLAG_X32
	}
	return p
}

// Snapshot is the mode state captured once when an instruction is
// fetched. Decode and execute consult only the snapshot, so an
// instruction that changes the width flags runs under the old widths.
type Snapshot struct {
	P Status
}

// Emulation reports 6502 emulation mode.
func (s Snapshot) Emulation() bool {
	return s.P&FLAG_E != 0
}

// Wide reports whether both accumulator and index widths are 32 bits.
func (s Snapshot) Wide() bool {
	return s.P&(FLAG_M32|FLAG_X32|FLAG_E) == FLAG_M32|FLAG_X32
}

// Supervisor reports supervisor mode.
func (s Snapshot) Supervisor() bool {
	return s.P&FLAG_S != 0
}

// Window reports whether direct page aliases the register window.
func (s Snapshot) Window() bool {
	return s.P&FLAG_R != 0
}

// Compat reports whether illegal opcodes are tolerated as NOPs.
func (s Snapshot) Compat() bool {
	return s.P&FLAG_K != 0
}

// Decimal reports BCD arithmetic mode.
func (s Snapshot) Decimal() bool {
	return s.P&FLAG_D != 0
}

func width(p Status, w8, w32 Status) int {
	switch {
	case p&FLAG_E != 0:
		return 1
	case p&(FLAG_M32|FLAG_X32) == FLAG_M32|FLAG_X32:
		return 4
	case p&w8 != 0:
		return 1
	case p&w32 != 0:
		return 4
	}
	return 2
}

// MWidth is the accumulator width in bytes.
func (s Snapshot) MWidth() int {
	return width(s.P, FLAG_M8, FLAG_M32)
}

// XWidth is the index register width in bytes.
func (s Snapshot) XWidth() int {
	return width(s.P, FLAG_X8, FLAG_X32)
}

func (s Snapshot) String() string {
	return fmt.Sprintf("%v m%d x%d", s.P, s.MWidth()*8, s.XWidth()*8)
}

// WidthFlags returns the status bits selecting the given accumulator and
// index widths in native mode.
func WidthFlags(m, x int) (p Status) {
	switch m {
	case 1:
		p |= FLAG_M8
	case 4:
		p |= FLAG_M32
	}
	switch x {
	case 1:
		p |= FLAG_X8
	case 4:
		p |= FLAG_X32
	}
	return
}
