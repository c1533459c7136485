package cpu

import (
	"fmt"
	"strings"
)

const (
	WINDOW_SIZE = 64 // Registers in the window R0..R63.
	FPU_SIZE    = 16 // Floating point registers F0..F15.
)

// Registers is the architectural register file.
type Registers struct {
	A   uint32 // Accumulator; bits above the current width are preserved.
	X   uint32 // Index, zero-extended from the current width.
	Y   uint32 // Index, zero-extended from the current width.
	SP  uint32 // Active stack pointer.
	D   uint32 // Direct page base.
	B   uint32 // Data bank, or a 32-bit data base in wide mode.
	PC  uint32 // Program counter; bits 23:16 are the program bank K.
	VBR uint32 // Vector base, physical.
	T   uint32 // High product and remainder of MUL and DIV.
	P   Status

	USP uint32 // User stack pointer, while in supervisor mode.
	SSP uint32 // Supervisor stack pointer, while in user mode.

	R [WINDOW_SIZE]uint32
	F [FPU_SIZE]uint64
}

func mask(width int) uint32 {
	switch width {
	case 1:
		return 0xFF
	case 2:
		return 0xFFFF
	case 3:
		return 0xFFFFFF
	}
	return 0xFFFFFFFF
}

func signBit(width int) uint32 {
	return 1 << (8*width - 1)
}

func signExtend(value uint32, width int) int64 {
	shift := 64 - 8*width
	return int64(uint64(value)<<shift) >> shift
}

func merge(old, value uint32, width int) uint32 {
	m := mask(width)
	return (old &^ m) | (value & m)
}

// String returns the register file, one register per field.
func (r *Registers) String() string {
	fields := []string{
		fmt.Sprintf("pc=%08x", r.PC),
		fmt.Sprintf("a=%08x", r.A),
		fmt.Sprintf("x=%08x", r.X),
		fmt.Sprintf("y=%08x", r.Y),
		fmt.Sprintf("sp=%08x", r.SP),
		fmt.Sprintf("d=%08x", r.D),
		fmt.Sprintf("b=%08x", r.B),
		fmt.Sprintf("t=%08x", r.T),
		fmt.Sprintf("vbr=%08x", r.VBR),
		fmt.Sprintf("p=%v", r.P),
	}
	return strings.Join(fields, " ")
}
