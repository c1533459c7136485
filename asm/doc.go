// Package asm is a macro assembler and disassembler for the M65832.
//
// Source lines take the form
//
//	label: MNEMONIC[.B|.W|.L] operand ; comment
//
// Operands follow the 65816 conventions (#imm, dp,X, (dp),Y, [dp],Y,
// sr,S, (sr,S),Y, src,dst) extended with the window registers R0-R63
// for the generalized ALU, shifter and bit-extend families and with
// F0-F15 for the floating point unit. Numbers may be written as $hex,
// %binary, 0x/0b/0o prefixed or decimal; expressions over labels and
// equates are evaluated as Starlark integer expressions.
//
// Directives:
//
//	.org ADDR            set the assembly address
//	.byte/.word/.long    emit 1, 2 or 4 byte little-endian values
//	.ascii "text"        emit a quoted string
//	.a8 .a16 .a32        assume an accumulator width
//	.i8 .i16 .i32        assume an index width
//	.equ NAME VALUE      define an equate
//	.macro NAME ARGS     begin a macro; '@' expands to a unique prefix
//	.endm                end a macro
//	$(expr)              evaluate an expression in place
//
// The assumed widths also follow CLC/SEC XCE, REP, SEP, SEPE and REPE
// with constant operands, starting from the emulation mode reset state.
package asm
