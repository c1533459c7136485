// Package cpu implements the main core of the M65832 system: an
// 8/16/32-bit processor backward compatible with the 65816, extended with
// 32-bit registers, a register window, privilege separation, atomics and
// a floating point unit.
//
// The package holds the opcode and addressing-mode catalog shared by the
// core, the assembler and the disassembler; the width and addressing
// resolver; the decode and dispatch engine with its extended
// sub-architecture reached through the $42 escape byte; and the
// interrupt and trap controller.
//
// Every instruction runs as a transaction against a private copy of the
// register file and a buffer of memory writes. Nothing is committed until
// the instruction completes, so a fault in the middle of an instruction
// leaves no partial state behind.
package cpu
