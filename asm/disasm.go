package asm

import (
	"iter"

	"github.com/ezrec/m65832/cpu"
)

// Disassemble decodes the code located at addr, starting from status p
// and following the width changes a listing would see.
func Disassemble(code []byte, addr uint32, p cpu.Status) iter.Seq2[uint32, cpu.Instruction] {
	return func(yield func(addr uint32, ins cpu.Instruction) bool) {
		for offset := 0; offset < len(code); {
			ins, _ := cpu.DecodeBytes(code[offset:], cpu.Snapshot{P: p})
			if ins.Length == 0 || offset+ins.Length > len(code) {
				return
			}
			if !yield(addr+uint32(offset), ins) {
				return
			}
			p = track(p, ins)
			offset += ins.Length
		}
	}
}
