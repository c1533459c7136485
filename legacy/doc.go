// Package legacy is the 6502-compatible coprocessor core of the m65832
// machine.
//
// It runs the documented NMOS 6502 instruction set, decoded through the
// shared opcode catalog of package cpu, in a 64 KiB window of physical
// memory starting at Base. The byte at MAILBOX is not memory: a write
// raises an interrupt to the main core through the relay latch, and a
// read reports whether that latch is still full. A write to a full latch
// holds the core on RDY and the instruction is retried on its next step.
package legacy
