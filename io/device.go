// Package io provides the memory-mapped peripherals of the m65832
// machine. Each device owns one 256 byte page of the supervisor-only
// register window and exposes 32-bit registers that accept byte-lane
// writes.
package io

import (
	"fmt"
	"iter"

	"github.com/ezrec/m65832/bus"
	"github.com/ezrec/m65832/internal"
)

const (
	MMIO_UART   = bus.MMIO_BASE + 0x100
	MMIO_TIMER  = bus.MMIO_BASE + 0x200
	MMIO_BLOCK  = bus.MMIO_BASE + 0x300
	MMIO_INTC   = bus.MMIO_BASE + 0x400
	MMIO_COPROC = bus.MMIO_BASE + 0x500

	MMIO_WINDOW = bus.PAGE_SIZE
)

// Device is a peripheral in the register window.
type Device interface {
	bus.Device

	// Name of the device in the bus region map.
	Name() string
	// Base is the physical address of the first register.
	Base() uint32
	// Reset returns the device to its power-on state.
	Reset()
	// IRQ reports the level of the device's interrupt line.
	IRQ() bool
	// Defines returns the assembler symbols for the registers.
	Defines() iter.Seq2[string, string]
}

// Map registers the device's page on the bus.
func Map(b *bus.Bus, dev Device) error {
	return b.MapIO(dev.Name(), dev.Base(), dev.Base()+MMIO_WINDOW-1, dev)
}

func merge(old, value, mask uint32) uint32 {
	return (old &^ mask) | (value & mask)
}

func hex32(value uint32) string {
	return fmt.Sprintf("$%08X", value)
}

// defines yields register addresses relative to base, and bit values as is.
func defines(base uint32, regs map[string]uint32, bits map[string]uint32) iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for name, reg := range internal.IterSeq2Sorted(regs) {
			if !yield(name, hex32(base+reg)) {
				return
			}
		}
		for name, bit := range internal.IterSeq2Sorted(bits) {
			if !yield(name, fmt.Sprintf("$%X", bit)) {
				return
			}
		}
	}
}
