package io

import (
	"iter"
)

const (
	INTC_PENDING = 0x00
	INTC_ENABLE  = 0x04

	IRQ_UART   = 0
	IRQ_TIMER  = 1
	IRQ_BLOCK  = 2
	IRQ_COPROC = 3
	IRQ_COUNT  = 4

	INTC_ENABLE_ALL = uint32(1<<IRQ_COUNT - 1)
)

var intcRegs = map[string]uint32{
	"INTC_PENDING": INTC_PENDING,
	"INTC_ENABLE":  INTC_ENABLE,
}

var intcBits = map[string]uint32{
	"IRQ_UART":   1 << IRQ_UART,
	"IRQ_TIMER":  1 << IRQ_TIMER,
	"IRQ_BLOCK":  1 << IRQ_BLOCK,
	"IRQ_COPROC": 1 << IRQ_COPROC,
}

// Line is an interrupt source.
type Line interface {
	IRQ() bool
}

// Intc summarizes the device interrupt lines into the main core's single
// level-sensitive IRQ input. Sources are acknowledged at the device.
type Intc struct {
	Lines [IRQ_COUNT]Line

	enable uint32
}

var _ Device = (*Intc)(nil)

// Attach connects a source to an interrupt line.
func (intc *Intc) Attach(irq int, line Line) {
	intc.Lines[irq] = line
}

func (intc *Intc) Name() string {
	return "intc"
}

func (intc *Intc) Base() uint32 {
	return MMIO_INTC
}

func (intc *Intc) Reset() {
	intc.enable = INTC_ENABLE_ALL
}

func (intc *Intc) Defines() iter.Seq2[string, string] {
	return defines(intc.Base(), intcRegs, intcBits)
}

// Pending returns the raw state of every line, enabled or not.
func (intc *Intc) Pending() (pending uint32) {
	for irq, line := range intc.Lines {
		if line != nil && line.IRQ() {
			pending |= 1 << irq
		}
	}
	return
}

func (intc *Intc) IRQ() bool {
	return intc.Pending()&intc.enable != 0
}

func (intc *Intc) ReadReg(reg uint32) (value uint32) {
	switch reg {
	case INTC_PENDING:
		value = intc.Pending()
	case INTC_ENABLE:
		value = intc.enable
	}
	return
}

func (intc *Intc) WriteReg(reg uint32, value uint32, mask uint32) {
	switch reg {
	case INTC_ENABLE:
		intc.enable = merge(intc.enable, value, mask) & INTC_ENABLE_ALL
	}
}
