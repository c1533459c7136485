package io

import (
	"iter"
)

const (
	TIMER_CONTROL = 0x00
	TIMER_COMPARE = 0x04
	TIMER_COUNT   = 0x08

	TIMER_CONTROL_ENABLE  = uint32(1 << 0)
	TIMER_CONTROL_IRQ     = uint32(1 << 1)
	TIMER_CONTROL_PENDING = uint32(1 << 31) // Write 1 to clear.
)

var timerRegs = map[string]uint32{
	"TIMER_CONTROL": TIMER_CONTROL,
	"TIMER_COMPARE": TIMER_COMPARE,
	"TIMER_COUNT":   TIMER_COUNT,
}

var timerBits = map[string]uint32{
	"TIMER_CONTROL_ENABLE":  TIMER_CONTROL_ENABLE,
	"TIMER_CONTROL_IRQ":     TIMER_CONTROL_IRQ,
	"TIMER_CONTROL_PENDING": TIMER_CONTROL_PENDING,
}

// Timer counts master steps. When the count reaches a non-zero compare
// value it restarts from zero and latches a pending interrupt.
type Timer struct {
	control uint32
	compare uint32
	count   uint32
	pending bool
}

var _ Device = (*Timer)(nil)

func (timer *Timer) Name() string {
	return "timer"
}

func (timer *Timer) Base() uint32 {
	return MMIO_TIMER
}

func (timer *Timer) Reset() {
	*timer = Timer{}
}

func (timer *Timer) Defines() iter.Seq2[string, string] {
	return defines(timer.Base(), timerRegs, timerBits)
}

// Tick advances the counter by one master step.
func (timer *Timer) Tick() {
	if timer.control&TIMER_CONTROL_ENABLE == 0 {
		return
	}

	timer.count++
	if timer.compare != 0 && timer.count >= timer.compare {
		timer.count = 0
		timer.pending = true
	}
}

func (timer *Timer) IRQ() bool {
	return timer.pending && timer.control&TIMER_CONTROL_IRQ != 0
}

func (timer *Timer) ReadReg(reg uint32) (value uint32) {
	switch reg {
	case TIMER_CONTROL:
		value = timer.control
		if timer.pending {
			value |= TIMER_CONTROL_PENDING
		}
	case TIMER_COMPARE:
		value = timer.compare
	case TIMER_COUNT:
		value = timer.count
	}
	return
}

func (timer *Timer) WriteReg(reg uint32, value uint32, mask uint32) {
	switch reg {
	case TIMER_CONTROL:
		if value&mask&TIMER_CONTROL_PENDING != 0 {
			timer.pending = false
		}
		timer.control = merge(timer.control, value, mask) &^ TIMER_CONTROL_PENDING
	case TIMER_COMPARE:
		timer.compare = merge(timer.compare, value, mask)
	case TIMER_COUNT:
		timer.count = merge(timer.count, value, mask)
	}
}
