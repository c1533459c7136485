package io

import (
	"iter"
	"log"

	"github.com/ezrec/m65832/sched"
)

const (
	COPROC_CONTROL     = 0x00
	COPROC_TARGET_FREQ = 0x04
	COPROC_MASTER_FREQ = 0x08
	COPROC_BASE        = 0x0C
	COPROC_IRQ_DATA    = 0x10

	COPROC_CONTROL_ENABLE = uint32(1 << 0)
	COPROC_CONTROL_RESET  = uint32(1 << 1)  // Write 1 to reset; reads 1 until the reset is taken.
	COPROC_CONTROL_ERROR  = uint32(1 << 31) // Last frequency pair was rejected.

	COPROC_IRQ_VALID = uint32(1 << 8) // IRQ_DATA held a request.
)

var coprocRegs = map[string]uint32{
	"COPROC_CONTROL":     COPROC_CONTROL,
	"COPROC_TARGET_FREQ": COPROC_TARGET_FREQ,
	"COPROC_MASTER_FREQ": COPROC_MASTER_FREQ,
	"COPROC_BASE":        COPROC_BASE,
	"COPROC_IRQ_DATA":    COPROC_IRQ_DATA,
}

var coprocBits = map[string]uint32{
	"COPROC_CONTROL_ENABLE": COPROC_CONTROL_ENABLE,
	"COPROC_CONTROL_RESET":  COPROC_CONTROL_RESET,
	"COPROC_CONTROL_ERROR":  COPROC_CONTROL_ERROR,
	"COPROC_IRQ_VALID":      COPROC_IRQ_VALID,
}

// Coproc is the main core's control block for the legacy coprocessor:
// scheduling, the window of physical memory it runs in, and the
// acknowledge side of its interrupt relay.
type Coproc struct {
	Verbose bool

	Sched *sched.Interleave
	Latch *sched.Latch

	target uint32
	master uint32
	window uint32

	resetPending bool
	freqError    bool
}

var _ Device = (*Coproc)(nil)

// NewCoproc creates the control block for a scheduler and relay latch.
func NewCoproc(s *sched.Interleave, latch *sched.Latch) (coproc *Coproc) {
	coproc = &Coproc{
		Sched: s,
		Latch: latch,
	}
	return
}

// Configure sets the power-on frequencies and window.
func (coproc *Coproc) Configure(target, master, window uint32) (err error) {
	coproc.window = window
	coproc.target = target
	coproc.master = master
	err = coproc.Sched.SetFrequency(target, master)
	return
}

// Window is the physical address of coprocessor address $0000.
func (coproc *Coproc) Window() uint32 {
	return coproc.window
}

// TakeReset reports and clears a reset requested through CONTROL.
func (coproc *Coproc) TakeReset() (pending bool) {
	pending = coproc.resetPending
	coproc.resetPending = false
	return
}

func (coproc *Coproc) Name() string {
	return "coproc"
}

func (coproc *Coproc) Base() uint32 {
	return MMIO_COPROC
}

// Reset stops the coprocessor and empties the relay. Frequencies and
// window keep their configured values.
func (coproc *Coproc) Reset() {
	coproc.Sched.Enable(false)
	coproc.Sched.Reset()
	coproc.Latch.Reset()
	coproc.resetPending = false
	coproc.freqError = false
}

func (coproc *Coproc) Defines() iter.Seq2[string, string] {
	return defines(coproc.Base(), coprocRegs, coprocBits)
}

// IRQ is raised while a relayed request awaits acknowledge.
func (coproc *Coproc) IRQ() bool {
	return coproc.Latch.Pending()
}

func (coproc *Coproc) control() (value uint32) {
	if coproc.Sched.Enabled() {
		value |= COPROC_CONTROL_ENABLE
	}
	if coproc.resetPending {
		value |= COPROC_CONTROL_RESET
	}
	if coproc.freqError {
		value |= COPROC_CONTROL_ERROR
	}
	return
}

func (coproc *Coproc) ReadReg(reg uint32) (value uint32) {
	switch reg {
	case COPROC_CONTROL:
		value = coproc.control()
	case COPROC_TARGET_FREQ:
		value = coproc.target
	case COPROC_MASTER_FREQ:
		value = coproc.master
	case COPROC_BASE:
		value = coproc.window
	case COPROC_IRQ_DATA:
		if coproc.Latch.Valid() {
			value = COPROC_IRQ_VALID | uint32(coproc.Latch.Ack())
		}
	}
	return
}

func (coproc *Coproc) frequency() {
	err := coproc.Sched.SetFrequency(coproc.target, coproc.master)
	coproc.freqError = err != nil
	if err != nil && coproc.Verbose {
		log.Printf("coproc: %d/%d: %v", coproc.target, coproc.master, err)
	}
}

func (coproc *Coproc) WriteReg(reg uint32, value uint32, mask uint32) {
	switch reg {
	case COPROC_CONTROL:
		control := merge(coproc.control(), value, mask)
		coproc.Sched.Enable(control&COPROC_CONTROL_ENABLE != 0)
		if value&mask&COPROC_CONTROL_RESET != 0 {
			coproc.resetPending = true
			coproc.Latch.Reset()
		}
		if coproc.Verbose {
			log.Printf("coproc: control %08x", control)
		}
	case COPROC_TARGET_FREQ:
		coproc.target = merge(coproc.target, value, mask)
		coproc.frequency()
	case COPROC_MASTER_FREQ:
		coproc.master = merge(coproc.master, value, mask)
		coproc.frequency()
	case COPROC_BASE:
		coproc.window = merge(coproc.window, value, mask)
	}
}
