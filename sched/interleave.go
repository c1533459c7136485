// Package sched arbitrates the shared bus between the main core and the
// legacy coprocessor. The coprocessor runs at a fraction of the master
// clock; an integer accumulator (a Bresenham/DDA divider) decides, for
// each master step, which of the two cores owns the bus.
package sched

import (
	"errors"
	"log"

	"github.com/ezrec/m65832/bus"
	"github.com/ezrec/m65832/translate"
)

var f = translate.From

var (
	ErrFrequencyZero  = errors.New(f("master frequency must be non-zero"))
	ErrFrequencyRatio = errors.New(f("target frequency exceeds master frequency"))
)

// Grant is the arbiter's decision for one master step.
type Grant struct {
	Owner bus.Owner
	Relay bool // Coprocessor owned the previous step; its interrupt latch may be relayed.
}

// Interleave is the fractional-frequency bus arbiter.
type Interleave struct {
	Verbose bool

	target  uint32
	master  uint32
	acc     uint64
	enabled bool
	last    bus.Owner

	Steps uint64 // Master steps taken since reset.
	Ticks uint64 // Steps granted to the coprocessor.
}

// SetFrequency configures the target (coprocessor) and master clocks.
// The accumulator is cleared so the new ratio starts without history.
func (s *Interleave) SetFrequency(target, master uint32) (err error) {
	if master == 0 {
		err = ErrFrequencyZero
		return
	}
	if target > master {
		err = ErrFrequencyRatio
		return
	}

	s.target = target
	s.master = master
	s.acc = 0

	if s.Verbose {
		log.Printf("sched: coprocessor at %d/%d of master", target, master)
	}

	return
}

// Frequency returns the configured target and master frequencies.
func (s *Interleave) Frequency() (target, master uint32) {
	return s.target, s.master
}

// Enable starts or stops granting steps to the coprocessor.
func (s *Interleave) Enable(on bool) {
	s.enabled = on
}

// Enabled reports whether the coprocessor is being scheduled.
func (s *Interleave) Enabled() bool {
	return s.enabled
}

// Reset clears the accumulator and statistics.
func (s *Interleave) Reset() {
	s.acc = 0
	s.last = bus.OWNER_NONE
	s.Steps = 0
	s.Ticks = 0
}

// Step advances the master clock by one tick and returns which core owns
// the bus for it. Exactly one owner is produced per step.
func (s *Interleave) Step() (grant Grant) {
	s.Steps++

	owner := bus.OWNER_MAIN
	if s.enabled && s.master != 0 {
		s.acc += uint64(s.target)
		if s.acc >= uint64(s.master) {
			s.acc -= uint64(s.master)
			owner = bus.OWNER_COPROC
			s.Ticks++
		}
	}

	grant = Grant{
		Owner: owner,
		Relay: owner == bus.OWNER_MAIN && s.last == bus.OWNER_COPROC,
	}
	s.last = owner

	return
}
