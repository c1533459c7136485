package sched

// Latch is the one-entry mailbox carrying an interrupt from the
// coprocessor to the main core. A value is captured once, relayed to the
// main core at most once, and freed only by an explicit acknowledge.
type Latch struct {
	data    byte
	valid   bool
	relayed bool
}

// Capture stores an interrupt request. It fails, leaving the latch
// untouched, while a previous request is still outstanding.
func (l *Latch) Capture(data byte) (ok bool) {
	if l.valid {
		return
	}
	l.data = data
	l.valid = true
	l.relayed = false
	ok = true
	return
}

// Relay hands the pending request to the interrupt controller. It
// returns true only the first time a captured value is relayed.
func (l *Latch) Relay() (data byte, ok bool) {
	if !l.valid || l.relayed {
		return
	}
	l.relayed = true
	data = l.data
	ok = true
	return
}

// Pending reports whether a relayed request is awaiting acknowledge.
func (l *Latch) Pending() bool {
	return l.valid && l.relayed
}

// Valid reports whether the latch holds a request.
func (l *Latch) Valid() bool {
	return l.valid
}

// Peek returns the latched data without side effects.
func (l *Latch) Peek() byte {
	return l.data
}

// Ack consumes the request and frees the latch.
func (l *Latch) Ack() (data byte) {
	data = l.data
	l.valid = false
	l.relayed = false
	return
}

// Reset empties the latch.
func (l *Latch) Reset() {
	*l = Latch{}
}
