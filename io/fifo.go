package io

// Fifo is a fixed capacity circular byte queue.
type Fifo struct {
	Capacity int

	ReadIndex  int
	WriteIndex int
	Size       int
	Data       []byte
}

// Rewind empties the queue and allocates its storage.
func (fifo *Fifo) Rewind() {
	fifo.ReadIndex = 0
	fifo.WriteIndex = 0
	fifo.Size = 0
	fifo.Data = make([]byte, fifo.Capacity)
}

// Full reports whether a Push would fail.
func (fifo *Fifo) Full() bool {
	return fifo.Size >= fifo.Capacity
}

// Push appends a byte. Returns ErrFifoFull at capacity.
func (fifo *Fifo) Push(value byte) (err error) {
	if fifo.Full() {
		err = ErrFifoFull
		return
	}

	fifo.Data[fifo.WriteIndex] = value

	fifo.WriteIndex++
	if fifo.WriteIndex == fifo.Capacity {
		fifo.WriteIndex = 0
	}
	fifo.Size++

	return
}

// Peek returns the oldest byte without removing it.
func (fifo *Fifo) Peek() (value byte, ok bool) {
	if fifo.Size == 0 {
		return
	}
	value = fifo.Data[fifo.ReadIndex]
	ok = true
	return
}

// Pop removes and returns the oldest byte.
func (fifo *Fifo) Pop() (value byte, ok bool) {
	value, ok = fifo.Peek()
	if !ok {
		return
	}

	fifo.ReadIndex++
	if fifo.ReadIndex == fifo.Capacity {
		fifo.ReadIndex = 0
	}
	fifo.Size--

	return
}
