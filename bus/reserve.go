package bus

// Load-linked/store-conditional reservations live on the bus so that a
// write from either core to the reserved word breaks them.

func (bus *Bus) reserve(owner Owner, addr uint32) {
	bus.reserved[owner] = reservation{valid: true, addr: addr &^ 3}
}

func (bus *Bus) reservedBy(owner Owner, addr uint32) bool {
	r := bus.reserved[owner]
	return r.valid && r.addr == addr&^3
}

func (bus *Bus) unreserve(owner Owner) {
	bus.reserved[owner] = reservation{}
}

// snoop breaks every reservation overlapping a write.
func (bus *Bus) snoop(addr uint32, size int) {
	first := addr &^ 3
	last := (addr + uint32(size) - 1) &^ 3
	for n := range bus.reserved {
		r := &bus.reserved[n]
		if r.valid && (r.addr == first || r.addr == last) {
			r.valid = false
		}
	}
}
