package bus

// Port is a core's handle on the bus. Every access asserts ownership.
type Port struct {
	bus   *Bus
	owner Owner
}

// Owner returns the owner this port acts for.
func (p *Port) Owner() Owner {
	return p.owner
}

// Granted reports whether the bus is currently granted to this port.
func (p *Port) Granted() bool {
	return p.bus.owner == p.owner
}

func (p *Port) check(addr uint32) {
	if p.bus.owner != p.owner {
		panic(ErrOwnership{Want: p.owner, Have: p.bus.owner, Addr: addr})
	}
}

// Read performs a little-endian access of 1, 2 or 4 bytes.
func (p *Port) Read(kind CycleKind, addr uint32, size int) uint32 {
	p.check(addr)
	return p.bus.read(p.owner, kind, addr, size)
}

// Write performs a little-endian store of 1, 2 or 4 bytes.
func (p *Port) Write(kind CycleKind, addr uint32, size int, value uint32) {
	p.check(addr)
	p.bus.write(p.owner, kind, addr, size, value)
}

// Read8 is a single byte data read.
func (p *Port) Read8(addr uint32) byte {
	return byte(p.Read(CYCLE_DATA, addr, 1))
}

// Write8 is a single byte data write.
func (p *Port) Write8(addr uint32, value byte) {
	p.Write(CYCLE_DATA, addr, 1, uint32(value))
}

// Stall records a cycle in which the target held the requester off.
func (p *Port) Stall(kind CycleKind, addr uint32, write bool) {
	p.check(addr)
	p.bus.trace(Cycle{Owner: p.owner, Kind: kind, Addr: addr, Write: write, Ready: false})
}

// Reserve places a load-linked reservation on the word holding addr.
func (p *Port) Reserve(addr uint32) {
	p.check(addr)
	p.bus.reserve(p.owner, addr)
}

// Reserved reports whether this port still holds a reservation on addr.
func (p *Port) Reserved(addr uint32) bool {
	return p.bus.reservedBy(p.owner, addr)
}

// Unreserve drops this port's reservation.
func (p *Port) Unreserve() {
	p.bus.unreserve(p.owner)
}
