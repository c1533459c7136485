package bus

import (
	"cmp"
	"encoding/binary"
	"log"
	"slices"
)

const (
	MMIO_BASE = uint32(0xFFFF_F000) // Base of the supervisor-only register window.
	MMIO_SIZE = uint32(0x1000)      // Size of the register window.
	PAGE_SIZE = uint32(0x100)       // Granularity of the io region map.
	PAGE_MASK = ^(PAGE_SIZE - 1)

	DEFAULT_MEMORY_SIZE = 16 * 1024 * 1024
)

// Device is a memory-mapped peripheral. Registers are 32 bits wide and
// word aligned; reg is the aligned offset from the start of the region.
// A write carries the byte-lane mask of the bytes actually driven.
type Device interface {
	ReadReg(reg uint32) uint32
	WriteReg(reg uint32, value uint32, mask uint32)
}

// Region is a registered slice of the mmio window.
type Region struct {
	Name   string
	Start  uint32
	End    uint32 // Inclusive.
	Device Device
}

type reservation struct {
	valid bool
	addr  uint32
}

// Bus is the physical address space shared by both cores.
type Bus struct {
	Verbose bool
	Trace   func(cycle Cycle) // Called for every completed cycle, if set.

	memory  []byte
	mapping map[uint32][]*Region
	regions []*Region

	owner    Owner
	grants   [3]uint64
	reserved [3]reservation

	Unmapped int // Accesses that hit neither memory nor a device.
}

// NewBus creates a bus with the given amount of physical memory.
func NewBus(size int) (bus *Bus) {
	bus = &Bus{
		memory:  make([]byte, size),
		mapping: make(map[uint32][]*Region),
	}

	return
}

// Size returns the size of physical memory.
func (bus *Bus) Size() int {
	return len(bus.memory)
}

// Memory exposes physical memory to the host, for loaders and tests.
func (bus *Bus) Memory() []byte {
	return bus.memory
}

// Regions returns the registered io regions, in address order.
func (bus *Bus) Regions() []*Region {
	return slices.Clone(bus.regions)
}

// MapIO registers a device over [start, end] inside the mmio window.
func (bus *Bus) MapIO(name string, start, end uint32, device Device) (err error) {
	if start < MMIO_BASE || end < start {
		err = ErrRegionRange
		return
	}
	for _, region := range bus.regions {
		if start <= region.End && end >= region.Start {
			err = ErrRegionOverlap
			return
		}
	}

	region := &Region{Name: name, Start: start, End: end, Device: device}

	firstPage := start & PAGE_MASK
	lastPage := end & PAGE_MASK
	for page := firstPage; ; page += PAGE_SIZE {
		bus.mapping[page] = append(bus.mapping[page], region)
		if page == lastPage {
			break
		}
	}

	bus.regions = append(bus.regions, region)
	slices.SortFunc(bus.regions, func(a, b *Region) int { return cmp.Compare(a.Start, b.Start) })

	return
}

// IsMMIO reports whether a physical address lies in the register window.
func IsMMIO(addr uint32) bool {
	return addr >= MMIO_BASE
}

func (bus *Bus) region(addr uint32) *Region {
	for _, region := range bus.mapping[addr&PAGE_MASK] {
		if addr >= region.Start && addr <= region.End {
			return region
		}
	}
	return nil
}

// Grant hands the bus to a single owner for the current step. Exactly
// one owner holds the bus at a time; granting replaces the previous one.
func (bus *Bus) Grant(owner Owner) {
	bus.owner = owner
	bus.grants[owner]++
}

// Owner returns the current bus owner.
func (bus *Bus) Owner() Owner {
	return bus.owner
}

// Grants returns how many steps have been granted to an owner.
func (bus *Bus) Grants(owner Owner) uint64 {
	return bus.grants[owner]
}

// Port returns the access handle for one owner.
func (bus *Bus) Port(owner Owner) *Port {
	return &Port{bus: bus, owner: owner}
}

// Reset clears reservations and grants. Memory keeps its contents and
// io regions stay mapped.
func (bus *Bus) Reset() {
	clear(bus.reserved[:])
	clear(bus.grants[:])
	bus.owner = OWNER_NONE
	bus.Unmapped = 0
}

func (bus *Bus) read(owner Owner, kind CycleKind, addr uint32, size int) (value uint32) {
	if IsMMIO(addr) {
		value = bus.readIO(addr, size)
	} else if int64(addr)+int64(size) <= int64(len(bus.memory)) {
		switch size {
		case 1:
			value = uint32(bus.memory[addr])
		case 2:
			value = uint32(binary.LittleEndian.Uint16(bus.memory[addr:]))
		case 4:
			value = binary.LittleEndian.Uint32(bus.memory[addr:])
		default:
			panic(ErrAccessSize)
		}
	} else {
		bus.unmapped(owner, addr, false)
	}

	bus.trace(Cycle{Owner: owner, Kind: kind, Addr: addr, Data: value, Size: size, Ready: true})
	return
}

func (bus *Bus) write(owner Owner, kind CycleKind, addr uint32, size int, value uint32) {
	bus.snoop(addr, size)

	if IsMMIO(addr) {
		bus.writeIO(addr, size, value)
	} else if int64(addr)+int64(size) <= int64(len(bus.memory)) {
		switch size {
		case 1:
			bus.memory[addr] = byte(value)
		case 2:
			binary.LittleEndian.PutUint16(bus.memory[addr:], uint16(value))
		case 4:
			binary.LittleEndian.PutUint32(bus.memory[addr:], value)
		default:
			panic(ErrAccessSize)
		}
	} else {
		bus.unmapped(owner, addr, true)
	}

	bus.trace(Cycle{Owner: owner, Kind: kind, Addr: addr, Data: value, Size: size, Write: true, Ready: true})
}

func (bus *Bus) unmapped(owner Owner, addr uint32, write bool) {
	bus.Unmapped++
	if bus.Verbose {
		dir := "read"
		if write {
			dir = "write"
		}
		log.Printf("bus: %v unmapped %v at %08x", owner, dir, addr)
	}
}

func (bus *Bus) trace(cycle Cycle) {
	if bus.Trace != nil {
		bus.Trace(cycle)
	}
}

// readIO performs one register access per aligned word touched.
func (bus *Bus) readIO(addr uint32, size int) (value uint32) {
	for n := 0; n < size; {
		a := addr + uint32(n)
		lane := a & 3
		take := min(4-int(lane), size-n)

		var word uint32
		region := bus.region(a)
		if region != nil {
			word = region.Device.ReadReg((a - region.Start) &^ 3)
		} else {
			bus.Unmapped++
		}
		part := (word >> (lane * 8)) & laneMask(take)
		value |= part << (uint(n) * 8)
		n += take
	}

	return
}

func (bus *Bus) writeIO(addr uint32, size int, value uint32) {
	for n := 0; n < size; {
		a := addr + uint32(n)
		lane := a & 3
		take := min(4-int(lane), size-n)

		part := (value >> (uint(n) * 8)) & laneMask(take)
		region := bus.region(a)
		if region != nil {
			region.Device.WriteReg((a-region.Start)&^3, part<<(lane*8), laneMask(take)<<(lane*8))
		} else {
			bus.Unmapped++
		}
		n += take
	}
}

func laneMask(bytes int) uint32 {
	if bytes >= 4 {
		return 0xFFFF_FFFF
	}
	return (uint32(1) << (uint(bytes) * 8)) - 1
}
