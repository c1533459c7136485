// Package mmu implements the paged memory management unit of the main
// core: a two-level page table walker, an ASID-tagged TLB, permission
// enforcement and the fault latch.
//
// A virtual address splits into a 10-bit level-1 index, a 10-bit level-2
// index and a 12-bit page offset. Both table levels hold 32-bit entries:
//
//	31            12 11       3   2   1   0
//	+---------------+----------+---+---+---+
//	|  frame        |    --    | U | W | P |
//	+---------------+----------+---+---+---+
//
// A level-1 entry names a level-2 table; only its P bit is consulted.
package mmu

import (
	"log"

	"github.com/ezrec/m65832/bus"
)

const (
	PAGE_SHIFT = 12
	PAGE_SIZE  = uint32(1) << PAGE_SHIFT
	PAGE_MASK  = PAGE_SIZE - 1

	PTE_PRESENT  = uint32(1 << 0)
	PTE_WRITABLE = uint32(1 << 1)
	PTE_USER     = uint32(1 << 2)
	PTE_FRAME    = ^PAGE_MASK

	TLB_SIZE = 64
)

//go:generate go tool stringer -linecomment -type=Access

// Access is the kind of memory access being translated.
type Access int

const (
	ACCESS_READ  = Access(0) // read
	ACCESS_WRITE = Access(1) // write
	ACCESS_EXEC  = Access(2) // exec
)

type tlbEntry struct {
	valid bool
	vpn   uint32
	asid  uint32
	frame uint32
	perm  uint32
}

// Mmu is the translation state of the main core.
type Mmu struct {
	Verbose bool

	port *bus.Port

	enabled bool
	asid    uint32
	ptbr    uint64

	faultAddr  uint32
	faultType  FaultType
	faultKind  Access
	faultValid bool

	tlb  [TLB_SIZE]tlbEntry
	next int

	Hits   uint64
	Misses uint64
	Walks  uint64
}

// NewMmu creates an MMU that walks page tables through the given port.
func NewMmu(port *bus.Port) (mmu *Mmu) {
	mmu = &Mmu{
		port: port,
	}

	return
}

// Reset disables translation and invalidates the TLB.
func (mmu *Mmu) Reset() {
	mmu.enabled = false
	mmu.asid = 0
	mmu.ptbr = 0
	mmu.faultAddr = 0
	mmu.faultType = FAULT_NONE
	mmu.faultKind = ACCESS_READ
	mmu.faultValid = false
	mmu.Flush()
	mmu.Hits = 0
	mmu.Misses = 0
	mmu.Walks = 0
}

// Enabled reports whether translation is on.
func (mmu *Mmu) Enabled() bool {
	return mmu.enabled
}

// SetEnabled turns translation on or off.
func (mmu *Mmu) SetEnabled(on bool) {
	mmu.enabled = on
}

// Asid returns the current address-space identifier.
func (mmu *Mmu) Asid() uint32 {
	return mmu.asid
}

// SetAsid selects the address space used to tag new TLB entries.
func (mmu *Mmu) SetAsid(asid uint32) {
	mmu.asid = asid & 0xFFFF
}

// Ptbr returns the page-table base register.
func (mmu *Mmu) Ptbr() uint64 {
	return mmu.ptbr
}

// SetPtbr sets the physical address of the level-1 table. Changing the
// root does not flush the TLB.
func (mmu *Mmu) SetPtbr(base uint64) {
	mmu.ptbr = base
}

// LastFault returns the latched fault, if any.
func (mmu *Mmu) LastFault() (fault Fault, ok bool) {
	if !mmu.faultValid {
		return
	}
	fault = Fault{Addr: mmu.faultAddr, Type: mmu.faultType, Access: mmu.faultKind}
	ok = true
	return
}

// Flush invalidates every TLB entry.
func (mmu *Mmu) Flush() {
	clear(mmu.tlb[:])
	mmu.next = 0
}

// FlushAsid invalidates the TLB entries of one address space.
func (mmu *Mmu) FlushAsid(asid uint32) {
	for n := range mmu.tlb {
		if mmu.tlb[n].asid == asid {
			mmu.tlb[n].valid = false
		}
	}
}

// FlushPage invalidates the entries mapping the page holding va, in
// every address space.
func (mmu *Mmu) FlushPage(va uint32) {
	vpn := va >> PAGE_SHIFT
	for n := range mmu.tlb {
		if mmu.tlb[n].vpn == vpn {
			mmu.tlb[n].valid = false
		}
	}
}

func (mmu *Mmu) lookup(vpn uint32) *tlbEntry {
	for n := range mmu.tlb {
		entry := &mmu.tlb[n]
		if entry.valid && entry.vpn == vpn && entry.asid == mmu.asid {
			return entry
		}
	}
	return nil
}

func (mmu *Mmu) install(vpn, pte uint32) *tlbEntry {
	entry := &mmu.tlb[mmu.next]
	mmu.next = (mmu.next + 1) % TLB_SIZE

	*entry = tlbEntry{
		valid: true,
		vpn:   vpn,
		asid:  mmu.asid,
		frame: pte & PTE_FRAME,
		perm:  pte & (PTE_PRESENT | PTE_WRITABLE | PTE_USER),
	}
	return entry
}

// walk reads the two table levels for vpn. It performs bus cycles and
// therefore must only run while the main core owns the bus.
func (mmu *Mmu) walk(va uint32) (pte uint32, fault FaultType) {
	mmu.Walks++

	root := uint32(mmu.ptbr)
	l1 := mmu.port.Read(bus.CYCLE_WALK, root+(va>>22)*4, 4)
	if l1&PTE_PRESENT == 0 {
		fault = FAULT_NOT_PRESENT_L1
		return
	}

	l2 := mmu.port.Read(bus.CYCLE_WALK, (l1&PTE_FRAME)+((va>>PAGE_SHIFT)&0x3FF)*4, 4)
	if l2&PTE_PRESENT == 0 {
		fault = FAULT_NOT_PRESENT_L2
		return
	}

	pte = l2
	return
}

// Translate maps a virtual address to a physical address for the given
// access. Any violation is returned as a Fault, latched into the fault
// registers; nothing is ever silently clamped.
func (mmu *Mmu) Translate(va uint32, access Access, supervisor bool) (pa uint32, err error) {
	if !mmu.enabled {
		pa = va
		return
	}

	vpn := va >> PAGE_SHIFT
	entry := mmu.lookup(vpn)
	if entry != nil {
		mmu.Hits++
	} else {
		mmu.Misses++
		pte, fault := mmu.walk(va)
		if fault != FAULT_NONE {
			err = mmu.latch(va, fault, access)
			return
		}
		entry = mmu.install(vpn, pte)
	}

	switch {
	case !supervisor && entry.perm&PTE_USER == 0:
		err = mmu.latch(va, FAULT_USER, access)
		return
	case access == ACCESS_WRITE && entry.perm&PTE_WRITABLE == 0:
		err = mmu.latch(va, FAULT_WRITE_PROTECT, access)
		return
	}

	pa = entry.frame | (va & PAGE_MASK)
	return
}

func (mmu *Mmu) latch(va uint32, fault FaultType, access Access) error {
	mmu.faultAddr = va
	mmu.faultType = fault
	mmu.faultKind = access
	mmu.faultValid = true

	if mmu.Verbose {
		log.Printf("mmu: %v fault at %08x (%v)", access, va, fault)
	}

	return Fault{Addr: va, Type: fault, Access: access}
}
