package mmu

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/m65832/bus"
)

func newTestMmu() (mmu *Mmu, port *bus.Port) {
	b := bus.NewBus(0x10000)
	port = b.Port(bus.OWNER_MAIN)
	b.Grant(bus.OWNER_MAIN)
	mmu = NewMmu(port)
	return
}

func TestMmu_Disabled(t *testing.T) {
	assert := assert.New(t)

	mmu, _ := newTestMmu()
	pa, err := mmu.Translate(0x12345678, ACCESS_WRITE, false)
	assert.NoError(err)
	assert.Equal(uint32(0x12345678), pa)
	assert.Equal(uint64(0), mmu.Walks)
}

func TestMmu_Walk(t *testing.T) {
	assert := assert.New(t)

	mmu, port := newTestMmu()
	port.Write(bus.CYCLE_DATA, 0x1000, 4, 0x2000|PTE_PRESENT)
	port.Write(bus.CYCLE_DATA, 0x2000+3*4, 4, 0x4000|PTE_PRESENT|PTE_WRITABLE|PTE_USER)

	mmu.WriteReg(REG_PTBR_LO, 0x1000, 0xFFFFFFFF)
	mmu.WriteReg(REG_CONTROL, CONTROL_ENABLE, 0xFFFFFFFF)

	pa, err := mmu.Translate(0x3000, ACCESS_READ, false)
	assert.NoError(err)
	assert.Equal(uint32(0x4000), pa)

	pa, err = mmu.Translate(0x3ABC, ACCESS_WRITE, false)
	assert.NoError(err)
	assert.Equal(uint32(0x4ABC), pa)
	assert.Equal(uint64(1), mmu.Walks)
	assert.Equal(uint64(1), mmu.Hits)

	// Editing the page table is not seen until the TLB is flushed.
	port.Write(bus.CYCLE_DATA, 0x2000+3*4, 4, 0x5000|PTE_PRESENT|PTE_USER)
	pa, err = mmu.Translate(0x3000, ACCESS_WRITE, false)
	assert.NoError(err)
	assert.Equal(uint32(0x4000), pa)

	mmu.WriteReg(REG_TLB_FLUSH_VA, 0x3000, 0xFFFFFFFF)
	_, err = mmu.Translate(0x3000, ACCESS_WRITE, false)
	assert.ErrorIs(err, ErrFault)

	pa, err = mmu.Translate(0x3010, ACCESS_READ, false)
	assert.NoError(err)
	assert.Equal(uint32(0x5010), pa)
}

func TestMmu_Faults(t *testing.T) {
	assert := assert.New(t)

	mmu, port := newTestMmu()
	port.Write(bus.CYCLE_DATA, 0x1000, 4, 0x2000|PTE_PRESENT)
	port.Write(bus.CYCLE_DATA, 0x2000+0*4, 4, 0x8000|PTE_PRESENT)
	port.Write(bus.CYCLE_DATA, 0x2000+1*4, 4, 0x9000|PTE_PRESENT|PTE_USER)
	mmu.SetPtbr(0x1000)
	mmu.SetEnabled(true)

	table := [...]struct {
		va         uint32
		access     Access
		supervisor bool
		fault      FaultType
		pa         uint32
	}{
		{0x0000_0010, ACCESS_READ, true, FAULT_NONE, 0x8010},
		{0x0000_0010, ACCESS_READ, false, FAULT_USER, 0},
		{0x0000_0010, ACCESS_WRITE, true, FAULT_WRITE_PROTECT, 0},
		{0x0000_1020, ACCESS_EXEC, false, FAULT_NONE, 0x9020},
		{0x0000_1020, ACCESS_WRITE, false, FAULT_WRITE_PROTECT, 0},
		{0x0000_2000, ACCESS_READ, true, FAULT_NOT_PRESENT_L2, 0},
		{0x0040_0000, ACCESS_READ, true, FAULT_NOT_PRESENT_L1, 0},
	}

	for _, entry := range table {
		pa, err := mmu.Translate(entry.va, entry.access, entry.supervisor)
		if entry.fault == FAULT_NONE {
			assert.NoError(err, "%08x", entry.va)
			assert.Equal(entry.pa, pa, "%08x", entry.va)
			continue
		}

		var fault Fault
		if assert.ErrorAs(err, &fault, "%08x", entry.va) {
			assert.Equal(entry.fault, fault.Type, "%08x", entry.va)
			assert.Equal(entry.va, fault.Addr)
		}
		assert.Equal(entry.va, mmu.ReadReg(REG_FAULT_VA))
		assert.Equal(uint32(entry.fault)|uint32(entry.access)<<8, mmu.ReadReg(REG_FAULT_TYPE))
		assert.Equal(STATUS_ENABLED|STATUS_FAULT, mmu.ReadReg(REG_STATUS))
	}

	mmu.WriteReg(REG_STATUS, STATUS_FAULT, 0xFF)
	assert.Equal(STATUS_ENABLED, mmu.ReadReg(REG_STATUS))
	_, ok := mmu.LastFault()
	assert.False(ok)
}

func TestMmu_Asid(t *testing.T) {
	assert := assert.New(t)

	mmu, port := newTestMmu()
	port.Write(bus.CYCLE_DATA, 0x1000, 4, 0x2000|PTE_PRESENT)
	port.Write(bus.CYCLE_DATA, 0x2000, 4, 0x8000|PTE_PRESENT|PTE_USER)
	mmu.SetPtbr(0x1000)
	mmu.SetEnabled(true)

	mmu.SetAsid(1)
	pa, err := mmu.Translate(0x10, ACCESS_READ, false)
	assert.NoError(err)
	assert.Equal(uint32(0x8010), pa)

	// A second address space sharing the root re-walks and sees the edit.
	port.Write(bus.CYCLE_DATA, 0x2000, 4, 0xA000|PTE_PRESENT|PTE_USER)
	mmu.WriteReg(REG_ASID, 2, 0xFFFF)
	pa, _ = mmu.Translate(0x10, ACCESS_READ, false)
	assert.Equal(uint32(0xA010), pa)

	mmu.SetAsid(1)
	pa, _ = mmu.Translate(0x10, ACCESS_READ, false)
	assert.Equal(uint32(0x8010), pa)

	mmu.WriteReg(REG_TLB_FLUSH, FLUSH_ASID, 0xFFFFFFFF)
	pa, _ = mmu.Translate(0x10, ACCESS_READ, false)
	assert.Equal(uint32(0xA010), pa)
	assert.Equal(uint64(3), mmu.Walks)
}

func TestMmu_TlbCapacity(t *testing.T) {
	assert := assert.New(t)

	mmu, port := newTestMmu()
	port.Write(bus.CYCLE_DATA, 0x1000, 4, 0x2000|PTE_PRESENT)
	for n := uint32(0); n < 0x400; n++ {
		port.Write(bus.CYCLE_DATA, 0x2000+n*4, 4, (n<<PAGE_SHIFT)|PTE_PRESENT|PTE_USER)
	}
	mmu.SetPtbr(0x1000)
	mmu.SetEnabled(true)

	for n := uint32(0); n < TLB_SIZE+1; n++ {
		_, err := mmu.Translate(n<<PAGE_SHIFT, ACCESS_READ, false)
		assert.NoError(err)
	}
	assert.Equal(uint64(TLB_SIZE+1), mmu.Walks)

	// Round-robin replacement evicted the first page.
	_, _ = mmu.Translate(0, ACCESS_READ, false)
	assert.Equal(uint64(TLB_SIZE+2), mmu.Walks)
}

func TestMmu_Ptbr(t *testing.T) {
	assert := assert.New(t)

	mmu, _ := newTestMmu()
	mmu.WriteReg(REG_PTBR_HI, 0x12, 0xFFFFFFFF)
	mmu.WriteReg(REG_PTBR_LO, 0x3400, 0x0000FFFF)
	assert.Equal(uint64(0x12_0000_3400), mmu.Ptbr())
	assert.Equal(uint32(0x12), mmu.ReadReg(REG_PTBR_HI))

	defines := map[string]string{}
	for k, v := range mmu.Defines() {
		defines[k] = v
	}
	assert.Equal("$FFFFF01C", defines["MMU_FAULT_VA"])
}

func TestMmu_FaultError(t *testing.T) {
	assert := assert.New(t)

	fault := Fault{Addr: 0x00401000, Type: FAULT_USER, Access: ACCESS_WRITE}
	assert.Equal("write fault at $00401000: user access to supervisor page", fault.Error())
	assert.Equal(uint32(0x104), fault.Code())

	assert.Equal("level-2 not present", FAULT_NOT_PRESENT_L2.String())
	assert.Equal("FaultType(9)", FaultType(9).String())
	assert.Equal("exec", ACCESS_EXEC.String())
	assert.Equal("Access(-1)", Access(-1).String())
}
