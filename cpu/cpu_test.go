package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezrec/m65832/bus"
	"github.com/ezrec/m65832/mmu"
)

type machine struct {
	bus *bus.Bus
	cpu *Cpu
}

func newMachine() (m *machine) {
	b := bus.NewBus(0x20000)
	b.Grant(bus.OWNER_MAIN)
	m = &machine{
		bus: b,
		cpu: NewCpu(b.Port(bus.OWNER_MAIN)),
	}
	return
}

func (m *machine) poke(addr uint32, size int, value uint32) {
	m.cpu.Port().Write(bus.CYCLE_DATA, addr, size, value)
}

func (m *machine) peek(addr uint32, size int) uint32 {
	return m.cpu.Port().Read(bus.CYCLE_DATA, addr, size)
}

// load encodes the instructions at addr and points the core at them.
func (m *machine) load(t *testing.T, addr uint32, list ...Instruction) {
	m.cpu.PC = addr
	for _, ins := range list {
		code, err := ins.Encode()
		require.NoError(t, err, ins.String())
		copy(m.bus.Memory()[addr:], code)
		addr += uint32(len(code))
	}
}

func (m *machine) step(t *testing.T, n int) {
	for range n {
		require.NoError(t, m.cpu.Step())
	}
}

func op(mn Mnemonic, mode Mode, size int, value uint32) Instruction {
	return Instruction{Form: FORM_PRIMARY, Mnemonic: mn, Mode: mode, Size: size, Value: value}
}

func imp(mn Mnemonic) Instruction {
	return op(mn, MODE_IMP, 0, 0)
}

func alu(mn Mnemonic, size int, dst int, src AluSource, value uint32) Instruction {
	ins := Instruction{Form: FORM_ALU, Mnemonic: mn, Size: size, Value: value}
	ins.Alu = NewAluMode(size, dst >= 0, src)
	if dst >= 0 {
		ins.Dst = byte(dst)
	}
	return ins
}

const (
	wide = FLAG_M32 | FLAG_X32
)

func TestCpu_Reset(t *testing.T) {
	assert := assert.New(t)

	m := newMachine()
	m.poke(0xFFFC, 2, 0x0400)
	m.cpu.A = 0x1234
	m.cpu.Reset()

	assert.Equal(uint32(0x0400), m.cpu.PC)
	assert.Equal(uint32(0x01FF), m.cpu.SP)
	assert.Equal(uint32(0), m.cpu.A)
	assert.Equal(FLAG_E|FLAG_S|FLAG_I|FLAG_M8|FLAG_X8, m.cpu.P)
	assert.False(m.cpu.Mmu.Enabled())

	defines := map[string]string{}
	for k, v := range m.cpu.Defines() {
		defines[k] = v
	}
	assert.Equal("$2000", defines["FLAG_E"])
	assert.Equal("$20", defines["FLAG_E_HI"])
	assert.Equal("$C", defines["VEC_ABORT"])
	assert.Equal("$100", defines["VEC_TRAP_TABLE"])
}

func TestCpu_Privilege(t *testing.T) {
	assert := assert.New(t)

	m := newMachine()
	m.poke(TRAP_TABLE+4*uint32(TRAP_PRIVILEGE), 4, 0x2000)
	m.load(t, 0x2000, imp(RTI))
	m.load(t, 0x1000, alu(ST, 4, -1, SRC_ABS32, mmu.MMIO_MMU+mmu.REG_CONTROL))

	user := wide
	m.cpu.P = user
	m.cpu.A = mmu.CONTROL_ENABLE
	m.cpu.SP = 0x8000
	m.cpu.SSP = 0x9000

	m.step(t, 1)
	assert.False(m.cpu.Mmu.Enabled())
	assert.Equal(0, m.bus.Unmapped)
	assert.Equal(uint64(1), m.cpu.Traps)
	assert.Equal(VEC_TRAP, m.cpu.LastTrap.Vector)
	assert.Equal(TRAP_PRIVILEGE, m.cpu.LastTrap.Index)
	assert.Equal(uint32(0x2000), m.cpu.PC)
	assert.True(m.cpu.P&FLAG_S != 0)
	assert.Equal(uint32(0x8000), m.cpu.USP)
	assert.Equal(uint32(0x9000-6), m.cpu.SP)
	assert.Equal(uint32(user), m.peek(m.cpu.SP+1, 2))
	assert.Equal(uint32(0x1000), m.peek(m.cpu.SP+3, 4))

	// Returning to user mode restores the user stack.
	m.step(t, 1)
	assert.Equal(uint32(0x1000), m.cpu.PC)
	assert.Equal(user, m.cpu.P)
	assert.Equal(uint32(0x8000), m.cpu.SP)
	assert.Equal(uint32(0x9000), m.cpu.SSP)
	assert.Equal(uint64(1), m.cpu.Traps)
}

type counter struct {
	reads uint32
}

func (c *counter) ReadReg(reg uint32) uint32 {
	c.reads++
	return c.reads
}

func (c *counter) WriteReg(reg uint32, value uint32, mask uint32) {}

func TestCpu_DeviceRead(t *testing.T) {
	assert := assert.New(t)

	const reg = bus.MMIO_BASE + 0xF00

	table := [...]struct {
		p     Status
		reads uint32
		traps uint64
	}{
		{FLAG_S | wide, 1, 0},
		{wide, 0, 1},
	}

	for _, entry := range table {
		m := newMachine()
		dev := &counter{}
		require.NoError(t, m.bus.MapIO("counter", reg, reg+0xFF, dev))
		m.poke(TRAP_TABLE+4*uint32(TRAP_PRIVILEGE), 4, 0x2000)
		m.load(t, 0x1000, alu(LD, 4, -1, SRC_ABS32, reg))
		m.cpu.P = entry.p
		m.cpu.SP = 0x8000
		m.cpu.SSP = 0x9000

		m.step(t, 1)
		assert.Equal(entry.reads, dev.reads, "%v", entry.p)
		assert.Equal(entry.traps, m.cpu.Traps, "%v", entry.p)
		assert.Equal(entry.reads, m.cpu.A, "%v", entry.p)
	}
}

func TestCpu_PrivilegedInstructions(t *testing.T) {
	assert := assert.New(t)

	table := [...]struct {
		ins   Instruction
		check func(cpu *Cpu) bool
	}{
		{Instruction{Form: FORM_EXTENDED, Mnemonic: SVBR, Mode: MODE_IMM, Size: 4, Value: 0x4000},
			func(cpu *Cpu) bool { return cpu.VBR == 0 }},
		{Instruction{Form: FORM_EXTENDED, Mnemonic: SEPE, Mode: MODE_IMM, Size: 1, Value: uint32(FLAG_E >> 8)},
			func(cpu *Cpu) bool { return cpu.P&FLAG_E == 0 }},
		{Instruction{Form: FORM_EXTENDED, Mnemonic: PLVBR, Mode: MODE_IMP},
			func(cpu *Cpu) bool { return cpu.VBR == 0 }},
		{imp(STP),
			func(cpu *Cpu) bool { return !cpu.Stopped }},
	}

	for _, entry := range table {
		m := newMachine()
		m.poke(TRAP_TABLE+4*uint32(TRAP_PRIVILEGE), 4, 0x2000)
		m.load(t, 0x1000, entry.ins)
		m.cpu.P = 0
		m.cpu.SP = 0x1F00
		m.cpu.SSP = 0x1800

		m.step(t, 1)
		assert.Equal(uint64(1), m.cpu.Traps, entry.ins.String())
		assert.Equal(TRAP_PRIVILEGE, m.cpu.LastTrap.Index, entry.ins.String())
		assert.True(entry.check(m.cpu), entry.ins.String())
	}
}

func TestCpu_IllegalOpcode(t *testing.T) {
	assert := assert.New(t)

	table := [...]struct {
		p    Status
		trap bool
	}{
		{FLAG_S, true},
		{FLAG_S | FLAG_K, false},
		{FLAG_S | FLAG_K | wide, true},
		{FLAG_S | FLAG_E | FLAG_K, false},
		{FLAG_S | FLAG_M8 | FLAG_X8, true},
	}

	for _, entry := range table {
		m := newMachine()
		m.poke(4*uint32(VEC_ILLEGAL), 4, 0x3000)
		copy(m.bus.Memory()[0x1000:], []byte{ESCAPE, 0xFF, 0xEA})
		m.cpu.PC = 0x1000
		m.cpu.P = entry.p.normalize()
		m.cpu.SP = 0x1F0

		m.step(t, 1)
		if entry.trap {
			assert.Equal(uint64(1), m.cpu.Traps, "%v", entry.p)
			assert.Equal(VEC_ILLEGAL, m.cpu.LastTrap.Vector)
			assert.Equal(uint32(0x3000), m.cpu.PC)
			assert.Equal(uint32(0x1000), m.peek(m.cpu.SP+3, 4))
		} else {
			assert.Equal(uint64(0), m.cpu.Traps, "%v", entry.p)
			assert.Equal(uint32(0x1002), m.cpu.PC)
		}
	}
}

func TestCpu_Interrupt(t *testing.T) {
	assert := assert.New(t)

	m := newMachine()
	m.poke(4*uint32(VEC_IRQ), 4, 0x2000)
	m.poke(4*uint32(VEC_NMI), 4, 0x2800)
	m.load(t, 0x2000, imp(NOP))
	m.load(t, 0x1000, imp(NOP))
	m.cpu.P = 0
	m.cpu.SP = 0x1000
	m.cpu.SSP = 0x4000

	m.cpu.SetIRQ(true)
	m.step(t, 1)
	assert.Equal(VEC_IRQ, m.cpu.LastTrap.Vector)
	assert.Equal(uint32(0x2000), m.cpu.PC)
	assert.Equal(FLAG_S|FLAG_I, m.cpu.P)
	assert.Equal(uint32(0x1000), m.cpu.USP)
	assert.Equal(uint32(0x4000-6), m.cpu.SP)
	assert.Equal(uint32(0), m.peek(m.cpu.SP+1, 2))
	assert.Equal(uint32(0x1000), m.peek(m.cpu.SP+3, 4))

	// The level stays asserted but I now masks it.
	m.step(t, 1)
	assert.Equal(uint32(0x2001), m.cpu.PC)
	assert.Equal(uint64(1), m.cpu.Traps)

	m.cpu.NMI()
	m.step(t, 1)
	assert.Equal(VEC_NMI, m.cpu.LastTrap.Vector)
	assert.Equal(uint32(0x2800), m.cpu.PC)
	assert.Equal(uint32(0x2001), m.peek(m.cpu.SP+3, 4))
	assert.Equal(uint32(FLAG_S|FLAG_I), m.peek(m.cpu.SP+1, 2))
	assert.Equal(uint64(2), m.cpu.Traps)
}

func TestCpu_Wait(t *testing.T) {
	assert := assert.New(t)

	m := newMachine()
	m.poke(4*uint32(VEC_IRQ), 4, 0x2000)
	m.load(t, 0x1000, imp(WAI), imp(NOP))
	m.cpu.P = FLAG_S
	m.cpu.SP = 0x1FF

	m.step(t, 3)
	assert.True(m.cpu.Waiting)
	assert.Equal(uint64(2), m.cpu.Idle)
	assert.Equal(uint32(0x1001), m.cpu.PC)

	m.cpu.SetIRQ(true)
	m.step(t, 1)
	assert.False(m.cpu.Waiting)
	assert.Equal(uint32(0x2000), m.cpu.PC)
	assert.Equal(uint32(0x1001), m.peek(m.cpu.SP+3, 4))
}

func TestCpu_Stop(t *testing.T) {
	assert := assert.New(t)

	m := newMachine()
	m.load(t, 0x1000, imp(STP))
	m.cpu.P = FLAG_S

	m.step(t, 1)
	assert.True(m.cpu.Stopped)
	assert.ErrorIs(m.cpu.Step(), ErrStopped)
}

func TestCpu_MmuFault(t *testing.T) {
	assert := assert.New(t)

	m := newMachine()
	m.poke(0x10000, 4, 0x11000|mmu.PTE_PRESENT)
	for page := range uint32(16) {
		if page != 5 {
			m.poke(0x11000+4*page, 4, page<<mmu.PAGE_SHIFT|mmu.PTE_PRESENT|mmu.PTE_WRITABLE)
		}
	}
	m.cpu.Mmu.SetPtbr(0x10000)
	m.cpu.Mmu.SetEnabled(true)

	m.poke(4*uint32(VEC_ABORT), 4, 0x2000)
	m.load(t, 0x2000, imp(RTI))
	m.load(t, 0x1000, alu(LD, 4, -1, SRC_ABS32, 0x5000))
	m.cpu.P = FLAG_S | wide
	m.cpu.SP = 0x8000

	m.step(t, 1)
	assert.Equal(VEC_ABORT, m.cpu.LastTrap.Vector)
	assert.ErrorIs(m.cpu.LastTrap.Fault, mmu.ErrFault)
	assert.Equal(uint32(0), m.cpu.A)
	assert.Equal(uint32(0x2000), m.cpu.PC)
	assert.Equal(uint32(0x1000), m.peek(m.cpu.SP+3, 4))

	fault, ok := m.cpu.Mmu.LastFault()
	assert.True(ok)
	assert.Equal(uint32(0x5000), fault.Addr)
	assert.Equal(mmu.FAULT_NOT_PRESENT_L2, fault.Type)

	// Map the page; the faulting instruction runs again after RTI.
	m.poke(0x11000+4*5, 4, 0x6000|mmu.PTE_PRESENT|mmu.PTE_WRITABLE)
	m.poke(0x6000, 4, 0xCAFEBABE)
	m.cpu.Mmu.FlushPage(0x5000)

	m.step(t, 2)
	assert.Equal(uint32(0xCAFEBABE), m.cpu.A)
	assert.Equal(uint32(0x1007), m.cpu.PC)
	assert.Equal(uint64(1), m.cpu.Traps)
}

func TestCpu_Window(t *testing.T) {
	assert := assert.New(t)

	m := newMachine()
	m.poke(4*uint32(VEC_ALIGN), 4, 0x3000)
	m.load(t, 0x1000,
		op(LDA, MODE_DP, 2, 0x08),
		op(STA, MODE_DP, 2, 0x0C),
		op(LDA, MODE_DP, 2, 0x05),
	)
	m.cpu.P = FLAG_S | FLAG_R
	m.cpu.SP = 0x1F0
	m.cpu.R[2] = 0x12345678
	m.cpu.R[3] = 0xFFFFFFFF

	m.step(t, 2)
	assert.Equal(uint32(0x5678), m.cpu.A)
	assert.Equal(uint32(0xFFFF5678), m.cpu.R[3])
	assert.Equal(uint32(0), m.peek(0x0C, 2))

	m.step(t, 1)
	assert.Equal(VEC_ALIGN, m.cpu.LastTrap.Vector)
	assert.Equal(uint32(0x1004), m.peek(m.cpu.SP+3, 4))
	assert.Equal(uint32(0x5678), m.cpu.A)
}

func TestCpu_Atomics(t *testing.T) {
	assert := assert.New(t)

	ext := func(mn Mnemonic) Instruction {
		return Instruction{Form: FORM_EXTENDED, Mnemonic: mn, Mode: MODE_ABS, Size: 4, Value: 0x3000}
	}

	m := newMachine()
	m.poke(0x3000, 4, 5)
	m.load(t, 0x1000, ext(LLI), ext(SCI), ext(SCI), ext(CAS), ext(CAS))
	m.cpu.P = FLAG_S | wide

	m.step(t, 1)
	assert.Equal(uint32(5), m.cpu.A)
	assert.True(m.cpu.Port().Reserved(0x3000))

	m.cpu.A = 9
	m.step(t, 1)
	assert.True(m.cpu.P&FLAG_Z != 0)
	assert.Equal(uint32(9), m.peek(0x3000, 4))
	assert.False(m.cpu.Port().Reserved(0x3000))

	m.cpu.A = 10
	m.step(t, 1)
	assert.True(m.cpu.P&FLAG_Z == 0)
	assert.Equal(uint32(9), m.peek(0x3000, 4))

	m.cpu.A, m.cpu.X = 11, 9
	m.step(t, 1)
	assert.True(m.cpu.P&FLAG_Z != 0)
	assert.Equal(uint32(11), m.peek(0x3000, 4))

	m.step(t, 1)
	assert.True(m.cpu.P&FLAG_Z == 0)
	assert.Equal(uint32(11), m.cpu.X)
}

func TestCpu_MulDiv(t *testing.T) {
	assert := assert.New(t)

	table := [...]struct {
		p      Status
		mn     Mnemonic
		a, mem uint32
		lo, hi uint32
		v      bool
	}{
		{wide, MULU, 0x10000, 0x10000, 0, 1, true},
		{wide, MUL, 0xFFFFFFFF, 5, 0xFFFFFFFB, 0xFFFFFFFF, false},
		{wide, DIV, 0xFFFFFFF9, 2, 0xFFFFFFFD, 0xFFFFFFFF, false},
		{wide, DIVU, 100, 7, 14, 2, false},
		{0, MUL, 0xFFFF, 2, 0xFFFE, 0xFFFF, false},
		{0, MULU, 0x100, 0x100, 0, 1, true},
		{FLAG_M8, MULU, 0x12, 0x10, 0x20, 0x01, true},
		{FLAG_M8, DIV, 0x80, 0xFF, 0x80, 0, true},
	}

	for _, entry := range table {
		m := newMachine()
		m.poke(0x10, 4, entry.mem)
		w := Snapshot{P: entry.p}.MWidth()
		m.load(t, 0x1000, Instruction{Form: FORM_EXTENDED, Mnemonic: entry.mn, Mode: MODE_DP, Size: w, Value: 0x10})
		m.cpu.P = FLAG_S | entry.p
		m.cpu.A = entry.a

		m.step(t, 1)
		assert.Equal(entry.lo, m.cpu.A&mask(w), "%v %x %x", entry.mn, entry.a, entry.mem)
		assert.Equal(entry.hi, m.cpu.T, "%v %x %x", entry.mn, entry.a, entry.mem)
		assert.Equal(entry.v, m.cpu.P&FLAG_V != 0, "%v %x %x", entry.mn, entry.a, entry.mem)
	}

	// Division by zero re-executes after the handler.
	m := newMachine()
	m.poke(4*uint32(VEC_DIVIDE), 4, 0x2000)
	m.load(t, 0x1000, Instruction{Form: FORM_EXTENDED, Mnemonic: DIVU, Mode: MODE_DP, Size: 2, Value: 0x10})
	m.cpu.P = FLAG_S
	m.cpu.SP = 0x1F0
	m.cpu.A = 1234

	m.step(t, 1)
	assert.Equal(VEC_DIVIDE, m.cpu.LastTrap.Vector)
	assert.Equal(uint32(1234), m.cpu.A)
	assert.Equal(uint32(0x1000), m.peek(m.cpu.SP+3, 4))
}

func TestCpu_Decimal(t *testing.T) {
	assert := assert.New(t)

	table := [...]struct {
		mn    Mnemonic
		a, b  uint32
		carry bool
		r     uint32
		c     bool
	}{
		{ADC, 0x45, 0x38, false, 0x83, false},
		{ADC, 0x99, 0x01, false, 0x00, true},
		{ADC, 0x58, 0x46, true, 0x05, true},
		{SBC, 0x50, 0x01, true, 0x49, true},
		{SBC, 0x00, 0x01, true, 0x99, false},
		{SBC, 0x46, 0x12, false, 0x33, true},
	}

	for _, entry := range table {
		m := newMachine()
		m.load(t, 0x1000, op(entry.mn, MODE_IMM, 1, entry.b))
		m.cpu.P = FLAG_S | FLAG_D | FLAG_M8 | FLAG_X8
		if entry.carry {
			m.cpu.P |= FLAG_C
		}
		m.cpu.A = entry.a

		m.step(t, 1)
		assert.Equal(entry.r, m.cpu.A, "%v %x %x", entry.mn, entry.a, entry.b)
		assert.Equal(entry.c, m.cpu.P&FLAG_C != 0, "%v %x %x", entry.mn, entry.a, entry.b)
	}
}

func TestCpu_Emulation(t *testing.T) {
	assert := assert.New(t)

	for _, status := range []int{1, 2} {
		m := newMachine()
		m.cpu.EmuStatusBytes = status
		m.poke(0xFFFC, 2, 0x0400)
		m.poke(0xFFFE, 2, 0x0600)
		m.load(t, 0x0600, imp(RTI))
		m.load(t, 0x0400, op(BRK, MODE_IMM, 1, 0), imp(NOP))
		m.cpu.Reset()
		saved := m.cpu.P

		m.step(t, 1)
		assert.Equal(uint32(0x0600), m.cpu.PC)
		assert.Equal(VEC_BRK, m.cpu.LastTrap.Vector)
		sp := uint32(0x1FF - 2 - status)
		assert.Equal(sp, m.cpu.SP)
		assert.Equal(uint32(0x0402), m.peek(sp+1+uint32(status), 2))
		if status == 2 {
			assert.Equal(uint32(saved|FLAG_B), m.peek(sp+1, 2))
		} else {
			assert.Equal(uint32(saved.Low()|byte(FLAG_B)), m.peek(sp+1, 1))
		}

		m.step(t, 1)
		assert.Equal(uint32(0x0402), m.cpu.PC)
		assert.Equal(uint32(0x1FF), m.cpu.SP)
		assert.Equal(saved, m.cpu.P)
	}
}

func TestCpu_ExchangeCarryEmulation(t *testing.T) {
	assert := assert.New(t)

	table := [...]struct {
		p    Status
		trap bool
	}{
		{FLAG_C, true},
		{0, false},
		{FLAG_S | FLAG_C, false},
	}

	for _, entry := range table {
		m := newMachine()
		m.poke(TRAP_TABLE+4*uint32(TRAP_PRIVILEGE), 4, 0x2000)
		m.load(t, 0x1000, imp(XCE))
		m.cpu.P = entry.p.normalize()
		m.cpu.SP = 0x1F00
		m.cpu.SSP = 0x1800

		m.step(t, 1)
		if entry.trap {
			assert.Equal(uint64(1), m.cpu.Traps, "%v", entry.p)
			assert.Equal(TRAP_PRIVILEGE, m.cpu.LastTrap.Index)
			assert.Equal(uint32(0x2000), m.cpu.PC)
			assert.Equal(Status(0), m.cpu.P&FLAG_E)
			continue
		}
		assert.Equal(uint64(0), m.cpu.Traps, "%v", entry.p)
		assert.Equal(entry.p&FLAG_C != 0, m.cpu.P&FLAG_E != 0, "%v", entry.p)
	}
}

func TestCpu_Subroutine(t *testing.T) {
	assert := assert.New(t)

	m := newMachine()
	m.load(t, 0x2000, imp(RTS))
	m.load(t, 0x13000, imp(RTL))
	m.load(t, 0x1000, op(JSR, MODE_ABS, 0, 0x2000), op(JSR, MODE_ABSL, 0, 0x013000))
	m.cpu.P = FLAG_S
	m.cpu.SP = 0x1FFF

	m.step(t, 1)
	assert.Equal(uint32(0x2000), m.cpu.PC)
	assert.Equal(uint32(0x1FFD), m.cpu.SP)
	assert.Equal(uint32(0x1002), m.peek(0x1FFE, 2))

	m.step(t, 1)
	assert.Equal(uint32(0x1003), m.cpu.PC)
	assert.Equal(uint32(0x1FFF), m.cpu.SP)

	m.step(t, 1)
	assert.Equal(uint32(0x13000), m.cpu.PC)
	assert.Equal(uint32(0x1FFC), m.cpu.SP)
	assert.Equal(uint32(0x1006), m.peek(0x1FFD, 2))
	assert.Equal(uint32(0x00), m.peek(0x1FFF, 1))

	m.step(t, 1)
	assert.Equal(uint32(0x1007), m.cpu.PC)
	assert.Equal(uint32(0x1FFF), m.cpu.SP)
}

func TestCpu_Loop(t *testing.T) {
	assert := assert.New(t)

	m := newMachine()
	m.load(t, 0x1000,
		op(LDX, MODE_IMM, 2, 3),
		imp(DEX),
		op(BNE, MODE_REL, 0, 0xFD),
		imp(NOP),
	)
	m.cpu.P = FLAG_S

	m.step(t, 7)
	assert.Equal(uint32(0x1006), m.cpu.PC)
	assert.Equal(uint32(0), m.cpu.X)
	assert.True(m.cpu.P&FLAG_Z != 0)
}

func TestCpu_Widths(t *testing.T) {
	assert := assert.New(t)

	m := newMachine()
	m.load(t, 0x1000,
		op(REP, MODE_IMM, 1, 0x30),
		op(LDA, MODE_IMM, 2, 0x8001),
		Instruction{Form: FORM_EXTENDED, Mnemonic: SEPE, Mode: MODE_IMM, Size: 1, Value: uint32(wide >> 8)},
		op(LDA, MODE_IMM, 4, 0x12345678),
		op(SEP, MODE_IMM, 1, 0x20),
		op(LDA, MODE_IMM, 1, 0x9A),
		op(XCE, MODE_IMP, 0, 0),
	)
	m.cpu.P = FLAG_S | FLAG_M8 | FLAG_X8
	m.cpu.X = 0x1234

	m.step(t, 2)
	assert.Equal(uint32(0x8001), m.cpu.A)
	assert.True(m.cpu.P&FLAG_N != 0)

	m.step(t, 2)
	assert.Equal(uint32(0x12345678), m.cpu.A)
	assert.Equal(4, Snapshot{P: m.cpu.P}.MWidth())

	m.step(t, 2)
	assert.Equal(uint32(0x1234569A), m.cpu.A)
	assert.Equal(1, Snapshot{P: m.cpu.P}.MWidth())
	assert.Equal(4, Snapshot{P: m.cpu.P}.XWidth())

	// Entering emulation narrows the index registers.
	m.cpu.X = 0x1234
	m.cpu.P |= FLAG_C
	m.step(t, 1)
	assert.True(m.cpu.P&FLAG_E != 0)
	assert.Equal(uint32(0x34), m.cpu.X)
	assert.Equal(uint32(0x100), m.cpu.SP&0xFF00)
}

func TestCpu_Alu(t *testing.T) {
	assert := assert.New(t)

	m := newMachine()
	m.load(t, 0x1000,
		alu(ADD, 4, 1, SRC_IMM, 5),
		Instruction{Form: FORM_SHIFT, Mnemonic: SHL, Dst: 2, Src: 1, Count: 4},
		Instruction{Form: FORM_BITS, Mnemonic: CLZ, Dst: 3, Src: 2},
		alu(SWAP, 4, -1, SRC_REG, 1),
		Instruction{Form: FORM_SHIFT, Mnemonic: SAR, Dst: 4, Src: 5},
		alu(NEG, 4, -1, SRC_REG, 4),
		alu(MIN, 4, -1, SRC_IMM, 3),
		alu(ST, 4, -1, SRC_DP, 0x20),
		alu(LD, 1, 6, SRC_X, 0),
	)
	m.cpu.P = FLAG_S | wide
	m.cpu.R[1] = 10
	m.cpu.R[5] = 0x80000000
	m.cpu.R[6] = 0xFFFFFFFF
	m.cpu.A = 7
	m.cpu.X = 0x1234

	m.step(t, 1)
	assert.Equal(uint32(15), m.cpu.R[1])

	m.step(t, 1)
	assert.Equal(uint32(0xF0), m.cpu.R[2])
	assert.False(m.cpu.P&FLAG_C != 0)

	m.step(t, 1)
	assert.Equal(uint32(24), m.cpu.R[3])

	m.step(t, 1)
	assert.Equal(uint32(15), m.cpu.A)
	assert.Equal(uint32(7), m.cpu.R[1])

	m.step(t, 1)
	assert.Equal(uint32(0xFFFF0000), m.cpu.R[4])
	assert.True(m.cpu.P&FLAG_N != 0)

	m.step(t, 1)
	assert.Equal(uint32(0x00010000), m.cpu.R[4])

	m.step(t, 1)
	assert.Equal(uint32(3), m.cpu.A)

	m.step(t, 1)
	assert.Equal(uint32(3), m.peek(0x20, 4))

	m.step(t, 1)
	assert.Equal(uint32(0xFFFFFF34), m.cpu.R[6])
}

func TestCpu_BlockMove(t *testing.T) {
	assert := assert.New(t)

	m := newMachine()
	copy(m.bus.Memory()[0x100:], []byte{1, 2, 3})
	m.load(t, 0x1000, op(MVN, MODE_BLK, 0, 0x0000), imp(NOP))
	m.cpu.P = FLAG_S
	m.cpu.A, m.cpu.X, m.cpu.Y = 2, 0x100, 0x200

	m.step(t, 2)
	assert.Equal(uint32(0x1000), m.cpu.PC)
	m.step(t, 1)
	assert.Equal(uint32(0x1003), m.cpu.PC)
	assert.Equal(uint32(0xFFFF), m.cpu.A)
	assert.Equal(uint32(0x103), m.cpu.X)
	assert.Equal(uint32(0x203), m.cpu.Y)
	assert.Equal([]byte{1, 2, 3}, m.bus.Memory()[0x200:0x203])
}

func TestCpu_Float(t *testing.T) {
	assert := assert.New(t)

	ext := func(mn Mnemonic, mode Mode, dst byte, value uint32) Instruction {
		return Instruction{Form: FORM_EXTENDED, Mnemonic: mn, Mode: mode, Dst: dst, Value: value}
	}

	m := newMachine()
	m.poke(0x3000, 4, 0x40490FDB) // 3.14159274
	m.poke(0x3004, 4, 0x3F800000) // 1.0
	m.load(t, 0x1000,
		ext(LDF, MODE_FABS, 0x10, 0x3000),
		ext(LDF, MODE_FABS32, 0x20, 0x3004),
		ext(FADD, MODE_FREG, 0x12, 0),
		ext(F2I, MODE_FREG, 0x01, 0),
		ext(FCVTSD, MODE_FREG, 0x31, 0),
		ext(STFD, MODE_FIND, 0x30, 7),
		ext(FCMP, MODE_FREG, 0x21, 0),
	)
	m.cpu.P = FLAG_S | wide
	m.cpu.R[7] = 0x4000

	m.step(t, 4)
	assert.Equal(uint32(4), m.cpu.A)

	m.step(t, 2)
	lo, hi := m.peek(0x4000, 4), m.peek(0x4004, 4)
	assert.Equal(uint32(0x401090FD), hi)
	assert.Equal(uint32(0xC0000000), lo)
	assert.Equal(m.cpu.F[3], uint64(hi)<<32|uint64(lo))

	m.step(t, 1)
	assert.True(m.cpu.P&FLAG_N != 0)
	assert.False(m.cpu.P&FLAG_Z != 0)
	assert.False(m.cpu.P&FLAG_C != 0)
}
