package cpu

import (
	"github.com/ezrec/m65832/bus"
	"github.com/ezrec/m65832/mmu"
)

// location is an effective operand address: a virtual address, or a
// byte offset into the register window.
type location struct {
	window bool
	addr   uint32
}

func (loc location) offset(n uint32) location {
	loc.addr += n
	return loc
}

type pending struct {
	addr  uint32
	size  int
	value uint32
}

// transaction is one instruction (or one trap entry) in flight. It works
// on a copy of the register file and buffers memory writes; commit makes
// both visible. The first trap raised is kept and every later memory
// access becomes a no-op.
type transaction struct {
	cpu  *Cpu
	snap Snapshot
	reg  Registers

	pc   uint32
	next uint32

	writes []pending

	trapped bool
	trap    Trap

	reserve   bool
	reserveAt uint32
	unreserve bool

	wait bool
	stop bool
}

func (cpu *Cpu) begin() *transaction {
	tx := &cpu.tx
	*tx = transaction{
		cpu:    cpu,
		snap:   Snapshot{P: cpu.P},
		reg:    cpu.Registers,
		pc:     cpu.PC,
		writes: tx.writes[:0],
	}
	return tx
}

// raise records a trap; only the first one counts.
func (tx *transaction) raise(trap Trap) {
	if tx.trapped {
		return
	}
	trap.PC = tx.pc
	tx.trap = trap
	tx.trapped = true
}

func (tx *transaction) privilege() {
	tx.raise(Trap{Vector: VEC_TRAP, Index: TRAP_PRIVILEGE})
}

func (tx *transaction) commit() {
	cpu := tx.cpu
	for _, w := range tx.writes {
		cpu.port.Write(bus.CYCLE_DATA, w.addr, w.size, w.value)
	}
	if tx.reserve {
		cpu.port.Reserve(tx.reserveAt)
	}
	if tx.unreserve {
		cpu.port.Unreserve()
	}
	if tx.wait {
		cpu.Waiting = true
	}
	if tx.stop {
		cpu.Stopped = true
	}
	cpu.Registers = tx.reg
}

func crosses(va uint32, size int) bool {
	return (va&mmu.PAGE_MASK)+uint32(size) > mmu.PAGE_SIZE
}

// translate maps a virtual address for an access. The supervisor-only
// mmio window is checked on the physical address.
func (tx *transaction) translate(va uint32, access mmu.Access) (pa uint32, ok bool) {
	if tx.trapped {
		return
	}

	pa, err := tx.cpu.Mmu.Translate(va, access, tx.snap.Supervisor())
	if err != nil {
		tx.raise(Trap{Vector: VEC_ABORT, Fault: err})
		return
	}

	if bus.IsMMIO(pa) && !tx.snap.Supervisor() {
		tx.privilege()
		return
	}

	ok = true
	return
}

func (tx *transaction) buffered(pa uint32) (value byte, ok bool) {
	for n := len(tx.writes) - 1; n >= 0; n-- {
		w := tx.writes[n]
		if pa-w.addr < uint32(w.size) {
			return byte(w.value >> (8 * (pa - w.addr))), true
		}
	}
	return
}

// read performs a little-endian virtual read of 1 to 4 bytes. Mmio
// reads reach the device at once and are not buffered, so a register
// whose read has a side effect keeps it even if the instruction traps
// afterwards. Translation faults are raised before the device is read.
func (tx *transaction) read(kind bus.CycleKind, va uint32, size int) (value uint32) {
	if tx.trapped {
		return
	}

	if size == 3 || crosses(va, size) {
		for i := range size {
			value |= tx.read(kind, va+uint32(i), 1) << (8 * i)
		}
		return
	}

	access := mmu.ACCESS_READ
	if kind == bus.CYCLE_FETCH {
		access = mmu.ACCESS_EXEC
	}

	pa, ok := tx.translate(va, access)
	if !ok {
		return
	}

	port := tx.cpu.port
	if len(tx.writes) == 0 || bus.IsMMIO(pa) {
		return port.Read(kind, pa, size)
	}

	for i := range size {
		b, ok := tx.buffered(pa + uint32(i))
		if !ok {
			b = byte(port.Read(kind, pa+uint32(i), 1))
		}
		value |= uint32(b) << (8 * i)
	}
	return
}

// write buffers a little-endian virtual write of 1 to 4 bytes.
func (tx *transaction) write(va uint32, size int, value uint32) {
	if tx.trapped {
		return
	}

	if size == 3 || crosses(va, size) {
		for i := range size {
			tx.write(va+uint32(i), 1, value>>(8*i))
		}
		return
	}

	pa, ok := tx.translate(va, mmu.ACCESS_WRITE)
	if !ok {
		return
	}

	tx.writes = append(tx.writes, pending{addr: pa, size: size, value: value & mask(size)})
}

// fetch reads the instruction stream. Outside wide mode the program
// counter wraps within its bank.
func (tx *transaction) fetch(offset int) byte {
	return byte(tx.read(bus.CYCLE_FETCH, tx.advance(tx.pc, uint32(offset)), 1))
}

func (tx *transaction) advance(pc, n uint32) uint32 {
	if tx.snap.Wide() {
		return pc + n
	}
	return (pc & 0xFFFF0000) | ((pc + n) & 0xFFFF)
}

// load reads an operand location.
func (tx *transaction) load(loc location, size int) uint32 {
	if !loc.window {
		return tx.read(bus.CYCLE_DATA, loc.addr, size)
	}
	if tx.trapped {
		return 0
	}
	return tx.reg.R[(loc.addr/4)%WINDOW_SIZE] & mask(size)
}

// store writes an operand location.
func (tx *transaction) store(loc location, size int, value uint32) {
	if !loc.window {
		tx.write(loc.addr, size, value)
		return
	}
	if tx.trapped {
		return
	}
	reg := &tx.reg.R[(loc.addr/4)%WINDOW_SIZE]
	*reg = merge(*reg, value, size)
}

// direct maps a direct page offset. With the register window enabled
// the offset selects a window register and must be word aligned.
func (tx *transaction) direct(off uint32) location {
	switch {
	case tx.snap.Window():
		off &= 0xFF
		if off&3 != 0 {
			tx.raise(Trap{Vector: VEC_ALIGN})
		}
		return location{window: true, addr: off}
	case tx.snap.Wide():
		return location{addr: tx.reg.D + off}
	case tx.snap.Emulation() && tx.reg.D&0xFF == 0:
		return location{addr: tx.reg.D&0xFF00 | off&0xFF}
	}
	return location{addr: (tx.reg.D + off) & 0xFFFF}
}

// data maps a 16-bit absolute operand through the data bank.
func (tx *transaction) data(addr uint32) uint32 {
	if tx.snap.Wide() {
		return tx.reg.B + addr
	}
	return (tx.reg.B&0xFF)<<16 | addr&0xFFFF
}

// pointer maps a pointer read from memory through the data bank.
func (tx *transaction) pointer(ptr uint32) uint32 {
	if tx.snap.Wide() {
		return ptr
	}
	return (tx.reg.B&0xFF)<<16 | ptr&0xFFFF
}

func (tx *transaction) pointerSize() int {
	if tx.snap.Wide() {
		return 4
	}
	return 2
}

func (tx *transaction) indexed(base, index uint32) uint32 {
	if tx.snap.Wide() {
		return base + index
	}
	return (base + index) & 0xFFFFFF
}

func (tx *transaction) stackRelative(off uint32) uint32 {
	if tx.snap.Wide() {
		return tx.reg.SP + off
	}
	return (tx.reg.SP + off) & 0xFFFF
}

// address computes the effective location of a memory operand.
func (tx *transaction) address(mode Mode, value uint32) location {
	reg := &tx.reg
	mem := func(addr uint32) location {
		return location{addr: addr}
	}

	switch mode {
	case MODE_DP:
		return tx.direct(value)
	case MODE_DPX:
		return tx.direct(value + reg.X)
	case MODE_DPY:
		return tx.direct(value + reg.Y)
	case MODE_DPIND:
		return mem(tx.pointer(tx.load(tx.direct(value), tx.pointerSize())))
	case MODE_DPINDX:
		return mem(tx.pointer(tx.load(tx.direct(value+reg.X), tx.pointerSize())))
	case MODE_DPINDY:
		return mem(tx.indexed(tx.pointer(tx.load(tx.direct(value), tx.pointerSize())), reg.Y))
	case MODE_DPINDL:
		return mem(tx.load(tx.direct(value), 3))
	case MODE_DPINDLY:
		return mem(tx.indexed(tx.load(tx.direct(value), 3), reg.Y))
	case MODE_SR:
		return mem(tx.stackRelative(value))
	case MODE_SRIY:
		ptr := tx.read(bus.CYCLE_DATA, tx.stackRelative(value), tx.pointerSize())
		return mem(tx.indexed(tx.pointer(ptr), reg.Y))
	case MODE_ABS:
		return mem(tx.data(value))
	case MODE_ABSX:
		return mem(tx.indexed(tx.data(value), reg.X))
	case MODE_ABSY:
		return mem(tx.indexed(tx.data(value), reg.Y))
	case MODE_ABSL:
		return mem(value)
	case MODE_ABSLX:
		return mem(tx.indexed(value, reg.X))
	}
	return mem(value)
}

// Stack operations. Emulation mode keeps the stack in page one, native
// mode in bank zero.

func (tx *transaction) stackAddr() uint32 {
	switch {
	case tx.snap.Emulation():
		return 0x100 | tx.reg.SP&0xFF
	case tx.snap.Wide():
		return tx.reg.SP
	}
	return tx.reg.SP & 0xFFFF
}

func (tx *transaction) moveSP(delta uint32) {
	switch {
	case tx.snap.Emulation():
		tx.reg.SP = 0x100 | (tx.reg.SP+delta)&0xFF
	case tx.snap.Wide():
		tx.reg.SP += delta
	default:
		tx.reg.SP = (tx.reg.SP + delta) & 0xFFFF
	}
}

// push stores value most significant byte first, leaving it little-endian
// in memory just above the new stack pointer.
func (tx *transaction) push(size int, value uint32) {
	for i := size - 1; i >= 0; i-- {
		tx.write(tx.stackAddr(), 1, value>>(8*i))
		tx.moveSP(^uint32(0))
	}
}

func (tx *transaction) pull(size int) (value uint32) {
	for i := range size {
		tx.moveSP(1)
		value |= tx.read(bus.CYCLE_DATA, tx.stackAddr(), 1) << (8 * i)
	}
	return
}

// setStatus installs a new status word, applying the width side effects:
// narrowed index registers lose their upper bits and emulation mode pins
// the stack to page one.
func (tx *transaction) setStatus(p Status) {
	p = p.normalize()
	tx.reg.P = p

	snap := Snapshot{P: p}
	xm := mask(snap.XWidth())
	tx.reg.X &= xm
	tx.reg.Y &= xm
	if snap.Emulation() {
		tx.reg.SP = 0x100 | tx.reg.SP&0xFF
	}
}
