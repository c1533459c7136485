package cpu

import (
	"fmt"
	"iter"
	"log"
	"maps"
	"strings"

	"github.com/ezrec/m65832/bus"
	"github.com/ezrec/m65832/mmu"
)

const (
	RESET_SP = uint32(0x01FF) // Stack pointer after reset.
)

var _cpu_defines = map[string]string{}

func init() {
	flags := map[string]Status{
		"FLAG_C": FLAG_C, "FLAG_Z": FLAG_Z, "FLAG_I": FLAG_I, "FLAG_D": FLAG_D,
		"FLAG_X8": FLAG_X8, "FLAG_M8": FLAG_M8, "FLAG_V": FLAG_V, "FLAG_N": FLAG_N,
		"FLAG_M32": FLAG_M32, "FLAG_X32": FLAG_X32, "FLAG_S": FLAG_S,
		"FLAG_R": FLAG_R, "FLAG_K": FLAG_K, "FLAG_E": FLAG_E,
	}
	for name, flag := range flags {
		_cpu_defines[name] = fmt.Sprintf("$%X", uint16(flag))
	}

	// Flag bits as they appear in the SEPE/REPE operand.
	for _, name := range []string{"FLAG_M32", "FLAG_X32", "FLAG_S", "FLAG_R", "FLAG_K", "FLAG_E"} {
		_cpu_defines[name+"_HI"] = fmt.Sprintf("$%X", uint16(flags[name])>>8)
	}

	for vec := VEC_RESET; vec <= VEC_COP; vec++ {
		_cpu_defines["VEC_"+strings.ToUpper(vec.String())] = fmt.Sprintf("$%X", 4*uint32(vec))
	}
	_cpu_defines["VEC_TRAP_TABLE"] = fmt.Sprintf("$%X", TRAP_TABLE)
	_cpu_defines["TRAP_PRIVILEGE"] = fmt.Sprintf("$%X", TRAP_PRIVILEGE)
}

// Cpu is the main core.
type Cpu struct {
	Verbose bool // Set to enable an instruction trace.

	// EmuStatusBytes is the size of the status word in an emulation-mode
	// trap frame: 1 as on the 65816, or 2 to also save the high byte.
	EmuStatusBytes int

	Registers

	Mmu *mmu.Mmu // Translation for every code and data access.

	Waiting bool // Suspended by WAI until an unmasked interrupt.
	Stopped bool // Halted by STP, or by a fault during trap entry.

	Steps    uint64 // Instructions retired or trapped.
	Idle     uint64 // Steps spent waiting.
	Traps    uint64 // Traps and interrupts taken.
	LastTrap Trap   // Most recent trap taken.

	port *bus.Port

	irq bool
	nmi bool

	tx transaction
}

// NewCpu creates a main core that accesses memory through the port.
func NewCpu(port *bus.Port) (cpu *Cpu) {
	cpu = &Cpu{
		EmuStatusBytes: 1,
		Mmu:            mmu.NewMmu(port),
		port:           port,
	}

	return
}

// Defines for the cpu: flag bits, vector offsets and the privilege trap.
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Port returns the bus port of the core.
func (cpu *Cpu) Port() *bus.Port {
	return cpu.port
}

// SetIRQ drives the level-sensitive interrupt request line.
func (cpu *Cpu) SetIRQ(level bool) {
	cpu.irq = level
}

// IRQ returns the state of the interrupt request line.
func (cpu *Cpu) IRQ() bool {
	return cpu.irq
}

// NMI signals a non-maskable interrupt edge.
func (cpu *Cpu) NMI() {
	cpu.nmi = true
}

// Reset puts the core in emulation mode and supervisor state and loads the
// program counter from the reset vector. The bus must be granted to the
// core.
func (cpu *Cpu) Reset() {
	cpu.Registers = Registers{
		SP: RESET_SP,
		P:  (FLAG_E | FLAG_S | FLAG_I).normalize(),
	}
	cpu.Mmu.Reset()
	cpu.Waiting = false
	cpu.Stopped = false
	cpu.irq = false
	cpu.nmi = false
	cpu.Steps = 0
	cpu.Idle = 0
	cpu.Traps = 0
	cpu.LastTrap = Trap{}

	vector, size := Trap{Vector: VEC_RESET}.Handler(0, true)
	cpu.PC = cpu.port.Read(bus.CYCLE_VECTOR, vector, size)
}

// Step executes one instruction, or takes one pending interrupt. The bus
// must be granted to the core.
func (cpu *Cpu) Step() (err error) {
	if cpu.Stopped {
		err = ErrStopped
		return
	}

	cpu.Steps++

	switch {
	case cpu.nmi:
		cpu.nmi = false
		cpu.Waiting = false
		return cpu.enter(Trap{Vector: VEC_NMI, Next: true, PC: cpu.PC}, cpu.PC)
	case cpu.irq && cpu.P&FLAG_I == 0:
		cpu.Waiting = false
		return cpu.enter(Trap{Vector: VEC_IRQ, Next: true, PC: cpu.PC}, cpu.PC)
	case cpu.Waiting:
		cpu.Idle++
		return
	}

	tx := cpu.begin()

	ins, decodeErr := Decode(tx.fetch, tx.snap)
	tx.next = tx.advance(tx.pc, uint32(ins.Length))
	tx.reg.PC = tx.next

	if cpu.Verbose && !tx.trapped {
		log.Printf("cpu: %08x: %v", tx.pc, ins.Format(tx.pc))
	}

	switch {
	case tx.trapped:
	case decodeErr != nil:
		// Undefined opcodes are no-ops only in compatible, non-wide mode.
		if !tx.snap.Compat() || tx.snap.Wide() {
			tx.raise(Trap{Vector: VEC_ILLEGAL})
		}
	default:
		tx.execute(ins)
	}

	if tx.trapped {
		trap := tx.trap
		resume := tx.pc
		if trap.Next {
			resume = tx.next
		}
		return cpu.enter(trap, resume)
	}

	tx.commit()
	return
}

// String returns the register file.
func (cpu *Cpu) String() string {
	text := cpu.Registers.String()
	if cpu.Waiting {
		text += " waiting"
	}
	if cpu.Stopped {
		text += " stopped"
	}
	return text
}
