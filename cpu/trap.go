package cpu

import (
	"fmt"
	"log"

	"github.com/ezrec/m65832/bus"
)

// Vector is an exception event, the index of its VBR table entry.
type Vector int

//go:generate go tool stringer -linecomment -type=Vector
const (
	VEC_RESET   = Vector(0) // reset
	VEC_NMI     = Vector(1) // nmi
	VEC_IRQ     = Vector(2) // irq
	VEC_ABORT   = Vector(3) // abort
	VEC_ILLEGAL = Vector(4) // illegal
	VEC_ALIGN   = Vector(5) // align
	VEC_DIVIDE  = Vector(6) // divide
	VEC_BRK     = Vector(7) // brk
	VEC_COP     = Vector(8) // cop
	VEC_TRAP    = Vector(9) // trap
)

const (
	TRAP_TABLE     = uint32(0x100) // Offset of the software trap table from VBR.
	TRAP_PRIVILEGE = byte(0xFF)    // Trap index of a privilege violation.
)

// Emulation-mode vectors, 16 bits in bank zero.
var emulationVectors = map[Vector]uint32{
	VEC_COP:   0xFFF4,
	VEC_ABORT: 0xFFF8,
	VEC_NMI:   0xFFFA,
	VEC_RESET: 0xFFFC,
	VEC_IRQ:   0xFFFE,
	VEC_BRK:   0xFFFE,
}

// Trap is a request to the trap controller.
type Trap struct {
	Vector Vector
	Index  byte   // Software trap table index, for VEC_TRAP.
	Next   bool   // Resume after, rather than at, the raising instruction.
	PC     uint32 // Address of the raising instruction.
	Fault  error  // MMU fault, for VEC_ABORT.
}

func (t Trap) String() string {
	text := t.Vector.String()
	if t.Vector == VEC_TRAP {
		text = fmt.Sprintf("trap #$%02X", t.Index)
	}
	if t.Fault != nil {
		text += fmt.Sprintf(" (%v)", t.Fault)
	}
	return fmt.Sprintf("%v at %08x", text, t.PC)
}

// Maskable reports whether the I flag holds the event off.
func (t Trap) Maskable() bool {
	return t.Vector == VEC_IRQ
}

// Handler returns the address of the vector table entry for the trap.
func (t Trap) Handler(vbr uint32, emulation bool) (addr uint32, size int) {
	if emulation {
		if addr, ok := emulationVectors[t.Vector]; ok {
			return addr, 2
		}
	}
	if t.Vector == VEC_TRAP {
		return vbr + TRAP_TABLE + 4*uint32(t.Index), 4
	}
	return vbr + 4*uint32(t.Vector), 4
}

// enter transfers control to the handler of a trap. The frame is pushed
// on the supervisor stack: the return address and then the status word.
func (cpu *Cpu) enter(trap Trap, resume uint32) (err error) {
	tx := cpu.begin()
	old := tx.reg.P

	// Frame pushes run with supervisor rights.
	tx.snap.P |= FLAG_S
	if old&FLAG_S == 0 {
		tx.reg.USP = tx.reg.SP
		tx.reg.SP = tx.reg.SSP
	}

	saved := old
	if tx.snap.Emulation() {
		if trap.Vector == VEC_BRK {
			saved |= FLAG_B
		} else {
			saved &^= FLAG_B
		}
		tx.push(2, resume)
		status := cpu.EmuStatusBytes
		if status != 2 {
			status = 1
		}
		tx.push(status, uint32(saved))
	} else {
		tx.push(4, resume)
		tx.push(2, uint32(saved))
	}

	p := (old | FLAG_S) &^ FLAG_D
	if trap.Maskable() {
		p |= FLAG_I
	}
	tx.reg.P = p

	vector, size := trap.Handler(tx.reg.VBR, tx.snap.Emulation())
	handler := cpu.port.Read(bus.CYCLE_VECTOR, vector, size)

	if tx.trapped {
		cpu.Stopped = true
		err = ErrTrap{Trap: trap, Cause: tx.trap}
		return
	}

	tx.reg.PC = handler
	tx.commit()

	cpu.Traps++
	cpu.LastTrap = trap

	if cpu.Verbose {
		log.Printf("cpu: %v -> %08x", trap, handler)
	}
	return
}

// rti returns from a trap handler, restoring the status word and the
// program counter. User mode can not raise itself to supervisor.
func (tx *transaction) rti() {
	var p Status
	var pc uint32

	if tx.snap.Emulation() {
		if tx.cpu.EmuStatusBytes == 2 {
			p = Status(tx.pull(2)).normalize()
		} else {
			p = tx.reg.P.WithLow(byte(tx.pull(1)))
		}
		pc = tx.pull(2)
	} else {
		p = Status(tx.pull(2)).normalize()
		pc = tx.pull(4)
	}

	if !tx.snap.Supervisor() {
		p &^= FLAG_S
	}

	tx.setStatus(p)
	if tx.snap.Supervisor() && p&FLAG_S == 0 {
		tx.reg.SSP = tx.reg.SP
		tx.reg.SP = tx.reg.USP
	}
	tx.reg.PC = pc
}
