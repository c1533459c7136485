package legacy

import (
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/m65832/bus"
	"github.com/ezrec/m65832/cpu"
	"github.com/ezrec/m65832/sched"
)

const (
	MAILBOX      = uint16(0xFFF0) // Interrupt mailbox to the main core.
	MAILBOX_BUSY = byte(0x80)     // Mailbox read: the relay latch is full.

	VEC_NMI   = uint16(0xFFFA)
	VEC_RESET = uint16(0xFFFC)
	VEC_IRQ   = uint16(0xFFFE) // Shared by IRQ and BRK.

	RESET_SP = byte(0xFD)
	STACK    = uint16(0x0100)
)

// Status register bits.
const (
	FLAG_C = byte(1 << 0)
	FLAG_Z = byte(1 << 1)
	FLAG_I = byte(1 << 2)
	FLAG_D = byte(1 << 3)
	FLAG_B = byte(1 << 4) // Only in a pushed status byte.
	FLAG_U = byte(1 << 5) // Always reads as set.
	FLAG_V = byte(1 << 6)
	FLAG_N = byte(1 << 7)
)

// Every instruction decodes with 8-bit registers.
var snapshot = cpu.Snapshot{P: cpu.FLAG_E | cpu.FLAG_M8 | cpu.FLAG_X8}

var _legacy_defines = map[string]string{
	"COPROC_MAILBOX":      fmt.Sprintf("$%04X", MAILBOX),
	"COPROC_MAILBOX_BUSY": fmt.Sprintf("$%02X", MAILBOX_BUSY),
	"COPROC_VEC_NMI":      fmt.Sprintf("$%04X", VEC_NMI),
	"COPROC_VEC_RESET":    fmt.Sprintf("$%04X", VEC_RESET),
	"COPROC_VEC_IRQ":      fmt.Sprintf("$%04X", VEC_IRQ),
}

// Registers is the 6502 register file.
type Registers struct {
	A  byte
	X  byte
	Y  byte
	SP byte
	P  byte
	PC uint16
}

func (r Registers) String() string {
	return fmt.Sprintf("PC=$%04X A=$%02X X=$%02X Y=$%02X SP=$%02X P=$%02X",
		r.PC, r.A, r.X, r.Y, r.SP, r.P)
}

// Coprocessor is the legacy core.
type Coprocessor struct {
	Verbose bool

	Registers

	Base  uint32        // Physical address of coprocessor address $0000.
	Latch *sched.Latch // Relay to the main core's interrupt controller.

	Jammed bool // Stopped on an undocumented opcode until reset.

	Steps  uint64 // Instructions retired, interrupts taken, or stalls.
	Stalls uint64 // Steps held off by a full relay latch.

	port *bus.Port

	irq     bool
	nmi     bool
	stalled bool
}

// NewCoprocessor creates a coprocessor on the port that signals the
// main core through latch.
func NewCoprocessor(port *bus.Port, latch *sched.Latch) (c *Coprocessor) {
	c = &Coprocessor{
		Latch: latch,
		port:  port,
	}
	return
}

// Defines for the coprocessor: mailbox address and vectors.
func (c *Coprocessor) Defines() iter.Seq2[string, string] {
	return maps.All(_legacy_defines)
}

// Port returns the bus port of the core.
func (c *Coprocessor) Port() *bus.Port {
	return c.port
}

// SetIRQ drives the level-sensitive interrupt request line.
func (c *Coprocessor) SetIRQ(level bool) {
	c.irq = level
}

// NMI signals a non-maskable interrupt edge.
func (c *Coprocessor) NMI() {
	c.nmi = true
}

// Physical returns the physical address of a coprocessor address.
func (c *Coprocessor) Physical(addr uint16) uint32 {
	return c.Base + uint32(addr)
}

// Reset loads the program counter from the reset vector. The bus must be
// granted to the coprocessor.
func (c *Coprocessor) Reset() {
	c.Registers = Registers{
		SP: RESET_SP,
		P:  FLAG_U | FLAG_I,
	}
	c.Jammed = false
	c.Steps = 0
	c.Stalls = 0
	c.irq = false
	c.nmi = false
	c.stalled = false

	c.PC = c.vector(VEC_RESET)
}

// Step executes one instruction, or takes one pending interrupt. The bus
// must be granted to the coprocessor.
func (c *Coprocessor) Step() (err error) {
	if c.Jammed {
		err = ErrJammed
		return
	}

	c.Steps++

	switch {
	case c.nmi:
		c.nmi = false
		c.interrupt(false, VEC_NMI)
		return
	case c.irq && c.P&FLAG_I == 0:
		c.interrupt(false, VEC_IRQ)
		return
	}

	pc := c.PC
	op := c.fetch(0)
	if op == cpu.ESCAPE || !cpu.Primary(op).Nmos {
		c.Jammed = true
		err = ErrJam{PC: pc, Opcode: op}
		if c.Verbose {
			log.Printf("legacy: %v", err)
		}
		return
	}

	ins, err := cpu.Decode(c.fetch, snapshot)
	if err != nil {
		return
	}

	if c.Verbose {
		log.Printf("legacy: %04x: %v", pc, ins.Format(uint32(pc)))
	}

	saved := c.Registers
	c.stalled = false
	c.PC += uint16(ins.Length)
	c.execute(ins)

	if c.stalled {
		c.Registers = saved
		c.Stalls++
		c.port.Stall(bus.CYCLE_DATA, c.Physical(MAILBOX), true)
		if c.Verbose {
			log.Printf("legacy: %04x: stalled on mailbox", pc)
		}
	}

	return
}

func (c *Coprocessor) String() string {
	text := c.Registers.String()
	if c.Jammed {
		text += " jammed"
	}
	return text
}

func (c *Coprocessor) fetch(offset int) byte {
	return byte(c.port.Read(bus.CYCLE_FETCH, c.Physical(c.PC+uint16(offset)), 1))
}

func (c *Coprocessor) vector(addr uint16) uint16 {
	lo := c.port.Read(bus.CYCLE_VECTOR, c.Physical(addr), 1)
	hi := c.port.Read(bus.CYCLE_VECTOR, c.Physical(addr+1), 1)
	return uint16(lo | hi<<8)
}

func (c *Coprocessor) read(addr uint16) byte {
	if addr == MAILBOX {
		if c.Latch.Valid() {
			return MAILBOX_BUSY
		}
		return 0
	}
	return c.port.Read8(c.Physical(addr))
}

func (c *Coprocessor) write(addr uint16, value byte) {
	if addr == MAILBOX {
		if !c.Latch.Capture(value) {
			c.stalled = true
		}
		return
	}
	c.port.Write8(c.Physical(addr), value)
}

// word reads a little-endian pointer whose high byte wraps within the
// page of its low byte.
func (c *Coprocessor) word(addr uint16) uint16 {
	lo := c.read(addr)
	hi := c.read(addr&0xFF00 | uint16(byte(addr)+1))
	return uint16(lo) | uint16(hi)<<8
}

func (c *Coprocessor) push(value byte) {
	c.write(STACK|uint16(c.SP), value)
	c.SP--
}

func (c *Coprocessor) pull() byte {
	c.SP++
	return c.read(STACK | uint16(c.SP))
}

func (c *Coprocessor) push16(value uint16) {
	c.push(byte(value >> 8))
	c.push(byte(value))
}

func (c *Coprocessor) pull16() uint16 {
	lo := c.pull()
	hi := c.pull()
	return uint16(lo) | uint16(hi)<<8
}

func (c *Coprocessor) interrupt(brk bool, vector uint16) {
	c.push16(c.PC)
	p := c.P | FLAG_U
	if brk {
		p |= FLAG_B
	} else {
		p &^= FLAG_B
	}
	c.push(p)
	c.P |= FLAG_I
	c.PC = c.vector(vector)
}
