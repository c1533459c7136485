// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"log"
	"maps"
	"strings"

	"github.com/ezrec/m65832/asm"
	"github.com/ezrec/m65832/bus"
	"github.com/ezrec/m65832/cpu"
	"github.com/ezrec/m65832/internal"
	mio "github.com/ezrec/m65832/io"
	"github.com/ezrec/m65832/legacy"
	"github.com/ezrec/m65832/loader"
	"github.com/ezrec/m65832/mmu"
	"github.com/ezrec/m65832/sched"
)

const (
	COPROC_SIZE = 0x10000 // Address space of the coprocessor.
)

var _emulator_defines = map[string]string{
	"MMIO_BASE":   fmt.Sprintf("$%08X", bus.MMIO_BASE),
	"COPROC_SIZE": fmt.Sprintf("$%X", COPROC_SIZE),
}

// Config is the machine configuration applied by NewEmulator.
type Config struct {
	MemorySize     int    // Bytes of physical memory.
	TargetFreq     uint32 // Coprocessor clock...
	MasterFreq     uint32 // ...as a fraction of the master clock.
	CoprocBase     uint32 // Physical address of coprocessor $0000.
	EmuStatusBytes int    // Status bytes in an emulation-mode trap frame.
	Verbose        bool
}

// DefaultConfig is 16 MiB of memory with the coprocessor in the top
// 64 KiB, running at a quarter of the master clock.
func DefaultConfig() Config {
	return Config{
		MemorySize:     bus.DEFAULT_MEMORY_SIZE,
		TargetFreq:     1,
		MasterFreq:     4,
		CoprocBase:     bus.DEFAULT_MEMORY_SIZE - COPROC_SIZE,
		EmuStatusBytes: 1,
	}
}

// Emulator state. Bus + main core + coprocessor + scheduler + devices.
type Emulator struct {
	Verbose bool           // If set, enables verbose logging.
	Config  Config         // Configuration the machine was built with.
	Program *asm.Program   // Listing of the main core program, if known.
	Bus     *bus.Bus       // Physical memory and register window.
	Cpu     *cpu.Cpu       // Main core.
	Legacy  *legacy.Coprocessor

	Sched sched.Interleave
	Latch sched.Latch

	Uart   *mio.Uart
	Timer  mio.Timer
	Block  mio.Block
	Intc   mio.Intc
	Coproc *mio.Coproc

	Steps uint64 // Master steps since reset.

	legacyReady bool
}

// NewEmulator creates a machine from a configuration.
func NewEmulator(config Config) (emu *Emulator, err error) {
	if config.CoprocBase > uint32(config.MemorySize) || uint32(config.MemorySize)-config.CoprocBase < COPROC_SIZE {
		err = ErrCoprocWindow
		return
	}

	b := bus.NewBus(config.MemorySize)

	emu = &Emulator{
		Verbose: config.Verbose,
		Config:  config,
		Program: &asm.Program{},
		Bus:     b,
		Cpu:     cpu.NewCpu(b.Port(bus.OWNER_MAIN)),
		Uart:    mio.NewUart(nil),
	}
	emu.Cpu.EmuStatusBytes = config.EmuStatusBytes
	emu.Legacy = legacy.NewCoprocessor(b.Port(bus.OWNER_COPROC), &emu.Latch)
	emu.Coproc = mio.NewCoproc(&emu.Sched, &emu.Latch)
	emu.Block.Memory = b.Memory()

	err = emu.Coproc.Configure(config.TargetFreq, config.MasterFreq, config.CoprocBase)
	if err != nil {
		return
	}

	emu.Intc.Attach(mio.IRQ_UART, emu.Uart)
	emu.Intc.Attach(mio.IRQ_TIMER, &emu.Timer)
	emu.Intc.Attach(mio.IRQ_BLOCK, &emu.Block)
	emu.Intc.Attach(mio.IRQ_COPROC, emu.Coproc)

	err = b.MapIO("mmu", mmu.MMIO_MMU, mmu.MMIO_END, emu.Cpu.Mmu)
	if err != nil {
		return
	}

	for _, dev := range emu.devices() {
		err = mio.Map(b, dev)
		if err != nil {
			return
		}
	}

	return
}

func (emu *Emulator) devices() []mio.Device {
	return []mio.Device{emu.Uart, &emu.Timer, &emu.Block, &emu.Intc, emu.Coproc}
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	seqs := []iter.Seq2[string, string]{
		maps.All(_emulator_defines),
		emu.Cpu.Defines(),
		emu.Cpu.Mmu.Defines(),
		emu.Legacy.Defines(),
	}
	for _, dev := range emu.devices() {
		seqs = append(seqs, dev.Defines())
	}

	return internal.IterSeq2Concat(seqs...)
}

// Assemble parses a source with every machine define available, and
// records the result as the program listing.
func (emu *Emulator) Assemble(source io.Reader) (prog *asm.Program, err error) {
	assembler := &asm.Assembler{Verbose: emu.Verbose}
	for name, value := range emu.Defines() {
		assembler.Predefine(name, value)
	}

	prog, err = assembler.Parse(source)
	if err != nil {
		return
	}

	emu.Program = prog
	return
}

// AssembleString is Assemble over source lines.
func (emu *Emulator) AssembleString(lines ...string) (prog *asm.Program, err error) {
	return emu.Assemble(strings.NewReader(strings.Join(lines, "\n")))
}

func (emu *Emulator) install(prog *asm.Program, offset uint32) (err error) {
	image := &loader.Image{Verbose: emu.Verbose}
	for addr, code := range prog.Segments() {
		image.Segments = append(image.Segments, loader.Segment{
			Addr: addr + offset,
			Data: code,
			Size: uint32(len(code)),
		})
	}

	return image.Install(emu.Bus.Memory())
}

// Load places an assembled program in physical memory.
func (emu *Emulator) Load(prog *asm.Program) (err error) {
	return emu.install(prog, 0)
}

// LoadLegacy places a program assembled for the coprocessor's 64 KiB
// space in its window of physical memory.
func (emu *Emulator) LoadLegacy(prog *asm.Program) (err error) {
	for addr, code := range prog.Segments() {
		if uint64(addr)+uint64(len(code)) > COPROC_SIZE {
			err = loader.ErrSegment{Addr: addr, Err: loader.ErrSegmentRange}
			return
		}
	}

	return emu.install(prog, emu.Coproc.Window())
}

// LoadELF places an executable in physical memory and returns its entry.
func (emu *Emulator) LoadELF(r io.ReaderAt) (entry uint32, err error) {
	return loader.Load(r, emu.Bus.Memory())
}

// Reset the machine. The main core starts from its reset vector; the
// coprocessor is reset the first time it is scheduled.
func (emu *Emulator) Reset() {
	emu.Bus.Verbose = emu.Verbose
	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Mmu.Verbose = emu.Verbose
	emu.Legacy.Verbose = emu.Verbose
	emu.Sched.Verbose = emu.Verbose
	emu.Uart.Verbose = emu.Verbose
	emu.Block.Verbose = emu.Verbose
	emu.Coproc.Verbose = emu.Verbose

	emu.Bus.Reset()
	for _, dev := range emu.devices() {
		dev.Reset()
	}

	emu.Steps = 0
	emu.legacyReady = false

	emu.Bus.Grant(bus.OWNER_MAIN)
	emu.Cpu.Reset()
}

// Boot resets the machine and starts the main core at entry instead of
// its reset vector.
func (emu *Emulator) Boot(entry uint32) {
	emu.Reset()
	emu.Cpu.PC = entry
}

// stepLegacy runs one coprocessor step. A jammed coprocessor idles until
// the main core resets it.
func (emu *Emulator) stepLegacy() (err error) {
	core := emu.Legacy

	if emu.Coproc.TakeReset() || !emu.legacyReady {
		core.Base = emu.Coproc.Window()
		core.Reset()
		emu.legacyReady = true
		return
	}

	if core.Jammed {
		return
	}

	err = core.Step()
	if errors.Is(err, legacy.ErrJammed) {
		if emu.Verbose {
			log.Printf("emulator: %v", err)
		}
		err = nil
	}

	return
}

// Tick performs one master step: the scheduler picks the bus owner,
// and that core executes one instruction. done is set once the main
// core has stopped.
func (emu *Emulator) Tick() (done bool, err error) {
	pc := emu.Cpu.PC
	defer func() {
		if err != nil {
			lineno := 0
			if emu.Program != nil {
				if dbg := emu.Program.Debug(pc); dbg.Statement != nil {
					lineno = dbg.LineNo
				}
			}
			err = &ErrRuntime{PC: pc, LineNo: lineno, Err: err}
		}
	}()

	if emu.Cpu.Stopped {
		done = true
		return
	}

	emu.Steps++
	emu.Timer.Tick()

	grant := emu.Sched.Step()
	if grant.Relay {
		data, ok := emu.Latch.Relay()
		if ok && emu.Verbose {
			log.Printf("emulator: coprocessor interrupt $%02x relayed", data)
		}
	}

	emu.Bus.Grant(grant.Owner)

	switch grant.Owner {
	case bus.OWNER_COPROC:
		err = emu.stepLegacy()
	default:
		emu.Cpu.SetIRQ(emu.Intc.IRQ())
		err = emu.Cpu.Step()
		done = emu.Cpu.Stopped
	}

	return
}

// Run ticks until the main core stops, or returns ErrStepLimit after
// limit steps. A zero limit runs without bound.
func (emu *Emulator) Run(limit uint64) (err error) {
	for n := uint64(0); limit == 0 || n < limit; n++ {
		var done bool
		done, err = emu.Tick()
		if err != nil || done {
			return
		}
	}

	err = ErrStepLimit
	return
}
