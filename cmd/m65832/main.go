// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"log"
	"os"

	"github.com/k0kubun/pp/v3"

	"github.com/ezrec/m65832/asm"
	"github.com/ezrec/m65832/emulator"
	mio "github.com/ezrec/m65832/io"
	"github.com/ezrec/m65832/loader"
)

var con *console

func fatalf(format string, args ...any) {
	con.Restore()
	log.Fatalf(format, args...)
}

func assemble(emu *emulator.Emulator, source string) (prog *asm.Program) {
	inf, err := os.Open(source)
	if err != nil {
		fatalf("%v: %v", source, err)
	}
	defer inf.Close()

	prog, err = emu.Assemble(inf)
	if err != nil {
		fatalf("%v: %v", source, err)
	}
	return
}

// entryOf is the start label, or else the lowest loaded address.
func entryOf(prog *asm.Program) (entry uint32) {
	if addr, ok := prog.Labels["start"]; ok {
		return addr
	}
	first := true
	for addr := range prog.Segments() {
		if first || addr < entry {
			entry = addr
			first = false
		}
	}
	return
}

func main() {
	var compile string
	var legacy string
	var elfFile string
	var disk string
	var output string
	var listing string
	var dump bool
	var steps uint64
	var verbose bool

	config := emulator.DefaultConfig()

	flag.StringVar(&compile, "c", "", ".s file to assemble and run")
	flag.StringVar(&legacy, "legacy", "", ".s file to assemble for the coprocessor")
	flag.StringVar(&elfFile, "elf", "", "ELF executable to run")
	flag.StringVar(&disk, "disk", "", "Block device image, saved on exit")
	flag.StringVar(&output, "o", "", "Save the assembled program as ELF, do not execute")
	flag.StringVar(&listing, "list", "", "Write an assembler listing ('-' for stdout)")
	flag.BoolVar(&dump, "dump", false, "Dump registers on exit")
	flag.Uint64Var(&steps, "steps", 0, "Master step limit (0 for none)")
	flag.IntVar(&config.EmuStatusBytes, "status-bytes", 1, "Status bytes in an emulation-mode trap frame (1 or 2)")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	config.Verbose = verbose
	emu, err := emulator.NewEmulator(config)
	if err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}
	emu.Verbose = verbose

	if len(legacy) != 0 {
		err = emu.LoadLegacy(assemble(emu, legacy))
		if err != nil {
			log.Fatalf("%v: %v", legacy, err)
		}
	}

	var entry uint32
	boot := false

	if len(compile) != 0 {
		prog := assemble(emu, compile)

		if len(listing) != 0 {
			ouf := os.Stdout
			if listing != "-" {
				ouf, err = os.Create(listing)
				if err != nil {
					log.Fatalf("%v: %v", listing, err)
				}
				defer ouf.Close()
			}
			err = prog.WriteListing(ouf)
			if err != nil {
				log.Fatalf("%v: %v", listing, err)
			}
		}

		if len(output) != 0 {
			ouf, err := os.Create(output)
			if err != nil {
				log.Fatalf("%v: %v", output, err)
			}
			defer ouf.Close()
			err = loader.Write(ouf, entryOf(prog), prog.Segments())
			if err != nil {
				log.Fatalf("%v: %v", output, err)
			}
			return
		}

		err = emu.Load(prog)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
	}

	if len(elfFile) != 0 {
		inf, err := os.Open(elfFile)
		if err != nil {
			log.Fatalf("%v: %v", elfFile, err)
		}
		entry, err = emu.LoadELF(inf)
		inf.Close()
		if err != nil {
			log.Fatalf("%v: %v", elfFile, err)
		}
		boot = true
	}

	var image *mio.Image
	if len(disk) != 0 {
		image = &mio.Image{}
		inf, err := os.Open(disk)
		switch {
		case err == nil:
			err = image.Unmarshal(inf)
			inf.Close()
			if err != nil {
				log.Fatalf("%v: %v", disk, err)
			}
		case !os.IsNotExist(err):
			log.Fatalf("%v: %v", disk, err)
		}
		emu.Block.Storage = image
	}

	con, err = openConsole()
	if err != nil {
		log.Fatalf("%v: %v", os.Stdin.Name(), err)
	}
	if con != nil {
		emu.Uart.Attach(con)
		emu.Uart.Output = con
	} else {
		emu.Uart.Attach(os.Stdin)
		emu.Uart.Output = os.Stdout
	}

	if boot {
		emu.Boot(entry)
	} else {
		emu.Reset()
	}

	err = emu.Run(steps)
	con.Restore()

	if dump {
		pp.Fprintln(os.Stderr, emu.Cpu.Registers, emu.Legacy.Registers)
	}

	if image != nil {
		ouf, err := os.Create(disk)
		if err != nil {
			log.Fatalf("%v: %v", disk, err)
		}
		err = image.Marshal(ouf)
		ouf.Close()
		if err != nil {
			log.Fatalf("%v: %v", disk, err)
		}
	}

	if err != nil {
		log.Fatal(err)
	}
}
