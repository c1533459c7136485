// Package loader moves ELF32 executables into and out of physical memory.
// Only PT_LOAD program headers matter: each is copied to its physical
// address, and the part of the segment beyond its file data is zeroed.
package loader

import (
	"debug/elf"
	"encoding/binary"
	"io"
	"iter"
	"log"
)

const (
	HEADER_SIZE = 52 // sizeof(Elf32_Ehdr)
	PROG_SIZE   = 32 // sizeof(Elf32_Phdr)

	MACHINE = elf.EM_NONE
)

// Segment is one loadable piece of an image.
type Segment struct {
	Addr uint32 // Physical load address.
	Data []byte
	Size uint32 // Memory size; at least len(Data).
}

// Image is a parsed executable.
type Image struct {
	Verbose bool

	Entry    uint32
	Segments []Segment
}

// Read parses an ELF32 little-endian executable.
func Read(r io.ReaderAt) (image *Image, err error) {
	file, err := elf.NewFile(r)
	if err != nil {
		return
	}
	defer file.Close()

	if file.Class != elf.ELFCLASS32 || file.Data != elf.ELFDATA2LSB {
		err = ErrElfClass
		return
	}
	if file.Type != elf.ET_EXEC {
		err = ErrElfType
		return
	}

	image = &Image{Entry: uint32(file.Entry)}

	for n, prog := range file.Progs {
		if prog.Type != elf.PT_LOAD {
			continue
		}

		data := make([]byte, prog.Filesz)
		if len(data) > 0 {
			_, err = prog.ReadAt(data, 0)
			if err != nil {
				image = nil
				err = ErrSegment{Index: n, Addr: uint32(prog.Paddr), Err: ErrSegmentShort}
				return
			}
		}

		image.Segments = append(image.Segments, Segment{
			Addr: uint32(prog.Paddr),
			Data: data,
			Size: uint32(max(prog.Memsz, prog.Filesz)),
		})
	}

	return
}

// Install copies every segment into physical memory.
func (image *Image) Install(memory []byte) (err error) {
	for n, seg := range image.Segments {
		size := max(seg.Size, uint32(len(seg.Data)))
		end := uint64(seg.Addr) + uint64(size)
		if end > uint64(len(memory)) {
			err = ErrSegment{Index: n, Addr: seg.Addr, Err: ErrSegmentRange}
			return
		}

		copy(memory[seg.Addr:], seg.Data)
		clear(memory[seg.Addr+uint32(len(seg.Data)) : end])

		if image.Verbose {
			log.Printf("loader: segment %d: %08x-%08x", n, seg.Addr, end-1)
		}
	}

	return
}

// Load reads an executable into physical memory and returns its entry.
func Load(r io.ReaderAt, memory []byte) (entry uint32, err error) {
	image, err := Read(r)
	if err != nil {
		return
	}

	err = image.Install(memory)
	if err != nil {
		return
	}

	entry = image.Entry
	return
}

// Write emits an ELF32 executable with one PT_LOAD header per segment.
func Write(w io.Writer, entry uint32, segments iter.Seq2[uint32, []byte]) (err error) {
	var progs []elf.Prog32
	var data [][]byte

	for addr, code := range segments {
		progs = append(progs, elf.Prog32{
			Type:   uint32(elf.PT_LOAD),
			Vaddr:  addr,
			Paddr:  addr,
			Filesz: uint32(len(code)),
			Memsz:  uint32(len(code)),
			Flags:  uint32(elf.PF_R | elf.PF_W | elf.PF_X),
			Align:  1,
		})
		data = append(data, code)
	}

	offset := uint32(HEADER_SIZE + PROG_SIZE*len(progs))
	for n := range progs {
		progs[n].Off = offset
		offset += progs[n].Filesz
	}

	header := elf.Header32{
		Type:      uint16(elf.ET_EXEC),
		Machine:   uint16(MACHINE),
		Version:   uint32(elf.EV_CURRENT),
		Entry:     entry,
		Phoff:     HEADER_SIZE,
		Ehsize:    HEADER_SIZE,
		Phentsize: PROG_SIZE,
		Phnum:     uint16(len(progs)),
	}
	copy(header.Ident[:], elf.ELFMAG)
	header.Ident[elf.EI_CLASS] = byte(elf.ELFCLASS32)
	header.Ident[elf.EI_DATA] = byte(elf.ELFDATA2LSB)
	header.Ident[elf.EI_VERSION] = byte(elf.EV_CURRENT)

	err = binary.Write(w, binary.LittleEndian, &header)
	if err != nil {
		return
	}

	err = binary.Write(w, binary.LittleEndian, progs)
	if err != nil {
		return
	}

	for _, code := range data {
		_, err = w.Write(code)
		if err != nil {
			return
		}
	}

	return
}
