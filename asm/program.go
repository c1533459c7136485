package asm

import (
	"fmt"
	"io"
	"iter"
	"maps"
	"slices"
	"strings"
)

// Statement is one assembled source line.
type Statement struct {
	LineNo int      // Source line number.
	Addr   uint32   // Address of the first byte.
	Words  []string // Source words after expansion.
	Code   []byte   // Machine code.
}

// Program is the output of the assembler.
type Program struct {
	Statements []Statement
	Labels     map[string]uint32
}

// Debug locates the statement containing an address.
type Debug struct {
	*Statement
	Offset int
}

// Debug returns the statement that assembled the byte at addr.
func (prog *Program) Debug(addr uint32) (dbg Debug) {
	for n, st := range prog.Statements {
		if addr >= st.Addr && addr-st.Addr < uint32(len(st.Code)) {
			dbg = Debug{
				Statement: &prog.Statements[n],
				Offset:    int(addr - st.Addr),
			}
			break
		}
	}

	return
}

// Symbol returns the label at addr, if any, preferring the first in
// name order.
func (prog *Program) Symbol(addr uint32) (name string, ok bool) {
	for _, label := range slices.Sorted(maps.Keys(prog.Labels)) {
		if prog.Labels[label] == addr {
			return label, true
		}
	}
	return
}

// Segments yields runs of contiguous code in address order.
func (prog *Program) Segments() iter.Seq2[uint32, []byte] {
	return func(yield func(addr uint32, code []byte) bool) {
		list := slices.Clone(prog.Statements)
		slices.SortStableFunc(list, func(a, b Statement) int {
			switch {
			case a.Addr < b.Addr:
				return -1
			case a.Addr > b.Addr:
				return 1
			}
			return 0
		})

		var start uint32
		var run []byte
		for _, st := range list {
			if len(run) > 0 && st.Addr != start+uint32(len(run)) {
				if !yield(start, run) {
					return
				}
				run = nil
			}
			if len(run) == 0 {
				start = st.Addr
			}
			run = append(run, st.Code...)
		}
		if len(run) > 0 {
			yield(start, run)
		}
	}
}

// Size returns the number of bytes of machine code.
func (prog *Program) Size() (size int) {
	for _, st := range prog.Statements {
		size += len(st.Code)
	}
	return
}

// WriteListing writes an address, code and source listing.
func (prog *Program) WriteListing(w io.Writer) (err error) {
	for _, st := range prog.Statements {
		code := fmt.Sprintf("% X", st.Code)
		if len(code) > 20 {
			code = code[:17] + "..."
		}
		_, err = fmt.Fprintf(w, "%08X  %-20s  %5d  %v\n", st.Addr, code, st.LineNo, strings.Join(st.Words, " "))
		if err != nil {
			return
		}
	}
	return
}
