package main

import (
	"bytes"
	"io"
	"os"

	"golang.org/x/term"
)

const (
	keyInterrupt = 0x03 // ^C
	keyEOF       = 0x04 // ^D
	keyDelete    = 0x7F
)

// console puts an interactive stdin in raw mode, so the UART sees every
// key as it is typed.
type console struct {
	fd    int
	state *term.State
}

// openConsole returns nil when stdin is not a terminal.
func openConsole() (con *console, err error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return
	}

	state, err := term.MakeRaw(fd)
	if err != nil {
		return
	}

	con = &console{fd: fd, state: state}
	return
}

func (con *console) Restore() {
	if con == nil || con.state == nil {
		return
	}
	_ = term.Restore(con.fd, con.state)
	con.state = nil
}

// Read translates raw keys: Enter arrives as CR, Backspace as DEL, and
// ^C or ^D end the input.
func (con *console) Read(p []byte) (n int, err error) {
	n, err = os.Stdin.Read(p)
	for i, b := range p[:n] {
		switch b {
		case keyInterrupt, keyEOF:
			return i, io.EOF
		case '\r':
			p[i] = '\n'
		case keyDelete:
			p[i] = '\b'
		}
	}
	return
}

// Write restores the carriage return that raw mode no longer adds.
func (con *console) Write(p []byte) (n int, err error) {
	_, err = os.Stdout.Write(bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n")))
	if err != nil {
		return
	}
	n = len(p)
	return
}
