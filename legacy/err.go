package legacy

import (
	"errors"

	"github.com/ezrec/m65832/translate"
)

var f = translate.From

var (
	ErrJammed = errors.New(f("coprocessor jammed"))
)

// ErrJam is an opcode outside the documented NMOS set. Like the real
// part, the core stops fetching until it is reset.
type ErrJam struct {
	PC     uint16
	Opcode byte
}

func (err ErrJam) Error() string {
	return f("coprocessor jammed on opcode $%02X at $%04X", err.Opcode, err.PC)
}

func (err ErrJam) Is(target error) bool {
	return target == ErrJammed
}
