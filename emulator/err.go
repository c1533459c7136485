package emulator

import (
	"errors"

	"github.com/ezrec/m65832/translate"
)

var f = translate.From

var (
	ErrStepLimit    = errors.New(f("step limit reached"))
	ErrCoprocWindow = errors.New(f("coprocessor window outside physical memory"))
)

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	PC     uint32
	LineNo int // Zero when no program listing covers PC.
	Err    error
}

func (err *ErrRuntime) Error() string {
	if err.LineNo == 0 {
		return f("pc %v: %v", translate.Hex(err.PC), err.Err)
	}
	return f("line %d (pc %v): %v", err.LineNo, translate.Hex(err.PC), err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
