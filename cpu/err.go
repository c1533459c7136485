package cpu

import (
	"errors"

	"github.com/ezrec/m65832/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrStopped     = errors.New(f("cpu stopped"))
	ErrDoubleFault = errors.New(f("fault during trap entry"))

	// Decode and encode errors
	ErrOpcodeIllegal   = errors.New(f("illegal opcode"))
	ErrModeUnsupported = errors.New(f("addressing mode not supported"))
	ErrFormInvalid     = errors.New(f("instruction form invalid"))

	// Operand resolution errors
	ErrOperandSyntax   = errors.New(f("operand syntax"))
	ErrOperandRange    = errors.New(f("operand out of range"))
	ErrRegisterInvalid = errors.New(f("register invalid"))
)

// ErrIllegal is an undefined opcode.
type ErrIllegal struct {
	Extended bool
	Opcode   byte
}

func (err ErrIllegal) Error() string {
	if err.Extended {
		return f("illegal opcode $%02X $%02X", ESCAPE, err.Opcode)
	}
	return f("illegal opcode $%02X", err.Opcode)
}

func (err ErrIllegal) Is(target error) bool {
	return target == ErrOpcodeIllegal
}

// ErrEncode is a mnemonic without an encoding in the requested mode.
type ErrEncode struct {
	Mnemonic Mnemonic
	Mode     Mode
}

func (err ErrEncode) Error() string {
	return f("%v does not support %v", err.Mnemonic, err.Mode)
}

func (err ErrEncode) Unwrap() error {
	return ErrModeUnsupported
}

// ErrTrap reports a trap the core could not deliver.
type ErrTrap struct {
	Trap  Trap
	Cause Trap
}

func (err ErrTrap) Error() string {
	return f("%v while entering %v", err.Cause, err.Trap)
}

func (err ErrTrap) Unwrap() error {
	return ErrDoubleFault
}
