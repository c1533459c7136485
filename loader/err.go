package loader

import (
	"errors"

	"github.com/ezrec/m65832/translate"
)

var f = translate.From

var (
	ErrElfClass     = errors.New(f("not a 32-bit little-endian elf file"))
	ErrElfType      = errors.New(f("not an executable elf file"))
	ErrSegmentRange = errors.New(f("segment outside physical memory"))
	ErrSegmentShort = errors.New(f("segment file data truncated"))
)

// ErrSegment gives the program header a load error belongs to.
type ErrSegment struct {
	Index int
	Addr  uint32
	Err   error
}

func (err ErrSegment) Error() string {
	return f("segment %d at $%08X: %v", err.Index, err.Addr, err.Err)
}

func (err ErrSegment) Unwrap() error {
	return err.Err
}
