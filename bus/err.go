package bus

import (
	"errors"

	"github.com/ezrec/m65832/translate"
)

var f = translate.From

var (
	ErrRegionOverlap = errors.New(f("io region overlaps an existing region"))
	ErrRegionRange   = errors.New(f("io region outside the mmio window"))
	ErrAccessSize    = errors.New(f("bus access size must be 1, 2 or 4"))
)

// ErrOwnership is raised (as a panic) when a port is used while the bus
// is granted to a different owner. It is a programming error, never an
// architectural event.
type ErrOwnership struct {
	Want Owner
	Have Owner
	Addr uint32
}

func (err ErrOwnership) Error() string {
	return f("bus owned by %v, access by %v at %v", err.Have, err.Want, translate.Hex(err.Addr))
}
