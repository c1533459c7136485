package mmu

import (
	"errors"

	"github.com/ezrec/m65832/translate"
)

var f = translate.From

//go:generate go tool stringer -linecomment -type=FaultType

// FaultType is the code latched into the fault-type register.
type FaultType uint32

const (
	FAULT_NONE           = FaultType(0) // none
	FAULT_NOT_PRESENT_L1 = FaultType(1) // level-1 not present
	FAULT_NOT_PRESENT_L2 = FaultType(2) // level-2 not present
	FAULT_WRITE_PROTECT  = FaultType(3) // write protect
	FAULT_USER           = FaultType(4) // user access to supervisor page
)

// NotPresent reports whether the fault is a missing mapping.
func (t FaultType) NotPresent() bool {
	return t == FAULT_NOT_PRESENT_L1 || t == FAULT_NOT_PRESENT_L2
}

// ErrFault is the sentinel every Fault matches with errors.Is.
var ErrFault = errors.New(f("mmu fault"))

// Fault describes a failed translation.
type Fault struct {
	Addr   uint32
	Type   FaultType
	Access Access
}

func (fault Fault) Error() string {
	return f("%v fault at %v: %v", fault.Access, translate.Hex(fault.Addr), fault.Type)
}

func (fault Fault) Is(err error) bool {
	return err == ErrFault
}

// Code packs the fault into the fault-type register layout: the type in
// bits 7:0 and the access kind in bits 9:8.
func (fault Fault) Code() uint32 {
	return uint32(fault.Type) | uint32(fault.Access)<<8
}
