package bus

import (
	"fmt"
)

// Owner identifies which core drives the bus lines during a step.
type Owner int

const (
	OWNER_NONE   = Owner(0) // none
	OWNER_MAIN   = Owner(1) // main
	OWNER_COPROC = Owner(2) // coproc
)

func (o Owner) String() string {
	switch o {
	case OWNER_NONE:
		return "none"
	case OWNER_MAIN:
		return "main"
	case OWNER_COPROC:
		return "coproc"
	}
	return fmt.Sprintf("Owner(%d)", int(o))
}

// CycleKind is the status line distinguishing what a bus cycle is for.
type CycleKind int

const (
	CYCLE_FETCH  = CycleKind(0) // Opcode or operand fetch.
	CYCLE_DATA   = CycleKind(1) // Data read or write.
	CYCLE_VECTOR = CycleKind(2) // Vector pull during trap entry.
	CYCLE_WALK   = CycleKind(3) // Page table walk by the MMU.
)

func (k CycleKind) String() string {
	switch k {
	case CYCLE_FETCH:
		return "fetch"
	case CYCLE_DATA:
		return "data"
	case CYCLE_VECTOR:
		return "vector"
	case CYCLE_WALK:
		return "walk"
	}
	return fmt.Sprintf("CycleKind(%d)", int(k))
}

// Cycle is the state of the bus lines for one access.
type Cycle struct {
	Owner Owner
	Kind  CycleKind
	Addr  uint32
	Data  uint32
	Size  int
	Write bool
	Ready bool // Deasserted when the target stalled the requester.
}

func (c Cycle) String() string {
	dir := "rd"
	if c.Write {
		dir = "wr"
	}
	rdy := ""
	if !c.Ready {
		rdy = " (stall)"
	}
	return fmt.Sprintf("%v %v %v %08x/%d = %0*x%v", c.Owner, c.Kind, dir, c.Addr, c.Size, c.Size*2, c.Data, rdy)
}
