package mmu

import (
	"iter"
	"log"

	"github.com/ezrec/m65832/bus"
)

const (
	MMIO_MMU = bus.MMIO_BASE + 0x000
	MMIO_END = MMIO_MMU + 0x0FF

	REG_CONTROL      = 0x000
	REG_STATUS       = 0x004
	REG_ASID         = 0x008
	REG_TLB_FLUSH    = 0x00C
	REG_TLB_FLUSH_VA = 0x010
	REG_PTBR_LO      = 0x014
	REG_PTBR_HI      = 0x018
	REG_FAULT_VA     = 0x01C
	REG_FAULT_TYPE   = 0x020

	CONTROL_ENABLE = uint32(1 << 0)

	STATUS_ENABLED = uint32(1 << 0)
	STATUS_FAULT   = uint32(1 << 1) // Write 1 to clear.

	FLUSH_ALL  = uint32(0)
	FLUSH_ASID = uint32(1)
)

var regNames = map[string]uint32{
	"MMU_CONTROL":      REG_CONTROL,
	"MMU_STATUS":       REG_STATUS,
	"MMU_ASID":         REG_ASID,
	"MMU_TLB_FLUSH":    REG_TLB_FLUSH,
	"MMU_TLB_FLUSH_VA": REG_TLB_FLUSH_VA,
	"MMU_PTBR_LO":      REG_PTBR_LO,
	"MMU_PTBR_HI":      REG_PTBR_HI,
	"MMU_FAULT_VA":     REG_FAULT_VA,
	"MMU_FAULT_TYPE":   REG_FAULT_TYPE,
}

// Defines returns the assembler symbols for the MMU registers.
func (mmu *Mmu) Defines() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for name, reg := range regNames {
			if !yield(name, hex32(MMIO_MMU+reg)) {
				return
			}
		}
	}
}

func merge(old, value, mask uint32) uint32 {
	return (old &^ mask) | (value & mask)
}

// ReadReg implements bus.Device.
func (mmu *Mmu) ReadReg(reg uint32) (value uint32) {
	switch reg {
	case REG_CONTROL:
		if mmu.enabled {
			value = CONTROL_ENABLE
		}
	case REG_STATUS:
		if mmu.enabled {
			value |= STATUS_ENABLED
		}
		if mmu.faultValid {
			value |= STATUS_FAULT
		}
	case REG_ASID:
		value = mmu.asid
	case REG_PTBR_LO:
		value = uint32(mmu.ptbr)
	case REG_PTBR_HI:
		value = uint32(mmu.ptbr >> 32)
	case REG_FAULT_VA:
		value = mmu.faultAddr
	case REG_FAULT_TYPE:
		value = Fault{Type: mmu.faultType, Access: mmu.faultKind}.Code()
	}
	return
}

// WriteReg implements bus.Device.
func (mmu *Mmu) WriteReg(reg uint32, value uint32, mask uint32) {
	switch reg {
	case REG_CONTROL:
		control := mmu.ReadReg(REG_CONTROL)
		mmu.enabled = merge(control, value, mask)&CONTROL_ENABLE != 0
		if mmu.Verbose {
			log.Printf("mmu: enabled=%v", mmu.enabled)
		}
	case REG_STATUS:
		if value&mask&STATUS_FAULT != 0 {
			mmu.faultValid = false
		}
	case REG_ASID:
		mmu.SetAsid(merge(mmu.asid, value, mask))
	case REG_TLB_FLUSH:
		if value&mask == FLUSH_ASID {
			mmu.FlushAsid(mmu.asid)
		} else {
			mmu.Flush()
		}
	case REG_TLB_FLUSH_VA:
		mmu.FlushPage(value & mask)
	case REG_PTBR_LO:
		lo := merge(uint32(mmu.ptbr), value, mask)
		mmu.ptbr = (mmu.ptbr &^ 0xFFFF_FFFF) | uint64(lo)
	case REG_PTBR_HI:
		hi := merge(uint32(mmu.ptbr>>32), value, mask)
		mmu.ptbr = uint64(hi)<<32 | (mmu.ptbr & 0xFFFF_FFFF)
	}
}
