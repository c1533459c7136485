package mmu

import "fmt"

func hex32(value uint32) string {
	return fmt.Sprintf("$%08X", value)
}
