package cpu

import (
	"fmt"
	"iter"
	"maps"
)

// Default machine layout.
const (
	MEMORY_SIZE  = int32(2000) // Total cells in the address space.
	USER_LIMIT   = int32(1000) // First address of the system region.
	HANDLER      = int32(1500) // Interrupt handler entry.
	SYSTEM_STACK = int32(2000) // Initial kernel stack pointer.
)

// Layout describes the address space as seen by the engine.
type Layout struct {
	Size        int32 // Total cells.
	UserLimit   int32 // Addresses at or above are system only.
	Handler     int32 // Interrupt handler entry address.
	SystemStack int32 // Kernel SP on interrupt entry.
	Timer       int   // Timer interrupt interval in instructions, 0 to disable.
}

// DefaultLayout returns the standard 2000 cell machine.
func DefaultLayout() Layout {
	return Layout{
		Size:        MEMORY_SIZE,
		UserLimit:   USER_LIMIT,
		Handler:     HANDLER,
		SystemStack: SYSTEM_STACK,
	}
}

// Validate checks that the regions are consistent.
func (layout Layout) Validate() (err error) {
	switch {
	case layout.Size <= 0:
		err = ErrLayout("size")
	case layout.UserLimit <= 0 || layout.UserLimit > layout.Size:
		err = ErrLayout("user limit")
	case layout.Handler < layout.UserLimit || layout.Handler >= layout.Size:
		err = ErrLayout("handler")
	case layout.SystemStack <= layout.UserLimit || layout.SystemStack > layout.Size:
		err = ErrLayout("system stack")
	case layout.Timer < 0:
		err = ErrLayout("timer")
	}

	return
}

// System returns true if the address is in the system region.
func (layout Layout) System(address int32) bool {
	return address >= layout.UserLimit
}

// Contains returns true if the address is inside the address space.
func (layout Layout) Contains(address int32) bool {
	return address >= 0 && address < layout.Size
}

// Defines returns the layout as assembler equates.
func (layout Layout) Defines() iter.Seq2[string, string] {
	return maps.All(map[string]string{
		"MEMORY_SIZE":    fmt.Sprintf("%d", layout.Size),
		"USER_LIMIT":     fmt.Sprintf("%d", layout.UserLimit),
		"HANDLER":        fmt.Sprintf("%d", layout.Handler),
		"SYSTEM_STACK":   fmt.Sprintf("%d", layout.SystemStack),
		"PORT_INTEGER":   fmt.Sprintf("%d", PORT_INTEGER),
		"PORT_CHARACTER": fmt.Sprintf("%d", PORT_CHARACTER),
	})
}
