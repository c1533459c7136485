// Package bus implements the single shared system bus of the m65832
// machine: physical memory, the memory-mapped I/O window, and the
// ownership discipline that lets the main core and the legacy coprocessor
// time-share one address/data path.
//
// A core never touches the Bus directly. It is handed a Port for its
// Owner, and every access through a Port asserts that the arbiter has
// granted the bus to that owner for the current step.
package bus
