// Package io provides the port devices behind the 8080 IN and OUT
// instructions: a port Bus, sequential Tape, read-only Rom, Temporary FIFO
// storage, and a persistent Ring. It also loads program images from disk.
package io

// Handler services the IN and OUT instructions of a CPU.
type Handler interface {
	// In reads a byte from a port. ok is false when the port has
	// nothing to give, and the CPU substitutes its sentinel.
	In(port uint8) (value uint8, ok bool)
	// Out writes a byte to a port.
	Out(port uint8, value uint8) error
}

// Port is a byte device attached to a single port number.
type Port interface {
	// Rewind resets the device to its initial state.
	Rewind()
	// Receive returns the next byte from the device.
	Receive() (value uint8, ok bool)
	// Send writes a byte to the device.
	Send(value uint8) error
}
