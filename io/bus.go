package io

import (
	"log"
)

// Bus routes IN and OUT to the device attached at each of the 256 ports.
// Unattached ports read as empty and discard writes.
type Bus struct {
	Verbose bool // Set to enable verbose logging.

	ports [256]Port
}

var _ Handler = (*Bus)(nil)

// Attach a device to a port, replacing any device already there.
func (bus *Bus) Attach(port uint8, dev Port) {
	bus.ports[port] = dev
}

// Detach the device at a port.
func (bus *Bus) Detach(port uint8) {
	bus.ports[port] = nil
}

// Port returns the device at a port, or nil.
func (bus *Bus) Port(port uint8) Port {
	return bus.ports[port]
}

// Reset rewinds every attached device.
func (bus *Bus) Reset() {
	for _, dev := range bus.ports {
		if dev != nil {
			dev.Rewind()
		}
	}
}

// In implements Handler.
func (bus *Bus) In(port uint8) (value uint8, ok bool) {
	dev := bus.ports[port]
	if dev == nil {
		if bus.Verbose {
			log.Printf("bus: in 0x%02x: no device", port)
		}
		return
	}

	value, ok = dev.Receive()
	return
}

// Out implements Handler.
func (bus *Bus) Out(port uint8, value uint8) (err error) {
	dev := bus.ports[port]
	if dev == nil {
		if bus.Verbose {
			log.Printf("bus: out 0x%02x: 0x%02x dropped", port, value)
		}
		return
	}

	err = dev.Send(value)
	return
}
