package io

import (
	"io"
)

const (
	// RING_DEFAULT_CAPACITY is the default capacity in bytes for a new ring.
	RING_DEFAULT_CAPACITY = 65536
)

// Ring is persistent byte storage with separate read and write positions.
// Reads stop at the write position; writes stop at the capacity.
// Its contents survive a Rewind, and can be saved and restored with
// Marshal and Unmarshal.
type Ring struct {
	Capacity int

	WriteIndex int
	ReadIndex  int
	Data       []uint8
}

var _ Port = (*Ring)(nil)

// Rewind resets the ring's read position to the start and write position to the end
// of existing data. Initializes the data buffer if not already allocated.
func (ring *Ring) Rewind() {
	if ring.Capacity == 0 {
		ring.Capacity = RING_DEFAULT_CAPACITY
	}
	if ring.Data == nil {
		ring.Data = make([]byte, 0, ring.Capacity)
	}

	ring.ReadIndex = 0
	ring.WriteIndex = len(ring.Data)
}

// Unmarshal loads ring data from a reader, replacing any existing data.
func (ring *Ring) Unmarshal(file io.Reader) (err error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return
	}

	if ring.Capacity < len(data) {
		ring.Capacity = len(data)
	}

	ring.Data = data
	ring.ReadIndex = 0
	ring.WriteIndex = len(ring.Data)

	return
}

// Marshal writes the ring's data to a writer up to the current write position.
func (ring *Ring) Marshal(file io.Writer) (err error) {
	_, err = file.Write(ring.Data[:ring.WriteIndex])

	return
}

// Receive returns the byte at the read position, up to the write position.
func (ring *Ring) Receive() (value uint8, ok bool) {
	if ring.ReadIndex >= ring.WriteIndex {
		return
	}

	value = ring.Data[ring.ReadIndex]
	ring.ReadIndex++
	ok = true
	return
}

// Send writes a byte to the ring at the current write position.
// Returns ErrPortFull if the ring has reached capacity.
func (ring *Ring) Send(value uint8) (err error) {
	if ring.WriteIndex >= ring.Capacity {
		err = ErrPortFull
		return
	}

	if ring.WriteIndex < len(ring.Data) {
		ring.Data[ring.WriteIndex] = value
	} else {
		ring.Data = append(ring.Data, value)
	}

	ring.WriteIndex++

	return
}
