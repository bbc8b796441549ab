package io

import (
	"io"
)

// Tape provides sequential I/O over a byte stream.
// It wraps an io.Reader for input and io.Writer for output; either may be nil.
type Tape struct {
	Input  io.Reader
	Output io.Writer

	err error // Read error, ending input until Rewind.
}

var _ Port = (*Tape)(nil)

// Rewind is not possible on a tape; it only clears a read error.
func (tc *Tape) Rewind() {
	tc.err = nil
}

// Receive reads the next byte of input. ok is false at end of input,
// and after any read error.
func (tc *Tape) Receive() (value uint8, ok bool) {
	if tc.Input == nil || tc.err != nil {
		return
	}

	var one [1]byte
	n, err := tc.Input.Read(one[:])
	if err != nil && err != io.EOF {
		tc.err = err
	}
	if n != 1 {
		return
	}

	value = one[0]
	ok = true
	return
}

// Send writes a byte to the output. Without an output the byte is dropped.
func (tc *Tape) Send(value uint8) (err error) {
	if tc.Output == nil {
		return
	}

	_, err = tc.Output.Write([]byte{value})
	return
}
