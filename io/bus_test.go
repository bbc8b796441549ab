package io

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBus(t *testing.T) {
	assert := assert.New(t)

	var out bytes.Buffer
	bus := &Bus{}
	tape := &Tape{Output: &out}
	rom := &Rom{Data: []byte{0xa5}}

	bus.Attach(1, tape)
	bus.Attach(2, rom)
	assert.Equal(tape, bus.Port(1))
	assert.Nil(bus.Port(3))

	assert.NoError(bus.Out(1, 'x'))
	assert.Equal("x", out.String())

	value, ok := bus.In(2)
	assert.True(ok)
	assert.Equal(uint8(0xa5), value)

	_, ok = bus.In(2)
	assert.False(ok)

	bus.Reset()
	value, ok = bus.In(2)
	assert.True(ok)
	assert.Equal(uint8(0xa5), value)

	assert.ErrorIs(bus.Out(2, 0), ErrPortReadOnly)

	bus.Detach(1)
	assert.Nil(bus.Port(1))
	assert.NoError(bus.Out(1, 'y'))
	assert.Equal("x", out.String())
}

func TestBus_Unattached(t *testing.T) {
	assert := assert.New(t)

	bus := &Bus{}
	for port := range 256 {
		_, ok := bus.In(uint8(port))
		assert.False(ok)
		assert.NoError(bus.Out(uint8(port), 0xff))
	}
}
