package io

// Rom replays a fixed byte sequence, from the start after every Rewind.
type Rom struct {
	Data []byte

	index int
}

var _ Port = (*Rom)(nil)

func (rc *Rom) Rewind() {
	rc.index = 0
}

func (rc *Rom) Receive() (value uint8, ok bool) {
	if rc.index >= len(rc.Data) {
		return
	}

	value = rc.Data[rc.index]
	rc.index++
	ok = true
	return
}

func (rc *Rom) Send(value uint8) error {
	return ErrPortReadOnly
}
