package cpu

const (
	MemorySize = 0x10000 // Size of the 16-bit address space.
)

// Memory is the flat 64 KiB address space. Every address wraps.
type Memory [MemorySize]uint8

// Read returns the byte at addr.
func (mem *Memory) Read(addr uint16) uint8 {
	return mem[addr]
}

// Write stores a byte at addr.
func (mem *Memory) Write(addr uint16, value uint8) {
	mem[addr] = value
}

// Read16 returns the little-endian word at addr. The high byte wraps
// to 0x0000 when addr is 0xffff.
func (mem *Memory) Read16(addr uint16) uint16 {
	return uint16(mem[addr]) | uint16(mem[addr+1])<<8
}

// Write16 stores a little-endian word at addr.
func (mem *Memory) Write16(addr uint16, value uint16) {
	mem[addr] = uint8(value)
	mem[addr+1] = uint8(value >> 8)
}

// Load copies data into memory starting at offset.
func (mem *Memory) Load(data []byte, offset int) (err error) {
	if offset < 0 || offset > MemorySize || len(data) > MemorySize-offset {
		err = ErrAddress{Offset: offset, Length: len(data)}
		return
	}

	copy(mem[offset:], data)
	return
}

// Reset zeroes all of memory.
func (mem *Memory) Reset() {
	clear(mem[:])
}
