package cpu

import (
	"iter"
)

// Program is an assembled list of opcodes.
type Program struct {
	Opcodes []Opcode
}

// Debug locates the opcode that emitted a byte.
type Debug struct {
	*Opcode
	Index int // Offset of the byte within the opcode's data.
}

// Debug returns the opcode covering addr, if any.
func (prog *Program) Debug(addr uint16) (dbg Debug) {
	for n, op := range prog.Opcodes {
		start := int(op.Addr)
		if int(addr) >= start && int(addr) < start+len(op.Data) {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Index:  int(addr) - start,
			}
			break
		}
	}

	return
}

// Image returns the program as one block starting at origin.
// Gaps left by .org are zero filled.
func (prog *Program) Image() (origin uint16, data []byte) {
	lo, hi := MemorySize, 0
	for _, op := range prog.Opcodes {
		if len(op.Data) == 0 {
			continue
		}
		lo = min(lo, int(op.Addr))
		hi = max(hi, int(op.Addr)+len(op.Data))
	}

	if hi == 0 {
		return
	}

	data = make([]byte, hi-lo)
	for addr, value := range prog.Bytes() {
		data[int(addr)-lo] = value
	}
	origin = uint16(lo)

	return
}

// Bytes iterates over each emitted byte and its address.
func (prog *Program) Bytes() iter.Seq2[uint16, uint8] {
	return func(yield func(addr uint16, value uint8) bool) {
		for _, op := range prog.Opcodes {
			for n, value := range op.Data {
				if !yield(op.Addr+uint16(n), value) {
					return
				}
			}
		}
	}
}
