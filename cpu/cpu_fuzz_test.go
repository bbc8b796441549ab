package cpu

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Mnemonics that may move pc somewhere other than the next instruction.
var branchMnemonics = map[string]bool{
	"JMP": true, "JNZ": true, "JZ": true, "JNC": true, "JC": true,
	"JPO": true, "JPE": true, "JP": true, "JM": true,
	"CALL": true, "CNZ": true, "CZ": true, "CNC": true, "CC": true,
	"CPO": true, "CPE": true, "CP": true, "CM": true,
	"RET": true, "RNZ": true, "RZ": true, "RNC": true, "RC": true,
	"RPO": true, "RPE": true, "RP": true, "RM": true,
	"RST": true, "PCHL": true,
}

func FuzzStep(f *testing.F) {
	for opcode := range 256 {
		f.Add(uint8(opcode), uint8(0x34), uint8(0x12), uint8(0))
		f.Add(uint8(opcode), uint8(0xff), uint8(0xff), uint8(0xff))
	}

	f.Fuzz(func(t *testing.T, opcode uint8, lo uint8, hi uint8, psw uint8) {
		assert := assert.New(t)

		cpu := NewCpu()
		cpu.Ports = &testPorts{in: map[uint8]uint8{lo: hi}}
		assert.NoError(cpu.LoadAt([]byte{opcode, lo, hi}, 0x0100))
		cpu.SetPc(0x0100)
		cpu.SetSp(0x8000)
		cpu.SetPSW(uint16(psw)<<8 | uint16(psw))
		cpu.SetPair(PairHL, 0x4000)

		inst := &InstructionSet[opcode]
		code := Code{Opcode: opcode, Arg: uint16(hi)<<8 | uint16(lo)}
		code_str := fmt.Sprintf("0x%02x (%v)\ncpu:%v", opcode, code, cpu.String())

		event, err := cpu.Step()
		switch {
		case opcode == 0x76:
			assert.Equal(EventHalt, event, code_str)
			assert.True(errors.Is(err, ErrHalted), code_str)
		default:
			assert.NoError(err, code_str)
		}

		cycles := uint64(inst.Cycles)
		if branchMnemonics[inst.Mnemonic()] {
			assert.LessOrEqual(cycles, cpu.Cycles(), code_str)
			assert.LessOrEqual(cpu.Cycles(), cycles+uint64(inst.Taken), code_str)
			return
		}

		assert.Equal(uint16(0x0100+inst.Size), cpu.Pc(), code_str)
		assert.Equal(cycles, cpu.Cycles(), code_str)
		assert.Equal(uint8(0x02), cpu.Flags().Byte()&0x2a, code_str)
	})
}
