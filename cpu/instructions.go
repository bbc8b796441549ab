package cpu

import (
	"fmt"
)

// Opcodes that decode as NOP on the 8080.
var undocumentedOpcodes = []uint8{
	0x08, 0x10, 0x18, 0x20, 0x28, 0x30, 0x38,
	0xcb, 0xd9, 0xdd, 0xed, 0xfd,
}

func init() {
	defineMachine()
	defineMoves()
	defineArithmetic()
	defineBranches()

	for _, opcode := range undocumentedOpcodes {
		defineUndocumented(opcode, 0x00)
	}
}

// simple wraps an instruction that never raises an event.
func simple(fn func(cpu *Cpu, arg uint16)) execFunc {
	return func(cpu *Cpu, arg uint16) (event Event, err error) {
		fn(cpu, arg)
		return
	}
}

func defineMachine() {
	defineInstruction(0x00, "NOP", 4, simple(func(cpu *Cpu, _ uint16) {}))

	defineInstruction(0x76, "HLT", 7, func(cpu *Cpu, _ uint16) (event Event, err error) {
		cpu.halted = true
		event = EventHalt
		return
	})

	defineInstruction(0xfb, "EI", 4, simple(func(cpu *Cpu, _ uint16) {
		cpu.inte = true
	}))

	defineInstruction(0xf3, "DI", 4, simple(func(cpu *Cpu, _ uint16) {
		cpu.inte = false
	}))

	defineInstruction(0xdb, "IN d8", 10, func(cpu *Cpu, arg uint16) (event Event, err error) {
		port := uint8(arg)
		value := PortSentinel
		if cpu.Ports != nil {
			if data, ok := cpu.Ports.In(port); ok {
				value = data
			}
		}
		cpu.reg[RegA] = value
		cpu.trap.Port, cpu.trap.Data = port, value
		event = EventIn
		return
	})

	defineInstruction(0xd3, "OUT d8", 10, func(cpu *Cpu, arg uint16) (event Event, err error) {
		port := uint8(arg)
		value := cpu.reg[RegA]
		cpu.trap.Port, cpu.trap.Data = port, value
		if cpu.Ports != nil {
			err = cpu.Ports.Out(port, value)
		}
		event = EventOut
		return
	})
}

func defineMoves() {
	for dst := RegB; dst <= RegA; dst++ {
		for src := RegB; src <= RegA; src++ {
			if dst == RegM && src == RegM {
				// 0x76 is HLT
				continue
			}
			cycles := 5
			if dst == RegM || src == RegM {
				cycles = 7
			}
			opcode := 0x40 | uint8(dst)<<3 | uint8(src)
			defineInstruction(opcode, fmt.Sprintf("MOV %v,%v", dst, src), cycles, simple(func(cpu *Cpu, _ uint16) {
				cpu.SetOperand(dst, cpu.Operand(src))
			}))
		}

		cycles := 7
		if dst == RegM {
			cycles = 10
		}
		defineInstruction(0x06|uint8(dst)<<3, fmt.Sprintf("MVI %v,d8", dst), cycles, simple(func(cpu *Cpu, arg uint16) {
			cpu.SetOperand(dst, uint8(arg))
		}))
	}

	for pair := PairBC; pair <= PairSP; pair++ {
		defineInstruction(0x01|uint8(pair)<<4, fmt.Sprintf("LXI %v,d16", pair), 10, simple(func(cpu *Cpu, arg uint16) {
			cpu.SetPair(pair, arg)
		}))
	}

	for pair := PairBC; pair <= PairDE; pair++ {
		defineInstruction(0x02|uint8(pair)<<4, fmt.Sprintf("STAX %v", pair), 7, simple(func(cpu *Cpu, _ uint16) {
			cpu.mem.Write(cpu.Pair(pair), cpu.reg[RegA])
		}))
		defineInstruction(0x0a|uint8(pair)<<4, fmt.Sprintf("LDAX %v", pair), 7, simple(func(cpu *Cpu, _ uint16) {
			cpu.reg[RegA] = cpu.mem.Read(cpu.Pair(pair))
		}))
	}

	defineInstruction(0x22, "SHLD a16", 16, simple(func(cpu *Cpu, arg uint16) {
		cpu.mem.Write16(arg, cpu.HL())
	}))
	defineInstruction(0x2a, "LHLD a16", 16, simple(func(cpu *Cpu, arg uint16) {
		cpu.SetPair(PairHL, cpu.mem.Read16(arg))
	}))
	defineInstruction(0x32, "STA a16", 13, simple(func(cpu *Cpu, arg uint16) {
		cpu.mem.Write(arg, cpu.reg[RegA])
	}))
	defineInstruction(0x3a, "LDA a16", 13, simple(func(cpu *Cpu, arg uint16) {
		cpu.reg[RegA] = cpu.mem.Read(arg)
	}))

	defineInstruction(0xeb, "XCHG", 4, simple(func(cpu *Cpu, _ uint16) {
		de, hl := cpu.DE(), cpu.HL()
		cpu.SetPair(PairDE, hl)
		cpu.SetPair(PairHL, de)
	}))
	defineInstruction(0xe3, "XTHL", 18, simple(func(cpu *Cpu, _ uint16) {
		hl := cpu.HL()
		cpu.SetPair(PairHL, cpu.mem.Read16(cpu.sp))
		cpu.mem.Write16(cpu.sp, hl)
	}))
	defineInstruction(0xf9, "SPHL", 5, simple(func(cpu *Cpu, _ uint16) {
		cpu.sp = cpu.HL()
	}))
}
