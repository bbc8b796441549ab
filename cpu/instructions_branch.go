package cpu

import (
	"fmt"
)

// call pushes the return address and jumps.
func (cpu *Cpu) call(addr uint16) {
	cpu.Push(cpu.pc)
	cpu.pc = addr
}

// ret pops the return address.
func (cpu *Cpu) ret() {
	cpu.pc = cpu.Pop()
}

// when marks a conditional CALL or RET as taken, for the cycle surcharge.
func (cpu *Cpu) when(cc Cond) bool {
	cpu.taken = cc.Test(cpu.flags)
	return cpu.taken
}

func defineBranches() {
	defineInstruction(0xc3, "JMP a16", 10, simple(func(cpu *Cpu, arg uint16) {
		cpu.pc = arg
	}))
	defineInstruction(0xcd, "CALL a16", 17, simple(func(cpu *Cpu, arg uint16) {
		cpu.call(arg)
	}))
	defineInstruction(0xc9, "RET", 10, simple(func(cpu *Cpu, _ uint16) {
		cpu.ret()
	}))
	defineInstruction(0xe9, "PCHL", 5, simple(func(cpu *Cpu, _ uint16) {
		cpu.pc = cpu.HL()
	}))

	for cc := CondNZ; cc <= CondM; cc++ {
		// Conditional jumps fetch both operand bytes either way.
		defineInstruction(0xc2|uint8(cc)<<3, fmt.Sprintf("J%v a16", cc), 10, simple(func(cpu *Cpu, arg uint16) {
			if cc.Test(cpu.flags) {
				cpu.pc = arg
			}
		}))
		defineBranch(0xc4|uint8(cc)<<3, fmt.Sprintf("C%v a16", cc), 11, 6, simple(func(cpu *Cpu, arg uint16) {
			if cpu.when(cc) {
				cpu.call(arg)
			}
		}))
		defineBranch(0xc0|uint8(cc)<<3, fmt.Sprintf("R%v", cc), 5, 6, simple(func(cpu *Cpu, _ uint16) {
			if cpu.when(cc) {
				cpu.ret()
			}
		}))
	}

	for n := range uint16(8) {
		defineInstruction(0xc7|uint8(n)<<3, fmt.Sprintf("RST %d", n), 11, simple(func(cpu *Cpu, _ uint16) {
			cpu.call(n * 8)
		}))
	}

	for pair := PairBC; pair <= PairSP; pair++ {
		name := pair.String()
		if pair == PairSP {
			name = "PSW"
		}
		defineInstruction(0xc5|uint8(pair)<<4, "PUSH "+name, 11, simple(func(cpu *Cpu, _ uint16) {
			if pair == PairSP {
				cpu.Push(cpu.PSW())
			} else {
				cpu.Push(cpu.Pair(pair))
			}
		}))
		defineInstruction(0xc1|uint8(pair)<<4, "POP "+name, 10, simple(func(cpu *Cpu, _ uint16) {
			if pair == PairSP {
				cpu.SetPSW(cpu.Pop())
			} else {
				cpu.SetPair(pair, cpu.Pop())
			}
		}))
	}
}
