package cpu

import (
	"fmt"
)

// Accumulator operations, by their 3-bit opcode encoding.
const (
	aluAdd = iota
	aluAdc
	aluSub
	aluSbb
	aluAna
	aluXra
	aluOra
	aluCmp
)

var aluNames = [8]string{"ADD", "ADC", "SUB", "SBB", "ANA", "XRA", "ORA", "CMP"}
var aluImmediateNames = [8]string{"ADI", "ACI", "SUI", "SBI", "ANI", "XRI", "ORI", "CPI"}

// alu applies an accumulator operation with value as the second operand.
func (cpu *Cpu) alu(op int, value uint8) {
	a, fl := cpu.reg[RegA], cpu.flags
	switch op {
	case aluAdd:
		a, fl = add8(a, value, false, fl)
	case aluAdc:
		a, fl = add8(a, value, fl.Carry, fl)
	case aluSub:
		a, fl = sub8(a, value, false, fl)
	case aluSbb:
		a, fl = sub8(a, value, fl.Carry, fl)
	case aluAna:
		a, fl = and8(a, value, fl)
	case aluXra:
		a, fl = xor8(a, value, fl)
	case aluOra:
		a, fl = or8(a, value, fl)
	case aluCmp:
		fl = cmp8(a, value, fl)
	}
	cpu.reg[RegA], cpu.flags = a, fl
}

// accumulator wraps a flag engine function that operates on A alone.
func accumulator(fn func(a uint8, fl Flags) (uint8, Flags)) execFunc {
	return simple(func(cpu *Cpu, _ uint16) {
		cpu.reg[RegA], cpu.flags = fn(cpu.reg[RegA], cpu.flags)
	})
}

func defineArithmetic() {
	for op := aluAdd; op <= aluCmp; op++ {
		for src := RegB; src <= RegA; src++ {
			cycles := 4
			if src == RegM {
				cycles = 7
			}
			defineInstruction(0x80|uint8(op)<<3|uint8(src), fmt.Sprintf("%v %v", aluNames[op], src), cycles, simple(func(cpu *Cpu, _ uint16) {
				cpu.alu(op, cpu.Operand(src))
			}))
		}
		defineInstruction(0xc6|uint8(op)<<3, aluImmediateNames[op]+" d8", 7, simple(func(cpu *Cpu, arg uint16) {
			cpu.alu(op, uint8(arg))
		}))
	}

	for reg := RegB; reg <= RegA; reg++ {
		cycles := 5
		if reg == RegM {
			cycles = 10
		}
		defineInstruction(0x04|uint8(reg)<<3, fmt.Sprintf("INR %v", reg), cycles, simple(func(cpu *Cpu, _ uint16) {
			value, fl := inc8(cpu.Operand(reg), cpu.flags)
			cpu.SetOperand(reg, value)
			cpu.flags = fl
		}))
		defineInstruction(0x05|uint8(reg)<<3, fmt.Sprintf("DCR %v", reg), cycles, simple(func(cpu *Cpu, _ uint16) {
			value, fl := dec8(cpu.Operand(reg), cpu.flags)
			cpu.SetOperand(reg, value)
			cpu.flags = fl
		}))
	}

	for pair := PairBC; pair <= PairSP; pair++ {
		defineInstruction(0x03|uint8(pair)<<4, fmt.Sprintf("INX %v", pair), 5, simple(func(cpu *Cpu, _ uint16) {
			cpu.SetPair(pair, cpu.Pair(pair)+1)
		}))
		defineInstruction(0x0b|uint8(pair)<<4, fmt.Sprintf("DCX %v", pair), 5, simple(func(cpu *Cpu, _ uint16) {
			cpu.SetPair(pair, cpu.Pair(pair)-1)
		}))
		defineInstruction(0x09|uint8(pair)<<4, fmt.Sprintf("DAD %v", pair), 10, simple(func(cpu *Cpu, _ uint16) {
			hl, fl := dad(cpu.HL(), cpu.Pair(pair), cpu.flags)
			cpu.SetPair(PairHL, hl)
			cpu.flags = fl
		}))
	}

	defineInstruction(0x07, "RLC", 4, accumulator(rlc))
	defineInstruction(0x0f, "RRC", 4, accumulator(rrc))
	defineInstruction(0x17, "RAL", 4, accumulator(ral))
	defineInstruction(0x1f, "RAR", 4, accumulator(rar))
	defineInstruction(0x27, "DAA", 4, accumulator(daa))

	defineInstruction(0x2f, "CMA", 4, simple(func(cpu *Cpu, _ uint16) {
		cpu.reg[RegA] = ^cpu.reg[RegA]
	}))
	defineInstruction(0x37, "STC", 4, simple(func(cpu *Cpu, _ uint16) {
		cpu.flags.Carry = true
	}))
	defineInstruction(0x3f, "CMC", 4, simple(func(cpu *Cpu, _ uint16) {
		cpu.flags.Carry = !cpu.flags.Carry
	}))
}
