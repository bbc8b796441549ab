package cpu

import (
	"fmt"
	"strings"
)

// Cond is a branch condition, by its 3-bit opcode encoding.
type Cond uint8

//go:generate go tool stringer -linecomment -type=Cond,Event
const (
	CondNZ = Cond(0) // NZ
	CondZ  = Cond(1) // Z
	CondNC = Cond(2) // NC
	CondC  = Cond(3) // C
	CondPO = Cond(4) // PO
	CondPE = Cond(5) // PE
	CondP  = Cond(6) // P
	CondM  = Cond(7) // M
)

// Test evaluates the condition against a set of flags.
func (cc Cond) Test(fl Flags) bool {
	switch cc & 7 {
	case CondNZ:
		return !fl.Zero
	case CondZ:
		return fl.Zero
	case CondNC:
		return !fl.Carry
	case CondC:
		return fl.Carry
	case CondPO:
		return !fl.Parity
	case CondPE:
		return fl.Parity
	case CondP:
		return !fl.Sign
	default:
		return fl.Sign
	}
}

// Event is what Step reports back to the host, besides errors.
type Event int

const (
	EventNone = Event(0) // none
	EventHalt = Event(1) // halt
	EventIn   = Event(2) // in
	EventOut  = Event(3) // out
	EventHook = Event(4) // hook
)

// Operand placeholders in instruction name templates.
const (
	OperandData8  = "d8"  // Immediate byte.
	OperandData16 = "d16" // Immediate word.
	OperandAddr16 = "a16" // Absolute address.
)

// execFunc runs a decoded instruction. The program counter has already
// been advanced past the instruction when it is called.
type execFunc func(cpu *Cpu, arg uint16) (event Event, err error)

// Instruction describes one of the 256 opcodes.
type Instruction struct {
	Name         string // Mnemonic template, e.g. "MVI A,d8".
	Size         int    // Encoded size in bytes, opcode included.
	Cycles       int    // T-states when no branch is taken.
	Taken        int    // Extra T-states for a taken conditional CALL or RET.
	Undocumented bool   // Alternate encoding of NOP.

	exec execFunc
}

// Defined is true if the opcode decodes to something.
func (inst *Instruction) Defined() bool {
	return inst.exec != nil
}

// Mnemonic is the first word of the name template.
func (inst *Instruction) Mnemonic() string {
	mnemonic, _, _ := strings.Cut(inst.Name, " ")
	return mnemonic
}

// InstructionSet is the decode table, indexed by opcode byte.
var InstructionSet [256]Instruction

func operandSize(name string) int {
	switch {
	case strings.HasSuffix(name, OperandData16), strings.HasSuffix(name, OperandAddr16):
		return 3
	case strings.HasSuffix(name, OperandData8):
		return 2
	default:
		return 1
	}
}

func defineInstruction(opcode uint8, name string, cycles int, exec execFunc) {
	if InstructionSet[opcode].exec != nil {
		panic(fmt.Sprintf("opcode 0x%02x defined twice", opcode))
	}

	InstructionSet[opcode] = Instruction{
		Name:   name,
		Size:   operandSize(name),
		Cycles: cycles,
		exec:   exec,
	}
}

func defineBranch(opcode uint8, name string, cycles int, taken int, exec execFunc) {
	defineInstruction(opcode, name, cycles, exec)
	InstructionSet[opcode].Taken = taken
}

func defineUndocumented(opcode uint8, alias uint8) {
	defineInstruction(opcode, InstructionSet[alias].Name, InstructionSet[alias].Cycles, InstructionSet[alias].exec)
	InstructionSet[opcode].Undocumented = true
}

// Code is a single decoded instruction with its operand.
type Code struct {
	Opcode uint8
	Arg    uint16
}

// Instruction returns the decode table entry for the code.
func (code Code) Instruction() *Instruction {
	return &InstructionSet[code.Opcode]
}

// Bytes returns the little-endian encoding of the code.
func (code Code) Bytes() (data []byte) {
	data = append(data, code.Opcode)
	switch code.Instruction().Size {
	case 2:
		data = append(data, uint8(code.Arg))
	case 3:
		data = append(data, uint8(code.Arg), uint8(code.Arg>>8))
	}
	return
}

// String renders the code with its operand substituted into the template.
func (code Code) String() string {
	inst := code.Instruction()
	if !inst.Defined() {
		return fmt.Sprintf(".db 0x%02x", code.Opcode)
	}

	name := inst.Name
	switch inst.Size {
	case 2:
		name = strings.Replace(name, OperandData8, fmt.Sprintf("0x%02x", code.Arg&0xff), 1)
	case 3:
		name = strings.Replace(name, OperandData16, fmt.Sprintf("0x%04x", code.Arg), 1)
		name = strings.Replace(name, OperandAddr16, fmt.Sprintf("0x%04x", code.Arg), 1)
	}

	return name
}

// Opcode is a line of assembled code with its source location.
type Opcode struct {
	LineNo    int      // Source line number.
	Addr      uint16   // Address of the first byte.
	Words     []string // Source words, after equate and macro expansion.
	Data      []byte   // Emitted bytes.
	LinkLabel string   // Label resolved into Data at link time.
	LinkWidth int      // Width of the linked value: 1 or 2 bytes.
	LinkAt    int      // Offset in Data of the linked value.
}
