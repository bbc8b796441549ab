package cpu

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/nadil-athauda/i8080-core/io"
)

// PortHandler services IN and OUT instructions.
type PortHandler io.Handler

// PortSentinel is read by IN when no handler supplies a value.
const PortSentinel = uint8(0xff)

// Cycles charged for accepting an interrupt.
const InterruptCycles = 11

// Hook services a call into host code at a fixed address.
type Hook func(cpu *Cpu) error

// Trap records the last I/O access or accepted interrupt.
type Trap struct {
	Port   uint8  // Port of the last IN or OUT.
	Data   uint8  // Byte read by IN or written by OUT.
	Vector uint16 // Vector of the last accepted interrupt.
}

var _cpu_defines = map[string]string{
	"MEMORY_TOP":    fmt.Sprintf("0x%04x", MemorySize-1),
	"PORT_SENTINEL": fmt.Sprintf("0x%02x", PortSentinel),
}

func init() {
	for n := range 8 {
		_cpu_defines[fmt.Sprintf("RST_%d", n)] = fmt.Sprintf("0x%04x", n*8)
	}
}

// Cpu is the simulation context for an Intel 8080.
type Cpu struct {
	Verbose bool        // Set to enable verbose logging.
	Ports   PortHandler // IN and OUT handler; may be nil.

	Registers

	mem    Memory
	inte   bool
	halted bool
	taken  bool
	cycles uint64
	trap   Trap
	hooks  map[uint16]Hook
}

// NewCpu creates a CPU with zeroed state and interrupts enabled.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{}
	cpu.Reset()

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Reset the CPU state.
// - Clears registers, flags and memory.
// - Zeros the cycle counter.
// - Enables interrupts and leaves the halted state.
//
// Hooks and the port handler are preserved.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	cpu.Registers = Registers{}
	cpu.mem.Reset()
	cpu.inte = true
	cpu.halted = false
	cpu.taken = false
	cpu.cycles = 0
	cpu.trap = Trap{}
}

// Load copies an image to address 0x0000.
func (cpu *Cpu) Load(data []byte) (err error) {
	return cpu.LoadAt(data, 0)
}

// LoadAt copies an image to memory at offset.
func (cpu *Cpu) LoadAt(data []byte, offset int) (err error) {
	err = cpu.mem.Load(data, offset)
	if err != nil {
		return
	}

	if cpu.Verbose {
		log.Printf("cpu: loaded %d bytes at 0x%04x", len(data), offset)
	}

	return
}

// Operand returns a register, reading memory at HL for RegM.
// Use Operand and SetOperand rather than the embedded Registers.Get and
// Registers.Set whenever reg may be RegM: those have no memory, so they
// read RegM as zero and drop writes to it.
func (cpu *Cpu) Operand(reg Reg) uint8 {
	if reg == RegM {
		return cpu.mem.Read(cpu.HL())
	}
	return cpu.Registers.Get(reg)
}

// SetOperand writes a register, or memory at HL for RegM.
func (cpu *Cpu) SetOperand(reg Reg, value uint8) {
	if reg == RegM {
		cpu.mem.Write(cpu.HL(), value)
		return
	}
	cpu.Registers.Set(reg, value)
}

// Read returns the byte at addr.
func (cpu *Cpu) Read(addr uint16) uint8 {
	return cpu.mem.Read(addr)
}

// Read16 returns the little-endian word at addr.
func (cpu *Cpu) Read16(addr uint16) uint16 {
	return cpu.mem.Read16(addr)
}

// Dump returns a copy of memory.
func (cpu *Cpu) Dump() (data []byte) {
	data = make([]byte, MemorySize)
	copy(data, cpu.mem[:])
	return
}

// IntEnabled reports whether interrupts are accepted.
func (cpu *Cpu) IntEnabled() bool {
	return cpu.inte
}

// Halted reports whether HLT has stopped execution.
func (cpu *Cpu) Halted() bool {
	return cpu.halted
}

// Cycles returns the number of T-states executed since reset.
func (cpu *Cpu) Cycles() uint64 {
	return cpu.cycles
}

// Trap returns the last I/O access or interrupt.
func (cpu *Cpu) Trap() Trap {
	return cpu.trap
}

// SetHook installs a hook at addr, or removes it if hook is nil.
func (cpu *Cpu) SetHook(addr uint16, hook Hook) {
	if hook == nil {
		delete(cpu.hooks, addr)
		return
	}

	if cpu.hooks == nil {
		cpu.hooks = make(map[uint16]Hook)
	}
	cpu.hooks[addr] = hook
}

// Fetch decodes the instruction at addr without executing it.
func (cpu *Cpu) Fetch(addr uint16) (code Code) {
	code.Opcode = cpu.mem.Read(addr)
	switch InstructionSet[code.Opcode].Size {
	case 2:
		code.Arg = uint16(cpu.mem.Read(addr + 1))
	case 3:
		code.Arg = cpu.mem.Read16(addr + 1)
	}
	return
}

// Step executes a single instruction, or a hook installed at pc.
//
// HLT and any later Step on a halted CPU return EventHalt with ErrHalted.
// Other errors are joined with the ErrOpcode of the failing instruction.
func (cpu *Cpu) Step() (event Event, err error) {
	if cpu.halted {
		event = EventHalt
		err = ErrHalted
		return
	}

	pc := cpu.pc

	if hook, ok := cpu.hooks[pc]; ok {
		if cpu.Verbose {
			log.Printf("%04x: hook", pc)
		}
		event = EventHook
		err = hook(cpu)
		return
	}

	code := cpu.Fetch(pc)
	inst := code.Instruction()
	if !inst.Defined() {
		err = errors.Join(ErrOpcode{Pc: pc, Opcode: code.Opcode}, ErrOpcodeInvalid)
		return
	}

	if cpu.Verbose {
		log.Printf("%04x: %v", pc, code)
	}

	cpu.pc = pc + uint16(inst.Size)
	cpu.taken = false

	event, err = inst.exec(cpu, code.Arg)

	cpu.cycles += uint64(inst.Cycles)
	if cpu.taken {
		cpu.cycles += uint64(inst.Taken)
	}

	if err != nil {
		err = errors.Join(ErrOpcode{Pc: pc, Opcode: code.Opcode}, err)
		return
	}

	if cpu.halted {
		err = ErrHalted
	}

	return
}

// InjectInterrupt performs a RST-style call to vector if interrupts are
// enabled. Accepting the interrupt disables further interrupts and
// resumes a halted CPU.
func (cpu *Cpu) InjectInterrupt(vector uint16) (ok bool) {
	if !cpu.inte {
		return
	}

	if cpu.Verbose {
		log.Printf("%04x: interrupt 0x%04x", cpu.pc, vector)
	}

	cpu.call(vector)
	cpu.inte = false
	cpu.halted = false
	cpu.cycles += InterruptCycles
	cpu.trap.Vector = vector

	ok = true
	return
}

// Interrupt is InjectInterrupt returning ErrInterruptRejected when
// interrupts are disabled.
func (cpu *Cpu) Interrupt(vector uint16) (err error) {
	if !cpu.InjectInterrupt(vector) {
		err = ErrInterruptRejected
	}
	return
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	fl := cpu.flags
	flags := []byte("szapc")
	for n, set := range []bool{fl.Sign, fl.Zero, fl.AuxCarry, fl.Parity, fl.Carry} {
		if set {
			flags[n] -= 'a' - 'A'
		}
	}

	text += fmt.Sprintf("   pc: %04X\n", cpu.pc)
	text += fmt.Sprintf("   sp: %04X [%04X]\n", cpu.sp, cpu.Peek())
	text += fmt.Sprintf("    a: %02X %s\n", cpu.A(), flags)
	for _, pair := range []Pair{PairBC, PairDE, PairHL} {
		text += fmt.Sprintf("   %2s: %04X\n", fmt.Sprintf("%v%v", Reg(pair*2), Reg(pair*2+1)), cpu.Pair(pair))
	}
	text += fmt.Sprintf("  int: %v\n", cpu.inte)
	text += fmt.Sprintf(" halt: %v\n", cpu.halted)
	text += fmt.Sprintf("ticks: %d\n", cpu.cycles)

	return
}
