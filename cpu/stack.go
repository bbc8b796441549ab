package cpu

// Push stores a word on the stack: high byte at sp-1, low byte at sp-2.
func (cpu *Cpu) Push(value uint16) {
	cpu.sp--
	cpu.mem.Write(cpu.sp, uint8(value>>8))
	cpu.sp--
	cpu.mem.Write(cpu.sp, uint8(value))
}

// Pop removes a word from the stack: low byte at sp, high byte at sp+1.
func (cpu *Cpu) Pop() (value uint16) {
	value = cpu.Peek()
	cpu.sp += 2
	return
}

// Peek returns the word on top of the stack without removing it.
func (cpu *Cpu) Peek() (value uint16) {
	return cpu.mem.Read16(cpu.sp)
}
