// Package cpu implements the Intel 8080 microprocessor and its assembler.
//
// The CPU has seven 8-bit registers (A, B, C, D, E, H, L), a flag byte,
// a 16-bit stack pointer and program counter, and a flat 64KiB memory.
// All 244 documented opcodes are decoded through InstructionSet along
// with the twelve undocumented opcodes, which execute as NOP. Cycle
// counts follow the published 8080 timings.
//
// I/O is delegated to a PortHandler, and host code can service calls to
// fixed addresses through hooks.
//
// The assembler accepts Intel mnemonics with labels, equates, macros,
// and compile-time expression evaluation.
package cpu
