package cpu

// Reg selects an 8-bit register by its 3-bit opcode encoding.
type Reg uint8

//go:generate go tool stringer -linecomment -type=Reg,Pair
const (
	RegB = Reg(0) // B
	RegC = Reg(1) // C
	RegD = Reg(2) // D
	RegE = Reg(3) // E
	RegH = Reg(4) // H
	RegL = Reg(5) // L
	RegM = Reg(6) // M
	RegA = Reg(7) // A
)

// Pair selects a 16-bit register pair by its 2-bit opcode encoding.
type Pair uint8

const (
	PairBC = Pair(0) // B
	PairDE = Pair(1) // D
	PairHL = Pair(2) // H
	PairSP = Pair(3) // SP
)

// Program Status Word flag bits.
const (
	FlagCY = uint8(1 << 0) // Carry
	flagV1 = uint8(1 << 1) // Always one
	FlagP  = uint8(1 << 2) // Parity
	FlagAC = uint8(1 << 4) // Auxiliary carry
	FlagZ  = uint8(1 << 6) // Zero
	FlagS  = uint8(1 << 7) // Sign
)

// Flags is the set of condition flags.
type Flags struct {
	Sign     bool // Bit 7 of the result.
	Zero     bool // Result was zero.
	AuxCarry bool // Carry out of bit 3.
	Parity   bool // Result has an even number of set bits.
	Carry    bool // Carry or borrow out of bit 7.
}

// Byte packs the flags into the PSW layout S Z 0 AC 0 P 1 CY.
func (fl Flags) Byte() (psw uint8) {
	psw = flagV1
	if fl.Sign {
		psw |= FlagS
	}
	if fl.Zero {
		psw |= FlagZ
	}
	if fl.AuxCarry {
		psw |= FlagAC
	}
	if fl.Parity {
		psw |= FlagP
	}
	if fl.Carry {
		psw |= FlagCY
	}
	return
}

// FlagsOf unpacks a PSW flag byte. The constant bits are ignored.
func FlagsOf(psw uint8) Flags {
	return Flags{
		Sign:     psw&FlagS != 0,
		Zero:     psw&FlagZ != 0,
		AuxCarry: psw&FlagAC != 0,
		Parity:   psw&FlagP != 0,
		Carry:    psw&FlagCY != 0,
	}
}

// Registers is the 8080 register file.
type Registers struct {
	reg   [8]uint8 // Indexed by Reg; the RegM slot is never used.
	flags Flags
	pc    uint16
	sp    uint16
}

// Get returns an 8-bit register. RegM always reads as zero here; use
// Cpu.Operand for memory operands.
func (r *Registers) Get(reg Reg) uint8 {
	if reg == RegM {
		return 0
	}
	return r.reg[reg&7]
}

// Set writes an 8-bit register. Writes to RegM are dropped; use
// Cpu.SetOperand for memory operands.
func (r *Registers) Set(reg Reg, value uint8) {
	if reg == RegM {
		return
	}
	r.reg[reg&7] = value
}

func (r *Registers) A() uint8 { return r.reg[RegA] }
func (r *Registers) B() uint8 { return r.reg[RegB] }
func (r *Registers) C() uint8 { return r.reg[RegC] }
func (r *Registers) D() uint8 { return r.reg[RegD] }
func (r *Registers) E() uint8 { return r.reg[RegE] }
func (r *Registers) H() uint8 { return r.reg[RegH] }
func (r *Registers) L() uint8 { return r.reg[RegL] }

func (r *Registers) BC() uint16 { return r.Pair(PairBC) }
func (r *Registers) DE() uint16 { return r.Pair(PairDE) }
func (r *Registers) HL() uint16 { return r.Pair(PairHL) }

// Pair returns a register pair, high register in the upper byte.
func (r *Registers) Pair(pair Pair) uint16 {
	switch pair {
	case PairBC:
		return uint16(r.reg[RegB])<<8 | uint16(r.reg[RegC])
	case PairDE:
		return uint16(r.reg[RegD])<<8 | uint16(r.reg[RegE])
	case PairHL:
		return uint16(r.reg[RegH])<<8 | uint16(r.reg[RegL])
	default:
		return r.sp
	}
}

// SetPair splits a 16-bit value into a register pair.
func (r *Registers) SetPair(pair Pair, value uint16) {
	hi, lo := uint8(value>>8), uint8(value)
	switch pair {
	case PairBC:
		r.reg[RegB], r.reg[RegC] = hi, lo
	case PairDE:
		r.reg[RegD], r.reg[RegE] = hi, lo
	case PairHL:
		r.reg[RegH], r.reg[RegL] = hi, lo
	default:
		r.sp = value
	}
}

// Pc returns the program counter.
func (r *Registers) Pc() uint16 { return r.pc }

// SetPc sets the program counter, e.g. to a ROM entry point.
func (r *Registers) SetPc(addr uint16) { r.pc = addr }

// Sp returns the stack pointer.
func (r *Registers) Sp() uint16 { return r.sp }

// SetSp sets the stack pointer.
func (r *Registers) SetSp(addr uint16) { r.sp = addr }

// Flags returns a copy of the condition flags.
func (r *Registers) Flags() Flags { return r.flags }

// SetFlags replaces the condition flags.
func (r *Registers) SetFlags(fl Flags) { r.flags = fl }

// PSW returns the accumulator and packed flags as PUSH PSW stores them.
func (r *Registers) PSW() uint16 {
	return uint16(r.reg[RegA])<<8 | uint16(r.flags.Byte())
}

// SetPSW is the inverse of PSW.
func (r *Registers) SetPSW(psw uint16) {
	r.reg[RegA] = uint8(psw >> 8)
	r.flags = FlagsOf(uint8(psw))
}
