package cpu

import (
	"math/bits"
)

// parityTable[n] is true when n has an even number of set bits.
var parityTable [256]bool

func init() {
	for n := range len(parityTable) {
		parityTable[n] = bits.OnesCount8(uint8(n))%2 == 0
	}
}

// bit converts a flag to a carry-in.
func bit(flag bool) uint8 {
	if flag {
		return 1
	}
	return 0
}

// zsp sets zero, sign and parity from a result.
func (fl *Flags) zsp(value uint8) {
	fl.Zero = value == 0
	fl.Sign = value&0x80 != 0
	fl.Parity = parityTable[value]
}

// add8 computes a + b + carry.
func add8(a, b uint8, carry bool, fl Flags) (result uint8, out Flags) {
	c := bit(carry)
	sum := uint16(a) + uint16(b) + uint16(c)
	result = uint8(sum)

	out = fl
	out.zsp(result)
	out.Carry = sum > 0xff
	out.AuxCarry = (a&0x0f)+(b&0x0f)+c > 0x0f
	return
}

// sub8 computes a - b - borrow as a + ~b + !borrow. The carry flag
// reports a borrow, so it is the inverse of the adder's carry out.
func sub8(a, b uint8, borrow bool, fl Flags) (result uint8, out Flags) {
	result, out = add8(a, ^b, !borrow, fl)
	out.Carry = !out.Carry
	return
}

// cmp8 is sub8 with the result discarded.
func cmp8(a, b uint8, fl Flags) (out Flags) {
	_, out = sub8(a, b, false, fl)
	return
}

func inc8(value uint8, fl Flags) (result uint8, out Flags) {
	result = value + 1
	out = fl
	out.zsp(result)
	out.AuxCarry = result&0x0f == 0
	return
}

func dec8(value uint8, fl Flags) (result uint8, out Flags) {
	result = value - 1
	out = fl
	out.zsp(result)
	out.AuxCarry = result&0x0f != 0x0f
	return
}

// logic8 applies the flag rules shared by ANA, ORA and XRA.
func logic8(result uint8, fl Flags) (uint8, Flags) {
	fl.zsp(result)
	fl.Carry = false
	fl.AuxCarry = false
	return result, fl
}

func and8(a, b uint8, fl Flags) (uint8, Flags) { return logic8(a&b, fl) }
func or8(a, b uint8, fl Flags) (uint8, Flags)  { return logic8(a|b, fl) }
func xor8(a, b uint8, fl Flags) (uint8, Flags) { return logic8(a^b, fl) }

// rlc rotates left, bit 7 into both bit 0 and carry.
func rlc(a uint8, fl Flags) (uint8, Flags) {
	fl.Carry = a&0x80 != 0
	return bits.RotateLeft8(a, 1), fl
}

// rrc rotates right, bit 0 into both bit 7 and carry.
func rrc(a uint8, fl Flags) (uint8, Flags) {
	fl.Carry = a&0x01 != 0
	return bits.RotateLeft8(a, -1), fl
}

// ral rotates left through carry.
func ral(a uint8, fl Flags) (uint8, Flags) {
	result := a<<1 | bit(fl.Carry)
	fl.Carry = a&0x80 != 0
	return result, fl
}

// rar rotates right through carry.
func rar(a uint8, fl Flags) (uint8, Flags) {
	result := a>>1 | bit(fl.Carry)<<7
	fl.Carry = a&0x01 != 0
	return result, fl
}

// daa adjusts the accumulator to packed BCD after an addition.
//
// The low correction is 0x06 when the low nibble exceeds 9 or AC is set.
// The high correction is 0x60 when the high nibble exceeds 9, CY is set,
// or the low correction would carry into a high nibble of 9. Carry is
// only ever set, never cleared.
func daa(a uint8, fl Flags) (result uint8, out Flags) {
	lo, hi := a&0x0f, a>>4

	var correction uint8
	carry := fl.Carry
	if lo > 9 || fl.AuxCarry {
		correction |= 0x06
	}
	if hi > 9 || fl.Carry || (hi >= 9 && lo > 9) {
		correction |= 0x60
		carry = true
	}

	result, out = add8(a, correction, false, fl)
	out.Carry = carry
	return
}

// dad is the 16-bit add. Only carry is affected.
func dad(hl, value uint16, fl Flags) (result uint16, out Flags) {
	sum := uint32(hl) + uint32(value)
	result = uint16(sum)
	out = fl
	out.Carry = sum > 0xffff
	return
}
