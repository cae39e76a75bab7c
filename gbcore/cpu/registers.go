package cpu

import "github.com/student/gbcore/gbcore/bit"

// Flag bit positions within F, per spec.md 3.
const (
	FlagZ uint8 = 0x80
	FlagN uint8 = 0x40
	FlagH uint8 = 0x20
	FlagC uint8 = 0x10
)

// Pair names a logical 16-bit register pair.
type Pair int

const (
	AF Pair = iota
	BC
	DE
	HL
	SP
	PC
)

// Registers holds the eight 8-bit registers plus SP and PC. The low
// nibble of F is always zero; every write path that could set it masks
// it back out.
type Registers struct {
	A, B, C, D, E, F, H, L uint8
	SP, PC                 uint16
}

// Reset sets every register to its documented post-boot value.
func (r *Registers) Reset() {
	r.A, r.F = 0x01, 0xB0
	r.B, r.C = 0x00, 0x13
	r.D, r.E = 0x00, 0xD8
	r.H, r.L = 0x01, 0x4D
	r.SP = 0xFFFE
	r.PC = 0x0100
}

// Get16 reads a register pair. AF's low nibble always reads as zero.
func (r *Registers) Get16(p Pair) uint16 {
	switch p {
	case AF:
		return bit.Combine(r.A, r.F&0xF0)
	case BC:
		return bit.Combine(r.B, r.C)
	case DE:
		return bit.Combine(r.D, r.E)
	case HL:
		return bit.Combine(r.H, r.L)
	case SP:
		return r.SP
	case PC:
		return r.PC
	default:
		panic("cpu: unknown register pair")
	}
}

// Set16 writes a register pair. AF's low nibble is masked to zero.
// 16-bit writes decompose into two 8-bit writes, except SP and PC which
// are native 16-bit registers.
func (r *Registers) Set16(p Pair, v uint16) {
	hi, lo := bit.High(v), bit.Low(v)
	switch p {
	case AF:
		r.A, r.F = hi, lo&0xF0
	case BC:
		r.B, r.C = hi, lo
	case DE:
		r.D, r.E = hi, lo
	case HL:
		r.H, r.L = hi, lo
	case SP:
		r.SP = v
	case PC:
		r.PC = v
	default:
		panic("cpu: unknown register pair")
	}
}

// Flag reports whether the given flag bit is set in F.
func (r *Registers) Flag(mask uint8) bool {
	return r.F&mask != 0
}

// SetFlag sets or clears the given flag bit in F, masking the result so
// the low nibble of F stays zero.
func (r *Registers) SetFlag(mask uint8, v bool) {
	if v {
		r.F |= mask
	} else {
		r.F &^= mask
	}
	r.F &= 0xF0
}

// SetFlags sets all four flags at once; convenient for instructions that
// redefine every flag in one step.
func (r *Registers) SetFlags(z, n, h, c bool) {
	r.SetFlag(FlagZ, z)
	r.SetFlag(FlagN, n)
	r.SetFlag(FlagH, h)
	r.SetFlag(FlagC, c)
}
