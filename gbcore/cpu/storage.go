package cpu

// storage names an 8-bit operand location the executor can load from or
// store to: a register, memory addressed indirectly through a register
// pair, or the byte immediately following the opcode in the instruction
// stream. Grounded on spec.md 4.7/4.9 and the original source's
// Storage{Register, Pointer} split (_examples/original_source/src/cpu.rs).
type storage uint8

const (
	stA storage = iota
	stB
	stC
	stD
	stE
	stH
	stL
	stIndBC
	stIndDE
	stIndHL
	stIndHLInc
	stIndHLDec
	stImm8
	stNone
)

// regIndex maps the standard 3-bit register-field encoding (used by the
// LD r,r' block, the ALU block, INC/DEC r, and every CB-prefixed
// instruction) to a storage: 0=B 1=C 2=D 3=E 4=H 5=L 6=(HL) 7=A.
var regIndex = [8]storage{stB, stC, stD, stE, stH, stL, stIndHL, stA}

// load reads the operand named by s, advancing PC when s is stImm8.
func (s storage) load(c *CPU) uint8 {
	switch s {
	case stA:
		return c.Reg.A
	case stB:
		return c.Reg.B
	case stC:
		return c.Reg.C
	case stD:
		return c.Reg.D
	case stE:
		return c.Reg.E
	case stH:
		return c.Reg.H
	case stL:
		return c.Reg.L
	case stIndBC:
		return c.Bus.Read(c.Reg.Get16(BC))
	case stIndDE:
		return c.Bus.Read(c.Reg.Get16(DE))
	case stIndHL:
		return c.Bus.Read(c.Reg.Get16(HL))
	case stIndHLInc:
		addr := c.Reg.Get16(HL)
		v := c.Bus.Read(addr)
		c.Reg.Set16(HL, addr+1)
		return v
	case stIndHLDec:
		addr := c.Reg.Get16(HL)
		v := c.Bus.Read(addr)
		c.Reg.Set16(HL, addr-1)
		return v
	case stImm8:
		return c.fetch8()
	default:
		panic(&FatalError{PC: c.Reg.PC, Msg: "cpu: load from storage with no source"})
	}
}

// store writes v to the operand named by s. Storing to the immediate
// stream ("next byte") is documented as a fatal error in spec.md 4.8/4.9.
func (s storage) store(c *CPU, v uint8) {
	switch s {
	case stA:
		c.Reg.A = v
	case stB:
		c.Reg.B = v
	case stC:
		c.Reg.C = v
	case stD:
		c.Reg.D = v
	case stE:
		c.Reg.E = v
	case stH:
		c.Reg.H = v
	case stL:
		c.Reg.L = v
	case stIndBC:
		c.Bus.Write(c.Reg.Get16(BC), v)
	case stIndDE:
		c.Bus.Write(c.Reg.Get16(DE), v)
	case stIndHL:
		c.Bus.Write(c.Reg.Get16(HL), v)
	case stIndHLInc:
		addr := c.Reg.Get16(HL)
		c.Bus.Write(addr, v)
		c.Reg.Set16(HL, addr+1)
	case stIndHLDec:
		addr := c.Reg.Get16(HL)
		c.Bus.Write(addr, v)
		c.Reg.Set16(HL, addr-1)
	case stImm8:
		panic(&FatalError{PC: c.Reg.PC, Msg: "cpu: store at next byte"})
	default:
		panic(&FatalError{PC: c.Reg.PC, Msg: "cpu: store to storage with no destination"})
	}
}
