package cpu

// Entry is one row of the fixed decode table: an instruction form, its
// base cycle count, and the mnemonic used only for trace output
// (spec.md 4.7). Exec runs the instruction and returns the cycles
// actually elapsed, which for conditional forms may exceed Cycles.
type Entry struct {
	Mnemonic string
	Length   uint8
	Cycles   uint8
	Exec     func(c *CPU) int
}

// baseTable and cbTable are the two fixed 256-entry tables spec.md 4.7
// and 9 describe: the primary table indexed by the fetched opcode, and
// the extension table indexed by the byte after a 0xCB prefix. Built
// once at package init from a small set of family builders (register
// loads, ALU ops, rotates/shifts, bit ops) the way
// _examples/thelolagemann-gomeboy/internal/cpu/instruction.go builds its
// array-literal instruction set, rather than the teacher's historical
// one-function-per-opcode snapshot (jeebie/cpu/opcodes.go), which is
// stale and carries known bugs (see DESIGN.md).
var baseTable [256]Entry
var cbTable [256]Entry

// regName gives the canonical mnemonic letter(s) for a 3-bit register
// field, matching regIndex.
var regName = [8]string{"B", "C", "D", "E", "H", "L", "(HL)", "A"}

func init() {
	buildLoadBlock()
	buildALUBlock()
	buildIncDecBlock()
	buildIncDec16Block()
	buildRotateABlock()
	buildJumpBlock()
	buildMiscBlock()
	buildStackBlock()
	buildCBTable()
}

// Lookup returns the primary table's entry for opcode, for disassembly
// and trace use outside the package.
func Lookup(opcode uint8) Entry { return baseTable[opcode] }

// LookupCB returns the extension table's entry for a CB-prefixed opcode.
func LookupCB(opcode uint8) Entry { return cbTable[opcode] }

func set(opcode uint8, mnemonic string, length, cycles uint8, exec func(c *CPU) int) {
	baseTable[opcode] = Entry{Mnemonic: mnemonic, Length: length, Cycles: cycles, Exec: exec}
}

func setCB(opcode uint8, mnemonic string, cycles uint8, exec func(c *CPU) int) {
	cbTable[opcode] = Entry{Mnemonic: mnemonic, Length: 2, Cycles: cycles, Exec: exec}
}

// buildLoadBlock builds the 0x40-0x7F LD r,r' block (HALT at 0x76 is
// carved out in buildMiscBlock) plus the LD r,d8 and LD rr,d16 blocks.
func buildLoadBlock() {
	for dst := 0; dst < 8; dst++ {
		for src := 0; src < 8; src++ {
			opcode := uint8(0x40 + dst*8 + src)
			if dst == 6 && src == 6 {
				continue // 0x76 is HALT, not LD (HL),(HL)
			}
			d, s := regIndex[dst], regIndex[src]
			cycles := uint8(4)
			if dst == 6 || src == 6 {
				cycles = 8
			}
			mnemonic := "LD " + regName[dst] + "," + regName[src]
			set(opcode, mnemonic, 1, cycles, func(c *CPU) int {
				d.store(c, s.load(c))
				return int(cycles)
			})
		}
	}

	for r := 0; r < 8; r++ {
		opcode := uint8(0x06 + r*8)
		dst := regIndex[r]
		cycles := uint8(8)
		if r == 6 {
			cycles = 12
		}
		mnemonic := "LD " + regName[r] + ",d8"
		set(opcode, mnemonic, 2, cycles, func(c *CPU) int {
			dst.store(c, c.fetch8())
			return int(cycles)
		})
	}

	pairs16 := [4]Pair{BC, DE, HL, SP}
	pairNames := [4]string{"BC", "DE", "HL", "SP"}
	for i, p := range pairs16 {
		opcode := uint8(0x01 + i*0x10)
		name := pairNames[i]
		set(opcode, "LD "+name+",d16", 3, 12, func(c *CPU) int {
			c.Reg.Set16(p, c.fetch16())
			return 12
		})
	}

	set(0x02, "LD (BC),A", 1, 8, func(c *CPU) int { stIndBC.store(c, c.Reg.A); return 8 })
	set(0x12, "LD (DE),A", 1, 8, func(c *CPU) int { stIndDE.store(c, c.Reg.A); return 8 })
	set(0x0A, "LD A,(BC)", 1, 8, func(c *CPU) int { c.Reg.A = stIndBC.load(c); return 8 })
	set(0x1A, "LD A,(DE)", 1, 8, func(c *CPU) int { c.Reg.A = stIndDE.load(c); return 8 })
	set(0x22, "LD (HL+),A", 1, 8, func(c *CPU) int { stIndHLInc.store(c, c.Reg.A); return 8 })
	set(0x32, "LD (HL-),A", 1, 8, func(c *CPU) int { stIndHLDec.store(c, c.Reg.A); return 8 })
	set(0x2A, "LD A,(HL+)", 1, 8, func(c *CPU) int { c.Reg.A = stIndHLInc.load(c); return 8 })
	set(0x3A, "LD A,(HL-)", 1, 8, func(c *CPU) int { c.Reg.A = stIndHLDec.load(c); return 8 })
	set(0x36, "LD (HL),d8", 2, 12, func(c *CPU) int { stIndHL.store(c, c.fetch8()); return 12 })

	set(0x08, "LD (a16),SP", 3, 20, func(c *CPU) int {
		addr := c.fetch16()
		c.Bus.Write(addr, uint8(c.Reg.SP))
		c.Bus.Write(addr+1, uint8(c.Reg.SP>>8))
		return 20
	})

	set(0xEA, "LD (a16),A", 3, 16, func(c *CPU) int { c.Bus.Write(c.fetch16(), c.Reg.A); return 16 })
	set(0xFA, "LD A,(a16)", 3, 16, func(c *CPU) int { c.Reg.A = c.Bus.Read(c.fetch16()); return 16 })
	set(0xE0, "LDH (a8),A", 2, 12, func(c *CPU) int { c.Bus.Write(0xFF00+uint16(c.fetch8()), c.Reg.A); return 12 })
	set(0xF0, "LDH A,(a8)", 2, 12, func(c *CPU) int { c.Reg.A = c.Bus.Read(0xFF00 + uint16(c.fetch8())); return 12 })
	set(0xE2, "LD (C),A", 1, 8, func(c *CPU) int { c.Bus.Write(0xFF00+uint16(c.Reg.C), c.Reg.A); return 8 })
	set(0xF2, "LD A,(C)", 1, 8, func(c *CPU) int { c.Reg.A = c.Bus.Read(0xFF00 + uint16(c.Reg.C)); return 8 })

	set(0xF9, "LD SP,HL", 1, 8, func(c *CPU) int { c.Reg.SP = c.Reg.Get16(HL); return 8 })
	set(0xF8, "LD HL,SP+e8", 2, 12, func(c *CPU) int {
		e8 := c.fetch8()
		c.Reg.Set16(HL, c.addSPSigned(c.Reg.SP, e8))
		return 12
	})
}

// buildALUBlock builds the 0x80-0xBF ADD/ADC/SUB/SBC/AND/XOR/OR/CP over
// storage block, plus their d8-immediate counterparts at 0xC6/CE/D6/DE/E6/EE/F6/FE.
func buildALUBlock() {
	type op struct {
		name string
		fn   func(c *CPU, a, b uint8) uint8
	}
	ops := [8]op{
		{"ADD A,", func(c *CPU, a, b uint8) uint8 { return c.add8(a, b) }},
		{"ADC A,", func(c *CPU, a, b uint8) uint8 { return c.adc8(a, b) }},
		{"SUB ", func(c *CPU, a, b uint8) uint8 { return c.sub8(a, b) }},
		{"SBC A,", func(c *CPU, a, b uint8) uint8 { return c.sbc8(a, b) }},
		{"AND ", func(c *CPU, a, b uint8) uint8 { return c.and8(a, b) }},
		{"XOR ", func(c *CPU, a, b uint8) uint8 { return c.xor8(a, b) }},
		{"OR ", func(c *CPU, a, b uint8) uint8 { return c.or8(a, b) }},
		{"CP ", func(c *CPU, a, b uint8) uint8 { c.cp8(a, b); return a }},
	}

	for i, o := range ops {
		o := o
		for src := 0; src < 8; src++ {
			opcode := uint8(0x80 + i*8 + src)
			s := regIndex[src]
			cycles := uint8(4)
			if src == 6 {
				cycles = 8
			}
			set(opcode, o.name+regName[src], 1, cycles, func(c *CPU) int {
				c.Reg.A = o.fn(c, c.Reg.A, s.load(c))
				return int(cycles)
			})
		}

		opcode := uint8(0xC6 + i*8)
		set(opcode, o.name+"d8", 2, 8, func(c *CPU) int {
			c.Reg.A = o.fn(c, c.Reg.A, c.fetch8())
			return 8
		})
	}
}

// buildIncDecBlock builds the 8-bit INC r / DEC r block, 0x04/0x0C/...
func buildIncDecBlock() {
	for r := 0; r < 8; r++ {
		s := regIndex[r]
		cycles := uint8(4)
		if r == 6 {
			cycles = 12
		}

		incOp := uint8(0x04 + r*8)
		set(incOp, "INC "+regName[r], 1, cycles, func(c *CPU) int {
			s.store(c, c.inc8(s.load(c)))
			return int(cycles)
		})

		decOp := uint8(0x05 + r*8)
		set(decOp, "DEC "+regName[r], 1, cycles, func(c *CPU) int {
			s.store(c, c.dec8(s.load(c)))
			return int(cycles)
		})
	}
}

// buildIncDec16Block builds INC rr / DEC rr / ADD HL,rr over BC,DE,HL,SP.
func buildIncDec16Block() {
	pairs := [4]Pair{BC, DE, HL, SP}
	names := [4]string{"BC", "DE", "HL", "SP"}
	for i, p := range pairs {
		p := p
		set(uint8(0x03+i*0x10), "INC "+names[i], 1, 8, func(c *CPU) int {
			c.Reg.Set16(p, c.Reg.Get16(p)+1)
			return 8
		})
		set(uint8(0x0B+i*0x10), "DEC "+names[i], 1, 8, func(c *CPU) int {
			c.Reg.Set16(p, c.Reg.Get16(p)-1)
			return 8
		})
		set(uint8(0x09+i*0x10), "ADD HL,"+names[i], 1, 8, func(c *CPU) int {
			c.Reg.Set16(HL, c.addHL16(c.Reg.Get16(HL), c.Reg.Get16(p)))
			return 8
		})
	}

	set(0xE8, "ADD SP,e8", 2, 16, func(c *CPU) int {
		c.Reg.SP = c.addSPSigned(c.Reg.SP, c.fetch8())
		return 16
	})
}

// buildRotateABlock builds RLCA/RLA/RRCA/RRA, which always clear Z
// regardless of the result (unlike their CB-prefixed counterparts).
func buildRotateABlock() {
	set(0x07, "RLCA", 1, 4, func(c *CPU) int { c.Reg.A = c.rlc(c.Reg.A, true); return 4 })
	set(0x17, "RLA", 1, 4, func(c *CPU) int { c.Reg.A = c.rl(c.Reg.A, true); return 4 })
	set(0x0F, "RRCA", 1, 4, func(c *CPU) int { c.Reg.A = c.rrc(c.Reg.A, true); return 4 })
	set(0x1F, "RRA", 1, 4, func(c *CPU) int { c.Reg.A = c.rr(c.Reg.A, true); return 4 })
}

// condition reports the branch condition for one of JR/JP/CALL/RET's
// four flag-tested forms.
func condition(c *CPU, cc int) bool {
	switch cc {
	case 0:
		return !c.Reg.Flag(FlagZ)
	case 1:
		return c.Reg.Flag(FlagZ)
	case 2:
		return !c.Reg.Flag(FlagC)
	case 3:
		return c.Reg.Flag(FlagC)
	default:
		panic("cpu: unknown condition")
	}
}

var ccNames = [4]string{"NZ", "Z", "NC", "C"}

func buildJumpBlock() {
	set(0x18, "JR r8", 2, 12, func(c *CPU) int {
		offset := int8(c.fetch8())
		c.Reg.PC = uint16(int32(c.Reg.PC) + int32(offset))
		return 12
	})

	for cc := 0; cc < 4; cc++ {
		cc := cc
		set(uint8(0x20+cc*8), "JR "+ccNames[cc]+",r8", 2, 8, func(c *CPU) int {
			offset := int8(c.fetch8())
			if condition(c, cc) {
				c.Reg.PC = uint16(int32(c.Reg.PC) + int32(offset))
				return 12
			}
			return 8
		})
	}

	set(0xC3, "JP a16", 3, 16, func(c *CPU) int { c.Reg.PC = c.fetch16(); return 16 })
	set(0xE9, "JP (HL)", 1, 4, func(c *CPU) int { c.Reg.PC = c.Reg.Get16(HL); return 4 })

	jpOps := [4]uint8{0xC2, 0xCA, 0xD2, 0xDA}
	for cc, opcode := range jpOps {
		cc := cc
		set(opcode, "JP "+ccNames[cc]+",a16", 3, 12, func(c *CPU) int {
			target := c.fetch16()
			if condition(c, cc) {
				c.Reg.PC = target
				return 16
			}
			return 12
		})
	}

	set(0xCD, "CALL a16", 3, 24, func(c *CPU) int {
		target := c.fetch16()
		c.push16(c.Reg.PC)
		c.Reg.PC = target
		return 24
	})

	callOps := [4]uint8{0xC4, 0xCC, 0xD4, 0xDC}
	for cc, opcode := range callOps {
		cc := cc
		set(opcode, "CALL "+ccNames[cc]+",a16", 3, 12, func(c *CPU) int {
			target := c.fetch16()
			if condition(c, cc) {
				c.push16(c.Reg.PC)
				c.Reg.PC = target
				return 24
			}
			return 12
		})
	}

	set(0xC9, "RET", 1, 16, func(c *CPU) int { c.Reg.PC = c.pop16(); return 16 })
	set(0xD9, "RETI", 1, 16, func(c *CPU) int {
		c.Reg.PC = c.pop16()
		c.IME = true
		return 16
	})

	retOps := [4]uint8{0xC0, 0xC8, 0xD0, 0xD8}
	for cc, opcode := range retOps {
		cc := cc
		set(opcode, "RET "+ccNames[cc], 1, 8, func(c *CPU) int {
			if condition(c, cc) {
				c.Reg.PC = c.pop16()
				return 20
			}
			return 8
		})
	}

	for i := 0; i < 8; i++ {
		vector := uint16(i * 8)
		opcode := uint8(0xC7 + i*8)
		set(opcode, "RST "+hex2(uint8(vector)), 1, 16, func(c *CPU) int {
			c.push16(c.Reg.PC)
			c.Reg.PC = vector
			return 16
		})
	}
}

func buildStackBlock() {
	pushPop := [4]Pair{BC, DE, HL, AF}
	names := [4]string{"BC", "DE", "HL", "AF"}
	for i, p := range pushPop {
		p := p
		set(uint8(0xC5+i*0x10), "PUSH "+names[i], 1, 16, func(c *CPU) int {
			c.push16(c.Reg.Get16(p))
			return 16
		})
		set(uint8(0xC1+i*0x10), "POP "+names[i], 1, 12, func(c *CPU) int {
			c.Reg.Set16(p, c.pop16())
			return 12
		})
	}
}

func buildMiscBlock() {
	set(0x00, "NOP", 1, 4, func(c *CPU) int { return 4 })
	set(0x76, "HALT", 1, 4, func(c *CPU) int { c.Halted = true; return 4 })
	set(0x10, "STOP", 2, 4, func(c *CPU) int { c.fetch8(); return 4 })

	set(0x27, "DAA", 1, 4, func(c *CPU) int { c.daa(); return 4 })
	set(0x2F, "CPL", 1, 4, func(c *CPU) int {
		c.Reg.A = ^c.Reg.A
		c.Reg.SetFlag(FlagN, true)
		c.Reg.SetFlag(FlagH, true)
		return 4
	})
	set(0x37, "SCF", 1, 4, func(c *CPU) int {
		c.Reg.SetFlag(FlagN, false)
		c.Reg.SetFlag(FlagH, false)
		c.Reg.SetFlag(FlagC, true)
		return 4
	})
	set(0x3F, "CCF", 1, 4, func(c *CPU) int {
		c.Reg.SetFlag(FlagN, false)
		c.Reg.SetFlag(FlagH, false)
		c.Reg.SetFlag(FlagC, !c.Reg.Flag(FlagC))
		return 4
	})

	set(0xF3, "DI", 1, 4, func(c *CPU) int { c.IME = false; c.imeDelay = 0; return 4 })
	set(0xFB, "EI", 1, 4, func(c *CPU) int { c.imeDelay = 1; return 4 })

	// 0xCB is the extension prefix: Step dispatches it before consulting
	// this table, but the entry keeps the primary table total.
	set(0xCB, "PREFIX CB", 2, 4, func(c *CPU) int { return cbTable[c.fetch8()].Exec(c) })

	undefined := [11]uint8{0xD3, 0xDB, 0xDD, 0xE3, 0xE4, 0xEB, 0xEC, 0xED, 0xF4, 0xFC, 0xFD}
	for _, opcode := range undefined {
		set(opcode, "UNDEFINED", 1, 0, nil)
	}
}

func hex2(v uint8) string {
	const digits = "0123456789ABCDEF"
	return string([]byte{digits[v>>4], digits[v&0xF]}) + "H"
}
