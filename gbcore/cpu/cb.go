package cpu

// buildCBTable builds the 256-entry extension table for the 0xCB prefix
// (spec.md 4.7, second table). It is fully regular: eight register
// columns repeated across eight rotate/shift rows (four rotates, three
// shifts and a nibble swap), then BIT/RES/SET across all eight bit
// positions.
func buildCBTable() {
	type rotOp struct {
		name string
		fn   func(c *CPU, v uint8) uint8
	}
	rotOps := [8]rotOp{
		{"RLC", func(c *CPU, v uint8) uint8 { return c.rlc(v, false) }},
		{"RRC", func(c *CPU, v uint8) uint8 { return c.rrc(v, false) }},
		{"RL", func(c *CPU, v uint8) uint8 { return c.rl(v, false) }},
		{"RR", func(c *CPU, v uint8) uint8 { return c.rr(v, false) }},
		{"SLA", func(c *CPU, v uint8) uint8 { return c.sla(v) }},
		{"SRA", func(c *CPU, v uint8) uint8 { return c.sra(v) }},
		{"SWAP", func(c *CPU, v uint8) uint8 { return c.swap(v) }},
		{"SRL", func(c *CPU, v uint8) uint8 { return c.srl(v) }},
	}

	for row, op := range rotOps {
		op := op
		for col := 0; col < 8; col++ {
			opcode := uint8(row*8 + col)
			s := regIndex[col]
			cycles := uint8(8)
			if col == 6 {
				cycles = 16
			}
			setCB(opcode, op.name+" "+regName[col], cycles, func(c *CPU) int {
				s.store(c, op.fn(c, s.load(c)))
				return int(cycles)
			})
		}
	}

	for n := uint8(0); n < 8; n++ {
		for col := 0; col < 8; col++ {
			s := regIndex[col]

			bitOpcode := uint8(0x40 + int(n)*8 + col)
			cycles := uint8(8)
			if col == 6 {
				cycles = 12
			}
			setCB(bitOpcode, "BIT "+hexDigit(n)+","+regName[col], cycles, func(c *CPU) int {
				c.bitTest(n, s.load(c))
				return int(cycles)
			})

			resOpcode := uint8(0x80 + int(n)*8 + col)
			resCycles := uint8(8)
			if col == 6 {
				resCycles = 16
			}
			setCB(resOpcode, "RES "+hexDigit(n)+","+regName[col], resCycles, func(c *CPU) int {
				s.store(c, s.load(c)&^(1<<n))
				return int(resCycles)
			})

			setOpcode := uint8(0xC0 + int(n)*8 + col)
			setCycles := uint8(8)
			if col == 6 {
				setCycles = 16
			}
			setCB(setOpcode, "SET "+hexDigit(n)+","+regName[col], setCycles, func(c *CPU) int {
				s.store(c, s.load(c)|(1<<n))
				return int(setCycles)
			})
		}
	}
}

func hexDigit(n uint8) string {
	return string([]byte{"0123456789"[n]})
}
