package cpu

import "fmt"

// TraceLine renders the trace format from spec.md 6: register pairs,
// the flag letters (set) or '-' (clear) in C,H,N,Z order, PC, the three
// bytes at PC..PC+2, and the mnemonic of the instruction at PC.
func (c *CPU) TraceLine() string {
	flags := ""
	for _, f := range []struct {
		letter string
		mask   uint8
	}{{"C", FlagC}, {"H", FlagH}, {"N", FlagN}, {"Z", FlagZ}} {
		if c.Reg.Flag(f.mask) {
			flags += f.letter
		} else {
			flags += "-"
		}
	}

	pc := c.Reg.PC
	op := c.Bus.Read(pc)
	n1 := c.Bus.Read(pc + 1)
	n2 := c.Bus.Read(pc + 2)

	mnemonic := "UNDEFINED"
	if op == 0xCB {
		mnemonic = cbTable[n1].Mnemonic
	} else if baseTable[op].Exec != nil {
		mnemonic = baseTable[op].Mnemonic
	}

	return fmt.Sprintf(
		"AF:%04X BC:%04X DE:%04X HL:%04X SP:%04X [%s] PC:%04X %02X %02X %02X  %s",
		c.Reg.Get16(AF), c.Reg.Get16(BC), c.Reg.Get16(DE), c.Reg.Get16(HL), c.Reg.SP,
		flags, pc, op, n1, n2, mnemonic,
	)
}
