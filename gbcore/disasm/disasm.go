// Package disasm renders mnemonic strings for a program address,
// reading directly from the cpu package's decode tables rather than a
// second, independently generated table (the teacher's disasm package
// regenerates its own templates via go:generate; spec.md names no such
// tool, and the decode table is already the single source of truth for
// instruction shape, so duplicating it would just be a second place to
// drift out of sync).
package disasm

import (
	"fmt"
	"strings"

	"github.com/student/gbcore/gbcore/bit"
	"github.com/student/gbcore/gbcore/cpu"
)

// Reader is the minimal byte-addressable source disassembly needs; the
// memory map satisfies it without disasm importing memory.
type Reader interface {
	Read(addr uint16) uint8
}

// Line is one disassembled instruction.
type Line struct {
	Address uint16
	Text    string
	Length  uint8
}

// At disassembles the instruction at pc, substituting any immediate
// operand the mnemonic's template (d8/r8/a8/d16/a16) names.
func At(pc uint16, r Reader) Line {
	opcode := r.Read(pc)

	if opcode == 0xCB {
		entry := cpu.LookupCB(r.Read(pc + 1))
		return Line{Address: pc, Text: entry.Mnemonic, Length: 2}
	}

	entry := cpu.Lookup(opcode)
	if entry.Exec == nil {
		return Line{Address: pc, Text: "UNDEFINED", Length: 1}
	}

	text := entry.Mnemonic
	switch entry.Length {
	case 2:
		imm := r.Read(pc + 1)
		text = substituteImmediate8(text, imm)
	case 3:
		imm := bit.Combine(r.Read(pc+2), r.Read(pc+1))
		text = substituteImmediate16(text, imm)
	}

	return Line{Address: pc, Text: text, Length: entry.Length}
}

func substituteImmediate8(template string, imm uint8) string {
	hex := fmt.Sprintf("$%02X", imm)
	for _, placeholder := range []string{"d8", "r8", "a8"} {
		if strings.Contains(template, placeholder) {
			return strings.Replace(template, placeholder, hex, 1)
		}
	}
	return template
}

func substituteImmediate16(template string, imm uint16) string {
	hex := fmt.Sprintf("$%04X", imm)
	for _, placeholder := range []string{"d16", "a16"} {
		if strings.Contains(template, placeholder) {
			return strings.Replace(template, placeholder, hex, 1)
		}
	}
	return template
}

// Range disassembles count consecutive instructions starting at pc.
func Range(pc uint16, count int, r Reader) []Line {
	lines := make([]Line, 0, count)
	addr := pc
	for i := 0; i < count; i++ {
		line := At(addr, r)
		lines = append(lines, line)
		if int(addr)+int(line.Length) > 0xFFFF {
			break
		}
		addr += uint16(line.Length)
	}
	return lines
}
