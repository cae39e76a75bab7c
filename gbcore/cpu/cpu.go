// Package cpu implements the register file, the fixed opcode decode
// tables and the instruction executor of the processor core, per
// spec.md 4.1, 4.7 and 4.8.
package cpu

import "fmt"

// Bus is the address-space arbiter the executor reads and writes
// through. The memory map implements it; the cpu package never talks to
// RAM, VRAM or the cartridge directly.
type Bus interface {
	Read(addr uint16) uint8
	Write(addr uint16, v uint8)
}

// FatalError is raised by a panic for the fatal conditions the executor
// detects: an undefined opcode, or a store to (or load from) a storage
// operand that cannot take it, such as the immediate stream. Unsupported
// cartridge accesses panic with memory.CartridgeError instead, and the
// memory map panics with a plain message for an unmapped address. The
// orchestrator lets it propagate; nothing in this package recovers it.
type FatalError struct {
	PC     uint16
	Opcode uint8
	Msg    string
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("fatal at PC=%#04x opcode=%#02x: %s", e.PC, e.Opcode, e.Msg)
}

// CPU holds the register file and the two latches (IME, Halted) that
// gate interrupt dispatch. It does not own IF/IE or the interrupt
// vectors: those belong to the orchestrator, which is the single owner
// coordinating the cpu, the memory map, the pixel unit and the timer
// (spec.md 9, "shared mutable state").
type CPU struct {
	Reg    Registers
	Bus    Bus
	IME    bool
	Halted bool

	// imeDelay implements EI's documented one-instruction-late enable:
	// interrupts become possible only after the instruction following EI
	// has executed.
	imeDelay int
}

// New constructs a CPU wired to bus with registers at their documented
// post-boot values (spec.md 3).
func New(bus Bus) *CPU {
	c := &CPU{Bus: bus, IME: true}
	c.Reg.Reset()
	return c
}

// fetch8 reads the byte at PC and advances PC by one.
func (c *CPU) fetch8() uint8 {
	v := c.Bus.Read(c.Reg.PC)
	c.Reg.PC++
	return v
}

// fetch16 reads a little-endian word starting at PC and advances PC by two.
func (c *CPU) fetch16() uint16 {
	lo := c.fetch8()
	hi := c.fetch8()
	return uint16(hi)<<8 | uint16(lo)
}

// push16 pushes v onto the stack, predecrementing SP first (SP always
// points at the last pushed byte).
func (c *CPU) push16(v uint16) {
	c.Reg.SP--
	c.Bus.Write(c.Reg.SP, uint8(v>>8))
	c.Reg.SP--
	c.Bus.Write(c.Reg.SP, uint8(v))
}

// pop16 pops a word off the stack.
func (c *CPU) pop16() uint16 {
	lo := c.Bus.Read(c.Reg.SP)
	c.Reg.SP++
	hi := c.Bus.Read(c.Reg.SP)
	c.Reg.SP++
	return uint16(hi)<<8 | uint16(lo)
}

// Step executes exactly one instruction (or, if halted, burns 4 cycles
// without fetching) and returns the elapsed machine cycles, per
// spec.md 4.9 step 1-2.
func (c *CPU) Step() int {
	if c.imeDelay > 0 {
		c.imeDelay--
		if c.imeDelay == 0 {
			c.IME = true
		}
	}

	if c.Halted {
		return 4
	}

	pc := c.Reg.PC
	opcode := c.fetch8()

	if opcode == 0xCB {
		cbOpcode := c.fetch8()
		entry := cbTable[cbOpcode]
		if entry.Exec == nil {
			panic(&FatalError{PC: pc, Opcode: opcode, Msg: "undefined CB opcode"})
		}
		return entry.Exec(c)
	}

	entry := baseTable[opcode]
	if entry.Exec == nil {
		panic(&FatalError{PC: pc, Opcode: opcode, Msg: "undefined opcode"})
	}
	return entry.Exec(c)
}

// RequestInterruptExit clears the halted latch. The orchestrator calls
// this once it observes any enabled-and-requested interrupt, regardless
// of IME (spec.md 4.8, HALT).
func (c *CPU) RequestInterruptExit() {
	c.Halted = false
}

// Dispatch pushes PC and jumps to vector, clearing IME. Used by the
// orchestrator's interrupt resolution step (spec.md 4.9 step 5).
func (c *CPU) Dispatch(vector uint16) {
	c.IME = false
	c.push16(c.Reg.PC)
	c.Reg.PC = vector
}
