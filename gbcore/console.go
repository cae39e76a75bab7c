// Package gbcore is the root orchestrator: it owns the cpu, the memory
// map (which in turn owns the cartridge and pixel unit) and drives the
// fetch/execute/interrupt loop of spec.md 4.9.
package gbcore

import (
	"fmt"
	"strings"
	"sync"

	"github.com/student/gbcore/gbcore/addr"
	"github.com/student/gbcore/gbcore/cpu"
	"github.com/student/gbcore/gbcore/memory"
)

// inputEvent is a queued button transition, posted by KeyDown/KeyUp and
// drained at the top of Step.
type inputEvent struct {
	button memory.Button
	down   bool
}

// Console is the host-facing emulation core, per spec.md 6's external
// interface. Grounded in shape on the teacher's jeebie.Emulator (New,
// NewWithFile, instruction/frame counters) but trimmed to the
// single-threaded run loop spec.md 5 requires — the teacher's debugger
// pause/step state machine is a non-goal here.
type Console struct {
	cpu *cpu.CPU
	mem *memory.MMU

	traceEnabled   bool
	lastFrameReady bool

	instructionCount uint64
	frameCount       uint64

	inputMu      sync.Mutex
	pendingInput []inputEvent
}

// New builds a Console from a raw cartridge image, per spec.md 6
// `new(cartridge_bytes, trace_enabled) -> Console`.
func New(cartridgeBytes []byte, traceEnabled bool) *Console {
	mem := memory.New()
	mem.LoadCartridge(cartridgeBytes)

	c := &Console{
		mem:          mem,
		traceEnabled: traceEnabled,
	}
	c.cpu = cpu.New(mem)
	return c
}

// Step executes exactly one CPU instruction (or halt cycle), advances
// the pixel unit and timer by the elapsed cycles, and resolves any
// pending interrupt, per spec.md 4.9.
func (c *Console) Step() {
	c.drainInput()

	if c.traceEnabled {
		fmt.Println(c.cpu.TraceLine())
	}

	cycles := c.cpu.Step()
	c.instructionCount++

	// A write to the DMA register during this instruction charges an
	// extra 160 cycles on top of the instruction's own cost, per
	// spec.md 4.5 — every real ROM primes OAM DMA from VBlank, so
	// skipping this would desync the shared cycle budget every frame.
	cycles += c.mem.TakeDMACycles()

	gpu := c.mem.PixelUnit()
	if raised := gpu.Step(cycles); raised != 0 {
		c.mem.RequestInterrupt(raised)
	}
	if gpu.NewFrame() {
		c.frameCount++
		c.lastFrameReady = true
	}

	if timerOverflowed := c.tickTimer(cycles); timerOverflowed {
		c.mem.RequestInterrupt(addr.Timer)
	}

	c.resolveInterrupts()
}

func (c *Console) tickTimer(cycles int) bool {
	return c.mem.TickTimer(cycles)
}

// resolveInterrupts implements spec.md 4.9 step 5: wake from HALT on any
// enabled-and-requested interrupt regardless of IME, then, if IME is
// set, dispatch to the lowest-numbered pending interrupt's vector.
func (c *Console) resolveInterrupts() {
	pending := c.mem.PendingInterrupts()
	if pending == 0 {
		return
	}

	c.cpu.RequestInterruptExit()

	if !c.cpu.IME {
		return
	}

	for _, i := range []addr.Interrupt{addr.VBlank, addr.LCDSTAT, addr.Timer, addr.Serial, addr.Joypad} {
		if pending&uint8(i) != 0 {
			c.mem.ClearInterrupt(i)
			c.cpu.Dispatch(addr.Vector(i))
			return
		}
	}
}

// NewFrame reports whether the pixel unit just entered VBlank since the
// last call, per spec.md 6 `new_frame() -> bool`.
func (c *Console) NewFrame() bool {
	v := c.lastFrameReady
	c.lastFrameReady = false
	return v
}

// Frame returns the current 160x144 RGB framebuffer.
func (c *Console) Frame() []byte {
	return c.mem.PixelUnit().Frame()
}

// KeyDown presses a button. Safe to call from a goroutine other than the
// one driving Step (spec.md 5): the event is queued and applied to the
// guest input latch at the top of the next Step call, rather than
// mutating shared MMU/CPU state directly off-thread.
func (c *Console) KeyDown(b memory.Button) { c.postInput(b, true) }

// KeyUp releases a button. Same threading contract as KeyDown.
func (c *Console) KeyUp(b memory.Button) { c.postInput(b, false) }

func (c *Console) postInput(b memory.Button, down bool) {
	c.inputMu.Lock()
	c.pendingInput = append(c.pendingInput, inputEvent{button: b, down: down})
	c.inputMu.Unlock()
}

// drainInput applies every button transition queued since the last
// Step call. Running this only on the Step goroutine is what makes
// queuing via postInput's mutex sufficient: nothing else ever touches
// the MMU's input latch or IF register.
func (c *Console) drainInput() {
	c.inputMu.Lock()
	events := c.pendingInput
	c.pendingInput = nil
	c.inputMu.Unlock()

	for _, e := range events {
		if e.down {
			c.mem.KeyDown(e.button)
		} else {
			c.mem.KeyUp(e.button)
		}
	}
}

// PC returns the current program counter, for debug inspection.
func (c *Console) PC() uint16 { return c.cpu.Reg.PC }

// Regs renders the register file the same way TraceLine does, minus the
// opcode bytes, for debug inspection.
func (c *Console) Regs() string {
	line := c.cpu.TraceLine()
	// Keep everything up to and including "PC:XXXX".
	if i := strings.Index(line, "PC:"); i >= 0 && len(line) >= i+7 {
		return line[:i+7]
	}
	return line
}

// InstructionCount returns the number of instructions executed so far.
func (c *Console) InstructionCount() uint64 { return c.instructionCount }

// FrameCount returns the number of frames completed so far.
func (c *Console) FrameCount() uint64 { return c.frameCount }
