// Package memory implements the guest memory map: cartridge banking,
// work/high RAM, the echo region, and I/O register dispatch to the
// timer, input latch and interrupt flags. The pixel unit's VRAM/OAM and
// registers are dispatched here too, but owned by the video package
// (spec.md 9: "memory map owns the pixel unit and cartridge").
package memory

import (
	"fmt"

	"github.com/student/gbcore/gbcore/addr"
	"github.com/student/gbcore/gbcore/video"
)

type region uint8

const (
	regionROM region = iota
	regionVRAM
	regionExtRAM
	regionWRAM
	regionEcho
	regionOAM
	regionUnusable
	regionIO
	regionHRAM
)

// MMU is the 16-bit guest address space, grounded on the teacher's
// memory/mem.go page-indexed region table but re-sized for the
// subsystems spec.md 4.6 actually names.
type MMU struct {
	cart  *Cartridge
	gpu   *video.PixelUnit
	timer Timer
	input *Input

	wram [0x2000]byte
	hram [0x7F]byte

	ifReg uint8
	ie    uint8

	regionMap [256]region

	pendingDMACycles int
}

// New returns an MMU with no cartridge loaded; LoadCartridge must be
// called before ROM reads are meaningful.
func New() *MMU {
	m := &MMU{
		gpu:   video.New(),
		input: NewInput(),
	}
	m.buildRegionMap()
	return m
}

// LoadCartridge parses and installs cartridge data, per spec.md 6.
func (m *MMU) LoadCartridge(data []byte) {
	m.cart = NewCartridge(data)
}

// PixelUnit exposes the owned video subsystem for the orchestrator to
// step and query (frame readiness, framebuffer bytes).
func (m *MMU) PixelUnit() *video.PixelUnit { return m.gpu }

// Input exposes the owned input latch for the orchestrator's
// KeyDown/KeyUp surface.
func (m *MMU) Input() *Input { return m.input }

func (m *MMU) buildRegionMap() {
	for page := 0x00; page <= 0x7F; page++ {
		m.regionMap[page] = regionROM
	}
	for page := 0x80; page <= 0x9F; page++ {
		m.regionMap[page] = regionVRAM
	}
	for page := 0xA0; page <= 0xBF; page++ {
		m.regionMap[page] = regionExtRAM
	}
	for page := 0xC0; page <= 0xDF; page++ {
		m.regionMap[page] = regionWRAM
	}
	for page := 0xE0; page <= 0xFD; page++ {
		m.regionMap[page] = regionEcho
	}
	m.regionMap[0xFE] = regionOAM // split further by address in Read/Write
	m.regionMap[0xFF] = regionIO  // split further by address in Read/Write
}

// Read implements cpu.Bus, dispatching per spec.md 4.6.
func (m *MMU) Read(address uint16) uint8 {
	switch m.regionMap[address>>8] {
	case regionROM, regionExtRAM:
		if m.cart == nil {
			return 0xFF
		}
		return m.cart.Load(address)
	case regionVRAM:
		return m.gpu.ReadVRAM(address)
	case regionWRAM:
		return m.wram[address-addr.WRAMStart]
	case regionEcho:
		return m.wram[address-addr.EchoStart]
	case regionOAM:
		if address <= addr.OAMEnd {
			return m.gpu.ReadOAM(address)
		}
		return 0 // unusable region, spec.md 4.6
	case regionIO:
		return m.readIO(address)
	default:
		panic(fmt.Sprintf("memory: attempted read at unmapped address 0x%04X", address))
	}
}

// Write implements cpu.Bus, dispatching per spec.md 4.6.
func (m *MMU) Write(address uint16, value uint8) {
	switch m.regionMap[address>>8] {
	case regionROM, regionExtRAM:
		if m.cart == nil {
			return
		}
		m.cart.Store(address, value)
	case regionVRAM:
		m.gpu.WriteVRAM(address, value)
	case regionWRAM:
		m.wram[address-addr.WRAMStart] = value
	case regionEcho:
		m.wram[address-addr.EchoStart] = value
	case regionOAM:
		if address <= addr.OAMEnd {
			m.gpu.WriteOAM(address, value)
		}
		// else: unusable region, writes discarded
	case regionIO:
		m.writeIO(address, value)
	default:
		panic(fmt.Sprintf("memory: attempted write at unmapped address 0x%04X", address))
	}
}

func (m *MMU) readIO(address uint16) uint8 {
	switch {
	case address == addr.P1:
		return m.input.Read()
	case address == addr.DIV:
		return m.timer.DIV
	case address == addr.TIMA:
		return m.timer.TIMA
	case address == addr.TMA:
		return m.timer.TMA
	case address == addr.TAC:
		return m.timer.TAC
	case address == addr.IF:
		return m.ifReg
	case address == addr.LCDC:
		return m.gpu.LCDC
	case address == addr.STAT:
		return m.gpu.STAT
	case address == addr.SCY:
		return m.gpu.SCY
	case address == addr.SCX:
		return m.gpu.SCX
	case address == addr.LY:
		return m.gpu.LY
	case address == addr.LYC:
		return m.gpu.LYC
	case address == addr.BGP:
		return m.gpu.BGP
	case address == addr.OBP0:
		return m.gpu.OBP0
	case address == addr.OBP1:
		return m.gpu.OBP1
	case address == addr.WY:
		return m.gpu.WY
	case address == addr.WX:
		return m.gpu.WX
	case address == uint16(0xFFFF):
		return m.ie
	case address >= addr.HRAMStart && address <= addr.HRAMEnd:
		return m.hram[address-addr.HRAMStart]
	default:
		return 0xFF
	}
}

func (m *MMU) writeIO(address uint16, value uint8) {
	switch {
	case address == addr.P1:
		m.input.Set(value)
	case address == addr.DIV:
		m.timer.WriteDIV()
	case address == addr.TIMA:
		m.timer.TIMA = value
	case address == addr.TMA:
		m.timer.TMA = value
	case address == addr.TAC:
		m.timer.TAC = value
	case address == addr.IF:
		m.ifReg = value
	case address == addr.LCDC:
		m.gpu.LCDC = value
	case address == addr.STAT:
		m.gpu.STAT = (m.gpu.STAT & 0x07) | (value &^ 0x07)
	case address == addr.SCY:
		m.gpu.SCY = value
	case address == addr.SCX:
		m.gpu.SCX = value
	case address == addr.LY:
		m.gpu.LY = 0 // spec.md 4.6: writes to LY reset it
	case address == addr.LYC:
		m.gpu.LYC = value
	case address == addr.DMA:
		m.runOAMDMA(value)
	case address == addr.BGP:
		m.gpu.BGP = value
	case address == addr.OBP0:
		m.gpu.OBP0 = value
	case address == addr.OBP1:
		m.gpu.OBP1 = value
	case address == addr.WY:
		m.gpu.WY = value
	case address == addr.WX:
		m.gpu.WX = value
	case address == uint16(0xFFFF):
		m.ie = value
	case address >= addr.HRAMStart && address <= addr.HRAMEnd:
		m.hram[address-addr.HRAMStart] = value
	}
}

// dmaCycles is the fixed charge for an OAM DMA transfer (spec.md 4.5).
const dmaCycles = 160

// runOAMDMA implements spec.md 4.5's OAM DMA transfer: 160 bytes copied
// from (value<<8) into OAM. The 160-cycle charge is accumulated here and
// collected by the orchestrator via TakeDMACycles, since the MMU is the
// only thing that knows a transfer fired this step.
func (m *MMU) runOAMDMA(value uint8) {
	source := uint16(value) << 8
	for i := uint16(0); i < 0xA0; i++ {
		m.gpu.WriteOAM(addr.OAMStart+i, m.Read(source+i))
	}
	m.pendingDMACycles += dmaCycles
}

// TakeDMACycles returns the OAM DMA cycle charge accumulated since the
// last call and resets it to zero, for the orchestrator to fold into
// the elapsed-cycle count it passes to the pixel unit and timer.
func (m *MMU) TakeDMACycles() int {
	c := m.pendingDMACycles
	m.pendingDMACycles = 0
	return c
}

// TickTimer advances the owned timer by cycles and reports whether TIMA
// overflowed, per spec.md 4.3/4.9.
func (m *MMU) TickTimer(cycles int) bool {
	return m.timer.Tick(cycles)
}

// RequestInterrupt ORs the given interrupt bit into IF, per spec.md 4.9.
func (m *MMU) RequestInterrupt(i addr.Interrupt) {
	m.ifReg |= uint8(i)
}

// PendingInterrupts returns the enabled-and-requested interrupt bits.
func (m *MMU) PendingInterrupts() uint8 {
	return m.ifReg & m.ie
}

// ClearInterrupt clears the given interrupt's IF bit, called by the
// orchestrator once it has dispatched to that interrupt's vector.
func (m *MMU) ClearInterrupt(i addr.Interrupt) {
	m.ifReg &^= uint8(i)
}

// KeyDown presses a button, requesting the joypad interrupt on a
// high-to-low transition (supplemented behavior grounded on the
// teacher's mem.go HandleKeyPress; not explicit in spec.md 4.4's
// documented operations but accurate to real hardware).
func (m *MMU) KeyDown(b Button) {
	if m.input.KeyDown(b) {
		m.RequestInterrupt(addr.Joypad)
	}
}

// KeyUp releases a button.
func (m *MMU) KeyUp(b Button) {
	m.input.KeyUp(b)
}
