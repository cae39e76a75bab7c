package memory

// MBC is a cartridge memory-bank controller: it translates guest
// addresses in the ROM and external-RAM windows into cartridge bytes.
// Grounded on the teacher's memory/mbc.go MBC interface and RomOnly/
// MBC1 implementations; MBC3's Read/Write (absent in the teacher's
// snapshot — see DESIGN.md) is authored fresh from spec.md 4.2.
type MBC interface {
	Read(addr uint16) uint8
	Write(addr uint16, value uint8)
}

const bankSize = 0x4000
const ramBankSize = 0x2000

// RomOnly is spec.md 4.2's RomOnly variant: no banking, writes ignored.
type RomOnly struct {
	rom []uint8
}

func NewRomOnly(rom []uint8) *RomOnly {
	return &RomOnly{rom: rom}
}

func (m *RomOnly) Read(addr uint16) uint8 {
	if addr > 0x7FFF {
		panic(&CartridgeError{Msg: "RomOnly: read outside ROM window"})
	}
	return m.rom[addr]
}

func (m *RomOnly) Write(addr uint16, value uint8) {
	if addr > 0x7FFF {
		panic(&CartridgeError{Msg: "RomOnly: write outside ROM window"})
	}
	// RomOnly has no registers to latch; writes are simply ignored.
}

// MBC1 implements spec.md 4.2's MBC1 variant: up to 2MiB ROM / 32KiB
// RAM, with the classic RAM-enable latch, 5-bit+2-bit bank composition
// and ROM/RAM banking-mode switch.
type MBC1 struct {
	rom        []uint8
	ram        []uint8
	romBankLow uint8 // low 5 bits, latched by 0x2000-0x3FFF
	bankHigh   uint8 // high 2 bits, latched by 0x4000-0x5FFF in ROM mode
	ramBank    uint8 // latched by 0x4000-0x5FFF in RAM mode
	ramEnabled bool
	ramMode    bool // false = ROM priority mode, true = RAM priority mode
}

func NewMBC1(rom []uint8, ramBanks uint8) *MBC1 {
	return &MBC1{
		rom:        rom,
		ram:        make([]uint8, int(ramBanks)*ramBankSize),
		romBankLow: 1,
	}
}

// romBank returns the currently selected upper-window ROM bank: bank 0
// is never selected there (spec.md 3 invariant), enforced by coercing a
// latched 0 to 1 at write time.
func (m *MBC1) romBank() int {
	if m.ramMode {
		return int(m.romBankLow)
	}
	return int(m.bankHigh)<<5 | int(m.romBankLow)
}

func (m *MBC1) Read(addr uint16) uint8 {
	switch {
	case addr <= 0x3FFF:
		return m.rom[addr]
	case addr <= 0x7FFF:
		offset := m.romBank() * bankSize
		return m.rom[(offset+int(addr-0x4000))%len(m.rom)]
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled || len(m.ram) == 0 {
			return 0
		}
		bank := 0
		if m.ramMode {
			bank = int(m.ramBank)
		}
		return m.ram[(bank*ramBankSize+int(addr-0xA000))%len(m.ram)]
	default:
		panic(&CartridgeError{Msg: "MBC1: read outside cartridge windows"})
	}
}

func (m *MBC1) Write(addr uint16, value uint8) {
	switch {
	case addr <= 0x1FFF:
		m.ramEnabled = value&0x0F == 0x0A
	case addr <= 0x3FFF:
		bank := value & 0x1F
		if bank == 0 {
			bank = 1
		}
		m.romBankLow = bank
	case addr <= 0x5FFF:
		if m.ramMode {
			m.ramBank = value & 0x03
		} else {
			m.bankHigh = value & 0x03
		}
	case addr <= 0x7FFF:
		m.ramMode = value&0x01 != 0
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled || len(m.ram) == 0 {
			return
		}
		bank := 0
		if m.ramMode {
			bank = int(m.ramBank)
		}
		m.ram[(bank*ramBankSize+int(addr-0xA000))%len(m.ram)] = value
	default:
		panic(&CartridgeError{Msg: "MBC1: write outside cartridge windows"})
	}
}

// MBC3 implements spec.md 4.2's MBC3 variant: up to 2MiB ROM / 32KiB
// RAM, no banking-mode switch, real-time-clock latch writes ignored.
type MBC3 struct {
	rom        []uint8
	ram        []uint8
	romBank    uint8
	ramBank    uint8
	ramEnabled bool
}

func NewMBC3(rom []uint8, ramBanks uint8) *MBC3 {
	return &MBC3{
		rom:     rom,
		ram:     make([]uint8, int(ramBanks)*ramBankSize),
		romBank: 1,
	}
}

func (m *MBC3) Read(addr uint16) uint8 {
	switch {
	case addr <= 0x3FFF:
		return m.rom[addr]
	case addr <= 0x7FFF:
		offset := int(m.romBank) * bankSize
		return m.rom[(offset+int(addr-0x4000))%len(m.rom)]
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled || len(m.ram) == 0 {
			return 0
		}
		return m.ram[(int(m.ramBank)*ramBankSize+int(addr-0xA000))%len(m.ram)]
	default:
		panic(&CartridgeError{Msg: "MBC3: read outside cartridge windows"})
	}
}

func (m *MBC3) Write(addr uint16, value uint8) {
	switch {
	case addr <= 0x1FFF:
		m.ramEnabled = value&0x0F == 0x0A
	case addr <= 0x3FFF:
		bank := value & 0x7F
		if bank == 0 {
			bank = 1
		}
		m.romBank = bank
	case addr <= 0x5FFF:
		m.ramBank = value & 0x03
	case addr <= 0x7FFF:
		// RTC latch: real-time-clock emulation is out of scope, the
		// write is accepted and ignored per spec.md 4.2.
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled || len(m.ram) == 0 {
			return
		}
		m.ram[(int(m.ramBank)*ramBankSize+int(addr-0xA000))%len(m.ram)] = value
	default:
		panic(&CartridgeError{Msg: "MBC3: write outside cartridge windows"})
	}
}
