package memory

// Button names one of the eight logical buttons spec.md 4.4 covers:
// four directional, four action.
type Button uint8

const (
	Right Button = iota
	Left
	Up
	Down
	ButtonA
	ButtonB
	Select
	Start
)

// Input implements spec.md 4.4: two 4-bit active-low latches and a
// 2-bit selector latched via 0xFF00 that picks which latch is exposed.
type Input struct {
	dpad     uint8 // bit0 Right, bit1 Left, bit2 Up, bit3 Down
	action   uint8 // bit0 A, bit1 B, bit2 Select, bit3 Start
	selector uint8 // bits 7-4 only; 0 in a selector bit picks that latch
}

// NewInput returns an Input with nothing pressed (both latches all-ones).
func NewInput() *Input {
	return &Input{dpad: 0x0F, action: 0x0F, selector: 0xC0}
}

func bitFor(b Button) uint8 {
	switch b {
	case Right, ButtonA:
		return 0
	case Left, ButtonB:
		return 1
	case Up, Select:
		return 2
	case Down, Start:
		return 3
	default:
		panic("memory: unknown button")
	}
}

func isDirectional(b Button) bool {
	return b == Right || b == Left || b == Up || b == Down
}

// KeyDown clears the button's bit (active-low = pressed). It reports
// whether this was a high-to-low transition, which the memory map uses
// to request the joypad interrupt.
func (in *Input) KeyDown(b Button) (interrupted bool) {
	bitMask := uint8(1) << bitFor(b)
	if isDirectional(b) {
		interrupted = in.dpad&bitMask != 0
		in.dpad &^= bitMask
	} else {
		interrupted = in.action&bitMask != 0
		in.action &^= bitMask
	}
	return interrupted
}

// KeyUp sets the button's bit (released).
func (in *Input) KeyUp(b Button) {
	bitMask := uint8(1) << bitFor(b)
	if isDirectional(b) {
		in.dpad |= bitMask
	} else {
		in.action |= bitMask
	}
}

// Set writes the selector bits (P1 bits 5-4), ORed with the invariant
// high bits 0b11 (P1 bits 7-6 always read as 1).
func (in *Input) Set(v uint8) {
	in.selector = 0xC0 | (v & 0x30)
}

// Read returns the byte exposed at 0xFF00: selector bits plus the
// selected latch's low nibble, or all-ones if no selector bit picks a
// latch.
func (in *Input) Read() uint8 {
	nibble := uint8(0x0F)
	picked := false
	if in.selector&0x10 == 0 {
		nibble &= in.dpad
		picked = true
	}
	if in.selector&0x20 == 0 {
		nibble &= in.action
		picked = true
	}
	if !picked {
		nibble = 0x0F
	}
	return in.selector | nibble
}
