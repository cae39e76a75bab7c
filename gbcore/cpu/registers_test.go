package cpu

import "testing"

func TestRegistersReset(t *testing.T) {
	var r Registers
	r.Reset()

	if r.Get16(AF) != 0x01B0 {
		t.Errorf("AF = %#04x, want 0x01B0", r.Get16(AF))
	}
	if r.Get16(BC) != 0x0013 {
		t.Errorf("BC = %#04x, want 0x0013", r.Get16(BC))
	}
	if r.Get16(DE) != 0x00D8 {
		t.Errorf("DE = %#04x, want 0x00D8", r.Get16(DE))
	}
	if r.Get16(HL) != 0x014D {
		t.Errorf("HL = %#04x, want 0x014D", r.Get16(HL))
	}
	if r.SP != 0xFFFE {
		t.Errorf("SP = %#04x, want 0xFFFE", r.SP)
	}
	if r.PC != 0x0100 {
		t.Errorf("PC = %#04x, want 0x0100", r.PC)
	}
}

func TestSet16GetPairMask(t *testing.T) {
	pairs := []struct {
		name Pair
		mask uint16
	}{
		{AF, 0xFFF0},
		{BC, 0xFFFF},
		{DE, 0xFFFF},
		{HL, 0xFFFF},
		{SP, 0xFFFF},
	}

	for _, tt := range pairs {
		var r Registers
		r.Set16(tt.name, 0xBEEF)
		if got := r.Get16(tt.name); got != 0xBEEF&tt.mask {
			t.Errorf("pair %v: Get16 = %#04x, want %#04x", tt.name, got, 0xBEEF&tt.mask)
		}
	}
}

func TestFlagLowNibbleAlwaysZero(t *testing.T) {
	var r Registers
	r.F = 0xFF
	r.SetFlag(FlagZ, true)
	if r.F&0x0F != 0 {
		t.Errorf("F low nibble = %#x, want 0", r.F&0x0F)
	}
}
