package bit

import "testing"

func TestCombine(t *testing.T) {
	tests := []struct {
		high, low uint8
		want      uint16
	}{
		{0x12, 0x34, 0x1234},
		{0x00, 0x00, 0x0000},
		{0xFF, 0xFF, 0xFFFF},
	}

	for _, tt := range tests {
		if got := Combine(tt.high, tt.low); got != tt.want {
			t.Errorf("Combine(%#x, %#x) = %#x, want %#x", tt.high, tt.low, got, tt.want)
		}
	}
}

func TestSetClearIsSet(t *testing.T) {
	var b uint8 = 0

	for i := uint8(0); i < 8; i++ {
		b = Set(i, b)
		if !IsSet(i, b) {
			t.Fatalf("bit %d should be set after Set", i)
		}
		b = Clear(i, b)
		if IsSet(i, b) {
			t.Fatalf("bit %d should be clear after Clear", i)
		}
	}
}

func TestExtractBits(t *testing.T) {
	if got := ExtractBits(0b11010110, 6, 4); got != 0b101 {
		t.Errorf("ExtractBits = %#b, want %#b", got, 0b101)
	}
}

func TestLowHigh(t *testing.T) {
	v := uint16(0xBEEF)
	if Low(v) != 0xEF {
		t.Errorf("Low(%#x) = %#x, want 0xEF", v, Low(v))
	}
	if High(v) != 0xBE {
		t.Errorf("High(%#x) = %#x, want 0xBE", v, High(v))
	}
}
