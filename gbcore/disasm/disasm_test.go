package disasm

import "testing"

type fakeReader [0x10000]uint8

func (f *fakeReader) Read(addr uint16) uint8 { return f[addr] }

func TestAtSubstitutesImmediate8(t *testing.T) {
	var r fakeReader
	r[0x100] = 0x06 // LD B,d8
	r[0x101] = 0x42

	line := At(0x100, &r)
	if line.Length != 2 {
		t.Fatalf("expected length 2, got %d", line.Length)
	}
	if line.Text != "LD B,$42" {
		t.Fatalf("expected substituted immediate, got %q", line.Text)
	}
}

func TestAtSubstitutesImmediate16(t *testing.T) {
	var r fakeReader
	r[0x100] = 0xC3 // JP a16
	r[0x101] = 0x34
	r[0x102] = 0x12

	line := At(0x100, &r)
	if line.Length != 3 {
		t.Fatalf("expected length 3, got %d", line.Length)
	}
	if line.Text != "JP $1234" {
		t.Fatalf("expected substituted 16-bit immediate, got %q", line.Text)
	}
}

func TestAtUndefinedOpcode(t *testing.T) {
	var r fakeReader
	r[0x100] = 0xD3 // undefined

	line := At(0x100, &r)
	if line.Text != "UNDEFINED" {
		t.Fatalf("expected UNDEFINED, got %q", line.Text)
	}
}

func TestAtCBPrefixed(t *testing.T) {
	var r fakeReader
	r[0x100] = 0xCB
	r[0x101] = 0x00 // RLC B

	line := At(0x100, &r)
	if line.Length != 2 {
		t.Fatalf("expected length 2 for CB-prefixed, got %d", line.Length)
	}
}

func TestRangeStopsAtAddressSpaceEnd(t *testing.T) {
	var r fakeReader
	lines := Range(0xFFFE, 5, &r)
	if len(lines) == 0 {
		t.Fatalf("expected at least one disassembled line")
	}
}
