package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRomOnly(t *testing.T) {
	rom := make([]uint8, 0x8000)
	for i := range rom {
		rom[i] = uint8(i & 0xFF)
	}
	mbc := NewRomOnly(rom)

	assert.EqualValues(t, rom[0x1234], mbc.Read(0x1234))

	// Writes are accepted and ignored: no panic, no observable effect.
	assert.NotPanics(t, func() { mbc.Write(0x2000, 0xFF) })
	assert.EqualValues(t, rom[0x2000], mbc.Read(0x2000))

	assert.Panics(t, func() { mbc.Read(0x8000) }, "expected read outside the ROM window to panic")
}

func TestMBC1(t *testing.T) {
	t.Run("bank 0 is fixed", func(t *testing.T) {
		rom := make([]uint8, 0x8000)
		for i := range rom {
			rom[i] = uint8(i & 0xFF)
		}
		mbc := NewMBC1(rom, 0)

		for addr := uint16(0); addr < 0x4000; addr += 0x123 {
			assert.EqualValues(t, uint8(addr&0xFF), mbc.Read(addr))
		}
	})

	t.Run("rom bank switching via low 5 bits", func(t *testing.T) {
		rom := make([]uint8, 4*bankSize)
		for i := range rom {
			rom[i] = uint8(i / bankSize)
		}
		mbc := NewMBC1(rom, 0)

		assert.EqualValues(t, 1, mbc.Read(0x4000), "default bank is 1, not 0")

		mbc.Write(0x2000, 2)
		assert.EqualValues(t, 2, mbc.Read(0x4000))

		mbc.Write(0x2000, 3)
		assert.EqualValues(t, 3, mbc.Read(0x4000))
	})

	t.Run("bank 0 coerced to bank 1", func(t *testing.T) {
		mbc := NewMBC1(make([]uint8, 4*bankSize), 0)
		mbc.Write(0x2000, 0)
		assert.EqualValues(t, 1, mbc.romBankLow)
	})

	t.Run("ram disabled by default reads zero", func(t *testing.T) {
		mbc := NewMBC1(make([]uint8, 0x8000), 1)
		assert.Zero(t, mbc.Read(0xA000))
	})

	t.Run("ram enable and disable", func(t *testing.T) {
		mbc := NewMBC1(make([]uint8, 0x8000), 1)

		mbc.Write(0x0000, 0x0A) // enable
		mbc.Write(0xA000, 0x42)
		assert.EqualValues(t, 0x42, mbc.Read(0xA000))

		mbc.Write(0x0000, 0x00) // disable
		assert.Zero(t, mbc.Read(0xA000))
	})

	t.Run("ram banking mode selects independent banks", func(t *testing.T) {
		mbc := NewMBC1(make([]uint8, 0x8000), 4)
		mbc.Write(0x0000, 0x0A) // enable RAM
		mbc.Write(0x6000, 0x01) // switch to RAM banking mode

		for bank := uint8(0); bank < 4; bank++ {
			mbc.Write(0x4000, bank)
			mbc.Write(0xA000, 0x40+bank)
		}
		for bank := uint8(0); bank < 4; bank++ {
			mbc.Write(0x4000, bank)
			assert.EqualValues(t, 0x40+bank, mbc.Read(0xA000))
		}
	})

	t.Run("rom banking mode composes high and low bits", func(t *testing.T) {
		rom := make([]uint8, 8*bankSize)
		for i := range rom {
			rom[i] = uint8(i / bankSize)
		}
		mbc := NewMBC1(rom, 1)

		mbc.Write(0x6000, 0x00) // ROM banking mode
		mbc.Write(0x2000, 0x05)
		mbc.Write(0x4000, 0x00)
		assert.EqualValues(t, 5, mbc.Read(0x4000))
	})

	t.Run("rom banking mode wraps past rom length", func(t *testing.T) {
		rom := make([]uint8, 8*bankSize)
		for i := range rom {
			rom[i] = uint8(i / bankSize)
		}
		mbc := NewMBC1(rom, 1)

		mbc.Write(0x6000, 0x00)
		mbc.Write(0x2000, 0x05)
		mbc.Write(0x4000, 0x01) // bank 37 composed, wraps to 37%8=5

		assert.EqualValues(t, 5, mbc.Read(0x4000))
	})

	t.Run("ram mode leaves rom bank selection at the low bits only", func(t *testing.T) {
		rom := make([]uint8, 8*bankSize)
		for i := range rom {
			rom[i] = uint8(i / bankSize)
		}
		mbc := NewMBC1(rom, 1)

		mbc.Write(0x6000, 0x01) // RAM banking mode
		mbc.Write(0x2000, 0x05)
		mbc.Write(0x4000, 0x02) // latched as ramBank, not folded into ROM bank

		assert.EqualValues(t, 5, mbc.Read(0x4000))
		assert.EqualValues(t, 2, mbc.ramBank)
	})

	t.Run("out of range access panics", func(t *testing.T) {
		mbc := NewMBC1(make([]uint8, 0x8000), 0)
		assert.Panics(t, func() { mbc.Read(0xC000) })
	})
}

func TestMBC3(t *testing.T) {
	t.Run("bank switching via 7-bit selector", func(t *testing.T) {
		rom := make([]uint8, 4*bankSize)
		for i := range rom {
			rom[i] = uint8(i / bankSize)
		}
		mbc := NewMBC3(rom, 0)

		assert.EqualValues(t, 1, mbc.Read(0x4000), "default bank is 1, not 0")

		mbc.Write(0x2000, 3)
		assert.EqualValues(t, 3, mbc.Read(0x4000))
	})

	t.Run("bank 0 coerced to bank 1", func(t *testing.T) {
		mbc := NewMBC3(make([]uint8, 4*bankSize), 0)
		mbc.Write(0x2000, 0)
		assert.EqualValues(t, 1, mbc.romBank)
	})

	t.Run("ram enable and bank selection", func(t *testing.T) {
		mbc := NewMBC3(make([]uint8, 0x8000), 2)

		assert.Zero(t, mbc.Read(0xA000), "expected disabled RAM to read 0")

		mbc.Write(0x0000, 0x0A) // enable
		mbc.Write(0x4000, 0x01) // select RAM bank 1
		mbc.Write(0xA000, 0x55)
		assert.EqualValues(t, 0x55, mbc.Read(0xA000))

		mbc.Write(0x4000, 0x00) // back to bank 0
		assert.Zero(t, mbc.Read(0xA000), "bank 0 was never written")
	})

	t.Run("rtc latch writes are accepted and ignored", func(t *testing.T) {
		rom := make([]uint8, 4*bankSize)
		for i := range rom {
			rom[i] = uint8(i / bankSize)
		}
		mbc := NewMBC3(rom, 0)
		assert.NotPanics(t, func() { mbc.Write(0x6000, 0x01) })
		assert.EqualValues(t, 1, mbc.Read(0x4000), "RTC write must not disturb the latched ROM bank")
	})

	t.Run("out of range access panics", func(t *testing.T) {
		mbc := NewMBC3(make([]uint8, 0x8000), 0)
		assert.Panics(t, func() { mbc.Write(0xC000, 0x01) })
	})
}
