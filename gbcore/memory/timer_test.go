package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTimerDividerFreeRuns(t *testing.T) {
	var timer Timer
	timer.Tick(256)
	assert.EqualValues(t, 1, timer.DIV)
	timer.Tick(256 * 9)
	assert.EqualValues(t, 10, timer.DIV)
}

func TestTimerDisabledByTACDoesNotCountTIMA(t *testing.T) {
	var timer Timer
	timer.TAC = 0x00 // enable bit clear
	overflowed := timer.Tick(1024 * 4)
	assert.False(t, overflowed)
	assert.Zero(t, timer.TIMA)
}

func TestTimerOverflowReloadsFromTMA(t *testing.T) {
	var timer Timer
	timer.TAC = 0x05 // enabled, period 16
	timer.TMA = 0x10
	timer.TIMA = 0xFF

	overflowed := timer.Tick(16)
	assert.True(t, overflowed)
	assert.EqualValues(t, 0x10, timer.TIMA)
}

// A single Tick call spanning more than one TIMA period must reload and
// report overflow on every period crossed, not just the first.
func TestTimerMultipleOverflowsInOneTick(t *testing.T) {
	var timer Timer
	timer.TAC = 0x05 // enabled, period 16
	timer.TMA = 0xFE // two more ticks overflows again
	timer.TIMA = 0xFF

	overflowed := timer.Tick(16 * 3)
	assert.True(t, overflowed)
	// Period 1: 0xFF -> 0x00, overflows, reloads to 0xFE.
	// Period 2: 0xFE -> 0xFF.
	// Period 3: 0xFF -> 0x00, overflows again, reloads to 0xFE.
	assert.EqualValues(t, 0xFE, timer.TIMA)
}

func TestWriteDIVResetsOnlyDIV(t *testing.T) {
	var timer Timer
	timer.Tick(512) // DIV=2, divAccum=0
	timer.Tick(100) // divAccum=100, not enough for another DIV increment

	timer.WriteDIV()
	assert.Zero(t, timer.DIV)
	assert.EqualValues(t, 100, timer.divAccum, "internal prefix accumulator keeps running across a DIV write")
}

func TestTimerPeriodSelection(t *testing.T) {
	cases := []struct {
		tac    uint8
		period int
	}{
		{0x04, 1024},
		{0x05, 16},
		{0x06, 64},
		{0x07, 256},
	}

	for _, c := range cases {
		var timer Timer
		timer.TAC = c.tac
		overflowed := timer.Tick(c.period - 1)
		assert.False(t, overflowed, "tac=0x%02X: should not overflow one cycle early", c.tac)
		assert.Zero(t, timer.TIMA)

		timer.Tick(1)
		assert.EqualValues(t, 1, timer.TIMA, "tac=0x%02X: should have counted exactly once at its period", c.tac)
	}
}
