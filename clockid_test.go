package ktime

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClockIDValues(t *testing.T) {
	// kernel ABI, see include/uapi/linux/time.h
	assert.Equal(t, ClockID(0), Realtime)
	assert.Equal(t, ClockID(1), Monotonic)
	assert.Equal(t, ClockID(2), ProcessCPUTime)
	assert.Equal(t, ClockID(3), ThreadCPUTime)
	assert.Equal(t, ClockID(4), MonotonicRaw)
	assert.Equal(t, ClockID(5), RealtimeCoarse)
	assert.Equal(t, ClockID(6), MonotonicCoarse)
	assert.Equal(t, ClockID(7), Boottime)
	assert.Equal(t, ClockID(8), RealtimeAlarm)
	assert.Equal(t, ClockID(9), BoottimeAlarm)
	assert.Equal(t, ClockID(11), TAI)

	assert.Len(t, ClockIDs(), 11)
	assert.False(t, ClockID(10).Valid())
	assert.False(t, ClockID(-1).Valid())
	assert.False(t, ClockID(12).Valid())

	assert.True(t, Realtime.Settable())
	assert.False(t, TAI.Settable())
}

func TestClockIDString(t *testing.T) {
	for _, id := range ClockIDs() {
		x, err := ParseClockID(id.String())
		assert.NoError(t, err)
		assert.Equal(t, id, x)
	}

	assert.Equal(t, "clock(10)", ClockID(10).String())

	for s, exp := range map[string]ClockID{
		"CLOCK_MONOTONIC_RAW":      MonotonicRaw,
		"clock_process_cputime_id": ProcessCPUTime,
		"Boottime":                 Boottime,
		"11":                       TAI,
		" 0 ":                      Realtime,
	} {
		id, err := ParseClockID(s)
		assert.NoError(t, err, s)
		assert.Equal(t, exp, id, s)
	}

	for _, s := range []string{"", "10", "-1", "wallclock"} {
		_, err := ParseClockID(s)
		assert.Error(t, err, s)
	}
}
