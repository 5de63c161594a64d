package ktime

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"tlog.app/go/tlog/tlwire"
)

func TestNewDuration(t *testing.T) {
	d := NewDuration(1, 2_500_000_000)
	assert.Equal(t, uint64(3), d.Secs())
	assert.Equal(t, uint32(500_000_000), d.SubsecNanos())

	d = NewDuration(math.MaxUint64, 999_999_999)
	assert.Equal(t, uint64(math.MaxUint64), d.Secs())

	assert.Panics(t, func() {
		NewDuration(math.MaxUint64, nsecPerSec)
	})
}

func TestDurationStd(t *testing.T) {
	d, ok := DurationFromStd(1500 * time.Millisecond)
	assert.True(t, ok)
	assert.Equal(t, NewDuration(1, 500_000_000), d)

	_, ok = DurationFromStd(-1)
	assert.False(t, ok)

	x, ok := d.Std()
	assert.True(t, ok)
	assert.Equal(t, 1500*time.Millisecond, x)

	top, _ := DurationFromStd(math.MaxInt64)

	x, ok = top.Std()
	assert.True(t, ok)
	assert.Equal(t, time.Duration(math.MaxInt64), x)

	_, ok = NewDuration(top.Secs(), top.SubsecNanos()+1).Std()
	assert.False(t, ok)

	_, ok = NewDuration(math.MaxUint64, 0).Std()
	assert.False(t, ok)
}

func TestDurationString(t *testing.T) {
	assert.Equal(t, "1.5s", NewDuration(1, 500_000_000).String())
	assert.Equal(t, "0s", Duration{}.String())
	assert.Equal(t, "18446744073709551615.000000001s", NewDuration(math.MaxUint64, 1).String())

	d, err := ParseDuration("2m3s")
	assert.NoError(t, err)
	assert.Equal(t, NewDuration(123, 0), d)

	_, err = ParseDuration("-1s")
	assert.Error(t, err)

	_, err = ParseDuration("soon")
	assert.Error(t, err)
}

func TestDurationTlogAppend(t *testing.T) {
	b := NewDuration(0, 5).TlogAppend(nil)

	assert.Equal(t, []byte{tlwire.Semantic | tlwire.Duration, tlwire.Int | 5}, b)
}
