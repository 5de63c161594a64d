package ktime

import (
	"math"
	"strconv"
	"time"

	"tlog.app/go/errors"
	"tlog.app/go/tlog/tlwire"
)

// Duration is a non-negative span of time with the full range of
// uint64 seconds. It is the operand of Timespec checked arithmetic.
type Duration struct {
	secs  uint64
	nanos uint32
}

const nsecPerSec = 1_000_000_000

// NewDuration carries whole seconds out of nanos.
// It panics if the seconds overflow.
func NewDuration(secs uint64, nanos uint32) Duration {
	if nanos >= nsecPerSec {
		extra := uint64(nanos / nsecPerSec)
		if secs > math.MaxUint64-extra {
			panic("ktime: duration overflow")
		}

		secs += extra
		nanos %= nsecPerSec
	}

	return Duration{secs: secs, nanos: nanos}
}

// DurationFromStd converts d. It reports false for negative d.
func DurationFromStd(d time.Duration) (Duration, bool) {
	if d < 0 {
		return Duration{}, false
	}

	return Duration{
		secs:  uint64(d / time.Second),
		nanos: uint32(d % time.Second),
	}, true
}

// ParseDuration parses time.ParseDuration syntax. Negative values are rejected.
func ParseDuration(s string) (Duration, error) {
	x, err := time.ParseDuration(s)
	if err != nil {
		return Duration{}, errors.Wrap(err, "parse duration")
	}

	d, ok := DurationFromStd(x)
	if !ok {
		return Duration{}, errors.New("negative duration: %v", s)
	}

	return d, nil
}

func (d Duration) Secs() uint64        { return d.secs }
func (d Duration) SubsecNanos() uint32 { return d.nanos }
func (d Duration) IsZero() bool        { return d == Duration{} }

// Std converts d to time.Duration. It reports false if d does not fit.
func (d Duration) Std() (time.Duration, bool) {
	if d.secs > math.MaxInt64/nsecPerSec {
		return 0, false
	}

	s := int64(d.secs) * nsecPerSec
	if s > math.MaxInt64-int64(d.nanos) {
		return 0, false
	}

	return time.Duration(s + int64(d.nanos)), true
}

func (d Duration) String() string {
	if x, ok := d.Std(); ok {
		return x.String()
	}

	return string(d.appendDecimal(nil)) + "s"
}

func (d Duration) appendDecimal(b []byte) []byte {
	b = strconv.AppendUint(b, d.secs, 10)

	return appendNanos(b, d.nanos)
}

// TlogAppend encodes d as a tlwire duration when it fits time.Duration.
func (d Duration) TlogAppend(b []byte) []byte {
	var e tlwire.Encoder

	if x, ok := d.Std(); ok {
		return e.AppendDuration(b, x)
	}

	return e.AppendString(b, d.String())
}

func appendNanos(b []byte, nsec uint32) []byte {
	var buf [10]byte

	buf[0] = '.'

	for i := 9; i > 0; i-- {
		buf[i] = byte('0' + nsec%10)
		nsec /= 10
	}

	return append(b, buf[:]...)
}
