package ktime

import (
	"math"
	"time"
)

// SubTimespec returns the magnitude of t - u.
// ok is true if t is not before u, false if u is later than t.
// The result is antisymmetric: u.SubTimespec(t) returns the same d with !ok,
// except both report ok when t equals u.
func (t Timespec) SubTimespec(u Timespec) (d Duration, ok bool) {
	if t.Before(u) {
		d, _ = u.SubTimespec(t)
		return d, false
	}

	// t >= u, so the difference fits uint64 even if it overflows int64.
	secs := uint64(t.sec) - uint64(u.sec)

	var nsec uint32

	if t.nsec >= u.nsec {
		nsec = t.nsec - u.nsec
	} else {
		secs--
		nsec = t.nsec + nsecPerSec - u.nsec
	}

	return NewDuration(secs, nsec), true
}

// CheckedAddDuration returns t + d, or false on seconds overflow.
func (t Timespec) CheckedAddDuration(d Duration) (Timespec, bool) {
	sec, ok := addUnsigned(t.sec, d.secs)
	if !ok {
		return Timespec{}, false
	}

	// both are below 1e9, the sum fits uint32
	nsec := t.nsec + d.nanos

	if nsec >= nsecPerSec {
		nsec -= nsecPerSec

		sec, ok = addUnsigned(sec, 1)
		if !ok {
			return Timespec{}, false
		}
	}

	return New(sec, nsec), true
}

// CheckedSubDuration returns t - d, or false on seconds underflow.
func (t Timespec) CheckedSubDuration(d Duration) (Timespec, bool) {
	sec, ok := subUnsigned(t.sec, d.secs)
	if !ok {
		return Timespec{}, false
	}

	nsec := int64(t.nsec) - int64(d.nanos)

	if nsec < 0 {
		nsec += nsecPerSec

		sec, ok = subUnsigned(sec, 1)
		if !ok {
			return Timespec{}, false
		}
	}

	return New(sec, uint32(nsec)), true
}

// Add returns t + d for a signed d, or false on overflow.
func (t Timespec) Add(d time.Duration) (Timespec, bool) {
	if d >= 0 {
		x, _ := DurationFromStd(d)
		return t.CheckedAddDuration(x)
	}

	if d == math.MinInt64 {
		x := NewDuration(uint64(-(d+time.Second)/time.Second)+1, uint32(-(d%time.Second)))
		return t.CheckedSubDuration(x)
	}

	x, _ := DurationFromStd(-d)

	return t.CheckedSubDuration(x)
}

// Sub returns t - u saturated to the time.Duration range.
func (t Timespec) Sub(u Timespec) time.Duration {
	d, ok := t.SubTimespec(u)

	x, fits := d.Std()

	switch {
	case ok && fits:
		return x
	case ok:
		return math.MaxInt64
	case fits:
		return -x
	}

	return math.MinInt64
}

// addUnsigned adds b to a. b above MaxInt64 is unrepresentable.
func addUnsigned(a int64, b uint64) (int64, bool) {
	if b > math.MaxInt64 {
		return 0, false
	}

	s := a + int64(b)
	if s < a {
		return 0, false
	}

	return s, true
}

func subUnsigned(a int64, b uint64) (int64, bool) {
	if b > math.MaxInt64 {
		return 0, false
	}

	s := a - int64(b)
	if s > a {
		return 0, false
	}

	return s, true
}
