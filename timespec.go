package ktime

import (
	"math"
	"strconv"
	"strings"
	"time"

	"tlog.app/go/errors"
	"tlog.app/go/tlog/tlwire"
)

// New makes a Timespec. nsec is not validated.
func New(sec int64, nsec uint32) Timespec {
	return Timespec{sec: sec, nsec: nsec}
}

// Zero is the zero Timespec. It is equal to Timespec{}.
func Zero() Timespec { return Timespec{} }

// FromTime converts a wall clock time to a Realtime Timespec.
func FromTime(t time.Time) Timespec {
	return New(t.Unix(), uint32(t.Nanosecond()))
}

// Now reads clock id using DefaultClock.
func Now(id ClockID) (Timespec, error) {
	return DefaultClock.Read(id)
}

// Resolution returns the resolution of clock id.
func Resolution(id ClockID) (Timespec, error) {
	return DefaultClock.Resolution(id)
}

// SetClock sets the Realtime clock to t.
// It always enters the kernel and usually requires CAP_SYS_TIME.
func (t Timespec) SetClock() error {
	return DefaultClock.Write(Realtime, t)
}

func (t Timespec) Sec() int64           { return t.sec }
func (t *Timespec) SetSec(sec int64)    { t.sec = sec }
func (t Timespec) Nsec() uint32         { return t.nsec }
func (t *Timespec) SetNsec(nsec uint32) { t.nsec = nsec }

// IsZero reports whether t is 0.000000000.
func (t Timespec) IsZero() bool { return t.sec == 0 && t.nsec == 0 }

// Time interprets t as a Realtime reading.
func (t Timespec) Time() time.Time {
	return time.Unix(t.sec, int64(t.nsec))
}

// Compare returns -1, 0 or +1 ordering by seconds then nanoseconds.
func (t Timespec) Compare(u Timespec) int {
	switch {
	case t.sec < u.sec:
		return -1
	case t.sec > u.sec:
		return 1
	case t.nsec < u.nsec:
		return -1
	case t.nsec > u.nsec:
		return 1
	}

	return 0
}

func (t Timespec) Equal(u Timespec) bool  { return t.sec == u.sec && t.nsec == u.nsec }
func (t Timespec) Before(u Timespec) bool { return t.Compare(u) < 0 }
func (t Timespec) After(u Timespec) bool  { return t.Compare(u) > 0 }

// String formats t as signed decimal seconds with a nine digit fraction:
// "12.000000345", "-0.250000000".
func (t Timespec) String() string {
	return string(t.AppendText(nil))
}

// AppendText appends String representation to b.
func (t Timespec) AppendText(b []byte) []byte {
	switch {
	case t.nsec >= nsecPerSec:
		b = strconv.AppendInt(b, t.sec, 10)
		b = append(b, '+')
		b = strconv.AppendUint(b, uint64(t.nsec), 10)

		return append(b, "ns"...)
	case t.sec < 0 && t.nsec != 0:
		b = append(b, '-')
		b = strconv.AppendUint(b, uint64(-(t.sec + 1)), 10)

		return appendNanos(b, nsecPerSec-t.nsec)
	}

	b = strconv.AppendInt(b, t.sec, 10)

	return appendNanos(b, t.nsec)
}

// TlogAppend encodes t as a [sec, nsec] array.
func (t Timespec) TlogAppend(b []byte) []byte {
	var e tlwire.Encoder

	b = e.AppendArray(b, 2)
	b = e.AppendInt64(b, t.sec)
	b = e.AppendUint64(b, uint64(t.nsec))

	return b
}

// ParseTimespec parses "sec[.fraction]" as produced by String,
// or an RFC 3339 time which is converted by FromTime.
func ParseTimespec(s string) (Timespec, error) {
	if strings.ContainsAny(s, "T:") {
		x, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return Timespec{}, errors.Wrap(err, "parse time")
		}

		return FromTime(x), nil
	}

	secs, frac, _ := strings.Cut(s, ".")

	sec, err := strconv.ParseInt(secs, 10, 64)
	if err != nil {
		return Timespec{}, errors.Wrap(err, "parse seconds")
	}

	if len(frac) > 9 {
		return Timespec{}, errors.New("fraction is longer than 9 digits: %q", s)
	}

	var nsec uint32

	for i := 0; i < 9; i++ {
		nsec *= 10

		if i >= len(frac) {
			continue
		}

		c := frac[i]
		if c < '0' || c > '9' {
			return Timespec{}, errors.New("bad fraction: %q", s)
		}

		nsec += uint32(c - '0')
	}

	if strings.HasPrefix(secs, "-") && nsec != 0 {
		// -1.25 is -2 seconds plus 0.75
		if sec == math.MinInt64 {
			return Timespec{}, errors.New("seconds out of range: %q", s)
		}

		sec--
		nsec = nsecPerSec - nsec
	}

	return New(sec, nsec), nil
}
