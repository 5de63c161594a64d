package ktime

import (
	"strconv"
	"strings"

	"tlog.app/go/errors"
)

// ClockID selects a kernel clock.
// Values are the kernel ABI numbers and must never be renumbered.
type ClockID int32

const (
	// Realtime is the settable system-wide wall clock.
	// It jumps when the clock is set and is slewed by adjtime and NTP.
	Realtime ClockID = 0

	// Monotonic counts from an unspecified point in the past (boot on Linux).
	// It never goes backwards but stops while the system is suspended.
	Monotonic ClockID = 1

	// ProcessCPUTime is CPU time consumed by all threads of the process.
	ProcessCPUTime ClockID = 2

	// ThreadCPUTime is CPU time consumed by the calling thread.
	ThreadCPUTime ClockID = 3

	// MonotonicRaw is Monotonic without NTP and adjtime adjustments.
	MonotonicRaw ClockID = 4

	// RealtimeCoarse is a faster, tick-resolution Realtime.
	RealtimeCoarse ClockID = 5

	// MonotonicCoarse is a faster, tick-resolution Monotonic.
	MonotonicCoarse ClockID = 6

	// Boottime is Monotonic including time spent in suspend.
	Boottime ClockID = 7

	// RealtimeAlarm is a non-settable Realtime used for alarm timers.
	RealtimeAlarm ClockID = 8

	// BoottimeAlarm is Boottime used for alarm timers.
	BoottimeAlarm ClockID = 9

	// TAI is International Atomic Time: wall clock without leap seconds.
	TAI ClockID = 11
)

var clockNames = []string{
	Realtime:        "realtime",
	Monotonic:       "monotonic",
	ProcessCPUTime:  "process_cputime",
	ThreadCPUTime:   "thread_cputime",
	MonotonicRaw:    "monotonic_raw",
	RealtimeCoarse:  "realtime_coarse",
	MonotonicCoarse: "monotonic_coarse",
	Boottime:        "boottime",
	RealtimeAlarm:   "realtime_alarm",
	BoottimeAlarm:   "boottime_alarm",
	TAI:             "tai",
}

// ClockIDs returns all known clock ids in ascending order.
func ClockIDs() []ClockID {
	ids := make([]ClockID, 0, len(clockNames))

	for id, name := range clockNames {
		if name != "" {
			ids = append(ids, ClockID(id))
		}
	}

	return ids
}

// Valid reports whether id is one of the known clocks.
func (id ClockID) Valid() bool {
	return id >= 0 && int(id) < len(clockNames) && clockNames[id] != ""
}

// Settable reports whether the kernel allows the clock to be set.
func (id ClockID) Settable() bool {
	return id == Realtime
}

func (id ClockID) String() string {
	if id.Valid() {
		return clockNames[id]
	}

	return "clock(" + strconv.Itoa(int(id)) + ")"
}

// ParseClockID accepts a clock name as returned by String,
// optionally with a CLOCK_ prefix and in any case, or a decimal id.
func ParseClockID(s string) (ClockID, error) {
	n := strings.ToLower(strings.TrimSpace(s))
	n = strings.TrimPrefix(n, "clock_")

	switch n {
	case "process_cputime_id":
		return ProcessCPUTime, nil
	case "thread_cputime_id":
		return ThreadCPUTime, nil
	}

	for id, name := range clockNames {
		if name != "" && name == n {
			return ClockID(id), nil
		}
	}

	x, err := strconv.ParseInt(n, 10, 32)
	if err != nil {
		return 0, errors.New("unknown clock: %q", s)
	}

	id := ClockID(x)
	if !id.Valid() {
		return 0, errors.New("unknown clock id: %d", x)
	}

	return id, nil
}
