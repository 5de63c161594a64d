package ktime

import (
	"strconv"
	"syscall"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"
)

type (
	// Clock reads and sets kernel clocks.
	// Reads go through the fast entry found by its Resolver,
	// or enter the kernel if there is none.
	//
	// Clock is safe for concurrent use. Logger must be set before first use.
	Clock struct {
		// Logger receives fastcall topic debug events.
		// tlog.DefaultLogger is used if nil.
		Logger *tlog.Logger

		resolver Resolver
		fast     fastCache
	}

	FastPathState int
)

const (
	FastPathUnresolved FastPathState = iota
	FastPathAbsent
	FastPathPresent
)

// ErrUnsupported is returned by kernel clock operations on platforms other than Linux.
var ErrUnsupported = errors.New("kernel clocks are not supported on this platform")

// DefaultClock is used by package level functions.
var DefaultClock = NewClock(DefaultResolver())

// NewClock creates a Clock. nil r means NoFastPath.
func NewClock(r Resolver) *Clock {
	if r == nil {
		r = NoFastPath
	}

	return &Clock{resolver: r}
}

// Read returns the current value of clock id.
// Kernel failures are returned as syscall.Errno as is.
func (c *Clock) Read(id ClockID) (ts Timespec, err error) {
	// ts.pad is zero here and the kernel never sets it non-zero.

	if e := c.entry(); e != nil {
		if r := e(id, &ts); r < 0 {
			return Timespec{}, syscall.Errno(-r)
		}

		return ts, nil
	}

	err = gettime(id, &ts)
	if err != nil {
		return Timespec{}, err
	}

	return ts, nil
}

// Write sets clock id to ts. There is no fast path for it.
// Only Realtime is settable; it usually requires CAP_SYS_TIME.
func (c *Clock) Write(id ClockID, ts Timespec) error {
	ts.pad = 0

	return settime(id, &ts)
}

// Resolution returns the clock resolution as reported by clock_getres.
func (c *Clock) Resolution(id ClockID) (ts Timespec, err error) {
	err = getres(id, &ts)
	if err != nil {
		return Timespec{}, err
	}

	return ts, nil
}

// FastPath reports the fast entry state without resolving it.
func (c *Clock) FastPath() FastPathState {
	return c.fast.state()
}

// Resolve resolves the fast entry if it is not yet and reports the state.
func (c *Clock) Resolve() FastPathState {
	_ = c.entry()

	return c.fast.state()
}

func (c *Clock) entry() Entry {
	e, resolved := c.fast.get(c.resolver)

	if resolved {
		if l := c.logger().V("fastcall"); l != nil {
			l.Printw("fast clock entry resolved", "present", e != nil)
		}
	}

	return e
}

func (c *Clock) logger() *tlog.Logger {
	if c.Logger != nil {
		return c.Logger
	}

	return tlog.DefaultLogger
}

func (s FastPathState) String() string {
	switch s {
	case FastPathUnresolved:
		return "unresolved"
	case FastPathAbsent:
		return "absent"
	case FastPathPresent:
		return "present"
	}

	return "FastPathState(" + strconv.Itoa(int(s)) + ")"
}
