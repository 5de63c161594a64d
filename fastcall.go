package ktime

import (
	"go.uber.org/atomic"
)

type (
	// Entry is an in-process clock read.
	// It follows the kernel calling convention: fill ts and return 0,
	// or return a negated errno leaving ts unspecified.
	Entry func(id ClockID, ts *Timespec) int

	// Resolver locates the fast clock read entry.
	// It returns nil if there is none.
	// Results must be the same for the life of the process,
	// as concurrent first reads may call it more than once.
	Resolver interface {
		ClockGettime() Entry
	}

	ResolverFunc func() Entry

	// fastCache is a lock-free tri-state slot:
	// nil is unresolved, absent is resolved without an entry,
	// anything else is the resolved entry.
	fastCache struct {
		p atomic.Pointer[Entry]
	}
)

// NoFastPath resolves to no entry; every read enters the kernel.
var NoFastPath Resolver = ResolverFunc(func() Entry { return nil })

var absent = new(Entry)

func (f ResolverFunc) ClockGettime() Entry { return f() }

// get returns the cached entry resolving it with r first if needed.
// Racing callers may all resolve; they store identical results.
func (c *fastCache) get(r Resolver) (e Entry, resolved bool) {
	p := c.p.Load()

	switch p {
	case nil:
	case absent:
		return nil, false
	default:
		return *p, false
	}

	e = r.ClockGettime()

	if e == nil {
		c.p.Store(absent)
	} else {
		c.p.Store(&e)
	}

	return e, true
}

// state reports the slot state without resolving.
func (c *fastCache) state() FastPathState {
	switch c.p.Load() {
	case nil:
		return FastPathUnresolved
	case absent:
		return FastPathAbsent
	}

	return FastPathPresent
}
