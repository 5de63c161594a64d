//go:build !linux

package ktime

// DefaultResolver never finds a fast entry outside Linux.
func DefaultResolver() Resolver { return NoFastPath }

func gettime(id ClockID, ts *Timespec) error { return ErrUnsupported }
func settime(id ClockID, ts *Timespec) error { return ErrUnsupported }
func getres(id ClockID, ts *Timespec) error  { return ErrUnsupported }
