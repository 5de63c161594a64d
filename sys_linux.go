//go:build linux

package ktime

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

func gettime(id ClockID, ts *Timespec) error {
	if r := rawGettime(id, ts); r < 0 {
		return unix.Errno(-r)
	}

	return nil
}

// rawGettime has the Entry calling convention.
func rawGettime(id ClockID, ts *Timespec) int {
	_, _, e := unix.RawSyscall(sysClockGettime, uintptr(id), uintptr(unsafe.Pointer(ts)), 0)
	if e != 0 {
		return -int(e)
	}

	return 0
}

func settime(id ClockID, ts *Timespec) error {
	_, _, e := unix.Syscall(sysClockSettime, uintptr(id), uintptr(unsafe.Pointer(ts)), 0)
	if e != 0 {
		return e
	}

	return nil
}

func getres(id ClockID, ts *Timespec) error {
	_, _, e := unix.RawSyscall(sysClockGetres, uintptr(id), uintptr(unsafe.Pointer(ts)), 0)
	if e != 0 {
		return e
	}

	return nil
}
