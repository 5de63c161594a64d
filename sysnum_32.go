//go:build linux && (386 || arm || mips || mipsle || ppc)

package ktime

import "golang.org/x/sys/unix"

// 32-bit targets need the time64 calls to get a 64-bit tv_sec.
const (
	sysClockGettime = unix.SYS_CLOCK_GETTIME64
	sysClockSettime = unix.SYS_CLOCK_SETTIME64
	sysClockGetres  = unix.SYS_CLOCK_GETRES_TIME64
)
