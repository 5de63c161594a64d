//go:build linux && (amd64 || arm64 || loong64 || mips64 || mips64le || ppc64 || ppc64le || riscv64 || s390x || sparc64)

package ktime

import "golang.org/x/sys/unix"

// 64-bit targets have a 64-bit time_t in the plain calls.
const (
	sysClockGettime = unix.SYS_CLOCK_GETTIME
	sysClockSettime = unix.SYS_CLOCK_SETTIME
	sysClockGetres  = unix.SYS_CLOCK_GETRES
)
