//go:build armbe || arm64be || m68k || mips || mips64 || mips64p32 || ppc || ppc64 || s390 || s390x || shbe || sparc || sparc64

package ktime

// Timespec is the kernel's 64-bit timespec.
//
// pad and nsec together form the kernel's native 64-bit nanoseconds word,
// so pad sits before nsec on big-endian targets. pad is always zero.
type Timespec struct {
	sec  int64
	pad  int32
	nsec uint32
}
