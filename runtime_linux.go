//go:build linux

package ktime

import (
	"runtime"
	_ "unsafe" // go:linkname

	"tlog.app/go/tlog"

	"tlog.app/go/ktime/vdso"
)

//go:linkname now time.now
func now() (sec int64, nsec int32, mono int64)

//go:linkname nanotime runtime.nanotime
func nanotime() int64

// DefaultResolver finds the kernel's clock_gettime in the vDSO.
//
// On amd64 and arm64 the entry calls the vDSO symbol directly.
// Elsewhere it reads Realtime and Monotonic through the runtime,
// which uses the vDSO for them, and enters the kernel for the rest.
func DefaultResolver() Resolver { return ResolverFunc(resolveVDSO) }

func resolveVDSO() Entry {
	sym := vdso.ClockGettime()
	if sym.Name == "" {
		tlog.V("vdso").Printw("no vdso clock_gettime on this arch", "arch", runtime.GOARCH)
		return nil
	}

	img, err := vdso.Load()
	if err != nil {
		tlog.V("vdso").Printw("load vdso", "err", err)
		return nil
	}

	addr, ok := img.Lookup(sym)

	tlog.V("vdso").Printw("vdso symbol", "name", sym.Name, "version", sym.Version, "addr", addr, "found", ok)

	if !ok {
		return nil
	}

	if e := vdsoEntry(addr); e != nil {
		return e
	}

	return runtimeEntry
}

func runtimeEntry(id ClockID, ts *Timespec) int {
	switch id {
	case Realtime:
		sec, nsec, _ := now()

		ts.sec, ts.nsec = sec, uint32(nsec)
	case Monotonic:
		t := nanotime()

		ts.sec, ts.nsec = t/nsecPerSec, uint32(t%nsecPerSec)
	default:
		return rawGettime(id, ts)
	}

	return 0
}
