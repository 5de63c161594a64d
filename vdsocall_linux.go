//go:build linux && (amd64 || arm64)

package ktime

// vdsoCall calls the C function clock_gettime at fn.
// It runs fn on a stack area reserved in its own frame.
//
//go:noescape
func vdsoCall(fn uintptr, id ClockID, ts *Timespec) int

func vdsoEntry(fn uintptr) Entry {
	if fn == 0 {
		return nil
	}

	return func(id ClockID, ts *Timespec) int {
		return vdsoCall(fn, id, ts)
	}
}
