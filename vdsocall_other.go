//go:build linux && !(amd64 || arm64)

package ktime

// vdsoEntry has no trampoline here; the runtime clocks are used instead.
func vdsoEntry(fn uintptr) Entry { return nil }
