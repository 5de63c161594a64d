//go:build linux

package vdso

import (
	"os"

	"tlog.app/go/errors"
)

// Load reads the vDSO of the current process.
// It needs /proc; sandboxes without it get an error.
func Load() (im *Image, err error) {
	maps, err := os.Open("/proc/self/maps")
	if err != nil {
		return nil, errors.Wrap(err, "open maps")
	}

	defer closeWrap(maps, &err, "close maps")

	start, end, err := parseMaps(maps)
	if err != nil {
		return nil, err
	}

	mem, err := os.Open("/proc/self/mem")
	if err != nil {
		return nil, errors.Wrap(err, "open mem")
	}

	defer closeWrap(mem, &err, "close mem")

	data := make([]byte, end-start)

	_, err = mem.ReadAt(data, int64(start))
	if err != nil {
		return nil, errors.Wrap(err, "read vdso at %x", start)
	}

	return Parse(uintptr(start), data)
}
