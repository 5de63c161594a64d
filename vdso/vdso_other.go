//go:build !linux

package vdso

// Load always fails outside Linux.
func Load() (*Image, error) {
	return nil, ErrNotFound
}
