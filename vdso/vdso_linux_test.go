//go:build linux

package vdso

import (
	"strings"
	"testing"

	"github.com/nikandfor/assert"
)

func TestLoad(t *testing.T) {
	im, err := Load()
	if err != nil {
		t.Skipf("no vdso here: %v", err)
	}

	sym := ClockGettime()
	if sym.Name == "" {
		t.Skip("no clock_gettime symbol for this arch")
	}

	addr, ok := im.Lookup(sym)
	assert.True(t, ok)
	assert.True(t, addr >= im.Base)

	found := false

	for _, s := range im.Symbols() {
		if strings.HasPrefix(s, sym.Name+"@") || s == sym.Name {
			found = true
		}
	}

	assert.True(t, found)

	_, ok = im.Lookup(Symbol{Name: "__vdso_no_such_function"})
	assert.False(t, ok)
}
