//go:build linux && (amd64 || arm64)

package ktime

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"tlog.app/go/ktime/vdso"
)

func vdsoAddr(t *testing.T) uintptr {
	t.Helper()

	img, err := vdso.Load()
	if err != nil {
		t.Skipf("no vdso here: %v", err)
	}

	addr, ok := img.Lookup(vdso.ClockGettime())
	if !ok {
		t.Skip("vdso has no clock_gettime")
	}

	return addr
}

func TestVDSOEntryServesAllClocks(t *testing.T) {
	e := vdsoEntry(vdsoAddr(t))
	require.NotNil(t, e)

	for _, id := range []ClockID{Realtime, Monotonic, MonotonicRaw, RealtimeCoarse, MonotonicCoarse, Boottime, TAI, ProcessCPUTime} {
		var before, after unix.Timespec
		var ts Timespec

		require.NoError(t, unix.ClockGettime(int32(id), &before))

		r := e(id, &ts)

		require.NoError(t, unix.ClockGettime(int32(id), &after))

		require.Equal(t, 0, r, "%v", id)
		assert.Zero(t, ts.pad)
		assert.Less(t, ts.Nsec(), uint32(nsecPerSec))
		assert.False(t, ts.Before(New(before.Sec, uint32(before.Nsec))), "%v: %v < %v", id, ts, before)
		assert.False(t, ts.After(New(after.Sec, uint32(after.Nsec))), "%v: %v > %v", id, ts, after)
	}
}

func TestVDSOEntryErrno(t *testing.T) {
	e := vdsoEntry(vdsoAddr(t))
	require.NotNil(t, e)

	var ts Timespec

	assert.Equal(t, -int(unix.EINVAL), e(ClockID(1000), &ts))
	assert.Nil(t, vdsoEntry(0))
}

func TestDefaultResolverCallsVDSO(t *testing.T) {
	_ = vdsoAddr(t)

	e := resolveVDSO()
	require.NotNil(t, e)

	assert.NotEqual(t, reflect.ValueOf(runtimeEntry).Pointer(), reflect.ValueOf(e).Pointer())

	c := NewClock(ResolverFunc(resolveVDSO))

	ts, err := c.Read(MonotonicRaw)
	require.NoError(t, err)
	assert.True(t, ts.After(Zero()))
	assert.Equal(t, FastPathPresent, c.FastPath())
}

func TestVDSOEntryGrowsStack(t *testing.T) {
	e := vdsoEntry(vdsoAddr(t))

	var deep func(n int) int
	deep = func(n int) int {
		var pad [64]byte

		if n == 0 {
			var ts Timespec
			return e(Monotonic, &ts) + int(pad[0])
		}

		return deep(n-1) + int(pad[n%len(pad)])
	}

	done := make(chan int)

	for i := 0; i < 8; i++ {
		go func(n int) { done <- deep(n) }(i * 7)
	}

	for i := 0; i < 8; i++ {
		assert.Equal(t, 0, <-done)
	}
}
