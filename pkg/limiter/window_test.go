package limiter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type testClock struct {
	t time.Time
}

func (c *testClock) Now() time.Time {
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func newTestWindow() (*Window, *testClock) {
	clock := &testClock{t: time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)}
	return NewWindow(10, time.Minute, WithClock(clock.Now)), clock
}

func TestWindowRejectsAfterLimit(t *testing.T) {
	w, clock := newTestWindow()

	for i := 0; i < 10; i++ {
		d := w.Admit("10.0.0.1")

		require.True(t, d.Allowed, "request %d should be admitted", i+1)
		require.Equal(t, 10-1-i, d.Remaining)
		require.Equal(t, clock.Now().Add(time.Minute), d.ResetAt)
	}

	d := w.Admit("10.0.0.1")

	require.False(t, d.Allowed)
	require.Equal(t, 0, d.Remaining)
	require.Equal(t, clock.Now().Add(time.Minute), d.ResetAt)
	require.Equal(t, time.Minute, d.RetryAfter(clock.Now()))
}

func TestWindowIdentifiersAreIndependent(t *testing.T) {
	w, _ := newTestWindow()

	for i := 0; i < 10; i++ {
		w.Admit("a")
	}

	require.False(t, w.Admit("a").Allowed)

	d := w.Admit("b")
	require.True(t, d.Allowed)
	require.Equal(t, 9, d.Remaining)
}

func TestWindowResetsAfterExpiry(t *testing.T) {
	w, clock := newTestWindow()

	for i := 0; i < 11; i++ {
		w.Admit("client")
	}

	// the reset instant itself still belongs to the old window
	clock.Advance(time.Minute)
	require.False(t, w.Admit("client").Allowed)

	clock.Advance(time.Millisecond)

	d := w.Admit("client")
	require.True(t, d.Allowed)
	require.Equal(t, 9, d.Remaining)
	require.Equal(t, clock.Now().Add(time.Minute), d.ResetAt)
}

func TestWindowBoundaryBurst(t *testing.T) {
	w, clock := newTestWindow()

	clock.Advance(59 * time.Second)

	for i := 0; i < 10; i++ {
		require.True(t, w.Admit("burst").Allowed)
	}

	clock.Advance(time.Minute + time.Second)

	for i := 0; i < 10; i++ {
		require.True(t, w.Admit("burst").Allowed)
	}

	require.False(t, w.Admit("burst").Allowed)
}

func TestWindowSweep(t *testing.T) {
	w, clock := newTestWindow()

	w.Admit("a")
	w.Admit("b")

	clock.Advance(30 * time.Second)
	w.Admit("c")

	require.Equal(t, 0, w.Sweep())
	require.Equal(t, 3, w.Len())

	clock.Advance(31 * time.Second)

	require.Equal(t, 2, w.Sweep())
	require.Equal(t, 1, w.Len())
}

func TestWindowDefaults(t *testing.T) {
	w := NewWindow(0, 0)

	require.Equal(t, DefaultRequests, w.Limit())
	require.Equal(t, DefaultWindow, w.window)
}
