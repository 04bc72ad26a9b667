package limiter

import (
	"context"
	"sync"
	"time"
)

const (
	DefaultRequests = 10
	DefaultWindow   = time.Minute
)

// Decision is the outcome of a single admission check.
type Decision struct {
	Allowed bool

	Limit     int
	Remaining int

	ResetAt time.Time
}

// RetryAfter returns how long a rejected caller should wait before the window resets.
func (d Decision) RetryAfter(now time.Time) time.Duration {
	if d.ResetAt.Before(now) {
		return 0
	}

	return d.ResetAt.Sub(now)
}

type windowEntry struct {
	count   int
	resetAt time.Time
}

// Window is a fixed-window request counter keyed by client identifier.
//
// A burst placed right at a window boundary may admit up to twice the limit
// across the boundary. State is process local.
type Window struct {
	mu sync.Mutex

	limit  int
	window time.Duration

	now func() time.Time

	entries map[string]*windowEntry
}

type WindowOption func(*Window)

func WithClock(now func() time.Time) WindowOption {
	return func(w *Window) {
		w.now = now
	}
}

func NewWindow(limit int, window time.Duration, options ...WindowOption) *Window {
	if limit <= 0 {
		limit = DefaultRequests
	}

	if window <= 0 {
		window = DefaultWindow
	}

	w := &Window{
		limit:  limit,
		window: window,

		now: time.Now,

		entries: make(map[string]*windowEntry),
	}

	for _, option := range options {
		option(w)
	}

	return w
}

func (w *Window) Limit() int {
	return w.limit
}

func (w *Window) Admit(id string) Decision {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()

	entry, ok := w.entries[id]

	if !ok || now.After(entry.resetAt) {
		entry = &windowEntry{
			count:   1,
			resetAt: now.Add(w.window),
		}

		w.entries[id] = entry

		return Decision{
			Allowed: true,

			Limit:     w.limit,
			Remaining: w.limit - 1,

			ResetAt: entry.resetAt,
		}
	}

	if entry.count >= w.limit {
		return Decision{
			Allowed: false,

			Limit:     w.limit,
			Remaining: 0,

			ResetAt: entry.resetAt,
		}
	}

	entry.count++

	return Decision{
		Allowed: true,

		Limit:     w.limit,
		Remaining: w.limit - entry.count,

		ResetAt: entry.resetAt,
	}
}

// Sweep drops entries whose window has elapsed and returns how many were removed.
func (w *Window) Sweep() int {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()

	var removed int

	for id, entry := range w.entries {
		if now.After(entry.resetAt) {
			delete(w.entries, id)
			removed++
		}
	}

	return removed
}

func (w *Window) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()

	return len(w.entries)
}

// Run sweeps expired entries once per window until ctx is done.
func (w *Window) Run(ctx context.Context) {
	ticker := time.NewTicker(w.window)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			w.Sweep()
		}
	}
}
