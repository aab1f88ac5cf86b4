package autoadvance

import (
	"sync"
	"time"
)

// Timer schedules a single advance callback after a delay. SkipDelay fires it
// early; both paths share one guard so the callback runs at most once per
// schedule.
type Timer struct {
	mu        sync.Mutex
	delay     time.Duration
	onAdvance func()
	enabled   bool
	fired     bool
	stopped   bool
	gen       uint64
	timer     *time.Timer
}

// New creates a timer and schedules it immediately when enabled is true.
func New(delay time.Duration, onAdvance func(), enabled bool) *Timer {
	t := &Timer{
		delay:     delay,
		onAdvance: onAdvance,
		enabled:   enabled,
	}
	t.mu.Lock()
	t.scheduleLocked()
	t.mu.Unlock()
	return t
}

// SkipDelay cancels the pending timer and calls onAdvance right away. Calls
// after the first one, or after the timer already fired, do nothing.
func (t *Timer) SkipDelay() {
	t.mu.Lock()
	if t.fired || t.stopped {
		t.mu.Unlock()
		return
	}
	t.fired = true
	t.cancelLocked()
	fn := t.onAdvance
	t.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// SetEnabled toggles scheduling. Enabling resets the fired guard and
// reschedules; disabling cancels any pending timer.
func (t *Timer) SetEnabled(enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stopped || t.enabled == enabled {
		return
	}
	t.enabled = enabled
	if !enabled {
		t.cancelLocked()
		return
	}
	t.fired = false
	t.scheduleLocked()
}

// Reset is used when the active screen changes: the guard is cleared and a
// new countdown of delay starts if the timer is enabled.
func (t *Timer) Reset(delay time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stopped {
		return
	}
	t.delay = delay
	t.fired = false
	t.scheduleLocked()
}

// Stop cancels any pending timer for good.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopped = true
	t.cancelLocked()
}

// Fired reports whether onAdvance has been called for the current schedule.
func (t *Timer) Fired() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.fired
}

// Pending reports whether a countdown is running.
func (t *Timer) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.timer != nil
}

func (t *Timer) scheduleLocked() {
	t.cancelLocked()
	if !t.enabled || t.stopped {
		return
	}

	gen := t.gen
	t.timer = time.AfterFunc(t.delay, func() { t.fire(gen) })
}

// cancelLocked stops the pending timer and bumps the generation so a callback
// already in flight becomes inert.
func (t *Timer) cancelLocked() {
	t.gen++
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

func (t *Timer) fire(gen uint64) {
	t.mu.Lock()
	if gen != t.gen || t.fired || t.stopped {
		t.mu.Unlock()
		return
	}
	t.fired = true
	t.timer = nil
	fn := t.onAdvance
	t.mu.Unlock()

	if fn != nil {
		fn()
	}
}
