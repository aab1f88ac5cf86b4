package playback

import (
	"sync"
	"time"
)

// Typewriter reveals text one rune per interval. It runs independently of
// audio progress.
type Typewriter struct {
	mu       sync.Mutex
	runes    []rune
	shown    int
	interval time.Duration
	onReveal func(revealed string, done bool)
	stop     chan struct{}
	finished chan struct{}
	stopped  bool
}

// NewTypewriter creates a typewriter for text. onReveal is called from the
// typewriter's goroutine after every step.
func NewTypewriter(text string, interval time.Duration, onReveal func(revealed string, done bool)) *Typewriter {
	return &Typewriter{
		runes:    []rune(text),
		interval: interval,
		onReveal: onReveal,
		stop:     make(chan struct{}),
		finished: make(chan struct{}),
	}
}

func (t *Typewriter) Start() {
	go t.run()
}

func (t *Typewriter) run() {
	defer close(t.finished)

	if len(t.runes) == 0 || t.interval <= 0 {
		t.mu.Lock()
		t.shown = len(t.runes)
		t.mu.Unlock()
		t.emit()
		return
	}

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-t.stop:
			return
		case <-ticker.C:
			t.mu.Lock()
			t.shown++
			done := t.shown >= len(t.runes)
			t.mu.Unlock()
			t.emit()
			if done {
				return
			}
		}
	}
}

func (t *Typewriter) emit() {
	revealed, done := t.Revealed()
	if t.onReveal != nil {
		t.onReveal(revealed, done)
	}
}

// Revealed returns the currently visible prefix.
func (t *Typewriter) Revealed() (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return string(t.runes[:t.shown]), t.shown >= len(t.runes)
}

// Stop halts the reveal. It is safe to call more than once.
func (t *Typewriter) Stop() {
	t.mu.Lock()
	if !t.stopped {
		t.stopped = true
		close(t.stop)
	}
	t.mu.Unlock()
}

// Wait blocks until the typewriter goroutine exits. Only valid after Start.
func (t *Typewriter) Wait() {
	<-t.finished
}
