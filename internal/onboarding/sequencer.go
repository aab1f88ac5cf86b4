package onboarding

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/leonardotrapani/arrival/internal/recording"
	"github.com/leonardotrapani/arrival/internal/store"
)

// StoreKey is the single key the sequencer persists under.
const StoreKey = "onboarding"

type Option func(*Sequencer)

// WithOrder replaces the screen order. The order must contain ScreenEntry.
func WithOrder(order []Screen) Option {
	return func(s *Sequencer) { s.order = append([]Screen(nil), order...) }
}

func WithClock(now func() time.Time) Option {
	return func(s *Sequencer) { s.now = now }
}

func WithKey(key string) Option {
	return func(s *Sequencer) { s.key = key }
}

// Sequencer owns the screen position and the onboarding record. It is the
// only writer of the persisted record.
type Sequencer struct {
	mu        sync.Mutex
	store     store.Store
	key       string
	order     []Screen
	now       func() time.Time
	index     int
	data      Record
	returning bool
	hydrated  bool

	listenersMu sync.Mutex
	listeners   []func(State)
}

func NewSequencer(st store.Store, opts ...Option) (*Sequencer, error) {
	s := &Sequencer{
		store: st,
		key:   StoreKey,
		order: DefaultOrder,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if len(s.order) == 0 {
		return nil, fmt.Errorf("screen order is empty")
	}
	if s.indexOf(ScreenEntry) < 0 {
		return nil, fmt.Errorf("screen order has no %q screen", ScreenEntry)
	}
	return s, nil
}

// Hydrate restores persisted state. It runs once; later calls are no-ops.
// Unreadable or corrupt state is logged and treated as a fresh visit.
func (s *Sequencer) Hydrate(ctx context.Context) error {
	s.mu.Lock()
	if s.hydrated {
		s.mu.Unlock()
		return nil
	}

	data, ok, err := s.store.Get(ctx, s.key)
	if err != nil {
		if ctx.Err() != nil {
			s.mu.Unlock()
			return err
		}
		log.Printf("Sequencer: failed to read persisted state, starting fresh: %v", err)
		ok = false
	}

	if ok {
		record, index, decodeErr := DecodeRecord(data)
		if decodeErr != nil {
			log.Printf("Sequencer: ignoring persisted state: %v", decodeErr)
		} else {
			s.index = s.clamp(index)
			s.data = record
			s.returning = record.OnboardingCompleted
			log.Printf("Sequencer: restored screen %d (%s), returning=%v", s.index, s.order[s.index], s.returning)
		}
	}

	s.hydrated = true
	state := s.stateLocked()
	s.mu.Unlock()

	s.notify(state)
	return nil
}

func (s *Sequencer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Sequencer) Order() []Screen {
	return append([]Screen(nil), s.order...)
}

// Advance moves to the next screen, stopping at the last one.
func (s *Sequencer) Advance(ctx context.Context) error {
	return s.mutate(ctx, func() {
		s.index = s.clamp(s.index + 1)
	})
}

// Skip jumps straight to the entry screen.
func (s *Sequencer) Skip(ctx context.Context) error {
	return s.mutate(ctx, func() {
		s.index = s.indexOf(ScreenEntry)
	})
}

func (s *Sequencer) SetAesthetic(ctx context.Context, a Aesthetic) error {
	if a != "" && !a.Valid() {
		return fmt.Errorf("unknown aesthetic %q", a)
	}
	return s.mutate(ctx, func() { s.data.Aesthetic = a })
}

func (s *Sequencer) SetIntent(ctx context.Context, i Intent) error {
	if i != "" && !i.Valid() {
		return fmt.Errorf("unknown intent %q", i)
	}
	return s.mutate(ctx, func() { s.data.Intent = i })
}

func (s *Sequencer) SetVoiceGreeting(ctx context.Context, artifact *recording.Artifact) error {
	return s.mutate(ctx, func() { s.data.VoiceGreeting = artifact })
}

// Complete marks onboarding finished. FirstVisit is only set the first time.
func (s *Sequencer) Complete(ctx context.Context) error {
	return s.mutate(ctx, func() {
		s.data.OnboardingCompleted = true
		if s.data.FirstVisit == nil {
			now := s.now().UTC()
			s.data.FirstVisit = &now
		}
	})
}

// Reset returns to the first screen with default data and removes the
// persisted record.
func (s *Sequencer) Reset(ctx context.Context) error {
	s.mu.Lock()
	s.index = 0
	s.data = Record{}
	s.returning = false
	err := s.store.Delete(ctx, s.key)
	state := s.stateLocked()
	s.mu.Unlock()

	if err != nil {
		log.Printf("Sequencer: failed to clear persisted state: %v", err)
		err = fmt.Errorf("clear onboarding state: %w", err)
	}
	s.notify(state)
	return err
}

// Subscribe registers fn to be called with the new state after every change.
func (s *Sequencer) Subscribe(fn func(State)) {
	s.listenersMu.Lock()
	s.listeners = append(s.listeners, fn)
	s.listenersMu.Unlock()
}

func (s *Sequencer) mutate(ctx context.Context, fn func()) error {
	s.mu.Lock()
	fn()
	var err error
	// Writes before hydration would clobber a returning visitor's saved
	// progress with defaults.
	if s.hydrated {
		err = s.persistLocked(ctx)
	}
	state := s.stateLocked()
	s.mu.Unlock()

	s.notify(state)
	return err
}

func (s *Sequencer) persistLocked(ctx context.Context) error {
	data, err := EncodeRecord(s.data, s.index)
	if err != nil {
		return err
	}
	if err := s.store.Set(ctx, s.key, data); err != nil {
		log.Printf("Sequencer: failed to persist state: %v", err)
		return fmt.Errorf("persist onboarding state: %w", err)
	}
	return nil
}

func (s *Sequencer) stateLocked() State {
	return State{
		Screen:           s.order[s.index],
		ScreenIndex:      s.index,
		TotalScreens:     len(s.order),
		Data:             s.data,
		ReturningVisitor: s.returning,
		Hydrated:         s.hydrated,
	}
}

func (s *Sequencer) notify(state State) {
	s.listenersMu.Lock()
	listeners := append(([]func(State))(nil), s.listeners...)
	s.listenersMu.Unlock()

	for _, fn := range listeners {
		fn(state)
	}
}

func (s *Sequencer) clamp(i int) int {
	if i < 0 {
		return 0
	}
	if last := len(s.order) - 1; i > last {
		return last
	}
	return i
}

func (s *Sequencer) indexOf(screen Screen) int {
	for i, sc := range s.order {
		if sc == screen {
			return i
		}
	}
	return -1
}
