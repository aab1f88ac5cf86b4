package speech

import (
	"context"
	"errors"
	"testing"
)

type fakeSynth struct {
	name  string
	audio Audio
	err   error
	calls int
	onRun func()
}

func (f *fakeSynth) Name() string { return f.name }

func (f *fakeSynth) Synthesize(ctx context.Context, text string) (Audio, error) {
	f.calls++
	if f.onRun != nil {
		f.onRun()
	}
	return f.audio, f.err
}

func TestChain_PrimarySucceeds(t *testing.T) {
	primary := &fakeSynth{name: "p", audio: Audio{Data: []byte{1, 2}}}
	secondary := &fakeSynth{name: "s", audio: Audio{Data: []byte{3}}}

	res := NewChain(primary, secondary).Run(context.Background(), "hi")
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if res.Provider != "p" || len(res.Attempts) != 1 {
		t.Errorf("provider = %s, attempts = %d", res.Provider, len(res.Attempts))
	}
	if secondary.calls != 0 {
		t.Error("secondary should not be called when primary succeeds")
	}
}

func TestChain_FallsThrough(t *testing.T) {
	tests := []struct {
		name    string
		primary *fakeSynth
	}{
		{"error", &fakeSynth{name: "p", err: errors.New("boom")}},
		{"zero bytes", &fakeSynth{name: "p", audio: Audio{}}},
		{"fallback marker", &fakeSynth{name: "p", err: &ProviderError{Provider: "p", StatusCode: 429, Fallback: true}}},
		{"status without marker", &fakeSynth{name: "p", err: &ProviderError{Provider: "p", StatusCode: 500}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			secondary := &fakeSynth{name: "s", audio: Audio{Data: []byte("mp3")}}
			res := NewChain(tt.primary, secondary).Run(context.Background(), "hi")

			if res.Err != nil {
				t.Fatalf("unexpected error: %v", res.Err)
			}
			if secondary.calls != 1 {
				t.Errorf("secondary calls = %d, want 1", secondary.calls)
			}
			if res.Provider != "s" || string(res.Audio.Data) != "mp3" {
				t.Errorf("result = %+v", res)
			}
			if len(res.Attempts) != 2 || res.Attempts[0].OK() || !res.Attempts[1].OK() {
				t.Errorf("attempts = %+v", res.Attempts)
			}
		})
	}
}

func TestChain_EmptyPayloadIsProviderError(t *testing.T) {
	res := NewChain(&fakeSynth{name: "p"}).Run(context.Background(), "hi")

	var pe *ProviderError
	if !errors.As(res.Attempts[0].Err, &pe) {
		t.Fatalf("attempt error = %v, want *ProviderError", res.Attempts[0].Err)
	}
	if !errors.Is(pe, ErrEmptyAudio) || !pe.Fallback {
		t.Errorf("provider error = %+v", pe)
	}
}

func TestChain_Exhausted(t *testing.T) {
	primaryErr := errors.New("primary down")
	secondaryErr := errors.New("secondary down")
	primary := &fakeSynth{name: "p", err: primaryErr}
	secondary := &fakeSynth{name: "s", err: secondaryErr}

	_, err := NewChain(primary, secondary).Synthesize(context.Background(), "hi")
	if !errors.Is(err, ErrChainExhausted) {
		t.Fatalf("err = %v, want ErrChainExhausted", err)
	}
	if !errors.Is(err, primaryErr) || !errors.Is(err, secondaryErr) {
		t.Errorf("exhausted error should wrap every attempt: %v", err)
	}
}

func TestChain_NoProviders(t *testing.T) {
	_, err := NewChain().Synthesize(context.Background(), "hi")
	if !errors.Is(err, ErrChainExhausted) {
		t.Errorf("err = %v, want ErrChainExhausted", err)
	}
}

func TestChain_CancelledStopsChain(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	primary := &fakeSynth{name: "p", err: errors.New("aborted"), onRun: cancel}
	secondary := &fakeSynth{name: "s", audio: Audio{Data: []byte{1}}}

	res := NewChain(primary, secondary).Run(ctx, "hi")
	if !errors.Is(res.Err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", res.Err)
	}
	if secondary.calls != 0 {
		t.Error("secondary should not run after cancellation")
	}
}
