package speech

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"
)

// Attempt is the outcome of one provider call within a chain run.
type Attempt struct {
	Provider string
	Audio    Audio
	Err      error
	Duration time.Duration
}

func (a Attempt) OK() bool {
	return a.Err == nil
}

// Result is what a chain run produced: the winning audio (if any) and every
// attempt in order.
type Result struct {
	Audio    Audio
	Provider string
	Attempts []Attempt
	Err      error
}

// Runner is a synthesizer that reports which provider produced the audio.
type Runner interface {
	Synthesizer
	Run(ctx context.Context, text string) Result
}

// Chain tries providers in order and returns the first non-empty audio.
type Chain struct {
	providers []Synthesizer
}

func NewChain(providers ...Synthesizer) *Chain {
	return &Chain{providers: providers}
}

func (c *Chain) Name() string {
	return "chain"
}

// Providers returns the chain's providers in attempt order.
func (c *Chain) Providers() []Synthesizer {
	return append([]Synthesizer(nil), c.providers...)
}

// Synthesize runs the chain and returns the winning audio.
func (c *Chain) Synthesize(ctx context.Context, text string) (Audio, error) {
	res := c.Run(ctx, text)
	return res.Audio, res.Err
}

// Run evaluates providers in order. Any provider error or empty payload moves
// on to the next provider; a cancelled context stops the chain immediately.
func (c *Chain) Run(ctx context.Context, text string) Result {
	var res Result

	for i, p := range c.providers {
		if err := ctx.Err(); err != nil {
			res.Err = err
			return res
		}

		attempt := c.try(ctx, p, text)
		res.Attempts = append(res.Attempts, attempt)

		if attempt.OK() {
			if i > 0 {
				log.Printf("Speech chain: %s succeeded after %d failed attempt(s)", p.Name(), i)
			}
			res.Audio = attempt.Audio
			res.Provider = attempt.Provider
			return res
		}

		if ctx.Err() != nil {
			res.Err = ctx.Err()
			return res
		}

		var pe *ProviderError
		if errors.As(attempt.Err, &pe) && pe.Fallback {
			log.Printf("Speech chain: %s requested fallback: %v", p.Name(), attempt.Err)
		} else {
			log.Printf("Speech chain: %s failed: %v", p.Name(), attempt.Err)
		}
	}

	if len(res.Attempts) == 0 {
		res.Err = fmt.Errorf("%w: no providers configured", ErrChainExhausted)
		return res
	}

	errs := make([]error, 0, len(res.Attempts))
	for _, a := range res.Attempts {
		errs = append(errs, a.Err)
	}
	res.Err = fmt.Errorf("%w: %w", ErrChainExhausted, errors.Join(errs...))
	return res
}

func (c *Chain) try(ctx context.Context, p Synthesizer, text string) Attempt {
	start := time.Now()
	audio, err := p.Synthesize(ctx, text)
	attempt := Attempt{Provider: p.Name(), Duration: time.Since(start)}

	switch {
	case err != nil:
		attempt.Err = err
	case len(audio.Data) == 0:
		attempt.Err = &ProviderError{Provider: p.Name(), Err: ErrEmptyAudio, Fallback: true}
	default:
		attempt.Audio = audio
	}
	return attempt
}
