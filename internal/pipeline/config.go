package pipeline

import "time"

// EmptyTranscriptPolicy decides what an empty transcription means.
type EmptyTranscriptPolicy string

const (
	// EmptyTranscriptFallback continues with Config.FallbackTranscript.
	EmptyTranscriptFallback EmptyTranscriptPolicy = "fallback"
	// EmptyTranscriptError fails the run and asks the visitor to retry.
	EmptyTranscriptError EmptyTranscriptPolicy = "error"
)

const DefaultRetryMessage = "Could not process your message. Try again or type instead."

type Config struct {
	SendingDelay       time.Duration
	ThinkingDelay      time.Duration
	SettleDelay        time.Duration
	TypewriterInterval time.Duration
	FallbackPerRune    time.Duration
	FallbackPadding    time.Duration
	EmptyTranscript    EmptyTranscriptPolicy
	FallbackTranscript string
	RetryMessage       string
}

func DefaultConfig() Config {
	return Config{
		SendingDelay:       600 * time.Millisecond,
		ThinkingDelay:      900 * time.Millisecond,
		SettleDelay:        1500 * time.Millisecond,
		TypewriterInterval: 35 * time.Millisecond,
		FallbackPerRune:    60 * time.Millisecond,
		FallbackPadding:    time.Second,
		EmptyTranscript:    EmptyTranscriptFallback,
		FallbackTranscript: "Hello!",
		RetryMessage:       DefaultRetryMessage,
	}
}
