package config

import (
	"time"

	"github.com/leonardotrapani/arrival/internal/provider"
)

type Config struct {
	Timing        TimingConfig                       `toml:"timing"`
	Recording     RecordingConfig                    `toml:"recording"`
	Transcription TranscriptionConfig                `toml:"transcription"`
	Speech        SpeechConfig                       `toml:"speech"`
	Playback      PlaybackConfig                     `toml:"playback"`
	Conversation  ConversationConfig                 `toml:"conversation"`
	Notifications NotificationsConfig                `toml:"notifications"`
	Storage       StorageConfig                      `toml:"storage"`
	Providers     map[string]provider.ProviderConfig `toml:"providers"`
}

// TimingConfig holds the auto-advance delay of every timed screen.
type TimingConfig struct {
	Arrival       time.Duration `toml:"arrival"`
	Thesis        time.Duration `toml:"thesis"`
	Why           time.Duration `toml:"why"`
	Capabilities  time.Duration `toml:"capabilities"`
	Integrations  time.Duration `toml:"integrations"`
	Honesty       time.Duration `toml:"honesty"`
	ChoiceAdvance time.Duration `toml:"choice_advance"` // after an aesthetic or intent pick
}

type RecordingConfig struct {
	SampleRate        int           `toml:"sample_rate"`
	Channels          int           `toml:"channels"`
	Format            string        `toml:"format"`
	BufferSize        int           `toml:"buffer_size"`
	Device            string        `toml:"device"`
	ChannelBufferSize int           `toml:"channel_buffer_size"`
	Timeout           time.Duration `toml:"timeout"`
	EchoCancellation  bool          `toml:"echo_cancellation"`
	NoiseSuppression  bool          `toml:"noise_suppression"`
	EchoCancelDevice  string        `toml:"echo_cancel_device"`
}

type TranscriptionConfig struct {
	Provider     string        `toml:"provider"`
	URL          string        `toml:"url"`
	Model        string        `toml:"model"`
	Language     string        `toml:"language"`
	EmptyPolicy  string        `toml:"empty_policy"`  // "fallback" or "error"
	FallbackText string        `toml:"fallback_text"` // empty: greeting of the configured language
	Timeout      time.Duration `toml:"timeout"`
}

type SpeechConfig struct {
	Primary   SpeechProviderConfig `toml:"primary"`
	Secondary SpeechProviderConfig `toml:"secondary"`
}

// SpeechProviderConfig is one slot of the synthesis chain. An empty
// provider disables the slot.
type SpeechProviderConfig struct {
	Provider        string        `toml:"provider"`
	URL             string        `toml:"url"`
	Voice           string        `toml:"voice"`
	Model           string        `toml:"model"`
	Speed           float64       `toml:"speed"`
	Stability       float64       `toml:"stability"`
	SimilarityBoost float64       `toml:"similarity_boost"`
	Timeout         time.Duration `toml:"timeout"`
}

type PlaybackConfig struct {
	Command            string        `toml:"command"` // empty: silent, reveal on a timer
	Args               []string      `toml:"args"`
	TypewriterInterval time.Duration `toml:"typewriter_interval"`
	FallbackPerRune    time.Duration `toml:"fallback_per_rune"`
	FallbackPadding    time.Duration `toml:"fallback_padding"`
}

type ConversationConfig struct {
	SendingDelay  time.Duration `toml:"sending_delay"`
	ThinkingDelay time.Duration `toml:"thinking_delay"`
	SettleDelay   time.Duration `toml:"settle_delay"`
	RetryMessage  string        `toml:"retry_message"`
}

type NotificationsConfig struct {
	Enabled bool   `toml:"enabled"`
	Type    string `toml:"type"` // "desktop", "log", "none"
}

type StorageConfig struct {
	Dir string `toml:"dir"` // empty: user state dir
}
