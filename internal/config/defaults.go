package config

import (
	"time"

	"github.com/leonardotrapani/arrival/internal/pipeline"
	"github.com/leonardotrapani/arrival/internal/playback"
	"github.com/leonardotrapani/arrival/internal/provider"
	"github.com/leonardotrapani/arrival/internal/recording"
	"github.com/leonardotrapani/arrival/internal/speech"
	"github.com/leonardotrapani/arrival/internal/transcriber"
)

// DefaultConfig returns the configuration used when no file exists. It
// talks to the local endpoints and plays audio through ffplay.
func DefaultConfig() *Config {
	rec := recording.DefaultConfig()
	tr := transcriber.DefaultConfig()
	primary := speech.DefaultPrimaryConfig()
	secondary := speech.DefaultSecondaryConfig()
	player := playback.DefaultConfig()
	conv := pipeline.DefaultConfig()

	return &Config{
		Timing: TimingConfig{
			Arrival:       4 * time.Second,
			Thesis:        6 * time.Second,
			Why:           6 * time.Second,
			Capabilities:  7 * time.Second,
			Integrations:  6 * time.Second,
			Honesty:       6 * time.Second,
			ChoiceAdvance: 700 * time.Millisecond,
		},
		Recording: RecordingConfig{
			SampleRate:        rec.SampleRate,
			Channels:          rec.Channels,
			Format:            rec.Format,
			BufferSize:        rec.BufferSize,
			Device:            rec.Device,
			ChannelBufferSize: rec.ChannelBufferSize,
			Timeout:           rec.Timeout,
			EchoCancellation:  rec.EchoCancellation,
			NoiseSuppression:  rec.NoiseSuppression,
			EchoCancelDevice:  rec.EchoCancelDevice,
		},
		Transcription: TranscriptionConfig{
			Provider:    tr.Provider,
			URL:         tr.URL,
			EmptyPolicy: string(conv.EmptyTranscript),
			Timeout:     tr.Timeout,
		},
		Speech: SpeechConfig{
			Primary:   speechProviderConfig(primary),
			Secondary: speechProviderConfig(secondary),
		},
		Playback: PlaybackConfig{
			Command:            player.Command,
			Args:               player.Args,
			TypewriterInterval: conv.TypewriterInterval,
			FallbackPerRune:    conv.FallbackPerRune,
			FallbackPadding:    conv.FallbackPadding,
		},
		Conversation: ConversationConfig{
			SendingDelay:  conv.SendingDelay,
			ThinkingDelay: conv.ThinkingDelay,
			SettleDelay:   conv.SettleDelay,
			RetryMessage:  conv.RetryMessage,
		},
		Notifications: NotificationsConfig{
			Enabled: false,
			Type:    "log",
		},
		Providers: make(map[string]provider.ProviderConfig),
	}
}

func speechProviderConfig(c speech.Config) SpeechProviderConfig {
	return SpeechProviderConfig{
		Provider:        c.Provider,
		URL:             c.URL,
		Voice:           c.Voice,
		Model:           c.Model,
		Speed:           c.Speed,
		Stability:       c.Stability,
		SimilarityBoost: c.SimilarityBoost,
		Timeout:         c.Timeout,
	}
}
