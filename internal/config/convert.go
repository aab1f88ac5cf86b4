package config

import (
	"os"
	"time"

	"github.com/leonardotrapani/arrival/internal/language"
	"github.com/leonardotrapani/arrival/internal/onboarding"
	"github.com/leonardotrapani/arrival/internal/pipeline"
	"github.com/leonardotrapani/arrival/internal/playback"
	"github.com/leonardotrapani/arrival/internal/provider"
	"github.com/leonardotrapani/arrival/internal/recording"
	"github.com/leonardotrapani/arrival/internal/speech"
	"github.com/leonardotrapani/arrival/internal/store"
	"github.com/leonardotrapani/arrival/internal/transcriber"
)

func (c *Config) ToRecordingConfig() recording.Config {
	return recording.Config{
		SampleRate:        c.Recording.SampleRate,
		Channels:          c.Recording.Channels,
		Format:            c.Recording.Format,
		BufferSize:        c.Recording.BufferSize,
		Device:            c.Recording.Device,
		ChannelBufferSize: c.Recording.ChannelBufferSize,
		Timeout:           c.Recording.Timeout,
		EchoCancellation:  c.Recording.EchoCancellation,
		NoiseSuppression:  c.Recording.NoiseSuppression,
		EchoCancelDevice:  c.Recording.EchoCancelDevice,
	}
}

func (c *Config) ToTranscriberConfig() transcriber.Config {
	return transcriber.Config{
		Provider: c.Transcription.Provider,
		URL:      c.Transcription.URL,
		APIKey:   c.resolveAPIKey(c.Transcription.Provider),
		Language: c.Transcription.Language,
		Model:    c.Transcription.Model,
		Timeout:  c.Transcription.Timeout,
	}
}

// ToSpeechConfigs returns the primary and secondary synthesis slots.
func (c *Config) ToSpeechConfigs() (primary, secondary speech.Config) {
	return c.toSpeechConfig(c.Speech.Primary), c.toSpeechConfig(c.Speech.Secondary)
}

func (c *Config) toSpeechConfig(s SpeechProviderConfig) speech.Config {
	if s.Provider == "" {
		return speech.Config{}
	}
	return speech.Config{
		Provider:        s.Provider,
		URL:             s.URL,
		APIKey:          c.resolveAPIKey(s.Provider),
		Voice:           s.Voice,
		Model:           s.Model,
		Speed:           s.Speed,
		Stability:       s.Stability,
		SimilarityBoost: s.SimilarityBoost,
		Timeout:         s.Timeout,
	}
}

func (c *Config) ToPlaybackConfig() playback.Config {
	return playback.Config{
		Command: c.Playback.Command,
		Args:    c.Playback.Args,
	}
}

func (c *Config) ToPipelineConfig() pipeline.Config {
	fallback := c.Transcription.FallbackText
	if fallback == "" {
		fallback = language.Greeting(c.Transcription.Language)
	}
	retry := c.Conversation.RetryMessage
	if retry == "" {
		retry = pipeline.DefaultRetryMessage
	}
	return pipeline.Config{
		SendingDelay:       c.Conversation.SendingDelay,
		ThinkingDelay:      c.Conversation.ThinkingDelay,
		SettleDelay:        c.Conversation.SettleDelay,
		TypewriterInterval: c.Playback.TypewriterInterval,
		FallbackPerRune:    c.Playback.FallbackPerRune,
		FallbackPadding:    c.Playback.FallbackPadding,
		EmptyTranscript:    pipeline.EmptyTranscriptPolicy(c.Transcription.EmptyPolicy),
		FallbackTranscript: fallback,
		RetryMessage:       retry,
	}
}

// ScreenDelay returns the auto-advance delay for a timed screen. ok is false
// for screens that wait for the visitor.
func (c *Config) ScreenDelay(screen onboarding.Screen) (delay time.Duration, ok bool) {
	switch screen {
	case onboarding.ScreenArrival:
		return c.Timing.Arrival, true
	case onboarding.ScreenThesis:
		return c.Timing.Thesis, true
	case onboarding.ScreenWhy:
		return c.Timing.Why, true
	case onboarding.ScreenCapabilities:
		return c.Timing.Capabilities, true
	case onboarding.ScreenIntegrations:
		return c.Timing.Integrations, true
	case onboarding.ScreenHonesty:
		return c.Timing.Honesty, true
	default:
		return 0, false
	}
}

// StoreDir returns the key-value store directory.
func (c *Config) StoreDir() (string, error) {
	if c.Storage.Dir != "" {
		return c.Storage.Dir, nil
	}
	return store.DefaultDir()
}

// resolveAPIKey returns the key for a provider from the providers table,
// falling back to its environment variable.
func (c *Config) resolveAPIKey(providerName string) string {
	if c.Providers != nil {
		if pc, ok := c.Providers[providerName]; ok && pc.APIKey != "" {
			return pc.APIKey
		}
	}
	if envVar := provider.EnvVarForProvider(providerName); envVar != "" {
		return os.Getenv(envVar)
	}
	return ""
}
