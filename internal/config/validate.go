package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/leonardotrapani/arrival/internal/language"
	"github.com/leonardotrapani/arrival/internal/pipeline"
	"github.com/leonardotrapani/arrival/internal/provider"
)

func (c *Config) Validate() error {
	timings := []struct {
		key   string
		value time.Duration
	}{
		{"timing.arrival", c.Timing.Arrival},
		{"timing.thesis", c.Timing.Thesis},
		{"timing.why", c.Timing.Why},
		{"timing.capabilities", c.Timing.Capabilities},
		{"timing.integrations", c.Timing.Integrations},
		{"timing.honesty", c.Timing.Honesty},
	}
	for _, tm := range timings {
		if tm.value <= 0 {
			return fmt.Errorf("invalid %s: %v", tm.key, tm.value)
		}
	}
	if c.Timing.ChoiceAdvance < 0 {
		return fmt.Errorf("invalid timing.choice_advance: %v", c.Timing.ChoiceAdvance)
	}

	if c.Recording.SampleRate <= 0 {
		return fmt.Errorf("invalid recording.sample_rate: %d", c.Recording.SampleRate)
	}
	if c.Recording.Channels <= 0 {
		return fmt.Errorf("invalid recording.channels: %d", c.Recording.Channels)
	}
	if c.Recording.BufferSize <= 0 {
		return fmt.Errorf("invalid recording.buffer_size: %d", c.Recording.BufferSize)
	}
	if c.Recording.ChannelBufferSize <= 0 {
		return fmt.Errorf("invalid recording.channel_buffer_size: %d", c.Recording.ChannelBufferSize)
	}
	if c.Recording.Format == "" {
		return fmt.Errorf("invalid recording.format: empty")
	}
	if c.Recording.Timeout <= 0 {
		return fmt.Errorf("invalid recording.timeout: %v", c.Recording.Timeout)
	}

	if err := c.validateTranscription(); err != nil {
		return err
	}

	if c.Speech.Primary.Provider == "" {
		return fmt.Errorf("invalid speech.primary.provider: empty")
	}
	if err := c.validateSpeechSlot("speech.primary", c.Speech.Primary); err != nil {
		return err
	}
	if c.Speech.Secondary.Provider != "" {
		if err := c.validateSpeechSlot("speech.secondary", c.Speech.Secondary); err != nil {
			return err
		}
	}

	if len(c.Playback.Args) > 0 && c.Playback.Command == "" {
		return fmt.Errorf("invalid playback.command: empty with args set")
	}
	if c.Playback.TypewriterInterval < 0 {
		return fmt.Errorf("invalid playback.typewriter_interval: %v", c.Playback.TypewriterInterval)
	}
	if c.Playback.FallbackPerRune < 0 || c.Playback.FallbackPadding < 0 {
		return fmt.Errorf("invalid playback fallback timing: per_rune=%v padding=%v", c.Playback.FallbackPerRune, c.Playback.FallbackPadding)
	}

	if c.Conversation.SendingDelay < 0 || c.Conversation.ThinkingDelay < 0 || c.Conversation.SettleDelay < 0 {
		return fmt.Errorf("invalid conversation delays: must not be negative")
	}

	validTypes := map[string]bool{"desktop": true, "log": true, "none": true}
	if !validTypes[c.Notifications.Type] {
		return fmt.Errorf("invalid notifications.type: %s (must be desktop, log, or none)", c.Notifications.Type)
	}

	return nil
}

func (c *Config) validateTranscription() error {
	t := c.Transcription
	p := provider.GetProvider(t.Provider)
	if p == nil || !supports(t.Provider, provider.Transcription) {
		return fmt.Errorf("unsupported transcription.provider: %q (must be %s)", t.Provider, strings.Join(provider.ListProvidersFor(provider.Transcription), ", "))
	}
	if t.Provider == provider.ProviderEndpoint && t.URL == "" {
		return fmt.Errorf("invalid transcription.url: required for the endpoint provider")
	}
	if p.RequiresAPIKey() && c.resolveAPIKey(t.Provider) == "" {
		return missingKeyError(t.Provider, "transcription")
	}
	if t.Model != "" && t.Provider != provider.ProviderEndpoint {
		m, err := provider.GetModel(t.Provider, t.Model)
		if err != nil || m.Type != provider.Transcription {
			return fmt.Errorf("invalid transcription.model for %s: %s", t.Provider, t.Model)
		}
	}
	if !language.IsValidCode(t.Language) {
		return fmt.Errorf("invalid transcription.language: %s (use empty string for auto-detect or ISO-639-1 codes like 'en', 'es', 'fr')", t.Language)
	}
	switch pipeline.EmptyTranscriptPolicy(t.EmptyPolicy) {
	case pipeline.EmptyTranscriptFallback, pipeline.EmptyTranscriptError:
	default:
		return fmt.Errorf("invalid transcription.empty_policy: %q (must be fallback or error)", t.EmptyPolicy)
	}
	return nil
}

func (c *Config) validateSpeechSlot(key string, s SpeechProviderConfig) error {
	p := provider.GetProvider(s.Provider)
	if p == nil || !supports(s.Provider, provider.Speech) {
		return fmt.Errorf("unsupported %s.provider: %q (must be %s)", key, s.Provider, strings.Join(provider.ListProvidersFor(provider.Speech), ", "))
	}
	if s.Provider == provider.ProviderEndpoint && s.URL == "" {
		return fmt.Errorf("invalid %s.url: required for the endpoint provider", key)
	}
	if p.RequiresAPIKey() && c.resolveAPIKey(s.Provider) == "" {
		return missingKeyError(s.Provider, key)
	}
	if s.Model != "" && s.Provider != provider.ProviderEndpoint {
		m, err := provider.GetModel(s.Provider, s.Model)
		if err != nil || m.Type != provider.Speech {
			return fmt.Errorf("invalid %s.model for %s: %s", key, s.Provider, s.Model)
		}
		if s.Voice != "" && !m.SupportsVoice(s.Voice) {
			return fmt.Errorf("invalid %s.voice: %s is not available for %s", key, s.Voice, s.Model)
		}
	}
	if s.Speed != 0 && (s.Speed < 0.25 || s.Speed > 4.0) {
		return fmt.Errorf("invalid %s.speed: %v (must be between 0.25 and 4.0)", key, s.Speed)
	}
	if s.Stability < 0 || s.Stability > 1 {
		return fmt.Errorf("invalid %s.stability: %v (must be between 0 and 1)", key, s.Stability)
	}
	if s.SimilarityBoost < 0 || s.SimilarityBoost > 1 {
		return fmt.Errorf("invalid %s.similarity_boost: %v (must be between 0 and 1)", key, s.SimilarityBoost)
	}
	return nil
}

func supports(name string, t provider.ModelType) bool {
	for _, n := range provider.ListProvidersFor(t) {
		if n == name {
			return true
		}
	}
	return false
}

func missingKeyError(providerName, section string) error {
	return fmt.Errorf("%s API key required for %s: not found in config (providers.%s.api_key) or environment variable (%s)",
		providerName, section, providerName, provider.EnvVarForProvider(providerName))
}
