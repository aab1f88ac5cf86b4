package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/leonardotrapani/arrival/internal/onboarding"
	"github.com/leonardotrapani/arrival/internal/pipeline"
	"github.com/leonardotrapani/arrival/internal/provider"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("ELEVENLABS_API_KEY", "")

	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("ELEVENLABS_API_KEY", "")

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"defaults", func(c *Config) {}, ""},
		{"zero screen delay", func(c *Config) { c.Timing.Thesis = 0 }, "timing.thesis"},
		{"negative choice delay", func(c *Config) { c.Timing.ChoiceAdvance = -time.Second }, "timing.choice_advance"},
		{"zero choice delay", func(c *Config) { c.Timing.ChoiceAdvance = 0 }, ""},
		{"sample rate", func(c *Config) { c.Recording.SampleRate = 0 }, "recording.sample_rate"},
		{"channels", func(c *Config) { c.Recording.Channels = 0 }, "recording.channels"},
		{"format", func(c *Config) { c.Recording.Format = "" }, "recording.format"},
		{"recording timeout", func(c *Config) { c.Recording.Timeout = 0 }, "recording.timeout"},
		{"unknown transcription provider", func(c *Config) { c.Transcription.Provider = "whisper.cpp" }, "transcription.provider"},
		{"endpoint without url", func(c *Config) { c.Transcription.URL = "" }, "transcription.url"},
		{"openai without key", func(c *Config) { c.Transcription.Provider = provider.ProviderOpenAI }, "OPENAI_API_KEY"},
		{
			"openai with key",
			func(c *Config) {
				c.Transcription.Provider = provider.ProviderOpenAI
				c.Providers[provider.ProviderOpenAI] = provider.ProviderConfig{APIKey: "sk-test"}
			},
			"",
		},
		{
			"speech model used for transcription",
			func(c *Config) {
				c.Transcription.Provider = provider.ProviderOpenAI
				c.Transcription.Model = "tts-1"
				c.Providers[provider.ProviderOpenAI] = provider.ProviderConfig{APIKey: "sk-test"}
			},
			"transcription.model",
		},
		{"language", func(c *Config) { c.Transcription.Language = "klingon" }, "transcription.language"},
		{"empty policy", func(c *Config) { c.Transcription.EmptyPolicy = "ignore" }, "empty_policy"},
		{"error policy", func(c *Config) { c.Transcription.EmptyPolicy = "error" }, ""},
		{"no primary", func(c *Config) { c.Speech.Primary.Provider = "" }, "speech.primary.provider"},
		{"secondary disabled", func(c *Config) { c.Speech.Secondary = SpeechProviderConfig{} }, ""},
		{"secondary without url", func(c *Config) { c.Speech.Secondary.URL = "" }, "speech.secondary.url"},
		{
			"openai voice mismatch",
			func(c *Config) {
				c.Speech.Secondary = SpeechProviderConfig{Provider: provider.ProviderOpenAI, Model: "tts-1", Voice: "rachel"}
				c.Providers[provider.ProviderOpenAI] = provider.ProviderConfig{APIKey: "sk-test"}
			},
			"speech.secondary.voice",
		},
		{
			"elevenlabs primary without key",
			func(c *Config) { c.Speech.Primary = SpeechProviderConfig{Provider: provider.ProviderElevenLabs} },
			"ELEVENLABS_API_KEY",
		},
		{"speed", func(c *Config) { c.Speech.Secondary.Speed = 9 }, "speed"},
		{"stability", func(c *Config) { c.Speech.Primary.Stability = 1.5 }, "stability"},
		{"args without command", func(c *Config) { c.Playback.Command = "" }, "playback.command"},
		{"silent playback", func(c *Config) { c.Playback.Command = ""; c.Playback.Args = nil }, ""},
		{"negative delay", func(c *Config) { c.Conversation.ThinkingDelay = -1 }, "conversation"},
		{"notification type", func(c *Config) { c.Notifications.Type = "email" }, "notifications.type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestGetConfigPath(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tempDir)

	path, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}

	expectedPath := filepath.Join(tempDir, "arrival", "config.toml")
	if path != expectedPath {
		t.Errorf("GetConfigPath() = %s, want %s", path, expectedPath)
	}
	if _, err := os.Stat(filepath.Dir(path)); os.IsNotExist(err) {
		t.Errorf("GetConfigPath() did not create config directory")
	}
}

func TestLoad_Missing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	_, err := Load()
	if !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("Load() error = %v, want ErrConfigNotFound", err)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `[timing]
thesis = "10s"

[transcription]
provider = "openai"
language = "es"

[providers.openai]
api_key = "sk-file"

[speech.secondary]
provider = ""

[mystery]
key = 1
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	c, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	def := DefaultConfig()
	if c.Timing.Thesis != 10*time.Second {
		t.Errorf("thesis = %v", c.Timing.Thesis)
	}
	if c.Timing.Arrival != def.Timing.Arrival {
		t.Errorf("arrival should keep its default, got %v", c.Timing.Arrival)
	}
	if c.Transcription.Provider != "openai" || c.Transcription.Language != "es" {
		t.Errorf("transcription = %+v", c.Transcription)
	}
	if c.Speech.Primary.URL != def.Speech.Primary.URL {
		t.Errorf("primary url = %q", c.Speech.Primary.URL)
	}
	if c.Speech.Secondary.Provider != "" {
		t.Errorf("secondary should be disabled, got %q", c.Speech.Secondary.Provider)
	}
	if c.Providers["openai"].APIKey != "sk-file" {
		t.Errorf("providers = %+v", c.Providers)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[timing\nthesis = "), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil || errors.Is(err, ErrConfigNotFound) {
		t.Errorf("LoadFrom() error = %v, want a parse error", err)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	c := DefaultConfig()
	c.Timing.Honesty = 9 * time.Second
	c.Transcription.EmptyPolicy = string(pipeline.EmptyTranscriptError)
	c.Speech.Secondary = SpeechProviderConfig{Provider: provider.ProviderOpenAI, Voice: "nova", Model: "tts-1-hd", Speed: 1.25}
	c.Providers[provider.ProviderOpenAI] = provider.ProviderConfig{APIKey: "sk-saved"}

	if err := SaveTo(path, c); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("config permissions = %v, want 0600", info.Mode().Perm())
	}
	raw, _ := os.ReadFile(path)
	if !strings.HasPrefix(string(raw), "# Arrival configuration") {
		t.Error("saved config should start with the header")
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if loaded.Timing.Honesty != 9*time.Second {
		t.Errorf("honesty = %v", loaded.Timing.Honesty)
	}
	if loaded.Transcription.EmptyPolicy != "error" {
		t.Errorf("empty policy = %q", loaded.Transcription.EmptyPolicy)
	}
	if loaded.Speech.Secondary != c.Speech.Secondary {
		t.Errorf("secondary = %+v, want %+v", loaded.Speech.Secondary, c.Speech.Secondary)
	}
	if loaded.Providers["openai"].APIKey != "sk-saved" {
		t.Errorf("providers = %+v", loaded.Providers)
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %v", entries)
	}
}

func TestResolveAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		table    string
		env      string
		provider string
		want     string
	}{
		{"table wins", "sk-table", "sk-env", "openai", "sk-table"},
		{"env fallback", "", "sk-env", "openai", "sk-env"},
		{"nothing", "", "", "openai", ""},
		{"endpoint env", "", "endpoint-token", "endpoint", "endpoint-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(provider.EnvVarForProvider(tt.provider), tt.env)
			c := DefaultConfig()
			if tt.table != "" {
				c.Providers[tt.provider] = provider.ProviderConfig{APIKey: tt.table}
			}
			if got := c.resolveAPIKey(tt.provider); got != tt.want {
				t.Errorf("resolveAPIKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConfig_ConversionMethods(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-env")

	c := DefaultConfig()
	c.Transcription.Provider = provider.ProviderOpenAI
	c.Transcription.Language = "it"
	c.Recording.EchoCancelDevice = "echo-cancel-source"
	c.Speech.Secondary = SpeechProviderConfig{}

	rec := c.ToRecordingConfig()
	if rec.SampleRate != c.Recording.SampleRate || rec.EchoCancelDevice != "echo-cancel-source" {
		t.Errorf("recording = %+v", rec)
	}

	tr := c.ToTranscriberConfig()
	if tr.Provider != "openai" || tr.APIKey != "sk-env" || tr.Language != "it" {
		t.Errorf("transcriber = %+v", tr)
	}

	primary, secondary := c.ToSpeechConfigs()
	if primary.URL != c.Speech.Primary.URL || primary.Stability != c.Speech.Primary.Stability {
		t.Errorf("primary = %+v", primary)
	}
	if secondary.Provider != "" {
		t.Errorf("disabled secondary should convert to an empty slot, got %+v", secondary)
	}

	pc := c.ToPipelineConfig()
	if pc.FallbackTranscript != "Ciao!" {
		t.Errorf("fallback transcript = %q, want the language greeting", pc.FallbackTranscript)
	}
	if pc.EmptyTranscript != pipeline.EmptyTranscriptFallback || pc.RetryMessage != pipeline.DefaultRetryMessage {
		t.Errorf("pipeline = %+v", pc)
	}
	if pc.TypewriterInterval != c.Playback.TypewriterInterval {
		t.Errorf("typewriter interval = %v", pc.TypewriterInterval)
	}

	c.Transcription.FallbackText = "Hey"
	if got := c.ToPipelineConfig().FallbackTranscript; got != "Hey" {
		t.Errorf("explicit fallback text = %q", got)
	}

	pb := c.ToPlaybackConfig()
	if pb.Command != "ffplay" || len(pb.Args) == 0 {
		t.Errorf("playback = %+v", pb)
	}
}

func TestConfig_ScreenDelay(t *testing.T) {
	c := DefaultConfig()
	c.Timing.Why = 3 * time.Second

	for _, screen := range onboarding.DefaultOrder {
		d, ok := c.ScreenDelay(screen)
		switch screen {
		case onboarding.ScreenAesthetic, onboarding.ScreenIntent, onboarding.ScreenVoice, onboarding.ScreenEntry:
			if ok {
				t.Errorf("%s should wait for the visitor", screen)
			}
		default:
			if !ok || d <= 0 {
				t.Errorf("%s should auto-advance, got %v %v", screen, d, ok)
			}
		}
	}
	if d, _ := c.ScreenDelay(onboarding.ScreenWhy); d != 3*time.Second {
		t.Errorf("why delay = %v", d)
	}
}

func TestConfig_StoreDir(t *testing.T) {
	c := DefaultConfig()
	c.Storage.Dir = "/tmp/arrival-test"
	if dir, err := c.StoreDir(); err != nil || dir != "/tmp/arrival-test" {
		t.Errorf("StoreDir() = %q, %v", dir, err)
	}
}
