package testutil

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/leonardotrapani/arrival/internal/config"
	"github.com/leonardotrapani/arrival/internal/playback"
	"github.com/leonardotrapani/arrival/internal/speech"
)

// FastConfig returns a valid configuration whose timed screens never fire
// on their own and whose conversation delays are close to zero.
func FastConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Timing.Arrival = time.Hour
	cfg.Timing.Thesis = time.Hour
	cfg.Timing.Why = time.Hour
	cfg.Timing.Capabilities = time.Hour
	cfg.Timing.Integrations = time.Hour
	cfg.Timing.Honesty = time.Hour
	cfg.Timing.ChoiceAdvance = time.Millisecond
	cfg.Playback.TypewriterInterval = 0
	cfg.Playback.FallbackPerRune = 0
	cfg.Playback.FallbackPadding = time.Millisecond
	cfg.Conversation.SendingDelay = time.Millisecond
	cfg.Conversation.ThinkingDelay = time.Millisecond
	cfg.Conversation.SettleDelay = time.Millisecond
	return cfg
}

// UseConfigHome points the config, cache and state directories at a temp
// dir for the rest of the test.
func UseConfigHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	t.Setenv("HOME", dir)
	return dir
}

// CreateTempConfigFile creates a temporary config file for testing
func CreateTempConfigFile(t *testing.T, configContent string) string {
	t.Helper()

	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to create temp config file: %v", err)
	}

	return configPath
}

// TestContext returns a context with timeout for testing
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second)
}

// WaitForCondition waits for a condition to be true or times out
func WaitForCondition(t *testing.T, condition func() bool, timeout time.Duration) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			t.Fatalf("Condition not met within %v", timeout)
		default:
			if condition() {
				return
			}
			time.Sleep(10 * time.Millisecond)
		}
	}
}

// CaptureOutput captures stdout for testing
func CaptureOutput(t *testing.T, fn func()) string {
	t.Helper()

	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create pipe: %v", err)
	}
	os.Stdout = w

	done := make(chan []byte)
	go func() {
		out, _ := io.ReadAll(r)
		done <- out
	}()

	fn()

	w.Close()
	os.Stdout = old
	return string(<-done)
}

// MockTranscriber implements transcriber.Transcriber for testing
type MockTranscriber struct {
	TranscribeFunc func(ctx context.Context, wav []byte) (string, error)

	mu    sync.Mutex
	calls int
}

func NewMockTranscriber(text string) *MockTranscriber {
	return &MockTranscriber{
		TranscribeFunc: func(ctx context.Context, wav []byte) (string, error) {
			return text, nil
		},
	}
}

func (m *MockTranscriber) Transcribe(ctx context.Context, wav []byte) (string, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.TranscribeFunc != nil {
		return m.TranscribeFunc(ctx, wav)
	}
	return "mock transcription", nil
}

func (m *MockTranscriber) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// MockSynthesizer implements speech.Synthesizer with a fixed clip.
type MockSynthesizer struct {
	ProviderName string
	Err          error

	mu    sync.Mutex
	texts []string
}

func NewMockSynthesizer(name string) *MockSynthesizer {
	return &MockSynthesizer{ProviderName: name}
}

func (m *MockSynthesizer) Name() string { return m.ProviderName }

func (m *MockSynthesizer) Synthesize(ctx context.Context, text string) (speech.Audio, error) {
	m.mu.Lock()
	m.texts = append(m.texts, text)
	m.mu.Unlock()
	if m.Err != nil {
		return speech.Audio{}, m.Err
	}
	return speech.Audio{Data: []byte("RIFF"), MimeType: "audio/wav"}, nil
}

// Texts returns every text passed to Synthesize, in order.
func (m *MockSynthesizer) Texts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.texts...)
}

// MockPlayer implements playback.Player; every clip ends immediately.
type MockPlayer struct {
	mu     sync.Mutex
	played int
}

func (m *MockPlayer) Play(ctx context.Context, data []byte, mimeType string) (playback.Playback, error) {
	m.mu.Lock()
	m.played++
	m.mu.Unlock()
	done := make(chan struct{})
	close(done)
	return finished(done), nil
}

func (m *MockPlayer) Played() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.played
}

type finished chan struct{}

func (f finished) Done() <-chan struct{} { return f }
func (f finished) Stop()                 {}
