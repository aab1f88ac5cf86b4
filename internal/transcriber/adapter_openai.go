package transcriber

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/leonardotrapani/arrival/internal/provider"
)

// OpenAIAdapter transcribes through the OpenAI Whisper API or any
// compatible one (Groq, Mistral Voxtral) reached through config.URL.
type OpenAIAdapter struct {
	client *openai.Client
	config Config
	name   string
}

func NewOpenAIAdapter(config Config) *OpenAIAdapter {
	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.URL != "" {
		clientConfig.BaseURL = openAIBaseURL(config.URL)
	}
	name := config.Provider
	if name == "" {
		name = provider.ProviderOpenAI
	}
	return &OpenAIAdapter{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
		name:   name,
	}
}

// openAIBaseURL accepts either a base ("https://host/v1") or the full
// transcriptions URL.
func openAIBaseURL(url string) string {
	url = strings.TrimRight(url, "/")
	return strings.TrimSuffix(url, "/audio/transcriptions")
}

func (a *OpenAIAdapter) Transcribe(ctx context.Context, wav []byte) (string, error) {
	if len(wav) == 0 {
		return "", ErrEmptyAudio
	}

	if a.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.config.Timeout)
		defer cancel()
	}

	req := openai.AudioRequest{
		Model:    a.config.Model,
		Reader:   bytes.NewReader(wav),
		FilePath: "audio.wav",
		Language: a.config.Language,
	}

	start := time.Now()
	resp, err := a.client.CreateTranscription(ctx, req)
	duration := time.Since(start)

	if err != nil {
		log.Printf("%s-adapter: API call failed after %v: %v", a.name, duration, err)
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", &StatusError{Provider: a.name, StatusCode: apiErr.HTTPStatusCode, Body: apiErr.Message}
		}
		return "", fmt.Errorf("%s transcription: %w", a.name, err)
	}

	log.Printf("%s-adapter: transcribed %d bytes in %v: %q", a.name, len(wav), duration, resp.Text)
	return resp.Text, nil
}
