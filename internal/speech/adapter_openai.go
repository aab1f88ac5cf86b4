package speech

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

// OpenAI synthesizes through the OpenAI speech API.
type OpenAI struct {
	client *openai.Client
	config Config
}

func NewOpenAI(config Config) *OpenAI {
	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.URL != "" {
		clientConfig.BaseURL = strings.TrimSuffix(strings.TrimRight(config.URL, "/"), "/audio/speech")
	}
	return &OpenAI{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}
}

func (o *OpenAI) Name() string {
	return "openai-synth"
}

func (o *OpenAI) Synthesize(ctx context.Context, text string) (Audio, error) {
	if o.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.config.Timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := o.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(o.config.Model),
		Input:          text,
		Voice:          openai.SpeechVoice(o.config.Voice),
		ResponseFormat: openai.SpeechResponseFormatMp3,
		Speed:          o.config.Speed,
	})
	if err != nil {
		log.Printf("%s: API call failed after %v: %v", o.Name(), time.Since(start), err)
		pe := &ProviderError{Provider: o.Name(), Err: err}
		var apiErr *openai.APIError
		var reqErr *openai.RequestError
		switch {
		case errors.As(err, &apiErr):
			pe.StatusCode = apiErr.HTTPStatusCode
			pe.Message = apiErr.Message
		case errors.As(err, &reqErr):
			pe.StatusCode = reqErr.HTTPStatusCode
		}
		return Audio{}, pe
	}
	defer resp.Close()

	data, err := io.ReadAll(io.LimitReader(resp, maxAudioBytes))
	if err != nil {
		return Audio{}, &ProviderError{Provider: o.Name(), Err: fmt.Errorf("read audio: %w", err)}
	}

	log.Printf("%s: synthesized %d bytes in %v", o.Name(), len(data), time.Since(start))
	return Audio{Data: data, MimeType: "audio/mpeg"}, nil
}
