package transcriber

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/leonardotrapani/arrival/internal/provider"
)

// DeepgramAdapter transcribes through Deepgram's pre-recorded API
type DeepgramAdapter struct {
	client *http.Client
	config Config
}

type deepgramResponse struct {
	Results *struct {
		Channels []struct {
			Alternatives []struct {
				Transcript string `json:"transcript"`
			} `json:"alternatives"`
		} `json:"channels"`
	} `json:"results,omitempty"`
	ErrMsg string `json:"err_msg,omitempty"`
}

func NewDeepgramAdapter(config Config) *DeepgramAdapter {
	return &DeepgramAdapter{
		client: &http.Client{Timeout: config.Timeout},
		config: config,
	}
}

func (a *DeepgramAdapter) Transcribe(ctx context.Context, wav []byte) (string, error) {
	if len(wav) == 0 {
		return "", ErrEmptyAudio
	}

	apiURL, err := a.buildURL()
	if err != nil {
		return "", fmt.Errorf("build url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(wav))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+a.config.APIKey)
	req.Header.Set("Content-Type", "audio/wav")

	start := time.Now()
	resp, err := a.client.Do(req)
	duration := time.Since(start)

	if err != nil {
		log.Printf("deepgram-adapter: API call failed after %v: %v", duration, err)
		return "", fmt.Errorf("deepgram request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		log.Printf("deepgram-adapter: API returned status %d: %s", resp.StatusCode, string(bodyBytes))
		return "", &StatusError{Provider: provider.ProviderDeepgram, StatusCode: resp.StatusCode, Body: string(bodyBytes)}
	}

	var result deepgramResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if result.ErrMsg != "" {
		return "", fmt.Errorf("deepgram error: %s", result.ErrMsg)
	}

	text := ""
	if result.Results != nil && len(result.Results.Channels) > 0 && len(result.Results.Channels[0].Alternatives) > 0 {
		text = result.Results.Channels[0].Alternatives[0].Transcript
	}

	log.Printf("deepgram-adapter: transcribed %d bytes in %v: %q", len(wav), duration, text)
	return text, nil
}

func (a *DeepgramAdapter) buildURL() (string, error) {
	u, err := url.Parse(a.config.URL)
	if err != nil {
		return "", err
	}

	q := u.Query()
	q.Set("model", a.config.Model)
	q.Set("smart_format", "true")
	q.Set("punctuate", "true")
	if lang := deepgramLanguage(a.config.Language); lang != "" {
		q.Set("language", lang)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// deepgramLanguage maps bare English to the regional code Deepgram expects.
func deepgramLanguage(code string) string {
	if strings.EqualFold(code, "en") {
		return "en-US"
	}
	return code
}
