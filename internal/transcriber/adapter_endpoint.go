package transcriber

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/leonardotrapani/arrival/internal/provider"
)

// EndpointAdapter posts the recording to a self-hosted transcription
// endpoint as multipart field "audio" and reads {"text": "..."} back.
type EndpointAdapter struct {
	client *http.Client
	config Config
}

type endpointResponse struct {
	Text string `json:"text"`
}

func NewEndpointAdapter(config Config) *EndpointAdapter {
	return &EndpointAdapter{
		client: &http.Client{Timeout: config.Timeout},
		config: config,
	}
}

func (a *EndpointAdapter) Transcribe(ctx context.Context, wav []byte) (string, error) {
	if len(wav) == 0 {
		return "", ErrEmptyAudio
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("audio", "audio.wav")
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, bytes.NewReader(wav)); err != nil {
		return "", fmt.Errorf("copy audio data: %w", err)
	}

	if a.config.Language != "" {
		if err := writer.WriteField("language", a.config.Language); err != nil {
			return "", fmt.Errorf("write language: %w", err)
		}
	}

	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("close writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.config.URL, &body)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if a.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+a.config.APIKey)
	}

	start := time.Now()
	resp, err := a.client.Do(req)
	duration := time.Since(start)

	if err != nil {
		log.Printf("endpoint-transcriber: request failed after %v: %v", duration, err)
		return "", fmt.Errorf("transcription request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		log.Printf("endpoint-transcriber: status %d: %s", resp.StatusCode, string(bodyBytes))
		return "", &StatusError{Provider: provider.ProviderEndpoint, StatusCode: resp.StatusCode, Body: string(bodyBytes)}
	}

	var result endpointResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	log.Printf("endpoint-transcriber: transcribed %d bytes in %v: %q", len(wav), duration, result.Text)
	return result.Text, nil
}
