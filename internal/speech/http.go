package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

const maxAudioBytes = 32 << 20

// errorBody is the JSON error shape the synthesis endpoints answer with.
type errorBody struct {
	Error    string `json:"error"`
	Message  string `json:"message"`
	Fallback bool   `json:"fallback"`
	Detail   struct {
		Message string `json:"message"`
	} `json:"detail"`
}

// postJSON sends payload and returns the binary audio body. Non-2xx answers
// become a *ProviderError carrying any fallback marker from the body.
func postJSON(ctx context.Context, client *http.Client, name, url string, headers map[string]string, payload any) (Audio, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Audio{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Audio{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := client.Do(req)
	duration := time.Since(start)
	if err != nil {
		log.Printf("%s: request failed after %v: %v", name, duration, err)
		return Audio{}, &ProviderError{Provider: name, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		pe := &ProviderError{Provider: name, StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(raw))}
		var eb errorBody
		if json.Unmarshal(raw, &eb) == nil {
			pe.Fallback = eb.Fallback
			switch {
			case eb.Error != "":
				pe.Message = eb.Error
			case eb.Message != "":
				pe.Message = eb.Message
			case eb.Detail.Message != "":
				pe.Message = eb.Detail.Message
			}
		}
		log.Printf("%s: status %d after %v (fallback=%v)", name, resp.StatusCode, duration, pe.Fallback)
		return Audio{}, pe
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAudioBytes))
	if err != nil {
		return Audio{}, &ProviderError{Provider: name, StatusCode: resp.StatusCode, Err: fmt.Errorf("read audio: %w", err)}
	}

	mime := resp.Header.Get("Content-Type")
	if mime == "" || strings.HasPrefix(mime, "application/octet-stream") {
		mime = "audio/mpeg"
	}

	log.Printf("%s: synthesized %d bytes in %v", name, len(data), duration)
	return Audio{Data: data, MimeType: mime}, nil
}
