package speech

import (
	"context"
	"net/http"
)

// PrimaryEndpoint speaks the primary synthesis contract:
// {text, stability, similarityBoost} in, binary audio out.
type PrimaryEndpoint struct {
	client *http.Client
	config Config
}

type primaryRequest struct {
	Text            string  `json:"text"`
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarityBoost"`
}

func NewPrimaryEndpoint(config Config) *PrimaryEndpoint {
	return &PrimaryEndpoint{
		client: &http.Client{Timeout: config.Timeout},
		config: config,
	}
}

func (p *PrimaryEndpoint) Name() string {
	return "primary-endpoint"
}

func (p *PrimaryEndpoint) Synthesize(ctx context.Context, text string) (Audio, error) {
	return postJSON(ctx, p.client, p.Name(), p.config.URL, authHeader(p.config.APIKey), primaryRequest{
		Text:            text,
		Stability:       p.config.Stability,
		SimilarityBoost: p.config.SimilarityBoost,
	})
}

// SecondaryEndpoint speaks the secondary synthesis contract:
// {text, voice, model, speed} in, binary audio out.
type SecondaryEndpoint struct {
	client *http.Client
	config Config
}

type secondaryRequest struct {
	Text  string  `json:"text"`
	Voice string  `json:"voice"`
	Model string  `json:"model"`
	Speed float64 `json:"speed"`
}

func NewSecondaryEndpoint(config Config) *SecondaryEndpoint {
	return &SecondaryEndpoint{
		client: &http.Client{Timeout: config.Timeout},
		config: config,
	}
}

func (p *SecondaryEndpoint) Name() string {
	return "secondary-endpoint"
}

func (p *SecondaryEndpoint) Synthesize(ctx context.Context, text string) (Audio, error) {
	return postJSON(ctx, p.client, p.Name(), p.config.URL, authHeader(p.config.APIKey), secondaryRequest{
		Text:  text,
		Voice: p.config.Voice,
		Model: p.config.Model,
		Speed: p.config.Speed,
	})
}

func authHeader(key string) map[string]string {
	if key == "" {
		return nil
	}
	return map[string]string{"Authorization": "Bearer " + key}
}
