// Package gemini wraps the Google GenAI SDK for JSON-mode text generation.
package gemini

import (
	"context"
	"net/http"

	"github.com/rotisserie/eris"
	"google.golang.org/genai"
)

const defaultModel = "gemini-2.0-flash"

// Client generates JSON text from a prompt.
type Client interface {
	GenerateJSON(ctx context.Context, prompt string) (string, error)
}

// Option configures the client.
type Option func(*genai.ClientConfig, *string)

// WithModel overrides the default model. Empty values are ignored.
func WithModel(model string) Option {
	return func(_ *genai.ClientConfig, m *string) {
		if model != "" {
			*m = model
		}
	}
}

// WithBaseURL points the client at a different API host.
func WithBaseURL(url string) Option {
	return func(cfg *genai.ClientConfig, _ *string) {
		if url != "" {
			cfg.HTTPOptions.BaseURL = url
		}
	}
}

// WithHTTPClient overrides the HTTP client used by the SDK.
func WithHTTPClient(hc *http.Client) Option {
	return func(cfg *genai.ClientConfig, _ *string) {
		cfg.HTTPClient = hc
	}
}

type sdkClient struct {
	client *genai.Client
	model  string
}

// NewClient creates a Gemini API client.
func NewClient(ctx context.Context, apiKey string, opts ...Option) (Client, error) {
	if apiKey == "" {
		return nil, eris.New("gemini: api key is required")
	}
	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	model := defaultModel
	for _, o := range opts {
		o(cfg, &model)
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, eris.Wrap(err, "gemini: create client")
	}
	return &sdkClient{client: client, model: model}, nil
}

func (c *sdkClient) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	temp := float32(0)
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		Temperature:      &temp,
	})
	if err != nil {
		return "", eris.Wrapf(err, "gemini: generate content (model=%s)", c.model)
	}
	text := resp.Text()
	if text == "" {
		return "", eris.New("gemini: empty response")
	}
	return text, nil
}
