// Package extract turns policy text into structured extraction results,
// one per provider, and fans out over the configured providers.
package extract

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/molisha70-dotcom/Economic/internal/model"
	"github.com/molisha70-dotcom/Economic/pkg/anthropic"
	"github.com/molisha70-dotcom/Economic/pkg/gemini"
	"github.com/molisha70-dotcom/Economic/pkg/openai"
)

// Provider extracts policies from text.
type Provider interface {
	Name() string
	Extract(ctx context.Context, text string) (model.ExtractionResult, error)
}

// OpenAI extracts with chat completions in JSON mode.
type OpenAI struct {
	Client openai.Client
	Model  string
}

// Name implements Provider.
func (p *OpenAI) Name() string { return "openai" }

// Extract implements Provider.
func (p *OpenAI) Extract(ctx context.Context, text string) (model.ExtractionResult, error) {
	temp := 0.0
	resp, err := p.Client.ChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.Model,
		Messages: []openai.Message{
			{Role: "system", Content: Instructions()},
			{Role: "user", Content: UserMessage(text)},
		},
		Temperature:    &temp,
		ResponseFormat: openai.JSONObject,
	})
	if err != nil {
		return model.ExtractionResult{}, err
	}
	content := resp.Content()
	if content == "" {
		return model.ExtractionResult{}, eris.New("extract: openai returned no content")
	}
	return Parse(p.Name(), content)
}

// Claude extracts with the Anthropic Messages API.
type Claude struct {
	Client    anthropic.Client
	Model     string
	MaxTokens int64
}

// Name implements Provider.
func (p *Claude) Name() string { return "claude" }

// Extract implements Provider.
func (p *Claude) Extract(ctx context.Context, text string) (model.ExtractionResult, error) {
	maxTokens := p.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 2048
	}
	temp := 0.0
	resp, err := p.Client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       p.Model,
		MaxTokens:   maxTokens,
		System:      anthropic.CachedSystem(Instructions()),
		Messages:    []anthropic.Message{{Role: "user", Content: UserMessage(text)}},
		Temperature: &temp,
	})
	if err != nil {
		return model.ExtractionResult{}, err
	}
	resp.Usage.LogCost(p.Model, "extract")
	return Parse(p.Name(), resp.Text())
}

// Gemini extracts with the GenAI SDK in JSON response mode.
type Gemini struct {
	Client gemini.Client
}

// Name implements Provider.
func (p *Gemini) Name() string { return "gemini" }

// Extract implements Provider.
func (p *Gemini) Extract(ctx context.Context, text string) (model.ExtractionResult, error) {
	out, err := p.Client.GenerateJSON(ctx, Prompt(text))
	if err != nil {
		return model.ExtractionResult{}, err
	}
	return Parse(p.Name(), out)
}
