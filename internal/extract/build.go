package extract

import (
	"context"
	"time"

	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"

	"github.com/molisha70-dotcom/Economic/internal/config"
	"github.com/molisha70-dotcom/Economic/internal/resilience"
	"github.com/molisha70-dotcom/Economic/pkg/anthropic"
	"github.com/molisha70-dotcom/Economic/pkg/gemini"
	"github.com/molisha70-dotcom/Economic/pkg/openai"
)

// New builds a Gatherer from configuration. A provider is enabled when its
// API key is set. The local extractor is always attached; local.enabled
// decides whether it votes on every run or only serves as the fallback.
func New(ctx context.Context, cfg *config.Config) *Gatherer {
	g := &Gatherer{
		Local:        Local{},
		IncludeLocal: cfg.Local.Enabled,
		Timeout:      time.Duration(cfg.Forecast.ProviderTimeoutSecs) * time.Second,
		Retry:        resilience.PolicyFrom(cfg.Retry.MaxAttempts, cfg.Retry.InitialBackoffMS, cfg.Retry.MaxBackoffMS),
		Breakers:     resilience.NewBreakers(resilience.BreakerConfigFrom(cfg.Circuit.FailureThreshold, cfg.Circuit.ResetTimeoutSecs)),
	}

	if cfg.OpenAI.Key != "" {
		g.Providers = append(g.Providers, &OpenAI{
			Client: openai.NewClient(cfg.OpenAI.Key, openai.WithBaseURL(cfg.OpenAI.BaseURL), openai.WithModel(cfg.OpenAI.Model)),
			Model:  cfg.OpenAI.Model,
		})
	}
	if cfg.Anthropic.Key != "" {
		g.Providers = append(g.Providers, &Claude{
			// Retries are handled by the Gatherer.
			Client:    anthropic.NewClient(cfg.Anthropic.Key, option.WithMaxRetries(0)),
			Model:     cfg.Anthropic.Model,
			MaxTokens: int64(cfg.Anthropic.MaxTokens),
		})
	}
	if cfg.Gemini.Key != "" {
		client, err := gemini.NewClient(ctx, cfg.Gemini.Key, gemini.WithModel(cfg.Gemini.Model))
		if err != nil {
			zap.L().Warn("extract: gemini disabled", zap.Error(err))
		} else {
			g.Providers = append(g.Providers, &Gemini{Client: client})
		}
	}

	names := make([]string, 0, len(g.Providers))
	for _, p := range g.Providers {
		names = append(names, p.Name())
	}
	zap.L().Info("extract: providers configured",
		zap.Strings("providers", names),
		zap.Bool("local_votes", g.IncludeLocal),
	)
	return g
}
