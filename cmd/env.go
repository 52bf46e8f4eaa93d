package main

import (
	"context"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/molisha70-dotcom/Economic/internal/config"
	"github.com/molisha70-dotcom/Economic/internal/ensemble"
	"github.com/molisha70-dotcom/Economic/internal/extract"
	"github.com/molisha70-dotcom/Economic/internal/forecast"
	"github.com/molisha70-dotcom/Economic/internal/profile"
	"github.com/molisha70-dotcom/Economic/internal/resilience"
	"github.com/molisha70-dotcom/Economic/internal/session"
	"github.com/molisha70-dotcom/Economic/internal/store"
	"github.com/molisha70-dotcom/Economic/internal/tier"
	"github.com/molisha70-dotcom/Economic/pkg/fx"
	"github.com/molisha70-dotcom/Economic/pkg/worldbank"
)

// forecastEnv holds the clients, cache and pipeline shared by the
// forecast and serve commands.
type forecastEnv struct {
	Cache    store.Cache
	Sessions *session.Store
	Pipeline *forecast.Pipeline
}

// Close releases resources held by the environment.
func (e *forecastEnv) Close() {
	if e.Cache != nil {
		_ = e.Cache.Close()
	}
}

// loadTiers returns the configured tier table, or the built-in one.
func loadTiers(c *config.Config) (tier.Table, error) {
	if c.Forecast.TiersFile == "" {
		return tier.Defaults(), nil
	}
	tb, err := tier.LoadFile(c.Forecast.TiersFile)
	if err != nil {
		return nil, err
	}
	zap.L().Info("loaded tier table", zap.String("path", c.Forecast.TiersFile))
	return tb, nil
}

// initEnv validates the config for mode and builds the forecast pipeline.
// Callers should defer env.Close().
func initEnv(ctx context.Context, c *config.Config, mode string) (*forecastEnv, error) {
	if err := c.Validate(mode); err != nil {
		return nil, err
	}

	tiers, err := loadTiers(c)
	if err != nil {
		return nil, err
	}

	ttl := time.Duration(c.Cache.TTLHours) * time.Hour
	cache, err := store.Open(ctx, c.Cache.Driver, c.Cache.DatabaseURL, ttl)
	if err != nil {
		return nil, eris.Wrap(err, "open cache")
	}
	if n, err := cache.DeleteExpired(ctx); err != nil {
		zap.L().Warn("cache cleanup failed", zap.Error(err))
	} else if n > 0 {
		zap.L().Debug("cache cleanup", zap.Int("deleted", n))
	}

	retry := resilience.PolicyFrom(c.Retry.MaxAttempts, c.Retry.InitialBackoffMS, c.Retry.MaxBackoffMS)
	hc := &http.Client{Timeout: time.Duration(c.WorldBank.TimeoutSecs) * time.Second}

	wb := worldbank.NewClient(
		worldbank.WithBaseURL(c.WorldBank.BaseURL),
		worldbank.WithHTTPClient(hc),
		worldbank.WithRateLimit(c.WorldBank.RatePerSec),
		worldbank.WithRetry(retry),
		worldbank.WithCache(cache),
	)
	rates := fx.NewClient(
		fx.WithBaseURL(c.FX.BaseURL),
		fx.WithHTTPClient(hc),
		fx.WithRetry(retry),
		fx.WithCache(cache),
	)

	sessions := session.New()
	env := &forecastEnv{
		Cache:    cache,
		Sessions: sessions,
		Pipeline: &forecast.Pipeline{
			Extractor:      extract.New(ctx, c),
			Profiles:       &profile.Builder{WorldBank: wb, FX: rates, Tiers: tiers},
			Merger:         ensemble.Merger{ClusterThreshold: c.Forecast.ClusterThreshold},
			Sessions:       sessions,
			DefaultHorizon: c.Forecast.DefaultHorizon,
		},
	}
	return env, nil
}
