package config

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
)

// Validate checks the settings required by a command mode ("forecast" or
// "serve") and reports every problem at once.
func (c *Config) Validate(mode string) error {
	var problems []string

	switch mode {
	case "forecast":
	case "serve":
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			problems = append(problems, "server.port must be > 0 and <= 65535")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if c.Forecast.DefaultHorizon < 1 || c.Forecast.DefaultHorizon > 10 {
		problems = append(problems, "forecast.default_horizon must be between 1 and 10")
	}
	if c.Forecast.ProviderTimeoutSecs <= 0 {
		problems = append(problems, "forecast.provider_timeout_secs must be > 0")
	}
	if c.Forecast.ClusterThreshold <= 0 || c.Forecast.ClusterThreshold > 1 {
		problems = append(problems, "forecast.cluster_threshold must be in (0, 1]")
	}
	if !c.HasExtractor() {
		problems = append(problems, "at least one extractor is required (openai.key, anthropic.key, gemini.key or local.enabled)")
	}
	switch c.Cache.Driver {
	case "sqlite", "memory", "none":
	case "postgres":
		if c.Cache.DatabaseURL == "" {
			problems = append(problems, "cache.database_url is required for the postgres driver")
		}
	default:
		problems = append(problems, fmt.Sprintf("cache.driver %q is not supported", c.Cache.Driver))
	}
	if c.WorldBank.RatePerSec < 0 {
		problems = append(problems, "worldbank.rate_per_sec must be >= 0")
	}

	if len(problems) > 0 {
		return eris.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// HasExtractor reports whether any extraction provider is configured.
func (c *Config) HasExtractor() bool {
	return c.OpenAI.Key != "" || c.Anthropic.Key != "" || c.Gemini.Key != "" || c.Local.Enabled
}
