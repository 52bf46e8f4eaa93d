// Package forecast wires extraction, consensus, profile building and
// simulation into one request/response pipeline.
package forecast

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/molisha70-dotcom/Economic/internal/ensemble"
	"github.com/molisha70-dotcom/Economic/internal/model"
	"github.com/molisha70-dotcom/Economic/internal/session"
	"github.com/molisha70-dotcom/Economic/internal/simulate"
)

// Extractor gathers per-provider extraction results.
type Extractor interface {
	Gather(ctx context.Context, text string) []model.ExtractionResult
}

// ProfileBuilder resolves a country profile.
type ProfileBuilder interface {
	Build(ctx context.Context, country string, overrides session.Overrides) model.CountryProfile
}

// Request is one forecast request.
type Request struct {
	Text      string            `json:"text"`
	Country   string            `json:"country,omitempty"`
	Horizon   int               `json:"horizon,omitempty"`
	SessionID string            `json:"session_id,omitempty"`
	Overrides session.Overrides `json:"overrides,omitempty"`
}

// Result is the pipeline output.
type Result struct {
	Horizon   int                  `json:"horizon"`
	Scenarios model.ScenarioPaths  `json:"scenarios"`
	Profile   model.CountryProfile `json:"profile_used"`
	Policies  model.ConsensusSet   `json:"policies"`
	Providers []string             `json:"providers"`
	Explain   string               `json:"explain"`
}

// Pipeline runs forecasts. Sessions may be nil.
type Pipeline struct {
	Extractor      Extractor
	Profiles       ProfileBuilder
	Merger         ensemble.Merger
	Sessions       *session.Store
	DefaultHorizon int
}

// ErrEmptyText is returned for a request without policy text.
var ErrEmptyText = eris.New("forecast: policy text is required")

// Run executes one forecast. Session overrides apply first and request
// overrides on top; only session overrides persist. The explain text is
// stored on the session.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, ErrEmptyText
	}
	horizon := req.Horizon
	if horizon == 0 {
		horizon = p.DefaultHorizon
	}
	horizon = simulate.ClampHorizon(horizon)

	log := zap.L().With(
		zap.String("country", req.Country),
		zap.Int("horizon", horizon),
		zap.String("session_id", req.SessionID),
	)

	overrides := session.Overrides{}
	if p.Sessions != nil && req.SessionID != "" {
		overrides = p.Sessions.Overrides(req.SessionID)
	}
	for k, v := range req.Overrides {
		overrides[k] = v
	}

	results := p.Extractor.Gather(ctx, text)
	providers := make([]string, 0, len(results))
	for _, r := range results {
		providers = append(providers, r.Provider)
	}

	consensus := p.Merger.Merge(results)
	prof := p.Profiles.Build(ctx, req.Country, overrides)
	policies := ConvertLCU(consensus.Policies, prof.FXLCUPerUSD)

	paths := simulate.Run(prof, policies, horizon)
	explain := profileLine(prof) + "\n" + paths.Explain
	paths.Explain = explain

	if p.Sessions != nil && req.SessionID != "" {
		p.Sessions.SetExplain(req.SessionID, explain)
	}

	log.Info("forecast: complete",
		zap.Strings("providers", providers),
		zap.Int("policies", len(consensus.Policies)),
		zap.String("tier", prof.IncomeTier),
	)

	return &Result{
		Horizon:   horizon,
		Scenarios: paths,
		Profile:   prof,
		Policies:  consensus,
		Providers: providers,
		Explain:   explain,
	}, nil
}

// ConvertLCU rewrites local-currency scales as USD using lcuPerUSD. The
// input slice is not modified. Without a positive rate, policies pass
// through unchanged.
func ConvertLCU(policies []model.ConsensusPolicy, lcuPerUSD *float64) []model.ConsensusPolicy {
	out := make([]model.ConsensusPolicy, len(policies))
	copy(out, policies)
	if lcuPerUSD == nil || *lcuPerUSD <= 0 {
		return out
	}
	for i, p := range out {
		if p.Scale != nil && p.Scale.Unit == model.UnitLCU {
			out[i].Scale = &model.Scale{Value: p.Scale.Value / *lcuPerUSD, Unit: model.UnitUSD}
		}
	}
	return out
}

func profileLine(p model.CountryProfile) string {
	return fmt.Sprintf("[Profile] %s iso3=%s baseline_gdp_usd=%.3g inflation=%s openness=%s investment=%s fx=%s",
		p.DisplayName, orDash(p.ISO3), p.BaselineGDPUSD,
		fmtPtr(p.InflationRecent), fmtPtr(p.OpennessRatio), fmtPtr(p.InvestmentRate), fmtPtr(p.FXLCUPerUSD))
}

func fmtPtr(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.3g", *v)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
