package simulate

import (
	"math"
	"slices"

	"github.com/molisha70-dotcom/Economic/internal/lever"
	"github.com/molisha70-dotcom/Economic/internal/model"
)

// Demand impulse lever groups, checked in this order.
var (
	capexLevers   = []string{lever.Infrastructure, lever.Industry, lever.Energy, lever.Logistics}
	currentLevers = []string{lever.Regulation, lever.Governance, lever.Finance}
	tradeLevers   = []string{lever.Trade}
)

// Lag source labels recorded in the trace.
const (
	LagExplicit = "explicit"
	LagDefault  = "default"
	LagFallback = "fallback"
)

func policyEffect(p model.ConsensusPolicy, profile model.CountryProfile, tp model.TierParams) model.PolicyTrace {
	levers := lever.NormalizeAll(p.Lever)
	lag, src := ResolveLag(p.LagYears, levers, tp.DefaultLags)
	intensity := Intensity(p.Scale, profile.BaselineGDPUSD)
	cw := p.Confidence.Weight()

	var tfp float64
	for _, l := range levers {
		tfp += tp.TFPCoeff[l] * (intensity / 5.0) * cw
	}
	if math.IsNaN(tfp) || math.IsInf(tfp, 0) {
		tfp = 0
	}

	return model.PolicyTrace{
		Title:         p.Title,
		Lever:         levers,
		Lag:           lag,
		LagSource:     src,
		Intensity:     intensity,
		PotentialPP:   tfp,
		DemandImpulse: demandImpulse(levers, intensity, profile.OpennessRatio, tp),
	}
}

// ResolveLag returns the effective lag in [MinLag, MaxLag] and where it came
// from. Without an explicit lag the dominant (first) lever picks a
// default_lags category.
func ResolveLag(explicit *int, levers []string, defaults map[string]int) (int, string) {
	if explicit != nil {
		return ClampLag(*explicit), LagExplicit
	}
	if len(levers) == 0 {
		return 1, LagFallback
	}

	var category string
	var fallback int
	switch levers[0] {
	case lever.Infrastructure, lever.Logistics:
		category, fallback = "infra", 2
	case lever.Education:
		category, fallback = "education", 3
	case lever.Regulation, lever.Governance:
		category, fallback = "regulation", 1
	default:
		return 1, LagFallback
	}
	if v, ok := defaults[category]; ok {
		return ClampLag(v), LagDefault + ":" + category
	}
	return ClampLag(fallback), LagFallback + ":" + category
}

// Intensity converts a scale to a %GDP-equivalent in [0,100]. Scales that
// are absent, non-finite or in units other than %GDP/USD are neutral.
func Intensity(s *model.Scale, baselineGDPUSD float64) float64 {
	if s == nil || math.IsNaN(s.Value) || math.IsInf(s.Value, 0) {
		return neutralIntensity
	}
	switch s.Unit {
	case model.UnitPctGDP:
		return clamp(s.Value, 0, maxIntensity)
	case model.UnitUSD:
		if baselineGDPUSD > 0 && !math.IsInf(baselineGDPUSD, 0) {
			return clamp(100*s.Value/baselineGDPUSD, 0, maxIntensity)
		}
	}
	return neutralIntensity
}

func demandImpulse(levers []string, intensity float64, openness *float64, tp model.TierParams) float64 {
	var v float64
	switch {
	case anyOf(levers, capexLevers):
		v = tp.FiscalMultiplier.Capex * (intensity / 5.0)
	case anyOf(levers, currentLevers):
		v = tp.FiscalMultiplier.Current * (intensity / 5.0) * 0.5
	case anyOf(levers, tradeLevers):
		open := refOpenness
		if o := finite(openness); o != nil {
			open = *o
		}
		v = tp.TradeElasticity * math.Min(1, open) * (intensity / 10.0)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func anyOf(levers, group []string) bool {
	for _, l := range levers {
		if slices.Contains(group, l) {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
