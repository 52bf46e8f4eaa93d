// Package simulate turns a resolved country profile and a consensus policy
// list into base/low/high annual growth paths with an audit trace.
//
// Growth in year t is
//
//	potential_g + adj + Σ policy tfp shift (from lag) + demand impulse[t] − inflation penalty(t)
//
// clamped to [MinGrowth, MaxGrowth]. Run is a pure function of its inputs.
package simulate

import (
	"math"

	"github.com/molisha70-dotcom/Economic/internal/model"
	"github.com/molisha70-dotcom/Economic/internal/tier"
)

// Bounds.
const (
	MinHorizon = 1
	MaxHorizon = 10
	MinLag     = 0
	MaxLag     = 7
	MinGrowth  = -5.0
	MaxGrowth  = 15.0

	maxIntensity     = 100.0
	neutralIntensity = 1.0
)

// Macro reference points for the adjustment terms.
const (
	refInvestment = 0.25
	refOpenness   = 0.80
	maxInflGap    = 5.0
	cpiConverge   = 0.6
)

// ClampHorizon bounds a horizon to [MinHorizon, MaxHorizon].
func ClampHorizon(h int) int {
	return min(max(h, MinHorizon), MaxHorizon)
}

// ClampLag bounds a lag to [MinLag, MaxLag].
func ClampLag(l int) int {
	return min(max(l, MinLag), MaxLag)
}

// Run simulates horizon years (clamped to [1,10]) of growth for profile
// under policies.
func Run(profile model.CountryProfile, policies []model.ConsensusPolicy, horizon int) model.ScenarioPaths {
	horizon = ClampHorizon(horizon)
	tr, tp := resolveTier(profile)

	trace := &model.Trace{
		Tier:    tr.String(),
		Params:  tp,
		Horizon: horizon,
		Band:    tr.Band(),
	}

	terms, gap := adjustments(profile, tp)
	trace.Adjustments = terms
	var adj float64
	for _, a := range terms {
		adj += a.Value
	}

	potential := make([]float64, horizon)
	demand := make([]float64, horizon)
	for t := range potential {
		potential[t] = tp.PotentialG + adj
	}

	for _, p := range policies {
		pt := policyEffect(p, profile, tp)
		for t := pt.Lag; t < horizon; t++ {
			potential[t] += pt.PotentialPP
		}
		if pt.DemandImpulse != 0 {
			if pt.Lag < horizon {
				demand[pt.Lag] += 0.6 * pt.DemandImpulse
			}
			if pt.Lag+1 < horizon {
				demand[pt.Lag+1] += 0.4 * pt.DemandImpulse
			}
		}
		trace.Policies = append(trace.Policies, pt)
	}

	out := model.ScenarioPaths{
		Base: make([]float64, horizon),
		Low:  make([]float64, horizon),
		High: make([]float64, horizon),
	}
	band := trace.Band
	for t := 0; t < horizon; t++ {
		g := potential[t] + demand[t] - InflationPenalty(gap, t)
		g = clampFinite(g, MinGrowth, MaxGrowth, tp.PotentialG)
		out.Base[t] = g
		out.Low[t] = g - band
		out.High[t] = g + band
	}
	out.CPI = CPIPath(profile.InflationRecent, tp.InflationTarget, horizon)
	out.Trace = trace
	out.Explain = Explain(trace)
	return out
}

func resolveTier(profile model.CountryProfile) (tier.Tier, model.TierParams) {
	t, params := tier.Resolve(profile.IncomeTier, profile.GDPPerCapita, "")
	if profile.TierParams.TFPCoeff != nil || profile.TierParams.PotentialG != 0 {
		params = profile.TierParams
	}
	return t, params
}

// adjustments returns the macro adjustment terms and the capped inflation
// gap that also drives the decaying penalty.
func adjustments(profile model.CountryProfile, tp model.TierParams) ([]model.AdjustTerm, float64) {
	inv := finite(profile.InvestmentRate)
	open := finite(profile.OpennessRatio)
	infl := finite(profile.InflationRecent)

	terms := []model.AdjustTerm{
		{Name: "investment", Input: inv},
		{Name: "openness", Input: open},
		{Name: "inflation_gap", Input: infl},
	}
	var gap float64
	if inv != nil {
		terms[0].Value = 0.5 * (*inv - refInvestment) / 0.10
	}
	if open != nil {
		terms[1].Value = 0.3 * (*open - refOpenness) / 0.20
	}
	if infl != nil {
		gap = math.Min(math.Abs(*infl-tp.InflationTarget), maxInflGap)
		terms[2].Value = -0.15 * gap
	}
	return terms, gap
}

// InflationPenalty is the growth drag in year t from an inflation gap,
// decaying 20% a year down to a floor of one fifth.
func InflationPenalty(gap float64, t int) float64 {
	decay := math.Max(0.2, 1.0-0.2*float64(t))
	return 0.015 * gap * decay
}

// CPIPath converges geometrically from recent inflation to target. Missing
// inflation yields a flat path at target.
func CPIPath(recent *float64, target float64, horizon int) []float64 {
	out := make([]float64, horizon)
	r := finite(recent)
	for t := range out {
		out[t] = target
		if r != nil {
			out[t] += (*r - target) * math.Pow(cpiConverge, float64(t+1))
		}
	}
	return out
}

func finite(v *float64) *float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return nil
	}
	c := *v
	return &c
}

func clampFinite(v, lo, hi, fallback float64) float64 {
	if math.IsNaN(v) {
		v = fallback
	}
	if math.IsNaN(v) {
		v = 0
	}
	return math.Min(math.Max(v, lo), hi)
}
