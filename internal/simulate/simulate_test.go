package simulate

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/molisha70-dotcom/Economic/internal/model"
	"github.com/molisha70-dotcom/Economic/internal/tier"
)

func profileFor(tr tier.Tier, infl float64) model.CountryProfile {
	_, params := tier.Resolve(tr.String(), nil, "")
	return model.CountryProfile{
		DisplayName:     "Testland",
		BaselineGDPUSD:  1e10,
		IncomeTier:      tr.String(),
		InflationRecent: model.Float64Ptr(infl),
		OpennessRatio:   model.Float64Ptr(0.80),
		InvestmentRate:  model.Float64Ptr(0.25),
		TierParams:      params,
	}
}

func TestRun_NeutralHighIncomeIsFlat(t *testing.T) {
	out := Run(profileFor(tier.High, 2.0), nil, 5)

	require.Len(t, out.Base, 5)
	require.Len(t, out.Low, 5)
	require.Len(t, out.High, 5)
	for i := range out.Base {
		assert.Equal(t, 2.0, out.Base[i])
		assert.Equal(t, out.Base[i]-0.8, out.Low[i])
		assert.Equal(t, out.Base[i]+0.8, out.High[i])
	}
}

func TestRun_BandsByTier(t *testing.T) {
	mid := Run(profileFor(tier.Middle, 4.0), nil, 3)
	low := Run(profileFor(tier.Low, 5.0), nil, 3)
	for i := range mid.Base {
		assert.Equal(t, 4.0, mid.Base[i])
		assert.InDelta(t, 1.0, mid.High[i]-mid.Base[i], 1e-12)
		assert.Equal(t, 5.5, low.Base[i])
		assert.InDelta(t, 1.2, low.Base[i]-low.Low[i], 1e-12)
	}
}

func TestRun_HorizonClamped(t *testing.T) {
	p := profileFor(tier.Middle, 4.0)
	assert.Len(t, Run(p, nil, 0).Base, 1)
	assert.Len(t, Run(p, nil, -3).Base, 1)
	assert.Len(t, Run(p, nil, 15).Base, 10)
	assert.Len(t, Run(p, nil, 15).CPI, 10)
}

func TestRun_LagClampedToSeven(t *testing.T) {
	policy := model.ConsensusPolicy{
		Title:      "Port expansion",
		Lever:      []string{"infrastructure"},
		LagYears:   model.IntPtr(10),
		Scale:      &model.Scale{Value: 2, Unit: model.UnitPctGDP},
		Confidence: model.ConfidenceA,
	}
	out := Run(profileFor(tier.Middle, 4.0), []model.ConsensusPolicy{policy}, 10)

	require.Len(t, out.Trace.Policies, 1)
	assert.Equal(t, 7, out.Trace.Policies[0].Lag)
	assert.Equal(t, LagExplicit, out.Trace.Policies[0].LagSource)
	for i := 0; i < 7; i++ {
		assert.Equal(t, 4.0, out.Base[i], "year %d", i)
	}
	assert.Greater(t, out.Base[7], 4.0)
}

func TestRun_DemandImpulseSplit(t *testing.T) {
	policy := model.ConsensusPolicy{
		Title:      "Rail build-out",
		Lever:      []string{"infrastructure"},
		LagYears:   model.IntPtr(0),
		Scale:      &model.Scale{Value: 5, Unit: model.UnitPctGDP},
		Confidence: model.ConfidenceS,
	}
	out := Run(profileFor(tier.Middle, 4.0), []model.ConsensusPolicy{policy}, 4)

	// tfp 0.15*1*1; capex impulse 1.0*1 split 0.6/0.4.
	assert.InDelta(t, 4.75, out.Base[0], 1e-9)
	assert.InDelta(t, 4.55, out.Base[1], 1e-9)
	assert.InDelta(t, 4.15, out.Base[2], 1e-9)
	assert.InDelta(t, 4.15, out.Base[3], 1e-9)
}

func TestRun_ImpulseBeyondHorizonDropped(t *testing.T) {
	policy := model.ConsensusPolicy{
		Title:      "Late project",
		Lever:      []string{"energy"},
		LagYears:   model.IntPtr(2),
		Scale:      &model.Scale{Value: 5, Unit: model.UnitPctGDP},
		Confidence: model.ConfidenceS,
	}
	out := Run(profileFor(tier.Middle, 4.0), []model.ConsensusPolicy{policy}, 3)
	// year 2 gets tfp 0.15 and 0.6 of the impulse; the 0.4 share falls outside.
	assert.InDelta(t, 4.0, out.Base[1], 1e-9)
	assert.InDelta(t, 4.75, out.Base[2], 1e-9)
}

func TestRun_InflationPenaltyDecays(t *testing.T) {
	out := Run(profileFor(tier.Middle, 9.0), nil, 7)
	// adj = -0.15*5; penalty = 0.015*5*max(0.2, 1-0.2t)
	assert.InDelta(t, 4-0.75-0.075, out.Base[0], 1e-9)
	assert.InDelta(t, 4-0.75-0.06, out.Base[1], 1e-9)
	assert.InDelta(t, 4-0.75-0.015, out.Base[4], 1e-9)
	assert.InDelta(t, 4-0.75-0.015, out.Base[6], 1e-9)
	for i := 1; i < len(out.Base); i++ {
		assert.GreaterOrEqual(t, out.Base[i], out.Base[i-1])
	}
}

func TestRun_GapCapped(t *testing.T) {
	a := Run(profileFor(tier.Middle, 9.0), nil, 3)
	b := Run(profileFor(tier.Middle, 40.0), nil, 3)
	assert.Equal(t, a.Base, b.Base)
}

func TestRun_MacroAdjustments(t *testing.T) {
	p := profileFor(tier.High, 2.0)
	p.InvestmentRate = model.Float64Ptr(0.35)
	p.OpennessRatio = model.Float64Ptr(0.60)
	out := Run(p, nil, 2)
	assert.InDelta(t, 2.0+0.5-0.3, out.Base[0], 1e-9)

	require.Len(t, out.Trace.Adjustments, 3)
	assert.Equal(t, "investment", out.Trace.Adjustments[0].Name)
	assert.InDelta(t, 0.5, out.Trace.Adjustments[0].Value, 1e-9)
	assert.InDelta(t, -0.3, out.Trace.Adjustments[1].Value, 1e-9)
}

func TestRun_MissingMacroContributesZero(t *testing.T) {
	p := profileFor(tier.Low, 5.0)
	p.InvestmentRate = nil
	p.OpennessRatio = model.Float64Ptr(math.NaN())
	p.InflationRecent = nil
	out := Run(p, nil, 3)
	for i, g := range out.Base {
		assert.Equal(t, 5.5, g)
		assert.Equal(t, 5.0, out.CPI[i])
	}
	assert.Nil(t, out.Trace.Adjustments[1].Input)
}

func TestRun_GrowthClamped(t *testing.T) {
	var policies []model.ConsensusPolicy
	for i := 0; i < 5; i++ {
		policies = append(policies, model.ConsensusPolicy{
			Title:      "Mega plan",
			Lever:      []string{"infrastructure", "industry", "automation"},
			LagYears:   model.IntPtr(0),
			Scale:      &model.Scale{Value: 500, Unit: model.UnitPctGDP},
			Confidence: model.ConfidenceS,
		})
	}
	out := Run(profileFor(tier.Low, 5.0), policies, 5)
	for i := range out.Base {
		assert.LessOrEqual(t, out.Base[i], MaxGrowth)
		assert.GreaterOrEqual(t, out.Base[i], MinGrowth)
	}
	assert.Equal(t, 100.0, out.Trace.Policies[0].Intensity)
	assert.Equal(t, MaxGrowth, out.Base[0])
}

func TestRun_Deterministic(t *testing.T) {
	policies := []model.ConsensusPolicy{
		{Title: "FTA", Lever: []string{"trade"}, Confidence: model.ConfidenceB},
		{Title: "Teacher training", Lever: []string{"education"}, Scale: &model.Scale{Value: 1e8, Unit: model.UnitUSD}, Confidence: model.ConfidenceA},
	}
	p := profileFor(tier.Middle, 6.5)
	first := Run(p, policies, 6)
	second := Run(p, policies, 6)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("non-deterministic output (-first +second):\n%s", diff)
	}
}

func TestRun_ZeroTierParamsResolvedFromLabel(t *testing.T) {
	p := model.CountryProfile{IncomeTier: "high_income", BaselineGDPUSD: 1e12}
	out := Run(p, nil, 2)
	assert.Equal(t, "high_income", out.Trace.Tier)
	assert.Equal(t, []float64{2.0, 2.0}, out.Base)
}

func TestRun_CPIPath(t *testing.T) {
	out := Run(profileFor(tier.Middle, 9.0), nil, 3)
	assert.InDelta(t, 7.0, out.CPI[0], 1e-9)
	assert.InDelta(t, 5.8, out.CPI[1], 1e-9)
	assert.InDelta(t, 5.08, out.CPI[2], 1e-9)
}

func TestRun_Explain(t *testing.T) {
	policy := model.ConsensusPolicy{Title: "Port and rail investment", Lever: []string{"infrastructure"}, Confidence: model.ConfidenceC}
	out := Run(profileFor(tier.High, 2.0), []model.ConsensusPolicy{policy}, 5)

	assert.Contains(t, out.Explain, "[Tier] high_income potential_g=2.00")
	assert.Contains(t, out.Explain, "[Adjust] investment input=0.250 value=+0.000")
	assert.Contains(t, out.Explain, "[Policy] Port and rail investment lever=[infrastructure] lag=2 (default:infra)")
	assert.Contains(t, out.Explain, "[Band] ±0.8 horizon=5")
}

func TestResolveLag(t *testing.T) {
	defaults := map[string]int{"infra": 2, "education": 3, "regulation": 1}
	tests := []struct {
		name     string
		explicit *int
		levers   []string
		want     int
		src      string
	}{
		{"explicit", model.IntPtr(4), []string{"education"}, 4, LagExplicit},
		{"negative explicit", model.IntPtr(-2), nil, 0, LagExplicit},
		{"infra", nil, []string{"infrastructure"}, 2, "default:infra"},
		{"logistics", nil, []string{"logistics", "education"}, 2, "default:infra"},
		{"education", nil, []string{"education"}, 3, "default:education"},
		{"governance", nil, []string{"governance"}, 1, "default:regulation"},
		{"trade", nil, []string{"trade"}, 1, LagFallback},
		{"none", nil, nil, 1, LagFallback},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lag, src := ResolveLag(tt.explicit, tt.levers, defaults)
			assert.Equal(t, tt.want, lag)
			assert.Equal(t, tt.src, src)
		})
	}
}

func TestResolveLag_MissingCategoryFallsBack(t *testing.T) {
	lag, src := ResolveLag(nil, []string{"education"}, nil)
	assert.Equal(t, 3, lag)
	assert.Equal(t, "fallback:education", src)
}

func TestIntensity(t *testing.T) {
	tests := []struct {
		name     string
		scale    *model.Scale
		baseline float64
		want     float64
	}{
		{"nil", nil, 1e10, 1},
		{"pct", &model.Scale{Value: 2.5, Unit: model.UnitPctGDP}, 1e10, 2.5},
		{"pct negative", &model.Scale{Value: -3, Unit: model.UnitPctGDP}, 1e10, 0},
		{"pct huge", &model.Scale{Value: 250, Unit: model.UnitPctGDP}, 1e10, 100},
		{"usd", &model.Scale{Value: 1e9, Unit: model.UnitUSD}, 1e10, 10},
		{"usd zero baseline", &model.Scale{Value: 1e9, Unit: model.UnitUSD}, 0, 1},
		{"lcu", &model.Scale{Value: 1e9, Unit: model.UnitLCU}, 1e10, 1},
		{"unknown", &model.Scale{Value: 7, Unit: model.UnitUnknown}, 1e10, 1},
		{"nan", &model.Scale{Value: math.NaN(), Unit: model.UnitPctGDP}, 1e10, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Intensity(tt.scale, tt.baseline), 1e-9)
		})
	}
}

func TestDemandImpulse_TradeUsesReferenceOpenness(t *testing.T) {
	_, tp := tier.Resolve("middle_income", nil, "")
	got := demandImpulse([]string{"trade"}, 10, nil, tp)
	assert.InDelta(t, 0.3*0.8*1.0, got, 1e-9)

	capped := demandImpulse([]string{"trade"}, 10, model.Float64Ptr(1.6), tp)
	assert.InDelta(t, 0.3, capped, 1e-9)
}

func TestDemandImpulse_CapexBeforeCurrent(t *testing.T) {
	_, tp := tier.Resolve("high_income", nil, "")
	got := demandImpulse([]string{"finance", "energy"}, 5, nil, tp)
	assert.InDelta(t, 0.8, got, 1e-9)

	current := demandImpulse([]string{"finance"}, 5, nil, tp)
	assert.InDelta(t, 0.2, current, 1e-9)

	assert.Zero(t, demandImpulse([]string{"security"}, 5, nil, tp))
}

func TestInflationPenalty(t *testing.T) {
	assert.Zero(t, InflationPenalty(0, 0))
	assert.InDelta(t, 0.03, InflationPenalty(2, 0), 1e-12)
	assert.InDelta(t, 0.006, InflationPenalty(2, 9), 1e-12)
}
