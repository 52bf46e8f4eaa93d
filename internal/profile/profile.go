// Package profile assembles a CountryProfile from World Bank data, an FX
// rate, defaults, caller overrides and tier resolution.
package profile

import (
	"context"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/molisha70-dotcom/Economic/internal/model"
	"github.com/molisha70-dotcom/Economic/internal/session"
	"github.com/molisha70-dotcom/Economic/internal/tier"
	"github.com/molisha70-dotcom/Economic/pkg/fx"
	"github.com/molisha70-dotcom/Economic/pkg/worldbank"
)

// Defaults fill fields no source provided.
const (
	DefaultBaselineGDPUSD  = 1.0e10
	DefaultInflationRecent = 4.0
	DefaultOpennessRatio   = 0.8
	DefaultInvestmentRate  = 0.25
	DefaultLaborGrowth     = 1.0
	DefaultDebtToGDP       = 0.5
)

// Builder builds profiles. Nil clients are skipped.
type Builder struct {
	WorldBank worldbank.Client
	FX        fx.Client
	Tiers     tier.Table
}

// Build never fails: unreachable sources fall back to defaults, and the
// tier always resolves.
func (b *Builder) Build(ctx context.Context, country string, overrides session.Overrides) model.CountryProfile {
	log := zap.L().With(zap.String("country", country))
	name := cleanName(country)

	p := model.CountryProfile{DisplayName: name}
	var label string

	if b.WorldBank != nil && name != "" {
		wb, err := b.WorldBank.Profile(ctx, name)
		if err != nil {
			log.Warn("profile: world bank unavailable, using defaults", zap.Error(err))
		} else {
			applyWorldBank(&p, wb)
			label = wb.IncomeLevel
		}
	}

	fillDefaults(&p)

	overrideTier := applyOverrides(&p, overrides)

	if hint, ok := countryHint(p.DisplayName, name); ok {
		if t, known := tier.ParseLabel(label); !known || t == tier.Middle {
			log.Debug("profile: applying country tier hint", zap.String("hint", hint))
			label = hint
		}
	}

	tiers := b.Tiers
	if tiers == nil {
		tiers = tier.Defaults()
	}
	resolved, params := tiers.Resolve(label, p.GDPPerCapita, overrideTier)
	p.IncomeTier = resolved.String()
	p.TierParams = params

	if p.FXLCUPerUSD == nil && b.FX != nil && p.ISO3 != "" {
		p.FXLCUPerUSD = b.fxRate(ctx, p.ISO3)
	}
	return p
}

func (b *Builder) fxRate(ctx context.Context, iso3 string) *float64 {
	cur := fx.CurrencyForISO3(iso3)
	if cur == "" {
		return nil
	}
	rate, err := b.FX.Rate(ctx, "USD", cur)
	if err != nil {
		zap.L().Warn("profile: fx rate unavailable", zap.String("currency", cur), zap.Error(err))
		return nil
	}
	return &rate
}

func applyWorldBank(p *model.CountryProfile, wb *worldbank.Profile) {
	if wb.DisplayName != "" {
		p.DisplayName = wb.DisplayName
	}
	p.ISO3 = wb.ISO3
	if v := finite(wb.GDPUSD); v != nil && *v > 0 {
		p.BaselineGDPUSD = *v
	}
	p.GDPPerCapita = finite(wb.GDPPerCapita)
	p.InflationRecent = finite(wb.InflationPct)
	p.OpennessRatio = finite(wb.OpennessRatio)
	p.InvestmentRate = finite(wb.InvestmentRate)
	p.LaborGrowth = finite(wb.PopGrowthPct)
}

func fillDefaults(p *model.CountryProfile) {
	if p.DisplayName == "" {
		p.DisplayName = "Unknown"
	}
	if p.BaselineGDPUSD <= 0 {
		p.BaselineGDPUSD = DefaultBaselineGDPUSD
	}
	setDefault(&p.InflationRecent, DefaultInflationRecent)
	setDefault(&p.OpennessRatio, DefaultOpennessRatio)
	setDefault(&p.InvestmentRate, DefaultInvestmentRate)
	setDefault(&p.LaborGrowth, DefaultLaborGrowth)
	setDefault(&p.DebtToGDP, DefaultDebtToGDP)
}

func setDefault(dst **float64, v float64) {
	if *dst == nil {
		*dst = &v
	}
}

// applyOverrides writes recognized keys onto p and returns the tier
// override, if any. baseline_gdp is accepted as a legacy spelling of
// baseline_gdp_usd, which wins when both are present.
func applyOverrides(p *model.CountryProfile, o session.Overrides) string {
	var tierOverride string
	log := zap.L()

	for k, v := range o {
		key := strings.ToLower(strings.TrimSpace(k))
		switch key {
		case "display_name":
			if s := toString(v); s != "" {
				p.DisplayName = s
			}
		case "iso3":
			p.ISO3 = strings.ToUpper(toString(v))
		case "income_tier":
			tierOverride = toString(v)
		case "baseline_gdp_usd", "baseline_gdp":
			if _, both := o["baseline_gdp_usd"]; both && key == "baseline_gdp" {
				continue
			}
			if f, ok := toFloat(v); ok && f > 0 {
				p.BaselineGDPUSD = f
			} else {
				log.Warn("profile: ignoring invalid baseline override", zap.String("key", k), zap.Any("value", v))
			}
		default:
			dst := numericField(p, key)
			if dst == nil {
				log.Debug("profile: ignoring unknown override", zap.String("key", k))
				continue
			}
			f, ok := toFloat(v)
			if !ok {
				log.Warn("profile: ignoring non-numeric override", zap.String("key", k), zap.Any("value", v))
				continue
			}
			*dst = &f
		}
	}
	return tierOverride
}

func numericField(p *model.CountryProfile, key string) **float64 {
	switch key {
	case "inflation_recent":
		return &p.InflationRecent
	case "openness_ratio":
		return &p.OpennessRatio
	case "investment_rate":
		return &p.InvestmentRate
	case "labor_growth":
		return &p.LaborGrowth
	case "debt_to_gdp":
		return &p.DebtToGDP
	case "gdp_per_capita":
		return &p.GDPPerCapita
	case "fx_lcu_per_usd":
		return &p.FXLCUPerUSD
	}
	return nil
}

var countryTierHints = map[string]string{
	"japan":             model.TierHigh,
	"korea":             model.TierHigh,
	"south korea":       model.TierHigh,
	"republic of korea": model.TierHigh,
	"korea, rep.":       model.TierHigh,
	"united states":     model.TierHigh,
	"united kingdom":    model.TierHigh,
	"germany":           model.TierHigh,
	"france":            model.TierHigh,
	"italy":             model.TierHigh,
	"spain":             model.TierHigh,
	"vietnam":           model.TierMiddle,
	"viet nam":          model.TierMiddle,
	"india":             model.TierMiddle,
	"china":             model.TierMiddle,
}

// countryHint looks up a known tier for the resolved or requested name.
func countryHint(names ...string) (string, bool) {
	for _, n := range names {
		if h, ok := countryTierHints[strings.ToLower(cleanName(n))]; ok {
			return h, true
		}
	}
	return "", false
}

// cleanName trims whitespace and surrounding quotes.
func cleanName(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"'`)
	return strings.TrimSpace(s)
}

func finite(v *float64) *float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return nil
	}
	out := *v
	return &out
}

func toString(v any) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	}
	return ""
}

func toFloat(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case int:
		f = float64(n)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
