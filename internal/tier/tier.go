// Package tier resolves an income-tier label or GDP per capita to one of
// three fixed income tiers and its macro-parameter bundle.
package tier

import (
	"math"
	"strings"

	"github.com/molisha70-dotcom/Economic/internal/model"
)

// Tier is an income tier key.
type Tier string

// The three income tiers.
const (
	High   Tier = model.TierHigh
	Middle Tier = model.TierMiddle
	Low    Tier = model.TierLow
)

// All lists the tiers from richest to poorest.
var All = []Tier{High, Middle, Low}

// GDP per capita (current USD) bucket bounds.
const (
	lowIncomeCeiling    = 1500.0
	middleIncomeCeiling = 13000.0
)

// String returns the tier key.
func (t Tier) String() string { return string(t) }

// Band returns the half-width of the low/high scenario band for the tier.
func (t Tier) Band() float64 {
	switch t {
	case High:
		return 0.8
	case Low:
		return 1.2
	default:
		return 1.0
	}
}

var labelAliases = map[string]Tier{
	"hic":                 High,
	"high":                High,
	"high income":         High,
	"mic":                 Middle,
	"umc":                 Middle,
	"lmc":                 Middle,
	"middle":              Middle,
	"middle income":       Middle,
	"upper middle income": Middle,
	"lower middle income": Middle,
	"lic":                 Low,
	"low":                 Low,
	"low income":          Low,
}

// ParseLabel maps a tier label to a Tier. Matching ignores case, surrounding
// whitespace and "_"/"-" separators. ok is false for an empty label; any
// other unrecognized label resolves to Middle.
func ParseLabel(label string) (t Tier, ok bool) {
	s := strings.ToLower(strings.TrimSpace(label))
	s = strings.NewReplacer("_", " ", "-", " ").Replace(s)
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return "", false
	}
	if t, found := labelAliases[s]; found {
		return t, true
	}
	switch {
	case strings.Contains(s, "middle"):
		return Middle, true
	case strings.Contains(s, "high"):
		return High, true
	case strings.Contains(s, "low"):
		return Low, true
	}
	return Middle, true
}

// FromGDPPerCapita buckets a GDP per capita value. ok is false when the
// value is missing, non-finite or not positive.
func FromGDPPerCapita(gdpPerCapita *float64) (t Tier, ok bool) {
	if gdpPerCapita == nil {
		return "", false
	}
	v := *gdpPerCapita
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return "", false
	}
	switch {
	case v < lowIncomeCeiling:
		return Low, true
	case v < middleIncomeCeiling:
		return Middle, true
	default:
		return High, true
	}
}

// Resolve picks a tier by precedence: override, label, GDP per capita
// bucket, then Middle. It always returns one of the three tiers with a
// complete parameter bundle from the default table.
func Resolve(label string, gdpPerCapita *float64, override string) (Tier, model.TierParams) {
	return defaultTable.Resolve(label, gdpPerCapita, override)
}

// Resolve is the table-bound form of the package-level Resolve.
func (tb Table) Resolve(label string, gdpPerCapita *float64, override string) (Tier, model.TierParams) {
	t := pick(label, gdpPerCapita, override)
	return t, tb.Params(t)
}

func pick(label string, gdpPerCapita *float64, override string) Tier {
	if t, ok := ParseLabel(override); ok {
		return t
	}
	if t, ok := ParseLabel(label); ok {
		return t
	}
	if t, ok := FromGDPPerCapita(gdpPerCapita); ok {
		return t
	}
	return Middle
}
