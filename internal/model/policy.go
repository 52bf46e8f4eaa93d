package model

import "strings"

// Confidence is an extraction confidence letter, ordered S > A > B > C > D.
type Confidence string

// Confidence letters.
const (
	ConfidenceS Confidence = "S"
	ConfidenceA Confidence = "A"
	ConfidenceB Confidence = "B"
	ConfidenceC Confidence = "C"
	ConfidenceD Confidence = "D"
)

// confidenceWeights maps each letter to its vote/simulation weight.
var confidenceWeights = map[Confidence]float64{
	ConfidenceS: 1.0,
	ConfidenceA: 0.9,
	ConfidenceB: 0.7,
	ConfidenceC: 0.5,
	ConfidenceD: 0.3,
}

// ParseConfidence maps a raw letter to a Confidence. Unknown or empty input
// yields B, the extraction schema default.
func ParseConfidence(s string) Confidence {
	c := Confidence(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := confidenceWeights[c]; ok {
		return c
	}
	return ConfidenceB
}

// Valid reports whether c is one of the five letters.
func (c Confidence) Valid() bool {
	_, ok := confidenceWeights[c]
	return ok
}

// Weight returns the weight for c. Unknown letters weigh as B.
func (c Confidence) Weight() float64 {
	if w, ok := confidenceWeights[c]; ok {
		return w
	}
	return confidenceWeights[ConfidenceB]
}

// ConfidenceFromScore maps a cluster vote score back to a letter.
func ConfidenceFromScore(score float64) Confidence {
	switch {
	case score >= 0.85:
		return ConfidenceS
	case score >= 0.70:
		return ConfidenceA
	case score >= 0.55:
		return ConfidenceB
	case score >= 0.40:
		return ConfidenceC
	default:
		return ConfidenceD
	}
}

// Unit is the unit of a policy scale.
type Unit string

// Scale units.
const (
	UnitUSD     Unit = "USD"
	UnitLCU     Unit = "LCU"
	UnitPctGDP  Unit = "%GDP"
	UnitQty     Unit = "qty"
	UnitUnknown Unit = "unknown"
)

// unitPriority orders units for consensus scale selection (higher wins).
var unitPriority = map[Unit]int{
	UnitPctGDP:  5,
	UnitUSD:     4,
	UnitLCU:     3,
	UnitQty:     2,
	UnitUnknown: 1,
}

// ParseUnit maps a raw unit string to a Unit. Unrecognized input is unknown.
func ParseUnit(s string) Unit {
	t := strings.TrimSpace(s)
	switch strings.ToLower(t) {
	case "usd", "us$", "$":
		return UnitUSD
	case "lcu":
		return UnitLCU
	case "%gdp", "% gdp", "pct_gdp", "percent_gdp":
		return UnitPctGDP
	case "qty":
		return UnitQty
	}
	return UnitUnknown
}

// Priority returns the unit's rank for scale selection; 0 for invalid units.
func (u Unit) Priority() int {
	return unitPriority[u]
}

// Scale is the magnitude of a policy.
type Scale struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

// Direction tags accepted from extractors.
var Directions = []string{"demand+", "supply+", "inflation+", "inflation-", "external+"}

// PolicyItem is one policy reported by one extraction source.
type PolicyItem struct {
	Title      string     `json:"title"`
	Lever      []string   `json:"lever"`
	Scale      *Scale     `json:"scale"`
	Direction  []string   `json:"direction"`
	LagYears   *int       `json:"lag_years"`
	Confidence Confidence `json:"confidence"`
}

// ExtractionResult is one provider's structured reading of the policy text.
type ExtractionResult struct {
	Provider     string       `json:"provider,omitempty"`
	HorizonYears int          `json:"horizon_years"`
	Policies     []PolicyItem `json:"policies"`
}

// ClusterMember is a provider-tagged policy item.
type ClusterMember struct {
	Provider string
	Item     PolicyItem
}

// Cluster is a non-empty group of items judged equivalent.
type Cluster []ClusterMember

// ConsensusPolicy is the merged representative of a surviving cluster.
type ConsensusPolicy struct {
	Title      string     `json:"title"`
	Lever      []string   `json:"lever"`
	Direction  []string   `json:"direction"`
	LagYears   *int       `json:"lag_years"`
	Scale      *Scale     `json:"scale"`
	Confidence Confidence `json:"confidence"`
	Score      float64    `json:"score,omitempty"`
	Providers  []string   `json:"providers,omitempty"`
}

// ConsensusSet is the merger's output.
type ConsensusSet struct {
	HorizonYears int               `json:"horizon_years"`
	Policies     []ConsensusPolicy `json:"policies"`
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int { return &v }

// Float64Ptr returns a pointer to v.
func Float64Ptr(v float64) *float64 { return &v }
