package ensemble

import (
	"math"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/molisha70-dotcom/Economic/internal/lever"
	"github.com/molisha70-dotcom/Economic/internal/model"
)

const (
	// ScoreThreshold is the minimum cluster vote score for a consensus policy.
	ScoreThreshold = 0.5
	// MinHorizon is the floor applied to the merged horizon.
	MinHorizon = 5

	maxLevers     = 3
	maxDirections = 3
)

// providerWeights are the per-provider vote weights.
var providerWeights = map[string]float64{
	"openai": 0.4,
	"claude": 0.35,
	"gemini": 0.25,
	"local":  0.15,
}

const defaultProviderWeight = 0.2

// providerAliases maps vendor names onto the weighted provider keys.
var providerAliases = map[string]string{
	"anthropic": "claude",
	"gpt":       "openai",
	"google":    "gemini",
}

// ProviderKey canonicalizes a provider id: lowercase, then the first known
// provider name the id starts with ("local_rules_v1" -> "local"). Unknown ids
// are returned lowercased and get the default weight.
func ProviderKey(id string) string {
	s := strings.ToLower(strings.TrimSpace(id))
	for _, name := range []string{"openai", "claude", "gemini", "local"} {
		if strings.HasPrefix(s, name) {
			return name
		}
	}
	for alias, name := range providerAliases {
		if strings.HasPrefix(s, alias) {
			return name
		}
	}
	if s == "" {
		return "unknown"
	}
	return s
}

// ProviderWeight returns the vote weight for a provider id.
func ProviderWeight(id string) float64 {
	if w, ok := providerWeights[ProviderKey(id)]; ok {
		return w
	}
	return defaultProviderWeight
}

// VoteWeight is a member's vote: provider weight times confidence weight.
func VoteWeight(m model.ClusterMember) float64 {
	return ProviderWeight(m.Provider) * m.Item.Confidence.Weight()
}

// Merger merges extraction results into a consensus set.
type Merger struct {
	// ClusterThreshold is the similarity needed to join a cluster.
	ClusterThreshold float64
}

// Merge merges results with the default cluster threshold.
func Merge(results []model.ExtractionResult) model.ConsensusSet {
	return Merger{ClusterThreshold: DefaultClusterThreshold}.Merge(results)
}

// Merge clusters the items of every usable result, drops clusters scoring
// below ScoreThreshold and emits one consensus policy per survivor. Only
// results with at least one titled item count toward the horizon. It never
// fails: no usable input yields an empty set with the minimum horizon.
func (m Merger) Merge(results []model.ExtractionResult) model.ConsensusSet {
	threshold := m.ClusterThreshold
	if threshold <= 0 || math.IsNaN(threshold) {
		threshold = DefaultClusterThreshold
	}

	out := model.ConsensusSet{HorizonYears: MinHorizon, Policies: []model.ConsensusPolicy{}}
	members := Flatten(results)
	for _, r := range results {
		if usable(r) && r.HorizonYears > out.HorizonYears {
			out.HorizonYears = r.HorizonYears
		}
	}

	log := zap.L().With(zap.String("component", "ensemble"))
	for _, c := range Cluster(members, threshold) {
		score := Score(c)
		if score < ScoreThreshold {
			log.Debug("ensemble: cluster dropped",
				zap.String("title", c[0].Item.Title),
				zap.Int("members", len(c)),
				zap.Float64("score", score),
			)
			continue
		}
		out.Policies = append(out.Policies, consensus(c, score))
	}

	log.Debug("ensemble: merged",
		zap.Int("results", len(results)),
		zap.Int("items", len(members)),
		zap.Int("policies", len(out.Policies)),
		zap.Int("horizon_years", out.HorizonYears),
	)
	return out
}

// Flatten tags every usable item with its provider and normalizes its
// levers. Items without a title are skipped.
func Flatten(results []model.ExtractionResult) []model.ClusterMember {
	var members []model.ClusterMember
	for _, r := range results {
		for _, item := range r.Policies {
			if strings.TrimSpace(item.Title) == "" {
				continue
			}
			item.Lever = lever.NormalizeAll(item.Lever)
			members = append(members, model.ClusterMember{Provider: r.Provider, Item: item})
		}
	}
	return members
}

func usable(r model.ExtractionResult) bool {
	for _, item := range r.Policies {
		if strings.TrimSpace(item.Title) != "" {
			return true
		}
	}
	return false
}

// Score sums the member vote weights of a cluster.
func Score(c model.Cluster) float64 {
	var s float64
	for _, m := range c {
		s += VoteWeight(m)
	}
	return s
}

func consensus(c model.Cluster, score float64) model.ConsensusPolicy {
	p := model.ConsensusPolicy{
		Title:      longestTitle(c),
		Confidence: model.ConfidenceFromScore(score),
		Score:      score,
	}

	var levers, dirs [][]string
	var lags []int
	seenProvider := map[string]bool{}
	for _, m := range c {
		levers = append(levers, m.Item.Lever)
		dirs = append(dirs, cleanTags(m.Item.Direction))
		if m.Item.LagYears != nil {
			lags = append(lags, max(0, *m.Item.LagYears))
		}
		if key := ProviderKey(m.Provider); !seenProvider[key] {
			seenProvider[key] = true
			p.Providers = append(p.Providers, key)
		}
	}

	p.Lever = topN(levers, maxLevers)
	p.Direction = topN(dirs, maxDirections)
	p.LagYears = lowerMedian(lags)
	p.Scale = pickScale(c)
	return p
}

func longestTitle(c model.Cluster) string {
	best := ""
	for _, m := range c {
		t := strings.TrimSpace(m.Item.Title)
		if len([]rune(t)) > len([]rune(best)) {
			best = t
		}
	}
	return best
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := map[string]bool{}
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// topN returns the n most frequent tokens, breaking ties by first-seen order.
func topN(groups [][]string, n int) []string {
	counts := map[string]int{}
	var order []string
	for _, g := range groups {
		for _, tok := range g {
			if _, ok := counts[tok]; !ok {
				order = append(order, tok)
			}
			counts[tok]++
		}
	}
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > n {
		order = order[:n]
	}
	if order == nil {
		return []string{}
	}
	return order
}

func lowerMedian(xs []int) *int {
	if len(xs) == 0 {
		return nil
	}
	sorted := append([]int(nil), xs...)
	sort.Ints(sorted)
	return model.IntPtr(sorted[(len(sorted)-1)/2])
}

// pickScale returns the scale whose unit ranks highest; unknown or invalid
// units and non-finite values never qualify.
func pickScale(c model.Cluster) *model.Scale {
	var best *model.Scale
	bestRank := model.UnitUnknown.Priority()
	for _, m := range c {
		s := m.Item.Scale
		if s == nil || math.IsNaN(s.Value) || math.IsInf(s.Value, 0) {
			continue
		}
		if rank := s.Unit.Priority(); rank > bestRank {
			bestRank = rank
			cp := *s
			best = &cp
		}
	}
	return best
}
