package ensemble

import (
	"github.com/molisha70-dotcom/Economic/internal/model"
)

// DefaultClusterThreshold is the minimum similarity for an item to join a
// seed's cluster.
const DefaultClusterThreshold = 0.75

// Cluster partitions members with greedy single-link clustering in input
// order: each unassigned member seeds a cluster and absorbs every later
// unassigned member whose similarity to the seed is at least threshold.
// The result is deterministic for a given input order.
func Cluster(members []model.ClusterMember, threshold float64) []model.Cluster {
	assigned := make([]bool, len(members))
	var clusters []model.Cluster

	for i, seed := range members {
		if assigned[i] {
			continue
		}
		assigned[i] = true
		c := model.Cluster{seed}
		for j := i + 1; j < len(members); j++ {
			if assigned[j] {
				continue
			}
			other := members[j]
			score := Similarity(seed.Item.Title, seed.Item.Lever, other.Item.Title, other.Item.Lever)
			if score >= threshold {
				assigned[j] = true
				c = append(c, other)
			}
		}
		clusters = append(clusters, c)
	}
	return clusters
}
