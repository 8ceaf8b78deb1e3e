package rank

import (
	"sort"

	"github.com/aroundme/aroundme/internal/dedupe"
	"github.com/aroundme/aroundme/internal/geo"
	"github.com/aroundme/aroundme/internal/model"
)

// Diversity defaults: at most two locations per chain, spaced at least
// 200 m apart.
const (
	DefaultMaxSameChain     = 2
	DefaultMinChainDistance = 200.0
)

// ApplyDiversityFilter caps how many same-chain locations survive and
// enforces minimum spacing between them. Independent places always pass
// through. Within a chain, the best locations by (composite score,
// rating) are kept greedily, skipping any location too close to one
// already kept. The survivors keep their ranked order.
func ApplyDiversityFilter(places []model.Place, maxSameChain int, minDistance float64) []model.Place {
	if len(places) == 0 {
		return places
	}

	chainGroups := make(map[string][]int)
	for i := range places {
		if chain := dedupe.ChainToken(places[i].Name); chain != "" {
			chainGroups[chain] = append(chainGroups[chain], i)
		}
	}

	keep := make(map[int]bool, len(places))
	for i := range places {
		keep[i] = true
	}

	for _, indices := range chainGroups {
		sorted := append([]int(nil), indices...)
		sort.SliceStable(sorted, func(a, b int) bool {
			pa, pb := &places[sorted[a]], &places[sorted[b]]
			if pa.EnhancedScore != pb.EnhancedScore {
				return pa.EnhancedScore > pb.EnhancedScore
			}
			return pa.Rating > pb.Rating
		})

		var selected []int
		for _, idx := range sorted {
			if len(selected) >= maxSameChain {
				break
			}
			tooClose := false
			for _, sel := range selected {
				if dist, ok := geo.Between(places[idx].Coordinates, places[sel].Coordinates); ok && dist < minDistance {
					tooClose = true
					break
				}
			}
			if !tooClose {
				selected = append(selected, idx)
			}
		}

		for _, idx := range indices {
			keep[idx] = false
		}
		for _, idx := range selected {
			keep[idx] = true
		}
	}

	result := make([]model.Place, 0, len(places))
	for i := range places {
		if keep[i] {
			result = append(result, places[i])
		}
	}
	return result
}
