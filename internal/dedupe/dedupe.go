package dedupe

import (
	"github.com/aroundme/aroundme/internal/geo"
	"github.com/aroundme/aroundme/internal/model"
)

const (
	// DistanceThresholdMeters is how close two records must be before a
	// name-similarity check can confirm them as duplicates.
	DistanceThresholdMeters = 100.0
	// SimilarityThreshold is the minimum normalized-name similarity for
	// nearby records. Proximity alone is not sufficient: two different
	// businesses can share an address or plaza.
	SimilarityThreshold = 0.8
)

// AreDuplicates reports whether two candidates describe the same physical
// place. Nearby records (≤100 m) additionally need similar normalized
// names. Independently of distance, equal non-empty normalized names are
// treated as duplicates — a broad rule that can merge distinct branches
// of the same chain; kept intentionally, with the diversity pass limiting
// the damage downstream.
func AreDuplicates(a, b *model.Place) bool {
	if dist, ok := geo.Between(a.Coordinates, b.Coordinates); ok {
		if dist <= DistanceThresholdMeters {
			na := NormalizeName(a.Name)
			nb := NormalizeName(b.Name)
			if Similarity(na, nb) >= SimilarityThreshold {
				return true
			}
		}
	}

	na := NormalizeName(a.Name)
	nb := NormalizeName(b.Name)
	return na != "" && na == nb
}

// Merge fuses candidate lists from multiple providers into one
// deduplicated list. The first list seeds the result; every later
// candidate is tested against the accumulated set and either merged into
// the first match or appended as new. The earlier-seen candidate survives
// as the canonical record.
func Merge(lists ...[]model.Place) []model.Place {
	var merged []model.Place
	for _, list := range lists {
		for _, cand := range list {
			found := false
			for i := range merged {
				if AreDuplicates(&merged[i], &cand) {
					mergeInto(&merged[i], &cand)
					found = true
					break
				}
			}
			if !found {
				merged = append(merged, cand)
			}
		}
	}
	return merged
}

// mergeInto folds the incoming record's metadata into the canonical one:
// categories union, provider ids attached alongside, review counts and
// reviews accumulated. The canonical name/address/coordinates stay.
func mergeInto(canonical, incoming *model.Place) {
	for provider, id := range incoming.ProviderIDs {
		canonical.SetProviderID(provider, id)
	}
	canonical.MergeCategories(incoming.Categories)

	if incoming.ReviewCount > canonical.ReviewCount {
		canonical.ReviewCount = incoming.ReviewCount
	}
	if canonical.Rating == 0 && incoming.Rating > 0 {
		canonical.Rating = incoming.Rating
	}
	if canonical.PriceLevel == 0 && incoming.PriceLevel > 0 {
		canonical.PriceLevel = incoming.PriceLevel
	}
	if canonical.Coordinates == nil && incoming.Coordinates != nil {
		canonical.Coordinates = incoming.Coordinates
	}
	canonical.Reviews = append(canonical.Reviews, incoming.Reviews...)

	if incoming.Source != "" && incoming.Source != canonical.Source {
		canonical.Source = model.SourceMerged
	}
}
