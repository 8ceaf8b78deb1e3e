package model

import "strings"

// Provider names used as keys in Place.ProviderIDs and as Source tags.
const (
	SourceGoogle         = "google"
	SourceYelp           = "yelp"
	SourceGoogleFallback = "google_fallback"
	SourceMerged         = "merged"
)

// Coordinates is a latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Review is a single review attached to a place, most-recent-first as
// returned by the source.
type Review struct {
	Text   string  `json:"text"`
	Rating float64 `json:"rating,omitempty"`
	Author string  `json:"author,omitempty"`
	Source string  `json:"source,omitempty"`
}

// Place is one normalized, possibly multi-provider-merged place record
// flowing through the pipeline for one query. Created by a provider
// normalizer, mutated in place when a second provider's record is merged
// into it, and dropped by the must-have filter or the top-N cut. Lives
// only for the duration of one search request.
type Place struct {
	// ProviderIDs maps provider name to the provider-specific id. A merged
	// place carries both a google and a yelp id.
	ProviderIDs map[string]string `json:"provider_ids"`

	Name        string       `json:"name"`
	Address     string       `json:"address"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`

	Rating      float64 `json:"rating"`       // [0,5], 0 = unknown
	ReviewCount int     `json:"review_count"` // >= 0
	PriceLevel  int     `json:"price_level"`  // [0,4], 0 = unknown

	// Categories is the union of all provider category/type tags seen.
	Categories []string `json:"categories,omitempty"`
	Reviews    []Review `json:"reviews,omitempty"`

	// Source is the provenance tag: a single provider name, or "merged".
	Source string `json:"source"`

	// Ephemeral fields set during ranking.
	MatchScore       float64            `json:"match_score,omitempty"` // AI relevance, 0-100
	MatchReasons     []string           `json:"match_reasons,omitempty"`
	Confidence       string             `json:"confidence,omitempty"`
	DistanceMeters   *float64           `json:"distance_meters,omitempty"`
	EnhancedScore    float64            `json:"enhanced_score,omitempty"`
	ScoringBreakdown map[string]float64 `json:"scoring_breakdown,omitempty"`
}

// SetProviderID attaches a provider-specific id without disturbing ids
// already recorded by other providers.
func (p *Place) SetProviderID(provider, id string) {
	if id == "" {
		return
	}
	if p.ProviderIDs == nil {
		p.ProviderIDs = make(map[string]string, 2)
	}
	p.ProviderIDs[provider] = id
}

// ProviderID returns the id recorded for the given provider, if any.
func (p *Place) ProviderID(provider string) string {
	return p.ProviderIDs[provider]
}

// CategoryText returns all category/type tags joined and lowercased, the
// form every keyword membership test operates on.
func (p *Place) CategoryText() string {
	return strings.ToLower(strings.Join(p.Categories, " "))
}

// ReviewText returns all review bodies joined and lowercased.
func (p *Place) ReviewText() string {
	if len(p.Reviews) == 0 {
		return ""
	}
	parts := make([]string, 0, len(p.Reviews))
	for _, r := range p.Reviews {
		if r.Text != "" {
			parts = append(parts, r.Text)
		}
	}
	return strings.ToLower(strings.Join(parts, " "))
}

// SearchableText concatenates categories and review text, the haystack
// used for constraint-satisfaction and must-have evidence checks.
func (p *Place) SearchableText() string {
	cat := p.CategoryText()
	rev := p.ReviewText()
	if cat == "" {
		return rev
	}
	if rev == "" {
		return cat
	}
	return cat + " " + rev
}

// MergeCategories unions the given tags into Categories, preserving the
// order of first appearance.
func (p *Place) MergeCategories(tags []string) {
	seen := make(map[string]struct{}, len(p.Categories)+len(tags))
	for _, c := range p.Categories {
		seen[strings.ToLower(c)] = struct{}{}
	}
	for _, t := range tags {
		if t == "" {
			continue
		}
		key := strings.ToLower(t)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		p.Categories = append(p.Categories, t)
	}
}
