// Package domain implements per-domain search strategies: how to phrase
// provider queries, which candidates plausibly belong to the domain, and
// how well a candidate matches the parsed intent.
package domain

import "github.com/aroundme/aroundme/internal/model"

// SearchTerms carries the provider-specific query parameters a handler
// builds from a parsed intent.
type SearchTerms struct {
	GoogleQuery    string
	GoogleType     string
	YelpTerm       string
	YelpLocation   string
	YelpCategories string
}

// Score is the outcome of domain-specific scoring: an additive point
// total clamped to [0,100], the human-readable reasons behind it, a
// confidence label, and the per-signal breakdown.
type Score struct {
	Score        float64
	MatchReasons []string
	Confidence   string
	Breakdown    map[string]float64
}

// Handler is one domain's search strategy.
type Handler interface {
	// BuildSearchTerms turns a parsed intent into provider query
	// parameters.
	BuildSearchTerms(intent *model.ParsedIntent) SearchTerms

	// ValidatePlace reports whether a candidate plausibly belongs to the
	// domain and does not contradict the intent's hard requirements.
	ValidatePlace(place *model.Place, intent *model.ParsedIntent) bool

	// ScorePlace rates how well a candidate matches the intent.
	ScorePlace(place *model.Place, intent *model.ParsedIntent) Score

	// CategoryMappings exposes the domain's canonical-term to
	// provider-category table.
	CategoryMappings() map[string][]string
}

var handlers = map[model.Domain]Handler{
	model.DomainFood:      NewFoodHandler(),
	model.DomainStudyWork: NewStudyWorkHandler(),
	model.DomainFitness:   NewFitnessHandler(),
}

// HandlerFor returns the handler registered for a domain. Domains
// without a dedicated handler fall back to the food handler, whose
// generic term-building and permissive validation degrade gracefully.
func HandlerFor(d model.Domain) Handler {
	if h, ok := handlers[d]; ok {
		return h
	}
	return handlers[model.DomainFood]
}
