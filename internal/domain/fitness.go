package domain

import (
	"fmt"
	"strings"

	"github.com/aroundme/aroundme/internal/model"
)

// FitnessHandler covers gyms, studios, and fitness centers.
type FitnessHandler struct{}

// NewFitnessHandler creates the fitness handler.
func NewFitnessHandler() *FitnessHandler {
	return &FitnessHandler{}
}

// BuildSearchTerms folds requested equipment into the gym query when the
// intent names any.
func (h *FitnessHandler) BuildSearchTerms(intent *model.ParsedIntent) SearchTerms {
	terms := SearchTerms{
		GoogleQuery:    "gym fitness center",
		GoogleType:     "gym",
		YelpTerm:       "gym",
		YelpCategories: "gyms,fitness",
	}
	if equipment := intent.Attribute("equipment"); len(equipment) > 0 {
		joined := strings.Join(equipment, " ")
		terms.GoogleQuery = "gym " + joined
		terms.YelpTerm = "gym " + joined
	}
	return terms
}

// ValidatePlace accepts candidates whose categories identify a gym,
// fitness center, or studio.
func (h *FitnessHandler) ValidatePlace(place *model.Place, intent *model.ParsedIntent) bool {
	categories := place.CategoryText()
	for _, vt := range []string{"gym", "fitness", "health_club", "yoga", "pilates", "crossfit"} {
		if strings.Contains(categories, vt) {
			return true
		}
	}
	return false
}

// ScorePlace gives 20 per requested equipment found in reviews, 15 for
// 24-hour access evidence, and 10 for a 4.0+ rating, clamped to 100.
func (h *FitnessHandler) ScorePlace(place *model.Place, intent *model.ParsedIntent) Score {
	total := 0.0
	var reasons []string
	reviews := place.ReviewText()

	for _, equipment := range intent.Attribute("equipment") {
		if strings.Contains(reviews, strings.ToLower(equipment)) {
			total += 20
			reasons = append(reasons, fmt.Sprintf("Has %s", equipment))
		}
	}

	if containsAny(reviews, []string{"24", "24 hour", "24/7"}) {
		total += 15
		reasons = append(reasons, "24-hour access")
	}

	if place.Rating >= 4.0 {
		total += 10
		reasons = append(reasons, fmt.Sprintf("Highly rated (%.1f/5)", place.Rating))
	}

	if total > 100 {
		total = 100
	}

	confidence := model.ConfidenceMedium
	if total > 40 {
		confidence = model.ConfidenceHigh
	}

	return Score{Score: total, MatchReasons: reasons, Confidence: confidence}
}

// CategoryMappings returns the fitness category table.
func (h *FitnessHandler) CategoryMappings() map[string][]string {
	return map[string][]string{
		"gym":      {"gym", "gyms", "fitness"},
		"yoga":     {"yoga", "yoga_studio"},
		"crossfit": {"crossfit"},
		"pilates":  {"pilates"},
	}
}
