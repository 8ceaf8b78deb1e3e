package domain

import (
	"fmt"
	"strings"

	"github.com/aroundme/aroundme/internal/model"
)

// StudyWorkHandler covers cafes, libraries, and coworking spaces suited
// to studying or working.
type StudyWorkHandler struct{}

// NewStudyWorkHandler creates the study/work handler.
func NewStudyWorkHandler() *StudyWorkHandler {
	return &StudyWorkHandler{}
}

// BuildSearchTerms defaults to wifi-and-quiet coffee shop queries,
// swapping in the parsed study features when the query names any.
func (h *StudyWorkHandler) BuildSearchTerms(intent *model.ParsedIntent) SearchTerms {
	terms := SearchTerms{
		GoogleQuery:    "coffee shop wifi quiet study",
		GoogleType:     "cafe",
		YelpTerm:       "coffee wifi study",
		YelpCategories: "coffee,cafes",
	}
	if features := intent.Attribute("study_features"); len(features) > 0 {
		joined := strings.Join(features, " ")
		terms.GoogleQuery = "coffee shop " + joined
		terms.YelpTerm = "cafe " + joined
	}
	return terms
}

// ValidatePlace accepts cafes, coffee shops, libraries, and coworking
// spaces by category.
func (h *StudyWorkHandler) ValidatePlace(place *model.Place, intent *model.ParsedIntent) bool {
	categories := place.CategoryText()
	for _, vt := range []string{"cafe", "coffee", "library", "coworking"} {
		if strings.Contains(categories, vt) {
			return true
		}
	}
	return false
}

// ScorePlace rewards review evidence of the things that make a place
// workable: wifi 30, quiet 20, study/work/laptop mentions 20, power
// outlets 10, plus 10 for a 4.0+ rating, clamped to 100.
func (h *StudyWorkHandler) ScorePlace(place *model.Place, intent *model.ParsedIntent) Score {
	total := 0.0
	var reasons []string
	reviews := place.ReviewText()

	if strings.Contains(reviews, "wifi") || strings.Contains(reviews, "internet") {
		total += 30
		reasons = append(reasons, "Has WiFi")
	}
	if strings.Contains(reviews, "quiet") {
		total += 20
		reasons = append(reasons, "Quiet environment")
	}
	if containsAny(reviews, []string{"study", "work", "laptop"}) {
		total += 20
		reasons = append(reasons, "Good for studying/working")
	}
	if strings.Contains(reviews, "outlet") || strings.Contains(reviews, "power") {
		total += 10
		reasons = append(reasons, "Has power outlets")
	}
	if place.Rating >= 4.0 {
		total += 10
		reasons = append(reasons, fmt.Sprintf("Highly rated (%.1f/5)", place.Rating))
	}

	if total > 100 {
		total = 100
	}

	confidence := model.ConfidenceMedium
	if total > 50 {
		confidence = model.ConfidenceHigh
	}

	return Score{Score: total, MatchReasons: reasons, Confidence: confidence}
}

// CategoryMappings returns the study/work category table.
func (h *StudyWorkHandler) CategoryMappings() map[string][]string {
	return map[string][]string{
		"cafe":      {"coffee", "coffeeshop", "cafe"},
		"library":   {"library", "libraries"},
		"coworking": {"coworking", "shared_office"},
	}
}
