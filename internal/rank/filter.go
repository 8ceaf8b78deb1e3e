// Package rank applies the hard must-have gate, computes composite
// scores, sorts candidates by the query's sort policy, and enforces
// geographic diversity across chain locations.
package rank

import (
	"strings"

	"github.com/aroundme/aroundme/internal/model"
)

// dietaryIndicators maps a dietary requirement to the keywords that
// count as positive evidence in categories or reviews. Absence of
// evidence fails the candidate: this is a hard gate, not a soft score.
var dietaryIndicators = map[string][]string{
	"vegetarian": {"vegetarian", "vegan", "plant", "veggie"},
	"vegan":      {"vegan", "plant-based"},
	"halal":      {"halal", "islamic", "muslim"},
}

// cuisineIndicators maps a cuisine to the category keywords accepted as
// evidence. Unknown cuisines fall back to the cuisine word itself.
var cuisineIndicators = map[string][]string{
	"indian":        {"indian", "india", "curry", "tandoor", "biryani", "dosa", "samosa"},
	"chinese":       {"chinese", "china", "szechuan", "cantonese", "dim sum", "wok"},
	"italian":       {"italian", "pizza", "pasta", "pizzeria", "trattoria"},
	"mexican":       {"mexican", "taco", "burrito", "quesadilla", "tex-mex"},
	"thai":          {"thai", "thailand", "pad thai", "curry", "som tam"},
	"japanese":      {"japanese", "sushi", "ramen", "tempura", "sashimi"},
	"korean":        {"korean", "korea", "bbq", "kimchi", "bulgogi"},
	"vietnamese":    {"vietnamese", "vietnam", "pho", "banh mi"},
	"mediterranean": {"mediterranean", "greek", "falafel", "hummus", "gyro"},
	"american":      {"american", "burger", "barbecue", "steakhouse"},
}

// budgetBands maps a budget preference to the allowed price levels.
// Unknown preferences allow everything.
var budgetBands = map[string][]int{
	"budget":   {1},
	"moderate": {1, 2},
	"upscale":  {2, 3},
	"luxury":   {3, 4},
}

// ApplyMustHaveFilters drops every candidate that fails a mandatory
// requirement of the intent. Applied before scoring.
func ApplyMustHaveFilters(places []model.Place, intent *model.ParsedIntent) []model.Place {
	filtered := make([]model.Place, 0, len(places))
	for i := range places {
		if MeetsMustHaves(&places[i], intent) {
			filtered = append(filtered, places[i])
		}
	}
	return filtered
}

// MeetsMustHaves checks every mandatory requirement: dietary evidence,
// cuisine evidence, minimum rating, and budget band.
func MeetsMustHaves(place *model.Place, intent *model.ParsedIntent) bool {
	if len(intent.DietaryRequirements) > 0 {
		categories := place.CategoryText()
		reviews := place.ReviewText()
		for _, dietary := range intent.DietaryRequirements {
			indicators, ok := dietaryIndicators[strings.ToLower(dietary)]
			if !ok {
				continue
			}
			if !containsAny(categories, indicators) && !containsAny(reviews, indicators) {
				return false
			}
		}
	}

	if len(intent.CuisineTypes) > 0 {
		categories := place.CategoryText()
		found := false
		for _, cuisine := range intent.CuisineTypes {
			if containsAny(categories, CuisineIndicators(cuisine)) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if floor := MinimumRating(intent); floor > 0 && place.Rating < floor {
		return false
	}

	if intent.BudgetPreference != "" && !MeetsBudget(place.PriceLevel, intent.BudgetPreference) {
		return false
	}

	return true
}

// CuisineIndicators returns the evidence vocabulary for a cuisine,
// falling back to the cuisine word itself.
func CuisineIndicators(cuisine string) []string {
	if indicators, ok := cuisineIndicators[strings.ToLower(cuisine)]; ok {
		return indicators
	}
	return []string{strings.ToLower(cuisine)}
}

// MinimumRating derives a rating floor from phrases in the free-text
// intent. Zero means no floor.
func MinimumRating(intent *model.ParsedIntent) float64 {
	text := strings.ToLower(intent.PrimaryIntent)
	if text == "" {
		text = strings.ToLower(intent.RawQuery)
	}

	switch {
	case strings.Contains(text, "highly rated") || strings.Contains(text, "best"):
		return 4.0
	case strings.Contains(text, "excellent"):
		return 4.5
	case strings.Contains(text, "good") && strings.Contains(text, "rating"):
		return 3.5
	}
	return 0
}

// MeetsBudget reports whether a price level fits the budget band. An
// unknown (zero) price level always passes: benefit of the doubt.
func MeetsBudget(priceLevel int, budgetPref string) bool {
	if priceLevel == 0 {
		return true
	}
	allowed, ok := budgetBands[strings.ToLower(budgetPref)]
	if !ok {
		return true
	}
	for _, level := range allowed {
		if priceLevel == level {
			return true
		}
	}
	return false
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
