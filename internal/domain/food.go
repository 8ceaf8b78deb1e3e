package domain

import (
	"fmt"
	"strings"

	"github.com/aroundme/aroundme/internal/model"
)

// FoodHandler covers restaurants, cafes, and everything else edible. It
// doubles as the fallback handler for domains without a dedicated one.
type FoodHandler struct {
	cuisineCategories  map[string][]string
	negativeIndicators map[string][]string
	itemSynonyms       map[string][]string
}

// NewFoodHandler creates the food handler with its cuisine/category
// tables.
func NewFoodHandler() *FoodHandler {
	return &FoodHandler{
		cuisineCategories: map[string][]string{
			"indian":        {"indpak", "indian", "pakistani", "bangladeshi", "indian_restaurant"},
			"chinese":       {"chinese", "szechuan", "cantonese", "dimsum"},
			"italian":       {"italian", "pizza", "pasta"},
			"mexican":       {"mexican", "tex-mex", "tacos"},
			"japanese":      {"japanese", "sushi", "ramen", "izakaya"},
			"thai":          {"thai", "thai_restaurant"},
			"vietnamese":    {"vietnamese", "pho"},
			"korean":        {"korean", "bbq_korean"},
			"mediterranean": {"mediterranean", "greek", "middle_eastern"},
			"american":      {"american", "newamerican", "tradamerican", "burgers"},
		},
		negativeIndicators: map[string][]string{
			"indian":     {"mexican", "italian", "chinese", "japanese", "thai", "vietnamese", "french", "american"},
			"vegetarian": {"steakhouse", "bbq", "seafood", "chicken", "wings"},
			"vegan":      {"steakhouse", "bbq", "seafood", "dairy"},
		},
		itemSynonyms: map[string][]string{
			"tea":          {"tea", "chai", "masala tea", "ginger tea"},
			"south indian": {"dosa", "idli", "sambar", "vada", "uttapam", "south indian", "chettinad"},
			"coffee":       {"coffee", "espresso", "cappuccino", "latte"},
		},
	}
}

// BuildSearchTerms assembles provider queries from cuisines, dietary
// terms, the first place type, and specific items, appending the
// requested city when one was parsed. Yelp additionally gets up to three
// mapped category codes.
func (h *FoodHandler) BuildSearchTerms(intent *model.ParsedIntent) SearchTerms {
	var googleTerms, yelpTerms []string

	cuisines := intent.Attribute("cuisine")
	googleTerms = append(googleTerms, cuisines...)
	yelpTerms = append(yelpTerms, cuisines...)

	var yelpCategories []string
	for _, cuisine := range cuisines {
		yelpCategories = append(yelpCategories, h.cuisineCategories[cuisine]...)
	}
	if len(yelpCategories) > 3 {
		yelpCategories = yelpCategories[:3]
	}

	dietary := intent.Attribute("dietary")
	googleTerms = append(googleTerms, dietary...)
	yelpTerms = append(yelpTerms, dietary...)

	if len(intent.PlaceTypes) > 0 {
		googleTerms = append(googleTerms, strings.ReplaceAll(intent.PlaceTypes[0], "_", " "))
	} else {
		googleTerms = append(googleTerms, "restaurant")
	}

	googleTerms = append(googleTerms, intent.SpecificItems...)
	yelpTerms = append(yelpTerms, intent.SpecificItems...)

	var city string
	if cities := intent.RequestedCities(); len(cities) > 0 {
		city = cities[0]
	}

	googleQuery := strings.Join(googleTerms, " ")
	yelpTerm := strings.Join(yelpTerms, " ")
	if yelpTerm == "" {
		yelpTerm = googleQuery
	}

	terms := SearchTerms{
		GoogleQuery:    googleQuery,
		GoogleType:     "restaurant",
		YelpTerm:       yelpTerm,
		YelpCategories: strings.Join(yelpCategories, ","),
	}
	if city != "" {
		terms.GoogleQuery = googleQuery + " " + city
		terms.YelpLocation = city
	}
	return terms
}

// ValidatePlace rejects candidates whose categories or name contradict a
// requested cuisine or dietary preference. A candidate with no cuisine
// evidence either way is rejected only when a negative indicator hits or
// its name never mentions the cuisine.
func (h *FoodHandler) ValidatePlace(place *model.Place, intent *model.ParsedIntent) bool {
	name := strings.ToLower(place.Name)
	categories := place.CategoryText()

	if cuisines := intent.Attribute("cuisine"); len(cuisines) > 0 {
		match := false
		for _, cuisine := range cuisines {
			if strings.Contains(categories, cuisine) || strings.Contains(name, cuisine) {
				match = true
				break
			}
			for _, variant := range h.cuisineCategories[cuisine] {
				if strings.Contains(categories, variant) {
					match = true
					break
				}
			}
			if match {
				break
			}
		}
		if !match {
			for _, cuisine := range cuisines {
				for _, negative := range h.negativeIndicators[cuisine] {
					if strings.Contains(categories, negative) || strings.Contains(name, negative) {
						return false
					}
				}
			}
			nameHints := false
			for _, cuisine := range cuisines {
				if strings.Contains(name, cuisine) {
					nameHints = true
					break
				}
			}
			if !nameHints {
				return false
			}
		}
	}

	for _, pref := range intent.Attribute("dietary") {
		switch pref {
		case "vegetarian":
			if containsAny(name, []string{"steakhouse", "bbq", "chicken", "seafood"}) {
				return false
			}
		case "vegan":
			if containsAny(name, []string{"steakhouse", "bbq", "dairy", "creamery"}) {
				return false
			}
		}
	}

	return true
}

// ScorePlace builds an additive point total: rating tiers up to 30,
// requested-city match ±20, cuisine evidence capped at 40, dietary
// evidence capped at 20, specific items capped at 15, and a +5
// well-reviewed bonus, clamped to 100.
func (h *FoodHandler) ScorePlace(place *model.Place, intent *model.ParsedIntent) Score {
	total := 0.0
	var reasons []string
	confidence := model.ConfidenceLow

	ratingScore := 0.0
	switch {
	case place.Rating >= 4.5:
		ratingScore = 30
		reasons = append(reasons, fmt.Sprintf("Excellent rating (%.1f/5)", place.Rating))
	case place.Rating >= 4.0:
		ratingScore = 25
		reasons = append(reasons, fmt.Sprintf("Very good rating (%.1f/5)", place.Rating))
	case place.Rating >= 3.5:
		ratingScore = 20
		reasons = append(reasons, fmt.Sprintf("Good rating (%.1f/5)", place.Rating))
	case place.Rating >= 3.0:
		ratingScore = 10
	}
	total += ratingScore

	locationScore := h.scoreLocation(place, intent)
	total += locationScore
	if locationScore > 15 {
		reasons = append(reasons, "Located in requested area")
	}

	cuisineScore := 0.0
	if cuisines := intent.Attribute("cuisine"); len(cuisines) > 0 {
		cuisineScore = h.scoreCuisine(place, cuisines)
		total += cuisineScore
		if cuisineScore > 20 {
			reasons = append(reasons, fmt.Sprintf("Confirmed %s cuisine", strings.Join(cuisines, ", ")))
			confidence = model.ConfidenceHigh
		} else if cuisineScore > 10 {
			reasons = append(reasons, fmt.Sprintf("Likely %s restaurant", strings.Join(cuisines, ", ")))
			confidence = model.ConfidenceMedium
		}
	}

	dietaryScore := 0.0
	if dietary := intent.Attribute("dietary"); len(dietary) > 0 {
		dietaryScore = h.scoreDietary(place, dietary)
		total += dietaryScore
		if dietaryScore > 8 {
			reasons = append(reasons, fmt.Sprintf("%s options confirmed", strings.Join(dietary, ", ")))
		}
	}

	itemsScore := 0.0
	if len(intent.SpecificItems) > 0 {
		itemsScore = h.scoreSpecificItems(place, intent.SpecificItems)
		total += itemsScore
		if itemsScore > 5 {
			var matched []string
			reviews := place.ReviewText()
			for _, item := range intent.SpecificItems {
				if strings.Contains(reviews, strings.ToLower(item)) {
					matched = append(matched, item)
				}
			}
			if len(matched) > 0 {
				reasons = append(reasons, fmt.Sprintf("Serves %s", strings.Join(matched, ", ")))
			}
		}
	}

	if place.ReviewCount > 50 {
		total += 5
		reasons = append(reasons, fmt.Sprintf("Well-reviewed (%d reviews)", place.ReviewCount))
	}

	if total > 100 {
		total = 100
	}

	return Score{
		Score:        total,
		MatchReasons: reasons,
		Confidence:   confidence,
		Breakdown: map[string]float64{
			"rating_score":   ratingScore,
			"location_score": locationScore,
			"cuisine_score":  cuisineScore,
			"dietary_score":  dietaryScore,
			"items_score":    itemsScore,
		},
	}
}

// scoreLocation rewards a candidate whose address contains a requested
// city (+20) and penalizes one that misses every requested city (−10).
// No requested city means no signal.
func (h *FoodHandler) scoreLocation(place *model.Place, intent *model.ParsedIntent) float64 {
	cities := intent.RequestedCities()
	if len(cities) == 0 {
		return 0
	}
	address := strings.ToLower(place.Address)
	for _, city := range cities {
		if strings.Contains(address, strings.ToLower(city)) {
			return 20
		}
	}
	return -10
}

// scoreCuisine accumulates evidence per cuisine: name 20, category 15,
// mapped category 10, review mention 5, capped at 40.
func (h *FoodHandler) scoreCuisine(place *model.Place, cuisines []string) float64 {
	score := 0.0
	name := strings.ToLower(place.Name)
	categories := place.CategoryText()
	reviews := place.ReviewText()

	for _, cuisine := range cuisines {
		if strings.Contains(name, cuisine) {
			score += 20
		}
		if strings.Contains(categories, cuisine) {
			score += 15
		}
		for _, cat := range h.cuisineCategories[cuisine] {
			if strings.Contains(categories, cat) {
				score += 10
				break
			}
		}
		if reviews != "" && strings.Contains(reviews, cuisine) {
			score += 5
		}
	}

	if score > 40 {
		score = 40
	}
	return score
}

// scoreDietary gives 10 per preference in the name, else 7 per mention
// in reviews, capped at 20.
func (h *FoodHandler) scoreDietary(place *model.Place, dietary []string) float64 {
	score := 0.0
	name := strings.ToLower(place.Name)
	reviews := place.ReviewText()

	for _, pref := range dietary {
		if strings.Contains(name, pref) {
			score += 10
		} else if strings.Contains(reviews, pref) {
			score += 7
		}
	}

	if score > 20 {
		score = 20
	}
	return score
}

// scoreSpecificItems gives 8 per directly-mentioned item, else 6 when a
// synonym hits, capped at 15. Synonyms widen "tea", "south indian", and
// "coffee" to the dishes and drinks reviews actually name.
func (h *FoodHandler) scoreSpecificItems(place *model.Place, items []string) float64 {
	score := 0.0
	name := strings.ToLower(place.Name)
	reviews := place.ReviewText()

	for _, item := range items {
		lower := strings.ToLower(item)
		if strings.Contains(reviews, lower) || strings.Contains(name, lower) {
			score += 8
			continue
		}
		synonyms, ok := h.itemSynonyms[lower]
		if !ok {
			synonyms = []string{lower}
		}
		for _, syn := range synonyms {
			if strings.Contains(reviews, syn) || strings.Contains(name, syn) {
				score += 6
				break
			}
		}
	}

	if score > 15 {
		score = 15
	}
	return score
}

// CategoryMappings returns the cuisine to provider-category table.
func (h *FoodHandler) CategoryMappings() map[string][]string {
	return h.cuisineCategories
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
