package domain

import (
	"strings"
	"testing"

	"github.com/aroundme/aroundme/internal/model"
)

func foodIntent(attrs map[string][]string, items, modifiers []string) *model.ParsedIntent {
	return &model.ParsedIntent{
		Domain:            model.DomainFood,
		PlaceTypes:        []string{"restaurant"},
		Attributes:        attrs,
		SpecificItems:     items,
		LocationModifiers: modifiers,
	}
}

func reviews(texts ...string) []model.Review {
	out := make([]model.Review, len(texts))
	for i, t := range texts {
		out[i] = model.Review{Text: t}
	}
	return out
}

func TestHandlerFor_Fallback(t *testing.T) {
	if _, ok := HandlerFor(model.DomainFood).(*FoodHandler); !ok {
		t.Error("food domain should get the food handler")
	}
	if _, ok := HandlerFor(model.DomainStudyWork).(*StudyWorkHandler); !ok {
		t.Error("study_work domain should get the study/work handler")
	}
	if _, ok := HandlerFor(model.DomainFitness).(*FitnessHandler); !ok {
		t.Error("fitness domain should get the fitness handler")
	}
	// Domains without a dedicated handler fall back to food.
	if _, ok := HandlerFor(model.DomainHealthcare).(*FoodHandler); !ok {
		t.Error("unhandled domain should fall back to the food handler")
	}
}

func TestFoodBuildSearchTerms(t *testing.T) {
	h := NewFoodHandler()
	intent := foodIntent(
		map[string][]string{
			"cuisine": {"indian"},
			"dietary": {"vegetarian"},
		},
		[]string{"tea"},
		[]string{"city:frisco"},
	)

	terms := h.BuildSearchTerms(intent)
	for _, want := range []string{"indian", "vegetarian", "restaurant", "tea", "frisco"} {
		if !strings.Contains(terms.GoogleQuery, want) {
			t.Errorf("google query %q missing %q", terms.GoogleQuery, want)
		}
	}
	if terms.GoogleType != "restaurant" {
		t.Errorf("expected restaurant type, got %q", terms.GoogleType)
	}
	if terms.YelpLocation != "frisco" {
		t.Errorf("expected frisco location, got %q", terms.YelpLocation)
	}
	cats := strings.Split(terms.YelpCategories, ",")
	if len(cats) > 3 {
		t.Errorf("yelp categories should cap at 3, got %v", cats)
	}
	if !strings.Contains(terms.YelpCategories, "indpak") {
		t.Errorf("expected mapped category indpak, got %q", terms.YelpCategories)
	}
}

func TestFoodValidatePlace_CuisineMismatch(t *testing.T) {
	h := NewFoodHandler()
	intent := foodIntent(map[string][]string{"cuisine": {"indian"}}, nil, nil)

	mexican := &model.Place{Name: "El Taco Loco", Categories: []string{"mexican"}}
	if h.ValidatePlace(mexican, intent) {
		t.Error("negative cuisine indicator should reject the candidate")
	}

	indian := &model.Place{Name: "Bombay Palace", Categories: []string{"indpak"}}
	if !h.ValidatePlace(indian, intent) {
		t.Error("mapped category should accept the candidate")
	}

	nameOnly := &model.Place{Name: "Indian Spice House", Categories: []string{"restaurant"}}
	if !h.ValidatePlace(nameOnly, intent) {
		t.Error("cuisine in the name should accept the candidate")
	}

	unknown := &model.Place{Name: "The Corner Spot", Categories: []string{"restaurant"}}
	if h.ValidatePlace(unknown, intent) {
		t.Error("no cuisine evidence anywhere should reject the candidate")
	}
}

func TestFoodValidatePlace_DietaryContradiction(t *testing.T) {
	h := NewFoodHandler()
	intent := foodIntent(map[string][]string{"dietary": {"vegetarian"}}, nil, nil)

	steakhouse := &model.Place{Name: "Big Tex Steakhouse", Categories: []string{"restaurant"}}
	if h.ValidatePlace(steakhouse, intent) {
		t.Error("a steakhouse should fail vegetarian validation")
	}

	veggie := &model.Place{Name: "Green Leaf Kitchen", Categories: []string{"restaurant"}}
	if !h.ValidatePlace(veggie, intent) {
		t.Error("a neutral name should pass vegetarian validation")
	}
}

func TestFoodScorePlace_FullMatch(t *testing.T) {
	h := NewFoodHandler()
	intent := foodIntent(
		map[string][]string{
			"cuisine": {"indian"},
			"dietary": {"vegetarian"},
		},
		[]string{"tea"},
		[]string{"city:frisco"},
	)
	place := &model.Place{
		Name:        "Saravana Bhavan Indian Vegetarian",
		Address:     "123 Main St, Frisco, TX",
		Rating:      4.6,
		ReviewCount: 220,
		Categories:  []string{"indpak", "indian"},
		Reviews:     reviews("Great masala chai and dosa", "authentic indian vegetarian food"),
	}

	got := h.ScorePlace(place, intent)
	if got.Score != 100 {
		t.Errorf("a full match should clamp at 100, got %f", got.Score)
	}
	if got.Confidence != model.ConfidenceHigh {
		t.Errorf("confirmed cuisine should be high confidence, got %q", got.Confidence)
	}
	if got.Breakdown["rating_score"] != 30 {
		t.Errorf("4.6 rating should score 30, got %f", got.Breakdown["rating_score"])
	}
	if got.Breakdown["location_score"] != 20 {
		t.Errorf("frisco address should score 20, got %f", got.Breakdown["location_score"])
	}
	if got.Breakdown["cuisine_score"] != 40 {
		t.Errorf("name+category+mapped+review should cap at 40, got %f", got.Breakdown["cuisine_score"])
	}
	if len(got.MatchReasons) == 0 {
		t.Error("expected match reasons")
	}
}

func TestFoodScorePlace_WrongCityPenalty(t *testing.T) {
	h := NewFoodHandler()
	intent := foodIntent(nil, nil, []string{"city:frisco"})
	place := &model.Place{
		Name:    "Plano Diner",
		Address: "456 Elm St, Plano, TX",
		Rating:  3.2,
	}

	got := h.ScorePlace(place, intent)
	if got.Breakdown["location_score"] != -10 {
		t.Errorf("missing requested city should score -10, got %f", got.Breakdown["location_score"])
	}
	if got.Breakdown["rating_score"] != 10 {
		t.Errorf("3.2 rating should score 10, got %f", got.Breakdown["rating_score"])
	}
	if got.Score != 0 {
		t.Errorf("expected net 0, got %f", got.Score)
	}
}

func TestFoodScorePlace_ItemSynonyms(t *testing.T) {
	h := NewFoodHandler()
	intent := foodIntent(nil, []string{"tea"}, nil)
	// "tea" never appears directly; "chai" is a synonym and scores 6.
	place := &model.Place{
		Name:    "Mumbai Express",
		Reviews: reviews("the chai here is wonderful"),
	}

	got := h.ScorePlace(place, intent)
	if got.Breakdown["items_score"] != 6 {
		t.Errorf("synonym hit should score 6, got %f", got.Breakdown["items_score"])
	}
}

func TestStudyWorkScorePlace(t *testing.T) {
	h := NewStudyWorkHandler()
	intent := &model.ParsedIntent{Domain: model.DomainStudyWork}
	place := &model.Place{
		Name:       "The Grind",
		Rating:     4.3,
		Categories: []string{"cafe"},
		Reviews:    reviews("fast wifi and quiet corners", "great place to study with my laptop, outlets everywhere"),
	}

	if !h.ValidatePlace(place, intent) {
		t.Fatal("a cafe should validate for study/work")
	}
	got := h.ScorePlace(place, intent)
	// wifi 30 + quiet 20 + study 20 + outlets 10 + rating 10.
	if got.Score != 90 {
		t.Errorf("expected 90, got %f", got.Score)
	}
	if got.Confidence != model.ConfidenceHigh {
		t.Errorf("expected high confidence above 50, got %q", got.Confidence)
	}

	bar := &model.Place{Name: "Dive Bar", Categories: []string{"bars"}}
	if h.ValidatePlace(bar, intent) {
		t.Error("a bar should not validate for study/work")
	}
}

func TestFitnessScorePlace(t *testing.T) {
	h := NewFitnessHandler()
	intent := &model.ParsedIntent{
		Domain:     model.DomainFitness,
		Attributes: map[string][]string{"equipment": {"pool", "sauna"}},
	}
	place := &model.Place{
		Name:       "Iron Works Gym",
		Rating:     4.5,
		Categories: []string{"gyms"},
		Reviews:    reviews("open 24/7, nice pool and clean sauna"),
	}

	if !h.ValidatePlace(place, intent) {
		t.Fatal("a gym should validate for fitness")
	}
	got := h.ScorePlace(place, intent)
	// pool 20 + sauna 20 + 24/7 15 + rating 10.
	if got.Score != 65 {
		t.Errorf("expected 65, got %f", got.Score)
	}
	if got.Confidence != model.ConfidenceHigh {
		t.Errorf("expected high confidence above 40, got %q", got.Confidence)
	}

	nailSalon := &model.Place{Name: "Polished", Categories: []string{"nail salon"}}
	if h.ValidatePlace(nailSalon, intent) {
		t.Error("a nail salon should not validate for fitness")
	}
}

func TestFitnessBuildSearchTerms(t *testing.T) {
	h := NewFitnessHandler()
	withEquipment := &model.ParsedIntent{
		Attributes: map[string][]string{"equipment": {"pool"}},
	}
	terms := h.BuildSearchTerms(withEquipment)
	if terms.GoogleQuery != "gym pool" {
		t.Errorf("expected gym pool, got %q", terms.GoogleQuery)
	}

	terms = h.BuildSearchTerms(&model.ParsedIntent{})
	if terms.GoogleQuery != "gym fitness center" {
		t.Errorf("expected default query, got %q", terms.GoogleQuery)
	}
	if terms.YelpCategories != "gyms,fitness" {
		t.Errorf("expected gyms,fitness, got %q", terms.YelpCategories)
	}
}
