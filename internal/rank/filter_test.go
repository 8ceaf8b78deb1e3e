package rank

import (
	"testing"

	"github.com/aroundme/aroundme/internal/model"
)

func TestMustHave_DietaryEvidenceRequired(t *testing.T) {
	intent := &model.ParsedIntent{DietaryRequirements: []string{"vegetarian"}}

	// No vegetarian keyword anywhere: dropped regardless of rating.
	steakhouse := model.Place{
		Name:       "Prime Cut",
		Rating:     4.9,
		Categories: []string{"steakhouse"},
		Reviews:    []model.Review{{Text: "best ribeye in town"}},
	}
	// Evidence in categories.
	veggie := model.Place{
		Name:       "Green Bowl",
		Categories: []string{"vegetarian", "salad"},
	}
	// Evidence only in reviews.
	reviewed := model.Place{
		Name:       "Spice Route",
		Categories: []string{"indian"},
		Reviews:    []model.Review{{Text: "tons of veggie options"}},
	}

	out := ApplyMustHaveFilters([]model.Place{steakhouse, veggie, reviewed}, intent)
	if len(out) != 2 {
		t.Fatalf("expected 2 survivors, got %d", len(out))
	}
	for _, p := range out {
		if p.Name == "Prime Cut" {
			t.Error("candidate without vegetarian evidence should be dropped")
		}
	}
}

func TestMustHave_CuisineIndicators(t *testing.T) {
	intent := &model.ParsedIntent{CuisineTypes: []string{"indian"}}

	tandoor := model.Place{Name: "Clay Oven", Categories: []string{"tandoor grill"}}
	taqueria := model.Place{Name: "La Taqueria", Categories: []string{"mexican"}}

	out := ApplyMustHaveFilters([]model.Place{tandoor, taqueria}, intent)
	if len(out) != 1 || out[0].Name != "Clay Oven" {
		t.Errorf("expected only the tandoor place to survive, got %v", names(out))
	}
}

func TestMinimumRating(t *testing.T) {
	tests := []struct {
		intent string
		want   float64
	}{
		{"best pizza in town", 4.0},
		{"highly rated sushi", 4.0},
		{"good rating thai food", 3.5},
		{"excellent coffee", 4.5},
		{"pizza near me", 0},
	}
	for _, tt := range tests {
		intent := &model.ParsedIntent{PrimaryIntent: tt.intent}
		if got := MinimumRating(intent); got != tt.want {
			t.Errorf("MinimumRating(%q) = %f, want %f", tt.intent, got, tt.want)
		}
	}
}

func TestMustHave_RatingFloor(t *testing.T) {
	intent := &model.ParsedIntent{PrimaryIntent: "best pizza"}
	low := model.Place{Name: "Slice City", Rating: 3.8}
	high := model.Place{Name: "Pie Heaven", Rating: 4.2}

	out := ApplyMustHaveFilters([]model.Place{low, high}, intent)
	if len(out) != 1 || out[0].Name != "Pie Heaven" {
		t.Errorf("rating floor 4.0 should drop the 3.8 place, got %v", names(out))
	}
}

func TestMustHave_BudgetBand(t *testing.T) {
	intent := &model.ParsedIntent{BudgetPreference: "budget"}

	pricey := model.Place{Name: "Maison Cher", PriceLevel: 3}
	cheap := model.Place{Name: "Dollar Bites", PriceLevel: 1}
	unknown := model.Place{Name: "Mystery Diner", PriceLevel: 0}

	out := ApplyMustHaveFilters([]model.Place{pricey, cheap, unknown}, intent)
	if len(out) != 2 {
		t.Fatalf("expected 2 survivors, got %v", names(out))
	}
	for _, p := range out {
		if p.Name == "Maison Cher" {
			t.Error("price level 3 should fail a budget preference")
		}
	}
}

func TestMeetsBudget(t *testing.T) {
	if !MeetsBudget(0, "budget") {
		t.Error("unknown price level should always pass")
	}
	if !MeetsBudget(2, "moderate") {
		t.Error("price 2 should pass moderate")
	}
	if MeetsBudget(4, "upscale") {
		t.Error("price 4 should fail upscale")
	}
	if !MeetsBudget(4, "luxury") {
		t.Error("price 4 should pass luxury")
	}
}

func TestMustHave_Monotonic(t *testing.T) {
	places := []model.Place{
		{Name: "Green Bowl", Rating: 4.5, Categories: []string{"vegetarian"}, PriceLevel: 1},
		{Name: "Prime Cut", Rating: 4.9, Categories: []string{"steakhouse"}, PriceLevel: 3},
		{Name: "Spice Route", Rating: 4.1, Categories: []string{"indian", "vegetarian"}, PriceLevel: 2},
	}

	none := ApplyMustHaveFilters(places, &model.ParsedIntent{})
	one := ApplyMustHaveFilters(places, &model.ParsedIntent{
		DietaryRequirements: []string{"vegetarian"},
	})
	two := ApplyMustHaveFilters(places, &model.ParsedIntent{
		DietaryRequirements: []string{"vegetarian"},
		BudgetPreference:    "budget",
	})

	if len(one) > len(none) || len(two) > len(one) {
		t.Errorf("adding constraints must never grow the surviving set: %d, %d, %d",
			len(none), len(one), len(two))
	}
}

func names(places []model.Place) []string {
	out := make([]string, len(places))
	for i, p := range places {
		out[i] = p.Name
	}
	return out
}
