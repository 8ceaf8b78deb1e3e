package dedupe

import (
	"testing"

	"github.com/aroundme/aroundme/internal/model"
)

func TestNormalizeName_Idempotent(t *testing.T) {
	inputs := []string{
		"McDonald's",
		"The Curry Kitchen Restaurant",
		"Starbucks Coffee",
		"Joe's Bar & Grill",
		"",
	}
	for _, in := range inputs {
		once := NormalizeName(in)
		twice := NormalizeName(once)
		if once != twice {
			t.Errorf("NormalizeName not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestNormalizeName_ChainVariants(t *testing.T) {
	a := NormalizeName("McDonald's")
	b := NormalizeName("Mc Donalds")
	if a != b {
		t.Errorf("chain variants should canonicalize identically: %q != %q", a, b)
	}
	if a != "mcdonalds" {
		t.Errorf("expected mcdonalds, got %q", a)
	}
	if got := NormalizeName("Starbucks Coffee"); got != "starbucks" {
		t.Errorf("expected starbucks, got %q", got)
	}
}

func TestNormalizeName_StripsGenericWords(t *testing.T) {
	got := NormalizeName("Bombay Palace Restaurant")
	if got != "bombay palace" {
		t.Errorf("expected %q, got %q", "bombay palace", got)
	}
	// "bar" only strips as a whole word.
	if got := NormalizeName("Barbecue House"); got != "barbecue house" {
		t.Errorf("whole-word strip broke substring: got %q", got)
	}
}

func TestSimilarity(t *testing.T) {
	if s := Similarity("starbucks", "starbucks"); s != 1.0 {
		t.Errorf("identical strings should be 1.0, got %f", s)
	}
	if s := Similarity("", ""); s != 1.0 {
		t.Errorf("two empty strings should be 1.0, got %f", s)
	}
	if s := Similarity("abc", ""); s != 0.0 {
		t.Errorf("empty vs non-empty should be 0.0, got %f", s)
	}
	if s := Similarity("bombay palace", "bombay palaces"); s < 0.9 {
		t.Errorf("near-identical names should score high, got %f", s)
	}
	if s := Similarity("thai orchid", "burger barn"); s >= 0.8 {
		t.Errorf("unrelated names should score low, got %f", s)
	}
}

func coords(lat, lng float64) *model.Coordinates {
	return &model.Coordinates{Lat: lat, Lng: lng}
}

func TestAreDuplicates_CloseAndSimilar(t *testing.T) {
	a := &model.Place{Name: "Starbucks Coffee", Coordinates: coords(33.0000, -96.9000)}
	b := &model.Place{Name: "Starbucks", Coordinates: coords(33.0001, -96.9001)}
	if !AreDuplicates(a, b) {
		t.Error("close records with similar normalized names should be duplicates")
	}
}

func TestAreDuplicates_FarAndDissimilar(t *testing.T) {
	a := &model.Place{Name: "Thai Orchid", Coordinates: coords(33.00, -96.90)}
	b := &model.Place{Name: "Burger Barn", Coordinates: coords(33.10, -96.90)}
	if AreDuplicates(a, b) {
		t.Error("far records with dissimilar names should not be duplicates")
	}
}

func TestAreDuplicates_SameNameNoCoordinates(t *testing.T) {
	a := &model.Place{Name: "Bombay Palace Restaurant"}
	b := &model.Place{Name: "Bombay Palace"}
	if !AreDuplicates(a, b) {
		t.Error("equal normalized names should be duplicates even without coordinates")
	}
}

func TestAreDuplicates_CloseButDifferentBusinesses(t *testing.T) {
	// Two businesses in the same plaza: proximity alone must not merge.
	a := &model.Place{Name: "Thai Orchid", Coordinates: coords(33.0000, -96.9000)}
	b := &model.Place{Name: "Nail Salon Deluxe", Coordinates: coords(33.0001, -96.9000)}
	if AreDuplicates(a, b) {
		t.Error("close records with dissimilar names should not be duplicates")
	}
}

func TestMerge_CombinesProviders(t *testing.T) {
	google := []model.Place{
		{
			Name:        "Starbucks Coffee",
			Coordinates: coords(33.000, -96.900),
			Rating:      4.2,
			Categories:  []string{"coffee_shop"},
			ProviderIDs: map[string]string{model.SourceGoogle: "places/ChIJabc"},
			Source:      model.SourceGoogle,
		},
	}
	yelp := []model.Place{
		{
			Name:        "Starbucks",
			Coordinates: coords(33.0001, -96.9001),
			ReviewCount: 120,
			Categories:  []string{"Coffee & Tea"},
			ProviderIDs: map[string]string{model.SourceYelp: "yelp-abc123"},
			Source:      model.SourceYelp,
		},
	}

	merged := Merge(google, yelp)
	if len(merged) != 1 {
		t.Fatalf("expected 1 merged candidate, got %d", len(merged))
	}
	got := merged[0]
	if got.ProviderID(model.SourceGoogle) == "" || got.ProviderID(model.SourceYelp) == "" {
		t.Errorf("merged place should carry both provider ids: %v", got.ProviderIDs)
	}
	if got.Source != model.SourceMerged {
		t.Errorf("expected source merged, got %q", got.Source)
	}
	if got.Name != "Starbucks Coffee" {
		t.Errorf("earlier-seen candidate should stay canonical, got %q", got.Name)
	}
	if len(got.Categories) != 2 {
		t.Errorf("categories should union, got %v", got.Categories)
	}
	if got.ReviewCount != 120 {
		t.Errorf("review count should accumulate, got %d", got.ReviewCount)
	}
}

func TestMerge_KeepsDistinctPlaces(t *testing.T) {
	a := []model.Place{{Name: "Thai Orchid", Coordinates: coords(33.00, -96.90)}}
	b := []model.Place{{Name: "Burger Barn", Coordinates: coords(33.05, -96.95)}}
	merged := Merge(a, b)
	if len(merged) != 2 {
		t.Errorf("distinct places should not merge, got %d", len(merged))
	}
}

func TestChainToken(t *testing.T) {
	if got := ChainToken("McDonald's #4321"); got != "mcdonalds" {
		t.Errorf("expected mcdonalds, got %q", got)
	}
	if got := ChainToken("Bombay Palace"); got != "" {
		t.Errorf("independent place should have no chain token, got %q", got)
	}
}
