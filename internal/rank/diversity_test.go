package rank

import (
	"testing"

	"github.com/aroundme/aroundme/internal/model"
)

func starbucks(name string, lat, lng, score float64) model.Place {
	return model.Place{
		Name:          name,
		Coordinates:   &model.Coordinates{Lat: lat, Lng: lng},
		EnhancedScore: score,
	}
}

func TestDiversity_CapsSameChain(t *testing.T) {
	places := []model.Place{
		starbucks("Starbucks Main St", 33.00, -96.90, 90),
		starbucks("Starbucks Oak Ave", 33.05, -96.90, 85),
		starbucks("Starbucks Elm Dr", 33.10, -96.90, 80),
		{Name: "Local Roasters", Coordinates: &model.Coordinates{Lat: 33.02, Lng: -96.91}, EnhancedScore: 70},
	}

	out := ApplyDiversityFilter(places, DefaultMaxSameChain, DefaultMinChainDistance)

	chainCount := 0
	localSurvived := false
	for _, p := range out {
		switch p.Name {
		case "Local Roasters":
			localSurvived = true
		default:
			chainCount++
		}
	}
	if chainCount > DefaultMaxSameChain {
		t.Errorf("at most %d same-chain locations should survive, got %d", DefaultMaxSameChain, chainCount)
	}
	if !localSurvived {
		t.Error("independent places must always pass through")
	}
}

func TestDiversity_KeepsBestLocations(t *testing.T) {
	places := []model.Place{
		starbucks("Starbucks Low", 33.00, -96.90, 40),
		starbucks("Starbucks High", 33.05, -96.90, 95),
		starbucks("Starbucks Mid", 33.10, -96.90, 70),
	}

	out := ApplyDiversityFilter(places, 2, 200)

	if len(out) != 2 {
		t.Fatalf("expected 2 survivors, got %d", len(out))
	}
	for _, p := range out {
		if p.Name == "Starbucks Low" {
			t.Error("the lowest-scoring chain location should be the one dropped")
		}
	}
}

func TestDiversity_MinDistanceBetweenChainLocations(t *testing.T) {
	// Two locations ~11 m apart: only the better one survives even though
	// the chain cap would allow both.
	places := []model.Place{
		starbucks("Starbucks A", 33.0000, -96.9000, 90),
		starbucks("Starbucks B", 33.0001, -96.9000, 85),
	}

	out := ApplyDiversityFilter(places, 2, 200)

	if len(out) != 1 {
		t.Fatalf("same-chain locations under min distance should collapse to one, got %d", len(out))
	}
	if out[0].Name != "Starbucks A" {
		t.Errorf("the higher-scoring location should survive, got %q", out[0].Name)
	}
}

func TestDiversity_PreservesRankedOrder(t *testing.T) {
	places := []model.Place{
		{Name: "First Local", EnhancedScore: 95},
		starbucks("Starbucks Main St", 33.00, -96.90, 90),
		{Name: "Second Local", EnhancedScore: 85},
	}

	out := ApplyDiversityFilter(places, 2, 200)

	if len(out) != 3 {
		t.Fatalf("expected all 3 to survive, got %d", len(out))
	}
	if out[0].Name != "First Local" || out[2].Name != "Second Local" {
		t.Errorf("survivors should keep their ranked order, got %v", names(out))
	}
}

func TestDiversity_EmptyInput(t *testing.T) {
	if out := ApplyDiversityFilter(nil, 2, 200); len(out) != 0 {
		t.Errorf("empty input should stay empty, got %d", len(out))
	}
}
