package rank

import (
	"testing"

	"github.com/aroundme/aroundme/internal/model"
)

func TestSort_NearMeDistanceFirst(t *testing.T) {
	user := &model.Coordinates{Lat: 33.1507, Lng: -96.8236}
	places := []model.Place{
		{
			Name:        "Far But Perfect",
			Rating:      5.0,
			ReviewCount: 5,
			Coordinates: &model.Coordinates{Lat: 33.1957, Lng: -96.8236}, // ~5 km north
		},
		{
			Name:        "Right Here",
			Rating:      4.5,
			ReviewCount: 100,
			Coordinates: &model.Coordinates{Lat: 33.1507, Lng: -96.8236},
		},
	}

	AnnotateDistances(places, user)
	Sort(places, true)

	if places[0].Name != "Right Here" {
		t.Errorf("near-me sort should put the closest place first, got %q", places[0].Name)
	}
}

func TestSort_MissingDistanceLast(t *testing.T) {
	user := &model.Coordinates{Lat: 33.0, Lng: -96.9}
	places := []model.Place{
		{Name: "No Coordinates", Rating: 5.0},
		{Name: "Located", Rating: 3.0, Coordinates: &model.Coordinates{Lat: 33.01, Lng: -96.9}},
	}

	AnnotateDistances(places, user)
	Sort(places, true)

	if places[len(places)-1].Name != "No Coordinates" {
		t.Error("unknown distance should sort last in distance-first mode")
	}
}

func TestSort_RatingFirst(t *testing.T) {
	places := []model.Place{
		{Name: "Decent", Rating: 4.0, ReviewCount: 500},
		{Name: "Great", Rating: 4.8, ReviewCount: 10},
		{Name: "Also Decent", Rating: 4.0, ReviewCount: 900},
	}

	Sort(places, false)

	if places[0].Name != "Great" {
		t.Errorf("highest rating should rank first, got %q", places[0].Name)
	}
	if places[1].Name != "Also Decent" {
		t.Errorf("review count should break rating ties, got %q", places[1].Name)
	}
}

func TestAssignMatchScores(t *testing.T) {
	d := 1000.0
	places := []model.Place{
		{Name: "One KM Away", Rating: 4.5, DistanceMeters: &d},
		{Name: "Unknown Distance", Rating: 3.0},
	}

	AssignMatchScores(places, true)
	if places[0].MatchScore != 80 {
		t.Errorf("1 km should score 80 in distance mode, got %f", places[0].MatchScore)
	}
	if places[0].Confidence != model.ConfidenceHigh {
		t.Errorf("4.5 rating should be high confidence, got %q", places[0].Confidence)
	}
	if places[1].MatchScore != 0 {
		t.Errorf("unknown distance should score 0, got %f", places[1].MatchScore)
	}
	if places[1].Confidence != model.ConfidenceMedium {
		t.Errorf("3.0 rating should be medium confidence, got %q", places[1].Confidence)
	}

	AssignMatchScores(places, false)
	if places[0].MatchScore != 90 {
		t.Errorf("4.5 rating should score 90 in rating mode, got %f", places[0].MatchScore)
	}
}
