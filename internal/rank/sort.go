package rank

import (
	"math"
	"sort"

	"github.com/aroundme/aroundme/internal/geo"
	"github.com/aroundme/aroundme/internal/model"
)

// AnnotateDistances computes and attaches distance-to-user for every
// candidate with coordinates. Candidates without coordinates keep a nil
// distance and sort last in distance-first mode.
func AnnotateDistances(places []model.Place, user *model.Coordinates) {
	if user == nil {
		return
	}
	for i := range places {
		if dist, ok := geo.Between(user, places[i].Coordinates); ok {
			d := dist
			places[i].DistanceMeters = &d
		}
	}
}

// Sort orders candidates by the query's sort policy. "Near me" queries
// sort ascending by distance (missing distance last) with rating as a
// descending tiebreaker; everything else sorts descending by rating with
// review count as a descending tiebreaker.
func Sort(places []model.Place, nearMe bool) {
	if nearMe {
		sort.SliceStable(places, func(i, j int) bool {
			di := distanceOrInf(&places[i])
			dj := distanceOrInf(&places[j])
			if di != dj {
				return di < dj
			}
			return places[i].Rating > places[j].Rating
		})
		return
	}

	sort.SliceStable(places, func(i, j int) bool {
		if places[i].Rating != places[j].Rating {
			return places[i].Rating > places[j].Rating
		}
		return places[i].ReviewCount > places[j].ReviewCount
	})
}

func distanceOrInf(p *model.Place) float64 {
	if p.DistanceMeters == nil {
		return math.Inf(1)
	}
	return *p.DistanceMeters
}

// AssignMatchScores sets the presentation match score to mirror the sort
// policy: distance-first queries score 100 at 0 m decaying 20 points per
// kilometer; rating-first queries score rating x 20. Confidence is high
// at 4.0+ rating.
func AssignMatchScores(places []model.Place, nearMe bool) {
	for i := range places {
		p := &places[i]
		if nearMe {
			if p.DistanceMeters == nil {
				p.MatchScore = 0
			} else {
				score := 100 - (*p.DistanceMeters/1000)*20
				if score < 0 {
					score = 0
				}
				p.MatchScore = math.Trunc(score)
			}
		} else {
			p.MatchScore = math.Trunc(p.Rating * 20)
		}

		if p.Rating >= 4.0 {
			p.Confidence = model.ConfidenceHigh
		} else {
			p.Confidence = model.ConfidenceMedium
		}
	}
}
