package rank

import (
	"strings"

	"github.com/aroundme/aroundme/internal/geo"
	"github.com/aroundme/aroundme/internal/model"
)

// Composite weights. Explicit constraints dominate, then location, then
// the external AI judgment, with generic quality as the tiebreaker.
const (
	weightConstraints = 0.4
	weightLocation    = 0.3
	weightAIMatch     = 0.2
	weightQuality     = 0.1
)

// proximityTier pairs the ideal distance (full score) with the maximum
// distance (score reaches zero), in meters.
type proximityTier struct {
	Ideal float64
	Max   float64
}

var proximityTiers = map[string]proximityTier{
	model.ProximityVeryClose: {Ideal: 200, Max: 500},
	model.ProximityClose:     {Ideal: 500, Max: 1500},
	model.ProximityModerate:  {Ideal: 2000, Max: 5000},
	model.ProximityFar:       {Ideal: 10000, Max: 20000},
}

// ScorePlaces computes the weighted composite score for every candidate
// in place, attaching the enhanced score and its breakdown.
func ScorePlaces(places []model.Place, intent *model.ParsedIntent, user *model.Coordinates) {
	for i := range places {
		scoreOne(&places[i], intent, user)
	}
}

func scoreOne(place *model.Place, intent *model.ParsedIntent, user *model.Coordinates) {
	constraints := ConstraintSatisfactionScore(place, intent) * weightConstraints
	location := LocationConstraintScore(place, intent, user) * weightLocation
	aiMatch := place.MatchScore * weightAIMatch
	quality := QualityScore(place) * weightQuality

	place.EnhancedScore = constraints + location + aiMatch + quality
	place.ScoringBreakdown = map[string]float64{
		"constraints": constraints,
		"location":    location,
		"ai_match":    aiMatch,
		"quality":     quality,
	}
}

// ConstraintSatisfactionScore is the fraction of the primary entity's
// constraints found in the candidate's searchable text, scaled to 0-100.
// No entity structure scores 80; an entity without constraints scores
// 85: a query without explicit constraints should not push every
// candidate toward zero.
func ConstraintSatisfactionScore(place *model.Place, intent *model.ParsedIntent) float64 {
	primary := intent.PrimaryEntity()
	if primary == nil {
		return 80
	}
	if len(primary.Constraints) == 0 {
		return 85
	}

	text := place.SearchableText()
	satisfied := 0
	for _, constraint := range primary.Constraints {
		if constraint != "" && constraintSatisfied(constraint, text) {
			satisfied++
		}
	}

	return float64(satisfied) / float64(len(primary.Constraints)) * 100
}

// constraintSatisfied does loose word overlap: any word longer than two
// characters from the constraint phrase appearing in the place text.
func constraintSatisfied(constraint, placeText string) bool {
	words := strings.Fields(strings.ReplaceAll(strings.ToLower(constraint), "_", " "))
	for _, word := range words {
		if len(word) > 2 && strings.Contains(placeText, word) {
			return true
		}
	}
	return false
}

// LocationConstraintScore rates how well a candidate satisfies the
// intent's location constraint on a 0-100 scale. Near-user constraints
// decay linearly from the proximity tier's ideal distance to its max;
// area-scoped searches get a flat 90 since the search itself was
// area-specific.
func LocationConstraintScore(place *model.Place, intent *model.ParsedIntent, user *model.Coordinates) float64 {
	lc := intent.LocationConstraints
	if lc == nil {
		return 80
	}
	if place.Coordinates == nil {
		return 50
	}

	switch lc.Type {
	case model.LocationNearUser:
		if user == nil {
			return 70
		}
		distance := geo.Distance(user.Lat, user.Lng, place.Coordinates.Lat, place.Coordinates.Lng)

		tier, ok := proximityTiers[lc.Proximity]
		if !ok {
			tier = proximityTiers[model.ProximityClose]
		}
		switch {
		case distance <= tier.Ideal:
			return 100
		case distance <= tier.Max:
			return 100 * (1 - (distance-tier.Ideal)/(tier.Max-tier.Ideal))
		default:
			return 0
		}

	case model.LocationSpecificArea:
		return 90
	}

	return 70
}

// QualityScore is (rating/5 x 100) suppressed by review-count
// confidence, with full confidence at 50+ reviews. A place with no
// rating scores a neutral 50: unknown, not bad.
func QualityScore(place *model.Place) float64 {
	if place.Rating == 0 {
		return 50
	}
	base := place.Rating / 5.0 * 100
	confidence := float64(place.ReviewCount) / 50
	if confidence > 1 {
		confidence = 1
	}
	return base * confidence
}
