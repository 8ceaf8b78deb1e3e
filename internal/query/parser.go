// Package query classifies free-text place queries into a domain and
// extracts structured attributes, constraints, and location modifiers
// from fixed vocabulary tables.
package query

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/aroundme/aroundme/internal/model"
)

var (
	wordBoundaryMu    sync.RWMutex
	wordBoundaryCache = map[string]*regexp.Regexp{}
	cityPhraseRe      = regexp.MustCompile(`(?i)\b(?:in|near|around|at)\s+([a-zA-Z\s]+?)(?:\s|$|,|\.|!|\?)`)
	distanceRe        = regexp.MustCompile(`\d+\s*(mile|miles|km|kilometer|block|blocks|minute|minutes)`)
)

// wholeWordRe returns the boundary-respecting matcher for a vocabulary
// keyword. The cache is shared across concurrent requests.
func wholeWordRe(keyword string) *regexp.Regexp {
	wordBoundaryMu.RLock()
	re, ok := wordBoundaryCache[keyword]
	wordBoundaryMu.RUnlock()
	if ok {
		return re
	}

	wordBoundaryMu.Lock()
	defer wordBoundaryMu.Unlock()
	if re, ok := wordBoundaryCache[keyword]; ok {
		return re
	}
	re = regexp.MustCompile(`\b` + regexp.QuoteMeta(keyword) + `\b`)
	wordBoundaryCache[keyword] = re
	return re
}

// Parser turns a raw query into a ParsedIntent. It never fails: a query
// with no recognizable structure yields the services domain with empty
// attributes and constraints.
type Parser struct{}

// NewParser creates a parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse extracts the structured intent of a free-text query.
func (p *Parser) Parse(raw string) *model.ParsedIntent {
	lower := strings.ToLower(raw)
	domain := p.DetectDomain(raw)

	intent := &model.ParsedIntent{
		RawQuery:      raw,
		QueryType:     "single_entity",
		Domain:        domain,
		PlaceTypes:    extractPlaceTypes(lower, domain),
		Attributes:    extractAttributes(lower, domain),
		SpecificItems: extractSpecificItems(lower, domain),
		Constraints:   extractConstraints(lower),
		PrimaryIntent: raw,
		Confidence:    model.ConfidenceLow,
	}
	intent.LocationModifiers = extractLocationModifiers(raw, lower)

	intent.CuisineTypes = intent.Attribute("cuisine")
	intent.DietaryRequirements = intent.Attribute("dietary")
	intent.BudgetPreference = budgetPreference(intent.Constraints)

	// Entities are always non-empty: the primary entity is derived from
	// the first place type, with the entity constraints carrying every
	// matched attribute term.
	entityType := "establishment"
	if len(intent.PlaceTypes) > 0 {
		entityType = intent.PlaceTypes[0]
	}
	intent.Entities = []model.Entity{{
		Type:        entityType,
		Role:        model.RolePrimary,
		Constraints: entityConstraints(intent),
	}}

	intent.LocationConstraints = locationConstraints(lower, intent.LocationModifiers)

	return intent
}

// DetectDomain scores each domain by keyword hits in the lowercased
// query, with whole-word matches counting double. The highest total wins;
// ties break toward the first declared domain. A zero score falls back to
// food when a cuisine or dietary word is present, otherwise services.
func (p *Parser) DetectDomain(raw string) model.Domain {
	lower := strings.ToLower(raw)

	best := model.Domain("")
	bestScore := 0.0
	for _, vocab := range domainVocabularies {
		score := 0.0
		for _, kw := range vocab.Keywords {
			if !strings.Contains(lower, kw) {
				continue
			}
			if wholeWordRe(kw).MatchString(lower) {
				score += 2 * vocab.Weight
			} else {
				score += vocab.Weight
			}
		}
		if score > bestScore {
			bestScore = score
			best = vocab.Domain
		}
	}

	if bestScore > 0 {
		return best
	}

	for _, cuisine := range fallbackCuisines {
		if strings.Contains(lower, cuisine) {
			return model.DomainFood
		}
	}
	for _, term := range fallbackFoodTerms {
		if strings.Contains(lower, term) {
			return model.DomainFood
		}
	}
	return model.DomainServices
}

func extractPlaceTypes(lower string, domain model.Domain) []string {
	vocab, ok := placeTypesByDomain[domain]
	if !ok {
		return nil
	}
	var types []string
	for _, t := range vocab.Types {
		if strings.Contains(lower, t) {
			types = append(types, strings.ReplaceAll(t, " ", "_"))
		}
	}
	if len(types) == 0 {
		types = append(types, vocab.Defaults...)
	}
	return types
}

func extractAttributes(lower string, domain model.Domain) map[string][]string {
	attrs := make(map[string][]string)

	collect := func(category string, vocab []string) {
		var found []string
		for _, term := range vocab {
			if strings.Contains(lower, term) {
				found = append(found, term)
			}
		}
		if len(found) > 0 {
			attrs[category] = found
		}
	}

	if domain == model.DomainFood {
		collect("cuisine", Cuisines)
	}
	collect("dietary", Dietary)
	collect("ambiance", Ambiance)
	collect("features", Features)

	switch domain {
	case model.DomainFitness:
		collect("equipment", GymEquipment)
	case model.DomainStudyWork:
		collect("study_features", StudyFeatures)
	}

	return attrs
}

func extractSpecificItems(lower string, domain model.Domain) []string {
	if domain != model.DomainFood {
		return nil
	}
	seen := make(map[string]struct{})
	var items []string
	for _, vocab := range [][]string{IndianDishes, commonFoodItems} {
		for _, item := range vocab {
			if !strings.Contains(lower, item) {
				continue
			}
			if _, ok := seen[item]; ok {
				continue
			}
			seen[item] = struct{}{}
			items = append(items, item)
		}
	}
	return items
}

func extractConstraints(lower string) []string {
	var constraints []string

	for _, tc := range TimeConstraints {
		if strings.Contains(lower, tc) {
			constraints = append(constraints, tc)
		}
	}

	if containsAny(lower, budgetWords) {
		constraints = append(constraints, "budget")
	} else if containsAny(lower, upscaleWords) {
		constraints = append(constraints, "upscale")
	}

	if strings.Contains(lower, "near") || strings.Contains(lower, "close") || strings.Contains(lower, "nearby") {
		constraints = append(constraints, "nearby")
	}

	return constraints
}

// extractLocationModifiers harvests every location signal as one ordered
// list: gazetteer cities prefixed "city:", free-text "(in|near|around|at)
// <words>" captures also prefixed "city:", bare location terms, and
// distance expressions.
func extractLocationModifiers(raw, lower string) []string {
	var modifiers []string

	for _, city := range KnownCities {
		if strings.Contains(lower, city) {
			modifiers = append(modifiers, fmt.Sprintf("city:%s", city))
		}
	}

	for _, match := range cityPhraseRe.FindAllStringSubmatch(raw, -1) {
		phrase := strings.ToLower(strings.TrimSpace(match[1]))
		if phrase != "" {
			modifiers = append(modifiers, fmt.Sprintf("city:%s", phrase))
		}
	}

	for _, term := range locationTerms {
		if strings.Contains(lower, term) {
			modifiers = append(modifiers, term)
		}
	}

	modifiers = append(modifiers, distanceRe.FindAllString(lower, -1)...)

	return modifiers
}

// DetectCity returns the first gazetteer city found in the query, or "".
func DetectCity(raw string) string {
	lower := strings.ToLower(raw)
	for _, city := range KnownCities {
		if strings.Contains(lower, city) {
			return city
		}
	}
	return ""
}

func budgetPreference(constraints []string) string {
	for _, c := range constraints {
		if c == "budget" || c == "upscale" {
			return c
		}
	}
	return ""
}

func entityConstraints(intent *model.ParsedIntent) []string {
	var constraints []string
	for _, category := range []string{"cuisine", "dietary", "ambiance", "features", "equipment", "study_features"} {
		constraints = append(constraints, intent.Attribute(category)...)
	}
	constraints = append(constraints, intent.SpecificItems...)
	return constraints
}

func locationConstraints(lower string, modifiers []string) *model.LocationConstraints {
	for _, m := range modifiers {
		if strings.HasPrefix(m, "city:") {
			return &model.LocationConstraints{
				Type:  model.LocationSpecificArea,
				Value: strings.TrimPrefix(m, "city:"),
			}
		}
	}
	if strings.Contains(lower, "near me") || strings.Contains(lower, "nearby") || strings.Contains(lower, "close to me") {
		return &model.LocationConstraints{
			Type:      model.LocationNearUser,
			Value:     "current_location",
			Proximity: model.ProximityClose,
		}
	}
	return nil
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// IsNearMeQuery reports whether the query asks for proximity-first
// sorting ("near me", "nearby", "close to me").
func IsNearMeQuery(raw string) bool {
	lower := strings.ToLower(raw)
	return strings.Contains(lower, "near me") ||
		strings.Contains(lower, "nearby") ||
		strings.Contains(lower, "close to me")
}
