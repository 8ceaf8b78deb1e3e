// Package pipeline orchestrates one place search end to end: validate
// the query, gather candidates from the AI suggester and the providers,
// merge and filter them, and rank the survivors.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/aroundme/aroundme/internal/ai"
	"github.com/aroundme/aroundme/internal/dedupe"
	"github.com/aroundme/aroundme/internal/domain"
	"github.com/aroundme/aroundme/internal/model"
	"github.com/aroundme/aroundme/internal/provider"
	"github.com/aroundme/aroundme/internal/query"
	"github.com/aroundme/aroundme/internal/rank"
	"github.com/aroundme/aroundme/internal/worker"
)

// ErrInvalidQuery marks a query the validator explicitly rejected.
// Callers translate it to a client error, not a server failure.
var ErrInvalidQuery = errors.New("invalid query")

const (
	resultsPerSuggestion = 3
	fallbackResultLimit  = 5
	preDiversityLimit    = 10
	suggestionWorkers    = 4
)

// MapProvider is the primary place-data source (Google Places).
type MapProvider interface {
	SearchText(ctx context.Context, query string, center *model.Coordinates, radiusMeters int) ([]model.Place, error)
	SearchNearby(ctx context.Context, center model.Coordinates, radiusMeters int, primaryTypes []string) ([]model.Place, error)
	Reviews(ctx context.Context, placeID string) []model.Review
}

// ReviewProvider is the secondary source merged in for coverage and
// review text (Yelp). A provider without credentials returns nothing.
type ReviewProvider interface {
	Search(ctx context.Context, q provider.YelpSearch) ([]model.Place, error)
}

// Pipeline runs place searches.
type Pipeline struct {
	ai     ai.Service
	maps   MapProvider
	yelp   ReviewProvider
	cfg    model.SearchConfig
	logger *zap.Logger
}

// NewPipeline wires a pipeline from its collaborators. yelp may be a
// client without credentials; its searches then contribute nothing.
func NewPipeline(aiSvc ai.Service, maps MapProvider, yelp ReviewProvider, cfg model.SearchConfig, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		ai:     aiSvc,
		maps:   maps,
		yelp:   yelp,
		cfg:    cfg,
		logger: logger,
	}
}

// Search executes the full flow for one request. Provider and AI
// failures degrade the result rather than failing it; the only errors
// returned are an explicitly rejected query and a total absence of
// usable sources.
func (p *Pipeline) Search(ctx context.Context, req model.SearchRequest) (*model.SearchResponse, error) {
	validation := p.ai.ValidateQuery(ctx, req.Query)
	if !validation.IsValid {
		return nil, fmt.Errorf("%w: %s", ErrInvalidQuery, validation.Reason)
	}
	cleanQuery := validation.CleanedQuery
	if cleanQuery == "" {
		cleanQuery = req.Query
	}

	user := userCoordinates(req)
	area := query.DetectCity(cleanQuery)
	intent := p.ai.ExtractIntent(ctx, cleanQuery)
	handler := domain.HandlerFor(intent.Domain)

	var degraded []string

	// Phase 1: AI suggestions resolved against the map provider.
	candidates := p.suggestionSearch(ctx, cleanQuery, area, user, &degraded)

	// Phase 2: term-built fallback search when suggestions came up short.
	if len(candidates) < p.cfg.MinCandidates {
		candidates = append(candidates, p.fallbackSearch(ctx, intent, handler, user, &degraded)...)
	}

	// Phase 3: secondary provider merge.
	yelpResults := p.yelpSearch(ctx, intent, handler, area, user, &degraded)
	merged := dedupe.Merge(candidates, yelpResults)
	totalCandidates := len(merged)

	// Review text is the evidence base for the must-have filters and the
	// relevance analyzer, so enrich before filtering.
	p.enrichReviews(ctx, merged)

	// Phase 4: hard filters.
	filtered := rank.ApplyMustHaveFilters(merged, intent)

	// Phase 5: per-candidate relevance. The AI analyzer when enabled,
	// the domain scorer otherwise.
	filtered = p.assessRelevance(ctx, filtered, intent, handler)

	// Phase 6: composite scoring and ordering.
	rank.ScorePlaces(filtered, intent, user)
	rank.AnnotateDistances(filtered, user)
	nearMe := query.IsNearMeQuery(cleanQuery)
	rank.Sort(filtered, nearMe)
	if len(filtered) > preDiversityLimit {
		filtered = filtered[:preDiversityLimit]
	}
	rank.AssignMatchScores(filtered, nearMe)

	// Phase 7: geographic diversity, then the final cut.
	filtered = rank.ApplyDiversityFilter(filtered, p.cfg.MaxSameChain, p.cfg.MinChainDistanceMeters)
	if len(filtered) > p.cfg.MaxResults {
		filtered = filtered[:p.cfg.MaxResults]
	}

	scoring := model.ScoringSummary{
		TotalCandidates: totalCandidates,
		AfterFilters:    len(filtered),
		SortedBy:        "rating_first",
	}
	if nearMe {
		scoring.SortedBy = "distance_first"
	}
	if len(filtered) > 0 {
		scoring.TopPlace = filtered[0].Name
	}

	return &model.SearchResponse{
		Places:      filtered,
		QueryIntent: intent,
		Scoring:     scoring,
		Degraded:    degraded,
	}, nil
}

// Nearby lists places around a point without any AI involvement, the
// plain browse mode. Results are distance-ordered.
func (p *Pipeline) Nearby(ctx context.Context, center model.Coordinates, radiusMeters int, primaryTypes []string) ([]model.Place, error) {
	if radiusMeters <= 0 {
		radiusMeters = p.cfg.DefaultRadiusMeters
	}
	places, err := p.maps.SearchNearby(ctx, center, radiusMeters, primaryTypes)
	if err != nil {
		return nil, fmt.Errorf("nearby search: %w", err)
	}
	rank.AnnotateDistances(places, &center)
	rank.Sort(places, true)
	if len(places) > p.cfg.MaxResults {
		places = places[:p.cfg.MaxResults]
	}
	return places, nil
}

// suggestionSearch resolves AI place suggestions against the map
// provider, keeping the top few region-gated results per suggestion.
func (p *Pipeline) suggestionSearch(ctx context.Context, cleanQuery, area string, user *model.Coordinates, degraded *[]string) []model.Place {
	suggestions := p.ai.SuggestPlaces(ctx, cleanQuery, p.locationContext(area, user))
	if len(suggestions) == 0 {
		*degraded = append(*degraded, "suggestions")
		return nil
	}
	if len(suggestions) > p.cfg.MaxSuggestions {
		suggestions = suggestions[:p.cfg.MaxSuggestions]
	}

	radius := p.cfg.DefaultRadiusMeters
	if area != "" {
		radius = p.cfg.SpecificAreaRadiusMeters
	}

	type lookupResult struct {
		places []model.Place
		err    error
	}
	results := worker.Map(ctx, suggestionWorkers, suggestions, func(ctx context.Context, s model.Suggestion) lookupResult {
		lookup := s.Name
		if s.Area != "" {
			lookup = s.Name + " " + s.Area
		} else if area != "" {
			lookup = s.Name + " " + area
		}
		places, err := p.maps.SearchText(ctx, lookup, user, radius)
		if err != nil {
			p.logger.Warn("suggestion lookup failed",
				zap.String("suggestion", s.Name),
				zap.Error(err))
		}
		return lookupResult{places: places, err: err}
	})

	var out []model.Place
	failures := 0
	for _, res := range results {
		if res.err != nil {
			failures++
			continue
		}
		kept := 0
		for _, place := range res.places {
			if kept >= resultsPerSuggestion {
				break
			}
			if !p.inRegion(place.Address) {
				continue
			}
			out = append(out, place)
			kept++
		}
	}
	if failures == len(suggestions) {
		*degraded = append(*degraded, "google")
	}
	return out
}

// fallbackSearch runs a domain-handler-built text search when the
// suggestion phase produced too few candidates.
func (p *Pipeline) fallbackSearch(ctx context.Context, intent *model.ParsedIntent, handler domain.Handler, user *model.Coordinates, degraded *[]string) []model.Place {
	terms := handler.BuildSearchTerms(intent)

	results, err := p.maps.SearchText(ctx, terms.GoogleQuery, user, p.cfg.FallbackRadiusMeters)
	if err != nil {
		*degraded = append(*degraded, "google_fallback")
		p.logger.Warn("fallback search failed",
			zap.String("query", terms.GoogleQuery),
			zap.Error(err))
		return nil
	}

	var out []model.Place
	for _, place := range results {
		if len(out) >= fallbackResultLimit {
			break
		}
		if !p.inRegion(place.Address) {
			continue
		}
		if !handler.ValidatePlace(&place, intent) {
			continue
		}
		place.Source = model.SourceGoogleFallback
		out = append(out, place)
	}
	return out
}

// yelpSearch queries the secondary provider with the handler's terms.
func (p *Pipeline) yelpSearch(ctx context.Context, intent *model.ParsedIntent, handler domain.Handler, area string, user *model.Coordinates, degraded *[]string) []model.Place {
	if p.yelp == nil {
		return nil
	}
	terms := handler.BuildSearchTerms(intent)

	q := provider.YelpSearch{
		Term:       terms.YelpTerm,
		Categories: terms.YelpCategories,
	}
	switch {
	case terms.YelpLocation != "":
		q.Location = terms.YelpLocation
	case area != "":
		q.Location = area + ", TX"
	case user != nil:
		q.Center = user
	default:
		return nil
	}

	results, err := p.yelp.Search(ctx, q)
	if err != nil {
		*degraded = append(*degraded, "yelp")
		p.logger.Warn("yelp search failed", zap.Error(err))
		return nil
	}
	return results
}

// maxReviewEnrichments bounds the extra detail calls one search makes.
const maxReviewEnrichments = 20

// enrichReviews pulls review text for candidates that arrived without
// any, best-effort and bounded.
func (p *Pipeline) enrichReviews(ctx context.Context, places []model.Place) {
	enriched := 0
	for i := range places {
		if enriched >= maxReviewEnrichments {
			return
		}
		if len(places[i].Reviews) > 0 {
			continue
		}
		id := places[i].ProviderID(model.SourceGoogle)
		if id == "" {
			continue
		}
		if reviews := p.maps.Reviews(ctx, id); len(reviews) > 0 {
			places[i].Reviews = reviews
		}
		enriched++
	}
}

// assessRelevance attaches a per-candidate match verdict. With AI
// analysis enabled, candidates the analyzer confidently rejects are
// dropped; the degraded analyzer passes everything through at a neutral
// score. With AI analysis disabled, the domain scorer fills the same
// fields and nothing is dropped.
func (p *Pipeline) assessRelevance(ctx context.Context, places []model.Place, intent *model.ParsedIntent, handler domain.Handler) []model.Place {
	if p.cfg.DisableRelevanceAnalyze {
		for i := range places {
			s := handler.ScorePlace(&places[i], intent)
			places[i].MatchScore = s.Score
			places[i].MatchReasons = s.MatchReasons
			places[i].Confidence = s.Confidence
		}
		return places
	}

	kept := places[:0]
	for i := range places {
		analysis := p.ai.AnalyzeRelevance(ctx, &places[i], intent)
		if !analysis.IsMatch && analysis.Confidence == model.ConfidenceHigh {
			continue
		}
		places[i].MatchScore = float64(analysis.MatchScore)
		places[i].MatchReasons = analysis.MatchReasons
		places[i].Confidence = analysis.Confidence
		kept = append(kept, places[i])
	}
	return kept
}

// locationContext renders the location hint fed to the AI suggester.
func (p *Pipeline) locationContext(area string, user *model.Coordinates) string {
	if area != "" {
		ctx := fmt.Sprintf("in %s, Dallas metro area, Texas", titleCase(area))
		if user != nil {
			ctx += fmt.Sprintf(" (%.4f, %.4f)", user.Lat, user.Lng)
		}
		return ctx
	}
	if user != nil {
		return fmt.Sprintf("Dallas metro area, Texas near user location (%.4f, %.4f)", user.Lat, user.Lng)
	}
	return "Dallas metro area, Texas"
}

// inRegion reports whether an address belongs to the served metro.
// An empty keyword list disables the gate.
func (p *Pipeline) inRegion(address string) bool {
	if len(p.cfg.RegionKeywords) == 0 {
		return true
	}
	lower := strings.ToLower(address)
	for _, kw := range p.cfg.RegionKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// titleCase capitalizes each word of a gazetteer city name.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func userCoordinates(req model.SearchRequest) *model.Coordinates {
	if req.Lat == 0 && req.Lng == 0 {
		return nil
	}
	return &model.Coordinates{Lat: req.Lat, Lng: req.Lng}
}
