package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/aroundme/aroundme/internal/model"
	"github.com/aroundme/aroundme/internal/provider"
	"github.com/aroundme/aroundme/internal/query"
)

// fakeAI scripts the AI service. Zero values take the degraded paths.
type fakeAI struct {
	validation  *model.QueryValidation
	intent      *model.ParsedIntent
	suggestions []model.Suggestion
	analysis    map[string]*model.RelevanceAnalysis
	parser      *query.Parser
}

func (f *fakeAI) ValidateQuery(_ context.Context, raw string) *model.QueryValidation {
	if f.validation != nil {
		return f.validation
	}
	return &model.QueryValidation{IsValid: true, IsLocationRelated: true, CleanedQuery: raw}
}

func (f *fakeAI) ExtractIntent(_ context.Context, clean string) *model.ParsedIntent {
	if f.intent != nil {
		return f.intent
	}
	if f.parser == nil {
		f.parser = query.NewParser()
	}
	return f.parser.Parse(clean)
}

func (f *fakeAI) SuggestPlaces(_ context.Context, _, _ string) []model.Suggestion {
	return f.suggestions
}

func (f *fakeAI) AnalyzeRelevance(_ context.Context, place *model.Place, _ *model.ParsedIntent) *model.RelevanceAnalysis {
	if a, ok := f.analysis[place.Name]; ok {
		return a
	}
	return &model.RelevanceAnalysis{IsMatch: true, Confidence: model.ConfidenceMedium, MatchScore: 70}
}

// fakeMaps serves canned search results keyed by query substring.
type fakeMaps struct {
	byQuery     map[string][]model.Place
	nearby      []model.Place
	reviews     map[string][]model.Review
	searchCalls []string
	failAll     bool
}

func (f *fakeMaps) SearchText(_ context.Context, q string, _ *model.Coordinates, _ int) ([]model.Place, error) {
	f.searchCalls = append(f.searchCalls, q)
	if f.failAll {
		return nil, errors.New("upstream down")
	}
	for key, places := range f.byQuery {
		if strings.Contains(strings.ToLower(q), key) {
			return places, nil
		}
	}
	return nil, nil
}

func (f *fakeMaps) SearchNearby(_ context.Context, _ model.Coordinates, _ int, _ []string) ([]model.Place, error) {
	if f.failAll {
		return nil, errors.New("upstream down")
	}
	return f.nearby, nil
}

func (f *fakeMaps) Reviews(_ context.Context, id string) []model.Review {
	return f.reviews[id]
}

type fakeYelp struct {
	places []model.Place
	err    error
	got    *provider.YelpSearch
}

func (f *fakeYelp) Search(_ context.Context, q provider.YelpSearch) ([]model.Place, error) {
	f.got = &q
	return f.places, f.err
}

func testConfig() model.SearchConfig {
	cfg := model.DefaultConfig().Search
	cfg.RegionKeywords = []string{"tx", "texas"}
	return cfg
}

func place(name, addr string, rating float64, reviews int, lat, lng float64) model.Place {
	p := model.Place{
		Name:        name,
		Address:     addr,
		Rating:      rating,
		ReviewCount: reviews,
		Coordinates: &model.Coordinates{Lat: lat, Lng: lng},
		Source:      model.SourceGoogle,
	}
	p.SetProviderID(model.SourceGoogle, "places/"+name)
	return p
}

func TestSearch_SuggestionFlow(t *testing.T) {
	saravana := place("Saravana Bhavan", "100 Main St, Frisco, TX", 4.5, 300, 33.14, -96.81)
	saravana.Categories = []string{"indian_restaurant", "vegetarian_restaurant"}
	udipi := place("Udipi Cafe", "200 Elm St, Richardson, TX", 4.2, 150, 32.95, -96.73)
	udipi.Categories = []string{"indian_restaurant", "vegetarian_restaurant"}

	maps := &fakeMaps{byQuery: map[string][]model.Place{
		"saravana": {saravana},
		"udipi":    {udipi},
	}}
	aiSvc := &fakeAI{
		suggestions: []model.Suggestion{
			{Name: "Saravana Bhavan", Area: "Frisco"},
			{Name: "Udipi Cafe", Area: "Richardson"},
		},
	}
	p := NewPipeline(aiSvc, maps, &fakeYelp{}, testConfig(), zap.NewNop())

	resp, err := p.Search(context.Background(), model.SearchRequest{
		Query: "indian vegetarian restaurants in frisco",
		Lat:   33.15, Lng: -96.82,
	})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	if len(resp.Places) != 2 {
		t.Fatalf("expected 2 places, got %d", len(resp.Places))
	}
	if resp.QueryIntent == nil || resp.QueryIntent.Domain != model.DomainFood {
		t.Errorf("expected a food intent, got %+v", resp.QueryIntent)
	}
	if resp.Scoring.TotalCandidates != 2 {
		t.Errorf("unexpected candidate count %d", resp.Scoring.TotalCandidates)
	}
	if resp.Scoring.SortedBy != "rating_first" {
		t.Errorf("no near-me phrasing, expected rating_first, got %q", resp.Scoring.SortedBy)
	}
	if resp.Scoring.TopPlace != "Saravana Bhavan" {
		t.Errorf("4.5-star place should rank first, got %q", resp.Scoring.TopPlace)
	}
	for _, pl := range resp.Places {
		if pl.EnhancedScore <= 0 {
			t.Errorf("place %q missing an enhanced score", pl.Name)
		}
		if pl.DistanceMeters == nil {
			t.Errorf("place %q missing a distance", pl.Name)
		}
	}
}

func TestSearch_RejectsInvalidQuery(t *testing.T) {
	aiSvc := &fakeAI{validation: &model.QueryValidation{IsValid: false, Reason: "not a place query"}}
	p := NewPipeline(aiSvc, &fakeMaps{}, nil, testConfig(), zap.NewNop())

	_, err := p.Search(context.Background(), model.SearchRequest{Query: "write my essay"})
	if !errors.Is(err, ErrInvalidQuery) {
		t.Fatalf("expected ErrInvalidQuery, got %v", err)
	}
}

func TestSearch_RegionGate(t *testing.T) {
	maps := &fakeMaps{byQuery: map[string][]model.Place{
		"chain": {
			place("Chain Frisco", "1 Plaza, Frisco, TX", 4.0, 100, 33.14, -96.81),
			place("Chain Tulsa", "2 Plaza, Tulsa, OK", 4.8, 900, 36.15, -95.99),
		},
	}}
	aiSvc := &fakeAI{suggestions: []model.Suggestion{{Name: "Chain", Area: "Frisco"}}}
	p := NewPipeline(aiSvc, maps, nil, testConfig(), zap.NewNop())

	resp, err := p.Search(context.Background(), model.SearchRequest{Query: "chain restaurant"})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	for _, pl := range resp.Places {
		if strings.Contains(pl.Address, "OK") {
			t.Errorf("out-of-region place %q should be gated", pl.Name)
		}
	}
}

func TestSearch_FallbackWhenSuggestionsShort(t *testing.T) {
	maps := &fakeMaps{byQuery: map[string][]model.Place{
		// The food handler's fallback query contains the cuisine term.
		"indian": {
			place("Bombay Palace", "3 Oak St, Plano, TX", 4.3, 220, 33.02, -96.70),
		},
	}}
	aiSvc := &fakeAI{} // no suggestions at all
	p := NewPipeline(aiSvc, maps, nil, testConfig(), zap.NewNop())

	resp, err := p.Search(context.Background(), model.SearchRequest{Query: "indian restaurants in plano"})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(resp.Places) != 1 {
		t.Fatalf("expected the fallback result, got %d places", len(resp.Places))
	}
	if resp.Places[0].Source != model.SourceGoogleFallback {
		t.Errorf("fallback results should be tagged, got source %q", resp.Places[0].Source)
	}
	if !containsStr(resp.Degraded, "suggestions") {
		t.Errorf("empty suggestions should be reported as degraded, got %v", resp.Degraded)
	}
}

func TestSearch_YelpMergeDedupes(t *testing.T) {
	google := place("Saravana Bhavan", "100 Main St, Frisco, TX", 4.5, 300, 33.14, -96.81)
	yelpDup := model.Place{
		Name:        "Saravana Bhavan",
		Address:     "100 Main Street, Frisco, TX",
		Rating:      4.4,
		ReviewCount: 500,
		Coordinates: &model.Coordinates{Lat: 33.1401, Lng: -96.8101},
		Categories:  []string{"Indian", "indpak", "Vegetarian"},
		Source:      model.SourceYelp,
	}
	yelpDup.SetProviderID(model.SourceYelp, "yelp-sb")

	maps := &fakeMaps{byQuery: map[string][]model.Place{"saravana": {google}}}
	yelp := &fakeYelp{places: []model.Place{yelpDup}}
	aiSvc := &fakeAI{suggestions: []model.Suggestion{{Name: "Saravana Bhavan", Area: "Frisco"}}}

	cfg := testConfig()
	cfg.MinCandidates = 1 // suggestion result is enough; skip fallback
	p := NewPipeline(aiSvc, maps, yelp, cfg, zap.NewNop())

	resp, err := p.Search(context.Background(), model.SearchRequest{Query: "indian vegetarian in frisco"})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(resp.Places) != 1 {
		t.Fatalf("duplicate records should merge, got %d places", len(resp.Places))
	}
	merged := resp.Places[0]
	if merged.ProviderID(model.SourceYelp) != "yelp-sb" {
		t.Error("merged place should carry the yelp id")
	}
	if merged.ReviewCount != 500 {
		t.Errorf("merged review count should take the max, got %d", merged.ReviewCount)
	}
	if merged.Source != model.SourceMerged {
		t.Errorf("two-provider place should be tagged merged, got %q", merged.Source)
	}
	if yelp.got == nil {
		t.Fatal("yelp should have been queried")
	}
}

func TestSearch_MustHaveFilterDropsContradictions(t *testing.T) {
	veg := place("Green Leaf", "1 St, Frisco, TX", 4.2, 120, 33.14, -96.81)
	veg.Categories = []string{"vegetarian restaurant"}
	steak := place("Big Steakhouse", "2 St, Frisco, TX", 4.7, 800, 33.15, -96.80)
	steak.Categories = []string{"steakhouse"}
	steak.Reviews = []model.Review{{Text: "best brisket and ribs"}}

	maps := &fakeMaps{byQuery: map[string][]model.Place{"veg": {veg, steak}}}
	aiSvc := &fakeAI{suggestions: []model.Suggestion{{Name: "veg places", Area: "Frisco"}}}
	p := NewPipeline(aiSvc, maps, nil, testConfig(), zap.NewNop())

	resp, err := p.Search(context.Background(), model.SearchRequest{Query: "vegetarian restaurants in frisco"})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(resp.Places) != 1 || resp.Places[0].Name != "Green Leaf" {
		t.Errorf("steakhouse without vegetarian evidence should be dropped, got %v", names(resp.Places))
	}
}

func TestSearch_RelevanceRejectionDrops(t *testing.T) {
	a := place("Alpha", "1 St, Frisco, TX", 4.0, 100, 33.14, -96.81)
	b := place("Beta", "2 St, Frisco, TX", 4.1, 100, 33.15, -96.80)

	maps := &fakeMaps{byQuery: map[string][]model.Place{"cafe": {a, b}}}
	aiSvc := &fakeAI{
		suggestions: []model.Suggestion{{Name: "cafe spots", Area: "Frisco"}},
		analysis: map[string]*model.RelevanceAnalysis{
			"Beta": {IsMatch: false, Confidence: model.ConfidenceHigh, MatchScore: 10},
		},
	}
	p := NewPipeline(aiSvc, maps, nil, testConfig(), zap.NewNop())

	resp, err := p.Search(context.Background(), model.SearchRequest{Query: "cafe in frisco"})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(resp.Places) != 1 || resp.Places[0].Name != "Alpha" {
		t.Errorf("confident rejection should drop the place, got %v", names(resp.Places))
	}
}

func TestSearch_NearMeSortsByDistance(t *testing.T) {
	near := place("Near Spot", "1 St, Dallas, TX", 4.0, 50, 32.7801, -96.8001)
	far := place("Far Spot", "2 St, Dallas, TX", 4.9, 900, 32.90, -96.95)

	maps := &fakeMaps{byQuery: map[string][]model.Place{"coffee": {far, near}}}
	aiSvc := &fakeAI{suggestions: []model.Suggestion{{Name: "coffee spots", Area: "Dallas"}}}
	p := NewPipeline(aiSvc, maps, nil, testConfig(), zap.NewNop())

	resp, err := p.Search(context.Background(), model.SearchRequest{
		Query: "coffee near me",
		Lat:   32.78, Lng: -96.80,
	})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if resp.Scoring.SortedBy != "distance_first" {
		t.Errorf("near-me query should sort by distance, got %q", resp.Scoring.SortedBy)
	}
	if len(resp.Places) != 2 || resp.Places[0].Name != "Near Spot" {
		t.Errorf("closest place should rank first, got %v", names(resp.Places))
	}
}

func TestSearch_AllSourcesDownDegrades(t *testing.T) {
	maps := &fakeMaps{failAll: true}
	aiSvc := &fakeAI{suggestions: []model.Suggestion{{Name: "anything", Area: "Dallas"}}}
	p := NewPipeline(aiSvc, maps, nil, testConfig(), zap.NewNop())

	resp, err := p.Search(context.Background(), model.SearchRequest{Query: "tacos in dallas"})
	if err != nil {
		t.Fatalf("provider outage should degrade, not fail: %v", err)
	}
	if len(resp.Places) != 0 {
		t.Errorf("expected no places, got %v", names(resp.Places))
	}
	if !containsStr(resp.Degraded, "google") {
		t.Errorf("google outage should be reported, got %v", resp.Degraded)
	}
}

func TestSearch_ReviewEnrichment(t *testing.T) {
	bare := place("Quiet Cafe", "1 St, Plano, TX", 4.3, 80, 33.02, -96.70)
	maps := &fakeMaps{
		byQuery: map[string][]model.Place{"quiet": {bare}},
		reviews: map[string][]model.Review{
			"places/Quiet Cafe": {{Text: "great wifi and quiet corners", Rating: 5}},
		},
	}
	aiSvc := &fakeAI{suggestions: []model.Suggestion{{Name: "Quiet Cafe", Area: "Plano"}}}
	p := NewPipeline(aiSvc, maps, nil, testConfig(), zap.NewNop())

	resp, err := p.Search(context.Background(), model.SearchRequest{Query: "quiet cafe with wifi in plano"})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(resp.Places) != 1 {
		t.Fatalf("expected 1 place, got %d", len(resp.Places))
	}
	if len(resp.Places[0].Reviews) == 0 {
		t.Error("candidate should have been enriched with reviews")
	}
}

func TestSearch_CapsAtMaxResults(t *testing.T) {
	byQuery := make(map[string][]model.Place)
	var suggestions []model.Suggestion
	for i := 0; i < 5; i++ {
		key := "group" + string(rune('a'+i))
		for j := 0; j < 3; j++ {
			name := "Spot " + string(rune('A'+i)) + string(rune('0'+j))
			byQuery[key] = append(byQuery[key],
				place(name, "1 St, Dallas, TX", 4.0+float64(j)*0.1, 100+j, 32.78+float64(i)*0.01+float64(j)*0.002, -96.80))
		}
		suggestions = append(suggestions, model.Suggestion{Name: key, Area: "Dallas"})
	}

	maps := &fakeMaps{byQuery: byQuery}
	aiSvc := &fakeAI{suggestions: suggestions}
	cfg := testConfig()
	p := NewPipeline(aiSvc, maps, nil, cfg, zap.NewNop())

	resp, err := p.Search(context.Background(), model.SearchRequest{Query: "spots in dallas"})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(resp.Places) > cfg.MaxResults {
		t.Errorf("response should cap at %d places, got %d", cfg.MaxResults, len(resp.Places))
	}
}

func TestNearby(t *testing.T) {
	maps := &fakeMaps{nearby: []model.Place{
		place("Far", "2 St, Dallas, TX", 4.9, 500, 32.90, -96.95),
		place("Near", "1 St, Dallas, TX", 4.0, 50, 32.781, -96.801),
	}}
	p := NewPipeline(&fakeAI{}, maps, nil, testConfig(), zap.NewNop())

	got, err := p.Nearby(context.Background(), model.Coordinates{Lat: 32.78, Lng: -96.80}, 0, nil)
	if err != nil {
		t.Fatalf("nearby failed: %v", err)
	}
	if len(got) != 2 || got[0].Name != "Near" {
		t.Errorf("nearby results should be distance-ordered, got %v", names(got))
	}
}

func names(places []model.Place) []string {
	out := make([]string, len(places))
	for i, p := range places {
		out[i] = p.Name
	}
	return out
}

func containsStr(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
