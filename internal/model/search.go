package model

// QueryValidation is the AI validator's judgment of a raw query.
type QueryValidation struct {
	IsValid           bool   `json:"is_valid"`
	IsLocationRelated bool   `json:"is_location_related"`
	Reason            string `json:"reason,omitempty"`
	CleanedQuery      string `json:"cleaned_query"`
}

// Suggestion is one AI-proposed place to look up against the providers.
type Suggestion struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Area  string `json:"area,omitempty"`
	Proof string `json:"proof,omitempty"`
}

// SpecificMatches records per-dimension AI match judgments.
type SpecificMatches struct {
	CuisineMatch       bool `json:"cuisine_match"`
	DietaryMatch       bool `json:"dietary_match"`
	LocationMatch      bool `json:"location_match"`
	SpecificItemsMatch bool `json:"specific_items_match"`
}

// RelevanceAnalysis is the AI relevance analyzer's verdict for one
// candidate. Amenity matches require explicit textual evidence; the
// analyzer never infers them from establishment type alone.
type RelevanceAnalysis struct {
	IsMatch              bool            `json:"is_match"`
	Confidence           string          `json:"confidence"`
	MatchScore           int             `json:"match_score"`
	SpecificMatches      SpecificMatches `json:"specific_matches"`
	MatchReasons         []string        `json:"match_reasons,omitempty"`
	Concerns             []string        `json:"concerns,omitempty"`
	RelevantReviewQuotes []string        `json:"relevant_review_quotes,omitempty"`
}

// SearchRequest is one place-search invocation.
type SearchRequest struct {
	Query string  `json:"query"`
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
}

// ScoringSummary explains how the final list was produced.
type ScoringSummary struct {
	TotalCandidates int    `json:"total_candidates"`
	AfterFilters    int    `json:"after_filters"`
	SortedBy        string `json:"sorted_by"` // distance_first | rating_first
	TopPlace        string `json:"top_place,omitempty"`
}

// SearchResponse is the ranked result of one search request.
type SearchResponse struct {
	Places      []Place        `json:"places"`
	QueryIntent *ParsedIntent  `json:"query_intent,omitempty"`
	Scoring     ScoringSummary `json:"scoring_breakdown"`
	Degraded    []string       `json:"degraded_sources,omitempty"`
}
