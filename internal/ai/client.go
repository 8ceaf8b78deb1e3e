// Package ai wraps the OpenAI chat API behind the pipeline's AI
// contracts: query validation, intent extraction, place suggestion,
// relevance analysis, and streaming chat. Every non-streaming call
// degrades to a deterministic fallback on failure; AI trouble must
// never abort a search.
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/aroundme/aroundme/internal/model"
	"github.com/aroundme/aroundme/internal/query"
)

// Service is the AI surface the pipeline depends on.
type Service interface {
	ValidateQuery(ctx context.Context, rawQuery string) *model.QueryValidation
	ExtractIntent(ctx context.Context, cleanQuery string) *model.ParsedIntent
	SuggestPlaces(ctx context.Context, cleanQuery, locationContext string) []model.Suggestion
	AnalyzeRelevance(ctx context.Context, place *model.Place, intent *model.ParsedIntent) *model.RelevanceAnalysis
}

// Streamer generates assistant text incrementally. onDelta is called for
// each chunk; returning an error from it stops generation cleanly (the
// caller disconnected). The full assembled text is returned at the end.
type Streamer interface {
	StreamChat(ctx context.Context, systemPrompt, userText string, onDelta func(delta string) error) (string, error)
}

// Client implements Service and Streamer on the OpenAI chat API.
type Client struct {
	api     *openai.Client
	model   string
	timeout time.Duration
	parser  *query.Parser
	logger  *zap.Logger
}

// NewClient creates an AI client. An empty API key yields a client whose
// calls all take the fallback path, which keeps the pipeline usable in
// degraded mode.
func NewClient(cfg model.OpenAIConfig, logger *zap.Logger) *Client {
	var api *openai.Client
	if cfg.APIKey != "" {
		clientConfig := openai.DefaultConfig(cfg.APIKey)
		if cfg.BaseURL != "" {
			clientConfig.BaseURL = cfg.BaseURL
		}
		api = openai.NewClientWithConfig(clientConfig)
	}

	m := cfg.Model
	if m == "" {
		m = openai.GPT4oMini
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		api:     api,
		model:   m,
		timeout: timeout,
		parser:  query.NewParser(),
		logger:  logger,
	}
}

// ValidateQuery asks the model whether the query is a safe
// location-related search. An unreachable validator degrades open: the
// query is treated as valid and passed through unchanged, because an AI
// outage must not make search unusable. Only an explicit invalid verdict
// rejects a query.
func (c *Client) ValidateQuery(ctx context.Context, rawQuery string) *model.QueryValidation {
	fallback := &model.QueryValidation{
		IsValid:           true,
		IsLocationRelated: true,
		Reason:            "validator unavailable",
		CleanedQuery:      rawQuery,
	}

	raw, err := c.complete(ctx, validateSystemPrompt, fmt.Sprintf("Validate this query: '%s'", rawQuery), 0.1, 200)
	if err != nil {
		c.logger.Warn("query validation degraded", zap.Error(err))
		return fallback
	}

	var validation model.QueryValidation
	if err := json.Unmarshal([]byte(stripJSONFence(raw)), &validation); err != nil {
		c.logger.Warn("query validation returned malformed JSON", zap.Error(err))
		return fallback
	}
	if validation.CleanedQuery == "" {
		validation.CleanedQuery = rawQuery
	}
	return &validation
}

// ExtractIntent asks the model for the structured intent. On any
// failure it falls back to the local vocabulary parser, which always
// produces a low-confidence intent.
func (c *Client) ExtractIntent(ctx context.Context, cleanQuery string) *model.ParsedIntent {
	userPrompt := fmt.Sprintf(`Extract intent from this place search query: "%s"

Analyze intelligently:
1. How many entities/places are mentioned? (single_entity or multi_entity)
2. For each entity, what type is it? (restaurant, park, library, gym, hotel, etc.)
3. What are the specific requirements/constraints for each entity?
4. Are there spatial relationships between entities? (near, close to, etc.)
5. What are the location constraints? (near me, in Dallas, downtown, etc.)

Extract constraints as simple, searchable terms:
- "restaurant with stroller parking and changing table" -> constraints: ["stroller_parking", "changing_table"]
- "indian vegetarian restaurant" -> constraints: ["indian_cuisine", "vegetarian_options"]
- "hotels with ev charging" -> constraints: ["ev_charging"]

Return only the JSON object, no explanation.`, cleanQuery)

	raw, err := c.complete(ctx, extractSystemPrompt, userPrompt, 0.1, 500)
	if err != nil {
		c.logger.Warn("intent extraction degraded to local parser", zap.Error(err))
		return c.parser.Parse(cleanQuery)
	}

	var intent model.ParsedIntent
	if err := json.Unmarshal([]byte(stripJSONFence(raw)), &intent); err != nil {
		c.logger.Warn("intent extraction returned malformed JSON", zap.Error(err))
		return c.parser.Parse(cleanQuery)
	}
	intent.RawQuery = cleanQuery

	// The AI structure carries entities and location; the vocabulary
	// fields still come from the local parser so downstream filters see
	// both views.
	local := c.parser.Parse(cleanQuery)
	intent.Domain = local.Domain
	if intent.PlaceTypes == nil {
		intent.PlaceTypes = local.PlaceTypes
	}
	if intent.Attributes == nil {
		intent.Attributes = local.Attributes
	}
	if intent.SpecificItems == nil {
		intent.SpecificItems = local.SpecificItems
	}
	if intent.LocationModifiers == nil {
		intent.LocationModifiers = local.LocationModifiers
	}
	if intent.DietaryRequirements == nil {
		intent.DietaryRequirements = local.DietaryRequirements
	}
	if intent.CuisineTypes == nil {
		intent.CuisineTypes = local.CuisineTypes
	}
	if intent.BudgetPreference == "" {
		intent.BudgetPreference = local.BudgetPreference
	}
	if len(intent.Entities) == 0 {
		intent.Entities = local.Entities
	}
	if intent.Constraints == nil {
		intent.Constraints = local.Constraints
	}
	return &intent
}

// SuggestPlaces asks the model for real places matching the query. An
// empty list is the valid degraded response.
func (c *Client) SuggestPlaces(ctx context.Context, cleanQuery, locationContext string) []model.Suggestion {
	if locationContext == "" {
		locationContext = "Dallas metro area"
	}
	userPrompt := fmt.Sprintf(`Query: "%s"
Location context: %s

Parse this query to understand:
1. What type of place they want
2. What specific requirements/constraints they have
3. Location requirements:
   - If specific Dallas area mentioned (Frisco, Arlington, etc.) -> focus on that area
   - If "near me" mentioned -> focus on areas close to user's current location
   - If no location specified -> search across Dallas metro

Find REAL places in Dallas metro that actually have the required features. Provide proof for each suggestion.

Return 8-12 real places with evidence they meet requirements.`, cleanQuery, locationContext)

	raw, err := c.complete(ctx, suggestSystemPrompt, userPrompt, 0.3, 800)
	if err != nil {
		c.logger.Warn("place suggestion degraded", zap.Error(err))
		return nil
	}

	var resp struct {
		Suggestions []model.Suggestion `json:"suggestions"`
	}
	if err := json.Unmarshal([]byte(stripJSONFence(raw)), &resp); err != nil {
		c.logger.Warn("place suggestion returned malformed JSON", zap.Error(err))
		return nil
	}
	return resp.Suggestions
}

// AnalyzeRelevance asks the model how well a candidate matches the
// intent. The fallback is a neutral 50-score low-confidence match.
func (c *Client) AnalyzeRelevance(ctx context.Context, place *model.Place, intent *model.ParsedIntent) *model.RelevanceAnalysis {
	fallback := &model.RelevanceAnalysis{
		IsMatch:      true,
		Confidence:   model.ConfidenceLow,
		MatchScore:   50,
		MatchReasons: []string{"Fallback match"},
		Concerns:     []string{"Unable to perform AI analysis"},
	}

	summary := placeSummary(place)
	intentJSON, err := json.Marshal(intent)
	if err != nil {
		return fallback
	}
	userPrompt := fmt.Sprintf(`User Intent: %s

Place Information: %s

Analyze comprehensively:
1. Does this place match what the user is looking for based on all available information?
2. Check categories, reviews, and place type against user requirements
3. Look for evidence in reviews that supports or contradicts the match
4. Consider what this type of establishment typically offers
5. Score based on likelihood of user satisfaction`, intentJSON, summary)

	raw, err := c.complete(ctx, relevanceSystemPrompt, userPrompt, 0.1, 400)
	if err != nil {
		c.logger.Warn("relevance analysis degraded",
			zap.String("place", place.Name),
			zap.Error(err))
		return fallback
	}

	var analysis model.RelevanceAnalysis
	if err := json.Unmarshal([]byte(stripJSONFence(raw)), &analysis); err != nil {
		c.logger.Warn("relevance analysis returned malformed JSON", zap.Error(err))
		return fallback
	}
	return &analysis
}

// StreamChat streams assistant deltas to onDelta and returns the full
// assembled text. A nil API client echoes the user text so local
// development works without a key.
func (c *Client) StreamChat(ctx context.Context, systemPrompt, userText string, onDelta func(delta string) error) (string, error) {
	if c.api == nil {
		var sb strings.Builder
		for _, chunk := range []string{"(No API key set) ", "You wrote: ", truncate(userText, 200)} {
			if err := onDelta(chunk); err != nil {
				return sb.String(), err
			}
			sb.WriteString(chunk)
		}
		return sb.String(), nil
	}

	stream, err := c.api.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userText},
		},
		Stream:      true,
		Temperature: 0.3,
	})
	if err != nil {
		return "", fmt.Errorf("open chat stream: %w", err)
	}
	defer stream.Close()

	var sb strings.Builder
	for {
		part, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return sb.String(), nil
		}
		if err != nil {
			return sb.String(), fmt.Errorf("chat stream: %w", err)
		}
		if len(part.Choices) == 0 {
			continue
		}
		delta := part.Choices[0].Delta.Content
		if delta == "" {
			continue
		}
		if err := onDelta(delta); err != nil {
			// Consumer stopped reading; stop producing.
			return sb.String(), err
		}
		sb.WriteString(delta)
	}
}

func (c *Client) complete(ctx context.Context, systemPrompt, userPrompt string, temperature float32, maxTokens int) (string, error) {
	if c.api == nil {
		return "", fmt.Errorf("openai client not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("openai: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: empty response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// placeSummary renders the fields the analyzer should see, with review
// texts capped at ten.
func placeSummary(place *model.Place) string {
	reviews := make([]string, 0, 10)
	for _, r := range place.Reviews {
		if len(reviews) >= 10 {
			break
		}
		reviews = append(reviews, r.Text)
	}
	summary := map[string]any{
		"name":         place.Name,
		"categories":   place.Categories,
		"address":      place.Address,
		"rating":       place.Rating,
		"review_count": place.ReviewCount,
		"reviews":      reviews,
	}
	out, err := json.Marshal(summary)
	if err != nil {
		return place.Name
	}
	return string(out)
}

// stripJSONFence removes a markdown code fence around a JSON body.
func stripJSONFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
	} else {
		return s
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
