// Package provider implements the place-data provider clients and
// normalizes their records into the pipeline's candidate shape.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/aroundme/aroundme/internal/cache"
	"github.com/aroundme/aroundme/internal/model"
	"github.com/aroundme/aroundme/internal/worker"
)

const searchFieldMask = "places.name,places.id,places.displayName,places.formattedAddress," +
	"places.location,places.rating,places.userRatingCount,places.priceLevel," +
	"places.primaryType,places.currentOpeningHours.weekdayDescriptions"

const detailsFieldMask = "displayName,formattedAddress,internationalPhoneNumber," +
	"nationalPhoneNumber,websiteUri,rating,userRatingCount,priceLevel," +
	"currentOpeningHours.weekdayDescriptions,regularOpeningHours.weekdayDescriptions," +
	"location,reviews"

// GoogleClient talks to the Places API (v1).
type GoogleClient struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	cache      cache.Cache
	cacheTTL   time.Duration
	limiter    *worker.Limiter
	logger     *zap.Logger
}

// NewGoogleClient creates a Places v1 client.
func NewGoogleClient(cfg model.ProviderConfig, timeout time.Duration, c cache.Cache, ttl time.Duration, limiter *worker.Limiter, logger *zap.Logger) *GoogleClient {
	return &GoogleClient{
		httpClient: &http.Client{Timeout: timeout},
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		cache:      c,
		cacheTTL:   ttl,
		limiter:    limiter,
		logger:     logger,
	}
}

type googlePlace struct {
	Name        string `json:"name"` // "places/ChIJ..."
	ID          string `json:"id"`
	DisplayName struct {
		Text string `json:"text"`
	} `json:"displayName"`
	FormattedAddress string `json:"formattedAddress"`
	Location         struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"location"`
	Rating              float64 `json:"rating"`
	UserRatingCount     int     `json:"userRatingCount"`
	PriceLevel          string  `json:"priceLevel"`
	PrimaryType         string  `json:"primaryType"`
	CurrentOpeningHours struct {
		WeekdayDescriptions []string `json:"weekdayDescriptions"`
	} `json:"currentOpeningHours"`
}

type googleSearchResponse struct {
	Places []googlePlace `json:"places"`
}

// googleDetails is the extended record returned by the details endpoint.
type googleDetails struct {
	DisplayName struct {
		Text string `json:"text"`
	} `json:"displayName"`
	FormattedAddress         string  `json:"formattedAddress"`
	InternationalPhoneNumber string  `json:"internationalPhoneNumber"`
	NationalPhoneNumber      string  `json:"nationalPhoneNumber"`
	WebsiteURI               string  `json:"websiteUri"`
	Rating                   float64 `json:"rating"`
	UserRatingCount          int     `json:"userRatingCount"`
	PriceLevel               string  `json:"priceLevel"`
	Location                 struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"location"`
	CurrentOpeningHours struct {
		WeekdayDescriptions []string `json:"weekdayDescriptions"`
	} `json:"currentOpeningHours"`
	RegularOpeningHours struct {
		WeekdayDescriptions []string `json:"weekdayDescriptions"`
	} `json:"regularOpeningHours"`
	Reviews []struct {
		Rating float64 `json:"rating"`
		Text   struct {
			Text string `json:"text"`
		} `json:"text"`
		PublishTime       string `json:"publishTime"`
		AuthorAttribution struct {
			DisplayName string `json:"displayName"`
		} `json:"authorAttribution"`
	} `json:"reviews"`
}

// SearchText runs POST places:searchText with an optional circular
// location bias.
func (g *GoogleClient) SearchText(ctx context.Context, query string, center *model.Coordinates, radiusMeters int) ([]model.Place, error) {
	payload := map[string]any{"textQuery": query}
	if center != nil {
		radius := float64(radiusMeters)
		if radius <= 0 {
			radius = 3000
		}
		payload["locationBias"] = map[string]any{
			"circle": map[string]any{
				"center": map[string]any{"latitude": center.Lat, "longitude": center.Lng},
				"radius": radius,
			},
		}
	}

	var resp googleSearchResponse
	if err := g.post(ctx, "/places:searchText", searchFieldMask, payload, &resp); err != nil {
		return nil, err
	}
	return g.normalizeAll(resp.Places), nil
}

// SearchNearby runs POST places:searchNearby constrained to a circle and
// optionally to primary types.
func (g *GoogleClient) SearchNearby(ctx context.Context, center model.Coordinates, radiusMeters int, primaryTypes []string) ([]model.Place, error) {
	payload := map[string]any{
		"locationRestriction": map[string]any{
			"circle": map[string]any{
				"center": map[string]any{"latitude": center.Lat, "longitude": center.Lng},
				"radius": float64(radiusMeters),
			},
		},
	}
	if len(primaryTypes) > 0 {
		payload["includedPrimaryTypes"] = primaryTypes
	}

	var resp googleSearchResponse
	if err := g.post(ctx, "/places:searchNearby", searchFieldMask, payload, &resp); err != nil {
		return nil, err
	}
	return g.normalizeAll(resp.Places), nil
}

// Details fetches the extended record for a place id of the form
// "places/ChIJ...".
func (g *GoogleClient) Details(ctx context.Context, placeID string) (*PlaceDetails, error) {
	endpoint := g.baseURL + "/" + url.PathEscape(placeID)
	// PathEscape encodes the separator inside "places/ChIJ..."
	endpoint = strings.ReplaceAll(endpoint, "%2F", "/")

	var details googleDetails
	if err := g.get(ctx, endpoint, detailsFieldMask, &details); err != nil {
		return nil, err
	}

	hours := details.CurrentOpeningHours.WeekdayDescriptions
	if len(hours) == 0 {
		hours = details.RegularOpeningHours.WeekdayDescriptions
	}

	result := &PlaceDetails{
		Source:       model.SourceGoogle,
		PlaceID:      placeID,
		Name:         details.DisplayName.Text,
		Address:      details.FormattedAddress,
		Phone:        details.NationalPhoneNumber,
		IntlPhone:    details.InternationalPhoneNumber,
		Website:      details.WebsiteURI,
		Rating:       details.Rating,
		ReviewCount:  details.UserRatingCount,
		PriceLevel:   googlePriceLevel(details.PriceLevel),
		OpeningHours: hours,
		Coordinates:  &model.Coordinates{Lat: details.Location.Latitude, Lng: details.Location.Longitude},
	}
	for _, rv := range details.Reviews {
		if len(result.Reviews) >= maxReviews {
			break
		}
		result.Reviews = append(result.Reviews, model.Review{
			Text:   rv.Text.Text,
			Rating: rv.Rating,
			Author: rv.AuthorAttribution.DisplayName,
			Source: model.SourceGoogle,
		})
	}
	return result, nil
}

// Reviews fetches a place's reviews, best-effort: any failure reduces to
// an empty list and is logged, not raised. Candidate review enrichment
// must never abort the pipeline.
func (g *GoogleClient) Reviews(ctx context.Context, placeID string) []model.Review {
	if !strings.HasPrefix(placeID, "places/") {
		return nil
	}
	details, err := g.Details(ctx, placeID)
	if err != nil {
		g.logger.Warn("google reviews fetch failed",
			zap.String("place_id", placeID),
			zap.Error(err))
		return nil
	}
	return details.Reviews
}

func (g *GoogleClient) normalizeAll(raw []googlePlace) []model.Place {
	places := make([]model.Place, 0, len(raw))
	for _, p := range raw {
		places = append(places, g.normalize(p))
	}
	return places
}

// normalize maps a raw Places v1 record onto the candidate shape.
func (g *GoogleClient) normalize(p googlePlace) model.Place {
	place := model.Place{
		Name:        p.DisplayName.Text,
		Address:     p.FormattedAddress,
		Rating:      p.Rating,
		ReviewCount: p.UserRatingCount,
		PriceLevel:  googlePriceLevel(p.PriceLevel),
		Source:      model.SourceGoogle,
	}
	place.SetProviderID(model.SourceGoogle, p.Name)
	if p.Location.Latitude != 0 || p.Location.Longitude != 0 {
		place.Coordinates = &model.Coordinates{Lat: p.Location.Latitude, Lng: p.Location.Longitude}
	}
	if p.PrimaryType != "" {
		place.Categories = []string{p.PrimaryType}
	}
	return place
}

// googlePriceLevel maps the v1 enum onto the 1-4 integer scale shared
// with Yelp's price symbols. Unknown maps to 0.
func googlePriceLevel(level string) int {
	switch level {
	case "PRICE_LEVEL_INEXPENSIVE":
		return 1
	case "PRICE_LEVEL_MODERATE":
		return 2
	case "PRICE_LEVEL_EXPENSIVE":
		return 3
	case "PRICE_LEVEL_VERY_EXPENSIVE":
		return 4
	}
	return 0
}

func (g *GoogleClient) post(ctx context.Context, path, fieldMask string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	endpoint := g.baseURL + path
	key := cache.Key(model.SourceGoogle, path, fieldMask, string(body))
	if g.cache != nil {
		if cached, found := g.cache.Get(key); found {
			return json.Unmarshal(cached, out)
		}
	}

	if g.limiter != nil {
		if err := g.limiter.Wait(ctx, endpoint); err != nil {
			return fmt.Errorf("rate limit: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", g.apiKey)
	req.Header.Set("X-Goog-FieldMask", fieldMask)

	raw, err := g.do(req)
	if err != nil {
		return err
	}
	if g.cache != nil {
		g.cache.Set(key, raw, g.cacheTTL)
	}
	return json.Unmarshal(raw, out)
}

func (g *GoogleClient) get(ctx context.Context, endpoint, fieldMask string, out any) error {
	key := cache.Key(model.SourceGoogle, endpoint, fieldMask)
	if g.cache != nil {
		if cached, found := g.cache.Get(key); found {
			return json.Unmarshal(cached, out)
		}
	}

	if g.limiter != nil {
		if err := g.limiter.Wait(ctx, endpoint); err != nil {
			return fmt.Errorf("rate limit: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-Goog-Api-Key", g.apiKey)
	req.Header.Set("X-Goog-FieldMask", fieldMask)

	raw, err := g.do(req)
	if err != nil {
		return err
	}
	if g.cache != nil {
		g.cache.Set(key, raw, g.cacheTTL)
	}
	return json.Unmarshal(raw, out)
}

func (g *GoogleClient) do(req *http.Request) ([]byte, error) {
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("google places: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("google places: unexpected status %d", resp.StatusCode)
	}
	return body, nil
}
