package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/aroundme/aroundme/internal/cache"
	"github.com/aroundme/aroundme/internal/model"
	"github.com/aroundme/aroundme/internal/worker"
)

// Yelp search defaults: named-location searches cast a wider net than
// coordinate-biased ones.
const (
	yelpLocationRadius = 10000
	yelpLocationLimit  = 20
	yelpNearbyRadius   = 3000
	yelpNearbyLimit    = 15
)

// YelpClient talks to the Yelp Fusion API.
type YelpClient struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	cache      cache.Cache
	cacheTTL   time.Duration
	limiter    *worker.Limiter
	logger     *zap.Logger
}

// NewYelpClient creates a Yelp Fusion client.
func NewYelpClient(cfg model.ProviderConfig, timeout time.Duration, c cache.Cache, ttl time.Duration, limiter *worker.Limiter, logger *zap.Logger) *YelpClient {
	return &YelpClient{
		httpClient: &http.Client{Timeout: timeout},
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		cache:      c,
		cacheTTL:   ttl,
		limiter:    limiter,
		logger:     logger,
	}
}

// Configured reports whether the client has credentials. An
// unconfigured client is skipped by the pipeline, not an error.
func (y *YelpClient) Configured() bool {
	return y.apiKey != ""
}

// YelpSearch is one business search: a term plus either a named
// location or a coordinate center.
type YelpSearch struct {
	Term       string
	Location   string // named location, preferred when set
	Center     *model.Coordinates
	Categories string // comma-separated category aliases
}

type yelpBusiness struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location struct {
		DisplayAddress []string `json:"display_address"`
	} `json:"location"`
	Coordinates struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"coordinates"`
	Rating      float64 `json:"rating"`
	Price       string  `json:"price"`
	ReviewCount int     `json:"review_count"`
	Categories  []struct {
		Alias string `json:"alias"`
		Title string `json:"title"`
	} `json:"categories"`
	DisplayPhone string      `json:"display_phone"`
	URL          string      `json:"url"`
	Photos       []string    `json:"photos"`
	Hours        []yelpHours `json:"hours"`
}

type yelpHours struct {
	IsOpenNow bool `json:"is_open_now"`
	Open      []struct {
		Day   int    `json:"day"`
		Start string `json:"start"`
		End   string `json:"end"`
	} `json:"open"`
}

type yelpSearchResponse struct {
	Businesses []yelpBusiness `json:"businesses"`
}

type yelpReviewsResponse struct {
	Reviews []struct {
		Text        string  `json:"text"`
		Rating      float64 `json:"rating"`
		TimeCreated string  `json:"time_created"`
		User        struct {
			Name string `json:"name"`
		} `json:"user"`
	} `json:"reviews"`
}

// Search runs a business search. A named location takes priority over
// coordinates; results always sort by rating upstream.
func (y *YelpClient) Search(ctx context.Context, search YelpSearch) ([]model.Place, error) {
	if !y.Configured() {
		return nil, nil
	}

	term := search.Term
	if term == "" {
		term = "restaurant"
	}

	params := url.Values{}
	params.Set("term", term)
	params.Set("sort_by", "rating")
	if search.Location != "" {
		params.Set("location", search.Location)
		params.Set("radius", strconv.Itoa(yelpLocationRadius))
		params.Set("limit", strconv.Itoa(yelpLocationLimit))
	} else if search.Center != nil {
		params.Set("latitude", strconv.FormatFloat(search.Center.Lat, 'f', -1, 64))
		params.Set("longitude", strconv.FormatFloat(search.Center.Lng, 'f', -1, 64))
		params.Set("radius", strconv.Itoa(yelpNearbyRadius))
		params.Set("limit", strconv.Itoa(yelpNearbyLimit))
	} else {
		return nil, fmt.Errorf("yelp search needs a location or coordinates")
	}
	if search.Categories != "" {
		params.Set("categories", search.Categories)
	}

	var resp yelpSearchResponse
	if err := y.get(ctx, "/businesses/search?"+params.Encode(), &resp); err != nil {
		return nil, err
	}

	places := make([]model.Place, 0, len(resp.Businesses))
	for _, b := range resp.Businesses {
		places = append(places, y.normalize(b))
	}
	return places, nil
}

// Details fetches the business record plus its reviews.
func (y *YelpClient) Details(ctx context.Context, businessID string) (*PlaceDetails, error) {
	if !y.Configured() {
		return nil, fmt.Errorf("yelp client not configured")
	}

	var biz yelpBusiness
	if err := y.get(ctx, "/businesses/"+url.PathEscape(businessID), &biz); err != nil {
		return nil, err
	}

	details := &PlaceDetails{
		Source:      model.SourceYelp,
		PlaceID:     biz.ID,
		Name:        biz.Name,
		Address:     strings.Join(biz.Location.DisplayAddress, ", "),
		Phone:       biz.DisplayPhone,
		Website:     biz.URL,
		Rating:      biz.Rating,
		ReviewCount: biz.ReviewCount,
		PriceLevel:  len(biz.Price),
		Photos:      biz.Photos,
	}
	for _, c := range biz.Categories {
		details.Categories = append(details.Categories, c.Title)
	}
	if biz.Coordinates.Latitude != 0 || biz.Coordinates.Longitude != 0 {
		details.Coordinates = &model.Coordinates{Lat: biz.Coordinates.Latitude, Lng: biz.Coordinates.Longitude}
	}
	if len(biz.Hours) > 0 {
		open := biz.Hours[0].IsOpenNow
		details.IsOpenNow = &open
		details.OpeningHours = formatYelpHours(biz.Hours)
	}

	details.Reviews = y.Reviews(ctx, businessID)
	return details, nil
}

// Reviews fetches a business's reviews, best-effort: failures reduce to
// an empty list and are logged, not raised.
func (y *YelpClient) Reviews(ctx context.Context, businessID string) []model.Review {
	if !y.Configured() {
		return nil
	}

	var resp yelpReviewsResponse
	if err := y.get(ctx, "/businesses/"+url.PathEscape(businessID)+"/reviews", &resp); err != nil {
		y.logger.Warn("yelp reviews fetch failed",
			zap.String("business_id", businessID),
			zap.Error(err))
		return nil
	}

	reviews := make([]model.Review, 0, maxReviews)
	for _, rv := range resp.Reviews {
		if len(reviews) >= maxReviews {
			break
		}
		reviews = append(reviews, model.Review{
			Text:   rv.Text,
			Rating: rv.Rating,
			Author: rv.User.Name,
			Source: model.SourceYelp,
		})
	}
	return reviews
}

// normalize maps a Yelp business onto the candidate shape. The price
// symbol's length ("$$$") becomes the 1-4 price level.
func (y *YelpClient) normalize(b yelpBusiness) model.Place {
	place := model.Place{
		Name:        b.Name,
		Address:     strings.Join(b.Location.DisplayAddress, ", "),
		Rating:      b.Rating,
		ReviewCount: b.ReviewCount,
		PriceLevel:  len(b.Price),
		Source:      model.SourceYelp,
	}
	place.SetProviderID(model.SourceYelp, b.ID)
	if b.Coordinates.Latitude != 0 || b.Coordinates.Longitude != 0 {
		place.Coordinates = &model.Coordinates{Lat: b.Coordinates.Latitude, Lng: b.Coordinates.Longitude}
	}
	for _, c := range b.Categories {
		place.Categories = append(place.Categories, c.Title)
		if c.Alias != "" && c.Alias != c.Title {
			place.Categories = append(place.Categories, c.Alias)
		}
	}
	return place
}

func (y *YelpClient) get(ctx context.Context, path string, out any) error {
	endpoint := y.baseURL + path

	key := cache.Key(model.SourceYelp, path)
	if y.cache != nil {
		if cached, found := y.cache.Get(key); found {
			return json.Unmarshal(cached, out)
		}
	}

	if y.limiter != nil {
		if err := y.limiter.Wait(ctx, endpoint); err != nil {
			return fmt.Errorf("rate limit: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+y.apiKey)

	resp, err := y.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("yelp: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("yelp: unexpected status %d", resp.StatusCode)
	}

	if y.cache != nil {
		y.cache.Set(key, body, y.cacheTTL)
	}
	return json.Unmarshal(body, out)
}

// formatYelpHours renders Yelp's day/start/end schedule as weekday text
// lines matching the Google details shape.
func formatYelpHours(hours []yelpHours) []string {
	if len(hours) == 0 || len(hours[0].Open) == 0 {
		return nil
	}

	days := []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	byDay := make(map[int][]string)
	for _, h := range hours[0].Open {
		if h.Start == "" || h.End == "" {
			continue
		}
		byDay[h.Day] = append(byDay[h.Day], formatTimeHHMM(h.Start)+" - "+formatTimeHHMM(h.End))
	}

	lines := make([]string, 0, len(days))
	for i, day := range days {
		if spans, ok := byDay[i]; ok {
			lines = append(lines, day+": "+strings.Join(spans, ", "))
		} else {
			lines = append(lines, day+": Closed")
		}
	}
	return lines
}

// formatTimeHHMM renders "1730" as "5:30 PM".
func formatTimeHHMM(t string) string {
	if len(t) != 4 {
		return "Closed"
	}
	hour, err := strconv.Atoi(t[:2])
	if err != nil {
		return "Closed"
	}
	minute, err := strconv.Atoi(t[2:])
	if err != nil {
		return "Closed"
	}

	suffix := "AM"
	display := hour
	switch {
	case hour == 0:
		display = 12
	case hour == 12:
		suffix = "PM"
	case hour > 12:
		display = hour - 12
		suffix = "PM"
	}
	return fmt.Sprintf("%d:%02d %s", display, minute, suffix)
}
