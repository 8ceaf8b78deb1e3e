// Package server exposes the HTTP API: place search, nearby browse,
// place details, and the streaming chat endpoints.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/aroundme/aroundme/internal/ai"
	"github.com/aroundme/aroundme/internal/model"
	"github.com/aroundme/aroundme/internal/pipeline"
	"github.com/aroundme/aroundme/internal/provider"
	"github.com/aroundme/aroundme/internal/store"
)

// Searcher runs place searches. Implemented by pipeline.Pipeline.
type Searcher interface {
	Search(ctx context.Context, req model.SearchRequest) (*model.SearchResponse, error)
	Nearby(ctx context.Context, center model.Coordinates, radiusMeters int, primaryTypes []string) ([]model.Place, error)
}

// DetailsProvider fetches one place's extended record.
type DetailsProvider interface {
	Details(ctx context.Context, placeID string) (*provider.PlaceDetails, error)
}

// Server holds the API's collaborators.
type Server struct {
	searcher      Searcher
	googleDetails DetailsProvider
	yelpDetails   DetailsProvider
	streamer      ai.Streamer
	store         *store.Store
	historyLimit  int
	logger        *zap.Logger
}

// New assembles the API server. yelpDetails may be nil when the
// provider has no credentials.
func New(searcher Searcher, googleDetails, yelpDetails DetailsProvider, streamer ai.Streamer, st *store.Store, chatCfg model.ChatConfig, logger *zap.Logger) *Server {
	limit := chatCfg.HistoryLimit
	if limit <= 0 {
		limit = 30
	}
	return &Server{
		searcher:      searcher,
		googleDetails: googleDetails,
		yelpDetails:   yelpDetails,
		streamer:      streamer,
		store:         st,
		historyLimit:  limit,
		logger:        logger,
	}
}

// Router builds the chi router with all routes mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Post("/search", s.handleSearch)
		r.Get("/places", s.handleNearby)
		r.Get("/place-details/*", s.handlePlaceDetails)
		r.Route("/chat", func(r chi.Router) {
			r.Post("/stream", s.handleChatStream)
			r.Get("/history/{conversationID}", s.handleChatHistory)
		})
	})
	return r
}

// Run serves the API until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("api listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req model.SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	resp, err := s.searcher.Search(r.Context(), req)
	if err != nil {
		if errors.Is(err, pipeline.ErrInvalidQuery) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("search failed", zap.String("query", req.Query), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "search failed")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleNearby(w http.ResponseWriter, r *http.Request) {
	lat, errLat := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lng, errLng := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
	if errLat != nil || errLng != nil {
		writeError(w, http.StatusBadRequest, "lat and lng are required")
		return
	}
	radius, _ := strconv.Atoi(r.URL.Query().Get("radius"))

	var types []string
	if raw := r.URL.Query().Get("types"); raw != "" {
		types = strings.Split(raw, ",")
	}

	places, err := s.searcher.Nearby(r.Context(), model.Coordinates{Lat: lat, Lng: lng}, radius, types)
	if err != nil {
		s.logger.Error("nearby failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "nearby search failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"places": places})
}

func (s *Server) handlePlaceDetails(w http.ResponseWriter, r *http.Request) {
	placeID := chi.URLParam(r, "*")
	if placeID == "" {
		writeError(w, http.StatusBadRequest, "place id is required")
		return
	}

	details, err := s.detailsFor(r.Context(), placeID)
	if err != nil {
		s.logger.Warn("details lookup failed", zap.String("place_id", placeID), zap.Error(err))
		writeError(w, http.StatusNotFound, "place not found")
		return
	}
	writeJSON(w, http.StatusOK, details)
}

// detailsFor routes an opaque place id to its provider: Yelp ids are
// 22-character slashless tokens, Google ids carry the "places/" prefix.
func (s *Server) detailsFor(ctx context.Context, placeID string) (*provider.PlaceDetails, error) {
	if s.yelpDetails != nil && len(placeID) == 22 && !strings.Contains(placeID, "/") {
		return s.yelpDetails.Details(ctx, placeID)
	}
	return s.googleDetails.Details(ctx, placeID)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// logRequests logs each request once completed.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("took", time.Since(start)))
	})
}
