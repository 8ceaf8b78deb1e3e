package cli

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/aroundme/aroundme/internal/ai"
	"github.com/aroundme/aroundme/internal/cache"
	"github.com/aroundme/aroundme/internal/model"
	"github.com/aroundme/aroundme/internal/pipeline"
	"github.com/aroundme/aroundme/internal/provider"
	"github.com/aroundme/aroundme/internal/worker"
)

// app bundles the wired collaborators the commands share.
type app struct {
	cfg      *model.Config
	logger   *zap.Logger
	ai       *ai.Client
	google   *provider.GoogleClient
	yelp     *provider.YelpClient
	pipeline *pipeline.Pipeline
}

// buildApp wires the full service graph from configuration.
func buildApp(cfg *model.Config) (*app, error) {
	logger, err := newLogger(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	var c cache.Cache = cache.NewMemoryCache(cfg.Providers.CacheTTL, cfg.Providers.CacheTTL)
	if cfg.Providers.CacheDir != "" {
		c = cache.NewLayeredCache(cfg.Providers.CacheTTL, cfg.Providers.CacheDir, cfg.Providers.CacheTTL)
	}
	limiter := worker.NewLimiter(cfg.Providers.RequestsPerSecond, cfg.Providers.Burst)

	google := provider.NewGoogleClient(cfg.Providers.Google, cfg.HTTP.Timeout, c, cfg.Providers.CacheTTL, limiter, logger)
	yelp := provider.NewYelpClient(cfg.Providers.Yelp, cfg.HTTP.Timeout, c, cfg.Providers.CacheTTL, limiter, logger)
	aiClient := ai.NewClient(cfg.OpenAI, logger)

	return &app{
		cfg:      cfg,
		logger:   logger,
		ai:       aiClient,
		google:   google,
		yelp:     yelp,
		pipeline: pipeline.NewPipeline(aiClient, google, yelp, cfg.Search, logger),
	}, nil
}

func newLogger(cfg model.LogConfig) (*zap.Logger, error) {
	var zcfg zap.Config
	if cfg.Development {
		zcfg = zap.NewDevelopmentConfig()
	} else {
		zcfg = zap.NewProductionConfig()
	}
	if cfg.Level != "" {
		level, err := zap.ParseAtomicLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("parse log level %q: %w", cfg.Level, err)
		}
		zcfg.Level = level
	}
	return zcfg.Build()
}
