package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aroundme/aroundme/internal/server"
	"github.com/aroundme/aroundme/internal/store"
)

var (
	serveHost string
	servePort int
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the AroundMe HTTP API",
	Long: `Serve starts the HTTP API:

  POST /api/search                   natural-language place search
  GET  /api/places                   nearby browse (lat, lng, radius, types)
  GET  /api/place-details/{id}       extended place record
  POST /api/chat/stream              streaming chat (SSE)
  GET  /api/chat/history/{id}        chat history, newest first
  GET  /healthz                      liveness

Example:
  aroundme serve
  aroundme serve --port 8080`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveHost, "host", "", "listen host (default from config)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveHost != "" {
		cfg.Server.Host = serveHost
	}
	if servePort != 0 {
		cfg.Server.Port = servePort
	}

	a, err := buildApp(cfg)
	if err != nil {
		return err
	}
	defer a.logger.Sync() //nolint:errcheck

	st, err := store.Open(cfg.Chat.DBPath)
	if err != nil {
		return fmt.Errorf("open chat store: %w", err)
	}
	defer st.Close()

	var yelpDetails server.DetailsProvider
	if a.yelp.Configured() {
		yelpDetails = a.yelp
	}
	srv := server.New(a.pipeline, a.google, yelpDetails, a.ai, st, cfg.Chat, a.logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	a.logger.Info("starting aroundme",
		zap.String("addr", addr),
		zap.Bool("yelp_enabled", a.yelp.Configured()),
		zap.Bool("openai_configured", cfg.OpenAI.APIKey != ""))

	return srv.Run(ctx, addr)
}
