package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/aroundme/aroundme/internal/model"
)

var (
	searchLat     float64
	searchLng     float64
	searchTimeout time.Duration
	searchJSON    bool
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Run one place search from the command line",
	Long: `Search runs a single natural-language place search and prints the
ranked results.

Example:
  aroundme search "indian vegetarian restaurants in frisco"
  aroundme search "coffee near me" --lat 32.78 --lng -96.80
  aroundme search "24 hour gym in plano" --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().Float64Var(&searchLat, "lat", 0, "user latitude")
	searchCmd.Flags().Float64Var(&searchLng, "lng", 0, "user longitude")
	searchCmd.Flags().DurationVar(&searchTimeout, "timeout", 2*time.Minute, "overall search timeout")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "print the full response as JSON")
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	a, err := buildApp(cfg)
	if err != nil {
		return err
	}
	defer a.logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), searchTimeout)
	defer cancel()

	req := model.SearchRequest{
		Query: strings.Join(args, " "),
		Lat:   searchLat,
		Lng:   searchLng,
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "Searching: %s\n", req.Query)
	}

	resp, err := a.pipeline.Search(ctx, req)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	if len(resp.Places) == 0 {
		fmt.Println("No places found.")
		return nil
	}
	fmt.Printf("Found %d places (%d candidates, sorted %s):\n\n",
		len(resp.Places), resp.Scoring.TotalCandidates, resp.Scoring.SortedBy)
	for i, p := range resp.Places {
		fmt.Printf("%2d. %s", i+1, p.Name)
		if p.Rating > 0 {
			fmt.Printf("  %.1f★ (%d reviews)", p.Rating, p.ReviewCount)
		}
		if p.DistanceMeters != nil {
			fmt.Printf("  %.1f km", *p.DistanceMeters/1000)
		}
		fmt.Printf("\n    %s\n", p.Address)
		if len(p.MatchReasons) > 0 {
			fmt.Printf("    %s\n", strings.Join(p.MatchReasons, "; "))
		}
	}
	if len(resp.Degraded) > 0 {
		fmt.Printf("\nDegraded sources: %s\n", strings.Join(resp.Degraded, ", "))
	}
	return nil
}
