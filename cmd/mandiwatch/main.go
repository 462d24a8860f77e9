// MandiWatch — Indian commodities market quotes API
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mandiwatch/mandiwatch/api"
	"github.com/mandiwatch/mandiwatch/internal/config"
	"github.com/mandiwatch/mandiwatch/internal/infra"
	"github.com/mandiwatch/mandiwatch/internal/quotes"
	"github.com/mandiwatch/mandiwatch/internal/scraper"
	"github.com/mandiwatch/mandiwatch/internal/store"
	"github.com/mandiwatch/mandiwatch/pkg/models"
	"github.com/mandiwatch/mandiwatch/pkg/utils"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Loaded once in PersistentPreRunE, shared by all commands.
var (
	cfg    *config.Config
	logger *slog.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "mandiwatch",
	Short: "MandiWatch — Indian commodities market quotes API",
	Long: `MandiWatch scrapes commodity quotes (gold, silver, copper, crude and
more) from public Indian market pages, normalizes them into snapshots,
and serves them over a JSON HTTP API with time-based caching.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		level := cfg.Logging.Level
		if override, _ := cmd.Flags().GetString("log-level"); override != "" {
			level = override
		}
		logger = infra.NewLogger(infra.LoggerOptions{
			Level:  level,
			Format: cfg.Logging.Format,
			File:   cfg.Logging.File,
		})
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(statusCmd)
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("MandiWatch %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Serve Command (API Server) ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := buildService()
		srv := api.NewServer(cfg, svc, logger)

		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		return srv.ListenAndServe(addr)
	},
}

// --- Fetch Command (one-shot scrape) ---

var fetchCmd = &cobra.Command{
	Use:   "fetch [exchange|bullion]",
	Short: "Scrape sources once and print the snapshot as JSON",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sources := map[string]scraper.SourceParser{
			"exchange": scraper.NewExchangeSource(cfg.Sources.Exchange.URL, cfg.Sources.Exchange.Timeout(), logger),
			"bullion":  scraper.NewBullionSource(cfg.Sources.Bullion.URL, cfg.Sources.Bullion.Timeout(), logger),
		}

		if len(args) == 1 {
			src, ok := sources[args[0]]
			if !ok {
				return fmt.Errorf("unknown source %q (want exchange or bullion)", args[0])
			}
			snap, err := src.Scrape(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(snap)
		}

		// No source named: fetch all concurrently.
		var mu sync.Mutex
		results := make(map[string]models.Snapshot, len(sources))
		g, ctx := errgroup.WithContext(cmd.Context())
		for name, src := range sources {
			name, src := name, src
			g.Go(func() error {
				snap, err := src.Scrape(ctx)
				if err != nil {
					return fmt.Errorf("%s: %w", name, err)
				}
				mu.Lock()
				results[name] = snap
				mu.Unlock()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
		return printJSON(results)
	},
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration and market session status",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("MandiWatch %s (%s)\n", version, commit)
		fmt.Printf("  Time (IST):   %s\n", utils.FormatTimestamp(utils.NowIST()))
		fmt.Printf("  Market open:  %v\n", utils.IsMarketOpen())
		fmt.Println()
		fmt.Println("  Configuration:")
		fmt.Printf("    API server:       %s:%d\n", cfg.API.Host, cfg.API.Port)
		fmt.Printf("    Exchange source:  %s (timeout %s)\n", cfg.Sources.Exchange.URL, cfg.Sources.Exchange.Timeout())
		fmt.Printf("    Bullion source:   %s (timeout %s)\n", cfg.Sources.Bullion.URL, cfg.Sources.Bullion.Timeout())
		fmt.Printf("    Refresh interval: %s\n", cfg.Cache.RefreshInterval())
		return nil
	},
}

// buildService wires the scrapers, stores, and facade from config.
func buildService() *quotes.Service {
	exchange := scraper.NewExchangeSource(cfg.Sources.Exchange.URL, cfg.Sources.Exchange.Timeout(), logger)
	bullion := scraper.NewBullionSource(cfg.Sources.Bullion.URL, cfg.Sources.Bullion.Timeout(), logger)

	interval := cfg.Cache.RefreshInterval()
	newsTTL := cfg.News.CacheTTL()

	return quotes.NewService(
		store.New(exchange, interval, logger),
		store.New(bullion, interval, logger),
		scraper.NewNews(newsTTL, logger),
	)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
