package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/parvatislap/lapas/internal/config"
	"github.com/parvatislap/lapas/internal/enquiries"
	"github.com/parvatislap/lapas/internal/logging"
	"github.com/parvatislap/lapas/internal/places"
)

var (
	// Global flags
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "parvatislap",
	Short: "Parvati's Lap, a Himalayan hostel & villa, in your terminal",
	Long: `Browse Parvati's Lap (Lapas Village, Kasol) from the terminal: rooms, the
ADHIKARA cafe, treks, guest reviews and photo galleries.

Run without arguments to open the brochure. "serve" runs the reviews proxy,
"reviews" prints the current reviews as JSON and "config init" writes a
starter config file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if err := loaded.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		cfg = loaded

		opts := logging.Options{Level: cfg.Logging.Level, Verbose: verbose}
		if ownsTerminal(cmd) {
			opts.File = cfg.Logging.File
			if opts.File == "" {
				opts.File = logging.DefaultFile()
			}
		}
		logger, err = logging.New(opts)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runBrowse,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath(), "path to the YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	addBrowseFlags(rootCmd)
	addBrowseFlags(browseCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
	reviewsCmd.Flags().BoolVar(&reviewsFallback, "fallback", false, "print the curated reviews when the live fetch fails")
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "overwrite an existing config file")
	configCmd.AddCommand(configInitCmd)

	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(reviewsCmd)
	rootCmd.AddCommand(enquiriesCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// ownsTerminal reports whether cmd runs the brochure, which draws over the
// terminal and so must log to a file.
func ownsTerminal(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "parvatislap", "browse":
		return true
	}
	return false
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "parvatislap.yaml"
	}
	return filepath.Join(dir, "parvatislap", "config.yaml")
}

// reviewSource picks where reviews come from: a running proxy, the Places
// API, or nowhere when no credentials are configured.
func reviewSource() (places.Source, error) {
	httpClient := &http.Client{Timeout: cfg.PlacesTimeout()}
	if cfg.Places.ProxyURL != "" {
		return places.ProxySource{URL: cfg.Places.ProxyURL, HTTPClient: httpClient}, nil
	}
	if !cfg.HasCredentials() {
		logger.Info("no places credentials configured")
		return nil, nil
	}
	return placesClient(httpClient)
}

func placesClient(httpClient *http.Client) (*places.Client, error) {
	var cache *places.Cache
	if cfg.Cache.Enabled {
		var err error
		cache, err = places.NewCache(places.CacheConfig{
			Dir:        cfg.Cache.Dir,
			TTL:        cfg.CacheTTL(),
			HTTPClient: httpClient,
			Logger:     logger,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to prepare reviews cache: %w", err)
		}
	}
	return places.New(places.Config{
		APIKey:     cfg.Places.APIKey,
		PlaceID:    cfg.Places.PlaceID,
		BaseURL:    cfg.Places.BaseURL,
		HTTPClient: httpClient,
		Cache:      cache,
		Logger:     logger,
	}), nil
}

// outboxPath is where prepared enquiries are logged, or "" when disabled.
func outboxPath() string {
	if !cfg.Enquiries.Enabled {
		return ""
	}
	if cfg.Enquiries.Path != "" {
		return cfg.Enquiries.Path
	}
	return enquiries.DefaultPath()
}
