package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"tokenfolio/internal/cache"
	"tokenfolio/internal/config"
	"tokenfolio/internal/etherscan"
	"tokenfolio/internal/portfolio"
	"tokenfolio/internal/price"
	"tokenfolio/internal/storage/postgres"
)

func main() {
	root := &cobra.Command{
		Use:          "tokenfolio",
		Short:        "Ethereum wallet trading analyzer",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	analyzeCmd := &cobra.Command{
		Use:   "analyze <wallet-address>",
		Short: "Summarize a wallet's token trading history",
		Args:  cobra.ExactArgs(1),
		RunE:  runAnalyze,
	}

	addCommonFlags(analyzeCmd)
	analyzeCmd.Flags().Bool("json", false, "print the raw JSON summary instead of the text report")
	analyzeCmd.Flags().Bool("behavior", false, "include the trading behavior report")
	analyzeCmd.Flags().Int64("since", 0, "behavior cutoff as a unix timestamp")

	root.AddCommand(analyzeCmd)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve wallet summaries over HTTP",
		RunE:  runServe,
	}

	addCommonFlags(serveCmd)
	serveCmd.Flags().String("listen-addr", ":8080", "HTTP listen address")
	serveCmd.Flags().StringSlice("allowed-origins", nil, "CORS origin allowlist (comma-separated)")

	root.AddCommand(serveCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func addCommonFlags(cmd *cobra.Command) {
	cmd.Flags().String("etherscan-url", etherscan.DefaultBaseURL, "explorer API endpoint")
	cmd.Flags().String("etherscan-api-key", "", "explorer API key")
	cmd.Flags().String("price-url", price.DefaultBaseURL, "price API endpoint")
	cmd.Flags().Int("page-size", etherscan.DefaultPageSize, "transfer feed page size")
	cmd.Flags().Int("max-retries", etherscan.DefaultMaxRetries, "rate limit retry attempts per page")
	cmd.Flags().Duration("retry-backoff", etherscan.DefaultRetryBackoff, "base rate limit retry delay")
	cmd.Flags().String("cache-path", "./data/wallets.json.gz", "transfer history cache file")
	cmd.Flags().Duration("cache-ttl", cache.DefaultTTL, "how long cached history stays fresh")
	cmd.Flags().String("pg-dsn", "", "optional Postgres DSN for persisting summaries")
	cmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
}

// buildService assembles the analysis pipeline from config. The returned
// cleanup closes the optional Postgres pool.
func buildService(ctx context.Context, cfg config.Config, logger *zap.Logger) (*portfolio.Service, func(), error) {
	feed := etherscan.NewClient(cfg.EtherscanAPIKey, etherscan.Options{
		BaseURL:      cfg.EtherscanURL,
		PageSize:     cfg.PageSize,
		MaxRetries:   cfg.MaxRetries,
		RetryBackoff: cfg.RetryBackoff,
	}, logger)

	oracle := price.NewClient(cfg.PriceURL, &http.Client{Timeout: 15 * time.Second}, logger)

	snapshots, err := cache.NewFileStore(cfg.CachePath, cfg.CacheTTL)
	if err != nil {
		return nil, nil, err
	}

	var summaries portfolio.SummaryStore
	cleanup := func() {}
	if cfg.PostgresDSN != "" {
		store, err := postgres.NewStore(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		if err := store.EnsureSchema(ctx); err != nil {
			store.Close()
			return nil, nil, err
		}
		summaries = store
		cleanup = store.Close
	}

	return portfolio.NewService(feed, oracle, snapshots, summaries, logger), cleanup, nil
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
