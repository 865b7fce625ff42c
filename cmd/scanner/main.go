package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/osrs-tools/flip-scanner/internal/cache"
	"github.com/osrs-tools/flip-scanner/internal/config"
	"github.com/osrs-tools/flip-scanner/internal/engine"
	"github.com/osrs-tools/flip-scanner/internal/fetch"
	"github.com/osrs-tools/flip-scanner/internal/filter"
	"github.com/osrs-tools/flip-scanner/internal/models"
	"github.com/osrs-tools/flip-scanner/internal/plot"
	"github.com/osrs-tools/flip-scanner/internal/report"
	"github.com/osrs-tools/flip-scanner/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.LogLevel, cfg.Environment); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("Shutting down scanner")
		cancel()
	}()

	if cfg.Scanner.MetricsPort > 0 {
		go serveMetrics(cfg.Scanner.MetricsPort)
	}

	if err := run(ctx, cfg); err != nil {
		logger.Error("Scan failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	spec, err := loadSpec(cfg.Scanner.FilterSpecPath)
	if err != nil {
		return fmt.Errorf("load filter spec: %w", err)
	}
	if cfg.Scanner.RejectionPolicy != "" {
		spec.Policy = filter.RejectionPolicy(cfg.Scanner.RejectionPolicy)
	}
	if cfg.Output.SortKey != "" {
		if err := spec.ValidateSortKey(cfg.Output.SortKey); err != nil {
			return fmt.Errorf("sort key: %w", err)
		}
	}

	client := fetch.NewClient(cfg.API)

	var series engine.SeriesProvider = client
	if cfg.Redis.Enabled {
		seriesCache, err := cache.NewSeriesCache(cfg.Redis, client, logger.Get())
		if err != nil {
			return fmt.Errorf("series cache: %w", err)
		}
		defer seriesCache.Close()
		series = seriesCache
	}

	logger.Info("Fetching market snapshot", zap.String("base_url", cfg.API.BaseURL))
	data, err := client.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}

	for _, id := range cfg.Scanner.ItemIDs {
		if data.Catalog.Lookup(id) == nil {
			return fmt.Errorf("item %d: %w", id, models.ErrItemNotFound)
		}
	}

	eng := engine.NewEngine(spec, data, series, logger.Get())
	eng.MaxItems = cfg.Scanner.MaxItems

	results, err := eng.Run(ctx, cfg.Scanner.ItemIDs)
	if err != nil {
		return err
	}

	if cfg.Output.SortKey != "" {
		report.SortByMetric(results, cfg.Output.SortKey, cfg.Output.SortDesc)
	}

	builder := report.NewBuilder()
	for _, res := range results {
		builder.Add(res)
	}
	fmt.Print(builder.String())

	paths, err := plot.WriteAll(results, cfg.Output.PlotDir)
	if err != nil {
		return fmt.Errorf("write plots: %w", err)
	}
	if len(paths) > 0 {
		logger.Info("Plots written",
			zap.Int("count", len(paths)),
			zap.String("dir", cfg.Output.PlotDir))
	}

	return nil
}

// loadSpec reads the filter specification from disk, or returns the
// all-hidden default when no path is configured. The default will fail
// validation in the engine, which is the right prompt to write a spec.
func loadSpec(path string) (*filter.Spec, error) {
	if path == "" {
		return filter.NewSpec(), nil
	}
	return filter.LoadSpec(path)
}

func serveMetrics(port int) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	addr := fmt.Sprintf(":%d", port)
	logger.Info("Serving metrics", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Warn("Metrics server stopped", zap.Error(err))
	}
}
