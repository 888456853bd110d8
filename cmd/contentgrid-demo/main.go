// Command contentgrid-demo runs the gallery engine against a synthetic
// content source: it simulates a user scrolling through an inscription grid
// and prints the aggregated cache and performance statistics.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/ordkit/contentgrid/config"
	"github.com/ordkit/contentgrid/content"
	"github.com/ordkit/contentgrid/gallery"
	"github.com/ordkit/contentgrid/metric"
)

func main() {
	var (
		configPath  = flag.String("config", "", "path to YAML config (defaults used if missing)")
		itemCount   = flag.Int("items", 200, "number of synthetic inscriptions")
		scrollSteps = flag.Int("steps", 20, "number of simulated scroll steps")
		verbose     = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := run(*configPath, *itemCount, *scrollSteps, logger); err != nil {
		logger.Error("demo failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath string, itemCount, scrollSteps int, logger *slog.Logger) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	// The synthetic source is fast; keep the demo snappy regardless of the
	// production-oriented defaults.
	cfg.Fetcher.InterBatchDelay = 50 * time.Millisecond
	cfg.Fetcher.RetryDelay = 50 * time.Millisecond

	options := []gallery.Option{gallery.WithLogger(logger)}

	var metricsServer *metric.Server
	if cfg.Metrics.Enabled {
		registry := metric.NewMetricsRegistry()
		metricsServer = metric.NewServer(cfg.Metrics.Port, cfg.Metrics.Path, registry)
		go func() {
			if err := metricsServer.Start(); err != nil && err != http.ErrServerClosed {
				logger.Error("metrics server exited", "error", err)
			}
		}()
		defer func() { _ = metricsServer.Stop() }()
		options = append(options, gallery.WithMetrics(registry))
		logger.Info("metrics endpoint up",
			"port", cfg.Metrics.Port, "path", cfg.Metrics.Path)
	}

	g, err := gallery.New(cfg, syntheticSource(logger), options...)
	if err != nil {
		return err
	}
	defer func() { _ = g.Close() }()

	ids := make([]string, itemCount)
	for i := range ids {
		ids[i] = fmt.Sprintf("inscription-%08di0", i)
	}
	g.SetItems(ids)

	// Warm the first screen, then walk down the list the way a reader would.
	g.Preload(context.Background(), ids[:min(10, len(ids))])

	totalHeight := itemCount * cfg.Scroll.ItemHeight
	for step := 0; step <= scrollSteps; step++ {
		scrollTop := totalHeight * step / (scrollSteps + 1)
		window := g.HandleScroll(scrollTop)
		logger.Info("scrolled",
			"scroll_top", scrollTop,
			"visible", fmt.Sprintf("%d..%d", window.Visible.Start, window.Visible.End),
			"prefetch", fmt.Sprintf("%d..%d", window.Prefetch.Start, window.Prefetch.End),
			"rows", len(g.Rows()))
		time.Sleep(100 * time.Millisecond)
	}
	g.Wait()

	stats := g.Stats()
	out, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

// syntheticSource fakes an ordinals content endpoint: small random latency,
// mixed payload kinds, a few percent hard failures.
func syntheticSource(logger *slog.Logger) content.Source {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return content.SourceFunc(func(ctx context.Context, id string) (content.Payload, error) {
		delay := time.Duration(5+rng.Intn(40)) * time.Millisecond
		select {
		case <-ctx.Done():
			return content.Payload{}, ctx.Err()
		case <-time.After(delay):
		}

		switch rng.Intn(20) {
		case 0:
			return content.Payload{}, fmt.Errorf("synthetic fetch failure for %s", id)
		case 1, 2:
			return content.Binary(make([]byte, 256+rng.Intn(4096)), "image/png"), nil
		case 3:
			return content.Object(map[string]any{"p": "sns", "op": "reg", "name": id}, ""), nil
		default:
			return content.Text("<svg>"+id+"</svg>", "image/svg+xml"), nil
		}
	})
}
