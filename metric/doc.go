// Package metric provides Prometheus-based metrics collection for contentgrid
// components.
//
// The package offers a per-instance metrics registry; caches, fetchers and
// monitors register their own counters, gauges and histograms against it via
// functional options. An optional HTTP server exposes the registry in
// Prometheus format.
//
// # Basic Usage
//
//	registry := metric.NewMetricsRegistry()
//
//	cache, err := cache.New(cache.DefaultConfig(),
//		cache.WithMetrics(registry, "gallery_cache"))
//
//	server := metric.NewServer(9090, "/metrics", registry)
//	go func() {
//		if err := server.Start(); err != nil && err != http.ErrServerClosed {
//			slog.Error("metrics server", "error", err)
//		}
//	}()
//	defer server.Stop()
//
// Statistics inside each component are always collected regardless of whether a
// registry is attached; Prometheus export is the optional second track.
package metric
