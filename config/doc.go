// Package config holds the aggregate configuration surface for a gallery
// instance: grid layout, cache, batch fetcher, performance monitor, scroll
// windowing and the optional Prometheus endpoint.
//
// Load reads a YAML file where durations are human-readable strings ("5m",
// "1s"). A missing file yields the defaults, so every field is optional.
package config
