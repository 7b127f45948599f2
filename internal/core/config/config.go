// # internal/core/config/config.go
package config

import "time"

// Config is the full runtime configuration, decoded from TOML.
type Config struct {
	Version int `toml:"version"`

	Discovery     DiscoveryConfig     `toml:"discovery"`
	DB            DatabaseConfig      `toml:"database"`
	Report        ReportConfig        `toml:"report"`
	Watch         WatchConfig         `toml:"watch"`
	Observability ObservabilityConfig `toml:"observability"`
}

// DiscoveryConfig controls which documentation files are scanned.
type DiscoveryConfig struct {
	Roots         []string `toml:"roots"`
	Include       []string `toml:"include"`
	Exclude       []string `toml:"exclude"`
	MaxFileSizeKB int      `toml:"max_file_size_kb"`
}

type DatabaseConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

type ReportConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

type WatchConfig struct {
	Debounce time.Duration `toml:"debounce"`
}

type ObservabilityConfig struct {
	EnableTracing bool   `toml:"enable_tracing"`
	OTLPEndpoint  string `toml:"otlp_endpoint"`
	MetricsAddr   string `toml:"metrics_addr"`
}
