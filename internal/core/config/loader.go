// # internal/core/config/loader.go
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/gobwas/glob"
)

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	if err := validateVersion(&cfg); err != nil {
		return nil, err
	}
	if err := validateDiscovery(&cfg); err != nil {
		return nil, err
	}
	if err := validateDatabase(&cfg); err != nil {
		return nil, err
	}
	if err := validateWatch(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns a default configuration, used when no config file exists.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}

	if len(cfg.Discovery.Roots) == 0 {
		cfg.Discovery.Roots = []string{"."}
	}
	if len(cfg.Discovery.Include) == 0 {
		cfg.Discovery.Include = []string{"*.md", "**/*.md", "*.markdown", "**/*.markdown"}
	}
	if len(cfg.Discovery.Exclude) == 0 {
		cfg.Discovery.Exclude = []string{
			"node_modules/**", "**/node_modules/**",
			".git/**", "**/.git/**",
			"vendor/**", "**/vendor/**",
		}
	}
	if cfg.Discovery.MaxFileSizeKB <= 0 {
		cfg.Discovery.MaxFileSizeKB = 1024
	}

	if strings.TrimSpace(cfg.DB.Path) == "" {
		cfg.DB.Path = "classlink.db"
	}

	if strings.TrimSpace(cfg.Report.Path) == "" {
		cfg.Report.Path = "classlink-report.md"
	}

	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}

	cfg.Observability.OTLPEndpoint = strings.TrimSpace(cfg.Observability.OTLPEndpoint)
	cfg.Observability.MetricsAddr = strings.TrimSpace(cfg.Observability.MetricsAddr)
}

func validateVersion(cfg *Config) error {
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported config version %d, expected 1", cfg.Version)
	}
	return nil
}

func validateDiscovery(cfg *Config) error {
	for _, root := range cfg.Discovery.Roots {
		if strings.TrimSpace(root) == "" {
			return fmt.Errorf("discovery.roots must not contain empty entries")
		}
	}
	for _, pattern := range append(append([]string{}, cfg.Discovery.Include...), cfg.Discovery.Exclude...) {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			return fmt.Errorf("invalid discovery glob %q: %w", pattern, err)
		}
	}
	return nil
}

func validateDatabase(cfg *Config) error {
	if cfg.DB.Enabled && strings.TrimSpace(cfg.DB.Path) == "" {
		return fmt.Errorf("database.path must be set when database.enabled is true")
	}
	return nil
}

func validateWatch(cfg *Config) error {
	if cfg.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative")
	}
	return nil
}
