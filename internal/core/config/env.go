package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvOverrides applies environment variable overrides to the configuration.
// Pattern: CLASSLINK_[SECTION]_[KEY] (e.g., CLASSLINK_DB_PATH).
func ApplyEnvOverrides(cfg *Config) {
	// Discovery
	setEnvStringList(&cfg.Discovery.Roots, "CLASSLINK_DISCOVERY_ROOTS")
	setEnvInt(&cfg.Discovery.MaxFileSizeKB, "CLASSLINK_DISCOVERY_MAX_FILE_SIZE_KB")

	// Database
	setEnvBool(&cfg.DB.Enabled, "CLASSLINK_DB_ENABLED")
	setEnvString(&cfg.DB.Path, "CLASSLINK_DB_PATH")

	// Report
	setEnvBool(&cfg.Report.Enabled, "CLASSLINK_REPORT_ENABLED")
	setEnvString(&cfg.Report.Path, "CLASSLINK_REPORT_PATH")

	// Watch
	setEnvDuration(&cfg.Watch.Debounce, "CLASSLINK_WATCH_DEBOUNCE")

	// Observability
	setEnvBool(&cfg.Observability.EnableTracing, "CLASSLINK_OBSERVABILITY_ENABLE_TRACING")
	setEnvString(&cfg.Observability.OTLPEndpoint, "CLASSLINK_OBSERVABILITY_OTLP_ENDPOINT")
	setEnvString(&cfg.Observability.MetricsAddr, "CLASSLINK_OBSERVABILITY_METRICS_ADDR")
}

func setEnvString(target *string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		log.Printf("Applying env override: %s=%s", key, val)
		*target = val
	}
}

func setEnvStringList(target *[]string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		log.Printf("Applying env override: %s=%s", key, val)
		parts := strings.Split(val, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		if len(out) > 0 {
			*target = out
		}
	}
}

func setEnvInt(target *int, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			log.Printf("Applying env override: %s=%s", key, val)
			*target = i
		}
	}
}

func setEnvBool(target *bool, key string) {
	if val, ok := os.LookupEnv(key); ok {
		b, err := strconv.ParseBool(strings.ToLower(val))
		if err == nil {
			log.Printf("Applying env override: %s=%s", key, val)
			*target = b
		}
	}
}

func setEnvDuration(target *time.Duration, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			log.Printf("Applying env override: %s=%s", key, val)
			*target = d
		}
	}
}
