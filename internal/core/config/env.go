package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvOverrides applies environment variable overrides to the configuration.
// Pattern: CODECORRECT_[SECTION]_[KEY] (e.g., CODECORRECT_INCLUDES_JOBS).
func ApplyEnvOverrides(cfg *Config) {
	// Paths
	setEnvString(&cfg.Paths.ProjectRoot, "CODECORRECT_PATHS_PROJECT_ROOT")
	setEnvString(&cfg.Paths.DatabaseDir, "CODECORRECT_PATHS_DATABASE_DIR")
	setEnvList(&cfg.Roots, "CODECORRECT_ROOTS")

	// Diagnostics
	setEnvString(&cfg.Diagnostics.Path, "CODECORRECT_DIAGNOSTICS_PATH")

	// Destructors
	setEnvInt(&cfg.Destructors.MaxBodyLines, "CODECORRECT_DESTRUCTORS_MAX_BODY_LINES")
	setEnvString(&cfg.Destructors.PendingMarker, "CODECORRECT_DESTRUCTORS_PENDING_MARKER")

	// Includes
	setEnvList(&cfg.Includes.IncludeRoots, "CODECORRECT_INCLUDES_INCLUDE_ROOTS")
	setEnvInt(&cfg.Includes.Jobs, "CODECORRECT_INCLUDES_JOBS")

	// Database
	setEnvBool(&cfg.DB.Enabled, "CODECORRECT_DB_ENABLED")
	setEnvString(&cfg.DB.Path, "CODECORRECT_DB_PATH")
	setEnvDuration(&cfg.DB.BusyTimeout, "CODECORRECT_DB_BUSY_TIMEOUT")

	// Watch
	setEnvDuration(&cfg.Watch.Debounce, "CODECORRECT_WATCH_DEBOUNCE")

	// Observability
	setEnvString(&cfg.Observability.MetricsFile, "CODECORRECT_OBSERVABILITY_METRICS_FILE")
	setEnvBool(&cfg.Observability.EnableTracing, "CODECORRECT_OBSERVABILITY_ENABLE_TRACING")
	setEnvString(&cfg.Observability.OTLPEndpoint, "CODECORRECT_OBSERVABILITY_OTLP_ENDPOINT")
	setEnvBool(&cfg.Observability.OTLPInsecure, "CODECORRECT_OBSERVABILITY_OTLP_INSECURE")
}

func setEnvString(target *string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		slog.Debug("applying env override", "key", key, "value", val)
		*target = val
	}
}

func setEnvList(target *[]string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		slog.Debug("applying env override", "key", key, "value", val)
		*target = strings.Split(val, ",")
	}
}

func setEnvInt(target *int, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = i
		}
	}
}

func setEnvBool(target *bool, key string) {
	if val, ok := os.LookupEnv(key); ok {
		b, err := strconv.ParseBool(strings.ToLower(val))
		if err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = b
		}
	}
}

func setEnvDuration(target *time.Duration, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = d
		}
	}
}
