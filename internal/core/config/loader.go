package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"
	"time"

	"codecorrect/internal/engine/destructor"
	"codecorrect/internal/engine/diagnostic"
	"codecorrect/internal/engine/symbols"

	"github.com/BurntSushi/toml"
)

// Load reads, defaults, normalizes and validates the config at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, err
	}
	return finish(&cfg)
}

// LoadOrDefault behaves like Load but falls back to defaults when path does
// not exist.
func LoadOrDefault(path string) (*Config, bool, error) {
	cfg, err := Load(path)
	if err == nil {
		return cfg, true, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, false, err
	}
	cfg, err = finish(&Config{})
	return cfg, false, err
}

// Default returns a validated config with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	normalize(cfg)
	return cfg
}

func finish(cfg *Config) (*Config, error) {
	applyDefaults(cfg)
	ApplyEnvOverrides(cfg)
	normalize(cfg)

	if errs := Validate(cfg); len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = SupportedVersion
	}
	if strings.TrimSpace(cfg.Paths.DatabaseDir) == "" {
		cfg.Paths.DatabaseDir = "data/database"
	}
	if len(cfg.Roots) == 0 {
		cfg.Roots = []string{"src"}
	}

	if len(cfg.Files.InterfaceExtensions) == 0 {
		cfg.Files.InterfaceExtensions = []string{".h"}
	}
	if len(cfg.Files.ImplementationExtensions) == 0 {
		cfg.Files.ImplementationExtensions = []string{".cpp"}
	}
	if cfg.Exclude.Dirs == nil {
		cfg.Exclude.Dirs = []string{".git", "build*", "external"}
	}

	if strings.TrimSpace(cfg.Diagnostics.Path) == "" {
		cfg.Diagnostics.Path = "warnings.txt"
	}
	if len(cfg.Diagnostics.Markers) == 0 {
		cfg.Diagnostics.Markers = append([]string(nil), diagnostic.DefaultMarkers...)
	}

	if cfg.Destructors.MaxBodyLines <= 0 {
		cfg.Destructors.MaxBodyLines = destructor.DefaultMaxBodyLines
	}
	if strings.TrimSpace(cfg.Destructors.PendingMarker) == "" {
		cfg.Destructors.PendingMarker = destructor.DefaultPendingMarker
	}

	if len(cfg.Includes.Keywords) == 0 {
		cfg.Includes.Keywords = append([]string(nil), symbols.DefaultKeywords...)
	}
	if cfg.Includes.Decorations == nil {
		cfg.Includes.Decorations = append([]string(nil), symbols.DefaultDecorations...)
	}
	if len(cfg.Includes.AliasWrappers) == 0 {
		cfg.Includes.AliasWrappers = append([]string(nil), symbols.DefaultAliasWrappers...)
	}

	if strings.TrimSpace(cfg.DB.Path) == "" {
		cfg.DB.Path = "codecorrect.db"
	}
	if cfg.DB.BusyTimeout <= 0 {
		cfg.DB.BusyTimeout = 5 * time.Second
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
	if strings.TrimSpace(cfg.Observability.ServiceName) == "" {
		cfg.Observability.ServiceName = "codecorrect"
	}
}

func normalize(cfg *Config) {
	cfg.Roots = trimAll(cfg.Roots)
	cfg.Files.InterfaceExtensions = normalizeExtensions(cfg.Files.InterfaceExtensions)
	cfg.Files.ImplementationExtensions = normalizeExtensions(cfg.Files.ImplementationExtensions)
	cfg.Exclude.Dirs = trimAll(cfg.Exclude.Dirs)
	cfg.Exclude.Files = trimAll(cfg.Exclude.Files)
	cfg.Diagnostics.Path = strings.TrimSpace(cfg.Diagnostics.Path)
	cfg.Includes.Keywords = trimAll(cfg.Includes.Keywords)
	cfg.Includes.Decorations = trimAll(cfg.Includes.Decorations)
	cfg.Includes.AliasWrappers = trimAll(cfg.Includes.AliasWrappers)
	cfg.Includes.IncludeRoots = trimAll(cfg.Includes.IncludeRoots)
	cfg.Observability.MetricsFile = strings.TrimSpace(cfg.Observability.MetricsFile)
	cfg.Observability.OTLPEndpoint = strings.TrimSpace(cfg.Observability.OTLPEndpoint)
}

func trimAll(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}

func normalizeExtensions(exts []string) []string {
	out := trimAll(exts)
	for i, ext := range out {
		if !strings.HasPrefix(ext, ".") {
			out[i] = "." + ext
		}
	}
	return out
}
