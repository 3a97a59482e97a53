package config

import "time"

const (
	DefaultConfigFile = "codecorrect.toml"
	SupportedVersion  = 1
)

type Config struct {
	Version       int           `toml:"version"`
	Paths         Paths         `toml:"paths"`
	Roots         []string      `toml:"roots"`
	Files         Files         `toml:"files"`
	Exclude       Exclude       `toml:"exclude"`
	Diagnostics   Diagnostics   `toml:"diagnostics"`
	Destructors   Destructors   `toml:"destructors"`
	Includes      Includes      `toml:"includes"`
	DB            Database      `toml:"db"`
	Watch         Watch         `toml:"watch"`
	Observability Observability `toml:"observability"`
}

type Paths struct {
	ProjectRoot string `toml:"project_root"`
	DatabaseDir string `toml:"database_dir"`
}

type Files struct {
	InterfaceExtensions      []string `toml:"interface_extensions"`
	ImplementationExtensions []string `toml:"implementation_extensions"`
}

type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

type Diagnostics struct {
	Path    string   `toml:"path"`
	Markers []string `toml:"markers"`
}

type Destructors struct {
	MaxBodyLines  int    `toml:"max_body_lines"`
	PendingMarker string `toml:"pending_marker"`
}

type Includes struct {
	Keywords      []string `toml:"keywords"`
	Decorations   []string `toml:"decorations"`
	AliasWrappers []string `toml:"alias_wrappers"`
	IncludeRoots  []string `toml:"include_roots"`
	Jobs          int      `toml:"jobs"`
}

type Database struct {
	Enabled     bool          `toml:"enabled"`
	Path        string        `toml:"path"`
	BusyTimeout time.Duration `toml:"busy_timeout"`
}

type Watch struct {
	Debounce time.Duration `toml:"debounce"`
}

type Observability struct {
	MetricsFile   string `toml:"metrics_file"`
	EnableTracing bool   `toml:"enable_tracing"`
	OTLPEndpoint  string `toml:"otlp_endpoint"`
	OTLPInsecure  bool   `toml:"otlp_insecure"`
	ServiceName   string `toml:"service_name"`
}

// InterfaceExtension is the extension paired implementation files map to.
func (f Files) InterfaceExtension() string {
	if len(f.InterfaceExtensions) == 0 {
		return ".h"
	}
	return f.InterfaceExtensions[0]
}
