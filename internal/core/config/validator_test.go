package config

import (
	"strings"
	"testing"
)

func hasError(errs []error, fragment string) bool {
	for _, err := range errs {
		if strings.Contains(err.Error(), fragment) {
			return true
		}
	}
	return false
}

func TestValidateDefaults(t *testing.T) {
	if errs := Validate(Default()); len(errs) != 0 {
		t.Fatalf("expected defaults to validate, got %v", errs)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{
			name:   "unsupported version",
			mutate: func(c *Config) { c.Version = 7 },
			want:   "unsupported config version 7",
		},
		{
			name:   "extension overlap",
			mutate: func(c *Config) { c.Files.ImplementationExtensions = []string{".cpp", ".h"} },
			want:   `extension ".h" is both an interface and an implementation extension`,
		},
		{
			name:   "bad glob",
			mutate: func(c *Config) { c.Exclude.Dirs = []string{"[abc"} },
			want:   `exclude.dirs: invalid pattern "[abc"`,
		},
		{
			name:   "non identifier keyword",
			mutate: func(c *Config) { c.Includes.Keywords = []string{"class", "enum class"} },
			want:   `includes.keywords: "enum class" is not an identifier`,
		},
		{
			name:   "negative jobs",
			mutate: func(c *Config) { c.Includes.Jobs = -2 },
			want:   "includes.jobs must be >= 0",
		},
		{
			name:   "tracing without endpoint",
			mutate: func(c *Config) { c.Observability.EnableTracing = true },
			want:   "requires observability.otlp_endpoint",
		},
		{
			name:   "no roots",
			mutate: func(c *Config) { c.Roots = nil },
			want:   "roots must list at least one directory",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tc.mutate(cfg)
			errs := Validate(cfg)
			if !hasError(errs, tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, errs)
			}
		})
	}
}
