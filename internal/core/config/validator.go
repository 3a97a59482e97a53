package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gobwas/glob"
)

// Validate returns every problem found in cfg.
func Validate(cfg *Config) []error {
	var errs []error
	errs = append(errs, validateVersion(cfg)...)
	errs = append(errs, validateFiles(cfg)...)
	errs = append(errs, validateExclude(cfg)...)
	errs = append(errs, validateIncludes(cfg)...)
	errs = append(errs, validateObservability(cfg)...)
	return errs
}

func validateVersion(cfg *Config) []error {
	if cfg.Version != SupportedVersion {
		return []error{fmt.Errorf("unsupported config version %d; supported version is %d", cfg.Version, SupportedVersion)}
	}
	return nil
}

func validateFiles(cfg *Config) []error {
	var errs []error
	if len(cfg.Roots) == 0 {
		errs = append(errs, fmt.Errorf("roots must list at least one directory"))
	}
	if len(cfg.Files.InterfaceExtensions) == 0 {
		errs = append(errs, fmt.Errorf("files.interface_extensions must not be empty"))
	}
	if len(cfg.Files.ImplementationExtensions) == 0 {
		errs = append(errs, fmt.Errorf("files.implementation_extensions must not be empty"))
	}
	for _, iface := range cfg.Files.InterfaceExtensions {
		for _, impl := range cfg.Files.ImplementationExtensions {
			if iface == impl {
				errs = append(errs, fmt.Errorf("extension %q is both an interface and an implementation extension", iface))
			}
		}
	}
	if cfg.Destructors.MaxBodyLines <= 0 {
		errs = append(errs, fmt.Errorf("destructors.max_body_lines must be > 0"))
	}
	return errs
}

func validateExclude(cfg *Config) []error {
	var errs []error
	for _, group := range []struct {
		key      string
		patterns []string
	}{
		{key: "exclude.dirs", patterns: cfg.Exclude.Dirs},
		{key: "exclude.files", patterns: cfg.Exclude.Files},
	} {
		for _, p := range group.patterns {
			if _, err := glob.Compile(p); err != nil {
				errs = append(errs, fmt.Errorf("%s: invalid pattern %q: %w", group.key, p, err))
			}
		}
	}
	return errs
}

var keywordPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func validateIncludes(cfg *Config) []error {
	var errs []error
	for _, kw := range cfg.Includes.Keywords {
		if !keywordPattern.MatchString(kw) {
			errs = append(errs, fmt.Errorf("includes.keywords: %q is not an identifier", kw))
		}
	}
	if cfg.Includes.Jobs < 0 {
		errs = append(errs, fmt.Errorf("includes.jobs must be >= 0, got %d", cfg.Includes.Jobs))
	}
	return errs
}

func validateObservability(cfg *Config) []error {
	if cfg.Observability.EnableTracing && strings.TrimSpace(cfg.Observability.OTLPEndpoint) == "" {
		return []error{fmt.Errorf("observability.enable_tracing requires observability.otlp_endpoint")}
	}
	return nil
}
