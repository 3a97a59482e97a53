package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultConfigFile)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
version = 1
roots = ["src", " include "]

[files]
interface_extensions = ["hpp"]
implementation_extensions = [".cc", ".cpp"]

[exclude]
dirs = ["third_party"]
files = ["*_generated.h"]

[diagnostics]
path = "build/tidy.log"

[destructors]
max_body_lines = 40

[includes]
keywords = ["class", "struct"]
decorations = ["BABYLON_SHARED_EXPORT"]
include_roots = ["include"]
jobs = 4

[db]
enabled = true
path = "runs.db"

[watch]
debounce = "1s"

[observability]
metrics_file = "codecorrect.prom"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(cfg.Roots) != 2 || cfg.Roots[1] != "include" {
		t.Errorf("Unexpected roots: %v", cfg.Roots)
	}
	if cfg.Files.InterfaceExtension() != ".hpp" {
		t.Errorf("Expected interface extension .hpp, got %s", cfg.Files.InterfaceExtension())
	}
	if len(cfg.Files.ImplementationExtensions) != 2 || cfg.Files.ImplementationExtensions[0] != ".cc" {
		t.Errorf("Unexpected implementation extensions: %v", cfg.Files.ImplementationExtensions)
	}
	if cfg.Diagnostics.Path != "build/tidy.log" {
		t.Errorf("Expected diagnostics path build/tidy.log, got %s", cfg.Diagnostics.Path)
	}
	if len(cfg.Diagnostics.Markers) == 0 {
		t.Error("Expected default diagnostic markers")
	}
	if cfg.Destructors.MaxBodyLines != 40 {
		t.Errorf("Expected max_body_lines 40, got %d", cfg.Destructors.MaxBodyLines)
	}
	if cfg.Destructors.PendingMarker != "// = default" {
		t.Errorf("Expected default pending marker, got %q", cfg.Destructors.PendingMarker)
	}
	if cfg.Includes.Jobs != 4 {
		t.Errorf("Expected jobs 4, got %d", cfg.Includes.Jobs)
	}
	if len(cfg.Includes.AliasWrappers) == 0 {
		t.Error("Expected default alias wrappers")
	}
	if !cfg.DB.Enabled || cfg.DB.Path != "runs.db" {
		t.Errorf("Unexpected db config: %+v", cfg.DB)
	}
	if cfg.Watch.Debounce != time.Second {
		t.Errorf("Expected debounce 1s, got %v", cfg.Watch.Debounce)
	}
	if cfg.Observability.ServiceName != "codecorrect" {
		t.Errorf("Expected default service name, got %q", cfg.Observability.ServiceName)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := writeConfig(t, `
version = 2

[includes]
jobs = -1
`)
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "unsupported config version 2") || !strings.Contains(err.Error(), "includes.jobs") {
		t.Fatalf("expected joined validation errors, got %v", err)
	}
}

func TestLoadOrDefault_Missing(t *testing.T) {
	cfg, found, err := LoadOrDefault(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("LoadOrDefault failed: %v", err)
	}
	if found {
		t.Fatal("expected found=false for missing file")
	}
	if cfg.Files.InterfaceExtension() != ".h" {
		t.Fatalf("expected default interface extension, got %q", cfg.Files.InterfaceExtension())
	}
	if cfg.Destructors.MaxBodyLines <= 0 {
		t.Fatal("expected default max body lines")
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("CODECORRECT_INCLUDES_JOBS", "3")
	t.Setenv("CODECORRECT_ROOTS", "lib,src")
	t.Setenv("CODECORRECT_DB_ENABLED", "TRUE")
	t.Setenv("CODECORRECT_WATCH_DEBOUNCE", "250ms")
	t.Setenv("CODECORRECT_DESTRUCTORS_MAX_BODY_LINES", "not-a-number")

	cfg := Default()
	ApplyEnvOverrides(cfg)

	if cfg.Includes.Jobs != 3 {
		t.Errorf("expected jobs 3, got %d", cfg.Includes.Jobs)
	}
	if len(cfg.Roots) != 2 || cfg.Roots[0] != "lib" {
		t.Errorf("unexpected roots: %v", cfg.Roots)
	}
	if !cfg.DB.Enabled {
		t.Error("expected db enabled")
	}
	if cfg.Watch.Debounce != 250*time.Millisecond {
		t.Errorf("expected 250ms debounce, got %v", cfg.Watch.Debounce)
	}
	if cfg.Destructors.MaxBodyLines != 1000 {
		t.Errorf("expected unparsable override to be ignored, got %d", cfg.Destructors.MaxBodyLines)
	}
}
