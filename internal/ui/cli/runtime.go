package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	coreapp "codecorrect/internal/core/app"
	"codecorrect/internal/core/config"
	"codecorrect/internal/core/ports"
	"codecorrect/internal/data/journal"
	"codecorrect/internal/shared/observability"
	"codecorrect/internal/shared/version"
)

// runtime is everything one command invocation sets up and tears down.
type runtime struct {
	cfg     *config.Config
	paths   config.ResolvedPaths
	app     *coreapp.App
	store   *journal.Store
	cleanup []func()
}

func setupRuntime(ctx context.Context, opts *rootOptions) (*runtime, error) {
	rt := &runtime{}
	rt.cleanup = append(rt.cleanup, configureLogging(opts.verbose))

	cfg, base, err := loadRuntimeConfig(opts)
	if err != nil {
		rt.close()
		return nil, fmt.Errorf("load config: %w", err)
	}
	if opts.metricsFile != "" {
		cfg.Observability.MetricsFile = opts.metricsFile
	}
	rt.cfg = cfg

	paths, err := config.ResolvePaths(cfg, base)
	if err != nil {
		rt.close()
		return nil, fmt.Errorf("resolve paths: %w", err)
	}
	rt.paths = paths
	slog.Debug("resolved project", "root", paths.ProjectRoot, "roots", paths.Roots)

	shutdown, err := observability.InitTracing(ctx, observability.TracingConfig{
		Enabled:        cfg.Observability.EnableTracing,
		ServiceName:    cfg.Observability.ServiceName,
		ServiceVersion: version.Version,
		Endpoint:       cfg.Observability.OTLPEndpoint,
		Insecure:       cfg.Observability.OTLPInsecure,
	})
	if err != nil {
		slog.Warn("tracing disabled", "error", err)
	} else {
		rt.cleanup = append(rt.cleanup, func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(sctx); err != nil {
				slog.Warn("failed to flush traces", "error", err)
			}
		})
	}

	var runJournal ports.RunJournal
	if cfg.DB.Enabled && !opts.noJournal {
		store, err := journal.Open(paths.DBPath, cfg.DB.BusyTimeout)
		if err != nil {
			slog.Warn("journal unavailable, continuing without it", "path", paths.DBPath, "error", err)
		} else {
			rt.store = store
			runJournal = store
			rt.cleanup = append(rt.cleanup, func() { _ = store.Close() })
		}
	}

	app, err := coreapp.New(cfg, paths, coreapp.Options{DryRun: opts.dryRun, Journal: runJournal})
	if err != nil {
		rt.close()
		return nil, err
	}
	rt.app = app
	return rt, nil
}

// close writes the metrics textfile and releases resources in reverse order.
func (rt *runtime) close() {
	if rt.paths.MetricsFile != "" {
		if err := os.MkdirAll(filepath.Dir(rt.paths.MetricsFile), 0o755); err == nil {
			if err := observability.WriteMetricsFile(rt.paths.MetricsFile); err != nil {
				slog.Warn("failed to write metrics file", "path", rt.paths.MetricsFile, "error", err)
			}
		}
	}
	for i := len(rt.cleanup) - 1; i >= 0; i-- {
		rt.cleanup[i]()
	}
	rt.cleanup = nil
}

// loadRuntimeConfig returns the config and the directory relative paths in
// it are anchored at.
func loadRuntimeConfig(opts *rootOptions) (*config.Config, string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, "", err
	}
	cfg, path, found, err := loadConfig(opts.configPath, opts.configExplicit, cwd)
	if err != nil {
		return nil, "", err
	}
	if !found {
		slog.Debug("no config file, using defaults", "path", path)
		return cfg, cwd, nil
	}
	slog.Debug("loaded config", "path", path)
	return cfg, filepath.Dir(path), nil
}

func loadConfig(path string, explicit bool, cwd string) (*config.Config, string, bool, error) {
	resolved := config.ResolveRelative(cwd, path)
	if explicit {
		cfg, err := config.Load(resolved)
		if err != nil {
			return nil, resolved, false, err
		}
		return cfg, resolved, true, nil
	}
	cfg, found, err := config.LoadOrDefault(resolved)
	if err != nil {
		return nil, resolved, false, err
	}
	return cfg, resolved, found, nil
}

func configureLogging(verbose bool) func() {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)
	return func() {}
}

// openJournalForRead opens the journal for the runs command, which needs the
// database regardless of db.enabled.
func openJournalForRead(rt *runtime) (*journal.Store, error) {
	if rt.store != nil {
		return rt.store, nil
	}
	if _, err := os.Stat(rt.paths.DBPath); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("no journal at %s", rt.paths.DBPath)
	}
	store, err := journal.Open(rt.paths.DBPath, rt.cfg.DB.BusyTimeout)
	if err != nil {
		return nil, err
	}
	rt.cleanup = append(rt.cleanup, func() { _ = store.Close() })
	return store, nil
}
