package app

import (
	"context"
	"log/slog"
	"path/filepath"

	"codecorrect/internal/core/ports"
	"codecorrect/internal/core/watcher"
	"codecorrect/internal/data/journal"
	"codecorrect/internal/engine/source"
	"codecorrect/internal/shared/observability"
)

// WatchIncludes re-runs the include rewrite for headers changed on disk
// until ctx is done. Every batch rebuilds and freezes a fresh index first.
// onBatch, when set, receives the report of each batch.
func (a *App) WatchIncludes(ctx context.Context, onBatch func(ports.IncludeReport)) error {
	batches := make(chan []string, 1)
	w, err := watcher.NewWatcher(
		a.Config.Watch.Debounce,
		a.Config.Files.InterfaceExtensions,
		a.Config.Exclude.Dirs,
		a.Config.Exclude.Files,
		func(paths []string) {
			select {
			case batches <- paths:
			case <-ctx.Done():
			}
		},
	)
	if err != nil {
		return err
	}
	return a.runWatch(ctx, w, batches, onBatch)
}

func (a *App) runWatch(ctx context.Context, w ports.ChangeSource, batches <-chan []string, onBatch func(ports.IncludeReport)) error {
	defer w.Close()
	if err := w.Watch(a.Paths.Roots); err != nil {
		return err
	}
	slog.Info("watching headers", "roots", a.Paths.Roots)

	for {
		select {
		case <-ctx.Done():
			return nil
		case paths := <-batches:
			report, err := a.ResolveChanged(ctx, paths)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				slog.Error("include rewrite after change failed", "error", err)
				continue
			}
			if onBatch != nil {
				onBatch(report)
			}
		}
	}
}

// ResolveChanged rebuilds the index from every header and rewrites only the
// changed ones.
func (a *App) ResolveChanged(ctx context.Context, changed []string) (report ports.IncludeReport, err error) {
	ctx, span := observability.Tracer.Start(ctx, "app.ResolveChanged")
	defer span.End()

	rec := a.beginRun(journal.ModeWatch)
	report.RunID = rec.id
	defer func() { rec.finish(err) }()

	headers, err := a.InterfaceFiles()
	if err != nil {
		return report, err
	}
	texts, skips, err := a.loadHeaders(ctx, headers)
	if err != nil {
		return report, err
	}
	index := a.buildIndex(ctx, texts)
	report.IndexedNames = index.Len()

	wanted := make(map[string]bool, len(changed))
	for _, p := range changed {
		wanted[a.absPath(filepath.ToSlash(p))] = true
	}
	for _, s := range skips {
		if wanted[a.absPath(s.Path)] {
			a.fail(&report, rec, s)
		}
	}

	targets := make([]*source.Text, 0, len(changed))
	for _, text := range texts {
		if text != nil && wanted[text.Path] {
			targets = append(targets, text)
		}
	}
	err = a.rewriteHeaders(ctx, index, targets, &report, rec)
	return report, err
}
