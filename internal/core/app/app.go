package app

import (
	"fmt"
	"log/slog"

	"codecorrect/internal/core/config"
	"codecorrect/internal/core/ports"
	"codecorrect/internal/engine/destructor"
	"codecorrect/internal/engine/source"
	"codecorrect/internal/engine/symbols"
)

// Options carries the per-invocation switches of an App.
type Options struct {
	DryRun  bool
	Journal ports.RunJournal
}

// App drives both correction phases over one project tree.
type App struct {
	Config *config.Config
	Paths  config.ResolvedPaths
	DryRun bool

	journal   ports.RunJournal
	lexer     *symbols.Lexer
	filter    *source.Filter
	corrector destructor.Corrector
}

var _ ports.CorrectionService = (*App)(nil)

func New(cfg *config.Config, paths config.ResolvedPaths, opts Options) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	filter, err := source.NewFilter(cfg.Exclude.Dirs, cfg.Exclude.Files)
	if err != nil {
		return nil, err
	}
	if len(paths.Roots) == 0 {
		return nil, fmt.Errorf("no source roots resolved")
	}

	return &App{
		Config:  cfg,
		Paths:   paths,
		DryRun:  opts.DryRun,
		journal: opts.Journal,
		lexer: symbols.NewLexer(
			cfg.Includes.Keywords,
			cfg.Includes.Decorations,
			cfg.Includes.AliasWrappers,
		),
		filter:    filter,
		corrector: destructor.New(cfg.Destructors.MaxBodyLines, cfg.Destructors.PendingMarker),
	}, nil
}

// save writes text unless the app is in dry-run mode. It reports whether the
// file content changed.
func (a *App) save(text *source.Text) (bool, error) {
	if !text.Changed() {
		return false, nil
	}
	if a.DryRun {
		slog.Info("dry run: would write file", "path", text.Path)
		return true, nil
	}
	return text.Save()
}
