package app

import (
	"context"
	"errors"
	"log/slog"

	"codecorrect/internal/core/ports"
	"codecorrect/internal/data/journal"
)

// runRecorder forwards outcomes to the optional journal. Journal failures
// are logged and never stop a phase.
type runRecorder struct {
	journal ports.RunJournal
	id      string
}

func (a *App) beginRun(mode string) *runRecorder {
	rec := &runRecorder{journal: a.journal}
	if a.journal == nil {
		return rec
	}
	id, err := a.journal.BeginRun(mode, a.Paths.ProjectRoot, a.DryRun)
	if err != nil {
		slog.Warn("journal unavailable for this run", "mode", mode, "error", err)
		rec.journal = nil
		return rec
	}
	rec.id = id
	return rec
}

func (r *runRecorder) record(outcomes ...journal.Outcome) {
	if r.journal == nil || len(outcomes) == 0 {
		return
	}
	for i := range outcomes {
		outcomes[i].RunID = r.id
	}
	if err := r.journal.Record(outcomes...); err != nil {
		slog.Warn("failed to journal outcomes", "run", r.id, "count", len(outcomes), "error", err)
	}
}

func (r *runRecorder) finish(err error) {
	if r.journal == nil {
		return
	}
	status := journal.StatusSucceeded
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = journal.StatusCancelled
	case err != nil:
		status = journal.StatusFailed
	}
	if ferr := r.journal.FinishRun(r.id, status); ferr != nil {
		slog.Warn("failed to finish journal run", "run", r.id, "error", ferr)
	}
}
