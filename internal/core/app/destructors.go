package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	domainerrors "codecorrect/internal/core/errors"
	"codecorrect/internal/core/ports"
	"codecorrect/internal/data/journal"
	"codecorrect/internal/engine/diagnostic"
	"codecorrect/internal/engine/pairing"
	"codecorrect/internal/engine/source"
	"codecorrect/internal/shared/observability"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const phaseDestructors = "destructors"

// CorrectDestructors applies every trivial-destructor warning in the
// diagnostics file, strictly in arrival order, saving after each one.
func (a *App) CorrectDestructors(ctx context.Context, diagnosticsPath string) (report ports.DestructorReport, err error) {
	ctx, span := observability.Tracer.Start(ctx, "app.CorrectDestructors",
		trace.WithAttributes(attribute.String("diagnostics", diagnosticsPath)))
	defer span.End()

	started := time.Now()
	defer func() {
		observability.PhaseDuration.WithLabelValues(phaseDestructors).Observe(time.Since(started).Seconds())
	}()

	if diagnosticsPath == "" {
		diagnosticsPath = a.Paths.Diagnostics
	}
	f, err := os.Open(diagnosticsPath)
	if err != nil {
		return report, domainerrors.AddContext(
			domainerrors.Wrap(err, domainerrors.CodeIOFailure, "open diagnostics"),
			domainerrors.CtxPath, diagnosticsPath,
		)
	}
	defer f.Close()

	rec := a.beginRun(journal.ModeDestructors)
	report.RunID = rec.id
	defer func() { rec.finish(err) }()

	warnings, malformed, err := diagnostic.Read(f, diagnostic.NewMatcher(a.Config.Diagnostics.Markers))
	if err != nil {
		return report, err
	}
	for _, m := range malformed {
		slog.Warn("skipping diagnostic", "code", domainerrors.CodeOf(m), "error", m)
		a.skip(&report, rec, ports.Skip{Path: diagnosticsPath, Line: -1, Code: domainerrors.CodeOf(m), Detail: m.Error()})
	}

	interfaces, err := a.InterfaceFiles()
	if err != nil {
		return report, err
	}
	locator := pairing.NewLocator(interfaces, a.Config.Files.InterfaceExtension(), a.Config.Files.ImplementationExtensions)
	shifts := newLineShifts()
	pending := make(map[string]*source.Text)

	span.SetAttributes(attribute.Int("warnings", len(warnings)))
	for _, w := range warnings {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.Warnings++
		a.correctWarning(w, locator, shifts, pending, &report, rec)
	}

	slog.Info("destructor phase finished",
		"warnings", report.Warnings,
		"corrected", report.Corrected,
		"headers", report.HeadersAnnotated,
		"skipped", len(report.Skipped))
	return report, nil
}

func (a *App) correctWarning(
	w diagnostic.Warning,
	locator *pairing.Locator,
	shifts *lineShifts,
	pending map[string]*source.Text,
	report *ports.DestructorReport,
	rec *runRecorder,
) {
	implPath := a.absPath(w.File)
	rel := a.relPath(implPath)

	line, ok := shifts.current(implPath, w.Line)
	if !ok {
		a.skip(report, rec, ports.Skip{Path: rel, Line: w.Line + 1, Code: domainerrors.CodeNotApplicable,
			Detail: "line already replaced by an earlier correction"})
		return
	}

	impl, err := a.open(implPath, pending)
	if err != nil {
		a.skip(report, rec, ports.Skip{Path: rel, Line: w.Line + 1, Code: domainerrors.CodeOf(err), Detail: err.Error()})
		return
	}

	corr, err := a.corrector.Correct(impl, line)
	if err != nil {
		a.skip(report, rec, ports.Skip{Path: rel, Line: w.Line + 1, Code: domainerrors.CodeOf(err), Detail: err.Error()})
		return
	}
	if _, err := a.persist(impl, pending); err != nil {
		a.skip(report, rec, ports.Skip{Path: rel, Line: w.Line + 1, Code: domainerrors.CodeOf(err), Detail: err.Error()})
		return
	}
	shifts.add(implPath, w.Line, corr.RemovedLines, 2)
	report.Corrected++
	report.Written = append(report.Written, rel)
	observability.WarningsTotal.WithLabelValues("corrected").Inc()
	observability.FilesWrittenTotal.WithLabelValues("implementation").Inc()
	slog.Info("destructor defaulted", "path", rel, "line", w.Line+1, "symbol", corr.TypeName)
	rec.record(journal.Outcome{
		Path:   rel,
		Line:   w.Line + 1,
		Action: journal.ActionDestructorRewritten,
		Symbol: corr.TypeName,
		Detail: corr.Replacement,
	})

	a.annotateInterface(implPath, corr.TypeName, locator, pending, report, rec)
}

func (a *App) annotateInterface(
	implPath, typeName string,
	locator *pairing.Locator,
	pending map[string]*source.Text,
	report *ports.DestructorReport,
	rec *runRecorder,
) {
	ifacePath, ok := locator.Locate(implPath)
	if !ok {
		report.MissingPairs++
		slog.Info("no paired interface file, declaration left as is",
			"path", a.relPath(implPath), "code", domainerrors.CodeMissingPairedFile, "symbol", typeName)
		rec.record(journal.Outcome{
			Path:   a.relPath(implPath),
			Line:   -1,
			Action: journal.ActionSkipped,
			Code:   string(domainerrors.CodeMissingPairedFile),
			Symbol: typeName,
		})
		return
	}

	rel := a.relPath(ifacePath)
	iface, err := a.open(ifacePath, pending)
	if err != nil {
		a.skip(report, rec, ports.Skip{Path: rel, Line: -1, Code: domainerrors.CodeOf(err), Detail: err.Error()})
		return
	}
	line, changed := a.corrector.AnnotateDeclaration(iface, typeName)
	if line < 0 {
		a.skip(report, rec, ports.Skip{Path: rel, Line: -1, Code: domainerrors.CodeNotApplicable,
			Detail: fmt.Sprintf("no declaration of ~%s()", typeName)})
		return
	}
	if !changed {
		slog.Debug("declaration already annotated", "path", rel, "line", line+1, "symbol", typeName)
		return
	}
	if _, err := a.persist(iface, pending); err != nil {
		a.skip(report, rec, ports.Skip{Path: rel, Line: line + 1, Code: domainerrors.CodeOf(err), Detail: err.Error()})
		return
	}
	report.HeadersAnnotated++
	report.Written = append(report.Written, rel)
	observability.FilesWrittenTotal.WithLabelValues("interface").Inc()
	rec.record(journal.Outcome{Path: rel, Line: line + 1, Action: journal.ActionHeaderAnnotated, Symbol: typeName})
}

// open reads path, or in dry-run mode returns the in-memory result of an
// earlier correction so later warnings see it.
func (a *App) open(path string, pending map[string]*source.Text) (*source.Text, error) {
	if text, ok := pending[path]; ok {
		return text, nil
	}
	return source.Load(path)
}

func (a *App) persist(text *source.Text, pending map[string]*source.Text) (bool, error) {
	changed, err := a.save(text)
	if err != nil {
		return false, err
	}
	if a.DryRun && changed {
		pending[text.Path] = text
	}
	return changed, nil
}

func (a *App) skip(report *ports.DestructorReport, rec *runRecorder, s ports.Skip) {
	report.Skipped = append(report.Skipped, s)
	observability.WarningsTotal.WithLabelValues("skipped").Inc()
	observability.SkipsTotal.WithLabelValues(phaseDestructors, string(s.Code)).Inc()
	slog.Warn("skipping destructor warning", "path", s.Path, "line", s.Line, "code", s.Code, "error", s.Detail)
	rec.record(journal.Outcome{Path: s.Path, Line: s.Line, Action: journal.ActionSkipped, Code: string(s.Code), Detail: s.Detail})
}
