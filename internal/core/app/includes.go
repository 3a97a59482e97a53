package app

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	domainerrors "codecorrect/internal/core/errors"
	"codecorrect/internal/core/ports"
	"codecorrect/internal/data/journal"
	"codecorrect/internal/engine/forwarddecl"
	"codecorrect/internal/engine/source"
	"codecorrect/internal/engine/symbols"
	"codecorrect/internal/shared/observability"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

const (
	phaseIndex    = "index"
	phaseIncludes = "includes"
)

// headerResult is the outcome of one header's rewrite; each worker owns one slot.
type headerResult struct {
	path    string
	plan    forwarddecl.Plan
	changed bool
	written bool
	err     error
}

func (a *App) jobs(n int) int {
	jobs := a.Config.Includes.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	return max(1, min(jobs, n))
}

// loadHeaders reads headers in parallel. Unreadable headers come back as
// skips and a nil slot.
func (a *App) loadHeaders(ctx context.Context, headers []string) ([]*source.Text, []ports.Skip, error) {
	texts := make([]*source.Text, len(headers))
	errs := make([]error, len(headers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.jobs(len(headers)))
	for i, path := range headers {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			texts[i], errs[i] = source.Load(path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	skips := make([]ports.Skip, 0)
	for i, err := range errs {
		if err == nil {
			continue
		}
		skips = append(skips, ports.Skip{Path: a.relPath(headers[i]), Line: -1, Code: domainerrors.CodeOf(err), Detail: err.Error()})
		slog.Warn("skipping unreadable header", "path", a.relPath(headers[i]), "code", domainerrors.CodeOf(err), "error", err)
	}
	return texts, skips, nil
}

// buildIndex merges the definitions of every loaded header in listing order
// and freezes the result.
func (a *App) buildIndex(ctx context.Context, texts []*source.Text) *symbols.Index {
	_, span := observability.Tracer.Start(ctx, "app.buildIndex")
	defer span.End()

	started := time.Now()
	builder := symbols.NewBuilder(a.lexer)
	for _, text := range texts {
		if text == nil {
			continue
		}
		builder.Add(text.Path, text.Lines)
	}
	index := builder.Freeze()
	observability.PhaseDuration.WithLabelValues(phaseIndex).Observe(time.Since(started).Seconds())
	observability.IndexedNames.Set(float64(index.Len()))
	span.SetAttributes(attribute.Int("names", index.Len()))
	return index
}

// BuildIndex reads every interface file and returns the frozen symbol index.
func (a *App) BuildIndex(ctx context.Context) (*symbols.Index, error) {
	headers, err := a.InterfaceFiles()
	if err != nil {
		return nil, err
	}
	texts, _, err := a.loadHeaders(ctx, headers)
	if err != nil {
		return nil, err
	}
	return a.buildIndex(ctx, texts), nil
}

func (a *App) resolver(index *symbols.Index) *forwarddecl.Resolver {
	return forwarddecl.New(a.lexer, index, a.Paths.IncludeRoots).WithProjectRoot(a.Paths.ProjectRoot)
}

// ResolveIncludes builds the whole-repository index, then rewrites every
// header's forward declarations into includes in parallel.
func (a *App) ResolveIncludes(ctx context.Context) (report ports.IncludeReport, err error) {
	ctx, span := observability.Tracer.Start(ctx, "app.ResolveIncludes")
	defer span.End()

	rec := a.beginRun(journal.ModeIncludes)
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
	for _, s := range skips {
		a.fail(&report, rec, s)
	}

	index := a.buildIndex(ctx, texts)
	report.IndexedNames = index.Len()

	err = a.rewriteHeaders(ctx, index, texts, &report, rec)
	slog.Info("include phase finished",
		"headers", report.HeadersScanned,
		"rewritten", report.HeadersRewritten,
		"forward_decls", report.ForwardDeclsRemoved,
		"aliases", report.AliasesRemoved,
		"ambiguous", len(report.Ambiguities),
		"unresolved", len(report.Unresolved))
	return report, err
}

// rewriteHeaders runs the resolver over texts against a frozen index. Each
// worker reads only its own header and writes only its own file.
func (a *App) rewriteHeaders(ctx context.Context, index *symbols.Index, texts []*source.Text, report *ports.IncludeReport, rec *runRecorder) error {
	ctx, span := observability.Tracer.Start(ctx, "app.rewriteHeaders")
	defer span.End()

	started := time.Now()
	defer func() {
		observability.PhaseDuration.WithLabelValues(phaseIncludes).Observe(time.Since(started).Seconds())
	}()

	resolver := a.resolver(index)
	results := make([]headerResult, len(texts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.jobs(len(texts)))
	for i, text := range texts {
		if text == nil {
			continue
		}
		i, text := i, text
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res := headerResult{path: text.Path}
			res.plan, res.changed = resolver.Apply(text)
			if res.changed {
				res.written, res.err = a.save(text)
			}
			results[i] = res
			return nil
		})
	}
	waitErr := g.Wait()

	for _, res := range results {
		if res.path == "" {
			continue
		}
		a.collect(report, rec, res)
	}
	span.SetAttributes(attribute.Int("rewritten", report.HeadersRewritten))
	return waitErr
}

func (a *App) collect(report *ports.IncludeReport, rec *runRecorder, res headerResult) {
	rel := a.relPath(res.path)
	report.HeadersScanned++

	for _, name := range res.plan.Unresolved {
		report.Unresolved = append(report.Unresolved, ports.Unresolved{Path: rel, Name: name})
		observability.UnresolvedNamesTotal.Inc()
		slog.Debug("forward declaration has no defining header", "path", rel, "symbol", name)
		rec.record(journal.Outcome{Path: rel, Line: -1, Action: journal.ActionUnresolved, Symbol: name})
	}

	if !res.changed {
		return
	}
	for _, amb := range res.plan.Ambiguities() {
		candidates := make([]string, 0, len(amb.Candidates))
		for _, c := range amb.Candidates {
			candidates = append(candidates, a.relPath(c))
		}
		header := a.relPath(amb.Header)
		report.Ambiguities = append(report.Ambiguities, ports.Ambiguity{
			Path: rel, Line: amb.Line + 1, Name: amb.Name, Header: header, Candidates: candidates,
		})
		observability.AmbiguousResolutionsTotal.Inc()
		slog.Warn("ambiguous symbol resolved by shortest path",
			"path", rel, "line", amb.Line+1, "symbol", amb.Name, "selected", header, "candidates", candidates)
		rec.record(journal.Outcome{Path: rel, Line: amb.Line + 1, Action: journal.ActionAmbiguous, Symbol: amb.Name, Detail: header})
	}

	if res.err != nil {
		a.fail(report, rec, ports.Skip{Path: rel, Line: -1, Code: domainerrors.CodeOf(res.err), Detail: res.err.Error()})
		return
	}

	report.HeadersRewritten++
	report.ForwardDeclsRemoved += len(res.plan.ForwardDecls)
	report.AliasesRemoved += len(res.plan.Aliases)
	report.Written = append(report.Written, rel)
	observability.ForwardDeclsRemovedTotal.Add(float64(len(res.plan.ForwardDecls)))
	observability.AliasesRemovedTotal.Add(float64(len(res.plan.Aliases)))
	if res.written {
		observability.FilesWrittenTotal.WithLabelValues("interface").Inc()
	}
	slog.Info("header includes rewritten", "path", rel,
		"forward_decls", len(res.plan.ForwardDecls), "aliases", len(res.plan.Aliases))
	rec.record(journal.Outcome{
		Path:   rel,
		Line:   -1,
		Action: journal.ActionIncludesRewritten,
		Detail: fmt.Sprintf("%d forward declarations, %d aliases", len(res.plan.ForwardDecls), len(res.plan.Aliases)),
	})
}

func (a *App) fail(report *ports.IncludeReport, rec *runRecorder, s ports.Skip) {
	report.Failed = append(report.Failed, s)
	observability.SkipsTotal.WithLabelValues(phaseIncludes, string(s.Code)).Inc()
	slog.Warn("header skipped", "path", s.Path, "code", s.Code, "error", s.Detail)
	rec.record(journal.Outcome{Path: s.Path, Line: s.Line, Action: journal.ActionSkipped, Code: string(s.Code), Detail: s.Detail})
}

// DescribeIndex builds the index for audit without touching any file.
func (a *App) DescribeIndex(ctx context.Context) (ports.IndexReport, error) {
	headers, err := a.InterfaceFiles()
	if err != nil {
		return ports.IndexReport{}, err
	}
	texts, _, err := a.loadHeaders(ctx, headers)
	if err != nil {
		return ports.IndexReport{}, err
	}
	index := a.buildIndex(ctx, texts)

	report := ports.IndexReport{HeadersScanned: len(headers)}
	for _, name := range index.Names() {
		res, _ := index.Resolve(name)
		entry := ports.IndexEntry{
			Name:      name,
			Selected:  a.relPath(res.Header),
			Ambiguous: res.Ambiguous,
		}
		for _, h := range res.Candidates {
			entry.Headers = append(entry.Headers, a.relPath(h))
		}
		report.Entries = append(report.Entries, entry)
	}
	return report, nil
}
