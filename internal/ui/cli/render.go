package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"codecorrect/internal/core/ports"
	"codecorrect/internal/data/journal"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#3B82F6"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B"))
)

func title(text string, dryRun bool) string {
	if dryRun {
		text += " (dry run)"
	}
	return titleStyle.Render(text)
}

func renderDestructorReport(w io.Writer, r ports.DestructorReport, dryRun bool) {
	fmt.Fprintln(w, title("Destructors", dryRun))
	fmt.Fprintf(w, "  warnings:          %d\n", r.Warnings)
	fmt.Fprintf(w, "  corrected:         %s\n", successStyle.Render(fmt.Sprint(r.Corrected)))
	fmt.Fprintf(w, "  headers annotated: %d\n", r.HeadersAnnotated)
	if r.MissingPairs > 0 {
		fmt.Fprintf(w, "  missing pairs:     %s\n", warnStyle.Render(fmt.Sprint(r.MissingPairs)))
	}
	renderWritten(w, r.Written, dryRun)
	renderSkips(w, "skipped", r.Skipped)
	renderRunID(w, r.RunID)
}

func renderIncludeReport(w io.Writer, r ports.IncludeReport, dryRun bool) {
	fmt.Fprintln(w, title("Includes", dryRun))
	fmt.Fprintf(w, "  indexed names:         %d\n", r.IndexedNames)
	fmt.Fprintf(w, "  headers scanned:       %d\n", r.HeadersScanned)
	fmt.Fprintf(w, "  headers rewritten:     %s\n", successStyle.Render(fmt.Sprint(r.HeadersRewritten)))
	fmt.Fprintf(w, "  forward decls removed: %d\n", r.ForwardDeclsRemoved)
	fmt.Fprintf(w, "  aliases removed:       %d\n", r.AliasesRemoved)
	renderWritten(w, r.Written, dryRun)

	if len(r.Ambiguities) > 0 {
		fmt.Fprintln(w, warnStyle.Render(fmt.Sprintf("  ambiguous (%d):", len(r.Ambiguities))))
		for _, a := range r.Ambiguities {
			fmt.Fprintf(w, "    %s:%d %s -> %s %s\n", a.Path, a.Line, a.Name, a.Header,
				mutedStyle.Render("["+strings.Join(a.Candidates, ", ")+"]"))
		}
	}
	if len(r.Unresolved) > 0 {
		fmt.Fprintln(w, warnStyle.Render(fmt.Sprintf("  unresolved (%d):", len(r.Unresolved))))
		for _, u := range r.Unresolved {
			fmt.Fprintf(w, "    %s %s\n", u.Path, u.Name)
		}
	}
	renderSkips(w, "failed", r.Failed)
	renderRunID(w, r.RunID)
}

func renderIndexReport(w io.Writer, r ports.IndexReport, ambiguousOnly bool) {
	ambiguous := 0
	for _, e := range r.Entries {
		if e.Ambiguous {
			ambiguous++
		}
	}
	fmt.Fprintln(w, titleStyle.Render("Symbol index"))
	fmt.Fprintf(w, "  headers scanned: %d, names: %d, ambiguous: %d\n", r.HeadersScanned, len(r.Entries), ambiguous)
	for _, e := range r.Entries {
		if ambiguousOnly && !e.Ambiguous {
			continue
		}
		if !e.Ambiguous {
			fmt.Fprintf(w, "  %s  %s\n", e.Name, e.Selected)
			continue
		}
		fmt.Fprintf(w, "  %s  %s %s\n", e.Name, e.Selected, warnStyle.Render("(ambiguous)"))
		for _, h := range e.Headers {
			if h == e.Selected {
				continue
			}
			fmt.Fprintf(w, "    %s\n", mutedStyle.Render(h))
		}
	}
}

func renderRuns(w io.Writer, runs []journal.Run) {
	fmt.Fprintln(w, titleStyle.Render("Runs"))
	if len(runs) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("  no runs recorded"))
		return
	}
	for _, run := range runs {
		status := run.Status
		switch status {
		case journal.StatusSucceeded:
			status = successStyle.Render(status)
		case journal.StatusFailed:
			status = errorStyle.Render(status)
		case journal.StatusCancelled, journal.StatusRunning:
			status = warnStyle.Render(status)
		}
		mode := run.Mode
		if run.DryRun {
			mode += " (dry run)"
		}
		fmt.Fprintf(w, "  %s  %s  %-12s %s\n", run.ID, run.StartedAt.Local().Format(time.DateTime), mode, status)
	}
}

func renderOutcomes(w io.Writer, runID string, outcomes []journal.Outcome) {
	fmt.Fprintln(w, titleStyle.Render("Run "+runID))
	if len(outcomes) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("  no outcomes recorded"))
		return
	}
	for _, o := range outcomes {
		loc := o.Path
		if o.Line > 0 {
			loc = fmt.Sprintf("%s:%d", o.Path, o.Line)
		}
		line := fmt.Sprintf("  %-22s %s", o.Action, loc)
		if o.Symbol != "" {
			line += " " + o.Symbol
		}
		if o.Code != "" {
			line += " " + warnStyle.Render("["+o.Code+"]")
		}
		if o.Detail != "" {
			line += " " + mutedStyle.Render(o.Detail)
		}
		fmt.Fprintln(w, line)
	}
}

func renderWritten(w io.Writer, written []string, dryRun bool) {
	if len(written) == 0 {
		return
	}
	label := "  written:"
	if dryRun {
		label = "  would write:"
	}
	fmt.Fprintln(w, label)
	for _, p := range written {
		fmt.Fprintf(w, "    %s\n", p)
	}
}

func renderSkips(w io.Writer, label string, skips []ports.Skip) {
	if len(skips) == 0 {
		return
	}
	fmt.Fprintln(w, warnStyle.Render(fmt.Sprintf("  %s (%d):", label, len(skips))))
	for _, s := range skips {
		loc := s.Path
		if s.Line > 0 {
			loc = fmt.Sprintf("%s:%d", s.Path, s.Line)
		}
		fmt.Fprintf(w, "    %s %s %s\n", loc, errorStyle.Render(string(s.Code)), mutedStyle.Render(s.Detail))
	}
}

func renderRunID(w io.Writer, id string) {
	if id != "" {
		fmt.Fprintln(w, mutedStyle.Render("  run "+id))
	}
}
