package ports

import (
	"context"

	domainerrors "codecorrect/internal/core/errors"
	"codecorrect/internal/data/journal"
)

// RunJournal abstracts persistence of correction runs for later audit.
type RunJournal interface {
	BeginRun(mode, projectRoot string, dryRun bool) (string, error)
	Record(outcomes ...journal.Outcome) error
	FinishRun(id, status string) error
}

// ChangeSource delivers batches of changed paths, for watch mode.
type ChangeSource interface {
	Watch(paths []string) error
	Close() error
}

// CorrectionService is the driving port the command surface calls.
type CorrectionService interface {
	CorrectDestructors(ctx context.Context, diagnosticsPath string) (DestructorReport, error)
	ResolveIncludes(ctx context.Context) (IncludeReport, error)
	DescribeIndex(ctx context.Context) (IndexReport, error)
}

// Skip is one item a phase could not process. Paths are project-relative.
type Skip struct {
	Path   string
	Line   int
	Code   domainerrors.ErrorCode
	Detail string
}

type DestructorReport struct {
	RunID            string
	Warnings         int
	Corrected        int
	HeadersAnnotated int
	MissingPairs     int
	Written          []string
	Skipped          []Skip
}

// Ambiguity records a name resolved while defined in several headers.
type Ambiguity struct {
	Path       string
	Line       int
	Name       string
	Header     string
	Candidates []string
}

type Unresolved struct {
	Path string
	Name string
}

type IncludeReport struct {
	RunID               string
	IndexedNames        int
	HeadersScanned      int
	HeadersRewritten    int
	ForwardDeclsRemoved int
	AliasesRemoved      int
	Written             []string
	Ambiguities         []Ambiguity
	Unresolved          []Unresolved
	Failed              []Skip
}

// IndexEntry is one name of the symbol index with its candidate headers.
type IndexEntry struct {
	Name      string
	Headers   []string
	Selected  string
	Ambiguous bool
}

type IndexReport struct {
	HeadersScanned int
	Entries        []IndexEntry
}
