package journal

import "time"

const SchemaVersion = 1

// Run modes.
const (
	ModeDestructors = "destructors"
	ModeIncludes    = "includes"
	ModeWatch       = "watch"
)

// Run statuses.
const (
	StatusRunning   = "running"
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
	StatusCancelled = "cancelled"
)

// Outcome actions.
const (
	ActionDestructorRewritten = "destructor_rewritten"
	ActionHeaderAnnotated     = "header_annotated"
	ActionIncludesRewritten   = "includes_rewritten"
	ActionSkipped             = "skipped"
	ActionAmbiguous           = "ambiguous"
	ActionUnresolved          = "unresolved"
)

type Run struct {
	ID          string
	Mode        string
	ProjectRoot string
	DryRun      bool
	Status      string
	StartedAt   time.Time
	FinishedAt  time.Time
}

type Outcome struct {
	RunID  string
	Path   string
	Line   int
	Action string
	Code   string
	Symbol string
	Detail string
	At     time.Time
}
