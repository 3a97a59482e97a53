// Package destructor rewrites trivial destructor bodies into defaulted
// definitions and annotates the matching declaration.
package destructor

import (
	"regexp"
	"strings"

	domainerrors "codecorrect/internal/core/errors"
	"codecorrect/internal/engine/source"
)

const (
	DefaultMaxBodyLines  = 1000
	DefaultPendingMarker = "// = default"
)

var (
	identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	overridePattern   = regexp.MustCompile(`\s*\boverride\b`)

	// parameter list, optional specifiers, then "= default;"
	defaultedSignature = regexp.MustCompile(`~\s*\w+\s*\([^)]*\)[\w\s]*=\s*default\s*;`)
)

type state int

const (
	stateScanning state = iota
	stateFoundWarningLine
	stateScanningForClose
	stateRewriting
	stateDone
)

// Corrector holds the bounds and markers of a destructor correction.
type Corrector struct {
	MaxBodyLines  int
	PendingMarker string
}

func New(maxBodyLines int, pendingMarker string) Corrector {
	if maxBodyLines <= 0 {
		maxBodyLines = DefaultMaxBodyLines
	}
	if strings.TrimSpace(pendingMarker) == "" {
		pendingMarker = DefaultPendingMarker
	}
	return Corrector{MaxBodyLines: maxBodyLines, PendingMarker: pendingMarker}
}

// Correction describes one computed rewrite of an implementation file.
// StartLine and CloseLine are 0-based and inclusive.
type Correction struct {
	TypeName     string
	StartLine    int
	CloseLine    int
	RemovedLines int
	Replacement  string
}

// Plan computes the corrected lines for the destructor warned about at line.
// lines is not modified.
func (c Corrector) Plan(lines []string, line int) (Correction, []string, error) {
	var (
		st     = stateScanning
		corr   Correction
		indent string
		qual   string
		out    []string
	)

	for st != stateDone {
		switch st {
		case stateScanning:
			if line < 0 || line >= len(lines) {
				return Correction{}, nil, notApplicable("warning line outside file", line)
			}
			st = stateFoundWarningLine

		case stateFoundWarningLine:
			text := lines[line]
			if isDefaulted(text) {
				return Correction{}, nil, notApplicable("destructor already defaulted", line)
			}
			tilde := strings.IndexByte(text, '~')
			if tilde < 0 {
				return Correction{}, nil, notApplicable("no destructor sigil on warning line", line)
			}
			paren := strings.IndexByte(text[tilde:], '(')
			if paren < 0 {
				return Correction{}, nil, notApplicable("no parameter list after destructor sigil", line)
			}
			name := strings.TrimSpace(text[tilde+1 : tilde+paren])
			if !identifierPattern.MatchString(name) {
				return Correction{}, nil, notApplicable("destructor name is not an identifier", line)
			}
			corr.TypeName = name
			corr.StartLine = line
			trimmed := strings.TrimLeft(text, " \t")
			indent = text[:len(text)-len(trimmed)]
			qual = strings.TrimSpace(text[:tilde])
			if qual == "" {
				qual = name + "::"
			}
			st = stateScanningForClose

		case stateScanningForClose:
			closeLine := -1
			for i := line; i < len(lines); i++ {
				if i-line >= c.maxBodyLines() {
					break
				}
				if strings.Contains(lines[i], "}") {
					closeLine = i
					break
				}
			}
			if closeLine < 0 {
				err := domainerrors.New(domainerrors.CodeUnterminatedBody, "no closing brace after destructor")
				err = domainerrors.AddContext(err, domainerrors.CtxLine, line+1)
				return Correction{}, nil, domainerrors.AddContext(err, domainerrors.CtxSymbol, corr.TypeName)
			}
			corr.CloseLine = closeLine
			st = stateRewriting

		case stateRewriting:
			end := corr.CloseLine + 1
			if end < len(lines) && strings.TrimSpace(lines[end]) == "" {
				end++
			}
			corr.RemovedLines = end - corr.StartLine
			corr.Replacement = indent + qual + "~" + corr.TypeName + "() = default;"

			out = make([]string, 0, len(lines)-corr.RemovedLines+2)
			out = append(out, lines[:corr.StartLine]...)
			out = append(out, corr.Replacement, "")
			out = append(out, lines[end:]...)
			st = stateDone
		}
	}
	return corr, out, nil
}

// Correct plans the rewrite and installs it into impl. impl is left
// untouched when an error is returned.
func (c Corrector) Correct(impl *source.Text, line int) (Correction, error) {
	corr, lines, err := c.Plan(impl.Lines, line)
	if err != nil {
		return Correction{}, domainerrors.AddContext(err, domainerrors.CtxPath, impl.Path)
	}
	impl.Replace(lines)
	return corr, nil
}

// AnnotateDeclaration marks the declaration of ~typeName in iface as pending
// a default: the end-of-line comment and any override specifier are removed
// and the pending marker appended. It returns the 0-based line it found and
// whether that line was changed.
func (c Corrector) AnnotateDeclaration(iface *source.Text, typeName string) (int, bool) {
	decl := regexp.MustCompile(`~\s*` + regexp.QuoteMeta(typeName) + `\s*\(`)
	marker := c.pendingMarker()

	for i, line := range iface.Lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "*") || strings.HasPrefix(trimmed, "/*") {
			continue
		}
		if !decl.MatchString(line) {
			continue
		}
		if strings.Contains(line, marker) {
			return i, false
		}

		next := line
		if idx := strings.Index(next, "//"); idx >= 0 {
			next = strings.TrimRight(next[:idx], " \t")
		}
		next = overridePattern.ReplaceAllString(next, "")
		next = next + " " + marker

		lines := make([]string, len(iface.Lines))
		copy(lines, iface.Lines)
		lines[i] = next
		iface.Replace(lines)
		return i, true
	}
	return -1, false
}

func (c Corrector) maxBodyLines() int {
	if c.MaxBodyLines <= 0 {
		return DefaultMaxBodyLines
	}
	return c.MaxBodyLines
}

func (c Corrector) pendingMarker() string {
	if strings.TrimSpace(c.PendingMarker) == "" {
		return DefaultPendingMarker
	}
	return c.PendingMarker
}

func isDefaulted(line string) bool {
	return defaultedSignature.MatchString(line)
}

func notApplicable(msg string, line int) error {
	return domainerrors.AddContext(
		domainerrors.New(domainerrors.CodeNotApplicable, msg),
		domainerrors.CtxLine, line+1,
	)
}
