// Package symbols builds the repository-wide map from declared type name to
// the interface files that define it, using a lexical model of declarations.
package symbols

import "strings"

type Classification int

const (
	// NotDeclaration means neither a body opener nor a terminator was found.
	NotDeclaration Classification = iota
	// IsDefinition means a body opener came first.
	IsDefinition
	// ForwardMention means a statement terminator came first.
	ForwardMention
)

func (c Classification) String() string {
	switch c {
	case IsDefinition:
		return "definition"
	case ForwardMention:
		return "forward-mention"
	default:
		return "not-declaration"
	}
}

const (
	bodyOpener = '{'
	terminator = ';'
)

// MaxDeclarationScan bounds how many lines a declaration header may span.
const MaxDeclarationScan = 64

// ClassifyDeclaration scans forward from lines[start] for the first body
// opener or statement terminator; whichever appears first decides. Line
// comments are ignored.
func ClassifyDeclaration(lines []string, start int) Classification {
	if start < 0 {
		return NotDeclaration
	}
	for i := start; i < len(lines) && i < start+MaxDeclarationScan; i++ {
		for _, r := range stripLineComment(lines[i]) {
			switch r {
			case bodyOpener:
				return IsDefinition
			case terminator:
				return ForwardMention
			}
		}
	}
	return NotDeclaration
}

func stripLineComment(line string) string {
	if idx := strings.Index(line, "//"); idx >= 0 {
		return line[:idx]
	}
	return line
}
