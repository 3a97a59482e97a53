package symbols

import (
	"regexp"
	"strings"
)

type LineKind int

const (
	LineOther LineKind = iota
	LineForwardDecl
	LineAlias
	LineInclude
)

func (k LineKind) String() string {
	switch k {
	case LineForwardDecl:
		return "forward-declaration"
	case LineAlias:
		return "alias-declaration"
	case LineInclude:
		return "directive-include"
	default:
		return "other"
	}
}

var (
	DefaultKeywords      = []string{"class", "struct"}
	DefaultDecorations   = []string{"BABYLON_SHARED_EXPORT"}
	DefaultAliasWrappers = []string{"std::shared_ptr"}
)

const includeDirective = "#include"

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Lexer recognises the handful of declaration shapes the tool rewrites.
type Lexer struct {
	keywords    []string
	decorations map[string]bool
	alias       *regexp.Regexp
}

// NewLexer builds a Lexer; empty arguments fall back to the defaults.
func NewLexer(keywords, decorations, aliasWrappers []string) *Lexer {
	if len(keywords) == 0 {
		keywords = DefaultKeywords
	}
	if decorations == nil {
		decorations = DefaultDecorations
	}
	if len(aliasWrappers) == 0 {
		aliasWrappers = DefaultAliasWrappers
	}

	decorationSet := make(map[string]bool, len(decorations)+1)
	for _, d := range decorations {
		decorationSet[strings.TrimSpace(d)] = true
	}
	decorationSet["final"] = true

	wrappers := make([]string, 0, len(aliasWrappers))
	for _, w := range aliasWrappers {
		wrappers = append(wrappers, regexp.QuoteMeta(strings.TrimSpace(w)))
	}
	alias := regexp.MustCompile(`^\s*using\s+([A-Za-z_]\w*)\s*=\s*(?:` + strings.Join(wrappers, "|") +
		`)\s*<\s*((?:[A-Za-z_]\w*::)*[A-Za-z_]\w*)\s*>\s*;\s*(?://.*)?$`)

	return &Lexer{
		keywords:    keywords,
		decorations: decorationSet,
		alias:       alias,
	}
}

// DefaultLexer recognises class/struct declarations, BABYLON_SHARED_EXPORT
// decoration and std::shared_ptr alias shortcuts.
func DefaultLexer() *Lexer {
	return NewLexer(nil, nil, nil)
}

// DeclarationKeyword returns the keyword a top-level declaration line starts
// with. Indented lines are nested and never match.
func (lx *Lexer) DeclarationKeyword(line string) (string, bool) {
	for _, kw := range lx.keywords {
		if !strings.HasPrefix(line, kw) {
			continue
		}
		rest := line[len(kw):]
		if rest == "" || rest[0] == ' ' || rest[0] == '\t' {
			return kw, true
		}
	}
	return "", false
}

// DeclaredName extracts the type name from a declaration line. truncated is
// set when a generic-argument list had to be cut off.
func (lx *Lexer) DeclaredName(line string) (name string, truncated bool) {
	kw, ok := lx.DeclarationKeyword(line)
	if !ok {
		return "", false
	}
	rest := stripLineComment(line[len(kw):])
	if idx := strings.IndexAny(rest, "{;"); idx >= 0 {
		rest = rest[:idx]
	}
	rest = cutBaseClause(rest)
	if idx := strings.IndexByte(rest, '<'); idx >= 0 {
		rest = rest[:idx]
		truncated = true
	}

	for _, field := range strings.Fields(rest) {
		if lx.isDecoration(field) {
			continue
		}
		if identifierPattern.MatchString(field) {
			return field, truncated
		}
		return "", truncated
	}
	return "", truncated
}

func (lx *Lexer) isDecoration(field string) bool {
	if lx.decorations[field] {
		return true
	}
	if strings.HasPrefix(field, "[[") {
		return true
	}
	return strings.HasSuffix(field, "_EXPORT") || strings.HasSuffix(field, "_API")
}

// cutBaseClause drops everything from a base-class separator onwards; scope
// operators are not separators.
func cutBaseClause(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] != ':' {
			continue
		}
		if i+1 < len(s) && s[i+1] == ':' {
			i++
			continue
		}
		return s[:i]
	}
	return s
}

// AliasTarget returns the alias name and the wrapped type name (last scope
// segment) of a shared-ownership alias shortcut.
func (lx *Lexer) AliasTarget(line string) (alias, target string, ok bool) {
	m := lx.alias.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}
	target = m[2]
	if idx := strings.LastIndex(target, "::"); idx >= 0 {
		target = target[idx+2:]
	}
	return m[1], target, true
}

// IsInclude reports whether line is an include directive.
func IsInclude(line string) bool {
	return strings.HasPrefix(strings.TrimLeft(line, " \t"), includeDirective)
}

// ForwardDeclaredName returns the name of a single-line forward declaration.
func (lx *Lexer) ForwardDeclaredName(line string) (string, bool) {
	if _, ok := lx.DeclarationKeyword(line); !ok {
		return "", false
	}
	if ClassifyDeclaration([]string{line}, 0) != ForwardMention {
		return "", false
	}
	name, truncated := lx.DeclaredName(line)
	if name == "" || truncated {
		return "", false
	}
	return name, true
}

// ClassifyLine gives the transient role of a single header line.
func (lx *Lexer) ClassifyLine(line string) LineKind {
	switch {
	case IsInclude(line):
		return LineInclude
	case lx.alias.MatchString(line):
		return LineAlias
	}
	if _, ok := lx.ForwardDeclaredName(line); ok {
		return LineForwardDecl
	}
	return LineOther
}

// Definition is a type a file defines, by name and starting line.
type Definition struct {
	Name      string
	Line      int
	Truncated bool
}

// Definitions lists the top-level types defined in lines, in order.
func (lx *Lexer) Definitions(lines []string) []Definition {
	defs := make([]Definition, 0)
	for i, line := range lines {
		if _, ok := lx.DeclarationKeyword(line); !ok {
			continue
		}
		if ClassifyDeclaration(lines, i) != IsDefinition {
			continue
		}
		name, truncated := lx.DeclaredName(line)
		if name == "" {
			continue
		}
		defs = append(defs, Definition{Name: name, Line: i, Truncated: truncated})
	}
	return defs
}

// LocalDefinitions returns the set of type names lines defines.
func (lx *Lexer) LocalDefinitions(lines []string) map[string]bool {
	local := make(map[string]bool)
	for _, def := range lx.Definitions(lines) {
		local[def.Name] = true
	}
	return local
}
