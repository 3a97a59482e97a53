// Package forwarddecl replaces forward declarations and shared-pointer alias
// shortcuts in a header with includes of the headers that define the types.
package forwarddecl

import (
	"sort"
	"strings"

	"codecorrect/internal/engine/source"
	"codecorrect/internal/engine/symbols"
	"codecorrect/internal/shared/util"
)

// Removal is one line scheduled for removal together with the header that
// now provides its type.
type Removal struct {
	Line       int
	Name       string
	Kind       symbols.LineKind
	Header     string
	Ambiguous  bool
	Candidates []string
}

// Plan is the full edit intent for one header, computed before any write.
type Plan struct {
	Path         string
	ForwardDecls []Removal
	Aliases      []Removal
	Unresolved   []string
	Includes     []string
	LastInclude  int
}

// Rewritable reports whether the plan leads to a rewrite. Headers without a
// removable forward declaration are never touched, even when alias shortcuts
// alone could go; headers without an include directive have no anchor.
func (p Plan) Rewritable() bool {
	return len(p.ForwardDecls) > 0 && p.LastInclude >= 0
}

// Ambiguities returns the removals whose header was picked among several.
func (p Plan) Ambiguities() []Removal {
	out := make([]Removal, 0)
	for _, group := range [][]Removal{p.ForwardDecls, p.Aliases} {
		for _, r := range group {
			if r.Ambiguous {
				out = append(out, r)
			}
		}
	}
	return out
}

// Resolver rewrites headers against a frozen symbol index. It holds no
// mutable state, so one Resolver may serve many goroutines.
type Resolver struct {
	lexer        *symbols.Lexer
	index        *symbols.Index
	includeRoots []string
	projectRoot  string
}

func New(lexer *symbols.Lexer, index *symbols.Index, includeRoots []string) *Resolver {
	if lexer == nil {
		lexer = symbols.DefaultLexer()
	}
	roots := make([]string, 0, len(includeRoots))
	for _, root := range includeRoots {
		if normalized := util.NormalizePatternPath(root); normalized != "" {
			roots = append(roots, normalized)
		}
	}
	return &Resolver{lexer: lexer, index: index, includeRoots: roots}
}

// WithProjectRoot returns a copy of r that spells includes for absolute
// header paths as if they were relative to root.
func (r *Resolver) WithProjectRoot(root string) *Resolver {
	out := *r
	out.projectRoot = util.NormalizePatternPath(root)
	out.includeRoots = make([]string, 0, len(r.includeRoots))
	for _, ir := range r.includeRoots {
		out.includeRoots = append(out.includeRoots, out.relative(ir))
	}
	return &out
}

func (r *Resolver) relative(p string) string {
	p = util.NormalizePatternPath(p)
	if r.projectRoot != "" && p != r.projectRoot && util.HasPathPrefix(p, r.projectRoot) {
		return strings.TrimPrefix(p, r.projectRoot+"/")
	}
	return p
}

// IncludeSpelling turns a header path into the text between the angle
// brackets of its include: relative to the longest matching include root,
// else whatever follows the last include/ directory, else the path itself.
func (r *Resolver) IncludeSpelling(header string) string {
	h := r.relative(header)
	best := ""
	for _, root := range r.includeRoots {
		if util.HasPathPrefix(h, root) && h != root && len(root) > len(best) {
			best = root
		}
	}
	if best != "" {
		return strings.TrimPrefix(h, best+"/")
	}
	if idx := strings.LastIndex(h, "/include/"); idx >= 0 {
		return h[idx+len("/include/"):]
	}
	if strings.HasPrefix(h, "include/") {
		return strings.TrimPrefix(h, "include/")
	}
	return h
}

// IncludeLine renders the include directive for header.
func (r *Resolver) IncludeLine(header string) string {
	return "#include <" + r.IncludeSpelling(header) + ">"
}

// Plan classifies every line of text and computes the resulting include block.
func (r *Resolver) Plan(text *source.Text) Plan {
	plan := Plan{Path: text.Path, LastInclude: -1}
	local := r.lexer.LocalDefinitions(text.Lines)
	self := util.NormalizePatternPath(text.Path)

	lineEnding := ""
	existing := make([]string, 0)
	for i, line := range text.Lines {
		switch r.lexer.ClassifyLine(line) {
		case symbols.LineInclude:
			plan.LastInclude = i
			if strings.HasSuffix(line, "\r") {
				lineEnding = "\r"
			}
			existing = append(existing, strings.TrimRight(line, " \t\r"))

		case symbols.LineForwardDecl:
			name, _ := r.lexer.ForwardDeclaredName(line)
			if local[name] {
				continue
			}
			removal, ok := r.resolve(name, self, i, symbols.LineForwardDecl)
			if !ok {
				plan.Unresolved = append(plan.Unresolved, name)
				continue
			}
			plan.ForwardDecls = append(plan.ForwardDecls, removal)

		case symbols.LineAlias:
			_, target, _ := r.lexer.AliasTarget(line)
			if local[target] {
				continue
			}
			if removal, ok := r.resolve(target, self, i, symbols.LineAlias); ok {
				plan.Aliases = append(plan.Aliases, removal)
			}
		}
	}

	plan.Includes = r.mergeIncludes(existing, plan, lineEnding)
	return plan
}

func (r *Resolver) resolve(name, self string, line int, kind symbols.LineKind) (Removal, bool) {
	candidates := make([]string, 0)
	for _, header := range r.index.Lookup(name) {
		if util.NormalizePatternPath(header) != self {
			candidates = append(candidates, header)
		}
	}
	header, ambiguous := symbols.SelectHeader(candidates)
	if header == "" {
		return Removal{}, false
	}
	return Removal{
		Line:       line,
		Name:       name,
		Kind:       kind,
		Header:     header,
		Ambiguous:  ambiguous,
		Candidates: candidates,
	}, true
}

// mergeIncludes returns the sorted union of the existing includes and the
// includes of every removed type, deduplicated on the included path.
func (r *Resolver) mergeIncludes(existing []string, plan Plan, lineEnding string) []string {
	byTarget := make(map[string]string)
	add := func(line string) {
		key := includeTarget(line)
		if _, ok := byTarget[key]; !ok {
			byTarget[key] = line
		}
	}
	for _, line := range existing {
		add(line)
	}
	for _, group := range [][]Removal{plan.ForwardDecls, plan.Aliases} {
		for _, removal := range group {
			add(r.IncludeLine(removal.Header))
		}
	}

	lines := make([]string, 0, len(byTarget))
	for _, line := range byTarget {
		lines = append(lines, line)
	}
	sort.Strings(lines)
	for i := range lines {
		lines[i] += lineEnding
	}
	return lines
}

func includeTarget(line string) string {
	rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "#include"))
	if len(rest) >= 2 && (rest[0] == '<' || rest[0] == '"') {
		closing := byte('>')
		if rest[0] == '"' {
			closing = '"'
		}
		if end := strings.IndexByte(rest[1:], closing); end >= 0 {
			return rest[1 : end+1]
		}
	}
	return rest
}

// Rewrite produces the new lines for a rewritable plan: removed lines and
// existing includes are dropped and the merged include block is emitted
// where the last original include stood.
func (r *Resolver) Rewrite(text *source.Text, plan Plan) []string {
	drop := make(map[int]bool, len(plan.ForwardDecls)+len(plan.Aliases))
	for _, group := range [][]Removal{plan.ForwardDecls, plan.Aliases} {
		for _, removal := range group {
			drop[removal.Line] = true
		}
	}

	out := make([]string, 0, len(text.Lines)+len(plan.Includes))
	for i, line := range text.Lines {
		if i == plan.LastInclude {
			out = append(out, plan.Includes...)
			continue
		}
		if drop[i] || symbols.IsInclude(line) {
			continue
		}
		out = append(out, line)
	}
	return out
}

// Apply plans and, when the plan is rewritable, installs the rewrite into
// text. It reports whether text changed.
func (r *Resolver) Apply(text *source.Text) (Plan, bool) {
	plan := r.Plan(text)
	if !plan.Rewritable() {
		return plan, false
	}
	text.Replace(r.Rewrite(text, plan))
	return plan, text.Changed()
}
