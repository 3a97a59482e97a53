package symbols

import "log/slog"

// Builder accumulates definitions file by file. It is not safe for
// concurrent use; Freeze hands out the read-only result.
type Builder struct {
	lexer *Lexer
	names map[string]map[string]bool
}

func NewBuilder(lexer *Lexer) *Builder {
	if lexer == nil {
		lexer = DefaultLexer()
	}
	return &Builder{
		lexer: lexer,
		names: make(map[string]map[string]bool),
	}
}

// Add indexes the top-level definitions of one header and returns them.
// A name seen in several headers keeps all of them.
func (b *Builder) Add(header string, lines []string) []Definition {
	defs := b.lexer.Definitions(lines)
	for _, def := range defs {
		if def.Truncated {
			slog.Debug("declaration name truncated at generic argument list",
				"path", header, "line", def.Line+1, "symbol", def.Name)
		}
		set, ok := b.names[def.Name]
		if !ok {
			set = make(map[string]bool)
			b.names[def.Name] = set
		}
		set[header] = true
	}
	return defs
}

// Freeze returns the immutable index of everything added so far.
func (b *Builder) Freeze() *Index {
	headers := make(map[string][]string, len(b.names))
	for name, set := range b.names {
		paths := make([]string, 0, len(set))
		for path := range set {
			paths = append(paths, path)
		}
		sortByPreference(paths)
		headers[name] = paths
	}
	return &Index{headers: headers}
}

// NewIndex builds an index straight from a name → headers mapping.
func NewIndex(entries map[string][]string) *Index {
	headers := make(map[string][]string, len(entries))
	for name, paths := range entries {
		seen := make(map[string]bool, len(paths))
		unique := make([]string, 0, len(paths))
		for _, p := range paths {
			if seen[p] {
				continue
			}
			seen[p] = true
			unique = append(unique, p)
		}
		sortByPreference(unique)
		headers[name] = unique
	}
	return &Index{headers: headers}
}
