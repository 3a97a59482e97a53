package symbols

import (
	"sort"

	"codecorrect/internal/shared/util"
)

// Index maps a declared type name to every header defining it. It is built
// once by a Builder and never mutated afterwards, so concurrent readers need
// no locking.
type Index struct {
	headers map[string][]string
}

// Resolution is the outcome of picking one header for a name.
type Resolution struct {
	Name       string
	Header     string
	Ambiguous  bool
	Candidates []string
}

// SelectHeader picks the shortest candidate path, breaking equal lengths
// lexically. ambiguous is set whenever more than one candidate existed.
func SelectHeader(candidates []string) (header string, ambiguous bool) {
	if len(candidates) == 0 {
		return "", false
	}
	sorted := append([]string(nil), candidates...)
	sortByPreference(sorted)
	return sorted[0], len(sorted) > 1
}

func sortByPreference(paths []string) {
	sort.Slice(paths, func(i, j int) bool {
		if len(paths[i]) != len(paths[j]) {
			return len(paths[i]) < len(paths[j])
		}
		return paths[i] < paths[j]
	})
}

// Lookup returns the candidate headers for name in preference order.
func (ix *Index) Lookup(name string) []string {
	if ix == nil {
		return nil
	}
	return append([]string(nil), ix.headers[name]...)
}

// Resolve applies SelectHeader to the candidates of name.
func (ix *Index) Resolve(name string) (Resolution, bool) {
	if ix == nil {
		return Resolution{}, false
	}
	candidates := ix.headers[name]
	if len(candidates) == 0 {
		return Resolution{}, false
	}
	header, ambiguous := SelectHeader(candidates)
	return Resolution{
		Name:       name,
		Header:     header,
		Ambiguous:  ambiguous,
		Candidates: append([]string(nil), candidates...),
	}, true
}

// Names returns every indexed name, sorted.
func (ix *Index) Names() []string {
	if ix == nil {
		return nil
	}
	return util.SortedStringKeys(ix.headers)
}

// Ambiguous returns the sorted names defined by more than one header.
func (ix *Index) Ambiguous() []string {
	names := make([]string, 0)
	for _, name := range ix.Names() {
		if len(ix.headers[name]) > 1 {
			names = append(names, name)
		}
	}
	return names
}

func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.headers)
}
