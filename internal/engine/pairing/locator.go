// Package pairing finds the interface file that belongs to an implementation file.
package pairing

import (
	"log/slog"
	"path"
	"sort"
	"strings"
)

// Locator pairs <dir>/<name>.<implExt> with <dir>/<name>.<ifaceExt>. The
// sibling in the same directory wins; otherwise the interface file whose
// parent directory and stem match is used, which covers trees that mirror
// src/<dir>/ into include/<project>/<dir>/.
type Locator struct {
	ifaceExt string
	implExts []string
	exact    map[string]string
	bySuffix map[string][]string
}

// NewLocator indexes interfaceFiles (slash-separated paths).
func NewLocator(interfaceFiles []string, ifaceExt string, implExts []string) *Locator {
	l := &Locator{
		ifaceExt: ifaceExt,
		implExts: implExts,
		exact:    make(map[string]string, len(interfaceFiles)),
		bySuffix: make(map[string][]string, len(interfaceFiles)),
	}
	for _, f := range interfaceFiles {
		clean := path.Clean(f)
		l.exact[clean] = f
		key := parentAndBase(clean)
		l.bySuffix[key] = append(l.bySuffix[key], f)
	}
	for key := range l.bySuffix {
		candidates := l.bySuffix[key]
		sort.Slice(candidates, func(i, j int) bool {
			if len(candidates[i]) != len(candidates[j]) {
				return len(candidates[i]) < len(candidates[j])
			}
			return candidates[i] < candidates[j]
		})
	}
	return l
}

func parentAndBase(p string) string {
	dir, base := path.Split(p)
	return path.Join(path.Base(dir), base)
}

// Locate returns the interface file paired with implPath.
func (l *Locator) Locate(implPath string) (string, bool) {
	stem, ok := l.stem(path.Clean(implPath))
	if !ok {
		return "", false
	}
	sibling := stem + l.ifaceExt
	if found, ok := l.exact[sibling]; ok {
		return found, true
	}

	candidates := l.bySuffix[parentAndBase(sibling)]
	switch len(candidates) {
	case 0:
		return "", false
	case 1:
		return candidates[0], true
	default:
		slog.Warn("several interface files match implementation file, using shortest path",
			"path", implPath, "candidates", candidates, "selected", candidates[0])
		return candidates[0], true
	}
}

func (l *Locator) stem(p string) (string, bool) {
	for _, ext := range l.implExts {
		if ext != "" && strings.HasSuffix(p, ext) {
			return strings.TrimSuffix(p, ext), true
		}
	}
	return "", false
}
