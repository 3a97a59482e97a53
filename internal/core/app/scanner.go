package app

import (
	"path/filepath"
	"strings"

	"codecorrect/internal/engine/source"
)

// InterfaceFiles lists every interface file under the configured roots.
func (a *App) InterfaceFiles() ([]string, error) {
	return source.ListFiles(a.Paths.Roots, a.Config.Files.InterfaceExtensions, a.filter)
}

// ImplementationFiles lists every implementation file under the configured roots.
func (a *App) ImplementationFiles() ([]string, error) {
	return source.ListFiles(a.Paths.Roots, a.Config.Files.ImplementationExtensions, a.filter)
}

// absPath anchors a diagnostic path at the project root and returns it in
// the slash form file listings use.
func (a *App) absPath(p string) string {
	if !filepath.IsAbs(p) {
		p = filepath.Join(a.Paths.ProjectRoot, p)
	}
	return filepath.ToSlash(filepath.Clean(p))
}

// relPath is the project-relative form used in reports.
func (a *App) relPath(p string) string {
	rel, err := filepath.Rel(a.Paths.ProjectRoot, filepath.FromSlash(p))
	if err != nil {
		return filepath.ToSlash(p)
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return filepath.ToSlash(p)
	}
	return rel
}
