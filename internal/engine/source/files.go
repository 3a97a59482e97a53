package source

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

// Filter decides which directories and files a scan skips.
type Filter struct {
	dirs  []glob.Glob
	files []glob.Glob
}

// NewFilter compiles base-name glob patterns for directories and files.
func NewFilter(excludeDirs, excludeFiles []string) (*Filter, error) {
	f := &Filter{
		dirs:  make([]glob.Glob, 0, len(excludeDirs)),
		files: make([]glob.Glob, 0, len(excludeFiles)),
	}
	for _, p := range excludeDirs {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude dir pattern %q: %w", p, err)
		}
		f.dirs = append(f.dirs, g)
	}
	for _, p := range excludeFiles {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude file pattern %q: %w", p, err)
		}
		f.files = append(f.files, g)
	}
	return f, nil
}

// SkipDir reports whether a directory should not be descended into.
func (f *Filter) SkipDir(path string) bool {
	if f == nil {
		return false
	}
	base := filepath.Base(path)
	for _, g := range f.dirs {
		if g.Match(base) {
			return true
		}
	}
	return false
}

// SkipFile reports whether a file is excluded by name.
func (f *Filter) SkipFile(path string) bool {
	if f == nil {
		return false
	}
	base := filepath.Base(path)
	for _, g := range f.files {
		if g.Match(base) {
			return true
		}
	}
	return false
}

// HasExtension reports whether path ends with one of extensions.
func HasExtension(path string, extensions []string) bool {
	for _, ext := range extensions {
		if ext != "" && strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// ListFiles walks roots and returns every file ending in one of extensions,
// slash-separated, deduplicated and sorted.
func ListFiles(roots []string, extensions []string, filter *Filter) ([]string, error) {
	seen := make(map[string]bool)
	files := make([]string, 0)

	for _, root := range roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && filter.SkipDir(path) {
					return filepath.SkipDir
				}
				return nil
			}
			if !HasExtension(path, extensions) || filter.SkipFile(path) {
				return nil
			}

			normalized := filepath.ToSlash(path)
			if seen[normalized] {
				return nil
			}
			seen[normalized] = true
			files = append(files, normalized)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scan %q: %w", root, err)
		}
	}

	sort.Strings(files)
	return files, nil
}
