// Package source holds the line model every edit in the tool operates on.
package source

import (
	"os"
	"strings"

	domainerrors "codecorrect/internal/core/errors"
	"codecorrect/internal/shared/util"
)

// Text is one file as an ordered, mutable sequence of lines.
//
// Lines are the file content split on "\n" with nothing else normalized, so a
// trailing newline shows up as a final empty line and "\r" stays attached.
type Text struct {
	Path  string
	Lines []string

	original string
}

// Load reads path into a Text.
func Load(path string) (*Text, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domainerrors.AddContext(
			domainerrors.Wrap(err, domainerrors.CodeIOFailure, "read source file"),
			domainerrors.CtxPath, path,
		)
	}
	return FromString(path, string(data)), nil
}

// FromString builds a Text from in-memory content.
func FromString(path, content string) *Text {
	return &Text{
		Path:     path,
		Lines:    strings.Split(content, "\n"),
		original: content,
	}
}

// Content joins the current lines back into file content.
func (t *Text) Content() string {
	return strings.Join(t.Lines, "\n")
}

// Original returns the content as it was read.
func (t *Text) Original() string {
	return t.original
}

// Changed reports whether the current lines differ from what was read.
func (t *Text) Changed() bool {
	return t.Content() != t.original
}

// Replace installs a fully computed set of lines.
func (t *Text) Replace(lines []string) {
	t.Lines = lines
}

// Clone returns an independent copy sharing no line storage.
func (t *Text) Clone() *Text {
	lines := make([]string, len(t.Lines))
	copy(lines, t.Lines)
	return &Text{Path: t.Path, Lines: lines, original: t.original}
}

// Save writes the file when its content changed and reports whether it did.
func (t *Text) Save() (bool, error) {
	if !t.Changed() {
		return false, nil
	}
	content := t.Content()
	if err := util.WriteFileAtomic(t.Path, []byte(content), 0o644); err != nil {
		return false, domainerrors.AddContext(
			domainerrors.Wrap(err, domainerrors.CodeIOFailure, "write source file"),
			domainerrors.CtxPath, t.Path,
		)
	}
	t.original = content
	return true, nil
}
