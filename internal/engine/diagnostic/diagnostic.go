// Package diagnostic turns static-analysis output lines into typed warnings.
package diagnostic

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	domainerrors "codecorrect/internal/core/errors"
)

type Category int

const (
	CategoryUnknown Category = iota
	CategoryTrivialDestructor
)

func (c Category) String() string {
	switch c {
	case CategoryTrivialDestructor:
		return "trivial-destructor"
	default:
		return "unknown"
	}
}

// DefaultMarkers select clang-tidy's "use = default for a trivial destructor" finding.
var DefaultMarkers = []string{"trivial destructor", "hicpp-use-equals-default"}

// Warning is one located diagnostic. Line is 0-based.
type Warning struct {
	File     string
	Line     int
	Category Category
}

// Matcher keeps lines that contain every marker.
type Matcher struct {
	Markers  []string
	Category Category
}

// NewMatcher returns a trivial-destructor matcher, falling back to DefaultMarkers.
func NewMatcher(markers []string) Matcher {
	if len(markers) == 0 {
		markers = DefaultMarkers
	}
	return Matcher{Markers: markers, Category: CategoryTrivialDestructor}
}

func (m Matcher) Matches(line string) bool {
	if len(m.Markers) == 0 {
		return false
	}
	for _, marker := range m.Markers {
		if !strings.Contains(line, marker) {
			return false
		}
	}
	return true
}

// ParseLocation extracts the file and 0-based line from a diagnostic line.
// The location is the first or second whitespace-delimited field holding a
// path:line[:col] token.
func ParseLocation(line string) (string, int, error) {
	fields := strings.Fields(line)
	for i := 0; i < len(fields) && i < 2; i++ {
		if !strings.Contains(fields[i], ":") {
			continue
		}
		file, lineNo, ok := splitLocation(fields[i])
		if !ok {
			continue
		}
		return file, lineNo - 1, nil
	}
	return "", 0, domainerrors.AddContext(
		domainerrors.New(domainerrors.CodeMalformedDiagnostic, "no path:line location in diagnostic"),
		"diagnostic", line,
	)
}

func splitLocation(token string) (string, int, bool) {
	parts := strings.Split(token, ":")
	if len(parts) < 2 || parts[0] == "" {
		return "", 0, false
	}
	lineNo, err := strconv.Atoi(parts[1])
	if err != nil || lineNo < 1 {
		return "", 0, false
	}
	return parts[0], lineNo, true
}

// Parse turns a matching diagnostic line into a Warning.
func (m Matcher) Parse(line string) (Warning, error) {
	file, lineNo, err := ParseLocation(line)
	if err != nil {
		return Warning{}, err
	}
	return Warning{File: file, Line: lineNo, Category: m.Category}, nil
}

// Read scans a diagnostic stream and returns matching warnings in arrival
// order. Lines that match but cannot be located are returned as errors; they
// never stop the scan.
func Read(r io.Reader, m Matcher) ([]Warning, []error, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	warnings := make([]Warning, 0)
	skipped := make([]error, 0)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		text := scanner.Text()
		if !m.Matches(text) {
			continue
		}
		w, err := m.Parse(text)
		if err != nil {
			skipped = append(skipped, fmt.Errorf("diagnostic line %d: %w", lineNo, err))
			continue
		}
		warnings = append(warnings, w)
	}
	if err := scanner.Err(); err != nil {
		return warnings, skipped, domainerrors.Wrap(err, domainerrors.CodeIOFailure, "read diagnostics")
	}
	return warnings, skipped, nil
}
