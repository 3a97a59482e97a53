package app

// lineShifts maps diagnostic line numbers, which refer to a file as it was
// before this run, onto the file after earlier corrections in the same run.
type lineShifts struct {
	byPath map[string][]shift
}

// shift is one replaced range in original coordinates.
type shift struct {
	start int
	end   int
	delta int
}

func newLineShifts() *lineShifts {
	return &lineShifts{byPath: make(map[string][]shift)}
}

// current translates an original line. ok is false when the line lay inside
// a range an earlier correction already replaced.
func (ls *lineShifts) current(path string, line int) (int, bool) {
	out := line
	for _, s := range ls.byPath[path] {
		switch {
		case line >= s.start && line <= s.end:
			return 0, false
		case line > s.end:
			out += s.delta
		}
	}
	return out, true
}

// add records that removed original lines starting at start were replaced
// by inserted lines.
func (ls *lineShifts) add(path string, start, removed, inserted int) {
	ls.byPath[path] = append(ls.byPath[path], shift{
		start: start,
		end:   start + removed - 1,
		delta: inserted - removed,
	})
}
