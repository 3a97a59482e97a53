package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestDomainError(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		err := New(CodeNotApplicable, "no destructor sigil")
		if err.Error() != "[NOT_APPLICABLE] no destructor sigil" {
			t.Errorf("expected [NOT_APPLICABLE] no destructor sigil, got %s", err.Error())
		}
	})

	t.Run("Wrap", func(t *testing.T) {
		original := errors.New("permission denied")
		err := Wrap(original, CodeIOFailure, "write header")
		expected := "[IO_FAILURE] write header: permission denied"
		if err.Error() != expected {
			t.Errorf("expected %s, got %s", expected, err.Error())
		}
	})

	t.Run("IsCode", func(t *testing.T) {
		err := New(CodeMalformedDiagnostic, "no location")
		if !IsCode(err, CodeMalformedDiagnostic) {
			t.Error("expected IsCode to return true for CodeMalformedDiagnostic")
		}
		if IsCode(err, CodeNotFound) {
			t.Error("expected IsCode to return false for CodeNotFound")
		}
	})

	t.Run("IsCodeThroughFmtWrap", func(t *testing.T) {
		err := fmt.Errorf("warning 3: %w", New(CodeUnterminatedBody, "no closing brace"))
		if !IsCode(err, CodeUnterminatedBody) {
			t.Error("expected IsCode to see through fmt.Errorf wrapping")
		}
	})

	t.Run("AddContext", func(t *testing.T) {
		err := AddContext(New(CodeNotApplicable, "skip"), CtxPath, "a.cpp")
		want := "[NOT_APPLICABLE] skip map[path:a.cpp]"
		if err.Error() != want {
			t.Errorf("expected %s, got %s", want, err.Error())
		}
		foreign := AddContext(errors.New("boom"), CtxLine, 4)
		if !IsCode(foreign, CodeInternal) {
			t.Error("expected foreign errors to be wrapped as internal")
		}
	})

	t.Run("CodeOf", func(t *testing.T) {
		if got := CodeOf(Newf(CodeMissingPairedFile, "no header for %s", "a.cpp")); got != CodeMissingPairedFile {
			t.Errorf("expected MISSING_PAIRED_FILE, got %s", got)
		}
		if got := CodeOf(errors.New("plain")); got != CodeInternal {
			t.Errorf("expected INTERNAL_ERROR, got %s", got)
		}
	})
}
