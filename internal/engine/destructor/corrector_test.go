package destructor

import (
	"strings"
	"testing"

	domainerrors "codecorrect/internal/core/errors"
	"codecorrect/internal/engine/source"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorrectRoundTrip(t *testing.T) {
	t.Parallel()

	impl := source.FromString("src/foo.cpp", strings.Join([]string{
		"#include <babylon/foo.h>",
		"",
		"namespace BABYLON {",
		"",
		"Foo::Foo() = default;",
		"",
		"Foo::~Foo() { /* body */ }",
		"",
		"void Foo::run()",
		"{",
		"}",
		"",
		"} // end of namespace BABYLON",
		"",
	}, "\n"))

	corr, err := New(0, "").Correct(impl, 6)
	require.NoError(t, err)
	assert.Equal(t, "Foo", corr.TypeName)
	assert.Equal(t, 6, corr.StartLine)
	assert.Equal(t, 6, corr.CloseLine)
	assert.Equal(t, 2, corr.RemovedLines)

	want := strings.Join([]string{
		"#include <babylon/foo.h>",
		"",
		"namespace BABYLON {",
		"",
		"Foo::Foo() = default;",
		"",
		"Foo::~Foo() = default;",
		"",
		"void Foo::run()",
		"{",
		"}",
		"",
		"} // end of namespace BABYLON",
		"",
	}, "\n")
	assert.Equal(t, want, impl.Content())
}

func TestCorrectMultiLineBody(t *testing.T) {
	t.Parallel()

	impl := source.FromString("world.cpp", strings.Join([]string{
		"World::~World()",
		"{",
		"  // nothing to release",
		"}",
		"void World::next() {}",
	}, "\n"))

	corr, err := New(0, "").Correct(impl, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, corr.CloseLine)
	assert.Equal(t, []string{
		"World::~World() = default;",
		"",
		"void World::next() {}",
	}, impl.Lines)
}

func TestCorrectKeepsQualifierAndIndent(t *testing.T) {
	t.Parallel()

	impl := source.FromString("x.cpp", "  Extensions::Planet::~Planet() {}\n")
	_, err := New(0, "").Correct(impl, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"  Extensions::Planet::~Planet() = default;", ""}, impl.Lines)
}

func TestCorrectNotApplicableLeavesFileUntouched(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		content string
		line    int
	}{
		{name: "NoSigil", content: "void Foo::run() {}\n", line: 0},
		{name: "NoParen", content: "Foo::~Foo\n{}\n", line: 0},
		{name: "AlreadyDefaulted", content: "Foo::~Foo() = default;\n", line: 0},
		{name: "AlreadyDefaultedNoexcept", content: "Foo::~Foo() noexcept = default;\n", line: 0},
		{name: "LineOutOfRange", content: "Foo::~Foo() {}\n", line: 9},
		{name: "NotIdentifier", content: "x = ~(a);\n", line: 0},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			impl := source.FromString("a.cpp", tc.content)
			_, err := New(0, "").Correct(impl, tc.line)
			assert.True(t, domainerrors.IsCode(err, domainerrors.CodeNotApplicable), "got %v", err)
			assert.False(t, impl.Changed())
		})
	}
}

func TestCorrectBodyMentioningDefault(t *testing.T) {
	t.Parallel()

	impl := source.FromString("a.cpp", "Foo::~Foo() { x = defaultValue; }\nvoid Foo::run() {}")
	_, err := New(0, "").Correct(impl, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Foo::~Foo() = default;", "", "void Foo::run() {}"}, impl.Lines)
}

func TestCorrectUnterminatedBody(t *testing.T) {
	t.Parallel()

	lines := []string{"Foo::~Foo()", "{"}
	for i := 0; i < 20; i++ {
		lines = append(lines, "  int x;")
	}
	impl := source.FromString("a.cpp", strings.Join(lines, "\n"))

	_, err := New(0, "").Correct(impl, 0)
	assert.True(t, domainerrors.IsCode(err, domainerrors.CodeUnterminatedBody), "got %v", err)
	assert.False(t, impl.Changed())

	lines = append(lines, "}")
	impl = source.FromString("a.cpp", strings.Join(lines, "\n"))
	_, err = New(5, "").Correct(impl, 0)
	assert.True(t, domainerrors.IsCode(err, domainerrors.CodeUnterminatedBody), "cap must apply, got %v", err)
	assert.False(t, impl.Changed())
}

func TestSecondWarningOnSameFileSeesFirstResult(t *testing.T) {
	t.Parallel()

	impl := source.FromString("a.cpp", strings.Join([]string{
		"A::~A()",
		"{",
		"}",
		"",
		"B::~B() {}",
	}, "\n"))
	c := New(0, "")

	_, err := c.Correct(impl, 0)
	require.NoError(t, err)
	_, err = c.Correct(impl, 0)
	assert.True(t, domainerrors.IsCode(err, domainerrors.CodeNotApplicable))

	_, err = c.Correct(impl, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"A::~A() = default;", "", "B::~B() = default;", ""}, impl.Lines)
}

func TestAnnotateDeclaration(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		line string
		want string
	}{
		{name: "Plain", line: "  ~Foo();", want: "  ~Foo(); // = default"},
		{name: "Comment", line: "  ~Foo(); // dtor", want: "  ~Foo(); // = default"},
		{name: "Override", line: "  ~Foo() override;", want: "  ~Foo(); // = default"},
		{name: "OverrideNoSpace", line: "  ~Foo()override;", want: "  ~Foo(); // = default"},
		{name: "OverrideAndComment", line: "  virtual ~Foo() override; // = 0", want: "  virtual ~Foo(); // = default"},
		{name: "SpacedParen", line: "  ~Foo ();", want: "  ~Foo (); // = default"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			iface := source.FromString("foo.h", strings.Join([]string{
				"class Foo {",
				"public:",
				"  Foo();",
				tc.line,
				"  // ~Foo() is trivial",
				"};",
			}, "\n"))
			idx, changed := New(0, "").AnnotateDeclaration(iface, "Foo")
			require.True(t, changed)
			assert.Equal(t, 3, idx)
			assert.Equal(t, tc.want, iface.Lines[3])
			assert.Equal(t, "  // ~Foo() is trivial", iface.Lines[4])
			assert.Equal(t, "  Foo();", iface.Lines[2])
		})
	}
}

func TestAnnotateDeclarationIsIdempotent(t *testing.T) {
	t.Parallel()

	iface := source.FromString("foo.h", "  ~Foo(); // = default\n")
	idx, changed := New(0, "").AnnotateDeclaration(iface, "Foo")
	assert.Equal(t, 0, idx)
	assert.False(t, changed)
	assert.False(t, iface.Changed())

	iface = source.FromString("bar.h", "  ~Bar();\n")
	idx, changed = New(0, "").AnnotateDeclaration(iface, "Foo")
	assert.Equal(t, -1, idx)
	assert.False(t, changed)
}
