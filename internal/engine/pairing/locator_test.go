package pairing

import "testing"

func TestLocate(t *testing.T) {
	t.Parallel()

	headers := []string{
		"src/Extensions/include/babylon/extensions/hexplanetgeneration/world.h",
		"src/Extensions/include/babylon/extensions/noisegeneration/simplex_noise.h",
		"lib/core/node.h",
		"lib/core/other/node.h",
		"a/x/dup.h",
		"bb/x/dup.h",
	}
	l := NewLocator(headers, ".h", []string{".cpp", ".cc"})

	cases := []struct {
		name string
		impl string
		want string
		ok   bool
	}{
		{
			name: "MirroredTree",
			impl: "src/Extensions/src/extensions/hexplanetgeneration/world.cpp",
			want: "src/Extensions/include/babylon/extensions/hexplanetgeneration/world.h",
			ok:   true,
		},
		{name: "Sibling", impl: "lib/core/node.cpp", want: "lib/core/node.h", ok: true},
		{name: "SecondExtension", impl: "lib/core/node.cc", want: "lib/core/node.h", ok: true},
		{name: "AmbiguousShortestWins", impl: "z/x/dup.cpp", want: "a/x/dup.h", ok: true},
		{name: "Missing", impl: "src/extensions/polyhedron/polyhedra.cpp", ok: false},
		{name: "WrongExtension", impl: "lib/core/node.txt", ok: false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, ok := l.Locate(tc.impl)
			if ok != tc.ok || got != tc.want {
				t.Fatalf("expected (%q, %v), got (%q, %v)", tc.want, tc.ok, got, ok)
			}
		})
	}
}
