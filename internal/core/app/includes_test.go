package app

import (
	"context"
	"testing"

	"codecorrect/internal/core/config"
	"codecorrect/internal/data/journal"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const worldPath = "src/Core/include/core/world.h"

func includeTree(t *testing.T) string {
	return writeTree(t, map[string]string{
		worldPath: "#pragma once\n" +
			"\n" +
			"#include <vector>\n" +
			"\n" +
			"class Mesh;\n" +
			"class Material;\n" +
			"using MaterialPtr = std::shared_ptr<Material>;\n" +
			"class Ghost;\n" +
			"\n" +
			"class World {\n" +
			"};\n",
		"src/Core/include/core/mesh.h": "#pragma once\n" +
			"\n" +
			"#include <vector>\n" +
			"\n" +
			"class Mesh {\n" +
			"public:\n" +
			"  virtual ~Mesh();\n" +
			"};\n",
		"src/Core/include/core/material.h": "class Material {\n" +
			"};\n",
		"src/Legacy/include/legacy/old/mesh.h": "class Mesh {\n" +
			"};\n",
		"src/Core/include/core/alias_only.h": "#include <memory>\n" +
			"using MeshPtr = std::shared_ptr<Mesh>;\n",
	})
}

func includeRoots(cfg *config.Config) {
	cfg.Includes.IncludeRoots = []string{"src/Core/include"}
	cfg.Includes.Jobs = 2
}

const worldRewritten = "#pragma once\n" +
	"\n" +
	"#include <core/material.h>\n" +
	"#include <core/mesh.h>\n" +
	"#include <vector>\n" +
	"\n" +
	"class Ghost;\n" +
	"\n" +
	"class World {\n" +
	"};\n"

func TestResolveIncludes(t *testing.T) {
	root := includeTree(t)
	aliasBefore := readFile(t, root, "src/Core/include/core/alias_only.h")
	store := openJournal(t)
	a := newTestApp(t, root, includeRoots, Options{Journal: store})

	report, err := a.ResolveIncludes(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 5, report.HeadersScanned)
	assert.Equal(t, 1, report.HeadersRewritten)
	assert.Equal(t, 2, report.ForwardDeclsRemoved)
	assert.Equal(t, 1, report.AliasesRemoved)
	assert.Equal(t, 3, report.IndexedNames)
	assert.Equal(t, []string{worldPath}, report.Written)
	assert.Empty(t, report.Failed)

	require.Len(t, report.Ambiguities, 1)
	amb := report.Ambiguities[0]
	assert.Equal(t, worldPath, amb.Path)
	assert.Equal(t, 5, amb.Line)
	assert.Equal(t, "Mesh", amb.Name)
	assert.Equal(t, "src/Core/include/core/mesh.h", amb.Header)
	assert.Equal(t, []string{
		"src/Core/include/core/mesh.h",
		"src/Legacy/include/legacy/old/mesh.h",
	}, amb.Candidates)

	unresolved := make([]string, 0, len(report.Unresolved))
	for _, u := range report.Unresolved {
		unresolved = append(unresolved, u.Name)
	}
	assert.Equal(t, []string{"Ghost"}, unresolved)

	assert.Equal(t, worldRewritten, readFile(t, root, worldPath))
	assert.Equal(t, aliasBefore, readFile(t, root, "src/Core/include/core/alias_only.h"))

	outcomes, err := store.LoadOutcomes(report.RunID)
	require.NoError(t, err)
	var rewritten int
	for _, o := range outcomes {
		if o.Action == journal.ActionIncludesRewritten {
			rewritten++
			assert.Equal(t, worldPath, o.Path)
		}
	}
	assert.Equal(t, 1, rewritten)
}

func TestResolveIncludes_Idempotent(t *testing.T) {
	root := includeTree(t)
	a := newTestApp(t, root, includeRoots, Options{})

	_, err := a.ResolveIncludes(context.Background())
	require.NoError(t, err)

	report, err := a.ResolveIncludes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, report.HeadersRewritten)
	assert.Empty(t, report.Written)
	assert.Equal(t, worldRewritten, readFile(t, root, worldPath))
}

func TestResolveIncludes_DryRun(t *testing.T) {
	root := includeTree(t)
	before := readFile(t, root, worldPath)

	report, err := newTestApp(t, root, includeRoots, Options{DryRun: true}).ResolveIncludes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.HeadersRewritten)
	assert.Equal(t, before, readFile(t, root, worldPath))
}

func TestResolveIncludes_Cancelled(t *testing.T) {
	root := includeTree(t)
	before := readFile(t, root, worldPath)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestApp(t, root, includeRoots, Options{}).ResolveIncludes(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, before, readFile(t, root, worldPath))
}

func TestDescribeIndex(t *testing.T) {
	t.Parallel()

	root := includeTree(t)
	report, err := newTestApp(t, root, includeRoots, Options{}).DescribeIndex(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 5, report.HeadersScanned)
	require.Len(t, report.Entries, 3)
	assert.Equal(t, "Material", report.Entries[0].Name)
	assert.Equal(t, "Mesh", report.Entries[1].Name)
	assert.True(t, report.Entries[1].Ambiguous)
	assert.Equal(t, "src/Core/include/core/mesh.h", report.Entries[1].Selected)
	assert.Len(t, report.Entries[1].Headers, 2)
	assert.Equal(t, "World", report.Entries[2].Name)
	assert.False(t, report.Entries[2].Ambiguous)
}
