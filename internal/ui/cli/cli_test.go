package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"codecorrect/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	meshHeader = "src/Core/include/core/mesh.h"
	meshImpl   = "src/Core/src/core/mesh.cpp"
	worldPath  = "src/Core/include/core/world.h"
)

func writeProject(t *testing.T, configText string, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	files["codecorrect.toml"] = configText
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func readFile(t *testing.T, root, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCommand(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func projectFiles() map[string]string {
	return map[string]string{
		meshHeader: "#pragma once\n" +
			"\n" +
			"class Mesh {\n" +
			"public:\n" +
			"  virtual ~Mesh() override; // trivial\n" +
			"};\n",
		meshImpl: "#include <core/mesh.h>\n" +
			"\n" +
			"Mesh::~Mesh()\n" +
			"{\n" +
			"}\n" +
			"\n" +
			"void Mesh::draw() {}\n",
		worldPath: "#pragma once\n" +
			"\n" +
			"#include <vector>\n" +
			"\n" +
			"class Mesh;\n" +
			"class Ghost;\n" +
			"\n" +
			"class World {\n" +
			"};\n",
		"warnings.txt": "src/Core/src/core/mesh.cpp:3:1: warning: use '= default' to define a trivial destructor [hicpp-use-equals-default]\n",
	}
}

const journalConfig = `version = 1
roots = ["src"]

[db]
enabled = true
path = "journal.db"
`

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "codecorrect "))
}

func TestDestructorsCommand(t *testing.T) {
	root := writeProject(t, journalConfig, projectFiles())
	cfgPath := filepath.Join(root, "codecorrect.toml")

	out, err := execute(t, "--config", cfgPath, "destructors")
	require.NoError(t, err)
	assert.Contains(t, out, "Destructors")
	assert.Contains(t, out, meshImpl)

	assert.Equal(t, "#include <core/mesh.h>\n"+
		"\n"+
		"Mesh::~Mesh() = default;\n"+
		"\n"+
		"void Mesh::draw() {}\n", readFile(t, root, meshImpl))
	assert.Contains(t, readFile(t, root, meshHeader), "  virtual ~Mesh(); // = default\n")

	runs, err := execute(t, "--config", cfgPath, "runs")
	require.NoError(t, err)
	assert.Contains(t, runs, "destructors")
	assert.Contains(t, runs, "succeeded")
	assert.FileExists(t, filepath.Join(root, "data", "database", "journal.db"))
}

func TestDestructorsCommand_DryRunWritesNothing(t *testing.T) {
	files := projectFiles()
	root := writeProject(t, journalConfig, files)

	out, err := execute(t, "--config", filepath.Join(root, "codecorrect.toml"), "--dry-run", "destructors")
	require.NoError(t, err)
	assert.Contains(t, out, "(dry run)")
	assert.Contains(t, out, "would write:")
	assert.Equal(t, files[meshImpl], readFile(t, root, meshImpl))
	assert.Equal(t, files[meshHeader], readFile(t, root, meshHeader))
}

func TestDestructorsCommand_WarningsFlag(t *testing.T) {
	files := projectFiles()
	files["tidy/other.txt"] = files["warnings.txt"]
	delete(files, "warnings.txt")
	root := writeProject(t, "version = 1\n", files)

	_, err := execute(t, "--config", filepath.Join(root, "codecorrect.toml"), "destructors",
		"--warnings", filepath.Join(root, "tidy", "other.txt"))
	require.NoError(t, err)
	assert.Contains(t, readFile(t, root, meshImpl), "Mesh::~Mesh() = default;\n")
}

func TestIncludesCommand(t *testing.T) {
	root := writeProject(t, "version = 1\n", projectFiles())

	out, err := execute(t, "--config", filepath.Join(root, "codecorrect.toml"), "includes")
	require.NoError(t, err)
	assert.Contains(t, out, "Includes")
	assert.Contains(t, out, "Ghost")

	assert.Equal(t, "#pragma once\n"+
		"\n"+
		"#include <core/mesh.h>\n"+
		"#include <vector>\n"+
		"\n"+
		"class Ghost;\n"+
		"\n"+
		"class World {\n"+
		"};\n", readFile(t, root, worldPath))
}

func TestIndexCommand(t *testing.T) {
	root := writeProject(t, "version = 1\n", projectFiles())

	out, err := execute(t, "--config", filepath.Join(root, "codecorrect.toml"), "index")
	require.NoError(t, err)
	assert.Contains(t, out, "Symbol index")
	assert.Contains(t, out, "Mesh")
	assert.Contains(t, out, "World")
}

func TestMetricsFileFlag(t *testing.T) {
	root := writeProject(t, "version = 1\n", projectFiles())

	_, err := execute(t, "--config", filepath.Join(root, "codecorrect.toml"),
		"--metrics-file", "out/codecorrect.prom", "includes")
	require.NoError(t, err)
	assert.Contains(t, readFile(t, root, "out/codecorrect.prom"), "codecorrect_")
}

func TestExplicitMissingConfigFails(t *testing.T) {
	_, err := execute(t, "--config", filepath.Join(t.TempDir(), "absent.toml"), "index")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load config")
}

func TestRunsCommand_NoJournal(t *testing.T) {
	root := writeProject(t, "version = 1\n", projectFiles())

	_, err := execute(t, "--config", filepath.Join(root, "codecorrect.toml"), "runs")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no journal")
}

func TestLoadConfig_DefaultPathMissing(t *testing.T) {
	dir := t.TempDir()
	cfg, path, found, err := loadConfig(defaultConfigPath, false, dir)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, filepath.Join(dir, defaultConfigPath), path)
	assert.Equal(t, []string{"src"}, cfg.Roots)
}

func TestRenderIndexReport_AmbiguousOnly(t *testing.T) {
	report := ports.IndexReport{
		HeadersScanned: 3,
		Entries: []ports.IndexEntry{
			{Name: "Material", Headers: []string{"core/material.h"}, Selected: "core/material.h"},
			{Name: "Mesh", Headers: []string{"core/mesh.h", "legacy/old/mesh.h"}, Selected: "core/mesh.h", Ambiguous: true},
		},
	}
	var buf bytes.Buffer
	renderIndexReport(&buf, report, true)
	out := buf.String()
	assert.Contains(t, out, "names: 2, ambiguous: 1")
	assert.Contains(t, out, "legacy/old/mesh.h")
	assert.NotContains(t, out, "Material")
}

func TestRenderDestructorReport_Skips(t *testing.T) {
	report := ports.DestructorReport{
		Warnings: 1,
		Skipped:  []ports.Skip{{Path: meshImpl, Line: 7, Code: "NOT_APPLICABLE", Detail: "no destructor on line"}},
	}
	var buf bytes.Buffer
	renderDestructorReport(&buf, report, false)
	out := buf.String()
	assert.Contains(t, out, "skipped (1):")
	assert.Contains(t, out, meshImpl+":7")
	assert.Contains(t, out, "NOT_APPLICABLE")
}
