package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider() *Provider {
	return NewProvider(nil)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestListDirSortingAndSkips(t *testing.T) {
	p := newTestProvider()
	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, "beta.txt"), "b")
	writeFile(t, filepath.Join(dir, "Alpha.txt"), "a")
	writeFile(t, filepath.Join(dir, ".hidden"), "h")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "zdir"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "node_modules"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0o755))

	result, err := p.ListDir(context.Background(), map[string]interface{}{"path": dir}, nil)
	require.NoError(t, err)
	require.True(t, result.Success)

	entries := result.Data["entries"].([]Entry)
	require.Len(t, entries, 4)

	// Directories first, then files case-insensitively sorted
	assert.Equal(t, "zdir", entries[0].Name)
	assert.True(t, entries[0].IsDir)
	assert.Equal(t, ".hidden", entries[1].Name)
	assert.True(t, entries[1].IsHidden)
	assert.Equal(t, "Alpha.txt", entries[2].Name)
	assert.Equal(t, "beta.txt", entries[3].Name)
}

func TestListDirErrors(t *testing.T) {
	p := newTestProvider()

	result, err := p.ListDir(context.Background(), map[string]interface{}{"path": "/no/such/dir"}, nil)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, *result.Error, "does not exist")

	file := filepath.Join(t.TempDir(), "f.txt")
	writeFile(t, file, "x")
	result, err = p.ListDir(context.Background(), map[string]interface{}{"path": file}, nil)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, *result.Error, "not a directory")
}

func TestReadWithLanguageTag(t *testing.T) {
	p := newTestProvider()
	path := filepath.Join(t.TempDir(), "main.go")
	writeFile(t, path, "package main\n")

	result, err := p.Read(context.Background(), map[string]interface{}{"path": path}, nil)
	require.NoError(t, err)
	require.True(t, result.Success)

	assert.Equal(t, "package main\n", result.Data["content"])
	assert.Equal(t, "go", result.Data["language"])
	assert.Equal(t, false, result.Data["binary"])
}

func TestReadMissingFile(t *testing.T) {
	p := newTestProvider()

	result, err := p.Read(context.Background(), map[string]interface{}{"path": "/no/such/file"}, nil)
	require.NoError(t, err)
	assert.False(t, result.Success)
}

func TestWriteCreatesParents(t *testing.T) {
	p := newTestProvider()
	path := filepath.Join(t.TempDir(), "deep", "nested", "file.txt")

	result, err := p.Write(context.Background(), map[string]interface{}{
		"path": path,
		"data": "hello",
	}, nil)
	require.NoError(t, err)
	require.True(t, result.Success)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestCreateDeleteExists(t *testing.T) {
	p := newTestProvider()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "new.txt")

	result, _ := p.Exists(ctx, map[string]interface{}{"path": path}, nil)
	assert.Equal(t, false, result.Data["exists"])

	result, err := p.Create(ctx, map[string]interface{}{"path": path}, nil)
	require.NoError(t, err)
	require.True(t, result.Success)

	// Creating an existing file fails
	result, _ = p.Create(ctx, map[string]interface{}{"path": path}, nil)
	assert.False(t, result.Success)

	result, _ = p.Exists(ctx, map[string]interface{}{"path": path}, nil)
	assert.Equal(t, true, result.Data["exists"])

	result, err = p.Delete(ctx, map[string]interface{}{"path": path}, nil)
	require.NoError(t, err)
	require.True(t, result.Success)

	result, _ = p.Exists(ctx, map[string]interface{}{"path": path}, nil)
	assert.Equal(t, false, result.Data["exists"])
}

func TestGlobSearch(t *testing.T) {
	p := newTestProvider()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.go"), "package a")
	writeFile(t, filepath.Join(dir, "sub", "b.go"), "package b")
	writeFile(t, filepath.Join(dir, "sub", "c.txt"), "text")

	result, err := p.Glob(context.Background(), map[string]interface{}{
		"path":    dir,
		"pattern": "**/*.go",
	}, nil)
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Equal(t, 2, result.Data["count"])
}

func TestContentSearch(t *testing.T) {
	p := newTestProvider()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "one.txt"), "alpha\nneedle here\n")
	writeFile(t, filepath.Join(dir, "two.txt"), "nothing\n")
	writeFile(t, filepath.Join(dir, "node_modules", "x.txt"), "needle in skipped dir")

	result, err := p.SearchContent(context.Background(), map[string]interface{}{
		"path":  dir,
		"query": "needle",
	}, nil)
	require.NoError(t, err)
	require.True(t, result.Success)

	matches := result.Data["matches"].([]map[string]interface{})
	require.Len(t, matches, 1)
	assert.Equal(t, filepath.Join(dir, "one.txt"), matches[0]["path"])
	assert.Equal(t, 2, matches[0]["line"])
}

func TestFindByName(t *testing.T) {
	p := newTestProvider()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Controller.go"), "x")
	writeFile(t, filepath.Join(dir, "other.txt"), "x")

	result, err := p.FindByName(context.Background(), map[string]interface{}{
		"path":  dir,
		"query": "controller",
	}, nil)
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Equal(t, 1, result.Data["count"])
}

func TestFormatsRoundTrip(t *testing.T) {
	p := newTestProvider()
	ctx := context.Background()
	dir := t.TempDir()

	cases := []struct {
		path  string
		write string
		read  string
	}{
		{path: filepath.Join(dir, "v.json"), write: "filesystem.json.write", read: "filesystem.json.read"},
		{path: filepath.Join(dir, "v.yaml"), write: "filesystem.yaml.write", read: "filesystem.yaml.read"},
		{path: filepath.Join(dir, "v.toml"), write: "filesystem.toml.write", read: "filesystem.toml.read"},
	}

	value := map[string]interface{}{"name": "tabshell", "count": 3}
	for _, tc := range cases {
		result, err := p.Execute(ctx, tc.write, map[string]interface{}{
			"path": tc.path,
			"data": value,
		}, nil)
		require.NoError(t, err, tc.write)
		require.True(t, result.Success, tc.write)

		result, err = p.Execute(ctx, tc.read, map[string]interface{}{"path": tc.path}, nil)
		require.NoError(t, err, tc.read)
		require.True(t, result.Success, tc.read)

		parsed := result.Data["data"].(map[string]interface{})
		assert.Equal(t, "tabshell", parsed["name"], tc.read)
	}
}

func TestZipRoundTrip(t *testing.T) {
	p := newTestProvider()
	ctx := context.Background()

	src := t.TempDir()
	writeFile(t, filepath.Join(src, "a.txt"), "alpha")
	writeFile(t, filepath.Join(src, "sub", "b.txt"), "beta")

	archive := filepath.Join(t.TempDir(), "out.zip")
	result, err := p.ZipCreate(ctx, map[string]interface{}{"source": src, "output": archive}, nil)
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Equal(t, 2, result.Data["files"])

	dest := t.TempDir()
	result, err = p.ZipExtract(ctx, map[string]interface{}{"archive": archive, "dest": dest}, nil)
	require.NoError(t, err)
	require.True(t, result.Success)

	data, err := os.ReadFile(filepath.Join(dest, "sub", "b.txt"))
	require.NoError(t, err)
	assert.Equal(t, "beta", string(data))
}

func TestTarGzRoundTrip(t *testing.T) {
	p := newTestProvider()
	ctx := context.Background()

	src := t.TempDir()
	writeFile(t, filepath.Join(src, "a.txt"), "alpha")

	archive := filepath.Join(t.TempDir(), "out.tar.gz")
	result, err := p.TarGzCreate(ctx, map[string]interface{}{"source": src, "output": archive}, nil)
	require.NoError(t, err)
	require.True(t, result.Success)

	dest := t.TempDir()
	result, err = p.TarGzExtract(ctx, map[string]interface{}{"archive": archive, "dest": dest}, nil)
	require.NoError(t, err)
	require.True(t, result.Success)

	data, err := os.ReadFile(filepath.Join(dest, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "alpha", string(data))
}

func TestDetectLanguage(t *testing.T) {
	cases := map[string]string{
		"main.go":       "go",
		"app.tsx":       "typescript",
		"script.sh":     "shell",
		"Dockerfile":    "dockerfile",
		"Makefile":      "makefile",
		"go.mod":        "go.mod",
		"style.css":     "css",
		"README.md":     "markdown",
		"unknown.xyz":   "plaintext",
		"no_extension":  "plaintext",
		"settings.toml": "toml",
	}
	for path, want := range cases {
		assert.Equal(t, want, DetectLanguage(path), path)
	}
}

func TestUnknownTool(t *testing.T) {
	p := newTestProvider()
	_, err := p.Execute(context.Background(), "filesystem.nope", nil, nil)
	assert.Error(t, err)
}
