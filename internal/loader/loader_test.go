package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

func TestFileSourceLoad(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "models/resnet.yaml", "depth: 50\nwidths: [64, 128]\n")
	writeFile(t, dir, "optim.jsonc", "{\n  // learning rate\n  \"lr\": 0.1,\n  \"epochs\": 20\n}\n")
	writeFile(t, dir, "plain.json", `{"a": 1}`)

	s := NewFileSource(dir)

	t.Run("yaml unit in a subdirectory", func(t *testing.T) {
		got, err := s.Load("models/resnet")
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"depth": 50, "widths": []any{64, 128}}, got)
	})

	t.Run("jsonc comments are stripped", func(t *testing.T) {
		got, err := s.Load("optim")
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"lr": 0.1, "epochs": 20}, got)
	})

	t.Run("plain json", func(t *testing.T) {
		got, err := s.Load("plain")
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"a": 1}, got)
	})

	t.Run("unknown unit suggests a near miss", func(t *testing.T) {
		_, err := s.Load("optin")
		var notFound *NotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, "optim", notFound.Suggestion)
	})
}

func TestFileSourceRootPrecedence(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	writeFile(t, first, "unit.yaml", "from: first\n")
	writeFile(t, second, "unit.yaml", "from: second\n")
	writeFile(t, second, "only.yaml", "k: 1\n")

	s := NewFileSource(first, second)

	got, err := s.Load("unit")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"from": "first"}, got)

	got, err = s.Load("only")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"k": 1}, got)

	names, err := s.Names()
	require.NoError(t, err)
	assert.Equal(t, []string{"only", "unit"}, names)
}

func TestFileSourceMissingRootIsEmpty(t *testing.T) {
	s := NewFileSource(filepath.Join(t.TempDir(), "nope"))
	names, err := s.Names()
	require.NoError(t, err)
	assert.Empty(t, names)

	_, err = s.Load("anything")
	var notFound *NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "conf.jsonc", "{\n// size\n\"n\": 3}\n")

	got, err := LoadFile(filepath.Join(dir, "conf.jsonc"))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"n": 3}, got)

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}

func TestMemSource(t *testing.T) {
	s := MemSource{
		"a":        map[string]any{"k": 1},
		"nested/b": "leaf",
	}

	got, err := s.Load("a")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"k": 1}, got)

	names, err := s.Names()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "nested/b"}, names)

	_, err = s.Load("nested/c")
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "nested/b", notFound.Suggestion)
}
