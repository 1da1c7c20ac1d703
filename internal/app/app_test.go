package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newTestApp(t *testing.T, cfg Config) (*App, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	validated, err := NewConfig(cfg)
	require.NoError(t, err)
	var out, logs bytes.Buffer
	return New(&out, &logs, validated), &out, &logs
}

func TestNewConfig(t *testing.T) {
	testCases := []struct {
		name      string
		cfg       Config
		expectErr bool
	}{
		{"missing path", Config{}, true},
		{"unknown format", Config{Path: "x.yaml", Format: "xml"}, true},
		{"defaults fill in", Config{Path: "x.yaml"}, false},
		{"json accepted", Config{Path: "x.yaml", Format: "json"}, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := NewConfig(tc.cfg)
			if tc.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, cfg.Format)
		})
	}
}

func TestRunEncodesYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "main.yaml"), "a: 1\nb:\n  c: 2\n")

	a, out, _ := newTestApp(t, Config{
		Path:      filepath.Join(dir, "main.yaml"),
		Overrides: []string{"b.c = 5"},
	})
	require.NoError(t, a.Run(context.Background()))
	assert.Equal(t, "a: 1\nb:\n  c: 5\n", out.String())
}

func TestRunEncodesJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "main.yaml"), "a: 1\nname: box\n")

	a, out, _ := newTestApp(t, Config{
		Path:   filepath.Join(dir, "main.yaml"),
		Format: "json",
	})
	require.NoError(t, a.Run(context.Background()))
	assert.JSONEq(t, `{"a": 1, "name": "box"}`, out.String())
}

func TestRunResolvesAddress(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "main.yaml"), "b:\n  c: 2\n")

	a, out, _ := newTestApp(t, Config{
		Path:    filepath.Join(dir, "main.yaml"),
		Address: "b.c",
	})
	require.NoError(t, a.Run(context.Background()))
	assert.Equal(t, "2\n", out.String())
}

func TestRunMountsUnits(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "main.yaml"), "model::load('models'): resnet\n")
	writeFile(t, filepath.Join(dir, "models", "resnet.yaml"), "depth: 50\n")
	writeFile(t, filepath.Join(dir, "models", "lenet.yaml"), "depth: 5\n")

	t.Run("declared unit", func(t *testing.T) {
		a, out, _ := newTestApp(t, Config{Path: filepath.Join(dir, "main.yaml")})
		require.NoError(t, a.Run(context.Background()))
		assert.Equal(t, "model:\n  depth: 50\n", out.String())
	})

	t.Run("override redirects the unit", func(t *testing.T) {
		a, out, _ := newTestApp(t, Config{
			Path:      filepath.Join(dir, "main.yaml"),
			Overrides: []string{`model = "lenet"`},
		})
		require.NoError(t, a.Run(context.Background()))
		assert.Equal(t, "model:\n  depth: 5\n", out.String())
	})
}

func TestRunWarnsAboutUnusedOverrides(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "main.yaml"), "a: 1\n")

	a, _, logs := newTestApp(t, Config{
		Path:      filepath.Join(dir, "main.yaml"),
		Overrides: []string{"zz = 9"},
	})
	require.NoError(t, a.Run(context.Background()))
	assert.Contains(t, logs.String(), "never matched")
	assert.Contains(t, logs.String(), "zz")
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()

	t.Run("valid configuration", func(t *testing.T) {
		writeFile(t, filepath.Join(dir, "ok.yaml"), "a::hidden: 1\nb: 2\n")
		a, out, logs := newTestApp(t, Config{Path: filepath.Join(dir, "ok.yaml")})
		require.NoError(t, a.Check(context.Background()))
		assert.Empty(t, out.String(), "check mode must not produce output")
		assert.Contains(t, logs.String(), "structurally valid")
	})

	t.Run("broken pipeline", func(t *testing.T) {
		writeFile(t, filepath.Join(dir, "bad.yaml"), "model::load: ghost\n")
		a, _, _ := newTestApp(t, Config{Path: filepath.Join(dir, "bad.yaml")})
		err := a.Check(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ghost")
	})

	t.Run("malformed key", func(t *testing.T) {
		writeFile(t, filepath.Join(dir, "key.yaml"), "9bad: 1\n")
		a, _, _ := newTestApp(t, Config{Path: filepath.Join(dir, "key.yaml")})
		err := a.Check(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "identifier")
	})
}

func TestIsConfigEvent(t *testing.T) {
	testCases := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"yaml write", fsnotify.Event{Name: "a.yaml", Op: fsnotify.Write}, true},
		{"jsonc create", fsnotify.Event{Name: "b.jsonc", Op: fsnotify.Create}, true},
		{"rename", fsnotify.Event{Name: "c.yml", Op: fsnotify.Rename}, true},
		{"chmod only", fsnotify.Event{Name: "a.yaml", Op: fsnotify.Chmod}, false},
		{"unrelated file", fsnotify.Event{Name: "notes.txt", Op: fsnotify.Write}, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, isConfigEvent(tc.event))
		})
	}
}
