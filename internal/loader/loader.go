// Package loader maps configuration unit names to raw native content and
// caches the trees built from them, one shared tree per unit.
package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/solconf/solconf/internal/refpath"
)

// Source maps a unit name to raw native content. Names use forward
// slashes regardless of platform.
type Source interface {
	Load(name string) (any, error)
	// Names lists every loadable unit, for discovery and suggestions.
	Names() ([]string, error)
}

// NotFoundError reports an unknown unit name.
type NotFoundError struct {
	Name       string
	Suggestion string
}

func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("no unit named %q", e.Name)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(", did you mean %q?", e.Suggestion)
	}
	return msg
}

// extensions are probed in order; the first existing file wins.
var extensions = []string{".yaml", ".yml", ".json", ".jsonc"}

// FileSource reads units from files under search roots. The unit name
// maps to a relative path without extension; earlier roots shadow later
// ones.
type FileSource struct {
	roots []string
}

// NewFileSource creates a FileSource over the given roots.
func NewFileSource(roots ...string) *FileSource {
	return &FileSource{roots: roots}
}

func (s *FileSource) Load(name string) (any, error) {
	for _, root := range s.roots {
		for _, ext := range extensions {
			p := filepath.Join(root, filepath.FromSlash(name)+ext)
			data, err := os.ReadFile(p)
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("reading unit %q: %w", name, err)
			}
			return decode(p, data)
		}
	}
	notFound := &NotFoundError{Name: name}
	if names, err := s.Names(); err == nil {
		notFound.Suggestion = refpath.NameSuggestion(name, names)
	}
	return nil, notFound
}

// Names walks every root for files with a known extension and returns
// their unit names, sorted and deduplicated.
func (s *FileSource) Names() ([]string, error) {
	seen := make(map[string]struct{})
	for _, root := range s.roots {
		err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			ext := filepath.Ext(d.Name())
			if !knownExtension(ext) {
				return nil
			}
			rel, err := filepath.Rel(root, p)
			if err != nil {
				return err
			}
			name := filepath.ToSlash(strings.TrimSuffix(rel, ext))
			seen[name] = struct{}{}
			return nil
		})
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, err
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func knownExtension(ext string) bool {
	for _, known := range extensions {
		if ext == known {
			return true
		}
	}
	return false
}

// decode parses file bytes into native content. JSON variants run through
// a comment stripper first; yaml handles both formats and keeps integers
// intact.
func decode(path string, data []byte) (any, error) {
	if ext := filepath.Ext(path); ext == ".json" || ext == ".jsonc" {
		data = jsonc.ToJSON(data)
	}
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return raw, nil
}

// LoadFile decodes a single configuration file addressed by path rather
// than by unit name.
func LoadFile(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return decode(path, data)
}

// MemSource serves units from an in-memory table.
type MemSource map[string]any

func (s MemSource) Load(name string) (any, error) {
	raw, ok := s[name]
	if !ok {
		names, _ := s.Names()
		return nil, &NotFoundError{Name: name, Suggestion: refpath.NameSuggestion(name, names)}
	}
	return raw, nil
}

func (s MemSource) Names() ([]string, error) {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
