// Package modifier provides the closed set of named entry modifiers and
// the registry the builder instantiates them through.
package modifier

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/solconf/solconf/internal/refpath"
	"github.com/solconf/solconf/internal/tree"
)

// Factory instantiates a modifier from the literal arguments of one
// invocation in a raw key's modifier segment.
type Factory func(args []any) (tree.Modifier, error)

// Registry maps modifier names to factories. Registration happens during
// setup; lookups are read-only afterwards.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Default returns a registry with every built-in modifier registered.
func Default() *Registry {
	r := NewRegistry()
	registerBuiltins(r)
	return r
}

// Register adds a factory under a name. Registering the same name twice
// panics: it is a programmer error during setup.
func (r *Registry) Register(name string, f Factory) {
	if _, exists := r.factories[name]; exists {
		panic(fmt.Sprintf("modifier with name '%s' already registered", name))
	}
	slog.Debug("Registering modifier.", "name", name)
	r.factories[name] = f
}

// Build instantiates one parsed invocation, suggesting a near miss when
// the name is unknown.
func (r *Registry) Build(name string, args []any) (tree.Modifier, error) {
	f, ok := r.factories[name]
	if !ok {
		msg := fmt.Sprintf("unknown modifier %q", name)
		if suggestion := refpath.NameSuggestion(name, r.Names()); suggestion != "" {
			msg += fmt.Sprintf(", did you mean %q?", suggestion)
		}
		return nil, errors.New(msg)
	}
	return f(args)
}

// Names returns the registered modifier names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
