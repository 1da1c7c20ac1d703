package expr

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/zclconf/go-cty/cty/function"
)

// Registry holds the functions available to every expression evaluated
// against it. The set is closed: anything not registered here (or injected
// per evaluation) does not exist as far as expressions are concerned.
type Registry struct {
	Functions map[string]function.Function
}

// NewRegistry creates an empty Registry instance.
func NewRegistry() *Registry {
	return &Registry{
		Functions: make(map[string]function.Function),
	}
}

// Default returns a registry preloaded with the builtin function set.
func Default() *Registry {
	r := NewRegistry()
	registerBuiltins(r)
	return r
}

// Register adds a named function to the registry.
func (r *Registry) Register(name string, fn function.Function) {
	if _, exists := r.Functions[name]; exists {
		panic(fmt.Sprintf("expression function with name '%s' already registered", name))
	}
	slog.Debug("Registering expression function.", "name", name)
	r.Functions[name] = fn
}

// Names returns the registered function names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.Functions))
	for name := range r.Functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
