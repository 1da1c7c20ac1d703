package modifier

import (
	"context"
	"fmt"
	"path"

	"github.com/solconf/solconf/internal/refpath"
	"github.com/solconf/solconf/internal/tree"
)

func registerBuiltins(r *Registry) {
	r.Register("hidden", func(args []any) (tree.Modifier, error) {
		if err := noArgs("hidden", args); err != nil {
			return nil, err
		}
		return &visibility{name: "hidden", hidden: true}, nil
	})
	r.Register("visible", func(args []any) (tree.Modifier, error) {
		if err := noArgs("visible", args); err != nil {
			return nil, err
		}
		return &visibility{name: "visible"}, nil
	})
	r.Register("rename", func(args []any) (tree.Modifier, error) {
		key, err := oneString("rename", args)
		if err != nil {
			return nil, err
		}
		return &rename{key: key}, nil
	})
	r.Register("promote", func(args []any) (tree.Modifier, error) {
		if err := noArgs("promote", args); err != nil {
			return nil, err
		}
		return promote{}, nil
	})
	r.Register("extends", func(args []any) (tree.Modifier, error) {
		ref, err := oneString("extends", args)
		if err != nil {
			return nil, err
		}
		p, err := refpath.Parse(ref)
		if err != nil {
			return nil, fmt.Errorf("extends target: %w", err)
		}
		return &extends{path: p}, nil
	})
	r.Register("required", func(args []any) (tree.Modifier, error) {
		if err := noArgs("required", args); err != nil {
			return nil, err
		}
		return required{}, nil
	})
	r.Register("choices", func(args []any) (tree.Modifier, error) {
		def, err := oneString("choices", args)
		if err != nil {
			return nil, err
		}
		return &choices{def: def}, nil
	})
	r.Register("load", func(args []any) (tree.Modifier, error) {
		prefix, err := allStrings("load", args)
		if err != nil {
			return nil, err
		}
		return &load{name: "load", prefix: prefix}, nil
	})
	r.Register("loadcopy", func(args []any) (tree.Modifier, error) {
		prefix, err := allStrings("loadcopy", args)
		if err != nil {
			return nil, err
		}
		return &load{name: "loadcopy", prefix: prefix, independent: true}, nil
	})
	r.Register("noop", func(args []any) (tree.Modifier, error) {
		return noop{}, nil
	})
}

func noArgs(name string, args []any) error {
	if len(args) != 0 {
		return fmt.Errorf("%s takes no arguments, got %d", name, len(args))
	}
	return nil
}

func oneString(name string, args []any) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("%s takes exactly one argument, got %d", name, len(args))
	}
	s, ok := args[0].(string)
	if !ok {
		return "", fmt.Errorf("%s takes a string argument, got %T", name, args[0])
	}
	return s, nil
}

func allStrings(name string, args []any) ([]string, error) {
	if len(args) == 0 {
		return nil, nil
	}
	out := make([]string, len(args))
	for i, arg := range args {
		s, ok := arg.(string)
		if !ok {
			return nil, fmt.Errorf("%s takes string arguments, argument %d is %T", name, i, arg)
		}
		out[i] = s
	}
	return out, nil
}

// entryOf rejects modifiers applied after a structural rewrite left a
// non-entry in the pipeline.
func entryOf(name string, n tree.Node) (*tree.Entry, error) {
	e, ok := n.(*tree.Entry)
	if !ok {
		return nil, &tree.ConstructionError{
			Name: tree.QualName(n),
			Err:  fmt.Errorf("%s applies to a mapping entry, not a %s", name, n.Kind()),
		}
	}
	return e, nil
}

type visibility struct {
	name   string
	hidden bool
}

func (m *visibility) Name() string { return m.name }

func (m *visibility) Apply(ctx context.Context, s *tree.Session, n tree.Node) (tree.Node, error) {
	e, err := entryOf(m.name, n)
	if err != nil {
		return nil, err
	}
	e.SetHidden(m.hidden)
	return nil, nil
}

type rename struct {
	key string
}

func (m *rename) Name() string { return "rename" }

func (m *rename) Apply(ctx context.Context, s *tree.Session, n tree.Node) (tree.Node, error) {
	e, err := entryOf("rename", n)
	if err != nil {
		return nil, err
	}
	e.SetDisplay(m.key)
	return nil, nil
}

type promote struct{}

func (promote) Name() string { return "promote" }

func (promote) Apply(ctx context.Context, s *tree.Session, n tree.Node) (tree.Node, error) {
	e, err := entryOf("promote", n)
	if err != nil {
		return nil, err
	}
	return s.Promote(ctx, e)
}

type extends struct {
	path *refpath.Path
}

func (m *extends) Name() string { return "extends" }

func (m *extends) Apply(ctx context.Context, s *tree.Session, n tree.Node) (tree.Node, error) {
	e, err := entryOf("extends", n)
	if err != nil {
		return nil, err
	}
	return nil, s.ExtendValue(ctx, e, m.path)
}

type required struct{}

func (required) Name() string { return "required" }

func (required) Apply(ctx context.Context, s *tree.Session, n tree.Node) (tree.Node, error) {
	e, err := entryOf("required", n)
	if err != nil {
		return nil, err
	}
	e.MarkRequired()
	return nil, nil
}

type choices struct {
	def string
}

func (m *choices) Name() string { return "choices" }

func (m *choices) Apply(ctx context.Context, s *tree.Session, n tree.Node) (tree.Node, error) {
	e, err := entryOf("choices", n)
	if err != nil {
		return nil, err
	}
	return nil, s.ChooseValue(ctx, e, m.def)
}

// load resolves the entry's value to a unit name and replaces the value
// with the unit's tree: a shared mount for load, an independent one for
// loadcopy. The value position resolves first, so an override there picks
// the unit by name.
type load struct {
	name        string
	prefix      []string
	independent bool
}

func (m *load) Name() string { return m.name }

func (m *load) Apply(ctx context.Context, s *tree.Session, n tree.Node) (tree.Node, error) {
	e, err := entryOf(m.name, n)
	if err != nil {
		return nil, err
	}
	unit, err := s.ResolveString(ctx, e.Value())
	if err != nil {
		return nil, err
	}
	if len(m.prefix) > 0 {
		unit = path.Join(append(append([]string(nil), m.prefix...), unit)...)
	}
	mounted, err := s.MountUnit(ctx, unit, m.independent)
	if err != nil {
		return nil, &tree.ConstructionError{Name: tree.QualName(e), Err: err}
	}
	s.ReplaceValue(e, mounted)
	return nil, nil
}

type noop struct{}

func (noop) Name() string { return "noop" }

func (noop) Apply(ctx context.Context, s *tree.Session, n tree.Node) (tree.Node, error) {
	return nil, nil
}
