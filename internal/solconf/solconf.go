// Package solconf is the engine's facade. It builds a node tree from raw
// native content and wires the override table, unit loading and the
// expression evaluator into a single resolution session.
package solconf

import (
	"context"

	"github.com/zclconf/go-cty/cty/function"

	"github.com/solconf/solconf/internal/builder"
	"github.com/solconf/solconf/internal/expr"
	"github.com/solconf/solconf/internal/loader"
	"github.com/solconf/solconf/internal/modifier"
	"github.com/solconf/solconf/internal/override"
	"github.com/solconf/solconf/internal/refpath"
	"github.com/solconf/solconf/internal/tree"
)

// SolConf owns one configuration tree and the session that resolves it.
// Resolution is memoized per node, so repeated calls return the cached
// value; a failed instance stays failed, callers build a fresh one.
type SolConf struct {
	session   *tree.Session
	overrides *override.Spec
}

type namedFunction struct {
	name string
	fn   function.Function
}

type options struct {
	mods     *modifier.Registry
	registry *expr.Registry
	funcs    []namedFunction
	vars     map[string]any
	units    loader.Source
	feeds    []func(*override.Spec) error
}

// Option adjusts how New assembles an instance.
type Option func(*options)

// WithOverrides records `target = expression` assignment statements,
// separated by semicolons or newlines.
func WithOverrides(assignments string) Option {
	return func(o *options) {
		o.feeds = append(o.feeds, func(s *override.Spec) error {
			return s.AddAssignments(assignments)
		})
	}
}

// WithOverrideMap records overrides from a native map of qualified names
// to values.
func WithOverrideMap(m map[string]any) Option {
	return func(o *options) {
		o.feeds = append(o.feeds, func(s *override.Spec) error {
			return s.AddMap(m)
		})
	}
}

// WithLoader sets the source the load modifiers mount units from.
func WithLoader(source loader.Source) Option {
	return func(o *options) { o.units = source }
}

// WithValue exposes a fixed value to every expression under the given
// name.
func WithValue(name string, value any) Option {
	return func(o *options) {
		if o.vars == nil {
			o.vars = make(map[string]any)
		}
		o.vars[name] = value
	}
}

// WithFunction adds one expression function on top of the registry.
// Registering a name the registry already has panics, like any duplicate
// registration.
func WithFunction(name string, fn function.Function) Option {
	return func(o *options) {
		o.funcs = append(o.funcs, namedFunction{name: name, fn: fn})
	}
}

// WithRegistry replaces the base expression function registry. The
// registry is copied at construction, later registrations on it do not
// reach this instance.
func WithRegistry(r *expr.Registry) Option {
	return func(o *options) { o.registry = r }
}

// WithModifiers replaces the modifier registry the raw-key parser
// resolves invocations against.
func WithModifiers(r *modifier.Registry) Option {
	return func(o *options) { o.mods = r }
}

// New builds the node tree for raw content and wires a session over it.
// Construction parses every raw key and override target eagerly, so
// malformed input fails here; resolution work stays lazy.
func New(raw any, opts ...Option) (*SolConf, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	base := o.registry
	if base == nil {
		base = expr.Default()
	}
	reg := expr.NewRegistry()
	for name, fn := range base.Functions {
		reg.Functions[name] = fn
	}
	for _, nf := range o.funcs {
		reg.Register(nf.name, nf.fn)
	}
	eval := expr.New(reg)

	vars, err := expr.ToCtyVars(o.vars)
	if err != nil {
		return nil, err
	}

	spec := override.NewSpec(eval)
	for _, feed := range o.feeds {
		if err := feed(spec); err != nil {
			return nil, err
		}
	}

	mods := o.mods
	if mods == nil {
		mods = modifier.Default()
	}
	b := builder.New(mods)

	root, err := b.Build(raw)
	if err != nil {
		return nil, err
	}
	tree.MarkUnitRoot(root)

	var units tree.UnitSource
	if o.units != nil {
		units = loader.NewArena(o.units, b)
	}

	return &SolConf{
		session: tree.NewSession(tree.SessionConfig{
			Root:      root,
			Evaluator: eval,
			Overrides: spec,
			Subtrees:  b,
			Units:     units,
			Vars:      vars,
		}),
		overrides: spec,
	}, nil
}

// Root returns the node currently occupying the root position.
func (c *SolConf) Root() tree.Node { return c.session.Root() }

// Resolve returns the root's resolved value. The first call computes it,
// every later call returns the identical cached result.
func (c *SolConf) Resolve(ctx context.Context) (any, error) {
	return c.session.Resolve(ctx, c.session.Root())
}

// NodeAt returns the node a reference string denotes, relative to the
// root. Pipelines along the path run as a side effect.
func (c *SolConf) NodeAt(ctx context.Context, ref string) (tree.Node, error) {
	path, err := refpath.Parse(ref)
	if err != nil {
		return nil, err
	}
	return c.session.NodeAt(ctx, c.session.Root(), path)
}

// ValueAt resolves the node a reference string denotes.
func (c *SolConf) ValueAt(ctx context.Context, ref string) (any, error) {
	path, err := refpath.Parse(ref)
	if err != nil {
		return nil, err
	}
	return c.session.ResolveAt(ctx, c.session.Root(), path)
}

// Check applies every modifier pipeline without resolving values, so
// structural mistakes surface without evaluating a single expression.
func (c *SolConf) Check(ctx context.Context) error {
	return c.session.ModifyTree(ctx, c.session.Root())
}

// Overrides exposes the override table for reporting which targets
// matched and which never did.
func (c *SolConf) Overrides() *override.Spec { return c.overrides }
