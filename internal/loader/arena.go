package loader

import (
	"context"

	"github.com/solconf/solconf/internal/builder"
	"github.com/solconf/solconf/internal/ctxlog"
	"github.com/solconf/solconf/internal/tree"
)

// Arena builds unit trees on demand and caches the shared instance per
// unit name, so every load site of a unit resolves the same tree. It
// implements tree.UnitSource.
type Arena struct {
	source  Source
	builder *builder.Builder
	built   map[string]tree.Node
}

// NewArena creates an arena over a unit source; a nil builder gets the
// default modifier set.
func NewArena(source Source, b *builder.Builder) *Arena {
	if b == nil {
		b = builder.New(nil)
	}
	return &Arena{
		source:  source,
		builder: b,
		built:   make(map[string]tree.Node),
	}
}

// Mount returns the unit's shared tree, building it on first use.
func (a *Arena) Mount(ctx context.Context, name string) (tree.Node, error) {
	if n, ok := a.built[name]; ok {
		return n, nil
	}
	n, err := a.build(ctx, name)
	if err != nil {
		return nil, err
	}
	a.built[name] = n
	return n, nil
}

// MountCopy builds an independent tree for the unit, bypassing the cache
// both ways.
func (a *Arena) MountCopy(ctx context.Context, name string) (tree.Node, error) {
	return a.build(ctx, name)
}

func (a *Arena) build(ctx context.Context, name string) (tree.Node, error) {
	ctxlog.FromContext(ctx).Debug("Building unit tree.", "unit", name)
	raw, err := a.source.Load(name)
	if err != nil {
		return nil, err
	}
	n, err := a.builder.Build(raw)
	if err != nil {
		return nil, err
	}
	tree.MarkUnitRoot(n)
	return n, nil
}
