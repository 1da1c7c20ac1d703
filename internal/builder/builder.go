// Package builder turns raw native content into configuration node
// trees, parsing the declarations carried by raw mapping keys: an
// identifier, an optional kind-constraint segment and an optional
// modifier segment.
package builder

import (
	"fmt"
	"strings"

	"github.com/solconf/solconf/internal/modifier"
	"github.com/solconf/solconf/internal/native"
	"github.com/solconf/solconf/internal/tree"
)

// Markers distinguishing deferred expressions from plain strings. A
// leading EscapeMarker keeps the InterpMarker itself literal.
const (
	InterpMarker = "$:"
	EscapeMarker = `\$:`
)

// Builder constructs node trees. It implements tree.SubtreeBuilder, so a
// session can hand override content back through the same construction
// path as the original input.
type Builder struct {
	mods *modifier.Registry
}

// New creates a Builder over the given modifier registry; nil uses the
// built-in set.
func New(mods *modifier.Registry) *Builder {
	if mods == nil {
		mods = modifier.Default()
	}
	return &Builder{mods: mods}
}

// Build converts raw content into an unparented node tree.
func (b *Builder) Build(raw any) (tree.Node, error) {
	norm, err := native.Normalize(raw)
	if err != nil {
		return nil, &tree.ConstructionError{Err: err}
	}
	return b.build(norm, "")
}

// BuildSubtree satisfies tree.SubtreeBuilder.
func (b *Builder) BuildSubtree(raw any) (tree.Node, error) {
	return b.Build(raw)
}

// build assembles the node for one normalized value. at is the dotted
// path to the position, for error context.
func (b *Builder) build(norm any, at string) (tree.Node, error) {
	switch v := norm.(type) {
	case map[string]any:
		return b.buildMapping(v, at)
	case []any:
		items := make([]tree.Node, len(v))
		for i, item := range v {
			child, err := b.build(item, childAt(at, fmt.Sprintf("%d", i)))
			if err != nil {
				return nil, err
			}
			items[i] = child
		}
		return tree.NewSequence(items...), nil
	case string:
		return buildString(v), nil
	default:
		return tree.NewScalar(norm), nil
	}
}

func (b *Builder) buildMapping(raw map[string]any, at string) (tree.Node, error) {
	m := tree.NewMapping()
	for _, rawKey := range native.SortedKeys(raw) {
		decl, err := parseRawKey(rawKey)
		if err != nil {
			return nil, &tree.ConstructionError{Name: childAt(at, rawKey), Err: err}
		}
		entryAt := childAt(at, decl.name)

		child, err := b.build(raw[rawKey], entryAt)
		if err != nil {
			return nil, err
		}

		entry := tree.NewEntry(decl.name, child)
		if len(decl.kinds) > 0 {
			entry.SetKinds(decl.kinds)
		}
		if len(decl.invocations) > 0 {
			mods := make([]tree.Modifier, len(decl.invocations))
			for i, inv := range decl.invocations {
				mod, err := b.mods.Build(inv.name, inv.args)
				if err != nil {
					return nil, &tree.ConstructionError{Name: entryAt, Err: err}
				}
				mods[i] = mod
			}
			entry.SetModifiers(mods)
		}

		if err := m.Append(entry); err != nil {
			return nil, &tree.ConstructionError{Name: childAt(at, decl.name), Err: err}
		}
	}
	return m, nil
}

// buildString sorts a raw string into a deferred expression, an escaped
// literal, or a plain scalar.
func buildString(v string) tree.Node {
	if src, ok := strings.CutPrefix(v, InterpMarker); ok {
		return tree.NewInterp(strings.TrimSpace(src))
	}
	if rest, ok := strings.CutPrefix(v, EscapeMarker); ok {
		return tree.NewScalar(InterpMarker + rest)
	}
	return tree.NewScalar(v)
}

func childAt(at, key string) string {
	if at == "" {
		return key
	}
	return at + "." + key
}
