package tree

import (
	"context"
	"fmt"

	"github.com/solconf/solconf/internal/native"
	"github.com/solconf/solconf/internal/refpath"
)

// The methods in this file are the tree-editing primitives modifiers are
// built from. They keep forwarding pointers on every node they displace,
// so references captured before an edit keep working after it.

// TakeOverride consumes the override targeting the qualified name, if any.
func (s *Session) TakeOverride(qualName string) (any, bool) {
	if s.overrides == nil {
		return nil, false
	}
	return s.overrides.Take(qualName)
}

// ResolveString resolves a node and asserts the result is a string.
func (s *Session) ResolveString(ctx context.Context, n Node) (string, error) {
	val, err := s.Resolve(ctx, n)
	if err != nil {
		return "", err
	}
	str, ok := val.(string)
	if !ok {
		actual, _ := native.KindOf(val)
		return "", &KindError{
			Name:     QualName(follow(n)),
			NodeKind: follow(n).Kind(),
			Expected: native.KindStr.String(),
			Actual:   actual.String(),
		}
	}
	return str, nil
}

// ReplaceValue installs n as the entry's value node and forwards the old
// value to it.
func (s *Session) ReplaceValue(e *Entry, n Node) {
	old := e.value
	e.value = n
	n.setParent(e)
	if old != nil && old != n {
		old.base().replacedBy = n
	}
}

// Promote replaces the entry's enclosing single-entry mapping with the
// entry's value node, at the mapping's own position. Returns the value
// node now holding that position.
func (s *Session) Promote(ctx context.Context, e *Entry) (Node, error) {
	m, ok := e.Parent().(*Mapping)
	if !ok {
		return nil, &ConstructionError{
			Name: QualName(e),
			Err:  fmt.Errorf("promote applies to an entry of a mapping"),
		}
	}
	if n := len(m.entries); n != 1 {
		return nil, &ConstructionError{
			Name: QualName(e),
			Err:  fmt.Errorf("promote requires a single-entry mapping, this one has %d entries", n),
		}
	}
	v := e.Value()
	s.replaceNode(m, v)
	return v, nil
}

// ExtendValue merges the entry's declared mapping over a deep copy of the
// base mapping found at basePath and installs the merge as the entry's
// value. The path resolves against the entry's enclosing mapping, so a
// bare name finds a sibling.
func (s *Session) ExtendValue(ctx context.Context, e *Entry, basePath *refpath.Path) error {
	parent := e.Parent()
	if parent == nil {
		return &ConstructionError{
			Name: QualName(e),
			Err:  fmt.Errorf("extends applies to an entry of a mapping"),
		}
	}
	baseNode, err := s.NodeAt(ctx, parent, basePath)
	if err != nil {
		return err
	}
	baseNode = follow(baseNode)
	if a, ok := baseNode.(*Alias); ok {
		baseNode = a.Target()
	}
	base, ok := baseNode.(*Mapping)
	if !ok {
		return &ConstructionError{
			Name: QualName(e),
			Err:  fmt.Errorf("extends target %q is a %s, need a mapping", basePath, baseNode.Kind()),
		}
	}
	derived, ok := e.Value().(*Mapping)
	if !ok {
		return &ConstructionError{
			Name: QualName(e),
			Err:  fmt.Errorf("extends needs a mapping value to merge, got %s", e.Value().Kind()),
		}
	}

	merged := copyNode(base).(*Mapping)
	for _, d := range derived.entries {
		b, exists := merged.EntryFor(d.key)
		if !exists {
			if err := merged.Append(d); err != nil {
				return &ConstructionError{Name: QualName(e), Err: err}
			}
			continue
		}
		mergeEntry(b, d)
	}
	s.ReplaceValue(e, merged)
	e.MarkProvided()
	return nil
}

// mergeEntry lays the derived entry d over the base entry b in place. The
// derived value wins; declarations the derived side leaves out are
// inherited from the base.
func mergeEntry(b, d *Entry) {
	b.value = d.value
	d.value.setParent(b)
	b.valueProvided = true
	if d.kinds != nil {
		b.kinds = d.kinds
	}
	if d.display != "" {
		b.display = d.display
	}
	if len(d.mods) > 0 {
		replaced := make(map[string]Modifier, len(d.mods))
		for _, mod := range d.mods {
			replaced[mod.Name()] = mod
		}
		taken := make(map[string]bool, len(d.mods))
		out := make([]Modifier, 0, len(b.mods)+len(d.mods))
		for _, mod := range b.mods {
			if r, ok := replaced[mod.Name()]; ok {
				out = append(out, r)
				taken[mod.Name()] = true
				continue
			}
			out = append(out, mod)
		}
		for _, mod := range d.mods {
			if !taken[mod.Name()] {
				out = append(out, mod)
			}
		}
		b.mods = out
		// The merged pipeline differs from the one the base may already
		// have run, so it runs afresh on the merged entry.
		b.mod = phaseIdle
	}
}

// ChooseValue selects one key of the entry's enumeration mapping and
// installs that alternative's value at the entry's value position. An
// override targeting the value position picks the key; otherwise
// defaultKey wins.
func (s *Session) ChooseValue(ctx context.Context, e *Entry, defaultKey string) error {
	enum, ok := e.Value().(*Mapping)
	if !ok {
		return &ConstructionError{
			Name: QualName(e),
			Err:  fmt.Errorf("choices needs a mapping of alternatives, got %s", e.Value().Kind()),
		}
	}
	valueName := QualName(e.Value())
	selected := defaultKey
	fromOverride := false
	if raw, ok := s.TakeOverride(valueName); ok {
		key, isString := raw.(string)
		if !isString {
			return &ChoiceError{
				Name:     valueName,
				NodeKind: KindMapping,
				Given:    fmt.Sprintf("%v", raw),
				Valid:    enum.Keys(),
			}
		}
		selected = key
		fromOverride = true
	}
	ch, ok := enum.EntryFor(selected)
	if !ok {
		return &ChoiceError{
			Name:     valueName,
			NodeKind: KindMapping,
			Given:    selected,
			Valid:    enum.Keys(),
		}
	}
	if err := s.Modify(ctx, ch); err != nil {
		return err
	}
	s.ReplaceValue(e, ch.Value())
	if fromOverride {
		e.MarkProvided()
	}
	return nil
}

// MountUnit returns a tree for the named configuration unit. A shared
// mount is wrapped in an alias so the unit keeps a single identity across
// mount points; an independent mount is a fresh tree every time.
func (s *Session) MountUnit(ctx context.Context, name string, independent bool) (Node, error) {
	if s.units == nil {
		return nil, fmt.Errorf("no unit source configured")
	}
	if independent {
		return s.units.MountCopy(ctx, name)
	}
	root, err := s.units.Mount(ctx, name)
	if err != nil {
		return nil, err
	}
	return NewAlias(follow(root)), nil
}

// replaceNode swaps n into old's position in the tree and forwards old to
// it. Replacing the root is allowed.
func (s *Session) replaceNode(old, n Node) {
	switch p := old.Parent().(type) {
	case nil:
		s.root = n
		n.setParent(nil)
	case *Entry:
		p.value = n
		n.setParent(p)
	case *Sequence:
		for i, item := range p.items {
			if item == old {
				p.items[i] = n
				break
			}
		}
		n.setParent(p)
	case *Alias:
		p.target = n
		n.setParent(p)
	case *Mapping:
		oldEntry, okOld := old.(*Entry)
		newEntry, okNew := n.(*Entry)
		if okOld && okNew {
			for i, entry := range p.entries {
				if entry == oldEntry {
					p.entries[i] = newEntry
					break
				}
			}
			delete(p.index, oldEntry.key)
			p.index[newEntry.key] = newEntry
			n.setParent(p)
		}
	}
	old.base().replacedBy = n
}
