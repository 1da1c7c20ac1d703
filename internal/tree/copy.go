package tree

import "github.com/solconf/solconf/internal/native"

// copyNode deep-copies a subtree: declarations and modification state are
// preserved, resolution state and forwarding pointers are cleared. Aliases
// keep pointing at their shared target, so a copied mount still resolves
// through the original unit.
func copyNode(n Node) Node {
	n = follow(n)
	switch t := n.(type) {
	case *Scalar:
		c := &Scalar{literal: t.literal, src: t.src, interp: t.interp}
		c.mod = t.mod
		c.unitRoot = t.unitRoot
		return c
	case *Sequence:
		items := make([]Node, len(t.items))
		for i, item := range t.items {
			items[i] = copyNode(item)
		}
		c := NewSequence(items...)
		c.mod = t.mod
		c.unitRoot = t.unitRoot
		return c
	case *Mapping:
		c := NewMapping()
		for _, e := range t.entries {
			// Keys were unique in the source, so Append cannot fail.
			_ = c.Append(copyEntry(e))
		}
		c.mod = t.mod
		c.unitRoot = t.unitRoot
		return c
	case *Entry:
		return copyEntry(t)
	case *Alias:
		c := &Alias{target: t.Target()}
		c.mod = t.mod
		return c
	}
	return nil
}

func copyEntry(e *Entry) *Entry {
	c := NewEntry(e.key, copyNode(e.value))
	c.kinds = append([]native.Kind(nil), e.kinds...)
	c.mods = append([]Modifier(nil), e.mods...)
	c.display = e.display
	c.hidden = e.hidden
	c.requiredDeclared = e.requiredDeclared
	c.valueProvided = e.valueProvided
	c.mod = e.mod
	return c
}
