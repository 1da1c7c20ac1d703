// Package tree implements the configuration node tree and its resolution
// engine: the closed set of node variants, per-node resolution state with
// memoization and cycle detection, reference navigation, and the Session
// that drives depth-first resolution.
package tree

import (
	"context"
	"strconv"
	"strings"
)

// Node kind names, used in addressing and error messages.
const (
	KindMapping  = "mapping"
	KindEntry    = "entry"
	KindSequence = "sequence"
	KindScalar   = "scalar"
	KindAlias    = "alias"
)

// Node is one position in the configuration tree. The set of
// implementations is closed: Mapping, Entry, Sequence, Scalar and Alias.
type Node interface {
	// Parent returns the owning node, or nil for an unmounted root.
	Parent() Node
	// Kind names the node variant for errors and logs.
	Kind() string

	base() *nodeBase
	resolveSelf(ctx context.Context, s *Session) (any, error)
}

// Modification and resolution share the tri-state lifecycle: untouched,
// entered, finished. Re-entering an active phase is a cycle.
const (
	phaseIdle uint8 = iota
	phaseActive
	phaseDone
)

type resolveState struct {
	phase uint8
	value any
	err   error
}

// nodeBase carries the bookkeeping common to every variant. Embedding it
// gives each variant Parent and base for free.
type nodeBase struct {
	parent Node
	mod    uint8
	modErr error
	res    resolveState
	// replacedBy forwards a node that structural rewriting (promotion,
	// override substitution, choice selection) removed from the tree to
	// the node now occupying its position.
	replacedBy Node
	// unitRoot marks the root of a loaded configuration unit; the unit()
	// cross-reference anchors here.
	unitRoot bool
}

func (b *nodeBase) Parent() Node     { return b.parent }
func (b *nodeBase) base() *nodeBase  { return b }
func (b *nodeBase) setParent(p Node) { b.parent = p }

// follow chases replacedBy forwarding until it reaches the node currently
// occupying the position. Stale references held across a structural
// rewrite stay usable this way.
func follow(n Node) Node {
	for n != nil && n.base().replacedBy != nil {
		n = n.base().replacedBy
	}
	return n
}

// MarkUnitRoot flags a node as the root of a configuration unit.
func MarkUnitRoot(n Node) {
	n.base().unitRoot = true
}

// QualName computes the canonical root-relative reference string for a
// node by walking parent links. It is never cached: structural rewrites
// change ancestry, and a qualified name is defined purely by current tree
// position.
func QualName(n Node) string {
	var parts []string
	cur := n
	for {
		parent := cur.Parent()
		if parent == nil {
			break
		}
		switch p := parent.(type) {
		case *Entry:
			// A value node is addressed by its entry's key. The entry and
			// the mapping above it contribute nothing further.
			parts = append(parts, p.key)
			cur = p.Parent()
		case *Mapping:
			if e, ok := cur.(*Entry); ok {
				parts = append(parts, "*"+e.key)
			}
			cur = parent
		case *Sequence:
			for i, item := range p.items {
				if item == cur {
					parts = append(parts, strconv.Itoa(i))
					break
				}
			}
			cur = parent
		case *Alias:
			// An alias is transparent: the tree it mounts answers to the
			// alias's own position.
			cur = parent
		default:
			cur = parent
		}
		if cur == nil {
			break
		}
	}

	// parts were collected leaf-first.
	var sb strings.Builder
	for i := len(parts) - 1; i >= 0; i-- {
		if sb.Len() > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(parts[i])
	}
	return sb.String()
}

// unitRootOf finds the nearest enclosing unit root, falling back to the
// tree root when no ancestor is marked.
func unitRootOf(n Node) Node {
	cur := n
	for {
		if cur.base().unitRoot {
			return cur
		}
		parent := cur.Parent()
		if parent == nil {
			return cur
		}
		cur = parent
	}
}

// ascend climbs the given number of ancestor levels, skipping entries and
// aliases: an entry and its value share a level, and an alias stands in
// the same position as the tree it mounts.
func ascend(n Node, levels int) (Node, error) {
	cur := n
	for i := 0; i < levels; i++ {
		parent := cur.Parent()
		for {
			if parent == nil {
				return nil, &AddressError{
					Name:     QualName(cur),
					NodeKind: cur.Kind(),
					Detail:   "reference ascends past the root",
				}
			}
			if _, skip := parent.(*Entry); skip {
				parent = parent.Parent()
				continue
			}
			if _, skip := parent.(*Alias); skip {
				parent = parent.Parent()
				continue
			}
			break
		}
		cur = parent
	}
	return cur, nil
}
