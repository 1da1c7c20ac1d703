package tree

import "context"

// Alias is a non-owning pointer to another node, introduced when a loaded
// unit is mounted at several sites: every site shares the one built tree,
// and the alias carries the site's position in the enclosing tree.
type Alias struct {
	nodeBase
	target Node
}

// NewAlias mounts target at a new position. The first mount adopts an
// unparented target, which anchors the target's qualified names (and
// therefore override addressing) at that site.
func NewAlias(target Node) *Alias {
	a := &Alias{target: target}
	if target.Parent() == nil {
		target.setParent(a)
	}
	return a
}

// Target returns the node the alias points at.
func (a *Alias) Target() Node { return follow(a.target) }

func (a *Alias) Kind() string { return KindAlias }

func (a *Alias) resolveSelf(ctx context.Context, s *Session) (any, error) {
	return s.Resolve(ctx, a.Target())
}
