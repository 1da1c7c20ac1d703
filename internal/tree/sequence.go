package tree

import "context"

// Sequence is an ordered list of child nodes of any variant except Entry.
type Sequence struct {
	nodeBase
	items []Node
}

// NewSequence creates a sequence owning the given items.
func NewSequence(items ...Node) *Sequence {
	q := &Sequence{items: items}
	for _, item := range items {
		item.setParent(q)
	}
	return q
}

// Items returns the elements in order. The slice is shared; callers must
// not mutate it.
func (q *Sequence) Items() []Node { return q.items }

func (q *Sequence) Kind() string { return KindSequence }

func (q *Sequence) resolveSelf(ctx context.Context, s *Session) (any, error) {
	out := make([]any, 0, len(q.items))
	for _, item := range q.items {
		val, err := s.Resolve(ctx, follow(item))
		if err != nil {
			return nil, &ResolveError{Name: QualName(q), NodeKind: KindSequence, Err: err}
		}
		out = append(out, val)
	}
	return out, nil
}
