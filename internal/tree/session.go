package tree

import (
	"context"
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/solconf/solconf/internal/ctxlog"
	"github.com/solconf/solconf/internal/expr"
	"github.com/solconf/solconf/internal/refpath"
)

// Modifier is one named transformation in an entry's pipeline. Apply may
// return a replacement node, which the pipeline rebinds to so later
// modifiers see the substitute; returning nil keeps the current node.
type Modifier interface {
	Name() string
	Apply(ctx context.Context, s *Session, n Node) (Node, error)
}

// OverrideSource supplies externally provided substitutions keyed by
// qualified name. Take consumes the entry so each override applies at one
// definition point only.
type OverrideSource interface {
	Take(qualName string) (any, bool)
}

// SubtreeBuilder turns raw native content into a node tree. The session
// uses it when an override replaces a node's position wholesale.
type SubtreeBuilder interface {
	BuildSubtree(raw any) (Node, error)
}

// UnitSource maps configuration unit names to built trees for the
// cross-unit load modifiers.
type UnitSource interface {
	// Mount returns the unit's shared tree, building it on first use.
	Mount(ctx context.Context, name string) (Node, error)
	// MountCopy builds an independent tree for the unit.
	MountCopy(ctx context.Context, name string) (Node, error)
}

// SessionConfig wires a Session's collaborators. Root is mandatory; every
// other field has a working zero value.
type SessionConfig struct {
	Root      Node
	Evaluator *expr.Evaluator      // nil: evaluator over the default registry
	Overrides OverrideSource       // nil: no overrides
	Subtrees  SubtreeBuilder       // nil: container-replacing overrides fail
	Units     UnitSource           // nil: load modifiers fail
	Vars      map[string]cty.Value // extra names visible to every expression
}

// Session drives resolution over one tree: depth-first, single-threaded,
// memoized per node. A session whose resolution failed is terminal;
// callers start over with a fresh tree.
type Session struct {
	root      Node
	eval      *expr.Evaluator
	overrides OverrideSource
	subtrees  SubtreeBuilder
	units     UnitSource
	vars      map[string]cty.Value
	stack     []Node
}

// NewSession creates a session over the given root.
func NewSession(cfg SessionConfig) *Session {
	ev := cfg.Evaluator
	if ev == nil {
		ev = expr.New(expr.Default())
	}
	return &Session{
		root:      cfg.Root,
		eval:      ev,
		overrides: cfg.Overrides,
		subtrees:  cfg.Subtrees,
		units:     cfg.Units,
		vars:      cfg.Vars,
	}
}

// Root returns the node currently occupying the root position.
func (s *Session) Root() Node { return follow(s.root) }

// Resolve returns the node's value, computing it at most once. A node
// re-entered while in progress reports the cycle; a node that failed
// stays failed.
func (s *Session) Resolve(ctx context.Context, n Node) (any, error) {
	n = follow(n)
	st := &n.base().res
	switch st.phase {
	case phaseDone:
		return st.value, st.err
	case phaseActive:
		return nil, s.cycleError(n)
	}
	st.phase = phaseActive
	s.stack = append(s.stack, n)
	defer func() { s.stack = s.stack[:len(s.stack)-1] }()

	ctxlog.FromContext(ctx).Debug("Resolving node.", "address", QualName(n), "kind", n.Kind())

	val, err := s.resolveAtDefinition(ctx, n)
	st.value, st.err = val, err
	st.phase = phaseDone
	return val, err
}

// resolveAtDefinition is the definition point: the override table is
// consulted before the node's own raw value is used.
func (s *Session) resolveAtDefinition(ctx context.Context, n Node) (any, error) {
	replacement, replaced, err := s.intercept(ctx, n)
	if err != nil {
		return nil, err
	}
	if replaced {
		return s.Resolve(ctx, replacement)
	}
	return n.resolveSelf(ctx, s)
}

func (s *Session) intercept(ctx context.Context, n Node) (Node, bool, error) {
	if s.overrides == nil {
		return nil, false, nil
	}
	if _, isEntry := n.(*Entry); isEntry {
		// Overrides target value positions; entries resolve through
		// their value node, which does its own interception.
		return nil, false, nil
	}
	name := QualName(n)
	raw, ok := s.overrides.Take(name)
	if !ok {
		return nil, false, nil
	}
	ctxlog.FromContext(ctx).Debug("Applying override.", "address", name)
	if s.subtrees == nil {
		return nil, false, &ConstructionError{
			Name: name,
			Err:  fmt.Errorf("an override targets this node but no subtree builder is configured"),
		}
	}
	replacement, err := s.subtrees.BuildSubtree(raw)
	if err != nil {
		return nil, false, err
	}
	s.replaceNode(n, replacement)
	if e, ok := replacement.Parent().(*Entry); ok {
		e.MarkProvided()
	}
	return replacement, true, nil
}

// Modify runs an entry's declared pipeline exactly once. Nodes of other
// kinds have no pipeline of their own and are marked done immediately. A
// pipeline that failed stays failed.
func (s *Session) Modify(ctx context.Context, n Node) error {
	n = follow(n)
	b := n.base()
	switch b.mod {
	case phaseDone:
		return b.modErr
	case phaseActive:
		return s.cycleError(n)
	}
	b.mod = phaseActive

	e, ok := n.(*Entry)
	if !ok {
		b.mod = phaseDone
		return nil
	}

	pushed := false
	if len(s.stack) == 0 || s.stack[len(s.stack)-1] != n {
		s.stack = append(s.stack, n)
		pushed = true
	}
	defer func() {
		if pushed {
			s.stack = s.stack[:len(s.stack)-1]
		}
	}()

	logger := ctxlog.FromContext(ctx)
	current := Node(e)
	for _, mod := range e.mods {
		logger.Debug("Applying modifier.", "modifier", mod.Name(), "address", QualName(current))
		replacement, err := mod.Apply(ctx, s, current)
		if err != nil {
			b.mod = phaseDone
			b.modErr = err
			return err
		}
		if replacement != nil {
			current = follow(replacement)
		}
	}
	b.mod = phaseDone
	return nil
}

// ModifyTree applies every pipeline reachable from n, depth-first,
// without resolving any value. Splices the pipelines perform are chased,
// so the walk covers the tree's final shape. Resolution stays lazy; this
// exists for callers that want structural validation up front.
func (s *Session) ModifyTree(ctx context.Context, n Node) error {
	n = follow(n)
	switch t := n.(type) {
	case *Alias:
		return s.ModifyTree(ctx, t.Target())
	case *Sequence:
		for _, item := range t.items {
			if err := s.ModifyTree(ctx, item); err != nil {
				return err
			}
		}
	case *Entry:
		if err := s.Modify(ctx, t); err != nil {
			return err
		}
		return s.ModifyTree(ctx, t.Value())
	case *Mapping:
		for _, e := range append([]*Entry(nil), t.entries...) {
			if err := s.Modify(ctx, e); err != nil {
				return err
			}
			if t.replacedBy != nil {
				return s.ModifyTree(ctx, follow(t))
			}
		}
		for _, e := range t.entries {
			if err := s.ModifyTree(ctx, e.Value()); err != nil {
				return err
			}
		}
	}
	return nil
}

// NodeAt applies a parsed reference path relative to base, triggering
// entry pipelines along the way.
func (s *Session) NodeAt(ctx context.Context, base Node, path *refpath.Path) (Node, error) {
	cur := follow(base)
	for _, step := range path.Steps {
		next, err := s.step(ctx, cur, step)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

// ResolveAt combines NodeAt and Resolve.
func (s *Session) ResolveAt(ctx context.Context, base Node, path *refpath.Path) (any, error) {
	n, err := s.NodeAt(ctx, base, path)
	if err != nil {
		return nil, err
	}
	return s.Resolve(ctx, n)
}

func (s *Session) step(ctx context.Context, cur Node, step refpath.Step) (Node, error) {
	// Descend through aliases and entries to the node that actually holds
	// children; stepping into an entry triggers its pipeline.
	for {
		cur = follow(cur)
		if a, ok := cur.(*Alias); ok {
			cur = a.Target()
			continue
		}
		if e, ok := cur.(*Entry); ok {
			if err := s.Modify(ctx, e); err != nil {
				return nil, err
			}
			cur = e.Value()
			continue
		}
		break
	}

	switch step.Kind {
	case refpath.StepAscend:
		return ascend(cur, step.Levels)

	case refpath.StepName:
		m, ok := cur.(*Mapping)
		if !ok {
			return nil, &AddressError{
				Name:     QualName(cur),
				NodeKind: cur.Kind(),
				Detail:   fmt.Sprintf("a %s has no child named %q", cur.Kind(), step.Name),
			}
		}
		e, ok := m.EntryFor(step.Name)
		if !ok {
			if next, promoted, err := s.forcePromote(ctx, m); err != nil {
				return nil, err
			} else if promoted {
				return s.step(ctx, next, step)
			}
			return nil, &AddressError{
				Name:       QualName(m),
				NodeKind:   KindMapping,
				Detail:     fmt.Sprintf("no entry named %q", step.Name),
				Suggestion: refpath.NameSuggestion(step.Name, m.Keys()),
			}
		}
		if err := s.Modify(ctx, e); err != nil {
			return nil, err
		}
		if m.replacedBy != nil {
			// The pipeline promoted the mapping away; re-apply the step
			// at the node now occupying its position.
			return s.step(ctx, follow(m), step)
		}
		if step.Entry {
			return e, nil
		}
		return e.Value(), nil

	case refpath.StepIndex:
		if m, ok := cur.(*Mapping); ok {
			if next, promoted, err := s.forcePromote(ctx, m); err != nil {
				return nil, err
			} else if promoted {
				return s.step(ctx, next, step)
			}
		}
		q, ok := cur.(*Sequence)
		if !ok {
			return nil, &AddressError{
				Name:     QualName(cur),
				NodeKind: cur.Kind(),
				Detail:   fmt.Sprintf("cannot index into a %s", cur.Kind()),
			}
		}
		if step.Index >= len(q.items) {
			return nil, &AddressError{
				Name:     QualName(q),
				NodeKind: KindSequence,
				Detail:   fmt.Sprintf("index %d out of range, the sequence has %d items", step.Index, len(q.items)),
			}
		}
		return follow(q.items[step.Index]), nil
	}

	return nil, &AddressError{Name: QualName(cur), NodeKind: cur.Kind(), Detail: "unsupported reference step"}
}

// forcePromote runs the pipeline of a mapping's sole entry when a step
// cannot be applied to the mapping as it stands. Promotion is the one
// structural rewrite that changes what a position holds, and it only
// applies to single-entry mappings.
func (s *Session) forcePromote(ctx context.Context, m *Mapping) (Node, bool, error) {
	if len(m.entries) != 1 || m.entries[0].mod != phaseIdle {
		return nil, false, nil
	}
	if err := s.Modify(ctx, m.entries[0]); err != nil {
		return nil, false, err
	}
	if m.replacedBy == nil {
		return nil, false, nil
	}
	return follow(m), true, nil
}

func (s *Session) cycleError(n Node) *CycleError {
	var chain []string
	seen := false
	for _, m := range s.stack {
		if m == n {
			seen = true
		}
		if seen {
			chain = append(chain, QualName(m))
		}
	}
	chain = append(chain, QualName(n))
	return &CycleError{Name: QualName(n), NodeKind: n.Kind(), Chain: chain}
}
