package tree

import (
	"context"
	"fmt"

	"github.com/solconf/solconf/internal/native"
)

// Mapping is an ordered collection of entries with pairwise-distinct keys.
type Mapping struct {
	nodeBase
	entries []*Entry
	index   map[string]*Entry
}

// NewMapping creates an empty mapping node.
func NewMapping() *Mapping {
	return &Mapping{index: make(map[string]*Entry)}
}

// Append adds an entry, rejecting duplicate keys.
func (m *Mapping) Append(e *Entry) error {
	if _, exists := m.index[e.key]; exists {
		return fmt.Errorf("duplicate key %q", e.key)
	}
	m.entries = append(m.entries, e)
	m.index[e.key] = e
	e.setParent(m)
	return nil
}

// Entries returns the entries in declaration order. The slice is shared;
// callers must not mutate it.
func (m *Mapping) Entries() []*Entry { return m.entries }

// EntryFor looks an entry up by its declared key.
func (m *Mapping) EntryFor(key string) (*Entry, bool) {
	e, ok := m.index[key]
	return e, ok
}

// Keys returns the declared keys in declaration order.
func (m *Mapping) Keys() []string {
	keys := make([]string, len(m.entries))
	for i, e := range m.entries {
		keys[i] = e.key
	}
	return keys
}

func (m *Mapping) Kind() string { return KindMapping }

func (m *Mapping) resolveSelf(ctx context.Context, s *Session) (any, error) {
	// Run every entry's pipeline before aggregating: a pipeline may
	// rewrite structure, including promoting this mapping away entirely.
	for _, e := range append([]*Entry(nil), m.entries...) {
		if err := s.Modify(ctx, e); err != nil {
			return nil, err
		}
		if m.replacedBy != nil {
			return s.Resolve(ctx, follow(m))
		}
	}

	out := make(map[string]any, len(m.entries))
	for _, e := range m.entries {
		if e.hidden {
			continue
		}
		key := e.Display()
		if _, taken := out[key]; taken {
			return nil, &ResolveError{
				Name:     QualName(m),
				NodeKind: KindMapping,
				Err:      fmt.Errorf("two entries resolve to the same key %q", key),
			}
		}
		val, err := s.Resolve(ctx, e)
		if err != nil {
			return nil, &ResolveError{Name: QualName(m), NodeKind: KindMapping, Err: err}
		}
		out[key] = val
	}
	return out, nil
}

// Entry binds one declared key to exactly one value node, together with
// the declarations parsed off the raw key: kind constraints and the
// modifier pipeline. Display key, visibility and requiredness are runtime
// state the pipeline adjusts.
type Entry struct {
	nodeBase
	key     string
	value   Node
	kinds   []native.Kind
	mods    []Modifier
	display string
	hidden  bool

	// requiredDeclared marks the value position as a placeholder;
	// valueProvided records that an override or a merge supplied a real
	// value for it.
	requiredDeclared bool
	valueProvided    bool
}

// NewEntry creates an entry owning the given value node.
func NewEntry(key string, value Node) *Entry {
	e := &Entry{key: key, value: value}
	value.setParent(e)
	return e
}

// Key returns the declared key used for addressing.
func (e *Entry) Key() string { return e.key }

// Display returns the externally visible key: the rename target when one
// was set, the declared key otherwise.
func (e *Entry) Display() string {
	if e.display != "" {
		return e.display
	}
	return e.key
}

// Value returns the node currently occupying the entry's value position.
func (e *Entry) Value() Node { return follow(e.value) }

// Hidden reports whether the resolved value is excluded from the
// enclosing mapping's output.
func (e *Entry) Hidden() bool { return e.hidden }

// Kinds returns the declared kind constraints, nil when unconstrained.
func (e *Entry) Kinds() []native.Kind { return e.kinds }

// Modifiers returns the pipeline declared on the raw key.
func (e *Entry) Modifiers() []Modifier { return e.mods }

// SetKinds declares the kind constraints. The builder calls this once.
func (e *Entry) SetKinds(kinds []native.Kind) { e.kinds = kinds }

// SetModifiers declares the pipeline. The builder calls this once.
func (e *Entry) SetModifiers(mods []Modifier) { e.mods = mods }

// SetHidden flips output visibility.
func (e *Entry) SetHidden(hidden bool) { e.hidden = hidden }

// SetDisplay overrides the externally visible key.
func (e *Entry) SetDisplay(key string) { e.display = key }

// MarkRequired flags the value position as a placeholder that must be
// supplied by an override or a merge before it can resolve.
func (e *Entry) MarkRequired() { e.requiredDeclared = true }

// MarkProvided records that a real value was supplied.
func (e *Entry) MarkProvided() { e.valueProvided = true }

// Required reports the declared flag; Provided reports satisfaction.
func (e *Entry) Required() bool { return e.requiredDeclared }
func (e *Entry) Provided() bool { return e.valueProvided }

func (e *Entry) Kind() string { return KindEntry }

func (e *Entry) resolveSelf(ctx context.Context, s *Session) (any, error) {
	if err := s.Modify(ctx, e); err != nil {
		return nil, err
	}

	val, err := s.Resolve(ctx, e.Value())
	if err != nil {
		return nil, err
	}

	if e.requiredDeclared && !e.valueProvided {
		return nil, &RequiredError{Name: QualName(e.Value()), NodeKind: e.Value().Kind()}
	}

	if err := native.CheckKind(val, e.kinds); err != nil {
		actual, _ := native.KindOf(val)
		return nil, &KindError{
			Name:     QualName(e.Value()),
			NodeKind: e.Value().Kind(),
			Expected: native.KindSetString(e.kinds),
			Actual:   actual.String(),
		}
	}
	return val, nil
}
