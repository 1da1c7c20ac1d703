// Package override holds the override table: externally supplied
// (address, value) pairs that redirect resolution of the nodes they name.
package override

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/solconf/solconf/internal/expr"
	"github.com/solconf/solconf/internal/native"
	"github.com/solconf/solconf/internal/refpath"
)

// ConflictError reports two override entries targeting the same address.
// Override order is not part of the contract, so last-writer-wins would
// hide a real mistake.
type ConflictError struct {
	Target string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("override target %q is declared more than once", e.Target)
}

// Spec is a consumable override table keyed by canonical qualified name.
// The resolution engine takes each entry at most once, at the target
// node's definition point.
type Spec struct {
	values map[string]any
	order  []string
	taken  map[string]bool
	eval   *expr.Evaluator
}

// NewSpec creates an empty override table. Assignment values are
// evaluated with ev; nil uses an evaluator over the default registry.
func NewSpec(ev *expr.Evaluator) *Spec {
	if ev == nil {
		ev = expr.New(expr.Default())
	}
	return &Spec{
		values: make(map[string]any),
		taken:  make(map[string]bool),
		eval:   ev,
	}
}

// Add records one override. The target must be an absolute reference (the
// empty string addresses the root); the value must be native content.
func (s *Spec) Add(target string, value any) error {
	path, err := refpath.Parse(target)
	if err != nil {
		return fmt.Errorf("override target %q: %w", target, err)
	}
	if !path.Absolute() {
		return fmt.Errorf("override target %q: must not ascend", target)
	}
	canonical := path.String()
	if _, exists := s.values[canonical]; exists {
		return &ConflictError{Target: canonical}
	}
	norm, err := native.Normalize(value)
	if err != nil {
		return fmt.Errorf("override value for %q: %w", canonical, err)
	}
	s.values[canonical] = norm
	s.order = append(s.order, canonical)
	return nil
}

// AddMap records every pair of a native map, in sorted key order so
// conflicts report deterministically.
func (s *Spec) AddMap(m map[string]any) error {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := s.Add(k, m[k]); err != nil {
			return err
		}
	}
	return nil
}

// AddAssignments parses `target = expression` statements, separated by
// semicolons or newlines, the form overrides take on a command line. The
// right-hand side is evaluated with no node context: literals, operators
// and registry functions only.
func (s *Spec) AddAssignments(src string) error {
	for _, stmt := range splitStatements(src) {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		eq := strings.IndexByte(stmt, '=')
		if eq < 0 {
			return fmt.Errorf("override %q: expected `target = value`", stmt)
		}
		target := strings.TrimSpace(stmt[:eq])
		if target == "" {
			return fmt.Errorf("override %q: missing target", stmt)
		}
		value, err := s.eval.Eval(strings.TrimSpace(stmt[eq+1:]), expr.Env{Source: "override " + target})
		if err != nil {
			return err
		}
		if err := s.Add(target, value); err != nil {
			return err
		}
	}
	return nil
}

// splitStatements cuts on semicolons and newlines that sit outside string
// literals.
func splitStatements(src string) []string {
	var out []string
	var sb strings.Builder
	inString := false
	escaped := false
	for _, r := range src {
		switch {
		case escaped:
			escaped = false
			sb.WriteRune(r)
		case inString && r == '\\':
			escaped = true
			sb.WriteRune(r)
		case r == '"':
			inString = !inString
			sb.WriteRune(r)
		case (r == ';' || r == '\n') && !inString:
			out = append(out, sb.String())
			sb.Reset()
		default:
			sb.WriteRune(r)
		}
	}
	return append(out, sb.String())
}

// Take consumes the override for the given qualified name. A consumed
// entry never matches again: each override applies at one definition
// point only.
func (s *Spec) Take(name string) (any, bool) {
	if s.taken[name] {
		return nil, false
	}
	value, ok := s.values[name]
	if !ok {
		return nil, false
	}
	s.taken[name] = true
	slog.Debug("Override matched.", "target", name)
	return value, true
}

// Len reports the number of recorded overrides.
func (s *Spec) Len() int { return len(s.order) }

// Targets returns every recorded target in declaration order.
func (s *Spec) Targets() []string {
	return append([]string(nil), s.order...)
}

// Applied returns the targets that matched a node, in declaration order.
func (s *Spec) Applied() []string {
	var out []string
	for _, t := range s.order {
		if s.taken[t] {
			out = append(out, t)
		}
	}
	return out
}

// Unused returns the targets that never matched, in declaration order. A
// non-empty result after a full resolution usually means a mistyped
// address.
func (s *Spec) Unused() []string {
	var out []string
	for _, t := range s.order {
		if !s.taken[t] {
			out = append(out, t)
		}
	}
	return out
}
