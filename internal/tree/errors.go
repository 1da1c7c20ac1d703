package tree

import (
	"fmt"
	"strings"
)

// fmtName renders a qualified name for error text; the root's name is the
// empty string.
func fmtName(name string) string {
	if name == "" {
		return "the root"
	}
	return fmt.Sprintf("%q", name)
}

// ConstructionError reports malformed raw content or a malformed
// modifier declaration. It is raised while building a tree or while a
// pipeline applies a declaration, before any value is produced.
type ConstructionError struct {
	Name string
	Err  error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("constructing %s: %s", fmtName(e.Name), e.Err)
}

func (e *ConstructionError) Unwrap() error { return e.Err }

// AddressError reports a reference step that could not be applied: no
// matching child, an index out of range, or ascent past the root.
type AddressError struct {
	Name       string
	NodeKind   string
	Detail     string
	Suggestion string
}

func (e *AddressError) Error() string {
	msg := fmt.Sprintf("address error at %s (%s): %s", fmtName(e.Name), e.NodeKind, e.Detail)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(", did you mean %q?", e.Suggestion)
	}
	return msg
}

// CycleError reports a node re-entered while its own resolution or
// modification was still in progress. Chain lists the qualified names
// from the first visit back to the re-entry.
type CycleError struct {
	Name     string
	NodeKind string
	Chain    []string
}

func (e *CycleError) Error() string {
	chain := make([]string, len(e.Chain))
	for i, name := range e.Chain {
		chain[i] = fmtName(name)
	}
	return fmt.Sprintf("cyclic dependency at %s (%s): %s",
		fmtName(e.Name), e.NodeKind, strings.Join(chain, " -> "))
}

// KindError reports a resolved value that fails the entry's declared
// kind constraints.
type KindError struct {
	Name     string
	NodeKind string
	Expected string
	Actual   string
}

func (e *KindError) Error() string {
	return fmt.Sprintf("value at %s (%s) has type %s, declared %s",
		fmtName(e.Name), e.NodeKind, e.Actual, e.Expected)
}

// RequiredError reports resolution of a value position that was declared
// required but never supplied.
type RequiredError struct {
	Name     string
	NodeKind string
}

func (e *RequiredError) Error() string {
	return fmt.Sprintf("value at %s (%s) is required but was not supplied", fmtName(e.Name), e.NodeKind)
}

// ChoiceError reports a choice selection outside the enumerated set.
type ChoiceError struct {
	Name     string
	NodeKind string
	Given    string
	Valid    []string
}

func (e *ChoiceError) Error() string {
	return fmt.Sprintf("choice %q at %s (%s) is not one of %s",
		e.Given, fmtName(e.Name), e.NodeKind, strings.Join(e.Valid, ", "))
}

// ResolveError annotates a child failure with the ancestor it passed
// through, so the chain reads as a path from the root to the origin.
type ResolveError struct {
	Name     string
	NodeKind string
	Err      error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("resolving %s (%s): %s", fmtName(e.Name), e.NodeKind, e.Err)
}

func (e *ResolveError) Unwrap() error { return e.Err }
