// internal/refpath/doc.go

/*
Package refpath provides a structured, type-safe representation for
reference strings within the configuration tree.

The format is a dot-separated sequence of selectors, e.g. `a.b.0.c`.
A run of N>1 dots ascends N-1 levels before the rest of the path
applies, a `*` sigil in front of a name selects the mapping entry
itself rather than its value, and bare integers index sequences.

This package enforces the reference grammar and centralizes all
formatting and parsing logic.
*/
package refpath
