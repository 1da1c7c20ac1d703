// Package expr evaluates the restricted expressions embedded in
// configuration values.
//
// Expressions use HCL native expression syntax and are evaluated against a
// closed environment: the only names an expression can reach are the
// functions registered in a Registry plus whatever the caller injects for a
// single evaluation (the cross-reference functions, for instance). There is
// no ambient scope, no attribute access on the host program and no way to
// call anything that was not registered, so evaluation stays sandboxed by
// construction.
//
// Every name in an expression is checked against the environment before
// evaluation, which turns typos into targeted errors instead of mid-eval
// diagnostics.
package expr
