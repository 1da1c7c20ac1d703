package expr

import "fmt"

// EvalError wraps any failure while parsing, checking or evaluating an
// expression, keeping the source text and its origin for reporting.
type EvalError struct {
	Source string
	Expr   string
	Err    error
}

func (e *EvalError) Error() string {
	expr := e.Expr
	if len(expr) > 80 {
		expr = expr[:77] + "..."
	}
	if e.Source != "" {
		return fmt.Sprintf("expression %q at %s: %s", expr, e.Source, e.Err)
	}
	return fmt.Sprintf("expression %q: %s", expr, e.Err)
}

func (e *EvalError) Unwrap() error { return e.Err }
