package expr

import (
	"errors"
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"

	"github.com/solconf/solconf/internal/native"
	"github.com/solconf/solconf/internal/refpath"
)

// MaxSourceLen caps the size of a single expression. Anything larger is
// almost certainly data pasted into the wrong place.
const MaxSourceLen = 4096

// Env is the environment for a single evaluation. Functions injected here
// are merged over the registry set, which is how per-node helpers like the
// cross-reference functions get in.
type Env struct {
	// Source names the origin of the expression for diagnostics, usually
	// the qualified name of the node that carried it.
	Source    string
	Variables map[string]cty.Value
	Functions map[string]function.Function
}

// Evaluator evaluates expression sources against a fixed registry.
type Evaluator struct {
	registry *Registry
}

// New creates an Evaluator backed by the given registry.
func New(registry *Registry) *Evaluator {
	return &Evaluator{registry: registry}
}

// Eval parses, checks and evaluates one expression, returning the result
// as a native value. Every name the expression mentions must exist in the
// environment before evaluation starts.
func (e *Evaluator) Eval(src string, env Env) (any, error) {
	if len(src) > MaxSourceLen {
		return nil, e.fail(src, env, fmt.Errorf("expression is %d bytes, the limit is %d", len(src), MaxSourceLen))
	}

	parsed, diags := hclsyntax.ParseExpression([]byte(src), env.Source, hcl.InitialPos)
	if diags.HasErrors() {
		return nil, e.fail(src, env, diags)
	}

	functions := e.mergedFunctions(env)
	if err := checkNames(parsed, env.Variables, functions); err != nil {
		return nil, e.fail(src, env, err)
	}

	val, diags := parsed.Value(&hcl.EvalContext{
		Variables: env.Variables,
		Functions: functions,
	})
	if diags.HasErrors() {
		return nil, e.fail(src, env, evalCause(diags))
	}

	out, err := native.FromCty(val)
	if err != nil {
		return nil, e.fail(src, env, err)
	}
	return out, nil
}

func (e *Evaluator) fail(src string, env Env, err error) *EvalError {
	return &EvalError{Source: env.Source, Expr: src, Err: err}
}

// evalCause digs the original error out of evaluation diagnostics. An
// error returned by a called function comes back wrapped in a diagnostic;
// pulling it out here keeps typed errors visible to errors.As across the
// expression boundary.
func evalCause(diags hcl.Diagnostics) error {
	for _, diag := range diags {
		extra, ok := hcl.DiagnosticExtra[hcl.FunctionCallDiagExtra](diag)
		if !ok {
			continue
		}
		if err := extra.FunctionCallError(); err != nil {
			return err
		}
	}
	return diags
}

func (e *Evaluator) mergedFunctions(env Env) map[string]function.Function {
	merged := make(map[string]function.Function, len(e.registry.Functions)+len(env.Functions))
	for name, fn := range e.registry.Functions {
		merged[name] = fn
	}
	for name, fn := range env.Functions {
		merged[name] = fn
	}
	return merged
}

// checkNames rejects any variable or function name the environment does
// not define, suggesting a near miss where one exists.
func checkNames(parsed hclsyntax.Expression, vars map[string]cty.Value, functions map[string]function.Function) error {
	for _, traversal := range parsed.Variables() {
		root := traversal.RootName()
		if _, ok := vars[root]; ok {
			continue
		}
		msg := fmt.Sprintf("undefined name %q", root)
		if suggestion := refpath.NameSuggestion(root, mapKeys(vars)); suggestion != "" {
			msg += fmt.Sprintf(", did you mean %q?", suggestion)
		} else if suggestion := refpath.NameSuggestion(root, functionNames(functions)); suggestion != "" {
			msg += fmt.Sprintf(", did you mean to call %q?", suggestion)
		}
		return errors.New(msg)
	}

	calls := make(map[string]struct{})
	collectFunctionCalls(parsed, calls)
	for _, name := range sortedNames(calls) {
		if _, ok := functions[name]; ok {
			continue
		}
		msg := fmt.Sprintf("unknown function %q", name)
		if suggestion := refpath.NameSuggestion(name, functionNames(functions)); suggestion != "" {
			msg += fmt.Sprintf(", did you mean %q?", suggestion)
		}
		return errors.New(msg)
	}

	return nil
}

func functionNames(functions map[string]function.Function) []string {
	names := make([]string, 0, len(functions))
	for name := range functions {
		names = append(names, name)
	}
	return names
}

func mapKeys(vars map[string]cty.Value) []string {
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	return names
}

func sortedNames(set map[string]struct{}) []string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ToCtyVars converts a native mapping into evaluation variables, for
// callers that want to expose fixed data to expressions.
func ToCtyVars(values map[string]any) (map[string]cty.Value, error) {
	vars := make(map[string]cty.Value, len(values))
	for name, value := range values {
		cv, err := native.ToCty(value)
		if err != nil {
			return nil, fmt.Errorf("variable %q: %w", name, err)
		}
		vars[name] = cv
	}
	return vars, nil
}
