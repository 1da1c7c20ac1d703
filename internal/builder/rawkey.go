package builder

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"

	"github.com/solconf/solconf/internal/native"
)

var identRegex = regexp.MustCompile(`^[_a-zA-Z]\w*$`)

// rawKeyDecl is one parsed raw key: `name[:kinds[:modifiers]]`.
type rawKeyDecl struct {
	name        string
	kinds       []native.Kind
	invocations []invocation
}

// invocation is one modifier use parsed off a raw key, with its literal
// arguments already evaluated.
type invocation struct {
	name string
	args []any
}

func parseRawKey(raw string) (*rawKeyDecl, error) {
	parts := strings.SplitN(raw, ":", 3)
	name := strings.TrimSpace(parts[0])
	if !identRegex.MatchString(name) {
		return nil, fmt.Errorf("key %q is not a valid identifier", name)
	}
	decl := &rawKeyDecl{name: name}

	if len(parts) > 1 {
		kinds, err := parseKinds(parts[1])
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", name, err)
		}
		decl.kinds = kinds
	}
	if len(parts) > 2 {
		invs, err := parseInvocations(parts[2])
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", name, err)
		}
		decl.invocations = invs
	}
	return decl, nil
}

func parseKinds(seg string) ([]native.Kind, error) {
	seg = strings.TrimSpace(seg)
	if strings.HasPrefix(seg, "(") && strings.HasSuffix(seg, ")") {
		seg = seg[1 : len(seg)-1]
	}
	if strings.TrimSpace(seg) == "" {
		return nil, nil
	}
	var kinds []native.Kind
	for _, part := range strings.Split(seg, ",") {
		k, err := native.ParseKind(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

// parseInvocations reads the modifier segment as a comma-separated list
// of bare names and calls with literal arguments. Wrapping the segment in
// brackets lets the expression parser do the splitting and quoting.
func parseInvocations(seg string) ([]invocation, error) {
	if strings.TrimSpace(seg) == "" {
		return nil, nil
	}
	parsed, diags := hclsyntax.ParseExpression([]byte("["+seg+"]"), "modifiers", hcl.InitialPos)
	if diags.HasErrors() {
		return nil, fmt.Errorf("modifier segment %q: %w", seg, diags)
	}
	tuple, ok := parsed.(*hclsyntax.TupleConsExpr)
	if !ok {
		return nil, fmt.Errorf("modifier segment %q: expected a list of invocations", seg)
	}
	invs := make([]invocation, 0, len(tuple.Exprs))
	for _, item := range tuple.Exprs {
		inv, err := parseInvocation(item)
		if err != nil {
			return nil, err
		}
		invs = append(invs, inv)
	}
	return invs, nil
}

func parseInvocation(item hclsyntax.Expression) (invocation, error) {
	switch e := item.(type) {
	case *hclsyntax.ScopeTraversalExpr:
		if len(e.Traversal) != 1 {
			return invocation{}, fmt.Errorf("modifier name must be a bare identifier")
		}
		return invocation{name: e.Traversal.RootName()}, nil
	case *hclsyntax.FunctionCallExpr:
		args := make([]any, len(e.Args))
		for i, argExpr := range e.Args {
			// A nil evaluation context admits literals only.
			val, diags := argExpr.Value(nil)
			if diags.HasErrors() {
				return invocation{}, fmt.Errorf("modifier %s: argument %d must be a literal", e.Name, i)
			}
			arg, err := native.FromCty(val)
			if err != nil {
				return invocation{}, fmt.Errorf("modifier %s: argument %d: %w", e.Name, i, err)
			}
			args[i] = arg
		}
		return invocation{name: e.Name, args: args}, nil
	default:
		return invocation{}, fmt.Errorf("modifier invocation must be a name or a call, got %T", item)
	}
}
