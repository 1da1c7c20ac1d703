package expr

import "github.com/hashicorp/hcl/v2/hclsyntax"

// collectFunctionCalls recursively walks the AST, looking only for
// function calls. Variables() covers traversals, so the walk stays
// focused on call sites.
func collectFunctionCalls(expr hclsyntax.Expression, functions map[string]struct{}) {
	if expr == nil {
		return
	}
	switch e := expr.(type) {
	case *hclsyntax.FunctionCallExpr:
		functions[e.Name] = struct{}{}
		for _, arg := range e.Args {
			collectFunctionCalls(arg, functions)
		}
	case *hclsyntax.BinaryOpExpr:
		collectFunctionCalls(e.LHS, functions)
		collectFunctionCalls(e.RHS, functions)
	case *hclsyntax.ConditionalExpr:
		collectFunctionCalls(e.Condition, functions)
		collectFunctionCalls(e.TrueResult, functions)
		collectFunctionCalls(e.FalseResult, functions)
	case *hclsyntax.UnaryOpExpr:
		collectFunctionCalls(e.Val, functions)
	case *hclsyntax.TemplateExpr:
		for _, part := range e.Parts {
			collectFunctionCalls(part, functions)
		}
	case *hclsyntax.TemplateWrapExpr:
		collectFunctionCalls(e.Wrapped, functions)
	case *hclsyntax.TupleConsExpr:
		for _, item := range e.Exprs {
			collectFunctionCalls(item, functions)
		}
	case *hclsyntax.ObjectConsExpr:
		for _, item := range e.Items {
			collectFunctionCalls(item.KeyExpr, functions)
			collectFunctionCalls(item.ValueExpr, functions)
		}
	case *hclsyntax.ObjectConsKeyExpr:
		collectFunctionCalls(e.Wrapped, functions)
	case *hclsyntax.ForExpr:
		collectFunctionCalls(e.CollExpr, functions)
		collectFunctionCalls(e.KeyExpr, functions)
		collectFunctionCalls(e.ValExpr, functions)
		collectFunctionCalls(e.CondExpr, functions)
	case *hclsyntax.IndexExpr:
		collectFunctionCalls(e.Collection, functions)
		collectFunctionCalls(e.Key, functions)
	case *hclsyntax.SplatExpr:
		collectFunctionCalls(e.Source, functions)
		collectFunctionCalls(e.Each, functions)
	case *hclsyntax.RelativeTraversalExpr:
		collectFunctionCalls(e.Source, functions)
	case *hclsyntax.ParenthesesExpr:
		collectFunctionCalls(e.Expression, functions)
	}
}
