package tree

import (
	"context"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"

	"github.com/solconf/solconf/internal/expr"
	"github.com/solconf/solconf/internal/native"
	"github.com/solconf/solconf/internal/refpath"
)

// Scalar is a leaf: either a literal native value or a deferred
// interpolation expression.
type Scalar struct {
	nodeBase
	literal any
	src     string
	interp  bool
}

// NewScalar creates a literal leaf. The value must already be native.
func NewScalar(value any) *Scalar {
	return &Scalar{literal: value}
}

// NewInterp creates a leaf holding a deferred expression, already
// stripped of its interpolation marker.
func NewInterp(src string) *Scalar {
	return &Scalar{src: src, interp: true}
}

// IsInterp reports whether the leaf defers to the expression evaluator.
func (sc *Scalar) IsInterp() bool { return sc.interp }

// Literal returns the raw value of a non-interpolated leaf.
func (sc *Scalar) Literal() any { return sc.literal }

func (sc *Scalar) Kind() string { return KindScalar }

func (sc *Scalar) resolveSelf(ctx context.Context, s *Session) (any, error) {
	if !sc.interp {
		return sc.literal, nil
	}
	return s.eval.Eval(sc.src, expr.Env{
		Source:    QualName(sc),
		Variables: s.vars,
		Functions: s.crossRefFuncs(ctx, sc),
	})
}

// crossRefFuncs builds the per-evaluation cross-reference helpers: ref()
// resolves root-relative, rel() relative to the node carrying the
// expression (dot-ascent allowed), unit() relative to the enclosing
// configuration unit's root.
func (s *Session) crossRefFuncs(ctx context.Context, anchor Node) map[string]function.Function {
	return map[string]function.Function{
		"ref":  s.resolveAtFunc(ctx, func() Node { return s.Root() }),
		"rel":  s.resolveAtFunc(ctx, func() Node { return anchor }),
		"unit": s.resolveAtFunc(ctx, func() Node { return unitRootOf(anchor) }),
	}
}

func (s *Session) resolveAtFunc(ctx context.Context, baseFn func() Node) function.Function {
	return function.New(&function.Spec{
		Params: []function.Parameter{
			{Name: "address", Type: cty.String},
		},
		Type: func(args []cty.Value) (cty.Type, error) {
			return cty.DynamicPseudoType, nil
		},
		Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
			path, err := refpath.Parse(args[0].AsString())
			if err != nil {
				return cty.NilVal, err
			}
			node, err := s.NodeAt(ctx, baseFn(), path)
			if err != nil {
				return cty.NilVal, err
			}
			val, err := s.Resolve(ctx, node)
			if err != nil {
				return cty.NilVal, err
			}
			return native.ToCty(val)
		},
	})
}
