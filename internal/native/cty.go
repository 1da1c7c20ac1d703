package native

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

// ToCty converts a native value into its cty.Value form for expression
// evaluation. Sequences become tuples and mappings become objects so that
// heterogeneous element types survive the round trip.
func ToCty(v any) (cty.Value, error) {
	switch val := v.(type) {
	case nil:
		return cty.NullVal(cty.DynamicPseudoType), nil
	case bool:
		return cty.BoolVal(val), nil
	case int64:
		return cty.NumberIntVal(val), nil
	case float64:
		return cty.NumberFloatVal(val), nil
	case string:
		return cty.StringVal(val), nil
	case []any:
		if len(val) == 0 {
			return cty.EmptyTupleVal, nil
		}
		elems := make([]cty.Value, len(val))
		for i, item := range val {
			cv, err := ToCty(item)
			if err != nil {
				return cty.NilVal, fmt.Errorf("sequence index %d: %w", i, err)
			}
			elems[i] = cv
		}
		return cty.TupleVal(elems), nil
	case map[string]any:
		if len(val) == 0 {
			return cty.EmptyObjectVal, nil
		}
		attrs := make(map[string]cty.Value, len(val))
		for key, item := range val {
			cv, err := ToCty(item)
			if err != nil {
				return cty.NilVal, fmt.Errorf("key %q: %w", key, err)
			}
			attrs[key] = cv
		}
		return cty.ObjectVal(attrs), nil
	default:
		return cty.NilVal, fmt.Errorf("unsupported value type %T", v)
	}
}

// FromCty converts an expression result back into native form. Integral
// numbers become int64, everything else float64; unknown values are
// rejected since resolution never produces placeholders.
func FromCty(cv cty.Value) (any, error) {
	if cv == cty.NilVal {
		return nil, nil
	}
	if !cv.IsKnown() {
		return nil, fmt.Errorf("expression produced an unknown value")
	}
	if cv.IsNull() {
		return nil, nil
	}

	ty := cv.Type()
	switch {
	case ty == cty.Bool:
		return cv.True(), nil
	case ty == cty.Number:
		bf := cv.AsBigFloat()
		if bf.IsInt() {
			if i, acc := bf.Int64(); acc == 0 {
				return i, nil
			}
		}
		f, _ := bf.Float64()
		return f, nil
	case ty == cty.String:
		return cv.AsString(), nil
	case ty.IsTupleType() || ty.IsListType() || ty.IsSetType():
		out := make([]any, 0, cv.LengthInt())
		for it := cv.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			item, err := FromCty(ev)
			if err != nil {
				return nil, err
			}
			out = append(out, item)
		}
		return out, nil
	case ty.IsObjectType() || ty.IsMapType():
		out := make(map[string]any, cv.LengthInt())
		for it := cv.ElementIterator(); it.Next(); {
			kv, ev := it.Element()
			item, err := FromCty(ev)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", kv.AsString(), err)
			}
			out[kv.AsString()] = item
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expression produced unsupported type %s", ty.FriendlyName())
	}
}
