// Package native defines the closed set of value shapes the engine accepts
// as raw input and produces as resolved output: nil, bool, string, int64,
// float64, []any and map[string]any. Everything entering the engine is
// funnelled through Normalize so that the rest of the codebase never sees
// decoder-specific types.
package native

import (
	"fmt"
	"sort"
)

// Normalize canonicalizes a decoded value into the closed native set.
// Integer types of any width collapse to int64, float32 widens to float64,
// and map[any]any (as produced by some YAML decoders) becomes
// map[string]any provided every key is a string. Any other type is
// rejected.
func Normalize(v any) (any, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case bool, string, int64, float64:
		return val, nil
	case int:
		return int64(val), nil
	case int8:
		return int64(val), nil
	case int16:
		return int64(val), nil
	case int32:
		return int64(val), nil
	case uint:
		return Normalize(uint64(val))
	case uint8:
		return int64(val), nil
	case uint16:
		return int64(val), nil
	case uint32:
		return int64(val), nil
	case uint64:
		if val > 1<<63-1 {
			return nil, fmt.Errorf("integer %d overflows the native integer range", val)
		}
		return int64(val), nil
	case float32:
		return float64(val), nil
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			norm, err := Normalize(item)
			if err != nil {
				return nil, fmt.Errorf("sequence index %d: %w", i, err)
			}
			out[i] = norm
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(val))
		for key, item := range val {
			norm, err := Normalize(item)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", key, err)
			}
			out[key] = norm
		}
		return out, nil
	case map[any]any:
		out := make(map[string]any, len(val))
		for key, item := range val {
			strKey, ok := key.(string)
			if !ok {
				return nil, fmt.Errorf("mapping key %v is %T, need string", key, key)
			}
			norm, err := Normalize(item)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", strKey, err)
			}
			out[strKey] = norm
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported value type %T", v)
	}
}

// SortedKeys returns the keys of a native mapping in lexical order. Raw
// input mappings carry no order of their own, so builders use this to make
// tree construction deterministic.
func SortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
