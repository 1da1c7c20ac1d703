package native

import (
	"fmt"
	"strings"
)

// Kind classifies a native value for declared-type checking. The names
// mirror the type names accepted in raw key declarations ("val:int").
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindStr
	KindList
	KindDict
)

var kindNames = map[Kind]string{
	KindNull:  "null",
	KindBool:  "bool",
	KindInt:   "int",
	KindFloat: "float",
	KindStr:   "str",
	KindList:  "list",
	KindDict:  "dict",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind maps a declared type name to its Kind.
func ParseKind(name string) (Kind, error) {
	for kind, kindName := range kindNames {
		if kindName == name {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("unknown type name %q (valid: null, bool, int, float, str, list, dict)", name)
}

// KindOf reports the Kind of a native value. The value must already be
// normalized; anything outside the closed set reports KindNull alongside
// an error.
func KindOf(v any) (Kind, error) {
	switch v.(type) {
	case nil:
		return KindNull, nil
	case bool:
		return KindBool, nil
	case int64:
		return KindInt, nil
	case float64:
		return KindFloat, nil
	case string:
		return KindStr, nil
	case []any:
		return KindList, nil
	case map[string]any:
		return KindDict, nil
	default:
		return KindNull, fmt.Errorf("unsupported value type %T", v)
	}
}

// CheckKind verifies that a resolved value's kind is one of the declared
// kinds. An int declaration does not accept float64 values and vice versa:
// the distinction is preserved from the raw input, so 1.0 is a float even
// though it is numerically integral.
func CheckKind(v any, kinds []Kind) error {
	if len(kinds) == 0 {
		return nil
	}
	actual, err := KindOf(v)
	if err != nil {
		return err
	}
	for _, k := range kinds {
		if k == actual {
			return nil
		}
	}
	return fmt.Errorf("value has type %s, expected %s", actual, KindSetString(kinds))
}

// KindSetString formats a declared kind set for error messages.
func KindSetString(kinds []Kind) string {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	if len(names) == 1 {
		return names[0]
	}
	return "one of " + strings.Join(names, ", ")
}
