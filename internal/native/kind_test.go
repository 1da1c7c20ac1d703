package native

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	for name, want := range kindNames {
		got, err := ParseKind(want)
		require.NoError(t, err)
		assert.Equal(t, name, got)
	}

	_, err := ParseKind("decimal")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decimal")
}

func TestKindOf(t *testing.T) {
	testCases := []struct {
		name     string
		in       any
		expected Kind
	}{
		{"null", nil, KindNull},
		{"bool", true, KindBool},
		{"int", int64(3), KindInt},
		{"float", float64(3), KindFloat},
		{"str", "x", KindStr},
		{"list", []any{}, KindList},
		{"dict", map[string]any{}, KindDict},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := KindOf(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}

	_, err := KindOf(int32(1))
	require.Error(t, err, "unnormalized values have no kind")
}

func TestCheckKind(t *testing.T) {
	// An integral float does not satisfy an int constraint.
	err := CheckKind(float64(1.0), []Kind{KindInt})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "float")

	require.NoError(t, CheckKind(int64(1), []Kind{KindInt}))
	require.NoError(t, CheckKind("x", []Kind{KindInt, KindStr}))
	require.NoError(t, CheckKind(struct{}{}, nil), "empty constraint set accepts anything representable later")

	err = CheckKind(nil, []Kind{KindStr, KindDict})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "one of str, dict")
}
