package native

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestCtyRoundTrip(t *testing.T) {
	testCases := []struct {
		name string
		in   any
	}{
		{"null", nil},
		{"bool", true},
		{"int", int64(42)},
		{"float", float64(2.5)},
		{"string", "hello"},
		{"list", []any{int64(1), "two", []any{false}}},
		{"empty list", []any{}},
		{"dict", map[string]any{"a": int64(1), "b": map[string]any{"c": nil}}},
		{"empty dict", map[string]any{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cv, err := ToCty(tc.in)
			require.NoError(t, err)

			back, err := FromCty(cv)
			require.NoError(t, err)
			assert.Equal(t, tc.in, back)
		})
	}
}

func TestFromCtyNumbers(t *testing.T) {
	// Arithmetic inside the evaluator works on cty.Number; an integral
	// result must land back as int64 so declared int types keep working.
	got, err := FromCty(cty.NumberFloatVal(3.0))
	require.NoError(t, err)
	assert.Equal(t, int64(3), got)

	got, err = FromCty(cty.NumberFloatVal(3.5))
	require.NoError(t, err)
	assert.Equal(t, 3.5, got)
}

func TestFromCtyRejectsUnknown(t *testing.T) {
	_, err := FromCty(cty.UnknownVal(cty.String))
	require.Error(t, err)
}

func TestToCtyRejectsForeignTypes(t *testing.T) {
	_, err := ToCty(int32(1))
	require.Error(t, err)
}
