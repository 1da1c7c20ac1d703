package modifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solconf/solconf/internal/tree"
)

func TestRegisterDuplicatePanics(t *testing.T) {
	r := NewRegistry()
	f := func(args []any) (tree.Modifier, error) { return nil, nil }
	r.Register("custom", f)
	assert.PanicsWithValue(t, "modifier with name 'custom' already registered", func() {
		r.Register("custom", f)
	})
}

func TestBuildUnknownSuggests(t *testing.T) {
	_, err := Default().Build("promot", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"promote"`)
}

func TestFactoryArgValidation(t *testing.T) {
	tests := []struct {
		name      string
		modifier  string
		args      []any
		expectErr bool
	}{
		{name: "hidden takes no args", modifier: "hidden", args: []any{int64(1)}, expectErr: true},
		{name: "promote takes no args", modifier: "promote", args: []any{"x"}, expectErr: true},
		{name: "required takes no args", modifier: "required", args: []any{"x"}, expectErr: true},
		{name: "rename needs its key", modifier: "rename", args: nil, expectErr: true},
		{name: "rename rejects non-strings", modifier: "rename", args: []any{int64(42)}, expectErr: true},
		{name: "rename accepts a string", modifier: "rename", args: []any{"other"}},
		{name: "extends needs a target", modifier: "extends", args: nil, expectErr: true},
		{name: "extends rejects a malformed target", modifier: "extends", args: []any{"0bad"}, expectErr: true},
		{name: "extends accepts a dotted path", modifier: "extends", args: []any{"..base.spec"}},
		{name: "choices needs its default", modifier: "choices", args: nil, expectErr: true},
		{name: "load without a prefix", modifier: "load"},
		{name: "load with prefix segments", modifier: "load", args: []any{"models", "v2"}},
		{name: "load rejects non-string segments", modifier: "load", args: []any{"models", int64(2)}, expectErr: true},
		{name: "loadcopy with a prefix", modifier: "loadcopy", args: []any{"models"}},
	}

	r := Default()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := r.Build(tt.modifier, tt.args)
			if tt.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.modifier, m.Name())
		})
	}
}

func TestNames(t *testing.T) {
	names := Default().Names()
	assert.Contains(t, names, "hidden")
	assert.Contains(t, names, "extends")
	assert.Contains(t, names, "loadcopy")
	assert.IsIncreasing(t, names)
}
