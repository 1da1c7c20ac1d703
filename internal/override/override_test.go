package override

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdd(t *testing.T) {
	t.Run("duplicate target conflicts", func(t *testing.T) {
		s := NewSpec(nil)
		require.NoError(t, s.Add("b.c", 1))
		err := s.Add("b.c", 2)

		var conflict *ConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, "b.c", conflict.Target)
	})

	t.Run("targets are canonicalized before conflict checks", func(t *testing.T) {
		s := NewSpec(nil)
		require.NoError(t, s.Add("a", 1))
		err := s.Add("a.", 2)

		var conflict *ConflictError
		require.ErrorAs(t, err, &conflict)
	})

	t.Run("relative targets are rejected", func(t *testing.T) {
		s := NewSpec(nil)
		err := s.Add("..a", 1)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must not ascend")
	})

	t.Run("the empty target addresses the root", func(t *testing.T) {
		s := NewSpec(nil)
		require.NoError(t, s.AddMap(map[string]any{"": map[string]any{"a": 1}}))
		got, ok := s.Take("")
		require.True(t, ok)
		assert.Equal(t, map[string]any{"a": int64(1)}, got)
	})
}

func TestAddAssignments(t *testing.T) {
	t.Run("statements split on semicolons and newlines", func(t *testing.T) {
		s := NewSpec(nil)
		require.NoError(t, s.AddAssignments("lr = 0.1; model = \"resnet\"\nepochs = 10"))

		lr, ok := s.Take("lr")
		require.True(t, ok)
		assert.Equal(t, 0.1, lr)

		model, ok := s.Take("model")
		require.True(t, ok)
		assert.Equal(t, "resnet", model)

		epochs, ok := s.Take("epochs")
		require.True(t, ok)
		assert.Equal(t, int64(10), epochs)
	})

	t.Run("separators inside strings are literal", func(t *testing.T) {
		s := NewSpec(nil)
		require.NoError(t, s.AddAssignments(`msg = "a;b"`))
		got, ok := s.Take("msg")
		require.True(t, ok)
		assert.Equal(t, "a;b", got)
	})

	t.Run("expressions may use registry functions", func(t *testing.T) {
		s := NewSpec(nil)
		require.NoError(t, s.AddAssignments(`sizes = [for n in [1, 2, 3]: n * 2]; name = upper("ada")`))

		sizes, ok := s.Take("sizes")
		require.True(t, ok)
		assert.Equal(t, []any{int64(2), int64(4), int64(6)}, sizes)

		name, ok := s.Take("name")
		require.True(t, ok)
		assert.Equal(t, "ADA", name)
	})

	t.Run("node context is unavailable", func(t *testing.T) {
		s := NewSpec(nil)
		err := s.AddAssignments(`a = ref("b")`)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"ref"`)
	})

	t.Run("missing assignment fails", func(t *testing.T) {
		s := NewSpec(nil)
		require.Error(t, s.AddAssignments("just-a-token"))
	})

	t.Run("conflicts across input forms are caught", func(t *testing.T) {
		s := NewSpec(nil)
		require.NoError(t, s.AddMap(map[string]any{"a": 1}))
		err := s.AddAssignments("a = 2")

		var conflict *ConflictError
		require.ErrorAs(t, err, &conflict)
	})
}

func TestTakeConsumes(t *testing.T) {
	s := NewSpec(nil)
	require.NoError(t, s.AddMap(map[string]any{"a": 1, "b": 2}))

	got, ok := s.Take("a")
	require.True(t, ok)
	assert.Equal(t, int64(1), got)

	_, ok = s.Take("a")
	assert.False(t, ok, "an override applies at one definition point only")

	_, ok = s.Take("missing")
	assert.False(t, ok)

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []string{"a"}, s.Applied())
	assert.Equal(t, []string{"b"}, s.Unused())
	assert.Equal(t, []string{"a", "b"}, s.Targets())
}
