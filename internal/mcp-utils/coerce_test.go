package mcputils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for CoerceBindArguments:
// - Properly typed arguments bind unchanged
// - String-encoded booleans, numbers and JSON arrays are coerced
// - Comma-separated strings split into slices
// - Empty strings and nil values leave zero values
// - JSON objects decode into nested structs
// - Unknown fields are ignored, mismatched types are errors

type mockArgumentGetter struct {
	args map[string]any
}

func (m *mockArgumentGetter) GetArguments() map[string]any {
	return m.args
}

type lookupArgs struct {
	Kind       string        `json:"kind"`
	Name       string        `json:"name"`
	ForType    string        `json:"for_type,omitempty"`
	IncludeRaw bool          `json:"include_raw,omitempty"`
	Limit      int           `json:"limit,omitempty"`
	Keywords   []string      `json:"keywords,omitempty"`
	Timeout    time.Duration `json:"timeout,omitempty"`
}

func TestCoerceBindArguments(t *testing.T) {
	t.Parallel()

	t.Run("already proper types", func(t *testing.T) {
		t.Parallel()

		req := &mockArgumentGetter{args: map[string]any{
			"kind":        "impl",
			"name":        "Debug",
			"for_type":    "Point",
			"include_raw": true,
			"limit":       3,
			"keywords":    []string{"struct", "enum"},
		}}

		var got lookupArgs
		require.NoError(t, CoerceBindArguments(req, &got))
		assert.Equal(t, lookupArgs{
			Kind:       "impl",
			Name:       "Debug",
			ForType:    "Point",
			IncludeRaw: true,
			Limit:      3,
			Keywords:   []string{"struct", "enum"},
		}, got)
	})

	t.Run("string encoded values", func(t *testing.T) {
		t.Parallel()

		req := &mockArgumentGetter{args: map[string]any{
			"kind":        "type",
			"name":        "Foo",
			"include_raw": "true",
			"limit":       "10",
			"keywords":    `["struct", "union"]`,
			"timeout":     "2s",
		}}

		var got lookupArgs
		require.NoError(t, CoerceBindArguments(req, &got))
		assert.True(t, got.IncludeRaw)
		assert.Equal(t, 10, got.Limit)
		assert.Equal(t, []string{"struct", "union"}, got.Keywords)
		assert.Equal(t, 2*time.Second, got.Timeout)
	})

	t.Run("comma separated slice", func(t *testing.T) {
		t.Parallel()

		req := &mockArgumentGetter{args: map[string]any{"keywords": "struct,enum"}}

		var got lookupArgs
		require.NoError(t, CoerceBindArguments(req, &got))
		assert.Equal(t, []string{"struct", "enum"}, got.Keywords)
	})

	t.Run("empty and nil values", func(t *testing.T) {
		t.Parallel()

		req := &mockArgumentGetter{args: map[string]any{
			"name":        "Foo",
			"for_type":    "",
			"include_raw": nil,
			"keywords":    "",
			"limit":       nil,
		}}

		var got lookupArgs
		require.NoError(t, CoerceBindArguments(req, &got))
		assert.Equal(t, "Foo", got.Name)
		assert.Empty(t, got.ForType)
		assert.False(t, got.IncludeRaw)
		assert.Empty(t, got.Keywords)
		assert.Zero(t, got.Limit)
	})

	t.Run("JSON object", func(t *testing.T) {
		t.Parallel()

		type nested struct {
			Name   string `json:"name"`
			Target struct {
				Binary string `json:"binary"`
			} `json:"target"`
		}
		req := &mockArgumentGetter{args: map[string]any{
			"name":   "Foo",
			"target": `{"binary": "server"}`,
		}}

		var got nested
		require.NoError(t, CoerceBindArguments(req, &got))
		assert.Equal(t, "server", got.Target.Binary)
	})

	t.Run("unknown fields ignored", func(t *testing.T) {
		t.Parallel()

		req := &mockArgumentGetter{args: map[string]any{"name": "Foo", "extra": 1}}

		var got lookupArgs
		require.NoError(t, CoerceBindArguments(req, &got))
		assert.Equal(t, "Foo", got.Name)
	})

	t.Run("invalid number", func(t *testing.T) {
		t.Parallel()

		req := &mockArgumentGetter{args: map[string]any{"limit": "many"}}

		var got lookupArgs
		assert.Error(t, CoerceBindArguments(req, &got))
	})
}
