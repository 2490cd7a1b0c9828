package registry

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/GeorgePearse/TranspileAI/internal/execctx"
)

func noopHandler(_ *execctx.Context, _ map[string]any) (any, error) {
	return nil, nil
}

func TestRegistry_Register(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		handler     Handler
		meta        Metadata
		expectError string
	}{
		{
			name:    "valid registration",
			handler: noopHandler,
			meta:    Metadata{Name: "add"},
		},
		{
			name:        "empty name",
			handler:     noopHandler,
			meta:        Metadata{Name: ""},
			expectError: "function name cannot be empty",
		},
		{
			name:        "whitespace only name",
			handler:     noopHandler,
			meta:        Metadata{Name: "   "},
			expectError: "function name cannot be empty",
		},
		{
			name:        "nil handler",
			handler:     nil,
			meta:        Metadata{Name: "add"},
			expectError: "handler cannot be nil for function 'add'",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			reg := NewRegistry()
			err := reg.Register(tc.handler, tc.meta)

			if tc.expectError != "" {
				require.Error(t, err)
				require.Contains(t, err.Error(), tc.expectError)
				return
			}
			require.NoError(t, err)

			_, ok := reg.Resolve(tc.meta.Name)
			require.True(t, ok)
		})
	}
}

func TestRegistry_Register_Overwrite(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()

	first := func(_ *execctx.Context, _ map[string]any) (any, error) { return "first", nil }
	second := func(_ *execctx.Context, _ map[string]any) (any, error) { return "second", nil }

	require.NoError(t, reg.Register(first, Metadata{Name: "f", Description: "old"}))
	require.NoError(t, reg.Register(second, Metadata{Name: "f", Description: "new"}))

	h, ok := reg.Resolve("f")
	require.True(t, ok)
	v, err := h(nil, nil)
	require.NoError(t, err)
	require.Equal(t, "second", v)

	m, ok := reg.Lookup("f")
	require.True(t, ok)
	require.Equal(t, "new", m.Description)

	require.Len(t, reg.List(""), 1)
}

func TestRegistry_Resolve_CaseSensitive(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	require.NoError(t, reg.Register(noopHandler, Metadata{Name: "add"}))

	_, ok := reg.Resolve("Add")
	require.False(t, ok)

	_, ok = reg.Resolve("add")
	require.True(t, ok)

	_, ok = reg.Resolve("missing")
	require.False(t, ok)
}

func TestRegistry_List(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	for _, name := range []string{"multiply", "add", "counter_get", "counter_increment"} {
		require.NoError(t, reg.Register(noopHandler, Metadata{Name: name}))
	}

	tests := []struct {
		name          string
		prefix        string
		expectedNames []string
	}{
		{
			name:          "empty prefix returns all sorted",
			prefix:        "",
			expectedNames: []string{"add", "counter_get", "counter_increment", "multiply"},
		},
		{
			name:          "prefix filters",
			prefix:        "counter_",
			expectedNames: []string{"counter_get", "counter_increment"},
		},
		{
			name:          "prefix with no matches",
			prefix:        "zzz",
			expectedNames: []string{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			entries := reg.List(tc.prefix)
			names := make([]string, 0, len(entries))
			for _, e := range entries {
				names = append(names, e.Name)
			}
			require.Equal(t, tc.expectedNames, names)
		})
	}
}
