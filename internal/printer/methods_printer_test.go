package printer

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/GeorgePearse/TranspileAI/internal/cmd/output"
	"github.com/GeorgePearse/TranspileAI/internal/registry"
)

func TestMethodsPrinter(t *testing.T) {
	t.Parallel()

	entries := []registry.Metadata{
		{
			Name:           "add",
			Description:    "Add two numbers",
			ParameterTypes: []string{"int", "int"},
			ReturnType:     "int",
		},
		{
			Name:       "counter_increment",
			IsStateful: true,
			ReturnType: "int",
		},
	}

	var buf bytes.Buffer
	handler := output.NewTextHandler[registry.Metadata](&buf, NewMethodsPrinter())
	require.NoError(t, handler.HandleResults(entries...))

	out := buf.String()
	require.Contains(t, out, "Registered methods: 2")
	require.Contains(t, out, "add(int, int) -> int")
	require.Contains(t, out, "Add two numbers")
	require.Contains(t, out, "counter_increment() -> int")
	require.Contains(t, out, "stateful")
}

func TestMethodsPrinter_Empty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	handler := output.NewTextHandler[registry.Metadata](&buf, NewMethodsPrinter())
	require.NoError(t, handler.HandleResults())
	require.Equal(t, "No items found\n", buf.String())
}
