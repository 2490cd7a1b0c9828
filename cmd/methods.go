package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/GeorgePearse/TranspileAI/internal/client"
	"github.com/GeorgePearse/TranspileAI/internal/cmd"
	"github.com/GeorgePearse/TranspileAI/internal/cmd/output"
	"github.com/GeorgePearse/TranspileAI/internal/printer"
	"github.com/GeorgePearse/TranspileAI/internal/registry"
)

// MethodsCmd should be used to represent the 'methods' command.
type MethodsCmd struct {
	*cmd.BaseCmd
	Host   string
	Port   int
	Prefix string
	Format string
}

// NewMethodsCmd creates a newly configured (Cobra) command.
func NewMethodsCmd(baseCmd *cmd.BaseCmd) *cobra.Command {
	c := &MethodsCmd{
		BaseCmd: baseCmd,
	}

	cobraCommand := &cobra.Command{
		Use:   "methods",
		Short: "Lists the methods exposed by a running backend.",
		RunE:  c.run,
	}

	cobraCommand.Flags().StringVar(&c.Host, "host", "localhost", "Host of the backend.")
	cobraCommand.Flags().IntVar(&c.Port, "port", 8090, "Port of the backend.")
	cobraCommand.Flags().StringVar(&c.Prefix, "prefix", "", "Only list methods whose name starts with this prefix.")
	cobraCommand.Flags().StringVar(&c.Format, "format", "text", "Output format: text or json.")

	return cobraCommand
}

// run is configured (via NewMethodsCmd) to be called by the Cobra framework when the command is executed.
// It may return an error (or nil, when there is no error).
func (c *MethodsCmd) run(_ *cobra.Command, _ []string) error {
	logger := c.Logger()

	backend, err := client.NewClient(logger, "backend", c.Host, c.Port)
	if err != nil {
		return err
	}

	methods, err := backend.ListMethods(context.Background(), c.Prefix)
	if err != nil {
		return err
	}

	var handler output.Handler[registry.Metadata]
	switch strings.ToLower(strings.TrimSpace(c.Format)) {
	case "json":
		handler = output.NewJSONHandler[registry.Metadata](os.Stdout, 2)
	case "text":
		handler = output.NewTextHandler[registry.Metadata](os.Stdout, printer.NewMethodsPrinter())
	default:
		return fmt.Errorf("unsupported format '%s' (expected 'text' or 'json')", c.Format)
	}

	return handler.HandleResults(methods...)
}
