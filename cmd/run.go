package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/GeorgePearse/TranspileAI/internal/cmd"
	"github.com/GeorgePearse/TranspileAI/internal/printer"
	"github.com/GeorgePearse/TranspileAI/internal/suite"
)

// RunCmd should be used to represent the 'run' command.
type RunCmd struct {
	*cmd.BaseCmd
	Suite   string
	Verbose bool
}

// NewRunCmd creates a newly configured (Cobra) command.
func NewRunCmd(baseCmd *cmd.BaseCmd) *cobra.Command {
	c := &RunCmd{
		BaseCmd: baseCmd,
	}

	cobraCommand := &cobra.Command{
		Use:   "run",
		Short: "Runs a differential test suite against every configured backend.",
		Long: `Loads a declarative test suite, connects to every declared backend, drives
each backend through the identical sequence of invocations, and reports
pass/fail based on cross-backend agreement (and, where declared, a fixed
expected value). The command fails if any test fails.`,
		RunE: c.run,
	}

	cobraCommand.Flags().StringVarP(&c.Suite, "suite", "s", "", "Path to the test suite YAML file.")
	cobraCommand.Flags().BoolVarP(&c.Verbose, "verbose", "v", false, "Enable debug logging.")
	_ = cobraCommand.MarkFlagRequired("suite")

	return cobraCommand
}

// run is configured (via NewRunCmd) to be called by the Cobra framework when the command is executed.
// It may return an error (or nil, when there is no error).
func (c *RunCmd) run(_ *cobra.Command, _ []string) error {
	logger := c.Logger()
	if c.Verbose {
		logger.SetLevel(hclog.Debug)
	}

	s, err := suite.Load(c.Suite)
	if err != nil {
		return err
	}

	logger.Info("Loaded test suite", "suite", s.Name, "backends", len(s.Backends), "tests", len(s.Tests))
	if s.Description != "" {
		logger.Info("Suite description", "description", s.Description)
	}

	runner, err := suite.NewRunner(logger, s)
	if err != nil {
		return err
	}

	ctx := context.Background()
	if err := runner.Connect(ctx); err != nil {
		return err
	}

	summary := runner.Run(ctx)

	if err := printer.PrintSummary(os.Stdout, summary); err != nil {
		return fmt.Errorf("failed to print report: %w", err)
	}

	if !summary.Success() {
		return fmt.Errorf("%d of %d tests failed", summary.Failed, summary.Passed+summary.Failed)
	}

	return nil
}
