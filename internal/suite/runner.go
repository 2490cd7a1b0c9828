package suite

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/hashicorp/go-hclog"

	"github.com/GeorgePearse/TranspileAI/internal/client"
	"github.com/GeorgePearse/TranspileAI/internal/compare"
	"github.com/GeorgePearse/TranspileAI/internal/driver"
	"github.com/GeorgePearse/TranspileAI/internal/errors"
)

// TestResult is the recorded outcome of one test case across all backends.
// It is produced once per case and never mutated afterwards.
type TestResult struct {
	// Name of the test case.
	Name string

	// Verdict is the comparator's classification for this case.
	Verdict compare.Verdict

	// Outcomes holds each backend's raw outcome, keyed by suite label.
	Outcomes map[string]driver.Outcome
}

// Summary aggregates a whole suite run.
type Summary struct {
	// SuiteName is the name of the executed suite.
	SuiteName string

	// Backends is the fixed backend order used for this run.
	Backends []string

	// Results holds one entry per test case, in declared order.
	Results []TestResult

	// Passed counts test cases whose verdict passed.
	Passed int

	// Failed counts test cases whose verdict failed.
	Failed int
}

// Success reports whether every test case passed.
func (s *Summary) Success() bool {
	return s.Failed == 0
}

// Runner orchestrates one suite: it connects to every backend up front, runs
// the cases in declared order, and aggregates the verdicts.
// NewRunner should be used to create instances of Runner.
type Runner struct {
	logger   hclog.Logger
	suite    *Suite
	backends map[string]*client.Client
	driver   *driver.Driver
}

// NewRunner builds a client per declared backend and the driver over them.
func NewRunner(logger hclog.Logger, s *Suite) (*Runner, error) {
	if logger == nil || reflect.ValueOf(logger).IsNil() {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if s == nil {
		return nil, fmt.Errorf("suite cannot be nil")
	}
	if len(s.Backends) == 0 {
		return nil, fmt.Errorf("suite '%s' declares no backends", s.Name)
	}

	l := logger.Named("runner")

	backends := make(map[string]*client.Client, len(s.Backends))
	for label, b := range s.Backends {
		c, err := client.NewClient(l, label, b.Host, b.Port)
		if err != nil {
			return nil, fmt.Errorf("failed to create client for backend '%s': %w", label, err)
		}
		backends[label] = c
	}

	drv, err := driver.NewDriver(l, backends)
	if err != nil {
		return nil, fmt.Errorf("failed to create driver: %w", err)
	}

	return &Runner{
		logger:   l,
		suite:    s,
		backends: backends,
		driver:   drv,
	}, nil
}

// Connect verifies every declared backend answers the API. Any unreachable
// backend aborts the run before test execution begins.
func (r *Runner) Connect(ctx context.Context) error {
	for _, label := range r.driver.Order() {
		b := r.suite.Backends[label]
		r.logger.Info("Connecting to backend", "backend", label, "host", b.Host, "port", b.Port)
		if err := r.backends[label].Ping(ctx); err != nil {
			return fmt.Errorf("%w: backend '%s' (%s:%d): %w", errors.ErrBackendUnreachable, label, b.Host, b.Port, err)
		}
	}
	return nil
}

// Run executes every test case in declared order and returns the aggregated
// summary. A per-case internal failure becomes a failed TestResult with a
// diagnostic message rather than aborting the suite.
func (r *Runner) Run(ctx context.Context) *Summary {
	summary := &Summary{
		SuiteName: r.suite.Name,
		Backends:  r.driver.Order(),
		Results:   make([]TestResult, 0, len(r.suite.Tests)),
	}

	for _, tc := range r.suite.Tests {
		r.logger.Info("Running test", "test", tc.Name, "method", tc.Method)

		result := r.runCase(ctx, tc)
		if result.Verdict.Passed {
			summary.Passed++
		} else {
			summary.Failed++
		}
		summary.Results = append(summary.Results, result)
	}

	r.logger.Info("Suite finished", "suite", r.suite.Name, "passed", summary.Passed, "failed", summary.Failed)

	return summary
}

// runCase drives one test case through the driver and comparator.
func (r *Runner) runCase(ctx context.Context, tc TestCase) TestResult {
	argsJSON, err := json.Marshal(tc.Arguments)
	if err != nil {
		return TestResult{
			Name: tc.Name,
			Verdict: compare.Verdict{
				Classification: compare.ClassAllFailed,
				Message:        fmt.Sprintf("test execution failed: cannot encode arguments: %v", err),
			},
		}
	}

	outcomes := r.driver.Run(ctx, driver.Case{
		Method:        tc.Method,
		ArgumentsJSON: string(argsJSON),
		Stateful:      tc.Stateful,
		InitialState:  tc.InitialState,
	})

	var expected any
	hasExpected := tc.Expected != nil
	if hasExpected {
		expected = *tc.Expected
	}

	verdict := compare.Compare(outcomes, r.driver.Order(), expected, hasExpected)

	return TestResult{
		Name:     tc.Name,
		Verdict:  verdict,
		Outcomes: outcomes,
	}
}
