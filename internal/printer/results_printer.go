// Package printer renders suite reports and method listings for the CLI.
package printer

import (
	"fmt"
	"io"
	"strings"

	"github.com/GeorgePearse/TranspileAI/internal/cmd/output"
	"github.com/GeorgePearse/TranspileAI/internal/suite"
)

const separator = "────────────────────────────────────────────────────────────────────────────"

// ResultsPrinter renders one suite summary as a human-readable report:
// a ✓/✗ line per test, latency per backend, and the failure diagnostics.
type ResultsPrinter struct {
	suiteName  string
	backends   []string
	headerFunc output.WriteFunc[suite.TestResult]
	footerFunc output.WriteFunc[suite.TestResult]
}

// NewResultsPrinter creates a printer for the given suite run.
func NewResultsPrinter(suiteName string, backends []string) *ResultsPrinter {
	p := &ResultsPrinter{
		suiteName: suiteName,
		backends:  backends,
	}
	p.headerFunc = p.defaultHeader()
	return p
}

func (p *ResultsPrinter) Header(w io.Writer, count int) {
	if p.headerFunc != nil {
		p.headerFunc(w, count)
	}
}

func (p *ResultsPrinter) Item(w io.Writer, result suite.TestResult) error {
	if result.Verdict.Passed {
		_, _ = fmt.Fprintf(w, "\n  ✓ %s\n", result.Name)
		if line := p.latencyLine(result); line != "" {
			_, _ = fmt.Fprintf(w, "    ⏱  %s\n", line)
		}
		return nil
	}

	_, _ = fmt.Fprintf(w, "\n  ✗ %s (%s)\n", result.Name, result.Verdict.Classification)
	for _, line := range strings.Split(result.Verdict.Message, "\n") {
		_, _ = fmt.Fprintf(w, "    %s\n", line)
	}

	return nil
}

func (p *ResultsPrinter) Footer(w io.Writer, count int) {
	if p.footerFunc != nil {
		p.footerFunc(w, count)
	}
}

// SetFooter can be used to configure the Footer function.
func (p *ResultsPrinter) SetFooter(fn output.WriteFunc[suite.TestResult]) {
	p.footerFunc = fn
}

// SummaryFooter returns a footer reporting the pass/fail counts.
func SummaryFooter(passed, failed int) output.WriteFunc[suite.TestResult] {
	return func(w io.Writer, count int) {
		_, _ = fmt.Fprintln(w, "")
		_, _ = fmt.Fprintln(w, separator)
		_, _ = fmt.Fprintf(w, "Summary: %d/%d passed\n", passed, passed+failed)
		if failed > 0 {
			_, _ = fmt.Fprintf(w, "  %d test(s) failed\n", failed)
		}
		_, _ = fmt.Fprintln(w, separator)
	}
}

func (p *ResultsPrinter) defaultHeader() output.WriteFunc[suite.TestResult] {
	return func(w io.Writer, count int) {
		_, _ = fmt.Fprintln(w, separator)
		_, _ = fmt.Fprintf(w, "Test Suite: %s\n", p.suiteName)
		_, _ = fmt.Fprintln(w, separator)
	}
}

// latencyLine renders the per-backend latencies in fixed backend order.
func (p *ResultsPrinter) latencyLine(result suite.TestResult) string {
	parts := make([]string, 0, len(p.backends))
	for _, label := range p.backends {
		outcome, ok := result.Outcomes[label]
		if !ok || outcome.LatencyUs == nil {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %dμs", label, *outcome.LatencyUs))
	}
	return strings.Join(parts, " | ")
}

// PrintSummary renders the whole report for a suite run.
func PrintSummary(w io.Writer, summary *suite.Summary) error {
	p := NewResultsPrinter(summary.SuiteName, summary.Backends)
	p.SetFooter(SummaryFooter(summary.Passed, summary.Failed))

	handler := output.NewTextHandler[suite.TestResult](w, p)
	return handler.HandleResults(summary.Results...)
}
