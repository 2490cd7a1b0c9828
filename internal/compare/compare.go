// Package compare classifies the per-backend outcomes of one differential
// test into a verdict. The five-way precedence order is load-bearing: errors
// are reported before value mismatches, and agreement is still checked
// against a declared expected value.
package compare

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/GeorgePearse/TranspileAI/internal/driver"
)

// Classification names the verdict category for one test case.
type Classification string

const (
	// ClassAllFailed means every backend errored.
	ClassAllFailed Classification = "all-failed"

	// ClassBackendFailed means some but not all backends errored.
	ClassBackendFailed Classification = "backend-failed"

	// ClassValueMismatch means no backend errored but the values disagree.
	ClassValueMismatch Classification = "value-mismatch"

	// ClassExpectedMismatch means the backends agree but the common value
	// differs from the declared expected value.
	ClassExpectedMismatch Classification = "expected-mismatch"

	// ClassPass means the backends agree and match any declared expectation.
	ClassPass Classification = "pass"
)

// Verdict is the classified outcome the comparator produces for one test.
// It is always produced; comparison never fails.
type Verdict struct {
	// Passed reports whether the test case passed.
	Passed bool

	// Classification names the verdict category.
	Classification Classification

	// Message explains a failed verdict in human-readable form.
	Message string
}

// Compare classifies the outcomes collected for one test case. Backends are
// inspected in the given order so messages are stable across runs; expected
// is the optional declared value the agreed-upon result must match.
func Compare(outcomes map[string]driver.Outcome, order []string, expected any, hasExpected bool) Verdict {
	var failed []string
	for _, label := range order {
		if outcomes[label].Failed() {
			failed = append(failed, label)
		}
	}

	// 1. Every backend errored.
	if len(failed) == len(order) {
		lines := make([]string, 0, len(order))
		for _, label := range order {
			lines = append(lines, fmt.Sprintf("%s: %s", label, outcomes[label].Error))
		}
		return Verdict{
			Classification: ClassAllFailed,
			Message:        "all backends failed:\n" + strings.Join(lines, "\n"),
		}
	}

	// 2. Some but not all backends errored.
	if len(failed) > 0 {
		lines := make([]string, 0, len(failed))
		for _, label := range failed {
			lines = append(lines, fmt.Sprintf("%s failed: %s", label, outcomes[label].Error))
		}
		return Verdict{
			Classification: ClassBackendFailed,
			Message:        strings.Join(lines, "\n"),
		}
	}

	// 3. No errors, but the returned values disagree.
	reference := outcomes[order[0]].Value
	for _, label := range order[1:] {
		if !Equal(reference, outcomes[label].Value) {
			lines := make([]string, 0, len(order))
			for _, l := range order {
				lines = append(lines, fmt.Sprintf("%s: %s", l, renderValue(outcomes[l].Value)))
			}
			return Verdict{
				Classification: ClassValueMismatch,
				Message:        "results differ:\n" + strings.Join(lines, "\n"),
			}
		}
	}

	// 4. Agreement, but a declared expected value disagrees.
	if hasExpected && !Equal(expected, reference) {
		return Verdict{
			Classification: ClassExpectedMismatch,
			Message: fmt.Sprintf(
				"result does not match expected:\nexpected: %s\ngot: %s",
				renderValue(expected), renderValue(reference),
			),
		}
	}

	// 5. Pass.
	return Verdict{
		Passed:         true,
		Classification: ClassPass,
	}
}

// renderValue formats a JSON-model value for verdict messages.
func renderValue(v any) string {
	encoded, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(encoded)
}
