package compare

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/GeorgePearse/TranspileAI/internal/driver"
)

func ok(v any) driver.Outcome {
	return driver.Outcome{Value: v}
}

func failed(msg string) driver.Outcome {
	return driver.Outcome{Error: msg}
}

func TestCompare(t *testing.T) {
	t.Parallel()

	order := []string{"go", "rust"}

	tests := []struct {
		name            string
		outcomes        map[string]driver.Outcome
		order           []string
		expected        any
		hasExpected     bool
		expectedPassed  bool
		expectedClass   Classification
		expectedMessage []string
	}{
		{
			name: "all backends failed",
			outcomes: map[string]driver.Outcome{
				"go":   failed("division by zero"),
				"rust": failed("attempt to divide by zero"),
			},
			order:         order,
			expectedClass: ClassAllFailed,
			expectedMessage: []string{
				"all backends failed:",
				"go: division by zero",
				"rust: attempt to divide by zero",
			},
		},
		{
			name: "one backend failed",
			outcomes: map[string]driver.Outcome{
				"go":   ok(float64(5)),
				"rust": failed("method not found: add"),
			},
			order:           order,
			expectedClass:   ClassBackendFailed,
			expectedMessage: []string{"rust failed: method not found: add"},
		},
		{
			name: "values disagree",
			outcomes: map[string]driver.Outcome{
				"go":   ok(float64(5)),
				"rust": ok(float64(6)),
			},
			order:         order,
			expectedClass: ClassValueMismatch,
			expectedMessage: []string{
				"results differ:",
				"go: 5",
				"rust: 6",
			},
		},
		{
			name: "agreement but expected disagrees",
			outcomes: map[string]driver.Outcome{
				"go":   ok(float64(5)),
				"rust": ok(float64(5)),
			},
			order:         order,
			expected:      float64(6),
			hasExpected:   true,
			expectedClass: ClassExpectedMismatch,
			expectedMessage: []string{
				"result does not match expected:",
				"expected: 6",
				"got: 5",
			},
		},
		{
			name: "agreement without expectation passes",
			outcomes: map[string]driver.Outcome{
				"go":   ok(float64(5)),
				"rust": ok(float64(5)),
			},
			order:          order,
			expectedPassed: true,
			expectedClass:  ClassPass,
		},
		{
			name: "agreement matching expectation passes",
			outcomes: map[string]driver.Outcome{
				"go":   ok(float64(55)),
				"rust": ok(float64(55)),
			},
			order:          order,
			expected:       float64(55),
			hasExpected:    true,
			expectedPassed: true,
			expectedClass:  ClassPass,
		},
		{
			name: "failure precedence over mismatch",
			outcomes: map[string]driver.Outcome{
				"go":   ok(float64(5)),
				"rust": failed("boom"),
				"py":   ok(float64(7)),
			},
			order:           []string{"go", "py", "rust"},
			expected:        float64(9),
			hasExpected:     true,
			expectedClass:   ClassBackendFailed,
			expectedMessage: []string{"rust failed: boom"},
		},
		{
			name: "expected null matches null result",
			outcomes: map[string]driver.Outcome{
				"go":   ok(nil),
				"rust": ok(nil),
			},
			order:          order,
			expected:       nil,
			hasExpected:    true,
			expectedPassed: true,
			expectedClass:  ClassPass,
		},
		{
			name: "single backend agreeing with itself",
			outcomes: map[string]driver.Outcome{
				"go": ok("hello"),
			},
			order:          []string{"go"},
			expectedPassed: true,
			expectedClass:  ClassPass,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			verdict := Compare(tc.outcomes, tc.order, tc.expected, tc.hasExpected)
			require.Equal(t, tc.expectedPassed, verdict.Passed)
			require.Equal(t, tc.expectedClass, verdict.Classification)
			for _, fragment := range tc.expectedMessage {
				require.Contains(t, verdict.Message, fragment)
			}
			if tc.expectedPassed {
				require.Empty(t, verdict.Message)
			}
		})
	}
}

func TestCompare_MessageOrderIsStable(t *testing.T) {
	t.Parallel()

	outcomes := map[string]driver.Outcome{
		"a": failed("first"),
		"b": failed("second"),
		"c": failed("third"),
	}

	verdict := Compare(outcomes, []string{"a", "b", "c"}, nil, false)
	require.Equal(t, ClassAllFailed, verdict.Classification)
	require.Equal(t, "all backends failed:\na: first\nb: second\nc: third", verdict.Message)
}
