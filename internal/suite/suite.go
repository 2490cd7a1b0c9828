// Package suite loads declarative differential test suites and orchestrates
// their execution across every configured backend.
package suite

import (
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/GeorgePearse/TranspileAI/internal/errors"
)

// Backend locates one candidate implementation of the execution service.
type Backend struct {
	// Host of the backend's API server.
	Host string `yaml:"host"`

	// Port of the backend's API server.
	Port int `yaml:"port"`
}

// TestCase is one declared differential test. It is read-only once loaded.
type TestCase struct {
	// Name identifies the test in reports.
	Name string `yaml:"name"`

	// Description optionally explains the test.
	Description string `yaml:"description"`

	// Method is the registered function name to invoke on every backend.
	Method string `yaml:"method"`

	// Arguments is the argument object shared by all backends.
	Arguments any `yaml:"arguments"`

	// Stateful requests a dedicated execution context around the invocation.
	Stateful bool `yaml:"stateful"`

	// InitialState optionally seeds the created context (stateful tests only).
	InitialState string `yaml:"initial_state"`

	// Expected optionally pins the value all backends must agree on.
	// A nil pointer means no expectation was declared; a pointer to nil means
	// the backends are expected to return JSON null.
	Expected *any `yaml:"expected"`
}

// Suite is an ordered list of test cases plus the backends they run against.
type Suite struct {
	// Name identifies the suite in reports.
	Name string `yaml:"name"`

	// Description optionally explains the suite.
	Description string `yaml:"description"`

	// Backends maps suite labels to backend locations.
	Backends map[string]Backend `yaml:"backends"`

	// Tests holds the cases in declared order.
	Tests []TestCase `yaml:"tests"`
}

// suiteSchema validates the shape of a suite document before decoding, so
// malformed files fail with a pointed message instead of half-decoded state.
const suiteSchema = `{
	"type": "object",
	"required": ["name", "backends", "tests"],
	"properties": {
		"name": {"type": "string", "minLength": 1},
		"description": {"type": "string"},
		"backends": {
			"type": "object",
			"minProperties": 1,
			"additionalProperties": {
				"type": "object",
				"required": ["host", "port"],
				"properties": {
					"host": {"type": "string", "minLength": 1},
					"port": {"type": "integer", "minimum": 1, "maximum": 65535}
				}
			}
		},
		"tests": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["name", "method"],
				"properties": {
					"name": {"type": "string", "minLength": 1},
					"description": {"type": "string"},
					"method": {"type": "string", "minLength": 1},
					"arguments": {},
					"stateful": {"type": "boolean"},
					"initial_state": {"type": "string"},
					"expected": {}
				}
			}
		}
	}
}`

// Load reads, validates and decodes the suite file at path.
func Load(path string) (*Suite, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("%w: path cannot be empty", errors.ErrSuiteLoadFailed)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read suite file (%s): %w", errors.ErrSuiteLoadFailed, path, err)
	}

	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: failed to parse suite YAML (%s): %w", errors.ErrSuiteLoadFailed, path, err)
	}
	doc = normalize(doc)

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(suiteSchema),
		gojsonschema.NewGoLoader(doc),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to validate suite (%s): %w", errors.ErrSuiteLoadFailed, path, err)
	}
	if !result.Valid() {
		issues := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			issues = append(issues, desc.String())
		}
		return nil, fmt.Errorf("%w: invalid suite (%s): %s", errors.ErrSuiteLoadFailed, path, strings.Join(issues, "; "))
	}

	var s Suite
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("%w: failed to decode suite (%s): %w", errors.ErrSuiteLoadFailed, path, err)
	}

	// Anchor declared values in the JSON model so comparison against decoded
	// backend responses is structural, not representation-dependent.
	for i := range s.Tests {
		s.Tests[i].Arguments = normalize(s.Tests[i].Arguments)
		if s.Tests[i].Expected != nil {
			normalized := normalize(*s.Tests[i].Expected)
			s.Tests[i].Expected = &normalized
		}
	}

	return &s, nil
}

// normalize converts a YAML-decoded value into the JSON value model:
// map[string]any objects, []any arrays, float64 numbers, string, bool, nil.
func normalize(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = normalize(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[fmt.Sprintf("%v", k)] = normalize(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalize(item)
		}
		return out
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case uint64:
		return float64(val)
	case float32:
		return float64(val)
	default:
		return val
	}
}
