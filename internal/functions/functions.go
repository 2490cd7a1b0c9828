// Package functions holds the builtin function library served by the Go
// backend. Every candidate backend implements this same library; the
// differential suites drive all of them through identical invocations.
package functions

import (
	"fmt"
	"math"

	"github.com/GeorgePearse/TranspileAI/internal/execctx"
	"github.com/GeorgePearse/TranspileAI/internal/registry"
)

const counterKey = "counter"

// Register populates reg with the builtin library.
// It is called once from the composition step at process start.
func Register(reg *registry.Registry) error {
	entries := []struct {
		handler registry.Handler
		meta    registry.Metadata
	}{
		{
			handler: add,
			meta: registry.Metadata{
				Name:           "add",
				Description:    "Add two numbers",
				ParameterTypes: []string{"int", "int"},
				ReturnType:     "int",
			},
		},
		{
			handler: multiply,
			meta: registry.Metadata{
				Name:           "multiply",
				Description:    "Multiply two numbers",
				ParameterTypes: []string{"int", "int"},
				ReturnType:     "int",
			},
		},
		{
			handler: fibonacci,
			meta: registry.Metadata{
				Name:           "fibonacci",
				Description:    "Calculate the nth Fibonacci number",
				ParameterTypes: []string{"int"},
				ReturnType:     "int",
			},
		},
		{
			handler: factorial,
			meta: registry.Metadata{
				Name:           "factorial",
				Description:    "Calculate factorial of a number",
				ParameterTypes: []string{"int"},
				ReturnType:     "int",
			},
		},
		{
			handler: isPrime,
			meta: registry.Metadata{
				Name:           "is_prime",
				Description:    "Check if a number is prime",
				ParameterTypes: []string{"int"},
				ReturnType:     "bool",
			},
		},
		{
			handler: counterIncrement,
			meta: registry.Metadata{
				Name:           "counter_increment",
				Description:    "Increment a counter (stateful)",
				IsStateful:     true,
				ParameterTypes: []string{},
				ReturnType:     "int",
			},
		},
		{
			handler: counterGet,
			meta: registry.Metadata{
				Name:           "counter_get",
				Description:    "Get current counter value (stateful)",
				IsStateful:     true,
				ParameterTypes: []string{},
				ReturnType:     "int",
			},
		},
	}

	for _, e := range entries {
		if err := reg.Register(e.handler, e.meta); err != nil {
			return fmt.Errorf("failed to register builtin '%s': %w", e.meta.Name, err)
		}
	}

	return nil
}

// number extracts a numeric argument by name. JSON numbers decode as float64.
func number(args map[string]any, name string) (float64, error) {
	v, ok := args[name]
	if !ok {
		return 0, fmt.Errorf("missing argument: %s", name)
	}
	n, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("argument '%s' is not a number", name)
	}
	return n, nil
}

func add(_ *execctx.Context, args map[string]any) (any, error) {
	a, err := number(args, "a")
	if err != nil {
		return nil, err
	}
	b, err := number(args, "b")
	if err != nil {
		return nil, err
	}
	return a + b, nil
}

func multiply(_ *execctx.Context, args map[string]any) (any, error) {
	a, err := number(args, "a")
	if err != nil {
		return nil, err
	}
	b, err := number(args, "b")
	if err != nil {
		return nil, err
	}
	return a * b, nil
}

func fibonacci(_ *execctx.Context, args map[string]any) (any, error) {
	n, err := number(args, "n")
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmt.Errorf("fibonacci undefined for negative n: %v", n)
	}
	if n <= 1 {
		return n, nil
	}

	a, b := float64(0), float64(1)
	for i := 2; i <= int(n); i++ {
		a, b = b, a+b
	}
	return b, nil
}

func factorial(_ *execctx.Context, args map[string]any) (any, error) {
	n, err := number(args, "n")
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmt.Errorf("factorial undefined for negative n: %v", n)
	}

	result := float64(1)
	for i := 2; i <= int(n); i++ {
		result *= float64(i)
	}
	return result, nil
}

func isPrime(_ *execctx.Context, args map[string]any) (any, error) {
	n, err := number(args, "n")
	if err != nil {
		return nil, err
	}

	v := int(n)
	switch {
	case v < 2:
		return false, nil
	case v == 2:
		return true, nil
	case v%2 == 0:
		return false, nil
	}

	limit := int(math.Sqrt(float64(v)))
	for i := 3; i <= limit; i += 2 {
		if v%i == 0 {
			return false, nil
		}
	}
	return true, nil
}

func counterIncrement(ctx *execctx.Context, _ map[string]any) (any, error) {
	var next float64
	var typeErr error

	ctx.Update(func(state map[string]any) {
		current := float64(0)
		if v, ok := state[counterKey]; ok {
			n, isNumber := v.(float64)
			if !isNumber {
				typeErr = fmt.Errorf("context key '%s' is not a number", counterKey)
				return
			}
			current = n
		}

		next = current + 1
		state[counterKey] = next
	})
	if typeErr != nil {
		return nil, typeErr
	}

	return next, nil
}

func counterGet(ctx *execctx.Context, _ map[string]any) (any, error) {
	v, ok := ctx.Get(counterKey)
	if !ok {
		return float64(0), nil
	}
	return v, nil
}
