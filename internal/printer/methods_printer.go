package printer

import (
	"fmt"
	"io"
	"strings"

	"github.com/GeorgePearse/TranspileAI/internal/registry"
)

// MethodsPrinter renders registered method metadata as text.
type MethodsPrinter struct{}

// NewMethodsPrinter creates a printer for method listings.
func NewMethodsPrinter() *MethodsPrinter {
	return &MethodsPrinter{}
}

func (p *MethodsPrinter) Header(w io.Writer, count int) {
	_, _ = fmt.Fprintln(w, separator)
	_, _ = fmt.Fprintf(w, "Registered methods: %d\n", count)
	_, _ = fmt.Fprintln(w, separator)
}

func (p *MethodsPrinter) Item(w io.Writer, m registry.Metadata) error {
	signature := fmt.Sprintf("%s(%s) -> %s", m.Name, strings.Join(m.ParameterTypes, ", "), m.ReturnType)

	_, _ = fmt.Fprintf(w, "\n  %s\n", signature)
	if m.Description != "" {
		_, _ = fmt.Fprintf(w, "    %s\n", m.Description)
	}
	if m.IsStateful {
		_, _ = fmt.Fprintln(w, "    stateful")
	}

	return nil
}

func (p *MethodsPrinter) Footer(w io.Writer, count int) {
	_, _ = fmt.Fprintln(w, "")
}
