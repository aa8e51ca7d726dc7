package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/regfsm/pkg/domain"
)

// Format selects a diagram language.
type Format string

const (
	FormatMermaid Format = "mermaid"
	FormatDOT     Format = "dot"
)

// ParseFormat accepts "mermaid", "dot" and "graphviz"; empty means Mermaid.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "mermaid":
		return FormatMermaid, nil
	case "dot", "graphviz":
		return FormatDOT, nil
	}
	return "", fmt.Errorf("unsupported graph format %q (want mermaid or dot)", s)
}

// Render draws a in the given format.
func Render(a *domain.Automaton, format Format, overlay *Overlay) (string, error) {
	if a == nil {
		return "", fmt.Errorf("nothing to render")
	}
	switch format {
	case FormatMermaid:
		return GenerateMermaid(a, overlay), nil
	case FormatDOT:
		return GenerateDOT(a, overlay), nil
	}
	return "", fmt.Errorf("unsupported graph format %q", format)
}
