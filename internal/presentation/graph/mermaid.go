package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/regfsm/pkg/domain"
)

// Overlay contains dynamic state data to visualize on the graph.
type Overlay struct {
	// Active lists the states reached after consuming some input.
	Active []string
	// Accepted marks the overlay as an accepting run, which changes its colour.
	Accepted bool
}

// GenerateMermaid produces a Mermaid stateDiagram-v2 for a.
// Start states are entered from [*]; final states lead to [*].
// Edges carry their symbols joined by commas.
func GenerateMermaid(a *domain.Automaton, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("stateDiagram-v2\n")
	sb.WriteString("    direction LR\n")
	if a.Expression != "" {
		fmt.Fprintf(&sb, "    %%%% %s\n", a.Expression)
	}

	for _, s := range a.States() {
		sb.WriteString(fmt.Sprintf("    state \"%s\" as %s\n", s.Name(), sanitizeMermaidID(s.Name())))
	}
	for _, s := range a.StartStates() {
		sb.WriteString(fmt.Sprintf("    [*] --> %s\n", sanitizeMermaidID(s.Name())))
	}
	for _, t := range a.Transitions() {
		sb.WriteString(fmt.Sprintf("    %s --> %s: %s\n",
			sanitizeMermaidID(t.From.Name()), sanitizeMermaidID(t.To.Name()), symbolLabel(t.Symbols)))
	}
	for _, s := range a.FinalStates() {
		sb.WriteString(fmt.Sprintf("    %s --> [*]\n", sanitizeMermaidID(s.Name())))
	}

	// Apply Overlay Styles
	if overlay != nil && len(overlay.Active) > 0 {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		if overlay.Accepted {
			sb.WriteString("    classDef active fill:#c8e6c9,stroke:#2e7d32,stroke-width:3px,color:#000\n")
		} else {
			sb.WriteString("    classDef active fill:#ffeb3b,stroke:#fbc02d,stroke-width:3px,color:#000\n")
		}

		seen := make(map[string]bool)
		for _, name := range overlay.Active {
			id := sanitizeMermaidID(name)
			if _, ok := a.Lookup(name); !ok || seen[id] {
				continue
			}
			seen[id] = true
			sb.WriteString(fmt.Sprintf("    class %s active\n", id))
		}
	}

	return sb.String()
}

func symbolLabel(symbols domain.SymbolSet) string {
	parts := make([]string, 0, len(symbols))
	for _, r := range symbols.Sorted() {
		parts = append(parts, string(r))
	}
	return strings.Join(parts, ", ")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
