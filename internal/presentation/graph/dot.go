package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/regfsm/pkg/domain"
)

// GenerateDOT produces a Graphviz digraph for a. Final states are drawn as
// double circles and every start state gets an arrow from an invisible point.
func GenerateDOT(a *domain.Automaton, overlay *Overlay) string {
	active := make(map[string]bool)
	if overlay != nil {
		for _, name := range overlay.Active {
			active[name] = true
		}
	}

	var sb strings.Builder
	sb.WriteString("digraph automaton {\n")
	sb.WriteString("  rankdir=LR;\n")
	if a.Expression != "" {
		fmt.Fprintf(&sb, "  label=%q;\n", a.Expression)
	}
	sb.WriteString("  node [shape=circle];\n")
	sb.WriteString("\n")

	starts := a.StartStates()
	for i := range starts {
		fmt.Fprintf(&sb, "  __start%d [shape=point];\n", i)
	}
	for _, s := range a.States() {
		attrs := []string{fmt.Sprintf("label=%q", s.Name())}
		if s.IsFinal() {
			attrs = append(attrs, "shape=doublecircle")
		}
		if active[s.Name()] {
			attrs = append(attrs, "style=filled", `fillcolor="#ffeb3b"`)
		}
		fmt.Fprintf(&sb, "  %q [%s];\n", s.Name(), strings.Join(attrs, ", "))
	}
	sb.WriteString("\n")

	for i, s := range starts {
		fmt.Fprintf(&sb, "  __start%d -> %q;\n", i, s.Name())
	}
	for _, t := range a.Transitions() {
		fmt.Fprintf(&sb, "  %q -> %q [label=%q];\n", t.From.Name(), t.To.Name(), symbolLabel(t.Symbols))
	}

	sb.WriteString("}\n")
	return sb.String()
}
