// Package report renders a compiled result as a Markdown derivation.
package report

import (
	"fmt"
	"strings"

	"github.com/aretw0/regfsm/internal/presentation/graph"
	"github.com/aretw0/regfsm/pkg/domain"
)

// Options tunes what the report contains.
type Options struct {
	// Diagrams embeds a Mermaid diagram after every formal definition.
	Diagrams bool
	// FinalOnly skips the elementary automata and the intermediate steps.
	FinalOnly bool
}

var stageTitles = map[domain.Stage]string{
	domain.StageOperation:     "Operation",
	domain.StageDeterministic: "Deterministic",
	domain.StageMinimized:     "Minimized",
	domain.StageSimplified:    "Simplified",
}

// Markdown renders r.
func Markdown(r *domain.Result, opts Options) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# `%s`\n\n", r.Expression)
	fmt.Fprintf(&sb, "Postfix: `%s`\n\n", r.Postfix)
	if r.ID != "" {
		fmt.Fprintf(&sb, "Result: `%s`\n\n", r.ID)
	}

	if !opts.FinalOnly {
		if len(r.Elementary) > 0 {
			sb.WriteString("## Elementary automata\n\n")
			for i, a := range r.Elementary {
				fmt.Fprintf(&sb, "### %d. `%s`\n\n", i, a.Expression)
				automaton(&sb, a, opts)
			}
		}

		for i, g := range r.Steps {
			fmt.Fprintf(&sb, "## Step %d: `%c` → `%s`\n\n", i, g.Operator, g.Operation.Expression)
			for _, stage := range domain.Stages {
				a := g.Stage(stage)
				if a == nil {
					continue
				}
				fmt.Fprintf(&sb, "### %s\n\n", stageTitles[stage])
				automaton(&sb, a, opts)
			}
		}
	}

	if final := r.Final(); final != nil {
		sb.WriteString("## Result\n\n")
		fmt.Fprintf(&sb, "%d states, %d transitions.\n\n", final.Len(), len(final.Transitions()))
		automaton(&sb, final, Options{Diagrams: opts.Diagrams})
	}
	return sb.String()
}

func automaton(sb *strings.Builder, a *domain.Automaton, opts Options) {
	if a.Explanation != "" {
		for _, line := range strings.Split(strings.TrimSpace(a.Explanation), "\n") {
			fmt.Fprintf(sb, "> %s\n", line)
		}
		sb.WriteString("\n")
	}
	sb.WriteString("```\n")
	sb.WriteString(a.Format())
	sb.WriteString("\n```\n\n")
	if opts.Diagrams {
		sb.WriteString("```mermaid\n")
		sb.WriteString(graph.GenerateMermaid(a, nil))
		sb.WriteString("```\n\n")
	}
}

// Verdicts renders a Markdown table of simulation outcomes in input order.
func Verdicts(inputs []string, accepted []bool) string {
	var sb strings.Builder
	sb.WriteString("| Input | Accepted |\n|---|---|\n")
	for i, in := range inputs {
		label := in
		if label == "" {
			label = "ε"
		}
		mark := "no"
		if i < len(accepted) && accepted[i] {
			mark = "yes"
		}
		fmt.Fprintf(&sb, "| `%s` | %s |\n", label, mark)
	}
	return sb.String()
}
