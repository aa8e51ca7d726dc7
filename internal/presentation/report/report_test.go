package report_test

import (
	"context"
	"strings"
	"testing"

	"github.com/aretw0/regfsm/internal/presentation/report"
	"github.com/aretw0/regfsm/internal/runtime"
	"github.com/aretw0/regfsm/pkg/expr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdown(t *testing.T) {
	res, err := runtime.NewEvaluator().Evaluate(context.Background(), "a|b", expr.Parse("a|b"))
	require.NoError(t, err)
	res.ID = "r-1"

	md := report.Markdown(res, report.Options{})

	assert.True(t, strings.HasPrefix(md, "# `a|b`\n\nPostfix: `a b |`\n\nResult: `r-1`\n\n"))
	assert.Contains(t, md, "## Elementary automata")
	assert.Contains(t, md, "### 0. `a`")
	assert.Contains(t, md, "### 1. `b`")
	assert.Contains(t, md, "## Step 0: `|` → `(a|b)`")
	for _, title := range []string{"### Operation", "### Deterministic", "### Minimized", "### Simplified"} {
		assert.Contains(t, md, title)
	}
	assert.Contains(t, md, "> Placing both automata side by side")
	assert.Contains(t, md, "## Result\n\n2 states, 1 transitions.")
	assert.Contains(t, md, res.Final().Format())
	assert.NotContains(t, md, "```mermaid")
}

func TestMarkdown_FinalOnlyWithDiagrams(t *testing.T) {
	res, err := runtime.NewEvaluator().Evaluate(context.Background(), "ab", expr.Parse("ab"))
	require.NoError(t, err)

	md := report.Markdown(res, report.Options{FinalOnly: true, Diagrams: true})

	assert.NotContains(t, md, "## Step")
	assert.NotContains(t, md, "## Elementary")
	assert.Equal(t, 1, strings.Count(md, "```mermaid"))
	assert.Contains(t, md, "stateDiagram-v2")
}

func TestVerdicts(t *testing.T) {
	got := report.Verdicts([]string{"", "ab"}, []bool{true, false})
	assert.Equal(t, "| Input | Accepted |\n|---|---|\n| `ε` | yes |\n| `ab` | no |\n", got)
}
