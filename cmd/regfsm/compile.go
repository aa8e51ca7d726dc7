package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/regfsm/internal/cli"
	"github.com/aretw0/regfsm/internal/presentation/report"
	"github.com/aretw0/regfsm/internal/presentation/tui"
	"github.com/aretw0/regfsm/pkg/domain"
	"github.com/aretw0/regfsm/pkg/fsm"
	"github.com/aretw0/regfsm/pkg/schema"
)

var compileCmd = &cobra.Command{
	Use:   "compile <expression>",
	Short: "Compile an expression and print its derivation",
	Long: `Validates and compiles the expression, stores the result in the configured store
and prints it. Formats: text (default), markdown, json, yaml.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		inputs, _ := cmd.Flags().GetStringArray("test")
		diagrams, _ := cmd.Flags().GetBool("diagrams")

		engine, err := newEngine(cmd, nil)
		if err != nil {
			return err
		}
		defer engine.Close()

		res, err := engine.Compile(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		accepted := make([]bool, len(inputs))
		for i, in := range inputs {
			clean, err := cli.SanitizeInput(in)
			if err != nil {
				return err
			}
			accepted[i] = fsm.Accepts(res.Final(), clean)
		}

		out := cmd.OutOrStdout()
		pretty := out == os.Stdout && tui.IsTerminal(os.Stdout)

		switch strings.ToLower(format) {
		case "", "text":
			writeText(out, res)
			for i, in := range inputs {
				fmt.Fprintf(out, "%-12q %s\n", in, verdict(accepted[i], pretty))
			}
		case "markdown", "md":
			md := report.Markdown(res, report.Options{Diagrams: diagrams})
			if len(inputs) > 0 {
				md += "\n## Tests\n\n" + report.Verdicts(inputs, accepted)
			}
			if pretty {
				if rendered, err := tui.NewRenderer()(md); err == nil {
					md = rendered
				}
			}
			fmt.Fprint(out, md)
		default:
			f, err := schema.ParseFormat(format)
			if err != nil {
				return err
			}
			data, err := schema.EncodeResult(res, f)
			if err != nil {
				return err
			}
			out.Write(data)
			if len(inputs) > 0 {
				fmt.Fprint(cmd.ErrOrStderr(), report.Verdicts(inputs, accepted))
			}
		}
		return nil
	},
}

// writeText prints the postfix form, one line per step and the final
// formal definition.
func writeText(w io.Writer, res *domain.Result) {
	fmt.Fprintf(w, "expression: %s\n", res.Expression)
	fmt.Fprintf(w, "postfix:    %s\n", res.Postfix)
	if res.ID != "" {
		fmt.Fprintf(w, "id:         %s\n", res.ID)
	}
	fmt.Fprintln(w)
	for i, step := range res.Steps {
		fmt.Fprintf(w, "step %d: %c -> %s  (%d -> %d -> %d states)\n",
			i, step.Operator, step.Operation.Expression,
			step.Operation.Len(), step.Deterministic.Len(), step.Minimized.Len())
	}
	if len(res.Steps) > 0 {
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w, res.Final().Format())
}

func verdict(accepted, color bool) string {
	switch {
	case color:
		return tui.Verdict(accepted)
	case accepted:
		return "accepted"
	}
	return "rejected"
}

func init() {
	rootCmd.AddCommand(compileCmd)

	compileCmd.Flags().StringP("format", "f", "text", "Output format: text, markdown, json or yaml")
	compileCmd.Flags().StringArrayP("test", "t", nil, "Input to run through the automaton (repeatable)")
	compileCmd.Flags().Bool("diagrams", false, "Embed Mermaid diagrams in markdown output")
}
