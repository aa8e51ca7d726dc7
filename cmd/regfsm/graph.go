package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/regfsm/internal/presentation/graph"
	"github.com/aretw0/regfsm/pkg/fsm"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <expression>",
	Short: "Export an automaton of the derivation as a diagram",
	Long: `Compiles the expression and outputs a Mermaid (stateDiagram-v2) or Graphviz DOT
diagram of the final automaton, or of any stage selected with --stage:
  result, elementary:<i>, step:<i>, step:<i>:{operation|deterministic|minimized|simplified}`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		formatName, _ := cmd.Flags().GetString("format")
		stage, _ := cmd.Flags().GetString("stage")
		input, _ := cmd.Flags().GetString("input")

		format, err := graph.ParseFormat(formatName)
		if err != nil {
			return err
		}

		engine, err := newEngine(cmd, nil)
		if err != nil {
			return err
		}
		defer engine.Close()

		res, err := engine.Evaluate(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		a, err := res.Select(stage)
		if err != nil {
			return err
		}

		var overlay *graph.Overlay
		if cmd.Flags().Changed("input") {
			states, accepted := fsm.Trace(a, input)
			overlay = &graph.Overlay{Accepted: accepted}
			for _, s := range states {
				overlay.Active = append(overlay.Active, s.Name())
			}
		}

		output, err := graph.Render(a, format, overlay)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), output)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)

	graphCmd.Flags().StringP("format", "f", "mermaid", "Diagram format: mermaid or dot")
	graphCmd.Flags().StringP("stage", "s", "result", "Automaton to draw")
	graphCmd.Flags().String("input", "", "Highlight the states reached after reading this input")
}
