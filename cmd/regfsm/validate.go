package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/regfsm/pkg/expr"
)

var validateCmd = &cobra.Command{
	Use:   "validate <expression>",
	Short: "Check an expression for syntax errors",
	Long:  `Reports every rule the expression breaks, with the position of the offending character.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v := &expr.Validator{MaxLength: cfg.Limits.MaxLength}
		err := v.ValidateAll(args[0])
		if err == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "Expression is valid! ✅")
			return nil
		}

		out := cmd.OutOrStdout()
		for _, se := range expr.SyntaxErrors(err) {
			if se.Position >= 0 {
				fmt.Fprintf(out, "%s (%s at %d)\n", se.Message, se.Kind, se.Position)
				continue
			}
			fmt.Fprintf(out, "%s (%s)\n", se.Message, se.Kind)
		}
		return fmt.Errorf("validation failed: %d error(s)", len(expr.SyntaxErrors(err)))
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
