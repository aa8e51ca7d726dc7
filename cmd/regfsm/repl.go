package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/regfsm/internal/cli"
	"github.com/aretw0/regfsm/internal/presentation/tui"
)

// replCmd represents the repl command
var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Compile and test expressions interactively",
	Long:  `Starts an interactive session: type an expression to compile it, then :test inputs against it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := newEngine(cmd, nil)
		if err != nil {
			return err
		}
		defer engine.Close()

		interactive := tui.IsTerminal(os.Stdin) && tui.IsTerminal(os.Stdout)
		opts := []cli.REPLOption{cli.WithColor(interactive)}
		if interactive {
			tui.PrintBanner(cmd.OutOrStdout())
			opts = append(opts, cli.WithRenderer(tui.NewRenderer()))
		}

		repl := cli.NewREPL(engine, cmd.InOrStdin(), cmd.OutOrStdout(), opts...)
		return repl.Run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}
