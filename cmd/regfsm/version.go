package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/regfsm"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of regfsm",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "regfsm version %s\n", strings.TrimSpace(regfsm.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
