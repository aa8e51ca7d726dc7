package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/regfsm"
	"github.com/aretw0/regfsm/internal/cli"
	"github.com/aretw0/regfsm/pkg/observability"
)

// newEngine builds the engine described by the loaded configuration.
func newEngine(cmd *cobra.Command, metrics *observability.Metrics) (*regfsm.Engine, error) {
	return cli.NewEngine(cmd.Context(), cfg, logger, metrics)
}
