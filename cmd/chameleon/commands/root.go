// Package commands wires the chameleon CLI: global flags, configuration
// loading, and the serve/analyze/engagements subcommands.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chameleon-sec/chameleon/pkg/config"
	"github.com/chameleon-sec/chameleon/pkg/logging"
)

const cliExecutable = "chameleon"

// NewCommand constructs the top-level chameleon CLI command, wiring global
// flags and shared configuration loading.
func NewCommand() *cobra.Command {
	var configFile string
	manager := config.NewManager()

	cmd := &cobra.Command{
		Use:   cliExecutable,
		Short: "Chameleon maps attack surfaces and recommends pentest playbooks",
		Long: `Chameleon scans a target, builds an attack-surface graph from the
discovered services, and ranks stored playbooks against it. Analyses are
recorded as engagements for later review.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := manager.Load(cmd.Flags(), configFile); err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}

			cfg := manager.Get()
			if err := logging.ConfigureGlobalLogging(cfg.Log.Level, cfg.Log.Format, cfg.Log.File); err != nil {
				return fmt.Errorf("configure logging: %w", err)
			}
			return nil
		},
	}

	cmd.SilenceUsage = true

	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Configuration file path")
	config.BindFlags(cmd.PersistentFlags())

	cmd.AddCommand(newServeCommand(manager))
	cmd.AddCommand(newAnalyzeCommand(manager))
	cmd.AddCommand(newEngagementsCommand(manager))
	cmd.AddCommand(newVersionCommand())

	return cmd
}
