package commands

import (
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/chameleon-sec/chameleon/pkg/config"
	"github.com/chameleon-sec/chameleon/pkg/server/app"
	"github.com/chameleon-sec/chameleon/pkg/version"
)

// newServeCommand creates the 'chameleon serve' command.
//
// The server hosts the triage API (POST /analyze, POST /execute,
// GET /engagements) plus health endpoints, and runs until interrupted
// (SIGINT/SIGTERM), then performs graceful shutdown.
func newServeCommand(manager *config.Manager) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the Chameleon API server",
		Long: `Start the Chameleon server process.

The server hosts the triage API:
  - POST /analyze            run one analysis and rank playbooks
  - POST /execute/{id}       dispatch allow-listed playbook commands
  - GET  /engagements        list recorded engagements

The server runs until interrupted (Ctrl+C) or killed, performing graceful
shutdown to drain in-flight requests.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg := manager.Get()
			logger := log.With().Str("component", "server").Logger()
			logger.Info().Msg(version.Info())
			go version.CheckNewVersion()

			application, err := app.New(ctx, cfg, &app.Deps{
				Config: manager,
				Logger: logger,
			})
			if err != nil {
				return err
			}

			return application.Run(ctx)
		},
	}

	config.BindServerFlags(cmd.Flags())

	return cmd
}
