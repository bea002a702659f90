package commands

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/chameleon-sec/chameleon/pkg/config"
	"github.com/chameleon-sec/chameleon/pkg/storage"
)

// newEngagementsCommand creates the 'chameleon engagements' command listing
// recorded engagements, newest first.
func newEngagementsCommand(manager *config.Manager) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "engagements",
		Short: "List recorded engagements",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg := manager.Get()
			backend, err := storage.NewBackend(ctx, &storage.Config{
				WorkspaceRoot:    cfg.Engagements.WorkspaceDir,
				DefaultListLimit: cfg.Engagements.DefaultLimit,
				MaxListLimit:     cfg.Engagements.MaxLimit,
			})
			if err != nil {
				return err
			}
			defer backend.Close()

			if err := backend.Initialize(ctx); err != nil {
				return err
			}

			records, err := backend.Engagements().List(ctx, limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "No engagements recorded yet.")
				return nil
			}

			bold := color.New(color.Bold)
			for _, eng := range records {
				bold.Fprintf(out, "%s", eng.ID)
				fmt.Fprintf(out, "  %s  %s  services=%d  recommendations=%d\n",
					eng.Timestamp.Format("2006-01-02 15:04:05"),
					eng.Target,
					len(eng.TechStack.Services),
					len(eng.Results))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of engagements to list (0 uses the configured default)")

	return cmd
}
