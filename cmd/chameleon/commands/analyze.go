package commands

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/chameleon-sec/chameleon/pkg/analysis"
	"github.com/chameleon-sec/chameleon/pkg/config"
	"github.com/chameleon-sec/chameleon/pkg/playbook"
	"github.com/chameleon-sec/chameleon/pkg/recon"
	"github.com/chameleon-sec/chameleon/pkg/render"
	"github.com/chameleon-sec/chameleon/pkg/storage"
)

// newAnalyzeCommand creates the 'chameleon analyze' command: a one-shot
// analysis run against a single target, printing the ranked recommendations
// to the terminal instead of going through the HTTP API.
func newAnalyzeCommand(manager *config.Manager) *cobra.Command {
	var scanDepth string

	cmd := &cobra.Command{
		Use:   "analyze <target>",
		Short: "Analyze a target and print ranked playbook recommendations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			target := args[0]
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
			seed, err := playbook.SeedCatalog()
			if err != nil {
				return err
			}
			if err := backend.Playbooks().Seed(ctx, seed); err != nil {
				return err
			}

			source := &recon.NmapSource{
				Ports:     cfg.Recon.NmapPorts,
				Timeout:   cfg.Recon.ScanTimeout,
				PingFirst: cfg.Recon.PingFirst,
			}
			var intel recon.IntelClient
			if cfg.Recon.ShodanAPIKey != "" {
				intel = recon.NewShodanClient(cfg.Recon.ShodanAPIKey)
			}
			matcher := playbook.NewMatcher().WithRenderer(render.DOT{})
			service := analysis.NewService(source, intel, backend, matcher)

			report, err := service.Run(ctx, analysis.Params{Target: target, ScanDepth: scanDepth})
			if err != nil {
				return err
			}

			printReport(cmd, report)
			return nil
		},
	}

	cmd.Flags().StringVar(&scanDepth, "scan-depth", "", "Scan depth: quick | normal | deep")

	return cmd
}

func printReport(cmd *cobra.Command, report *analysis.Report) {
	bold := color.New(color.Bold)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)

	out := cmd.OutOrStdout()

	bold.Fprintf(out, "Engagement %s (%s)\n", report.Engagement.ID, report.Engagement.Target)
	fmt.Fprintf(out, "Discovered services: %d\n\n", len(report.Engagement.TechStack.Services))

	for _, svc := range report.Engagement.TechStack.Services {
		cyan.Fprintf(out, "  %s/%s %s", svc.Port, svc.Protocol, svc.Name)
		if svc.Product != "" {
			fmt.Fprintf(out, " (%s %s)", svc.Product, svc.Version)
		}
		fmt.Fprintln(out)
	}

	if len(report.Recommendations) == 0 {
		yellow.Fprintln(out, "\nNo playbook matched the discovered services.")
		return
	}

	bold.Fprintf(out, "\nRecommended playbooks (%d):\n", len(report.Recommendations))
	for i, rec := range report.Recommendations {
		green.Fprintf(out, "%d. %s", i+1, rec.Name)
		fmt.Fprintf(out, "  [%s]  confidence %.2f\n", rec.PlaybookID, rec.Confidence)
		for _, command := range rec.Commands {
			fmt.Fprintf(out, "     $ %s\n", command)
		}
	}

	for _, warning := range report.Engagement.TechStack.Errors {
		yellow.Fprintf(out, "\nwarning: %s\n", warning)
	}
}
