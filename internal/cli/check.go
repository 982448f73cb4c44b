package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"portalkombat/internal/domain"
	"portalkombat/internal/logging"
	pkservice "portalkombat/internal/service"
)

func newCheckCmd(version string) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run a single detection and login cycle and print the result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			level := "warn"
			if verbose {
				level = "debug"
			}
			if err := logging.Setup(level, "text", cmd.ErrOrStderr()); err != nil {
				return err
			}

			daemon, err := pkservice.NewDaemon(cfg, pkservice.DefaultFactory(), nil, nil, version)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.PollInterval())
			defer cancel()

			report := daemon.RunCycle(ctx)
			printReport(cmd.OutOrStdout(), report)

			if report.Attempted && report.Outcome != domain.OutcomeSuccess {
				return fmt.Errorf("login %s", report.Outcome)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log every step")
	return cmd
}
