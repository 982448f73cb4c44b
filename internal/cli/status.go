package cli

import (
	"github.com/spf13/cobra"

	"portalkombat/internal/api"
	"portalkombat/internal/codec"
)

func statusAddr(cmd *cobra.Command, override string) (string, error) {
	if override != "" {
		return override, nil
	}
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return "", err
	}
	return cfg.Status.Socket, nil
}

func newStatusCmd() *cobra.Command {
	var socket string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the running daemon's state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := statusAddr(cmd, socket)
			if err != nil {
				return err
			}
			st, err := api.NewClient(addr).Status(cmd.Context())
			if err != nil {
				return err
			}
			printStatus(cmd.OutOrStdout(), st)
			return nil
		},
	}

	cmd.Flags().StringVar(&socket, "socket", "", "Status socket path or pipe name (default from config)")
	return cmd
}

func newHistoryCmd() *cobra.Command {
	var (
		socket string
		limit  int
		format string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent login attempts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := statusAddr(cmd, socket)
			if err != nil {
				return err
			}
			attempts, err := api.NewClient(addr).History(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if format == "" || format == "table" {
				printAttempts(cmd.OutOrStdout(), attempts)
				return nil
			}
			exp, err := codec.ForFormat(format)
			if err != nil {
				return err
			}
			return exp.Export(attempts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&socket, "socket", "", "Status socket path or pipe name (default from config)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of attempts")
	cmd.Flags().StringVarP(&format, "format", "o", "table", "Output format: table|json|yaml")
	return cmd
}
