// Package cli implements the portalkombat command line
package cli

import (
	"github.com/spf13/cobra"

	"portalkombat/internal/config"
)

// NewRoot builds the root command
func NewRoot(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "portalkombat",
		Short:         "portalkombat: captive portal detection and auto-login",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Version = version
	cmd.SetVersionTemplate("portalkombat {{.Version}}\n")

	cmd.PersistentFlags().String("config", "", "Config file path (default: search $"+config.EnvConfigPath+", ./"+config.ConfigFileName+", XDG, /etc)")

	cmd.AddCommand(newRunCmd(version))
	cmd.AddCommand(newCheckCmd(version))
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newHistoryCmd())
	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newServiceCmd(version))

	return cmd
}

func configFlag(cmd *cobra.Command) string {
	path, _ := cmd.Root().PersistentFlags().GetString("config")
	return path
}

// loadConfig reads the file named by --config, or searches the default
// locations. A missing file in the search yields defaults.
func loadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	if path := configFlag(cmd); path != "" {
		return config.LoadFromPath(path)
	}
	return config.Load()
}
