package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize tokens configuration and snapshot storage",
		Long:  "Create the configuration directory with a default config.yaml, then initialize the snapshot store.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// The config directory and config.yaml already exist after setup.
			store, err := a.openStore()
			if err != nil {
				return err
			}
			if err := store.Detach(); err != nil {
				return sysError(fmt.Errorf("finalize storage: %w", err))
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Tokens initialized successfully")
			fmt.Fprintln(out, "  config:", filepath.Join(a.configDir, configFileExt))
			return nil
		},
	}
}
