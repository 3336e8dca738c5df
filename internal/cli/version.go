package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tokens/pkg/tokens"
)

const modulePath = "github.com/mesh-intelligence/tokens"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the tokens version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "tokens v%s\nmodule: %s\n", tokens.Version, modulePath)
			return nil
		},
	}
}
