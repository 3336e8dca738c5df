package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tokens/pkg/types"
)

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <category> <name>",
		Short: "Print the value of one token",
		Long: `Get prints the value declared for a token.

Categories: colors, fontFamily, spacing, borderRadius, boxShadow, animation, keyframes

Example:
  tokens get colors accent-green
  tokens get fontFamily display --json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tbl, err := a.currentTable()
			if err != nil {
				return err
			}

			value, err := tbl.Get(args[0], args[1])
			if err != nil {
				return err
			}

			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), types.Token{Category: args[0], Name: args[1], Value: value})
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatValue(value))
			return nil
		},
	}
}
