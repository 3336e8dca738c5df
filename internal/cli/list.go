package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tokens/pkg/types"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list [category]",
		Short: "List tokens in declaration order",
		Long: `List prints every token, or the tokens of one category, in declaration order.

Example:
  tokens list
  tokens list spacing
  tokens list colors --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tbl, err := a.currentTable()
			if err != nil {
				return err
			}

			categories := tbl.Categories()
			if len(args) == 1 {
				categories = []string{args[0]}
			}

			entries := []types.Token{}
			for _, c := range categories {
				e, err := tbl.Entries(c)
				if err != nil {
					return err
				}
				entries = append(entries, e...)
			}

			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), entries)
			}
			printTokenTable(cmd, entries)
			return nil
		},
	}
}

// printTokenTable prints tokens in a bordered table.
func printTokenTable(cmd *cobra.Command, entries []types.Token) {
	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(out, "No tokens found.")
		return
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.Category, e.Name, formatValue(e.Value)})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("CATEGORY", "NAME", "VALUE").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle().PaddingLeft(1).PaddingRight(1)
			if row == table.HeaderRow {
				return style.Bold(true)
			}
			return style
		})

	fmt.Fprintln(out, t.String())
	fmt.Fprintf(out, "Total: %d token(s)\n", len(entries))
}
