package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tokens/internal/theme"
	"github.com/mesh-intelligence/tokens/pkg/types"
)

// swatch is one rendered color in show output.
type swatch struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	Dark  bool   `json:"dark"`
}

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	lightText    = lipgloss.Color("#ffffff")
	darkText     = lipgloss.Color("#000000")
)

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Render the theme with color swatches",
		Long: `Show renders every color as a swatch, with text in black or white
depending on the color's lightness, followed by the remaining categories.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tbl, err := a.currentTable()
			if err != nil {
				return err
			}

			swatches, err := colorSwatches(tbl)
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), swatches)
			}
			return renderTheme(cmd.OutOrStdout(), tbl, swatches)
		},
	}
}

func colorSwatches(tbl *theme.Table) ([]swatch, error) {
	names, err := tbl.Names(types.CategoryColors)
	if err != nil {
		return nil, err
	}
	out := make([]swatch, 0, len(names))
	for _, n := range names {
		c, err := tbl.Color(n)
		if err != nil {
			return nil, err
		}
		out = append(out, swatch{Name: n, Value: c.Hex, Dark: c.IsDark()})
	}
	return out, nil
}

func renderTheme(w io.Writer, tbl *theme.Table, swatches []swatch) error {
	if len(swatches) > 0 {
		fmt.Fprintln(w, headingStyle.Render(types.CategoryColors))
		for _, s := range swatches {
			fg := darkText
			if s.Dark {
				fg = lightText
			}
			block := lipgloss.NewStyle().
				Background(lipgloss.Color(s.Value)).
				Foreground(fg).
				Padding(0, 1).
				Width(24).
				Render(s.Name)
			fmt.Fprintf(w, "%s %s\n", block, s.Value)
		}
	}

	for _, c := range tbl.Categories() {
		if c == types.CategoryColors {
			continue
		}
		entries, err := tbl.Entries(c)
		if err != nil {
			return err
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, headingStyle.Render(c))
		for _, e := range entries {
			fmt.Fprintf(w, "  %-16s %s\n", e.Name, formatValue(e.Value))
		}
	}
	return nil
}
