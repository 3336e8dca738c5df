package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tokens/pkg/types"
)

// validateReport is the JSON output of validate.
type validateReport struct {
	Path   string   `json:"path"`
	Valid  bool     `json:"valid"`
	Tokens int      `json:"tokens"`
	Errors []string `json:"errors"`
}

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Check a theme file and report every malformed token",
		Long: `Validate loads a theme file, or the configured theme, and reports every
violation found. Exits 1 when the theme is malformed.

Example:
  tokens validate tailwind.config.js
  tokens validate --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.themePath()
			if len(args) == 1 {
				path = args[0]
			}
			display := path
			if display == "" {
				display = "(built-in)"
			}

			report := validateReport{Path: display, Errors: []string{}}
			tbl, err := a.loadTable(path)
			if err == nil {
				report.Valid = true
				report.Tokens = tbl.Len()
			} else {
				for _, e := range splitErrors(err) {
					report.Errors = append(report.Errors, e.Error())
				}
			}

			out := cmd.OutOrStdout()
			if a.flags.jsonMode {
				if perr := printJSON(out, report); perr != nil {
					return perr
				}
			} else if report.Valid {
				fmt.Fprintf(out, "%s: ok, %d token(s)\n", display, report.Tokens)
			} else {
				for _, e := range report.Errors {
					fmt.Fprintf(out, "%s: %s\n", display, e)
				}
			}

			if err != nil {
				return fmt.Errorf("%s: %d problem(s) found", display, len(report.Errors))
			}
			return nil
		},
	}
}

// splitErrors flattens an errors.Join result into its parts.
func splitErrors(err error) []error {
	if _, ok := err.(*types.MalformedTokenError); ok {
		return []error{err}
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}
