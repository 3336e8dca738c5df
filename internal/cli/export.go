package cli

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tokens/internal/theme"
)

func newExportCmd(a *app) *cobra.Command {
	var format, output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the loaded theme as YAML, JSON, or a config module",
		Long: `Export writes the declaration of the loaded theme. The format defaults
to the output file's extension, or yaml when writing to stdout.

Example:
  tokens export --format json
  tokens export --output tailwind.config.js`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = theme.FormatYAML
				if output != "" {
					f, err := theme.FormatFromPath(output)
					if err != nil {
						return err
					}
					format = f
				}
			}

			tbl, err := a.currentTable()
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			if err := theme.Encode(&buf, tbl.Declaration(), format); err != nil {
				return err
			}

			if output == "" {
				_, err := cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}
			if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
				return sysError(fmt.Errorf("write %s: %w", output, err))
			}
			a.logger.Info("exported theme", "path", output, "format", format, "tokens", tbl.Len())
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "output format (yaml, json, js)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	return cmd
}
