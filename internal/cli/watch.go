package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tokens/internal/reload"
	"github.com/mesh-intelligence/tokens/pkg/types"
)

var errNoThemeFile = errors.New("watch needs a theme file: pass --theme or set theme in config.yaml")

func newWatchCmd(a *app) *cobra.Command {
	var (
		debounce time.Duration
		snapshot string
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Reload the theme file whenever it changes",
		Long: `Watch validates the theme file each time it is written. A file that
fails to load is reported and the last good table stays in place.
With --snapshot, every successful reload is saved under that label.

Example:
  tokens watch --theme tailwind.config.js
  tokens watch --snapshot dev`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.themePath()
			if path == "" {
				return errNoThemeFile
			}
			tbl, err := a.loadTable(path)
			if err != nil {
				return err
			}
			holder := reload.NewHolder(tbl)

			var store types.Store
			if cmd.Flags().Changed("snapshot") {
				store, err = a.openStore()
				if err != nil {
					return err
				}
				defer store.Detach()
			}

			out := cmd.OutOrStdout()
			onReload := func(r reload.Result) {
				if r.Err != nil {
					for _, e := range splitErrors(r.Err) {
						fmt.Fprintf(out, "%s: %s\n", r.Path, e)
					}
					return
				}
				fmt.Fprintf(out, "%s: reloaded, %d token(s)\n", r.Path, r.Table.Len())
				if store != nil {
					id, err := store.Save(snapshot, r.Table.Declaration())
					if err != nil {
						a.logger.Error("snapshot failed", "err", err)
						return
					}
					a.logger.Info("snapshot saved", "id", id, "label", snapshot)
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			w := reload.NewWatcher(path, holder,
				reload.WithLogger(a.logger),
				reload.WithDebounce(debounce),
				reload.WithCallback(onReload),
			)
			fmt.Fprintf(out, "%s: ok, %d token(s); watching for changes\n", path, holder.Load().Len())
			if err := w.Run(ctx); err != nil {
				return sysError(err)
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", reload.DefaultDebounce, "quiet period after a change before reloading")
	cmd.Flags().StringVar(&snapshot, "snapshot", "", "save a snapshot with this label after every successful reload")
	return cmd
}
