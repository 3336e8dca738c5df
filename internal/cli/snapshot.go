package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tokens/internal/theme"
	"github.com/mesh-intelligence/tokens/pkg/types"
)

// shortDigestLen is how much of a digest the snapshot table shows.
const shortDigestLen = 12

func newSnapshotCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Save and compare theme snapshots",
	}
	cmd.AddCommand(newSnapshotSaveCmd(a))
	cmd.AddCommand(newSnapshotListCmd(a))
	cmd.AddCommand(newSnapshotShowCmd(a))
	cmd.AddCommand(newSnapshotDeleteCmd(a))
	cmd.AddCommand(newSnapshotDiffCmd(a))
	return cmd
}

// withStore attaches the store for the duration of fn.
func (a *app) withStore(fn func(types.Store) error) (err error) {
	store, err := a.openStore()
	if err != nil {
		return err
	}
	defer func() {
		if derr := store.Detach(); derr != nil && err == nil {
			err = sysError(fmt.Errorf("detach store: %w", derr))
		}
	}()
	return storeError(fn(store))
}

// storeError marks err as a system error unless it is about the caller's
// input: an unknown or empty ID, a bad filter, or a malformed theme.
func storeError(err error) error {
	if err == nil {
		return nil
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return err
	}
	for _, userErr := range []error{
		types.ErrNotFound,
		types.ErrInvalidID,
		types.ErrInvalidFilter,
		types.ErrMalformedToken,
	} {
		if errors.Is(err, userErr) {
			return err
		}
	}
	return sysError(err)
}

func newSnapshotSaveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "save [label]",
		Short: "Store the loaded theme as a new snapshot",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			label := ""
			if len(args) == 1 {
				label = args[0]
			}
			tbl, err := a.currentTable()
			if err != nil {
				return err
			}

			return a.withStore(func(store types.Store) error {
				id, err := store.Save(label, tbl.Declaration())
				if err != nil {
					return err
				}
				a.logger.Info("snapshot saved", "id", id, "tokens", tbl.Len())
				if a.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), map[string]string{"snapshot_id": id})
				}
				fmt.Fprintln(cmd.OutOrStdout(), id)
				return nil
			})
		},
	}
}

func newSnapshotListCmd(a *app) *cobra.Command {
	var label string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List snapshots, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := map[string]any{}
			if label != "" {
				filter["label"] = label
			}
			if limit > 0 {
				filter["limit"] = limit
			}

			return a.withStore(func(store types.Store) error {
				snapshots, err := store.Fetch(filter)
				if err != nil {
					return err
				}
				if a.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), snapshots)
				}
				printSnapshotTable(cmd.OutOrStdout(), snapshots)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&label, "label", "", "only snapshots with this label")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of results (0 = no limit)")
	return cmd
}

// printSnapshotTable prints snapshots with shortened digests.
func printSnapshotTable(w io.Writer, snapshots []*types.Snapshot) {
	if len(snapshots) == 0 {
		fmt.Fprintln(w, "No snapshots found.")
		return
	}

	rows := make([][]string, 0, len(snapshots))
	for _, s := range snapshots {
		rows = append(rows, []string{
			s.SnapshotID,
			s.Label,
			s.Digest[:min(len(s.Digest), shortDigestLen)],
			s.CreatedAt.Local().Format("2006-01-02 15:04:05"),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "LABEL", "DIGEST", "CREATED").
		Rows(rows...)
	fmt.Fprintln(w, t.String())
	fmt.Fprintf(w, "Total: %d snapshot(s)\n", len(snapshots))
}

func newSnapshotShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print a snapshot and its declaration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(store types.Store) error {
				s, err := store.Get(args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if a.flags.jsonMode {
					return printJSON(out, s)
				}
				fmt.Fprintf(out, "ID:       %s\n", s.SnapshotID)
				fmt.Fprintf(out, "Label:    %s\n", s.Label)
				fmt.Fprintf(out, "Digest:   %s\n", s.Digest)
				fmt.Fprintf(out, "Created:  %s\n\n", s.CreatedAt.Local().Format("2006-01-02 15:04:05"))
				return theme.Encode(out, s.Declaration, theme.FormatYAML)
			})
		},
	}
}

func newSnapshotDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(store types.Store) error {
				if err := store.Delete(args[0]); err != nil {
					return err
				}
				a.logger.Info("snapshot deleted", "id", args[0])
				if !a.flags.jsonMode {
					fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
				}
				return nil
			})
		},
	}
}

func newSnapshotDiffCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "diff <from-id> <to-id>",
		Short: "Show token changes between two snapshots",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(store types.Store) error {
				changes, err := store.Diff(args[0], args[1])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if a.flags.jsonMode {
					return printJSON(out, changes)
				}
				printChanges(out, changes)
				return nil
			})
		},
	}
}

var (
	addedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	removedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("160"))
	changedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// printChanges prints one line per change: + added, - removed, ~ changed.
func printChanges(w io.Writer, changes []types.TokenChange) {
	if len(changes) == 0 {
		fmt.Fprintln(w, "No changes.")
		return
	}
	for _, c := range changes {
		key := c.Category + "." + c.Name
		switch c.Kind {
		case types.ChangeAdded:
			fmt.Fprintln(w, addedStyle.Render(fmt.Sprintf("+ %s = %s", key, c.After)))
		case types.ChangeRemoved:
			fmt.Fprintln(w, removedStyle.Render(fmt.Sprintf("- %s = %s", key, c.Before)))
		default:
			fmt.Fprintln(w, changedStyle.Render(fmt.Sprintf("~ %s: %s -> %s", key, c.Before, c.After)))
		}
	}
}
