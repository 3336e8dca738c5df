// Shared helpers for tokens CLI commands.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tokens/internal/paths"
	"github.com/mesh-intelligence/tokens/internal/theme"
	pkgsqlite "github.com/mesh-intelligence/tokens/pkg/sqlite"
	"github.com/mesh-intelligence/tokens/pkg/types"
)

// setup resolves the config directory, loads config.yaml and builds the
// logger. It runs before every command except version.
func (a *app) setup(cmd *cobra.Command) error {
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return sysError(fmt.Errorf("resolve config dir: %w", err))
	}
	cfg, err := loadConfig(configDir)
	if err != nil {
		return sysError(err)
	}
	a.configDir = configDir
	a.cfg = cfg

	logger, err := newLogger(cmd.ErrOrStderr(), cfg.GetString(cfgKeyLogLevel), a.flags.verbose)
	if err != nil {
		return err
	}
	a.logger = logger
	a.logger.Debug("config loaded", "dir", configDir)
	return nil
}

// newLogger builds the stderr logger. verbose forces debug level.
func newLogger(w io.Writer, level string, verbose bool) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", cfgKeyLogLevel, err)
	}
	if verbose {
		lvl = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Prefix: "tokens",
		Level:  lvl,
	}), nil
}

// loadTable loads path, or the built-in theme when path is empty.
func (a *app) loadTable(path string) (*theme.Table, error) {
	if path == "" {
		a.logger.Debug("using built-in theme")
		return theme.Default(), nil
	}
	tbl, err := theme.LoadFile(path)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("theme loaded", "path", path, "tokens", tbl.Len())
	return tbl, nil
}

// currentTable loads the configured theme.
func (a *app) currentTable() (*theme.Table, error) {
	return a.loadTable(a.themePath())
}

// openStore resolves the data directory and attaches the SQLite snapshot
// store. The caller must defer Detach.
func (a *app) openStore() (types.Store, error) {
	dataDir, err := paths.ResolveDataDir(a.flags.dataDir, a.cfg.GetString(cfgKeyDataDir))
	if err != nil {
		return nil, sysError(fmt.Errorf("resolve data dir: %w", err))
	}

	cfg := types.Config{
		Backend:      types.BackendSQLite,
		DataDir:      dataDir,
		SyncStrategy: a.cfg.GetString(cfgKeySyncStrategy),
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", cfgKeySyncStrategy, err)
	}

	store := pkgsqlite.NewBackend(a.logger)
	if err := store.Attach(cfg); err != nil {
		return nil, sysError(fmt.Errorf("attach store: %w", err))
	}
	a.logger.Debug("store attached", "dir", dataDir)
	return store, nil
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return sysError(fmt.Errorf("marshal JSON: %w", err))
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

// formatValue renders a token value on one line: strings as is, font
// stacks comma-separated, keyframes as compact JSON.
func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case []string:
		return strings.Join(val, ", ")
	default:
		out, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(out)
	}
}
