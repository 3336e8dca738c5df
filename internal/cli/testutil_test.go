package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// testEnv provides an isolated config and data directory for running the
// CLI in-process.
type testEnv struct {
	t         *testing.T
	tempDir   string
	configDir string
	dataDir   string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	for _, key := range []string{"TOKENS_THEME", "TOKENS_LOG_LEVEL", "TOKENS_SYNC_STRATEGY", "TOKENS_CONFIG_DIR", "TOKENS_DATA_DIR"} {
		t.Setenv(key, "")
	}
	tempDir := t.TempDir()
	return &testEnv{
		t:         t,
		tempDir:   tempDir,
		configDir: filepath.Join(tempDir, "config"),
		dataDir:   filepath.Join(tempDir, "data"),
	}
}

// cmdResult holds the result of one command execution.
type cmdResult struct {
	Stdout   string
	Stderr   string
	Err      error
	ExitCode int
}

// run executes the CLI with the env's directories prepended to args.
func (e *testEnv) run(args ...string) cmdResult {
	e.t.Helper()

	root := NewRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--config-dir", e.configDir, "--data-dir", e.dataDir}, args...))

	err := root.Execute()
	return cmdResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Err:      err,
		ExitCode: exitCode(err),
	}
}

// mustRun executes the CLI and fails the test on a non-zero exit code.
func (e *testEnv) mustRun(args ...string) cmdResult {
	e.t.Helper()
	result := e.run(args...)
	if result.ExitCode != exitSuccess {
		e.t.Fatalf("tokens %v failed with exit code %d: %v\nstdout: %s\nstderr: %s",
			args, result.ExitCode, result.Err, result.Stdout, result.Stderr)
	}
	return result
}

// writeFile writes content under the env's temp dir and returns its path.
func (e *testEnv) writeFile(name, content string) string {
	e.t.Helper()
	path := filepath.Join(e.tempDir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		e.t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		e.t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// parseJSON parses JSON output into the target type.
func parseJSON[T any](t *testing.T, s string) T {
	t.Helper()
	var result T
	if err := json.Unmarshal([]byte(s), &result); err != nil {
		t.Fatalf("failed to parse JSON %q: %v", s, err)
	}
	return result
}
