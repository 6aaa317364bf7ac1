package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

// CLI provides a clean interface for running commands in tests.
// It manages a temp working directory and an isolated environment.
type CLI struct {
	t   *testing.T
	Dir string
	Env map[string]string
}

// NewCLI creates a new test CLI with a temp directory. The global
// config lookup is pinned to an empty directory so the developer's
// real config never leaks into tests.
func NewCLI(t *testing.T) *CLI {
	t.Helper()

	return &CLI{
		t:   t,
		Dir: t.TempDir(),
		Env: map[string]string{"XDG_CONFIG_HOME": t.TempDir()},
	}
}

// Run executes the CLI with the given args and returns stdout, stderr, and exit code.
// Args should not include "bandvault" or "--cwd" - those are added automatically.
func (r *CLI) Run(args ...string) (string, string, int) {
	r.t.Helper()

	var outBuf, errBuf bytes.Buffer

	fullArgs := append([]string{"bandvault", "--cwd", r.Dir}, args...)
	code := Run(r.t.Context(), nil, &outBuf, &errBuf, fullArgs, r.Env)

	return outBuf.String(), errBuf.String(), code
}

// MustRun executes the CLI and fails the test if the command returns non-zero.
// Returns trimmed stdout on success.
func (r *CLI) MustRun(args ...string) string {
	r.t.Helper()

	stdout, stderr, code := r.Run(args...)
	if code != 0 {
		r.t.Fatalf("command %v failed with exit code %d\nstderr: %s", args, code, stderr)
	}

	return strings.TrimSpace(stdout)
}

// MustFail executes the CLI and fails the test if the command succeeds.
// Returns trimmed stderr.
func (r *CLI) MustFail(args ...string) string {
	r.t.Helper()

	stdout, stderr, code := r.Run(args...)
	if code == 0 {
		r.t.Fatalf("command %v should have failed but succeeded\nstdout: %s", args, stdout)
	}

	return strings.TrimSpace(stderr)
}

// DatabasePath returns the default database file under the work dir.
func (r *CLI) DatabasePath() string {
	return filepath.Join(r.Dir, ".bandvault", "bands.db")
}

// Register creates a user, failing the test on error.
func (r *CLI) Register(user, password string) {
	r.t.Helper()
	r.MustRun("register", user, "-p", password)
}

// Add creates a minimal valid band owned by user and returns nothing;
// callers list or query to observe it.
func (r *CLI) Add(user, password, name string) {
	r.t.Helper()
	r.MustRun("add",
		"-u", user, "-p", password,
		"--name", name,
		"-g", "rock",
		"--participants", "3",
	)
}
