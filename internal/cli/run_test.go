package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func Test_No_Args_Prints_Usage(t *testing.T) {
	t.Parallel()

	r := NewCLI(t)

	out, _, code := r.Run()
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}

	if !strings.Contains(out, "Usage: bandvault") {
		t.Fatalf("usage not printed:\n%s", out)
	}
}

func Test_Unknown_Command_Fails(t *testing.T) {
	t.Parallel()

	r := NewCLI(t)

	stderr := r.MustFail("frobnicate")
	if !strings.Contains(stderr, "unknown command") {
		t.Fatalf("stderr = %q, want unknown command", stderr)
	}
}

func Test_Unknown_Global_Flag_Fails(t *testing.T) {
	t.Parallel()

	r := NewCLI(t)

	stderr := r.MustFail("--bogus", "ls")
	if !strings.Contains(stderr, "unknown flag") {
		t.Fatalf("stderr = %q, want unknown flag", stderr)
	}
}

func Test_Init_Creates_Database_File(t *testing.T) {
	t.Parallel()

	r := NewCLI(t)

	out := r.MustRun("init")
	if out != r.DatabasePath() {
		t.Fatalf("init printed %q, want %q", out, r.DatabasePath())
	}

	_, err := os.Stat(r.DatabasePath())
	if err != nil {
		t.Fatalf("database file missing: %v", err)
	}
}

func Test_Init_Reset_Discards_Rows(t *testing.T) {
	t.Parallel()

	r := NewCLI(t)
	r.Register("alice", "pw1")
	r.Add("alice", "pw1", "Doomed")

	r.MustRun("init", "--reset")

	out := r.MustRun("ls")
	if strings.Contains(out, "Doomed") {
		t.Fatalf("rows survived reset:\n%s", out)
	}

	// Schema is back, so registration works again.
	r.Register("alice", "pw1")
}

func Test_Db_Flag_Overrides_Config(t *testing.T) {
	t.Parallel()

	r := NewCLI(t)

	custom := filepath.Join(r.Dir, "elsewhere.db")

	out := r.MustRun("--db", custom, "init")
	if out != custom {
		t.Fatalf("init printed %q, want %q", out, custom)
	}
}

func Test_Print_Config_Shows_Resolved_Values(t *testing.T) {
	t.Parallel()

	r := NewCLI(t)

	out := r.MustRun("print-config")
	if !strings.Contains(out, "database_path") {
		t.Fatalf("output missing database_path:\n%s", out)
	}

	if !strings.Contains(out, "(using defaults only)") {
		t.Fatalf("output missing sources note:\n%s", out)
	}
}

func Test_Config_Init_Then_Print_Config_Reads_It(t *testing.T) {
	t.Parallel()

	r := NewCLI(t)

	path := r.MustRun("config-init")

	_, err := os.Stat(path)
	if err != nil {
		t.Fatalf("config file missing: %v", err)
	}

	out := r.MustRun("print-config")
	if !strings.Contains(out, "# Sources:") || !strings.Contains(out, path) {
		t.Fatalf("print-config does not list the project file:\n%s", out)
	}

	// Second init must refuse to overwrite.
	stderr := r.MustFail("config-init")
	if !strings.Contains(stderr, "already exists") {
		t.Fatalf("stderr = %q, want already exists", stderr)
	}
}
