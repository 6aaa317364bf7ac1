package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bandvault/bandvault/internal/config"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()

	err := os.MkdirAll(filepath.Dir(path), 0o750)
	if err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	err = os.WriteFile(path, []byte(body), 0o600)
	if err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// env returns an environment map that pins XDG_CONFIG_HOME to an
// isolated directory so tests never read the developer's real config.
func env(t *testing.T) (map[string]string, string) {
	t.Helper()

	dir := t.TempDir()

	return map[string]string{"XDG_CONFIG_HOME": dir}, dir
}

func Test_Load_Returns_Defaults_When_No_Files_Exist(t *testing.T) {
	t.Parallel()

	e, _ := env(t)

	cfg, sources, err := config.Load(t.TempDir(), "", config.Config{}, false, e)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.DatabasePath != filepath.Join(".bandvault", "bands.db") {
		t.Fatalf("database path = %q, want default", cfg.DatabasePath)
	}

	if sources.Global != "" || sources.Project != "" {
		t.Fatalf("sources = %+v, want none", sources)
	}
}

func Test_Load_Reads_Project_File_With_Comments(t *testing.T) {
	t.Parallel()

	e, _ := env(t)
	workDir := t.TempDir()

	writeFile(t, filepath.Join(workDir, config.FileName), `{
		// project database lives next to the code
		"database_path": "project.db",
	}`)

	cfg, sources, err := config.Load(workDir, "", config.Config{}, false, e)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.DatabasePath != "project.db" {
		t.Fatalf("database path = %q, want project.db", cfg.DatabasePath)
	}

	if sources.Project == "" {
		t.Fatal("project source should be recorded")
	}
}

func Test_Load_Project_File_Overrides_Global(t *testing.T) {
	t.Parallel()

	e, xdg := env(t)
	workDir := t.TempDir()

	writeFile(t, filepath.Join(xdg, "bandvault", "config.json"), `{
		"database_path": "global.db",
		"verbosity": 3,
	}`)
	writeFile(t, filepath.Join(workDir, config.FileName), `{
		"database_path": "project.db",
	}`)

	cfg, sources, err := config.Load(workDir, "", config.Config{}, false, e)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.DatabasePath != "project.db" {
		t.Fatalf("database path = %q, want project.db", cfg.DatabasePath)
	}

	// Unset project fields fall through to the global file.
	if cfg.Verbosity != 3 {
		t.Fatalf("verbosity = %d, want 3 from global", cfg.Verbosity)
	}

	if sources.Global == "" || sources.Project == "" {
		t.Fatalf("sources = %+v, want both recorded", sources)
	}
}

func Test_Load_Cli_Override_Wins_Over_Files(t *testing.T) {
	t.Parallel()

	e, _ := env(t)
	workDir := t.TempDir()

	writeFile(t, filepath.Join(workDir, config.FileName), `{"database_path": "project.db"}`)

	override := config.Config{DatabasePath: "cli.db", Verbosity: 2}

	cfg, _, err := config.Load(workDir, "", override, true, e)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.DatabasePath != "cli.db" {
		t.Fatalf("database path = %q, want cli.db", cfg.DatabasePath)
	}

	if cfg.Verbosity != 2 {
		t.Fatalf("verbosity = %d, want 2", cfg.Verbosity)
	}
}

func Test_Load_Rejects_Explicitly_Empty_Database_Path(t *testing.T) {
	t.Parallel()

	e, _ := env(t)
	workDir := t.TempDir()

	writeFile(t, filepath.Join(workDir, config.FileName), `{"database_path": ""}`)

	_, _, err := config.Load(workDir, "", config.Config{}, false, e)
	if !errors.Is(err, config.ErrDatabasePathEmpty) {
		t.Fatalf("error = %v, want ErrDatabasePathEmpty", err)
	}
}

func Test_Load_Reports_Missing_Explicit_Config_File(t *testing.T) {
	t.Parallel()

	e, _ := env(t)

	_, _, err := config.Load(t.TempDir(), "nope.json", config.Config{}, false, e)
	if !errors.Is(err, config.ErrFileNotFound) {
		t.Fatalf("error = %v, want ErrFileNotFound", err)
	}
}

func Test_Load_Reports_Malformed_File(t *testing.T) {
	t.Parallel()

	e, _ := env(t)
	workDir := t.TempDir()

	writeFile(t, filepath.Join(workDir, config.FileName), `{not json`)

	_, _, err := config.Load(workDir, "", config.Config{}, false, e)
	if !errors.Is(err, config.ErrInvalid) {
		t.Fatalf("error = %v, want ErrInvalid", err)
	}
}

func Test_Init_Writes_Parseable_Default_File(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "sub", config.FileName)

	err := config.Init(path)
	if err != nil {
		t.Fatalf("init: %v", err)
	}

	e, _ := env(t)

	cfg, _, err := config.Load(filepath.Dir(path), path, config.Config{}, false, e)
	if err != nil {
		t.Fatalf("load written default: %v", err)
	}

	if cfg.DatabasePath == "" {
		t.Fatal("written default should carry a database path")
	}
}

func Test_Init_Refuses_To_Overwrite(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), config.FileName)
	writeFile(t, path, `{"database_path": "keep.db"}`)

	err := config.Init(path)
	if err == nil {
		t.Fatal("expected error when file exists")
	}

	data, readErr := os.ReadFile(path)
	if readErr != nil {
		t.Fatalf("read: %v", readErr)
	}

	if !strings.Contains(string(data), "keep.db") {
		t.Fatal("existing file must survive a refused init")
	}
}

func Test_Format_Emits_Indented_Json(t *testing.T) {
	t.Parallel()

	out, err := config.Format(config.Config{DatabasePath: "x.db", Verbosity: 1})
	if err != nil {
		t.Fatalf("format: %v", err)
	}

	if !strings.Contains(out, `"database_path": "x.db"`) {
		t.Fatalf("output missing database path: %s", out)
	}
}
