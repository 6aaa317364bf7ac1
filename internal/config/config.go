// Package config loads bandvault configuration from JSONC files.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/tailscale/hujson"
)

// Config holds all configuration options.
type Config struct {
	DatabasePath string `json:"database_path"` //nolint:tagliatelle // snake_case for config file
	Verbosity    int    `json:"verbosity,omitempty"`
}

// Sources tracks which config files were loaded.
type Sources struct {
	Global  string // Path to global config if loaded, empty otherwise
	Project string // Path to project config if loaded, empty otherwise
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		DatabasePath: filepath.Join(".bandvault", "bands.db"),
	}
}

// FileName is the default project config file name.
const FileName = ".bandvault.json"

// Config errors.
var (
	ErrFileNotFound      = errors.New("config file not found")
	ErrInvalid           = errors.New("invalid config")
	ErrDatabasePathEmpty = errors.New("database_path must not be empty")
)

// globalPath returns the path to the global config file.
// Uses $XDG_CONFIG_HOME/bandvault/config.json if set, otherwise
// ~/.config/bandvault/config.json. Empty when no home is known.
func globalPath(env map[string]string) string {
	if xdg := env["XDG_CONFIG_HOME"]; xdg != "" {
		return filepath.Join(xdg, "bandvault", "config.json")
	}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "bandvault", "config.json")
	}

	home, err := os.UserHomeDir()
	if err == nil {
		return filepath.Join(home, ".config", "bandvault", "config.json")
	}

	return ""
}

// Load resolves configuration with the following precedence (highest
// wins):
//  1. Defaults
//  2. Global user config
//  3. Project config file (.bandvault.json) or explicit configPath
//  4. CLI overrides
func Load(workDir, configPath string, cliOverride Config, hasDatabaseOverride bool, env map[string]string) (Config, Sources, error) {
	cfg := Default()

	var sources Sources

	globalCfg, globalFile, err := loadGlobal(env)
	if err != nil {
		return Config{}, Sources{}, err
	}

	sources.Global = globalFile
	cfg = merge(cfg, globalCfg)

	projectCfg, projectFile, err := loadProject(workDir, configPath)
	if err != nil {
		return Config{}, Sources{}, err
	}

	sources.Project = projectFile
	cfg = merge(cfg, projectCfg)

	if hasDatabaseOverride {
		cfg.DatabasePath = cliOverride.DatabasePath
	}

	if cliOverride.Verbosity > 0 {
		cfg.Verbosity = cliOverride.Verbosity
	}

	if cfg.DatabasePath == "" {
		return Config{}, Sources{}, ErrDatabasePathEmpty
	}

	return cfg, sources, nil
}

func loadGlobal(env map[string]string) (Config, string, error) {
	path := globalPath(env)
	if path == "" {
		return Config{}, "", nil
	}

	cfg, explicitEmpty, loaded, err := loadFile(path, false)
	if err != nil {
		return Config{}, "", err
	}

	if !loaded {
		return Config{}, "", nil
	}

	if explicitEmpty["database_path"] {
		return Config{}, "", fmt.Errorf("%w %s: %w", ErrInvalid, path, ErrDatabasePathEmpty)
	}

	return cfg, path, nil
}

func loadProject(workDir, configPath string) (Config, string, error) {
	var (
		file      string
		mustExist bool
	)

	if configPath != "" {
		file = configPath
		if !filepath.IsAbs(file) {
			file = filepath.Join(workDir, file)
		}

		mustExist = true

		_, statErr := os.Stat(file)
		if statErr != nil {
			return Config{}, "", fmt.Errorf("%w: %s", ErrFileNotFound, configPath)
		}
	} else {
		file = filepath.Join(workDir, FileName)
	}

	cfg, explicitEmpty, loaded, err := loadFile(file, mustExist)
	if err != nil {
		return Config{}, "", err
	}

	if !loaded {
		return Config{}, "", nil
	}

	if explicitEmpty["database_path"] {
		return Config{}, "", fmt.Errorf("%w %s: %w", ErrInvalid, file, ErrDatabasePathEmpty)
	}

	return cfg, file, nil
}

// loadFile loads a config file. When mustExist is false a missing
// file returns zero config. Returns the config, a map of explicitly
// empty fields, whether a file was loaded, and any error.
func loadFile(path string, mustExist bool) (Config, map[string]bool, bool, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is intentionally user-controlled
	if err != nil {
		if mustExist {
			return Config{}, nil, false, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}

		return Config{}, nil, false, nil
	}

	cfg, explicitEmpty, parseErr := parse(data)
	if parseErr != nil {
		return Config{}, nil, false, fmt.Errorf("%w %s: %w", ErrInvalid, path, parseErr)
	}

	return cfg, explicitEmpty, true, nil
}

func parse(data []byte) (Config, map[string]bool, error) {
	// Standardize JSONC to JSON
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, nil, fmt.Errorf("invalid JSONC: %w", err)
	}

	var cfg Config

	unmarshalErr := json.Unmarshal(standardized, &cfg)
	if unmarshalErr != nil {
		return Config{}, nil, fmt.Errorf("invalid JSON: %w", unmarshalErr)
	}

	var raw map[string]any

	_ = json.Unmarshal(standardized, &raw)

	explicitEmpty := make(map[string]bool)

	if val, exists := raw["database_path"]; exists {
		if str, ok := val.(string); ok && str == "" {
			explicitEmpty["database_path"] = true
		}
	}

	return cfg, explicitEmpty, nil
}

func merge(base, overlay Config) Config {
	if overlay.DatabasePath != "" {
		base.DatabasePath = overlay.DatabasePath
	}

	if overlay.Verbosity > 0 {
		base.Verbosity = overlay.Verbosity
	}

	return base
}

// Format returns the config as formatted JSON.
func Format(cfg Config) (string, error) {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to format config: %w", err)
	}

	return string(data), nil
}

// defaultFileBody is the commented starter config written by Init.
const defaultFileBody = `{
	// Path to the SQLite database file holding bands and users.
	"database_path": ".bandvault/bands.db",

	// Log verbosity: 0 errors only, 1 warnings, 2 info, 3 debug.
	"verbosity": 1,
}
`

// Init writes a commented default config file at path. The write is
// atomic so a crash never leaves a half-written config behind.
func Init(path string) error {
	if path == "" {
		return errors.New("init config: path is empty")
	}

	_, err := os.Stat(path)
	if err == nil {
		return fmt.Errorf("init config: %s already exists", path)
	}

	err = os.MkdirAll(filepath.Dir(path), 0o750)
	if err != nil {
		return fmt.Errorf("init config: %w", err)
	}

	err = atomic.WriteFile(path, strings.NewReader(defaultFileBody))
	if err != nil {
		return fmt.Errorf("init config: %w", err)
	}

	return nil
}
