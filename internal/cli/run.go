package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bandvault/bandvault/internal/cache"
	"github.com/bandvault/bandvault/internal/config"
	"github.com/bandvault/bandvault/internal/logger"
	"github.com/bandvault/bandvault/internal/store"
)

const (
	minArgs      = 2
	consumedOne  = 1
	consumedTwo  = 2
	consumedNone = 0
	helpFlag     = "--help"
)

// Run is the main entry point. Returns exit code.
func Run(ctx context.Context, _ io.Reader, out io.Writer, errOut io.Writer, args []string, env map[string]string) int {
	if len(args) < minArgs {
		printUsage(out)

		return 0
	}

	// Parse global flags
	flags, err := parseGlobalFlags(args[1:])
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	// Default workDir to current directory
	workDir := flags.workDir
	if workDir == "" {
		workDir, err = os.Getwd()
		if err != nil {
			fprintln(errOut, "error: cannot get working directory:", err)

			return 1
		}
	}

	// Load and validate config
	cliOverrides := config.Config{DatabasePath: flags.databasePath, Verbosity: flags.verbosity}

	cfg, sources, err := config.Load(workDir, flags.configPath, cliOverrides, flags.hasDatabaseOverride, env)
	if err != nil {
		fprintln(errOut, "error:", err)
		printUsage(errOut)

		return 1
	}

	if len(flags.remaining) == 0 {
		printUsage(out)

		return 0
	}

	cmd := flags.remaining[0]
	cmdArgs := flags.remaining[1:]

	// Handle help flags
	if cmd == "-h" || cmd == helpFlag {
		printUsage(out)

		return 0
	}

	a := &app{
		cfg:     cfg,
		workDir: workDir,
		log:     logger.NewStandardLogger(errOut, cfg.Verbosity),
	}

	// Dispatch to command
	switch cmd {
	case "init":
		return cmdInit(ctx, out, errOut, a, cmdArgs)
	case "config-init":
		return cmdConfigInit(out, errOut, a, cmdArgs)
	case "register":
		return cmdRegister(ctx, out, errOut, a, cmdArgs)
	case "auth":
		return cmdAuth(ctx, out, errOut, a, cmdArgs)
	case "add":
		return cmdAdd(ctx, out, errOut, a, cmdArgs)
	case "update":
		return cmdUpdate(ctx, out, errOut, a, cmdArgs)
	case "rm":
		return cmdRm(ctx, out, errOut, a, cmdArgs)
	case "clear":
		return cmdClear(ctx, out, errOut, a, cmdArgs)
	case "ls":
		return cmdLs(ctx, out, errOut, a, cmdArgs)
	case "nth":
		return cmdNth(ctx, out, errOut, a, cmdArgs)
	case "min":
		return cmdMin(ctx, out, errOut, a, cmdArgs)
	case "participants":
		return cmdParticipants(ctx, out, errOut, a, cmdArgs)
	case "info":
		return cmdInfo(ctx, out, errOut, a, cmdArgs)
	case "print-config":
		return cmdPrintConfig(out, errOut, cfg, sources)
	default:
		fprintln(errOut, "error: unknown command:", cmd)
		printUsage(errOut)

		return 1
	}
}

// app carries the resolved environment every command needs.
type app struct {
	cfg     config.Config
	workDir string
	log     logger.Logger
}

// databasePath resolves the configured database file to an absolute path.
func (a *app) databasePath() string {
	path := a.cfg.DatabasePath
	if !filepath.IsAbs(path) {
		path = filepath.Join(a.workDir, path)
	}

	return path
}

// openStore opens the persistent gateway.
func (a *app) openStore(ctx context.Context) (*store.Store, error) {
	return store.Open(ctx, a.databasePath(), store.WithLogger(a.log))
}

// openCollection opens the gateway and fills a collection from it.
// The caller closes the returned store.
func (a *app) openCollection(ctx context.Context) (*store.Store, *cache.Collection, error) {
	s, err := a.openStore(ctx)
	if err != nil {
		return nil, nil, err
	}

	c, err := cache.New(ctx, s, cache.WithLogger(a.log))
	if err != nil {
		_ = s.Close()

		return nil, nil, err
	}

	return s, c, nil
}

type globalFlags struct {
	workDir             string
	configPath          string
	databasePath        string
	hasDatabaseOverride bool
	verbosity           int
	remaining           []string
}

func parseGlobalFlags(args []string) (globalFlags, error) {
	var flags globalFlags

	idx := 0
	for idx < len(args) {
		consumed, err := parseFlag(args, idx, &flags)
		if err != nil {
			return globalFlags{}, err
		}

		if consumed == 0 {
			// Not a flag, this is the command
			flags.remaining = args[idx:]

			break
		}

		idx += consumed
	}

	return flags, nil
}

// parseFlag tries to parse a flag at args[idx]. Returns number of args consumed (0 if not a flag).
func parseFlag(args []string, idx int, flags *globalFlags) (int, error) {
	arg := args[idx]

	// -C/--cwd flag (work directory)
	if (arg == "-C" || arg == "--cwd") && idx+1 < len(args) {
		flags.workDir = args[idx+1]

		return consumedTwo, nil
	}

	if after, ok := strings.CutPrefix(arg, "-C"); ok {
		flags.workDir = after

		return consumedOne, nil
	}

	if after, ok := strings.CutPrefix(arg, "--cwd="); ok {
		flags.workDir = after

		return consumedOne, nil
	}

	// -c/--config flag
	if arg == "-c" || arg == "--config" {
		if idx+1 >= len(args) {
			return consumedNone, fmt.Errorf("%w: %s", errFlagRequiresArg, arg)
		}

		flags.configPath = args[idx+1]

		return consumedTwo, nil
	}

	if after, ok := strings.CutPrefix(arg, "--config="); ok {
		flags.configPath = after

		return consumedOne, nil
	}

	// --db flag (database path override)
	if arg == "--db" {
		if idx+1 >= len(args) {
			return consumedNone, fmt.Errorf("%w: %s", errFlagRequiresArg, arg)
		}

		flags.databasePath = args[idx+1]
		flags.hasDatabaseOverride = true

		return consumedTwo, nil
	}

	if after, ok := strings.CutPrefix(arg, "--db="); ok {
		flags.databasePath = after
		flags.hasDatabaseOverride = true

		return consumedOne, nil
	}

	// -v flags raise log verbosity, repeatable
	if arg == "-v" || arg == "--verbose" {
		flags.verbosity++

		return consumedOne, nil
	}

	// -h/--help flags
	if arg == "-h" || arg == helpFlag {
		flags.remaining = []string{helpFlag}

		return len(args) - idx, nil
	}

	// Unknown flag
	if strings.HasPrefix(arg, "-") && arg != "-" {
		return consumedNone, fmt.Errorf("%w: %s", errUnknownFlag, arg)
	}

	// Not a flag
	return consumedNone, nil
}

func cmdPrintConfig(out io.Writer, errOut io.Writer, cfg config.Config, sources config.Sources) int {
	formatted, err := config.Format(cfg)
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	fprintln(out, formatted)

	// Print sources
	fprintln(out, "")
	fprintln(out, "# Sources:")

	if sources.Global != "" {
		fprintln(out, "#   global:", sources.Global)
	}

	if sources.Project != "" {
		fprintln(out, "#   project:", sources.Project)
	}

	if sources.Global == "" && sources.Project == "" {
		fprintln(out, "#   (using defaults only)")
	}

	return 0
}

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}

func fprintf(w io.Writer, format string, a ...any) {
	_, _ = fmt.Fprintf(w, format, a...)
}

func hasHelpFlag(args []string) bool {
	for _, arg := range args {
		if arg == "-h" || arg == helpFlag {
			return true
		}
	}

	return false
}

func printUsage(writer io.Writer) {
	fprintln(writer, `bandvault - band collection over a SQLite gateway

Usage: bandvault [options] <command> [args]

Options:
  -C, --cwd <dir>    Run as if started in <dir>
  -c, --config       Use specified config file
  --db <path>        Database file (overrides config)
  -v                 Increase log verbosity (repeatable)

Commands:
  init                   Create the database and schema
  register <user>        Register a new user
  auth <user>            Check a user's password
  add                    Add a band (requires -u/--password)
  update <id>            Update an owned band
  rm <id>                Remove an owned band by id
  clear                  Remove all bands owned by a user
  ls                     List bands in id order
  nth <k>                Show the band at 1-based position k
  min                    Show the minimum band
  participants <id>      Show a band's participant count
  info                   Show collection snapshot info
  print-config           Show resolved configuration
  config-init            Write a commented default config file`)
}
