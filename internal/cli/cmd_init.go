package cli

import (
	"context"
	"io"
	"path/filepath"

	"github.com/bandvault/bandvault/internal/config"

	flag "github.com/spf13/pflag"
)

func cmdInit(ctx context.Context, out io.Writer, errOut io.Writer, a *app, args []string) int {
	if hasHelpFlag(args) {
		fprintln(out, "Usage: bandvault init [--reset]")
		fprintln(out, "")
		fprintln(out, "Create the database file and schema if they do not exist yet.")
		fprintln(out, "With --reset, drop and recreate the schema, discarding all rows.")

		return 0
	}

	flagSet := flag.NewFlagSet("init", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)

	reset := flagSet.Bool("reset", false, "Drop and recreate the schema")

	parseErr := flagSet.Parse(args)
	if parseErr != nil {
		fprintln(errOut, "error:", parseErr)

		return 1
	}

	s, err := a.openStore(ctx)
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	defer func() { _ = s.Close() }()

	if *reset {
		resetErr := s.Reset(ctx)
		if resetErr != nil {
			fprintln(errOut, "error:", resetErr)

			return 1
		}
	}

	fprintln(out, s.Path())

	return 0
}

func cmdConfigInit(out io.Writer, errOut io.Writer, a *app, args []string) int {
	if hasHelpFlag(args) {
		fprintln(out, "Usage: bandvault config-init [--path <file>]")
		fprintln(out, "")
		fprintln(out, "Write a commented default config file. Refuses to overwrite.")

		return 0
	}

	flagSet := flag.NewFlagSet("config-init", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)

	path := flagSet.String("path", "", "Target file (default: ./"+config.FileName+")")

	parseErr := flagSet.Parse(args)
	if parseErr != nil {
		fprintln(errOut, "error:", parseErr)

		return 1
	}

	target := *path
	if target == "" {
		target = filepath.Join(a.workDir, config.FileName)
	} else if !filepath.IsAbs(target) {
		target = filepath.Join(a.workDir, target)
	}

	err := config.Init(target)
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	fprintln(out, target)

	return 0
}
