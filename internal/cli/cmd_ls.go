package cli

import (
	"context"
	"io"

	flag "github.com/spf13/pflag"
)

func cmdLs(ctx context.Context, out io.Writer, errOut io.Writer, a *app, args []string) int {
	if hasHelpFlag(args) {
		printLsHelp(out)

		return 0
	}

	flagSet := flag.NewFlagSet("ls", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)

	owner := flagSet.String("owner", "", "Only bands owned by this user")
	limit := flagSet.Int("limit", 0, "Maximum bands to show (0 = all)")

	parseErr := flagSet.Parse(args)
	if parseErr != nil {
		fprintln(errOut, "error:", parseErr)

		return 1
	}

	if *limit < 0 {
		fprintln(errOut, "error: --limit must be non-negative")

		return 1
	}

	s, c, err := a.openCollection(ctx)
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	defer func() { _ = s.Close() }()

	shown := 0

	for b := range c.All() {
		if *owner != "" && b.Owner != *owner {
			continue
		}

		fprintln(out, formatBandLine(b))

		shown++
		if *limit > 0 && shown >= *limit {
			break
		}
	}

	return 0
}

func printLsHelp(out io.Writer) {
	fprintln(out, "Usage: bandvault ls [options]")
	fprintln(out, "")
	fprintln(out, "List bands in ascending id order.")
	fprintln(out, "")
	fprintln(out, "Options:")
	fprintln(out, "  --owner=<user>       Only bands owned by <user>")
	fprintln(out, "  --limit=N            Max bands to show [default: all]")
}
