package cli

import (
	"context"
	"io"

	flag "github.com/spf13/pflag"
)

func cmdRm(ctx context.Context, out io.Writer, errOut io.Writer, a *app, args []string) int {
	if hasHelpFlag(args) {
		fprintln(out, "Usage: bandvault rm <id> -u <user> -p <password>")
		fprintln(out, "")
		fprintln(out, "Remove a band the acting user owns from the store and the")
		fprintln(out, "collection. Removing a band owned by somebody else fails.")

		return 0
	}

	flagSet := flag.NewFlagSet("rm", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)

	user := flagSet.StringP("user", "u", "", "Acting user")
	password := flagSet.StringP("password", "p", "", "Acting user's password")

	parseErr := flagSet.Parse(args)
	if parseErr != nil {
		fprintln(errOut, "error:", parseErr)

		return 1
	}

	if flagSet.NArg() == 0 {
		fprintln(errOut, "error:", errIDRequired)

		return 1
	}

	id, idErr := parseBandID(flagSet.Arg(0))
	if idErr != nil {
		fprintln(errOut, "error:", idErr)

		return 1
	}

	if *user == "" {
		fprintln(errOut, "error:", errUserRequired)

		return 1
	}

	if *password == "" {
		fprintln(errOut, "error:", errPasswordRequired)

		return 1
	}

	s, c, err := a.openCollection(ctx)
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	defer func() { _ = s.Close() }()

	authErr := authenticate(ctx, s, *user, *password)
	if authErr != nil {
		fprintln(errOut, "error:", authErr)

		return 1
	}

	removeErr := c.Remove(ctx, id, *user)
	if removeErr != nil {
		fprintln(errOut, "error:", removeErr)

		return 1
	}

	fprintf(out, "removed %d\n", id)

	return 0
}
