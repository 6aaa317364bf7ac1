package cli

import (
	"context"
	"io"

	flag "github.com/spf13/pflag"
)

func cmdClear(ctx context.Context, out io.Writer, errOut io.Writer, a *app, args []string) int {
	if hasHelpFlag(args) {
		fprintln(out, "Usage: bandvault clear -u <user> -p <password>")
		fprintln(out, "")
		fprintln(out, "Remove every band owned by the acting user.")

		return 0
	}

	flagSet := flag.NewFlagSet("clear", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)

	user := flagSet.StringP("user", "u", "", "Acting user")
	password := flagSet.StringP("password", "p", "", "Acting user's password")

	parseErr := flagSet.Parse(args)
	if parseErr != nil {
		fprintln(errOut, "error:", parseErr)

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

	clearErr := c.Clear(ctx, *user)
	if clearErr != nil {
		fprintln(errOut, "error:", clearErr)

		return 1
	}

	fprintf(out, "cleared bands owned by %s, collection size %d\n", *user, c.Size())

	return 0
}
