package cli

import (
	"context"
	"io"

	flag "github.com/spf13/pflag"
)

func cmdRegister(ctx context.Context, out io.Writer, errOut io.Writer, a *app, args []string) int {
	if hasHelpFlag(args) {
		printRegisterHelp(out)

		return 0
	}

	flagSet := flag.NewFlagSet("register", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)

	password := flagSet.StringP("password", "p", "", "Password for the new user")

	parseErr := flagSet.Parse(args)
	if parseErr != nil {
		fprintln(errOut, "error:", parseErr)

		return 1
	}

	username := ""
	if flagSet.NArg() > 0 {
		username = flagSet.Arg(0)
	}

	if username == "" {
		fprintln(errOut, "error: username is required")

		return 1
	}

	if *password == "" {
		fprintln(errOut, "error:", errPasswordRequired)

		return 1
	}

	s, err := a.openStore(ctx)
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	defer func() { _ = s.Close() }()

	registerErr := s.Register(ctx, username, *password)
	if registerErr != nil {
		fprintln(errOut, "error:", registerErr)

		return 1
	}

	fprintln(out, "registered", username)

	return 0
}

func printRegisterHelp(out io.Writer) {
	fprintln(out, "Usage: bandvault register <user> -p <password>")
	fprintln(out, "")
	fprintln(out, "Register a new user. Fails if the username is taken.")
	fprintln(out, "")
	fprintln(out, "Options:")
	fprintln(out, "  -p, --password       Password for the new user")
}
