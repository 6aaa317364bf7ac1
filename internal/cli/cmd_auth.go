package cli

import (
	"context"
	"io"

	"github.com/bandvault/bandvault/internal/store"

	flag "github.com/spf13/pflag"
)

func cmdAuth(ctx context.Context, out io.Writer, errOut io.Writer, a *app, args []string) int {
	if hasHelpFlag(args) {
		fprintln(out, "Usage: bandvault auth <user> -p <password>")
		fprintln(out, "")
		fprintln(out, "Check a user's password. Prints ok and exits 0 on success.")

		return 0
	}

	flagSet := flag.NewFlagSet("auth", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)

	password := flagSet.StringP("password", "p", "", "Password to check")

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

	s, err := a.openStore(ctx)
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	defer func() { _ = s.Close() }()

	authErr := authenticate(ctx, s, username, *password)
	if authErr != nil {
		fprintln(errOut, "error:", authErr)

		return 1
	}

	fprintln(out, "ok")

	return 0
}

// authenticate resolves the credential check into a single error. An
// unknown user and a wrong password are indistinguishable on purpose.
func authenticate(ctx context.Context, s *store.Store, username, password string) error {
	ok, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return err
	}

	if !ok {
		return errAuthFailed
	}

	return nil
}
