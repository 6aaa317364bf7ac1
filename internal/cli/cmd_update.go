package cli

import (
	"context"
	"io"

	"github.com/bandvault/bandvault/internal/band"
	"github.com/bandvault/bandvault/internal/store"

	flag "github.com/spf13/pflag"
)

func cmdUpdate(ctx context.Context, out io.Writer, errOut io.Writer, a *app, args []string) int {
	if hasHelpFlag(args) {
		printUpdateHelp(out)

		return 0
	}

	flagSet := flag.NewFlagSet("update", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)

	user := flagSet.StringP("user", "u", "", "Acting user")
	password := flagSet.StringP("password", "p", "", "Acting user's password")
	name := flagSet.String("name", "", "Band name")
	genre := flagSet.StringP("genre", "g", "", "Genre: "+genreChoices())
	x := flagSet.Float64("x", 0, "X coordinate")
	y := flagSet.Float64("y", 0, "Y coordinate")
	participants := flagSet.Int64("participants", 0, "Number of participants (> 0)")
	singles := flagSet.Int64("singles", 0, "Singles count (>= 0)")
	albumName := flagSet.String("album", "", "Best album name")
	albumSales := flagSet.Float64("album-sales", 0, "Best album sales (>= 0)")

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

	if flagSet.Changed("genre") && !band.IsValidGenre(band.Genre(*genre)) {
		fprintln(errOut, "error:", errInvalidGenre, *genre)

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

	current, ok := c.ByID(id)
	if !ok {
		fprintln(errOut, "error:", store.ErrNotFound)

		return 1
	}

	// Start from the stored band so unset flags keep their values.
	updated := current
	updated.Owner = *user

	if flagSet.Changed("name") {
		updated.Name = *name
	}

	if flagSet.Changed("genre") {
		updated.Genre = band.Genre(*genre)
	}

	if flagSet.Changed("x") {
		updated.Coordinates.X = *x
	}

	if flagSet.Changed("y") {
		updated.Coordinates.Y = *y
	}

	if flagSet.Changed("participants") {
		updated.Participants = *participants
	}

	if flagSet.Changed("singles") {
		updated.Singles = *singles
	}

	if flagSet.Changed("album") {
		updated.BestAlbum.Name = *albumName
	}

	if flagSet.Changed("album-sales") {
		updated.BestAlbum.Sales = *albumSales
	}

	replaceErr := c.Replace(ctx, updated)
	if replaceErr != nil {
		fprintln(errOut, "error:", replaceErr)

		return 1
	}

	fprintf(out, "updated %d\n", id)

	return 0
}

func printUpdateHelp(out io.Writer) {
	fprintln(out, "Usage: bandvault update <id> -u <user> -p <password> [options]")
	fprintln(out, "")
	fprintln(out, "Update a band the acting user owns. Unset flags keep their")
	fprintln(out, "stored values. Updating a band owned by somebody else fails.")
	fprintln(out, "")
	fprintln(out, "Options:")
	fprintln(out, "  -u, --user           Acting user")
	fprintln(out, "  -p, --password       Acting user's password")
	fprintln(out, "  --name               Band name")
	fprintln(out, "  -g, --genre          Genre ("+genreChoices()+")")
	fprintln(out, "  --x, --y             Coordinates")
	fprintln(out, "  --participants       Number of participants (> 0)")
	fprintln(out, "  --singles            Singles count")
	fprintln(out, "  --album              Best album name")
	fprintln(out, "  --album-sales        Best album sales")
}
