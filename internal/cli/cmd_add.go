package cli

import (
	"context"
	"io"

	"github.com/bandvault/bandvault/internal/band"

	flag "github.com/spf13/pflag"
)

func cmdAdd(ctx context.Context, out io.Writer, errOut io.Writer, a *app, args []string) int {
	if hasHelpFlag(args) {
		printAddHelp(out)

		return 0
	}

	flagSet := flag.NewFlagSet("add", flag.ContinueOnError)
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

	if *user == "" {
		fprintln(errOut, "error:", errUserRequired)

		return 1
	}

	if *password == "" {
		fprintln(errOut, "error:", errPasswordRequired)

		return 1
	}

	if *name == "" {
		fprintln(errOut, "error:", errNameRequired)

		return 1
	}

	if !band.IsValidGenre(band.Genre(*genre)) {
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

	b := band.Band{
		Name:         *name,
		Coordinates:  band.Coordinates{X: *x, Y: *y},
		Genre:        band.Genre(*genre),
		Participants: *participants,
		Singles:      *singles,
		Owner:        *user,
		BestAlbum:    band.Album{Name: *albumName, Sales: *albumSales},
	}

	addErr := c.Add(ctx, b)
	if addErr != nil {
		fprintln(errOut, "error:", addErr)

		return 1
	}

	fprintf(out, "added %q, collection size %d\n", *name, c.Size())

	return 0
}

func printAddHelp(out io.Writer) {
	fprintln(out, "Usage: bandvault add -u <user> -p <password> --name <name> -g <genre> [options]")
	fprintln(out, "")
	fprintln(out, "Add a band owned by the acting user.")
	fprintln(out, "")
	fprintln(out, "Options:")
	fprintln(out, "  -u, --user           Acting user")
	fprintln(out, "  -p, --password       Acting user's password")
	fprintln(out, "  --name               Band name")
	fprintln(out, "  -g, --genre          Genre ("+genreChoices()+")")
	fprintln(out, "  --x, --y             Coordinates")
	fprintln(out, "  --participants       Number of participants (> 0)")
	fprintln(out, "  --singles            Singles count [default: 0]")
	fprintln(out, "  --album              Best album name")
	fprintln(out, "  --album-sales        Best album sales [default: 0]")
}
