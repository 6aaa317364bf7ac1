package cli

import (
	"cmp"
	"context"
	"io"
	"strconv"
	"time"

	"github.com/bandvault/bandvault/internal/band"
	"github.com/bandvault/bandvault/internal/cache"

	flag "github.com/spf13/pflag"
)

func cmdNth(ctx context.Context, out io.Writer, errOut io.Writer, a *app, args []string) int {
	if hasHelpFlag(args) {
		fprintln(out, "Usage: bandvault nth <k>")
		fprintln(out, "")
		fprintln(out, "Show the band at 1-based position k in id order.")

		return 0
	}

	if len(args) == 0 {
		fprintln(errOut, "error:", errInvalidPosition)

		return 1
	}

	k, parseErr := strconv.Atoi(args[0])
	if parseErr != nil || k < 1 {
		fprintln(errOut, "error:", errInvalidPosition)

		return 1
	}

	s, c, err := a.openCollection(ctx)
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	defer func() { _ = s.Close() }()

	b, ok := c.ByPosition(k)
	if !ok {
		fprintf(errOut, "error: position %d out of range for %d bands\n", k, c.Size())

		return 1
	}

	fprintln(out, formatBandLine(b))

	return 0
}

func cmdMin(ctx context.Context, out io.Writer, errOut io.Writer, a *app, args []string) int {
	if hasHelpFlag(args) {
		fprintln(out, "Usage: bandvault min [--by=id|name|participants]")
		fprintln(out, "")
		fprintln(out, "Show the minimum band under the chosen order.")

		return 0
	}

	flagSet := flag.NewFlagSet("min", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)

	by := flagSet.String("by", "id", "Order: id|name|participants")

	parseErr := flagSet.Parse(args)
	if parseErr != nil {
		fprintln(errOut, "error:", parseErr)

		return 1
	}

	order, ok := minOrder(*by)
	if !ok {
		fprintln(errOut, "error: unknown order:", *by)

		return 1
	}

	s, c, err := a.openCollection(ctx)
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	defer func() { _ = s.Close() }()

	b, found := c.MinBy(order)
	if !found {
		fprintln(errOut, "error: collection is empty")

		return 1
	}

	fprintln(out, formatBandLine(b))

	return 0
}

func minOrder(by string) (func(a, b band.Band) int, bool) {
	switch by {
	case "id":
		return cache.DefaultOrder, true
	case "name":
		return func(a, b band.Band) int { return cmp.Compare(a.Name, b.Name) }, true
	case "participants":
		return func(a, b band.Band) int { return cmp.Compare(a.Participants, b.Participants) }, true
	default:
		return nil, false
	}
}

func cmdParticipants(ctx context.Context, out io.Writer, errOut io.Writer, a *app, args []string) int {
	if hasHelpFlag(args) {
		fprintln(out, "Usage: bandvault participants <id>")
		fprintln(out, "")
		fprintln(out, "Show the participant count of the band with the given id.")

		return 0
	}

	if len(args) == 0 {
		fprintln(errOut, "error:", errIDRequired)

		return 1
	}

	id, idErr := parseBandID(args[0])
	if idErr != nil {
		fprintln(errOut, "error:", idErr)

		return 1
	}

	s, c, err := a.openCollection(ctx)
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	defer func() { _ = s.Close() }()

	count, ok := c.Participants(id)
	if !ok {
		fprintf(errOut, "error: no band with id %d\n", id)

		return 1
	}

	fprintln(out, count)

	return 0
}

func cmdInfo(ctx context.Context, out io.Writer, errOut io.Writer, a *app, args []string) int {
	if hasHelpFlag(args) {
		fprintln(out, "Usage: bandvault info")
		fprintln(out, "")
		fprintln(out, "Show size, load time, and identity of the current snapshot.")

		return 0
	}

	s, c, err := a.openCollection(ctx)
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	defer func() { _ = s.Close() }()

	info := c.Describe()

	fprintf(out, "size: %d\n", info.Size)
	fprintf(out, "loaded: %s\n", info.CreatedAt.Format(time.RFC3339))
	fprintf(out, "snapshot: %s\n", info.Label)

	return 0
}
