package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bandvault/bandvault/internal/band"
)

// formatBandLine renders one band as a single ls-style line.
func formatBandLine(b band.Band) string {
	var builder strings.Builder

	builder.WriteString(strconv.FormatInt(b.ID, 10))
	builder.WriteString(" [")
	builder.WriteString(string(b.Genre))
	builder.WriteString("] ")
	builder.WriteString(b.Name)
	builder.WriteString(" - owner=")
	builder.WriteString(b.Owner)

	fmt.Fprintf(&builder, " participants=%d singles=%d", b.Participants, b.Singles)
	fmt.Fprintf(&builder, " coords=(%g, %g)", b.Coordinates.X, b.Coordinates.Y)
	fmt.Fprintf(&builder, " album=%q(%g)", b.BestAlbum.Name, b.BestAlbum.Sales)

	builder.WriteString(" created=")
	builder.WriteString(b.CreatedAt.Format(time.RFC3339))

	return builder.String()
}

// parseBandID parses a positional band id argument.
func parseBandID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", errInvalidID, arg)
	}

	return id, nil
}

// genreChoices renders the known genres for help and error text.
func genreChoices() string {
	parts := make([]string, 0, len(band.Genres))
	for _, g := range band.Genres {
		parts = append(parts, string(g))
	}

	return strings.Join(parts, "|")
}
