// Package main provides bandvault, a band collection CLI over a
// SQLite-backed gateway with an in-memory snapshot cache.
package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/bandvault/bandvault/internal/cli"
)

func main() {
	environ := os.Environ()
	env := make(map[string]string, len(environ))

	for _, e := range environ {
		if k, v, ok := strings.Cut(e, "="); ok {
			env[k] = v
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	exitCode := cli.Run(ctx, os.Stdin, os.Stdout, os.Stderr, os.Args, env)

	stop()
	os.Exit(exitCode)
}
