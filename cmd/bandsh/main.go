// bandsh is an interactive shell over a bandvault database.
//
// Usage:
//
//	bandsh <database-file>
//
// Commands (in REPL):
//
//	register <user>                Register a new user (prompts for password)
//	login <user>                   Authenticate (prompts for password)
//	add <name> <genre> <n> [s]     Add a band with n participants, s singles
//	update <id> <field> <value>    Update one field of an owned band
//	rm <id>                        Remove a band by id
//	clear                          Remove all bands owned by the current user
//	ls                             List bands in id order
//	nth <k>                        Show the band at 1-based position k
//	min                            Show the band with the lowest id
//	participants <id>              Show a band's participant count
//	len                            Count bands in the snapshot
//	reload                         Refresh the snapshot from the store
//	info                           Show snapshot info
//	help                           Show this help
//	exit / quit / q                Exit
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/peterh/liner"

	"github.com/bandvault/bandvault/internal/band"
	"github.com/bandvault/bandvault/internal/cache"
	"github.com/bandvault/bandvault/internal/logger"
	"github.com/bandvault/bandvault/internal/store"
)

func main() {
	err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: bandsh <database-file>")

		return errors.New("missing database file path")
	}

	ctx := context.Background()
	log := logger.NewStandardLogger(os.Stderr, logger.LevelWarn)

	s, err := store.Open(ctx, os.Args[1], store.WithLogger(log))
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	c, err := cache.New(ctx, s, cache.WithLogger(log))
	if err != nil {
		return err
	}

	repl := &REPL{store: s, collection: c}

	return repl.Run()
}

// REPL is the interactive command loop.
type REPL struct {
	store      *store.Store
	collection *cache.Collection
	liner      *liner.State
	user       string
}

// historyFile returns the path to the history file.
func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".bandsh_history")
}

// Run starts the REPL loop.
func (r *REPL) Run() error {
	r.liner = liner.NewLiner()
	defer r.liner.Close()

	r.liner.SetCtrlCAborts(true)
	r.liner.SetCompleter(r.completer)

	// Load history
	if f, err := os.Open(historyFile()); err == nil {
		r.liner.ReadHistory(f)
		f.Close()
	}

	fmt.Printf("bandsh - band collection shell (%d bands loaded)\n", r.collection.Size())
	fmt.Println("Type 'help' for available commands.")
	fmt.Println()

	for {
		line, err := r.liner.Prompt(r.prompt())
		if err != nil {
			if err == liner.ErrPromptAborted || err == io.EOF {
				fmt.Println("\nBye!")

				break
			}

			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		r.liner.AppendHistory(line)

		parts := strings.Fields(line)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "exit", "quit", "q":
			fmt.Println("Bye!")

			r.saveHistory()

			return nil

		case "help", "?":
			r.printHelp()

		case "register":
			r.cmdRegister(args)

		case "login":
			r.cmdLogin(args)

		case "add":
			r.cmdAdd(args)

		case "update":
			r.cmdUpdate(args)

		case "rm", "del":
			r.cmdRemove(args)

		case "clear":
			r.cmdClear()

		case "ls", "list":
			r.cmdList()

		case "nth":
			r.cmdNth(args)

		case "min":
			r.cmdMin()

		case "participants":
			r.cmdParticipants(args)

		case "len", "count":
			fmt.Println(r.collection.Size())

		case "reload":
			r.cmdReload()

		case "info":
			r.cmdInfo()

		case "cls":
			fmt.Print("\033[H\033[2J")

		default:
			fmt.Printf("Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}

	r.saveHistory()

	return nil
}

func (r *REPL) prompt() string {
	if r.user == "" {
		return "bandsh> "
	}

	return r.user + "@bandsh> "
}

// saveHistory persists command history to disk.
func (r *REPL) saveHistory() {
	if path := historyFile(); path != "" {
		if f, err := os.Create(path); err == nil {
			r.liner.WriteHistory(f)
			f.Close()
		}
	}
}

// completer provides tab completion for commands.
func (r *REPL) completer(line string) []string {
	commands := []string{
		"register", "login", "add", "update",
		"rm", "del", "clear", "ls", "list",
		"nth", "min", "participants", "len", "count",
		"reload", "info", "help", "exit", "quit", "q",
	}

	var matches []string

	for _, c := range commands {
		if strings.HasPrefix(c, strings.ToLower(line)) {
			matches = append(matches, c)
		}
	}

	return matches
}

func (r *REPL) printHelp() {
	fmt.Println(`Commands:
  register <user>                Register a new user (prompts for password)
  login <user>                   Authenticate (prompts for password)
  add <name> <genre> <n> [s]     Add a band with n participants, s singles
  update <id> <field> <value>    Update name|genre|participants|singles
  rm <id>                        Remove a band by id
  clear                          Remove all bands owned by the current user
  ls                             List bands in id order
  nth <k>                        Show the band at 1-based position k
  min                            Show the band with the lowest id
  participants <id>              Show a band's participant count
  len                            Count bands in the snapshot
  reload                         Refresh the snapshot from the store
  info                           Show snapshot info
  exit / quit / q                Exit`)
}

func (r *REPL) cmdRegister(args []string) {
	if len(args) != 1 {
		fmt.Println("Usage: register <user>")

		return
	}

	password, err := r.liner.PasswordPrompt("Password: ")
	if err != nil {
		fmt.Println("aborted")

		return
	}

	err = r.store.Register(context.Background(), args[0], password)
	if err != nil {
		fmt.Printf("register failed: %v\n", err)

		return
	}

	r.user = args[0]
	fmt.Printf("registered and logged in as %s\n", r.user)
}

func (r *REPL) cmdLogin(args []string) {
	if len(args) != 1 {
		fmt.Println("Usage: login <user>")

		return
	}

	password, err := r.liner.PasswordPrompt("Password: ")
	if err != nil {
		fmt.Println("aborted")

		return
	}

	ok, err := r.store.Authenticate(context.Background(), args[0], password)
	if err != nil {
		fmt.Printf("login failed: %v\n", err)

		return
	}

	if !ok {
		fmt.Println("login failed: wrong username or password")

		return
	}

	r.user = args[0]
	fmt.Printf("logged in as %s\n", r.user)
}

// requireLogin reports whether a user is logged in, complaining if not.
func (r *REPL) requireLogin() bool {
	if r.user == "" {
		fmt.Println("login first")

		return false
	}

	return true
}

func (r *REPL) cmdAdd(args []string) {
	if !r.requireLogin() {
		return
	}

	if len(args) < 3 {
		fmt.Println("Usage: add <name> <genre> <participants> [singles]")

		return
	}

	participants, err := strconv.ParseInt(args[2], 10, 64)
	if err != nil {
		fmt.Printf("invalid participants: %q\n", args[2])

		return
	}

	var singles int64

	if len(args) > 3 {
		singles, err = strconv.ParseInt(args[3], 10, 64)
		if err != nil {
			fmt.Printf("invalid singles: %q\n", args[3])

			return
		}
	}

	b := band.Band{
		Name:         args[0],
		Genre:        band.Genre(args[1]),
		Participants: participants,
		Singles:      singles,
		Owner:        r.user,
	}

	err = r.collection.Add(context.Background(), b)
	if err != nil {
		fmt.Printf("add failed: %v\n", err)

		return
	}

	fmt.Printf("added %q (%d bands)\n", b.Name, r.collection.Size())
}

func (r *REPL) cmdUpdate(args []string) {
	if !r.requireLogin() {
		return
	}

	if len(args) != 3 {
		fmt.Println("Usage: update <id> <field> <value>")

		return
	}

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Printf("invalid id: %q\n", args[0])

		return
	}

	current, ok := r.collection.ByID(id)
	if !ok {
		fmt.Printf("no band with id %d\n", id)

		return
	}

	updated := current
	updated.Owner = r.user

	switch args[1] {
	case "name":
		updated.Name = args[2]
	case "genre":
		updated.Genre = band.Genre(args[2])
	case "participants":
		n, parseErr := strconv.ParseInt(args[2], 10, 64)
		if parseErr != nil {
			fmt.Printf("invalid participants: %q\n", args[2])

			return
		}

		updated.Participants = n
	case "singles":
		n, parseErr := strconv.ParseInt(args[2], 10, 64)
		if parseErr != nil {
			fmt.Printf("invalid singles: %q\n", args[2])

			return
		}

		updated.Singles = n
	default:
		fmt.Printf("unknown field: %s (name|genre|participants|singles)\n", args[1])

		return
	}

	err = r.collection.Replace(context.Background(), updated)
	if err != nil {
		fmt.Printf("update failed: %v\n", err)

		return
	}

	fmt.Printf("updated %d\n", id)
}

func (r *REPL) cmdRemove(args []string) {
	if !r.requireLogin() {
		return
	}

	if len(args) != 1 {
		fmt.Println("Usage: rm <id>")

		return
	}

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Printf("invalid id: %q\n", args[0])

		return
	}

	err = r.collection.Remove(context.Background(), id, r.user)
	if err != nil {
		fmt.Printf("rm failed: %v\n", err)

		return
	}

	fmt.Printf("removed %d\n", id)
}

func (r *REPL) cmdClear() {
	if !r.requireLogin() {
		return
	}

	answer, err := r.liner.Prompt(fmt.Sprintf("Remove all bands owned by %s? (yes/no): ", r.user))
	if err != nil || strings.ToLower(strings.TrimSpace(answer)) != "yes" {
		fmt.Println("aborted")

		return
	}

	err = r.collection.Clear(context.Background(), r.user)
	if err != nil {
		fmt.Printf("clear failed: %v\n", err)

		return
	}

	fmt.Printf("cleared (%d bands remain)\n", r.collection.Size())
}

func (r *REPL) cmdList() {
	count := 0

	for b := range r.collection.All() {
		fmt.Println(formatBand(b))

		count++
	}

	if count == 0 {
		fmt.Println("(empty)")
	}
}

func (r *REPL) cmdNth(args []string) {
	if len(args) != 1 {
		fmt.Println("Usage: nth <k>")

		return
	}

	k, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Printf("invalid position: %q\n", args[0])

		return
	}

	b, ok := r.collection.ByPosition(k)
	if !ok {
		fmt.Printf("position %d out of range for %d bands\n", k, r.collection.Size())

		return
	}

	fmt.Println(formatBand(b))
}

func (r *REPL) cmdMin() {
	b, ok := r.collection.MinBy(cache.DefaultOrder)
	if !ok {
		fmt.Println("(empty)")

		return
	}

	fmt.Println(formatBand(b))
}

func (r *REPL) cmdParticipants(args []string) {
	if len(args) != 1 {
		fmt.Println("Usage: participants <id>")

		return
	}

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Printf("invalid id: %q\n", args[0])

		return
	}

	count, ok := r.collection.Participants(id)
	if !ok {
		fmt.Printf("no band with id %d\n", id)

		return
	}

	fmt.Println(count)
}

func (r *REPL) cmdReload() {
	err := r.collection.Load(context.Background())
	if err != nil {
		fmt.Printf("reload failed (snapshot unchanged): %v\n", err)

		return
	}

	fmt.Printf("reloaded (%d bands)\n", r.collection.Size())
}

func (r *REPL) cmdInfo() {
	info := r.collection.Describe()

	fmt.Printf("size:     %d\n", info.Size)
	fmt.Printf("loaded:   %s\n", info.CreatedAt.Format(time.RFC3339))
	fmt.Printf("snapshot: %s\n", info.Label)
}

func formatBand(b band.Band) string {
	return fmt.Sprintf("%d [%s] %s - owner=%s participants=%d singles=%d",
		b.ID, b.Genre, b.Name, b.Owner, b.Participants, b.Singles)
}
