package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	List(ctx context.Context, args []string) error
	Next(ctx context.Context) error
	Prev(ctx context.Context) error
	Search(ctx context.Context, args []string) error
	Status(ctx context.Context, args []string) error
	Role(ctx context.Context, args []string) error
	ResetFilters(ctx context.Context) error
	Add(ctx context.Context) error
	Update(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Find(ctx context.Context, args []string) error
	Dismiss(ctx context.Context) error
}

const (
	helpAnonymous = "Available commands: register, login, whoami, dismiss, exit"
	helpLoggedIn  = "Available commands: (l)ist [page], next, prev, search <term>, " +
		"status <all|active|inactive>, role <all|admin|user>, filters, add, update <id>, " +
		"delete <id>, find <email>, dismiss, whoami, logout, exit"
)

// runREPL starts a simple read-eval-print loop for the dashboard CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Unknown commands are reported back to the
// user. The loop exits on EOF or when the user types "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help             show available commands
//	  - register         create an account (signs in on success)
//	  - login            authenticate
//	  - whoami           show the session
//	  - dismiss          clear the last error
//	  - exit | quit      leave the program
//
//	Logged in, additionally:
//	  - list [page] | l          fetch and show a page of users
//	  - next | prev              move between pages
//	  - search <term>            filter by name or email (no term clears it)
//	  - status <filter>          all, active or inactive
//	  - role <filter>            all, admin or user
//	  - filters                  reset search and filters
//	  - add                      create a user (interactive)
//	  - update <id>              change a user's name or job
//	  - delete <id>              delete a user
//	  - find <email>             look up a loaded user
//	  - logout                   sign out
//
// Errors returned by command handlers are printed; the loop keeps going.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("dash %s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if needsLogin(cmd) && !a.isLoggedIn() {
			printlnFn("Please login first")
			continue
		}

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpAnonymous)
			}

		case "register":
			cmdErr = a.Register(ctx)

		case "login":
			cmdErr = a.Login(ctx)

		case "logout":
			cmdErr = a.Logout(ctx)

		case "whoami":
			cmdErr = a.WhoAmI(ctx)

		case "l", "list":
			cmdErr = a.List(ctx, args)

		case "next":
			cmdErr = a.Next(ctx)

		case "prev":
			cmdErr = a.Prev(ctx)

		case "search":
			cmdErr = a.Search(ctx, args)

		case "status":
			cmdErr = a.Status(ctx, args)

		case "role":
			cmdErr = a.Role(ctx, args)

		case "filters":
			cmdErr = a.ResetFilters(ctx)

		case "add":
			cmdErr = a.Add(ctx)

		case "update":
			cmdErr = a.Update(ctx, args)

		case "delete":
			cmdErr = a.Delete(ctx, args)

		case "find":
			cmdErr = a.Find(ctx, args)

		case "dismiss":
			cmdErr = a.Dismiss(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", cmdErr)
		}
	}
}

func needsLogin(cmd string) bool {
	switch cmd {
	case "l", "list", "next", "prev", "search", "status", "role", "filters",
		"add", "update", "delete", "find":
		return true
	}
	return false
}
