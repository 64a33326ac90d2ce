// Package cli provides the interactive command-line front end of the admin
// dashboard.
//
// It wires configuration, logging, local storage, the API client and the
// state stores, then runs a REPL on top of them. Typical flow: restore the
// previous session or prompt for credentials, list a page of users, narrow it
// with search and filters, and create, update or delete users.
//
// The CLI keeps no state of its own besides the current search and filter
// criteria; everything else is read from store snapshots after each command.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, NewApp and runREPL for details.
package cli
