package store

import (
	"context"

	"github.com/dmitrijs2005/admindash/internal/client/client"
	"github.com/dmitrijs2005/admindash/internal/logging"
)

// Store is the application state container: one session store and one
// directory store sharing a remote client. It is created once at start-up
// and handed to the presentation layer.
type Store struct {
	Session   *SessionStore
	Directory *DirectoryStore
}

// Options configures the stores built by New.
type Options struct {
	PerPage         int
	StaleFetchGuard bool
	LocalIDFallback bool
}

// DefaultOptions matches the behaviour of a store built without options.
func DefaultOptions() Options {
	return Options{PerPage: DefaultPerPage, LocalIDFallback: true}
}

// New builds the stores and restores the persisted session, if any.
// Directory requests are authorised with the session's current token.
func New(ctx context.Context, api client.Client, tokens TokenStore, log logging.Logger, opts Options) (*Store, error) {
	if log == nil {
		log = logging.Nop()
	}

	session := NewSessionStore(api, tokens, log)

	dirOpts := []DirectoryOption{
		WithPerPage(opts.PerPage),
		WithLocalIDFallback(opts.LocalIDFallback),
	}
	if opts.StaleFetchGuard {
		dirOpts = append(dirOpts, WithStaleFetchGuard())
	}
	directory := NewDirectoryStore(api, session, log, dirOpts...)

	if err := session.Rehydrate(ctx); err != nil {
		return nil, err
	}

	return &Store{Session: session, Directory: directory}, nil
}
