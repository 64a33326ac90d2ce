package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/admindash/internal/client/client"
	"github.com/dmitrijs2005/admindash/internal/client/config"
	"github.com/dmitrijs2005/admindash/internal/client/models"
	"github.com/dmitrijs2005/admindash/internal/client/persistence"
	"github.com/dmitrijs2005/admindash/internal/client/store"
	"github.com/dmitrijs2005/admindash/internal/filex"
	"github.com/dmitrijs2005/admindash/internal/logging"
)

type App struct {
	config *config.Config
	store  *store.Store
	api    client.Client
	db     *sql.DB
	log    logging.Logger
	reader *bufio.Reader
	out    io.Writer

	// filter is presentation state; the stores never see it.
	filter models.FilterCriteria

	closers []func() error
}

// NewApp wires the logger, the local state database, the API client and the
// stores. The persisted session, if any, is restored before it returns.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	log, syncLog, err := newLogger(c)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	statePath, err := filex.EnsureParentDir(c.StatePath)
	if err != nil {
		return nil, fmt.Errorf("prepare state path: %w", err)
	}

	db, err := client.InitDatabase(ctx, statePath)
	if err != nil {
		log.Error(ctx, "error initializing database", "path", statePath, "error", err)
		return nil, err
	}

	apiClient, err := client.NewHTTPClient(c.ServerEndpointAddr,
		client.WithAPIKey(c.APIKey),
		client.WithTimeout(c.RequestTimeout),
		client.WithLogger(log),
	)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	tokens := persistence.NewSQLiteTokenStore(db, log)
	st, err := store.New(ctx, apiClient, tokens, log, store.Options{
		PerPage:         c.PerPage,
		StaleFetchGuard: c.StaleFetchGuard,
		LocalIDFallback: c.LocalIDFallback,
	})
	if err != nil {
		_ = apiClient.Close()
		_ = db.Close()
		return nil, err
	}

	a := newApp(st, log, bufio.NewReader(os.Stdin), os.Stdout)
	a.config = c
	a.api = apiClient
	a.db = db
	a.closers = []func() error{apiClient.Close, db.Close, syncLog}
	return a, nil
}

func newApp(st *store.Store, log logging.Logger, reader *bufio.Reader, out io.Writer) *App {
	a := &App{
		store:  st,
		log:    log,
		reader: reader,
		out:    out,
		filter: models.NoFilter(),
	}
	st.Session.Subscribe(func(s models.SessionState) {
		a.log.Debug(context.Background(), "session changed", "phase", s.Phase, "loading", s.Loading)
	})
	return a
}

func newLogger(c *config.Config) (logging.Logger, func() error, error) {
	switch c.LogBackend {
	case config.LogBackendZap:
		z, err := logging.BuildZapLogger(c.LogLevel, false)
		if err != nil {
			return nil, nil, err
		}
		// Sync on a terminal stderr reports EINVAL; nothing is lost.
		return z, func() error { _ = z.Sync(); return nil }, nil
	default:
		return logging.NewTextSlogLogger(os.Stderr, c.LogLevel), func() error { return nil }, nil
	}
}

func (a *App) Run(ctx context.Context) {
	defer func() {
		if err := a.Close(); err != nil {
			a.log.Warn(ctx, "shutdown", "error", err)
		}
	}()
	a.Root(ctx)
}

// Close releases the API client, the database and the logger.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) isLoggedIn() bool {
	return a.store.Session.Snapshot().IsAuthenticated()
}

func (a *App) println(args ...any) {
	_, _ = fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(a.out, format, args...)
}
