package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/admindash/internal/client/client"
	"github.com/dmitrijs2005/admindash/internal/client/models"
	"github.com/dmitrijs2005/admindash/internal/logging"
)

// TokenStore is the durable side of the session.
type TokenStore interface {
	LoadSession(ctx context.Context) (*models.CachedSession, bool, error)
	SaveSession(ctx context.Context, token string, user *models.Identity) error
	Clear(ctx context.Context) error
}

// SessionStore is the authentication state machine:
//
//	Anonymous --Login/Register--> Pending --ok--> Authenticated
//	                                      --err-> Failed --ClearError--> Anonymous
//	any --Logout--> Anonymous
type SessionStore struct {
	mu    sync.Mutex
	state models.SessionState
	// epoch changes on every logout; a login that started in an older epoch
	// is dropped when it resolves.
	epoch uint64

	api    client.Client
	tokens TokenStore
	log    logging.Logger
	subs   listeners[models.SessionState]
}

func NewSessionStore(api client.Client, tokens TokenStore, log logging.Logger) *SessionStore {
	if log == nil {
		log = logging.Nop()
	}
	return &SessionStore{
		state:  models.SessionState{Phase: models.PhaseAnonymous},
		api:    api,
		tokens: tokens,
		log:    log.With("store", "session"),
	}
}

// Snapshot returns a copy of the current state.
func (s *SessionStore) Snapshot() models.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Token returns the current token, empty when signed out.
func (s *SessionStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Token
}

// Subscribe registers fn to receive a snapshot after every change and
// returns a function that unregisters it. Snapshots arrive in the order the
// changes were made. fn may call Snapshot or Token but must not start
// another operation on this store synchronously.
func (s *SessionStore) Subscribe(fn func(models.SessionState)) func() {
	return s.subs.add(fn)
}

// Rehydrate restores a persisted session. It only applies while the store is
// Anonymous; a store that has already moved on is left alone.
func (s *SessionStore) Rehydrate(ctx context.Context) error {
	cached, ok, err := s.tokens.LoadSession(ctx)
	if err != nil {
		return fmt.Errorf("rehydrate session: %w", err)
	}
	if !ok {
		s.log.Debug(ctx, "no persisted session")
		return nil
	}

	s.mu.Lock()
	if s.state.Phase != models.PhaseAnonymous {
		s.mu.Unlock()
		return nil
	}
	s.state = models.SessionState{
		Phase: models.PhaseAuthenticated,
		Token: cached.Token,
		User:  copyIdentity(cached.User),
	}
	email := identityEmail(s.state.User)
	s.subs.publish(s.mu.Unlock, s.snapshotLocked())

	s.log.Info(ctx, "session restored", "email", logging.MaskEmail(email))
	return nil
}

// Login authenticates with email and password. It is allowed from Anonymous
// and Failed; the outcome is recorded on the state.
func (s *SessionStore) Login(ctx context.Context, email, password string) error {
	return s.authenticate(ctx, authRequest{
		op:       "login",
		email:    email,
		call:     func(ctx context.Context) (*client.AuthResult, error) { return s.api.Login(ctx, email, password) },
		rejected: msgLoginRejected,
		network:  msgLoginNetwork,
	})
}

// Register creates an account and signs it in. It is allowed from Anonymous
// and Failed.
func (s *SessionStore) Register(ctx context.Context, name, email, password string) error {
	return s.authenticate(ctx, authRequest{
		op:       "register",
		name:     name,
		email:    email,
		call:     func(ctx context.Context) (*client.AuthResult, error) { return s.api.Register(ctx, email, password) },
		rejected: msgRegistrationRejected,
		network:  msgRegistrationNetwork,
	})
}

type authRequest struct {
	op       string
	name     string
	email    string
	call     func(ctx context.Context) (*client.AuthResult, error)
	rejected string
	network  string
}

func (s *SessionStore) authenticate(ctx context.Context, r authRequest) error {
	log := s.log.With("op", r.op, "email", logging.MaskEmail(r.email))

	s.mu.Lock()
	if p := s.state.Phase; p != models.PhaseAnonymous && p != models.PhaseFailed {
		s.mu.Unlock()
		return fmt.Errorf("%s from %s: %w", r.op, p, ErrInvalidTransition)
	}
	s.state = models.SessionState{Phase: models.PhasePending, Loading: true}
	epoch := s.epoch
	s.subs.publish(s.mu.Unlock, s.snapshotLocked())

	res, err := r.call(ctx)

	s.mu.Lock()
	if s.epoch != epoch {
		s.mu.Unlock()
		log.Debug(ctx, "result dropped, logged out meanwhile")
		return nil
	}

	if err != nil {
		s.state = models.SessionState{
			Phase: models.PhaseFailed,
			Err:   toFailure(err, r.rejected, r.network),
		}
		s.subs.publish(s.mu.Unlock, s.snapshotLocked())

		log.Warn(ctx, r.op+" failed", "error", err)
		return nil
	}

	user := &models.Identity{Name: r.name, Email: r.email}
	s.state = models.SessionState{
		Phase: models.PhaseAuthenticated,
		Token: res.Token,
		User:  user,
	}
	// Persisting under the lock keeps a concurrent Logout from being
	// overwritten by this save.
	if err := s.tokens.SaveSession(ctx, res.Token, user); err != nil {
		log.Warn(ctx, "session not persisted", "error", err)
	}
	s.subs.publish(s.mu.Unlock, s.snapshotLocked())

	log.Info(ctx, r.op+" succeeded")
	return nil
}

// Logout clears the session in memory and on disk. It is valid from any
// state and calling it twice has the same effect as calling it once. An error
// means the persisted token could not be removed; the in-memory session is
// cleared regardless.
func (s *SessionStore) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.epoch++
	s.state = models.SessionState{Phase: models.PhaseAnonymous}
	err := s.tokens.Clear(ctx)
	s.subs.publish(s.mu.Unlock, s.snapshotLocked())

	if err != nil {
		s.log.Error(ctx, "persisted session not cleared", "error", err)
		return fmt.Errorf("logout: %w", err)
	}
	s.log.Info(ctx, "logged out")
	return nil
}

// ClearError dismisses a failed attempt and returns to Anonymous.
func (s *SessionStore) ClearError() error {
	s.mu.Lock()
	if s.state.Phase != models.PhaseFailed {
		p := s.state.Phase
		s.mu.Unlock()
		return fmt.Errorf("clear error from %s: %w", p, ErrInvalidTransition)
	}
	s.state = models.SessionState{Phase: models.PhaseAnonymous}
	s.subs.publish(s.mu.Unlock, s.snapshotLocked())
	return nil
}

func (s *SessionStore) snapshotLocked() models.SessionState {
	st := s.state
	st.User = copyIdentity(st.User)
	if st.Err != nil {
		f := *st.Err
		st.Err = &f
	}
	return st
}

func copyIdentity(u *models.Identity) *models.Identity {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

func identityEmail(u *models.Identity) string {
	if u == nil {
		return ""
	}
	return u.Email
}
