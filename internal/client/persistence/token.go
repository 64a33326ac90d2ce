// Package persistence keeps the session token, and the cached session object
// next to it, in the client's local metadata store so a restart can resume an
// authenticated session.
//
// Storage layout (metadata table):
//
//	token -> raw token bytes (plain text)
//	auth  -> JSON {"user": {...}, "token": "..."}
package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/admindash/internal/client/models"
	"github.com/dmitrijs2005/admindash/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/admindash/internal/common"
	"github.com/dmitrijs2005/admindash/internal/dbx"
	"github.com/dmitrijs2005/admindash/internal/logging"
	"github.com/golang-jwt/jwt/v5"
)

// SQLiteTokenStore reads and writes the persisted session through the
// metadata repository.
type SQLiteTokenStore struct {
	db  *sql.DB
	log logging.Logger
	now func() time.Time
}

func NewSQLiteTokenStore(db *sql.DB, log logging.Logger) *SQLiteTokenStore {
	if log == nil {
		log = logging.Nop()
	}
	return &SQLiteTokenStore{
		db:  db,
		log: log.With("component", "persistence"),
		now: time.Now,
	}
}

func (s *SQLiteTokenStore) getMetadataRepo(db dbx.DBTX) metadata.Repository {
	return metadata.NewSQLiteRepository(db)
}

// Load returns the persisted token. ok is false when no token is stored or
// the stored token is a JWT that has already expired; an expired token is
// removed as a side effect.
func (s *SQLiteTokenStore) Load(ctx context.Context) (string, bool, error) {
	raw, found, err := s.getMetadataRepo(s.db).Get(ctx, common.MetadataKeyToken)
	if err != nil {
		return "", false, fmt.Errorf("load token: %w", err)
	}
	if !found || len(raw) == 0 {
		return "", false, nil
	}

	token := string(raw)
	if err := s.checkExpiry(token); err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			s.log.Info(ctx, "persisted token expired, discarding")
			if err := s.Clear(ctx); err != nil {
				return "", false, err
			}
			return "", false, nil
		}
		return "", false, err
	}

	return token, true, nil
}

// Save stores token, replacing any previous one.
func (s *SQLiteTokenStore) Save(ctx context.Context, token string) error {
	if err := s.getMetadataRepo(s.db).Set(ctx, common.MetadataKeyToken, []byte(token)); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

// SaveSession stores the token and the cached session object in a single
// transaction.
func (s *SQLiteTokenStore) SaveSession(ctx context.Context, token string, user *models.Identity) error {
	payload, err := json.Marshal(models.CachedSession{User: user, Token: token})
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.getMetadataRepo(tx)
		if err := repo.Set(ctx, common.MetadataKeyToken, []byte(token)); err != nil {
			return err
		}
		return repo.Set(ctx, common.MetadataKeySession, payload)
	})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// LoadSession returns the persisted session. The identity is taken from the
// cached session object only when it belongs to the same token; otherwise
// User is nil. ok is false when Load finds no usable token.
func (s *SQLiteTokenStore) LoadSession(ctx context.Context) (*models.CachedSession, bool, error) {
	token, ok, err := s.Load(ctx)
	if err != nil || !ok {
		return nil, false, err
	}

	session := &models.CachedSession{Token: token}

	raw, found, err := s.getMetadataRepo(s.db).Get(ctx, common.MetadataKeySession)
	if err != nil {
		return nil, false, fmt.Errorf("load session: %w", err)
	}
	if !found {
		return session, true, nil
	}

	var cached models.CachedSession
	if err := json.Unmarshal(raw, &cached); err != nil {
		s.log.Warn(ctx, "cached session is unreadable, ignoring", "error", err)
		return session, true, nil
	}
	if cached.Token == token {
		session.User = cached.User
	}
	return session, true, nil
}

// Clear removes the token and the cached session. Clearing an empty store is
// not an error.
func (s *SQLiteTokenStore) Clear(ctx context.Context) error {
	err := s.getMetadataRepo(s.db).Delete(ctx, common.MetadataKeyToken, common.MetadataKeySession)
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// checkExpiry returns common.ErrTokenExpired for a JWT whose exp claim is not
// in the future. Tokens that are not JWTs, or carry no exp, never expire here.
// The signature is not verified: the client has no key and the server remains
// the authority.
func (s *SQLiteTokenStore) checkExpiry(token string) error {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil
	}
	if !exp.After(s.now()) {
		return common.ErrTokenExpired
	}
	return nil
}
