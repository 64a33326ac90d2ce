package client

import (
	"context"
	"time"

	"github.com/dmitrijs2005/admindash/internal/client/models"
)

// Client is the remote directory API as seen by the stores.
//
// Directory calls are authorised with the token attached to ctx by
// WithToken. Errors are either *RequestError (the server said no) or wrap
// ErrUnavailable (the request did not complete).
type Client interface {
	Close() error
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Register(ctx context.Context, email, password string) (*AuthResult, error)
	ListUsers(ctx context.Context, page, perPage int) (*models.UsersPage, error)
	CreateUser(ctx context.Context, user models.NewUser) (*CreatedUser, error)
	UpdateUser(ctx context.Context, id int, patch models.UserPatch) (*UpdatedUser, error)
	DeleteUser(ctx context.Context, id int) error
}

// AuthResult is the payload of a successful login or registration.
// ID is only set by registration.
type AuthResult struct {
	Token string
	ID    int
	HasID bool
}

// CreatedUser is the server echo of a create request. HasID is false when the
// server did not return a usable id.
type CreatedUser struct {
	ID        int
	HasID     bool
	Name      string
	Email     string
	Job       string
	CreatedAt time.Time
}

// UpdatedUser is the server echo of an update request.
type UpdatedUser struct {
	Name      string
	Job       string
	UpdatedAt time.Time
}

type tokenKey struct{}

// WithToken attaches the session token used as the bearer credential.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFromContext returns the token attached by WithToken, if any.
func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey{}).(string)
	return token, ok && token != ""
}
