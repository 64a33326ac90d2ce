package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/admindash/internal/client/client"
	"github.com/dmitrijs2005/admindash/internal/client/models"
)

/*************
 * Fake API client
 *************/

type listCall struct {
	Page    int
	PerPage int
	Token   string
}

type fakeClient struct {
	mu sync.Mutex

	loginFn    func(ctx context.Context, email, password string) (*client.AuthResult, error)
	registerFn func(ctx context.Context, email, password string) (*client.AuthResult, error)
	listFn     func(ctx context.Context, page, perPage int) (*models.UsersPage, error)
	createFn   func(ctx context.Context, u models.NewUser) (*client.CreatedUser, error)
	updateFn   func(ctx context.Context, id int, p models.UserPatch) (*client.UpdatedUser, error)
	deleteFn   func(ctx context.Context, id int) error

	listCalls   []listCall
	createCalls []models.NewUser
	deleteCalls []int
	tokens      []string
}

var errNotConfigured = errors.New("fake: not configured")

func (f *fakeClient) recordToken(ctx context.Context) {
	tok, _ := client.TokenFromContext(ctx)
	f.mu.Lock()
	f.tokens = append(f.tokens, tok)
	f.mu.Unlock()
}

func (f *fakeClient) Close() error { return nil }

func (f *fakeClient) Login(ctx context.Context, email, password string) (*client.AuthResult, error) {
	if f.loginFn == nil {
		return nil, errNotConfigured
	}
	return f.loginFn(ctx, email, password)
}

func (f *fakeClient) Register(ctx context.Context, email, password string) (*client.AuthResult, error) {
	if f.registerFn == nil {
		return nil, errNotConfigured
	}
	return f.registerFn(ctx, email, password)
}

func (f *fakeClient) ListUsers(ctx context.Context, page, perPage int) (*models.UsersPage, error) {
	tok, _ := client.TokenFromContext(ctx)
	f.mu.Lock()
	f.listCalls = append(f.listCalls, listCall{Page: page, PerPage: perPage, Token: tok})
	f.mu.Unlock()
	if f.listFn == nil {
		return nil, errNotConfigured
	}
	return f.listFn(ctx, page, perPage)
}

func (f *fakeClient) CreateUser(ctx context.Context, u models.NewUser) (*client.CreatedUser, error) {
	f.recordToken(ctx)
	f.mu.Lock()
	f.createCalls = append(f.createCalls, u)
	f.mu.Unlock()
	if f.createFn == nil {
		return nil, errNotConfigured
	}
	return f.createFn(ctx, u)
}

func (f *fakeClient) UpdateUser(ctx context.Context, id int, p models.UserPatch) (*client.UpdatedUser, error) {
	f.recordToken(ctx)
	if f.updateFn == nil {
		return nil, errNotConfigured
	}
	return f.updateFn(ctx, id, p)
}

func (f *fakeClient) DeleteUser(ctx context.Context, id int) error {
	f.recordToken(ctx)
	f.mu.Lock()
	f.deleteCalls = append(f.deleteCalls, id)
	f.mu.Unlock()
	if f.deleteFn == nil {
		return errNotConfigured
	}
	return f.deleteFn(ctx, id)
}

var _ client.Client = (*fakeClient)(nil)

/*************
 * Fake token store
 *************/

type fakeTokens struct {
	mu      sync.Mutex
	session *models.CachedSession

	loadErr  error
	saveErr  error
	clearErr error

	saves  int
	clears int
}

func (f *fakeTokens) LoadSession(ctx context.Context) (*models.CachedSession, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return nil, false, f.loadErr
	}
	if f.session == nil {
		return nil, false, nil
	}
	c := *f.session
	return &c, true, nil
}

func (f *fakeTokens) SaveSession(ctx context.Context, token string, user *models.Identity) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves++
	if f.saveErr != nil {
		return f.saveErr
	}
	f.session = &models.CachedSession{Token: token, User: copyIdentity(user)}
	return nil
}

func (f *fakeTokens) Clear(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clears++
	if f.clearErr != nil {
		return f.clearErr
	}
	f.session = nil
	return nil
}

func (f *fakeTokens) stored() *models.CachedSession {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.session
}

/*************
 * Helpers
 *************/

type staticToken string

func (s staticToken) Token() string { return string(s) }

// gate blocks a fake call until released.
type gate struct {
	started chan struct{}
	release chan struct{}
}

func newGate() *gate {
	return &gate{started: make(chan struct{}), release: make(chan struct{})}
}

func (g *gate) wait() {
	close(g.started)
	<-g.release
}

func rejected(status int, msg string) error {
	return &client.RequestError{StatusCode: status, Message: msg}
}

func unavailable() error {
	return fmt.Errorf("POST /x: %w: connection refused", client.ErrUnavailable)
}

func mkUser(id int, first, last, email string) models.UserRecord {
	return models.UserRecord{ID: id, FirstName: first, LastName: last, Email: email}
}

func mkPage(n, totalPages int, records ...models.UserRecord) *models.UsersPage {
	return &models.UsersPage{
		Records:    records,
		Page:       n,
		PerPage:    len(records),
		Total:      totalPages * len(records),
		TotalPages: totalPages,
	}
}
