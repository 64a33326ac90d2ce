package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/dmitrijs2005/admindash/internal/client/client"
	"github.com/dmitrijs2005/admindash/internal/client/models"
	"github.com/dmitrijs2005/admindash/internal/client/store"
	"github.com/dmitrijs2005/admindash/internal/logging"
	"github.com/stretchr/testify/require"
)

// fakeAPI serves a fixed directory and accepts every credential pair unless
// loginErr is set.
type fakeAPI struct {
	mu sync.Mutex

	loginErr  error
	listErr   error
	createErr error
	deleteErr error
	noID      bool

	pages   map[int]*models.UsersPage
	created []models.NewUser
	updated []models.UserPatch
	deleted []int
}

func (f *fakeAPI) Close() error { return nil }

func (f *fakeAPI) Login(ctx context.Context, email, password string) (*client.AuthResult, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &client.AuthResult{Token: "tok-" + email}, nil
}

func (f *fakeAPI) Register(ctx context.Context, email, password string) (*client.AuthResult, error) {
	return &client.AuthResult{Token: "reg-" + email, ID: 4, HasID: true}, nil
}

func (f *fakeAPI) ListUsers(ctx context.Context, page, perPage int) (*models.UsersPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	if p, ok := f.pages[page]; ok {
		cp := *p
		cp.Records = append([]models.UserRecord(nil), p.Records...)
		return &cp, nil
	}
	return &models.UsersPage{Page: page, PerPage: perPage, TotalPages: len(f.pages)}, nil
}

func (f *fakeAPI) CreateUser(ctx context.Context, u models.NewUser) (*client.CreatedUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, u)
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.noID {
		return &client.CreatedUser{Name: u.Name, Job: u.Job}, nil
	}
	return &client.CreatedUser{ID: 523, HasID: true, Name: u.Name, Job: u.Job}, nil
}

func (f *fakeAPI) UpdateUser(ctx context.Context, id int, p models.UserPatch) (*client.UpdatedUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updated = append(f.updated, p)
	return &client.UpdatedUser{Name: p.Name, Job: p.Job}, nil
}

func (f *fakeAPI) DeleteUser(ctx context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return f.deleteErr
}

var _ client.Client = (*fakeAPI)(nil)

type memTokens struct {
	session *models.CachedSession
}

func (m *memTokens) LoadSession(context.Context) (*models.CachedSession, bool, error) {
	if m.session == nil {
		return nil, false, nil
	}
	return m.session, true, nil
}

func (m *memTokens) SaveSession(_ context.Context, token string, user *models.Identity) error {
	m.session = &models.CachedSession{Token: token, User: user}
	return nil
}

func (m *memTokens) Clear(context.Context) error {
	m.session = nil
	return nil
}

func directoryPages() map[int]*models.UsersPage {
	rec := func(id int, first, last, email string) models.UserRecord {
		return models.UserRecord{ID: id, FirstName: first, LastName: last, Email: email}
	}
	return map[int]*models.UsersPage{
		1: {
			Page: 1, PerPage: 3, Total: 6, TotalPages: 2,
			Records: []models.UserRecord{
				rec(1, "George", "Bluth", "george.bluth@reqres.in"),
				rec(2, "Janet", "Weaver", "janet.weaver@reqres.in"),
				rec(3, "Emma", "Wong", "emma.wong@reqres.in"),
			},
		},
		2: {
			Page: 2, PerPage: 3, Total: 6, TotalPages: 2,
			Records: []models.UserRecord{
				rec(4, "Eve", "Holt", "eve.holt@reqres.in"),
				rec(5, "Charles", "Morris", "charles.morris@reqres.in"),
				rec(6, "Tracey", "Ramos", "tracey.ramos@reqres.in"),
			},
		},
	}
}

// newTestApp builds an App over api with an optional restored session.
func newTestApp(t *testing.T, api *fakeAPI, tokens *memTokens) (*App, *bytes.Buffer) {
	t.Helper()
	if tokens == nil {
		tokens = &memTokens{}
	}
	opts := store.DefaultOptions()
	opts.PerPage = 3
	st, err := store.New(context.Background(), api, tokens, logging.Nop(), opts)
	require.NoError(t, err)

	var out bytes.Buffer
	return newApp(st, logging.Nop(), bufio.NewReader(strings.NewReader("")), &out), &out
}

func loggedInSession() *memTokens {
	return &memTokens{session: &models.CachedSession{
		Token: "tok-eve",
		User:  &models.Identity{Email: "eve.holt@reqres.in"},
	}}
}

// stubAnswers makes getSimpleText return answers in order and getPassword
// return pw.
func stubAnswers(t *testing.T, pw string, answers ...string) {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})

	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		if len(answers) == 0 {
			return "", io.EOF
		}
		a := answers[0]
		answers = answers[1:]
		return a, nil
	}
	getPassword = func(_ io.Writer) ([]byte, error) { return []byte(pw), nil }
}
