package store

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/admindash/internal/client/client"
	"github.com/dmitrijs2005/admindash/internal/client/models"
	"github.com/dmitrijs2005/admindash/internal/common"
	"github.com/dmitrijs2005/admindash/internal/logging"
)

// DefaultPerPage is the page size requested when none is configured.
const DefaultPerPage = 12

// TokenSource supplies the bearer token for directory requests.
// *SessionStore implements it.
type TokenSource interface {
	Token() string
}

// DirectoryStore holds the loaded page of the user directory.
type DirectoryStore struct {
	mu    sync.Mutex
	state models.DirectoryState
	// inflight counts outstanding operations; Loading is inflight > 0.
	inflight int
	// fetchSeq numbers fetches as they start; appliedSeq is the newest one
	// whose result was applied. Only consulted with the stale-fetch guard.
	fetchSeq   uint64
	appliedSeq uint64
	lastLocal  int64

	api        client.Client
	tokens     TokenSource
	perPage    int
	staleGuard bool
	localIDs   bool
	now        func() time.Time
	log        logging.Logger
	subs       listeners[models.DirectoryState]
}

type DirectoryOption func(*DirectoryStore)

// WithPerPage sets the page size sent with every fetch.
func WithPerPage(n int) DirectoryOption {
	return func(d *DirectoryStore) {
		if n > 0 {
			d.perPage = n
		}
	}
}

// WithStaleFetchGuard drops a fetch result when a fetch that started later
// has already been applied.
func WithStaleFetchGuard() DirectoryOption {
	return func(d *DirectoryStore) { d.staleGuard = true }
}

// WithLocalIDFallback controls what happens when the server accepts a new
// user without returning a usable id: when enabled (the default) the record
// gets a client-generated id, otherwise the add is recorded as failed.
func WithLocalIDFallback(enabled bool) DirectoryOption {
	return func(d *DirectoryStore) { d.localIDs = enabled }
}

func NewDirectoryStore(api client.Client, tokens TokenSource, log logging.Logger, opts ...DirectoryOption) *DirectoryStore {
	if log == nil {
		log = logging.Nop()
	}
	d := &DirectoryStore{
		state:    models.DirectoryState{CurrentPage: 1},
		api:      api,
		tokens:   tokens,
		perPage:  DefaultPerPage,
		localIDs: true,
		now:      time.Now,
		log:      log.With("store", "directory"),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.state.PerPage = d.perPage
	return d
}

// Snapshot returns a deep copy of the current state.
func (d *DirectoryStore) Snapshot() models.DirectoryState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snapshotLocked()
}

// Subscribe registers fn to receive a snapshot after every change and
// returns a function that unregisters it. Snapshots arrive in the order the
// changes were made. fn may call Snapshot but must not start another
// operation on this store synchronously.
func (d *DirectoryStore) Subscribe(fn func(models.DirectoryState)) func() {
	return d.subs.add(fn)
}

// FetchUsers loads page (1-based) and replaces the loaded records with it.
// On failure the previous records stay in place next to the error.
func (d *DirectoryStore) FetchUsers(ctx context.Context, page int) {
	if page < 1 {
		page = 1
	}

	d.mu.Lock()
	d.fetchSeq++
	seq := d.fetchSeq
	d.mu.Unlock()
	d.begin()

	res, err := d.api.ListUsers(d.authorize(ctx), page, d.perPage)

	log := d.log.With("op", "fetch", "page", page, "seq", seq)
	d.finish(func() {
		if d.staleGuard && seq < d.appliedSeq {
			log.Debug(ctx, "stale fetch result dropped", "applied_seq", d.appliedSeq)
			return
		}
		d.appliedSeq = seq

		if err != nil {
			d.state.Err = toFailure(err, msgFetchUsers, msgFetchUsers)
			log.Warn(ctx, "fetch failed", "error", err)
			return
		}

		records := make([]models.UserRecord, len(res.Records))
		for i, r := range res.Records {
			records[i] = models.Classify(r)
		}
		d.state.Records = records
		d.state.CurrentPage = res.Page
		if d.state.CurrentPage == 0 {
			d.state.CurrentPage = page
		}
		d.state.TotalPages = res.TotalPages
		if res.PerPage > 0 {
			d.state.PerPage = res.PerPage
		}
		d.state.Total = res.Total
		d.state.Err = nil
		log.Debug(ctx, "users fetched", "count", len(records), "total_pages", res.TotalPages)
	})
}

// AddUser creates a user remotely and puts the resulting record at the front
// of the loaded list. Input is not validated here.
func (d *DirectoryStore) AddUser(ctx context.Context, u models.NewUser) {
	d.begin()

	created, err := d.api.CreateUser(d.authorize(ctx), u)

	log := d.log.With("op", "add", "email", logging.MaskEmail(u.Email))
	d.finish(func() {
		if err != nil {
			d.state.Err = toFailure(err, msgAddUser, msgAddUser)
			log.Warn(ctx, "add failed", "error", err)
			return
		}

		rec, ok := d.recordFromCreated(u, created)
		if !ok {
			d.state.Err = &models.Failure{
				Kind:    models.RequestRejected,
				Message: msgAddUser + ": server returned no id",
			}
			log.Warn(ctx, "add rejected, no id in response")
			return
		}

		d.state.Records = append([]models.UserRecord{rec}, d.state.Records...)
		d.state.Err = nil
		log.Info(ctx, "user added", "id", rec.ID, "local_id", rec.Local)
	})
}

// recordFromCreated builds the directory entry for a created user. Called
// with d.mu held.
func (d *DirectoryStore) recordFromCreated(in models.NewUser, created *client.CreatedUser) (models.UserRecord, bool) {
	name := created.Name
	if name == "" {
		name = in.Name
	}
	email := created.Email
	if email == "" {
		email = in.Email
	}
	job := created.Job
	if job == "" {
		job = in.Job
	}
	createdAt := created.CreatedAt
	if createdAt.IsZero() {
		createdAt = d.now()
	}

	first, last := models.SplitName(name)
	rec := models.UserRecord{
		ID:        created.ID,
		FirstName: first,
		LastName:  last,
		Email:     email,
		Job:       job,
		CreatedAt: createdAt,
	}

	if !created.HasID {
		if !d.localIDs {
			return models.UserRecord{}, false
		}
		rec.ID = d.nextLocalID()
		rec.Local = true
	}
	return models.Classify(rec), true
}

// nextLocalID returns a millisecond timestamp, bumped when needed so ids
// handed out by this store never repeat.
func (d *DirectoryStore) nextLocalID() int {
	id := d.now().UnixMilli()
	if id <= d.lastLocal {
		id = d.lastLocal + 1
	}
	d.lastLocal = id
	return int(id)
}

// UpdateUser changes a user's name and job remotely and, on success, in the
// loaded records. Record order is kept.
func (d *DirectoryStore) UpdateUser(ctx context.Context, id int, patch models.UserPatch) {
	d.begin()

	updated, err := d.api.UpdateUser(d.authorize(ctx), id, patch)

	log := d.log.With("op", "update", "id", id)
	d.finish(func() {
		if err != nil {
			d.state.Err = toFailure(err, msgUpdateUser, msgUpdateUser)
			log.Warn(ctx, "update failed", "error", err)
			return
		}

		name := updated.Name
		if name == "" {
			name = patch.Name
		}
		job := updated.Job
		if job == "" {
			job = patch.Job
		}
		updatedAt := updated.UpdatedAt
		if updatedAt.IsZero() {
			updatedAt = d.now()
		}

		n := 0
		for i := range d.state.Records {
			r := &d.state.Records[i]
			if r.ID != id {
				continue
			}
			if name != "" {
				r.FirstName, r.LastName = models.SplitName(name)
			}
			if job != "" {
				r.Job = job
			}
			r.UpdatedAt = updatedAt
			n++
		}
		d.state.Err = nil
		log.Info(ctx, "user updated", "matched", n)
	})
}

// DeleteUser removes a user remotely and, on success, every loaded record
// with that id.
func (d *DirectoryStore) DeleteUser(ctx context.Context, id int) {
	d.begin()

	err := d.api.DeleteUser(d.authorize(ctx), id)

	log := d.log.With("op", "delete", "id", id)
	d.finish(func() {
		if err != nil {
			d.state.Err = toFailure(err, msgDeleteUser, msgDeleteUser)
			log.Warn(ctx, "delete failed", "error", err)
			return
		}

		kept := make([]models.UserRecord, 0, len(d.state.Records))
		for _, r := range d.state.Records {
			if r.ID != id {
				kept = append(kept, r)
			}
		}
		removed := len(d.state.Records) - len(kept)
		d.state.Records = kept
		d.state.Err = nil
		log.Info(ctx, "user deleted", "removed", removed)
	})
}

// SetCurrentPage records the page the presentation is on without fetching.
func (d *DirectoryStore) SetCurrentPage(page int) {
	if page < 1 {
		page = 1
	}
	d.update(func() { d.state.CurrentPage = page })
}

// ClearError dismisses the last failure.
func (d *DirectoryStore) ClearError() {
	d.update(func() { d.state.Err = nil })
}

// FindByEmail looks up a loaded record by email, ignoring case.
// It returns common.ErrorNotFound when no loaded record matches.
func (d *DirectoryStore) FindByEmail(email string) (models.UserRecord, error) {
	email = strings.TrimSpace(email)

	d.mu.Lock()
	defer d.mu.Unlock()
	for _, r := range d.state.Records {
		if strings.EqualFold(r.Email, email) {
			return r, nil
		}
	}
	return models.UserRecord{}, fmt.Errorf("user %q: %w", email, common.ErrorNotFound)
}

func (d *DirectoryStore) authorize(ctx context.Context) context.Context {
	if d.tokens == nil {
		return ctx
	}
	if token := d.tokens.Token(); token != "" {
		return client.WithToken(ctx, token)
	}
	return ctx
}

// begin marks an operation as outstanding. Err is left alone; only an
// operation's own resolution replaces it.
func (d *DirectoryStore) begin() {
	d.update(func() {
		d.inflight++
		d.state.Loading = true
	})
}

// finish marks an operation as done and applies its result. apply runs with
// d.mu held.
func (d *DirectoryStore) finish(apply func()) {
	d.mu.Lock()
	d.inflight--
	d.state.Loading = d.inflight > 0
	apply()
	d.subs.publish(d.mu.Unlock, d.snapshotLocked())
}

func (d *DirectoryStore) update(fn func()) {
	d.mu.Lock()
	fn()
	d.subs.publish(d.mu.Unlock, d.snapshotLocked())
}

func (d *DirectoryStore) snapshotLocked() models.DirectoryState {
	st := d.state
	if d.state.Records != nil {
		st.Records = make([]models.UserRecord, len(d.state.Records))
		copy(st.Records, d.state.Records)
	}
	if st.Err != nil {
		f := *st.Err
		st.Err = &f
	}
	return st
}
