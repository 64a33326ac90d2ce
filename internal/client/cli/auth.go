package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/admindash/internal/client/models"
	"github.com/dmitrijs2005/admindash/internal/client/store"
	"github.com/dmitrijs2005/admindash/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for a display name, an email and a password and creates
// the account. A successful registration also signs the user in.
//
// The password byte slice is wiped before returning. Server-side failures
// are reported to the user, not returned.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.store.Session.Register(ctx, name, email, string(password)); err != nil {
		return a.sessionMisuse(err)
	}
	a.reportSession("Registered and logged in as")
	return nil
}

// Login prompts for credentials and authenticates. The password is wiped
// before returning.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.store.Session.Login(ctx, email, string(password)); err != nil {
		return a.sessionMisuse(err)
	}
	a.reportSession("Logged in as")
	return nil
}

// Logout ends the session and resets the presentation filters.
func (a *App) Logout(ctx context.Context) error {
	a.filter = models.NoFilter()
	if err := a.store.Session.Logout(ctx); err != nil {
		return err
	}
	a.println("Logged out")
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	st := a.store.Session.Snapshot()
	switch {
	case st.IsAuthenticated():
		a.printf("Logged in as %s\n", displayUser(st.User))
	case st.Err != nil:
		a.printf("Not logged in (last attempt failed: %s)\n", st.Err.Message)
	default:
		a.println("Not logged in")
	}
	return nil
}

// Dismiss clears the last session and directory errors.
func (a *App) Dismiss(ctx context.Context) error {
	a.store.Directory.ClearError()
	if err := a.store.Session.ClearError(); err != nil && !errors.Is(err, store.ErrInvalidTransition) {
		return err
	}
	return nil
}

func (a *App) reportSession(success string) {
	st := a.store.Session.Snapshot()
	if st.Err != nil {
		a.printf("%s\n", st.Err.Message)
		return
	}
	if st.IsAuthenticated() {
		a.printf("%s %s\n", success, displayUser(st.User))
	}
}

func (a *App) sessionMisuse(err error) error {
	if errors.Is(err, store.ErrInvalidTransition) {
		if a.isLoggedIn() {
			return errors.New("already logged in, logout first")
		}
		return errors.New("another login is in progress")
	}
	return err
}

func displayUser(u *models.Identity) string {
	switch {
	case u == nil:
		return "unknown user"
	case u.Name != "":
		return u.Name + " <" + u.Email + ">"
	default:
		return u.Email
	}
}
