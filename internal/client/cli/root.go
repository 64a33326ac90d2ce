package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/admindash/internal/client/models"
)

func (a *App) getStatus() string {
	st := a.store.Session.Snapshot()

	s := string(st.Phase)
	if st.User != nil && st.User.Email != "" {
		s = st.User.Email + " " + s
	}
	if a.store.Directory.Snapshot().Loading {
		s += " loading"
	}
	return fmt.Sprintf("(%s)", s)
}

// Root runs the REPL until the user exits. When no session was restored the
// user is asked to log in first.
func (a *App) Root(ctx context.Context) {
	a.println("Welcome to the admin dashboard CLI (type 'help' for commands)")

	if st := a.store.Session.Snapshot(); st.Phase == models.PhaseAuthenticated {
		a.printf("Resumed session for %s\n", displayUser(st.User))
	} else if err := a.Login(ctx); err != nil {
		a.println("Error:", err)
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}
