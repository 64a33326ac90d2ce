package cli

import (
	"testing"

	"github.com/dmitrijs2005/admindash/internal/client/config"
	"github.com/stretchr/testify/require"
)

func TestIsLoggedIn_Anonymous(t *testing.T) {
	app, _ := newTestApp(t, &fakeAPI{}, nil)
	require.False(t, app.isLoggedIn())
	require.Equal(t, "(anonymous)", app.getStatus())
}

func TestIsLoggedIn_RestoredSession(t *testing.T) {
	app, _ := newTestApp(t, &fakeAPI{}, loggedInSession())
	require.True(t, app.isLoggedIn())
	require.Equal(t, "(eve.holt@reqres.in authenticated)", app.getStatus())
}

func TestNewLogger_Backends(t *testing.T) {
	for _, backend := range []string{config.LogBackendSlog, config.LogBackendZap} {
		t.Run(backend, func(t *testing.T) {
			var c config.Config
			c.LoadDefaults()
			c.LogBackend = backend
			log, sync, err := newLogger(&c)
			require.NoError(t, err)
			require.NotNil(t, log)
			require.NoError(t, sync())
		})
	}
}

func TestClose_RunsClosersOnce(t *testing.T) {
	app, _ := newTestApp(t, &fakeAPI{}, nil)
	n := 0
	app.closers = []func() error{func() error { n++; return nil }}

	require.NoError(t, app.Close())
	require.NoError(t, app.Close())
	require.Equal(t, 1, n)
}
