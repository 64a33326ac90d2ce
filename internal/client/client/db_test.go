package client

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/admindash/internal/common"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func metadataColumns(t *testing.T, db *sql.DB) map[string]string {
	t.Helper()
	rows, err := db.Query(`SELECT name, type FROM pragma_table_info('metadata')`)
	require.NoError(t, err)
	defer rows.Close()

	cols := make(map[string]string)
	for rows.Next() {
		var name, typ string
		require.NoError(t, rows.Scan(&name, &typ))
		cols[name] = typ
	}
	require.NoError(t, rows.Err())
	return cols
}

func TestInitDatabase_CreatesStateSchema(t *testing.T) {
	ctx := context.Background()

	db, err := InitDatabase(ctx, filepath.Join(t.TempDir(), "admindash.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	assert.Equal(t, map[string]string{"key": "TEXT", "value": "BLOB"}, metadataColumns(t, db))

	version, err := goose.GetDBVersionContext(ctx, db)
	require.NoError(t, err)
	assert.EqualValues(t, 1, version)
}

func TestInitDatabase_ReopenKeepsSession(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "admindash.db")

	db, err := InitDatabase(ctx, path)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO metadata (key, value) VALUES (?, ?)`,
		common.MetadataKeyToken, []byte("QpwL5tke4Pnpja7X4"))
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = InitDatabase(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var token []byte
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT value FROM metadata WHERE key = ?`, common.MetadataKeyToken).Scan(&token))
	assert.Equal(t, "QpwL5tke4Pnpja7X4", string(token))
}

func TestRunMigrations_IsIdempotent(t *testing.T) {
	ctx := context.Background()

	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "admindash.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, RunMigrations(ctx, db))
	require.NoError(t, RunMigrations(ctx, db))
	assert.Contains(t, metadataColumns(t, db), "key")
}

func TestInitDatabase_InMemory(t *testing.T) {
	db, err := InitDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	// a single connection keeps the in-memory schema visible to every query
	assert.Equal(t, 1, db.Stats().MaxOpenConnections)
	assert.NotEmpty(t, metadataColumns(t, db))
}

func TestInitDatabase_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "nested", "admindash.db")

	db, err := InitDatabase(context.Background(), path)
	if err == nil {
		_ = db.Close()
	}
	require.Error(t, err)
}
