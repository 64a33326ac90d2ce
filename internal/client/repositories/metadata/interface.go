// Package metadata is the durable key-value store of the client: a single
// SQLite table mapping string keys to opaque byte values. The session token
// and the cached session live here.
package metadata

import (
	"context"
)

// Repository reads and writes key-value pairs. Get reports whether the key
// exists, so an empty stored value is distinguishable from a missing one.
// Deleting absent keys is a no-op.
type Repository interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
}
