// Package store holds the client-side state of the dashboard: the session
// (authentication) store, the user-directory store, and the filter engine
// applied over the directory when rendering.
//
// # State ownership
//
// Each store owns its state behind a mutex. The only way to change it is one
// of the store's operations; readers get deep copies through Snapshot or
// through Subscribe callbacks. Store bundles one SessionStore and one
// DirectoryStore and is passed explicitly to the presentation layer.
//
// # Operations and failures
//
// Operations block for the duration of their request and take a
// context.Context. Network and server failures are never returned to the
// caller; they are recorded on the state as a *models.Failure. Operation
// methods return an error only when they are called in a state that does not
// allow them (ErrInvalidTransition) or when local storage fails.
//
// # Concurrency
//
// Operations may run concurrently from several goroutines. Every step
// (start, resolve) is applied atomically, and results are applied in the
// order they resolve: when two fetches overlap, the one that finishes last
// wins unless the directory store was built WithStaleFetchGuard. Loading
// stays true while any directory operation is outstanding.
package store
