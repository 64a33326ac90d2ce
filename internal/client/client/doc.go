// Package client contains the client-side building blocks that talk to the
// user-directory backend.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) covering
//     Login/Register, paged user listing, and user create/update/delete.
//  2. A concrete JSON-over-HTTP implementation (see HTTPClient) that adds the
//     optional x-api-key header, a per-request X-Request-ID, and a bearer
//     token taken from the request context (see WithToken).
//  3. Local persistence bootstrap utilities (InitDatabase, RunMigrations),
//     wiring an SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// Transport failures wrap ErrUnavailable. A non-2xx answer is returned as a
// *RequestError carrying the status code and the server's message, if any;
// 401 and 403 also match ErrUnauthorized with errors.Is. Bodies that cannot
// be decoded wrap ErrUnexpectedResponse.
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. All operations accept
// context.Context and honor cancellation and timeouts.
package client
