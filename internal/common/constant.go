// Package common contains shared constants and helpers used across
// admindash components.
package common

const (
	// AuthorizationHeaderName carries the session token on directory requests.
	AuthorizationHeaderName = "Authorization"

	// RequestIDHeaderName carries a per-request correlation id.
	RequestIDHeaderName = "X-Request-ID"

	// APIKeyHeaderName carries the optional API key required by some mock backends.
	APIKeyHeaderName = "x-api-key"
)

// Keys of the local metadata store.
const (
	MetadataKeyToken   = "token"
	MetadataKeySession = "auth"
)
