package store

import (
	"errors"

	"github.com/dmitrijs2005/admindash/internal/client/client"
	"github.com/dmitrijs2005/admindash/internal/client/models"
)

var (
	// ErrInvalidTransition is returned when an operation is not allowed in
	// the store's current state. The state is left unchanged.
	ErrInvalidTransition = errors.New("invalid state transition")
)

// Fallback messages, used when the server gives no reason.
const (
	msgLoginRejected        = "Login failed"
	msgLoginNetwork         = "Login failed. Please try again."
	msgRegistrationRejected = "Registration failed"
	msgRegistrationNetwork  = "Registration failed. Please try again."
	msgFetchUsers           = "Failed to fetch users"
	msgAddUser              = "Failed to add user"
	msgUpdateUser           = "Failed to update user"
	msgDeleteUser           = "Failed to delete user"
)

// toFailure maps a client error onto the tagged failure kept on store state.
// A *client.RequestError is a rejection carrying the server's message when
// there is one; anything else means the request did not complete.
func toFailure(err error, rejected, network string) *models.Failure {
	var re *client.RequestError
	if errors.As(err, &re) {
		msg := re.Message
		if msg == "" {
			msg = rejected
		}
		return &models.Failure{Kind: models.RequestRejected, Message: msg}
	}
	return &models.Failure{Kind: models.NetworkFailure, Message: network}
}
