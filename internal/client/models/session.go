package models

// SessionPhase is the state of the session state machine.
type SessionPhase string

const (
	PhaseAnonymous     SessionPhase = "anonymous"
	PhasePending       SessionPhase = "pending"
	PhaseAuthenticated SessionPhase = "authenticated"
	PhaseFailed        SessionPhase = "failed"
)

// Identity is the signed-in user as known to the client.
type Identity struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

// SessionState is a point-in-time copy of the session store.
type SessionState struct {
	Phase   SessionPhase
	Token   string
	User    *Identity
	Loading bool
	Err     *Failure
}

// IsAuthenticated holds iff a token is present.
func (s SessionState) IsAuthenticated() bool {
	return s.Token != ""
}

// CachedSession is the session object persisted next to the raw token.
type CachedSession struct {
	User  *Identity `json:"user"`
	Token string    `json:"token"`
}
