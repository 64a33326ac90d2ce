package models

// FailureKind tags why an operation failed.
type FailureKind int

const (
	// NetworkFailure means the request could not be completed.
	NetworkFailure FailureKind = iota + 1
	// RequestRejected means the server answered with a non-success status.
	RequestRejected
)

func (k FailureKind) String() string {
	switch k {
	case NetworkFailure:
		return "network_failure"
	case RequestRejected:
		return "request_rejected"
	default:
		return "unknown"
	}
}

// Failure is the error half of a store operation result. Stores keep the last
// one on their state until it is dismissed or a new attempt starts.
type Failure struct {
	Kind    FailureKind
	Message string
}

func (f *Failure) Error() string {
	return f.Message
}
