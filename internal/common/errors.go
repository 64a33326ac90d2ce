package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")
)
