package client

import "errors"

var (
	// ErrUnavailable marks a network failure: the request may not have
	// reached the server and can be retried later.
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
)
