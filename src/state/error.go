package state

import "errors"

var (
	ErrNotFound    = errors.New("contract state not found")
	ErrBadResponse = errors.New("bad response from the state cache")
	ErrEmptyState  = errors.New("state cache returned an empty state")
	ErrRateLimited = errors.New("state cache rate limit exceeded")
)
