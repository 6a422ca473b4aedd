package arweave

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrFailedToParse     = errors.New("failed to parse response")
	ErrBadResponse       = errors.New("bad response")
	ErrNotFound          = errors.New("data not found")
	ErrPending           = errors.New("tx is pending")
	ErrInvalidIdentifier = errors.New("invalid arweave identifier")
)

type Error struct {
	Error string `json:"error"`
}

// Non-success HTTP status returned by the gateway
type StatusError struct {
	Code   int
	Status string
	Url    string
}

func (self *StatusError) Error() string {
	return fmt.Sprintf("unexpected status: %s (%s)", self.Status, self.Url)
}

func (self *StatusError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return self.Code == http.StatusNotFound
	case ErrBadResponse:
		return true
	}
	return false
}

// Only rate limited requests are worth retrying,
// other client and server errors mean the request itself is wrong
func IsRateLimited(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.Code == http.StatusTooManyRequests
}
