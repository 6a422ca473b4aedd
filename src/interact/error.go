package interact

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

var (
	ErrEmptyPayload        = errors.New("interaction payload is empty")
	ErrPayloadTooLarge     = errors.New("interaction payload is too large")
	ErrTagsTooLarge        = errors.New("deployment tags are too large")
	ErrMissingInitialState = errors.New("no initial state for the contract")
	ErrInteractionRejected = errors.New("contract interaction detected to be invalid")
	ErrNoResult            = errors.New("no result from write interaction")
	ErrAtomicRegistration  = errors.New("atomic registration failed")
	ErrRateLimited         = errors.New("signer is rate limiting requests")
	ErrBadResponse         = errors.New("bad response from the signer")
)

// Contract refused the interaction during the dry run.
// Messages come from the contract and are kept verbatim.
type RejectedError struct {
	// Error messages keyed by the name of the evaluated contract
	Messages map[string]string

	// Used when there are no per-contract messages
	ErrorMessage string
}

func (self *RejectedError) Error() string {
	if len(self.Messages) == 0 {
		return fmt.Sprintf("%s: %s", ErrInteractionRejected, self.ErrorMessage)
	}

	names := maps.Keys(self.Messages)
	slices.Sort(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+self.Messages[name])
	}
	return fmt.Sprintf("%s: %s", ErrInteractionRejected, strings.Join(parts, ","))
}

func (self *RejectedError) Is(target error) bool {
	return target == ErrInteractionRejected
}
