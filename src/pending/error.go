package pending

import "errors"

var (
	ErrUnknownBackend = errors.New("unknown pending store backend")
	ErrCorruptedEntry = errors.New("pending store entry can't be parsed")
)
