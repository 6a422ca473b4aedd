package registry

import "errors"

var (
	ErrUnknownFeeTier = errors.New("no fee for the name length")
	ErrInvalidName    = errors.New("invalid name")
	ErrInvalidYears   = errors.New("invalid lease duration")
	ErrInvalidType    = errors.New("invalid registration type")
	ErrNoAuction      = errors.New("name is not in auction")
	ErrNoSettings     = errors.New("registry has no auction settings")
)
