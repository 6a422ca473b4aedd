package ledger

import "errors"

var (
	ErrMissingHeight             = errors.New("current block height is required to compute confirmations of many transactions")
	ErrTransactionNotFound       = errors.New("transaction not found")
	ErrInsufficientConfirmations = errors.New("transaction doesn't have the required number of confirmations")
	ErrMissingTag                = errors.New("transaction is missing a required tag")
	ErrInvalidTagValue           = errors.New("transaction tag has a value that isn't allowed")
)
