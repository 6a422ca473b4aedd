package arweave

import (
	"encoding/json"
	"fmt"
	"regexp"
)

// Length of transaction ids, contract ids and wallet addresses
const TxIdLength = 43

var TxIdRegex = regexp.MustCompile("^[a-zA-Z0-9_-]{43}$")

// Validated identifier of a transaction, contract or wallet.
// Zero value is not a valid id, use NewTransactionID.
type TransactionID struct {
	value string
}

func NewTransactionID(raw string) (out TransactionID, err error) {
	if !TxIdRegex.MatchString(raw) {
		err = fmt.Errorf("%w: %q", ErrInvalidIdentifier, raw)
		return
	}
	out.value = raw
	return
}

// Panics on invalid input. Use only for constants.
func MustTransactionID(raw string) TransactionID {
	id, err := NewTransactionID(raw)
	if err != nil {
		panic(err)
	}
	return id
}

func IsTransactionID(raw string) bool {
	return TxIdRegex.MatchString(raw)
}

func (self TransactionID) String() string {
	return self.value
}

func (self TransactionID) IsZero() bool {
	return self.value == ""
}

func (self TransactionID) MarshalJSON() ([]byte, error) {
	return json.Marshal(self.value)
}

func (self *TransactionID) UnmarshalJSON(data []byte) (err error) {
	var s string
	err = json.Unmarshal(data, &s)
	if err != nil {
		return
	}
	*self, err = NewTransactionID(s)
	return
}

// Converts a list of ids to their string forms
func Strings(ids []TransactionID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
