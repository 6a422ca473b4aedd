package state

import (
	"encoding/json"
	"time"
)

// Immutable state of a contract as returned by the cache service.
// Never modified after creation, a refresh creates a new snapshot.
type Snapshot struct {
	ContractId string
	FetchedAt  time.Time
	raw        json.RawMessage
}

// Copy of the raw state
func (self *Snapshot) Raw() json.RawMessage {
	out := make(json.RawMessage, len(self.raw))
	copy(out, self.raw)
	return out
}

// Decodes a fresh typed view of the state
func Decode[T any](snapshot *Snapshot) (out *T, err error) {
	out = new(T)
	err = json.Unmarshal(snapshot.raw, out)
	if err != nil {
		return nil, err
	}
	return
}
