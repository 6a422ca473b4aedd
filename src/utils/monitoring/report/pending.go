package report

import "go.uber.org/atomic"

type PendingErrors struct {
	StoreErrors atomic.Int64 `json:"store"`
}

type PendingState struct {
	Pushed        atomic.Uint64 `json:"pushed"`
	Evicted       atomic.Uint64 `json:"evicted"`
	Sweeps        atomic.Uint64 `json:"sweeps"`
	KeysAfterLast atomic.Int64  `json:"keys_after_last_sweep"`
}

type PendingReport struct {
	State  PendingState  `json:"state"`
	Errors PendingErrors `json:"errors"`
}
