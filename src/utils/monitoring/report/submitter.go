package report

import "go.uber.org/atomic"

type SubmitterErrors struct {
	ValidationErrors atomic.Int64 `json:"validation"`
	Rejected         atomic.Int64 `json:"rejected"`
	WriteErrors      atomic.Int64 `json:"write"`
	RecordErrors     atomic.Int64 `json:"record"`
}

type SubmitterState struct {
	Submitted           atomic.Uint64 `json:"submitted"`
	Deployed            atomic.Uint64 `json:"deployed"`
	WriteRetries        atomic.Uint64 `json:"write_retries"`
	AtomicRegistrations atomic.Uint64 `json:"atomic_registrations"`
}

type SubmitterReport struct {
	State  SubmitterState  `json:"state"`
	Errors SubmitterErrors `json:"errors"`
}
