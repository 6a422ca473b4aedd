package report

import "go.uber.org/atomic"

type StateCacheErrors struct {
	DownloadErrors atomic.Int64 `json:"download"`
	NotFound       atomic.Int64 `json:"not_found"`
}

type StateCacheState struct {
	Hits      atomic.Uint64 `json:"hits"`
	Misses    atomic.Uint64 `json:"misses"`
	Downloads atomic.Uint64 `json:"downloads"`
}

type StateCacheReport struct {
	State  StateCacheState  `json:"state"`
	Errors StateCacheErrors `json:"errors"`
}
