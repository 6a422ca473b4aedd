package report

import "go.uber.org/atomic"

type LedgerErrors struct {
	NetworkInfoDownloadErrors atomic.Int64 `json:"network_info_download"`
	StatusDownloadErrors      atomic.Int64 `json:"status_download"`
	QueryErrors               atomic.Int64 `json:"query"`
}

type LedgerState struct {
	ArweaveCurrentHeight            atomic.Int64   `json:"arweave_current_height"`
	ArweaveLastNetworkInfoTimestamp atomic.Uint64  `json:"arweave_last_network_info_timestamp"`
	AverageBlocksPerMinute          atomic.Float64 `json:"average_blocks_per_minute"`
	Reorganizations                 atomic.Uint64  `json:"reorganizations"`
	QueriedPages                    atomic.Uint64  `json:"queried_pages"`
}

type LedgerReport struct {
	State  LedgerState  `json:"state"`
	Errors LedgerErrors `json:"errors"`
}
