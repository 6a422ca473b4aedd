package report

type Report struct {
	Run        *RunReport        `json:"run,omitempty"`
	Ledger     *LedgerReport     `json:"ledger,omitempty"`
	StateCache *StateCacheReport `json:"state_cache,omitempty"`
	Pending    *PendingReport    `json:"pending,omitempty"`
	Submitter  *SubmitterReport  `json:"submitter,omitempty"`
}
