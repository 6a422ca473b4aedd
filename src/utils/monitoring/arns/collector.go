package monitor_arns

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type Collector struct {
	monitor *Monitor

	// Run
	StartTimestamp *prometheus.Desc
	UpForSeconds   *prometheus.Desc

	// Ledger
	ArweaveCurrentHeight      *prometheus.Desc
	AverageBlocksPerMinute    *prometheus.Desc
	Reorganizations           *prometheus.Desc
	QueriedPages              *prometheus.Desc
	NetworkInfoDownloadErrors *prometheus.Desc
	StatusDownloadErrors      *prometheus.Desc
	QueryErrors               *prometheus.Desc

	// State cache
	StateCacheHits           *prometheus.Desc
	StateCacheMisses         *prometheus.Desc
	StateCacheDownloads      *prometheus.Desc
	StateCacheDownloadErrors *prometheus.Desc
	StateCacheNotFound       *prometheus.Desc

	// Pending store
	PendingPushed      *prometheus.Desc
	PendingEvicted     *prometheus.Desc
	PendingSweeps      *prometheus.Desc
	PendingKeys        *prometheus.Desc
	PendingStoreErrors *prometheus.Desc

	// Submitter
	Submitted           *prometheus.Desc
	Deployed            *prometheus.Desc
	WriteRetries        *prometheus.Desc
	AtomicRegistrations *prometheus.Desc
	ValidationErrors    *prometheus.Desc
	Rejected            *prometheus.Desc
	WriteErrors         *prometheus.Desc
	RecordErrors        *prometheus.Desc
}

func NewCollector() *Collector {
	labels := prometheus.Labels{
		"app": "arns",
	}

	return &Collector{
		// Run
		StartTimestamp: prometheus.NewDesc("start_timestamp", "", nil, labels),
		UpForSeconds:   prometheus.NewDesc("up_for_seconds", "", nil, labels),

		// Ledger
		ArweaveCurrentHeight:      prometheus.NewDesc("arweave_current_height", "", nil, labels),
		AverageBlocksPerMinute:    prometheus.NewDesc("average_blocks_per_minute", "", nil, labels),
		Reorganizations:           prometheus.NewDesc("reorganizations", "", nil, labels),
		QueriedPages:              prometheus.NewDesc("queried_pages", "", nil, labels),
		NetworkInfoDownloadErrors: prometheus.NewDesc("network_info_download_errors", "", nil, labels),
		StatusDownloadErrors:      prometheus.NewDesc("status_download_errors", "", nil, labels),
		QueryErrors:               prometheus.NewDesc("query_errors", "", nil, labels),

		// State cache
		StateCacheHits:           prometheus.NewDesc("state_cache_hits", "", nil, labels),
		StateCacheMisses:         prometheus.NewDesc("state_cache_misses", "", nil, labels),
		StateCacheDownloads:      prometheus.NewDesc("state_cache_downloads", "", nil, labels),
		StateCacheDownloadErrors: prometheus.NewDesc("state_cache_download_errors", "", nil, labels),
		StateCacheNotFound:       prometheus.NewDesc("state_cache_not_found", "", nil, labels),

		// Pending store
		PendingPushed:      prometheus.NewDesc("pending_pushed", "", nil, labels),
		PendingEvicted:     prometheus.NewDesc("pending_evicted", "", nil, labels),
		PendingSweeps:      prometheus.NewDesc("pending_sweeps", "", nil, labels),
		PendingKeys:        prometheus.NewDesc("pending_keys", "", nil, labels),
		PendingStoreErrors: prometheus.NewDesc("pending_store_errors", "", nil, labels),

		// Submitter
		Submitted:           prometheus.NewDesc("submitted", "", nil, labels),
		Deployed:            prometheus.NewDesc("deployed", "", nil, labels),
		WriteRetries:        prometheus.NewDesc("write_retries", "", nil, labels),
		AtomicRegistrations: prometheus.NewDesc("atomic_registrations", "", nil, labels),
		ValidationErrors:    prometheus.NewDesc("validation_errors", "", nil, labels),
		Rejected:            prometheus.NewDesc("rejected", "", nil, labels),
		WriteErrors:         prometheus.NewDesc("write_errors", "", nil, labels),
		RecordErrors:        prometheus.NewDesc("record_errors", "", nil, labels),
	}
}

func (self *Collector) WithMonitor(m *Monitor) *Collector {
	self.monitor = m
	return self
}

func (self *Collector) Describe(ch chan<- *prometheus.Desc) {
	// Run
	ch <- self.StartTimestamp
	ch <- self.UpForSeconds

	// Ledger
	ch <- self.ArweaveCurrentHeight
	ch <- self.AverageBlocksPerMinute
	ch <- self.Reorganizations
	ch <- self.QueriedPages
	ch <- self.NetworkInfoDownloadErrors
	ch <- self.StatusDownloadErrors
	ch <- self.QueryErrors

	// State cache
	ch <- self.StateCacheHits
	ch <- self.StateCacheMisses
	ch <- self.StateCacheDownloads
	ch <- self.StateCacheDownloadErrors
	ch <- self.StateCacheNotFound

	// Pending store
	ch <- self.PendingPushed
	ch <- self.PendingEvicted
	ch <- self.PendingSweeps
	ch <- self.PendingKeys
	ch <- self.PendingStoreErrors

	// Submitter
	ch <- self.Submitted
	ch <- self.Deployed
	ch <- self.WriteRetries
	ch <- self.AtomicRegistrations
	ch <- self.ValidationErrors
	ch <- self.Rejected
	ch <- self.WriteErrors
	ch <- self.RecordErrors
}

// Collect implements required collect function for all promehteus collectors
func (self *Collector) Collect(ch chan<- prometheus.Metric) {
	r := &self.monitor.Report

	// Run
	ch <- prometheus.MustNewConstMetric(self.StartTimestamp, prometheus.GaugeValue, float64(r.Run.State.StartTimestamp.Load()))
	ch <- prometheus.MustNewConstMetric(self.UpForSeconds, prometheus.GaugeValue, float64(time.Now().Unix()-r.Run.State.StartTimestamp.Load()))

	// Ledger
	ch <- prometheus.MustNewConstMetric(self.ArweaveCurrentHeight, prometheus.GaugeValue, float64(r.Ledger.State.ArweaveCurrentHeight.Load()))
	ch <- prometheus.MustNewConstMetric(self.AverageBlocksPerMinute, prometheus.GaugeValue, r.Ledger.State.AverageBlocksPerMinute.Load())
	ch <- prometheus.MustNewConstMetric(self.Reorganizations, prometheus.CounterValue, float64(r.Ledger.State.Reorganizations.Load()))
	ch <- prometheus.MustNewConstMetric(self.QueriedPages, prometheus.CounterValue, float64(r.Ledger.State.QueriedPages.Load()))
	ch <- prometheus.MustNewConstMetric(self.NetworkInfoDownloadErrors, prometheus.CounterValue, float64(r.Ledger.Errors.NetworkInfoDownloadErrors.Load()))
	ch <- prometheus.MustNewConstMetric(self.StatusDownloadErrors, prometheus.CounterValue, float64(r.Ledger.Errors.StatusDownloadErrors.Load()))
	ch <- prometheus.MustNewConstMetric(self.QueryErrors, prometheus.CounterValue, float64(r.Ledger.Errors.QueryErrors.Load()))

	// State cache
	ch <- prometheus.MustNewConstMetric(self.StateCacheHits, prometheus.CounterValue, float64(r.StateCache.State.Hits.Load()))
	ch <- prometheus.MustNewConstMetric(self.StateCacheMisses, prometheus.CounterValue, float64(r.StateCache.State.Misses.Load()))
	ch <- prometheus.MustNewConstMetric(self.StateCacheDownloads, prometheus.CounterValue, float64(r.StateCache.State.Downloads.Load()))
	ch <- prometheus.MustNewConstMetric(self.StateCacheDownloadErrors, prometheus.CounterValue, float64(r.StateCache.Errors.DownloadErrors.Load()))
	ch <- prometheus.MustNewConstMetric(self.StateCacheNotFound, prometheus.CounterValue, float64(r.StateCache.Errors.NotFound.Load()))

	// Pending store
	ch <- prometheus.MustNewConstMetric(self.PendingPushed, prometheus.CounterValue, float64(r.Pending.State.Pushed.Load()))
	ch <- prometheus.MustNewConstMetric(self.PendingEvicted, prometheus.CounterValue, float64(r.Pending.State.Evicted.Load()))
	ch <- prometheus.MustNewConstMetric(self.PendingSweeps, prometheus.CounterValue, float64(r.Pending.State.Sweeps.Load()))
	ch <- prometheus.MustNewConstMetric(self.PendingKeys, prometheus.GaugeValue, float64(r.Pending.State.KeysAfterLast.Load()))
	ch <- prometheus.MustNewConstMetric(self.PendingStoreErrors, prometheus.CounterValue, float64(r.Pending.Errors.StoreErrors.Load()))

	// Submitter
	ch <- prometheus.MustNewConstMetric(self.Submitted, prometheus.CounterValue, float64(r.Submitter.State.Submitted.Load()))
	ch <- prometheus.MustNewConstMetric(self.Deployed, prometheus.CounterValue, float64(r.Submitter.State.Deployed.Load()))
	ch <- prometheus.MustNewConstMetric(self.WriteRetries, prometheus.CounterValue, float64(r.Submitter.State.WriteRetries.Load()))
	ch <- prometheus.MustNewConstMetric(self.AtomicRegistrations, prometheus.CounterValue, float64(r.Submitter.State.AtomicRegistrations.Load()))
	ch <- prometheus.MustNewConstMetric(self.ValidationErrors, prometheus.CounterValue, float64(r.Submitter.Errors.ValidationErrors.Load()))
	ch <- prometheus.MustNewConstMetric(self.Rejected, prometheus.CounterValue, float64(r.Submitter.Errors.Rejected.Load()))
	ch <- prometheus.MustNewConstMetric(self.WriteErrors, prometheus.CounterValue, float64(r.Submitter.Errors.WriteErrors.Load()))
	ch <- prometheus.MustNewConstMetric(self.RecordErrors, prometheus.CounterValue, float64(r.Submitter.Errors.RecordErrors.Load()))
}
