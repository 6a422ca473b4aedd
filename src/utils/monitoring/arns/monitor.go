package monitor_arns

import (
	"math"
	"net/http"
	"time"

	"github.com/warp-contracts/arns/src/utils/monitoring/report"
	"github.com/warp-contracts/arns/src/utils/task"

	"github.com/gammazero/deque"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Stores and computes monitor counters
type Monitor struct {
	*task.Task

	Report report.Report

	historySize int
	collector   *Collector

	// Block production speed
	BlockHeights *deque.Deque[int64]
}

func NewMonitor() (self *Monitor) {
	self = new(Monitor)

	self.Report = report.Report{
		Run:        &report.RunReport{},
		Ledger:     &report.LedgerReport{},
		StateCache: &report.StateCacheReport{},
		Pending:    &report.PendingReport{},
		Submitter:  &report.SubmitterReport{},
	}

	// Initialization
	self.Report.Run.State.StartTimestamp.Store(time.Now().Unix())

	self.collector = NewCollector().WithMonitor(self)

	self = self.WithMaxHistorySize(30)

	self.Task = task.NewTask(nil, "monitor").
		WithPeriodicSubtaskFunc(time.Minute, self.monitorBlocks)
	return
}

func (self *Monitor) GetReport() *report.Report {
	return &self.Report
}

func (self *Monitor) WithMaxHistorySize(maxHistorySize int) *Monitor {
	self.historySize = maxHistorySize
	self.BlockHeights = deque.New[int64](self.historySize)
	return self
}

func (self *Monitor) GetPrometheusCollector() (collector prometheus.Collector) {
	return self.collector
}

func round(f float64) float64 {
	return math.Round(f*100) / 100
}

// Measure block production speed
func (self *Monitor) monitorBlocks() (err error) {
	loaded := self.Report.Ledger.State.ArweaveCurrentHeight.Load()
	if loaded == 0 {
		// Neglect the first 0
		return
	}

	self.BlockHeights.PushBack(loaded)
	if self.BlockHeights.Len() > self.historySize {
		self.BlockHeights.PopFront()
	}
	value := float64(self.BlockHeights.Back()-self.BlockHeights.Front()) / float64(self.BlockHeights.Len())

	self.Report.Ledger.State.AverageBlocksPerMinute.Store(round(value))
	return
}

func (self *Monitor) fill() {
	self.Report.Run.State.UpForSeconds.Store(uint64(time.Now().Unix() - self.Report.Run.State.StartTimestamp.Load()))
}

// Healthy as long as the network info is fresh
func (self *Monitor) IsOK() bool {
	last := self.Report.Ledger.State.ArweaveLastNetworkInfoTimestamp.Load()
	if last == 0 {
		// Not polling
		return true
	}
	return time.Since(time.Unix(int64(last), 0)) < 30*time.Minute
}

func (self *Monitor) OnGetState(c *gin.Context) {
	self.fill()
	c.JSON(http.StatusOK, &self.Report)
}

func (self *Monitor) OnGetHealth(c *gin.Context) {
	if self.IsOK() {
		c.Status(http.StatusOK)
	} else {
		c.Status(http.StatusServiceUnavailable)
	}
}
