package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/warp-contracts/arns/src/utils/config"
	"github.com/warp-contracts/arns/src/utils/monitoring"
	monitor_arns "github.com/warp-contracts/arns/src/utils/monitoring/arns"
	"github.com/warp-contracts/arns/src/utils/task"

	"github.com/gammazero/deque"
	"github.com/teivah/onecontext"
	"go.uber.org/atomic"
)

// Task that periodically checks the current block height.
// Optionally emits every new height into the Output channel.
type Poller struct {
	*task.Task

	reader  *Reader
	monitor monitoring.Monitor

	// Output channel, nil unless WithOutput is used
	Output chan int64

	// Runtime variables
	height   atomic.Int64
	inFlight atomic.Bool

	mtx         sync.Mutex
	history     *deque.Deque[int64]
	historySize int
}

func NewPoller(config *config.Config) (self *Poller) {
	self = new(Poller)

	self.historySize = config.Poller.HistorySize
	if self.historySize <= 0 {
		self.historySize = 1
	}
	self.history = deque.New[int64](self.historySize)
	self.monitor = monitor_arns.NewMonitor()

	self.Task = task.NewTask(config, "ledger-poller").
		WithPeriodicSubtaskFunc(config.Poller.Interval, self.runPeriodically).
		WithOnAfterStop(func() {
			if self.Output != nil {
				close(self.Output)
			}
		})
	return
}

func (self *Poller) WithReader(reader *Reader) *Poller {
	self.reader = reader
	return self
}

func (self *Poller) WithMonitor(monitor monitoring.Monitor) *Poller {
	self.monitor = monitor
	return self
}

func (self *Poller) WithOutput(size int) *Poller {
	self.Output = make(chan int64, size)
	return self
}

// Last known height, 0 before the first successful poll
func (self *Poller) Height() int64 {
	return self.height.Load()
}

// Recent heights, oldest first
func (self *Poller) History() (out []int64) {
	self.mtx.Lock()
	defer self.mtx.Unlock()

	out = make([]int64, self.history.Len())
	for i := 0; i < self.history.Len(); i++ {
		out[i] = self.history.At(i)
	}
	return
}

func (self *Poller) runPeriodically() error {
	_, err := self.Poll(self.Ctx)
	if err != nil {
		self.Log.WithError(err).Error("Failed to get current block height")
	}

	// Errors don't stop polling
	return nil
}

// Fetches the current height. Returns the last known height when another fetch is already running.
// Cancelled when either ctx is done or the poller is stopping.
func (self *Poller) Poll(ctx context.Context) (height int64, err error) {
	if !self.inFlight.CompareAndSwap(false, true) {
		self.Log.Debug("Fetch already in progress, skipping")
		return self.height.Load(), nil
	}
	defer self.inFlight.Store(false)

	ctx, cancel := onecontext.Merge(self.Ctx, ctx)
	defer cancel()

	height, err = self.reader.GetCurrentHeight(ctx)
	if err != nil {
		return
	}

	self.monitor.GetReport().Ledger.State.ArweaveCurrentHeight.Store(height)
	self.monitor.GetReport().Ledger.State.ArweaveLastNetworkInfoTimestamp.Store(uint64(time.Now().Unix()))

	self.record(height)

	previous := self.height.Swap(height)
	if height == previous || self.Output == nil {
		return
	}

	select {
	case <-self.StopChannel:
	case <-ctx.Done():
	case self.Output <- height:
	}
	return
}

func (self *Poller) record(height int64) {
	self.mtx.Lock()
	defer self.mtx.Unlock()

	if self.history.Len() > 0 {
		last := self.history.Back()
		if height < last {
			self.Log.WithField("previous", last).WithField("current", height).Warn("Block height decreased, chain reorganization")
			self.monitor.GetReport().Ledger.State.Reorganizations.Inc()
		}
	}

	self.history.PushBack(height)
	for self.history.Len() > self.historySize {
		self.history.PopFront()
	}
}
