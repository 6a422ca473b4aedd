package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/warp-contracts/arns/src/utils/arweave"
	"github.com/warp-contracts/arns/src/utils/build_info"
	"github.com/warp-contracts/arns/src/utils/config"
	"github.com/warp-contracts/arns/src/utils/logger"
	"github.com/warp-contracts/arns/src/utils/monitoring"
	monitor_arns "github.com/warp-contracts/arns/src/utils/monitoring/arns"
	"github.com/warp-contracts/arns/src/utils/task"

	"github.com/gammazero/workerpool"
	"github.com/go-resty/resty/v2"
	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
)

// Client of the contract state read-cache service.
// Fetched states are kept in memory for a short time.
type Cache struct {
	log     *logrus.Entry
	config  *config.StateCache
	client  *resty.Client
	limiter ratelimit.Limiter
	monitor monitoring.Monitor

	snapshots *cache.Cache
	now       func() time.Time
}

type contractResponse struct {
	ContractTxId string          `json:"contractTxId"`
	State        json.RawMessage `json:"state"`
}

func NewCache(config *config.Config) (self *Cache) {
	self = new(Cache)
	self.log = logger.NewSublogger("state-cache")
	self.config = &config.StateCache
	self.monitor = monitor_arns.NewMonitor()
	self.now = time.Now

	rps := config.StateCache.MaxRequestsPerSecond
	if rps <= 0 {
		self.limiter = ratelimit.NewUnlimited()
	} else {
		self.limiter = ratelimit.New(rps)
	}

	self.snapshots = cache.New(config.StateCache.TTL, config.StateCache.CleanupInterval)

	self.client = resty.New().
		SetBaseURL(strings.TrimSuffix(config.StateCache.Url, "/")).
		SetTimeout(config.StateCache.RequestTimeout).
		SetHeader("User-Agent", "warp.cc/arns/"+build_info.Version).
		SetRetryCount(0).
		SetLogger(arweave.NewLogger("state-cache")).
		OnBeforeRequest(func(c *resty.Client, req *resty.Request) error {
			self.limiter.Take()
			return nil
		})
	return
}

func (self *Cache) WithMonitor(monitor monitoring.Monitor) *Cache {
	self.monitor = monitor
	return self
}

// Snapshot of the contract's state, fetched if there's no fresh one in memory
func (self *Cache) GetSnapshot(ctx context.Context, contractId arweave.TransactionID) (out *Snapshot, err error) {
	cached, ok := self.snapshots.Get(contractId.String())
	if ok {
		self.monitor.GetReport().StateCache.State.Hits.Inc()
		return cached.(*Snapshot), nil
	}
	self.monitor.GetReport().StateCache.State.Misses.Inc()

	out, err = self.fetch(ctx, contractId)
	if err != nil {
		return
	}

	// Replaces the previous snapshot, readers holding it aren't affected
	self.snapshots.SetDefault(contractId.String(), out)
	return
}

func isRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// Downloads the state. Only rate limited requests are retried.
func (self *Cache) fetch(ctx context.Context, contractId arweave.TransactionID) (out *Snapshot, err error) {
	var result *contractResponse
	err = task.NewRetry().
		WithContext(ctx).
		WithInitialDelay(self.config.RetryInitialDelay).
		WithMaxAttempts(self.config.RetryMaxAttempts).
		WithShouldRetry(isRateLimited).
		WithOnError(func(err error, attempt int) {
			self.log.WithError(err).WithField("contract_id", contractId).WithField("attempt", attempt).Debug("State request failed")
		}).
		Run(func() (err error) {
			result, err = self.download(ctx, contractId)
			return
		})
	if err != nil {
		return
	}

	self.monitor.GetReport().StateCache.State.Downloads.Inc()

	out = &Snapshot{
		ContractId: contractId.String(),
		FetchedAt:  self.now(),
		raw:        result.State,
	}
	return
}

func (self *Cache) download(ctx context.Context, contractId arweave.TransactionID) (out *contractResponse, err error) {
	resp, err := self.client.R().
		SetContext(ctx).
		ForceContentType("application/json").
		SetResult(&contractResponse{}).
		SetPathParam("id", contractId.String()).
		Get("/contract/{id}")
	if err != nil {
		self.monitor.GetReport().StateCache.Errors.DownloadErrors.Inc()
		return
	}

	switch {
	case resp.StatusCode() == http.StatusNotFound:
		self.monitor.GetReport().StateCache.Errors.NotFound.Inc()
		err = task.Permanent(fmt.Errorf("%w: %s", ErrNotFound, contractId))
		return
	case resp.StatusCode() == http.StatusTooManyRequests:
		self.monitor.GetReport().StateCache.Errors.DownloadErrors.Inc()
		err = fmt.Errorf("%w: %s", ErrRateLimited, contractId)
		return
	case !resp.IsSuccess():
		self.monitor.GetReport().StateCache.Errors.DownloadErrors.Inc()
		err = fmt.Errorf("%w: %s", ErrBadResponse, resp.Status())
		return
	}

	out, ok := resp.Result().(*contractResponse)
	if !ok || len(out.State) == 0 || string(out.State) == "null" {
		err = task.Permanent(fmt.Errorf("%w: %s", ErrEmptyState, contractId))
		return
	}
	return
}

// Typed state of the contract. The caller picks the type.
func Get[T any](ctx context.Context, cache *Cache, contractId arweave.TransactionID) (out *T, err error) {
	snapshot, err := cache.GetSnapshot(ctx, contractId)
	if err != nil {
		return
	}
	return Decode[T](snapshot)
}

// Balance of the wallet in the contract's token. Missing balance is 0.
func (self *Cache) GetBalance(ctx context.Context, contractId, wallet arweave.TransactionID) (out float64, err error) {
	state, err := Get[struct {
		Balances map[string]float64 `json:"balances"`
	}](ctx, self, contractId)
	if err != nil {
		return
	}
	return state.Balances[wallet.String()], nil
}

// Next read fetches a fresh state
func (self *Cache) Invalidate(contractId arweave.TransactionID) {
	self.snapshots.Delete(contractId.String())
}

// Fetches many states at once. Progress is reported after each contract, whether it succeeded or not.
// Returns the states that were fetched together with the errors of those that weren't.
func (self *Cache) GetStates(ctx context.Context, contractIds []arweave.TransactionID, onProgress func(completed, total int)) (out map[string]*Snapshot, err error) {
	out = make(map[string]*Snapshot, len(contractIds))
	if len(contractIds) == 0 {
		return
	}

	workers := self.config.WorkerPoolSize
	if workers <= 0 {
		workers = 1
	}
	pool := workerpool.New(workers)

	var (
		mtx       sync.Mutex
		errs      []error
		completed int
	)

	for _, contractId := range contractIds {
		contractId := contractId
		pool.Submit(func() {
			snapshot, err := self.GetSnapshot(ctx, contractId)

			mtx.Lock()
			defer mtx.Unlock()

			completed++
			if err != nil {
				self.log.WithError(err).WithField("contract_id", contractId).Debug("Failed to get state")
				errs = append(errs, fmt.Errorf("%s: %w", contractId, err))
			} else {
				out[contractId.String()] = snapshot
			}

			if onProgress != nil {
				onProgress(completed, len(contractIds))
			}
		})
	}

	pool.StopWait()

	return out, errors.Join(errs...)
}
