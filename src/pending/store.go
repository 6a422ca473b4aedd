package pending

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/warp-contracts/arns/src/utils/arweave"
	"github.com/warp-contracts/arns/src/utils/config"
	"github.com/warp-contracts/arns/src/utils/model"
	"github.com/warp-contracts/arns/src/utils/monitoring"
	monitor_arns "github.com/warp-contracts/arns/src/utils/monitoring/arns"
	"github.com/warp-contracts/arns/src/utils/task"
)

// Local log of interactions that were sent, but may not be visible in the contract state yet.
// It's advisory only, entries expire after TTL regardless of their confirmation status.
type Store struct {
	*task.Task

	kv      KV
	ttl     time.Duration
	now     func() time.Time
	monitor monitoring.Monitor

	// Serializes read-modify-write cycles
	mtx sync.Mutex
}

// Stale entries are removed right after Start and then periodically
func NewStore(config *config.Config, kv KV) (self *Store) {
	self = new(Store)
	self.kv = kv
	self.ttl = config.Store.TTL
	self.now = time.Now
	self.monitor = monitor_arns.NewMonitor()

	self.Task = task.NewTask(config, "pending-store").
		WithPeriodicSubtaskFunc(config.Store.SweepInterval, self.sweep).
		WithOnAfterStop(func() {
			err := self.kv.Close()
			if err != nil {
				self.Log.WithError(err).Error("Failed to close storage")
			}
		})
	return
}

// Overrides the clock, used in tests
func (self *Store) WithClock(now func() time.Time) *Store {
	self.now = now
	return self
}

func (self *Store) WithMonitor(monitor monitoring.Monitor) *Store {
	self.monitor = monitor
	return self
}

func (self *Store) sweep() error {
	err := self.Clean(self.Ctx)
	if err != nil {
		self.monitor.GetReport().Pending.Errors.StoreErrors.Inc()
		self.Log.WithError(err).Error("Failed to clean stale interactions")
	}
	return nil
}

// Parses a stored list. Entries that can't be parsed are skipped and reported with ErrCorruptedEntry.
func decode(buf []byte) (out []model.ContractInteraction, err error) {
	var raw []json.RawMessage
	err = json.Unmarshal(buf, &raw)
	if err != nil {
		return nil, fmt.Errorf("%w: not a list: %w", ErrCorruptedEntry, err)
	}

	var errs []error
	out = make([]model.ContractInteraction, 0, len(raw))
	for i, entry := range raw {
		var interaction model.ContractInteraction
		parseErr := json.Unmarshal(entry, &interaction)
		if parseErr != nil {
			errs = append(errs, fmt.Errorf("%w: entry %d: %w", ErrCorruptedEntry, i, parseErr))
			continue
		}
		out = append(out, interaction)
	}
	return out, errors.Join(errs...)
}

// Entries stored under the key. Corrupted entries are skipped, they expire like any other.
func (self *Store) load(ctx context.Context, key string) (out []model.ContractInteraction, err error) {
	buf, ok, err := self.kv.Get(ctx, key)
	if err != nil || !ok {
		return
	}

	out, err = decode(buf)
	if errors.Is(err, ErrCorruptedEntry) {
		self.monitor.GetReport().Pending.Errors.StoreErrors.Inc()
		self.Log.WithError(err).WithField("key", key).Warn("Skipping corrupted interactions")
		err = nil
	}
	return
}

func (self *Store) save(ctx context.Context, key string, interactions []model.ContractInteraction) (err error) {
	if len(interactions) == 0 {
		return self.kv.Delete(ctx, key)
	}

	buf, err := json.Marshal(interactions)
	if err != nil {
		return
	}
	return self.kv.Set(ctx, key, buf)
}

// Prepends the interaction to the list under the key and stamps it with the current time.
// Nothing is overwritten. An interaction with the same id under the same key isn't added twice.
func (self *Store) Push(ctx context.Context, key string, interaction model.ContractInteraction) (err error) {
	self.mtx.Lock()
	defer self.mtx.Unlock()

	current, err := self.load(ctx, key)
	if err != nil {
		self.monitor.GetReport().Pending.Errors.StoreErrors.Inc()
		return
	}

	if !interaction.Id.IsZero() {
		for _, existing := range current {
			if existing.Id == interaction.Id && existing.Type == interaction.Type {
				return nil
			}
		}
	}

	interaction.Timestamp = self.now().UnixMilli()

	updated := make([]model.ContractInteraction, 0, len(current)+1)
	updated = append(updated, interaction)
	updated = append(updated, current...)

	err = self.save(ctx, key, updated)
	if err != nil {
		self.monitor.GetReport().Pending.Errors.StoreErrors.Inc()
		return
	}

	self.monitor.GetReport().Pending.State.Pushed.Inc()
	return
}

// All entries under the key, newest first
func (self *Store) Get(ctx context.Context, key string) (out []model.ContractInteraction, err error) {
	self.mtx.Lock()
	defer self.mtx.Unlock()

	return self.load(ctx, key)
}

// Interactions stored under the contract's key
func (self *Store) GetCachedInteractions(ctx context.Context, contractId arweave.TransactionID) (out []model.ContractInteraction, err error) {
	all, err := self.Get(ctx, contractId.String())
	if err != nil {
		return
	}

	for _, interaction := range all {
		if interaction.Type == model.InteractionTypeInteraction {
			out = append(out, interaction)
		}
	}
	return
}

// Interactions stored under the key (usually a wallet) that target the contract
func (self *Store) GetPendingContractInteractions(ctx context.Context, contractId arweave.TransactionID, key string) (out []model.ContractInteraction, err error) {
	all, err := self.Get(ctx, key)
	if err != nil {
		return
	}

	for _, interaction := range all {
		if interaction.Type == model.InteractionTypeInteraction && interaction.ContractTxId == contractId {
			out = append(out, interaction)
		}
	}
	return
}

// Name token deployed locally, before the cache service knows about it
type NameToken struct {
	ContractId arweave.TransactionID
	Deployer   arweave.TransactionID
	State      model.ANTState
	Timestamp  int64
}

// Name tokens from deploy entries. Zero deployer matches every deployer.
func (self *Store) GetCachedNameTokens(ctx context.Context, deployer arweave.TransactionID) (out []NameToken, err error) {
	keys, err := self.Keys(ctx)
	if err != nil {
		return
	}

	seen := make(map[arweave.TransactionID]struct{})
	for _, key := range keys {
		var all []model.ContractInteraction
		all, err = self.Get(ctx, key)
		if err != nil {
			return
		}

		for _, interaction := range all {
			if interaction.Type != model.InteractionTypeDeploy {
				continue
			}
			if !deployer.IsZero() && interaction.Deployer != deployer {
				continue
			}
			if _, ok := seen[interaction.Id]; ok {
				continue
			}

			deployment, ok := interaction.Payload.(model.Deployment)
			if !ok || len(deployment.InitState) == 0 {
				continue
			}

			var state model.ANTState
			err = json.Unmarshal(deployment.InitState, &state)
			if err != nil {
				self.Log.WithError(err).WithField("contract_id", interaction.Id).Warn("Deployed state isn't a name token")
				err = nil
				continue
			}

			seen[interaction.Id] = struct{}{}
			out = append(out, NameToken{
				ContractId: interaction.Id,
				Deployer:   interaction.Deployer,
				State:      state,
				Timestamp:  interaction.Timestamp,
			})
		}
	}
	return
}

// Removes entries with the transaction id from the key's list
func (self *Store) DeleteTransaction(ctx context.Context, key string, txId arweave.TransactionID) (err error) {
	self.mtx.Lock()
	defer self.mtx.Unlock()

	current, err := self.load(ctx, key)
	if err != nil {
		return
	}

	updated := make([]model.ContractInteraction, 0, len(current))
	for _, interaction := range current {
		if interaction.Id != txId {
			updated = append(updated, interaction)
		}
	}

	if len(updated) == len(current) {
		return nil
	}
	return self.save(ctx, key, updated)
}

// Removes the whole key
func (self *Store) Delete(ctx context.Context, key string) error {
	self.mtx.Lock()
	defer self.mtx.Unlock()

	return self.kv.Delete(ctx, key)
}

func (self *Store) Keys(ctx context.Context) ([]string, error) {
	return self.kv.Keys(ctx)
}

// Drops entries older than TTL and entries without a timestamp. Keys left empty are removed.
func (self *Store) Clean(ctx context.Context) (err error) {
	self.mtx.Lock()
	defer self.mtx.Unlock()

	keys, err := self.kv.Keys(ctx)
	if err != nil {
		return
	}

	now := self.now().UnixMilli()
	ttl := self.ttl.Milliseconds()

	var evicted int
	for _, key := range keys {
		var current []model.ContractInteraction
		current, err = self.load(ctx, key)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", key, err)
		}

		fresh := make([]model.ContractInteraction, 0, len(current))
		for _, interaction := range current {
			if interaction.Timestamp == 0 || now-interaction.Timestamp >= ttl {
				continue
			}
			fresh = append(fresh, interaction)
		}

		if len(fresh) == len(current) && len(fresh) > 0 {
			continue
		}

		evicted += len(current) - len(fresh)
		err = self.save(ctx, key, fresh)
		if err != nil {
			return fmt.Errorf("failed to save %s: %w", key, err)
		}
	}

	self.monitor.GetReport().Pending.State.Sweeps.Inc()
	self.monitor.GetReport().Pending.State.Evicted.Add(uint64(evicted))

	remaining, err := self.kv.Keys(ctx)
	if err != nil {
		return
	}
	self.monitor.GetReport().Pending.State.KeysAfterLast.Store(int64(len(remaining)))

	if evicted > 0 {
		self.Log.WithField("evicted", evicted).WithField("keys", len(remaining)).Debug("Cleaned stale interactions")
	}
	return
}
