package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/warp-contracts/arns/src/interact"
	"github.com/warp-contracts/arns/src/ledger"
	"github.com/warp-contracts/arns/src/pending"
	"github.com/warp-contracts/arns/src/registry"
	"github.com/warp-contracts/arns/src/state"
	"github.com/warp-contracts/arns/src/utils/common"
	monitor_arns "github.com/warp-contracts/arns/src/utils/monitoring/arns"
)

// Components created once per process and passed to the commands
type app struct {
	monitor   *monitor_arns.Monitor
	reader    *ledger.Reader
	states    *state.Cache
	store     *pending.Store
	resolver  *registry.Resolver
	portfolio *registry.PortfolioReader
	submitter *interact.Submitter
}

// Reads the configuration from the context. Nothing keeps running if an error is returned.
func newApp(ctx context.Context) (self *app, err error) {
	config := common.GetConfig(ctx)
	if config == nil {
		return nil, errors.New("no configuration in context")
	}

	self = new(app)
	self.monitor = monitor_arns.NewMonitor()

	self.reader = ledger.NewReader(config).
		WithMonitor(self.monitor)

	self.states = state.NewCache(config).
		WithMonitor(self.monitor)

	kv, err := pending.NewKV(ctx, config)
	if err != nil {
		return nil, err
	}
	self.store = pending.NewStore(config, kv).
		WithMonitor(self.monitor)

	defer func() {
		if err != nil {
			// Releases the storage
			self.store.StopWait()
			self = nil
		}
	}()

	self.resolver, err = registry.NewResolver(config, self.states)
	if err != nil {
		return
	}
	self.resolver.
		WithHeightSource(self.reader).
		WithPendingSource(self.store)

	self.portfolio, err = registry.NewPortfolioReader(config, self.states, self.store)
	if err != nil {
		return
	}
	self.portfolio.WithContractSource(self.reader)

	self.submitter = interact.NewSubmitter(config).
		WithWriter(interact.NewHTTPWriter(config)).
		WithRecorder(self.store).
		WithMonitor(self.monitor)

	// Sweeps stale entries until the app is closed
	err = self.store.Start()
	return
}

// Stops the sweeper and releases the storage of pending interactions
func (self *app) Close() {
	self.store.StopWait()
}

func printJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
