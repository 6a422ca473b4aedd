package pending

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/warp-contracts/arns/src/utils/arweave"
	"github.com/warp-contracts/arns/src/utils/config"
	"github.com/warp-contracts/arns/src/utils/model"
	monitor_arns "github.com/warp-contracts/arns/src/utils/monitoring/arns"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestStoreTestSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}

type fakeClock struct {
	mtx sync.Mutex
	now time.Time
}

func (self *fakeClock) Now() time.Time {
	self.mtx.Lock()
	defer self.mtx.Unlock()
	return self.now
}

func (self *fakeClock) Advance(d time.Duration) {
	self.mtx.Lock()
	defer self.mtx.Unlock()
	self.now = self.now.Add(d)
}

type StoreTestSuite struct {
	suite.Suite
	ctx    context.Context
	cancel context.CancelFunc
	config *config.Config
	clock  *fakeClock
	kv     *MemoryKV
	store  *Store
}

const (
	txA        = "txAtxAtxAtxAtxAtxAtxAtxAtxAtxAtxAtxAtxAtxAt"
	txB        = "txBtxBtxBtxBtxBtxBtxBtxBtxBtxBtxBtxBtxBtxBt"
	contractId = "contractcontractcontractcontractcontractcon"
	otherId    = "otherotherotherotherotherotherotherotheroth"
	walletId   = "walletwalletwalletwalletwalletwalletwalletw"
)

func (s *StoreTestSuite) SetupTest() {
	s.ctx, s.cancel = context.WithTimeout(context.Background(), 10*time.Second)
	s.config = config.Default()
	s.clock = &fakeClock{now: time.Unix(1_700_000_000, 0)}
	s.kv = NewMemoryKV()
	s.store = NewStore(s.config, s.kv).WithClock(s.clock.Now)
}

func (s *StoreTestSuite) TearDownTest() {
	s.cancel()
}

func interaction(id, contract string, input model.Input) model.ContractInteraction {
	return model.ContractInteraction{
		Id:           arweave.MustTransactionID(id),
		ContractTxId: arweave.MustTransactionID(contract),
		Type:         model.InteractionTypeInteraction,
		Payload:      input,
	}
}

func (s *StoreTestSuite) TestPushPrepends() {
	require.Nil(s.T(), s.store.Push(s.ctx, contractId, interaction(txA, contractId, model.SetName{Name: "a"})))
	s.clock.Advance(time.Second)
	require.Nil(s.T(), s.store.Push(s.ctx, contractId, interaction(txB, contractId, model.SetName{Name: "b"})))

	all, err := s.store.GetCachedInteractions(s.ctx, arweave.MustTransactionID(contractId))
	require.Nil(s.T(), err)
	require.Len(s.T(), all, 2)
	require.Equal(s.T(), txB, all[0].Id.String())
	require.Equal(s.T(), txA, all[1].Id.String())
	require.Equal(s.T(), s.clock.Now().UnixMilli(), all[0].Timestamp)
	require.Equal(s.T(), model.SetName{Name: "b"}, all[0].Payload)
}

func (s *StoreTestSuite) TestPushSkipsDuplicates() {
	require.Nil(s.T(), s.store.Push(s.ctx, contractId, interaction(txA, contractId, model.SetName{Name: "a"})))
	require.Nil(s.T(), s.store.Push(s.ctx, contractId, interaction(txA, contractId, model.SetName{Name: "a"})))

	all, err := s.store.Get(s.ctx, contractId)
	require.Nil(s.T(), err)
	require.Len(s.T(), all, 1)
}

func (s *StoreTestSuite) TestPendingContractInteractions() {
	require.Nil(s.T(), s.store.Push(s.ctx, walletId, interaction(txA, contractId, model.SetTicker{Ticker: "X"})))
	require.Nil(s.T(), s.store.Push(s.ctx, walletId, interaction(txB, otherId, model.SetTicker{Ticker: "Y"})))

	out, err := s.store.GetPendingContractInteractions(s.ctx, arweave.MustTransactionID(contractId), walletId)
	require.Nil(s.T(), err)
	require.Len(s.T(), out, 1)
	require.Equal(s.T(), txA, out[0].Id.String())

	// Stored under the wallet, not under the contract
	cached, err := s.store.GetCachedInteractions(s.ctx, arweave.MustTransactionID(contractId))
	require.Nil(s.T(), err)
	require.Empty(s.T(), cached)
}

func (s *StoreTestSuite) TestCleanEvictsExpired() {
	require.Nil(s.T(), s.store.Push(s.ctx, contractId, interaction(txA, contractId, model.SetName{Name: "old"})))
	require.Nil(s.T(), s.store.Push(s.ctx, otherId, interaction(txA, otherId, model.SetName{Name: "old"})))

	s.clock.Advance(time.Hour)
	require.Nil(s.T(), s.store.Push(s.ctx, contractId, interaction(txB, contractId, model.SetName{Name: "new"})))

	s.clock.Advance(time.Hour + time.Minute)
	require.Nil(s.T(), s.store.Clean(s.ctx))

	keys, err := s.store.Keys(s.ctx)
	require.Nil(s.T(), err)
	require.Equal(s.T(), []string{contractId}, keys)

	all, err := s.store.Get(s.ctx, contractId)
	require.Nil(s.T(), err)
	require.Len(s.T(), all, 1)
	require.Equal(s.T(), txB, all[0].Id.String())
}

func (s *StoreTestSuite) TestCleanDropsEntriesWithoutTimestamp() {
	raw, err := json.Marshal([]model.ContractInteraction{interaction(txA, contractId, model.SetName{Name: "a"})})
	require.Nil(s.T(), err)
	require.Nil(s.T(), s.kv.Set(s.ctx, contractId, raw))
	require.Nil(s.T(), s.kv.Set(s.ctx, otherId, []byte(`not a list`)))

	require.Nil(s.T(), s.store.Clean(s.ctx))

	keys, err := s.store.Keys(s.ctx)
	require.Nil(s.T(), err)
	require.Empty(s.T(), keys)
}

func (s *StoreTestSuite) TestCleanOnStart() {
	stale := interaction(txA, contractId, model.SetName{Name: "a"})
	stale.Timestamp = time.Now().Add(-3 * time.Hour).UnixMilli()
	raw, err := json.Marshal([]model.ContractInteraction{stale})
	require.Nil(s.T(), err)

	kv := NewMemoryKV()
	require.Nil(s.T(), kv.Set(s.ctx, contractId, raw))

	monitor := monitor_arns.NewMonitor()
	store := NewStore(s.config, kv).WithMonitor(monitor)

	// Nothing is removed before start
	keys, err := kv.Keys(s.ctx)
	require.Nil(s.T(), err)
	require.Len(s.T(), keys, 1)

	require.Nil(s.T(), store.Start())
	defer store.StopWait()

	require.Eventually(s.T(), func() bool {
		return monitor.GetReport().Pending.State.Sweeps.Load() >= 1
	}, 5*time.Second, 10*time.Millisecond)
	require.Equal(s.T(), uint64(1), monitor.GetReport().Pending.State.Evicted.Load())

	keys, err = kv.Keys(s.ctx)
	require.Nil(s.T(), err)
	require.Empty(s.T(), keys)
}

func (s *StoreTestSuite) TestDecodeReportsCorruptedEntries() {
	_, err := decode([]byte(`not a list`))
	require.ErrorIs(s.T(), err, ErrCorruptedEntry)

	good, err := json.Marshal(interaction(txA, contractId, model.SetName{Name: "a"}))
	require.Nil(s.T(), err)

	out, err := decode([]byte(`[` + string(good) + `,{"payload":1}]`))
	require.ErrorIs(s.T(), err, ErrCorruptedEntry)
	require.Len(s.T(), out, 1)
	require.Equal(s.T(), txA, out[0].Id.String())

	// Reads skip what can't be parsed
	require.Nil(s.T(), s.kv.Set(s.ctx, contractId, []byte(`[`+string(good)+`,{"payload":1}]`)))
	all, err := s.store.Get(s.ctx, contractId)
	require.Nil(s.T(), err)
	require.Len(s.T(), all, 1)
}

func (s *StoreTestSuite) TestDeleteTransaction() {
	require.Nil(s.T(), s.store.Push(s.ctx, contractId, interaction(txA, contractId, model.SetName{Name: "a"})))
	require.Nil(s.T(), s.store.Push(s.ctx, contractId, interaction(txB, contractId, model.SetName{Name: "b"})))

	require.Nil(s.T(), s.store.DeleteTransaction(s.ctx, contractId, arweave.MustTransactionID(txA)))
	all, err := s.store.Get(s.ctx, contractId)
	require.Nil(s.T(), err)
	require.Len(s.T(), all, 1)
	require.Equal(s.T(), txB, all[0].Id.String())

	require.Nil(s.T(), s.store.DeleteTransaction(s.ctx, contractId, arweave.MustTransactionID(txB)))
	keys, err := s.store.Keys(s.ctx)
	require.Nil(s.T(), err)
	require.Empty(s.T(), keys)
}

func (s *StoreTestSuite) TestCachedNameTokens() {
	deploy := model.ContractInteraction{
		Id:       arweave.MustTransactionID(contractId),
		Deployer: arweave.MustTransactionID(walletId),
		Type:     model.InteractionTypeDeploy,
		Payload:  model.Deployment{SrcTxId: txA, InitState: model.NewAtomicState("ardrive", walletId)},
	}
	require.Nil(s.T(), s.store.Push(s.ctx, walletId, deploy))
	require.Nil(s.T(), s.store.Push(s.ctx, walletId, interaction(contractId, contractId, model.BuyRecord{Name: "ardrive", ContractTxId: model.AtomicFlag})))

	tokens, err := s.store.GetCachedNameTokens(s.ctx, arweave.MustTransactionID(walletId))
	require.Nil(s.T(), err)
	require.Len(s.T(), tokens, 1)
	require.Equal(s.T(), contractId, tokens[0].ContractId.String())
	require.Equal(s.T(), "ANT-ARDRIVE", tokens[0].State.Name)

	tokens, err = s.store.GetCachedNameTokens(s.ctx, arweave.MustTransactionID(otherId))
	require.Nil(s.T(), err)
	require.Empty(s.T(), tokens)
}

func (s *StoreTestSuite) TestPendingRows() {
	valid := true
	interactions := []model.ContractInteraction{
		interaction(txA, contractId, model.SetRecord{SubDomain: "@", TransactionId: txB, TtlSeconds: 900}),
		interaction(txB, contractId, model.SetName{Name: "same"}),
		interaction(txB, contractId, model.RemoveRecord{SubDomain: "x"}),
	}
	interactions[0].Valid = &valid

	existing := map[Attribute]string{
		AttributeName:       "same",
		AttributeTargetID:   txA,
		AttributeTtlSeconds: "900",
	}

	rows := PendingRows(interactions, existing)
	require.Len(s.T(), rows, 1)
	require.Equal(s.T(), AttributeTargetID, rows[0].Attribute)
	require.Equal(s.T(), txB, rows[0].Value)
	require.Equal(s.T(), txA, rows[0].Id.String())
	require.True(s.T(), *rows[0].Valid)
}
