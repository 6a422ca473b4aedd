package registry

import (
	"context"
	"errors"

	"github.com/warp-contracts/arns/src/pending"
	"github.com/warp-contracts/arns/src/state"
	"github.com/warp-contracts/arns/src/utils/arweave"
	"github.com/warp-contracts/arns/src/utils/config"
	"github.com/warp-contracts/arns/src/utils/gql"
	"github.com/warp-contracts/arns/src/utils/logger"
	"github.com/warp-contracts/arns/src/utils/model"

	"github.com/sirupsen/logrus"
	"golang.org/x/exp/slices"
)

type Role string

const (
	RoleOwner      Role = "owner"
	RoleController Role = "controller"
	RoleNone       Role = ""
)

// Contracts indexed on the ledger. Implemented by ledger.Reader.
type ContractSource interface {
	GetContractsForWallet(ctx context.Context, sourceIds []arweave.TransactionID, owner arweave.TransactionID) ([]arweave.TransactionID, error)
}

type Holding struct {
	ContractId string          `json:"contractId"`
	State      *model.ANTState `json:"state"`
	Role       Role            `json:"role"`

	// Deployed locally, not confirmed by the state cache yet
	Pending bool `json:"pending"`

	// Changes sent by the wallet that aren't in the state yet
	PendingRows []pending.PendingRow `json:"pendingRows,omitempty"`
}

type Portfolio struct {
	Wallet   string    `json:"wallet"`
	Holdings []Holding `json:"holdings"`

	// Ledger query hit the page ceiling, the list may be incomplete
	Partial bool `json:"partial"`
}

// Name tokens of a wallet. Confirmed ones come from the ledger and the state cache,
// fresh deployments from the pending store.
type PortfolioReader struct {
	log       *logrus.Entry
	sourceIds []arweave.TransactionID
	contracts ContractSource
	states    *state.Cache
	store     *pending.Store
}

func NewPortfolioReader(config *config.Config, states *state.Cache, store *pending.Store) (self *PortfolioReader, err error) {
	self = new(PortfolioReader)
	self.log = logger.NewSublogger("portfolio")
	self.states = states
	self.store = store

	for _, raw := range config.Registry.AntSourceIds {
		var id arweave.TransactionID
		id, err = arweave.NewTransactionID(raw)
		if err != nil {
			return nil, err
		}
		self.sourceIds = append(self.sourceIds, id)
	}
	return
}

func (self *PortfolioReader) WithContractSource(contracts ContractSource) *PortfolioReader {
	self.contracts = contracts
	return self
}

func roleOf(state *model.ANTState, wallet string) Role {
	if state.Owner == wallet {
		return RoleOwner
	}
	if state.Controller == wallet || slices.Contains(state.Controllers, wallet) {
		return RoleController
	}
	return RoleNone
}

// Progress of fetching states is reported as (completed, total)
func (self *PortfolioReader) Get(ctx context.Context, wallet arweave.TransactionID, onProgress func(completed, total int)) (out *Portfolio, err error) {
	out = &Portfolio{Wallet: wallet.String()}

	var ids []arweave.TransactionID
	if self.contracts != nil {
		ids, err = self.contracts.GetContractsForWallet(ctx, self.sourceIds, wallet)
		if errors.Is(err, gql.ErrPaginationExhausted) {
			self.log.WithField("wallet", wallet).Warn("Too many contracts, using a partial list")
			out.Partial = true
			err = nil
		}
		if err != nil {
			return nil, err
		}
	}

	snapshots, err := self.states.GetStates(ctx, ids, onProgress)
	if err != nil {
		// Contracts that couldn't be fetched are skipped
		self.log.WithError(err).WithField("wallet", wallet).Warn("Failed to get some states")
		err = nil
	}

	for _, id := range ids {
		snapshot, ok := snapshots[id.String()]
		if !ok {
			continue
		}

		antState, decodeErr := state.Decode[model.ANTState](snapshot)
		if decodeErr != nil {
			self.log.WithError(decodeErr).WithField("contract_id", id).Warn("State isn't a name token")
			continue
		}

		holding := Holding{
			ContractId: id.String(),
			State:      antState,
			Role:       roleOf(antState, wallet.String()),
		}

		if self.store != nil {
			interactions, storeErr := self.store.GetPendingContractInteractions(ctx, id, wallet.String())
			if storeErr != nil {
				self.log.WithError(storeErr).WithField("contract_id", id).Warn("Failed to get pending interactions")
			}
			holding.PendingRows = pending.PendingRows(interactions, pending.ExistingValues(antState))
		}

		out.Holdings = append(out.Holdings, holding)
	}

	if self.store == nil {
		return
	}

	// Deployments the ledger doesn't know about yet
	tokens, err := self.store.GetCachedNameTokens(ctx, wallet)
	if err != nil {
		self.log.WithError(err).WithField("wallet", wallet).Warn("Failed to get pending deployments")
		return out, nil
	}

	for _, token := range tokens {
		if _, ok := snapshots[token.ContractId.String()]; ok {
			continue
		}

		token := token
		out.Holdings = append(out.Holdings, Holding{
			ContractId: token.ContractId.String(),
			State:      &token.State,
			Role:       roleOf(&token.State, wallet.String()),
			Pending:    true,
		})
	}
	return
}
