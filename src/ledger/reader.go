package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/warp-contracts/arns/src/utils/arweave"
	"github.com/warp-contracts/arns/src/utils/config"
	"github.com/warp-contracts/arns/src/utils/gql"
	"github.com/warp-contracts/arns/src/utils/logger"
	"github.com/warp-contracts/arns/src/utils/monitoring"
	monitor_arns "github.com/warp-contracts/arns/src/utils/monitoring/arns"

	"github.com/sirupsen/logrus"
	"golang.org/x/exp/slices"
)

// Reads data about transactions from the ledger
type Reader struct {
	log     *logrus.Entry
	config  *config.Arweave
	client  *arweave.Client
	monitor monitoring.Monitor
}

func NewReader(config *config.Config) (self *Reader) {
	self = new(Reader)
	self.log = logger.NewSublogger("ledger-reader")
	self.config = &config.Arweave
	self.client = arweave.NewClient(&config.Arweave)
	self.monitor = monitor_arns.NewMonitor()
	return
}

func (self *Reader) WithClient(client *arweave.Client) *Reader {
	self.client = client
	return self
}

func (self *Reader) WithMonitor(monitor monitoring.Monitor) *Reader {
	self.monitor = monitor
	return self
}

func (self *Reader) Client() *arweave.Client {
	return self.client
}

func (self *Reader) newRunner() *gql.Runner {
	return gql.NewRunner(self.client).
		WithMaxPages(self.config.PaginationMaxPages).
		WithOnProgress(func(pages, edges int) {
			self.monitor.GetReport().Ledger.State.QueriedPages.Inc()
		})
}

// Number of blocks mined on top of the block containing each transaction.
// Transactions that aren't mined yet have 0 confirmations.
// One transaction is checked with the status endpoint, many with a single paginated query which requires the current height.
func (self *Reader) GetConfirmations(ctx context.Context, ids []arweave.TransactionID, currentHeight *int64) (out map[string]int64, err error) {
	out = make(map[string]int64, len(ids))

	switch len(ids) {
	case 0:
		return
	case 1:
		var confirmations int64
		confirmations, err = self.getConfirmations(ctx, ids[0])
		if err != nil {
			return nil, err
		}
		out[ids[0].String()] = confirmations
		return
	}

	if currentHeight == nil {
		err = ErrMissingHeight
		return nil, err
	}

	for _, id := range ids {
		out[id.String()] = 0
	}

	edges, err := self.newRunner().FetchAll(ctx, gql.TransactionsByIds(arweave.Strings(ids), self.config.PaginationPageSize))
	if err != nil && !errors.Is(err, gql.ErrPaginationExhausted) {
		self.monitor.GetReport().Ledger.Errors.QueryErrors.Inc()
		return nil, err
	}

	for _, edge := range edges {
		if edge.Node.Block == nil {
			// Not mined yet
			continue
		}
		if _, ok := out[edge.Node.Id]; !ok {
			continue
		}

		confirmations := *currentHeight - edge.Node.Block.Height
		if confirmations < 0 {
			// Height is older than the block
			confirmations = 0
		}
		out[edge.Node.Id] = confirmations
	}

	// Partial results are returned together with ErrPaginationExhausted
	return
}

func (self *Reader) getConfirmations(ctx context.Context, id arweave.TransactionID) (out int64, err error) {
	status, err := self.client.GetTransactionStatus(ctx, id)
	if errors.Is(err, arweave.ErrPending) || errors.Is(err, arweave.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		self.monitor.GetReport().Ledger.Errors.StatusDownloadErrors.Inc()
		return
	}
	return status.NumberOfConfirmations, nil
}

func (self *Reader) GetCurrentHeight(ctx context.Context) (out int64, err error) {
	info, err := self.client.GetNetworkInfo(ctx)
	if err != nil {
		self.monitor.GetReport().Ledger.Errors.NetworkInfoDownloadErrors.Inc()
		return
	}
	return info.Height, nil
}

// Decoded tags of the transaction
func (self *Reader) GetTags(ctx context.Context, id arweave.TransactionID) (out map[string]string, err error) {
	tags, err := self.client.GetTransactionTags(ctx, id)
	if err != nil {
		return
	}
	return arweave.TagsToMap(tags), nil
}

// Balance in AR
func (self *Reader) GetWalletBalance(ctx context.Context, address arweave.TransactionID) (out float64, err error) {
	return self.client.GetWalletBalance(ctx, address)
}

// Checks the transaction exists, is buried deep enough and has tags with one of the allowed values.
// minConfirmations <= 0 disables the confirmation check.
func (self *Reader) ValidateTransactionTags(ctx context.Context, id arweave.TransactionID, minConfirmations int64, requiredTags map[string][]string) (err error) {
	_, err = self.client.GetTransactionById(ctx, id)
	if errors.Is(err, arweave.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrTransactionNotFound, id)
	}
	if err != nil && !errors.Is(err, arweave.ErrPending) {
		return
	}

	if minConfirmations > 0 {
		var confirmations int64
		confirmations, err = self.getConfirmations(ctx, id)
		if err != nil {
			return
		}
		if confirmations < minConfirmations {
			return fmt.Errorf("%w: current confirmations: %d, required: %d", ErrInsufficientConfirmations, confirmations, minConfirmations)
		}
	}

	if len(requiredTags) == 0 {
		return nil
	}

	tags, err := self.GetTags(ctx, id)
	if err != nil {
		return
	}

	for name, allowed := range requiredTags {
		value, ok := tags[name]
		if !ok {
			return fmt.Errorf("%w: %s", ErrMissingTag, name)
		}
		if !slices.Contains(allowed, value) {
			return fmt.Errorf("%w: %s=%q, allowed values: %v", ErrInvalidTagValue, name, value, allowed)
		}
	}

	return nil
}

// Name token contracts deployed by the owner from one of the approved sources, newest first
func (self *Reader) GetContractsForWallet(ctx context.Context, sourceIds []arweave.TransactionID, owner arweave.TransactionID) (out []arweave.TransactionID, err error) {
	edges, err := self.newRunner().FetchAll(ctx, gql.ContractsForWallet(owner.String(), arweave.Strings(sourceIds), self.config.PaginationPageSize))
	if err != nil && !errors.Is(err, gql.ErrPaginationExhausted) {
		self.monitor.GetReport().Ledger.Errors.QueryErrors.Inc()
		return nil, err
	}

	seen := make(map[string]struct{}, len(edges))
	for _, edge := range edges {
		if _, ok := seen[edge.Node.Id]; ok {
			continue
		}
		seen[edge.Node.Id] = struct{}{}

		id, parseErr := arweave.NewTransactionID(edge.Node.Id)
		if parseErr != nil {
			self.log.WithError(parseErr).Warn("Skipping contract with invalid id")
			continue
		}
		out = append(out, id)
	}
	return
}
