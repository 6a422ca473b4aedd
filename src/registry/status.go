package registry

import (
	"context"

	"github.com/warp-contracts/arns/src/utils/arweave"
	"github.com/warp-contracts/arns/src/utils/model"
)

// Everything known about a name at a block height
type NameStatus struct {
	Domain      string                   `json:"domain"`
	Height      int64                    `json:"height"`
	Available   bool                     `json:"available"`
	Reservation Reservation              `json:"reservation"`
	InAuction   bool                     `json:"inAuction"`
	Auction     *model.AuctionParameters `json:"auction,omitempty"`
	Price       float64                  `json:"price,omitempty"`
	Record      *model.Record            `json:"record,omitempty"`

	// Wallet sent a purchase or a bid that isn't visible in the state yet
	Pending    bool     `json:"pending"`
	PendingIds []string `json:"pendingIds,omitempty"`
}

func (self *Resolver) Status(ctx context.Context, domain string, wallet arweave.TransactionID) (out *NameStatus, err error) {
	domain = Normalize(domain)
	err = ValidateName(domain)
	if err != nil {
		return
	}

	registry, err := self.State(ctx)
	if err != nil {
		return
	}

	height, err := self.currentHeight(ctx)
	if err != nil {
		return
	}

	out = &NameStatus{
		Domain:      domain,
		Height:      height,
		Reservation: self.isReserved(registry, domain),
	}

	record, taken := registry.Records[domain]
	out.Available = !taken
	if taken {
		out.Record = &record
	}

	out.Auction, out.InAuction = self.liveAuction(registry, domain, height)
	if out.InAuction {
		out.Price = out.Auction.CurrentPrice(height)
	}

	if self.pending == nil || wallet.IsZero() {
		return
	}

	interactions, err := self.pending.Get(ctx, wallet.String())
	if err != nil {
		// Pending entries are advisory
		self.log.WithError(err).WithField("wallet", wallet).Warn("Failed to read pending interactions")
		return out, nil
	}

	for _, interaction := range interactions {
		if interaction.IsDeploy() || interaction.ContractTxId != self.registryId {
			continue
		}

		var name string
		switch payload := interaction.Payload.(type) {
		case model.BuyRecord:
			name = payload.Name
		case model.SubmitAuctionBid:
			name = payload.Name
		default:
			continue
		}

		if Normalize(name) == domain {
			out.Pending = true
			out.PendingIds = append(out.PendingIds, interaction.Id.String())
		}
	}
	return
}
