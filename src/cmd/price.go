package cmd

import (
	"github.com/warp-contracts/arns/src/registry"
	"github.com/warp-contracts/arns/src/utils/model"

	"github.com/spf13/cobra"
)

var (
	priceType    string
	priceYears   int
	priceTierFee float64
	priceHeight  int64
)

func init() {
	priceCmd.Flags().StringVar(&priceType, "type", string(model.RegistrationTypeLease), "lease or permabuy")
	priceCmd.Flags().IntVar(&priceYears, "years", 1, "lease duration")
	priceCmd.Flags().Float64Var(&priceTierFee, "tier-fee", 0, "fee of the undername tier added to the base fee")
	priceCmd.Flags().Int64Var(&priceHeight, "height", 0, "block height of the auction price, current height by default")
	RootCmd.AddCommand(priceCmd)
}

type priceResult struct {
	Domain          string                   `json:"domain"`
	RegistrationFee float64                  `json:"registrationFee"`
	Auctionable     bool                     `json:"auctionable"`
	Auction         *model.AuctionParameters `json:"auction,omitempty"`
	AuctionLive     bool                     `json:"auctionLive"`
	AuctionPrice    float64                  `json:"auctionPrice,omitempty"`
}

var priceCmd = &cobra.Command{
	Use:   "price <name>",
	Short: "Registration fee and auction price of a name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		domain := registry.Normalize(args[0])
		err = registry.ValidateName(domain)
		if err != nil {
			return
		}

		registrationType := model.RegistrationType(priceType)
		if !registrationType.IsValid() {
			return registry.ErrInvalidType
		}

		app, err := newApp(ctx)
		if err != nil {
			return
		}
		defer app.Close()

		state, err := app.resolver.State(ctx)
		if err != nil {
			return
		}

		out := priceResult{Domain: domain}
		out.RegistrationFee, err = app.resolver.ComputeRegistrationFee(registry.FeeRequest{
			Domain:  domain,
			Type:    registrationType,
			Years:   priceYears,
			TierFee: priceTierFee,
		}, state.Fees)
		if err != nil {
			return
		}

		out.Auctionable, err = app.resolver.IsDomainAuctionable(ctx, domain, registrationType)
		if err != nil {
			return
		}

		if out.Auctionable {
			out.Auction, out.AuctionLive, err = app.resolver.GetAuction(ctx, domain, registrationType, priceYears)
			if err != nil {
				return
			}

			height := priceHeight
			if height == 0 {
				height = out.Auction.StartHeight
				if out.AuctionLive {
					height, err = app.reader.GetCurrentHeight(ctx)
					if err != nil {
						return
					}
				}
			}
			out.AuctionPrice = out.Auction.CurrentPrice(height)
		}

		return printJSON(cmd.OutOrStdout(), out)
	},
}
