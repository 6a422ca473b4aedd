package cmd

import (
	"github.com/warp-contracts/arns/src/interact"
	"github.com/warp-contracts/arns/src/registry"
	"github.com/warp-contracts/arns/src/utils/arweave"
	"github.com/warp-contracts/arns/src/utils/model"

	"github.com/spf13/cobra"
	"golang.org/x/exp/maps"
)

var (
	registerWallet string
	registerType   string
	registerYears  int
)

func init() {
	registerCmd.Flags().StringVar(&registerWallet, "wallet", "", "address of the buyer")
	registerCmd.Flags().StringVar(&registerType, "type", string(model.RegistrationTypeLease), "lease or permabuy")
	registerCmd.Flags().IntVar(&registerYears, "years", 1, "lease duration")
	_ = registerCmd.MarkFlagRequired("wallet")
	RootCmd.AddCommand(registerCmd)
}

var registerCmd = &cobra.Command{
	Use:   "register <name>",
	Short: "Deploys a name token and registers the name in a single transaction",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		domain := registry.Normalize(args[0])
		err = registry.ValidateName(domain)
		if err != nil {
			return
		}

		registrationType := model.RegistrationType(registerType)
		if !registrationType.IsValid() {
			return registry.ErrInvalidType
		}

		wallet, err := arweave.NewTransactionID(registerWallet)
		if err != nil {
			return
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

		years := registerYears
		if registrationType == model.RegistrationTypePermabuy {
			years = 0
		}

		id, err := app.submitter.RegisterAtomically(ctx, interact.AtomicRequest{
			Wallet:       wallet,
			RegistryId:   app.resolver.RegistryId(),
			Domain:       domain,
			Type:         registrationType,
			Years:        years,
			ReservedList: maps.Keys(state.Reserved),
		})
		if err != nil {
			return
		}
		return printJSON(cmd.OutOrStdout(), map[string]string{"contractTxId": id.String()})
	},
}
