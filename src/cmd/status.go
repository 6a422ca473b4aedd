package cmd

import (
	"github.com/warp-contracts/arns/src/utils/arweave"

	"github.com/spf13/cobra"
)

var statusWallet string

func init() {
	statusCmd.Flags().StringVar(&statusWallet, "wallet", "", "wallet whose pending purchases are taken into account")
	RootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status <name>",
	Short: "Availability, reservation and auction of a name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var wallet arweave.TransactionID
		if statusWallet != "" {
			wallet, err = arweave.NewTransactionID(statusWallet)
			if err != nil {
				return
			}
		}

		app, err := newApp(ctx)
		if err != nil {
			return
		}
		defer app.Close()

		status, err := app.resolver.Status(ctx, args[0], wallet)
		if err != nil {
			return
		}
		return printJSON(cmd.OutOrStdout(), status)
	},
}
