package cmd

import (
	"github.com/warp-contracts/arns/src/utils/arweave"

	"github.com/spf13/cobra"
)

var confirmationsHeight int64

func init() {
	confirmationsCmd.Flags().Int64Var(&confirmationsHeight, "height", 0, "current block height, fetched when not set")
	RootCmd.AddCommand(confirmationsCmd)
}

var confirmationsCmd = &cobra.Command{
	Use:   "confirmations <tx id>...",
	Short: "Number of blocks mined on top of the transactions",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		ids := make([]arweave.TransactionID, 0, len(args))
		for _, arg := range args {
			var id arweave.TransactionID
			id, err = arweave.NewTransactionID(arg)
			if err != nil {
				return
			}
			ids = append(ids, id)
		}

		app, err := newApp(ctx)
		if err != nil {
			return
		}
		defer app.Close()

		var height *int64
		if len(ids) > 1 {
			if confirmationsHeight == 0 {
				confirmationsHeight, err = app.reader.GetCurrentHeight(ctx)
				if err != nil {
					return
				}
			}
			height = &confirmationsHeight
		}

		confirmations, err := app.reader.GetConfirmations(ctx, ids, height)
		if err != nil {
			return
		}
		return printJSON(cmd.OutOrStdout(), confirmations)
	},
}
