package cmd

import (
	"github.com/warp-contracts/arns/src/interact"
	"github.com/warp-contracts/arns/src/utils/arweave"
	"github.com/warp-contracts/arns/src/utils/model"

	"github.com/spf13/cobra"
)

var (
	submitWallet   string
	submitContract string
	submitInput    string
	submitNoDryRun bool
)

func init() {
	submitCmd.Flags().StringVar(&submitWallet, "wallet", "", "address of the sending wallet")
	submitCmd.Flags().StringVar(&submitContract, "contract", "", "id of the contract")
	submitCmd.Flags().StringVar(&submitInput, "input", "", "interaction input, JSON with the function name")
	submitCmd.Flags().BoolVar(&submitNoDryRun, "no-dry-run", false, "skip evaluating the interaction before it's sent")
	_ = submitCmd.MarkFlagRequired("wallet")
	_ = submitCmd.MarkFlagRequired("contract")
	_ = submitCmd.MarkFlagRequired("input")
	RootCmd.AddCommand(submitCmd)
}

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Sends a contract interaction and records it as pending",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		wallet, err := arweave.NewTransactionID(submitWallet)
		if err != nil {
			return
		}
		contractId, err := arweave.NewTransactionID(submitContract)
		if err != nil {
			return
		}
		input, err := model.DecodeInput([]byte(submitInput))
		if err != nil {
			return
		}

		app, err := newApp(ctx)
		if err != nil {
			return
		}
		defer app.Close()

		req := interact.Request{
			Wallet:     wallet,
			ContractId: contractId,
			Input:      input,
		}
		if submitNoDryRun {
			dryRun := false
			req.DryRun = &dryRun
		}

		id, err := app.submitter.Submit(ctx, req)
		if err != nil {
			return
		}
		return printJSON(cmd.OutOrStdout(), map[string]string{"id": id.String()})
	},
}
