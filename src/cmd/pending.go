package cmd

import (
	"github.com/warp-contracts/arns/src/utils/arweave"
	"github.com/warp-contracts/arns/src/utils/logger"

	"github.com/spf13/cobra"
)

func init() {
	pendingCmd.AddCommand(pendingListCmd, pendingDeleteCmd, pendingCleanCmd, pendingPortfolioCmd)
	RootCmd.AddCommand(pendingCmd)
}

var pendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "Inspects locally recorded interactions",
}

var pendingListCmd = &cobra.Command{
	Use:   "list [key]",
	Short: "Interactions stored under the key, keys when no key is given",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		app, err := newApp(ctx)
		if err != nil {
			return
		}
		defer app.Close()

		if len(args) == 0 {
			keys, err := app.store.Keys(ctx)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), keys)
		}

		interactions, err := app.store.Get(ctx, args[0])
		if err != nil {
			return
		}
		return printJSON(cmd.OutOrStdout(), interactions)
	},
}

var pendingDeleteCmd = &cobra.Command{
	Use:   "delete <key> <tx id>",
	Short: "Removes an interaction",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		txId, err := arweave.NewTransactionID(args[1])
		if err != nil {
			return
		}

		app, err := newApp(ctx)
		if err != nil {
			return
		}
		defer app.Close()

		return app.store.DeleteTransaction(ctx, args[0], txId)
	},
}

var pendingCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Removes expired interactions",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		app, err := newApp(ctx)
		if err != nil {
			return
		}
		defer app.Close()

		return app.store.Clean(ctx)
	},
}

var pendingPortfolioCmd = &cobra.Command{
	Use:   "portfolio <wallet>",
	Short: "Name tokens of the wallet with their pending changes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		wallet, err := arweave.NewTransactionID(args[0])
		if err != nil {
			return
		}

		app, err := newApp(ctx)
		if err != nil {
			return
		}
		defer app.Close()

		log := logger.NewSublogger("pending-cmd").WithField("wallet", wallet)
		portfolio, err := app.portfolio.Get(ctx, wallet, func(completed, total int) {
			log.WithField("completed", completed).WithField("total", total).Debug("Fetching states")
		})
		if err != nil {
			return
		}
		return printJSON(cmd.OutOrStdout(), portfolio)
	},
}
