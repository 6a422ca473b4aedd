package cmd

import (
	"github.com/warp-contracts/arns/src/ledger"
	"github.com/warp-contracts/arns/src/utils/logger"
	"github.com/warp-contracts/arns/src/utils/monitoring"

	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(serverCmd)
}

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Polls block height, sweeps pending interactions and serves monitoring endpoints",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		log := logger.NewSublogger("server-cmd")

		app, err := newApp(ctx)
		if err != nil {
			return
		}
		defer app.Close()

		poller := ledger.NewPoller(conf).
			WithReader(app.reader).
			WithMonitor(app.monitor).
			WithOutput(1)

		server := monitoring.NewServer(conf).
			WithMonitor(app.monitor)

		for _, start := range []func() error{app.monitor.Start, poller.Start, server.Start} {
			err = start()
			if err != nil {
				return
			}
		}

		// New blocks may change the registry
		go func() {
			for height := range poller.Output {
				log.WithField("height", height).Debug("New block height")
				app.states.Invalidate(app.resolver.RegistryId())
			}
		}()

		<-ctx.Done()

		server.StopWait()
		poller.StopWait()
		app.monitor.StopWait()
		return
	},
}
