package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/warp-contracts/arns/src/utils/common"
	"github.com/warp-contracts/arns/src/utils/config"
	"github.com/warp-contracts/arns/src/utils/logger"

	"github.com/spf13/cobra"
)

var (
	RootCmd = &cobra.Command{
		Use:   "arns",
		Short: "Submits ArNS interactions and reconciles them with the ledger",

		PersistentPreRunE: func(cmd *cobra.Command, args []string) (err error) {
			// Cancelled on SIGINT and SIGTERM
			ctx, cancel = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

			conf, err = config.Load(cfgFile)
			if err != nil {
				return
			}
			if logLevel != "" {
				conf.LogLevel = logLevel
			}
			ctx = common.SetConfig(ctx, conf)

			return logger.Init(conf)
		},

		PersistentPostRunE: func(cmd *cobra.Command, args []string) (err error) {
			cancel()
			logger.NewSublogger("root-cmd").WithField("cmd", cmd.Name()).Debug("Finished")
			return
		},
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	conf     *config.Config
	cfgFile  string
	logLevel string

	ctx    context.Context
	cancel context.CancelFunc
)

func init() {
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "configuration file path")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "overrides the configured log level")
}
