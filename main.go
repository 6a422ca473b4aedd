package main

import (
	"os"

	"github.com/warp-contracts/arns/src/cmd"
	"github.com/warp-contracts/arns/src/utils/logger"
)

func main() {
	err := cmd.RootCmd.Execute()
	if err != nil {
		logger.NewSublogger("main").WithError(err).Error("Command failed")
		os.Exit(1)
	}
}
