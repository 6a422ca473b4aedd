package config

import (
	"time"

	"github.com/spf13/viper"
)

type Poller struct {
	// How often the current block height is fetched. Matches the average block time.
	Interval time.Duration

	// Num of recent heights kept to detect chain reorganizations
	HistorySize int
}

func setPollerDefaults() {
	viper.SetDefault("Poller.Interval", "2m")
	viper.SetDefault("Poller.HistorySize", "30")
}
