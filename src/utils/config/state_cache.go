package config

import (
	"time"

	"github.com/spf13/viper"
)

type StateCache struct {
	// Base url of the contract state read-cache service
	Url string

	// Time limit for requests
	RequestTimeout time.Duration

	// How long a fetched snapshot is served before it's fetched again
	TTL time.Duration

	// How often expired snapshots are purged from memory
	CleanupInterval time.Duration

	// Max num of requests sent to the service per second
	MaxRequestsPerSecond int

	// Workers fetching many contracts at once
	WorkerPoolSize int

	// Delay before the first retry of a rate limited request. Doubles with every attempt.
	RetryInitialDelay time.Duration

	// Max number of attempts for a single request, including the first one
	RetryMaxAttempts int
}

func setStateCacheDefaults() {
	viper.SetDefault("StateCache.Url", "https://api.arns.app/v1")
	viper.SetDefault("StateCache.RequestTimeout", "30s")
	viper.SetDefault("StateCache.TTL", "30s")
	viper.SetDefault("StateCache.CleanupInterval", "5m")
	viper.SetDefault("StateCache.MaxRequestsPerSecond", "20")
	viper.SetDefault("StateCache.WorkerPoolSize", "10")
	viper.SetDefault("StateCache.RetryInitialDelay", "500ms")
	viper.SetDefault("StateCache.RetryMaxAttempts", "4")
}
