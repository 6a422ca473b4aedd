package config

import (
	"time"

	"github.com/spf13/viper"
)

type Store struct {
	// Storage backend of the pending interactions: memory, redis or postgres
	Backend string

	// Pending interactions older than this are evicted
	TTL time.Duration

	// How often the store is swept for expired interactions
	SweepInterval time.Duration

	// Prefix of keys in shared backends (redis)
	KeyPrefix string
}

func setStoreDefaults() {
	viper.SetDefault("Store.Backend", "memory")
	viper.SetDefault("Store.TTL", "2h")
	viper.SetDefault("Store.SweepInterval", "10m")
	viper.SetDefault("Store.KeyPrefix", "arns:pending:")
}
