package config

import (
	"time"

	"github.com/spf13/viper"
)

// External service that evaluates, signs and posts contract interactions
type Signer struct {
	Url            string
	ApiKey         string
	RequestTimeout time.Duration

	// Requests rejected with 429 are retried with exponential backoff
	RetryInitialDelay time.Duration
	RetryMaxAttempts  int
}

func setSignerDefaults() {
	viper.SetDefault("Signer.Url", "http://localhost:8090")
	viper.SetDefault("Signer.ApiKey", "")
	viper.SetDefault("Signer.RequestTimeout", "2m")
	viper.SetDefault("Signer.RetryInitialDelay", "500ms")
	viper.SetDefault("Signer.RetryMaxAttempts", "4")
}
