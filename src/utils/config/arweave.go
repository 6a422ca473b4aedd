package config

import (
	"time"

	"github.com/spf13/viper"
)

type Arweave struct {
	// URL of the gateway used for all ledger reads
	NodeUrl string

	// Time limit for requests. The timeout includes connection time, any
	// redirects, and reading the response body
	RequestTimeout time.Duration

	// Maximum amount of time a dial will wait for a connect to complete.
	DialerTimeout time.Duration

	// Interval between keep-alive probes for an active network connection.
	DialerKeepAlive time.Duration

	// Maximum amount of time an idle (keep-alive) connection will remain idle before closing itself.
	IdleConnTimeout time.Duration

	// Maximum amount of time waiting to wait for a TLS handshake
	TLSHandshakeTimeout time.Duration

	// Time in which max num of requests is enforced
	LimiterInterval time.Duration

	// Max num requests to particular host per interval
	LimiterBurstSize int

	// Delay before the first retry of a rate limited request. Doubles with every attempt.
	RetryInitialDelay time.Duration

	// Max number of attempts for a single request, including the first one
	RetryMaxAttempts int

	// Safety ceiling for the number of GraphQL pages fetched in one query
	PaginationMaxPages int

	// Number of edges requested per GraphQL page
	PaginationPageSize int
}

func setArweaveDefaults() {
	viper.SetDefault("Arweave.NodeUrl", "https://arweave.net")
	viper.SetDefault("Arweave.RequestTimeout", "30s")
	viper.SetDefault("Arweave.DialerTimeout", "30s")
	viper.SetDefault("Arweave.DialerKeepAlive", "15s")
	viper.SetDefault("Arweave.IdleConnTimeout", "31s")
	viper.SetDefault("Arweave.TLSHandshakeTimeout", "10s")
	viper.SetDefault("Arweave.LimiterInterval", "100ms")
	viper.SetDefault("Arweave.LimiterBurstSize", "10")
	viper.SetDefault("Arweave.RetryInitialDelay", "500ms")
	viper.SetDefault("Arweave.RetryMaxAttempts", "5")
	viper.SetDefault("Arweave.PaginationMaxPages", "30")
	viper.SetDefault("Arweave.PaginationPageSize", "100")
}
