package config

import (
	"time"

	"github.com/spf13/viper"
)

type Submitter struct {
	// Max size of the JSON encoded interaction input
	MaxPayloadBytes int

	// Max size of all tags attached to a deployment
	MaxTagBytes int

	// Max num of write attempts when the write returns no transaction id
	WriteMaxAttempts int

	// Delay before the second write attempt. Doubles with every attempt.
	WriteInitialDelay time.Duration

	// Dry-run interactions before they're written
	DryRun bool
}

func setSubmitterDefaults() {
	viper.SetDefault("Submitter.MaxPayloadBytes", "1748")
	viper.SetDefault("Submitter.MaxTagBytes", "2048")
	viper.SetDefault("Submitter.WriteMaxAttempts", "5")
	viper.SetDefault("Submitter.WriteInitialDelay", "100ms")
	viper.SetDefault("Submitter.DryRun", "true")
}
