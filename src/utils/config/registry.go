package config

import (
	"github.com/spf13/viper"
)

type Registry struct {
	// Id of the ArNS registry contract
	ContractId string

	// Source code transactions of approved name token contracts
	AntSourceIds []string

	// Permanent registration costs this many annual fees
	PermabuyMultiplier float64

	// Names shorter than this are auctioned when bought permanently
	AuctionableNameLength int

	// Lease duration limits, in years
	MinLeaseYears int
	MaxLeaseYears int

	// Confirmations after which a transaction is considered final
	RecommendedConfirmations int64
}

func setRegistryDefaults() {
	viper.SetDefault("Registry.ContractId", "bLAgYxAdX2Ry-nt6aH2ixgvJXbpsEYm28NgJgyqfs-U")
	viper.SetDefault("Registry.AntSourceIds", []string{"PEI1efYrsX08HUwvc6y-h6TSpsNlo2r6_fWL2_GdwhY"})
	viper.SetDefault("Registry.PermabuyMultiplier", "10")
	viper.SetDefault("Registry.AuctionableNameLength", "12")
	viper.SetDefault("Registry.MinLeaseYears", "1")
	viper.SetDefault("Registry.MaxLeaseYears", "5")
	viper.SetDefault("Registry.RecommendedConfirmations", "50")
}
