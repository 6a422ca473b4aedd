package model

import (
	"encoding/json"
	"strings"
)

type RegistrationType string

const (
	RegistrationTypeLease    RegistrationType = "lease"
	RegistrationTypePermabuy RegistrationType = "permabuy"
)

func (self RegistrationType) IsValid() bool {
	return self == RegistrationTypeLease || self == RegistrationTypePermabuy
}

// Placeholder contract id for a name token deployed in the same transaction as the registration
const AtomicFlag = "atomic"

// Content served by freshly registered names
const LandingPageTxId = "-k7t8xMoB8hW482609Z9F4bTFMC3MnuW8bTvTyT8pFI"

// Initial state of a name token deployed together with the name registration
func NewAtomicState(domain, wallet string) json.RawMessage {
	state := ANTState{
		Name:        "ANT-" + strings.ToUpper(domain),
		Ticker:      "ANT",
		Owner:       wallet,
		Controller:  wallet,
		Controllers: []string{wallet},
		Balances:    map[string]float64{wallet: 1},
		Records: map[string]ANTRecord{
			"@": {
				TransactionId: LandingPageTxId,
				TtlSeconds:    DefaultTtlSeconds,
			},
		},
	}
	buf, err := json.Marshal(state)
	if err != nil {
		// Only plain values inside
		panic(err)
	}
	return buf
}
