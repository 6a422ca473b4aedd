package model

// Name registry contract state
type RegistryState struct {
	Name     string                       `json:"name"`
	Ticker   string                       `json:"ticker"`
	Owner    string                       `json:"owner"`
	Balances map[string]float64           `json:"balances"`
	Records  map[string]Record            `json:"records"`
	Fees     map[string]float64           `json:"fees"`
	Reserved map[string]ReservedName      `json:"reserved"`
	Auctions map[string]AuctionParameters `json:"auctions"`
	Settings RegistrySettings             `json:"settings"`
}

type Record struct {
	ContractTxId   string           `json:"contractTxId"`
	StartTimestamp int64            `json:"startTimestamp,omitempty"`
	EndTimestamp   int64            `json:"endTimestamp,omitempty"`
	Type           RegistrationType `json:"type,omitempty"`
	UndernameCount int              `json:"undernames,omitempty"`
	PurchasePrice  float64          `json:"purchasePrice,omitempty"`
}

type ReservedName struct {
	Target       string `json:"target,omitempty"`
	EndTimestamp int64  `json:"endTimestamp,omitempty"`
}

type RegistrySettings struct {
	Auctions AuctionSettings `json:"auctions"`
}

type AuctionSettings struct {
	Current string                   `json:"current"`
	History []AuctionSettingsVersion `json:"history"`
}

type AuctionSettingsVersion struct {
	Id                   string  `json:"id"`
	FloorPriceMultiplier float64 `json:"floorPriceMultiplier"`
	StartPriceMultiplier float64 `json:"startPriceMultiplier"`
	AuctionDuration      int64   `json:"auctionDuration"`
	DecayRate            float64 `json:"decayRate"`
	DecayInterval        int64   `json:"decayInterval"`
}

// Active auction settings, nil when not configured
func (self *AuctionSettings) Active() *AuctionSettingsVersion {
	for i := range self.History {
		if self.History[i].Id == self.Current {
			return &self.History[i]
		}
	}
	return nil
}

// Name token contract state
type ANTState struct {
	Name        string               `json:"name"`
	Ticker      string               `json:"ticker"`
	Owner       string               `json:"owner"`
	Controller  string               `json:"controller,omitempty"`
	Controllers []string             `json:"controllers,omitempty"`
	Evolve      *string              `json:"evolve"`
	Balances    map[string]float64   `json:"balances"`
	Records     map[string]ANTRecord `json:"records"`
}

type ANTRecord struct {
	TransactionId string `json:"transactionId"`
	TtlSeconds    int    `json:"ttlSeconds"`
}

// Root record of the name, "@"
func (self *ANTState) Root() (out ANTRecord, ok bool) {
	out, ok = self.Records["@"]
	return
}
