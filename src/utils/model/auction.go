package model

import "math"

// Dutch auction of a name. Price decays from StartPrice every DecayInterval blocks, never going below FloorPrice.
type AuctionParameters struct {
	FloorPrice    float64          `json:"floorPrice"`
	StartPrice    float64          `json:"startPrice"`
	StartHeight   int64            `json:"startHeight"`
	EndHeight     int64            `json:"endHeight"`
	Initiator     string           `json:"initiator,omitempty"`
	DecayRate     float64          `json:"decayRate"`
	DecayInterval int64            `json:"decayInterval"`
	Type          RegistrationType `json:"type"`
	ContractTxId  string           `json:"contractTxId,omitempty"`
	Years         int              `json:"years,omitempty"`
}

// Price at the given block height.
// Heights before the start cost the start price.
func (self *AuctionParameters) CurrentPrice(height int64) float64 {
	elapsed := height - self.StartHeight
	if elapsed < 0 {
		elapsed = 0
	}

	var intervals int64
	if self.DecayInterval > 0 {
		intervals = elapsed / self.DecayInterval
	}

	price := self.StartPrice * math.Pow(self.DecayRate, float64(intervals))
	return math.Max(self.FloorPrice, price)
}

func (self *AuctionParameters) IsLive(height int64) bool {
	return self.EndHeight > height
}
