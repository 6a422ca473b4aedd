package model

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestAuctionTestSuite(t *testing.T) {
	suite.Run(t, new(AuctionTestSuite))
}

type AuctionTestSuite struct {
	suite.Suite
}

func (s *AuctionTestSuite) TestDecay() {
	auction := AuctionParameters{
		FloorPrice:    100,
		StartPrice:    1000,
		StartHeight:   10,
		EndHeight:     10 + 10080,
		DecayRate:     0.5,
		DecayInterval: 30,
	}

	require.Equal(s.T(), 1000.0, auction.CurrentPrice(10))
	require.Equal(s.T(), 1000.0, auction.CurrentPrice(39))
	require.Equal(s.T(), 500.0, auction.CurrentPrice(40))
	require.Equal(s.T(), 250.0, auction.CurrentPrice(70))
	require.Equal(s.T(), 125.0, auction.CurrentPrice(100))
	require.Equal(s.T(), 100.0, auction.CurrentPrice(130))
	require.Equal(s.T(), 100.0, auction.CurrentPrice(1_000_000))
}

func (s *AuctionTestSuite) TestBeforeStart() {
	auction := AuctionParameters{FloorPrice: 1, StartPrice: 10, StartHeight: 100, DecayRate: 0.9, DecayInterval: 5}
	require.Equal(s.T(), 10.0, auction.CurrentPrice(0))
}

func (s *AuctionTestSuite) TestMonotonic() {
	rnd := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		floor := rnd.Float64() * 1000
		auction := AuctionParameters{
			FloorPrice:    floor,
			StartPrice:    floor * (1 + rnd.Float64()*50),
			StartHeight:   rnd.Int63n(1_000_000),
			DecayRate:     rnd.Float64(),
			DecayInterval: 1 + rnd.Int63n(100),
		}

		prev := auction.CurrentPrice(auction.StartHeight)
		require.LessOrEqual(s.T(), prev, auction.StartPrice)
		for h := auction.StartHeight; h < auction.StartHeight+2000; h += 1 + rnd.Int63n(20) {
			price := auction.CurrentPrice(h)
			require.LessOrEqual(s.T(), price, prev)
			require.GreaterOrEqual(s.T(), price, auction.FloorPrice)
			prev = price
		}
	}
}

func (s *AuctionTestSuite) TestIsLive() {
	auction := AuctionParameters{EndHeight: 100}
	require.True(s.T(), auction.IsLive(99))
	require.False(s.T(), auction.IsLive(100))
}
