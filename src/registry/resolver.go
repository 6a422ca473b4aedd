package registry

import (
	"context"
	"fmt"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/warp-contracts/arns/src/state"
	"github.com/warp-contracts/arns/src/utils/arweave"
	"github.com/warp-contracts/arns/src/utils/config"
	"github.com/warp-contracts/arns/src/utils/logger"
	"github.com/warp-contracts/arns/src/utils/model"

	"github.com/sirupsen/logrus"
	"golang.org/x/exp/maps"
)

// Source of the current block height. Implemented by ledger.Reader.
type HeightSource interface {
	GetCurrentHeight(ctx context.Context) (int64, error)
}

// Pending interactions of a wallet. Implemented by pending.Store.
type PendingSource interface {
	Get(ctx context.Context, key string) ([]model.ContractInteraction, error)
}

type Reservation struct {
	IsReserved  bool   `json:"isReserved"`
	ReservedFor string `json:"reservedFor,omitempty"`
}

type FeeRequest struct {
	Domain string
	Type   model.RegistrationType
	Years  int

	// Added to the base fee
	TierFee float64
}

// Answers questions about names using the registry state.
// Never writes to the state cache nor to the pending store.
type Resolver struct {
	log        *logrus.Entry
	config     *config.Registry
	registryId arweave.TransactionID

	states  *state.Cache
	heights HeightSource
	pending PendingSource
	now     func() time.Time
}

func NewResolver(config *config.Config, states *state.Cache) (self *Resolver, err error) {
	self = new(Resolver)
	self.log = logger.NewSublogger("resolver")
	self.config = &config.Registry
	self.states = states
	self.now = time.Now

	self.registryId, err = arweave.NewTransactionID(config.Registry.ContractId)
	if err != nil {
		return nil, err
	}
	return
}

func (self *Resolver) WithHeightSource(heights HeightSource) *Resolver {
	self.heights = heights
	return self
}

func (self *Resolver) WithPendingSource(pending PendingSource) *Resolver {
	self.pending = pending
	return self
}

// Overrides the clock, used in tests
func (self *Resolver) WithClock(now func() time.Time) *Resolver {
	self.now = now
	return self
}

func (self *Resolver) RegistryId() arweave.TransactionID {
	return self.registryId
}

func (self *Resolver) State(ctx context.Context) (*model.RegistryState, error) {
	return state.Get[model.RegistryState](ctx, self.states, self.registryId)
}

func (self *Resolver) currentHeight(ctx context.Context) (int64, error) {
	if self.heights == nil {
		return 0, fmt.Errorf("no height source configured")
	}
	return self.heights.GetCurrentHeight(ctx)
}

func (self *Resolver) IsAvailable(ctx context.Context, domain string) (bool, error) {
	registry, err := self.State(ctx)
	if err != nil {
		return false, err
	}
	_, taken := registry.Records[Normalize(domain)]
	return !taken, nil
}

func (self *Resolver) isReserved(registry *model.RegistryState, domain string) (out Reservation) {
	reserved, ok := registry.Reserved[Normalize(domain)]
	if !ok {
		return
	}

	// Reservation without an end never expires
	if reserved.EndTimestamp != 0 && reserved.EndTimestamp <= self.now().Unix() {
		return
	}

	return Reservation{IsReserved: true, ReservedFor: reserved.Target}
}

func (self *Resolver) IsReserved(ctx context.Context, domain string) (out Reservation, err error) {
	registry, err := self.State(ctx)
	if err != nil {
		return
	}
	return self.isReserved(registry, domain), nil
}

func (self *Resolver) liveAuction(registry *model.RegistryState, domain string, height int64) (*model.AuctionParameters, bool) {
	auction, ok := registry.Auctions[Normalize(domain)]
	if !ok || !auction.IsLive(height) {
		return nil, false
	}
	return &auction, true
}

func (self *Resolver) IsInAuction(ctx context.Context, domain string) (bool, error) {
	registry, err := self.State(ctx)
	if err != nil {
		return false, err
	}

	height, err := self.currentHeight(ctx)
	if err != nil {
		return false, err
	}

	_, live := self.liveAuction(registry, domain, height)
	return live, nil
}

// Price of the running auction at the given height
func (self *Resolver) GetAuctionPrice(ctx context.Context, domain string, atHeight int64) (float64, error) {
	registry, err := self.State(ctx)
	if err != nil {
		return 0, err
	}

	auction, ok := registry.Auctions[Normalize(domain)]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrNoAuction, domain)
	}
	return auction.CurrentPrice(atHeight), nil
}

// Running auction of the name or the parameters of an auction that would start now.
// The flag tells if the auction is already running.
func (self *Resolver) GetAuction(ctx context.Context, domain string, registrationType model.RegistrationType, years int) (out *model.AuctionParameters, live bool, err error) {
	domain = Normalize(domain)

	registry, err := self.State(ctx)
	if err != nil {
		return
	}

	height, err := self.currentHeight(ctx)
	if err != nil {
		return
	}

	out, live = self.liveAuction(registry, domain, height)
	if live {
		return
	}

	settings := registry.Settings.Auctions.Active()
	if settings == nil {
		err = ErrNoSettings
		return
	}

	fee, err := self.ComputeRegistrationFee(FeeRequest{Domain: domain, Type: registrationType, Years: years}, registry.Fees)
	if err != nil {
		return
	}

	floorPrice := fee * settings.FloorPriceMultiplier
	out = &model.AuctionParameters{
		FloorPrice:    floorPrice,
		StartPrice:    floorPrice * settings.StartPriceMultiplier,
		StartHeight:   height,
		EndHeight:     height + settings.AuctionDuration,
		DecayRate:     settings.DecayRate,
		DecayInterval: settings.DecayInterval,
		Type:          registrationType,
		Years:         years,
	}
	return
}

// Base fee for the name's length multiplied by the lease years.
// Permanent registration uses a fixed multiplier instead.
func (self *Resolver) ComputeRegistrationFee(req FeeRequest, fees map[string]float64) (out float64, err error) {
	name := Normalize(req.Domain)
	err = ValidateName(name)
	if err != nil {
		return
	}

	length := utf8.RuneCountInString(name)
	base, ok := fees[strconv.Itoa(length)]
	if !ok {
		err = fmt.Errorf("%w: %d characters", ErrUnknownFeeTier, length)
		return
	}
	base += req.TierFee

	switch req.Type {
	case model.RegistrationTypePermabuy:
		return base * self.config.PermabuyMultiplier, nil
	case model.RegistrationTypeLease, "":
		if req.Years < self.config.MinLeaseYears || req.Years > self.config.MaxLeaseYears {
			err = fmt.Errorf("%w: %d years, allowed %d-%d", ErrInvalidYears, req.Years, self.config.MinLeaseYears, self.config.MaxLeaseYears)
			return
		}
		return base * float64(req.Years), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidType, req.Type)
}

func (self *Resolver) IsDomainAuctionable(ctx context.Context, domain string, registrationType model.RegistrationType) (bool, error) {
	registry, err := self.State(ctx)
	if err != nil {
		return false, err
	}
	return IsDomainAuctionable(Normalize(domain), registrationType, maps.Keys(registry.Reserved), self.config.AuctionableNameLength), nil
}

func (self *Resolver) GetRecord(ctx context.Context, domain string) (out *model.Record, ok bool, err error) {
	registry, err := self.State(ctx)
	if err != nil {
		return
	}

	record, ok := registry.Records[Normalize(domain)]
	if !ok {
		return
	}
	return &record, true, nil
}

// Records for which the filter returns true. Nil filter matches everything.
func (self *Resolver) GetRecords(ctx context.Context, filter func(name string, record *model.Record) bool) (out map[string]model.Record, err error) {
	registry, err := self.State(ctx)
	if err != nil {
		return
	}

	out = make(map[string]model.Record)
	for name, record := range registry.Records {
		record := record
		if filter == nil || filter(name, &record) {
			out[name] = record
		}
	}
	return
}
