package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	"github.com/mitchellh/mapstructure"
)

var (
	ErrInvalidInput    = errors.New("invalid interaction input")
	ErrUnknownFunction = errors.New("unknown contract function")
)

const (
	MinTtlSeconds     = 60
	MaxTtlSeconds     = 86400
	DefaultTtlSeconds = 900
)

var undernameRegex = regexp.MustCompile(`^(@|[a-zA-Z0-9][a-zA-Z0-9_-]{0,59}[a-zA-Z0-9]|[a-zA-Z0-9])$`)

// Input of a contract function. Every function has its own type.
type Input interface {
	Function() string
}

// Inputs that can be checked before anything is sent
type Validator interface {
	Validate() error
}

// Registry functions

type BuyRecord struct {
	Name string `json:"name"`

	// Id of the name token contract or AtomicFlag when the contract is deployed in the same transaction
	ContractTxId string           `json:"contractTxId"`
	Years        int              `json:"years,omitempty"`
	Type         RegistrationType `json:"type,omitempty"`
	Auction      bool             `json:"auction,omitempty"`
}

func (BuyRecord) Function() string { return "buyRecord" }

type ExtendLease struct {
	Name  string `json:"name"`
	Years int    `json:"years"`
}

func (ExtendLease) Function() string { return "extendLease" }

func (self ExtendLease) Validate() error {
	if self.Years < 1 {
		return fmt.Errorf("%w: lease must be extended by at least one year", ErrInvalidInput)
	}
	return nil
}

type IncreaseUndernameCount struct {
	Name string `json:"name"`
	Qty  int    `json:"qty"`
}

func (IncreaseUndernameCount) Function() string { return "increaseUndernameCount" }

type SubmitAuctionBid struct {
	Name         string           `json:"name"`
	ContractTxId string           `json:"contractTxId"`
	Qty          float64          `json:"qty,omitempty"`
	Type         RegistrationType `json:"type,omitempty"`
	Years        int              `json:"years,omitempty"`
}

func (SubmitAuctionBid) Function() string { return "submitAuctionBid" }

// Token transfer, used both by the registry (qty of tokens) and name tokens (ownership)
type Transfer struct {
	Target string  `json:"target"`
	Qty    float64 `json:"qty,omitempty"`
}

func (Transfer) Function() string { return "transfer" }

// Name token functions

type SetRecord struct {
	SubDomain     string `json:"subDomain"`
	TransactionId string `json:"transactionId"`
	TtlSeconds    int    `json:"ttlSeconds"`
}

func (SetRecord) Function() string { return "setRecord" }

func (self SetRecord) Validate() error {
	if !undernameRegex.MatchString(self.SubDomain) {
		return fmt.Errorf("%w: %q is not a valid undername", ErrInvalidInput, self.SubDomain)
	}
	if self.TtlSeconds < MinTtlSeconds {
		return fmt.Errorf("%w: %d is less than the minimum ttlSeconds requirement of %d", ErrInvalidInput, self.TtlSeconds, MinTtlSeconds)
	}
	if self.TtlSeconds > MaxTtlSeconds {
		return fmt.Errorf("%w: %d is more than the maximum ttlSeconds requirement of %d", ErrInvalidInput, self.TtlSeconds, MaxTtlSeconds)
	}
	return nil
}

type RemoveRecord struct {
	SubDomain string `json:"subDomain"`
}

func (RemoveRecord) Function() string { return "removeRecord" }

type SetName struct {
	Name string `json:"name"`
}

func (SetName) Function() string { return "setName" }

type SetTicker struct {
	Ticker string `json:"ticker"`
}

func (SetTicker) Function() string { return "setTicker" }

type SetController struct {
	Target string `json:"target"`
}

func (SetController) Function() string { return "setController" }

type RemoveController struct {
	Target string `json:"target"`
}

func (RemoveController) Function() string { return "removeController" }

// Function this package doesn't model. Kept so that stored interactions aren't lost.
type UnknownInput struct {
	Name   string
	Fields map[string]any
}

func (self UnknownInput) Function() string { return self.Name }

func (self UnknownInput) MarshalJSON() ([]byte, error) {
	return json.Marshal(self.Fields)
}

func newInput(function string) Input {
	switch function {
	case "buyRecord":
		return new(BuyRecord)
	case "extendLease":
		return new(ExtendLease)
	case "increaseUndernameCount":
		return new(IncreaseUndernameCount)
	case "submitAuctionBid":
		return new(SubmitAuctionBid)
	case "transfer":
		return new(Transfer)
	case "setRecord":
		return new(SetRecord)
	case "removeRecord":
		return new(RemoveRecord)
	case "setName":
		return new(SetName)
	case "setTicker":
		return new(SetTicker)
	case "setController":
		return new(SetController)
	case "removeController":
		return new(RemoveController)
	}
	return nil
}

// JSON object with all the fields of the input and the "function" discriminator
func EncodeInput(in Input) (out json.RawMessage, err error) {
	if in == nil {
		err = fmt.Errorf("%w: input is empty", ErrInvalidInput)
		return
	}

	buf, err := json.Marshal(in)
	if err != nil {
		return
	}

	fields := make(map[string]any)
	err = json.Unmarshal(buf, &fields)
	if err != nil {
		return
	}
	fields["function"] = in.Function()

	return json.Marshal(fields)
}

// Picks the input type from the "function" field
func DecodeInput(data []byte) (out Input, err error) {
	fields := make(map[string]any)
	err = json.Unmarshal(data, &fields)
	if err != nil {
		return
	}

	function, ok := fields["function"].(string)
	if !ok || function == "" {
		err = fmt.Errorf("%w: missing function name", ErrInvalidInput)
		return
	}

	target := newInput(function)
	if target == nil {
		delete(fields, "function")
		return UnknownInput{Name: function, Fields: fields}, nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           target,
	})
	if err != nil {
		return
	}

	delete(fields, "function")
	err = decoder.Decode(fields)
	if err != nil {
		return
	}

	// Dereference, inputs are passed around as values
	switch v := target.(type) {
	case *BuyRecord:
		out = *v
	case *ExtendLease:
		out = *v
	case *IncreaseUndernameCount:
		out = *v
	case *SubmitAuctionBid:
		out = *v
	case *Transfer:
		out = *v
	case *SetRecord:
		out = *v
	case *RemoveRecord:
		out = *v
	case *SetName:
		out = *v
	case *SetTicker:
		out = *v
	case *SetController:
		out = *v
	case *RemoveController:
		out = *v
	default:
		err = fmt.Errorf("%w: %s", ErrUnknownFunction, function)
	}
	return
}
