package model

import (
	"encoding/json"
	"fmt"

	"github.com/warp-contracts/arns/src/utils/arweave"
)

type InteractionType string

const (
	InteractionTypeInteraction InteractionType = "interaction"
	InteractionTypeDeploy      InteractionType = "deploy"
)

// Locally recorded interaction that may not be mined yet
type ContractInteraction struct {
	Id           arweave.TransactionID
	ContractTxId arweave.TransactionID

	// Wallet that sent the interaction or deployed the contract
	Deployer arweave.TransactionID
	Type     InteractionType

	// Input of the function for interactions, Deployment for deploys
	Payload Input

	// Unix milliseconds, set when the interaction is stored. Zero means unknown.
	Timestamp int64

	// Result of the dry run, nil if it wasn't evaluated
	Valid *bool

	// Shared by rows created by a single logical operation
	CorrelationId string
}

type contractInteractionJSON struct {
	Id            string          `json:"id"`
	ContractTxId  string          `json:"contractTxId,omitempty"`
	Deployer      string          `json:"deployer,omitempty"`
	Type          InteractionType `json:"type"`
	Payload       json.RawMessage `json:"payload,omitempty"`
	Timestamp     int64           `json:"timestamp,omitempty"`
	Valid         *bool           `json:"valid,omitempty"`
	CorrelationId string          `json:"correlationId,omitempty"`
}

func (self ContractInteraction) MarshalJSON() ([]byte, error) {
	out := contractInteractionJSON{
		Id:            self.Id.String(),
		ContractTxId:  self.ContractTxId.String(),
		Deployer:      self.Deployer.String(),
		Type:          self.Type,
		Timestamp:     self.Timestamp,
		Valid:         self.Valid,
		CorrelationId: self.CorrelationId,
	}

	var err error
	switch payload := self.Payload.(type) {
	case nil:
	case Deployment, *Deployment:
		out.Payload, err = json.Marshal(payload)
	default:
		out.Payload, err = EncodeInput(payload)
	}
	if err != nil {
		return nil, err
	}

	return json.Marshal(out)
}

func (self *ContractInteraction) UnmarshalJSON(data []byte) (err error) {
	var in contractInteractionJSON
	err = json.Unmarshal(data, &in)
	if err != nil {
		return
	}

	self.Id, err = parseOptionalId(in.Id)
	if err != nil {
		return
	}
	self.ContractTxId, err = parseOptionalId(in.ContractTxId)
	if err != nil {
		return
	}
	self.Deployer, err = parseOptionalId(in.Deployer)
	if err != nil {
		return
	}

	self.Type = in.Type
	self.Timestamp = in.Timestamp
	self.Valid = in.Valid
	self.CorrelationId = in.CorrelationId
	self.Payload = nil

	if len(in.Payload) == 0 || string(in.Payload) == "null" {
		return
	}

	switch in.Type {
	case InteractionTypeDeploy:
		var deployment Deployment
		err = json.Unmarshal(in.Payload, &deployment)
		self.Payload = deployment
	case InteractionTypeInteraction:
		self.Payload, err = DecodeInput(in.Payload)
	default:
		err = fmt.Errorf("%w: unknown interaction type %q", ErrInvalidInput, in.Type)
	}
	return
}

func parseOptionalId(raw string) (out arweave.TransactionID, err error) {
	if raw == "" {
		return
	}
	return arweave.NewTransactionID(raw)
}

func (self *ContractInteraction) IsDeploy() bool {
	return self.Type == InteractionTypeDeploy
}

func (self *ContractInteraction) Function() string {
	if self.Payload == nil {
		return ""
	}
	return self.Payload.Function()
}
