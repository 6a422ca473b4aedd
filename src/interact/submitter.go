package interact

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/warp-contracts/arns/src/registry"
	"github.com/warp-contracts/arns/src/utils/arweave"
	"github.com/warp-contracts/arns/src/utils/config"
	"github.com/warp-contracts/arns/src/utils/logger"
	"github.com/warp-contracts/arns/src/utils/model"
	"github.com/warp-contracts/arns/src/utils/monitoring"
	monitor_arns "github.com/warp-contracts/arns/src/utils/monitoring/arns"
	"github.com/warp-contracts/arns/src/utils/smartweave"
	"github.com/warp-contracts/arns/src/utils/task"

	"github.com/rs/xid"
	"github.com/sirupsen/logrus"
)

type State string

const (
	StateBuilding      State = "building"
	StateDryValidating State = "dry-validating"
	StateSubmitting    State = "submitting"
	StateRecorded      State = "recorded"
	StateRejected      State = "rejected"
)

// Where successful writes are recorded. Implemented by pending.Store.
type Recorder interface {
	Push(ctx context.Context, key string, interaction model.ContractInteraction) error
}

type Request struct {
	Wallet     arweave.TransactionID
	ContractId arweave.TransactionID
	Input      model.Input

	// Nil means the configured default
	DryRun *bool

	Tags smartweave.Tags
}

type DeployRequest struct {
	Wallet    arweave.TransactionID
	SrcTxId   arweave.TransactionID
	InitState json.RawMessage

	// May embed an interaction (Contract and Input tags)
	Tags smartweave.Tags

	// Generated when empty
	CorrelationId string
}

type AtomicRequest struct {
	Wallet     arweave.TransactionID
	RegistryId arweave.TransactionID

	// Defaults to the first approved name token source
	SourceId arweave.TransactionID

	Domain       string
	Type         model.RegistrationType
	Years        int
	ReservedList []string

	// Defaults to model.NewAtomicState
	InitialState json.RawMessage
}

// Validates interactions, sends them and records them locally once they're accepted
type Submitter struct {
	log      *logrus.Entry
	config   *config.Submitter
	registry *config.Registry
	writer   Writer
	recorder Recorder
	monitor  monitoring.Monitor

	mtx           sync.RWMutex
	onStateChange func(correlationId string, state State)
}

func NewSubmitter(config *config.Config) (self *Submitter) {
	self = new(Submitter)
	self.log = logger.NewSublogger("submitter")
	self.config = &config.Submitter
	self.registry = &config.Registry
	self.monitor = monitor_arns.NewMonitor()
	return
}

func (self *Submitter) WithWriter(writer Writer) *Submitter {
	self.writer = writer
	return self
}

func (self *Submitter) WithRecorder(recorder Recorder) *Submitter {
	self.recorder = recorder
	return self
}

func (self *Submitter) WithMonitor(monitor monitoring.Monitor) *Submitter {
	self.monitor = monitor
	return self
}

// Called on every transition of a submission
func (self *Submitter) WithOnStateChange(f func(correlationId string, state State)) *Submitter {
	self.mtx.Lock()
	defer self.mtx.Unlock()
	self.onStateChange = f
	return self
}

func (self *Submitter) setState(correlationId string, state State) {
	self.log.WithField("correlation_id", correlationId).WithField("state", state).Trace("Submission state")

	self.mtx.RLock()
	f := self.onStateChange
	self.mtx.RUnlock()

	if f != nil {
		f(correlationId, state)
	}
}

// Serialized input. Checks that don't need the network.
func (self *Submitter) encode(in model.Input) (out json.RawMessage, err error) {
	if in == nil {
		err = ErrEmptyPayload
		return
	}

	if validator, ok := in.(model.Validator); ok {
		err = validator.Validate()
		if err != nil {
			return
		}
	}

	out, err = model.EncodeInput(in)
	if err != nil {
		return
	}

	if len(out) > self.config.MaxPayloadBytes {
		err = fmt.Errorf("%w: %d bytes, limit is %d", ErrPayloadTooLarge, len(out), self.config.MaxPayloadBytes)
		return
	}
	return
}

func (self *Submitter) maxTagBytes() int {
	if self.config.MaxTagBytes <= 0 {
		return smartweave.MaxTagSpace
	}
	return self.config.MaxTagBytes
}

// Protocol tags of the interaction followed by the caller's tags.
// The whole set has to fit in the tag budget of a transaction.
func (self *Submitter) interactionTags(contractId arweave.TransactionID, input json.RawMessage, extra smartweave.Tags) (out smartweave.Tags, err error) {
	out, err = smartweave.BuildInteractionTags(contractId, input)
	if err != nil {
		return
	}
	out = out.Append(extra...)

	if size := out.Size(); size > self.maxTagBytes() {
		err = fmt.Errorf("%w: tags take %d bytes, limit is %d", ErrPayloadTooLarge, size, self.maxTagBytes())
		return
	}

	err = smartweave.ValidateInteractionTags(out, self.maxTagBytes())
	return
}

func (self *Submitter) dryRun(ctx context.Context, wallet, contractId arweave.TransactionID, input json.RawMessage) (err error) {
	result, err := self.writer.DryWrite(ctx, wallet, contractId, input)
	if err != nil {
		return
	}

	if result.IsInvalid() {
		self.monitor.GetReport().Submitter.Errors.Rejected.Inc()
		return &RejectedError{
			Messages:     result.ErrorMessages,
			ErrorMessage: result.ErrorMessage,
		}
	}
	return nil
}

// Rate limits are already retried by the writer
func isRetryable(err error) bool {
	return errors.Is(err, ErrNoResult)
}

// Repeats the write until it returns a transaction id
func (self *Submitter) write(ctx context.Context, req *Request, input json.RawMessage) (out arweave.TransactionID, err error) {
	err = task.NewRetry().
		WithContext(ctx).
		WithInitialDelay(self.config.WriteInitialDelay).
		WithMaxAttempts(self.config.WriteMaxAttempts).
		WithShouldRetry(isRetryable).
		WithOnError(func(err error, attempt int) {
			if !isRetryable(err) {
				return
			}
			self.monitor.GetReport().Submitter.State.WriteRetries.Inc()
			self.log.WithError(err).WithField("attempt", attempt).Debug("Write interaction failed, retrying")
		}).
		Run(func() error {
			txId, err := self.writer.WriteInteraction(ctx, req.Wallet, req.ContractId, input, req.Tags)
			if err != nil {
				return err
			}
			if txId == "" {
				return ErrNoResult
			}

			out, err = arweave.NewTransactionID(txId)
			if err != nil {
				return task.Permanent(err)
			}
			return nil
		})
	return
}

// Store failures don't fail the submission, the entry is only advisory
func (self *Submitter) record(ctx context.Context, key string, interaction model.ContractInteraction) {
	if self.recorder == nil {
		return
	}

	err := self.recorder.Push(ctx, key, interaction)
	if err != nil {
		self.monitor.GetReport().Submitter.Errors.RecordErrors.Inc()
		self.log.WithError(err).WithField("id", interaction.Id).Error("Failed to record pending interaction")
	}
}

func (self *Submitter) isDryRun(v *bool) bool {
	if v == nil {
		return self.config.DryRun
	}
	return *v
}

// Sends the interaction and records it under the wallet's key.
// Nothing is recorded if any step fails.
func (self *Submitter) Submit(ctx context.Context, req Request) (out arweave.TransactionID, err error) {
	correlationId := xid.New().String()
	self.setState(correlationId, StateBuilding)
	defer func() {
		if err != nil {
			self.setState(correlationId, StateRejected)
		}
	}()

	input, err := self.encode(req.Input)
	if err != nil {
		self.monitor.GetReport().Submitter.Errors.ValidationErrors.Inc()
		return
	}

	_, err = self.interactionTags(req.ContractId, input, req.Tags)
	if err != nil {
		self.monitor.GetReport().Submitter.Errors.ValidationErrors.Inc()
		return
	}

	var valid *bool
	if self.isDryRun(req.DryRun) {
		self.setState(correlationId, StateDryValidating)
		err = self.dryRun(ctx, req.Wallet, req.ContractId, input)
		if err != nil {
			return
		}
		valid = new(bool)
		*valid = true
	}

	self.setState(correlationId, StateSubmitting)
	out, err = self.write(ctx, &req, input)
	if err != nil {
		self.monitor.GetReport().Submitter.Errors.WriteErrors.Inc()
		return
	}

	self.monitor.GetReport().Submitter.State.Submitted.Inc()
	self.log.WithField("id", out).WithField("contract_id", req.ContractId).WithField("function", req.Input.Function()).Info("Interaction submitted")

	self.record(ctx, req.Wallet.String(), model.ContractInteraction{
		Id:            out,
		ContractTxId:  req.ContractId,
		Deployer:      req.Wallet,
		Type:          model.InteractionTypeInteraction,
		Payload:       req.Input,
		Valid:         valid,
		CorrelationId: correlationId,
	})

	self.setState(correlationId, StateRecorded)
	return
}

// Deploys a contract from a source transaction and records the deployment.
// If the tags embed an interaction it's recorded as well.
func (self *Submitter) DeployContract(ctx context.Context, req DeployRequest) (out arweave.TransactionID, err error) {
	correlationId := req.CorrelationId
	if correlationId == "" {
		correlationId = xid.New().String()
	}
	self.setState(correlationId, StateBuilding)
	defer func() {
		if err != nil {
			self.setState(correlationId, StateRejected)
		}
	}()

	if size := req.Tags.Size(); size > self.maxTagBytes() {
		self.monitor.GetReport().Submitter.Errors.ValidationErrors.Inc()
		err = fmt.Errorf("%w: %d bytes, limit is %d", ErrTagsTooLarge, size, self.maxTagBytes())
		return
	}

	if len(req.InitState) == 0 || !json.Valid(req.InitState) {
		self.monitor.GetReport().Submitter.Errors.ValidationErrors.Inc()
		err = ErrMissingInitialState
		return
	}

	var embedded *model.ContractInteraction
	if len(req.Tags) > 0 {
		err = smartweave.ValidateInteractionTags(req.Tags, self.maxTagBytes())
		if err != nil {
			self.monitor.GetReport().Submitter.Errors.ValidationErrors.Inc()
			err = fmt.Errorf("%w: %w", ErrAtomicRegistration, err)
			return
		}

		contractId, rawInput, ok := smartweave.ParseInteraction(req.Tags)
		if !ok {
			self.monitor.GetReport().Submitter.Errors.ValidationErrors.Inc()
			err = fmt.Errorf("%w: missing interaction info in tags", ErrAtomicRegistration)
			return
		}

		var input model.Input
		input, err = model.DecodeInput(rawInput)
		if err != nil {
			self.monitor.GetReport().Submitter.Errors.ValidationErrors.Inc()
			return
		}

		embedded = &model.ContractInteraction{
			ContractTxId:  contractId,
			Deployer:      req.Wallet,
			Type:          model.InteractionTypeInteraction,
			Payload:       input,
			CorrelationId: correlationId,
		}
	}

	self.setState(correlationId, StateSubmitting)
	contractTxId, err := self.writer.Deploy(ctx, req.Wallet, req.SrcTxId, req.InitState, req.Tags)
	if err != nil {
		self.monitor.GetReport().Submitter.Errors.WriteErrors.Inc()
		return
	}
	if contractTxId == "" {
		self.monitor.GetReport().Submitter.Errors.WriteErrors.Inc()
		err = fmt.Errorf("%w: deploy returned no contract id", ErrNoResult)
		return
	}

	out, err = arweave.NewTransactionID(contractTxId)
	if err != nil {
		self.monitor.GetReport().Submitter.Errors.WriteErrors.Inc()
		return
	}

	self.monitor.GetReport().Submitter.State.Deployed.Inc()
	self.log.WithField("contract_id", out).WithField("src_tx_id", req.SrcTxId).Info("Contract deployed")

	self.record(ctx, req.Wallet.String(), model.ContractInteraction{
		Id:           out,
		ContractTxId: out,
		Deployer:     req.Wallet,
		Type:         model.InteractionTypeDeploy,
		Payload: model.Deployment{
			SrcTxId:   req.SrcTxId.String(),
			InitState: req.InitState,
			Tags:      req.Tags.ToMap(),
		},
		CorrelationId: correlationId,
	})

	if embedded != nil {
		// The interaction is a part of the deployment transaction
		embedded.Id = out
		self.record(ctx, req.Wallet.String(), *embedded)
	}

	self.setState(correlationId, StateRecorded)
	return
}

// Deploys a name token contract and registers it in the registry with a single transaction.
// Returns the id of the new contract.
func (self *Submitter) RegisterAtomically(ctx context.Context, req AtomicRequest) (out arweave.TransactionID, err error) {
	if req.Domain == "" {
		self.monitor.GetReport().Submitter.Errors.ValidationErrors.Inc()
		err = fmt.Errorf("%w: no domain provided", ErrAtomicRegistration)
		return
	}

	srcTxId := req.SourceId
	if srcTxId.IsZero() {
		if len(self.registry.AntSourceIds) == 0 {
			err = fmt.Errorf("%w: no name token source configured", ErrAtomicRegistration)
			return
		}
		srcTxId, err = arweave.NewTransactionID(self.registry.AntSourceIds[0])
		if err != nil {
			return
		}
	}

	input, err := self.encode(model.BuyRecord{
		Name:         req.Domain,
		ContractTxId: model.AtomicFlag,
		Years:        req.Years,
		Type:         req.Type,
		Auction:      registry.IsDomainAuctionable(req.Domain, req.Type, req.ReservedList, self.registry.AuctionableNameLength),
	})
	if err != nil {
		self.monitor.GetReport().Submitter.Errors.ValidationErrors.Inc()
		return
	}

	tags, err := smartweave.BuildInteractionTags(req.RegistryId, input)
	if err != nil {
		return
	}

	// The registry has to accept the purchase, otherwise the deployment is wasted
	err = self.dryRun(ctx, req.Wallet, req.RegistryId, input)
	if err != nil {
		return
	}

	initState := req.InitialState
	if len(initState) == 0 {
		initState = model.NewAtomicState(req.Domain, req.Wallet.String())
	}

	out, err = self.DeployContract(ctx, DeployRequest{
		Wallet:        req.Wallet,
		SrcTxId:       srcTxId,
		InitState:     initState,
		Tags:          tags,
		CorrelationId: xid.New().String(),
	})
	if err != nil {
		if errors.Is(err, ErrNoResult) {
			err = fmt.Errorf("%w: %w", ErrAtomicRegistration, err)
		}
		return
	}

	self.monitor.GetReport().Submitter.State.AtomicRegistrations.Inc()
	self.log.WithField("domain", req.Domain).WithField("contract_id", out).Info("Name registered atomically")
	return
}
