package interact

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/warp-contracts/arns/src/utils/arweave"
	"github.com/warp-contracts/arns/src/utils/build_info"
	"github.com/warp-contracts/arns/src/utils/config"
	"github.com/warp-contracts/arns/src/utils/logger"
	"github.com/warp-contracts/arns/src/utils/smartweave"
	"github.com/warp-contracts/arns/src/utils/task"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// Result of evaluating an interaction without committing it
type DryRunResult struct {
	// Nil when the evaluator didn't report validity
	Valid *bool `json:"valid,omitempty"`

	// Error messages keyed by the name of the evaluated contract
	ErrorMessages map[string]string `json:"errorMessages,omitempty"`
	ErrorMessage  string            `json:"errorMessage,omitempty"`
}

func (self *DryRunResult) IsInvalid() bool {
	return self != nil && self.Valid != nil && !*self.Valid
}

// Boundary to the subsystem that evaluates, signs and posts transactions.
// An empty id with a nil error means the write produced no result.
type Writer interface {
	DryWrite(ctx context.Context, wallet, contractId arweave.TransactionID, input json.RawMessage) (*DryRunResult, error)
	WriteInteraction(ctx context.Context, wallet, contractId arweave.TransactionID, input json.RawMessage, tags smartweave.Tags) (txId string, err error)
	Deploy(ctx context.Context, wallet, srcTxId arweave.TransactionID, initState json.RawMessage, tags smartweave.Tags) (contractTxId string, err error)
}

type dryWriteRequest struct {
	Wallet       string          `json:"wallet"`
	ContractTxId string          `json:"contractTxId"`
	Input        json.RawMessage `json:"input"`
}

type writeRequest struct {
	Wallet       string          `json:"wallet"`
	ContractTxId string          `json:"contractTxId"`
	Input        json.RawMessage `json:"input"`
	Tags         smartweave.Tags `json:"tags,omitempty"`
}

type writeResponse struct {
	OriginalTxId string `json:"originalTxId"`
}

type deployRequest struct {
	Wallet    string          `json:"wallet"`
	SrcTxId   string          `json:"srcTxId"`
	InitState string          `json:"initState"`
	Tags      smartweave.Tags `json:"tags,omitempty"`
}

type deployResponse struct {
	ContractTxId string `json:"contractTxId"`
}

// Writer that delegates to an external signing service.
// Requests rejected with 429 are retried, any other failure is returned right away.
type HTTPWriter struct {
	log    *logrus.Entry
	config *config.Signer
	client *resty.Client
}

func NewHTTPWriter(config *config.Config) (self *HTTPWriter) {
	self = new(HTTPWriter)
	self.log = logger.NewSublogger("http-writer")
	self.config = &config.Signer

	self.client = resty.New().
		SetBaseURL(strings.TrimSuffix(config.Signer.Url, "/")).
		SetTimeout(config.Signer.RequestTimeout).
		SetHeader("User-Agent", "warp.cc/arns/"+build_info.Version).
		SetHeader("Content-Type", "application/json").
		SetRetryCount(0).
		SetLogger(arweave.NewLogger("signer"))

	if config.Signer.ApiKey != "" {
		self.client.SetHeader("X-Api-Key", config.Signer.ApiKey)
	}
	return
}

func isRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

func (self *HTTPWriter) post(ctx context.Context, path string, body, result any) (err error) {
	return task.NewRetry().
		WithContext(ctx).
		WithInitialDelay(self.config.RetryInitialDelay).
		WithMaxAttempts(self.config.RetryMaxAttempts).
		WithShouldRetry(isRateLimited).
		WithOnError(func(err error, attempt int) {
			self.log.WithError(err).WithField("path", path).WithField("attempt", attempt).Debug("Signer request failed")
		}).
		Run(func() error {
			return self.send(ctx, path, body, result)
		})
}

func (self *HTTPWriter) send(ctx context.Context, path string, body, result any) (err error) {
	resp, err := self.client.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(result).
		ForceContentType("application/json").
		Post(path)
	if err != nil {
		return
	}

	switch {
	case resp.StatusCode() == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", ErrRateLimited, path)
	case !resp.IsSuccess():
		self.log.WithField("path", path).WithField("status", resp.StatusCode()).Debug("Signer refused the request")
		return fmt.Errorf("%w: %s %s", ErrBadResponse, path, resp.Status())
	}
	return nil
}

func (self *HTTPWriter) DryWrite(ctx context.Context, wallet, contractId arweave.TransactionID, input json.RawMessage) (out *DryRunResult, err error) {
	out = new(DryRunResult)
	err = self.post(ctx, "/dry-write", dryWriteRequest{
		Wallet:       wallet.String(),
		ContractTxId: contractId.String(),
		Input:        input,
	}, out)
	if err != nil {
		return nil, err
	}
	return
}

func (self *HTTPWriter) WriteInteraction(ctx context.Context, wallet, contractId arweave.TransactionID, input json.RawMessage, tags smartweave.Tags) (txId string, err error) {
	var out writeResponse
	err = self.post(ctx, "/write", writeRequest{
		Wallet:       wallet.String(),
		ContractTxId: contractId.String(),
		Input:        input,
		Tags:         tags,
	}, &out)
	if err != nil {
		return
	}
	return out.OriginalTxId, nil
}

func (self *HTTPWriter) Deploy(ctx context.Context, wallet, srcTxId arweave.TransactionID, initState json.RawMessage, tags smartweave.Tags) (contractTxId string, err error) {
	var out deployResponse
	err = self.post(ctx, "/deploy", deployRequest{
		Wallet:    wallet.String(),
		SrcTxId:   srcTxId.String(),
		InitState: string(initState),
		Tags:      tags,
	}, &out)
	if err != nil {
		return
	}
	return out.ContractTxId, nil
}
