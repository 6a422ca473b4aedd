package arweave

import (
	"context"
	"math/big"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/warp-contracts/arns/src/utils/build_info"
	"github.com/warp-contracts/arns/src/utils/config"
	"github.com/warp-contracts/arns/src/utils/gql"
	"github.com/warp-contracts/arns/src/utils/logger"
	"github.com/warp-contracts/arns/src/utils/task"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Winstons in one AR
var winstonPerAr = big.NewFloat(1e12)

// Read-only client of an Arweave gateway.
// Every request waits for the rate limiter and is retried with exponential backoff when the gateway responds with 429.
type Client struct {
	client *resty.Client
	config *config.Arweave
	log    *logrus.Entry

	// State
	mtx     sync.Mutex
	limiter *rate.Limiter
}

func NewClient(config *config.Arweave) (self *Client) {
	self = new(Client)
	self.config = config
	self.log = logger.NewSublogger("arweave-client")

	self.limiter = rate.NewLimiter(rate.Every(config.LimiterInterval), config.LimiterBurstSize)

	self.client =
		resty.New().
			SetBaseURL(strings.TrimSuffix(config.NodeUrl, "/")).
			SetTimeout(config.RequestTimeout).
			SetHeader("User-Agent", "warp.cc/arns/"+build_info.Version).
			SetRetryCount(0).
			SetLogger(NewLogger("arweave")).
			SetTransport(self.createTransport()).
			OnBeforeRequest(self.onRateLimit).
			OnAfterResponse(self.onStatusToError)

	return
}

func (self *Client) createTransport() *http.Transport {
	dialer := &net.Dialer{
		Timeout:   self.config.DialerTimeout,
		KeepAlive: self.config.DialerKeepAlive,
	}

	return &http.Transport{
		// Some config options disable http2, try it anyway
		ForceAttemptHTTP2: true,

		DialContext:           dialer.DialContext,
		TLSHandshakeTimeout:   self.config.TLSHandshakeTimeout,
		ExpectContinueTimeout: 1 * time.Second,

		// arweave.net may sometimes stop responding on idle connections
		IdleConnTimeout:     self.config.IdleConnTimeout,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 10,
	}
}

func (self *Client) onStatusToError(c *resty.Client, resp *resty.Response) error {
	// Non-success status code turns into an error
	if resp.IsSuccess() {
		return nil
	}

	if resp.StatusCode() == http.StatusTooManyRequests {
		// Remote host receives too much requests, adjust rate limit
		self.decrementLimit()
	}

	if resp.StatusCode() > 399 && resp.StatusCode() < 500 {
		self.log.WithField("status", resp.StatusCode()).
			WithField("resp", string(resp.Body())).
			WithField("url", resp.Request.URL).
			Debug("Bad request")
	}

	return &StatusError{
		Code:   resp.StatusCode(),
		Status: resp.Status(),
		Url:    resp.Request.URL,
	}
}

func (self *Client) decrementLimit() {
	self.mtx.Lock()
	defer self.mtx.Unlock()

	self.log.WithField("limit", self.limiter.Limit()).Debug("Decreasing limit")

	self.limiter.SetLimit(self.limiter.Limit() * 0.9)
}

func (self *Client) onRateLimit(c *resty.Client, req *resty.Request) (err error) {
	// Blocks till the request is possible
	// Or ctx gets canceled
	err = self.limiter.Wait(req.Context())
	if err != nil {
		d, _ := req.Context().Deadline()
		self.log.WithField("deadline", time.Until(d)).WithError(err).Error("Rate limiting failed")
	}
	return
}

// Runs the request, retrying only rate limited responses
func (self *Client) execute(ctx context.Context, do func(req *resty.Request) (*resty.Response, error)) (resp *resty.Response, err error) {
	err = task.NewRetry().
		WithContext(ctx).
		WithInitialDelay(self.config.RetryInitialDelay).
		WithMaxAttempts(self.config.RetryMaxAttempts).
		WithShouldRetry(IsRateLimited).
		WithOnError(func(err error, attempt int) {
			self.log.WithError(err).WithField("attempt", attempt).Debug("Request failed")
		}).
		Run(func() (err error) {
			resp, err = do(self.client.R().SetContext(ctx))
			return
		})
	return
}

// https://docs.arweave.org/developers/server/http-api#network-info
func (self *Client) GetNetworkInfo(ctx context.Context) (out *NetworkInfo, err error) {
	resp, err := self.execute(ctx, func(req *resty.Request) (*resty.Response, error) {
		return req.
			ForceContentType("application/json").
			SetResult(&NetworkInfo{}).
			Get("/info")
	})
	if err != nil {
		return
	}

	out, ok := resp.Result().(*NetworkInfo)
	if !ok {
		err = ErrFailedToParse
		return
	}

	return
}

// https://docs.arweave.org/developers/server/http-api#get-transaction-by-id
func (self *Client) GetTransactionById(ctx context.Context, id TransactionID) (out *Transaction, err error) {
	resp, err := self.execute(ctx, func(req *resty.Request) (*resty.Response, error) {
		return req.
			ForceContentType("application/json").
			SetResult(&Transaction{}).
			SetPathParam("id", id.String()).
			Get("/tx/{id}")
	})
	if resp != nil && resp.StatusCode() == http.StatusAccepted {
		// Body is a plain text, not the expected JSON
		err = ErrPending
		return
	}
	if err != nil {
		return
	}

	out, ok := resp.Result().(*Transaction)
	if !ok {
		err = ErrFailedToParse
		return
	}

	return
}

// Returns ErrPending when the transaction is known, but not mined yet
func (self *Client) GetTransactionStatus(ctx context.Context, id TransactionID) (out *TransactionStatus, err error) {
	resp, err := self.execute(ctx, func(req *resty.Request) (*resty.Response, error) {
		return req.
			ForceContentType("application/json").
			SetResult(&TransactionStatus{}).
			SetPathParam("id", id.String()).
			Get("/tx/{id}/status")
	})
	if resp != nil && resp.StatusCode() == http.StatusAccepted {
		// Body is a plain text, not the expected JSON
		err = ErrPending
		return
	}
	if err != nil {
		return
	}

	out, ok := resp.Result().(*TransactionStatus)
	if !ok {
		err = ErrFailedToParse
		return
	}

	return
}

func (self *Client) GetTransactionTags(ctx context.Context, id TransactionID) (out []Tag, err error) {
	resp, err := self.execute(ctx, func(req *resty.Request) (*resty.Response, error) {
		return req.
			ForceContentType("application/json").
			SetResult([]Tag{}).
			SetPathParam("id", id.String()).
			Get("/tx/{id}/tags")
	})
	if err != nil {
		return
	}

	tags, ok := resp.Result().(*[]Tag)
	if !ok {
		err = ErrFailedToParse
		return
	}

	return *tags, nil
}

// Balance of the wallet in AR
func (self *Client) GetWalletBalance(ctx context.Context, address TransactionID) (out float64, err error) {
	resp, err := self.execute(ctx, func(req *resty.Request) (*resty.Response, error) {
		return req.
			SetPathParam("address", address.String()).
			Get("/wallet/{address}/balance")
	})
	if err != nil {
		return
	}

	winston, ok := new(big.Float).SetString(strings.TrimSpace(string(resp.Body())))
	if !ok {
		err = ErrFailedToParse
		return
	}

	out, _ = new(big.Float).Quo(winston, winstonPerAr).Float64()
	return
}

// Runs one GraphQL query against the gateway
func (self *Client) Query(ctx context.Context, query gql.Query) (out *gql.Response, err error) {
	resp, err := self.execute(ctx, func(req *resty.Request) (*resty.Response, error) {
		return req.
			ForceContentType("application/json").
			SetHeader("Content-Type", "application/json").
			SetBody(query).
			SetResult(&gql.Response{}).
			Post("/graphql")
	})
	if err != nil {
		return
	}

	out, ok := resp.Result().(*gql.Response)
	if !ok {
		err = ErrFailedToParse
		return
	}

	err = out.Err()
	return
}
