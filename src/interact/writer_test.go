package interact

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/warp-contracts/arns/src/utils/arweave"
	"github.com/warp-contracts/arns/src/utils/config"
	"github.com/warp-contracts/arns/src/utils/smartweave"
	"github.com/warp-contracts/arns/src/utils/task"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/atomic"
)

func TestHTTPWriterTestSuite(t *testing.T) {
	suite.Run(t, new(HTTPWriterTestSuite))
}

type HTTPWriterTestSuite struct {
	suite.Suite
	ctx    context.Context
	cancel context.CancelFunc
	server *httptest.Server
	writer *HTTPWriter

	apiKeys []string
	bodies  map[string]map[string]any
	deploys *atomic.Int32
	broken  *atomic.Int32
}

func (s *HTTPWriterTestSuite) SetupTest() {
	s.ctx, s.cancel = context.WithTimeout(context.Background(), 10*time.Second)
	s.bodies = make(map[string]map[string]any)
	s.apiKeys = nil
	s.deploys = atomic.NewInt32(0)
	s.broken = atomic.NewInt32(0)

	mux := http.NewServeMux()
	record := func(r *http.Request) {
		s.apiKeys = append(s.apiKeys, r.Header.Get("X-Api-Key"))
		body := make(map[string]any)
		_ = json.NewDecoder(r.Body).Decode(&body)
		s.bodies[r.URL.Path] = body
	}
	mux.HandleFunc("/dry-write", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"valid":false,"errorMessages":{"registry":"Name is already registered"}}`)
	})
	mux.HandleFunc("/write", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"originalTxId":%q}`, txId)
	})
	mux.HandleFunc("/deploy", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		if s.deploys.Inc() < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"contractTxId":%q}`, deployedId)
	})
	mux.HandleFunc("/limited/dry-write", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	mux.HandleFunc("/broken/dry-write", func(w http.ResponseWriter, r *http.Request) {
		s.broken.Inc()
		w.WriteHeader(http.StatusInternalServerError)
	})
	s.server = httptest.NewServer(mux)

	conf := config.Default()
	conf.Signer.Url = s.server.URL + "/"
	conf.Signer.ApiKey = "secret"
	conf.Signer.RetryInitialDelay = time.Millisecond
	conf.Signer.RetryMaxAttempts = 4
	s.writer = NewHTTPWriter(conf)
}

func (s *HTTPWriterTestSuite) TearDownTest() {
	s.server.Close()
	s.cancel()
}

func (s *HTTPWriterTestSuite) TestDryWrite() {
	result, err := s.writer.DryWrite(s.ctx, arweave.MustTransactionID(walletId), arweave.MustTransactionID(registryId), json.RawMessage(`{"function":"buyRecord","name":"taken"}`))
	require.Nil(s.T(), err)
	require.True(s.T(), result.IsInvalid())
	require.Equal(s.T(), "Name is already registered", result.ErrorMessages["registry"])

	body := s.bodies["/dry-write"]
	require.Equal(s.T(), walletId, body["wallet"])
	require.Equal(s.T(), registryId, body["contractTxId"])
	require.Equal(s.T(), "buyRecord", body["input"].(map[string]any)["function"])
	require.Equal(s.T(), []string{"secret"}, s.apiKeys)
}

func (s *HTTPWriterTestSuite) TestWriteInteraction() {
	tags := smartweave.Tags{{Name: "App", Value: "arns"}}
	id, err := s.writer.WriteInteraction(s.ctx, arweave.MustTransactionID(walletId), arweave.MustTransactionID(antId), json.RawMessage(`{"function":"setName","name":"a"}`), tags)
	require.Nil(s.T(), err)
	require.Equal(s.T(), txId, id)
	require.Len(s.T(), s.bodies["/write"]["tags"], 1)
}

func (s *HTTPWriterTestSuite) TestDeployRetriesRateLimited() {
	id, err := s.writer.Deploy(s.ctx, arweave.MustTransactionID(walletId), arweave.MustTransactionID(srcId), json.RawMessage(`{}`), nil)
	require.Nil(s.T(), err)
	require.Equal(s.T(), deployedId, id)
	require.Equal(s.T(), int32(3), s.deploys.Load())
	require.Equal(s.T(), "{}", s.bodies["/deploy"]["initState"])
}

func (s *HTTPWriterTestSuite) writerAt(path string) *HTTPWriter {
	conf := config.Default()
	conf.Signer.Url = s.server.URL + path
	conf.Signer.RetryInitialDelay = time.Millisecond
	conf.Signer.RetryMaxAttempts = 3
	return NewHTTPWriter(conf)
}

func (s *HTTPWriterTestSuite) TestRateLimitExhaustsAttempts() {
	_, err := s.writerAt("/limited").DryWrite(s.ctx, arweave.MustTransactionID(walletId), arweave.MustTransactionID(registryId), json.RawMessage(`{}`))
	require.ErrorIs(s.T(), err, ErrRateLimited)
	require.ErrorIs(s.T(), err, task.ErrNetwork)

	var networkErr *task.NetworkError
	require.ErrorAs(s.T(), err, &networkErr)
	require.Equal(s.T(), 3, networkErr.Attempts)

	// Already retried, the submitter doesn't repeat it
	require.False(s.T(), isRetryable(err))
}

func (s *HTTPWriterTestSuite) TestServerErrorIsNotRetried() {
	_, err := s.writerAt("/broken").DryWrite(s.ctx, arweave.MustTransactionID(walletId), arweave.MustTransactionID(registryId), json.RawMessage(`{}`))
	require.ErrorIs(s.T(), err, ErrBadResponse)
	require.Equal(s.T(), int32(1), s.broken.Load())
}
