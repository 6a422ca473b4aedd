package arweave

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/warp-contracts/arns/src/utils/config"
	"github.com/warp-contracts/arns/src/utils/task"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestClientTestSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

type ClientTestSuite struct {
	suite.Suite
	ctx    context.Context
	cancel context.CancelFunc
	server *httptest.Server
	client *Client

	mtx      sync.Mutex
	requests map[string]int
}

func (s *ClientTestSuite) SetupTest() {
	s.ctx, s.cancel = context.WithTimeout(context.Background(), 10*time.Second)
	s.requests = make(map[string]int)

	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mtx.Lock()
		s.requests[r.URL.Path]++
		n := s.requests[r.URL.Path]
		s.mtx.Unlock()

		switch r.URL.Path {
		case "/info":
			// Rate limited twice
			if n < 3 {
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"network":"arweave.N.1","height":1234}`))
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))

	conf := config.Default()
	conf.Arweave.NodeUrl = s.server.URL
	conf.Arweave.RetryInitialDelay = time.Millisecond
	conf.Arweave.RetryMaxAttempts = 5
	conf.Arweave.LimiterInterval = time.Millisecond
	conf.Arweave.LimiterBurstSize = 100
	s.client = NewClient(&conf.Arweave)
}

func (s *ClientTestSuite) TearDownTest() {
	s.server.Close()
	s.cancel()
}

func (s *ClientTestSuite) count(path string) int {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.requests[path]
}

func (s *ClientTestSuite) TestRetriesRateLimited() {
	info, err := s.client.GetNetworkInfo(s.ctx)
	require.Nil(s.T(), err)
	require.Equal(s.T(), int64(1234), info.Height)
	require.Equal(s.T(), 3, s.count("/info"))
}

func (s *ClientTestSuite) TestBadRequestIsNotRetried() {
	_, err := s.client.GetTransactionTags(s.ctx, MustTransactionID("txtxtxtxtxtxtxtxtxtxtxtxtxtxtxtxtxtxtxtxtxt"))
	require.ErrorIs(s.T(), err, task.ErrNetwork)

	var statusErr *StatusError
	require.ErrorAs(s.T(), err, &statusErr)
	require.Equal(s.T(), http.StatusBadRequest, statusErr.Code)
	require.Equal(s.T(), 1, s.count("/tx/txtxtxtxtxtxtxtxtxtxtxtxtxtxtxtxtxtxtxtxtxt/tags"))
}
