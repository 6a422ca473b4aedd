package monitoring

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/warp-contracts/arns/src/utils/config"
	monitor_arns "github.com/warp-contracts/arns/src/utils/monitoring/arns"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestServerTestSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

type ServerTestSuite struct {
	suite.Suite
	monitor *monitor_arns.Monitor
	server  *Server
}

func (s *ServerTestSuite) SetupTest() {
	s.monitor = monitor_arns.NewMonitor()
	s.server = NewServer(config.Default()).WithMonitor(s.monitor)
}

func (s *ServerTestSuite) get(path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, err := http.NewRequest(http.MethodGet, path, nil)
	require.Nil(s.T(), err)
	s.server.Router.ServeHTTP(w, req)
	return w
}

func (s *ServerTestSuite) TestState() {
	s.monitor.GetReport().Submitter.State.Submitted.Add(3)
	s.monitor.GetReport().Ledger.State.ArweaveCurrentHeight.Store(1234)

	w := s.get("/v1/state")
	require.Equal(s.T(), http.StatusOK, w.Code)

	var body map[string]map[string]map[string]any
	require.Nil(s.T(), json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(s.T(), float64(3), body["submitter"]["state"]["submitted"])
}

func (s *ServerTestSuite) TestHealth() {
	w := s.get("/v1/health")
	require.Equal(s.T(), http.StatusOK, w.Code)
}

func (s *ServerTestSuite) TestMetrics() {
	s.monitor.GetReport().Pending.State.Pushed.Add(2)

	w := s.get("/metrics")
	require.Equal(s.T(), http.StatusOK, w.Code)
	require.Contains(s.T(), w.Body.String(), `pending_pushed{app="arns"} 2`)
	require.Contains(s.T(), w.Body.String(), "go_goroutines")
}
