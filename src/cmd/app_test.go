package cmd

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/warp-contracts/arns/src/pending"
	"github.com/warp-contracts/arns/src/utils/arweave"
	"github.com/warp-contracts/arns/src/utils/common"
	"github.com/warp-contracts/arns/src/utils/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestAppTestSuite(t *testing.T) {
	suite.Run(t, new(AppTestSuite))
}

type AppTestSuite struct {
	suite.Suite
	ctx    context.Context
	cancel context.CancelFunc
	config *config.Config
}

func (s *AppTestSuite) SetupTest() {
	s.ctx, s.cancel = context.WithTimeout(context.Background(), 10*time.Second)
	s.config = config.Default()
	s.config.StopTimeout = 5 * time.Second
}

func (s *AppTestSuite) TearDownTest() {
	s.cancel()
}

func (s *AppTestSuite) TestRequiresConfig() {
	app, err := newApp(s.ctx)
	require.Error(s.T(), err)
	require.Nil(s.T(), app)
}

func (s *AppTestSuite) TestStartsAndCloses() {
	app, err := newApp(common.SetConfig(s.ctx, s.config))
	require.Nil(s.T(), err)
	require.NotNil(s.T(), app.submitter)
	require.Equal(s.T(), s.config.Registry.ContractId, app.resolver.RegistryId().String())

	begin := time.Now()
	app.Close()
	require.True(s.T(), time.Since(begin) < time.Second)
}

func (s *AppTestSuite) TestReleasesStorageOnError() {
	server := miniredis.RunT(s.T())
	port, err := strconv.Atoi(server.Port())
	require.Nil(s.T(), err)

	s.config.Store.Backend = pending.BackendRedis
	s.config.Redis.Host = server.Host()
	s.config.Redis.Port = uint16(port)
	s.config.Redis.Password = ""
	s.config.Registry.ContractId = "not an id"

	app, err := newApp(common.SetConfig(s.ctx, s.config))
	require.ErrorIs(s.T(), err, arweave.ErrInvalidIdentifier)
	require.Nil(s.T(), app)

	require.Eventually(s.T(), func() bool {
		return server.CurrentConnectionCount() == 0
	}, 5*time.Second, 10*time.Millisecond)
}
