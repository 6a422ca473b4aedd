package gql

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestRunnerTestSuite(t *testing.T) {
	suite.Run(t, new(RunnerTestSuite))
}

type RunnerTestSuite struct {
	suite.Suite
	ctx    context.Context
	cancel context.CancelFunc
}

func (s *RunnerTestSuite) SetupTest() {
	s.ctx, s.cancel = context.WithTimeout(context.Background(), 10*time.Second)
}

func (s *RunnerTestSuite) TearDownTest() {
	s.cancel()
}

type executorFunc func(ctx context.Context, query Query) (*Response, error)

func (self executorFunc) Query(ctx context.Context, query Query) (*Response, error) {
	return self(ctx, query)
}

func page(from, count int, hasNextPage bool) *Response {
	out := &Response{}
	out.Data.Transactions.PageInfo.HasNextPage = hasNextPage
	for i := from; i < from+count; i++ {
		out.Data.Transactions.Edges = append(out.Data.Transactions.Edges, Edge{
			Cursor: fmt.Sprintf("cursor-%d", i),
			Node:   Node{Id: fmt.Sprintf("id-%d", i)},
		})
	}
	return out
}

func builder(cursor string) Query {
	return Query{Variables: map[string]any{"after": cursor}}
}

func (s *RunnerTestSuite) TestFetchesAllPages() {
	var cursors []any
	executor := executorFunc(func(ctx context.Context, query Query) (*Response, error) {
		cursors = append(cursors, query.Variables["after"])
		switch len(cursors) {
		case 1:
			return page(0, 100, true), nil
		case 2:
			return page(100, 100, true), nil
		default:
			return page(200, 100, false), nil
		}
	})

	var progress []int
	edges, err := NewRunner(executor).
		WithOnProgress(func(pages, edges int) { progress = append(progress, edges) }).
		FetchAll(s.ctx, builder)
	require.Nil(s.T(), err)
	require.Len(s.T(), edges, 300)
	for i, edge := range edges {
		require.Equal(s.T(), fmt.Sprintf("id-%d", i), edge.Node.Id)
	}
	require.Equal(s.T(), []any{"", "cursor-99", "cursor-199"}, cursors)
	require.Equal(s.T(), []int{100, 200, 300}, progress)
}

func (s *RunnerTestSuite) TestStuckCursorHitsCeiling() {
	calls := 0
	executor := executorFunc(func(ctx context.Context, query Query) (*Response, error) {
		calls++
		return page(0, 1, true), nil
	})

	edges, err := NewRunner(executor).WithMaxPages(30).FetchAll(s.ctx, builder)
	require.ErrorIs(s.T(), err, ErrPaginationExhausted)
	require.Equal(s.T(), 30, calls)
	require.Len(s.T(), edges, 30)
}

func (s *RunnerTestSuite) TestStopsWithoutCursor() {
	calls := 0
	executor := executorFunc(func(ctx context.Context, query Query) (*Response, error) {
		calls++
		out := page(0, 2, true)
		out.Data.Transactions.Edges[1].Cursor = ""
		return out, nil
	})

	edges, err := NewRunner(executor).FetchAll(s.ctx, builder)
	require.Nil(s.T(), err)
	require.Equal(s.T(), 1, calls)
	require.Len(s.T(), edges, 2)
}

func (s *RunnerTestSuite) TestStopsOnEmptyPage() {
	calls := 0
	executor := executorFunc(func(ctx context.Context, query Query) (*Response, error) {
		calls++
		return page(0, 0, true), nil
	})

	edges, err := NewRunner(executor).FetchAll(s.ctx, builder)
	require.Nil(s.T(), err)
	require.Equal(s.T(), 1, calls)
	require.Empty(s.T(), edges)
}

func (s *RunnerTestSuite) TestQueryError() {
	boom := errors.New("boom")
	executor := executorFunc(func(ctx context.Context, query Query) (*Response, error) {
		return nil, boom
	})

	_, err := NewRunner(executor).FetchAll(s.ctx, builder)
	require.ErrorIs(s.T(), err, boom)
}

func (s *RunnerTestSuite) TestResponseErrors() {
	resp := &Response{Errors: []ErrorMessage{{Message: "a"}, {Message: "b"}}}
	require.EqualError(s.T(), resp.Err(), "graphql: a; b")
	require.Nil(s.T(), (&Response{}).Err())
}
