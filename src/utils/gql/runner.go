package gql

import (
	"context"
	"errors"
	"fmt"

	"github.com/warp-contracts/arns/src/utils/logger"

	"github.com/sirupsen/logrus"
)

var ErrPaginationExhausted = errors.New("pagination exhausted")

const DefaultMaxPages = 30

// Executes a single query. Retrying is up to the implementation.
type Executor interface {
	Query(ctx context.Context, query Query) (*Response, error)
}

// Aggregates all pages of a cursor-driven query
type Runner struct {
	log        *logrus.Entry
	executor   Executor
	maxPages   int
	onProgress func(pages, edges int)
}

func NewRunner(executor Executor) (self *Runner) {
	self = new(Runner)
	self.log = logger.NewSublogger("gql-runner")
	self.executor = executor
	self.maxPages = DefaultMaxPages
	return
}

// Hard ceiling of the number of pages. Reaching it returns ErrPaginationExhausted.
func (self *Runner) WithMaxPages(v int) *Runner {
	if v > 0 {
		self.maxPages = v
	}
	return self
}

// Called after each fetched page with the totals so far
func (self *Runner) WithOnProgress(f func(pages, edges int)) *Runner {
	self.onProgress = f
	return self
}

// Fetches pages until the endpoint reports there's nothing more.
// Upon ErrPaginationExhausted the edges fetched so far are returned too, it's up to the caller to use them or not.
func (self *Runner) FetchAll(ctx context.Context, builder func(cursor string) Query) (out []Edge, err error) {
	var cursor string

	for page := 1; page <= self.maxPages; page++ {
		var resp *Response
		resp, err = self.executor.Query(ctx, builder(cursor))
		if err != nil {
			return
		}

		edges := resp.Data.Transactions.Edges
		out = append(out, edges...)

		if self.onProgress != nil {
			self.onProgress(page, len(out))
		}

		if !resp.Data.Transactions.PageInfo.HasNextPage || len(edges) == 0 {
			return
		}

		last := edges[len(edges)-1].Cursor
		if last == "" {
			// Nothing to continue from
			return
		}

		if last == cursor {
			self.log.WithField("cursor", cursor).WithField("page", page).Warn("Cursor didn't advance")
		}
		cursor = last
	}

	err = fmt.Errorf("%w: reached the limit of %d pages, fetched %d edges", ErrPaginationExhausted, self.maxPages, len(out))
	return
}
