package task

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/cenkalti/backoff/v4"
)

var ErrNetwork = errors.New("network error")

// Returned when an operation failed and won't be retried anymore
type NetworkError struct {
	Attempts int
	Err      error
}

func (self *NetworkError) Error() string {
	return fmt.Sprintf("network error after %d attempt(s): %s", self.Attempts, self.Err)
}

func (self *NetworkError) Unwrap() error {
	return self.Err
}

func (self *NetworkError) Is(target error) bool {
	return target == ErrNetwork
}

// Marks an error that should stop retrying and be returned as is
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// Implement operation retrying.
// Delay between attempts is initialDelay * 2^(attempt-1), without jitter.
type Retry struct {
	ctx          context.Context
	initialDelay time.Duration
	maxAttempts  int
	shouldRetry  func(error) bool
	onError      func(err error, attempt int)
}

func NewRetry() *Retry {
	return &Retry{
		ctx:          context.Background(),
		initialDelay: 100 * time.Millisecond,
		maxAttempts:  5,
	}
}

func (self *Retry) WithContext(ctx context.Context) *Retry {
	self.ctx = ctx
	return self
}

func (self *Retry) WithInitialDelay(v time.Duration) *Retry {
	self.initialDelay = v
	return self
}

// Max number of calls, including the first one. 0 means no limit.
func (self *Retry) WithMaxAttempts(v int) *Retry {
	self.maxAttempts = v
	return self
}

// Errors for which f returns false aren't retried. By default everything is retried.
func (self *Retry) WithShouldRetry(f func(error) bool) *Retry {
	self.shouldRetry = f
	return self
}

func (self *Retry) WithOnError(v func(err error, attempt int)) *Retry {
	self.onError = v
	return self
}

func (self *Retry) newBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = self.initialDelay
	b.RandomizationFactor = 0
	b.Multiplier = 2
	b.MaxInterval = time.Duration(math.MaxInt64)
	b.MaxElapsedTime = 0
	b.Reset()

	if self.maxAttempts <= 0 {
		return backoff.WithContext(b, self.ctx)
	}
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(self.maxAttempts-1)), self.ctx)
}

func (self *Retry) Run(f func() error) error {
	var (
		attempt   int
		lastErr   error
		permanent bool
	)

	err := backoff.Retry(func() error {
		attempt++
		err := f()
		if err == nil {
			return nil
		}

		var perm *backoff.PermanentError
		if errors.As(err, &perm) {
			permanent = true
			return err
		}

		lastErr = err
		if self.onError != nil {
			self.onError(err, attempt)
		}

		if self.shouldRetry != nil && !self.shouldRetry(err) {
			return backoff.Permanent(err)
		}
		return err
	}, self.newBackOff())
	if err == nil {
		return nil
	}

	if permanent {
		return err
	}

	if lastErr == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		// Stopped by the context before the operation failed for itself
		if ctxErr := self.ctx.Err(); ctxErr != nil {
			return ctxErr
		}
	}

	if lastErr == nil {
		lastErr = err
	}

	return &NetworkError{Attempts: attempt, Err: lastErr}
}
