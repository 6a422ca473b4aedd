package task

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestRetryTestSuite(t *testing.T) {
	suite.Run(t, new(RetryTestSuite))
}

type RetryTestSuite struct {
	suite.Suite
}

var (
	errTransient = errors.New("transient")
	errFatal     = errors.New("fatal")
)

func (s *RetryTestSuite) TestSucceedsAfterRetries() {
	attempts := 0
	var failed []int
	err := NewRetry().
		WithInitialDelay(time.Millisecond).
		WithMaxAttempts(5).
		WithOnError(func(err error, attempt int) { failed = append(failed, attempt) }).
		Run(func() error {
			attempts++
			if attempts < 3 {
				return errTransient
			}
			return nil
		})
	require.Nil(s.T(), err)
	require.Equal(s.T(), 3, attempts)
	require.Equal(s.T(), []int{1, 2}, failed)
}

func (s *RetryTestSuite) TestExhaustedAttempts() {
	attempts := 0
	err := NewRetry().
		WithInitialDelay(time.Millisecond).
		WithMaxAttempts(4).
		Run(func() error {
			attempts++
			return errTransient
		})
	require.ErrorIs(s.T(), err, ErrNetwork)
	require.ErrorIs(s.T(), err, errTransient)
	require.Equal(s.T(), 4, attempts)

	var networkErr *NetworkError
	require.True(s.T(), errors.As(err, &networkErr))
	require.Equal(s.T(), 4, networkErr.Attempts)
}

func (s *RetryTestSuite) TestShouldRetry() {
	attempts := 0
	err := NewRetry().
		WithInitialDelay(time.Millisecond).
		WithShouldRetry(func(err error) bool { return errors.Is(err, errTransient) }).
		Run(func() error {
			attempts++
			if attempts == 1 {
				return errTransient
			}
			return errFatal
		})
	require.ErrorIs(s.T(), err, errFatal)
	require.ErrorIs(s.T(), err, ErrNetwork)
	require.Equal(s.T(), 2, attempts)
}

func (s *RetryTestSuite) TestPermanentIsReturnedAsIs() {
	attempts := 0
	err := NewRetry().
		WithInitialDelay(time.Millisecond).
		Run(func() error {
			attempts++
			return Permanent(errFatal)
		})
	require.Equal(s.T(), errFatal, err)
	require.Equal(s.T(), 1, attempts)
}

func (s *RetryTestSuite) TestExponentialDelay() {
	var at []time.Time
	err := NewRetry().
		WithInitialDelay(20 * time.Millisecond).
		WithMaxAttempts(3).
		Run(func() error {
			at = append(at, time.Now())
			return errTransient
		})
	require.ErrorIs(s.T(), err, errTransient)
	require.Len(s.T(), at, 3)
	require.GreaterOrEqual(s.T(), at[1].Sub(at[0]), 20*time.Millisecond)
	require.GreaterOrEqual(s.T(), at[2].Sub(at[1]), 40*time.Millisecond)
}

func (s *RetryTestSuite) TestCancelledContext() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewRetry().
		WithContext(ctx).
		WithInitialDelay(time.Millisecond).
		Run(func() error {
			return errTransient
		})
	require.ErrorIs(s.T(), err, context.Canceled)
}
