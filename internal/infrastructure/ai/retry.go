// Package ai holds the pieces shared by the assistant provider clients
package ai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// DefaultMaxRetries is the number of retries after the first attempt
const DefaultMaxRetries = 2

// StatusError is a non-2xx reply from a provider
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("provider returned status %d: %s", e.StatusCode, e.Body)
}

// Transient reports whether a status is worth retrying
func Transient(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

// IsRetryable reports whether err is a transient transport or provider error
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return Transient(statusErr.StatusCode)
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

// RetryPolicy configures Do
type RetryPolicy struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxElapsedTime  time.Duration
}

// DefaultRetryPolicy gives three attempts in total
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:      DefaultMaxRetries,
		InitialInterval: 500 * time.Millisecond,
		MaxElapsedTime:  30 * time.Second,
	}
}

// Do runs op with exponential backoff. Errors that retryable rejects stop
// the loop at once.
func Do(ctx context.Context, policy RetryPolicy, retryable func(error) bool, op func() error) error {
	bo := backoff.NewExponentialBackOff()
	if policy.InitialInterval > 0 {
		bo.InitialInterval = policy.InitialInterval
	}
	if policy.MaxElapsedTime > 0 {
		bo.MaxElapsedTime = policy.MaxElapsedTime
	}

	retries := policy.MaxRetries
	if retries < 0 {
		retries = 0
	}

	return backoff.Retry(func() error {
		err := op()
		if err != nil && !retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(backoff.WithMaxRetries(bo, uint64(retries)), ctx))
}
