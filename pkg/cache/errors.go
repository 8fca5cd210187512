package cache

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNetwork marks failures talking to a remote backend.
	ErrNetwork = errors.New("network error")

	// ErrCacheMiss is returned by [GetJSON] when no usable entry exists.
	ErrCacheMiss = errors.New("cache miss")
)

// RetryableError marks a transient failure worth another attempt.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable marks err as transient. It returns nil for a nil err.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// IsRetryable reports whether err, or an error it wraps, is transient.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// Backoff of RetryWithBackoff; tests shorten retryDelay.
var (
	retryAttempts = 3
	retryDelay    = time.Second
)

// RetryWithBackoff calls fn until it succeeds, returns an error not marked
// [Retryable], or runs out of attempts. The delay doubles after every
// failure. Cancelling ctx stops the wait and returns ctx.Err().
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	delay := retryDelay
	var err error
	for i := 1; ; i++ {
		if err = fn(); err == nil || !IsRetryable(err) || i == retryAttempts {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}
}
