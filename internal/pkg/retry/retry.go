// Package retry holds the single retry policy shared by order numbering and
// transient storage conflicts. Backoff timing comes from cenkalti/backoff.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
)

var ErrAttemptsExhausted = errors.New("retry attempts exhausted")

// ExhaustedError is returned when every attempt failed with a retryable error.
type ExhaustedError struct {
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("%s after %d attempts: %v", ErrAttemptsExhausted, e.Attempts, e.Last)
}

func (e *ExhaustedError) Unwrap() []error {
	return []error{ErrAttemptsExhausted, e.Last}
}

type Policy struct {
	MaxAttempts         int
	InitialInterval     time.Duration
	MaxInterval         time.Duration
	Multiplier          float64
	RandomizationFactor float64

	// OnRetry, when set, is called before sleeping between attempts.
	OnRetry func(attempt int, err error, wait time.Duration)
}

func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:         4,
		InitialInterval:     50 * time.Millisecond,
		MaxInterval:         time.Second,
		Multiplier:          2,
		RandomizationFactor: 0.2,
	}
}

// NoDelay retries immediately. Intended for tests.
func NoDelay(maxAttempts int) Policy {
	return Policy{MaxAttempts: maxAttempts}
}

// Do runs op until it succeeds, returns an error rejected by retryable, or the
// attempt budget is spent. Attempts are numbered from 1.
func (p Policy) Do(ctx context.Context, retryable func(error) bool, op func(attempt int) error) error {
	maxAttempts := p.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	attempt := 0
	b := backoff.WithContext(backoff.WithMaxRetries(p.backOff(), uint64(maxAttempts-1)), ctx)

	err := backoff.RetryNotify(func() error {
		attempt++
		opErr := op(attempt)
		if opErr == nil {
			return nil
		}
		if !retryable(opErr) {
			return backoff.Permanent(opErr)
		}
		return opErr
	}, b, func(err error, wait time.Duration) {
		if p.OnRetry != nil {
			p.OnRetry(attempt, err, wait)
		}
	})
	if err == nil {
		return nil
	}

	if ctx.Err() == nil && retryable(err) {
		return &ExhaustedError{Attempts: attempt, Last: err}
	}
	return err
}

func (p Policy) backOff() backoff.BackOff {
	if p.InitialInterval <= 0 {
		return &backoff.ZeroBackOff{}
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = p.InitialInterval
	if p.MaxInterval > 0 {
		eb.MaxInterval = p.MaxInterval
	}
	if p.Multiplier > 0 {
		eb.Multiplier = p.Multiplier
	}
	eb.RandomizationFactor = p.RandomizationFactor
	eb.MaxElapsedTime = 0
	eb.Reset()
	return eb
}
