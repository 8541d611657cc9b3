package retry

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// Func is a function that can be retried.
type Func func(ctx context.Context) error

// UnretryableError marks an error as not suitable for retry.
type UnretryableError struct {
	Err error
}

func (e *UnretryableError) Error() string {
	return e.Err.Error()
}

func (e *UnretryableError) Unwrap() error {
	return e.Err
}

// Unretryable wraps an error so Do returns it immediately.
func Unretryable(err error) error {
	if err == nil {
		return nil
	}
	return &UnretryableError{Err: err}
}

// Policy bounds a retry loop.
type Policy struct {
	Attempts int
	Delay    time.Duration
}

// Do runs fn until it succeeds, returns an UnretryableError, the attempts are
// used up or ctx is done. The last error is returned, unwrapped if it was
// marked unretryable.
func Do(ctx context.Context, p Policy, log *zap.Logger, fn Func) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for i := 0; i < attempts; i++ {
		err = fn(ctx)
		if err == nil {
			return nil
		}

		var unretryableErr *UnretryableError
		if errors.As(err, &unretryableErr) {
			log.Warn("Attempt failed with unretryable error",
				zap.Int("attempt", i+1),
				zap.Int("attempts", attempts),
				zap.Error(err),
			)
			return unretryableErr.Unwrap()
		}

		if i == attempts-1 {
			break
		}

		log.Warn("Attempt failed, retrying",
			zap.Int("attempt", i+1),
			zap.Int("attempts", attempts),
			zap.Duration("delay", p.Delay),
			zap.Error(err),
		)

		timer := time.NewTimer(p.Delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return errors.Join(err, ctx.Err())
		case <-timer.C:
		}
	}
	return err
}
