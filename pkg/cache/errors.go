package cache

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"
)

// ErrNetwork marks failures to reach a remote cache backend.
var ErrNetwork = errors.New("network error")

// transientError marks a backend failure that may succeed on retry.
type transientError struct{ err error }

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

func isTransient(err error) bool {
	var te *transientError
	return errors.As(err, &te)
}

// classify turns transport failures into transient ErrNetwork errors.
// Redis replies, redis.Nil included, pass through untouched.
func classify(err error) error {
	if err == nil || errors.Is(err, redis.Nil) {
		return err
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return &transientError{err: errors.Join(ErrNetwork, err)}
	}
	return err
}

const retryAttempts = 3

// retryDelay is the first backoff step; it doubles after each attempt.
var retryDelay = 100 * time.Millisecond

// retry runs one backend operation on key, retrying transient failures
// with exponential backoff. Each retry is logged at debug level.
func retry(ctx context.Context, logger *log.Logger, op, key string, fn func() error) error {
	delay := retryDelay
	var err error
	for attempt := 1; attempt <= retryAttempts; attempt++ {
		if err = fn(); err == nil || !isTransient(err) {
			return err
		}
		if attempt == retryAttempts {
			break
		}
		logger.Debug("cache backend unavailable, retrying", "op", op, "key", key, "attempt", attempt, "delay", delay, "err", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}
	return err
}
