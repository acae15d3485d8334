package fetch

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// permanentError stops retry immediately.
type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

func permanent(err error) error {
	return &permanentError{err: err}
}

// retry calls fn up to maxAttempts times with exponential backoff
// (baseDelay * 2^attempt). Permanent errors and context cancellation end the
// loop early. The returned error is never a *permanentError.
func retry(ctx context.Context, logger *slog.Logger, maxAttempts int, baseDelay time.Duration, fn func() error) error {
	var lastErr error
	for attempt := range maxAttempts {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		var perm *permanentError
		if errors.As(lastErr, &perm) {
			return perm.err
		}
		if ctx.Err() != nil {
			return lastErr
		}

		logger.Warn("fetch attempt failed",
			"component", "fetch",
			"operation", "retry",
			"attempt", attempt+1,
			"max_attempts", maxAttempts,
			"error", lastErr,
		)

		if attempt == maxAttempts-1 {
			break
		}

		timer := time.NewTimer(baseDelay * (1 << attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return lastErr
		case <-timer.C:
		}
	}
	return lastErr
}
