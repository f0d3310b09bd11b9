package ingestion

import (
	"context"
	"time"
)

// RetryWithBackoff executes operation up to maxAttempts times, doubling the
// delay between attempts starting from baseDelay. Cancellation is honored
// both before each attempt and while sleeping. When every attempt fails the
// last error is returned.
func RetryWithBackoff(ctx context.Context, operation func() error, maxAttempts int, baseDelay time.Duration) error {
	if maxAttempts <= 0 {
		return ErrInvalidMaxAttempts
	}

	var lastErr error
	delay := baseDelay

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		if lastErr = operation(); lastErr == nil {
			return nil
		}
		if attempt == maxAttempts {
			break
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}

	return lastErr
}
