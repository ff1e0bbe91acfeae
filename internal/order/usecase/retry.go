package usecase

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	apperrors "comandero/internal/errors"
)

// Backoff intervals: attempt 1 (0ms), attempt 2 (100ms), attempt 3 (200ms), later attempts reuse the last one.
var backoffs = []time.Duration{0, 100 * time.Millisecond, 200 * time.Millisecond}

// withDeadlockRetry runs fn again when MySQL aborts its transaction as a deadlock victim or on lock
// wait timeout. Any other error is returned as is.
func withDeadlockRetry[T any](ctx context.Context, logger *zap.Logger, maxAttempts int, fn func() (T, error)) (T, error) {
	var zero T

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}

		if !isDeadlockError(err) {
			return zero, err
		}
		if attempt == maxAttempts {
			break
		}

		logger.Warn("deadlock detected, retrying", zap.Int("attempt", attempt), zap.Int("maxAttempts", maxAttempts))

		select {
		case <-time.After(backoff(attempt)):
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}

	return zero, apperrors.NewDeadlockError("max retries exceeded")
}

// backoff returns the wait after the given failed attempt with ±20% jitter.
func backoff(attempt int) time.Duration {
	idx := attempt
	if idx >= len(backoffs) {
		idx = len(backoffs) - 1
	}
	base := backoffs[idx]
	return time.Duration(float64(base) * (0.8 + rand.Float64()*0.4))
}

func isDeadlockError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1213 || mysqlErr.Number == 1205
	}
	return false
}
