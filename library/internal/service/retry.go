package service

import (
	"context"
	"math/rand"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-borrow/library/internal/errs"
)

type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Jitter      float64
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 5, BaseDelay: 20 * time.Millisecond, Jitter: 0.3}
}

// withRetry reruns fn while it fails with errs.ErrTransient, backing off
// exponentially. The last transient error is returned once attempts run out.
func (s *Service) withRetry(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	attempts := s.retry.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			delay := s.retry.BaseDelay * time.Duration(1<<(attempt-1))
			delay += time.Duration(rand.Float64() * float64(delay) * s.retry.Jitter) //nolint:gosec
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return errors.Wrap(ctx.Err(), op)
			}
		}

		lastErr = fn(ctx)
		if lastErr == nil || !errors.Is(lastErr, errs.ErrTransient) {
			return lastErr
		}
		s.log.Debug("retrying transient failure", zap.String("op", op), zap.Int("attempt", attempt+1), zap.Error(lastErr))
	}
	return lastErr
}
