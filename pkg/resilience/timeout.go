package resilience

import (
	"context"
	"fmt"
	"time"

	apperrors "github.com/Adithya-Monish-Kumar-K/gamedb/pkg/errors"
)

// WithTimeout runs fn under a deadline. Exceeding it yields an error matching
// both ErrTimeout and context.DeadlineExceeded.
func WithTimeout(ctx context.Context, timeout time.Duration, name string, fn func(ctx context.Context) error) error {
	if timeout <= 0 {
		return fn(ctx)
	}
	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	done := make(chan error, 1)
	go func() {
		done <- fn(timeoutCtx)
	}()
	select {
	case err := <-done:
		if err != nil && ctx.Err() == nil && timeoutCtx.Err() != nil {
			return fmt.Errorf("%s after %v: %w", name, timeout, &timeoutError{})
		}
		return err
	case <-timeoutCtx.Done():
		if ctx.Err() != nil {
			return fmt.Errorf("%s: parent context cancelled: %w", name, ctx.Err())
		}
		return fmt.Errorf("%s after %v: %w", name, timeout, &timeoutError{})
	}
}

type timeoutError struct{}

func (*timeoutError) Error() string { return apperrors.ErrTimeout.Error() }

func (*timeoutError) Is(target error) bool {
	return target == apperrors.ErrTimeout || target == context.DeadlineExceeded
}
