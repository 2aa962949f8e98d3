package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "github.com/Adithya-Monish-Kumar-K/gamedb/pkg/errors"
)

var fast = RetryConfig{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}

func TestRetryEventuallySucceeds(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), "op", fast, func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil || calls != 3 {
		t.Fatalf("err = %v, calls = %d", err, calls)
	}
}

func TestRetryExhausted(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	err := Retry(context.Background(), "op", fast, func(context.Context) error {
		calls++
		return boom
	})
	if !errors.Is(err, boom) || calls != 3 {
		t.Fatalf("err = %v, calls = %d", err, calls)
	}
}

func TestRetryPermanent(t *testing.T) {
	bad := errors.New("bad credentials")
	calls := 0
	err := Retry(context.Background(), "op", fast, func(context.Context) error {
		calls++
		return Permanent(bad)
	})
	if err != bad || calls != 1 {
		t.Fatalf("err = %v, calls = %d", err, calls)
	}
}

func TestRetryCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Retry(ctx, "op", fast, func(context.Context) error { return errors.New("x") })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
}

func TestComputeDelayCapped(t *testing.T) {
	cfg := withDefaults(RetryConfig{InitialDelay: time.Second, MaxDelay: 3 * time.Second})
	if d := computeDelay(10, cfg); d != 3*time.Second {
		t.Errorf("delay = %v", d)
	}
}

func TestWithTimeout(t *testing.T) {
	err := WithTimeout(context.Background(), 5*time.Millisecond, "slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	if !errors.Is(err, apperrors.ErrTimeout) || !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v", err)
	}
	if err := WithTimeout(context.Background(), time.Second, "fast", func(context.Context) error { return nil }); err != nil {
		t.Fatal(err)
	}
}
