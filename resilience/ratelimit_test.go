package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRateLimiter_Defaults(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{})
	if rl.config.Rate != 5 || rl.config.Burst != 5 || rl.config.MaxWait != time.Second {
		t.Errorf("unexpected defaults: %+v", rl.config)
	}
}

func TestRateLimiter_BurstThenReject(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Rate: 0.001, Burst: 2})
	ctx := context.Background()

	calls := 0
	op := func(context.Context) error { calls++; return nil }

	for i := 0; i < 2; i++ {
		if err := rl.Execute(ctx, op); err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
	}
	if err := rl.Execute(ctx, op); !errors.Is(err, ErrRateLimitExceeded) {
		t.Fatalf("Execute() error = %v, want ErrRateLimitExceeded", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestRateLimiter_WaitGivesUp(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{
		Rate:        0.001,
		Burst:       1,
		WaitOnLimit: true,
		MaxWait:     10 * time.Millisecond,
	})
	ctx := context.Background()
	op := func(context.Context) error { return nil }

	if err := rl.Execute(ctx, op); err != nil {
		t.Fatalf("first call: %v", err)
	}
	if err := rl.Execute(ctx, op); !errors.Is(err, ErrRateLimitExceeded) {
		t.Errorf("Execute() error = %v, want ErrRateLimitExceeded", err)
	}
}

func TestRateLimiter_WaitSucceeds(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{
		Rate:        100,
		Burst:       1,
		WaitOnLimit: true,
		MaxWait:     time.Second,
	})
	ctx := context.Background()
	op := func(context.Context) error { return nil }

	for i := 0; i < 3; i++ {
		if err := rl.Execute(ctx, op); err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
	}
}

func TestRateLimiter_WaitCanceled(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Rate: 1, Burst: 1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := rl.Wait(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Wait() error = %v, want context.Canceled", err)
	}
}
