package retry

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/logward/logward/pkg/errors"
)

func fastConfig() Config {
	return Config{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		MaxDelay:     2 * time.Millisecond,
	}
}

func TestDoSucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastConfig(), func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestDoRetriesTemporary(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastConfig(), func() error {
		calls++
		if calls < 3 {
			return errors.NewTemporary("connection refused", nil)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestDoStopsOnPermanent(t *testing.T) {
	calls := 0
	permanent := errors.NewPermanent("bad credentials", nil)
	err := Do(context.Background(), fastConfig(), func() error {
		calls++
		return permanent
	})
	if err == nil {
		t.Fatal("Do() error = nil, want error")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (permanent errors must not retry)", calls)
	}
}

func TestDoPolicyNone(t *testing.T) {
	cfg := fastConfig()
	cfg.Policy = PolicyNone

	calls := 0
	err := Do(context.Background(), cfg, func() error {
		calls++
		return errors.NewTemporary("flaky", nil)
	})
	if err == nil {
		t.Fatal("Do() error = nil, want error")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestDoPolicyAll(t *testing.T) {
	cfg := fastConfig()
	cfg.Policy = PolicyAll

	calls := 0
	err := Do(context.Background(), cfg, func() error {
		calls++
		return stderrors.New("untyped")
	})
	if err == nil {
		t.Fatal("Do() error = nil, want error")
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestDoRespectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	cfg := Config{
		MaxAttempts:  0, // unlimited
		InitialDelay: 10 * time.Millisecond,
		MaxDelay:     10 * time.Millisecond,
	}

	calls := 0
	done := make(chan error, 1)
	go func() {
		done <- Do(ctx, cfg, func() error {
			calls++
			return errors.NewTemporary("still down", nil)
		})
	}()

	time.Sleep(25 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err == nil {
			t.Fatal("Do() error = nil after cancellation")
		}
	case <-time.After(time.Second):
		t.Fatal("Do() did not return after context cancellation")
	}
}
