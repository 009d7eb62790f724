package httputil

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func TestExecute_SuccessFirstAttempt(t *testing.T) {
	r := NewRetrier(RetryConfig{MaxAttempts: 3, BaseDelay: 10 * time.Millisecond}, testLogger())

	var calls atomic.Int32
	err := r.Execute(context.Background(), "test", func(ctx context.Context) error {
		calls.Add(1)
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected 1 call, got %d", calls.Load())
	}
}

func TestExecute_RecoversAfterFailure(t *testing.T) {
	r := NewRetrier(RetryConfig{MaxAttempts: 3, BaseDelay: 5 * time.Millisecond}, testLogger())

	var calls atomic.Int32
	err := r.Execute(context.Background(), "test", func(ctx context.Context) error {
		if calls.Add(1) < 2 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 calls, got %d", calls.Load())
	}
}

func TestExecute_AllAttemptsFail(t *testing.T) {
	base := 20 * time.Millisecond
	r := NewRetrier(RetryConfig{MaxAttempts: 3, BaseDelay: base}, testLogger())

	boom := errors.New("provider down")
	var calls atomic.Int32

	start := time.Now()
	err := r.Execute(context.Background(), "test", func(ctx context.Context) error {
		calls.Add(1)
		return boom
	})
	elapsed := time.Since(start)

	if !errors.Is(err, boom) {
		t.Fatalf("expected original error, got %v", err)
	}
	if calls.Load() != 3 {
		t.Fatalf("expected exactly 3 attempts, got %d", calls.Load())
	}
	// Backoff after attempts 0 and 1: base*1 + base*2.
	if min := 3 * base; elapsed < min {
		t.Fatalf("elapsed %s below minimum backoff %s", elapsed, min)
	}
}

func TestExecute_InterCallDelay(t *testing.T) {
	delay := 30 * time.Millisecond
	r := NewRetrier(RetryConfig{MaxAttempts: 1, RequestDelay: delay}, testLogger())

	noop := func(ctx context.Context) error { return nil }

	if err := r.Execute(context.Background(), "test", noop); err != nil {
		t.Fatalf("first call: %v", err)
	}
	start := time.Now()
	if err := r.Execute(context.Background(), "test", noop); err != nil {
		t.Fatalf("second call: %v", err)
	}
	if elapsed := time.Since(start); elapsed < delay/2 {
		t.Fatalf("second call not paced: elapsed %s, want at least %s", elapsed, delay/2)
	}
}

func TestExecute_RespectsContextCancellation(t *testing.T) {
	r := NewRetrier(RetryConfig{MaxAttempts: 10, BaseDelay: 500 * time.Millisecond}, testLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := r.Execute(ctx, "test", func(ctx context.Context) error {
		return errors.New("always fails")
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
}
