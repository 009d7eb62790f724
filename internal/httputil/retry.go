package httputil

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

type RetryConfig struct {
	MaxAttempts  int
	BaseDelay    time.Duration
	RequestDelay time.Duration
}

var DefaultRetry = RetryConfig{
	MaxAttempts:  3,
	BaseDelay:    1 * time.Second,
	RequestDelay: 1 * time.Second,
}

// Retrier paces calls against rate-limited providers and retries
// failures with exponential backoff. Sharing one Retrier across all
// calls to the same provider keeps the inter-call delay in effect
// across symbols.
type Retrier struct {
	cfg     RetryConfig
	limiter *rate.Limiter
	log     logrus.FieldLogger
}

func NewRetrier(cfg RetryConfig, log logrus.FieldLogger) *Retrier {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultRetry.MaxAttempts
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = DefaultRetry.BaseDelay
	}
	return &Retrier{
		cfg:     cfg,
		limiter: rate.NewLimiter(limit(cfg.RequestDelay), 1),
		log:     log,
	}
}

func limit(requestDelay time.Duration) rate.Limit {
	if requestDelay <= 0 {
		return rate.Inf
	}
	return rate.Every(requestDelay)
}

// Execute runs op, waiting out the provider's inter-call delay before
// each attempt and sleeping BaseDelay*2^attempt between failed
// attempts (attempt is 0-indexed). The last error is returned after
// the final attempt. Validation of op's result is the caller's job.
func (r *Retrier) Execute(ctx context.Context, name string, op func(context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt < r.cfg.MaxAttempts; attempt++ {
		if err := r.limiter.Wait(ctx); err != nil {
			return err
		}

		err := op(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt == r.cfg.MaxAttempts-1 {
			break
		}

		backoff := r.cfg.BaseDelay << attempt
		r.log.Warnf("[%s] attempt %d/%d failed: %v — retrying in %s",
			name, attempt+1, r.cfg.MaxAttempts, lastErr, backoff)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}

	r.log.Errorf("[%s] all %d attempts failed: %v", name, r.cfg.MaxAttempts, lastErr)
	return lastErr
}
