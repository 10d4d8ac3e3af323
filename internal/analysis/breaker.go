package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"

	"split-analyzer/internal/config"
)

// Default circuit breaker settings.
const (
	defaultCBMaxFailures uint32        = 5
	defaultCBTimeout     time.Duration = 30 * time.Second
	defaultCBInterval    time.Duration = 60 * time.Second
)

// BreakerClient wraps a Client with a circuit breaker. After repeated
// service failures Analyze fails fast until the breaker half-opens.
// Health is never blocked so readiness can still be probed.
type BreakerClient struct {
	inner   Client
	breaker *gobreaker.CircuitBreaker[*Result]
	logger  *slog.Logger
}

// NewBreakerClient wraps inner. Zero config values fall back to defaults.
func NewBreakerClient(inner Client, cfg config.CircuitBreakerConfig, logger *slog.Logger) *BreakerClient {
	maxFailures := cfg.MaxFailures
	if maxFailures == 0 {
		maxFailures = defaultCBMaxFailures
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultCBTimeout
	}
	interval := cfg.Interval
	if interval == 0 {
		interval = defaultCBInterval
	}

	cb := gobreaker.NewCircuitBreaker[*Result](gobreaker.Settings{
		Name:        "analysis",
		MaxRequests: 1,
		Interval:    interval,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
		IsSuccessful: isBreakerSuccess,
	})

	return &BreakerClient{inner: inner, breaker: cb, logger: logger}
}

// isBreakerSuccess reports whether err leaves the service's health count
// untouched. Client-side rejections and cancellations are not service faults.
func isBreakerSuccess(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, context.Canceled) {
		return true
	}
	var se *StatusError
	if errors.As(err, &se) && se.Code < http.StatusInternalServerError {
		return true
	}
	return false
}

// Analyze implements Client.
func (b *BreakerClient) Analyze(ctx context.Context, req *SplitRequest) (*Result, error) {
	res, err := b.breaker.Execute(func() (*Result, error) {
		return b.inner.Analyze(ctx, req)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("analysis service circuit open: %w", err)
		}
		return nil, err
	}
	return res, nil
}

// Health implements Client.
func (b *BreakerClient) Health(ctx context.Context) (Health, error) {
	return b.inner.Health(ctx)
}

// State returns the breaker state.
func (b *BreakerClient) State() gobreaker.State {
	return b.breaker.State()
}

var _ Client = (*BreakerClient)(nil)
