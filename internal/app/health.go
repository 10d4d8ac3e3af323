package app

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"split-analyzer/internal/analysis"
)

// probeTimeout bounds a single readiness probe.
const probeTimeout = 5 * time.Second

// HealthFunc receives each probe outcome.
type HealthFunc func(analysis.Health, error)

// HealthMonitor polls the analysis service readiness at a fixed rate.
type HealthMonitor struct {
	session  *Session
	limiter  *rate.Limiter
	onStatus HealthFunc
}

// NewHealthMonitor probes at most once per interval. The first probe is immediate.
func NewHealthMonitor(session *Session, interval time.Duration, onStatus HealthFunc) *HealthMonitor {
	return &HealthMonitor{
		session:  session,
		limiter:  rate.NewLimiter(rate.Every(interval), 1),
		onStatus: onStatus,
	}
}

// Run probes until ctx is cancelled.
func (m *HealthMonitor) Run(ctx context.Context) {
	for {
		if err := m.limiter.Wait(ctx); err != nil {
			return
		}
		h, err := m.Probe(ctx)
		if ctx.Err() != nil {
			return
		}
		m.onStatus(h, err)
	}
}

// Probe performs one readiness check.
func (m *HealthMonitor) Probe(ctx context.Context) (analysis.Health, error) {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	return m.session.Health(ctx)
}
