package repository

import (
	"context"

	"github.com/guttosm/graph-guard/internal/circuitbreaker"
)

// GraphRepositoryWithCircuitBreaker wraps a graph repository with circuit breaker protection.
// Rejections are returned as circuitbreaker.ErrCircuitOpen or ErrTooManyTrialCalls.
type GraphRepositoryWithCircuitBreaker struct {
	repo           GraphRepositoryInterface
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewGraphRepositoryWithCircuitBreaker creates a new repository wrapper with circuit breaker.
func NewGraphRepositoryWithCircuitBreaker(repo GraphRepositoryInterface, cb *circuitbreaker.CircuitBreaker) *GraphRepositoryWithCircuitBreaker {
	return &GraphRepositoryWithCircuitBreaker{
		repo:           repo,
		circuitBreaker: cb,
	}
}

// ExecuteRead runs a read query with circuit breaker protection.
func (r *GraphRepositoryWithCircuitBreaker) ExecuteRead(ctx context.Context, query string, params map[string]any) ([]Record, error) {
	return circuitbreaker.Do(ctx, r.circuitBreaker, func(ctx context.Context) ([]Record, error) {
		return r.repo.ExecuteRead(ctx, query, params)
	})
}

// ExecuteWrite runs a write query with circuit breaker protection.
func (r *GraphRepositoryWithCircuitBreaker) ExecuteWrite(ctx context.Context, query string, params map[string]any) (WriteSummary, error) {
	return circuitbreaker.Do(ctx, r.circuitBreaker, func(ctx context.Context) (WriteSummary, error) {
		return r.repo.ExecuteWrite(ctx, query, params)
	})
}

// HealthCheck bypasses the breaker so readiness reflects the database itself.
func (r *GraphRepositoryWithCircuitBreaker) HealthCheck(ctx context.Context) error {
	return r.repo.HealthCheck(ctx)
}

// GetCircuitBreaker returns the underlying circuit breaker for monitoring.
func (r *GraphRepositoryWithCircuitBreaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return r.circuitBreaker
}
