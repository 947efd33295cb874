package repository

import (
	"context"
	"errors"
)

// ErrGraphUnavailable is returned by UnavailableGraphRepository.
var ErrGraphUnavailable = errors.New("graph database is not configured")

// UnavailableGraphRepository stands in when the graph database is disabled
// or could not be reached at startup. Every call fails.
type UnavailableGraphRepository struct{}

// ExecuteRead returns ErrGraphUnavailable.
func (UnavailableGraphRepository) ExecuteRead(context.Context, string, map[string]any) ([]Record, error) {
	return nil, ErrGraphUnavailable
}

// ExecuteWrite returns ErrGraphUnavailable.
func (UnavailableGraphRepository) ExecuteWrite(context.Context, string, map[string]any) (WriteSummary, error) {
	return WriteSummary{}, ErrGraphUnavailable
}

// HealthCheck returns ErrGraphUnavailable.
func (UnavailableGraphRepository) HealthCheck(context.Context) error {
	return ErrGraphUnavailable
}
