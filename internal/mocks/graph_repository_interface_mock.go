// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/guttosm/graph-guard/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockGraphRepositoryInterface struct {
	mock.Mock
}

func (m *MockGraphRepositoryInterface) ExecuteRead(ctx context.Context, query string, params map[string]any) ([]repository.Record, error) {
	args := m.Called(ctx, query, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.Record), args.Error(1)
}

func (m *MockGraphRepositoryInterface) ExecuteWrite(ctx context.Context, query string, params map[string]any) (repository.WriteSummary, error) {
	args := m.Called(ctx, query, params)
	return args.Get(0).(repository.WriteSummary), args.Error(1)
}

func (m *MockGraphRepositoryInterface) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
