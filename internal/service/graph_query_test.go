package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/guttosm/graph-guard/internal/cache"
	"github.com/guttosm/graph-guard/internal/circuitbreaker"
	"github.com/guttosm/graph-guard/internal/mocks"
	"github.com/guttosm/graph-guard/internal/querycache"
	"github.com/guttosm/graph-guard/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*GraphQueryService, *mocks.MockGraphRepositoryInterface, *cache.Cache[[]querycache.Record]) {
	t.Helper()
	local, err := cache.New[[]querycache.Record](32, time.Minute)
	require.NoError(t, err)
	repo := new(mocks.MockGraphRepositoryInterface)
	qc := querycache.New(querycache.NewLocalStore(local), querycache.DefaultConfig())
	return NewGraphQueryService(repo, qc), repo, local
}

func TestGraphQueryService_ReadCachesNonEmptyResults(t *testing.T) {
	ctx := context.Background()
	svc, repo, local := newTestService(t)
	query := "MATCH (n:Person) RETURN n.name AS name"
	rows := []repository.Record{{"name": "Alice"}}
	repo.On("ExecuteRead", mock.Anything, query, mock.Anything).Return(rows, nil).Once()

	got, err := svc.Read(ctx, query, nil)
	require.NoError(t, err)
	assert.Equal(t, rows, got)

	got, err = svc.Read(ctx, query, nil)
	require.NoError(t, err)
	assert.Equal(t, rows, got)

	repo.AssertNumberOfCalls(t, "ExecuteRead", 1)
	info, ok := local.Inspect(querycache.Key(query, nil))
	require.True(t, ok)
	assert.Equal(t, int64(1), info.HitCount)
}

func TestGraphQueryService_ReadDoesNotCacheEmptyResults(t *testing.T) {
	ctx := context.Background()
	svc, repo, local := newTestService(t)
	query := "MATCH (n:Ghost) RETURN n"
	repo.On("ExecuteRead", mock.Anything, query, mock.Anything).Return([]repository.Record{}, nil)

	_, err := svc.Read(ctx, query, nil)
	require.NoError(t, err)
	_, err = svc.Read(ctx, query, nil)
	require.NoError(t, err)

	repo.AssertNumberOfCalls(t, "ExecuteRead", 2)
	assert.Equal(t, 0, local.Len())
}

func TestGraphQueryService_ReadSkipsCacheForNonCacheable(t *testing.T) {
	ctx := context.Background()
	svc, repo, local := newTestService(t)
	query := "SHOW DATABASES"
	repo.On("ExecuteRead", mock.Anything, query, mock.Anything).Return([]repository.Record{{"name": "neo4j"}}, nil)

	_, err := svc.Read(ctx, query, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, local.Len())
	assert.Equal(t, int64(0), local.Metrics().Misses, "non-cacheable queries never consult the cache")
}

func TestGraphQueryService_ReadError(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestService(t)
	repo.On("ExecuteRead", mock.Anything, mock.Anything, mock.Anything).Return(nil, circuitbreaker.ErrCircuitOpen)

	_, err := svc.Read(ctx, "MATCH (n) RETURN n", nil)
	assert.ErrorIs(t, err, circuitbreaker.ErrCircuitOpen)
}

func TestGraphQueryService_EmptyQuery(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestService(t)

	_, err := svc.Read(ctx, "  ", nil)
	assert.ErrorIs(t, err, ErrEmptyQuery)
	_, err = svc.Write(ctx, "", nil)
	assert.ErrorIs(t, err, ErrEmptyQuery)
	repo.AssertExpectations(t)
}

func TestGraphQueryService_WriteInvalidates(t *testing.T) {
	ctx := context.Background()
	svc, repo, local := newTestService(t)
	read := "MATCH (n:Person) RETURN n.name AS name"
	write := "CREATE (n:Person {name: $name})"

	repo.On("ExecuteRead", mock.Anything, read, mock.Anything).Return([]repository.Record{{"name": "Alice"}}, nil)
	repo.On("ExecuteWrite", mock.Anything, write, mock.Anything).
		Return(repository.WriteSummary{NodesCreated: 1, ContainsUpdates: true}, nil)

	_, err := svc.Read(ctx, read, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, local.Len())

	summary, err := svc.Write(ctx, write, map[string]any{"name": "Bob"})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.NodesCreated)
	assert.Equal(t, 0, local.Len())

	_, err = svc.Read(ctx, read, nil)
	require.NoError(t, err)
	repo.AssertNumberOfCalls(t, "ExecuteRead", 2)
}

func TestGraphQueryService_FailedWriteKeepsCache(t *testing.T) {
	ctx := context.Background()
	svc, repo, local := newTestService(t)
	local.Set("query:keep", []querycache.Record{})
	repo.On("ExecuteWrite", mock.Anything, mock.Anything, mock.Anything).
		Return(repository.WriteSummary{}, errors.New("constraint violation"))

	_, err := svc.Write(ctx, "CREATE (n:Person)", nil)
	assert.Error(t, err)
	assert.Equal(t, 1, local.Len())
}

func TestGraphQueryService_Execute(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestService(t)
	read := "MATCH (n) RETURN count(n) AS c"
	repo.On("ExecuteRead", mock.Anything, read, mock.Anything).Return([]repository.Record{{"c": int64(2)}}, nil).Once()
	repo.On("ExecuteWrite", mock.Anything, "MERGE (t:Tag {name: 'go'})", mock.Anything).
		Return(repository.WriteSummary{NodesCreated: 1}, nil)

	res, err := svc.Execute(ctx, read, nil)
	require.NoError(t, err)
	assert.Equal(t, KindRead, res.Kind)
	assert.False(t, res.Cached)

	res, err = svc.Execute(ctx, read, nil)
	require.NoError(t, err)
	assert.True(t, res.Cached)
	assert.Len(t, res.Records, 1)

	res, err = svc.Execute(ctx, "MERGE (t:Tag {name: 'go'})", nil)
	require.NoError(t, err)
	assert.Equal(t, KindWrite, res.Kind)
	require.NotNil(t, res.Summary)
	assert.Equal(t, 1, res.Summary.NodesCreated)
}

func TestGraphQueryService_HealthCheck(t *testing.T) {
	svc, repo, _ := newTestService(t)
	repo.On("HealthCheck", mock.Anything).Return(errors.New("down"))

	assert.Error(t, svc.HealthCheck(context.Background()))
}
