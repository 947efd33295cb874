// Package service contains the graph query service that fronts the database
// with the query cache.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/guttosm/graph-guard/internal/metrics"
	"github.com/guttosm/graph-guard/internal/querycache"
	"github.com/guttosm/graph-guard/internal/repository"
	"github.com/rs/zerolog/log"
)

// ErrEmptyQuery is returned when the query text is blank.
var ErrEmptyQuery = errors.New("query must not be empty")

// Query kinds.
const (
	KindRead  = "read"
	KindWrite = "write"
)

// QueryResult is the outcome of Execute.
type QueryResult struct {
	Kind    string                   `json:"kind"`
	Records []repository.Record      `json:"records"`
	Summary *repository.WriteSummary `json:"summary,omitempty"`
	Cached  bool                     `json:"cached"`
}

// GraphQuerier defines the graph query operations.
type GraphQuerier interface {
	Read(ctx context.Context, query string, params map[string]any) ([]repository.Record, error)
	Write(ctx context.Context, query string, params map[string]any) (repository.WriteSummary, error)
	Execute(ctx context.Context, query string, params map[string]any) (QueryResult, error)
	HealthCheck(ctx context.Context) error
}

// GraphQueryService serves reads from the query cache when possible and
// invalidates it after writes.
type GraphQueryService struct {
	repo  repository.GraphRepositoryInterface
	cache *querycache.QueryCache
}

// NewGraphQueryService creates a service over repo and cache.
func NewGraphQueryService(repo repository.GraphRepositoryInterface, cache *querycache.QueryCache) *GraphQueryService {
	return &GraphQueryService{repo: repo, cache: cache}
}

// Read runs a read query. Cacheable queries are answered from the cache when
// present; non-empty results are stored with the TTL chosen for the query.
func (s *GraphQueryService) Read(ctx context.Context, query string, params map[string]any) ([]repository.Record, error) {
	rows, _, err := s.read(ctx, query, params)
	return rows, err
}

func (s *GraphQueryService) read(ctx context.Context, query string, params map[string]any) ([]repository.Record, bool, error) {
	if strings.TrimSpace(query) == "" {
		return nil, false, ErrEmptyQuery
	}

	start := time.Now()
	cacheable := querycache.IsCacheable(query)

	if cacheable {
		if rows, ok := s.cache.Get(ctx, query, params); ok {
			metrics.RecordGraphQuery(KindRead, time.Since(start), "cache_hit")
			log.Debug().Str("key", querycache.Key(query, params)).Msg("Query cache hit")
			return rows, true, nil
		}
	}

	rows, err := s.repo.ExecuteRead(ctx, query, params)
	if err != nil {
		metrics.RecordGraphQuery(KindRead, time.Since(start), "error")
		return nil, false, fmt.Errorf("execute read: %w", err)
	}
	metrics.RecordGraphQuery(KindRead, time.Since(start), "success")

	if cacheable && len(rows) > 0 {
		s.cache.Set(ctx, query, params, rows, 0)
		log.Debug().
			Str("key", querycache.Key(query, params)).
			Dur("ttl", s.cache.TTLFor(query)).
			Msg("Cached query result")
	}

	return rows, false, nil
}

// Write runs a write query and invalidates cached results for the labels it
// touches. Nothing is invalidated when the write fails.
func (s *GraphQueryService) Write(ctx context.Context, query string, params map[string]any) (repository.WriteSummary, error) {
	if strings.TrimSpace(query) == "" {
		return repository.WriteSummary{}, ErrEmptyQuery
	}

	start := time.Now()
	summary, err := s.repo.ExecuteWrite(ctx, query, params)
	if err != nil {
		metrics.RecordGraphQuery(KindWrite, time.Since(start), "error")
		return repository.WriteSummary{}, fmt.Errorf("execute write: %w", err)
	}
	metrics.RecordGraphQuery(KindWrite, time.Since(start), "success")

	if querycache.IsMutating(query) {
		s.cache.InvalidateForWrite(ctx, query)
	}
	return summary, nil
}

// Execute routes query to Write when it contains a write marker, otherwise to Read.
func (s *GraphQueryService) Execute(ctx context.Context, query string, params map[string]any) (QueryResult, error) {
	if querycache.IsMutating(query) {
		summary, err := s.Write(ctx, query, params)
		if err != nil {
			return QueryResult{}, err
		}
		return QueryResult{Kind: KindWrite, Summary: &summary}, nil
	}

	rows, cached, err := s.read(ctx, query, params)
	if err != nil {
		return QueryResult{}, err
	}
	if rows == nil {
		rows = []repository.Record{}
	}
	return QueryResult{Kind: KindRead, Records: rows, Cached: cached}, nil
}

// HealthCheck reports whether the graph database is reachable.
func (s *GraphQueryService) HealthCheck(ctx context.Context) error {
	return s.repo.HealthCheck(ctx)
}
