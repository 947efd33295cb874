// Package app provides service initialization.
package app

import (
	"fmt"

	"github.com/guttosm/graph-guard/config"
	"github.com/guttosm/graph-guard/internal/cache"
	"github.com/guttosm/graph-guard/internal/circuitbreaker"
	"github.com/guttosm/graph-guard/internal/querycache"
)

// CacheComponents holds the query cache and its tiers.
type CacheComponents struct {
	Local      *cache.Cache[[]querycache.Record]
	Remote     querycache.RemoteBackend
	QueryCache *querycache.QueryCache
	Cleaner    *cache.Cleaner
}

// InitializeBreakers creates the breaker registry from configuration.
func InitializeBreakers(cfg config.CircuitBreakerConfig) (*circuitbreaker.Registry, error) {
	defaults := circuitbreaker.Config{
		FailureThreshold: cfg.FailureThreshold,
		SuccessThreshold: cfg.SuccessThreshold,
		Timeout:          cfg.Timeout,
		HalfOpenMaxCalls: cfg.HalfOpenMaxCalls,
	}
	if err := defaults.Validate(); err != nil {
		return nil, err
	}
	return circuitbreaker.NewRegistry(defaults), nil
}

// InitializeCache builds the local tier, wraps it with remote when set and
// starts the expiry sweeper.
func InitializeCache(cfg config.CacheConfig, remote querycache.RemoteBackend) (*CacheComponents, error) {
	local, err := cache.New[[]querycache.Record](cfg.Size, cfg.TTL, cache.WithName(querycache.Namespace))
	if err != nil {
		return nil, fmt.Errorf("create query cache: %w", err)
	}

	var store querycache.Store[[]querycache.Record]
	if remote != nil {
		store = querycache.NewHybridStore(remote, local, querycache.Namespace+":",
			querycache.WithRemoteTimeout(cfg.RemoteTimeout))
	} else {
		store = querycache.NewLocalStore(local)
	}

	cleaner, err := cache.NewCleaner(local, cfg.CleanupInterval, querycache.Namespace)
	if err != nil {
		return nil, fmt.Errorf("create cache cleaner: %w", err)
	}
	cleaner.Start()

	return &CacheComponents{
		Local:  local,
		Remote: remote,
		QueryCache: querycache.New(store, querycache.Config{
			DefaultTTL:  cfg.TTL,
			VolatileTTL: cfg.VolatileTTL,
		}),
		Cleaner: cleaner,
	}, nil
}
