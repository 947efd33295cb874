// Package app provides backend initialization and setup.
package app

import (
	"fmt"

	"github.com/guttosm/graph-guard/config"
	"github.com/guttosm/graph-guard/internal/circuitbreaker"
	"github.com/guttosm/graph-guard/internal/querycache"
	"github.com/guttosm/graph-guard/internal/repository"
	"github.com/rs/zerolog/log"
)

// GraphBreakerName names the breaker guarding the graph database.
const GraphBreakerName = "neo4j"

// GraphComponents holds graph database components.
type GraphComponents struct {
	// Repo is the breaker-protected repository.
	Repo    *repository.GraphRepositoryWithCircuitBreaker
	Breaker *circuitbreaker.CircuitBreaker
	// Driver is nil when the graph database is disabled or unreachable.
	Driver *repository.Neo4jRepository
}

// InitializeGraph connects to Neo4j and wraps it with the registry's graph
// breaker. When Neo4j is disabled or unreachable the service keeps running
// against a repository that fails every call.
func InitializeGraph(cfg config.GraphConfig, breakers *circuitbreaker.Registry) (*GraphComponents, error) {
	cb, err := breakers.GetOrCreate(GraphBreakerName, nil)
	if err != nil {
		return nil, fmt.Errorf("create graph circuit breaker: %w", err)
	}

	components := &GraphComponents{Breaker: cb}

	var repo repository.GraphRepositoryInterface = repository.UnavailableGraphRepository{}
	if cfg.Enabled {
		neo4jCfg := repository.DefaultNeo4jConfig()
		neo4jCfg.URI = cfg.URI
		neo4jCfg.Username = cfg.User
		neo4jCfg.Password = cfg.Password
		neo4jCfg.Database = cfg.Database
		if cfg.MaxPoolSize > 0 {
			neo4jCfg.MaxConnectionPoolSize = cfg.MaxPoolSize
		}

		driver, err := repository.NewNeo4jRepository(neo4jCfg)
		if err != nil {
			log.Error().Err(err).Str("uri", cfg.URI).Msg("Failed to connect to Neo4j - continuing without graph database")
		} else {
			log.Info().Str("uri", cfg.URI).Msg("Connected to Neo4j")
			components.Driver = driver
			repo = driver
		}
	} else {
		log.Warn().Msg("Neo4j disabled - graph queries will fail")
	}

	components.Repo = repository.NewGraphRepositoryWithCircuitBreaker(repo, cb)
	return components, nil
}

// InitializeRemoteBackend returns the remote cache tier selected by
// CACHE_BACKEND, or nil for memory mode. An unreachable MongoDB degrades to
// memory mode; Redis connects lazily so it never does.
func InitializeRemoteBackend(cfg config.Config) (querycache.RemoteBackend, error) {
	switch cfg.Cache.Backend {
	case config.BackendRedis:
		backend, err := repository.NewRedisBackend(repository.RedisConfig{
			URL:      cfg.Redis.URL,
			Timeout:  cfg.Redis.Timeout,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err != nil {
			return nil, err
		}
		log.Info().Msg("Using Redis query cache")
		return backend, nil

	case config.BackendMongo:
		mongoCfg := repository.DefaultMongoConfig()
		if cfg.Mongo.CacheCollection != "" {
			mongoCfg.CacheCollection = cfg.Mongo.CacheCollection
		}
		db, err := repository.NewMongoDBWithConfig(cfg.Mongo.URI, cfg.Mongo.DatabaseName, mongoCfg)
		if err != nil {
			log.Error().Err(err).Msg("Failed to connect to MongoDB - continuing with memory cache")
			return nil, nil
		}
		log.Info().Str("collection", mongoCfg.CacheCollection).Msg("Using MongoDB query cache")
		return repository.NewMongoBackend(db), nil

	default:
		return nil, nil
	}
}
