// Package app provides application initialization and dependency injection.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/graph-guard/config"
	"github.com/guttosm/graph-guard/internal/circuitbreaker"
	"github.com/guttosm/graph-guard/internal/http"
	"github.com/guttosm/graph-guard/internal/metrics"
	"github.com/guttosm/graph-guard/internal/querycache"
	"github.com/guttosm/graph-guard/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

// App holds the wired application.
type App struct {
	Router   *gin.Engine
	Breakers *circuitbreaker.Registry
	Cache    *CacheComponents
	Graph    *GraphComponents
	Service  *service.GraphQueryService
}

// Option configures InitializeApp.
type Option func(*options)

type options struct {
	registerer prometheus.Registerer
}

// WithRegisterer sets where the cache and breaker collectors are registered.
// Defaults to prometheus.DefaultRegisterer.
func WithRegisterer(r prometheus.Registerer) Option {
	return func(o *options) {
		o.registerer = r
	}
}

// InitializeApp creates and wires all application dependencies.
func InitializeApp(cfg config.Config, opts ...Option) (*App, error) {
	o := options{registerer: prometheus.DefaultRegisterer}
	for _, opt := range opts {
		opt(&o)
	}

	InitializeLogger(cfg.Log)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	breakers, err := InitializeBreakers(cfg.CircuitBreaker)
	if err != nil {
		return nil, fmt.Errorf("circuit breaker defaults: %w", err)
	}

	remote, err := InitializeRemoteBackend(cfg)
	if err != nil {
		return nil, fmt.Errorf("remote cache: %w", err)
	}

	caches, err := InitializeCache(cfg.Cache, remote)
	if err != nil {
		closeRemote(remote)
		return nil, err
	}

	graph, err := InitializeGraph(cfg.Graph, breakers)
	if err != nil {
		caches.Cleaner.Stop()
		closeRemote(remote)
		return nil, err
	}

	register(o.registerer, metrics.NewBreakerCollector(breakers))
	register(o.registerer, metrics.NewCacheCollector(querycache.Namespace, caches.Local))

	svc := service.NewGraphQueryService(graph.Repo, caches.QueryCache)
	components := InitializeRouter(svc, caches, breakers, cfg)

	log.Info().
		Str("cache_mode", caches.QueryCache.Mode()).
		Int("cache_size", cfg.Cache.Size).
		Bool("graph_connected", graph.Driver != nil).
		Msg("Application initialized")

	return &App{
		Router:   http.NewRouter(components.Handler, components.HealthHandler, components.Config),
		Breakers: breakers,
		Cache:    caches,
		Graph:    graph,
		Service:  svc,
	}, nil
}

// Close stops the cache sweeper and releases the remote cache and graph
// driver. It should run after the HTTP server has drained.
func (a *App) Close(ctx context.Context) error {
	var errs []error

	if a.Cache != nil {
		a.Cache.Cleaner.Stop()
		if a.Cache.Remote != nil {
			if err := a.Cache.Remote.Close(ctx); err != nil {
				errs = append(errs, fmt.Errorf("close %s cache: %w", a.Cache.Remote.Name(), err))
			}
		}
	}
	if a.Graph != nil && a.Graph.Driver != nil {
		if err := a.Graph.Driver.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("close neo4j: %w", err))
		}
	}

	return errors.Join(errs...)
}

func closeRemote(remote querycache.RemoteBackend) {
	if remote != nil {
		_ = remote.Close(context.Background())
	}
}

func register(r prometheus.Registerer, c prometheus.Collector) {
	if err := r.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			return
		}
		log.Warn().Err(err).Msg("Failed to register metrics collector")
	}
}
