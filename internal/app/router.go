// Package app provides router configuration.
package app

import (
	"context"

	"github.com/guttosm/graph-guard/config"
	"github.com/guttosm/graph-guard/internal/circuitbreaker"
	"github.com/guttosm/graph-guard/internal/http"
	"github.com/guttosm/graph-guard/internal/service"
)

// RouterComponents holds router-related components.
type RouterComponents struct {
	Handler       *http.Handler
	HealthHandler *http.HealthHandler
	Config        http.RouterConfig
}

// InitializeRouter initializes HTTP handlers and router configuration.
func InitializeRouter(
	querier service.GraphQuerier,
	caches *CacheComponents,
	breakers *circuitbreaker.Registry,
	cfg config.Config,
) *RouterComponents {
	handler := http.NewHandler(querier, caches.QueryCache, breakers)

	healthHandler := http.NewHealthHandler(breakers)
	healthHandler.RegisterChecker("graph", http.HealthCheckFunc(querier.HealthCheck))
	if caches.Remote != nil {
		remote := caches.Remote
		healthHandler.RegisterChecker(remote.Name(), http.HealthCheckFunc(func(ctx context.Context) error {
			return remote.Ping(ctx)
		}))
	}

	return &RouterComponents{
		Handler:       handler,
		HealthHandler: healthHandler,
		Config: http.RouterConfig{
			CORSOrigins:    cfg.Server.CORSOrigins,
			RequestTimeout: cfg.Server.RequestTimeout,
			SwaggerUser:    cfg.Server.SwaggerUser,
			SwaggerPass:    cfg.Server.SwaggerPass,
		},
	}
}
