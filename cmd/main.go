// Package main is the entry point for the graph-guard gateway.
//
// @title           Graph Guard API
// @version         1.0.0
// @description     Caching and circuit-breaking gateway in front of a Neo4j graph database.
//
//	Read queries are answered from a bounded LRU cache, optionally backed by Redis or MongoDB.
//	Writes invalidate cached results for the labels they touch. Every database call is
//	guarded by a circuit breaker.
//
// @contact.name   API Support
// @contact.url    https://github.com/guttosm/graph-guard
//
// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT
//
// @host      localhost:8080
// @BasePath  /
//
// @tag.name        Query
// @tag.description Cypher query execution
//
// @tag.name        Cache
// @tag.description Query cache inspection and invalidation
//
// @tag.name        Circuit Breakers
// @tag.description Circuit breaker inspection and reset
//
// @tag.name        Health
// @tag.description Health check endpoints
package main

import (
	_ "github.com/guttosm/graph-guard/docs" // swagger docs

	"github.com/guttosm/graph-guard/config"
	"github.com/guttosm/graph-guard/internal/app"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Load()

	application, err := app.InitializeApp(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize application")
	}

	server := app.NewServer(application.Router, cfg.Server.Port,
		app.WithShutdownTimeout(cfg.Server.ShutdownTimeout),
		app.WithShutdownHook(application.Close),
	)

	if err := server.Run(); err != nil {
		log.Fatal().Err(err).Msg("Server error")
	}
}
