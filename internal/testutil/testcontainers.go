//go:build integration

// Package testutil provides test utilities and testcontainers setup for integration tests.
package testutil

import (
	"context"
	"fmt"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	tcneo4j "github.com/testcontainers/testcontainers-go/modules/neo4j"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

// Neo4jPassword is the admin password of containers started by SetupNeo4j.
const Neo4jPassword = "integration-pass"

// Container wraps a started testcontainer and its connection URI.
type Container struct {
	Container testcontainers.Container
	URI       string
}

// MongoDBContainer wraps a MongoDB testcontainer.
type MongoDBContainer = Container

// SetupMongoDB creates and starts a MongoDB testcontainer.
// For better performance, consider using GetSharedMongoDB() from test_container.go with TestMain for container reuse.
func SetupMongoDB(ctx context.Context) (*MongoDBContainer, error) {
	// Use standard MongoDB image (alpine variant not available for 7.0)
	mongoContainer, err := mongodb.Run(ctx, "mongo:7.0")
	if err != nil {
		return nil, fmt.Errorf("failed to start MongoDB container: %w", err)
	}

	uri, err := mongoContainer.ConnectionString(ctx)
	if err != nil {
		_ = mongoContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	return &Container{Container: mongoContainer, URI: uri}, nil
}

// SetupRedis creates and starts a Redis testcontainer. URI is a redis:// URL.
func SetupRedis(ctx context.Context) (*Container, error) {
	redisContainer, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		return nil, fmt.Errorf("failed to start Redis container: %w", err)
	}

	uri, err := redisContainer.ConnectionString(ctx)
	if err != nil {
		_ = redisContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	return &Container{Container: redisContainer, URI: uri}, nil
}

// SetupNeo4j creates and starts a Neo4j testcontainer. URI is a bolt:// URL;
// the user is "neo4j" with Neo4jPassword.
func SetupNeo4j(ctx context.Context) (*Container, error) {
	neo4jContainer, err := tcneo4j.Run(ctx, "neo4j:5",
		tcneo4j.WithAdminPassword(Neo4jPassword),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start Neo4j container: %w", err)
	}

	uri, err := neo4jContainer.BoltUrl(ctx)
	if err != nil {
		_ = neo4jContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get bolt url: %w", err)
	}

	return &Container{Container: neo4jContainer, URI: uri}, nil
}

// Cleanup terminates the container.
func (c *Container) Cleanup(ctx context.Context) error {
	if c.Container != nil {
		if err := c.Container.Terminate(ctx); err != nil {
			return fmt.Errorf("failed to terminate container: %w", err)
		}
	}
	return nil
}
