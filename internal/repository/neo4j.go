package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/config"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
)

// Neo4jConfig holds graph database connection configuration.
type Neo4jConfig struct {
	URI      string
	Username string
	Password string
	// Database selects the target database; empty uses the server default.
	Database string
	// MaxConnectionPoolSize bounds open connections.
	MaxConnectionPoolSize int
	// ConnectTimeout bounds the initial connectivity check.
	ConnectTimeout time.Duration
}

// DefaultNeo4jConfig returns local development settings.
func DefaultNeo4jConfig() Neo4jConfig {
	return Neo4jConfig{
		URI:                   "bolt://localhost:7687",
		Username:              "neo4j",
		Password:              "password",
		MaxConnectionPoolSize: 50,
		ConnectTimeout:        10 * time.Second,
	}
}

// Neo4jRepository runs Cypher through managed transactions.
type Neo4jRepository struct {
	driver   neo4j.DriverWithContext
	database string
}

// NewNeo4jRepository connects to Neo4j and verifies connectivity.
func NewNeo4jRepository(cfg Neo4jConfig) (*Neo4jRepository, error) {
	driver, err := neo4j.NewDriverWithContext(
		cfg.URI,
		neo4j.BasicAuth(cfg.Username, cfg.Password, ""),
		func(c *config.Config) {
			if cfg.MaxConnectionPoolSize > 0 {
				c.MaxConnectionPoolSize = cfg.MaxConnectionPoolSize
			}
		},
	)
	if err != nil {
		return nil, fmt.Errorf("create neo4j driver: %w", err)
	}

	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = DefaultNeo4jConfig().ConnectTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(context.Background())
		return nil, fmt.Errorf("verify neo4j connectivity: %w", err)
	}

	return &Neo4jRepository{driver: driver, database: cfg.Database}, nil
}

// ExecuteRead runs query in a read transaction and returns all records.
func (r *Neo4jRepository) ExecuteRead(ctx context.Context, query string, params map[string]any) ([]Record, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: r.database,
	})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		records, err := res.Collect(ctx)
		if err != nil {
			return nil, err
		}

		rows := make([]Record, 0, len(records))
		for _, rec := range records {
			rows = append(rows, flattenRecord(rec.AsMap()))
		}
		return rows, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]Record), nil
}

// ExecuteWrite runs query in a write transaction and returns its update counters.
func (r *Neo4jRepository) ExecuteWrite(ctx context.Context, query string, params map[string]any) (WriteSummary, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: r.database,
	})
	defer session.Close(ctx)

	result, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		summary, err := res.Consume(ctx)
		if err != nil {
			return nil, err
		}
		return summaryFromCounters(summary.Counters()), nil
	})
	if err != nil {
		return WriteSummary{}, err
	}
	return result.(WriteSummary), nil
}

// HealthCheck verifies the driver can reach the server.
func (r *Neo4jRepository) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return r.driver.VerifyConnectivity(ctx)
}

// Close closes the driver.
func (r *Neo4jRepository) Close(ctx context.Context) error {
	return r.driver.Close(ctx)
}

func summaryFromCounters(c neo4j.Counters) WriteSummary {
	return WriteSummary{
		NodesCreated:         c.NodesCreated(),
		NodesDeleted:         c.NodesDeleted(),
		RelationshipsCreated: c.RelationshipsCreated(),
		RelationshipsDeleted: c.RelationshipsDeleted(),
		PropertiesSet:        c.PropertiesSet(),
		LabelsAdded:          c.LabelsAdded(),
		LabelsRemoved:        c.LabelsRemoved(),
		ContainsUpdates:      c.ContainsUpdates(),
	}
}

// flattenRecord converts driver values into plain maps and slices so records
// can be JSON encoded.
func flattenRecord(m map[string]any) Record {
	out := make(Record, len(m))
	for k, v := range m {
		out[k] = flattenValue(v)
	}
	return out
}

func flattenValue(v any) any {
	switch val := v.(type) {
	case dbtype.Node:
		return map[string]any{
			"element_id": val.ElementId,
			"labels":     val.Labels,
			"properties": flattenRecord(val.Props),
		}
	case dbtype.Relationship:
		return map[string]any{
			"element_id":       val.ElementId,
			"type":             val.Type,
			"start_element_id": val.StartElementId,
			"end_element_id":   val.EndElementId,
			"properties":       flattenRecord(val.Props),
		}
	case dbtype.Path:
		nodes := make([]any, 0, len(val.Nodes))
		for _, n := range val.Nodes {
			nodes = append(nodes, flattenValue(n))
		}
		rels := make([]any, 0, len(val.Relationships))
		for _, rel := range val.Relationships {
			rels = append(rels, flattenValue(rel))
		}
		return map[string]any{"nodes": nodes, "relationships": rels}
	case dbtype.Date:
		return val.Time().Format(time.DateOnly)
	case dbtype.LocalDateTime:
		return val.Time().Format("2006-01-02T15:04:05.999999999")
	case dbtype.LocalTime:
		return val.Time().Format("15:04:05.999999999")
	case dbtype.Time:
		return val.Time().Format("15:04:05.999999999Z07:00")
	case time.Time:
		return val.Format(time.RFC3339Nano)
	case dbtype.Duration:
		return val.String()
	case dbtype.Point2D:
		return map[string]any{"srid": val.SpatialRefId, "x": val.X, "y": val.Y}
	case dbtype.Point3D:
		return map[string]any{"srid": val.SpatialRefId, "x": val.X, "y": val.Y, "z": val.Z}
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = flattenValue(item)
		}
		return out
	case map[string]any:
		return flattenRecord(val)
	default:
		return v
	}
}
