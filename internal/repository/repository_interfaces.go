package repository

import "context"

// Record is a single result row keyed by column name.
type Record = map[string]any

// WriteSummary reports what a write query changed.
type WriteSummary struct {
	NodesCreated         int  `json:"nodes_created"`
	NodesDeleted         int  `json:"nodes_deleted"`
	RelationshipsCreated int  `json:"relationships_created"`
	RelationshipsDeleted int  `json:"relationships_deleted"`
	PropertiesSet        int  `json:"properties_set"`
	LabelsAdded          int  `json:"labels_added"`
	LabelsRemoved        int  `json:"labels_removed"`
	ContainsUpdates      bool `json:"contains_updates"`
}

// GraphRepositoryInterface defines the graph database operations.
type GraphRepositoryInterface interface {
	ExecuteRead(ctx context.Context, query string, params map[string]any) ([]Record, error)
	ExecuteWrite(ctx context.Context, query string, params map[string]any) (WriteSummary, error)
	HealthCheck(ctx context.Context) error
}
