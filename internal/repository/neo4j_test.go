//go:build !integration

package repository

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlattenRecord(t *testing.T) {
	alice := dbtype.Node{ElementId: "4:x:1", Labels: []string{"Person"}, Props: map[string]any{"name": "Alice"}}
	bob := dbtype.Node{ElementId: "4:x:2", Labels: []string{"Person"}, Props: map[string]any{"name": "Bob"}}
	knows := dbtype.Relationship{
		ElementId:      "5:x:1",
		Type:           "KNOWS",
		StartElementId: alice.ElementId,
		EndElementId:   bob.ElementId,
		Props:          map[string]any{"since": int64(2020)},
	}

	rec := flattenRecord(map[string]any{
		"n":     alice,
		"r":     knows,
		"p":     dbtype.Path{Nodes: []dbtype.Node{alice, bob}, Relationships: []dbtype.Relationship{knows}},
		"born":  dbtype.Date(time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC)),
		"names": []any{"a", alice},
		"count": int64(3),
	})

	node := rec["n"].(map[string]any)
	assert.Equal(t, []string{"Person"}, node["labels"])
	assert.Equal(t, Record{"name": "Alice"}, node["properties"])

	rel := rec["r"].(map[string]any)
	assert.Equal(t, "KNOWS", rel["type"])
	assert.Equal(t, "4:x:1", rel["start_element_id"])

	path := rec["p"].(map[string]any)
	assert.Len(t, path["nodes"], 2)
	assert.Len(t, path["relationships"], 1)

	assert.Equal(t, "1990-05-17", rec["born"])
	assert.Equal(t, int64(3), rec["count"])
	assert.IsType(t, map[string]any{}, rec["names"].([]any)[1])

	_, err := json.Marshal(rec)
	require.NoError(t, err)
}

func TestSummaryFromCounters(t *testing.T) {
	s := summaryFromCounters(fakeCounters{nodesCreated: 2, propertiesSet: 3})
	assert.Equal(t, 2, s.NodesCreated)
	assert.Equal(t, 3, s.PropertiesSet)
	assert.True(t, s.ContainsUpdates)
}

type fakeCounters struct {
	nodesCreated  int
	propertiesSet int
}

func (f fakeCounters) ContainsUpdates() bool { return f.nodesCreated+f.propertiesSet > 0 }
func (f fakeCounters) NodesCreated() int { return f.nodesCreated }
func (f fakeCounters) NodesDeleted() int { return 0 }
func (f fakeCounters) RelationshipsCreated() int { return 0 }
func (f fakeCounters) RelationshipsDeleted() int { return 0 }
func (f fakeCounters) PropertiesSet() int { return f.propertiesSet }
func (f fakeCounters) LabelsAdded() int { return 0 }
func (f fakeCounters) LabelsRemoved() int { return 0 }
func (f fakeCounters) IndexesAdded() int { return 0 }
func (f fakeCounters) IndexesRemoved() int { return 0 }
func (f fakeCounters) ConstraintsAdded() int { return 0 }
func (f fakeCounters) ConstraintsRemoved() int { return 0 }
func (f fakeCounters) SystemUpdates() int { return 0 }
func (f fakeCounters) ContainsSystemUpdates() bool { return false }
