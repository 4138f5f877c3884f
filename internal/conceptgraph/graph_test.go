package conceptgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterIsIdempotentForNodes(t *testing.T) {
	g := NewGraph(nil)

	id1 := g.Register("Message Queue", nil, nil)
	id2 := g.Register("message queue", nil, nil)

	assert.Equal(t, id1, id2)
	assert.Equal(t, 1, g.Stats().NodeCount)

	node, ok := g.Node("Message Queue")
	require.True(t, ok)
	assert.Equal(t, 0, node.AccessCount, "register must not count as access")
}

func TestRegisterMergesMetadata(t *testing.T) {
	g := NewGraph(nil)

	g.Register("cache", nil, map[string]any{"layer": "infra", "ttl": 60})
	g.Register("cache", nil, map[string]any{"ttl": 120, "eviction": "lru"})

	node, ok := g.Node("cache")
	require.True(t, ok)
	assert.Equal(t, "infra", node.Metadata["layer"])
	assert.Equal(t, 120, node.Metadata["ttl"], "later registration wins on shared keys")
	assert.Equal(t, "lru", node.Metadata["eviction"])
}

func TestRegisterCreatesPlaceholderTargets(t *testing.T) {
	g := NewGraph(nil)

	g.Register("web server", []Relationship{{Type: "depends_on", Target: "database"}}, nil)

	stats := g.Stats()
	assert.Equal(t, 2, stats.NodeCount)
	assert.Equal(t, 1, stats.EdgeCount)

	_, ok := g.Node("database")
	assert.True(t, ok, "unknown target must be created as a placeholder node")
}

func TestRegisterReinforcesExistingEdge(t *testing.T) {
	g := NewGraph(nil)
	rel := []Relationship{{Type: "depends_on", Target: "database"}}

	g.Register("api", rel, nil)
	first := g.Dependents("database")
	require.Len(t, first, 1)
	assert.InDelta(t, InitialStrength, first[0].Strength, 1e-9)

	prev := first[0].Strength
	for i := 0; i < 20; i++ {
		g.Register("api", rel, nil)
		deps := g.Dependents("database")
		require.Len(t, deps, 1, "re-registering the same triple must not duplicate the edge")
		cur := deps[0].Strength
		if prev < MaxStrength {
			assert.Greater(t, cur, prev, "strength must strictly increase until the cap")
		}
		assert.LessOrEqual(t, cur, MaxStrength)
		prev = cur
	}
	assert.InDelta(t, MaxStrength, prev, 1e-9)
}

func TestNeighborsIsAMutatingRead(t *testing.T) {
	g := NewGraph(nil)
	g.Register("kitchen", []Relationship{
		{Type: "coordinates_with", Target: "expeditor"},
		{Type: "depends_on", Target: "pantry"},
	}, nil)

	neighbors := g.Neighbors("kitchen")
	require.Len(t, neighbors, 2)

	// Each returned edge picked up one AccessBoost.
	for _, n := range neighbors {
		assert.InDelta(t, InitialStrength+AccessBoost, n.Strength, 1e-9)
	}

	node, ok := g.Node("kitchen")
	require.True(t, ok)
	assert.Equal(t, 1, node.AccessCount)

	// A second read reinforces again.
	neighbors = g.Neighbors("kitchen")
	for _, n := range neighbors {
		assert.InDelta(t, InitialStrength+2*AccessBoost, n.Strength, 1e-9)
	}
	node, _ = g.Node("kitchen")
	assert.Equal(t, 2, node.AccessCount)
}

func TestNeighborsUnknownConceptCreatesNothing(t *testing.T) {
	g := NewGraph(nil)

	neighbors := g.Neighbors("ghost")
	assert.Empty(t, neighbors)
	assert.Equal(t, 0, g.Stats().NodeCount)
}

func TestDependentsIsReadOnly(t *testing.T) {
	g := NewGraph(nil)
	g.Register("scheduler", []Relationship{{Type: "flows_to", Target: "worker"}}, nil)

	before := g.Dependents("worker")
	require.Len(t, before, 1)
	strength := before[0].Strength

	after := g.Dependents("worker")
	require.Len(t, after, 1)
	assert.Equal(t, strength, after[0].Strength, "reverse lookup must not reinforce")

	node, ok := g.Node("worker")
	require.True(t, ok)
	assert.Equal(t, 0, node.AccessCount)
}

func TestFindPath(t *testing.T) {
	g := NewGraph(nil)
	g.Register("a", []Relationship{{Type: "flows_to", Target: "b"}}, nil)
	g.Register("b", []Relationship{{Type: "flows_to", Target: "c"}}, nil)
	g.Register("d", nil, nil)

	t.Run("same node returns empty path", func(t *testing.T) {
		hops, ok := g.FindPath("a", "a")
		assert.True(t, ok)
		assert.Empty(t, hops)
	})

	t.Run("two hop path", func(t *testing.T) {
		hops, ok := g.FindPath("a", "c")
		require.True(t, ok)
		require.Len(t, hops, 2)
		assert.Equal(t, "a", hops[0].From)
		assert.Equal(t, "b", hops[0].To)
		assert.Equal(t, "b", hops[1].From)
		assert.Equal(t, "c", hops[1].To)
	})

	t.Run("disconnected nodes report no path", func(t *testing.T) {
		hops, ok := g.FindPath("a", "d")
		assert.False(t, ok)
		assert.Nil(t, hops)
	})

	t.Run("unknown endpoint reports no path", func(t *testing.T) {
		_, ok := g.FindPath("a", "nowhere")
		assert.False(t, ok)
		_, ok = g.FindPath("nowhere", "a")
		assert.False(t, ok)
	})

	t.Run("edges are not traversed backwards", func(t *testing.T) {
		_, ok := g.FindPath("c", "a")
		assert.False(t, ok)
	})
}

func TestFindPathPrefersShortestHopCount(t *testing.T) {
	g := NewGraph(nil)
	// Long route a->x->y->z, short route a->z.
	g.Register("a", []Relationship{{Type: "flows_to", Target: "x"}}, nil)
	g.Register("x", []Relationship{{Type: "flows_to", Target: "y"}}, nil)
	g.Register("y", []Relationship{{Type: "flows_to", Target: "z"}}, nil)
	g.Register("a", []Relationship{{Type: "flows_to", Target: "z"}}, nil)

	hops, ok := g.FindPath("a", "z")
	require.True(t, ok)
	assert.Len(t, hops, 1)
}

func TestImpactAnalysis(t *testing.T) {
	g := NewGraph(nil)
	g.Register("api", []Relationship{
		{Type: "depends_on", Target: "database"},
		{Type: "flows_to", Target: "database"},
	}, nil)
	g.Register("reporting", []Relationship{{Type: "depends_on", Target: "database"}}, nil)

	impacts := g.ImpactAnalysis("database")
	require.Len(t, impacts, 2)
	assert.Equal(t, "api", impacts[0].Concept)
	assert.ElementsMatch(t, []string{"depends_on", "flows_to"}, impacts[0].AffectedEdges)
	assert.Equal(t, "reporting", impacts[1].Concept)
	assert.Equal(t, []string{"depends_on"}, impacts[1].AffectedEdges)

	assert.Empty(t, g.ImpactAnalysis("island"))
}

func TestQueryByRelationshipSortsByStrength(t *testing.T) {
	g := NewGraph(nil)
	g.Register("a", []Relationship{{Type: "depends_on", Target: "b"}}, nil)
	g.Register("c", []Relationship{{Type: "depends_on", Target: "d"}}, nil)
	g.Register("e", []Relationship{{Type: "flows_to", Target: "f"}}, nil)

	// Reinforce c->d above a->b.
	g.Register("c", []Relationship{{Type: "depends_on", Target: "d"}}, nil)

	edges := g.QueryByRelationship("depends_on")
	require.Len(t, edges, 2)
	assert.Equal(t, "c", edges[0].From)
	assert.GreaterOrEqual(t, edges[0].Strength, edges[1].Strength)
}

func TestStrengthen(t *testing.T) {
	g := NewGraph(nil)
	g.Register("queue", []Relationship{
		{Type: "flows_to", Target: "worker"},
		{Type: "depends_on", Target: "broker"},
	}, nil)

	boosted, ok := g.Strengthen("queue", "flows_to")
	assert.True(t, ok)
	assert.Equal(t, 1, boosted)

	neighbors := g.Dependents("worker")
	require.Len(t, neighbors, 1)
	assert.InDelta(t, InitialStrength+StrengthenBoost, neighbors[0].Strength, 1e-9)

	// Untyped edges were untouched.
	deps := g.Dependents("broker")
	require.Len(t, deps, 1)
	assert.InDelta(t, InitialStrength, deps[0].Strength, 1e-9)

	node, ok := g.Node("queue")
	require.True(t, ok)
	assert.Equal(t, 1, node.AccessCount)

	// Unknown concept is a no-op, not an error.
	_, ok = g.Strengthen("missing", "depends_on")
	assert.False(t, ok)
}

func TestStats(t *testing.T) {
	g := NewGraph(nil)
	assert.Equal(t, Stats{}, g.Stats())

	g.Register("a", []Relationship{{Type: "flows_to", Target: "b"}}, nil)
	stats := g.Stats()
	assert.Equal(t, 2, stats.NodeCount)
	assert.Equal(t, 1, stats.EdgeCount)
	assert.InDelta(t, InitialStrength, stats.AvgStrength, 1e-9)
}
