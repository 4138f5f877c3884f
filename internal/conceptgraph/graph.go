// Package conceptgraph implements the in-memory concept relationship graph.
//
// The graph is a directed, labeled, weighted multigraph: nodes are concepts
// keyed by slug, and an edge is identified by the (from, to, type) triple.
// Edge strength follows a Hebbian reinforcement policy: strength only
// increases, and it increases when the edge is used. This makes Neighbors a
// MUTATING operation by contract: reading a node's outgoing edges strengthens
// them. The asymmetry with Dependents (a read-only reverse lookup) is part of
// the contract, not an oversight.
//
// The graph is process-lifetime state. It is never persisted.
package conceptgraph

import (
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/analogd/internal/slug"
)

// Reinforcement deltas. Strength starts at InitialStrength on edge creation
// and is capped at MaxStrength by every mutation path.
const (
	// InitialStrength is assigned to a newly created edge.
	InitialStrength = 0.3

	// RegisterBoost is applied when an existing edge is re-registered.
	RegisterBoost = 0.1

	// AccessBoost is applied to each outgoing edge returned by Neighbors.
	AccessBoost = 0.05

	// StrengthenBoost is applied by an explicit Strengthen call.
	StrengthenBoost = 0.15

	// MaxStrength is the ceiling for edge strength.
	MaxStrength = 1.0
)

// Node is a single concept in the graph.
type Node struct {
	// ID is the slug derived from Concept.
	ID string `json:"id"`

	// Concept is the original display text.
	Concept string `json:"concept"`

	// Created is when the node was first registered.
	Created time.Time `json:"created"`

	// AccessCount tracks forward traversals (Neighbors) and explicit
	// Strengthen calls. Register does not bump it.
	AccessCount int `json:"access_count"`

	// Metadata is an open key/value record, shallow-merged on re-register.
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Edge is a directed, typed, weighted connection between two nodes.
type Edge struct {
	From     string    `json:"from"`
	To       string    `json:"to"`
	Type     string    `json:"type"`
	Strength float64   `json:"strength"`
	Created  time.Time `json:"created"`
}

// Relationship is the register-time description of an outgoing edge.
type Relationship struct {
	Type   string `json:"type"`
	Target string `json:"target"`
}

// Neighbor is one hop returned by Neighbors or Dependents.
type Neighbor struct {
	Concept      string  `json:"concept"`
	Relationship string  `json:"relationship"`
	Strength     float64 `json:"strength"`
}

// PathHop is one edge along a path found by FindPath.
type PathHop struct {
	From         string  `json:"from"`
	To           string  `json:"to"`
	Relationship string  `json:"relationship"`
	Strength     float64 `json:"strength"`
}

// Impact describes one dependent concept affected by a change.
type Impact struct {
	Concept       string   `json:"concept"`
	AffectedEdges []string `json:"affected_edges"`
}

// TypedEdge is a result row from QueryByRelationship.
type TypedEdge struct {
	From     string  `json:"from"`
	To       string  `json:"to"`
	Strength float64 `json:"strength"`
}

// Stats holds aggregate graph statistics.
type Stats struct {
	NodeCount   int     `json:"node_count"`
	EdgeCount   int     `json:"edge_count"`
	AvgStrength float64 `json:"avg_strength"`
}

// Graph is the concept graph store. Construct with NewGraph and pass by
// reference; there is no package-level singleton.
type Graph struct {
	mu sync.Mutex

	nodes    map[string]*Node
	edges    []*Edge            // insertion order, for deterministic scans
	outgoing map[string][]*Edge // adjacency in insertion order
	byKey    map[edgeKey]*Edge

	logger *zap.Logger
	now    func() time.Time
}

type edgeKey struct {
	from, to, typ string
}

// NewGraph creates an empty concept graph. A nil logger is replaced with a
// nop logger.
func NewGraph(logger *zap.Logger) *Graph {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Graph{
		nodes:    make(map[string]*Node),
		outgoing: make(map[string][]*Edge),
		byKey:    make(map[edgeKey]*Edge),
		logger:   logger,
		now:      time.Now,
	}
}

// Register creates or updates the node for concept and returns its slug.
//
// Re-registering an existing concept shallow-merges metadata into the node
// instead of duplicating it, and does not change AccessCount. Each
// relationship ensures its target node exists (creating a bare placeholder if
// needed) and either reinforces the existing (from, to, type) edge by
// RegisterBoost or creates it at InitialStrength.
//
// Register never fails: unknown targets are silently created.
func (g *Graph) Register(concept string, relationships []Relationship, metadata map[string]any) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := g.ensureNode(concept)
	node := g.nodes[id]
	for k, v := range metadata {
		if node.Metadata == nil {
			node.Metadata = make(map[string]any)
		}
		node.Metadata[k] = v
	}

	for _, rel := range relationships {
		targetID := g.ensureNode(rel.Target)
		key := edgeKey{from: id, to: targetID, typ: rel.Type}
		if e, ok := g.byKey[key]; ok {
			e.Strength = capStrength(e.Strength + RegisterBoost)
			continue
		}
		e := &Edge{
			From:     id,
			To:       targetID,
			Type:     rel.Type,
			Strength: InitialStrength,
			Created:  g.now(),
		}
		g.edges = append(g.edges, e)
		g.outgoing[id] = append(g.outgoing[id], e)
		g.byKey[key] = e
	}

	g.logger.Debug("concept registered",
		zap.String("id", id),
		zap.Int("relationships", len(relationships)))

	return id
}

// Neighbors returns all outgoing edges of the concept's node.
//
// This is a mutating read: the node's AccessCount is incremented by one and
// every returned edge is reinforced by AccessBoost. An unknown concept yields
// an empty result and creates nothing.
func (g *Graph) Neighbors(concept string) []Neighbor {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := slug.Make(concept)
	node, ok := g.nodes[id]
	if !ok {
		return []Neighbor{}
	}

	node.AccessCount++

	out := g.outgoing[id]
	result := make([]Neighbor, 0, len(out))
	for _, e := range out {
		e.Strength = capStrength(e.Strength + AccessBoost)
		result = append(result, Neighbor{
			Concept:      g.nodes[e.To].Concept,
			Relationship: e.Type,
			Strength:     e.Strength,
		})
	}
	return result
}

// Dependents returns every edge pointing at the concept. Unlike Neighbors
// this is read-only: reverse lookups do not count as usage.
func (g *Graph) Dependents(concept string) []Neighbor {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := slug.Make(concept)
	result := []Neighbor{}
	for _, e := range g.edges {
		if e.To != id {
			continue
		}
		result = append(result, Neighbor{
			Concept:      g.nodes[e.From].Concept,
			Relationship: e.Type,
			Strength:     e.Strength,
		})
	}
	return result
}

// FindPath runs a breadth-first search from one concept to another over
// unweighted hop count. Strength is carried on each hop but does not affect
// traversal order.
//
// Returns (empty, true) when from and to resolve to the same node, and
// (nil, false) when either endpoint is unknown or no path exists. Equal-length
// paths tie-break by edge insertion order; callers must not rely on that
// being canonical.
func (g *Graph) FindPath(from, to string) ([]PathHop, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	fromID := slug.Make(from)
	toID := slug.Make(to)
	if _, ok := g.nodes[fromID]; !ok {
		return nil, false
	}
	if _, ok := g.nodes[toID]; !ok {
		return nil, false
	}
	if fromID == toID {
		return []PathHop{}, true
	}

	queue := []*pathVisit{{node: fromID}}
	seen := map[string]bool{fromID: true}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for _, e := range g.outgoing[cur.node] {
			if seen[e.To] {
				continue
			}
			next := &pathVisit{prev: cur, edge: e, node: e.To}
			if e.To == toID {
				return g.reconstructPath(next), true
			}
			seen[e.To] = true
			queue = append(queue, next)
		}
	}
	return nil, false
}

// pathVisit is a BFS frontier entry carrying its predecessor for path
// reconstruction.
type pathVisit struct {
	prev *pathVisit
	edge *Edge
	node string
}

func (g *Graph) reconstructPath(v *pathVisit) []PathHop {
	var hops []PathHop
	for cur := v; cur.edge != nil; cur = cur.prev {
		hops = append(hops, PathHop{
			From:         g.nodes[cur.edge.From].Concept,
			To:           g.nodes[cur.edge.To].Concept,
			Relationship: cur.edge.Type,
			Strength:     cur.edge.Strength,
		})
	}
	// Reverse into from->to order.
	for i, j := 0, len(hops)-1; i < j; i, j = i+1, j-1 {
		hops[i], hops[j] = hops[j], hops[i]
	}
	return hops
}

// ImpactAnalysis lists, for every node with at least one edge pointing at the
// concept, which relationship types would be affected if the concept changed.
func (g *Graph) ImpactAnalysis(concept string) []Impact {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := slug.Make(concept)

	var order []string
	types := make(map[string][]string)
	for _, e := range g.edges {
		if e.To != id {
			continue
		}
		if _, ok := types[e.From]; !ok {
			order = append(order, e.From)
		}
		types[e.From] = append(types[e.From], e.Type)
	}

	result := make([]Impact, 0, len(order))
	for _, from := range order {
		result = append(result, Impact{
			Concept:       g.nodes[from].Concept,
			AffectedEdges: types[from],
		})
	}
	return result
}

// QueryByRelationship returns every edge of the given type across the whole
// graph, sorted by strength descending. Used to find the most-reinforced
// relationships of a kind.
func (g *Graph) QueryByRelationship(relType string) []TypedEdge {
	g.mu.Lock()
	defer g.mu.Unlock()

	result := []TypedEdge{}
	for _, e := range g.edges {
		if e.Type != relType {
			continue
		}
		result = append(result, TypedEdge{
			From:     g.nodes[e.From].Concept,
			To:       g.nodes[e.To].Concept,
			Strength: e.Strength,
		})
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Strength > result[j].Strength
	})
	return result
}

// Strengthen bumps the node's access count and, when relType is non-empty,
// reinforces all outgoing edges of that type by StrengthenBoost. It returns
// the number of edges boosted and whether the concept exists. Unknown
// concepts are a no-op.
func (g *Graph) Strengthen(concept, relType string) (int, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := slug.Make(concept)
	node, ok := g.nodes[id]
	if !ok {
		return 0, false
	}

	node.AccessCount++
	if relType == "" {
		return 0, true
	}
	boosted := 0
	for _, e := range g.outgoing[id] {
		if e.Type == relType {
			e.Strength = capStrength(e.Strength + StrengthenBoost)
			boosted++
		}
	}
	return boosted, true
}

// Stats returns node count, edge count, and average edge strength.
func (g *Graph) Stats() Stats {
	g.mu.Lock()
	defer g.mu.Unlock()

	s := Stats{
		NodeCount: len(g.nodes),
		EdgeCount: len(g.edges),
	}
	if len(g.edges) == 0 {
		return s
	}
	var total float64
	for _, e := range g.edges {
		total += e.Strength
	}
	s.AvgStrength = total / float64(len(g.edges))
	return s
}

// Node returns a copy of the node record by concept text, if present.
// Primarily for tests and diagnostics; does not count as usage.
func (g *Graph) Node(concept string) (Node, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	node, ok := g.nodes[slug.Make(concept)]
	if !ok {
		return Node{}, false
	}
	return *node, true
}

// ensureNode creates the node for concept if absent and returns its slug.
// Caller must hold g.mu.
func (g *Graph) ensureNode(concept string) string {
	id := slug.Make(concept)
	if _, ok := g.nodes[id]; !ok {
		g.nodes[id] = &Node{
			ID:      id,
			Concept: concept,
			Created: g.now(),
		}
	}
	return id
}

func capStrength(s float64) float64 {
	if s > MaxStrength {
		return MaxStrength
	}
	return s
}
