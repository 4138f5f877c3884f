package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/fyrsmithlabs/analogd/internal/conceptgraph"
)

// ===== CONCEPT GRAPH TOOLS =====

type conceptRelationship struct {
	Type   string `json:"type" jsonschema:"required,Relationship type (e.g. depends_on, flows_to)"`
	Target string `json:"target" jsonschema:"required,Target concept text"`
}

type conceptRegisterInput struct {
	Concept       string                `json:"concept" jsonschema:"required,Concept text to register"`
	Relationships []conceptRelationship `json:"relationships,omitempty" jsonschema:"Outgoing relationships to other concepts"`
	Metadata      map[string]any        `json:"metadata,omitempty" jsonschema:"Arbitrary metadata merged into the node"`
}

type conceptRegisterOutput struct {
	ID        string `json:"id" jsonschema:"Slug identifying the registered concept"`
	NodeCount int    `json:"node_count" jsonschema:"Total nodes after registration"`
	EdgeCount int    `json:"edge_count" jsonschema:"Total edges after registration"`
}

type conceptQueryInput struct {
	Concept          string `json:"concept,omitempty" jsonschema:"Concept to query (required for every query type except relationship)"`
	QueryType        string `json:"query_type,omitempty" jsonschema:"Query type: neighbors, dependents, path, impact, or relationship (default: neighbors)"`
	Target           string `json:"target,omitempty" jsonschema:"Destination concept (path queries only)"`
	RelationshipType string `json:"relationship_type,omitempty" jsonschema:"Edge type to enumerate (relationship queries only)"`
}

type conceptQueryOutput struct {
	QueryType string                   `json:"query_type" jsonschema:"Query type that produced this result"`
	Neighbors []conceptgraph.Neighbor  `json:"neighbors,omitempty" jsonschema:"Neighbors (neighbors and dependents queries)"`
	Path      []conceptgraph.PathHop   `json:"path,omitempty" jsonschema:"Hops from source to target (path queries)"`
	PathFound bool                     `json:"path_found,omitempty" jsonschema:"Whether a path exists (path queries)"`
	Impacts   []conceptgraph.Impact    `json:"impacts,omitempty" jsonschema:"Transitively affected concepts (impact queries)"`
	Edges     []conceptgraph.TypedEdge `json:"edges,omitempty" jsonschema:"Edges of the requested type (relationship queries)"`
}

type conceptStrengthenInput struct {
	Concept          string `json:"concept" jsonschema:"required,Concept whose edges to reinforce"`
	RelationshipType string `json:"relationship_type,omitempty" jsonschema:"Only edges of this type are boosted; empty boosts nothing but still counts an access"`
}

type conceptStrengthenOutput struct {
	Found        bool `json:"found" jsonschema:"Whether the concept exists"`
	EdgesBoosted int  `json:"edges_boosted" jsonschema:"Number of edges reinforced"`
}

type conceptStatsInput struct{}

type conceptStatsOutput struct {
	NodeCount   int     `json:"node_count" jsonschema:"Total concept nodes"`
	EdgeCount   int     `json:"edge_count" jsonschema:"Total edges"`
	AvgStrength float64 `json:"avg_strength" jsonschema:"Mean edge strength"`
}

func (s *Server) registerConceptTools() {
	// concept_register
	s.tools = append(s.tools, "concept_register")
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "concept_register",
		Description: "Register a concept in the graph with optional relationships and metadata; repeated registration reinforces existing edges",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args conceptRegisterInput) (*mcp.CallToolResult, conceptRegisterOutput, error) {
		start := time.Now()
		s.metrics.IncrementActive(ctx, "concept_register")
		var toolErr error
		defer func() {
			s.metrics.DecrementActive(ctx, "concept_register")
			s.metrics.RecordInvocation(ctx, "concept_register", time.Since(start), toolErr)
		}()

		var details []string
		if strings.TrimSpace(args.Concept) == "" {
			details = append(details, "concept must not be empty")
		}
		for i, r := range args.Relationships {
			if strings.TrimSpace(r.Type) == "" {
				details = append(details, fmt.Sprintf("relationships[%d].type must not be empty", i))
			}
			if strings.TrimSpace(r.Target) == "" {
				details = append(details, fmt.Sprintf("relationships[%d].target must not be empty", i))
			}
		}
		if len(details) > 0 {
			toolErr = validationError(details)
			return nil, conceptRegisterOutput{}, toolErr
		}

		rels := make([]conceptgraph.Relationship, 0, len(args.Relationships))
		for _, r := range args.Relationships {
			rels = append(rels, conceptgraph.Relationship{Type: r.Type, Target: r.Target})
		}

		id := s.graph.Register(args.Concept, rels, args.Metadata)
		stats := s.graph.Stats()

		result := conceptRegisterOutput{
			ID:        id,
			NodeCount: stats.NodeCount,
			EdgeCount: stats.EdgeCount,
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Concept registered: %s", id)},
			},
		}, result, nil
	})

	// concept_query
	s.tools = append(s.tools, "concept_query")
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "concept_query",
		Description: "Query the concept graph: neighbors, dependents, shortest path, impact analysis, or all edges of one relationship type",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args conceptQueryInput) (*mcp.CallToolResult, conceptQueryOutput, error) {
		start := time.Now()
		s.metrics.IncrementActive(ctx, "concept_query")
		var toolErr error
		defer func() {
			s.metrics.DecrementActive(ctx, "concept_query")
			s.metrics.RecordInvocation(ctx, "concept_query", time.Since(start), toolErr)
		}()

		queryType := args.QueryType
		if queryType == "" {
			queryType = "neighbors"
		}

		var details []string
		switch queryType {
		case "neighbors", "dependents", "impact":
			if strings.TrimSpace(args.Concept) == "" {
				details = append(details, "concept must not be empty")
			}
		case "path":
			if strings.TrimSpace(args.Concept) == "" {
				details = append(details, "concept must not be empty")
			}
			if strings.TrimSpace(args.Target) == "" {
				details = append(details, "target must not be empty for path queries")
			}
		case "relationship":
			if strings.TrimSpace(args.RelationshipType) == "" {
				details = append(details, "relationship_type must not be empty for relationship queries")
			}
		default:
			details = append(details, fmt.Sprintf("query_type %q is not one of: neighbors, dependents, path, impact, relationship", queryType))
		}
		if len(details) > 0 {
			toolErr = validationError(details)
			return nil, conceptQueryOutput{}, toolErr
		}

		result := conceptQueryOutput{QueryType: queryType}
		var summary string

		switch queryType {
		case "neighbors":
			result.Neighbors = s.graph.Neighbors(args.Concept)
			summary = fmt.Sprintf("%d neighbors of %q", len(result.Neighbors), args.Concept)
		case "dependents":
			result.Neighbors = s.graph.Dependents(args.Concept)
			summary = fmt.Sprintf("%d dependents of %q", len(result.Neighbors), args.Concept)
		case "path":
			result.Path, result.PathFound = s.graph.FindPath(args.Concept, args.Target)
			if result.PathFound {
				summary = fmt.Sprintf("path from %q to %q in %d hops", args.Concept, args.Target, len(result.Path))
			} else {
				summary = fmt.Sprintf("no path from %q to %q", args.Concept, args.Target)
			}
		case "impact":
			result.Impacts = s.graph.ImpactAnalysis(args.Concept)
			summary = fmt.Sprintf("%d concepts affected by %q", len(result.Impacts), args.Concept)
		case "relationship":
			result.Edges = s.graph.QueryByRelationship(args.RelationshipType)
			summary = fmt.Sprintf("%d edges of type %q", len(result.Edges), args.RelationshipType)
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: summary},
			},
		}, result, nil
	})

	// concept_strengthen
	s.tools = append(s.tools, "concept_strengthen")
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "concept_strengthen",
		Description: "Explicitly reinforce a concept's outgoing edges of one relationship type",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args conceptStrengthenInput) (*mcp.CallToolResult, conceptStrengthenOutput, error) {
		start := time.Now()
		s.metrics.IncrementActive(ctx, "concept_strengthen")
		var toolErr error
		defer func() {
			s.metrics.DecrementActive(ctx, "concept_strengthen")
			s.metrics.RecordInvocation(ctx, "concept_strengthen", time.Since(start), toolErr)
		}()

		if strings.TrimSpace(args.Concept) == "" {
			toolErr = validationError([]string{"concept must not be empty"})
			return nil, conceptStrengthenOutput{}, toolErr
		}

		boosted, found := s.graph.Strengthen(args.Concept, args.RelationshipType)
		result := conceptStrengthenOutput{Found: found, EdgesBoosted: boosted}

		text := fmt.Sprintf("Strengthened %d edges of %q", boosted, args.Concept)
		if !found {
			text = fmt.Sprintf("Concept %q not found", args.Concept)
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: text},
			},
		}, result, nil
	})

	// concept_stats
	s.tools = append(s.tools, "concept_stats")
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "concept_stats",
		Description: "Aggregate statistics over the concept graph",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args conceptStatsInput) (*mcp.CallToolResult, conceptStatsOutput, error) {
		start := time.Now()
		s.metrics.IncrementActive(ctx, "concept_stats")
		var toolErr error
		defer func() {
			s.metrics.DecrementActive(ctx, "concept_stats")
			s.metrics.RecordInvocation(ctx, "concept_stats", time.Since(start), toolErr)
		}()

		stats := s.graph.Stats()
		result := conceptStatsOutput{
			NodeCount:   stats.NodeCount,
			EdgeCount:   stats.EdgeCount,
			AvgStrength: stats.AvgStrength,
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("%d nodes, %d edges", stats.NodeCount, stats.EdgeCount)},
			},
		}, result, nil
	})
}
