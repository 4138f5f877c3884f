package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/fyrsmithlabs/analogd/internal/patterns"
)

// ===== PATTERN LIBRARY TOOLS =====

type patternAddInput struct {
	SourceDomain      string                `json:"source_domain" jsonschema:"required,Domain the pattern abstracts (e.g. restaurant_kitchen)"`
	AbstractStructure string                `json:"abstract_structure" jsonschema:"required,One-sentence structural abstraction of the domain"`
	KeyFeatures       []string              `json:"key_features,omitempty" jsonschema:"Structural features of the domain"`
	CommonProblems    []string              `json:"common_problems,omitempty" jsonschema:"Failure modes the domain exhibits"`
	TypicalSolutions  []string              `json:"typical_solutions,omitempty" jsonschema:"How the domain typically solves those problems"`
	Relationships     []conceptRelationship `json:"relationships,omitempty" jsonschema:"Links to analogous technical structures"`
}

type patternAddOutput struct {
	ID            string `json:"id" jsonschema:"Generated pattern identifier"`
	TotalPatterns int    `json:"total_patterns" jsonschema:"Library size after the add"`
}

type patternSearchInput struct {
	Query  string `json:"query,omitempty" jsonschema:"Case-insensitive text matched against domain, structure, features, and problems"`
	Domain string `json:"domain,omitempty" jsonschema:"Restrict results to one source domain"`
}

type patternSearchOutput struct {
	Patterns []patterns.Pattern `json:"patterns" jsonschema:"Matching patterns"`
	Count    int                `json:"count" jsonschema:"Number of matches"`
}

type patternStatsInput struct{}

type patternStatsOutput struct {
	TotalPatterns int                   `json:"total_patterns" jsonschema:"Number of stored patterns"`
	TotalUsage    int                   `json:"total_usage" jsonschema:"Sum of all usage counters"`
	TopUsed       []patterns.UsageEntry `json:"top_used" jsonschema:"Most-used patterns"`
	Domains       []string              `json:"domains" jsonschema:"Distinct source domains"`
}

func (s *Server) registerPatternTools() {
	// pattern_add
	s.tools = append(s.tools, "pattern_add")
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "pattern_add",
		Description: "Store a new cross-domain pattern in the library",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args patternAddInput) (*mcp.CallToolResult, patternAddOutput, error) {
		start := time.Now()
		s.metrics.IncrementActive(ctx, "pattern_add")
		var toolErr error
		defer func() {
			s.metrics.DecrementActive(ctx, "pattern_add")
			s.metrics.RecordInvocation(ctx, "pattern_add", time.Since(start), toolErr)
		}()

		var details []string
		if strings.TrimSpace(args.SourceDomain) == "" {
			details = append(details, "source_domain must not be empty")
		}
		if strings.TrimSpace(args.AbstractStructure) == "" {
			details = append(details, "abstract_structure must not be empty")
		}
		if len(details) > 0 {
			toolErr = validationError(details)
			return nil, patternAddOutput{}, toolErr
		}

		rels := make([]patterns.Relationship, 0, len(args.Relationships))
		for _, r := range args.Relationships {
			rels = append(rels, patterns.Relationship{Type: r.Type, Target: r.Target})
		}

		added, err := s.library.Add(patterns.Pattern{
			SourceDomain:      args.SourceDomain,
			AbstractStructure: args.AbstractStructure,
			KeyFeatures:       args.KeyFeatures,
			CommonProblems:    args.CommonProblems,
			TypicalSolutions:  args.TypicalSolutions,
			Relationships:     rels,
		})
		if err != nil {
			toolErr = fmt.Errorf("pattern add failed: %w", err)
			return nil, patternAddOutput{}, toolErr
		}

		result := patternAddOutput{
			ID:            added.ID,
			TotalPatterns: s.library.Stats().TotalPatterns,
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Pattern stored: %s", added.ID)},
			},
		}, result, nil
	})

	// pattern_search
	s.tools = append(s.tools, "pattern_search")
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "pattern_search",
		Description: "Search stored patterns by text and/or source domain; empty input lists everything",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args patternSearchInput) (*mcp.CallToolResult, patternSearchOutput, error) {
		start := time.Now()
		s.metrics.IncrementActive(ctx, "pattern_search")
		var toolErr error
		defer func() {
			s.metrics.DecrementActive(ctx, "pattern_search")
			s.metrics.RecordInvocation(ctx, "pattern_search", time.Since(start), toolErr)
		}()

		var matched []patterns.Pattern
		switch {
		case args.Domain == "" && args.Query == "":
			matched = s.library.GetAll()
		case args.Domain == "":
			matched = s.library.Search(args.Query)
		default:
			query := strings.ToLower(args.Query)
			for _, p := range s.library.GetByDomain(args.Domain) {
				if query == "" || strings.Contains(p.SearchText(), query) {
					matched = append(matched, p)
				}
			}
		}

		result := patternSearchOutput{Patterns: matched, Count: len(matched)}

		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("%d patterns matched", result.Count)},
			},
		}, result, nil
	})

	// pattern_stats
	s.tools = append(s.tools, "pattern_stats")
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "pattern_stats",
		Description: "Aggregate statistics over the pattern library",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args patternStatsInput) (*mcp.CallToolResult, patternStatsOutput, error) {
		start := time.Now()
		s.metrics.IncrementActive(ctx, "pattern_stats")
		var toolErr error
		defer func() {
			s.metrics.DecrementActive(ctx, "pattern_stats")
			s.metrics.RecordInvocation(ctx, "pattern_stats", time.Since(start), toolErr)
		}()

		stats := s.library.Stats()
		result := patternStatsOutput{
			TotalPatterns: stats.TotalPatterns,
			TotalUsage:    stats.TotalUsage,
			TopUsed:       stats.TopUsed,
			Domains:       stats.Domains,
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("%d patterns across %d domains", stats.TotalPatterns, len(stats.Domains))},
			},
		}, result, nil
	})
}
