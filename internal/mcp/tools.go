package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/fyrsmithlabs/analogd/internal/analogy"
)

// registerTools registers all MCP tools with the server.
func (s *Server) registerTools() {
	s.registerAnalogyTools()
	s.registerConceptTools()
	s.registerPatternTools()
}

// validationError joins the collected violations into a single error.
func validationError(details []string) error {
	return fmt.Errorf("validation failed: %s", strings.Join(details, "; "))
}

// ===== ANALOGY TOOLS =====

type analogyFindInput struct {
	ProblemDescription string   `json:"problem_description" jsonschema:"required,Technical problem description to find analogies for"`
	SourceDomains      []string `json:"source_domains,omitempty" jsonschema:"Restrict candidate patterns to these source domains"`
	AbstractionLevel   string   `json:"abstraction_level,omitempty" jsonschema:"Matching depth: shallow or deep (default: deep)"`
	MaxResults         int      `json:"max_results,omitempty" jsonschema:"Maximum analogies to return, 1-10 (default: 3)"`
}

type analogyFindOutput struct {
	RequestID          string              `json:"request_id" jsonschema:"Unique request identifier"`
	ExtractedStructure analogy.Signature   `json:"extracted_structure" jsonschema:"Structural signature extracted from the problem"`
	Analogies          []analogy.Analogy   `json:"analogies" jsonschema:"Ranked analogies"`
	Best               analogy.BestAnalogy `json:"best_analogy" jsonschema:"The strongest analogy with a suggested approach"`
}

func (s *Server) registerAnalogyTools() {
	s.tools = append(s.tools, "analogy_find")
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "analogy_find",
		Description: "Find cross-domain analogies for a technical problem and suggest an approach based on the best match",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args analogyFindInput) (*mcp.CallToolResult, analogyFindOutput, error) {
		start := time.Now()
		s.metrics.IncrementActive(ctx, "analogy_find")
		var toolErr error
		defer func() {
			s.metrics.DecrementActive(ctx, "analogy_find")
			s.metrics.RecordInvocation(ctx, "analogy_find", time.Since(start), toolErr)
		}()

		var details []string
		if strings.TrimSpace(args.ProblemDescription) == "" {
			details = append(details, "problem_description must not be empty")
		}
		level := analogy.AbstractionLevel(args.AbstractionLevel)
		if args.AbstractionLevel != "" && !level.Valid() {
			details = append(details, fmt.Sprintf("abstraction_level %q is not one of: shallow, deep", args.AbstractionLevel))
		}
		if args.MaxResults < 0 {
			details = append(details, "max_results must not be negative")
		}
		if len(details) > 0 {
			toolErr = validationError(details)
			return nil, analogyFindOutput{}, toolErr
		}

		res, err := s.engine.Synthesize(ctx, analogy.Request{
			ProblemDescription: args.ProblemDescription,
			SourceDomains:      args.SourceDomains,
			AbstractionLevel:   level,
			MaxResults:         args.MaxResults,
		})
		if err != nil {
			toolErr = fmt.Errorf("analogy synthesis failed: %w", err)
			return nil, analogyFindOutput{}, toolErr
		}

		result := analogyFindOutput{
			RequestID:          res.RequestID,
			ExtractedStructure: res.ExtractedStructure,
			Analogies:          res.Analogies,
			Best:               res.Best,
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Best analogy: %s (confidence %.2f)",
					result.Best.Domain, result.Best.Confidence)},
			},
		}, result, nil
	})
}
