package analogy

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/analogd/internal/patterns"
)

const (
	// DefaultMaxResults is used when a request does not set MaxResults.
	DefaultMaxResults = 3

	// MaxResultsCeiling bounds the ranked list length.
	MaxResultsCeiling = 10

	// DefaultReinforceThreshold: when the best analogy's confidence exceeds
	// it, the pattern's usage counter is reinforced.
	DefaultReinforceThreshold = 0.6
)

// noMatchDomain fills the best-analogy slot when nothing qualifies.
const noMatchDomain = "none"

// Engine is the analogy orchestrator. It runs the whole retrieval pipeline:
// extract, score, rank, elaborate, reinforce.
type Engine struct {
	library            *patterns.Library
	logger             *zap.Logger
	reinforceThreshold float64
}

// Option configures an Engine.
type Option func(*Engine)

// WithReinforceThreshold overrides the reinforcement confidence threshold.
func WithReinforceThreshold(t float64) Option {
	return func(e *Engine) {
		e.reinforceThreshold = t
	}
}

// NewEngine creates the orchestrator over the given pattern library. A nil
// logger is replaced with a nop logger.
func NewEngine(library *patterns.Library, logger *zap.Logger, opts ...Option) (*Engine, error) {
	if library == nil {
		return nil, fmt.Errorf("pattern library cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	e := &Engine{
		library:            library,
		logger:             logger,
		reinforceThreshold: DefaultReinforceThreshold,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Synthesize runs a full analogy request: extracts the problem's structural
// signature, scores every candidate pattern, ranks descending by confidence,
// elaborates the top results, and reinforces the library when the best match
// clears the confidence threshold.
//
// An empty candidate set (after domain filtering) is not an error: the best
// analogy is a "none" placeholder with zero confidence and no reinforcement
// occurs.
func (e *Engine) Synthesize(ctx context.Context, req Request) (*Result, error) {
	if strings.TrimSpace(req.ProblemDescription) == "" {
		return nil, ErrEmptyProblem
	}

	level := req.AbstractionLevel
	if level == "" {
		level = LevelDeep
	}
	maxResults := req.MaxResults
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	if maxResults > MaxResultsCeiling {
		maxResults = MaxResultsCeiling
	}

	requestID := uuid.NewString()
	sig := ExtractStructure(req.ProblemDescription)

	candidates := e.candidates(req.SourceDomains)

	type scored struct {
		pattern    patterns.Pattern
		confidence float64
	}
	ranked := make([]scored, 0, len(candidates))
	for _, p := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ranked = append(ranked, scored{
			pattern:    p,
			confidence: Adjust(Score(sig, p), level),
		})
	}

	// Stable sort keeps library insertion order for equal confidences.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].confidence > ranked[j].confidence
	})
	if len(ranked) > maxResults {
		ranked = ranked[:maxResults]
	}

	result := &Result{
		RequestID:          requestID,
		ExtractedStructure: sig,
		Analogies:          make([]Analogy, 0, len(ranked)),
	}

	for _, s := range ranked {
		result.Analogies = append(result.Analogies, Analogy{
			SourceDomain:         s.pattern.SourceDomain,
			StructuralMatch:      s.pattern.AbstractStructure,
			Mapping:              BuildMapping(s.pattern, req.ProblemDescription),
			TransferableInsights: BuildInsights(s.pattern, req.ProblemDescription),
			Confidence:           s.confidence,
			PatternID:            s.pattern.ID,
		})
	}

	if len(ranked) == 0 {
		result.Best = BestAnalogy{
			Domain:     noMatchDomain,
			Rationale:  "no stored pattern matched the problem structure",
			Confidence: 0,
		}
		e.logger.Debug("analogy request found no candidates",
			zap.String("request_id", requestID),
			zap.Strings("source_domains", req.SourceDomains))
		return result, nil
	}

	best := ranked[0]
	bestAnalogy := result.Analogies[0]
	result.Best = BestAnalogy{
		Domain: best.pattern.SourceDomain,
		Rationale: fmt.Sprintf("%s shows the strongest structural overlap: %d shared terms, %d relationship agreements reflected in a confidence of %.2f",
			best.pattern.SourceDomain, len(sig.KeyTerms), len(sig.Relationships), best.confidence),
		SuggestedApproach: BuildApproach(best.pattern, bestAnalogy.TransferableInsights, req.ProblemDescription),
		Confidence:        best.confidence,
	}

	if best.confidence > e.reinforceThreshold {
		if count, ok := e.library.Strengthen(best.pattern.ID); ok {
			e.logger.Info("pattern reinforced by retrieval",
				zap.String("request_id", requestID),
				zap.String("pattern_id", best.pattern.ID),
				zap.Int("usage_count", count))
		}
	}

	e.logger.Debug("analogy request completed",
		zap.String("request_id", requestID),
		zap.String("best_domain", result.Best.Domain),
		zap.Float64("confidence", result.Best.Confidence),
		zap.Int("analogies", len(result.Analogies)))

	return result, nil
}

// candidates returns the pattern set after optional domain filtering.
func (e *Engine) candidates(domains []string) []patterns.Pattern {
	if len(domains) == 0 {
		return e.library.GetAll()
	}

	var out []patterns.Pattern
	seen := make(map[string]bool)
	for _, d := range domains {
		for _, p := range e.library.GetByDomain(d) {
			if seen[p.ID] {
				continue
			}
			seen[p.ID] = true
			out = append(out, p)
		}
	}
	return out
}
