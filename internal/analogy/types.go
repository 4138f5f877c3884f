// Package analogy implements structural analogy retrieval over the pattern
// library: it extracts a structural signature from a free-text problem
// statement, scores every stored pattern against it, and synthesizes a
// ranked, explainable set of cross-domain analogies.
//
// Feature extraction here is deterministic pattern matching over surface
// text, not a learned model. The ranking is deterministic and explainable,
// not globally optimal.
package analogy

import "errors"

// Common errors for analogy requests.
var (
	ErrEmptyProblem = errors.New("problem description cannot be empty")
)

// AbstractionLevel biases the scorer toward more or fewer matches.
type AbstractionLevel string

const (
	// LevelShallow boosts scores by a flat amount, surfacing more matches.
	LevelShallow AbstractionLevel = "shallow"

	// LevelDeep dampens scores, keeping only conservative matches. Default.
	LevelDeep AbstractionLevel = "deep"
)

// Valid reports whether the level is one of the known values.
func (l AbstractionLevel) Valid() bool {
	return l == LevelShallow || l == LevelDeep
}

// Relation is one relationship tag detected in a problem statement.
type Relation struct {
	From string `json:"from"`
	To   string `json:"to"`
	Type string `json:"type"`
}

// Signature is the normalized structural signature of a problem statement.
type Signature struct {
	KeyTerms      []string   `json:"key_terms"`
	Relationships []Relation `json:"relationships"`
	Constraints   []string   `json:"constraints"`
}

// Mapping is one source→target term correspondence in an analogy.
type Mapping struct {
	SourceFeature string `json:"source_feature"`
	TargetFeature string `json:"target_feature"`
}

// Analogy is a ranked candidate pattern elaborated for the stated problem.
type Analogy struct {
	SourceDomain         string    `json:"source_domain"`
	StructuralMatch      string    `json:"structural_match"`
	Mapping              []Mapping `json:"mapping"`
	TransferableInsights []string  `json:"transferable_insights"`
	Confidence           float64   `json:"confidence"`
	PatternID            string    `json:"pattern_id"`
}

// BestAnalogy summarizes the top-ranked analogy with a synthesized approach.
// When no pattern qualifies, Domain is "none" and Confidence is zero; an
// empty library is not an error.
type BestAnalogy struct {
	Domain            string  `json:"domain"`
	Rationale         string  `json:"rationale"`
	SuggestedApproach string  `json:"suggested_approach"`
	Confidence        float64 `json:"confidence"`
}

// Request is a single analogy retrieval request.
type Request struct {
	// ProblemDescription is the free-text problem statement. Required.
	ProblemDescription string `json:"problem_description"`

	// SourceDomains optionally restricts candidates to patterns whose
	// domain contains one of these substrings.
	SourceDomains []string `json:"source_domains,omitempty"`

	// AbstractionLevel defaults to LevelDeep when empty.
	AbstractionLevel AbstractionLevel `json:"abstraction_level,omitempty"`

	// MaxResults bounds the ranked list (1-10, default 3).
	MaxResults int `json:"max_results,omitempty"`
}

// Result is the full response to a Request.
type Result struct {
	RequestID          string      `json:"request_id"`
	ExtractedStructure Signature   `json:"extracted_structure"`
	Analogies          []Analogy   `json:"analogies"`
	Best               BestAnalogy `json:"best_analogy"`
}
