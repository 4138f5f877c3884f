// Package patterns implements the file-backed structural pattern library.
//
// A pattern is a structural abstraction of a source domain ("restaurant
// kitchen coordination", "ant colony foraging") with its typical problems and
// solutions. Patterns are retrieved by the analogy engine and reinforced when
// a retrieval proves useful: UsageCount is monotonically increasing and every
// mutation is persisted to a single JSON file with whole-file overwrite
// semantics.
package patterns

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fyrsmithlabs/analogd/internal/slug"
)

// Common errors for pattern operations.
var (
	ErrEmptyDomain    = errors.New("pattern source domain cannot be empty")
	ErrEmptyStructure = errors.New("pattern abstract structure cannot be empty")
)

// Relationship links a pattern to a related concept or pattern by type.
type Relationship struct {
	Type   string `json:"type"`
	Target string `json:"target"`
}

// Pattern is a stored structural abstraction of a source domain.
type Pattern struct {
	// ID is the slug identifying this pattern. Seed patterns carry fixed
	// ids; Add derives the id from the source domain and creation time.
	ID string `json:"id"`

	// SourceDomain names the domain the structure was abstracted from.
	SourceDomain string `json:"source_domain"`

	// AbstractStructure is a prose description of the domain's structure.
	AbstractStructure string `json:"abstract_structure"`

	// KeyFeatures are the structural properties that make the pattern
	// recognizable (matched against extracted problem signatures).
	KeyFeatures []string `json:"key_features"`

	// CommonProblems are the failure modes the domain routinely faces.
	CommonProblems []string `json:"common_problems"`

	// TypicalSolutions are the domain's standard answers to those problems.
	TypicalSolutions []string `json:"typical_solutions"`

	// Relationships are optional links to related concepts.
	Relationships []Relationship `json:"relationships,omitempty"`

	// Created is when the pattern entered the library.
	Created time.Time `json:"created"`

	// UsageCount is bumped on reinforcement. Monotonically increasing.
	UsageCount int `json:"usage_count"`
}

// Validate checks the fields a caller must supply before Add.
func (p *Pattern) Validate() error {
	if strings.TrimSpace(p.SourceDomain) == "" {
		return ErrEmptyDomain
	}
	if strings.TrimSpace(p.AbstractStructure) == "" {
		return ErrEmptyStructure
	}
	if p.UsageCount < 0 {
		return errors.New("usage count cannot be negative")
	}
	return nil
}

// SearchText returns the lowercased concatenation of the fields Search
// matches against: domain, structure, features, and problems.
func (p *Pattern) SearchText() string {
	parts := make([]string, 0, 2+len(p.KeyFeatures)+len(p.CommonProblems))
	parts = append(parts, p.SourceDomain, p.AbstractStructure)
	parts = append(parts, p.KeyFeatures...)
	parts = append(parts, p.CommonProblems...)
	return strings.ToLower(strings.Join(parts, "\n"))
}

// newID derives a pattern id from the source domain and creation time.
func newID(sourceDomain string, created time.Time) string {
	return slug.Make(fmt.Sprintf("%s %d", sourceDomain, created.UnixMilli()))
}
