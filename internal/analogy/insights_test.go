package analogy

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/analogd/internal/patterns"
)

func TestBuildMappingFromTable(t *testing.T) {
	p := kitchenPattern()

	mappings := BuildMapping(p, "multiple worker agents pull tasks from a shared queue")
	require.NotEmpty(t, mappings)

	var sources []string
	for _, m := range mappings {
		sources = append(sources, m.SourceFeature)
	}
	assert.Contains(t, sources, "ticket/order/task")
	assert.Contains(t, sources, "worker (cook/scout/section)")
}

func TestBuildMappingFallbacks(t *testing.T) {
	// A pattern whose vocabulary matches nothing in the table still yields
	// the generic fallback mappings.
	p := patterns.Pattern{
		SourceDomain:      "tide_pools",
		AbstractStructure: "organisms persist across drastic periodic environment changes",
	}

	mappings := BuildMapping(p, "survive database failover windows")
	require.Len(t, mappings, 2)
	assert.Equal(t, "central coordination point", mappings[0].SourceFeature)
	assert.Equal(t, "worker/unit of work", mappings[1].SourceFeature)
}

func TestBuildInsights(t *testing.T) {
	p := kitchenPattern()

	insights := BuildInsights(p, "multiple agents need to claim tasks without duplicating work")
	require.NotEmpty(t, insights)
	assert.LessOrEqual(t, len(insights), 5)

	joined := strings.ToLower(strings.Join(insights, " "))
	assert.Contains(t, joined, "pull-based", "pull in the solutions must trigger the pull-based insight")
	assert.Contains(t, joined, "claim")
}

func TestBuildInsightsEmptyForBlandPattern(t *testing.T) {
	p := patterns.Pattern{
		SourceDomain:     "blank",
		KeyFeatures:      []string{"nothing interesting here"},
		TypicalSolutions: []string{"do the obvious thing"},
	}
	assert.Empty(t, BuildInsights(p, "any problem"))
}

func TestBuildApproach(t *testing.T) {
	p := kitchenPattern()
	p.AbstractStructure = "Many autonomous workers consume from a shared ticket queue."
	insights := BuildInsights(p, "")

	approach := BuildApproach(p, insights, "multiple agents need to claim tasks that depend on priorities")

	assert.Contains(t, approach, "restaurant_kitchen")
	if len(insights) > 0 {
		assert.Contains(t, approach, insights[0])
	}
	// Elaborations keyed on the problem text.
	assert.Contains(t, approach, "test-and-set", "multi-agent wording triggers the claiming elaboration")
	assert.Contains(t, approach, "dependency edges")
	assert.Contains(t, approach, "urgency")
}

func TestBuildApproachWithoutElaborations(t *testing.T) {
	p := kitchenPattern()
	approach := BuildApproach(p, nil, "a calm, unremarkable problem")
	assert.Contains(t, approach, p.SourceDomain)
	assert.NotContains(t, approach, "test-and-set")
}
