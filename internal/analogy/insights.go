package analogy

import (
	"fmt"
	"strings"

	"github.com/fyrsmithlabs/analogd/internal/patterns"
)

// maxInsights caps the insight list per analogy.
const maxInsights = 5

// minMappings is the threshold below which generic fallback mappings are
// appended.
const minMappings = 3

// termMapping is one row of the fixed domain-term correspondence table. A row
// fires when the pattern's text mentions one of its pattern terms and the
// problem text mentions one of its problem terms.
type termMapping struct {
	patternTerms  []string
	problemTerms  []string
	sourceFeature string
	targetFeature string
}

var mappingTable = []termMapping{
	{
		patternTerms:  []string{"ticket", "order", "task"},
		problemTerms:  []string{"task", "job", "work", "request"},
		sourceFeature: "ticket/order/task",
		targetFeature: "task/job/work item/request",
	},
	{
		patternTerms:  []string{"cook", "worker", "scout", "section", "agent"},
		problemTerms:  []string{"agent", "worker", "process", "service", "consumer"},
		sourceFeature: "worker (cook/scout/section)",
		targetFeature: "agent/worker process",
	},
	{
		patternTerms:  []string{"station", "hub", "specialist"},
		problemTerms:  []string{"service", "component", "module", "node"},
		sourceFeature: "specialized station/hub",
		targetFeature: "service/component",
	},
	{
		patternTerms:  []string{"queue", "pass", "waiting"},
		problemTerms:  []string{"queue", "backlog", "pending", "buffer"},
		sourceFeature: "order queue at the pass",
		targetFeature: "task queue/backlog",
	},
	{
		patternTerms:  []string{"expeditor", "conductor", "controller", "intake"},
		problemTerms:  []string{"coordinat", "orchestrat", "scheduler", "dispatcher"},
		sourceFeature: "expeditor/conductor",
		targetFeature: "coordinator/scheduler",
	},
	{
		patternTerms:  []string{"trail", "route", "path"},
		problemTerms:  []string{"route", "path", "connection", "channel"},
		sourceFeature: "physical trail/route",
		targetFeature: "routing path/channel",
	},
}

// fallbackMappings are appended when the table yields fewer than minMappings.
var fallbackMappings = []Mapping{
	{SourceFeature: "central coordination point", TargetFeature: "orchestrator/coordinator"},
	{SourceFeature: "worker/unit of work", TargetFeature: "task/job"},
}

// insightTrigger turns a substring found in the pattern's solutions or
// features into an actionable, domain-neutral insight.
type insightTrigger struct {
	substring string
	insight   string
}

var insightTriggers = []insightTrigger{
	{"pull", "Use a pull-based model: let workers claim work when they are ready instead of pushing assignments to them."},
	{"claim", "Have each worker claim a task atomically so no two workers duplicate the same work."},
	{"priorit", "Maintain explicit priorities so urgent items preempt routine ones."},
	{"queue", "Buffer incoming work in a queue so producers and consumers can run at different speeds."},
	{"depend", "Gate work on its prerequisites: do not start a task until everything it depends on is complete."},
	{"cue", "Trigger each step from an explicit signal rather than assumptions about timing."},
	{"reinforce", "Strengthen the routes that keep succeeding and let unused ones fade."},
	{"local", "Prefer local decisions over global coordination; they degrade gracefully when parts fail."},
	{"visib", "Make work status visible to every participant to avoid redundant effort."},
	{"special", "Assign specialized roles so each worker handles the kind of work it does best."},
}

// approachElaboration adds problem-specific advice when the raw problem text
// contains the trigger. At most three elaborations are appended.
type approachElaboration struct {
	triggers    []string
	elaboration string
}

var approachElaborations = []approachElaboration{
	{
		triggers:    []string{"agent", "multiple", "concurrent"},
		elaboration: "For multi-agent claiming, treat each claim as an atomic test-and-set on a shared ledger so a task can only be taken once.",
	},
	{
		triggers:    []string{"depend", "require", "prerequisite"},
		elaboration: "Track dependency edges explicitly and release work only when all of its parents are done.",
	},
	{
		triggers:    []string{"priorit", "urgent", "deadline"},
		elaboration: "Score waiting items by urgency and age so high-priority work is pulled first without starving the rest.",
	},
}

// BuildMapping produces source→target term mappings for a pattern against a
// problem statement, padding with generic fallbacks when fewer than three
// table rows fire.
func BuildMapping(p patterns.Pattern, problemText string) []Mapping {
	patternText := p.SearchText() + "\n" + strings.ToLower(strings.Join(p.TypicalSolutions, "\n"))
	problem := strings.ToLower(problemText)

	mappings := []Mapping{}
	for _, row := range mappingTable {
		if containsAny(patternText, row.patternTerms) && containsAny(problem, row.problemTerms) {
			mappings = append(mappings, Mapping{
				SourceFeature: row.sourceFeature,
				TargetFeature: row.targetFeature,
			})
		}
	}

	if len(mappings) < minMappings {
		mappings = append(mappings, fallbackMappings...)
	}
	return mappings
}

// BuildInsights generates transferable insights from the pattern's typical
// solutions and key features, capped at maxInsights.
func BuildInsights(p patterns.Pattern, problemText string) []string {
	source := strings.ToLower(strings.Join(flatten(p.TypicalSolutions, p.KeyFeatures), "\n"))

	insights := []string{}
	seen := make(map[string]bool)
	for _, trig := range insightTriggers {
		if len(insights) >= maxInsights {
			break
		}
		if !strings.Contains(source, trig.substring) || seen[trig.insight] {
			continue
		}
		seen[trig.insight] = true
		insights = append(insights, trig.insight)
	}
	return insights
}

// BuildApproach synthesizes the recommended-approach text for the best match:
// the pattern's domain, its leading insights, and up to three elaborations
// keyed on the raw problem text.
func BuildApproach(p patterns.Pattern, insights []string, problemText string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Apply the %s pattern. %s", p.SourceDomain, p.AbstractStructure)

	if len(insights) > 0 {
		b.WriteString(" Start with: ")
		b.WriteString(insights[0])
		for i := 1; i < len(insights) && i < 3; i++ {
			b.WriteString(" ")
			b.WriteString(insights[i])
		}
	}

	problem := strings.ToLower(problemText)
	added := 0
	for _, e := range approachElaborations {
		if added >= 3 {
			break
		}
		if containsAny(problem, e.triggers) {
			b.WriteString(" ")
			b.WriteString(e.elaboration)
			added++
		}
	}
	return b.String()
}
