package patterns

import "time"

// seedPatterns returns the default pattern set loaded when no persisted
// library exists (or the persisted file cannot be read). Each entry is a
// cross-domain structure the analogy engine can map technical problems onto.
func seedPatterns(now time.Time) []*Pattern {
	return []*Pattern{
		{
			ID:                "restaurant_kitchen",
			SourceDomain:      "restaurant_kitchen",
			AbstractStructure: "Many autonomous workers consume from a shared ticket queue, claiming work items and coordinating through a central expeditor.",
			KeyFeatures: []string{
				"Workers claim tasks to avoid duplication",
				"Orders queue at the pass in arrival order",
				"Specialized stations handle one kind of work each",
				"An expeditor coordinates plating across stations",
			},
			CommonProblems: []string{
				"Two cooks duplicating the same order",
				"Orders stalling behind one slow station",
				"Rush-hour spikes overwhelming the line",
			},
			TypicalSolutions: []string{
				"Cooks pull the next ticket when free instead of being assigned work",
				"Claimed tickets are marked visibly so nobody starts them twice",
				"Prioritize tickets by table wait time, not arrival order",
			},
			Relationships: []Relationship{
				{Type: "analogous_to", Target: "distributed task queue"},
			},
			Created: now,
		},
		{
			ID:                "ant_colony_foraging",
			SourceDomain:      "ant_colony_foraging",
			AbstractStructure: "Decentralized agents coordinate through environment markers that are reinforced by use and fade with neglect.",
			KeyFeatures: []string{
				"Scouts discover resources and recruit others by signal strength",
				"Trails strengthen with traffic and weaken when idle",
				"No central controller; coordination is indirect",
			},
			CommonProblems: []string{
				"Stale trails leading to exhausted resources",
				"Overcommitment to a single path under changing conditions",
			},
			TypicalSolutions: []string{
				"Reinforce paths in proportion to recent success",
				"Keep a fraction of workers exploring alternatives at all times",
			},
			Relationships: []Relationship{
				{Type: "analogous_to", Target: "adaptive load balancing"},
			},
			Created: now,
		},
		{
			ID:                "hospital_triage",
			SourceDomain:      "hospital_triage",
			AbstractStructure: "A single intake point ranks heterogeneous work by urgency and routes it to capacity-limited specialists.",
			KeyFeatures: []string{
				"Severity scoring decides treatment order",
				"Patients wait in a priority queue, not arrival order",
				"Escalation paths exist for deteriorating cases",
			},
			CommonProblems: []string{
				"Low-priority cases starving during sustained load",
				"Misjudged severity delaying urgent care",
			},
			TypicalSolutions: []string{
				"Re-score waiting cases periodically so priorities track reality",
				"Reserve capacity for critical arrivals",
			},
			Relationships: []Relationship{
				{Type: "analogous_to", Target: "priority scheduling"},
			},
			Created: now,
		},
		{
			ID:                "postal_routing",
			SourceDomain:      "postal_routing",
			AbstractStructure: "Items flow through a hierarchy of store-and-forward hubs, each making purely local forwarding decisions.",
			KeyFeatures: []string{
				"Packages flow through regional hubs toward their destination",
				"Each hop depends only on local routing tables",
				"Failed routes fall back to alternates automatically",
			},
			CommonProblems: []string{
				"A hub failure severing everything downstream",
				"Routing loops when local tables disagree",
			},
			TypicalSolutions: []string{
				"Route around failures using alternate hubs",
				"Keep forwarding decisions local so no global coordinator is required",
			},
			Relationships: []Relationship{
				{Type: "analogous_to", Target: "message routing"},
			},
			Created: now,
		},
		{
			ID:                "orchestra_performance",
			SourceDomain:      "orchestra_performance",
			AbstractStructure: "Independent specialists execute in parallel, synchronized by a broadcast tempo and explicit cue dependencies.",
			KeyFeatures: []string{
				"A conductor synchronizes independent sections",
				"Sections depend on a shared tempo and explicit cues",
				"Rehearsal encodes coordination into the group itself",
			},
			CommonProblems: []string{
				"Sections drifting out of sync without cues",
				"A missed entrance cascading through dependent parts",
			},
			TypicalSolutions: []string{
				"Broadcast one shared clock that everyone follows",
				"Make entrances depend on explicit cues rather than counting alone",
			},
			Relationships: []Relationship{
				{Type: "analogous_to", Target: "orchestrated pipelines"},
			},
			Created: now,
		},
	}
}
