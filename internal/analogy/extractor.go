package analogy

import (
	"regexp"
	"strings"
)

// minTermLength filters out short captures like "it" or "we".
const minTermLength = 4

// keyTermPatterns are the verb/noun co-occurrence templates that capture
// candidate key terms from a problem statement. Each pattern captures exactly
// one word group.
var keyTermPatterns = []*regexp.Regexp{
	// "<word> need/must/should/can ..."
	regexp.MustCompile(`(?i)\b(\w+)\s+(?:need|needs|must|should|can)\b`),
	// "manage/handle/process <word>"
	regexp.MustCompile(`(?i)\b(?:manage|manages|managing|handle|handles|handling|process|processes|processing)\s+(\w+)\b`),
	// "multiple/many/several <word>"
	regexp.MustCompile(`(?i)\b(?:multiple|many|several)\s+(\w+)\b`),
	// "<word> compete/wait/depend ..."
	regexp.MustCompile(`(?i)\b(\w+)\s+(?:compete|competes|wait|waits|depend|depends)\b`),
}

// relationFamily maps a relationship tag to its trigger keywords and the
// generic endpoints reported for it. Each family contributes at most one
// relation regardless of how often its keywords occur.
type relationFamily struct {
	typ      string
	from, to string
	keywords []string
}

var relationFamilies = []relationFamily{
	{typ: "depends_on", from: "component", to: "prerequisite",
		keywords: []string{"depend", "require", "wait for"}},
	{typ: "flows_to", from: "producer", to: "consumer",
		keywords: []string{"communicate", "share", "send"}},
	{typ: "competes_for", from: "worker", to: "resource",
		keywords: []string{"compete", "claim", "acquire"}},
	{typ: "coordinates_with", from: "peer", to: "peer",
		keywords: []string{"coordinate", "organize", "synchronize"}},
	{typ: "wait_in", from: "item", to: "queue",
		keywords: []string{"queue", "waiting", "pending"}},
}

// constraintFamily maps a constraint tag to its trigger keywords.
type constraintFamily struct {
	tag      string
	keywords []string
}

var constraintFamilies = []constraintFamily{
	{tag: "no_duplication", keywords: []string{"duplicat", "redundant", "exactly once", "only once"}},
	{tag: "real_time", keywords: []string{"real-time", "real time", "immediately", "instant", "low latency"}},
	{tag: "scalability", keywords: []string{"scale", "scalab", "thousands", "grow"}},
	{tag: "dynamic_workload", keywords: []string{"dynamic", "unpredictable", "varying", "fluctuat", "bursty"}},
	{tag: "fault_tolerance", keywords: []string{"fail", "crash", "fault", "recover"}},
}

// ExtractStructure converts a free-text problem statement into its structural
// signature. Pure and deterministic: the same text always produces the same
// signature.
func ExtractStructure(text string) Signature {
	lower := strings.ToLower(text)

	sig := Signature{
		KeyTerms:      extractKeyTerms(text),
		Relationships: []Relation{},
		Constraints:   []string{},
	}

	for _, fam := range relationFamilies {
		if containsAny(lower, fam.keywords) {
			sig.Relationships = append(sig.Relationships, Relation{
				From: fam.from,
				To:   fam.to,
				Type: fam.typ,
			})
		}
	}

	for _, fam := range constraintFamilies {
		if containsAny(lower, fam.keywords) {
			sig.Constraints = append(sig.Constraints, fam.tag)
		}
	}

	return sig
}

// extractKeyTerms runs every template over the text and returns the captured
// terms, lowercased, deduplicated in discovery order, minimum length 4.
func extractKeyTerms(text string) []string {
	terms := []string{}
	seen := make(map[string]bool)
	for _, re := range keyTermPatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			term := strings.ToLower(m[1])
			if len(term) < minTermLength || seen[term] {
				continue
			}
			seen[term] = true
			terms = append(terms, term)
		}
	}
	return terms
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}
