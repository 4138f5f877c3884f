package analogy

import (
	"strings"

	"github.com/fyrsmithlabs/analogd/internal/patterns"
)

// Scoring weights and caps. The three sub-scores are summed and normalized by
// maxRawScore, so a raw score can never map above 1.0.
const (
	termMatchPoints = 2.0
	termScoreCap    = 10.0

	relationAgreementPoints = 3.0
	relationScoreCap        = 10.0

	constraintAgreementPoints = 2.0
	constraintScoreCap        = 10.0

	maxRawScore = termScoreCap + relationScoreCap + constraintScoreCap

	// shallowBoost is added flat by LevelShallow (biases toward more
	// matches); deepDamp multiplies under LevelDeep (biases toward fewer,
	// more conservative matches).
	shallowBoost = 0.2
	deepDamp     = 0.9
)

// relationAgreementPairs pair a keyword expected in the signature's
// relationship types with a keyword expected in the pattern's feature text.
var relationAgreementPairs = [][2]string{
	{"depend", "depend"},
	{"compete", "claim"},
	{"wait", "queue"},
}

// constraintProbes map a constraint tag to the keywords that indicate the
// pattern's common problems address it.
var constraintProbes = map[string][]string{
	"no_duplication":   {"duplicat", "same task", "twice"},
	"real_time":        {"delay", "stall", "slow", "wait"},
	"scalability":      {"overwhelm", "load", "spike", "volume"},
	"dynamic_workload": {"vary", "unpredictab", "burst", "changing", "rush"},
	"fault_tolerance":  {"fail", "error", "crash", "sever"},
}

// Score computes the bounded structural similarity between a signature and a
// pattern, in [0, 1], before abstraction-level adjustment.
func Score(sig Signature, p patterns.Pattern) float64 {
	corpus := strings.ToLower(strings.Join(flatten(p.KeyFeatures, p.CommonProblems, p.TypicalSolutions), "\n"))
	featureText := strings.ToLower(strings.Join(p.KeyFeatures, "\n"))
	problemText := strings.ToLower(strings.Join(p.CommonProblems, "\n"))

	// (a) key-term overlap against the pattern's full text.
	var termScore float64
	for _, term := range sig.KeyTerms {
		if strings.Contains(corpus, term) {
			termScore += termMatchPoints
		}
	}
	if termScore > termScoreCap {
		termScore = termScoreCap
	}

	// (b) relationship-tag agreement against the pattern's features.
	var relScore float64
	for _, pair := range relationAgreementPairs {
		if hasRelationKeyword(sig, pair[0]) && strings.Contains(featureText, pair[1]) {
			relScore += relationAgreementPoints
		}
	}
	if relScore > relationScoreCap {
		relScore = relationScoreCap
	}

	// (c) constraint-tag agreement against the pattern's problem list.
	var constraintScore float64
	for _, tag := range sig.Constraints {
		if containsAny(problemText, constraintProbes[tag]) {
			constraintScore += constraintAgreementPoints
		}
	}
	if constraintScore > constraintScoreCap {
		constraintScore = constraintScoreCap
	}

	score := (termScore + relScore + constraintScore) / maxRawScore
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// Adjust applies the abstraction-level bias to a base score. By construction
// the deep value for a pattern never exceeds the shallow value.
func Adjust(score float64, level AbstractionLevel) float64 {
	switch level {
	case LevelShallow:
		adjusted := score + shallowBoost
		if adjusted > 1.0 {
			adjusted = 1.0
		}
		return adjusted
	default:
		return score * deepDamp
	}
}

func hasRelationKeyword(sig Signature, keyword string) bool {
	for _, r := range sig.Relationships {
		if strings.Contains(r.Type, keyword) {
			return true
		}
	}
	return false
}

func flatten(lists ...[]string) []string {
	var out []string
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}
