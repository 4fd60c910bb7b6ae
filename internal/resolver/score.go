package resolver

import (
	"strings"

	"github.com/platewise/nutrition-engine/pkg/fdc"
)

// Candidate scoring starts from the database's own relevance score and
// applies additive adjustments. The rule set is data, not control flow,
// so individual rules can be tested and tuned in isolation.

const (
	wordMatchBonus    = 50
	rawBonus          = 30
	processingPenalty = -400
	cannedMashPenalty = -300
	plantPartPenalty  = -500
	snackPenalty      = -500
	organPenalty      = -300
	stemMatchBonus    = 100
	lengthPenalty     = -0.5 // per description character
)

// processingTerms indicate a processed derivative of the queried food
// (e.g. "apple juice" for an "apple" query).
var processingTerms = []string{
	"oil", "flour", "powder", "extract", "juice", "sauce", "syrup",
	"dried", "canned", "frozen",
}

// plantPartTerms catch entries for a different part of the plant, such
// as "sweet potato leaves" for a "sweet potato" query.
var plantPartTerms = []string{
	"leaves", "stems", "seeds", "peel", "tops", "greens",
}

// snackTerms catch snack and heavily processed preparations.
var snackTerms = []string{
	"chips", "candy", "fries", "nuggets", "baby food", "puree",
	"purée", "crackers", "cookies",
}

// scoreRule is one additive adjustment. count returns how many times the
// rule fires for a candidate; the contribution is weight * count.
type scoreRule struct {
	name   string
	weight float64
	count  func(q queryContext, desc string) int
}

// scoreRules is evaluated in order and summed. Penalty rules never fire
// for terms the query itself asks for.
var scoreRules = []scoreRule{
	{
		name:   "word_match",
		weight: wordMatchBonus,
		count: func(q queryContext, desc string) int {
			n := 0
			for _, w := range q.words {
				if len(w) > 2 && strings.Contains(desc, w) {
					n++
				}
			}
			return n
		},
	},
	{
		name:   "raw_preference",
		weight: rawBonus,
		count: func(q queryContext, desc string) int {
			if strings.Contains(desc, "raw") && !q.has("cooked") {
				return 1
			}
			return 0
		},
	},
	{
		name:   "processing_penalty",
		weight: processingPenalty,
		count: func(q queryContext, desc string) int {
			return countUnrequested(q, desc, processingTerms)
		},
	},
	{
		name:   "canned_mashed_penalty",
		weight: cannedMashPenalty,
		count: func(q queryContext, desc string) int {
			n := 0
			for _, term := range []string{"canned", "mashed"} {
				if strings.Contains(desc, term) && !q.has(term) {
					n++
				}
			}
			return n
		},
	},
	{
		name:   "plant_part_penalty",
		weight: plantPartPenalty,
		count: func(q queryContext, desc string) int {
			if q.hasAny(plantPartTerms) {
				return 0
			}
			return countTerms(desc, plantPartTerms)
		},
	},
	{
		name:   "snack_penalty",
		weight: snackPenalty,
		count: func(q queryContext, desc string) int {
			return countUnrequested(q, desc, snackTerms)
		},
	},
	{
		name:   "organ_penalty",
		weight: organPenalty,
		count: func(q queryContext, desc string) int {
			n := 0
			for _, term := range []string{"liver", "organ"} {
				if strings.Contains(desc, term) && !q.has(term) {
					n++
				}
			}
			return n
		},
	},
	{
		name:   "stem_match",
		weight: stemMatchBonus,
		count: func(q queryContext, desc string) int {
			descWords := splitWords(desc)
			for _, qw := range q.words {
				if len(qw) <= 2 {
					continue
				}
				qs := stem(qw)
				for _, dw := range descWords {
					if qw != dw && qs == stem(dw) {
						return 1
					}
				}
			}
			return 0
		},
	},
}

type queryContext struct {
	raw   string
	words []string
}

func newQueryContext(query string) queryContext {
	q := strings.ToLower(query)
	return queryContext{raw: q, words: splitWords(q)}
}

func (q queryContext) has(term string) bool {
	return strings.Contains(q.raw, term)
}

func (q queryContext) hasAny(terms []string) bool {
	for _, t := range terms {
		if q.has(t) {
			return true
		}
	}
	return false
}

func countTerms(desc string, terms []string) int {
	n := 0
	for _, t := range terms {
		if strings.Contains(desc, t) {
			n++
		}
	}
	return n
}

func countUnrequested(q queryContext, desc string, terms []string) int {
	n := 0
	for _, t := range terms {
		if strings.Contains(desc, t) && !q.has(t) {
			n++
		}
	}
	return n
}

func splitWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	})
}

// stem strips a trailing plural suffix so "potatoes" matches "potato".
func stem(w string) string {
	if strings.HasSuffix(w, "es") && len(w) > 4 {
		return w[:len(w)-2]
	}
	if strings.HasSuffix(w, "s") && len(w) > 3 {
		return w[:len(w)-1]
	}
	return w
}

// ScoreCandidate computes the adjusted match score for one candidate.
func ScoreCandidate(query string, c fdc.Candidate) float64 {
	q := newQueryContext(query)
	desc := strings.ToLower(c.Description)

	score := c.Score
	for _, r := range scoreRules {
		score += r.weight * float64(r.count(q, desc))
	}
	score += lengthPenalty * float64(len(c.Description))
	return score
}

// SelectBest returns the highest-scoring candidate. Ties keep the
// earliest candidate, preserving the database's own ordering.
func SelectBest(query string, candidates []fdc.Candidate) (fdc.Candidate, bool) {
	if len(candidates) == 0 {
		return fdc.Candidate{}, false
	}

	best := candidates[0]
	bestScore := ScoreCandidate(query, best)
	for _, c := range candidates[1:] {
		if s := ScoreCandidate(query, c); s > bestScore {
			best = c
			bestScore = s
		}
	}
	return best, true
}
