package service

import (
	"strings"

	"github.com/Sainava/Wiz-Scholar/internal/domain"
)

// PatternRule matches a literal substring of a chosen answer's text and
// credits a house's pattern indicator. Matching is case-insensitive.
type PatternRule struct {
	Substring string
	House     string
	Count     int
}

// WeightTable carries the per-question importance weights and the
// declarative pattern-detection rules. Questions absent from the weight
// map count with weight 1.0.
type WeightTable struct {
	weights map[string]float64
	rules   map[string][]PatternRule
}

// NewWeightTable builds a table from explicit maps; either may be nil.
func NewWeightTable(weights map[string]float64, rules map[string][]PatternRule) *WeightTable {
	if weights == nil {
		weights = map[string]float64{}
	}
	if rules == nil {
		rules = map[string][]PatternRule{}
	}
	return &WeightTable{weights: weights, rules: rules}
}

// Weight returns the importance weight for a question, defaulting to 1.0.
func (t *WeightTable) Weight(questionID string) float64 {
	if w, ok := t.weights[questionID]; ok && w > 0 {
		return w
	}
	return 1.0
}

// Rules returns the pattern rules configured for a question.
func (t *WeightTable) Rules(questionID string) []PatternRule {
	return t.rules[questionID]
}

// Match reports the indicator credit an answer text earns under rule.
func (r PatternRule) Match(answerText string) int {
	if strings.Contains(strings.ToLower(answerText), strings.ToLower(r.Substring)) {
		return r.Count
	}
	return 0
}

// DefaultWeightTable is tuned for the shipped question bank. Value-laden
// questions (q2, q5, q6, q10) weigh more than surface preferences (q3).
func DefaultWeightTable() *WeightTable {
	weights := map[string]float64{
		"q2":  1.5,
		"q3":  0.8,
		"q5":  1.5,
		"q6":  2.0,
		"q10": 1.8,
	}
	rules := map[string][]PatternRule{
		"q1": {
			{Substring: "walk straight in", House: domain.HouseGryffindor, Count: 1},
			{Substring: "rules exist", House: domain.HouseHufflepuff, Count: 1},
			{Substring: "study the lock", House: domain.HouseRavenclaw, Count: 1},
			{Substring: "what the room is worth", House: domain.HouseSlytherin, Count: 1},
		},
		"q2": {
			{Substring: "take the blame", House: domain.HouseGryffindor, Count: 2},
			{Substring: "stand by them", House: domain.HouseHufflepuff, Count: 2},
			{Substring: "evidence", House: domain.HouseRavenclaw, Count: 1},
			{Substring: "useful", House: domain.HouseSlytherin, Count: 2},
		},
		"q3": {
			{Substring: "defence", House: domain.HouseGryffindor, Count: 1},
			{Substring: "herbology", House: domain.HouseHufflepuff, Count: 1},
			{Substring: "runes", House: domain.HouseRavenclaw, Count: 1},
			{Substring: "potions", House: domain.HouseSlytherin, Count: 1},
		},
		"q4": {
			{Substring: "cowardly", House: domain.HouseGryffindor, Count: 1},
			{Substring: "selfish", House: domain.HouseHufflepuff, Count: 1},
			{Substring: "ignorant", House: domain.HouseRavenclaw, Count: 1},
			{Substring: "ordinary", House: domain.HouseSlytherin, Count: 2},
		},
		"q5": {
			{Substring: "charge", House: domain.HouseGryffindor, Count: 2},
			{Substring: "younger students", House: domain.HouseHufflepuff, Count: 2},
			{Substring: "weakness", House: domain.HouseRavenclaw, Count: 1},
			{Substring: "another exit", House: domain.HouseSlytherin, Count: 1},
		},
		"q6": {
			{Substring: "daring", House: domain.HouseGryffindor, Count: 2},
			{Substring: "kindness", House: domain.HouseHufflepuff, Count: 2},
			{Substring: "discoveries", House: domain.HouseRavenclaw, Count: 2},
			{Substring: "power", House: domain.HouseSlytherin, Count: 2},
		},
		"q7": {
			{Substring: "track the owner", House: domain.HouseGryffindor, Count: 1},
			{Substring: "leave it untouched", House: domain.HouseHufflepuff, Count: 1},
			{Substring: "name page", House: domain.HouseRavenclaw, Count: 1},
			{Substring: "never wasted", House: domain.HouseSlytherin, Count: 2},
		},
		"q8": {
			{Substring: "hippogriff", House: domain.HouseGryffindor, Count: 1},
			{Substring: "niffler", House: domain.HouseHufflepuff, Count: 1},
			{Substring: "raven", House: domain.HouseRavenclaw, Count: 1},
			{Substring: "serpent", House: domain.HouseSlytherin, Count: 2},
		},
		"q9": {
			{Substring: "nerve", House: domain.HouseGryffindor, Count: 1},
			{Substring: "steady work", House: domain.HouseHufflepuff, Count: 2},
			{Substring: "plan", House: domain.HouseRavenclaw, Count: 2},
			{Substring: "examiner rewards", House: domain.HouseSlytherin, Count: 1},
		},
		"q10": {
			{Substring: "fight for the friend", House: domain.HouseGryffindor, Count: 2},
			{Substring: "other chances", House: domain.HouseHufflepuff, Count: 2},
			{Substring: "never be undone", House: domain.HouseRavenclaw, Count: 1},
			{Substring: "true friend would understand", House: domain.HouseSlytherin, Count: 2},
		},
	}
	return NewWeightTable(weights, rules)
}
