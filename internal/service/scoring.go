package service

import (
	"math"

	"github.com/Sainava/Wiz-Scholar/internal/domain"
)

// ScoringEngine converts a session's answer history into a bounded trait
// vector. It is pure and total: the same history always yields the same
// vector, and it never fails once at least one question is answered.
type ScoringEngine struct {
	weights *WeightTable
}

func NewScoringEngine(weights *WeightTable) *ScoringEngine {
	if weights == nil {
		weights = NewWeightTable(nil, nil)
	}
	return &ScoringEngine{weights: weights}
}

// WeightedScores accumulates each answer's house points scaled by the
// question's importance weight.
func (e *ScoringEngine) WeightedScores(s *domain.SortingSession) map[string]float64 {
	scores := make(map[string]float64, len(domain.Houses))
	for _, h := range domain.Houses {
		scores[h] = 0
	}
	for _, qid := range s.Asked {
		rec, ok := s.Answers[qid]
		if !ok {
			continue
		}
		w := e.weights.Weight(qid)
		for house, pts := range rec.Scores {
			scores[house] += float64(pts) * w
		}
	}
	return scores
}

// Indicators scans the recorded answer texts against each question's
// pattern rules and totals the per-house indicator counters.
func (e *ScoringEngine) Indicators(s *domain.SortingSession) map[string]int {
	indicators := make(map[string]int, len(domain.Houses))
	for _, h := range domain.Houses {
		indicators[h] = 0
	}
	for _, qid := range s.Asked {
		rec, ok := s.Answers[qid]
		if !ok {
			continue
		}
		for _, rule := range e.weights.Rules(qid) {
			indicators[rule.House] += rule.Match(rec.OptionText)
		}
	}
	return indicators
}

// Pattern-bonus thresholds and boosts. Gryffindor and Slytherin carry a
// secondary cross-boost: a strong bravery pattern also signals loyalty to
// the cause, and a strong ambition pattern signals calculating wisdom.
const (
	indicatorBoostThreshold = 3
	indicatorBoostAmount    = 3
	indicatorExtraThreshold = 5
	indicatorExtraAmount    = 2
	nearTieSpread           = 2
)

var crossBoosts = map[string]string{
	domain.HouseGryffindor: domain.HouseHufflepuff,
	domain.HouseSlytherin:  domain.HouseRavenclaw,
}

var dominanceBoosts = map[string]int{
	domain.HouseGryffindor: 3,
	domain.HouseHufflepuff: 2,
	domain.HouseRavenclaw:  2,
	domain.HouseSlytherin:  3,
}

// TraitVector derives the bounded trait vector from the answer history.
// ok is false when no questions are answered yet; callers must report
// "no prediction available" rather than a default vector.
func (e *ScoringEngine) TraitVector(s *domain.SortingSession) (domain.TraitVector, bool) {
	if len(s.Asked) == 0 {
		return domain.TraitVector{}, false
	}

	weighted := e.WeightedScores(s)

	// Normalization ceiling: each question is assumed to contribute at
	// most twice its weight. This intentionally understates the true
	// maximum; it matches the tuned behavior of the original heuristic.
	var denom float64
	for _, qid := range s.Asked {
		denom += e.weights.Weight(qid) * 2
	}
	if denom == 0 {
		denom = 1
	}

	percents := make(map[string]float64, len(domain.Houses))
	var total float64
	for _, h := range domain.Houses {
		pct := weighted[h] / denom * 100
		percents[h] = pct
		total += pct
	}

	var vector domain.TraitVector
	if total == 0 {
		// Degenerate all-zero history: a single shared default for all
		// four traits. Known to collapse differentiation; kept until
		// product decides otherwise.
		for _, h := range domain.Houses {
			vector.SetForHouse(h, domain.TraitMax)
		}
	} else {
		for _, h := range domain.Houses {
			normalized := percents[h] * 40 / total
			vector.SetForHouse(h, int(math.Floor(normalized/4))+2)
		}
	}

	e.applyPatternBonuses(&vector, e.Indicators(s))
	return vector, true
}

// applyPatternBonuses sharpens the vector with the indicator counters, in
// house declaration order throughout.
func (e *ScoringEngine) applyPatternBonuses(vector *domain.TraitVector, indicators map[string]int) {
	for _, h := range domain.Houses {
		if indicators[h] >= indicatorBoostThreshold {
			vector.AddForHouse(h, indicatorBoostAmount)
			if secondary, ok := crossBoosts[h]; ok {
				vector.AddForHouse(secondary, 1)
			}
		}
	}

	if indicators[domain.HouseHufflepuff] >= indicatorExtraThreshold {
		vector.AddForHouse(domain.HouseHufflepuff, indicatorExtraAmount)
	}

	if vector.Spread() < nearTieSpread {
		if dominant, ok := dominantHouse(indicators); ok {
			vector.AddForHouse(dominant, dominanceBoosts[dominant])
		}
	}
}

// dominantHouse returns the house whose indicator count strictly exceeds
// every other. A tie at the top leaves the vector unresolved.
func dominantHouse(indicators map[string]int) (string, bool) {
	best := ""
	bestCount := -1
	tied := false
	for _, h := range domain.Houses {
		c := indicators[h]
		switch {
		case c > bestCount:
			best, bestCount, tied = h, c, false
		case c == bestCount:
			tied = true
		}
	}
	if tied || best == "" {
		return "", false
	}
	return best, true
}
