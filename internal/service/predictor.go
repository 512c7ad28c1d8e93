package service

import (
	"github.com/Sainava/Wiz-Scholar/internal/classifier"
	"github.com/Sainava/Wiz-Scholar/internal/domain"
)

// Per-house pattern overrides in the prediction step. A house whose
// indicator total meets its threshold gets its score multiplied, so
// houses whose raw signal dilutes under squaring still get recognized.
// Hufflepuff carries the largest multiplier for exactly that reason.
type patternOverride struct {
	threshold  int
	multiplier float64
}

var patternOverrides = map[string]patternOverride{
	domain.HouseGryffindor: {threshold: 3, multiplier: 1.5},
	domain.HouseHufflepuff: {threshold: 3, multiplier: 2.0},
	domain.HouseRavenclaw:  {threshold: 4, multiplier: 1.6},
	domain.HouseSlytherin:  {threshold: 3, multiplier: 1.8},
}

// Predictor turns a trait vector into a house probability distribution.
// The optional statistical model runs alongside for comparison only; the
// heuristic stays authoritative.
type Predictor struct {
	model classifier.Model
}

func NewPredictor(model classifier.Model) *Predictor {
	if model == nil {
		model = classifier.NoModel{}
	}
	return &Predictor{model: model}
}

// Predict scores each house from its trait value, squared to amplify
// separation, plus half the weighted raw score so heavily weighted
// questions keep mattering after squaring, then applies pattern overrides
// and normalizes. A zero (or fully clamped-away) total falls back to a
// uniform distribution. Ties resolve to house declaration order.
func (p *Predictor) Predict(traits domain.TraitVector, weightedRaw map[string]float64, indicators map[string]int) domain.Prediction {
	scores := make(map[string]float64, len(domain.Houses))
	var total float64
	for _, h := range domain.Houses {
		score := float64(traits.ForHouse(h))
		score *= score
		if weightedRaw != nil {
			score += 0.5 * weightedRaw[h]
		}
		if indicators != nil {
			if o := patternOverrides[h]; indicators[h] >= o.threshold {
				score *= o.multiplier
			}
		}
		if score < 0 {
			score = 0
		}
		scores[h] = score
		total += score
	}

	probs := make(map[string]float64, len(domain.Houses))
	best := domain.Houses[0]
	bestP := -1.0
	for _, h := range domain.Houses {
		prob := scores[h] / total
		if total == 0 {
			prob = 1.0 / float64(len(domain.Houses))
		}
		probs[h] = prob
		if prob > bestP {
			best = h
			bestP = prob
		}
	}

	prediction := domain.Prediction{
		House:         best,
		Confidence:    probs[best],
		Probabilities: probs,
		Traits:        traits,
	}

	if p.model.Available() {
		house, modelProbs := p.model.Predict(classifier.ExpandTraits(traits))
		prediction.Model = &domain.ModelComparison{
			House:         house,
			Probabilities: modelProbs,
			ModelType:     p.model.Type(),
			Agrees:        house == best,
		}
	}

	return prediction
}
