package classifier

import "github.com/Sainava/Wiz-Scholar/internal/domain"

// FeatureColumns is the fixed feature ordering the model was trained on:
// the four primary traits followed by derived ratios and per-house
// composite scores. Order must match the serialized model file.
var FeatureColumns = []string{
	"bravery",
	"loyalty",
	"wisdom",
	"ambition",
	"bravery_loyalty_ratio",
	"wisdom_ambition_ratio",
	"gryffindor_composite",
	"hufflepuff_composite",
	"ravenclaw_composite",
	"slytherin_composite",
}

// ExpandTraits maps a trait vector onto the model's feature space. The
// +0.1 in the ratio denominators avoids division by zero without shifting
// the ordering of realistic inputs.
func ExpandTraits(v domain.TraitVector) []float64 {
	b := float64(v.Bravery)
	l := float64(v.Loyalty)
	w := float64(v.Wisdom)
	a := float64(v.Ambition)

	return []float64{
		b, l, w, a,
		b / (l + 0.1),
		w / (a + 0.1),
		0.55*b + 0.25*l + 0.20*a,
		0.60*l + 0.15*b + 0.25*(10-a),
		0.55*w + 0.25*a + 0.20*l,
		0.55*a + 0.25*w + 0.20*(10-l),
	}
}
