package domain

// House names in declaration order. This order is authoritative: every
// tie-break in scoring and prediction resolves to the earliest house here.
const (
	HouseGryffindor = "Gryffindor"
	HouseHufflepuff = "Hufflepuff"
	HouseRavenclaw  = "Ravenclaw"
	HouseSlytherin  = "Slytherin"
)

// Houses lists the four houses in declaration order.
var Houses = []string{HouseGryffindor, HouseHufflepuff, HouseRavenclaw, HouseSlytherin}

// IsHouse reports whether name is one of the four houses.
func IsHouse(name string) bool {
	for _, h := range Houses {
		if h == name {
			return true
		}
	}
	return false
}

// Trait bounds for the normalized trait axes.
const (
	TraitMin = 1
	TraitMax = 10
)

// TraitVector holds the four normalized trait axes, one per house:
// Bravery for Gryffindor, Loyalty for Hufflepuff, Wisdom for Ravenclaw
// and Ambition for Slytherin. Values stay within [TraitMin, TraitMax].
type TraitVector struct {
	Bravery  int `json:"bravery"`
	Loyalty  int `json:"loyalty"`
	Wisdom   int `json:"wisdom"`
	Ambition int `json:"ambition"`
}

// ForHouse returns the trait value aligned with the given house.
func (v TraitVector) ForHouse(house string) int {
	switch house {
	case HouseGryffindor:
		return v.Bravery
	case HouseHufflepuff:
		return v.Loyalty
	case HouseRavenclaw:
		return v.Wisdom
	case HouseSlytherin:
		return v.Ambition
	}
	return 0
}

// SetForHouse stores value on the trait aligned with house, clamped to bounds.
func (v *TraitVector) SetForHouse(house string, value int) {
	value = ClampTrait(value)
	switch house {
	case HouseGryffindor:
		v.Bravery = value
	case HouseHufflepuff:
		v.Loyalty = value
	case HouseRavenclaw:
		v.Wisdom = value
	case HouseSlytherin:
		v.Ambition = value
	}
}

// AddForHouse raises (or lowers) the trait aligned with house, clamped to bounds.
func (v *TraitVector) AddForHouse(house string, delta int) {
	v.SetForHouse(house, v.ForHouse(house)+delta)
}

// Spread returns the distance between the highest and lowest trait.
func (v TraitVector) Spread() int {
	min, max := v.Bravery, v.Bravery
	for _, h := range Houses[1:] {
		t := v.ForHouse(h)
		if t < min {
			min = t
		}
		if t > max {
			max = t
		}
	}
	return max - min
}

// ClampTrait forces value into [TraitMin, TraitMax].
func ClampTrait(value int) int {
	if value < TraitMin {
		return TraitMin
	}
	if value > TraitMax {
		return TraitMax
	}
	return value
}
