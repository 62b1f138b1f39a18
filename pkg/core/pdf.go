package core

import "fmt"

// Pdf is the density of a sampled direction. Delta marks a Dirac-delta
// distribution (perfectly specular events), for which Value carries no meaning
// and no MIS weight can be computed.
type Pdf struct {
	Value float64
	Delta bool
}

// NonDeltaPdf returns a finite density
func NonDeltaPdf(value float64) Pdf {
	return Pdf{Value: value}
}

// DeltaPdf returns a Dirac-delta density
func DeltaPdf() Pdf {
	return Pdf{Delta: true}
}

// IsDelta reports whether the density is a Dirac delta
func (p Pdf) IsDelta() bool {
	return p.Delta
}

// ValueOr returns the density, or deltaValue for a Dirac delta
func (p Pdf) ValueOr(deltaValue float64) float64 {
	if p.Delta {
		return deltaValue
	}
	return p.Value
}

func (p Pdf) String() string {
	if p.Delta {
		return "Delta"
	}
	return fmt.Sprintf("NonDelta(%g)", p.Value)
}
