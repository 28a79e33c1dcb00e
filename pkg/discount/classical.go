// Package discount implements reliability discounting of mass functions:
// classical uniform discounting, the simple per-focal variant, and the
// contextual and Θ-contextual operators built on a generalization matrix.
// Every operator returns a new mass function; sources are never mutated.
package discount

import (
	"fmt"
	"math"

	"dsfuse/pkg/mass"
)

func checkRate(v float64, what string) error {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return fmt.Errorf("%w: %s %g", mass.ErrInvalidReliability, what, v)
	}
	return nil
}

// Classical applies Shafer's discounting with reliability α ∈ [0,1]:
//
//	m^α(A) = α·m(A)              for A ≠ Ω
//	m^α(Ω) = α·m(Ω) + (1-α)
//
// α=1 is the identity (a fully reliable source); α=0 collapses the source
// to the vacuous belief function.
func Classical(m *mass.MassFunction, reliability float64) (*mass.MassFunction, error) {
	if err := checkRate(reliability, "reliability"); err != nil {
		return nil, err
	}
	if reliability == 1 {
		return m.Copy(), nil
	}
	frame := m.Frame()
	if reliability == 0 {
		return mass.Vacuous(frame), nil
	}
	full := frame.Full()
	acc := make(map[mass.Subset]float64, m.Len()+1)
	m.Each(func(h mass.Subset, v float64) {
		acc[h] = reliability * v
	})
	acc[full] += 1 - reliability
	return mass.NewDerived(m, acc, true)
}

// Simple applies per-focal discounting: each focal element named in the
// reliability map (by its "{a,b}" interchange key) keeps r·m(H) and sheds
// (1-r)·m(H) onto Ω; unnamed focal elements are untouched. Keys are
// processed in the deterministic focal order, but distinct non-Ω keys
// commute regardless.
func Simple(m *mass.MassFunction, reliabilities map[string]float64) (*mass.MassFunction, error) {
	frame := m.Frame()
	full := frame.Full()
	rates := make(map[mass.Subset]float64, len(reliabilities))
	for key, r := range reliabilities {
		if err := checkRate(r, "reliability for "+key); err != nil {
			return nil, err
		}
		h, err := frame.Parse(key)
		if err != nil {
			return nil, err
		}
		rates[h] = r
	}
	acc := make(map[mass.Subset]float64, m.Len()+1)
	m.Each(func(h mass.Subset, v float64) {
		acc[h] = v
	})
	for _, h := range m.Focals() {
		r, ok := rates[h]
		if !ok {
			continue
		}
		v := acc[h]
		acc[h] = r * v
		acc[full] += (1 - r) * v
	}
	return mass.NewDerived(m, acc, true)
}
