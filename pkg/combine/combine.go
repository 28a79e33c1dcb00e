// Package combine implements the evidence-combination rules of
// Dempster-Shafer theory. Every rule is a pure function from mass
// functions to a new mass function; operands are never mutated.
//
// The unnormalized conjunctive rule is the primitive the whole family is
// built on: Dempster's rule normalizes its output, and the advanced rules
// (Yager, Dubois-Prade, Zhang, PCR5) differ only in how they redistribute
// the conflict mass K it accumulates on the empty set.
package combine

import (
	"fmt"

	"dsfuse/pkg/mass"
)

// Rule is a binary combination rule, the shape Fold composes.
type Rule func(a, b *mass.MassFunction) (*mass.MassFunction, error)

// Conjunctive applies the unnormalized conjunctive rule: for every pair of
// focal elements (A from a, B from b) the product mass(A)·mass(B) is
// accumulated onto A ∩ B, including the empty set. The result is the
// transient conflict-bearing intermediate; callers wanting Dempster's rule
// use Dempster.
func Conjunctive(a, b *mass.MassFunction) (*mass.MassFunction, error) {
	a, b, err := mass.Align(a, b)
	if err != nil {
		return nil, err
	}
	acc := make(map[mass.Subset]float64, a.Len()*b.Len())
	a.Each(func(ha mass.Subset, va float64) {
		b.Each(func(hb mass.Subset, vb float64) {
			acc[ha.Intersect(hb)] += va * vb
		})
	})
	return mass.NewDerived(a, acc, false)
}

// Dempster applies Dempster's rule of combination: the conjunctive rule
// followed by normalization. If the sources are fully contradictory (all
// product mass lands on the empty set) the result is ErrTotalConflict.
func Dempster(a, b *mass.MassFunction) (*mass.MassFunction, error) {
	m, err := Conjunctive(a, b)
	if err != nil {
		return nil, err
	}
	return m.Normalize()
}

// Disjunctive applies the disjunctive rule: product mass accumulates onto
// A ∪ B. It never produces conflict mass and its output is already
// normalized by construction (Σm(A)·m(B) = 1).
func Disjunctive(a, b *mass.MassFunction) (*mass.MassFunction, error) {
	a, b, err := mass.Align(a, b)
	if err != nil {
		return nil, err
	}
	acc := make(map[mass.Subset]float64, a.Len()*b.Len())
	a.Each(func(ha mass.Subset, va float64) {
		b.Each(func(hb mass.Subset, vb float64) {
			acc[ha.Union(hb)] += va * vb
		})
	})
	return mass.NewDerived(a, acc, true)
}

// Conflict returns the conflict K between two sources: the total product
// mass on pairs with empty intersection, without combining them.
func Conflict(a, b *mass.MassFunction) (float64, error) {
	a, b, err := mass.Align(a, b)
	if err != nil {
		return 0, err
	}
	var k float64
	a.Each(func(ha mass.Subset, va float64) {
		b.Each(func(hb mass.Subset, vb float64) {
			if !ha.Intersects(hb) {
				k += va * vb
			}
		})
	})
	return k, nil
}

// Fold combines the sources with rule in a strict left-to-right fold.
// Fold order is part of the contract: PCR5 and the cautious rule are not
// associative, so the result depends on the ordinal order the sources are
// given in. At least one source is required; a single source is returned
// as a copy.
func Fold(rule Rule, sources ...*mass.MassFunction) (*mass.MassFunction, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("%w: no mass functions provided", mass.ErrValidation)
	}
	if len(sources) == 1 {
		return sources[0].Copy(), nil
	}
	acc := sources[0]
	for _, m := range sources[1:] {
		next, err := rule(acc, m)
		if err != nil {
			return nil, err
		}
		acc = next
	}
	return acc, nil
}
