package combine

import (
	"fmt"

	"dsfuse/pkg/mass"
)

// PCR5 applies the pairwise proportional conflict redistribution rule:
// the conjunctive combination, with the product mass of every conflicting
// pair (A ∩ B = ∅) given back to A and B proportionally to their own
// masses - A receives m(A)·m(B)·m(A)/(m(A)+m(B)), B the symmetric term.
// Stored masses are strictly positive, so the denominator never vanishes.
func PCR5(a, b *mass.MassFunction) (*mass.MassFunction, error) {
	a, b, err := mass.Align(a, b)
	if err != nil {
		return nil, err
	}
	acc := make(map[mass.Subset]float64, a.Len()*b.Len())
	a.Each(func(ha mass.Subset, va float64) {
		b.Each(func(hb mass.Subset, vb float64) {
			h := ha.Intersect(hb)
			if h.IsEmpty() {
				product := va * vb
				total := va + vb
				acc[ha] += product * va / total
				acc[hb] += product * vb / total
				return
			}
			acc[h] += va * vb
		})
	})
	return mass.NewDerived(a, acc, true)
}

// PCR6 generalizes proportional conflict redistribution to N sources by
// enumerating the full cross-product of one focal choice per source.
// Tuples with a non-empty joint intersection contribute conjunctively;
// the product mass of each conflicting tuple is redistributed to the
// tuple's members proportionally to their masses (with multiplicity, when
// the same subset is chosen by several sources). For two sources this
// coincides with PCR5.
//
// The enumeration is O(∏ |focals_i|); the rule is only practical for
// small numbers of focal elements per source.
func PCR6(sources ...*mass.MassFunction) (*mass.MassFunction, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("%w: no mass functions provided", mass.ErrValidation)
	}
	if len(sources) == 1 {
		return sources[0].Copy(), nil
	}
	aligned, err := mass.AlignAll(sources)
	if err != nil {
		return nil, err
	}

	focals := make([][]mass.Subset, len(aligned))
	for i, m := range aligned {
		focals[i] = m.Focals()
	}

	acc := make(map[mass.Subset]float64)
	full := aligned[0].Frame().Full()

	// Odometer over one focal choice per source.
	choice := make([]int, len(aligned))
	for {
		product := 1.0
		joint := full
		for i, m := range aligned {
			h := focals[i][choice[i]]
			product *= m.Mass(h)
			joint = joint.Intersect(h)
		}
		if !joint.IsEmpty() {
			acc[joint] += product
		} else {
			var total float64
			for i, m := range aligned {
				total += m.Mass(focals[i][choice[i]])
			}
			for i, m := range aligned {
				h := focals[i][choice[i]]
				acc[h] += product * m.Mass(h) / total
			}
		}

		pos := len(choice) - 1
		for pos >= 0 {
			choice[pos]++
			if choice[pos] < len(focals[pos]) {
				break
			}
			choice[pos] = 0
			pos--
		}
		if pos < 0 {
			break
		}
	}
	return mass.NewDerived(aligned[0], acc, true)
}
