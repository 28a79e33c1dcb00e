package combine

import "dsfuse/pkg/mass"

// Yager applies Yager's rule: the conjunctive combination with the whole
// conflict mass K moved onto Ω. Conflict is read as "the sources cannot
// both be right, so I know nothing more specific", not as evidence for any
// particular hypothesis.
func Yager(a, b *mass.MassFunction) (*mass.MassFunction, error) {
	a, b, err := mass.Align(a, b)
	if err != nil {
		return nil, err
	}
	full := a.Frame().Full()
	acc := make(map[mass.Subset]float64, a.Len()*b.Len())
	a.Each(func(ha mass.Subset, va float64) {
		b.Each(func(hb mass.Subset, vb float64) {
			h := ha.Intersect(hb)
			if h.IsEmpty() {
				h = full
			}
			acc[h] += va * vb
		})
	})
	return mass.NewDerived(a, acc, true)
}

// DuboisPrade applies the Dubois-Prade rule: product mass of each
// conflicting pair (A ∩ B = ∅) is attributed to A ∪ B, the most specific
// hypothesis consistent with both sources, instead of a single Ω bucket.
// On a two-element frame this coincides numerically with Yager; on larger
// frames the two diverge.
func DuboisPrade(a, b *mass.MassFunction) (*mass.MassFunction, error) {
	a, b, err := mass.Align(a, b)
	if err != nil {
		return nil, err
	}
	acc := make(map[mass.Subset]float64, a.Len()*b.Len())
	a.Each(func(ha mass.Subset, va float64) {
		b.Each(func(hb mass.Subset, vb float64) {
			h := ha.Intersect(hb)
			if h.IsEmpty() {
				h = ha.Union(hb)
			}
			acc[h] += va * vb
		})
	})
	return mass.NewDerived(a, acc, true)
}

// Zhang applies Zhang's rule: the conjunctive combination with the
// conflict mass K added to every non-Ω focal element whose combined source
// plausibility Pl_a(H) + Pl_b(H) is positive. A focal element with zero
// combined plausibility absorbs nothing.
//
// The per-element share K·(Pl_a+Pl_b)/(Pl_a+Pl_b) collapses to K whenever
// the denominator is nonzero, so the raw total exceeds 1 when several focal
// elements qualify; the result is renormalized at the end so a finished
// mass function always sums to 1.
func Zhang(a, b *mass.MassFunction) (*mass.MassFunction, error) {
	a, b, err := mass.Align(a, b)
	if err != nil {
		return nil, err
	}
	full := a.Frame().Full()
	acc := make(map[mass.Subset]float64, a.Len()*b.Len())
	var conflict float64
	a.Each(func(ha mass.Subset, va float64) {
		b.Each(func(hb mass.Subset, vb float64) {
			h := ha.Intersect(hb)
			if h.IsEmpty() {
				conflict += va * vb
				return
			}
			acc[h] += va * vb
		})
	})
	if conflict > 0 {
		for h := range acc {
			if h == full {
				continue
			}
			if a.Plausibility(h)+b.Plausibility(h) > 0 {
				acc[h] += conflict
			}
		}
	}
	return mass.NewDerived(a, acc, true)
}
