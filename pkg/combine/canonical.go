package combine

import (
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"dsfuse/pkg/mass"
)

// WeightFunction is the canonical conjunctive decomposition of a
// non-dogmatic mass function: a weight per proper subset A ⊊ Ω, such that
// the mass function is the conjunctive combination of the simple support
// functions A^w(A). It is an ephemeral intermediate of the cautious and
// bold rules, not a first-class entity.
type WeightFunction map[mass.Subset]float64

// weight looks up w(A); absent entries mean full weight (no discount).
func (w WeightFunction) weight(a mass.Subset) float64 {
	if v, ok := w[a]; ok {
		return v
	}
	return 1
}

// reconstruction dust below this magnitude is floating error, clamped to 0
const clampTolerance = 1e-9

// Decompose computes the weight function of a non-dogmatic mass function
// by Möbius-style inversion of its commonality over the full powerset:
//
//	w(A) = ∏_{B ⊇ A} q(B)^(±1)   for every A ⊊ Ω,
//
// multiplying where |B|-|A| is odd and dividing where it is even. The
// enumeration is inherently O(3^|Ω|); that is a property of the math, not
// an implementation accident.
//
// The decomposition is undefined when mass sits on the empty set, and the
// inversion divides by zero commonalities when Ω carries no mass; both
// conditions surface as ErrDogmaticInput.
func Decompose(m *mass.MassFunction) (WeightFunction, error) {
	frame := m.Frame()
	full := frame.Full()
	if m.Mass(mass.Empty) > 0 {
		return nil, fmt.Errorf("%w: mass on the empty set", mass.ErrDogmaticInput)
	}
	if m.Mass(full) == 0 {
		return nil, fmt.Errorf("%w: no mass on the full frame (zero commonality)", mass.ErrDogmaticInput)
	}

	q := commonalityTable(m)
	w := make(WeightFunction, 1<<uint(frame.Size())-1)
	for a := mass.Subset(0); a < full; a++ {
		prod := 1.0
		free := full.Minus(a)
		for t := free; ; t = (t - 1) & free {
			if t.Card()%2 == 1 {
				prod *= q[a|t]
			} else {
				prod /= q[a|t]
			}
			if t == 0 {
				break
			}
		}
		w[a] = prod
	}
	return w, nil
}

// Cautious applies the cautious conjunctive rule: both operands are
// decomposed into weights, combined by the pointwise minimum, and the
// result reconstructed back to mass space. Designed for non-distinct
// bodies of evidence; Cautious(m, m) ≈ m is the defining property.
func Cautious(a, b *mass.MassFunction) (*mass.MassFunction, error) {
	return combineWeights(a, b, func(x, y float64) float64 {
		if x < y {
			return x
		}
		return y
	})
}

// Bold applies the bold disjunctive rule, the pointwise-maximum dual of
// Cautious over the same weight space. Bold(m, m) ≈ m likewise.
func Bold(a, b *mass.MassFunction) (*mass.MassFunction, error) {
	return combineWeights(a, b, func(x, y float64) float64 {
		if x > y {
			return x
		}
		return y
	})
}

func combineWeights(a, b *mass.MassFunction, pick func(x, y float64) float64) (*mass.MassFunction, error) {
	a, b, err := mass.Align(a, b)
	if err != nil {
		return nil, err
	}
	wa, err := Decompose(a)
	if err != nil {
		return nil, err
	}
	wb, err := Decompose(b)
	if err != nil {
		return nil, err
	}
	combined := make(WeightFunction, len(wa))
	for h := range wa {
		combined[h] = pick(wa.weight(h), wb.weight(h))
	}
	for h := range wb {
		if _, ok := combined[h]; !ok {
			combined[h] = pick(wa.weight(h), wb.weight(h))
		}
	}
	return reconstruct(a, combined)
}

// reconstruct inverts a weight function back to a normalized mass
// function: commonality is rebuilt as q(B) = ∏_{A ⊊ Ω, B ⊄ A} w(A), then
// Möbius-inverted to mass by alternating-sign inclusion-exclusion over
// supersets. Near-zero negative masses from floating error are clamped;
// genuinely negative reconstructions are rejected.
func reconstruct(like *mass.MassFunction, w WeightFunction) (*mass.MassFunction, error) {
	frame := like.Frame()
	full := frame.Full()
	size := uint64(1) << uint(frame.Size())

	// ∏ over all proper subsets, in lattice order for determinism
	all := 1.0
	for a := mass.Subset(0); a < full; a++ {
		all *= w.weight(a)
	}

	// q(B) = all / ∏_{A ⊇ B, A ≠ Ω} w(A)
	q := make([]float64, size)
	for b := mass.Subset(0); ; b++ {
		super := 1.0
		free := full.Minus(b)
		for t := free; ; t = (t - 1) & free {
			if a := b | t; a != full {
				super *= w.weight(a)
			}
			if t == 0 {
				break
			}
		}
		q[b] = all / super
		if b == full {
			break
		}
	}

	acc := make(map[mass.Subset]float64)
	for a := mass.Subset(0); ; a++ {
		var v float64
		free := full.Minus(a)
		for t := free; ; t = (t - 1) & free {
			if t.Card()%2 == 0 {
				v += q[a|t]
			} else {
				v -= q[a|t]
			}
			if t == 0 {
				break
			}
		}
		if v < 0 {
			if v < -clampTolerance {
				return nil, fmt.Errorf("%w: reconstruction produced negative mass %g for %s",
					mass.ErrValidation, v, frame.Format(a))
			}
			v = 0
		}
		if v > 0 {
			acc[a] = v
		}
		if a == full {
			break
		}
	}
	return mass.NewDerived(like, acc, true)
}

// commonalityTable tabulates q(A) for every subset of the frame. The
// per-subset computations are independent, so large tables are chunked
// across workers; chunks write disjoint index ranges and the table is
// fully assembled before the dependent inversion step reads it.
func commonalityTable(m *mass.MassFunction) []float64 {
	size := uint64(1) << uint(m.Frame().Size())
	q := make([]float64, size)
	fill := func(lo, hi uint64) {
		for a := lo; a < hi; a++ {
			q[a] = m.Commonality(mass.Subset(a))
		}
	}

	const parallelFloor = 1 << 12
	if size < parallelFloor {
		fill(0, size)
		return q
	}
	var g errgroup.Group
	workers := uint64(runtime.GOMAXPROCS(0))
	chunk := (size + workers - 1) / workers
	for lo := uint64(0); lo < size; lo += chunk {
		lo, hi := lo, lo+chunk
		if hi > size {
			hi = size
		}
		g.Go(func() error {
			fill(lo, hi)
			return nil
		})
	}
	_ = g.Wait() // workers never fail
	return q
}
