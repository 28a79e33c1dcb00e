package discount

import (
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"dsfuse/pkg/mass"
)

// Contextual applies contextual discounting: reliability is held per
// element of the frame rather than uniformly. The discounted mass is
//
//	m_α(A) = Σ_{B ⊆ A} G(A,B)·m(B)
//
// over the generalization matrix
//
//	G(A,B) = ∏_{ω ∈ B} (1-α_ω) · ∏_{ω ∈ A∖B} α_ω,   B ⊆ A ⊆ Ω,
//
// followed by pruning zero entries and renormalizing. The α here are
// discount rates, not reliabilities: all-zero rates are the identity and
// all-one rates collapse the source to the vacuous belief function.
// Elements missing from the map default to rate 0. The matrix covers all
// pairs B ⊆ A, an O(3^|Ω|) enumeration; that ceiling is inherent to the
// operator, not incidental.
func Contextual(m *mass.MassFunction, rates map[string]float64) (*mass.MassFunction, error) {
	frame := m.Frame()
	alphas := make([]float64, frame.Size())
	allZero, allOne := true, true
	for label, r := range rates {
		if !frame.Contains(label) {
			return nil, fmt.Errorf("%w: element %q not in frame", mass.ErrValidation, label)
		}
		if err := checkRate(r, "discount rate for "+label); err != nil {
			return nil, err
		}
		s, err := frame.Subset(label)
		if err != nil {
			return nil, err
		}
		alphas[bitIndex(s)] = r
		if r != 0 {
			allZero = false
		}
		if r != 1 {
			allOne = false
		}
	}
	if len(rates) == 0 || allZero {
		return m.Copy(), nil
	}
	if allOne {
		return mass.Vacuous(frame), nil
	}

	alpha, beta := subsetProducts(frame, alphas)
	return applyMatrix(m, func(a, b mass.Subset) float64 {
		return beta[b] * alpha[a.Minus(b)]
	})
}

// bitIndex returns the position of a singleton subset's element.
func bitIndex(s mass.Subset) int {
	i := 0
	for s > 1 {
		s >>= 1
		i++
	}
	return i
}

// subsetProducts tabulates ∏_{ω∈S} α_ω and ∏_{ω∈S} (1-α_ω) for every
// subset S, by extending each subset from its lowest bit.
func subsetProducts(frame *mass.Frame, alphas []float64) (alpha, beta []float64) {
	size := uint64(1) << uint(frame.Size())
	alpha = make([]float64, size)
	beta = make([]float64, size)
	alpha[0], beta[0] = 1, 1
	for s := uint64(1); s < size; s++ {
		low := s & (-s)
		i := bitIndex(mass.Subset(low))
		alpha[s] = alpha[s&^low] * alphas[i]
		beta[s] = beta[s&^low] * (1 - alphas[i])
	}
	return alpha, beta
}

// applyMatrix evaluates m_α(A) = Σ_{B ⊆ A, B focal} G(A,B)·m(B) for every
// non-empty subset A of the frame, then prunes and renormalizes. The rows
// are independent, so large frames are chunked across workers; the chunks
// write disjoint ranges of the row table and the table is fully assembled
// before the result is built.
func applyMatrix(m *mass.MassFunction, g func(a, b mass.Subset) float64) (*mass.MassFunction, error) {
	frame := m.Frame()
	size := uint64(1) << uint(frame.Size())
	rows := make([]float64, size)
	focals := m.Focals()

	fill := func(lo, hi uint64) {
		for a := lo; a < hi; a++ {
			sa := mass.Subset(a)
			var total float64
			for _, b := range focals {
				if b.IsEmpty() || !b.SubsetOf(sa) {
					continue
				}
				total += g(sa, b) * m.Mass(b)
			}
			rows[a] = total
		}
	}

	const parallelFloor = 1 << 12
	if size < parallelFloor {
		fill(1, size)
	} else {
		var eg errgroup.Group
		workers := uint64(runtime.GOMAXPROCS(0))
		chunk := (size + workers - 1) / workers
		for lo := uint64(1); lo < size; lo += chunk {
			lo, hi := lo, lo+chunk
			if hi > size {
				hi = size
			}
			eg.Go(func() error {
				fill(lo, hi)
				return nil
			})
		}
		_ = eg.Wait() // workers never fail
	}

	acc := make(map[mass.Subset]float64)
	for a := uint64(1); a < size; a++ {
		if rows[a] > 0 {
			acc[mass.Subset(a)] = rows[a]
		}
	}
	return mass.NewDerived(m, acc, true)
}
