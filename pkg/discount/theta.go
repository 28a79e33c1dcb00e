package discount

import (
	"fmt"

	"dsfuse/pkg/mass"
)

// Block is one context of a Θ-contextual discounting: a block of the
// frame partition together with its discount rate.
type Block struct {
	Elements []string
	Rate     float64
}

// ThetaContextual applies Θ-contextual discounting: the contextual
// operator with contexts taken from a partition of the frame rather than
// from single elements. For blocks θ of the partition,
//
//	G(A,B) = ∏_θ  (1-α_θ)  if θ ∩ B ≠ ∅,
//	              α_θ      if θ ∩ B = ∅ and θ ∩ A ≠ ∅,
//	              1        otherwise,
//
// applied and renormalized exactly like Contextual. The partition must be
// a disjoint cover of Ω.
func ThetaContextual(m *mass.MassFunction, partition []Block) (*mass.MassFunction, error) {
	frame := m.Frame()
	full := frame.Full()

	blocks := make([]mass.Subset, len(partition))
	var covered mass.Subset
	allZero, allOne := true, true
	for i, blk := range partition {
		if err := checkRate(blk.Rate, "discount rate for block"); err != nil {
			return nil, err
		}
		s, err := frame.Subset(blk.Elements...)
		if err != nil {
			return nil, err
		}
		if s.IsEmpty() {
			return nil, fmt.Errorf("%w: empty partition block", mass.ErrInvalidPartition)
		}
		if covered.Intersects(s) {
			return nil, fmt.Errorf("%w: overlapping blocks", mass.ErrInvalidPartition)
		}
		covered = covered.Union(s)
		blocks[i] = s
		if blk.Rate != 0 {
			allZero = false
		}
		if blk.Rate != 1 {
			allOne = false
		}
	}
	if covered != full {
		return nil, fmt.Errorf("%w: blocks cover %s, frame is %s",
			mass.ErrInvalidPartition, frame.Format(covered), frame.Format(full))
	}

	if len(partition) == 0 || allZero {
		return m.Copy(), nil
	}
	if allOne {
		return mass.Vacuous(frame), nil
	}

	return applyMatrix(m, func(a, b mass.Subset) float64 {
		g := 1.0
		for i, theta := range blocks {
			switch {
			case theta.Intersects(b):
				g *= 1 - partition[i].Rate
			case theta.Intersects(a):
				g *= partition[i].Rate
			}
		}
		return g
	})
}
