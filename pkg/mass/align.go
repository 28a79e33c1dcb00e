package mass

import "fmt"

// Rebase re-encodes the mass function's focal elements onto another frame.
// Every focal label must exist in the target frame.
func (m *MassFunction) Rebase(frame *Frame) (*MassFunction, error) {
	if m.frame.Equal(frame) {
		out := m.Copy()
		out.frame = frame
		return out, nil
	}
	focal := make(map[Subset]float64, len(m.focal))
	for h, v := range m.focal {
		nh, err := frame.Subset(m.frame.Labels(h)...)
		if err != nil {
			return nil, err
		}
		focal[nh] += v
	}
	return &MassFunction{frame: frame, declared: m.declared, focal: focal}, nil
}

// Align resolves the frame-compatibility contract for a binary rule:
//
//   - both operands declare a frame: the element sets must be equal,
//     otherwise ErrFrameMismatch;
//   - exactly one declares a frame: the result inherits it, and the other
//     operand must fit inside it;
//   - neither declares one: the working frame is the union of both
//     operands' focal elements, and stays marked as inferred.
//
// The returned operands share the resolved frame, so rule loops can use
// their subsets interchangeably. Rule results should be built with
// NewDerived from either aligned operand.
func Align(a, b *MassFunction) (*MassFunction, *MassFunction, error) {
	switch {
	case a.declared && b.declared:
		if !a.frame.Equal(b.frame) {
			return nil, nil, fmt.Errorf("%w: %v vs %v", ErrFrameMismatch, a.frame.Elements(), b.frame.Elements())
		}
		return a, b, nil
	case a.declared:
		rb, err := b.Rebase(a.frame)
		if err != nil {
			return nil, nil, err
		}
		rb.declared = true
		return a, rb, nil
	case b.declared:
		ra, err := a.Rebase(b.frame)
		if err != nil {
			return nil, nil, err
		}
		ra.declared = true
		return ra, b, nil
	default:
		union, err := NewFrame(append(a.frame.Elements(), b.frame.Elements()...)...)
		if err != nil {
			return nil, nil, err
		}
		ra, err := a.Rebase(union)
		if err != nil {
			return nil, nil, err
		}
		rb, err := b.Rebase(union)
		if err != nil {
			return nil, nil, err
		}
		return ra, rb, nil
	}
}

// AlignAll extends Align to N operands, as needed by N-ary rules and folds.
func AlignAll(ms []*MassFunction) ([]*MassFunction, error) {
	if len(ms) == 0 {
		return nil, fmt.Errorf("%w: no mass functions provided", ErrValidation)
	}
	var pinned *Frame
	for _, m := range ms {
		if !m.declared {
			continue
		}
		if pinned == nil {
			pinned = m.frame
			continue
		}
		if !pinned.Equal(m.frame) {
			return nil, fmt.Errorf("%w: %v vs %v", ErrFrameMismatch, pinned.Elements(), m.frame.Elements())
		}
	}
	declared := pinned != nil
	frame := pinned
	if frame == nil {
		var labels []string
		for _, m := range ms {
			labels = append(labels, m.frame.Elements()...)
		}
		var err error
		frame, err = NewFrame(labels...)
		if err != nil {
			return nil, err
		}
	}
	out := make([]*MassFunction, len(ms))
	for i, m := range ms {
		r, err := m.Rebase(frame)
		if err != nil {
			return nil, err
		}
		r.declared = declared
		out[i] = r
	}
	return out, nil
}

// NewDerived builds a rule result on the frame resolved by Align,
// preserving whether that frame was declared by the caller or inferred.
// With normalize, conflict mass is removed and the result rescaled
// (ErrTotalConflict if nothing remains); otherwise the raw, possibly
// conflict-bearing intermediate is returned.
func NewDerived(like *MassFunction, masses map[Subset]float64, normalize bool) (*MassFunction, error) {
	m, err := NewRaw(like.frame, masses)
	if err != nil {
		return nil, err
	}
	m.declared = like.declared
	if normalize {
		return m.Normalize()
	}
	return m, nil
}
