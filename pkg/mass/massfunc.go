package mass

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// SumTolerance is the tolerance within which a normalized mass function's
// masses must sum to 1.
const SumTolerance = 1e-10

// MassFunction is a basic belief assignment (BBA): a sparse mapping from
// focal elements (subsets of the frame) to masses in (0,1]. Stored masses
// are always finite and strictly positive; zero-mass entries are pruned on
// construction. A normalized mass function sums to 1 within SumTolerance;
// an unnormalized one (built with NewRaw) is a transient intermediate used
// by combination rules and may carry mass on the empty set.
//
// Mass functions are immutable from the caller's perspective: every rule
// and discounting operator returns a brand-new value, and values are safe
// to share across goroutines once constructed.
type MassFunction struct {
	frame    *Frame
	declared bool // frame was supplied by the caller, not inferred from focals
	focal    map[Subset]float64
}

func validateMasses(frame *Frame, masses map[Subset]float64) (map[Subset]float64, error) {
	full := frame.Full()
	out := make(map[Subset]float64, len(masses))
	for h, v := range masses {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: mass for %s is not finite", ErrValidation, frame.Format(h))
		}
		if v < 0 {
			return nil, fmt.Errorf("%w: negative mass %g for %s", ErrValidation, v, frame.Format(h))
		}
		if !h.SubsetOf(full) {
			return nil, fmt.Errorf("%w: focal element outside the frame", ErrValidation)
		}
		if v == 0 {
			continue // zero-mass entries are never stored
		}
		out[h] = v
	}
	return out, nil
}

// New builds a validated, normalized mass function on an explicitly
// declared frame. Negative, NaN or infinite masses are rejected; zero
// masses are dropped; mass on the empty set is treated as conflict and
// removed by normalization. If everything was conflict the result is
// ErrTotalConflict.
func New(frame *Frame, masses map[Subset]float64) (*MassFunction, error) {
	m, err := NewRaw(frame, masses)
	if err != nil {
		return nil, err
	}
	return m.Normalize()
}

// NewRaw builds a validated but unnormalized mass function: the transient
// intermediate state combination rules work in. The masses are stored as
// given (minus zero entries); the Σ=1 invariant is not enforced and the
// empty set may be focal.
func NewRaw(frame *Frame, masses map[Subset]float64) (*MassFunction, error) {
	if frame == nil {
		return nil, fmt.Errorf("%w: nil frame", ErrValidation)
	}
	focal, err := validateMasses(frame, masses)
	if err != nil {
		return nil, err
	}
	return &MassFunction{frame: frame, declared: true, focal: focal}, nil
}

// FromStrings builds a normalized mass function from the interchange form:
// a map of "{a,b}" subset keys to masses. If frame is nil it is inferred
// from the union of the keys' labels and the result is marked as carrying
// an inferred frame for the purposes of the frame-compatibility rule.
func FromStrings(frame *Frame, bba map[string]float64) (*MassFunction, error) {
	declared := frame != nil
	if frame == nil {
		var labels []string
		for k := range bba {
			ls, err := SubsetLabels(k)
			if err != nil {
				return nil, err
			}
			labels = append(labels, ls...)
		}
		var err error
		frame, err = NewFrame(labels...)
		if err != nil {
			return nil, err
		}
	}
	masses := make(map[Subset]float64, len(bba))
	for k, v := range bba {
		h, err := frame.Parse(k)
		if err != nil {
			return nil, err
		}
		masses[h] += v // duplicate-equivalent keys merge by summation
	}
	m, err := New(frame, masses)
	if err != nil {
		return nil, err
	}
	m.declared = declared
	return m, nil
}

// Vacuous returns the total-ignorance mass function {Ω: 1}, the identity
// element of conjunctive combination.
func Vacuous(frame *Frame) *MassFunction {
	return &MassFunction{
		frame:    frame,
		declared: true,
		focal:    map[Subset]float64{frame.Full(): 1},
	}
}

// Frame returns the frame of discernment the focal elements live on.
func (m *MassFunction) Frame() *Frame { return m.frame }

// FrameDeclared reports whether the frame was supplied by the caller.
// Inferred frames (built from the union of focal labels) are compatible
// with any operand; declared frames must match exactly.
func (m *MassFunction) FrameDeclared() bool { return m.declared }

// Mass returns the mass assigned to h, zero if h is not focal.
func (m *MassFunction) Mass(h Subset) float64 { return m.focal[h] }

// Len returns the number of focal elements.
func (m *MassFunction) Len() int { return len(m.focal) }

// Sum returns the total stored mass. 1 within SumTolerance for a
// normalized mass function.
func (m *MassFunction) Sum() float64 {
	var t float64
	for _, v := range m.focal {
		t += v
	}
	return t
}

// Focals returns the focal elements sorted by cardinality then bit value,
// a deterministic order for iteration and display.
func (m *MassFunction) Focals() []Subset {
	out := make([]Subset, 0, len(m.focal))
	for h := range m.focal {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool {
		if ci, cj := out[i].Card(), out[j].Card(); ci != cj {
			return ci < cj
		}
		return out[i] < out[j]
	})
	return out
}

// Each calls fn for every focal element. Iteration order is unspecified;
// use Focals for a deterministic order.
func (m *MassFunction) Each(fn func(h Subset, v float64)) {
	for h, v := range m.focal {
		fn(h, v)
	}
}

// IsNormalized reports whether the stored masses sum to 1 within
// SumTolerance and no mass sits on the empty set.
func (m *MassFunction) IsNormalized() bool {
	if _, ok := m.focal[Empty]; ok {
		return false
	}
	return math.Abs(m.Sum()-1) < SumTolerance
}

// Normalize removes the conflict mass on the empty set without
// redistributing it, then rescales the remaining masses to sum to 1.
// The receiver is not mutated. If all mass was conflict the distinguished
// ErrTotalConflict outcome is returned.
func (m *MassFunction) Normalize() (*MassFunction, error) {
	var total float64
	for h, v := range m.focal {
		if h.IsEmpty() {
			continue
		}
		total += v
	}
	if total == 0 {
		return nil, ErrTotalConflict
	}
	focal := make(map[Subset]float64, len(m.focal))
	for h, v := range m.focal {
		if h.IsEmpty() {
			continue
		}
		focal[h] = v / total
	}
	return &MassFunction{frame: m.frame, declared: m.declared, focal: focal}, nil
}

// Copy returns an independent copy.
func (m *MassFunction) Copy() *MassFunction {
	focal := make(map[Subset]float64, len(m.focal))
	for h, v := range m.focal {
		focal[h] = v
	}
	return &MassFunction{frame: m.frame, declared: m.declared, focal: focal}
}

// Belief returns Bel(h): the sum of masses of every focal element contained
// in h. Scans the focal elements only, never the powerset.
func (m *MassFunction) Belief(h Subset) float64 {
	var t float64
	for a, v := range m.focal {
		if !a.IsEmpty() && a.SubsetOf(h) {
			t += v
		}
	}
	return t
}

// Plausibility returns Pl(h): the sum of masses of every focal element
// intersecting h. Bel(h) ≤ Pl(h) always.
func (m *MassFunction) Plausibility(h Subset) float64 {
	var t float64
	for a, v := range m.focal {
		if a.Intersects(h) {
			t += v
		}
	}
	return t
}

// Commonality returns Q(h): the sum of masses of every focal superset of h.
// This is the measure the canonical decomposition Möbius-inverts.
func (m *MassFunction) Commonality(h Subset) float64 {
	var t float64
	for a, v := range m.focal {
		if h.SubsetOf(a) {
			t += v
		}
	}
	return t
}

// BeliefOf is Belief with the hypothesis given as labels.
func (m *MassFunction) BeliefOf(labels ...string) (float64, error) {
	h, err := m.frame.Subset(labels...)
	if err != nil {
		return 0, err
	}
	return m.Belief(h), nil
}

// PlausibilityOf is Plausibility with the hypothesis given as labels.
func (m *MassFunction) PlausibilityOf(labels ...string) (float64, error) {
	h, err := m.frame.Subset(labels...)
	if err != nil {
		return 0, err
	}
	return m.Plausibility(h), nil
}

// CommonalityOf is Commonality with the hypothesis given as labels.
func (m *MassFunction) CommonalityOf(labels ...string) (float64, error) {
	h, err := m.frame.Subset(labels...)
	if err != nil {
		return 0, err
	}
	return m.Commonality(h), nil
}

// AlmostEqual reports whether two mass functions agree on every focal
// element within tol. Frames must have equal element sets.
func (m *MassFunction) AlmostEqual(other *MassFunction, tol float64) bool {
	if !m.frame.Equal(other.frame) {
		return false
	}
	for h, v := range m.focal {
		if math.Abs(v-other.focal[h]) > tol {
			return false
		}
	}
	for h, v := range other.focal {
		if math.Abs(v-m.focal[h]) > tol {
			return false
		}
	}
	return true
}

// Strings renders the mass function in the interchange form: a map of
// "{a,b}" keys to masses.
func (m *MassFunction) Strings() map[string]float64 {
	out := make(map[string]float64, len(m.focal))
	for h, v := range m.focal {
		out[m.frame.Format(h)] = v
	}
	return out
}

func (m *MassFunction) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, h := range m.Focals() {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s: %.4f", m.frame.Format(h), m.focal[h])
	}
	b.WriteByte('}')
	return b.String()
}
