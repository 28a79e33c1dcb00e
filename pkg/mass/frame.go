// Package mass implements the core algebra of Dempster-Shafer evidence
// theory: frames of discernment, basic belief assignments (mass functions)
// over their subsets, and the derived belief, plausibility and commonality
// measures.
//
// Subsets are bitmasks over a fixed element ordering, so every set test a
// combination rule performs (intersection, union, subset, superset) is a
// single word operation. Frames are therefore capped at 64 elements; the
// exponential powerset enumerations elsewhere in the engine make larger
// frames unusable long before the cap matters.
package mass

import (
	"fmt"
	"sort"
	"strings"
)

// MaxFrameSize is the maximum number of atomic hypotheses in a frame,
// fixed by the bitmask subset representation.
const MaxFrameSize = 64

// Frame is an immutable frame of discernment: the finite set of mutually
// exclusive, exhaustive atomic hypotheses. Labels are deduplicated and held
// in sorted order; that ordering defines the bit positions of every Subset
// built on the frame. Equality is by element content.
type Frame struct {
	labels []string
	index  map[string]int
}

// NewFrame builds a frame from hypothesis labels. Duplicates are collapsed;
// empty label strings and frames with no hypotheses at all are rejected.
func NewFrame(labels ...string) (*Frame, error) {
	seen := make(map[string]struct{}, len(labels))
	uniq := make([]string, 0, len(labels))
	for _, l := range labels {
		if l == "" {
			return nil, fmt.Errorf("%w: empty hypothesis label", ErrValidation)
		}
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		uniq = append(uniq, l)
	}
	if len(uniq) == 0 {
		return nil, fmt.Errorf("%w: a frame needs at least one hypothesis", ErrValidation)
	}
	if len(uniq) > MaxFrameSize {
		return nil, fmt.Errorf("%w: frame has %d elements, maximum is %d", ErrValidation, len(uniq), MaxFrameSize)
	}
	sort.Strings(uniq)
	idx := make(map[string]int, len(uniq))
	for i, l := range uniq {
		idx[l] = i
	}
	return &Frame{labels: uniq, index: idx}, nil
}

// Size returns the number of atomic hypotheses |Ω|.
func (f *Frame) Size() int { return len(f.labels) }

// Contains reports whether label is an element of the frame.
func (f *Frame) Contains(label string) bool {
	_, ok := f.index[label]
	return ok
}

// Elements returns the frame's labels in their canonical sorted order.
func (f *Frame) Elements() []string {
	out := make([]string, len(f.labels))
	copy(out, f.labels)
	return out
}

// Equal reports whether two frames have the same element set.
func (f *Frame) Equal(other *Frame) bool {
	if f == other {
		return true
	}
	if other == nil || len(f.labels) != len(other.labels) {
		return false
	}
	for i, l := range f.labels {
		if other.labels[i] != l {
			return false
		}
	}
	return true
}

// Full returns Ω as a subset: the total-ignorance focal element.
func (f *Frame) Full() Subset {
	return Subset(1)<<uint(len(f.labels)) - 1
}

// Subset encodes a collection of labels as a bitmask subset of the frame.
func (f *Frame) Subset(labels ...string) (Subset, error) {
	var s Subset
	for _, l := range labels {
		i, ok := f.index[l]
		if !ok {
			return Empty, fmt.Errorf("%w: element %q not in frame", ErrValidation, l)
		}
		s |= Subset(1) << uint(i)
	}
	return s, nil
}

// Powerset enumerates all 2^|Ω| subsets of the frame, the empty set first
// and Ω last. Each call returns a fresh slice, so the enumeration is
// restartable; several rules consume it independently.
func (f *Frame) Powerset() []Subset {
	total := uint64(1) << uint(f.Size())
	out := make([]Subset, total)
	for i := uint64(0); i < total; i++ {
		out[i] = Subset(i)
	}
	return out
}

// Labels decodes a subset back to its member labels in sorted order.
func (f *Frame) Labels(s Subset) []string {
	out := make([]string, 0, s.Card())
	for i, l := range f.labels {
		if s&(Subset(1)<<uint(i)) != 0 {
			out = append(out, l)
		}
	}
	return out
}

// Format renders a subset in the interchange form used by every external
// adapter and fixture: "{a,b,c}" with sorted, comma-separated labels, or
// "{}" for the empty set. The output must stay bit-for-bit stable.
func (f *Frame) Format(s Subset) string {
	return "{" + strings.Join(f.Labels(s), ",") + "}"
}

// Parse decodes the "{a,b,c}" interchange form into a subset. "{}" is the
// empty set. Whitespace around labels is tolerated on input, unknown labels
// are rejected.
func (f *Frame) Parse(text string) (Subset, error) {
	t := strings.TrimSpace(text)
	if !strings.HasPrefix(t, "{") || !strings.HasSuffix(t, "}") {
		return Empty, fmt.Errorf("%w: subset %q is not in {a,b} form", ErrValidation, text)
	}
	inner := strings.TrimSpace(t[1 : len(t)-1])
	if inner == "" {
		return Empty, nil
	}
	parts := strings.Split(inner, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return f.Subset(parts...)
}

// SubsetLabels extracts the set of labels mentioned in a "{a,b}" string
// without requiring a frame. Used to infer a frame from raw focal keys.
func SubsetLabels(text string) ([]string, error) {
	t := strings.TrimSpace(text)
	if !strings.HasPrefix(t, "{") || !strings.HasSuffix(t, "}") {
		return nil, fmt.Errorf("%w: subset %q is not in {a,b} form", ErrValidation, text)
	}
	inner := strings.TrimSpace(t[1 : len(t)-1])
	if inner == "" {
		return nil, nil
	}
	parts := strings.Split(inner, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
		if parts[i] == "" {
			return nil, fmt.Errorf("%w: subset %q has an empty label", ErrValidation, text)
		}
	}
	return parts, nil
}
