package mass

import "math/bits"

// Subset is the canonical representation of a subset of a frame of
// discernment: a bitmask over the frame's fixed sorted-label ordering.
// Bit i set means the i-th label (in sorted order) is a member.
//
// A Subset is only meaningful relative to the Frame that produced it;
// Align rebases subsets when two mass functions carry different frames.
type Subset uint64

// Empty is the empty set. It represents conflict / contradiction when it
// appears as a focal element.
const Empty Subset = 0

// IsEmpty reports whether s is the empty set.
func (s Subset) IsEmpty() bool { return s == 0 }

// Card returns the cardinality |s|.
func (s Subset) Card() int { return bits.OnesCount64(uint64(s)) }

// Intersect returns s ∩ o.
func (s Subset) Intersect(o Subset) Subset { return s & o }

// Union returns s ∪ o.
func (s Subset) Union(o Subset) Subset { return s | o }

// Minus returns s ∖ o.
func (s Subset) Minus(o Subset) Subset { return s &^ o }

// SubsetOf reports whether s ⊆ o.
func (s Subset) SubsetOf(o Subset) bool { return s&^o == 0 }

// Intersects reports whether s ∩ o ≠ ∅.
func (s Subset) Intersects(o Subset) bool { return s&o != 0 }
